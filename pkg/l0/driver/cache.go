package driver

import (
	"go.uber.org/atomic"

	"github.com/robotalks/radiopanel/pkg/l0/proto"
)

// Cache holds the latest Reading. Each Publish swaps in a fresh record,
// so a reader sees all fields of exactly one publish.
type Cache struct {
	latest atomic.Pointer[proto.Reading]
}

// Publish replaces the cached reading.
func (c *Cache) Publish(r proto.Reading) {
	c.latest.Store(&r)
}

// Read returns the latest reading, zero before the first Publish.
func (c *Cache) Read() proto.Reading {
	if r := c.latest.Load(); r != nil {
		return *r
	}
	return proto.Reading{}
}

// Package bus provides the byte transports between host and panel
// firmware.
//
// A Transport is half-duplex: the host writes a command, then reads the
// reply. Transports never retry; the caller decides what to do with
// a failed operation.
package bus

import (
	"io"
	"time"
)

// Transport is an open handle to the bus device.
type Transport interface {
	io.Writer
	io.Reader
	io.Closer
}

// Defaults of the panel wiring.
const (
	DefaultI2CPath    = "/dev/i2c-1"
	DefaultI2CAddr    = 0x50
	DefaultSerialBaud = 115200
)

// Option customizes a transport being opened.
type Option func(*options)

type options struct {
	timeout time.Duration
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTimeout sets the per operation timeout handed to the device
// (kernel I2C timeout, serial read timeout).
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

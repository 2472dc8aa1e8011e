package driver

import (
	"sync"

	"github.com/robotalks/radiopanel/pkg/l0/proto"
)

// Outbox is a FIFO of commands waiting to be written.
// Any goroutine may Enqueue, only the poll loop drains.
type Outbox struct {
	lock sync.Mutex
	cmds []proto.Command
}

// Enqueue appends a command.
func (o *Outbox) Enqueue(cmd proto.Command) {
	o.lock.Lock()
	o.cmds = append(o.cmds, cmd)
	o.lock.Unlock()
}

// DrainOne pops the oldest command.
func (o *Outbox) DrainOne() (proto.Command, bool) {
	o.lock.Lock()
	defer o.lock.Unlock()
	if len(o.cmds) == 0 {
		return 0, false
	}
	cmd := o.cmds[0]
	if o.cmds = o.cmds[1:]; len(o.cmds) == 0 {
		o.cmds = nil
	}
	return cmd, true
}

// Discard drops all queued commands and tells how many.
func (o *Outbox) Discard() int {
	o.lock.Lock()
	n := len(o.cmds)
	o.cmds = nil
	o.lock.Unlock()
	return n
}

// Len is the number of queued commands.
func (o *Outbox) Len() int {
	o.lock.Lock()
	defer o.lock.Unlock()
	return len(o.cmds)
}

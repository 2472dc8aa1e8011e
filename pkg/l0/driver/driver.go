package driver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"go.uber.org/atomic"

	"github.com/robotalks/radiopanel/pkg/l0/bus"
	"github.com/robotalks/radiopanel/pkg/l0/proto"
)

// Driver polls the panel firmware over a bus.
type Driver struct {
	transport bus.Transport
	codec     proto.Codec
	interval  time.Duration
	notifier  LinkNotifier

	cache  Cache
	outbox Outbox

	state    atomic.Int32
	stopping atomic.Bool
	linkDown atomic.Bool
	// cmdDown is set while command writes keep failing.
	cmdDown  atomic.Bool
	lightOn  atomic.Bool

	cycles   atomic.Uint64
	failures atomic.Uint64
	sent     atomic.Uint64
	dropped  atomic.Uint64

	cmdBuf [1]byte
	frame  []byte

	stopOnce sync.Once
	wakeCh   chan struct{}
	doneCh   chan struct{}
}

// Stats are counters of a Driver.
type Stats struct {
	Cycles   uint64
	Failures uint64
	Sent     uint64
	Dropped  uint64
}

// Open checks the frame encoding, opens the bus and starts the poll loop.
// Nothing is left open when an error is returned.
func Open(cfg Config) (*Driver, error) {
	codec := cfg.Codec
	if codec == nil {
		codec = proto.DefaultCodec
	}
	if err := proto.CheckFrameSize(codec); err != nil {
		if cfg.Transport != nil {
			cfg.Transport.Close()
		}
		return nil, err
	}
	t := cfg.Transport
	if t == nil {
		var err error
		if t, err = bus.Open(cfg.BusURL, bus.WithTimeout(cfg.IOTimeout)); err != nil {
			return nil, fmt.Errorf("open bus %q: %w", cfg.BusURL, err)
		}
	}
	d := newDriver(bus.WithDeadline(t, cfg.IOTimeout), codec, cfg)
	go d.loop()
	glog.Infof("panel driver started: bus=%q interval=%v", cfg.BusURL, d.interval)
	return d, nil
}

func newDriver(t bus.Transport, codec proto.Codec, cfg Config) *Driver {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Driver{
		transport: t,
		codec:     codec,
		interval:  interval,
		notifier:  cfg.Notifier,
		frame:     make([]byte, codec.Size()),
		wakeCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// ReadSnapshot returns the latest reading without blocking.
func (d *Driver) ReadSnapshot() proto.Reading {
	return d.cache.Read()
}

// Enqueue queues a command for the next cycle.
func (d *Driver) Enqueue(cmd proto.Command) error {
	if !cmd.IsQueueable() {
		return fmt.Errorf("%w: %v", ErrInvalidCommand, cmd)
	}
	if d.stopping.Load() {
		return ErrStopped
	}
	d.outbox.Enqueue(cmd)
	return nil
}

// SetLight queues a light command.
func (d *Driver) SetLight(on bool) error {
	return d.Enqueue(proto.LightCommand(on))
}

// LightOn tells the last light state written to the firmware.
func (d *Driver) LightOn() bool {
	return d.lightOn.Load()
}

// LinkUp is false while bus operations keep failing.
func (d *Driver) LinkUp() bool {
	return !d.linkDown.Load()
}

// State is the current phase of the poll loop.
func (d *Driver) State() State {
	return State(d.state.Load())
}

// Pending is the number of queued commands.
func (d *Driver) Pending() int {
	return d.outbox.Len()
}

// Stats returns the counters.
func (d *Driver) Stats() Stats {
	return Stats{
		Cycles:   d.cycles.Load(),
		Failures: d.failures.Load(),
		Sent:     d.sent.Load(),
		Dropped:  d.dropped.Load(),
	}
}

// Done is closed once the poll loop exited and the bus is released.
func (d *Driver) Done() <-chan struct{} {
	return d.doneCh
}

// Shutdown stops the poll loop and waits until the bus is released.
// It's safe to call more than once.
func (d *Driver) Shutdown() {
	d.stopOnce.Do(func() {
		d.stopping.Store(true)
		close(d.wakeCh)
	})
	<-d.doneCh
}

// Run implements framework.Runnable. It shuts the driver down when ctx
// is done.
func (d *Driver) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		d.Shutdown()
		return ctx.Err()
	case <-d.doneCh:
		return nil
	}
}

package driver

import (
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/radiopanel/pkg/l0/bus"
	"github.com/robotalks/radiopanel/pkg/l0/proto"
)

// warningf reports failures, at most once per failure episode.
var warningf = glog.Warningf

func (d *Driver) setState(s State) {
	d.state.Store(int32(s))
}

func (d *Driver) loop() {
	defer close(d.doneCh)
	defer d.release()
	timer := time.NewTimer(d.interval)
	defer timer.Stop()
	for {
		d.setState(StateRunning)
		select {
		case <-timer.C:
		case <-d.wakeCh:
		}
		if d.stopping.Load() {
			return
		}
		d.cycle()
		timer.Reset(d.interval)
	}
}

func (d *Driver) release() {
	d.setState(StateStopped)
	if err := d.transport.Close(); err != nil {
		glog.Warningf("close bus: %v", err)
	}
	glog.Info("panel driver stopped")
}

// cycle runs one exchange with the firmware: queued commands, then a
// read request and its reply.
func (d *Driver) cycle() error {
	d.cycles.Inc()
	d.drainCommands()

	d.setState(StateRequestingRead)
	if err := d.write(proto.ReadRequest); err != nil {
		d.linkFailed(fmt.Errorf("request reading: %w", err))
		return err
	}

	d.setState(StateAwaitingResponse)
	n, err := d.transport.Read(d.frame)
	if err == nil && n != len(d.frame) {
		err = fmt.Errorf("%w: %d of %d bytes", bus.ErrShortRead, n, len(d.frame))
	}
	var reading proto.Reading
	if err == nil {
		reading, err = d.codec.Decode(d.frame)
	}
	if err != nil {
		d.linkFailed(fmt.Errorf("read reply: %w", err))
		return err
	}

	d.linkRecovered()
	d.cache.Publish(reading)
	glog.V(4).Infof("reading: %v", reading)
	return nil
}

func (d *Driver) write(cmd proto.Command) error {
	d.cmdBuf[0] = byte(cmd)
	n, err := d.transport.Write(d.cmdBuf[:])
	if err == nil && n != len(d.cmdBuf) {
		err = bus.ErrShortWrite
	}
	return err
}

// drainCommands writes queued commands until the outbox is empty.
// On the first failure the remaining commands are dropped, commands are
// delivered at most once.
func (d *Driver) drainCommands() {
	d.setState(StateDrainingCommands)
	for {
		cmd, ok := d.outbox.DrainOne()
		if !ok {
			return
		}
		if err := d.write(cmd); err != nil {
			dropped := 1 + d.outbox.Discard()
			d.dropped.Add(uint64(dropped))
			d.commandFailed(fmt.Errorf("write %v: %w", cmd, err), dropped)
			return
		}
		d.cmdDown.Store(false)
		d.sent.Inc()
		d.lightOn.Store(cmd == proto.LightOn)
	}
}

// commandFailed is quiet while the link is already known down or an
// earlier command write failed since the last success.
func (d *Driver) commandFailed(err error, dropped int) {
	if d.cmdDown.Swap(true) || d.linkDown.Load() {
		glog.V(2).Infof("%v, %d command(s) dropped", err, dropped)
		return
	}
	warningf("%v, %d command(s) dropped", err, dropped)
}

func (d *Driver) linkFailed(err error) {
	d.failures.Inc()
	d.setState(StateFailedBackoff)
	if d.linkDown.Swap(true) {
		return
	}
	warningf("panel link down: %v", err)
	if d.notifier != nil {
		d.notifier.LinkChanged(false, err)
	}
}

func (d *Driver) linkRecovered() {
	if !d.linkDown.Swap(false) {
		return
	}
	d.cmdDown.Store(false)
	glog.Info("panel link recovered")
	if d.notifier != nil {
		d.notifier.LinkChanged(true, nil)
	}
}

package bus

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/robotalks/radiopanel/pkg/l0/proto"
)

// SimDevice is an in-memory panel firmware. It answers ReadRequest with
// the current reading, switches the light on light commands and raises
// the fault indicator on anything else.
type SimDevice struct {
	lock    sync.Mutex
	reading proto.Reading
	light   bool
	fault   bool
	offline bool
	closed  bool
	reply   []byte
}

// NewSimDevice creates a SimDevice reporting r.
func NewSimDevice(r proto.Reading) *SimDevice {
	return &SimDevice{reading: r}
}

func simFromQuery(q url.Values) (*SimDevice, error) {
	var r proto.Reading
	fields := []struct {
		key string
		max uint64
		set func(uint64)
	}{
		{"tuner", 0xffff, func(v uint64) { r.Tuner = uint16(v) }},
		{"a", 0xffff, func(v uint64) { r.KnobA = uint16(v) }},
		{"b", 0xffff, func(v uint64) { r.KnobB = uint16(v) }},
		{"c", 0xffff, func(v uint64) { r.KnobC = uint16(v) }},
		{"switch", 0xff, func(v uint64) { r.Switch = uint8(v) }},
	}
	for _, f := range fields {
		v, err := queryUint(q, f.key, 0, f.max)
		if err != nil {
			return nil, fmt.Errorf("sim: %w", err)
		}
		f.set(v)
	}
	return NewSimDevice(r), nil
}

// Write implements Transport.
func (d *SimDevice) Write(p []byte) (int, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if err := d.check(); err != nil {
		return 0, err
	}
	for _, b := range p {
		switch cmd := proto.Command(b); cmd {
		case proto.ReadRequest:
			d.reply = proto.DefaultCodec.Encode(d.reading)
		case proto.LightOff, proto.LightOn:
			d.light = cmd == proto.LightOn
		default:
			d.fault = true
		}
	}
	return len(p), nil
}

// Read implements Transport. Only one read follows a ReadRequest.
func (d *SimDevice) Read(p []byte) (int, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if err := d.check(); err != nil {
		return 0, err
	}
	reply := d.reply
	d.reply = nil
	n := copy(p, reply)
	if n < len(p) {
		return n, ErrShortRead
	}
	return n, nil
}

// Close implements Transport.
func (d *SimDevice) Close() error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.closed = true
	return nil
}

func (d *SimDevice) check() error {
	if d.closed {
		return ErrClosed
	}
	if d.offline {
		return ErrNoDevice
	}
	return nil
}

// SetReading changes the controls reported from now on.
func (d *SimDevice) SetReading(r proto.Reading) {
	d.lock.Lock()
	d.reading = r
	d.lock.Unlock()
}

// SetOffline simulates a disconnected device.
func (d *SimDevice) SetOffline(offline bool) {
	d.lock.Lock()
	d.offline = offline
	d.lock.Unlock()
}

// LightOn tells the state of the light.
func (d *SimDevice) LightOn() bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.light
}

// Fault tells if an unknown command was received.
func (d *SimDevice) Fault() bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.fault
}

// Closed tells if the device was closed.
func (d *SimDevice) Closed() bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.closed
}

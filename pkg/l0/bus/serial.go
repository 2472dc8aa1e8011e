package bus

import (
	"io"
	"time"

	"github.com/tarm/serial"

	"github.com/robotalks/radiopanel/pkg/l0/proto"
)

// the serial driver polls with a granularity of 100ms.
const minSerialTimeout = 100 * time.Millisecond

// OpenSerial opens a serial port. Every frame in both directions is
// wrapped in a proto envelope.
func OpenSerial(name string, baud int, opts ...Option) (Transport, error) {
	o := newOptions(opts)
	timeout := o.timeout
	if timeout < minSerialTimeout {
		timeout = minSerialTimeout
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		Parity:      serial.ParityNone,
		ReadTimeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	return NewEnvelopeTransport(port), nil
}

// EnvelopeTransport frames writes and reads over a byte stream.
type EnvelopeTransport struct {
	port    io.ReadWriteCloser
	parser  proto.EnvelopeParser
	rbuf    [64]byte
	pending []byte
}

// NewEnvelopeTransport wraps a stream, typically a serial port which
// returns 0 bytes when its read timeout expires.
func NewEnvelopeTransport(port io.ReadWriteCloser) *EnvelopeTransport {
	return &EnvelopeTransport{port: port}
}

// Write sends p as the payload of one envelope.
func (t *EnvelopeTransport) Write(p []byte) (int, error) {
	env, err := proto.Wrap(p)
	if err != nil {
		return 0, err
	}
	n, err := t.port.Write(env)
	if err != nil {
		return 0, err
	}
	if n < len(env) {
		return 0, ErrShortWrite
	}
	return len(p), nil
}

// Read receives the payload of the next envelope.
func (t *EnvelopeTransport) Read(p []byte) (int, error) {
	for {
		for len(t.pending) > 0 {
			b := t.pending[0]
			t.pending = t.pending[1:]
			payload, done, err := t.parser.Parse(b)
			if !done {
				continue
			}
			if err != nil {
				return 0, err
			}
			n := copy(p, payload)
			if n < len(payload) {
				return n, io.ErrShortBuffer
			}
			return n, nil
		}
		n, err := t.port.Read(t.rbuf[:])
		if n > 0 {
			t.pending = t.rbuf[:n]
			continue
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		// read timeout, a partial envelope never completes.
		t.parser.Reset()
		return 0, ErrTimeout
	}
}

// Close closes the underlying port.
func (t *EnvelopeTransport) Close() error {
	return t.port.Close()
}

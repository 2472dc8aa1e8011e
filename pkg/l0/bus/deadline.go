package bus

import (
	"time"

	"go.uber.org/atomic"
)

type deadlineTransport struct {
	t       Transport
	timeout time.Duration
	busy    atomic.Bool
	buf     []byte
}

type opResult struct {
	n   int
	err error
}

// WithDeadline bounds every Read and Write on t by timeout. An operation
// exceeding it fails with ErrTimeout and keeps running in background;
// until it returns, further operations fail with ErrBusy.
// Data is staged in an internal buffer so a late operation never touches
// the caller's slice.
func WithDeadline(t Transport, timeout time.Duration) Transport {
	if timeout <= 0 {
		return t
	}
	return &deadlineTransport{t: t, timeout: timeout}
}

func (d *deadlineTransport) stage(size int) []byte {
	if cap(d.buf) < size {
		d.buf = make([]byte, size)
	}
	return d.buf[:size]
}

func (d *deadlineTransport) Write(p []byte) (int, error) {
	if !d.busy.CompareAndSwap(false, true) {
		return 0, ErrBusy
	}
	buf := d.stage(len(p))
	copy(buf, p)
	res := d.run(func() (int, error) { return d.t.Write(buf) })
	return res.n, res.err
}

func (d *deadlineTransport) Read(p []byte) (int, error) {
	if !d.busy.CompareAndSwap(false, true) {
		return 0, ErrBusy
	}
	buf := d.stage(len(p))
	res := d.run(func() (int, error) { return d.t.Read(buf) })
	if res.n > 0 {
		copy(p, buf[:res.n])
	}
	return res.n, res.err
}

// run must be called with busy set, it clears busy once fn returns.
func (d *deadlineTransport) run(fn func() (int, error)) opResult {
	resultCh := make(chan opResult, 1)
	go func() {
		n, err := fn()
		resultCh <- opResult{n: n, err: err}
	}()
	timer := time.NewTimer(d.timeout)
	defer timer.Stop()
	select {
	case res := <-resultCh:
		d.busy.Store(false)
		return res
	case <-timer.C:
		go func() {
			<-resultCh
			d.busy.Store(false)
		}()
		return opResult{err: ErrTimeout}
	}
}

func (d *deadlineTransport) Close() error {
	return d.t.Close()
}

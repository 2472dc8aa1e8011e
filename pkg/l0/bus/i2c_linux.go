package bus

import (
	"fmt"
	"os"
	"time"

	"github.com/golang/glog"
	"go.uber.org/atomic"
	"golang.org/x/sys/unix"
)

// ioctls from linux/i2c-dev.h.
const (
	i2cSlave   = 0x0703
	i2cTimeout = 0x0702 // in units of 10ms
)

type i2cTransport struct {
	fd     int
	path   string
	closed atomic.Bool
}

// OpenI2C opens an I2C device node and selects the peer address.
func OpenI2C(path string, addr uint16, opts ...Option) (Transport, error) {
	o := newOptions(opts)
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	if err := unix.IoctlSetInt(fd, i2cSlave, int(addr)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%s: acquire address 0x%02x: %w", path, addr, err)
	}
	if o.timeout > 0 {
		ticks := int((o.timeout + 10*time.Millisecond - 1) / (10 * time.Millisecond))
		if err := unix.IoctlSetInt(fd, i2cTimeout, ticks); err != nil {
			glog.Warningf("%s: set timeout %v: %v", path, o.timeout, err)
		}
	}
	return &i2cTransport{fd: fd, path: path}, nil
}

func (t *i2cTransport) Write(p []byte) (int, error) {
	if t.closed.Load() {
		return 0, ErrClosed
	}
	n, err := unix.Write(t.fd, p)
	if err != nil {
		return 0, &os.PathError{Op: "write", Path: t.path, Err: err}
	}
	if n < len(p) {
		return n, ErrShortWrite
	}
	return n, nil
}

func (t *i2cTransport) Read(p []byte) (int, error) {
	if t.closed.Load() {
		return 0, ErrClosed
	}
	n, err := unix.Read(t.fd, p)
	if err != nil {
		return 0, &os.PathError{Op: "read", Path: t.path, Err: err}
	}
	if n < len(p) {
		return n, ErrShortRead
	}
	return n, nil
}

func (t *i2cTransport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return unix.Close(t.fd)
}

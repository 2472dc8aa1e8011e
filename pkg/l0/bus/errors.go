package bus

import "errors"

var (
	// ErrShortWrite indicates fewer bytes were accepted by the device.
	ErrShortWrite = errors.New("short write")
	// ErrShortRead indicates fewer bytes were returned by the device.
	ErrShortRead = errors.New("short read")
	// ErrTimeout indicates an operation missed its deadline.
	ErrTimeout = errors.New("bus timeout")
	// ErrBusy indicates a previous operation timed out and hasn't returned yet.
	ErrBusy = errors.New("bus busy")
	// ErrUnsupported indicates the transport isn't available on this platform.
	ErrUnsupported = errors.New("unsupported transport")
	// ErrClosed indicates the transport is closed.
	ErrClosed = errors.New("transport closed")
	// ErrUnknownScheme indicates an unknown bus URL scheme.
	ErrUnknownScheme = errors.New("unknown bus scheme")
	// ErrNoDevice indicates the device doesn't respond.
	ErrNoDevice = errors.New("no device")
)

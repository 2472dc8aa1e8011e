package driver

import "errors"

var (
	// ErrInvalidCommand indicates a command consumers can't enqueue.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrStopped indicates the driver is shut down.
	ErrStopped = errors.New("driver stopped")
)

package proto

import (
	"errors"
	"fmt"
)

var (
	// ErrFrameSize indicates host and firmware disagree on the frame layout.
	ErrFrameSize = errors.New("frame size mismatch")
	// ErrFrameLength indicates a buffer of the wrong length was decoded.
	ErrFrameLength = errors.New("invalid frame length")
	// ErrChecksum indicates an envelope failed CRC verification.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrPayloadTooLarge indicates the payload doesn't fit in an envelope.
	ErrPayloadTooLarge = errors.New("payload too large")
)

// FrameSizeError carries the sizes in a frame size mismatch.
type FrameSizeError struct {
	Expected int
	Actual   int
}

// Error implements error.
func (e *FrameSizeError) Error() string {
	return fmt.Sprintf("%v: expect %d bytes, encoding has %d", ErrFrameSize, e.Expected, e.Actual)
}

// Unwrap makes errors.Is(err, ErrFrameSize) work.
func (e *FrameSizeError) Unwrap() error {
	return ErrFrameSize
}

package proto

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// FrameSize is the agreed size of a reading frame.
const FrameSize = 9

// Reading is one sample of all panel controls.
type Reading struct {
	Tuner  uint16
	KnobA  uint16
	KnobB  uint16
	KnobC  uint16
	Switch uint8
}

func (r Reading) String() string {
	return fmt.Sprintf("tuner=%d a=%d b=%d c=%d switch=%d",
		r.Tuner, r.KnobA, r.KnobB, r.KnobC, r.Switch)
}

// Codec converts readings from/to frames.
type Codec interface {
	// Size is the frame size of the encoding.
	Size() int
	Decode(frame []byte) (Reading, error)
	Encode(Reading) []byte
}

// wireReading is the packed frame layout, the same struct the firmware
// sends.
type wireReading struct {
	Tuner  uint16
	KnobA  uint16
	KnobB  uint16
	KnobC  uint16
	Switch uint8
}

type binaryCodec struct{}

// DefaultCodec is the little-endian codec used by the firmware.
var DefaultCodec Codec = binaryCodec{}

func (binaryCodec) Size() int {
	return binary.Size(wireReading{})
}

func (c binaryCodec) Decode(frame []byte) (Reading, error) {
	if len(frame) != c.Size() {
		return Reading{}, fmt.Errorf("%w: %d bytes", ErrFrameLength, len(frame))
	}
	var w wireReading
	if err := binary.Read(bytes.NewReader(frame), binary.LittleEndian, &w); err != nil {
		return Reading{}, err
	}
	return Reading(w), nil
}

func (c binaryCodec) Encode(r Reading) []byte {
	var buf bytes.Buffer
	buf.Grow(c.Size())
	// writes to bytes.Buffer never fail.
	binary.Write(&buf, binary.LittleEndian, wireReading(r))
	return buf.Bytes()
}

// CheckFrameSize validates the codec against FrameSize.
func CheckFrameSize(c Codec) error {
	if size := c.Size(); size != FrameSize {
		return &FrameSizeError{Expected: FrameSize, Actual: size}
	}
	return nil
}

package proto

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameSize(t *testing.T) {
	require.Equal(t, FrameSize, DefaultCodec.Size())
	require.NoError(t, CheckFrameSize(DefaultCodec))
}

type sizedCodec struct {
	binaryCodec
	size int
}

func (c sizedCodec) Size() int { return c.size }

func TestCheckFrameSizeMismatch(t *testing.T) {
	err := CheckFrameSize(sizedCodec{size: 10})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrFrameSize))
	var sizeErr *FrameSizeError
	require.True(t, errors.As(err, &sizeErr))
	require.Equal(t, FrameSize, sizeErr.Expected)
	require.Equal(t, 10, sizeErr.Actual)
}

func TestDecode(t *testing.T) {
	testCases := []struct {
		name   string
		frame  []byte
		expect Reading
	}{
		{"zero", make([]byte, 9), Reading{}},
		{"tuner only", []byte{200, 0, 0, 0, 0, 0, 0, 0, 0}, Reading{Tuner: 200}},
		{"little endian", []byte{2, 1, 4, 3, 6, 5, 8, 7, 9},
			Reading{Tuner: 0x0102, KnobA: 0x0304, KnobB: 0x0506, KnobC: 0x0708, Switch: 9}},
		{"max", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
			Reading{Tuner: 0xffff, KnobA: 0xffff, KnobB: 0xffff, KnobC: 0xffff, Switch: 0xff}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := DefaultCodec.Decode(tc.frame)
			require.NoError(t, err)
			require.Equal(t, tc.expect, r)
			require.Equal(t, tc.frame, DefaultCodec.Encode(r))
		})
	}
}

func TestDecodeWrongLength(t *testing.T) {
	for _, n := range []int{0, 1, 8, 10} {
		_, err := DefaultCodec.Decode(make([]byte, n))
		require.True(t, errors.Is(err, ErrFrameLength), "length %d", n)
	}
}

func TestRoundTripRandomFrames(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	frame := make([]byte, FrameSize)
	for i := 0; i < 1000; i++ {
		rnd.Read(frame)
		r1, err := DefaultCodec.Decode(frame)
		require.NoError(t, err)
		r2, err := DefaultCodec.Decode(frame)
		require.NoError(t, err)
		require.Equal(t, r1, r2)
		require.Equal(t, frame, DefaultCodec.Encode(r1))
	}
}

func TestCommand(t *testing.T) {
	require.Equal(t, LightOn, LightCommand(true))
	require.Equal(t, LightOff, LightCommand(false))
	require.True(t, ReadRequest.IsValid())
	require.False(t, ReadRequest.IsQueueable())
	require.True(t, LightOn.IsQueueable())
	require.True(t, LightOff.IsQueueable())
	require.False(t, Command(0x12).IsValid())
	require.False(t, Command(0x12).IsQueueable())
	require.Equal(t, "light-on", LightOn.String())
	require.Equal(t, "command(0x12)", Command(0x12).String())
}

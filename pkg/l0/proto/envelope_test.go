package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	b, err := Wrap([]byte{0x11})
	require.NoError(t, err)
	require.Equal(t, []byte{0xa5, 1, 0x11, 0x2c, 0xc0}, b)

	b, err = Wrap(nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0xa5, 0, 0x40, 0xbf}, b)

	_, err = Wrap(make([]byte, MaxPayload+1))
	require.Equal(t, ErrPayloadTooLarge, err)
}

func parseAll(p *EnvelopeParser, stream []byte) (payloads [][]byte, errs []error) {
	for _, b := range stream {
		payload, done, err := p.Parse(b)
		if !done {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		payloads = append(payloads, payload)
	}
	return
}

func TestEnvelopeParser(t *testing.T) {
	frame := DefaultCodec.Encode(Reading{Tuner: 473, KnobA: 1, KnobB: 2, KnobC: 3, Switch: 1})
	env, err := Wrap(frame)
	require.NoError(t, err)
	empty, err := Wrap(nil)
	require.NoError(t, err)

	var stream []byte
	stream = append(stream, 0x00, 0x13) // garbage
	stream = append(stream, env...)
	stream = append(stream, empty...)
	stream = append(stream, env...)

	var p EnvelopeParser
	payloads, errs := parseAll(&p, stream)
	require.Empty(t, errs)
	require.Len(t, payloads, 3)
	require.Equal(t, frame, payloads[0])
	require.Empty(t, payloads[1])
	require.Equal(t, frame, payloads[2])
	require.False(t, p.Receiving())
}

func TestEnvelopeParserChecksum(t *testing.T) {
	env, err := Wrap([]byte{1, 2, 3})
	require.NoError(t, err)
	corrupted := append([]byte{}, env...)
	corrupted[3] ^= 0xff

	var p EnvelopeParser
	payloads, errs := parseAll(&p, append(corrupted, env...))
	require.Equal(t, []error{ErrChecksum}, errs)
	require.Equal(t, [][]byte{{1, 2, 3}}, payloads)
}

func TestEnvelopeParserReset(t *testing.T) {
	env, err := Wrap([]byte{7})
	require.NoError(t, err)
	var p EnvelopeParser
	p.Parse(env[0])
	p.Parse(env[1])
	require.True(t, p.Receiving())
	p.Reset()
	require.False(t, p.Receiving())
	payloads, errs := parseAll(&p, env)
	require.Empty(t, errs)
	require.Equal(t, [][]byte{{7}}, payloads)
}

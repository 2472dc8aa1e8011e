package proto

import (
	"github.com/sigurn/crc16"
)

// EnvelopeMagic starts every envelope.
const EnvelopeMagic byte = 0xa5

// MaxPayload is the largest payload an envelope carries.
const MaxPayload = 0xff

// envelope layout: magic, len, payload[len], crc_hi, crc_lo.
// The CRC (MODBUS) covers len and payload.
const envelopeOverhead = 4

var crcTable = crc16.MakeTable(crc16.CRC16_MODBUS)

func checksum(lenAndPayload []byte) uint16 {
	return crc16.Checksum(lenAndPayload, crcTable)
}

// Wrap encodes payload into an envelope.
func Wrap(payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, ErrPayloadTooLarge
	}
	b := make([]byte, len(payload)+envelopeOverhead)
	b[0], b[1] = EnvelopeMagic, byte(len(payload))
	copy(b[2:], payload)
	crc := checksum(b[1 : 2+len(payload)])
	b[len(b)-2], b[len(b)-1] = byte(crc>>8), byte(crc)
	return b, nil
}

// EnvelopeParser extracts payloads from a byte stream.
// Bytes before a magic are skipped, so the parser resyncs on its own
// after garbage or a checksum failure.
type EnvelopeParser struct {
	state   envState
	buf     []byte
	recvLen int
	crc     uint16
}

type envState int

const (
	envMagic   envState = iota // waiting for magic
	envLen                     // waiting for length
	envPayload                 // receiving payload
	envCRCHi                   // waiting for crc high byte
	envCRCLo                   // waiting for crc low byte
)

// Reset drops any partially received envelope.
func (p *EnvelopeParser) Reset() {
	p.state, p.buf, p.recvLen = envMagic, nil, 0
}

// Receiving tells if the parser is in the middle of an envelope.
func (p *EnvelopeParser) Receiving() bool {
	return p.state != envMagic
}

// Parse consumes one byte. done is set when an envelope completes,
// with ErrChecksum if it was corrupted.
func (p *EnvelopeParser) Parse(b byte) (payload []byte, done bool, err error) {
	switch p.state {
	case envMagic:
		if b == EnvelopeMagic {
			p.state = envLen
		}
	case envLen:
		p.buf, p.recvLen = make([]byte, int(b)+1), 1
		p.buf[0] = b
		if b == 0 {
			p.state = envCRCHi
		} else {
			p.state = envPayload
		}
	case envPayload:
		p.buf[p.recvLen] = b
		p.recvLen++
		if p.recvLen >= len(p.buf) {
			p.state = envCRCHi
		}
	case envCRCHi:
		p.crc = uint16(b) << 8
		p.state = envCRCLo
	case envCRCLo:
		crc := p.crc | uint16(b)
		buf := p.buf
		p.Reset()
		if checksum(buf) != crc {
			return nil, true, ErrChecksum
		}
		return buf[1:], true, nil
	}
	return nil, false, nil
}

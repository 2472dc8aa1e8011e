// Package proto defines the L0 wire protocol between the panel firmware
// and the host.
//
// The host writes a single command byte. On ReadRequest the firmware
// answers with one fixed-size frame holding the latest control readings,
// little-endian, without framing markers or checksum:
//
//	tuner:u16 knob_a:u16 knob_b:u16 knob_c:u16 switch:u8
//
// Both sides must agree on the frame layout at build time. The host checks
// the size of its encoding once at startup (CheckFrameSize).
//
// Transports which can't rely on bus level transactions (e.g. a serial
// port) wrap every frame in an Envelope which adds a length and a CRC.
// This is not wire compatible with the bare I2C protocol.
package proto

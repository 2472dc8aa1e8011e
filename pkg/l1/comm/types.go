// Package comm moves typed panel messages over packet connections:
// one Pipe per connection, a Registrar on the panel side and a
// ControllerConn on the tool side. The transports live in subpackages.
package comm

import "errors"

var (
	// ErrHubNotRunning indicates a connection arrived before the Hub
	// joined a running loop.
	ErrHubNotRunning = errors.New("hub not running")
	// ErrSlowConnection is returned when a connection doesn't keep up with
	// the packets sent to it. The connection is closed.
	ErrSlowConnection = errors.New("connection not reading")
)

// PacketReader reads one encoded msgs.Typed per call.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes one encoded msgs.Typed per call.
// Concurrent calls are serialized by the Pipe.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter is a packet connection. Transports which also
// implement io.Closer are closed when the Pipe stops, which is expected
// to make a pending ReadPacket fail.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}

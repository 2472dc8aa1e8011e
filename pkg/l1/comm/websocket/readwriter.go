// Package websocket carries packets as binary websocket messages.
package websocket

import (
	"time"

	"golang.org/x/net/websocket"
)

// ReadWriter implements PacketReadWriter.
type ReadWriter struct {
	*websocket.Conn
}

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return &ReadWriter{Conn: conn}
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive(p.Conn, &pkt)
	return
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	return websocket.Message.Send(p.Conn, pkt)
}

// Close closes the connection. A write blocked on a peer not reading
// holds the frame lock Conn.Close needs, so the deadline expires first.
func (p *ReadWriter) Close() error {
	p.Conn.SetDeadline(time.Now())
	return p.Conn.Close()
}

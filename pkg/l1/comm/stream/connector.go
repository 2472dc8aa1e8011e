package stream

import (
	"context"
	"net"

	fx "github.com/robotalks/radiopanel/pkg/framework"
	"github.com/robotalks/radiopanel/pkg/l1"
	"github.com/robotalks/radiopanel/pkg/l1/comm"
)

// Connector connects a panel served at a fixed TCP address.
type Connector struct {
	Addr string
	Ref  l1.ControllerRef
}

// Discover implements l1.Connector. There's exactly one panel per address.
func (c *Connector) Discover(context.Context) ([]l1.ControllerInfo, error) {
	return []l1.ControllerInfo{{Ref: c.Ref}}, nil
}

// Connect implements l1.Connector.
func (c *Connector) Connect(ctx context.Context, ref l1.ControllerRef) (l1.ControllerConn, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return nil, err
	}
	return NewControllerConn(conn), nil
}

// ControllerConn is a connection to a panel over a stream.
type ControllerConn struct {
	comm.ControllerConn
	rw *ReadWriter
}

// NewControllerConn wraps an established stream.
func NewControllerConn(s net.Conn) *ControllerConn {
	c := &ControllerConn{rw: New(s)}
	c.Init(c.rw)
	return c
}

// AddToLoop implements LoopAdder.
func (c *ControllerConn) AddToLoop(l *fx.Loop) {
	c.ControllerConn.AddToLoop(l)
	l.AddRunnable(fx.RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		c.rw.Close()
		return ctx.Err()
	}))
}

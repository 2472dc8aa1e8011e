package websocket

import (
	"context"
	"net/url"

	"golang.org/x/net/websocket"

	fx "github.com/robotalks/radiopanel/pkg/framework"
	"github.com/robotalks/radiopanel/pkg/l1"
	"github.com/robotalks/radiopanel/pkg/l1/comm"
)

// Connector connects a panel by its websocket URL.
type Connector struct {
	URL string
	Ref l1.ControllerRef
}

// Discover implements l1.Connector. There's exactly one panel per URL.
func (c *Connector) Discover(context.Context) ([]l1.ControllerInfo, error) {
	return []l1.ControllerInfo{{Ref: c.Ref}}, nil
}

// Connect implements l1.Connector.
func (c *Connector) Connect(ctx context.Context, ref l1.ControllerRef) (l1.ControllerConn, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return nil, err
	}
	if u.Path == "" {
		u.Path = Path
	}
	origin := &url.URL{Scheme: "http", Host: u.Host}
	if u.Scheme == "wss" {
		origin.Scheme = "https"
	}
	conf, err := websocket.NewConfig(u.String(), origin.String())
	if err != nil {
		return nil, err
	}
	conn, err := websocket.DialConfig(conf)
	if err != nil {
		return nil, err
	}
	cc := &ControllerConn{rw: New(conn)}
	cc.Init(cc.rw)
	return cc, nil
}

// ControllerConn is a connection to a panel over websocket.
type ControllerConn struct {
	comm.ControllerConn
	rw *ReadWriter
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

package comm

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/radiopanel/pkg/l1/msgs"
)

// stuckConn never accepts a write until closed.
type stuckConn struct {
	closed chan struct{}
	once   sync.Once
}

func newStuckConn() *stuckConn {
	return &stuckConn{closed: make(chan struct{})}
}

func (c *stuckConn) ReadPacket() ([]byte, error) {
	<-c.closed
	return nil, io.EOF
}

func (c *stuckConn) WritePacket([]byte) error {
	<-c.closed
	return io.ErrClosedPipe
}

func (c *stuckConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func TestHubDropsConnectionNotReading(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)
	require.Eventually(t, hub.Running, time.Second, time.Millisecond)

	conn := newStuckConn()
	served := make(chan error, 1)
	go func() { served <- hub.Serve(conn) }()
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, time.Millisecond)

	sent := make(chan struct{})
	go func() {
		defer close(sent)
		for i := 0; i < SendQueueSize*4; i++ {
			hub.SendEvent(ctx, &msgs.PanelReading{Tuner: uint32(i)})
		}
	}()
	select {
	case <-sent:
	case <-time.After(2 * time.Second):
		t.Fatal("SendEvent blocked by a connection not reading")
	}

	select {
	case err := <-served:
		require.ErrorIs(t, err, io.EOF)
	case <-time.After(2 * time.Second):
		t.Fatal("connection not dropped")
	}
	require.Zero(t, hub.Len())
}

func TestSendQueueClosed(t *testing.T) {
	conn := newStuckConn()
	q := newSendQueue(conn, 1)
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())
	require.Equal(t, io.ErrClosedPipe, q.WritePacket([]byte{1}))
	_, err := q.ReadPacket()
	require.Equal(t, io.EOF, err)
}

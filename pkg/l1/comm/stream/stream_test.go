package stream

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/radiopanel/pkg/framework"
	"github.com/robotalks/radiopanel/pkg/l1"
	"github.com/robotalks/radiopanel/pkg/l1/comm"
	"github.com/robotalks/radiopanel/pkg/l1/msgs"
)

func TestReadWriterPackets(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)
	require.NoError(t, rw.WritePacket([]byte{1, 2, 3}))
	require.NoError(t, rw.WritePacket(nil))
	require.Equal(t, []byte{3, 0, 0, 0, 1, 2, 3, 0, 0, 0, 0}, buf.Bytes())

	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, pkt)
	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	require.Empty(t, pkt)
	_, err = rw.ReadPacket()
	require.Error(t, err)
}

func TestReadWriterRejectsOversized(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0xff, 0xff, 0xff, 0xff})
	_, err := New(buf).ReadPacket()
	require.Error(t, err)
}

// lightPanel replies LightSet and leaves everything else.
func lightPanel(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(func(msg fx.Message) bool {
		cmdMsg, ok := msg.(*l1.CommandMsg)
		if !ok {
			return false
		}
		if _, ok := cmdMsg.Command.Msg().(*msgs.LightSet); !ok {
			return false
		}
		cmdMsg.Command.Done(msgs.NewCommandOK())
		return true
	})
	return nil
}

func startLoop(ctx context.Context, l *fx.Loop) {
	l.Interval = 5 * time.Millisecond
	go l.Run(ctx)
}

func await(t *testing.T, f l1.CommandFuture) l1.Result {
	select {
	case res := <-f.ResultChan():
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("no reply")
	}
	return l1.Result{}
}

func TestHubRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := comm.NewHub()
	panelLoop := fx.NewLoop().Add(hub, &comm.UnsupportedCommands{})
	panelLoop.AddController(fx.PrLvControl, fx.ControlFunc(lightPanel))
	startLoop(ctx, panelLoop)
	require.Eventually(t, hub.Running, time.Second, time.Millisecond)

	server, client := net.Pipe()
	go hub.Serve(New(server))

	events := make(chan *msgs.PanelReading, 4)
	conn := NewControllerConn(client)
	clientLoop := fx.NewLoop().Add(conn)
	clientLoop.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(func(msg fx.Message) bool {
			if r, ok := msg.(*msgs.PanelReading); ok {
				events <- r
				return true
			}
			return false
		})
		return nil
	}))
	startLoop(ctx, clientLoop)

	res := await(t, conn.DoCommand(&msgs.LightSet{On: true}))
	require.NoError(t, res.Err)
	require.IsType(t, &msgs.CommandOK{}, res.Msg)

	res = await(t, conn.DoCommand(&msgs.StatusQuery{}))
	require.Error(t, res.Err)
	require.Equal(t, msgs.ErrUnsupportedCommand.Error(), res.Err.Error())
	require.Equal(t, 0, conn.Pending())

	require.Equal(t, 1, hub.Len())
	require.NoError(t, hub.SendEvent(ctx, &msgs.PanelReading{Tuner: 473}))
	select {
	case r := <-events:
		require.Equal(t, uint32(473), r.Tuner)
	case <-time.After(2 * time.Second):
		t.Fatal("event not received")
	}
}

func TestHubNotRunning(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	require.Equal(t, comm.ErrHubNotRunning, comm.NewHub().Serve(New(server)))
}

func TestServerAcceptsClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewServer("127.0.0.1:0")
	panelLoop := fx.NewLoop().Add(srv.Hub)
	panelLoop.AddController(fx.PrLvControl, fx.ControlFunc(lightPanel))
	startLoop(ctx, panelLoop)
	require.Eventually(t, srv.Hub.Running, time.Second, time.Millisecond)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ctx, ln) }()

	connector := &Connector{Addr: ln.Addr().String(), Ref: l1.ControllerRef{Type: l1.PanelType, ID: "test"}}
	infos, err := connector.Discover(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	cc, err := connector.Connect(ctx, infos[0].Ref)
	require.NoError(t, err)
	clientLoop := fx.NewLoop().Add(cc.(fx.LoopAdder))
	startLoop(ctx, clientLoop)

	res := await(t, cc.DoCommand(&msgs.LightSet{}))
	require.NoError(t, res.Err)
	require.Eventually(t, func() bool { return srv.Hub.Len() == 1 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-serveErr:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("server didn't stop")
	}
}

func TestServerDropsClientNotReading(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewServer("127.0.0.1:0")
	startLoop(ctx, fx.NewLoop().Add(srv.Hub))
	require.Eventually(t, srv.Hub.Running, time.Second, time.Millisecond)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.Serve(ctx, ln)

	client, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer client.Close()
	require.Eventually(t, func() bool { return srv.Hub.Len() == 1 }, time.Second, time.Millisecond)

	// the client never reads, once its buffers fill up it's disconnected
	// and SendEvent keeps returning.
	deadline := time.Now().Add(10 * time.Second)
	for srv.Hub.Len() > 0 {
		require.True(t, time.Now().Before(deadline), "client not dropped")
		require.NoError(t, srv.SendEvent(ctx, &msgs.PanelReading{Tuner: 473, KnobA: 1, KnobB: 2, KnobC: 3}))
	}
}

package comm

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/radiopanel/pkg/framework"
	"github.com/robotalks/radiopanel/pkg/l1/msgs"
)

// SendQueueSize is how many packets may wait for one connection.
const SendQueueSize = 64

// Hub is a Registrar serving any number of packet connections, e.g.
// accepted websocket or TCP clients. Events go to every connection,
// commands from any connection are posted into the loop.
type Hub struct {
	lock   sync.Mutex
	ctx    context.Context
	pipes  map[*Pipe]struct{}
	recent *recentCommands
}

// NewHub creates a Hub.
func NewHub() *Hub {
	return &Hub{
		pipes:  make(map[*Pipe]struct{}),
		recent: newRecentCommands(),
	}
}

// AddToLoop implements LoopAdder.
func (h *Hub) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(h)
}

// Run implements Runnable.
func (h *Hub) Run(ctx context.Context) error {
	h.lock.Lock()
	h.ctx = ctx
	h.lock.Unlock()
	<-ctx.Done()
	h.lock.Lock()
	h.ctx = nil
	for pipe := range h.pipes {
		pipe.Close()
	}
	h.lock.Unlock()
	return ctx.Err()
}

// Running tells if the Hub accepts connections.
func (h *Hub) Running() bool {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.ctx != nil
}

// Serve runs a connection until it fails or the loop stops.
func (h *Hub) Serve(rw PacketReadWriter) error {
	pipe := NewPipe(newSendQueue(rw, SendQueueSize))
	pipe.Handler = msgs.HandleTypedMsgFunc(func(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
		postTyped(ctx, pipe, h.recent, msg, typed)
		return nil
	})
	h.lock.Lock()
	ctx := h.ctx
	if ctx != nil {
		h.pipes[pipe] = struct{}{}
	}
	n := len(h.pipes)
	h.lock.Unlock()
	if ctx == nil {
		pipe.Close()
		return ErrHubNotRunning
	}
	glog.V(1).Infof("hub: connection joined, %d connected", n)
	defer func() {
		h.lock.Lock()
		delete(h.pipes, pipe)
		h.lock.Unlock()
	}()
	return pipe.Run(ctx)
}

// Len is the number of connections.
func (h *Hub) Len() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.pipes)
}

// SendEvent implements l1.Registrar.
func (h *Hub) SendEvent(ctx context.Context, msg fx.Message) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return err
	}
	pkt, err := typed.Encode()
	if err != nil {
		return err
	}
	h.lock.Lock()
	pipes := make([]*Pipe, 0, len(h.pipes))
	for pipe := range h.pipes {
		pipes = append(pipes, pipe)
	}
	h.lock.Unlock()
	for _, pipe := range pipes {
		// never blocks, a slow or broken connection is closed and leaves
		// once reading fails.
		if err := pipe.WritePacket(pkt); err != nil {
			glog.V(2).Infof("hub: send event: %v", err)
		}
	}
	return nil
}

// sendQueue decouples writes to a connection from the loop.
type sendQueue struct {
	rw        PacketReadWriter
	packets   chan []byte
	doneCh    chan struct{}
	closeOnce sync.Once
}

func newSendQueue(rw PacketReadWriter, size int) *sendQueue {
	q := &sendQueue{
		rw:      rw,
		packets: make(chan []byte, size),
		doneCh:  make(chan struct{}),
	}
	go q.drain()
	return q
}

func (q *sendQueue) drain() {
	for {
		select {
		case <-q.doneCh:
			return
		case pkt := <-q.packets:
			if err := q.rw.WritePacket(pkt); err != nil {
				glog.V(1).Infof("hub: write: %v", err)
				q.Close()
				return
			}
		}
	}
}

// ReadPacket implements PacketReader.
func (q *sendQueue) ReadPacket() ([]byte, error) {
	return q.rw.ReadPacket()
}

// WritePacket implements PacketWriter.
func (q *sendQueue) WritePacket(pkt []byte) error {
	select {
	case <-q.doneCh:
		return io.ErrClosedPipe
	default:
	}
	select {
	case q.packets <- pkt:
		return nil
	default:
		glog.Warningf("hub: %d packets pending, drop connection", cap(q.packets))
		q.Close()
		return ErrSlowConnection
	}
}

// Close closes the connection, which unblocks a pending write.
func (q *sendQueue) Close() error {
	var err error
	q.closeOnce.Do(func() {
		close(q.doneCh)
		if closer, ok := q.rw.(io.Closer); ok {
			err = closer.Close()
		}
	})
	return err
}

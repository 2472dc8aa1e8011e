package comm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/radiopanel/pkg/framework"
	"github.com/robotalks/radiopanel/pkg/l1"
	"github.com/robotalks/radiopanel/pkg/l1/msgs"
)

func TestRecentCommands(t *testing.T) {
	recent := newRecentCommands()
	cmd := &msgs.Typed{TypeId: msgs.LightSetTypeID, Sequence: 1, Origin: "a"}
	require.False(t, recent.seen(cmd))
	require.True(t, recent.seen(cmd))
	require.False(t, recent.seen(&msgs.Typed{Sequence: 2, Origin: "a"}))
	require.False(t, recent.seen(&msgs.Typed{Sequence: 1, Origin: "b"}))

	anonymous := &msgs.Typed{Sequence: 1}
	require.False(t, recent.seen(anonymous))
	require.False(t, recent.seen(anonymous))
}

func TestRecentCommandsConcurrent(t *testing.T) {
	recent := newRecentCommands()
	const connections = 16
	for seq := uint32(0); seq < 50; seq++ {
		var (
			wg     sync.WaitGroup
			lock   sync.Mutex
			passed int
		)
		for i := 0; i < connections; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if !recent.seen(&msgs.Typed{TypeId: msgs.LightSetTypeID, Sequence: seq, Origin: "ctl"}) {
					lock.Lock()
					passed++
					lock.Unlock()
				}
			}()
		}
		wg.Wait()
		require.Equal(t, 1, passed, "sequence %d", seq)
	}
}

type replyRecorder struct {
	msg   fx.Message
	reply fx.Message
}

func (r *replyRecorder) Msg() fx.Message { return r.msg }

func (r *replyRecorder) Done(msg fx.Message) error {
	r.reply = msg
	return nil
}

type messageList struct {
	messages []fx.Message
}

func (l *messageList) ProcessMessages(fn func(fx.Message) bool) {
	var remains []fx.Message
	for _, msg := range l.messages {
		if !fn(msg) {
			remains = append(remains, msg)
		}
	}
	l.messages = remains
}

type testControlContext struct {
	store *messageList
}

func (c *testControlContext) Context() context.Context  { return context.Background() }
func (c *testControlContext) Time() time.Time            { return time.Now() }
func (c *testControlContext) Messages() fx.MessageStore  { return c.store }
func (c *testControlContext) PostMessage(fx.Message)     {}
func (c *testControlContext) TriggerNext()               {}

func TestUnsupportedCommands(t *testing.T) {
	cmd := &replyRecorder{msg: &msgs.LightSet{}}
	event := &msgs.PanelReading{}
	store := &messageList{messages: []fx.Message{&l1.CommandMsg{Command: cmd}, event}}
	var ctl UnsupportedCommands
	require.NoError(t, ctl.Control(&testControlContext{store: store}))
	require.Equal(t, []fx.Message{event}, store.messages)
	reply, ok := cmd.reply.(*msgs.CommandErr)
	require.True(t, ok)
	require.Equal(t, msgs.ErrUnsupportedCommand.Error(), reply.Message)
}

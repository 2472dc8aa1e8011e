package comm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/golang/glog"

	fx "github.com/robotalks/radiopanel/pkg/framework"
	"github.com/robotalks/radiopanel/pkg/l1"
	"github.com/robotalks/radiopanel/pkg/l1/msgs"
)

// DuplicateWindow is how long a command sequence is remembered.
// Brokers delivering at least once may repeat a command within it.
const DuplicateWindow = 10 * time.Second

const duplicateCacheSize = 1024

// recentCommands is shared by all connections of a Hub.
type recentCommands struct {
	lock  sync.Mutex
	cache gcache.Cache
}

func newRecentCommands() *recentCommands {
	return &recentCommands{
		cache: gcache.New(duplicateCacheSize).LRU().Expiration(DuplicateWindow).Build(),
	}
}

// seen remembers the command and tells if it was seen before.
// Commands without origin are never deduplicated.
func (r *recentCommands) seen(typed *msgs.Typed) bool {
	if typed.Origin == "" {
		return false
	}
	key := fmt.Sprintf("%s#%d", typed.Origin, typed.Sequence)
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, err := r.cache.Get(key); err == nil {
		return true
	}
	r.cache.Set(key, struct{}{})
	return false
}

// postTyped feeds a received message into the loop.
func postTyped(ctx context.Context, pipe *Pipe, recent *recentCommands, msg fx.Message, typed *msgs.Typed) {
	loopCtl := fx.LoopCtlFrom(ctx)
	switch {
	case typed.IsReply():
		return
	case typed.IsCommand():
		if recent.seen(typed) {
			glog.V(2).Infof("duplicated command %s#%d ignored", typed.Origin, typed.Sequence)
			return
		}
		loopCtl.PostMessage(&l1.CommandMsg{Command: &command{
			origin: typed.Origin,
			seq:    typed.Sequence,
			msg:    msg,
			pipe:   pipe,
		}})
	default:
		loopCtl.PostMessage(msg)
	}
	loopCtl.TriggerNext()
}

// Registrar implements l1.Registrar over a single Pipe.
type Registrar struct {
	pipe   Pipe
	recent *recentCommands
}

// Init initializes the Registrar with defaults.
func (r *Registrar) Init(rw PacketReadWriter) {
	r.pipe.ReadWriter = rw
	r.recent = newRecentCommands()
	r.pipe.Handler = msgs.HandleTypedMsgFunc(func(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
		postTyped(ctx, &r.pipe, r.recent, msg, typed)
		return nil
	})
}

// SendEvent implements Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.pipe.SendEventMsg(msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.pipe)
}

type command struct {
	origin string
	seq    uint32
	msg    fx.Message
	pipe   *Pipe
}

func (c *command) Msg() fx.Message {
	return c.msg
}

func (c *command) Done(msg fx.Message) error {
	return c.pipe.SendCommandMsg(msg, c.origin, c.seq)
}

// RegistrarMux registers a panel with multiple Registrars.
type RegistrarMux struct {
	Registrars []l1.Registrar
}

// SendEvent implements Registrar.
func (r *RegistrarMux) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.AggregatedError
	for _, reg := range r.Registrars {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// AddToLoop implements LoopAdder.
func (r *RegistrarMux) AddToLoop(l *fx.Loop) {
	for _, reg := range r.Registrars {
		if adder, ok := reg.(fx.LoopAdder); ok {
			l.Add(adder)
		}
	}
}

// Add adds more registrars.
func (r *RegistrarMux) Add(regs ...l1.Registrar) {
	r.Registrars = append(r.Registrars, regs...)
}

// UnsupportedCommands replies left-over commands as unsupported.
type UnsupportedCommands struct {
}

// Control implements Controller.
func (c *UnsupportedCommands) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(func(msg fx.Message) bool {
		cmdMsg, ok := msg.(*l1.CommandMsg)
		if !ok {
			return false
		}
		if err := cmdMsg.Command.Done(msgs.NewCommandErr(msgs.ErrUnsupportedCommand)); err != nil {
			glog.Warningf("reply unsupported command: %v", err)
		}
		return true
	})
	return nil
}

// AddToLoop implements LoopAdder.
func (c *UnsupportedCommands) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvIdle, c)
}

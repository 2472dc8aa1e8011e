package framework

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testMsg struct {
	n int
}

func (m *testMsg) NewMessage() Message { return &testMsg{} }

type recorder struct {
	lock  sync.Mutex
	order []string
	seen  []int
}

func (r *recorder) add(name string) {
	r.lock.Lock()
	r.order = append(r.order, name)
	r.lock.Unlock()
}

func (r *recorder) snapshot() ([]string, []int) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]string(nil), r.order...), append([]int(nil), r.seen...)
}

func runLoop(t *testing.T, l *Loop) (context.CancelFunc, <-chan error) {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	t.Cleanup(cancel)
	return cancel, errCh
}

func TestLoopPriorityOrder(t *testing.T) {
	var rec recorder
	var once sync.Once
	done := make(chan struct{})
	l := NewLoop()
	l.Interval = time.Millisecond
	l.AddController(PrLvIdle, ControlFunc(func(ControlContext) error {
		rec.add("idle")
		once.Do(func() { close(done) })
		return nil
	}))
	l.AddController(PrLvSense, ControlFunc(func(ControlContext) error {
		rec.add("sense")
		return nil
	}))
	l.AddController(PrLvPublish, ControlFunc(func(ControlContext) error {
		rec.add("publish")
		return errors.New("logged only")
	}))
	l.AddController(PrLvControl, ControlFunc(func(ControlContext) error {
		rec.add("control")
		return nil
	}))
	cancel, errCh := runLoop(t, l)
	<-done
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
	order, _ := rec.snapshot()
	require.Equal(t, []string{"sense", "control", "publish", "idle"}, order[:4])
}

func TestLoopMessages(t *testing.T) {
	var rec recorder
	l := NewLoop()
	l.Interval = time.Hour
	taken := make(chan struct{}, 4)
	l.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(func(msg Message) bool {
			m := msg.(*testMsg)
			if m.n%2 == 0 {
				return false
			}
			rec.lock.Lock()
			rec.seen = append(rec.seen, m.n)
			rec.lock.Unlock()
			return true
		})
		return nil
	}))
	l.AddController(PrLvIdle, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(func(msg Message) bool {
			rec.lock.Lock()
			rec.seen = append(rec.seen, -msg.(*testMsg).n)
			rec.lock.Unlock()
			taken <- struct{}{}
			return true
		})
		return nil
	}))
	// messages posted before Run are delivered with the first trigger.
	for i := 1; i <= 4; i++ {
		l.PostMessage(&testMsg{n: i})
	}
	cancel, errCh := runLoop(t, l)
	require.Eventually(t, func() bool {
		l.TriggerNext()
		return len(taken) == 2
	}, time.Second, time.Millisecond)
	cancel()
	<-errCh
	_, seen := rec.snapshot()
	require.Equal(t, []int{1, 3, -2, -4}, seen)
}

func TestLoopCtlFromRunnable(t *testing.T) {
	got := make(chan int, 1)
	l := NewLoop()
	l.Interval = time.Hour
	l.AddRunnable(RunFunc(func(ctx context.Context) error {
		ctl := LoopCtlFrom(ctx)
		ctl.PostMessage(&testMsg{n: 7})
		ctl.TriggerNext()
		<-ctx.Done()
		return ctx.Err()
	}))
	l.AddController(PrLvSense, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(func(msg Message) bool {
			got <- msg.(*testMsg).n
			return true
		})
		return nil
	}))
	cancel, errCh := runLoop(t, l)
	select {
	case n := <-got:
		require.Equal(t, 7, n)
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
}

func TestLoopStopsWhenRunnerFails(t *testing.T) {
	failure := errors.New("broken")
	l := NewLoop()
	l.AddRunnable(RunFunc(func(context.Context) error { return failure }))
	_, errCh := runLoop(t, l)
	select {
	case err := <-errCh:
		require.ErrorIs(t, err, failure)
	case <-time.After(time.Second):
		t.Fatal("loop didn't stop")
	}
}

type runnableCtl struct {
	started chan struct{}
}

func (c *runnableCtl) Control(ControlContext) error { return nil }

func (c *runnableCtl) Run(ctx context.Context) error {
	close(c.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestLoopStartsRunnableControllers(t *testing.T) {
	ctl := &runnableCtl{started: make(chan struct{})}
	l := NewLoop().AddController(PrLvControl, ctl)
	cancel, errCh := runLoop(t, l)
	select {
	case <-ctl.started:
	case <-time.After(time.Second):
		t.Fatal("runnable controller not started")
	}
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
}

func TestTriggerNextBeforeRun(t *testing.T) {
	l := NewLoop()
	l.TriggerNext()
	l.TriggerNext()
}

// Package panel turns driver snapshots into what the panel shows and
// publishes, and executes remote commands.
package panel

import (
	"github.com/golang/glog"
	"go.uber.org/atomic"

	fx "github.com/robotalks/radiopanel/pkg/framework"
	"github.com/robotalks/radiopanel/pkg/l0/driver"
	"github.com/robotalks/radiopanel/pkg/l0/proto"
	"github.com/robotalks/radiopanel/pkg/l0/tuning"
	"github.com/robotalks/radiopanel/pkg/l1"
	"github.com/robotalks/radiopanel/pkg/l1/msgs"
)

// Device is the part of driver.Driver used by the Controller.
type Device interface {
	ReadSnapshot() proto.Reading
	SetLight(on bool) error
	LightOn() bool
	LinkUp() bool
	Stats() driver.Stats
}

// Controller runs in the framework loop:
// it samples the Device (PrLvSense), executes commands (PrLvControl)
// and publishes changed readings (PrLvPublish).
type Controller struct {
	Device    Device
	Registrar l1.Registrar
	Mapper    *tuning.Mapper

	smoother  Smoother
	view      atomic.Pointer[View]
	published *msgs.PanelReading
}

// NewController creates a Controller. reg may be nil when nothing is
// published.
func NewController(dev Device, reg l1.Registrar) *Controller {
	c := &Controller{Device: dev, Registrar: reg, Mapper: &tuning.DefaultMapper}
	c.view.Store(&View{})
	return c
}

// View returns the view of the latest iteration. It's safe to call from
// any goroutine.
func (c *Controller) View() View {
	return *c.view.Load()
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvSense, fx.ControlFunc(c.sense))
	loop.AddController(fx.PrLvControl, fx.ControlFunc(c.control))
	loop.AddController(fx.PrLvPublish, fx.ControlFunc(c.publish))
}

func (c *Controller) sense(fx.ControlContext) error {
	r := c.Device.ReadSnapshot()
	c.view.Store(&View{
		Reading:  r,
		Freq:     c.Mapper.RawToUnit(r.Tuner),
		TunerAvg: c.smoother.Push(r.Tuner),
		LightOn:  c.Device.LightOn(),
		LinkUp:   c.Device.LinkUp(),
		Stats:    c.Device.Stats(),
	})
	return nil
}

func (c *Controller) control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(func(msg fx.Message) bool {
		cmdMsg, ok := msg.(*l1.CommandMsg)
		if !ok {
			return false
		}
		var reply fx.Message
		switch m := cmdMsg.Command.Msg().(type) {
		case *msgs.LightSet:
			if err := c.Device.SetLight(m.On); err != nil {
				reply = msgs.NewCommandErr(err)
			} else {
				reply = msgs.NewCommandOK()
			}
		case *msgs.StatusQuery:
			reply = c.status()
		default:
			return false
		}
		if err := cmdMsg.Command.Done(reply); err != nil {
			glog.Warningf("reply command: %v", err)
		}
		return true
	})
	return nil
}

func (c *Controller) status() *msgs.PanelStatus {
	v := c.view.Load()
	return &msgs.PanelStatus{
		Reading:  v.ReadingMsg(),
		LightOn:  c.Device.LightOn(),
		Cycles:   v.Stats.Cycles,
		Failures: v.Stats.Failures,
		Sent:     v.Stats.Sent,
		Dropped:  v.Stats.Dropped,
	}
}

func (c *Controller) publish(cc fx.ControlContext) error {
	if c.Registrar == nil {
		return nil
	}
	msg := c.view.Load().ReadingMsg()
	if c.published != nil && *c.published == *msg {
		return nil
	}
	if err := c.Registrar.SendEvent(cc.Context(), msg); err != nil {
		// retried next iteration.
		return err
	}
	c.published = msg
	return nil
}

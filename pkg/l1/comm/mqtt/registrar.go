package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/radiopanel/pkg/framework"
	"github.com/robotalks/radiopanel/pkg/l1"
	"github.com/robotalks/radiopanel/pkg/l1/comm"
)

// DefaultRetryInterval is used when Registrar.RetryInterval is zero.
const DefaultRetryInterval = 5 * time.Second

// Registrar implements l1.Registrar using MQTT.
// The panel announces itself with a retained type/id/meta message which
// is cleared by the will when the panel disappears.
type Registrar struct {
	Queue *Queue
	Info  l1.ControllerInfo
	// RetryInterval is the wait between attempts to reach the broker
	// before the first connection succeeds.
	RetryInterval time.Duration

	metaJSON  []byte
	registrar comm.Registrar
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info l1.ControllerInfo) (*Registrar, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+MetaTopic(info.Ref), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("panel:" + info.Ref.Name())
	}
	r := &Registrar{
		Queue:         NewQueue(opts, topicPrefix),
		Info:          info,
		RetryInterval: DefaultRetryInterval,
		metaJSON:      meta,
	}
	r.Queue.OnConnect = func(*Queue) { r.onConnected() }
	r.registrar.Init(NewPacketReadWriter(r.Queue).ForController(info.Ref))
	return r, nil
}

// SendEvent implements Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	if !r.Connected() {
		// events are state snapshots, the next one supersedes.
		return nil
	}
	return r.registrar.SendEvent(ctx, msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.registrar)
	loop.AddRunnable(fx.NamedRun("mqtt-registrar", r))
}

// Run implements Runnable.
// An unreachable broker never stops Run, the panel keeps working locally
// and announces itself once the broker shows up.
func (r *Registrar) Run(ctx context.Context) error {
	if err := r.connect(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	r.Queue.PubWith(MetaTopic(r.Info.Ref), nil, 1, true).WaitTimeout(time.Second)
	r.Queue.Close()
	return ctx.Err()
}

// connect retries until the first connection is made, paho reconnects
// automatically after that.
func (r *Registrar) connect(ctx context.Context) error {
	interval := r.RetryInterval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	for attempt := 1; ; attempt++ {
		token := r.Queue.Connect()
		token.Wait()
		err := token.Error()
		if err == nil {
			return nil
		}
		if attempt == 1 {
			glog.Warningf("mqtt connect: %v, retry every %v", err, interval)
		} else {
			glog.V(2).Infof("mqtt connect attempt %d: %v", attempt, err)
		}
		select {
		case <-ctx.Done():
			r.Queue.Close()
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// Connected tells if the broker connection is up.
func (r *Registrar) Connected() bool {
	return r.Queue.Client.IsConnectionOpen()
}

func (r *Registrar) onConnected() {
	r.Queue.PubWith(MetaTopic(r.Info.Ref), r.metaJSON, 1, true)
}

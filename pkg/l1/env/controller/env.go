package controller

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	fx "github.com/robotalks/radiopanel/pkg/framework"
	"github.com/robotalks/radiopanel/pkg/l1"
	"github.com/robotalks/radiopanel/pkg/l1/comm"
	"github.com/robotalks/radiopanel/pkg/l1/comm/mqtt"
	"github.com/robotalks/radiopanel/pkg/l1/comm/stream"
	"github.com/robotalks/radiopanel/pkg/l1/comm/websocket"
	"github.com/robotalks/radiopanel/pkg/l1/env"
)

// Config provides common options to expose a panel.
type Config struct {
	Info l1.ControllerInfo

	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// HTTPAddr serves the websocket endpoint when not empty.
	HTTPAddr string
	// StreamAddr serves length-prefixed packets over TCP when not empty.
	StreamAddr string
}

var defaultConfig = Config{
	MQTTBrokerURL: "mqtt://localhost:1883/panel/",
}

func init() {
	if val := os.Getenv("PANEL_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("PANEL_HTTP"); val != "" {
		defaultConfig.HTTPAddr = val
	}
	defaultConfig.Info.Ref.Type = l1.PanelType
	if val := os.Getenv("PANEL_ID"); val != "" {
		defaultConfig.Info.Ref.ID = val
	} else {
		defaultConfig.Info.Ref.ID = env.MachineID()
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Panel ID")
	flag.StringVar(&defaultConfig.Info.Meta.Description, "desc", defaultConfig.Info.Meta.Description, "Panel description")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, empty to disable")
	flag.StringVar(&defaultConfig.HTTPAddr, "http", defaultConfig.HTTPAddr, "Listen address of websocket endpoint")
	flag.StringVar(&defaultConfig.StreamAddr, "tcp", defaultConfig.StreamAddr, "Listen address of TCP endpoint")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Env is the env exposing a panel.
type Env struct {
	Config       *Config
	RegistryURLs []string
	Registrar    *comm.RegistrarMux

	runners []fx.Runnable
}

// NewEnv creates Env from config.
func (c *Config) NewEnv() (*Env, error) {
	if !c.Info.Ref.IsValid() {
		return nil, fmt.Errorf("invalid panel ref %q", c.Info.Ref.Name())
	}
	e := &Env{
		Config:    c,
		Registrar: &comm.RegistrarMux{},
	}
	if c.MQTTBrokerURL != "" {
		reg, err := mqtt.NewRegistrar(c.MQTTBrokerURL, c.Info)
		if err != nil {
			return nil, fmt.Errorf("create MQTT registrar error: %v", err)
		}
		e.Registrar.Add(reg)
		e.RegistryURLs = append(e.RegistryURLs, c.MQTTBrokerURL)
	}
	if c.HTTPAddr != "" {
		ws := websocket.NewServer()
		e.Registrar.Add(ws)
		e.runners = append(e.runners, fx.NamedRun("http-server",
			websocket.NewHTTPServer(c.HTTPAddr, map[string]http.Handler{websocket.Path: ws.Handler()})))
		e.RegistryURLs = append(e.RegistryURLs, "ws://"+c.HTTPAddr+websocket.Path)
	}
	if c.StreamAddr != "" {
		e.Registrar.Add(stream.NewServer(c.StreamAddr))
		e.RegistryURLs = append(e.RegistryURLs, "tcp://"+c.StreamAddr)
	}
	if len(e.Registrar.Registrars) == 0 {
		return nil, fmt.Errorf("at least one registrar is required")
	}
	return e, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	e, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return e
}

// AddToLoop adds controllers/runners to loop.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Add(e.Registrar)
	loop.AddRunnable(e.runners...)
	loop.Add(&comm.UnsupportedCommands{})
}

package connector

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/robotalks/radiopanel/pkg/l1"
	"github.com/robotalks/radiopanel/pkg/l1/comm/mqtt"
	"github.com/robotalks/radiopanel/pkg/l1/comm/stream"
	"github.com/robotalks/radiopanel/pkg/l1/comm/websocket"
)

// Config provides common options to setup Connectors.
type Config struct {
	// Panel is "id" or "type/id".
	Panel string

	// RegistryURL specifies where panels are reached.
	// e.g. mqtt://host:port/topic-prefix, ws://host:port/ws, tcp://host:port
	RegistryURL string
}

var defaultConfig = Config{
	RegistryURL: "mqtt://localhost:1883/panel/",
}

func init() {
	if val := os.Getenv("PANEL_ID"); val != "" {
		defaultConfig.Panel = val
	}
	if val := os.Getenv("PANEL_REGISTRY_URL"); val != "" {
		defaultConfig.RegistryURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Panel, "panel", defaultConfig.Panel, "Panel to connect, id or type/id.")
	flag.StringVar(&defaultConfig.RegistryURL, "reg", defaultConfig.RegistryURL, "Panel registry URL.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Ref parses the configured panel.
func (c *Config) Ref() (l1.ControllerRef, error) {
	return l1.ParseControllerRef(c.Panel)
}

// NewConnector creates a Connector using current config.
func (c *Config) NewConnector() (l1.Connector, error) {
	parsedURL, err := url.Parse(c.RegistryURL)
	if err != nil {
		return nil, fmt.Errorf("invalid registry URL: %v", err)
	}
	switch parsedURL.Scheme {
	case "mqtt", "ssl":
		return mqtt.NewConnector(c.RegistryURL)
	case "ws", "wss":
		ref, _ := c.Ref()
		return &websocket.Connector{URL: c.RegistryURL, Ref: ref}, nil
	case "tcp":
		ref, _ := c.Ref()
		return &stream.Connector{Addr: parsedURL.Host, Ref: ref}, nil
	default:
		return nil, fmt.Errorf("unknown registry URL scheme: %q", parsedURL.Scheme)
	}
}

// MustNewConnector creates a Connector and fails on error.
func (c *Config) MustNewConnector() l1.Connector {
	conn, err := c.NewConnector()
	if err != nil {
		log.Fatalln(err)
	}
	return conn
}

// Connect directly connects to the panel.
func (c *Config) Connect(ctx context.Context) (l1.ControllerConn, error) {
	ref, err := c.Ref()
	if err != nil {
		return nil, err
	}
	connector, err := c.NewConnector()
	if err != nil {
		return nil, err
	}
	return connector.Connect(ctx, ref)
}

// MustConnect connects to the panel or exits.
func (c *Config) MustConnect(ctx context.Context) l1.ControllerConn {
	conn, err := c.Connect(ctx)
	if err != nil {
		log.Fatalln(err)
	}
	return conn
}

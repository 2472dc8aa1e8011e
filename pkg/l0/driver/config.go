package driver

import (
	"flag"
	"os"
	"time"

	"github.com/robotalks/radiopanel/pkg/l0/bus"
	"github.com/robotalks/radiopanel/pkg/l0/proto"
)

// Defaults of the poll loop.
const (
	DefaultBusURL    = "i2c:///dev/i2c-1?addr=0x50"
	DefaultInterval  = 50 * time.Millisecond
	DefaultIOTimeout = 20 * time.Millisecond
)

// EnvBusURL overrides the default bus URL.
const EnvBusURL = "PANEL_BUS"

// Config defines how a Driver is opened.
type Config struct {
	// BusURL is passed to bus.Open unless Transport is set.
	BusURL string
	// Interval is the period of the poll loop.
	Interval time.Duration
	// IOTimeout bounds every bus operation, 0 disables the deadline.
	IOTimeout time.Duration

	// Transport is used instead of opening BusURL, it's owned by the
	// Driver afterwards.
	Transport bus.Transport
	// Codec decodes frames, proto.DefaultCodec if nil.
	Codec proto.Codec
	// Notifier is told about link changes, optional.
	Notifier LinkNotifier
}

var defaultConfig = Config{
	BusURL:    DefaultBusURL,
	Interval:  DefaultInterval,
	IOTimeout: DefaultIOTimeout,
}

func init() {
	if url := os.Getenv(EnvBusURL); url != "" {
		defaultConfig.BusURL = url
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.BusURL, "bus", defaultConfig.BusURL, "Bus URL: i2c://<dev>?addr=, serial://<dev>?baud=, sim://?tuner=")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Poll interval.")
	flag.DurationVar(&defaultConfig.IOTimeout, "io-timeout", defaultConfig.IOTimeout, "Deadline of each bus operation, 0 to disable.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Open opens a Driver using the config.
func (c *Config) Open() (*Driver, error) {
	return Open(*c)
}

// Package config loads the optional YAML file of paneld.
//
// Values in the file replace the built-in defaults and environment
// overrides, flags given explicitly on the command line win over the file.
package config

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the layout of the YAML file:
//
//	bus:
//	  url: i2c:///dev/i2c-1?addr=0x50
//	  interval: 50ms
//	  io_timeout: 20ms
//	panel:
//	  id: kitchen
//	  description: kitchen radio
//	  light_on: true
//	remote:
//	  mqtt: mqtt://localhost:1883/panel/
//	  http: ":8080"
//	  tcp: ":7070"
type File struct {
	Bus    BusConfig    `yaml:"bus"`
	Panel  PanelConfig  `yaml:"panel"`
	Remote RemoteConfig `yaml:"remote"`
}

// BusConfig configures the poll loop.
type BusConfig struct {
	URL       string         `yaml:"url"`
	Interval  time.Duration  `yaml:"interval"`
	IOTimeout *time.Duration `yaml:"io_timeout"`
}

// PanelConfig configures the panel identity and startup state.
type PanelConfig struct {
	ID          string            `yaml:"id"`
	Description string            `yaml:"description"`
	Labels      map[string]string `yaml:"labels"`
	LightOn     *bool             `yaml:"light_on"`
	TUI         *bool             `yaml:"tui"`
}

// RemoteConfig configures the remote endpoints. An empty mqtt value
// disables MQTT, which is why it's a pointer.
type RemoteConfig struct {
	MQTT *string `yaml:"mqtt"`
	HTTP string  `yaml:"http"`
	TCP  string  `yaml:"tcp"`
}

// Load reads and validates a file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates YAML. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, err
	}
	if err := Validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Flags is the set of flags given explicitly.
type Flags map[string]bool

// ExplicitFlags collects flags set on the command line of fs.
func ExplicitFlags(fs *flag.FlagSet) Flags {
	set := make(Flags)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

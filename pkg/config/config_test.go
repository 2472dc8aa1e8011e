package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/radiopanel/pkg/l0/driver"
	"github.com/robotalks/radiopanel/pkg/l1/env/controller"
)

const sample = `
bus:
  url: sim://?tuner=473
  interval: 100ms
  io_timeout: 30ms
panel:
  id: kitchen
  description: kitchen radio
  labels:
    room: kitchen
  light_on: false
remote:
  mqtt: ""
  http: ":8080"
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))
	f, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "sim://?tuner=473", f.Bus.URL)
	require.Equal(t, 100*time.Millisecond, f.Bus.Interval)
	require.NotNil(t, f.Bus.IOTimeout)
	require.Equal(t, 30*time.Millisecond, *f.Bus.IOTimeout)
	require.Equal(t, "kitchen", f.Panel.ID)
	require.NotNil(t, f.Panel.LightOn)
	require.False(t, *f.Panel.LightOn)
	require.Nil(t, f.Panel.TUI)
	require.NotNil(t, f.Remote.MQTT)
	require.Empty(t, *f.Remote.MQTT)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, File{}, *f)
}

func TestParseInvalid(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{"unknown key", "bus:\n  port: 1\n"},
		{"bad bus url", "bus:\n  url: can://bus0\n"},
		{"negative interval", "bus:\n  interval: -1s\n"},
		{"timeout exceeds interval", "bus:\n  interval: 10ms\n  io_timeout: 20ms\n"},
		{"bad panel id", "panel:\n  id: a/b\n"},
		{"bad duration", "bus:\n  interval: soon\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.yaml))
			require.Error(t, err)
		})
	}
}

func TestApplyFlagsWin(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.String("bus", "", "")
	fs.String("id", "", "")
	fs.Bool("light-on", true, "")
	require.NoError(t, fs.Parse([]string{"-bus", "sim://", "-light-on"}))
	flags := ExplicitFlags(fs)
	require.True(t, flags["bus"])
	require.False(t, flags["id"])

	dc := driver.Config{BusURL: "sim://", Interval: time.Second, IOTimeout: time.Millisecond}
	f.ApplyDriver(&dc, flags)
	require.Equal(t, "sim://", dc.BusURL)
	require.Equal(t, 100*time.Millisecond, dc.Interval)
	require.Equal(t, 30*time.Millisecond, dc.IOTimeout)

	cc := controller.Config{MQTTBrokerURL: "mqtt://localhost:1883/panel/"}
	f.ApplyController(&cc, flags)
	require.Equal(t, "kitchen", cc.Info.Ref.ID)
	require.Equal(t, "kitchen radio", cc.Info.Meta.Description)
	require.Equal(t, "kitchen", cc.Info.Meta.Labels["room"])
	require.Empty(t, cc.MQTTBrokerURL)
	require.Equal(t, ":8080", cc.HTTPAddr)

	lightOn := true
	ApplyBool(&lightOn, f.Panel.LightOn, "light-on", flags)
	require.True(t, lightOn)
	ApplyBool(&lightOn, f.Panel.LightOn, "light-on", Flags{})
	require.False(t, lightOn)
}

package config

import (
	"github.com/robotalks/radiopanel/pkg/l0/driver"
	"github.com/robotalks/radiopanel/pkg/l1/env/controller"
)

// ApplyDriver copies bus settings not overridden by flags.
func (f *File) ApplyDriver(c *driver.Config, flags Flags) {
	if f.Bus.URL != "" && !flags["bus"] {
		c.BusURL = f.Bus.URL
	}
	if f.Bus.Interval > 0 && !flags["interval"] {
		c.Interval = f.Bus.Interval
	}
	if f.Bus.IOTimeout != nil && !flags["io-timeout"] {
		c.IOTimeout = *f.Bus.IOTimeout
	}
}

// ApplyController copies identity and remote endpoints not overridden
// by flags.
func (f *File) ApplyController(c *controller.Config, flags Flags) {
	if f.Panel.ID != "" && !flags["id"] {
		c.Info.Ref.ID = f.Panel.ID
	}
	if f.Panel.Description != "" && !flags["desc"] {
		c.Info.Meta.Description = f.Panel.Description
	}
	if len(f.Panel.Labels) > 0 {
		c.Info.Meta.Labels = f.Panel.Labels
	}
	if f.Remote.MQTT != nil && !flags["mqtt"] {
		c.MQTTBrokerURL = *f.Remote.MQTT
	}
	if f.Remote.HTTP != "" && !flags["http"] {
		c.HTTPAddr = f.Remote.HTTP
	}
	if f.Remote.TCP != "" && !flags["tcp"] {
		c.StreamAddr = f.Remote.TCP
	}
}

// ApplyBool copies an optional switch unless the flag was given.
func ApplyBool(dst *bool, val *bool, flagName string, flags Flags) {
	if val != nil && !flags[flagName] {
		*dst = *val
	}
}

package config

import (
	"fmt"

	"github.com/robotalks/radiopanel/pkg/l0/bus"
	"github.com/robotalks/radiopanel/pkg/l1"
)

// Validate checks the file without opening anything.
// It doesn't modify f.
func Validate(f *File) error {
	if f.Bus.URL != "" {
		if err := bus.CheckURL(f.Bus.URL); err != nil {
			return fmt.Errorf("bus.url: %w", err)
		}
	}
	if f.Bus.Interval < 0 {
		return fmt.Errorf("bus.interval must be positive, got %v", f.Bus.Interval)
	}
	if t := f.Bus.IOTimeout; t != nil {
		if *t < 0 {
			return fmt.Errorf("bus.io_timeout must not be negative, got %v", *t)
		}
		if f.Bus.Interval > 0 && *t > f.Bus.Interval {
			return fmt.Errorf("bus.io_timeout %v exceeds bus.interval %v", *t, f.Bus.Interval)
		}
	}
	if id := f.Panel.ID; id != "" {
		if !(l1.ControllerRef{Type: l1.PanelType, ID: id}).IsValid() {
			return fmt.Errorf("panel.id %q must not contain '/', '+' or '#'", id)
		}
	}
	return nil
}

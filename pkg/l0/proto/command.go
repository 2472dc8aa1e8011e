package proto

import "fmt"

// Command is a single byte written from host to firmware.
type Command byte

// Commands understood by the firmware.
const (
	ReadRequest Command = 0x00
	LightOff    Command = 0x10
	LightOn     Command = 0x11
)

// LightCommand returns the command switching the light.
func LightCommand(on bool) Command {
	if on {
		return LightOn
	}
	return LightOff
}

// IsValid checks if the firmware understands the command.
func (c Command) IsValid() bool {
	switch c {
	case ReadRequest, LightOff, LightOn:
		return true
	}
	return false
}

// IsQueueable reports whether the command can be queued by a consumer.
// ReadRequest is issued by the poll loop itself.
func (c Command) IsQueueable() bool {
	return c == LightOff || c == LightOn
}

func (c Command) String() string {
	switch c {
	case ReadRequest:
		return "read-request"
	case LightOff:
		return "light-off"
	case LightOn:
		return "light-on"
	}
	return fmt.Sprintf("command(0x%02x)", byte(c))
}

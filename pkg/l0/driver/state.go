package driver

import "strconv"

// State is the phase of the poll loop.
type State int32

// States of the poll loop.
const (
	StateRunning State = iota
	StateDrainingCommands
	StateRequestingRead
	StateAwaitingResponse
	StateFailedBackoff
	StateStopped
)

var stateNames = [...]string{
	StateRunning:          "running",
	StateDrainingCommands: "draining-commands",
	StateRequestingRead:   "requesting-read",
	StateAwaitingResponse: "awaiting-response",
	StateFailedBackoff:    "failed-backoff",
	StateStopped:          "stopped",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

// LinkNotifier is told when the link to the firmware goes down or up.
// It's called from the poll loop and must not block.
type LinkNotifier interface {
	LinkChanged(up bool, err error)
}

// LinkChangedFunc is func type of LinkNotifier.
type LinkChangedFunc func(up bool, err error)

// LinkChanged implements LinkNotifier.
func (f LinkChangedFunc) LinkChanged(up bool, err error) {
	f(up, err)
}

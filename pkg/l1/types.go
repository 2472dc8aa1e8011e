package l1

import (
	"context"
	"fmt"
	"strings"

	fx "github.com/robotalks/radiopanel/pkg/framework"
)

// PanelType is the controller type a panel registers with.
const PanelType = "radiopanel"

// Registrar exposes a panel to remote peers. Received commands are
// posted into the loop as CommandMsg.
type Registrar interface {
	// SendEvent sends an event to all peers.
	SendEvent(context.Context, fx.Message) error
}

// Command represents a received command to be processed.
type Command interface {
	Msg() fx.Message
	Done(fx.Message) error
}

// CommandMsg wraps a Command as a Message.
type CommandMsg struct {
	Command Command
}

// NewMessage implements Message.
func (m *CommandMsg) NewMessage() fx.Message { return &CommandMsg{} }

// ControllerRef is a reference to a panel.
type ControllerRef struct {
	Type string
	ID   string
}

// Name is "type/id", the topic prefix of the panel.
func (r ControllerRef) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates ControllerRef is valid.
func (r ControllerRef) IsValid() bool {
	return r.Type != "" && r.ID != "" && !strings.ContainsAny(r.Type+r.ID, "/+#")
}

// ParseControllerRef parses "type/id", or "id" for a panel.
func ParseControllerRef(s string) (ControllerRef, error) {
	ref := ControllerRef{Type: PanelType, ID: s}
	if pos := strings.Index(s, "/"); pos >= 0 {
		ref.Type, ref.ID = s[:pos], s[pos+1:]
	}
	if !ref.IsValid() {
		return ref, fmt.Errorf("invalid controller ref %q", s)
	}
	return ref, nil
}

// ControllerMeta is published with the registration.
type ControllerMeta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// ControllerInfo provides information of a registered panel.
type ControllerInfo struct {
	Ref  ControllerRef
	Meta ControllerMeta
}

// Connector is used by remote tools to reach a panel.
type Connector interface {
	// Discover enumerates registered panels.
	Discover(context.Context) ([]ControllerInfo, error)
	// Connect connects to the specified panel.
	Connect(context.Context, ControllerRef) (ControllerConn, error)
}

// ControllerConn is the connection to a panel.
type ControllerConn interface {
	// DoCommand sends a command, the result is delivered to the future.
	DoCommand(fx.Message) CommandFuture
}

// Result represents result of a command.
type Result struct {
	Msg fx.Message
	Err error
}

// CommandFuture is the future of sent command.
type CommandFuture interface {
	ResultChan() <-chan Result
}

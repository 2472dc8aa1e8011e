package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/radiopanel/pkg/framework"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
}

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK {
	return &CommandOK{}
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandOK) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandOK) Reset() { *m = CommandOK{} }

// String implements proto.Message.
func (m *CommandOK) String() string { return proto.CompactTextString(m) }

// CommandErr is the generic reply for a failed command.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return NewCommandErrFromMsg(err.Error())
}

// NewCommandErrFromMsg creates a CommandErr.
func NewCommandErrFromMsg(message string) *CommandErr {
	return &CommandErr{Message: message}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandErr) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// LightSet switches the indicator light.
type LightSet struct {
	On bool `protobuf:"varint,1,opt,name=on,proto3" json:"on,omitempty"`
}

// NewMessage implements Message.
func (m *LightSet) NewMessage() fx.Message { return &LightSet{} }

// TypeID implements SerializableMessage.
func (m *LightSet) TypeID() uint32 { return LightSetTypeID }

// Serializable implements SerializableMessage.
func (m *LightSet) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LightSet) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LightSet) Reset() { *m = LightSet{} }

// String implements proto.Message.
func (m *LightSet) String() string { return proto.CompactTextString(m) }

// StatusQuery asks for PanelStatus.
type StatusQuery struct {
}

// NewMessage implements Message.
func (m *StatusQuery) NewMessage() fx.Message { return &StatusQuery{} }

// TypeID implements SerializableMessage.
func (m *StatusQuery) TypeID() uint32 { return StatusQueryTypeID }

// Serializable implements SerializableMessage.
func (m *StatusQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *StatusQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *StatusQuery) Reset() { *m = StatusQuery{} }

// String implements proto.Message.
func (m *StatusQuery) String() string { return proto.CompactTextString(m) }

// PanelReading is the event sent when any control changes.
type PanelReading struct {
	Tuner      uint32 `protobuf:"varint,1,opt,name=tuner,proto3" json:"tuner"`
	KnobA      uint32 `protobuf:"varint,2,opt,name=knob_a,proto3" json:"knob_a"`
	KnobB      uint32 `protobuf:"varint,3,opt,name=knob_b,proto3" json:"knob_b"`
	KnobC      uint32 `protobuf:"varint,4,opt,name=knob_c,proto3" json:"knob_c"`
	Switch     uint32 `protobuf:"varint,5,opt,name=switch,proto3" json:"switch"`
	FreqTenths int32  `protobuf:"varint,6,opt,name=freq_tenths,proto3" json:"freq_tenths"`
	TunerAvg   uint32 `protobuf:"varint,7,opt,name=tuner_avg,proto3" json:"tuner_avg"`
	LinkUp     bool   `protobuf:"varint,8,opt,name=link_up,proto3" json:"link_up"`
}

// NewMessage implements Message.
func (m *PanelReading) NewMessage() fx.Message { return &PanelReading{} }

// TypeID implements SerializableMessage.
func (m *PanelReading) TypeID() uint32 { return PanelReadingEventTypeID }

// Serializable implements SerializableMessage.
func (m *PanelReading) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *PanelReading) ProtoMessage() {}

// Reset implements proto.Message.
func (m *PanelReading) Reset() { *m = PanelReading{} }

// String implements proto.Message.
func (m *PanelReading) String() string { return proto.CompactTextString(m) }

// PanelStatus replies StatusQuery.
type PanelStatus struct {
	Reading  *PanelReading `protobuf:"bytes,1,opt,name=reading,proto3" json:"reading,omitempty"`
	LightOn  bool          `protobuf:"varint,2,opt,name=light_on,proto3" json:"light_on"`
	Cycles   uint64        `protobuf:"varint,3,opt,name=cycles,proto3" json:"cycles"`
	Failures uint64        `protobuf:"varint,4,opt,name=failures,proto3" json:"failures"`
	Sent     uint64        `protobuf:"varint,5,opt,name=sent,proto3" json:"sent"`
	Dropped  uint64        `protobuf:"varint,6,opt,name=dropped,proto3" json:"dropped"`
}

// NewMessage implements Message.
func (m *PanelStatus) NewMessage() fx.Message { return &PanelStatus{} }

// TypeID implements SerializableMessage.
func (m *PanelStatus) TypeID() uint32 { return PanelStatusTypeID }

// Serializable implements SerializableMessage.
func (m *PanelStatus) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *PanelStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *PanelStatus) Reset() { *m = PanelStatus{} }

// String implements proto.Message.
func (m *PanelStatus) String() string { return proto.CompactTextString(m) }

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupPanel   uint32 = 0x00010000
)

// TypeIDs
const (
	CommandOKTypeID         uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID        uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	LightSetTypeID          uint32 = GroupPanel | 0x0000
	StatusQueryTypeID       uint32 = GroupPanel | 0x0001
	PanelStatusTypeID       uint32 = StatusQueryTypeID | TypeIDMaskReply
	PanelReadingEventTypeID uint32 = GroupPanel | TypeIDKindEvent | 0x0000
)

// MessageTypes maps type IDs to messages.
var MessageTypes = map[uint32]SerializableMessage{
	CommandOKTypeID:         (*CommandOK)(nil),
	CommandErrTypeID:        (*CommandErr)(nil),
	LightSetTypeID:          (*LightSet)(nil),
	StatusQueryTypeID:       (*StatusQuery)(nil),
	PanelStatusTypeID:       (*PanelStatus)(nil),
	PanelReadingEventTypeID: (*PanelReading)(nil),
}

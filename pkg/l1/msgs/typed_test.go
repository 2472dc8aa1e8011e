package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/radiopanel/pkg/framework"
)

func TestTypedEncodeDecode(t *testing.T) {
	testCases := []struct {
		name    string
		msg     fx.Message
		command bool
		reply   bool
		event   bool
	}{
		{"light set", &LightSet{On: true}, true, false, false},
		{"status query", &StatusQuery{}, true, false, false},
		{"command ok", &CommandOK{}, true, true, false},
		{"command err", NewCommandErrFromMsg("boom"), true, true, false},
		{"status", &PanelStatus{
			Reading: &PanelReading{Tuner: 200, FreqTenths: 916, LinkUp: true},
			LightOn: true,
			Cycles:  10,
			Dropped: 2,
		}, true, true, false},
		{"reading", &PanelReading{Tuner: 473, KnobA: 1, KnobB: 2, KnobC: 3, Switch: 1, FreqTenths: 980, TunerAvg: 470}, false, false, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			typed, err := TypedFrom(tc.msg)
			require.NoError(t, err)
			require.Equal(t, tc.command, typed.IsCommand())
			require.Equal(t, tc.reply, typed.IsReply())
			require.Equal(t, tc.event, typed.IsEvent())
			typed.Sequence, typed.Origin = 7, "ctl"

			data, err := typed.Encode()
			require.NoError(t, err)
			decodedTyped, err := DecodeTyped(data)
			require.NoError(t, err)
			require.Equal(t, uint32(7), decodedTyped.Sequence)
			require.Equal(t, "ctl", decodedTyped.Origin)
			msg, err := decodedTyped.Decode()
			require.NoError(t, err)
			require.Equal(t, tc.msg, msg)
		})
	}
}

type notSerializable struct{}

func (m *notSerializable) NewMessage() fx.Message { return &notSerializable{} }

func TestTypedErrors(t *testing.T) {
	_, err := TypedFrom(&notSerializable{})
	require.Equal(t, ErrNotSerializable, err)

	typed := &Typed{TypeId: 0x1234}
	_, err = typed.Decode()
	require.Error(t, err)
	require.Equal(t, uint32(0x1234), err.(*ErrUnknownType).TypeID)

	_, err = DecodeTyped([]byte{0xff})
	require.Error(t, err)
}

func TestCommandErr(t *testing.T) {
	var err error = NewCommandErrFromMsg("light failed")
	require.EqualError(t, err, "light failed")
}

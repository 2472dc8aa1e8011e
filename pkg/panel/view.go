package panel

import (
	"fmt"

	"github.com/robotalks/radiopanel/pkg/l0/driver"
	"github.com/robotalks/radiopanel/pkg/l0/proto"
	"github.com/robotalks/radiopanel/pkg/l0/tuning"
	"github.com/robotalks/radiopanel/pkg/l1/msgs"
)

// View is what the panel shows for one iteration.
type View struct {
	Reading  proto.Reading
	Freq     tuning.Tenths
	TunerAvg uint16
	LightOn  bool
	LinkUp   bool
	Stats    driver.Stats
}

// Lines renders the view as text lines.
func (v *View) Lines() []string {
	return []string{
		fmt.Sprintf("Tuner %5d", v.Reading.Tuner),
		fmt.Sprintf("Freq  %5d", int32(v.Freq)),
		fmt.Sprintf("    A  %4d", v.Reading.KnobA),
		fmt.Sprintf("    B  %4d", v.Reading.KnobB),
		fmt.Sprintf("    C  %4d", v.Reading.KnobC),
		fmt.Sprintf("Light %5s", onOff(v.LightOn)),
		fmt.Sprintf("Link  %5s", upDown(v.LinkUp)),
	}
}

// ReadingMsg converts the view to the event published to peers.
func (v *View) ReadingMsg() *msgs.PanelReading {
	return &msgs.PanelReading{
		Tuner:      uint32(v.Reading.Tuner),
		KnobA:      uint32(v.Reading.KnobA),
		KnobB:      uint32(v.Reading.KnobB),
		KnobC:      uint32(v.Reading.KnobC),
		Switch:     uint32(v.Reading.Switch),
		FreqTenths: int32(v.Freq),
		TunerAvg:   uint32(v.TunerAvg),
		LinkUp:     v.LinkUp,
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func upDown(b bool) string {
	if b {
		return "up"
	}
	return "down"
}

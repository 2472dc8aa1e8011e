package panel

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/radiopanel/pkg/cli/sh"
	"github.com/robotalks/radiopanel/pkg/l0/tuning"
	"github.com/robotalks/radiopanel/pkg/l1/msgs"
)

// ParseOnOff parses the argument of light.
func ParseOnOff(arg string) (bool, error) {
	switch strings.ToLower(arg) {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid state %q, expect on or off", arg)
}

// ParseFreq parses a frequency in MHz, e.g. 91.5.
func ParseFreq(arg string) (tuning.Tenths, error) {
	mhz, err := strconv.ParseFloat(arg, 64)
	if err != nil || math.IsNaN(mhz) || math.IsInf(mhz, 0) {
		return 0, fmt.Errorf("invalid frequency %q", arg)
	}
	return tuning.Tenths(math.Round(mhz * 10)), nil
}

// FormatStatus renders PanelStatus for display.
func FormatStatus(st *msgs.PanelStatus) string {
	var r msgs.PanelReading
	if st.Reading != nil {
		r = *st.Reading
	}
	link := "up"
	if !r.LinkUp {
		link = "down"
	}
	light := "off"
	if st.LightOn {
		light = "on"
	}
	return fmt.Sprintf("tuner %d (avg %d) %s MHz\nknobs %d %d %d switch %d\nlight %s link %s\ncycles %d failures %d sent %d dropped %d",
		r.Tuner, r.TunerAvg, tuning.Tenths(r.FreqTenths), r.KnobA, r.KnobB, r.KnobC, r.Switch,
		light, link, st.Cycles, st.Failures, st.Sent, st.Dropped)
}

var (
	// LightCmd exposes LightSet command.
	LightCmd = ishell.Cmd{
		Name:    "light",
		Aliases: []string{"lt"},
		Help:    "on|off",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("on or off required"))
				return
			}
			on, err := ParseOnOff(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoCommand(c, &msgs.LightSet{On: on})
		}),
	}

	// StatusCmd exposes StatusQuery command.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if sh.ShellFrom(c).OutputJSON {
				sh.DoCommand(c, &msgs.StatusQuery{})
				return
			}
			res, err := sh.Request(c, &msgs.StatusQuery{})
			if err != nil {
				c.Err(err)
				return
			}
			st, ok := res.(*msgs.PanelStatus)
			if !ok {
				c.Println(sh.FormatResult(res))
				return
			}
			c.Println(FormatStatus(st))
		}),
	}

	// TuneCmd converts between frequency and tuner codes, it doesn't
	// need a connection.
	TuneCmd = ishell.Cmd{
		Name:    "tune",
		Aliases: []string{"t"},
		Help:    "MHz | -raw CODE",
		Func: func(c *ishell.Context) {
			switch {
			case len(c.Args) == 2 && c.Args[0] == "-raw":
				code, err := strconv.ParseUint(c.Args[1], 0, 16)
				if err != nil {
					c.Err(fmt.Errorf("invalid code %q", c.Args[1]))
					return
				}
				c.Printf("%s MHz\n", tuning.RawToUnit(uint16(code)))
			case len(c.Args) == 1:
				freq, err := ParseFreq(c.Args[0])
				if err != nil {
					c.Err(err)
					return
				}
				c.Printf("%d\n", tuning.UnitToRaw(freq))
			default:
				c.Err(fmt.Errorf("MHz or -raw CODE required"))
			}
		},
	}
)

func init() {
	sh.AddCmds(
		&LightCmd,
		&StatusCmd,
		&TuneCmd,
	)
}

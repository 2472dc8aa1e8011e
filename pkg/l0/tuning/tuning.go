// Package tuning maps raw tuner codes to frequencies and back.
//
// The mapping is a quadratic Lagrange interpolation through three
// calibration points. It is total: codes outside the calibrated range
// are extrapolated, not clamped.
package tuning

import (
	"fmt"
	"math"
)

// Tenths is a fixed-point frequency in tenths of MHz (915 is 91.5 MHz).
type Tenths int32

func (t Tenths) String() string {
	sign := ""
	v := int64(t)
	if v < 0 {
		sign, v = "-", -v
	}
	return fmt.Sprintf("%s%d.%d", sign, v/10, v%10)
}

// MHz converts to floating point MHz.
func (t Tenths) MHz() float64 {
	return float64(t) / 10
}

// Point is a calibration pair.
type Point struct {
	Raw uint16
	MHz float64
}

// Mapper interpolates through three calibration points.
// Raw codes of the points must be distinct, as well as the frequencies.
type Mapper struct {
	Points [3]Point
}

// DefaultMapper is calibrated for the panel's tuning potentiometer.
var DefaultMapper = Mapper{
	Points: [3]Point{
		{Raw: 144, MHz: 90},
		{Raw: 473, MHz: 98},
		{Raw: 703, MHz: 102},
	},
}

func lagrange(x float64, xs, ys [3]float64) float64 {
	var sum float64
	for i := range xs {
		term := ys[i]
		for j := range xs {
			if i != j {
				term *= (x - xs[j]) / (xs[i] - xs[j])
			}
		}
		sum += term
	}
	return sum
}

func (m *Mapper) axes() (raws, freqs [3]float64) {
	for n, pt := range m.Points {
		raws[n], freqs[n] = float64(pt.Raw), pt.MHz
	}
	return
}

// RawToUnit converts a raw tuner code to frequency, rounded to 0.1 MHz.
func (m *Mapper) RawToUnit(code uint16) Tenths {
	raws, freqs := m.axes()
	return Tenths(math.Round(lagrange(float64(code), raws, freqs) * 10))
}

// UnitToRaw converts a frequency back to the nearest raw code,
// saturated to the uint16 range.
func (m *Mapper) UnitToRaw(t Tenths) uint16 {
	raws, freqs := m.axes()
	raw := math.Round(lagrange(t.MHz(), freqs, raws))
	switch {
	case math.IsNaN(raw) || raw <= 0:
		return 0
	case raw >= math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(raw)
}

// RawToUnit converts using DefaultMapper.
func RawToUnit(code uint16) Tenths {
	return DefaultMapper.RawToUnit(code)
}

// UnitToRaw converts using DefaultMapper.
func UnitToRaw(t Tenths) uint16 {
	return DefaultMapper.UnitToRaw(t)
}

package ioplus

import (
	"fmt"
	"math"

	"go.viam.com/ioplus/components/board/ioplus/registers"
)

const (
	millivoltsPerVolt = 1000
	// analogClampVolts bounds any volts argument before encoding. It is far above what the
	// DAC can output; callers that care validate the real range.
	analogClampVolts = 100
)

func bitMask(ch int) byte {
	return 1 << uint(ch-1)
}

// setBit returns v with the bit of 1-based channel ch set or cleared.
func setBit(v byte, ch int, on bool) byte {
	if on {
		return v | bitMask(ch)
	}
	return v &^ bitMask(ch)
}

func bitSet(v byte, ch int) bool {
	return v&bitMask(ch) != 0
}

// voltsToMillivolts clamps volts to [0, 100], rounds up to the next millivolt and
// saturates at the word limit.
func voltsToMillivolts(volts float64) uint16 {
	volts = clamp(volts, 0, analogClampVolts)
	mv := math.Ceil(volts * millivoltsPerVolt)
	if mv > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(mv)
}

func millivoltsToVolts(raw uint16) float64 {
	return float64(raw) / millivoltsPerVolt
}

// percentToPWM clamps pct to [0, 100] and scales it to the firmware PWM range, rounding up.
func percentToPWM(pct float64) uint16 {
	pct = clamp(pct, 0, 100)
	return uint16(math.Ceil(registers.OpenDrainPWMMax * pct / 100))
}

func pwmToPercent(raw uint16) float64 {
	return 100 * float64(raw) / registers.OpenDrainPWMMax
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// EdgeMode selects which transitions of an input an edge counter counts.
type EdgeMode byte

// The edge counting modes.
const (
	EdgeNone EdgeMode = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

func (m EdgeMode) String() string {
	switch m {
	case EdgeNone:
		return "none"
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return fmt.Sprintf("EdgeMode(%d)", byte(m))
	}
}

func (m EdgeMode) valid() bool {
	return m <= EdgeBoth
}

func edgeModeFromMasks(rising, falling byte, ch int) EdgeMode {
	var mode EdgeMode
	if bitSet(rising, ch) {
		mode |= EdgeRising
	}
	if bitSet(falling, ch) {
		mode |= EdgeFalling
	}
	return mode
}

// applyEdgeMode returns the rising and falling masks with only channel ch changed to mode.
func applyEdgeMode(rising, falling byte, ch int, mode EdgeMode) (byte, byte) {
	return setBit(rising, ch, mode&EdgeRising != 0), setBit(falling, ch, mode&EdgeFalling != 0)
}

// Direction is the direction of a GPIO pin. The register stores 1 for inputs.
type Direction byte

// The GPIO directions.
const (
	DirectionOutput Direction = iota
	DirectionInput
)

func (d Direction) String() string {
	if d == DirectionInput {
		return "in"
	}
	return "out"
}

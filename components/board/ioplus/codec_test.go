package ioplus

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestSetBitIsolation(t *testing.T) {
	for _, start := range []byte{0x00, 0xff, 0xa5, 0x5a} {
		for ch := 1; ch <= 8; ch++ {
			for _, on := range []bool{true, false} {
				got := setBit(start, ch, on)
				test.That(t, bitSet(got, ch), test.ShouldEqual, on)
				test.That(t, got&^bitMask(ch), test.ShouldEqual, start&^bitMask(ch))
			}
		}
	}
}

func TestVoltsToMillivolts(t *testing.T) {
	for _, tc := range []struct {
		volts float64
		raw   uint16
	}{
		{0, 0},
		{-3, 0},
		{2.5, 2500},
		{2.5001, 2501},
		{2.007, 2008},
		{10, 10000},
		{65.535, 65535},
		{70, math.MaxUint16},
		{250, math.MaxUint16},
	} {
		test.That(t, voltsToMillivolts(tc.volts), test.ShouldEqual, tc.raw)
	}
}

func TestAnalogRoundTrip(t *testing.T) {
	for v := 0.0; v <= 10; v += 0.137 {
		back := millivoltsToVolts(voltsToMillivolts(v))
		test.That(t, back, test.ShouldBeGreaterThanOrEqualTo, v-1e-9)
		test.That(t, back-v, test.ShouldBeLessThanOrEqualTo, 0.001+1e-9)
	}
	for raw := 0; raw <= math.MaxUint16; raw += 97 {
		back := int(voltsToMillivolts(millivoltsToVolts(uint16(raw))))
		test.That(t, back-raw, test.ShouldBeBetweenOrEqual, 0, 1)
	}
}

func TestAnalogRoundTripNamedValues(t *testing.T) {
	for _, volts := range []float64{0, 3.3, 10} {
		raw := voltsToMillivolts(volts)
		back := millivoltsToVolts(raw)
		test.That(t, back, test.ShouldBeGreaterThanOrEqualTo, volts-1e-9)
		test.That(t, back, test.ShouldAlmostEqual, volts, 0.001+1e-9)
	}
	test.That(t, voltsToMillivolts(10), test.ShouldEqual, uint16(10000))

	for _, pct := range []float64{0, 50, 100} {
		back := pwmToPercent(percentToPWM(pct))
		test.That(t, back, test.ShouldAlmostEqual, pct, 0.01+1e-9)
	}
}

func TestPercentToPWM(t *testing.T) {
	test.That(t, percentToPWM(0), test.ShouldEqual, uint16(0))
	test.That(t, percentToPWM(50), test.ShouldEqual, uint16(5000))
	test.That(t, percentToPWM(100), test.ShouldEqual, uint16(10000))
	test.That(t, percentToPWM(150), test.ShouldEqual, uint16(10000))
	test.That(t, percentToPWM(-1), test.ShouldEqual, uint16(0))
	test.That(t, percentToPWM(12.345), test.ShouldEqual, uint16(1235))
	test.That(t, pwmToPercent(1235), test.ShouldAlmostEqual, 12.35)

	for pct := 0.0; pct <= 100; pct += 0.77 {
		test.That(t, pwmToPercent(percentToPWM(pct))-pct, test.ShouldBeBetweenOrEqual, -1e-9, 0.0101)
	}
}

func TestEdgeModeMasks(t *testing.T) {
	for _, mode := range []EdgeMode{EdgeNone, EdgeRising, EdgeFalling, EdgeBoth} {
		for ch := 1; ch <= 8; ch++ {
			rising, falling := applyEdgeMode(0x5a, 0xa5, ch, mode)
			test.That(t, edgeModeFromMasks(rising, falling, ch), test.ShouldEqual, mode)
			for other := 1; other <= 8; other++ {
				if other == ch {
					continue
				}
				test.That(t, edgeModeFromMasks(rising, falling, other), test.ShouldEqual,
					edgeModeFromMasks(0x5a, 0xa5, other))
			}
		}
	}
	test.That(t, EdgeBoth.String(), test.ShouldEqual, "both")
	test.That(t, EdgeMode(7).valid(), test.ShouldBeFalse)
	test.That(t, EdgeMode(7).String(), test.ShouldEqual, "EdgeMode(7)")
}

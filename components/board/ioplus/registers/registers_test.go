package registers

import (
	"testing"

	"go.viam.com/test"
)

func TestChannelOffsets(t *testing.T) {
	test.That(t, RelayVal.Channel(1), test.ShouldEqual, byte(0))
	test.That(t, ADCMillivolts.Channel(1), test.ShouldEqual, byte(24))
	test.That(t, ADCMillivolts.Channel(8), test.ShouldEqual, byte(38))
	test.That(t, DACMillivolts.Channel(4), test.ShouldEqual, byte(46))
	test.That(t, OpenDrainPWM.Channel(2), test.ShouldEqual, byte(50))
	test.That(t, OptoEdgeCount.Channel(8), test.ShouldEqual, byte(156))
	test.That(t, GPIOEdgeCount.Channel(4), test.ShouldEqual, byte(183))
	test.That(t, OptoEncoderCount.Channel(4), test.ShouldEqual, byte(199))
	test.That(t, GPIOEncoderCount.Channel(2), test.ShouldEqual, byte(207))
	test.That(t, OneWireTemperature.Channel(OneWireMaxSensors), test.ShouldEqual, byte(240))
}

func TestLayoutIsContiguous(t *testing.T) {
	// Block registers must end exactly where the next one starts.
	test.That(t, int(ADCRaw.Offset)+8*ADCRaw.Width, test.ShouldEqual, int(ADCMillivolts.Offset))
	test.That(t, int(ADCMillivolts.Offset)+8*ADCMillivolts.Width, test.ShouldEqual, int(DACMillivolts.Offset))
	test.That(t, int(OpenDrainPWM.Offset)+4*OpenDrainPWM.Width, test.ShouldEqual, int(OptoRisingMask.Offset))
	test.That(t, int(OptoEdgeCount.Offset)+8*OptoEdgeCount.Width, test.ShouldEqual, int(OpenDrainPWMFrequency.Offset)-1)
	test.That(t, int(GPIOEncoderCount.Offset)+2*GPIOEncoderCount.Width, test.ShouldEqual, int(OneWireDeviceCount.Offset))
	test.That(t, int(OneWireRomCode.Offset)+OneWireRomCode.Width, test.ShouldEqual, int(OneWireStartSearch.Offset))
}

func TestForHardware(t *testing.T) {
	for _, tc := range []struct {
		hwMajor      byte
		hasFrequency bool
	}{
		{1, false},
		{2, false},
		{3, true},
		{4, true},
	} {
		m := ForHardware(tc.hwMajor)
		test.That(t, m.HwMajor(), test.ShouldEqual, tc.hwMajor)
		test.That(t, m.Supports(RelayVal), test.ShouldBeTrue)
		test.That(t, m.Supports(OneWireTemperature), test.ShouldBeTrue)
		test.That(t, m.Supports(OpenDrainPWMFrequency), test.ShouldEqual, tc.hasFrequency)
	}
	test.That(t, ForHardware(4).Supports(Register{"relay_val", 9, 1}), test.ShouldBeFalse)
}

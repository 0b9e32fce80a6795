// Package registers describes the IO-PLUS I2C memory map as exposed by the board firmware.
package registers

import "fmt"

// BaseAddress is the slave address of the board at stack level 0; stack level n answers at
// BaseAddress+n.
const BaseAddress = 0x28

// MaxStack is the highest stack level a board can be jumpered to.
const MaxStack = 7

// Firmware protocol constants.
const (
	CalibrationKey        = 0xaa
	ResetCalibrationKey   = 0x55
	WatchdogSignature     = 0xca
	OpenDrainPWMMax       = 10000
	OneWireMaxSensors     = 10
	ADCCalibrationChannel = 1
	DACCalibrationChannel = 9
)

// Register is a named location in the board memory map. Channel-indexed registers repeat
// every Width bytes starting at Offset.
type Register struct {
	Name   string
	Offset byte
	Width  int
}

// Channel returns the offset of the 1-based channel ch of an indexed register.
func (r Register) Channel(ch int) byte {
	return r.Offset + byte(r.Width*(ch-1))
}

func (r Register) String() string {
	return fmt.Sprintf("%s@%d", r.Name, r.Offset)
}

// The board memory map.
var (
	RelayVal = Register{"relay_val", 0, 1}
	RelaySet = Register{"relay_set", 1, 1}
	RelayClr = Register{"relay_clr", 2, 1}
	OptoIn   = Register{"opto_in", 3, 1}
	GPIOVal  = Register{"gpio_val", 4, 1}
	GPIOSet  = Register{"gpio_set", 5, 1}
	GPIOClr  = Register{"gpio_clr", 6, 1}
	GPIODir  = Register{"gpio_dir", 7, 1}

	ADCRaw        = Register{"adc_raw", 8, 2}
	ADCMillivolts = Register{"adc_mv", 24, 2}
	DACMillivolts = Register{"dac_mv", 40, 2}
	OpenDrainPWM  = Register{"od_pwm", 48, 2}

	OptoRisingMask  = Register{"opto_rising", 56, 1}
	OptoFallingMask = Register{"opto_falling", 57, 1}
	GPIORisingMask  = Register{"gpio_rising", 58, 1}
	GPIOFallingMask = Register{"gpio_falling", 59, 1}
	OptoCountReset  = Register{"opto_count_reset", 60, 1}
	GPIOCountReset  = Register{"gpio_count_reset", 61, 1}

	DiagTemperature   = Register{"diag_temperature", 62, 1}
	Diag3V3Millivolts = Register{"diag_3v3_mv", 63, 2}

	CalibValue   = Register{"calib_value", 65, 2}
	CalibChannel = Register{"calib_channel", 67, 1}
	CalibKey     = Register{"calib_key", 68, 1}
	CalibStatus  = Register{"calib_status", 69, 1}

	OptoEncoderEnable = Register{"opto_encoder_enable", 70, 1}
	GPIOEncoderEnable = Register{"gpio_encoder_enable", 71, 1}
	OptoEncoderReset  = Register{"opto_encoder_reset", 72, 1}
	GPIOEncoderReset  = Register{"gpio_encoder_reset", 73, 1}

	WdtReset              = Register{"wdt_reset", 100, 1}
	WdtIntervalSet        = Register{"wdt_interval_set", 101, 2}
	WdtIntervalGet        = Register{"wdt_interval_get", 103, 2}
	WdtInitIntervalSet    = Register{"wdt_init_interval_set", 105, 2}
	WdtInitIntervalGet    = Register{"wdt_init_interval_get", 107, 2}
	WdtResetCount         = Register{"wdt_reset_count", 109, 2}
	WdtClearResetCount    = Register{"wdt_clear_reset_count", 111, 1}
	WdtOffIntervalSet     = Register{"wdt_off_interval_set", 112, 4}
	WdtOffIntervalGet     = Register{"wdt_off_interval_get", 116, 4}
	HwMajor               = Register{"hw_major", 0x78, 1}
	HwMinor               = Register{"hw_minor", 0x79, 1}
	FwMajor               = Register{"fw_major", 0x7a, 1}
	FwMinor               = Register{"fw_minor", 0x7b, 1}
	OptoEdgeCount         = Register{"opto_edge_count", 128, 4}
	OpenDrainPWMFrequency = Register{"od_pwm_frequency", 161, 2}
	GPIOEdgeCount         = Register{"gpio_edge_count", 171, 4}
	OptoEncoderCount      = Register{"opto_encoder_count", 187, 4}
	GPIOEncoderCount      = Register{"gpio_encoder_count", 203, 4}

	OneWireDeviceCount = Register{"owb_device_count", 211, 1}
	OneWireRomIndex    = Register{"owb_rom_index", 212, 1}
	OneWireRomCode     = Register{"owb_rom_code", 213, 8}
	OneWireStartSearch = Register{"owb_start_search", 221, 1}
	OneWireTemperature = Register{"owb_temperature", 222, 2}
)

// revisions lists the registers introduced by each hardware major version. Registers of
// earlier revisions are carried forward.
var revisions = []struct {
	minHwMajor byte
	registers  []Register
}{
	{0, []Register{
		RelayVal, RelaySet, RelayClr, OptoIn, GPIOVal, GPIOSet, GPIOClr, GPIODir,
		ADCRaw, ADCMillivolts, DACMillivolts, OpenDrainPWM,
		OptoRisingMask, OptoFallingMask, GPIORisingMask, GPIOFallingMask, OptoCountReset, GPIOCountReset,
		DiagTemperature, Diag3V3Millivolts, CalibValue, CalibChannel, CalibKey, CalibStatus,
		OptoEncoderEnable, GPIOEncoderEnable, OptoEncoderReset, GPIOEncoderReset,
		WdtReset, WdtIntervalSet, WdtIntervalGet, WdtInitIntervalSet, WdtInitIntervalGet,
		WdtResetCount, WdtClearResetCount, WdtOffIntervalSet, WdtOffIntervalGet,
		HwMajor, HwMinor, FwMajor, FwMinor,
		OptoEdgeCount, GPIOEdgeCount, OptoEncoderCount, GPIOEncoderCount,
		OneWireDeviceCount, OneWireRomIndex, OneWireRomCode, OneWireStartSearch, OneWireTemperature,
	}},
	{3, []Register{OpenDrainPWMFrequency}},
}

// Map is the set of registers a particular hardware revision exposes.
type Map struct {
	hwMajor byte
	present map[string]Register
}

// ForHardware returns the register map of hardware major version hwMajor.
func ForHardware(hwMajor byte) *Map {
	m := &Map{hwMajor: hwMajor, present: map[string]Register{}}
	for _, rev := range revisions {
		if hwMajor < rev.minHwMajor {
			continue
		}
		for _, reg := range rev.registers {
			m.present[reg.Name] = reg
		}
	}
	return m
}

// HwMajor returns the hardware major version the map was built for.
func (m *Map) HwMajor() byte {
	return m.hwMajor
}

// Supports reports whether reg exists on this hardware revision.
func (m *Map) Supports(reg Register) bool {
	found, ok := m.present[reg.Name]
	return ok && found == reg
}

package ioplus

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/ioplus/components/board/ioplus/registers"
	"go.viam.com/ioplus/utils"
)

// Family is a group of identical 1-based channels.
type Family struct {
	name  string
	count int
}

// The channel families of the board.
var (
	Relay       = Family{"relay", 8}
	GPIO        = Family{"gpio", 4}
	OptoInput   = Family{"opto input", 8}
	ADC         = Family{"adc", 8}
	DAC         = Family{"dac", 4}
	OpenDrain   = Family{"open drain", 4}
	OptoEncoder = Family{"opto encoder", 4}
	GPIOEncoder = Family{"gpio encoder", 2}
)

// Name returns the family name.
func (f Family) Name() string {
	return f.name
}

// Count returns the number of channels.
func (f Family) Count() int {
	return f.count
}

// Channels returns 1..Count.
func (f Family) Channels() []int {
	chs := make([]int, f.count)
	for i := range chs {
		chs[i] = i + 1
	}
	return chs
}

func (f Family) validate(ch int) error {
	if ch < 1 || ch > f.count {
		return errors.Wrapf(ErrChannelOutOfRange, "%s channel %d, must be 1..%d", f.name, ch, f.count)
	}
	return nil
}

// validateByte rejects whole-byte values with bits above the family's channels.
func (f Family) validateByte(v byte) error {
	if f.count < 8 && int(v) >= 1<<f.count {
		return errors.Wrapf(ErrValueOutOfRange, "%s value %d, must be 0..%d", f.name, v, 1<<f.count-1)
	}
	return nil
}

// bitField is a byte register holding one bit per channel of a family.
type bitField struct {
	family Family
	reg    registers.Register
}

var (
	relayState    = bitField{Relay, registers.RelayVal}
	gpioState     = bitField{GPIO, registers.GPIOVal}
	gpioDirection = bitField{GPIO, registers.GPIODir}
	optoState     = bitField{OptoInput, registers.OptoIn}
	optoEncoders  = bitField{OptoEncoder, registers.OptoEncoderEnable}
	gpioEncoders  = bitField{GPIOEncoder, registers.GPIOEncoderEnable}
)

func (s *Session) setChannelBit(ctx context.Context, field bitField, ch int, on bool) error {
	if err := field.family.validate(ch); err != nil {
		return err
	}
	cur, err := s.readByte(ctx, field.reg)
	if err != nil {
		return err
	}
	return s.writeByte(ctx, field.reg, setBit(cur, ch, on))
}

func (s *Session) getChannelBit(ctx context.Context, field bitField, ch int) (bool, error) {
	if err := field.family.validate(ch); err != nil {
		return false, err
	}
	v, err := s.ReadByteStable(ctx, field.reg.Offset)
	if err != nil {
		return false, err
	}
	return bitSet(v, ch), nil
}

func (s *Session) setWholeByte(ctx context.Context, field bitField, v byte) error {
	if err := field.family.validateByte(v); err != nil {
		return err
	}
	return s.writeByte(ctx, field.reg, v)
}

func (s *Session) getWholeByte(ctx context.Context, field bitField) (byte, error) {
	return s.ReadByteStable(ctx, field.reg.Offset)
}

// Relay reports whether relay ch is energized.
func (s *Session) Relay(ctx context.Context, ch int) (bool, error) {
	return s.getChannelBit(ctx, relayState, ch)
}

// Relays returns all relay states, relay 1 in the least significant bit.
func (s *Session) Relays(ctx context.Context) (byte, error) {
	return s.getWholeByte(ctx, relayState)
}

// GPIO reports the level of GPIO pin ch.
func (s *Session) GPIO(ctx context.Context, ch int) (bool, error) {
	return s.getChannelBit(ctx, gpioState, ch)
}

// GPIOs returns the levels of all GPIO pins.
func (s *Session) GPIOs(ctx context.Context) (byte, error) {
	return s.getWholeByte(ctx, gpioState)
}

// GPIODirection returns the direction of GPIO pin ch.
func (s *Session) GPIODirection(ctx context.Context, ch int) (Direction, error) {
	in, err := s.getChannelBit(ctx, gpioDirection, ch)
	if err != nil {
		return DirectionOutput, err
	}
	if in {
		return DirectionInput, nil
	}
	return DirectionOutput, nil
}

// GPIODirections returns the direction mask of all GPIO pins, 1 meaning input.
func (s *Session) GPIODirections(ctx context.Context) (byte, error) {
	return s.getWholeByte(ctx, gpioDirection)
}

// Opto reports whether optocoupled input ch is energized.
func (s *Session) Opto(ctx context.Context, ch int) (bool, error) {
	return s.getChannelBit(ctx, optoState, ch)
}

// Optos returns all optocoupled input states.
func (s *Session) Optos(ctx context.Context) (byte, error) {
	return s.getWholeByte(ctx, optoState)
}

// ADCVoltage returns the voltage on analog input ch.
func (s *Session) ADCVoltage(ctx context.Context, ch int) (float64, error) {
	if err := ADC.validate(ch); err != nil {
		return 0, err
	}
	raw, err := s.ReadWordStable(ctx, registers.ADCMillivolts.Channel(ch))
	if err != nil {
		return 0, err
	}
	return millivoltsToVolts(raw), nil
}

// ADCRaw returns the raw converter counts of analog input ch.
func (s *Session) ADCRaw(ctx context.Context, ch int) (uint16, error) {
	if err := ADC.validate(ch); err != nil {
		return 0, err
	}
	return s.ReadWordStable(ctx, registers.ADCRaw.Channel(ch))
}

// DACVoltage returns the voltage analog output ch is set to.
func (s *Session) DACVoltage(ctx context.Context, ch int) (float64, error) {
	if err := DAC.validate(ch); err != nil {
		return 0, err
	}
	raw, err := s.ReadWordStable(ctx, registers.DACMillivolts.Channel(ch))
	if err != nil {
		return 0, err
	}
	return millivoltsToVolts(raw), nil
}

// SetDACVoltage sets analog output ch. volts is clamped to [0, 100] and rounded up to the next
// millivolt; the board itself saturates at its 10V output range. Rounding up happens on the
// binary product, so a few three-decimal inputs land one millivolt high (2.007 V writes 2008).
func (s *Session) SetDACVoltage(ctx context.Context, ch int, volts float64) error {
	if err := DAC.validate(ch); err != nil {
		return err
	}
	return s.WriteRaw(ctx, registers.DACMillivolts.Channel(ch), utils.BytesFromUint16LE(voltsToMillivolts(volts)))
}

// OpenDrainPWM returns the duty cycle of open-drain output ch in percent.
func (s *Session) OpenDrainPWM(ctx context.Context, ch int) (float64, error) {
	if err := OpenDrain.validate(ch); err != nil {
		return 0, err
	}
	raw, err := s.ReadWordStable(ctx, registers.OpenDrainPWM.Channel(ch))
	if err != nil {
		return 0, err
	}
	return pwmToPercent(raw), nil
}

// SetOpenDrainPWM sets the duty cycle of open-drain output ch; pct is clamped to [0, 100].
func (s *Session) SetOpenDrainPWM(ctx context.Context, ch int, pct float64) error {
	if err := OpenDrain.validate(ch); err != nil {
		return err
	}
	return s.WriteRaw(ctx, registers.OpenDrainPWM.Channel(ch), utils.BytesFromUint16LE(percentToPWM(pct)))
}

// Open drain PWM frequency limits in Hz.
const (
	MinOpenDrainFrequency = 10
	MaxOpenDrainFrequency = 64000
)

// OpenDrainFrequency returns the PWM frequency shared by the open-drain outputs.
func (s *Session) OpenDrainFrequency(ctx context.Context) (int, error) {
	if err := s.require(registers.OpenDrainPWMFrequency); err != nil {
		return 0, err
	}
	data, err := s.ReadRaw(ctx, registers.OpenDrainPWMFrequency.Offset, 2)
	if err != nil {
		return 0, err
	}
	return int(utils.Uint16FromBytesLE(data)), nil
}

// SetOpenDrainFrequency sets the PWM frequency of the open-drain outputs.
func (s *Session) SetOpenDrainFrequency(ctx context.Context, hz int) error {
	if err := s.require(registers.OpenDrainPWMFrequency); err != nil {
		return err
	}
	if hz < MinOpenDrainFrequency || hz > MaxOpenDrainFrequency {
		return errors.Wrapf(ErrValueOutOfRange, "open drain frequency %d Hz, must be %d..%d",
			hz, MinOpenDrainFrequency, MaxOpenDrainFrequency)
	}
	return s.WriteRaw(ctx, registers.OpenDrainPWMFrequency.Offset, utils.BytesFromUint16LE(uint16(hz)))
}

// counterBank groups the registers behind the edge counters of an input family.
type counterBank struct {
	family Family
	// rising is followed by the falling mask register.
	rising registers.Register
	count  registers.Register
	reset  registers.Register
}

var (
	optoCounters = counterBank{OptoInput, registers.OptoRisingMask, registers.OptoEdgeCount, registers.OptoCountReset}
	gpioCounters = counterBank{GPIO, registers.GPIORisingMask, registers.GPIOEdgeCount, registers.GPIOCountReset}
)

func countersFor(f Family) (counterBank, error) {
	switch f {
	case OptoInput:
		return optoCounters, nil
	case GPIO:
		return gpioCounters, nil
	default:
		return counterBank{}, errors.Errorf("%s channels have no edge counters", f.name)
	}
}

// EdgeMode returns which transitions the counter of channel ch of f counts. f is OptoInput or GPIO.
func (s *Session) EdgeMode(ctx context.Context, f Family, ch int) (EdgeMode, error) {
	bank, err := countersFor(f)
	if err != nil {
		return EdgeNone, err
	}
	if err := f.validate(ch); err != nil {
		return EdgeNone, err
	}
	masks, err := s.ReadRaw(ctx, bank.rising.Offset, 2)
	if err != nil {
		return EdgeNone, err
	}
	return edgeModeFromMasks(masks[0], masks[1], ch), nil
}

// SetEdgeMode changes which transitions the counter of channel ch counts, leaving the other
// channels untouched.
func (s *Session) SetEdgeMode(ctx context.Context, f Family, ch int, mode EdgeMode) error {
	bank, err := countersFor(f)
	if err != nil {
		return err
	}
	if err := f.validate(ch); err != nil {
		return err
	}
	if !mode.valid() {
		return errors.Wrapf(ErrValueOutOfRange, "edge mode %d, must be 0..3", byte(mode))
	}
	masks, err := s.ReadRaw(ctx, bank.rising.Offset, 2)
	if err != nil {
		return err
	}
	rising, falling := applyEdgeMode(masks[0], masks[1], ch, mode)
	return s.WriteRaw(ctx, bank.rising.Offset, []byte{rising, falling})
}

// EdgeCount returns the number of counted transitions on channel ch.
func (s *Session) EdgeCount(ctx context.Context, f Family, ch int) (uint32, error) {
	bank, err := countersFor(f)
	if err != nil {
		return 0, err
	}
	if err := f.validate(ch); err != nil {
		return 0, err
	}
	return s.ReadDWordStable(ctx, bank.count.Channel(ch))
}

// ResetEdgeCount zeroes the counter of channel ch.
func (s *Session) ResetEdgeCount(ctx context.Context, f Family, ch int) error {
	bank, err := countersFor(f)
	if err != nil {
		return err
	}
	if err := f.validate(ch); err != nil {
		return err
	}
	return s.writeByte(ctx, bank.reset, byte(ch))
}

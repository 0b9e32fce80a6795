package ioplus

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/ioplus/components/board/ioplus/registers"
)

// encoderBank groups the registers of the quadrature encoders built from input pairs.
// Opto encoder n decodes opto inputs 2n-1 and 2n; GPIO encoder n decodes GPIO pins 2n-1 and 2n.
type encoderBank struct {
	enable bitField
	count  registers.Register
	reset  registers.Register
}

var (
	optoEncoderBank = encoderBank{optoEncoders, registers.OptoEncoderCount, registers.OptoEncoderReset}
	gpioEncoderBank = encoderBank{gpioEncoders, registers.GPIOEncoderCount, registers.GPIOEncoderReset}
)

func encodersFor(f Family) (encoderBank, error) {
	switch f {
	case OptoEncoder:
		return optoEncoderBank, nil
	case GPIOEncoder:
		return gpioEncoderBank, nil
	default:
		return encoderBank{}, errors.Errorf("%s is not an encoder family", f.name)
	}
}

// EncoderEnabled reports whether encoder ch of f (OptoEncoder or GPIOEncoder) is decoding.
func (s *Session) EncoderEnabled(ctx context.Context, f Family, ch int) (bool, error) {
	bank, err := encodersFor(f)
	if err != nil {
		return false, err
	}
	return s.getChannelBit(ctx, bank.enable, ch)
}

// SetEncoderEnabled turns decoding of encoder ch on or off. While enabled, the underlying inputs
// no longer count edges individually.
func (s *Session) SetEncoderEnabled(ctx context.Context, f Family, ch int, on bool) error {
	bank, err := encodersFor(f)
	if err != nil {
		return err
	}
	return s.setChannelBit(ctx, bank.enable, ch, on)
}

// EncoderCount returns the signed position of encoder ch.
func (s *Session) EncoderCount(ctx context.Context, f Family, ch int) (int32, error) {
	bank, err := encodersFor(f)
	if err != nil {
		return 0, err
	}
	if err := f.validate(ch); err != nil {
		return 0, err
	}
	return s.ReadIntStable(ctx, bank.count.Channel(ch))
}

// ResetEncoderCount zeroes the position of encoder ch.
func (s *Session) ResetEncoderCount(ctx context.Context, f Family, ch int) error {
	bank, err := encodersFor(f)
	if err != nil {
		return err
	}
	if err := f.validate(ch); err != nil {
		return err
	}
	return s.writeByte(ctx, bank.reset, byte(ch))
}

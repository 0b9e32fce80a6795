package ioplus

import (
	"context"

	"github.com/pkg/errors"
)

// WriteVerifyRetries is the number of set-then-read-back attempts an actuator write may spend.
const WriteVerifyRetries = 10

// writeVerify calls set then matches until matches reports the board reflects the write.
// Transport errors end the loop immediately.
func (s *Session) writeVerify(ctx context.Context, what string, set func() error, matches func() (bool, error)) error {
	for attempt := 1; attempt <= WriteVerifyRetries; attempt++ {
		if err := set(); err != nil {
			return err
		}
		ok, err := matches()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		s.logger.Debugw("write not reflected yet", "target", what, "stack", s.stack, "attempt", attempt)
		if attempt < WriteVerifyRetries {
			s.sleep(s.timing.VerifyDelay)
		}
	}
	s.logger.Warnw("write never reflected", "target", what, "stack", s.stack, "attempts", WriteVerifyRetries)
	return errors.Wrapf(ErrWriteVerifyFailed, "%s on stack %d after %d attempts", what, s.stack, WriteVerifyRetries)
}

func (s *Session) setChannelBitVerified(ctx context.Context, field bitField, ch int, on bool) error {
	if err := field.family.validate(ch); err != nil {
		return err
	}
	return s.writeVerify(ctx, field.reg.Name,
		func() error { return s.setChannelBit(ctx, field, ch, on) },
		func() (bool, error) {
			got, err := s.getChannelBit(ctx, field, ch)
			return got == on, err
		})
}

func (s *Session) setWholeByteVerified(ctx context.Context, field bitField, v byte) error {
	if err := field.family.validateByte(v); err != nil {
		return err
	}
	return s.writeVerify(ctx, field.reg.Name,
		func() error { return s.setWholeByte(ctx, field, v) },
		func() (bool, error) {
			got, err := s.getWholeByte(ctx, field)
			return got == v, err
		})
}

// SetRelay energizes or releases relay ch and waits for the board to confirm it.
func (s *Session) SetRelay(ctx context.Context, ch int, on bool) error {
	return s.setChannelBitVerified(ctx, relayState, ch, on)
}

// SetRelays sets every relay at once, relay 1 in the least significant bit.
func (s *Session) SetRelays(ctx context.Context, v byte) error {
	return s.setWholeByteVerified(ctx, relayState, v)
}

// SetGPIO drives GPIO pin ch high or low. Pins configured as inputs are refused: their value
// bit reports the input level, not the output latch.
func (s *Session) SetGPIO(ctx context.Context, ch int, high bool) error {
	dir, err := s.GPIODirection(ctx, ch)
	if err != nil {
		return err
	}
	if dir == DirectionInput {
		return errors.Wrapf(ErrValueOutOfRange, "gpio pin %d is an input", ch)
	}
	return s.setChannelBitVerified(ctx, gpioState, ch, high)
}

// SetGPIOs drives all GPIO pins at once; v must fit in 4 bits.
func (s *Session) SetGPIOs(ctx context.Context, v byte) error {
	return s.setWholeByteVerified(ctx, gpioState, v)
}

// SetGPIODirection configures GPIO pin ch as an input or an output.
func (s *Session) SetGPIODirection(ctx context.Context, ch int, dir Direction) error {
	return s.setChannelBitVerified(ctx, gpioDirection, ch, dir == DirectionInput)
}

// SetGPIODirections configures every GPIO pin at once, 1 meaning input; v must fit in 4 bits.
func (s *Session) SetGPIODirections(ctx context.Context, v byte) error {
	return s.setWholeByteVerified(ctx, gpioDirection, v)
}

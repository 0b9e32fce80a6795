package ioplus

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/ioplus/components/board/ioplus/registers"
	"go.viam.com/ioplus/utils"
)

// OneWireSensorCount returns how many temperature sensors the last bus search found.
func (s *Session) OneWireSensorCount(ctx context.Context) (int, error) {
	n, err := s.ReadByteStable(ctx, registers.OneWireDeviceCount.Offset)
	return int(n), err
}

func (s *Session) validateOneWireSensor(ctx context.Context, ch int) error {
	count, err := s.OneWireSensorCount(ctx)
	if err != nil {
		return err
	}
	count = min(count, registers.OneWireMaxSensors)
	if ch < 1 || ch > count {
		return errors.Wrapf(ErrChannelOutOfRange, "one wire sensor %d, %d sensors detected", ch, count)
	}
	return nil
}

// OneWireTemperature returns the reading of sensor ch in degrees Celsius.
func (s *Session) OneWireTemperature(ctx context.Context, ch int) (float64, error) {
	if err := s.validateOneWireSensor(ctx, ch); err != nil {
		return 0, err
	}
	data, err := s.ReadRaw(ctx, registers.OneWireTemperature.Channel(ch), 2)
	if err != nil {
		return 0, err
	}
	return float64(utils.Int16FromBytesLE(data)) / 100, nil
}

// OneWireSensorID returns the 64-bit ROM code of sensor ch.
func (s *Session) OneWireSensorID(ctx context.Context, ch int) (uint64, error) {
	if err := s.validateOneWireSensor(ctx, ch); err != nil {
		return 0, err
	}
	if err := s.writeByte(ctx, registers.OneWireRomIndex, byte(ch-1)); err != nil {
		return 0, err
	}
	data, err := s.ReadRaw(ctx, registers.OneWireRomCode.Offset, registers.OneWireRomCode.Width)
	if err != nil {
		return 0, err
	}
	return utils.Uint64FromBytesLE(data), nil
}

package ioplus

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/ioplus/components/board/ioplus/registers"
	"go.viam.com/ioplus/utils"
)

// MaxWatchdogOffSeconds is the longest time the watchdog may keep the Raspberry Pi powered off,
// 48 days.
const MaxWatchdogOffSeconds = 4147200

// ReloadWatchdog restarts the watchdog period. The board power-cycles the Raspberry Pi if no
// reload arrives within the period.
func (s *Session) ReloadWatchdog(ctx context.Context) error {
	return s.writeByte(ctx, registers.WdtReset, registers.WatchdogSignature)
}

// WatchdogPeriod returns the watchdog period in seconds.
func (s *Session) WatchdogPeriod(ctx context.Context) (uint16, error) {
	return s.ReadWordStable(ctx, registers.WdtIntervalGet.Offset)
}

// SetWatchdogPeriod sets the watchdog period in seconds.
func (s *Session) SetWatchdogPeriod(ctx context.Context, seconds uint16) error {
	if seconds == 0 {
		return errors.Wrap(ErrValueOutOfRange, "watchdog period must be at least 1 second")
	}
	return s.WriteRaw(ctx, registers.WdtIntervalSet.Offset, utils.BytesFromUint16LE(seconds))
}

// WatchdogInitPeriod returns the period in seconds used right after power-up.
func (s *Session) WatchdogInitPeriod(ctx context.Context) (uint16, error) {
	return s.ReadWordStable(ctx, registers.WdtInitIntervalGet.Offset)
}

// SetWatchdogInitPeriod sets the period in seconds used right after power-up.
func (s *Session) SetWatchdogInitPeriod(ctx context.Context, seconds uint16) error {
	if seconds == 0 {
		return errors.Wrap(ErrValueOutOfRange, "watchdog initial period must be at least 1 second")
	}
	return s.WriteRaw(ctx, registers.WdtInitIntervalSet.Offset, utils.BytesFromUint16LE(seconds))
}

// WatchdogOffPeriod returns how long in seconds the power stays off after a watchdog reset.
func (s *Session) WatchdogOffPeriod(ctx context.Context) (uint32, error) {
	return s.ReadDWordStable(ctx, registers.WdtOffIntervalGet.Offset)
}

// SetWatchdogOffPeriod sets how long in seconds the power stays off after a watchdog reset.
func (s *Session) SetWatchdogOffPeriod(ctx context.Context, seconds uint32) error {
	if seconds < 1 || seconds > MaxWatchdogOffSeconds {
		return errors.Wrapf(ErrValueOutOfRange, "watchdog off period %d s, must be 1..%d", seconds, MaxWatchdogOffSeconds)
	}
	return s.WriteRaw(ctx, registers.WdtOffIntervalSet.Offset, utils.BytesFromUint32LE(seconds))
}

// WatchdogResetCount returns how many times the watchdog has power-cycled the Raspberry Pi.
func (s *Session) WatchdogResetCount(ctx context.Context) (uint16, error) {
	return s.ReadWordStable(ctx, registers.WdtResetCount.Offset)
}

// ClearWatchdogResetCount zeroes the reset counter.
func (s *Session) ClearWatchdogResetCount(ctx context.Context) error {
	return s.writeByte(ctx, registers.WdtClearResetCount, registers.WatchdogSignature)
}

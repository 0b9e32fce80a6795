package ioplus

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/ioplus/components/board/ioplus/registers"
)

func TestWatchdog(t *testing.T) {
	ctx := context.Background()
	s, b := newFakeSession(t, 4)

	t.Run("reload", func(t *testing.T) {
		test.That(t, s.ReloadWatchdog(ctx), test.ShouldBeNil)
		test.That(t, s.ReloadWatchdog(ctx), test.ShouldBeNil)
		test.That(t, b.WatchdogReloads(), test.ShouldEqual, 2)
		test.That(t, b.Peek(registers.WdtReset.Offset, 1), test.ShouldResemble, []byte{0xca})
	})

	t.Run("period", func(t *testing.T) {
		p, err := s.WatchdogPeriod(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, p, test.ShouldEqual, uint16(120))

		test.That(t, s.SetWatchdogPeriod(ctx, 600), test.ShouldBeNil)
		test.That(t, b.Peek(registers.WdtIntervalSet.Offset, 2), test.ShouldResemble, []byte{0x58, 0x02})
		p, err = s.WatchdogPeriod(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, p, test.ShouldEqual, uint16(600))

		err = s.SetWatchdogPeriod(ctx, 0)
		test.That(t, errors.Is(err, ErrValueOutOfRange), test.ShouldBeTrue)
	})

	t.Run("initial period", func(t *testing.T) {
		test.That(t, s.SetWatchdogInitPeriod(ctx, 300), test.ShouldBeNil)
		p, err := s.WatchdogInitPeriod(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, p, test.ShouldEqual, uint16(300))
		test.That(t, errors.Is(s.SetWatchdogInitPeriod(ctx, 0), ErrValueOutOfRange), test.ShouldBeTrue)
	})

	t.Run("off period", func(t *testing.T) {
		test.That(t, s.SetWatchdogOffPeriod(ctx, MaxWatchdogOffSeconds), test.ShouldBeNil)
		p, err := s.WatchdogOffPeriod(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, p, test.ShouldEqual, uint32(MaxWatchdogOffSeconds))

		before := b.Transactions()
		for _, bad := range []uint32{0, MaxWatchdogOffSeconds + 1} {
			test.That(t, errors.Is(s.SetWatchdogOffPeriod(ctx, bad), ErrValueOutOfRange), test.ShouldBeTrue)
		}
		test.That(t, b.Transactions(), test.ShouldEqual, before)
	})

	t.Run("reset count", func(t *testing.T) {
		b.SetUint16(registers.WdtResetCount.Offset, 17)
		n, err := s.WatchdogResetCount(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, n, test.ShouldEqual, uint16(17))

		test.That(t, s.ClearWatchdogResetCount(ctx), test.ShouldBeNil)
		n, err = s.WatchdogResetCount(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, n, test.ShouldEqual, uint16(0))
	})
}

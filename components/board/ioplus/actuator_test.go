package ioplus

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/ioplus/components/board/ioplus/registers"
	"go.viam.com/ioplus/logging"
)

func TestWriteVerifyBudget(t *testing.T) {
	ctx := context.Background()

	t.Run("never reflected", func(t *testing.T) {
		s, b := newFakeSession(t, 4)
		logger, logs := logging.NewObservedTestLogger(t)
		s.logger = logger
		b.SetWriteHook(func(offset byte, data []byte) bool {
			return offset != registers.RelayVal.Offset
		})

		err := s.SetRelay(ctx, 1, true)
		test.That(t, errors.Is(err, ErrWriteVerifyFailed), test.ShouldBeTrue)
		test.That(t, b.Writes(registers.RelayVal.Offset), test.ShouldEqual, WriteVerifyRetries)
		test.That(t, logs.FilterMessage("write not reflected yet").Len(), test.ShouldEqual, WriteVerifyRetries)
		test.That(t, logs.FilterMessage("write never reflected").Len(), test.ShouldEqual, 1)
	})

	t.Run("whole byte never reflected", func(t *testing.T) {
		s, b := newFakeSession(t, 4)
		b.SetWriteHook(func(offset byte, data []byte) bool { return false })

		err := s.SetRelays(ctx, 0xff)
		test.That(t, errors.Is(err, ErrWriteVerifyFailed), test.ShouldBeTrue)
		test.That(t, b.Writes(registers.RelayVal.Offset), test.ShouldEqual, WriteVerifyRetries)
	})

	for _, dropped := range []int{1, 4, WriteVerifyRetries - 1} {
		s, b := newFakeSession(t, 4)
		remaining := dropped
		b.SetWriteHook(func(offset byte, data []byte) bool {
			if remaining > 0 {
				remaining--
				return false
			}
			return true
		})
		test.That(t, s.SetGPIO(ctx, 3, true), test.ShouldBeNil)
		test.That(t, b.Writes(registers.GPIOVal.Offset), test.ShouldEqual, dropped+1)
		test.That(t, b.Peek(registers.GPIOVal.Offset, 1), test.ShouldResemble, []byte{0x04})
	}

	t.Run("already matching", func(t *testing.T) {
		s, b := newFakeSession(t, 4)
		test.That(t, s.SetGPIODirections(ctx, 0x05), test.ShouldBeNil)
		test.That(t, b.Writes(registers.GPIODir.Offset), test.ShouldEqual, 1)
	})
}

func TestWriteVerifyTransportError(t *testing.T) {
	ctx := context.Background()
	s, b := newFakeSession(t, 4)
	b.SetFailure(errors.New("bus stuck"))
	before := b.Transactions()

	err := s.SetRelay(ctx, 2, true)
	test.That(t, errors.Is(err, ErrIO), test.ShouldBeTrue)
	test.That(t, b.Transactions(), test.ShouldEqual, before+1)

	b.SetFailure(nil)
	test.That(t, s.SetRelay(ctx, 2, true), test.ShouldBeNil)
}

func TestWriteVerifyStopsOnVerifyReadError(t *testing.T) {
	ctx := context.Background()
	s, b := newFakeSession(t, 4)
	toggle := byte(0)
	b.SetReadHook(func(offset byte, data []byte) {
		if offset == registers.RelayVal.Offset {
			toggle++
			data[0] = toggle
		}
	})
	err := s.SetRelay(ctx, 8, true)
	test.That(t, errors.Is(err, ErrRetryExhausted), test.ShouldBeTrue)
	test.That(t, b.Writes(registers.RelayVal.Offset), test.ShouldEqual, 1)
}

func TestSetGPIORefusesInputs(t *testing.T) {
	ctx := context.Background()
	s, b := newFakeSession(t, 4)
	b.Poke(registers.GPIODir.Offset, 0x02)

	err := s.SetGPIO(ctx, 2, true)
	test.That(t, errors.Is(err, ErrValueOutOfRange), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "gpio pin 2 is an input")
	test.That(t, b.Writes(registers.GPIOVal.Offset), test.ShouldEqual, 0)
	test.That(t, b.Peek(registers.GPIOVal.Offset, 1), test.ShouldResemble, []byte{0x00})

	test.That(t, s.SetGPIO(ctx, 1, true), test.ShouldBeNil)
	test.That(t, b.Peek(registers.GPIOVal.Offset, 1), test.ShouldResemble, []byte{0x01})

	before := b.Transactions()
	err = s.SetGPIO(ctx, 5, true)
	test.That(t, errors.Is(err, ErrChannelOutOfRange), test.ShouldBeTrue)
	test.That(t, b.Transactions(), test.ShouldEqual, before)
}

package ioplus

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/ioplus/components/board/genericlinux/buses"
	"go.viam.com/ioplus/components/board/ioplus/registers"
	"go.viam.com/ioplus/logging"
	"go.viam.com/ioplus/testutils/inject"
)

func newInjectedSession(t *testing.T, handle buses.I2CHandle) *Session {
	t.Helper()
	return &Session{
		stack:   0,
		address: registers.BaseAddress,
		handle:  handle,
		regs:    registers.ForHardware(4),
		logger:  logging.NewTestLogger(t),
		clock:   clock.New(),
	}
}

// sequenceHandle answers every block read with the next value of seq, repeating the last one.
func sequenceHandle(seq [][]byte, reads *int) *inject.I2CHandle {
	return &inject.I2CHandle{
		ReadBlockDataFunc: func(ctx context.Context, register byte, numBytes uint8) ([]byte, error) {
			idx := min(*reads, len(seq)-1)
			*reads++
			return seq[idx], nil
		},
	}
}

func TestReadStableConvergence(t *testing.T) {
	ctx := context.Background()

	t.Run("agreeing second read", func(t *testing.T) {
		reads := 0
		s := newInjectedSession(t, sequenceHandle([][]byte{{0x42}}, &reads))
		v, err := s.ReadByteStable(ctx, 3)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, v, test.ShouldEqual, byte(0x42))
		test.That(t, reads, test.ShouldEqual, 2)
	})

	for k := 2; k <= StableReadRetries; k++ {
		reads := 0
		seq := make([][]byte, 0, k)
		for i := 0; i < k-1; i++ {
			seq = append(seq, []byte{byte(i)})
		}
		seq = append(seq, []byte{byte(k - 2)})
		s := newInjectedSession(t, sequenceHandle(seq, &reads))
		v, err := s.ReadByteStable(ctx, 3)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, v, test.ShouldEqual, byte(k-2))
		test.That(t, reads, test.ShouldEqual, k)
	}

	t.Run("never agrees", func(t *testing.T) {
		reads := 0
		handle := &inject.I2CHandle{
			ReadBlockDataFunc: func(ctx context.Context, register byte, numBytes uint8) ([]byte, error) {
				reads++
				return []byte{byte(reads)}, nil
			},
		}
		logger, logs := logging.NewObservedTestLogger(t)
		s := newInjectedSession(t, handle)
		s.logger = logger
		_, err := s.ReadByteStable(ctx, 3)
		test.That(t, errors.Is(err, ErrRetryExhausted), test.ShouldBeTrue)
		test.That(t, reads, test.ShouldEqual, StableReadRetries)
		test.That(t, logs.FilterMessage("register never settled").Len(), test.ShouldEqual, 1)
	})
}

func TestReadStableMasks(t *testing.T) {
	ctx := context.Background()

	t.Run("word jitter in the two low bits", func(t *testing.T) {
		reads := 0
		s := newInjectedSession(t, sequenceHandle([][]byte{{0xc4, 0x09}, {0xc7, 0x09}}, &reads))
		v, err := s.ReadWordStable(ctx, 24)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, v, test.ShouldEqual, uint16(0x09c7))
		test.That(t, reads, test.ShouldEqual, 2)
	})

	t.Run("word change above the low bits", func(t *testing.T) {
		reads := 0
		s := newInjectedSession(t, sequenceHandle([][]byte{{0xc4, 0x09}, {0xc8, 0x09}}, &reads))
		v, err := s.ReadWordStable(ctx, 24)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, v, test.ShouldEqual, uint16(0x09c8))
		test.That(t, reads, test.ShouldEqual, 3)
	})

	t.Run("byte has no jitter allowance", func(t *testing.T) {
		reads := 0
		s := newInjectedSession(t, sequenceHandle([][]byte{{0x04}, {0x05}}, &reads))
		v, err := s.ReadByteStable(ctx, 0)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, v, test.ShouldEqual, byte(0x05))
		test.That(t, reads, test.ShouldEqual, 3)
	})

	t.Run("dword jitter", func(t *testing.T) {
		reads := 0
		s := newInjectedSession(t, sequenceHandle([][]byte{{0x10, 0, 0, 0x01}, {0x13, 0, 0, 0x01}}, &reads))
		v, err := s.ReadDWordStable(ctx, 128)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, v, test.ShouldEqual, uint32(0x01000013))
		test.That(t, reads, test.ShouldEqual, 2)
	})

	t.Run("signed int", func(t *testing.T) {
		reads := 0
		s := newInjectedSession(t, sequenceHandle([][]byte{{0xfe, 0xff, 0xff, 0xff}}, &reads))
		v, err := s.ReadIntStable(ctx, 187)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, v, test.ShouldEqual, int32(-2))
	})
}

func TestReadStableTransportErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("failure is terminal", func(t *testing.T) {
		reads := 0
		handle := &inject.I2CHandle{
			ReadBlockDataFunc: func(ctx context.Context, register byte, numBytes uint8) ([]byte, error) {
				reads++
				if reads == 2 {
					return nil, errors.New("remote i/o error")
				}
				return []byte{1}, nil
			},
		}
		s := newInjectedSession(t, handle)
		_, err := s.ReadByteStable(ctx, 3)
		test.That(t, errors.Is(err, ErrIO), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "remote i/o error")
		test.That(t, reads, test.ShouldEqual, 2)
	})

	t.Run("short read", func(t *testing.T) {
		handle := &inject.I2CHandle{
			ReadBlockDataFunc: func(ctx context.Context, register byte, numBytes uint8) ([]byte, error) {
				return []byte{1}, nil
			},
		}
		s := newInjectedSession(t, handle)
		_, err := s.ReadWordStable(ctx, 24)
		test.That(t, errors.Is(err, ErrIO), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "short read")
	})

	t.Run("write failure", func(t *testing.T) {
		handle := &inject.I2CHandle{
			WriteBlockDataFunc: func(ctx context.Context, register byte, data []byte) error {
				return errors.New("nack")
			},
		}
		s := newInjectedSession(t, handle)
		err := s.WriteRaw(ctx, 40, []byte{0, 0})
		test.That(t, errors.Is(err, ErrIO), test.ShouldBeTrue)
	})
}

func TestReadStableSleepsBetweenReads(t *testing.T) {
	mock := clock.NewMock()
	reads := 0
	handle := &inject.I2CHandle{
		ReadBlockDataFunc: func(ctx context.Context, register byte, numBytes uint8) ([]byte, error) {
			reads++
			return []byte{byte(reads)}, nil
		},
	}
	s := newInjectedSession(t, handle)
	s.clock = mock
	s.timing.StableReadDelay = 5 * time.Millisecond

	start := mock.Now()
	done := make(chan error, 1)
	go func() {
		_, err := s.ReadByteStable(context.Background(), 3)
		done <- err
	}()

	var err error
	for waiting := true; waiting; {
		select {
		case err = <-done:
			waiting = false
		default:
			mock.Add(time.Millisecond)
		}
	}
	test.That(t, errors.Is(err, ErrRetryExhausted), test.ShouldBeTrue)
	test.That(t, reads, test.ShouldEqual, StableReadRetries)
	test.That(t, mock.Now().Sub(start), test.ShouldBeGreaterThanOrEqualTo, (StableReadRetries-1)*5*time.Millisecond)
}

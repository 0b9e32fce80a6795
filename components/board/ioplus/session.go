// Package ioplus drives Sequent Microsystems IO-PLUS expansion boards over I2C: relays, GPIO,
// optocoupled inputs, ADC, DAC, open-drain PWM outputs, edge counters, quadrature encoders, the
// watchdog, calibration storage and the one-wire temperature bus.
//
// Every operation is a short sequence of block transactions against the board's register map.
// Reads of values the firmware updates asynchronously go through a stable read that requires two
// consecutive reads to agree, and actuator writes are read back and retried until the board
// reflects them.
package ioplus

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"go.viam.com/ioplus/components/board/genericlinux/buses"
	"go.viam.com/ioplus/components/board/ioplus/registers"
	"go.viam.com/ioplus/logging"
	"go.viam.com/ioplus/utils"
)

// Timing holds the delays spent between retries.
type Timing struct {
	// StableReadDelay is slept between the reads of a stable read.
	StableReadDelay time.Duration
	// VerifyDelay is slept between write-verify attempts.
	VerifyDelay time.Duration
	// CalibrationDelay is slept before polling the calibration status.
	CalibrationDelay time.Duration
}

// DefaultTiming returns the delays used against real hardware.
func DefaultTiming() Timing {
	return Timing{
		StableReadDelay:  0,
		VerifyDelay:      10 * time.Millisecond,
		CalibrationDelay: 100 * time.Millisecond,
	}
}

// Revision is the hardware and firmware version a board reports.
type Revision struct {
	HwMajor byte
	HwMinor byte
	FwMajor byte
	FwMinor byte
}

func (r Revision) String() string {
	return fmt.Sprintf("hardware %d.%d, firmware %d.%d", r.HwMajor, r.HwMinor, r.FwMajor, r.FwMinor)
}

// Diagnostics are the board health readings.
type Diagnostics struct {
	// TemperatureC is the board CPU temperature in degrees Celsius.
	TemperatureC int
	// SupplyVolts is the 3.3V rail voltage.
	SupplyVolts float64
}

// Session is an open connection to one board. It is not safe for concurrent use and must not
// be reused after a transport failure.
type Session struct {
	stack    int
	address  byte
	handle   buses.I2CHandle
	revision Revision
	regs     *registers.Map
	logger   logging.Logger
	clock    clock.Clock
	timing   Timing
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock retry delays sleep on.
func WithClock(clk clock.Clock) Option {
	return func(s *Session) {
		s.clock = clk
	}
}

// WithTiming overrides the retry delays.
func WithTiming(timing Timing) Option {
	return func(s *Session) {
		s.timing = timing
	}
}

// Open connects to the board at stack level stack, reads its revision and returns a session
// bound to it.
func Open(ctx context.Context, bus buses.I2C, stack int, logger logging.Logger, opts ...Option) (*Session, error) {
	if stack < 0 || stack > registers.MaxStack {
		return nil, errors.Wrapf(ErrInvalidStack, "stack level %d, must be 0..%d", stack, registers.MaxStack)
	}
	address := byte(registers.BaseAddress + stack)
	handle, err := bus.OpenHandle(address)
	if err != nil {
		return nil, errors.Wrapf(ErrBoardNotFound, "IO-PLUS id %d: opening address 0x%02x: %v", stack, address, err)
	}
	guard := utils.NewGuard(func() {
		if err := handle.Close(); err != nil {
			logger.Debugw("failed to close handle", "address", address, "error", err)
		}
	})
	defer guard.OnFail()

	s := &Session{
		stack:   stack,
		address: address,
		handle:  handle,
		logger:  logger,
		clock:   clock.New(),
		timing:  DefaultTiming(),
	}
	for _, opt := range opts {
		opt(s)
	}

	ident, err := s.ReadRaw(ctx, registers.HwMajor.Offset, 4)
	if err != nil {
		return nil, errors.Wrapf(ErrBoardNotFound, "IO-PLUS id %d not detected at address 0x%02x: %v", stack, address, err)
	}
	s.revision = Revision{HwMajor: ident[0], HwMinor: ident[1], FwMajor: ident[2], FwMinor: ident[3]}
	s.regs = registers.ForHardware(s.revision.HwMajor)
	logger.Debugw("opened board", "stack", stack, "address", address, "revision", s.revision.String())

	guard.Success()
	return s, nil
}

// Scan checks every stack level and returns the ones a board answers at, in ascending order.
func Scan(ctx context.Context, bus buses.I2C, logger logging.Logger, opts ...Option) ([]int, error) {
	var found []int
	for stack := 0; stack <= registers.MaxStack; stack++ {
		s, err := Open(ctx, bus, stack, logger, opts...)
		if err != nil {
			if errors.Is(err, ErrBoardNotFound) {
				continue
			}
			return nil, err
		}
		found = append(found, stack)
		if err := s.Close(); err != nil {
			return nil, err
		}
	}
	return found, nil
}

// Close releases the bus handle.
func (s *Session) Close() error {
	return errors.Wrapf(s.handle.Close(), "closing IO-PLUS id %d", s.stack)
}

// Stack returns the stack level of the board.
func (s *Session) Stack() int {
	return s.stack
}

// Address returns the I2C slave address of the board.
func (s *Session) Address() byte {
	return s.address
}

// Revision returns the revision read when the session was opened.
func (s *Session) Revision() Revision {
	return s.revision
}

// Diagnostics reads the CPU temperature and the 3.3V rail in one transaction.
func (s *Session) Diagnostics(ctx context.Context) (Diagnostics, error) {
	data, err := s.ReadRaw(ctx, registers.DiagTemperature.Offset, 3)
	if err != nil {
		return Diagnostics{}, err
	}
	return Diagnostics{
		TemperatureC: int(data[0]),
		SupplyVolts:  millivoltsToVolts(utils.Uint16FromBytesLE(data[1:])),
	}, nil
}

func (s *Session) sleep(d time.Duration) {
	if d > 0 {
		s.clock.Sleep(d)
	}
}

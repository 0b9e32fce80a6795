package cli

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"go.viam.com/ioplus/components/board/fake"
	"go.viam.com/ioplus/components/board/genericlinux/buses"
	"go.viam.com/ioplus/components/board/ioplus"
	"go.viam.com/ioplus/config"
	"go.viam.com/ioplus/logging"
)

// lockTimeout bounds the wait for another ioplus process to release the bus.
const lockTimeout = 10 * time.Second

// simulatedHardware is the hardware major revision of the --simulate board.
const simulatedHardware = 4

// boardRun runs a parsed command against an open board.
type boardRun func(ctx context.Context, s *ioplus.Session) error

// boardActionFunc parses the arguments of a board command, args excluding the stack id. It
// must not touch the bus: the returned boardRun does.
type boardActionFunc func(c *cli.Context, args []string) (boardRun, error)

type ioplusCLI struct {
	bus     buses.I2C
	cfg     *config.Config
	logger  logging.Logger
	logFile io.Closer
}

func (a *ioplusCLI) before(c *cli.Context) error {
	cfg, err := config.Load(c.String(configFlag))
	if err != nil {
		return err
	}
	a.cfg = cfg
	level := zapcore.InfoLevel
	if cfg.Debug || c.Bool(debugFlag) {
		level = zapcore.DebugLevel
	}
	switch {
	case cfg.LogFile != "":
		a.logger, a.logFile = logging.NewFileLogger("ioplus", cfg.LogFile, level)
	case level == zapcore.DebugLevel:
		a.logger = logging.NewDebugLogger("ioplus")
	default:
		a.logger = logging.NewLogger("ioplus")
	}
	logging.ReplaceGlobal(a.logger)
	return nil
}

func (a *ioplusCLI) after(c *cli.Context) error {
	if a.logFile == nil {
		return nil
	}
	return a.logFile.Close()
}

func (a *ioplusCLI) options() []ioplus.Option {
	return []ioplus.Option{ioplus.WithTiming(ioplus.Timing{
		StableReadDelay:  a.cfg.StableReadDelay,
		VerifyDelay:      a.cfg.VerifyDelay,
		CalibrationDelay: a.cfg.CalibrationDelay,
	})}
}

func (a *ioplusCLI) openBus(c *cli.Context) (buses.I2C, error) {
	if a.bus != nil {
		return a.bus, nil
	}
	if c.Bool(simulateFlag) {
		bus := fake.NewBus()
		bus.AddBoard(0, simulatedHardware)
		a.bus = bus
		return bus, nil
	}
	bus, err := buses.NewI2cBus(a.cfg.Bus)
	if err != nil {
		return nil, err
	}
	a.bus = bus
	return bus, nil
}

// withBus holds the bus lock while fn runs.
func (a *ioplusCLI) withBus(c *cli.Context, fn func(ctx context.Context, bus buses.I2C) error) (err error) {
	ctx, cancel := context.WithTimeout(c.Context, lockTimeout)
	lock, err := buses.AcquireBusLock(ctx, a.cfg.LockFile, buses.DefaultLockRetryDelay)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, lock.Release())
	}()
	a.logger.Debugw("acquired bus lock", "path", lock.Path())

	bus, err := a.openBus(c)
	if err != nil {
		return err
	}
	return fn(c.Context, bus)
}

// withBoard turns fn into a command action: it parses the stack id and the arguments, then
// opens the board, runs the command and closes the board. Malformed arguments never reach
// the bus.
func (a *ioplusCLI) withBoard(fn boardActionFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < 1 {
			return usageError(c, "missing board id")
		}
		stack, err := parseStack(c.Args().First())
		if err != nil {
			return err
		}
		run, err := fn(c, c.Args().Tail())
		if err != nil {
			return err
		}
		return a.withBus(c, func(ctx context.Context, bus buses.I2C) (err error) {
			s, err := ioplus.Open(ctx, bus, stack, a.logger.Sublogger(c.Command.Name), a.options()...)
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Combine(err, s.Close())
			}()
			return run(ctx, s)
		})
	}
}

func (a *ioplusCLI) listAction(c *cli.Context) error {
	return a.withBus(c, func(ctx context.Context, bus buses.I2C) error {
		found, err := ioplus.Scan(ctx, bus, a.logger.Sublogger("list"), a.options()...)
		if err != nil {
			return errors.Wrap(err, "scanning for boards")
		}
		printBoardList(c, found)
		return nil
	})
}

package cli

import (
	"context"

	"github.com/urfave/cli/v2"

	"go.viam.com/ioplus/components/board/ioplus"
)

// noArgs accepts a command taking no arguments; the run is fn.
func noArgs(c *cli.Context, args []string, fn boardRun) (boardRun, error) {
	if err := checkArgs(c, args, 0); err != nil {
		return nil, err
	}
	return fn, nil
}

func watchdogReloadAction(c *cli.Context, args []string) (boardRun, error) {
	return noArgs(c, args, func(ctx context.Context, s *ioplus.Session) error {
		return s.ReloadWatchdog(ctx)
	})
}

// printScalar accepts a command taking no arguments; the run prints what read returns.
func printScalar[T any](
	c *cli.Context, args []string, read func(s *ioplus.Session, ctx context.Context) (T, error),
) (boardRun, error) {
	return noArgs(c, args, func(ctx context.Context, s *ioplus.Session) error {
		v, err := read(s, ctx)
		if err != nil {
			return err
		}
		printf(c.App.Writer, "%d\n", v)
		return nil
	})
}

func watchdogWrite(
	c *cli.Context, args []string, maxSeconds uint64,
	write func(ctx context.Context, s *ioplus.Session, seconds uint64) error,
) (boardRun, error) {
	if err := checkArgs(c, args, 1); err != nil {
		return nil, err
	}
	seconds, err := parseUint(c, args[0], 1, maxSeconds)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, s *ioplus.Session) error {
		return write(ctx, s, seconds)
	}, nil
}

func watchdogPeriodReadAction(c *cli.Context, args []string) (boardRun, error) {
	return printScalar(c, args, (*ioplus.Session).WatchdogPeriod)
}

func watchdogPeriodWriteAction(c *cli.Context, args []string) (boardRun, error) {
	return watchdogWrite(c, args, 0xffff, func(ctx context.Context, s *ioplus.Session, seconds uint64) error {
		return s.SetWatchdogPeriod(ctx, uint16(seconds))
	})
}

func watchdogInitPeriodReadAction(c *cli.Context, args []string) (boardRun, error) {
	return printScalar(c, args, (*ioplus.Session).WatchdogInitPeriod)
}

func watchdogInitPeriodWriteAction(c *cli.Context, args []string) (boardRun, error) {
	return watchdogWrite(c, args, 0xffff, func(ctx context.Context, s *ioplus.Session, seconds uint64) error {
		return s.SetWatchdogInitPeriod(ctx, uint16(seconds))
	})
}

func watchdogOffPeriodReadAction(c *cli.Context, args []string) (boardRun, error) {
	return printScalar(c, args, (*ioplus.Session).WatchdogOffPeriod)
}

func watchdogOffPeriodWriteAction(c *cli.Context, args []string) (boardRun, error) {
	return watchdogWrite(c, args, ioplus.MaxWatchdogOffSeconds, func(ctx context.Context, s *ioplus.Session, seconds uint64) error {
		return s.SetWatchdogOffPeriod(ctx, uint32(seconds))
	})
}

func watchdogResetCountReadAction(c *cli.Context, args []string) (boardRun, error) {
	return printScalar(c, args, (*ioplus.Session).WatchdogResetCount)
}

func watchdogResetCountClearAction(c *cli.Context, args []string) (boardRun, error) {
	return noArgs(c, args, func(ctx context.Context, s *ioplus.Session) error {
		return s.ClearWatchdogResetCount(ctx)
	})
}

func oneWireCountAction(c *cli.Context, args []string) (boardRun, error) {
	return printScalar(c, args, (*ioplus.Session).OneWireSensorCount)
}

// parseSensor parses a one-wire sensor index. Its range depends on how many sensors the bus
// found, so the session checks it.
func parseSensor(c *cli.Context, args []string) (int, error) {
	if err := checkArgs(c, args, 1); err != nil {
		return 0, err
	}
	ch, err := parseInt(args[0])
	if err != nil {
		return 0, usageError(c, "invalid sensor %q", args[0])
	}
	return ch, nil
}

func oneWireTemperatureAction(c *cli.Context, args []string) (boardRun, error) {
	ch, err := parseSensor(c, args)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, s *ioplus.Session) error {
		celsius, err := s.OneWireTemperature(ctx, ch)
		if err != nil {
			return err
		}
		printf(c.App.Writer, "%0.2f C\n", celsius)
		return nil
	}, nil
}

func oneWireIDAction(c *cli.Context, args []string) (boardRun, error) {
	ch, err := parseSensor(c, args)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, s *ioplus.Session) error {
		id, err := s.OneWireSensorID(ctx, ch)
		if err != nil {
			return err
		}
		printf(c.App.Writer, "0x%x\n", id)
		return nil
	}, nil
}

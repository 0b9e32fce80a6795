package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"go.viam.com/ioplus/components/board/ioplus"
)

// printf writes to the app output. Failures writing to the terminal are not reported.
func printf(w io.Writer, format string, a ...interface{}) {
	_, _ = fmt.Fprintf(w, format, a...)
}

func printBit(c *cli.Context, on bool) {
	printf(c.App.Writer, "%d\n", lo.Ternary(on, 1, 0))
}

// The session accessors below take the receiver first so method expressions such as
// (*ioplus.Session).SetRelay fit them directly.

// digitalWrite handles "<channel> <state>" and the whole-byte "<value>" forms.
func digitalWrite(
	c *cli.Context,
	args []string,
	f ioplus.Family,
	parseState func(*cli.Context, string) (bool, error),
	setOne func(s *ioplus.Session, ctx context.Context, ch int, on bool) error,
	setAll func(s *ioplus.Session, ctx context.Context, v byte) error,
) (boardRun, error) {
	if err := checkArgs(c, args, 1, 2); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		v, err := parseByte(c, args[0])
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, s *ioplus.Session) error {
			return setAll(s, ctx, v)
		}, nil
	}
	ch, err := parseChannel(c, f, args[0])
	if err != nil {
		return nil, err
	}
	on, err := parseState(c, args[1])
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, s *ioplus.Session) error {
		return setOne(s, ctx, ch, on)
	}, nil
}

// digitalRead prints one channel as 1/0, or the whole byte without a channel.
func digitalRead(
	c *cli.Context,
	args []string,
	f ioplus.Family,
	getOne func(s *ioplus.Session, ctx context.Context, ch int) (bool, error),
	getAll func(s *ioplus.Session, ctx context.Context) (byte, error),
) (boardRun, error) {
	if err := checkArgs(c, args, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return func(ctx context.Context, s *ioplus.Session) error {
			v, err := getAll(s, ctx)
			if err != nil {
				return err
			}
			printf(c.App.Writer, "%d\n", v)
			return nil
		}, nil
	}
	ch, err := parseChannel(c, f, args[0])
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, s *ioplus.Session) error {
		on, err := getOne(s, ctx, ch)
		if err != nil {
			return err
		}
		printBit(c, on)
		return nil
	}, nil
}

func relayWriteAction(c *cli.Context, args []string) (boardRun, error) {
	return digitalWrite(c, args, ioplus.Relay, parseOnOff, (*ioplus.Session).SetRelay, (*ioplus.Session).SetRelays)
}

func relayReadAction(c *cli.Context, args []string) (boardRun, error) {
	return digitalRead(c, args, ioplus.Relay, (*ioplus.Session).Relay, (*ioplus.Session).Relays)
}

func gpioWriteAction(c *cli.Context, args []string) (boardRun, error) {
	return digitalWrite(c, args, ioplus.GPIO, parseOnOff, (*ioplus.Session).SetGPIO, (*ioplus.Session).SetGPIOs)
}

func gpioReadAction(c *cli.Context, args []string) (boardRun, error) {
	return digitalRead(c, args, ioplus.GPIO, (*ioplus.Session).GPIO, (*ioplus.Session).GPIOs)
}

func parseInput(c *cli.Context, arg string) (bool, error) {
	dir, err := parseDirection(c, arg)
	return dir == ioplus.DirectionInput, err
}

func gpioDirWriteAction(c *cli.Context, args []string) (boardRun, error) {
	return digitalWrite(c, args, ioplus.GPIO, parseInput,
		func(s *ioplus.Session, ctx context.Context, ch int, input bool) error {
			return s.SetGPIODirection(ctx, ch, lo.Ternary(input, ioplus.DirectionInput, ioplus.DirectionOutput))
		},
		(*ioplus.Session).SetGPIODirections)
}

func gpioDirReadAction(c *cli.Context, args []string) (boardRun, error) {
	return digitalRead(c, args, ioplus.GPIO,
		func(s *ioplus.Session, ctx context.Context, ch int) (bool, error) {
			dir, err := s.GPIODirection(ctx, ch)
			return dir == ioplus.DirectionInput, err
		},
		(*ioplus.Session).GPIODirections)
}

func optoReadAction(c *cli.Context, args []string) (boardRun, error) {
	return digitalRead(c, args, ioplus.OptoInput, (*ioplus.Session).Opto, (*ioplus.Session).Optos)
}

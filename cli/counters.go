package cli

import (
	"context"

	"github.com/urfave/cli/v2"

	"go.viam.com/ioplus/components/board/ioplus"
)

// channelRun parses a single channel argument of f; the run calls fn with it.
func channelRun(
	c *cli.Context, args []string, f ioplus.Family,
	fn func(ctx context.Context, s *ioplus.Session, ch int) error,
) (boardRun, error) {
	if err := checkArgs(c, args, 1); err != nil {
		return nil, err
	}
	ch, err := parseChannel(c, f, args[0])
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, s *ioplus.Session) error {
		return fn(ctx, s, ch)
	}, nil
}

func edgeWriteAction(f ioplus.Family) boardActionFunc {
	return func(c *cli.Context, args []string) (boardRun, error) {
		if err := checkArgs(c, args, 2); err != nil {
			return nil, err
		}
		ch, err := parseChannel(c, f, args[0])
		if err != nil {
			return nil, err
		}
		mode, err := parseEdge(c, args[1])
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, s *ioplus.Session) error {
			return s.SetEdgeMode(ctx, f, ch, mode)
		}, nil
	}
}

func edgeReadAction(f ioplus.Family) boardActionFunc {
	return func(c *cli.Context, args []string) (boardRun, error) {
		return channelRead(c, args, f, "%d", func(s *ioplus.Session, ctx context.Context, ch int) (byte, error) {
			mode, err := s.EdgeMode(ctx, f, ch)
			return byte(mode), err
		})
	}
}

func countReadAction(f ioplus.Family) boardActionFunc {
	return func(c *cli.Context, args []string) (boardRun, error) {
		return channelRead(c, args, f, "%d", func(s *ioplus.Session, ctx context.Context, ch int) (uint32, error) {
			return s.EdgeCount(ctx, f, ch)
		})
	}
}

func countResetAction(f ioplus.Family) boardActionFunc {
	return func(c *cli.Context, args []string) (boardRun, error) {
		return channelRun(c, args, f, func(ctx context.Context, s *ioplus.Session, ch int) error {
			return s.ResetEdgeCount(ctx, f, ch)
		})
	}
}

func encoderWriteAction(f ioplus.Family) boardActionFunc {
	return func(c *cli.Context, args []string) (boardRun, error) {
		if err := checkArgs(c, args, 2); err != nil {
			return nil, err
		}
		ch, err := parseChannel(c, f, args[0])
		if err != nil {
			return nil, err
		}
		on, err := parseOnOff(c, args[1])
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, s *ioplus.Session) error {
			return s.SetEncoderEnabled(ctx, f, ch, on)
		}, nil
	}
}

func encoderReadAction(f ioplus.Family) boardActionFunc {
	return func(c *cli.Context, args []string) (boardRun, error) {
		return channelRun(c, args, f, func(ctx context.Context, s *ioplus.Session, ch int) error {
			on, err := s.EncoderEnabled(ctx, f, ch)
			if err != nil {
				return err
			}
			printBit(c, on)
			return nil
		})
	}
}

func encoderCountReadAction(f ioplus.Family) boardActionFunc {
	return func(c *cli.Context, args []string) (boardRun, error) {
		return channelRead(c, args, f, "%d", func(s *ioplus.Session, ctx context.Context, ch int) (int32, error) {
			return s.EncoderCount(ctx, f, ch)
		})
	}
}

func encoderCountResetAction(f ioplus.Family) boardActionFunc {
	return func(c *cli.Context, args []string) (boardRun, error) {
		return channelRun(c, args, f, func(ctx context.Context, s *ioplus.Session, ch int) error {
			return s.ResetEncoderCount(ctx, f, ch)
		})
	}
}

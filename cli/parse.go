package cli

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/ioplus/components/board/ioplus"
	"go.viam.com/ioplus/components/board/ioplus/registers"
)

// usageError reports a malformed command line along with the command usage.
func usageError(c *cli.Context, format string, args ...interface{}) error {
	err := errors.Errorf(format, args...)
	if c.Command != nil && c.Command.UsageText != "" {
		return errors.Errorf("%v\nUsage: %s", err, c.Command.UsageText)
	}
	return err
}

// Plain decimal parsing: "08" is a valid channel on the command line.
func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func parseStack(s string) (int, error) {
	stack, err := parseInt(s)
	if err != nil || stack < 0 || stack > registers.MaxStack {
		return 0, errors.Wrapf(ioplus.ErrInvalidStack, "invalid board id %q, must be 0..%d", s, registers.MaxStack)
	}
	return stack, nil
}

func parseChannel(c *cli.Context, f ioplus.Family, s string) (int, error) {
	ch, err := parseInt(s)
	if err != nil || ch < 1 || ch > f.Count() {
		return 0, usageError(c, "%s channel number value out of range: %q, must be 1..%d", f.Name(), s, f.Count())
	}
	return ch, nil
}

func parseOnOff(c *cli.Context, s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "up", "1":
		return true, nil
	case "off", "down", "0":
		return false, nil
	default:
		return false, usageError(c, "invalid state %q, must be on/off", s)
	}
}

func parseDirection(c *cli.Context, s string) (ioplus.Direction, error) {
	switch strings.ToLower(s) {
	case "out", "output", "0":
		return ioplus.DirectionOutput, nil
	case "in", "input", "1":
		return ioplus.DirectionInput, nil
	default:
		return 0, usageError(c, "invalid direction %q, must be out/in", s)
	}
}

func parseEdge(c *cli.Context, s string) (ioplus.EdgeMode, error) {
	mode, err := parseInt(s)
	if err != nil || mode < int(ioplus.EdgeNone) || mode > int(ioplus.EdgeBoth) {
		return 0, usageError(c, "invalid edges %q, must be 0..3", s)
	}
	return ioplus.EdgeMode(mode), nil
}

func parseByte(c *cli.Context, s string) (byte, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, usageError(c, "invalid value %q, must be 0..255", s)
	}
	return byte(v), nil
}

func parseFloat(c *cli.Context, s string, lo, hi float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < lo || v > hi {
		return 0, usageError(c, "invalid value %q, must be %g..%g", s, lo, hi)
	}
	return v, nil
}

func parseUint(c *cli.Context, s string, lo, hi uint64) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || v < lo || v > hi {
		return 0, usageError(c, "invalid value %q, must be %d..%d", s, lo, hi)
	}
	return v, nil
}

// checkArgs fails unless len(args) is one of counts.
func checkArgs(c *cli.Context, args []string, counts ...int) error {
	for _, n := range counts {
		if len(args) == n {
			return nil
		}
	}
	return usageError(c, "invalid number of arguments")
}

package cli

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/ioplus/components/board/ioplus"
)

var errCalibrationFailed = errors.New("calibration failed")

// channelRead parses a single channel argument; the run prints what read returns with format.
func channelRead[T any](
	c *cli.Context, args []string, f ioplus.Family, format string,
	read func(s *ioplus.Session, ctx context.Context, ch int) (T, error),
) (boardRun, error) {
	if err := checkArgs(c, args, 1); err != nil {
		return nil, err
	}
	ch, err := parseChannel(c, f, args[0])
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, s *ioplus.Session) error {
		v, err := read(s, ctx, ch)
		if err != nil {
			return err
		}
		printf(c.App.Writer, format+"\n", v)
		return nil
	}, nil
}

// channelWrite parses "<channel> <value>" with value in [lo, hi]; the run prints done on success.
func channelWrite(
	c *cli.Context, args []string, f ioplus.Family, lo, hi float64,
	write func(s *ioplus.Session, ctx context.Context, ch int, v float64) error,
) (boardRun, error) {
	if err := checkArgs(c, args, 2); err != nil {
		return nil, err
	}
	ch, err := parseChannel(c, f, args[0])
	if err != nil {
		return nil, err
	}
	v, err := parseFloat(c, args[1], lo, hi)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, s *ioplus.Session) error {
		if err := write(s, ctx, ch, v); err != nil {
			return err
		}
		printf(c.App.Writer, "done\n")
		return nil
	}, nil
}

func odReadAction(c *cli.Context, args []string) (boardRun, error) {
	return channelRead(c, args, ioplus.OpenDrain, "%0.2f", (*ioplus.Session).OpenDrainPWM)
}

func odWriteAction(c *cli.Context, args []string) (boardRun, error) {
	return channelWrite(c, args, ioplus.OpenDrain, 0, 100, (*ioplus.Session).SetOpenDrainPWM)
}

func odFrequencyReadAction(c *cli.Context, args []string) (boardRun, error) {
	return printScalar(c, args, (*ioplus.Session).OpenDrainFrequency)
}

func odFrequencyWriteAction(c *cli.Context, args []string) (boardRun, error) {
	if err := checkArgs(c, args, 1); err != nil {
		return nil, err
	}
	hz, err := parseUint(c, args[0], ioplus.MinOpenDrainFrequency, ioplus.MaxOpenDrainFrequency)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, s *ioplus.Session) error {
		if err := s.SetOpenDrainFrequency(ctx, int(hz)); err != nil {
			return err
		}
		printf(c.App.Writer, "done\n")
		return nil
	}, nil
}

func dacReadAction(c *cli.Context, args []string) (boardRun, error) {
	return channelRead(c, args, ioplus.DAC, "%0.3f", (*ioplus.Session).DACVoltage)
}

func dacWriteAction(c *cli.Context, args []string) (boardRun, error) {
	return channelWrite(c, args, ioplus.DAC, 0, ioplus.MaxDACCalibrationVolts, (*ioplus.Session).SetDACVoltage)
}

func adcReadAction(c *cli.Context, args []string) (boardRun, error) {
	return channelRead(c, args, ioplus.ADC, "%0.3f", (*ioplus.Session).ADCVoltage)
}

func adcRawReadAction(c *cli.Context, args []string) (boardRun, error) {
	return channelRead(c, args, ioplus.ADC, "%d", (*ioplus.Session).ADCRaw)
}

func printCalibration(c *cli.Context, status ioplus.CalibrationStatus) error {
	switch status {
	case ioplus.CalibrationDone:
		printf(c.App.Writer, "Calibration done\n")
	case ioplus.CalibrationInProgress:
		printf(c.App.Writer, "Calibration in progress\n")
	default:
		printf(c.App.Writer, "Calibration error!\n")
		return errors.Wrapf(errCalibrationFailed, "board reported %s", status)
	}
	return nil
}

func calibrate(
	c *cli.Context, args []string, f ioplus.Family, maxVolts float64,
	fn func(s *ioplus.Session, ctx context.Context, ch int, volts float64) (ioplus.CalibrationStatus, error),
) (boardRun, error) {
	if err := checkArgs(c, args, 2); err != nil {
		return nil, err
	}
	ch, err := parseChannel(c, f, args[0])
	if err != nil {
		return nil, err
	}
	volts, err := parseFloat(c, args[1], 0, maxVolts)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, s *ioplus.Session) error {
		status, err := fn(s, ctx, ch, volts)
		if err != nil {
			return err
		}
		return printCalibration(c, status)
	}, nil
}

func resetCalibration(
	c *cli.Context, args []string, f ioplus.Family,
	fn func(s *ioplus.Session, ctx context.Context, ch int) (ioplus.CalibrationStatus, error),
) (boardRun, error) {
	if err := checkArgs(c, args, 1); err != nil {
		return nil, err
	}
	ch, err := parseChannel(c, f, args[0])
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, s *ioplus.Session) error {
		status, err := fn(s, ctx, ch)
		if err != nil {
			return err
		}
		return printCalibration(c, status)
	}, nil
}

func adcCalibrateAction(c *cli.Context, args []string) (boardRun, error) {
	return calibrate(c, args, ioplus.ADC, ioplus.MaxADCCalibrationVolts, (*ioplus.Session).CalibrateADC)
}

func adcCalibrationResetAction(c *cli.Context, args []string) (boardRun, error) {
	return resetCalibration(c, args, ioplus.ADC, (*ioplus.Session).ResetADCCalibration)
}

func dacCalibrateAction(c *cli.Context, args []string) (boardRun, error) {
	return calibrate(c, args, ioplus.DAC, ioplus.MaxDACCalibrationVolts, (*ioplus.Session).CalibrateDAC)
}

func dacCalibrationResetAction(c *cli.Context, args []string) (boardRun, error) {
	return resetCalibration(c, args, ioplus.DAC, (*ioplus.Session).ResetDACCalibration)
}

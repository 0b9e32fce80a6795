package ioplus

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/ioplus/components/board/ioplus/registers"
	"go.viam.com/ioplus/utils"
)

// Calibration input ranges in volts.
const (
	MaxADCCalibrationVolts = 3.3
	MaxDACCalibrationVolts = 10
)

// CalibrationStatus is the state the board reports after a calibration command.
type CalibrationStatus byte

// The calibration states.
const (
	CalibrationInProgress CalibrationStatus = iota
	CalibrationDone
	CalibrationError
)

func (st CalibrationStatus) String() string {
	switch st {
	case CalibrationInProgress:
		return "in progress"
	case CalibrationDone:
		return "done"
	case CalibrationError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", byte(st))
	}
}

// CalibrateADC stores a calibration point for analog input ch: the input currently measures
// volts. Two points at opposite ends of the range give the best result.
func (s *Session) CalibrateADC(ctx context.Context, ch int, volts float64) (CalibrationStatus, error) {
	if err := ADC.validate(ch); err != nil {
		return CalibrationError, err
	}
	if volts < 0 || volts > MaxADCCalibrationVolts {
		return CalibrationError, errors.Wrapf(ErrValueOutOfRange, "adc calibration point %.3f V, must be 0..%.1f",
			volts, MaxADCCalibrationVolts)
	}
	return s.calibrate(ctx, registers.ADCCalibrationChannel+byte(ch-1), voltsToMillivolts(volts), registers.CalibrationKey)
}

// CalibrateDAC stores a calibration point for analog output ch: the output currently measures
// volts.
func (s *Session) CalibrateDAC(ctx context.Context, ch int, volts float64) (CalibrationStatus, error) {
	if err := DAC.validate(ch); err != nil {
		return CalibrationError, err
	}
	if volts < 0 || volts > MaxDACCalibrationVolts {
		return CalibrationError, errors.Wrapf(ErrValueOutOfRange, "dac calibration point %.3f V, must be 0..%d",
			volts, MaxDACCalibrationVolts)
	}
	return s.calibrate(ctx, registers.DACCalibrationChannel+byte(ch-1), voltsToMillivolts(volts), registers.CalibrationKey)
}

// ResetADCCalibration restores the factory calibration of analog input ch.
func (s *Session) ResetADCCalibration(ctx context.Context, ch int) (CalibrationStatus, error) {
	if err := ADC.validate(ch); err != nil {
		return CalibrationError, err
	}
	return s.calibrate(ctx, registers.ADCCalibrationChannel+byte(ch-1), 0, registers.ResetCalibrationKey)
}

// ResetDACCalibration restores the factory calibration of analog output ch.
func (s *Session) ResetDACCalibration(ctx context.Context, ch int) (CalibrationStatus, error) {
	if err := DAC.validate(ch); err != nil {
		return CalibrationError, err
	}
	return s.calibrate(ctx, registers.DACCalibrationChannel+byte(ch-1), 0, registers.ResetCalibrationKey)
}

// calibrate sends value, selector and key in one transaction and polls the status once.
func (s *Session) calibrate(ctx context.Context, selector byte, millivolts uint16, key byte) (CalibrationStatus, error) {
	payload := append(utils.BytesFromUint16LE(millivolts), selector, key)
	if err := s.WriteRaw(ctx, registers.CalibValue.Offset, payload); err != nil {
		return CalibrationError, err
	}
	s.sleep(s.timing.CalibrationDelay)
	st, err := s.ReadByteStable(ctx, registers.CalibStatus.Offset)
	if err != nil {
		return CalibrationError, err
	}
	status := CalibrationStatus(st)
	s.logger.Debugw("calibration", "selector", selector, "key", key, "status", status.String())
	return status, nil
}

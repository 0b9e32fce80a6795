package ioplus

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/ioplus/components/board/ioplus/registers"
	"go.viam.com/ioplus/utils"
)

// StableReadRetries is the number of reads a stable read may spend before giving up.
const StableReadRetries = 10

// Masks applied before comparing consecutive reads. The two least significant bits of
// multi-byte values are allowed to jitter.
const (
	byteMask  = 0xff
	wordMask  = 0xfffc
	dwordMask = 0xfffffffc
)

func stableMask(width int) uint32 {
	switch width {
	case 1:
		return byteMask
	case 2:
		return wordMask
	default:
		return dwordMask
	}
}

// ReadRaw performs one block read of n bytes starting at offset.
func (s *Session) ReadRaw(ctx context.Context, offset byte, n int) ([]byte, error) {
	data, err := s.handle.ReadBlockData(ctx, offset, uint8(n))
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "read of %d bytes at register %d on stack %d: %v", n, offset, s.stack, err)
	}
	if len(data) != n {
		return nil, errors.Wrapf(ErrIO, "short read at register %d on stack %d: wanted %d bytes, got %d",
			offset, s.stack, n, len(data))
	}
	return data, nil
}

// WriteRaw performs one block write of payload starting at offset.
func (s *Session) WriteRaw(ctx context.Context, offset byte, payload []byte) error {
	if err := s.handle.WriteBlockData(ctx, offset, payload); err != nil {
		return errors.Wrapf(ErrIO, "write of %d bytes at register %d on stack %d: %v", len(payload), offset, s.stack, err)
	}
	return nil
}

// readStable reads width bytes at offset until two consecutive reads agree under the width's
// mask, and returns the last value read.
func (s *Session) readStable(ctx context.Context, offset byte, width int) (uint32, error) {
	mask := stableMask(width)
	var prev uint32
	havePrev := false
	for attempt := 1; attempt <= StableReadRetries; attempt++ {
		data, err := s.ReadRaw(ctx, offset, width)
		if err != nil {
			return 0, err
		}
		cur := utils.UintFromBytesLE(data)
		if havePrev && cur&mask == prev&mask {
			if attempt > 2 {
				s.logger.Debugw("register settled", "register", offset, "reads", attempt)
			}
			return cur, nil
		}
		prev, havePrev = cur, true
		if attempt < StableReadRetries {
			s.sleep(s.timing.StableReadDelay)
		}
	}
	s.logger.Warnw("register never settled", "register", offset, "reads", StableReadRetries, "last", prev)
	return 0, errors.Wrapf(ErrRetryExhausted, "register %d on stack %d: no two consecutive reads agreed in %d reads",
		offset, s.stack, StableReadRetries)
}

// ReadByteStable returns the byte at offset once two consecutive reads agree.
func (s *Session) ReadByteStable(ctx context.Context, offset byte) (byte, error) {
	v, err := s.readStable(ctx, offset, 1)
	return byte(v), err
}

// ReadWordStable returns the little endian word at offset once two consecutive reads agree
// outside the two least significant bits.
func (s *Session) ReadWordStable(ctx context.Context, offset byte) (uint16, error) {
	v, err := s.readStable(ctx, offset, 2)
	return uint16(v), err
}

// ReadDWordStable is ReadWordStable for 32-bit values.
func (s *Session) ReadDWordStable(ctx context.Context, offset byte) (uint32, error) {
	return s.readStable(ctx, offset, 4)
}

// ReadIntStable is ReadDWordStable for two's complement counters.
func (s *Session) ReadIntStable(ctx context.Context, offset byte) (int32, error) {
	v, err := s.readStable(ctx, offset, 4)
	return int32(v), err
}

func (s *Session) readByte(ctx context.Context, reg registers.Register) (byte, error) {
	data, err := s.ReadRaw(ctx, reg.Offset, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

func (s *Session) writeByte(ctx context.Context, reg registers.Register, v byte) error {
	return s.WriteRaw(ctx, reg.Offset, []byte{v})
}

func (s *Session) require(reg registers.Register) error {
	if !s.regs.Supports(reg) {
		return errors.Wrapf(ErrUnsupportedOnHardware, "%s needs a newer board than hardware %d.%d",
			reg.Name, s.revision.HwMajor, s.revision.HwMinor)
	}
	return nil
}

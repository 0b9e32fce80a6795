package ioplus

import "github.com/pkg/errors"

// Sentinel errors returned by the board session. They are always wrapped with context; match
// them with errors.Is.
var (
	ErrChannelOutOfRange     = errors.New("channel out of range")
	ErrBoardNotFound         = errors.New("board not found")
	ErrIO                    = errors.New("i2c transfer failed")
	ErrRetryExhausted        = errors.New("register value did not settle")
	ErrWriteVerifyFailed     = errors.New("write was not reflected by the board")
	ErrUnsupportedOnHardware = errors.New("not supported on this hardware revision")
	ErrInvalidStack          = errors.New("invalid stack level")
	ErrValueOutOfRange       = errors.New("value out of range")
)

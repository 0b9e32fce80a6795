package buses

import (
	"context"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// DefaultLockRetryDelay is how often AcquireBusLock retries a held lock.
const DefaultLockRetryDelay = 50 * time.Millisecond

// BusLock is an advisory cross-process lock serializing every process that talks to the same
// bus. The kernel drops it if the holding process dies.
type BusLock struct {
	lock *flock.Flock
}

// AcquireBusLock blocks until the exclusive lock on path is held or ctx is done.
func AcquireBusLock(ctx context.Context, path string, retryDelay time.Duration) (*BusLock, error) {
	if retryDelay <= 0 {
		retryDelay = DefaultLockRetryDelay
	}
	lock := flock.New(path)
	locked, err := lock.TryLockContext(ctx, retryDelay)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to lock %q", path)
	}
	if !locked {
		return nil, errors.Errorf("could not acquire bus lock %q", path)
	}
	return &BusLock{lock: lock}, nil
}

// Path returns the lock file path.
func (l *BusLock) Path() string {
	return l.lock.Path()
}

// Release releases the lock. Releasing twice is a no-op.
func (l *BusLock) Release() error {
	if !l.lock.Locked() {
		return nil
	}
	return errors.Wrapf(l.lock.Unlock(), "failed to unlock %q", l.lock.Path())
}

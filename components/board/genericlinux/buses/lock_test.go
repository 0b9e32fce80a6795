package buses

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.viam.com/test"
)

func TestBusLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ioplus.lock")

	first, err := AcquireBusLock(context.Background(), path, time.Millisecond)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, first.Path(), test.ShouldEqual, path)

	t.Run("second holder waits", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := AcquireBusLock(ctx, path, time.Millisecond)
		test.That(t, err, test.ShouldNotBeNil)
	})

	test.That(t, first.Release(), test.ShouldBeNil)
	test.That(t, first.Release(), test.ShouldBeNil)

	t.Run("acquire after release", func(t *testing.T) {
		second, err := AcquireBusLock(context.Background(), path, 0)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, second.Release(), test.ShouldBeNil)
	})
}

func TestNewI2cBusRequiresName(t *testing.T) {
	_, err := NewI2cBus("")
	test.That(t, err, test.ShouldNotBeNil)
}

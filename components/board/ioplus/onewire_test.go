package ioplus

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/ioplus/components/board/ioplus/registers"
)

func TestOneWire(t *testing.T) {
	ctx := context.Background()
	s, b := newFakeSession(t, 4)

	n, err := s.OneWireSensorCount(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, 0)
	_, err = s.OneWireTemperature(ctx, 1)
	test.That(t, errors.Is(err, ErrChannelOutOfRange), test.ShouldBeTrue)

	b.AddOneWireSensor(0x28ff641e8016045c, 21.5)
	b.AddOneWireSensor(0x2800000000000001, -5.25)

	n, err = s.OneWireSensorCount(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, 2)

	temp, err := s.OneWireTemperature(ctx, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, temp, test.ShouldAlmostEqual, 21.5)
	temp, err = s.OneWireTemperature(ctx, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, temp, test.ShouldAlmostEqual, -5.25)

	id, err := s.OneWireSensorID(ctx, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, id, test.ShouldEqual, uint64(0x28ff641e8016045c))
	id, err = s.OneWireSensorID(ctx, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, id, test.ShouldEqual, uint64(0x2800000000000001))
	test.That(t, b.Peek(registers.OneWireRomIndex.Offset, 1), test.ShouldResemble, []byte{1})

	for _, bad := range []int{0, 3} {
		_, err = s.OneWireSensorID(ctx, bad)
		test.That(t, errors.Is(err, ErrChannelOutOfRange), test.ShouldBeTrue)
	}
}

package buses

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// I2cBus is an I2C bus opened through the periph.io host drivers, for example "1" for
// /dev/i2c-1 on a Raspberry Pi.
type I2cBus struct {
	mu   sync.Mutex
	name string
}

// NewI2cBus initializes the host drivers and returns the named bus. The bus device itself is
// only opened when a handle is requested.
func NewI2cBus(name string) (*I2cBus, error) {
	if name == "" {
		return nil, errors.New("i2c bus name must not be empty")
	}
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize periph host drivers")
	}
	return &I2cBus{name: name}, nil
}

// Name returns the bus name the handles are opened on.
func (bus *I2cBus) Name() string {
	return bus.name
}

// OpenHandle opens a handle to the device at addr. The bus stays locked until the handle is
// closed.
func (bus *I2cBus) OpenHandle(addr byte) (I2CHandle, error) {
	bus.mu.Lock()
	closer, err := i2creg.Open(bus.name)
	if err != nil {
		bus.mu.Unlock()
		return nil, errors.Wrapf(err, "failed to open i2c bus %q", bus.name)
	}
	return &I2cHandle{
		device: &i2c.Dev{Bus: closer, Addr: uint16(addr)},
		closer: closer,
		parent: bus,
	}, nil
}

// I2cHandle is a handle to a single device on an I2cBus.
type I2cHandle struct {
	device *i2c.Dev
	closer i2c.BusCloser
	parent *I2cBus
}

// Write writes tx to the device in a single transaction.
func (h *I2cHandle) Write(ctx context.Context, tx []byte) error {
	written, err := h.device.Write(tx)
	if err != nil {
		return errors.Wrapf(err, "i2c write to address 0x%02x", h.device.Addr)
	}
	if written != len(tx) {
		return errors.Errorf("not all bytes were written to i2c address 0x%02x on bus %q: had %d, wrote %d",
			h.device.Addr, h.parent.name, len(tx), written)
	}
	return nil
}

// Read reads count bytes from the device.
func (h *I2cHandle) Read(ctx context.Context, count int) ([]byte, error) {
	buffer := make([]byte, count)
	if err := h.device.Tx(nil, buffer); err != nil {
		return nil, errors.Wrapf(err, "i2c read from address 0x%02x", h.device.Addr)
	}
	return buffer, nil
}

// ReadBlockData reads numBytes starting at register using a repeated start.
func (h *I2cHandle) ReadBlockData(ctx context.Context, register byte, numBytes uint8) ([]byte, error) {
	buffer := make([]byte, numBytes)
	if err := h.device.Tx([]byte{register}, buffer); err != nil {
		return nil, errors.Wrapf(err, "i2c read of register %d at address 0x%02x", register, h.device.Addr)
	}
	return buffer, nil
}

// WriteBlockData writes data starting at register.
func (h *I2cHandle) WriteBlockData(ctx context.Context, register byte, data []byte) error {
	tx := make([]byte, 0, len(data)+1)
	tx = append(tx, register)
	tx = append(tx, data...)
	return h.Write(ctx, tx)
}

// Close releases the bus device and the bus lock.
func (h *I2cHandle) Close() error {
	defer h.parent.mu.Unlock()
	return h.closer.Close()
}

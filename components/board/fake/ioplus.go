// Package fake implements a simulated stack of IO-PLUS boards behind an I2C bus. Each board is
// a 256-byte register file with the side effects of the real firmware: set/clear registers,
// counter resets, watchdog mirrors, calibration and one-wire ROM selection.
package fake

import (
	"context"
	"math"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/ioplus/components/board/genericlinux/buses"
	"go.viam.com/ioplus/components/board/ioplus/registers"
	"go.viam.com/ioplus/utils"
)

const memorySize = 256

// Bus is a simulated I2C bus carrying zero or more boards.
type Bus struct {
	mu      sync.Mutex
	boards  map[byte]*Board
	handles int
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{boards: map[byte]*Board{}}
}

// AddBoard plugs a board jumpered to stack level stack into the bus and returns it.
func (bus *Bus) AddBoard(stack int, hwMajor byte) *Board {
	b := NewBoard(hwMajor)
	bus.mu.Lock()
	bus.boards[registers.BaseAddress+byte(stack)] = b
	bus.mu.Unlock()
	return b
}

// Board returns the board at stack level stack, or nil.
func (bus *Bus) Board(stack int) *Board {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	return bus.boards[registers.BaseAddress+byte(stack)]
}

// OpenHandles returns the number of handles not yet closed.
func (bus *Bus) OpenHandles() int {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	return bus.handles
}

// OpenHandle returns a handle to addr. Like a real bus, opening always succeeds and
// transactions to an address nobody answers fail.
func (bus *Bus) OpenHandle(addr byte) (buses.I2CHandle, error) {
	bus.mu.Lock()
	bus.handles++
	bus.mu.Unlock()
	return &handle{bus: bus, addr: addr}, nil
}

func (bus *Bus) lookup(addr byte) (*Board, error) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	b, ok := bus.boards[addr]
	if !ok {
		return nil, errors.Errorf("no device acknowledged address 0x%02x", addr)
	}
	return b, nil
}

// Calibration records one calibration command received by a board.
type Calibration struct {
	Channel    byte
	Millivolts uint16
	Key        byte
}

// Board is one simulated IO-PLUS board.
type Board struct {
	mu           sync.Mutex
	mem          [memorySize]byte
	reads        map[byte]int
	writes       map[byte]int
	transactions int
	reloads      int
	calibrations []Calibration
	romCodes     []uint64
	failure      error

	readHook  func(offset byte, data []byte)
	writeHook func(offset byte, data []byte) bool
}

// NewBoard returns a board reporting hardware major version hwMajor and firmware 1.5.
func NewBoard(hwMajor byte) *Board {
	b := &Board{reads: map[byte]int{}, writes: map[byte]int{}}
	b.mem[registers.HwMajor.Offset] = hwMajor
	b.mem[registers.HwMinor.Offset] = 0
	b.mem[registers.FwMajor.Offset] = 1
	b.mem[registers.FwMinor.Offset] = 5
	b.putUint16(registers.WdtIntervalGet.Offset, 120)
	b.putUint16(registers.WdtInitIntervalGet.Offset, 270)
	b.putUint32(registers.WdtOffIntervalGet.Offset, 10)
	b.mem[registers.CalibStatus.Offset] = 1
	b.mem[registers.DiagTemperature.Offset] = 35
	b.putUint16(registers.Diag3V3Millivolts.Offset, 3301)
	return b
}

// SetReadHook installs a function that may rewrite the bytes of every read before they are
// returned. It runs without the board lock held.
func (b *Board) SetReadHook(hook func(offset byte, data []byte)) {
	b.mu.Lock()
	b.readHook = hook
	b.mu.Unlock()
}

// SetWriteHook installs a function consulted before every write. Returning false drops the
// write silently, as a board that did not latch it would.
func (b *Board) SetWriteHook(hook func(offset byte, data []byte) bool) {
	b.mu.Lock()
	b.writeHook = hook
	b.mu.Unlock()
}

// SetFailure makes every following transaction fail with err. A nil err heals the board.
func (b *Board) SetFailure(err error) {
	b.mu.Lock()
	b.failure = err
	b.mu.Unlock()
}

// Peek returns n bytes of register memory starting at offset without counting a transaction.
func (b *Board) Peek(offset byte, n int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	end := min(int(offset)+n, memorySize)
	return append([]byte(nil), b.mem[offset:end]...)
}

// Poke stores data starting at offset without firmware side effects, as the board itself
// would when an input changes.
func (b *Board) Poke(offset byte, data ...byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	copy(b.mem[offset:], data)
}

// Uint16 returns the little endian word at offset.
func (b *Board) Uint16(offset byte) uint16 {
	return utils.Uint16FromBytesLE(b.Peek(offset, 2))
}

// SetUint16 stores a little endian word at offset.
func (b *Board) SetUint16(offset byte, v uint16) {
	b.Poke(offset, utils.BytesFromUint16LE(v)...)
}

// Uint32 returns the little endian double word at offset.
func (b *Board) Uint32(offset byte) uint32 {
	return utils.Uint32FromBytesLE(b.Peek(offset, 4))
}

// SetUint32 stores a little endian double word at offset.
func (b *Board) SetUint32(offset byte, v uint32) {
	b.Poke(offset, utils.BytesFromUint32LE(v)...)
}

// AddOneWireSensor attaches a temperature sensor with the given ROM code and reading.
func (b *Board) AddOneWireSensor(romCode uint64, celsius float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.romCodes) >= registers.OneWireMaxSensors {
		return
	}
	b.romCodes = append(b.romCodes, romCode)
	count := len(b.romCodes)
	b.mem[registers.OneWireDeviceCount.Offset] = byte(count)
	b.putUint16(registers.OneWireTemperature.Channel(count), uint16(int16(math.Round(celsius*100))))
}

// Reads returns how many reads started at offset.
func (b *Board) Reads(offset byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reads[offset]
}

// Writes returns how many writes started at offset.
func (b *Board) Writes(offset byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes[offset]
}

// Transactions returns the number of bus transactions addressed to the board.
func (b *Board) Transactions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transactions
}

// WatchdogReloads returns how many valid watchdog reloads were received.
func (b *Board) WatchdogReloads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reloads
}

// Calibrations returns the calibration commands received so far.
func (b *Board) Calibrations() []Calibration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Calibration(nil), b.calibrations...)
}

func (b *Board) read(offset byte, n int) ([]byte, error) {
	b.mu.Lock()
	b.transactions++
	b.reads[offset]++
	if b.failure != nil {
		err := b.failure
		b.mu.Unlock()
		return nil, err
	}
	end := min(int(offset)+n, memorySize)
	data := append([]byte(nil), b.mem[offset:end]...)
	hook := b.readHook
	b.mu.Unlock()

	if hook != nil {
		hook(offset, data)
	}
	return data, nil
}

func (b *Board) write(offset byte, data []byte) error {
	b.mu.Lock()
	b.transactions++
	b.writes[offset]++
	if b.failure != nil {
		err := b.failure
		b.mu.Unlock()
		return err
	}
	hook := b.writeHook
	b.mu.Unlock()

	if hook != nil && !hook(offset, append([]byte(nil), data...)) {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if int(offset)+len(data) > memorySize {
		return errors.Errorf("write of %d bytes at %d overruns the register file", len(data), offset)
	}
	copy(b.mem[offset:], data)
	b.applySideEffects(offset, len(data))
	return nil
}

// applySideEffects runs the firmware reaction to every command register covered by a write.
func (b *Board) applySideEffects(offset byte, n int) {
	covers := func(reg registers.Register) bool {
		return reg.Offset >= offset && int(reg.Offset) < int(offset)+n
	}

	if covers(registers.RelaySet) {
		b.setBit(registers.RelayVal, b.mem[registers.RelaySet.Offset], 8, true)
	}
	if covers(registers.RelayClr) {
		b.setBit(registers.RelayVal, b.mem[registers.RelayClr.Offset], 8, false)
	}
	if covers(registers.GPIOSet) {
		b.setBit(registers.GPIOVal, b.mem[registers.GPIOSet.Offset], 4, true)
	}
	if covers(registers.GPIOClr) {
		b.setBit(registers.GPIOVal, b.mem[registers.GPIOClr.Offset], 4, false)
	}

	b.resetCounter(covers, registers.OptoCountReset, registers.OptoEdgeCount, 8)
	b.resetCounter(covers, registers.GPIOCountReset, registers.GPIOEdgeCount, 4)
	b.resetCounter(covers, registers.OptoEncoderReset, registers.OptoEncoderCount, 4)
	b.resetCounter(covers, registers.GPIOEncoderReset, registers.GPIOEncoderCount, 2)

	if covers(registers.WdtReset) && b.mem[registers.WdtReset.Offset] == registers.WatchdogSignature {
		b.reloads++
	}
	if covers(registers.WdtIntervalSet) {
		b.mirror(registers.WdtIntervalSet, registers.WdtIntervalGet)
	}
	if covers(registers.WdtInitIntervalSet) {
		b.mirror(registers.WdtInitIntervalSet, registers.WdtInitIntervalGet)
	}
	if covers(registers.WdtOffIntervalSet) {
		b.mirror(registers.WdtOffIntervalSet, registers.WdtOffIntervalGet)
	}
	if covers(registers.WdtClearResetCount) &&
		b.mem[registers.WdtClearResetCount.Offset] == registers.WatchdogSignature {
		b.putUint16(registers.WdtResetCount.Offset, 0)
	}

	if covers(registers.CalibKey) {
		b.calibrate()
	}

	if covers(registers.OneWireRomIndex) {
		idx := int(b.mem[registers.OneWireRomIndex.Offset])
		if idx < len(b.romCodes) {
			copy(b.mem[registers.OneWireRomCode.Offset:], utils.BytesFromUint64LE(b.romCodes[idx]))
		}
	}
}

func (b *Board) setBit(reg registers.Register, ch byte, count int, on bool) {
	if ch < 1 || int(ch) > count {
		return
	}
	if on {
		b.mem[reg.Offset] |= 1 << (ch - 1)
	} else {
		b.mem[reg.Offset] &^= 1 << (ch - 1)
	}
}

func (b *Board) resetCounter(covers func(registers.Register) bool, reset, counter registers.Register, count int) {
	if !covers(reset) {
		return
	}
	ch := int(b.mem[reset.Offset])
	if ch < 1 || ch > count {
		return
	}
	start := counter.Channel(ch)
	for i := 0; i < counter.Width; i++ {
		b.mem[int(start)+i] = 0
	}
}

func (b *Board) mirror(from, to registers.Register) {
	copy(b.mem[to.Offset:int(to.Offset)+to.Width], b.mem[from.Offset:int(from.Offset)+from.Width])
}

func (b *Board) calibrate() {
	key := b.mem[registers.CalibKey.Offset]
	ch := b.mem[registers.CalibChannel.Offset]
	if (key != registers.CalibrationKey && key != registers.ResetCalibrationKey) || ch < 1 || ch > 12 {
		b.mem[registers.CalibStatus.Offset] = 2
		return
	}
	b.calibrations = append(b.calibrations, Calibration{
		Channel:    ch,
		Millivolts: utils.Uint16FromBytesLE(b.mem[registers.CalibValue.Offset:]),
		Key:        key,
	})
	b.mem[registers.CalibStatus.Offset] = 1
}

func (b *Board) putUint16(offset byte, v uint16) {
	copy(b.mem[offset:], utils.BytesFromUint16LE(v))
}

func (b *Board) putUint32(offset byte, v uint32) {
	copy(b.mem[offset:], utils.BytesFromUint32LE(v))
}

type handle struct {
	bus     *Bus
	addr    byte
	pointer byte

	mu     sync.Mutex
	closed bool
}

func (h *handle) board() (*Board, error) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return nil, errors.New("handle is closed")
	}
	return h.bus.lookup(h.addr)
}

func (h *handle) Write(ctx context.Context, tx []byte) error {
	if len(tx) == 0 {
		return errors.New("empty i2c write")
	}
	b, err := h.board()
	if err != nil {
		return err
	}
	h.pointer = tx[0]
	if len(tx) == 1 {
		return nil
	}
	return b.write(tx[0], tx[1:])
}

func (h *handle) Read(ctx context.Context, count int) ([]byte, error) {
	b, err := h.board()
	if err != nil {
		return nil, err
	}
	return b.read(h.pointer, count)
}

func (h *handle) ReadBlockData(ctx context.Context, register byte, numBytes uint8) ([]byte, error) {
	b, err := h.board()
	if err != nil {
		return nil, err
	}
	return b.read(register, int(numBytes))
}

func (h *handle) WriteBlockData(ctx context.Context, register byte, data []byte) error {
	b, err := h.board()
	if err != nil {
		return err
	}
	return b.write(register, data)
}

func (h *handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	h.bus.mu.Lock()
	h.bus.handles--
	h.bus.mu.Unlock()
	return nil
}

package adapter

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/karalabe/hid"

	"github.com/mklimuk/accel"
	"github.com/mklimuk/accel/gpio"
	"github.com/mklimuk/accel/snsctx"
)

const VendorID = 0x04D8
const ProductID = 0x00DD

const reportSize = 64

// maxChunk is the largest I2C payload carried by a single HID report.
const maxChunk = 60

var ErrCommandUnsupported = errors.New("unsupported command")
var ErrCommandFailed = errors.New("command failed")
var ErrDeviceNotFound = errors.New("MCP2221 device not found")

// HID command codes
const (
	cmdStatus          = 0x10
	cmdGetI2CData      = 0x40
	cmdGetGPIO         = 0x51
	cmdI2CWrite        = 0x90
	cmdI2CRead         = 0x91
	cmdI2CReadRepeated = 0x93
	cmdI2CWriteNoStop  = 0x94
	cmdGetSRAM         = 0xB0
	cmdSetSRAM         = 0xB1
)

var (
	_ accel.I2CBus     = &MCP2221{}
	_ accel.Transactor = &MCP2221{}
)

type hidDevice interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

type MCP2221Opts struct {
	// Index selects the adapter when several are connected.
	Index        int
	ResponseWait time.Duration
}

type MCP2221Opt func(*MCP2221Opts)

func WithIndex(i int) MCP2221Opt {
	return func(o *MCP2221Opts) {
		o.Index = i
	}
}

func WithResponseWait(d time.Duration) MCP2221Opt {
	return func(o *MCP2221Opts) {
		o.ResponseWait = d
	}
}

// MCP2221 is a USB to I2C bridge. Every command is a 64 byte HID report answered by a 64 byte
// response whose second byte is the status.
type MCP2221 struct {
	mx       sync.Mutex
	config   MCP2221Opts
	open     func() (hidDevice, error)
	request  []byte
	response []byte
}

type MCP2221Status struct {
	I2CDataBufferCounter   int    `yaml:"i2c_data_buffer_counter"`
	I2CSpeedDivider        int    `yaml:"i2c_speed_divider"`
	I2CTimeout             int    `yaml:"i2c_timeout"`
	CurrentAddress         string `yaml:"current_address"`
	LastWriteRequestedSize uint16 `yaml:"last_write_requested_size"`
	LastWriteSentSize      uint16 `yaml:"last_write_sent_size"`
	ReadPending            int    `yaml:"read_pending"`
}

type GPIOMode byte

const (
	GPIOModeOut         GPIOMode = 0b00000000
	GPIOModeIn          GPIOMode = 0b00001000
	GPIOModeNoOperation GPIOMode = 0xEF
)

func (m GPIOMode) String() string {
	switch m {
	case GPIOModeIn:
		return "INPUT"
	case GPIOModeOut:
		return "OUTPUT"
	default:
		return "NOOP"
	}
}

// GPIODesignation selects the pin function. Only GPIOOperation makes a pin readable.
type GPIODesignation byte

const (
	GPIOOperation GPIODesignation = 0b00000000
	// GP1 alternate function 2, latches edges on the pin
	GPIO1InterruptDetection GPIODesignation = 0b00000100
)

const gpioModeMask = 0b00001000
const gpioOperationMask = 0b00000111

type GPIOPin struct {
	Mode        GPIOMode        `yaml:"mode"`
	Designation GPIODesignation `yaml:"designation"`
	Value       byte            `yaml:"value"`
}

// GPIOState describes GP0..GP3.
type GPIOState [4]GPIOPin

func NewMCP2221(opts ...MCP2221Opt) *MCP2221 {
	config := MCP2221Opts{
		ResponseWait: 50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&config)
	}
	m := &MCP2221{
		config:   config,
		request:  make([]byte, reportSize),
		response: make([]byte, reportSize),
	}
	m.open = m.openHID
	return m
}

func (m *MCP2221) openHID() (hidDevice, error) {
	devs := hid.Enumerate(VendorID, ProductID)
	if len(devs) == 0 {
		return nil, ErrDeviceNotFound
	}
	if m.config.Index >= len(devs) {
		return nil, fmt.Errorf("no device with index %d: %w", m.config.Index, ErrDeviceNotFound)
	}
	dev, err := devs[m.config.Index].Open()
	if err != nil {
		return nil, fmt.Errorf("error opening device: %w", err)
	}
	return dev, nil
}

func (m *MCP2221) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	return m.write(ctx, cmdI2CWrite, address, buffer)
}

func (m *MCP2221) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	return m.read(ctx, cmdI2CRead, address, buffer)
}

// Tx writes w without a stop condition and reads r after a repeated start.
func (m *MCP2221) Tx(ctx context.Context, address byte, w, r []byte) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	if len(r) == 0 {
		return m.write(ctx, cmdI2CWrite, address, w)
	}
	if err := m.write(ctx, cmdI2CWriteNoStop, address, w); err != nil {
		return err
	}
	return m.read(ctx, cmdI2CReadRepeated, address, r)
}

func (m *MCP2221) write(ctx context.Context, cmd byte, address byte, buffer []byte) error {
	if len(buffer) > maxChunk {
		return fmt.Errorf("write of %d bytes exceeds a single report", len(buffer))
	}
	m.reset()
	m.request[0] = cmd
	binary.LittleEndian.PutUint16(m.request[1:3], uint16(len(buffer)))
	m.request[3] = address << 1
	copy(m.request[4:], buffer)
	if err := m.send(ctx); err != nil {
		return fmt.Errorf("write to %x failed: %w", address, err)
	}
	if m.response[1] != 0x00 {
		snsctx.Logger(ctx).Debug("adapter busy", "command", fmt.Sprintf("%#02x", cmd))
		return accel.ErrBusBusy
	}
	return nil
}

func (m *MCP2221) read(ctx context.Context, cmd byte, address byte, buffer []byte) error {
	if len(buffer) > maxChunk {
		return fmt.Errorf("read of %d bytes exceeds a single report", len(buffer))
	}
	m.reset()
	m.request[0] = cmd
	binary.LittleEndian.PutUint16(m.request[1:3], uint16(len(buffer)))
	m.request[3] = address<<1 | 1
	if err := m.send(ctx); err != nil {
		return fmt.Errorf("bus read from %x failed: %w", address, err)
	}
	if m.response[1] != 0x00 {
		return accel.ErrBusBusy
	}
	m.reset()
	m.request[0] = cmdGetI2CData
	if err := m.send(ctx); err != nil {
		return fmt.Errorf("error getting read data from adapter: %w", err)
	}
	if m.response[1] == 0x41 {
		return fmt.Errorf("error reading the I2C slave data from the I2C engine")
	}
	if m.response[3] == 127 || int(m.response[3]) != len(buffer) {
		return fmt.Errorf("invalid data size byte; expected %d, got %d", len(buffer), m.response[3])
	}
	copy(buffer, m.response[4:])
	return nil
}

// Release cancels the current I2C transfer and frees the bus.
func (m *MCP2221) Release(ctx context.Context) error {
	_, err := m.ReleaseBus(ctx)
	return err
}

func (m *MCP2221) ReleaseBus(ctx context.Context) (*MCP2221Status, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	m.reset()
	m.request[0] = cmdStatus
	m.request[2] = 0x10
	if err := m.send(ctx); err != nil {
		return nil, fmt.Errorf("cancel request failed: %w", err)
	}
	return statusFrom(m.response), nil
}

func (m *MCP2221) Status(ctx context.Context) (*MCP2221Status, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	m.reset()
	m.request[0] = cmdStatus
	if err := m.send(ctx); err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return statusFrom(m.response), nil
}

// SetSpeed sets the I2C clock in Hz, 100 kHz or 400 kHz for the IIS2DLPC.
func (m *MCP2221) SetSpeed(ctx context.Context, hz int) error {
	if hz < 47000 || hz > 400000 {
		return fmt.Errorf("i2c speed %d Hz out of range", hz)
	}
	m.mx.Lock()
	defer m.mx.Unlock()
	m.reset()
	m.request[0] = cmdStatus
	m.request[3] = 0x20
	m.request[4] = byte(12000000/hz - 3)
	if err := m.send(ctx); err != nil {
		return fmt.Errorf("set speed request failed: %w", err)
	}
	if m.response[3] != 0x20 {
		return fmt.Errorf("speed not accepted (transfer in progress): %w", ErrCommandFailed)
	}
	return nil
}

func statusFrom(buf []byte) *MCP2221Status {
	return &MCP2221Status{
		LastWriteRequestedSize: binary.LittleEndian.Uint16(buf[9:11]),
		LastWriteSentSize:      binary.LittleEndian.Uint16(buf[11:13]),
		I2CDataBufferCounter:   int(buf[13]),
		I2CSpeedDivider:        int(buf[14]),
		I2CTimeout:             int(buf[15]),
		CurrentAddress:         hex.EncodeToString(buf[16:18]),
		ReadPending:            int(buf[25]),
	}
}

// SetGPIOParameters changes the SRAM GP settings; they are lost on power cycle.
func (m *MCP2221) SetGPIOParameters(ctx context.Context, state GPIOState) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	m.reset()
	m.request[0] = cmdSetSRAM
	m.request[7] = 0x80 // alter GP designation
	for i, pin := range state {
		m.request[8+i] = byte(pin.Designation)&gpioOperationMask | byte(pin.Mode)&gpioModeMask | pin.Value<<4
	}
	if err := m.send(ctx); err != nil {
		return fmt.Errorf("set GP parameters command failed: %w", err)
	}
	if m.response[1] != 0x00 {
		return ErrCommandFailed
	}
	return nil
}

func (m *MCP2221) GPIOParameters(ctx context.Context) (GPIOState, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	var state GPIOState
	m.reset()
	m.request[0] = cmdGetSRAM
	if err := m.send(ctx); err != nil {
		return state, fmt.Errorf("get GP parameters command failed: %w", err)
	}
	if m.response[1] != 0x00 {
		return state, ErrCommandUnsupported
	}
	for i := range state {
		b := m.response[22+i]
		state[i] = GPIOPin{
			Mode:        GPIOMode(b & gpioModeMask),
			Designation: GPIODesignation(b & gpioOperationMask),
			Value:       (b >> 4) & 0x01,
		}
	}
	return state, nil
}

// ReadGPIO returns the level of the four GP pins. Pins not in GPIO operation read NOOP.
func (m *MCP2221) ReadGPIO(ctx context.Context) (GPIOState, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	var state GPIOState
	m.reset()
	m.request[0] = cmdGetGPIO
	if err := m.send(ctx); err != nil {
		return state, fmt.Errorf("read GPIO values command failed: %w", err)
	}
	if m.response[1] != 0x00 {
		return state, ErrCommandFailed
	}
	for i := range state {
		state[i] = GPIOPin{Mode: GPIOModeNoOperation, Value: m.response[2+2*i]}
		if dir := m.response[3+2*i]; dir != byte(GPIOModeNoOperation) {
			state[i].Mode = GPIOMode(dir << 3)
		}
	}
	return state, nil
}

// Level returns a reader of a GP pin, usable as the source of a gpio.PolledLine carrying the
// sensor interrupt.
func (m *MCP2221) Level(pin int) gpio.LevelReader {
	return gpio.LevelReaderFunc(func(ctx context.Context) (bool, error) {
		if pin < 0 || pin > 3 {
			return false, fmt.Errorf("no GP%d on MCP2221", pin)
		}
		state, err := m.ReadGPIO(ctx)
		if err != nil {
			return false, err
		}
		if state[pin].Mode == GPIOModeNoOperation {
			return false, fmt.Errorf("GP%d is not configured as GPIO", pin)
		}
		return state[pin].Value != 0, nil
	})
}

func (m *MCP2221) send(ctx context.Context) error {
	dev, err := m.open()
	if err != nil {
		return err
	}
	log := snsctx.Logger(ctx)
	defer func() {
		if err := dev.Close(); err != nil {
			log.Debug("could not close adapter", "error", err)
		}
	}()
	verbose := snsctx.IsVerbose(ctx)
	if verbose {
		log.Debug("sending message to adapter", "report", hex.Dump(m.request))
	}
	n, err := dev.Write(m.request)
	if err != nil {
		return fmt.Errorf("could not write request: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short write: %d", n)
	}
	if m.config.ResponseWait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.config.ResponseWait):
		}
	}
	n, err = dev.Read(m.response)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short read: %d", n)
	}
	if verbose {
		log.Debug("read message from adapter", "report", hex.Dump(m.response))
	}
	if m.response[0] != m.request[0] {
		return fmt.Errorf("response to %#02x for command %#02x: %w", m.response[0], m.request[0], ErrCommandUnsupported)
	}
	return nil
}

func (m *MCP2221) reset() {
	clear(m.request)
	clear(m.response)
}

package gpio

import (
	"context"
	"fmt"
	"sync"

	"github.com/mklimuk/accel"
)

const DefaultMCP23017Address = 0x21

// Port is one of the two 8-bit ports of the expander.
type Port int

const (
	PortA Port = iota
	PortB
)

func (p Port) String() string {
	if p == PortB {
		return "B"
	}
	return "A"
}

// ParsePin parses an expander pin name such as "A3" or "b7".
func ParsePin(s string) (Port, uint, error) {
	if len(s) != 2 || s[1] < '0' || s[1] > '7' {
		return 0, 0, fmt.Errorf("invalid expander pin %q", s)
	}
	bit := uint(s[1] - '0')
	switch s[0] {
	case 'A', 'a':
		return PortA, bit, nil
	case 'B', 'b':
		return PortB, bit, nil
	}
	return 0, 0, fmt.Errorf("invalid expander pin %q", s)
}

type register byte

// Port A addresses with IOCON.BANK=0. Port B registers follow each of them.
const (
	regIODIR register = 0x00
	regIOPOL register = 0x02
	regIOCON register = 0x0A
	regGPPU  register = 0x0C
	regGPIO  register = 0x12
)

// addr maps a register to its address for the given bank mode.
// BANK=0 interleaves A and B; BANK=1 puts all B registers 0x10 above A.
func (r register) addr(bank bool, p Port) byte {
	if bank {
		return byte(r)/2 + byte(p)*0x10
	}
	return byte(r) + byte(p)
}

// PortConfig is the input setup of one port. A set bit in Inputs makes the pin an input.
type PortConfig struct {
	Inputs   byte `yaml:"inputs"`
	PullUps  byte `yaml:"pull_ups"`
	Inverted byte `yaml:"inverted"`
}

// MCP23017 is a 16-bit I2C port expander. Sensor interrupt pads wired to its inputs can be
// watched through PolledLine using Pin as the level source.
type MCP23017 struct {
	mx        sync.Mutex
	transport accel.I2CBus
	address   byte
	bank      bool
}

func NewMCP23017(bus accel.I2CBus, address byte) *MCP23017 {
	return &MCP23017{transport: bus, address: address}
}

// Configure sets direction, pull-ups and polarity of a port.
func (m *MCP23017) Configure(ctx context.Context, p Port, cfg PortConfig) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	if err := m.writeRegister(ctx, regIODIR.addr(m.bank, p), cfg.Inputs); err != nil {
		return fmt.Errorf("could not set direction of port %s: %w", p, err)
	}
	if err := m.writeRegister(ctx, regGPPU.addr(m.bank, p), cfg.PullUps); err != nil {
		return fmt.Errorf("could not set pull-up on port %s: %w", p, err)
	}
	if err := m.writeRegister(ctx, regIOPOL.addr(m.bank, p), cfg.Inverted); err != nil {
		return fmt.Errorf("could not set polarity of port %s: %w", p, err)
	}
	return nil
}

const ioconBank = 0x80

// SetBank switches the register addressing mode. settings are the remaining IOCON bits.
func (m *MCP23017) SetBank(ctx context.Context, bank bool, settings byte) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	v := settings &^ ioconBank
	if bank {
		v |= ioconBank
	}
	if err := m.writeRegister(ctx, regIOCON.addr(m.bank, PortA), v); err != nil {
		return fmt.Errorf("could not write settings: %w", err)
	}
	m.bank = bank
	return nil
}

// Settings reads the IOCON register.
func (m *MCP23017) Settings(ctx context.Context) (byte, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	return m.readRegister(ctx, regIOCON.addr(m.bank, PortA))
}

// ReadPort reads the current levels of a port.
func (m *MCP23017) ReadPort(ctx context.Context, p Port) (byte, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	v, err := m.readRegister(ctx, regGPIO.addr(m.bank, p))
	if err != nil {
		return 0, fmt.Errorf("could not read port %s: %w", p, err)
	}
	return v, nil
}

// Read returns both ports, A first.
func (m *MCP23017) Read(ctx context.Context) ([]byte, error) {
	res := make([]byte, 2)
	var err error
	if res[0], err = m.ReadPort(ctx, PortA); err != nil {
		return nil, err
	}
	if res[1], err = m.ReadPort(ctx, PortB); err != nil {
		return nil, err
	}
	return res, nil
}

// Pin returns the level of a single input.
func (m *MCP23017) Pin(p Port, bit uint) LevelReader {
	return LevelReaderFunc(func(ctx context.Context) (bool, error) {
		if bit > 7 {
			return false, fmt.Errorf("no pin %d on port %s", bit, p)
		}
		v, err := m.ReadPort(ctx, p)
		if err != nil {
			return false, err
		}
		return v&(1<<bit) != 0, nil
	})
}

func (m *MCP23017) writeRegister(ctx context.Context, reg byte, value byte) error {
	return m.transport.WriteToAddr(ctx, m.address, []byte{reg, value})
}

func (m *MCP23017) readRegister(ctx context.Context, reg byte) (byte, error) {
	if err := m.transport.WriteToAddr(ctx, m.address, []byte{reg}); err != nil {
		return 0, fmt.Errorf("could not set register address: %w", err)
	}
	buf := make([]byte, 1)
	if err := m.transport.ReadFromAddr(ctx, m.address, buf); err != nil {
		return 0, fmt.Errorf("could not read register %#02x: %w", reg, err)
	}
	return buf[0], nil
}

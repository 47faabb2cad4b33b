package iis2dlpc

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/mklimuk/accel"
)

var _ accel.Bus = &MockBus{}

type BusOp int

const (
	OpRead BusOp = iota
	OpWrite
)

func (o BusOp) String() string {
	if o == OpWrite {
		return "write"
	}
	return "read"
}

// BusCall is a single transaction recorded by MockBus.
type BusCall struct {
	Op   BusOp
	Reg  byte
	Data []byte
}

func (c BusCall) String() string {
	return fmt.Sprintf("%s 0x%02x % x", c.Op, c.Reg, c.Data)
}

// FaultFunc decides whether the n-th transaction (counted from 0) fails.
type FaultFunc func(n int, call BusCall) error

// MockBus simulates the IIS2DLPC register file. Writes are stored as is and reads return what was
// written, so register level round trips can be verified without hardware. Every transaction
// is recorded.
//
// Example usage:
//
//	bus := NewMockBus()
//	bus.SetAcceleration(48, 0, -48)
//	dev := New(bus)
type MockBus struct {
	mx    sync.Mutex
	regs  [0x40]byte
	calls []BusCall
	fault FaultFunc
}

func NewMockBus() *MockBus {
	m := &MockBus{}
	m.powerOn()
	return m
}

// powerOn loads the register defaults listed in the datasheet.
func (m *MockBus) powerOn() {
	m.regs = [0x40]byte{}
	m.regs[RegWhoAmI] = DeviceID
	m.regs[RegCtrl2] = 0x04
}

func (m *MockBus) ReadRegs(ctx context.Context, reg byte, buffer []byte) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	call := BusCall{Op: OpRead, Reg: reg}
	if err := m.record(call); err != nil {
		return err
	}
	for i := range buffer {
		buffer[i] = m.regs[(int(reg)+i)%len(m.regs)]
	}
	m.calls[len(m.calls)-1].Data = append([]byte(nil), buffer...)
	return nil
}

func (m *MockBus) WriteRegs(ctx context.Context, reg byte, buffer []byte) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	call := BusCall{Op: OpWrite, Reg: reg, Data: append([]byte(nil), buffer...)}
	if err := m.record(call); err != nil {
		return err
	}
	for i, b := range buffer {
		addr := (int(reg) + i) % len(m.regs)
		if byte(addr) == RegWhoAmI {
			continue
		}
		m.regs[addr] = b
		if byte(addr) == RegCtrl2 && ctrl2SoftReset.flag(b) {
			m.powerOn()
		}
	}
	return nil
}

func (m *MockBus) record(call BusCall) error {
	n := len(m.calls)
	m.calls = append(m.calls, call)
	if m.fault != nil {
		return m.fault(n, call)
	}
	return nil
}

// FailOn installs a fault injector consulted before every transaction. A failed transaction
// is recorded but does not touch the register file.
func (m *MockBus) FailOn(f FaultFunc) {
	m.mx.Lock()
	defer m.mx.Unlock()
	m.fault = f
}

// FailAt makes the n-th transaction from now fail with err.
func (m *MockBus) FailAt(n int, err error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	base := len(m.calls)
	m.fault = func(i int, _ BusCall) error {
		if i-base == n {
			return err
		}
		return nil
	}
}

func (m *MockBus) Reg(reg byte) byte {
	m.mx.Lock()
	defer m.mx.Unlock()
	return m.regs[reg]
}

// SetReg changes a register without recording a transaction.
func (m *MockBus) SetReg(reg byte, v byte) {
	m.mx.Lock()
	defer m.mx.Unlock()
	m.regs[reg] = v
}

// SetAcceleration loads left-justified output words into OUT_X_L..OUT_Z_H.
func (m *MockBus) SetAcceleration(x, y, z int16) {
	m.mx.Lock()
	defer m.mx.Unlock()
	for i, v := range []int16{x, y, z} {
		binary.LittleEndian.PutUint16(m.regs[int(RegOutXL)+2*i:], uint16(v))
	}
}

// SetTemperature loads a left-justified word into OUT_T_L/OUT_T_H and its 8-bit form into OUT_T.
func (m *MockBus) SetTemperature(raw int16) {
	m.mx.Lock()
	defer m.mx.Unlock()
	binary.LittleEndian.PutUint16(m.regs[RegOutTL:], uint16(raw))
	m.regs[RegOutT] = byte(raw >> 8)
}

// SetSources loads the interrupt source registers read by AllSources.
func (m *MockBus) SetSources(src AllSources) {
	m.mx.Lock()
	defer m.mx.Unlock()
	m.regs[RegStatusDup] = byte(src.StatusDup)
	m.regs[RegWakeUpSrc] = byte(src.WakeUpSrc)
	m.regs[RegTapSrc] = byte(src.TapSrc)
	m.regs[RegSixDSrc] = byte(src.SixDSrc)
	m.regs[RegAllIntSrc] = byte(src.AllIntSrc)
}

func (m *MockBus) Calls() []BusCall {
	m.mx.Lock()
	defer m.mx.Unlock()
	return append([]BusCall(nil), m.calls...)
}

func (m *MockBus) Writes() []BusCall {
	m.mx.Lock()
	defer m.mx.Unlock()
	var out []BusCall
	for _, c := range m.calls {
		if c.Op == OpWrite {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockBus) ResetCalls() {
	m.mx.Lock()
	defer m.mx.Unlock()
	m.calls = nil
	m.fault = nil
}

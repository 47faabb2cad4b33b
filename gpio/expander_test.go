package gpio

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExpander keeps a register file addressed by the last single byte write.
type fakeExpander struct {
	mx      sync.Mutex
	regs    [0x20]byte
	pointer byte
	writes  [][]byte
	err     error
}

func (f *fakeExpander) WriteToAddr(_ context.Context, _ byte, buffer []byte) error {
	f.mx.Lock()
	defer f.mx.Unlock()
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, append([]byte(nil), buffer...))
	f.pointer = buffer[0]
	if len(buffer) > 1 {
		f.regs[buffer[0]] = buffer[1]
	}
	return nil
}

func (f *fakeExpander) ReadFromAddr(_ context.Context, _ byte, buffer []byte) error {
	f.mx.Lock()
	defer f.mx.Unlock()
	buffer[0] = f.regs[f.pointer]
	return nil
}

func (f *fakeExpander) Release(context.Context) error {
	return nil
}

func TestRegisterAddress(t *testing.T) {
	tests := []struct {
		reg  register
		bank bool
		port Port
		want byte
	}{
		{regIODIR, false, PortA, 0x00},
		{regIODIR, false, PortB, 0x01},
		{regGPIO, false, PortA, 0x12},
		{regGPIO, false, PortB, 0x13},
		{regGPPU, true, PortA, 0x06},
		{regGPPU, true, PortB, 0x16},
		{regGPIO, true, PortA, 0x09},
		{regGPIO, true, PortB, 0x19},
		{regIOCON, true, PortA, 0x05},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.reg.addr(tt.bank, tt.port), "%#02x bank=%v port=%s", byte(tt.reg), tt.bank, tt.port)
	}
}

func TestParsePin(t *testing.T) {
	port, bit, err := ParsePin("A3")
	require.NoError(t, err)
	assert.Equal(t, PortA, port)
	assert.Equal(t, uint(3), bit)
	port, bit, err = ParsePin("b7")
	require.NoError(t, err)
	assert.Equal(t, PortB, port)
	assert.Equal(t, uint(7), bit)
	for _, bad := range []string{"", "A", "C1", "A8", "A10"} {
		_, _, err = ParsePin(bad)
		assert.Error(t, err, bad)
	}
}

func TestMCP23017_Configure(t *testing.T) {
	bus := &fakeExpander{}
	m := NewMCP23017(bus, DefaultMCP23017Address)
	require.NoError(t, m.Configure(context.Background(), PortB, PortConfig{Inputs: 0xFF, PullUps: 0x0F, Inverted: 0x01}))
	assert.Equal(t, [][]byte{{0x01, 0xFF}, {0x0D, 0x0F}, {0x03, 0x01}}, bus.writes)
}

func TestMCP23017_Pin(t *testing.T) {
	bus := &fakeExpander{}
	bus.regs[0x12] = 0b0000_0100
	m := NewMCP23017(bus, DefaultMCP23017Address)

	high, err := m.Pin(PortA, 2).ReadLevel(context.Background())
	require.NoError(t, err)
	assert.True(t, high)
	high, err = m.Pin(PortA, 3).ReadLevel(context.Background())
	require.NoError(t, err)
	assert.False(t, high)
	_, err = m.Pin(PortA, 8).ReadLevel(context.Background())
	assert.Error(t, err)
}

func TestMCP23017_BankMode(t *testing.T) {
	bus := &fakeExpander{}
	bus.regs[0x19] = 0xA5
	m := NewMCP23017(bus, DefaultMCP23017Address)
	require.NoError(t, m.SetBank(context.Background(), true, 0x00))
	assert.Equal(t, []byte{0x0A, 0x80}, bus.writes[0])

	v, err := m.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xA5}, v)
}

func TestMCP23017_BusError(t *testing.T) {
	errNack := errors.New("nack")
	m := NewMCP23017(&fakeExpander{err: errNack}, DefaultMCP23017Address)
	_, err := m.ReadPort(context.Background(), PortA)
	assert.ErrorIs(t, err, errNack)
	err = m.Configure(context.Background(), PortA, PortConfig{})
	assert.ErrorIs(t, err, errNack)
}

func TestMCP23017_DrivesPolledLine(t *testing.T) {
	bus := &fakeExpander{}
	m := NewMCP23017(bus, DefaultMCP23017Address)
	line := NewPolledLine(m.Pin(PortA, 0), WithInterval(time.Millisecond))
	defer line.Close()

	var fired atomic.Int32
	require.NoError(t, line.Watch(func() { fired.Add(1) }))
	require.NoError(t, line.ConfigureEdge(EdgeToActive))

	bus.mx.Lock()
	bus.regs[0x12] = 0x01
	bus.mx.Unlock()
	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, time.Millisecond)
}

package i2c

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockI2CBus is a mock implementation of accel.I2CBus using testify/mock
type MockI2CBus struct {
	mock.Mock
}

func (m *MockI2CBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *MockI2CBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	if data, ok := args.Get(0).([]byte); ok {
		copy(buffer, data)
	}
	return args.Error(1)
}

func (m *MockI2CBus) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockTxBus adds combined transactions.
type MockTxBus struct {
	MockI2CBus
}

func (m *MockTxBus) Tx(ctx context.Context, address byte, w, r []byte) error {
	args := m.Called(ctx, address, w, r)
	if data, ok := args.Get(0).([]byte); ok {
		copy(r, data)
	}
	return args.Error(1)
}

func TestDevice_ReadRegsSplit(t *testing.T) {
	ctx := context.Background()
	bus := &MockI2CBus{}
	bus.On("WriteToAddr", ctx, byte(0x19), []byte{0x0F}).Return(nil).Once()
	bus.On("ReadFromAddr", ctx, byte(0x19), mock.Anything).Return([]byte{0x44}, nil).Once()

	d := NewDevice(bus, 0x19)
	buf := make([]byte, 1)
	require.NoError(t, d.ReadRegs(ctx, 0x0F, buf))
	assert.Equal(t, []byte{0x44}, buf)
	bus.AssertExpectations(t)
}

func TestDevice_ReadRegsSplitWriteFails(t *testing.T) {
	ctx := context.Background()
	errNack := errors.New("nack")
	bus := &MockI2CBus{}
	bus.On("WriteToAddr", ctx, byte(0x18), []byte{0x28}).Return(errNack).Once()

	err := NewDevice(bus, 0x18).ReadRegs(ctx, 0x28, make([]byte, 6))
	assert.ErrorIs(t, err, errNack)
	bus.AssertNotCalled(t, "ReadFromAddr", mock.Anything, mock.Anything, mock.Anything)
}

func TestDevice_ReadRegsCombined(t *testing.T) {
	ctx := context.Background()
	bus := &MockTxBus{}
	bus.On("Tx", ctx, byte(0x19), []byte{0x28}, mock.Anything).Return([]byte{1, 2, 3, 4, 5, 6}, nil).Once()

	buf := make([]byte, 6)
	require.NoError(t, NewDevice(bus, 0x19).ReadRegs(ctx, 0x28, buf))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, buf)
	bus.AssertExpectations(t)
	bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, mock.Anything, mock.Anything)
}

func TestDevice_WriteRegs(t *testing.T) {
	ctx := context.Background()
	bus := &MockI2CBus{}
	bus.On("WriteToAddr", ctx, byte(0x19), []byte{0x34, 0x40, 0x10}).Return(nil).Once()

	d := NewDevice(bus, 0x19)
	require.NoError(t, d.WriteRegs(ctx, 0x34, []byte{0x40, 0x10}))
	assert.Equal(t, byte(0x19), d.Addr())
	bus.AssertExpectations(t)
}

package spi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

type transfer struct {
	w  []byte
	cs gpio.Level
}

type fakeConn struct {
	pin       *gpiotest.Pin
	reply     []byte
	err       error
	transfers []transfer
}

func (c *fakeConn) Tx(w, r []byte) error {
	t := transfer{w: append([]byte(nil), w...), cs: gpio.High}
	if c.pin != nil {
		t.cs = c.pin.Read()
	}
	c.transfers = append(c.transfers, t)
	if c.err != nil {
		return c.err
	}
	copy(r, c.reply)
	return nil
}

func TestDevice_ReadRegs(t *testing.T) {
	pin := &gpiotest.Pin{N: "CS", L: gpio.High}
	conn := &fakeConn{pin: pin, reply: []byte{0xFF, 0x44}}
	d := NewDevice(conn, pin)

	buf := make([]byte, 1)
	require.NoError(t, d.ReadRegs(context.Background(), 0x0F, buf))
	assert.Equal(t, []byte{0x44}, buf)
	require.Len(t, conn.transfers, 1)
	assert.Equal(t, []byte{0x8F, 0x00}, conn.transfers[0].w)
	assert.Equal(t, gpio.Low, conn.transfers[0].cs)
	assert.Equal(t, gpio.High, pin.Read())
}

func TestDevice_WriteRegs(t *testing.T) {
	pin := &gpiotest.Pin{N: "CS", L: gpio.High}
	conn := &fakeConn{pin: pin}
	d := NewDevice(conn, pin)

	require.NoError(t, d.WriteRegs(context.Background(), 0xA0, []byte{0x50, 0x04}))
	require.Len(t, conn.transfers, 1)
	assert.Equal(t, []byte{0x20, 0x50, 0x04}, conn.transfers[0].w)
	assert.Equal(t, gpio.Low, conn.transfers[0].cs)
	assert.Equal(t, gpio.High, pin.Read())
}

func TestDevice_WriteTooLong(t *testing.T) {
	conn := &fakeConn{}
	d := NewDevice(conn, nil)
	err := d.WriteRegs(context.Background(), 0x20, make([]byte, MaxTransfer+1))
	assert.ErrorIs(t, err, ErrTransferTooLong)
	assert.Empty(t, conn.transfers)
	assert.NoError(t, d.WriteRegs(context.Background(), 0x20, make([]byte, MaxTransfer)))
}

func TestDevice_ErrorReleasesChipSelect(t *testing.T) {
	pin := &gpiotest.Pin{N: "CS", L: gpio.High}
	errXfer := errors.New("xfer failed")
	d := NewDevice(&fakeConn{pin: pin, err: errXfer}, pin)
	err := d.ReadRegs(context.Background(), 0x28, make([]byte, 6))
	assert.ErrorIs(t, err, errXfer)
	assert.Equal(t, gpio.High, pin.Read())
}

func TestDevice_CanceledContext(t *testing.T) {
	conn := &fakeConn{}
	d := NewDevice(conn, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, d.ReadRegs(ctx, 0x0F, make([]byte, 1)), context.Canceled)
	assert.Empty(t, conn.transfers)
}

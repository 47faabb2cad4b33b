package spi

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mklimuk/accel"
	"periph.io/x/conn/v3/gpio"
)

var _ accel.Bus = &Device{}

// MaxTransfer is the longest register burst accepted in a single write.
const MaxTransfer = 64

const readBit = 0x80

var ErrTransferTooLong = errors.New("spi transfer too long")

// Conn is a full-duplex SPI connection. periph.io spi.Conn and tinygo drivers.SPI both satisfy it.
type Conn interface {
	Tx(w, r []byte) error
}

// Device is a register bus over 4-wire SPI. The first byte of each transfer carries the
// register address with bit 7 set for reads.
type Device struct {
	conn Conn
	cs   gpio.PinOut

	mx     sync.Mutex
	closer func() error
}

// NewDevice wraps conn. cs is optional: when nil the controller drives chip select itself.
func NewDevice(conn Conn, cs gpio.PinOut) *Device {
	return &Device{conn: conn, cs: cs}
}

func (d *Device) ReadRegs(ctx context.Context, reg byte, buffer []byte) error {
	w := make([]byte, len(buffer)+1)
	r := make([]byte, len(buffer)+1)
	w[0] = reg | readBit
	if err := d.tx(ctx, w, r); err != nil {
		return fmt.Errorf("could not read register %#02x: %w", reg, err)
	}
	copy(buffer, r[1:])
	return nil
}

func (d *Device) WriteRegs(ctx context.Context, reg byte, buffer []byte) error {
	if len(buffer) > MaxTransfer {
		return fmt.Errorf("%d bytes: %w", len(buffer), ErrTransferTooLong)
	}
	w := make([]byte, len(buffer)+1)
	w[0] = reg &^ readBit
	copy(w[1:], buffer)
	if err := d.tx(ctx, w, nil); err != nil {
		return fmt.Errorf("could not write register %#02x: %w", reg, err)
	}
	return nil
}

func (d *Device) tx(ctx context.Context, w, r []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	if d.cs != nil {
		if err := d.cs.Out(gpio.Low); err != nil {
			return fmt.Errorf("could not select device: %w", err)
		}
		defer func() {
			_ = d.cs.Out(gpio.High)
		}()
	}
	return d.conn.Tx(w, r)
}

// Close releases the port when the device was created with Open.
func (d *Device) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer()
}

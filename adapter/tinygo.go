package adapter

import (
	"context"

	"tinygo.org/x/drivers"

	"github.com/mklimuk/accel"
)

var (
	_ accel.I2CBus     = &TinyGoI2C{}
	_ accel.Transactor = &TinyGoI2C{}
)

// TinyGoI2C exposes a tinygo drivers.I2C bus (machine.I2C on a microcontroller) as an I2C master.
type TinyGoI2C struct {
	bus drivers.I2C
}

func NewTinyGoI2C(bus drivers.I2C) *TinyGoI2C {
	return &TinyGoI2C{bus: bus}
}

func (t *TinyGoI2C) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	return t.bus.Tx(uint16(address), buffer, nil)
}

func (t *TinyGoI2C) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	return t.bus.Tx(uint16(address), nil, buffer)
}

func (t *TinyGoI2C) Tx(ctx context.Context, address byte, w, r []byte) error {
	return t.bus.Tx(uint16(address), w, r)
}

func (t *TinyGoI2C) Release(ctx context.Context) error {
	return nil
}

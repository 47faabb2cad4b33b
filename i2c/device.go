package i2c

import (
	"context"

	"github.com/mklimuk/accel"
)

var _ accel.Bus = &Device{}

// Device binds an I2C master and a 7-bit slave address into a register bus.
// Multi-byte accesses rely on the slave auto-incrementing the register pointer.
type Device struct {
	bus  accel.I2CBus
	addr byte
}

func NewDevice(bus accel.I2CBus, addr byte) *Device {
	return &Device{bus: bus, addr: addr}
}

func (d *Device) Addr() byte {
	return d.addr
}

// ReadRegs reads len(buffer) consecutive registers starting at reg. Masters implementing
// accel.Transactor get a single repeated-start transaction, others a pointer write
// followed by a read.
func (d *Device) ReadRegs(ctx context.Context, reg byte, buffer []byte) error {
	if tx, ok := d.bus.(accel.Transactor); ok {
		return tx.Tx(ctx, d.addr, []byte{reg}, buffer)
	}
	err := d.bus.WriteToAddr(ctx, d.addr, []byte{reg})
	if err != nil {
		return err
	}
	return d.bus.ReadFromAddr(ctx, d.addr, buffer)
}

func (d *Device) WriteRegs(ctx context.Context, reg byte, buffer []byte) error {
	out := make([]byte, len(buffer)+1)
	out[0] = reg
	copy(out[1:], buffer)
	return d.bus.WriteToAddr(ctx, d.addr, out)
}

package iis2dlpc

import (
	"context"

	"github.com/mklimuk/accel"
)

// Regs is the register level interface of the IIS2DLPC. It keeps no state besides the bus:
// every getter reads the device and every setter performs read-modify-write on the registers
// holding the affected fields. Bus errors are returned as is and a failed multi-register
// setter stops at the first error without restoring registers already written.
//
// Enumerated arguments are not validated; bits not fitting a field are dropped.
type Regs struct {
	bus accel.Bus
}

func NewRegs(bus accel.Bus) *Regs {
	return &Regs{bus: bus}
}

// ReadReg reads len(data) consecutive registers starting at reg.
func (r *Regs) ReadReg(ctx context.Context, reg byte, data []byte) error {
	return r.bus.ReadRegs(ctx, reg, data)
}

// WriteReg writes data to consecutive registers starting at reg.
func (r *Regs) WriteReg(ctx context.Context, reg byte, data []byte) error {
	return r.bus.WriteRegs(ctx, reg, data)
}

func (r *Regs) readByte(ctx context.Context, reg byte) (byte, error) {
	var buf [1]byte
	err := r.bus.ReadRegs(ctx, reg, buf[:])
	return buf[0], err
}

func (r *Regs) writeByte(ctx context.Context, reg byte, v byte) error {
	return r.bus.WriteRegs(ctx, reg, []byte{v})
}

func (r *Regs) setField(ctx context.Context, reg byte, f field, v byte) error {
	b, err := r.readByte(ctx, reg)
	if err != nil {
		return err
	}
	return r.writeByte(ctx, reg, f.set(b, v))
}

func (r *Regs) getField(ctx context.Context, reg byte, f field) (byte, error) {
	b, err := r.readByte(ctx, reg)
	if err != nil {
		return 0, err
	}
	return f.get(b), nil
}

func (r *Regs) setFlag(ctx context.Context, reg byte, f field, v bool) error {
	return r.setField(ctx, reg, f, boolBit(v))
}

func (r *Regs) flag(ctx context.Context, reg byte, f field) (bool, error) {
	v, err := r.getField(ctx, reg, f)
	return v != 0, err
}

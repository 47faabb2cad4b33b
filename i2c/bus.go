package i2c

import (
	"context"
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/mklimuk/accel"
)

var (
	_ accel.I2CBus     = &GenericBus{}
	_ accel.Transactor = &GenericBus{}
)

// GenericBus is an I2C master exposed by the host (e.g. /dev/i2c-1) through periph.io.
type GenericBus struct {
	bus i2c.BusCloser
}

func NewGenericBus(dev string) (*GenericBus, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("host driver loaded", "driver", driver.String())
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus: %w", err)
	}
	return &GenericBus{bus: bus}, nil
}

func (b *GenericBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	return b.tx(ctx, "read from", address, nil, buffer)
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	return b.tx(ctx, "write to", address, buffer, nil)
}

// Tx writes w and reads r with a repeated start, so the register pointer written to the
// accelerometer is not lost between the two phases.
func (b *GenericBus) Tx(ctx context.Context, address byte, w, r []byte) error {
	return b.tx(ctx, "transfer on", address, w, r)
}

func (b *GenericBus) tx(ctx context.Context, op string, address byte, w, r []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.bus.Tx(uint16(address), w, r); err != nil {
		return fmt.Errorf("could not %s i2c device %#02x: %w", op, address, err)
	}
	return nil
}

// SetSpeed changes the bus clock; the IIS2DLPC supports up to 400 kHz (fast mode).
func (b *GenericBus) SetSpeed(f physic.Frequency) error {
	return b.bus.SetSpeed(f)
}

func (b *GenericBus) Release(ctx context.Context) error {
	return nil
}

func (b *GenericBus) Close() error {
	return b.bus.Close()
}

package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/mklimuk/accel"
)

var (
	_ accel.I2CBus     = &Retrying{}
	_ accel.Transactor = &Retrying{}
)

// Retrying wraps a bridge whose I2C engine reports accel.ErrBusBusy when a previous transfer
// hung. A busy bus is released and the transfer attempted again, up to limit times. Any other
// error is returned at once.
type Retrying struct {
	bus   accel.I2CBus
	limit int
}

func NewRetrying(bus accel.I2CBus, limit int) *Retrying {
	if limit < 1 {
		limit = 1
	}
	return &Retrying{bus: bus, limit: limit}
}

func (r *Retrying) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	return r.do(ctx, func() error {
		return r.bus.WriteToAddr(ctx, address, buffer)
	})
}

func (r *Retrying) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	return r.do(ctx, func() error {
		return r.bus.ReadFromAddr(ctx, address, buffer)
	})
}

// Tx falls back to a write followed by a read when the wrapped bus has no combined transfer.
func (r *Retrying) Tx(ctx context.Context, address byte, w, rd []byte) error {
	return r.do(ctx, func() error {
		if tx, ok := r.bus.(accel.Transactor); ok {
			return tx.Tx(ctx, address, w, rd)
		}
		if err := r.bus.WriteToAddr(ctx, address, w); err != nil {
			return err
		}
		if len(rd) == 0 {
			return nil
		}
		return r.bus.ReadFromAddr(ctx, address, rd)
	})
}

func (r *Retrying) Release(ctx context.Context) error {
	return r.bus.Release(ctx)
}

func (r *Retrying) do(ctx context.Context, op func() error) error {
	var err error
	for i := r.limit; i > 0; i-- {
		err = op()
		if err == nil {
			return nil
		}
		if !errors.Is(err, accel.ErrBusBusy) {
			return err
		}
		// try to release the bus
		_ = r.bus.Release(ctx)
	}
	return fmt.Errorf("retry limit reached: %w", err)
}

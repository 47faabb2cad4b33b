package adapter

import (
	"context"
	"fmt"
	"sync"

	"gobot.io/x/gobot/v2/drivers/i2c"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"

	"github.com/mklimuk/accel"
)

var _ accel.I2CBus = &GobotBus{}

// GobotBus is an I2C master driven through a gobot adaptor. One generic driver is started per
// slave address on first use.
type GobotBus struct {
	mx       sync.Mutex
	adaptor  i2c.Connector
	bus      int
	drivers  map[byte]*i2c.GenericDriver
	finalize func() error
}

func NewGobotBus(adaptor i2c.Connector, bus int) *GobotBus {
	return &GobotBus{
		adaptor: adaptor,
		bus:     bus,
		drivers: make(map[byte]*i2c.GenericDriver),
	}
}

// NewNanoPiBus connects the I2C adaptor of a NanoPi NEO board.
func NewNanoPiBus(bus int) (*GobotBus, error) {
	npi := nanopi.NewNeoAdaptor()
	if err := npi.I2cBusAdaptor.Connect(); err != nil {
		return nil, fmt.Errorf("adaptor connect error: %w", err)
	}
	b := NewGobotBus(npi, bus)
	b.finalize = npi.I2cBusAdaptor.Finalize
	return b, nil
}

func (b *GobotBus) driver(address byte) (*i2c.GenericDriver, error) {
	if d, ok := b.drivers[address]; ok {
		return d, nil
	}
	d := i2c.NewGenericDriver(b.adaptor, "iis2dlpc", int(address), func(c i2c.Config) {
		c.SetBus(b.bus)
	})
	if err := d.Start(); err != nil {
		return nil, fmt.Errorf("start error on %#x: %w", address, err)
	}
	b.drivers[address] = d
	return d, nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	d, err := b.driver(address)
	if err != nil {
		return err
	}
	if err = d.Write(buffer); err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	d, err := b.driver(address)
	if err != nil {
		return err
	}
	if err = d.Read(buffer); err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GobotBus) Release(ctx context.Context) error {
	return nil
}

// Close halts the started drivers and finalizes the adaptor when it was opened by NewNanoPiBus.
func (b *GobotBus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	for addr, d := range b.drivers {
		_ = d.Halt()
		delete(b.drivers, addr)
	}
	if b.finalize != nil {
		return b.finalize()
	}
	return nil
}

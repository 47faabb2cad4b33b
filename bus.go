package accel

import (
	"context"
	"errors"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

// ErrNotSupported is returned by the sensor API for channel, attribute or trigger
// combinations the device cannot serve.
var ErrNotSupported = errors.New("not supported")

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// I2CBus is a raw I2C master addressing devices by their 7-bit address.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}

// Transactor is implemented by I2C masters able to write and read in a single
// transaction (repeated start).
type Transactor interface {
	Tx(ctx context.Context, address byte, w, r []byte) error
}

// Bus is a register oriented transport bound to a single device.
// Implementations perform one blocking transaction per call and never retry.
type Bus interface {
	ReadRegs(ctx context.Context, reg byte, buffer []byte) error
	WriteRegs(ctx context.Context, reg byte, buffer []byte) error
}

package adapter

import (
	"errors"
	"fmt"

	"gobot.io/x/gobot/v2/drivers/spi"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
)

// DefaultSPISpeed is the clock used when none is given.
const DefaultSPISpeed = 5_000_000

var errNotStarted = errors.New("spi connection not open")

// spiOps is the subset of a gobot SPI connection needed for register transfers.
type spiOps interface {
	ReadCommandData(command []byte, data []byte) error
	WriteBytes(data []byte) error
}

// GobotSPI is a register transport connection over a gobot SPI connection. Every transfer is a
// single address byte followed by data, in SPI mode 3.
type GobotSPI struct {
	ops      spiOps
	close    func() error
	finalize func() error
}

// OpenGobotSPI opens bus/chip on a gobot adaptor with 8 bit words. speed is in Hz, 0 selecting
// DefaultSPISpeed.
func OpenGobotSPI(adaptor spi.Connector, bus, chip int, speed int64) (*GobotSPI, error) {
	if speed == 0 {
		speed = DefaultSPISpeed
	}
	conn, err := adaptor.GetSpiConnection(bus, chip, 3, 8, speed)
	if err != nil {
		return nil, fmt.Errorf("could not open spi %d.%d: %w", bus, chip, err)
	}
	ops, ok := conn.(spiOps)
	if !ok {
		_ = conn.Close()
		return nil, fmt.Errorf("spi connection does not support required operations")
	}
	return &GobotSPI{ops: ops, close: conn.Close}, nil
}

// NewNanoPiSPI connects a NanoPi NEO adaptor and opens one of its SPI buses.
func NewNanoPiSPI(bus, chip int, speed int64) (*GobotSPI, error) {
	npi := nanopi.NewNeoAdaptor()
	if err := npi.Connect(); err != nil {
		return nil, fmt.Errorf("adaptor connect error: %w", err)
	}
	s, err := OpenGobotSPI(npi, bus, chip, speed)
	if err != nil {
		_ = npi.Finalize()
		return nil, err
	}
	s.finalize = npi.Finalize
	return s, nil
}

// Tx writes w. When r is given it must be as long as w; the first byte of w is sent as the
// command and the rest of r receives the data clocked in after it.
func (s *GobotSPI) Tx(w, r []byte) error {
	if s.ops == nil {
		return errNotStarted
	}
	if len(r) == 0 {
		if len(w) == 0 {
			return nil
		}
		return s.ops.WriteBytes(w)
	}
	if len(w) != len(r) {
		return fmt.Errorf("tx/rx length mismatch: %d != %d", len(w), len(r))
	}
	data := make([]byte, len(r)-1)
	if err := s.ops.ReadCommandData(w[:1], data); err != nil {
		return err
	}
	r[0] = 0
	copy(r[1:], data)
	return nil
}

// Close closes the connection and finalizes the adaptor when it was opened by NewNanoPiSPI.
func (s *GobotSPI) Close() error {
	if s.close != nil {
		_ = s.close()
		s.close = nil
	}
	s.ops = nil
	if s.finalize != nil {
		return s.finalize()
	}
	return nil
}

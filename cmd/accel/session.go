package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/accel"
	"github.com/mklimuk/accel/adapter"
	"github.com/mklimuk/accel/config"
	"github.com/mklimuk/accel/gpio"
	"github.com/mklimuk/accel/i2c"
	"github.com/mklimuk/accel/iis2dlpc"
	"github.com/mklimuk/accel/snsctx"
	"github.com/mklimuk/accel/spi"
)

const busRetryLimit = 3

// session holds an opened device together with everything that has to be closed after it.
type session struct {
	cfg     *config.Config
	dev     *iis2dlpc.Device
	closers []func() error
	// set by the mock adapter only
	mockBus  *iis2dlpc.MockBus
	mockLine *gpio.MockLine
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if a := c.String("adapter"); a != "" {
		cfg.Adapter = a
	}
	if b := c.String("bus"); b != "" {
		cfg.Bus = b
	}
	if a := c.String("address"); a != "" {
		addr, err := hex.DecodeString(a)
		if err != nil || len(addr) != 1 {
			return nil, fmt.Errorf("could not decode address %q: %w", a, config.ErrInvalidConfig)
		}
		cfg.Address = addr[0]
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func commandContext(c *cli.Context) context.Context {
	ctx := snsctx.SetVerbose(c.Context, c.Bool("verbose"))
	return snsctx.WithLogger(ctx, slog.Default().With("command", c.Command.Name))
}

// openSession builds the bus and interrupt line described by the configuration and creates the
// device. It does not initialize it.
func openSession(cfg *config.Config, extra ...iis2dlpc.DeviceOpt) (*session, error) {
	s := &session{cfg: cfg}
	bus, level, err := s.openBus()
	if err != nil {
		s.Close()
		return nil, err
	}
	opts, err := cfg.DeviceOptions()
	if err != nil {
		s.Close()
		return nil, err
	}
	line, err := s.openLine(level)
	if err != nil {
		s.Close()
		return nil, err
	}
	if line != nil {
		opts = append(opts, iis2dlpc.WithInterruptLine(line, cfg.Pad()))
	}
	opts = append(opts, extra...)
	s.dev = iis2dlpc.New(bus, opts...)
	return s, nil
}

func (s *session) openBus() (accel.Bus, gpio.LevelReader, error) {
	cfg := s.cfg
	switch cfg.Adapter {
	case config.AdapterSPI:
		d, err := spi.Open(cfg.Bus, cfg.CSPin, physic.Frequency(cfg.SPIFrequency)*physic.Hertz)
		if err != nil {
			return nil, nil, err
		}
		s.closers = append(s.closers, d.Close)
		return d, nil, nil
	case config.AdapterNanoPiSPI:
		conn, err := adapter.NewNanoPiSPI(cfg.BusNumber, cfg.Chip, cfg.SPIFrequency)
		if err != nil {
			return nil, nil, err
		}
		s.closers = append(s.closers, conn.Close)
		return spi.NewDevice(conn, nil), nil, nil
	case config.AdapterMock:
		s.mockBus = iis2dlpc.NewMockBus()
		return s.mockBus, nil, nil
	}
	m, err := i2cMaster(cfg)
	if err != nil {
		return nil, nil, err
	}
	s.closers = append(s.closers, m.close)
	level, err := interruptLevel(cfg.Interrupt, m)
	if err != nil {
		return nil, nil, err
	}
	return i2c.NewDevice(m.bus, cfg.Address), level, nil
}

// interruptLevel returns the level source of a line that has no host pin: an expander input or
// a GP pin of the USB bridge.
func interruptLevel(irq *config.Interrupt, m *master) (gpio.LevelReader, error) {
	switch {
	case irq == nil || irq.Pin != "":
		return nil, nil
	case irq.Expander != 0:
		port, bit, err := gpio.ParsePin(irq.ExpanderPin)
		if err != nil {
			return nil, err
		}
		return gpio.NewMCP23017(m.bus, irq.Expander).Pin(port, bit), nil
	case m.bridge != nil:
		return m.bridge.Level(irq.GP), nil
	}
	return nil, errors.New("interrupt configured without a pin")
}

func (s *session) openLine(level gpio.LevelReader) (gpio.InterruptLine, error) {
	irq := s.cfg.Interrupt
	if s.cfg.Adapter == config.AdapterMock {
		s.mockLine = gpio.NewMockLine()
		return s.mockLine, nil
	}
	if irq == nil {
		return nil, nil
	}
	if level != nil {
		var opts []gpio.PolledLineOpt
		if irq.Poll > 0 {
			opts = append(opts, gpio.WithInterval(irq.Poll))
		}
		opts = append(opts, gpio.WithActiveLow(irq.ActiveLow))
		return gpio.NewPolledLine(level, opts...), nil
	}
	if irq.Pin == "" {
		return nil, errors.New("interrupt pin required with this adapter")
	}
	return gpio.OpenPin(irq.Pin, irq.ActiveLow)
}

func (s *session) Close() {
	if s.dev != nil {
		if err := s.dev.Close(); err != nil {
			slog.Debug("could not close device", "error", err)
		}
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			slog.Debug("could not close bus", "error", err)
		}
	}
}

// open loads the configuration and opens and initializes the device.
func open(c *cli.Context, extra ...iis2dlpc.DeviceOpt) (context.Context, *session, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	ctx := commandContext(c)
	s, err := openSession(cfg, extra...)
	if err != nil {
		return nil, nil, err
	}
	if err = s.dev.Init(ctx); err != nil {
		s.Close()
		return nil, nil, err
	}
	s.seedMock()
	return ctx, s, nil
}

// seedMock loads a sensor lying flat at 26°C into the simulated register file. Reset clears it,
// so it runs after Init.
func (s *session) seedMock() {
	if s.mockBus == nil {
		return
	}
	s.mockBus.SetAcceleration(0, 0, 16384)
	s.mockBus.SetTemperature(0x0100)
}

// master is the raw I2C master of an I2C adapter.
type master struct {
	bus    accel.I2CBus
	bridge *adapter.MCP2221
	close  func() error
}

func i2cMaster(cfg *config.Config) (*master, error) {
	switch cfg.Adapter {
	case config.AdapterGeneric:
		b, err := i2c.NewGenericBus(cfg.Bus)
		if err != nil {
			return nil, err
		}
		return &master{bus: b, close: b.Close}, nil
	case config.AdapterMCP2221:
		bridge := adapter.NewMCP2221()
		return &master{
			bus:    adapter.NewRetrying(bridge, busRetryLimit),
			bridge: bridge,
			close:  func() error { return nil },
		}, nil
	case config.AdapterNanoPi:
		b, err := adapter.NewNanoPiBus(cfg.BusNumber)
		if err != nil {
			return nil, err
		}
		return &master{bus: b, close: b.Close}, nil
	}
	return nil, fmt.Errorf("adapter %q has no raw i2c master: %w", cfg.Adapter, config.ErrInvalidConfig)
}

package spi

import (
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// DefaultFrequency is well below the 10 MHz the IIS2DLPC accepts.
const DefaultFrequency = 5 * physic.MegaHertz

// Open connects to a host SPI port (e.g. "/dev/spidev0.0" or "SPI0.0") in mode 3 with 8 bit
// words. csPin names a GPIO used as chip select; leave it empty to use the controller's.
func Open(dev string, csPin string, freq physic.Frequency) (*Device, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("host driver loaded", "driver", driver.String())
	}
	if freq == 0 {
		freq = DefaultFrequency
	}
	var cs gpio.PinIO
	if csPin != "" {
		cs = gpioreg.ByName(csPin)
		if cs == nil {
			return nil, fmt.Errorf("chip select pin %q not found", csPin)
		}
		if err = cs.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("could not configure chip select %s: %w", csPin, err)
		}
	}
	port, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open spi port %s: %w", dev, err)
	}
	conn, err := port.Connect(freq, spi.Mode3, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("could not connect to spi port %s: %w", dev, err)
	}
	d := NewDevice(conn, nil)
	if cs != nil {
		d.cs = cs
	}
	d.closer = port.Close
	return d, nil
}

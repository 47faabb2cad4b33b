// Package config loads the YAML description of an accelerometer setup: which bus it sits on, how
// its interrupt pad is wired and how the device is configured at start-up.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mklimuk/accel/gpio"
	"github.com/mklimuk/accel/iis2dlpc"
)

// Adapters accepted in the adapter field.
const (
	AdapterGeneric   = "generic"
	AdapterSPI       = "spi"
	AdapterMCP2221   = "mcp2221"
	AdapterNanoPi    = "nanopi"
	AdapterNanoPiSPI = "nanopi-spi"
	AdapterMock      = "mock"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Interrupt struct {
	// Pin is a host GPIO name resolved through periph (generic, spi and nanopi adapters).
	Pin string `yaml:"pin,omitempty"`
	// GP is the MCP2221 GP pin carrying the line (mcp2221 adapter).
	GP int `yaml:"gp,omitempty"`
	// Expander is the address of an MCP23017 whose ExpanderPin (e.g. "A3") carries the line.
	Expander    uint8         `yaml:"expander,omitempty"`
	ExpanderPin string        `yaml:"expander_pin,omitempty"`
	Pad         int           `yaml:"pad"`
	ActiveLow   bool          `yaml:"active_low,omitempty"`
	Poll        time.Duration `yaml:"poll,omitempty"`
}

type MQTT struct {
	Broker   string `yaml:"broker,omitempty"`
	ClientID string `yaml:"client_id,omitempty"`
	Topic    string `yaml:"topic,omitempty"`
}

type Config struct {
	Name    string `yaml:"name"`
	Adapter string `yaml:"adapter"`
	// Bus is the I2C bus name or the SPI device, empty for the first one found.
	Bus          string                   `yaml:"bus,omitempty"`
	BusNumber    int                      `yaml:"bus_number,omitempty"`
	Chip         int                      `yaml:"chip,omitempty"`
	Address      uint8                    `yaml:"address"`
	CSPin        string                   `yaml:"cs_pin,omitempty"`
	SPIFrequency int64                    `yaml:"spi_frequency,omitempty"`
	Interrupt    *Interrupt               `yaml:"interrupt,omitempty"`
	PowerMode    string                   `yaml:"power_mode"`
	FullScale    int                      `yaml:"full_scale"`
	ODR          uint16                   `yaml:"odr"`
	TriggerMode  string                   `yaml:"trigger_mode"`
	Tap          *iis2dlpc.TapConfig      `yaml:"tap,omitempty"`
	Activity     *iis2dlpc.ActivityConfig `yaml:"activity,omitempty"`
	MQTT         MQTT                     `yaml:"mqtt,omitempty"`
}

// Default describes a sensor at 0x19 behind an MCP2221 sampling at 12.5 Hz.
func Default() *Config {
	return &Config{
		Name:        "iis2dlpc",
		Adapter:     AdapterMCP2221,
		Address:     iis2dlpc.DefaultAddress,
		PowerMode:   iis2dlpc.HighPerformance.String(),
		FullScale:   2,
		ODR:         12,
		TriggerMode: iis2dlpc.TriggerOwnThread.String(),
		MQTT: MQTT{
			ClientID: "accel",
			Topic:    "accel",
		},
	}
}

// Load reads path on top of Default.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()
	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Adapter {
	case AdapterGeneric, AdapterSPI, AdapterMCP2221, AdapterNanoPi, AdapterNanoPiSPI, AdapterMock:
	default:
		return fmt.Errorf("unknown adapter %q: %w", c.Adapter, ErrInvalidConfig)
	}
	if !c.IsSPI() && (c.Address < 0x08 || c.Address > 0x77) {
		return fmt.Errorf("i2c address %#02x: %w", c.Address, ErrInvalidConfig)
	}
	if c.Interrupt != nil && c.Interrupt.Pad != int(iis2dlpc.Int1) && c.Interrupt.Pad != int(iis2dlpc.Int2) {
		return fmt.Errorf("interrupt pad %d: %w", c.Interrupt.Pad, ErrInvalidConfig)
	}
	if c.Interrupt != nil && c.Interrupt.Expander != 0 {
		if c.IsSPI() || c.Adapter == AdapterMock {
			return fmt.Errorf("expander on %s adapter: %w", c.Adapter, ErrInvalidConfig)
		}
		if _, _, err := gpio.ParsePin(c.Interrupt.ExpanderPin); err != nil {
			return fmt.Errorf("%w: %w", err, ErrInvalidConfig)
		}
	}
	if _, err := c.DeviceOptions(); err != nil {
		return err
	}
	return nil
}

func (c *Config) IsSPI() bool {
	return c.Adapter == AdapterSPI || c.Adapter == AdapterNanoPiSPI
}

// DeviceOptions translates the device settings. The interrupt line and work queue depend on the
// adapter and are added by the caller.
func (c *Config) DeviceOptions() ([]iis2dlpc.DeviceOpt, error) {
	mode, err := iis2dlpc.ParsePowerMode(c.PowerMode)
	if err != nil {
		return nil, fmt.Errorf("power mode: %w", err)
	}
	fs, err := iis2dlpc.FullScaleFromG(c.FullScale)
	if err != nil {
		return nil, fmt.Errorf("full scale: %w", err)
	}
	odr, err := iis2dlpc.ODRFromHz(c.ODR)
	if err != nil {
		return nil, fmt.Errorf("odr: %w", err)
	}
	tm, err := iis2dlpc.ParseTriggerMode(c.TriggerMode)
	if err != nil {
		return nil, fmt.Errorf("trigger mode: %w", err)
	}
	opts := []iis2dlpc.DeviceOpt{
		iis2dlpc.WithPowerMode(mode),
		iis2dlpc.WithFullScale(fs),
		iis2dlpc.WithODR(odr),
		iis2dlpc.WithTriggerMode(tm),
	}
	if c.Tap != nil {
		opts = append(opts, iis2dlpc.WithTapConfig(*c.Tap))
	}
	if c.Activity != nil {
		opts = append(opts, iis2dlpc.WithActivityConfig(*c.Activity))
	}
	return opts, nil
}

// Pad returns the configured interrupt pad, INT1 when unset.
func (c *Config) Pad() iis2dlpc.Pad {
	if c.Interrupt == nil || c.Interrupt.Pad == 0 {
		return iis2dlpc.Int1
	}
	return iis2dlpc.Pad(c.Interrupt.Pad)
}

func (c *Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding error: %w", err)
	}
	return enc.Close()
}

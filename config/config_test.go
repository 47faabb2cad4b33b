package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/accel/iis2dlpc"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, uint8(0x19), cfg.Address)
	assert.Equal(t, iis2dlpc.Int1, cfg.Pad())
	opts, err := cfg.DeviceOptions()
	require.NoError(t, err)
	dev := iis2dlpc.New(iis2dlpc.NewMockBus(), opts...)
	assert.Equal(t, iis2dlpc.ODR12Hz5, dev.Config().ODR)
	assert.Equal(t, iis2dlpc.HighPerformance, dev.Config().PowerMode)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
name: bench
adapter: spi
bus: SPI0.0
cs_pin: GPIO8
interrupt:
  pin: GPIO17
  pad: 2
  poll: 2ms
power_mode: cont-lp4-ln
full_scale: 8
odr: 100
trigger_mode: global-thread
tap:
  mode: 1
  threshold: [9, 9, 12]
  shock: 2
  quiet: 1
  latency: 7
activity:
  threshold: 2
  duration: 1
mqtt:
  broker: tcp://localhost:1883
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bench", cfg.Name)
	assert.Equal(t, AdapterSPI, cfg.Adapter)
	assert.Equal(t, "GPIO8", cfg.CSPin)
	assert.Equal(t, iis2dlpc.Int2, cfg.Pad())
	assert.Equal(t, 2*time.Millisecond, cfg.Interrupt.Poll)
	assert.Equal(t, iis2dlpc.TapConfig{Mode: iis2dlpc.TapSingleDouble, Threshold: [3]uint8{9, 9, 12}, Shock: 2, Quiet: 1, Latency: 7}, *cfg.Tap)
	assert.Equal(t, uint8(2), cfg.Activity.Threshold)
	// defaults survive when the file leaves them out
	assert.Equal(t, "accel", cfg.MQTT.Topic)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)

	opts, err := cfg.DeviceOptions()
	require.NoError(t, err)
	dev := iis2dlpc.New(iis2dlpc.NewMockBus(), opts...)
	assert.Equal(t, iis2dlpc.ContLowPowerLowNoise4, dev.Config().PowerMode)
	assert.Equal(t, iis2dlpc.FullScale8g, dev.Config().FullScale)
	assert.Equal(t, iis2dlpc.ODR100Hz, dev.Config().ODR)
	assert.Equal(t, iis2dlpc.TriggerGlobalThread, dev.Config().TriggerMode)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown adapter", "adapter: ftdi\n"},
		{"address out of range", "address: 0x80\n"},
		{"bad pad", "interrupt:\n  pad: 3\n"},
		{"bad power mode", "power_mode: turbo\n"},
		{"bad range", "full_scale: 3\n"},
		{"odr too high", "odr: 3200\n"},
		{"bad trigger mode", "trigger_mode: irq\n"},
		{"unknown field", "adress: 0x19\n"},
		{"expander on spi", "adapter: spi\ninterrupt:\n  expander: 0x21\n  expander_pin: A1\n  pad: 1\n"},
		{"bad expander pin", "interrupt:\n  expander: 0x21\n  expander_pin: C9\n  pad: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_Expander(t *testing.T) {
	cfg, err := Load(writeConfig(t, "adapter: generic\nbus: \"1\"\ninterrupt:\n  expander: 0x21\n  expander_pin: B2\n  pad: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, uint8(0x21), cfg.Interrupt.Expander)
	assert.Equal(t, "B2", cfg.Interrupt.ExpanderPin)
	assert.Equal(t, iis2dlpc.Int1, cfg.Pad())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Encode(&buf))
	assert.Contains(t, buf.String(), "adapter: mcp2221")
	assert.Contains(t, buf.String(), "address: 25")
	assert.NotContains(t, buf.String(), "interrupt")
}

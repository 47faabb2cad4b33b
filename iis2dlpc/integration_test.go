//go:build integration

package iis2dlpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/accel/adapter"
	"github.com/mklimuk/accel/i2c"
)

// A sensor at the default address behind an MCP2221 bridge, lying still.
func TestIntegration_MCP2221(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	bus := i2c.NewDevice(adapter.NewRetrying(adapter.NewMCP2221(), 3), DefaultAddress)
	dev := New(bus, WithODR(ODR12Hz5))
	err := dev.Init(ctx)
	if errors.Is(err, adapter.ErrDeviceNotFound) {
		t.Skip("no MCP2221 connected")
	}
	require.NoError(t, err)
	defer dev.Close()

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, dev.SampleFetch(ctx, ChanAll))
	xyz, err := dev.ChannelGet(ChanAccelXYZ)
	require.NoError(t, err)
	var norm float64
	for _, v := range xyz {
		norm += v.Float64() * v.Float64()
	}
	assert.InDelta(t, 9.81*9.81, norm, 20)
}

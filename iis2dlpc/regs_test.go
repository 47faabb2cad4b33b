package iis2dlpc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBus = errors.New("i2c nack")

func TestRegs_PowerModeRoundTrip(t *testing.T) {
	require.Len(t, PowerModes, 18)
	for _, mode := range PowerModes {
		t.Run(mode.String(), func(t *testing.T) {
			bus := NewMockBus()
			r := NewRegs(bus)
			require.NoError(t, r.SetPowerMode(context.Background(), mode))
			got, err := r.PowerMode(context.Background())
			require.NoError(t, err)
			assert.Equal(t, mode, got)
		})
	}
}

func TestRegs_PowerModeKeepsNeighbours(t *testing.T) {
	bus := NewMockBus()
	bus.SetReg(RegCtrl1, 0x50)
	bus.SetReg(RegCtrl6, 0x30)
	r := NewRegs(bus)
	require.NoError(t, r.SetPowerMode(context.Background(), SingleLowPowerLowNoise3))
	assert.Equal(t, byte(0x5A), bus.Reg(RegCtrl1))
	assert.Equal(t, byte(0x34), bus.Reg(RegCtrl6))
}

func TestRegs_DataRateRoundTrip(t *testing.T) {
	require.Len(t, ODRs, 12)
	for _, odr := range ODRs {
		t.Run(odr.String(), func(t *testing.T) {
			bus := NewMockBus()
			r := NewRegs(bus)
			require.NoError(t, r.SetDataRate(context.Background(), odr))
			got, err := r.DataRate(context.Background())
			require.NoError(t, err)
			assert.Equal(t, odr, got)
		})
	}
}

func TestRegs_DataRateTriggerModes(t *testing.T) {
	bus := NewMockBus()
	r := NewRegs(bus)
	require.NoError(t, r.SetDataRate(context.Background(), ODRPinTrigger))
	assert.Equal(t, byte(0x00), bus.Reg(RegCtrl1)&0xF0)
	assert.Equal(t, byte(0x02), bus.Reg(RegCtrl3)&0x03)
	require.NoError(t, r.SetDataRate(context.Background(), ODRSoftwareTrigger))
	assert.Equal(t, byte(0x01), bus.Reg(RegCtrl3)&0x03)
}

func TestRegs_FreeFallDurationSplit(t *testing.T) {
	tests := []struct {
		given  uint8
		wudBit byte
		ffDur  byte
	}{
		{32, 1, 0},
		{31, 0, 31},
		{63, 1, 31},
		{0, 0, 0},
	}
	for _, test := range tests {
		t.Run("", func(t *testing.T) {
			bus := NewMockBus()
			bus.SetReg(RegFreeFall, 0x05)
			r := NewRegs(bus)
			require.NoError(t, r.SetFreeFallDuration(context.Background(), test.given))
			assert.Equal(t, test.wudBit, wakeUpDurFFDur.get(bus.Reg(RegWakeUpDur)))
			assert.Equal(t, test.ffDur, freeFallDur.get(bus.Reg(RegFreeFall)))
			// threshold shares FREE_FALL and must survive
			assert.Equal(t, byte(0x05), freeFallThs.get(bus.Reg(RegFreeFall)))
			got, err := r.FreeFallDuration(context.Background())
			require.NoError(t, err)
			assert.Equal(t, test.given, got)
		})
	}
}

func TestRegs_DecodeFallback(t *testing.T) {
	ctx := context.Background()
	bus := NewMockBus()
	r := NewRegs(bus)

	// mode 3 is reserved
	bus.SetReg(RegCtrl1, 0x0C)
	mode, err := r.PowerMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, HighPerformance, mode)

	bus.SetReg(RegCtrl1, 0xB0)
	odr, err := r.DataRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, ODROff, odr)

	bus.SetReg(RegCtrl6, 0x08)
	bus.SetReg(RegCtrl7, 0x10)
	path, err := r.FilterPath(ctx)
	require.NoError(t, err)
	assert.Equal(t, LowPassOnOut, path)

	bus.SetReg(RegWakeUpThs, 0x00)
	bus.SetReg(RegWakeUpDur, 0x10)
	act, err := r.ActivityMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, NoDetection, act)
}

func TestRegs_FailFast(t *testing.T) {
	tests := []struct {
		name   string
		set    func(r *Regs) error
		failAt int
		calls  int
	}{
		// read CTRL1, write CTRL1 fails, CTRL6 never touched
		{"power mode", func(r *Regs) error { return r.SetPowerMode(context.Background(), ContLowPower2) }, 1, 2},
		// second write of the pair fails
		{"power mode ctrl6", func(r *Regs) error { return r.SetPowerMode(context.Background(), ContLowPower2) }, 3, 4},
		{"data rate", func(r *Regs) error { return r.SetDataRate(context.Background(), ODR100Hz) }, 3, 4},
		{"free fall", func(r *Regs) error { return r.SetFreeFallDuration(context.Background(), 40) }, 2, 3},
		{"filter path", func(r *Regs) error { return r.SetFilterPath(context.Background(), HighPassOnOut) }, 1, 2},
		{"int1 route", func(r *Regs) error { return r.SetInt1Route(context.Background(), Int1Route{WakeUp: true}) }, 2, 3},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bus := NewMockBus()
			bus.FailAt(test.failAt, errBus)
			err := test.set(NewRegs(bus))
			assert.Equal(t, errBus, err)
			assert.Len(t, bus.Calls(), test.calls)
		})
	}
}

func TestRegs_FailFastLeavesFirstWrite(t *testing.T) {
	bus := NewMockBus()
	bus.FailAt(3, errBus)
	err := NewRegs(bus).SetPowerMode(context.Background(), HighPerformanceLowNoise)
	require.ErrorIs(t, err, errBus)
	assert.Equal(t, byte(0x04), bus.Reg(RegCtrl1))
	assert.Equal(t, byte(0x00), bus.Reg(RegCtrl6))
}

func TestRegs_Int1Route(t *testing.T) {
	ctx := context.Background()
	bus := NewMockBus()
	r := NewRegs(bus)

	require.NoError(t, r.SetInt1Route(ctx, Int1Route{DataReady: true}))
	assert.Equal(t, byte(0x01), bus.Reg(RegCtrl4Int1PadCtrl))
	assert.False(t, ctrl7InterruptsEnable.flag(bus.Reg(RegCtrl7)))

	rt, err := r.Int1Route(ctx)
	require.NoError(t, err)
	rt.SingleTap = true
	require.NoError(t, r.SetInt1Route(ctx, rt))
	assert.Equal(t, byte(0x41), bus.Reg(RegCtrl4Int1PadCtrl))
	assert.True(t, ctrl7InterruptsEnable.flag(bus.Reg(RegCtrl7)))

	rt.SingleTap = false
	require.NoError(t, r.SetInt1Route(ctx, rt))
	assert.Equal(t, byte(0x01), bus.Reg(RegCtrl4Int1PadCtrl))
	assert.False(t, ctrl7InterruptsEnable.flag(bus.Reg(RegCtrl7)))
}

func TestRegs_InterruptsEnableAcrossPads(t *testing.T) {
	ctx := context.Background()
	bus := NewMockBus()
	r := NewRegs(bus)

	require.NoError(t, r.SetInt2Route(ctx, Int2Route{SleepChange: true}))
	assert.True(t, ctrl7InterruptsEnable.flag(bus.Reg(RegCtrl7)))

	// INT1 without events must not clear the INT2 events enable
	require.NoError(t, r.SetInt1Route(ctx, Int1Route{DataReady: true}))
	assert.True(t, ctrl7InterruptsEnable.flag(bus.Reg(RegCtrl7)))

	require.NoError(t, r.SetInt2Route(ctx, Int2Route{}))
	assert.False(t, ctrl7InterruptsEnable.flag(bus.Reg(RegCtrl7)))
}

func TestRegs_RouteWriteOrder(t *testing.T) {
	bus := NewMockBus()
	require.NoError(t, NewRegs(bus).SetInt1Route(context.Background(), Int1Route{WakeUp: true}))
	calls := bus.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, BusCall{Op: OpRead, Reg: RegCtrl5Int2PadCtrl, Data: []byte{0x00}}, calls[0])
	assert.Equal(t, BusCall{Op: OpRead, Reg: RegCtrl7, Data: []byte{0x00}}, calls[1])
	assert.Equal(t, BusCall{Op: OpWrite, Reg: RegCtrl4Int1PadCtrl, Data: []byte{0x20}}, calls[2])
	assert.Equal(t, BusCall{Op: OpWrite, Reg: RegCtrl7, Data: []byte{0x20}}, calls[3])
}

func TestRegs_ActivityModeBurst(t *testing.T) {
	bus := NewMockBus()
	bus.SetReg(RegWakeUpThs, 0x85)
	bus.SetReg(RegWakeUpDur, 0x03)
	r := NewRegs(bus)
	require.NoError(t, r.SetActivityMode(context.Background(), DetectStatMotion))
	writes := bus.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, RegWakeUpThs, writes[0].Reg)
	assert.Equal(t, []byte{0xC5, 0x13}, writes[0].Data)
	got, err := r.ActivityMode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DetectStatMotion, got)
}

func TestRegs_FilterPathRoundTrip(t *testing.T) {
	for _, p := range []FilterPath{LowPassOnOut, UserOffsetOnOut, HighPassOnOut} {
		bus := NewMockBus()
		r := NewRegs(bus)
		require.NoError(t, r.SetFilterPath(context.Background(), p))
		got, err := r.FilterPath(context.Background())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestRegs_SoftReset(t *testing.T) {
	ctx := context.Background()
	bus := NewMockBus()
	r := NewRegs(bus)
	require.NoError(t, r.SetFullScale(ctx, FullScale8g))
	require.NoError(t, r.SetReset(ctx, true))
	busy, err := r.Reset(ctx)
	require.NoError(t, err)
	assert.False(t, busy)
	fs, err := r.FullScale(ctx)
	require.NoError(t, err)
	assert.Equal(t, FullScale2g, fs)
	id, err := r.DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, DeviceID, id)
}

func TestRegs_AllSources(t *testing.T) {
	bus := NewMockBus()
	bus.SetSources(AllSources{StatusDup: 0x11, TapSrc: 0x70, AllIntSrc: 0x02})
	src, err := NewRegs(bus).AllSources(context.Background())
	require.NoError(t, err)
	assert.True(t, src.StatusDup.DataReady())
	assert.True(t, src.StatusDup.DoubleTap())
	assert.False(t, src.StatusDup.SingleTap())
	assert.True(t, src.TapSrc.SingleTap())
	assert.True(t, src.TapSrc.DoubleTap())
	assert.True(t, src.AllIntSrc.WakeUp())
	calls := bus.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, RegStatusDup, calls[0].Reg)
	assert.Len(t, calls[0].Data, 5)
}

func TestRegs_AccelerationRaw(t *testing.T) {
	bus := NewMockBus()
	bus.SetAcceleration(0x00C0, -0x00C0, 0x4000)
	raw, err := NewRegs(bus).AccelerationRaw(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [3]int16{0x00C0, -0x00C0, 0x4000}, raw)
}

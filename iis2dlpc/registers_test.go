package iis2dlpc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldLayout(t *testing.T) {
	tests := []struct {
		name  string
		f     field
		shift uint8
		width uint8
	}{
		{"CTRL1.lp_mode", ctrl1LPMode, 0, 2},
		{"CTRL1.mode", ctrl1Mode, 2, 2},
		{"CTRL1.odr", ctrl1ODR, 4, 4},
		{"CTRL2.sim", ctrl2SIM, 0, 1},
		{"CTRL2.i2c_disable", ctrl2I2CDisable, 1, 1},
		{"CTRL2.if_add_inc", ctrl2IfAddInc, 2, 1},
		{"CTRL2.bdu", ctrl2BDU, 3, 1},
		{"CTRL2.cs_pu_disc", ctrl2CSPUDisc, 4, 1},
		{"CTRL2.soft_reset", ctrl2SoftReset, 6, 1},
		{"CTRL2.boot", ctrl2Boot, 7, 1},
		{"CTRL4.int1_drdy", int1DRDY, 0, 1},
		{"CTRL4.int1_fth", int1FTH, 1, 1},
		{"CTRL4.int1_diff5", int1Diff5, 2, 1},
		{"CTRL4.int1_tap", int1Tap, 3, 1},
		{"CTRL4.int1_ff", int1FF, 4, 1},
		{"CTRL4.int1_wu", int1WU, 5, 1},
		{"CTRL4.int1_single_tap", int1SingleTap, 6, 1},
		{"CTRL4.int1_6d", int16D, 7, 1},
		{"CTRL5.int2_drdy", int2DRDY, 0, 1},
		{"CTRL5.int2_fth", int2FTH, 1, 1},
		{"CTRL5.int2_diff5", int2Diff5, 2, 1},
		{"CTRL5.int2_ovr", int2OVR, 3, 1},
		{"CTRL5.int2_drdy_t", int2DRDYT, 4, 1},
		{"CTRL5.int2_boot", int2Boot, 5, 1},
		{"CTRL5.int2_sleep_chg", int2SleepChg, 6, 1},
		{"CTRL5.int2_sleep_state", int2SleepState, 7, 1},
		{"CTRL6.low_noise", ctrl6LowNoise, 2, 1},
		{"CTRL6.fds", ctrl6FDS, 3, 1},
		{"CTRL6.fs", ctrl6FS, 4, 2},
		{"CTRL6.bw_filt", ctrl6BWFilt, 6, 2},
		{"WAKE_UP_THS.wk_ths", wakeUpThsWkThs, 0, 6},
		{"WAKE_UP_THS.sleep_on", wakeUpThsSleepOn, 6, 1},
		{"WAKE_UP_THS.single_double_tap", wakeUpThsSingleDoubleTap, 7, 1},
		{"WAKE_UP_DUR.sleep_dur", wakeUpDurSleepDur, 0, 4},
		{"WAKE_UP_DUR.stationary", wakeUpDurStationary, 4, 1},
		{"WAKE_UP_DUR.wake_dur", wakeUpDurWakeDur, 5, 2},
		{"WAKE_UP_DUR.ff_dur", wakeUpDurFFDur, 7, 1},
		{"FREE_FALL.ff_ths", freeFallThs, 0, 3},
		{"FREE_FALL.ff_dur", freeFallDur, 3, 5},
		{"CTRL_REG7.lpass_on6d", ctrl7LPassOn6D, 0, 1},
		{"CTRL_REG7.hp_ref_mode", ctrl7HPRefMode, 1, 1},
		{"CTRL_REG7.usr_off_w", ctrl7UsrOffW, 2, 1},
		{"CTRL_REG7.usr_off_on_wu", ctrl7UsrOffOnWU, 3, 1},
		{"CTRL_REG7.usr_off_on_out", ctrl7UsrOffOnOut, 4, 1},
		{"CTRL_REG7.interrupts_enable", ctrl7InterruptsEnable, 5, 1},
		{"CTRL_REG7.int2_on_int1", ctrl7Int2OnInt1, 6, 1},
		{"CTRL_REG7.drdy_pulsed", ctrl7DRDYPulsed, 7, 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.shift, test.f.shift)
			assert.Equal(t, test.width, test.f.width)
			mask := byte((1<<test.width)-1) << test.shift
			assert.Equal(t, mask, test.f.mask(), fmt.Sprintf("mask %08b", test.f.mask()))
		})
	}
}

func TestField_SetGet(t *testing.T) {
	f := field{shift: 4, width: 2}
	b := f.set(0xFF, 0x01)
	assert.Equal(t, byte(0xDF), b)
	assert.Equal(t, byte(0x01), f.get(b))
	// bits above the field width are dropped
	assert.Equal(t, byte(0x30), f.set(0x00, 0xFF))
	assert.True(t, f.flag(0x10))
	assert.False(t, f.flag(0xCF))
	assert.Equal(t, byte(0x10), f.setFlag(0x00, true))
	assert.Equal(t, byte(0xCF), f.setFlag(0xFF, false))
}

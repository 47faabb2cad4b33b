package iis2dlpc

import "context"

// SetWakeUpThreshold sets the wake-up threshold, 1 LSB = 1/64 of full scale.
func (r *Regs) SetWakeUpThreshold(ctx context.Context, v uint8) error {
	return r.setField(ctx, RegWakeUpThs, wakeUpThsWkThs, v)
}

func (r *Regs) WakeUpThreshold(ctx context.Context) (uint8, error) {
	return r.getField(ctx, RegWakeUpThs, wakeUpThsWkThs)
}

// SetWakeUpDuration sets the wake-up duration, 1 LSB = 1/ODR.
func (r *Regs) SetWakeUpDuration(ctx context.Context, v uint8) error {
	return r.setField(ctx, RegWakeUpDur, wakeUpDurWakeDur, v)
}

func (r *Regs) WakeUpDuration(ctx context.Context) (uint8, error) {
	return r.getField(ctx, RegWakeUpDur, wakeUpDurWakeDur)
}

func (r *Regs) SetWakeUpFeedData(ctx context.Context, f WakeUpFeed) error {
	return r.setField(ctx, RegCtrl7, ctrl7UsrOffOnWU, byte(f))
}

func (r *Regs) WakeUpFeedData(ctx context.Context) (WakeUpFeed, error) {
	v, err := r.getField(ctx, RegCtrl7, ctrl7UsrOffOnWU)
	return WakeUpFeed(v), err
}

// SetActivityMode reads WAKE_UP_THS and WAKE_UP_DUR and writes both back in a single burst.
func (r *Regs) SetActivityMode(ctx context.Context, m ActivityMode) error {
	ths, err := r.readByte(ctx, RegWakeUpThs)
	if err != nil {
		return err
	}
	dur, err := r.readByte(ctx, RegWakeUpDur)
	if err != nil {
		return err
	}
	ths = wakeUpThsSleepOn.set(ths, byte(m)&0x01)
	dur = wakeUpDurStationary.set(dur, (byte(m)&0x02)>>1)
	return r.bus.WriteRegs(ctx, RegWakeUpThs, []byte{ths, dur})
}

// ActivityMode decodes WAKE_UP_THS and WAKE_UP_DUR. Unknown combinations read as NoDetection.
func (r *Regs) ActivityMode(ctx context.Context) (ActivityMode, error) {
	ths, err := r.readByte(ctx, RegWakeUpThs)
	if err != nil {
		return NoDetection, err
	}
	dur, err := r.readByte(ctx, RegWakeUpDur)
	if err != nil {
		return NoDetection, err
	}
	switch m := ActivityMode(wakeUpDurStationary.get(dur)<<1 | wakeUpThsSleepOn.get(ths)); m {
	case NoDetection, DetectActInact, DetectStatMotion:
		return m, nil
	default:
		return NoDetection, nil
	}
}

// SetActivitySleepDuration sets the inactivity time before sleep, 1 LSB = 512/ODR.
func (r *Regs) SetActivitySleepDuration(ctx context.Context, v uint8) error {
	return r.setField(ctx, RegWakeUpDur, wakeUpDurSleepDur, v)
}

func (r *Regs) ActivitySleepDuration(ctx context.Context) (uint8, error) {
	return r.getField(ctx, RegWakeUpDur, wakeUpDurSleepDur)
}

func (r *Regs) SetTapThresholdX(ctx context.Context, v uint8) error {
	return r.setField(ctx, RegTapThsX, tapThsXThs, v)
}

func (r *Regs) TapThresholdX(ctx context.Context) (uint8, error) {
	return r.getField(ctx, RegTapThsX, tapThsXThs)
}

func (r *Regs) SetTapThresholdY(ctx context.Context, v uint8) error {
	return r.setField(ctx, RegTapThsY, tapThsYThs, v)
}

func (r *Regs) TapThresholdY(ctx context.Context) (uint8, error) {
	return r.getField(ctx, RegTapThsY, tapThsYThs)
}

func (r *Regs) SetTapThresholdZ(ctx context.Context, v uint8) error {
	return r.setField(ctx, RegTapThsZ, tapThsZThs, v)
}

func (r *Regs) TapThresholdZ(ctx context.Context) (uint8, error) {
	return r.getField(ctx, RegTapThsZ, tapThsZThs)
}

func (r *Regs) SetTapAxisPriority(ctx context.Context, p TapPriority) error {
	return r.setField(ctx, RegTapThsY, tapThsYPrior, byte(p))
}

// TapAxisPriority decodes TAP_THS_Y.tap_prior. Unknown patterns read as TapPriorityXYZ.
func (r *Regs) TapAxisPriority(ctx context.Context) (TapPriority, error) {
	v, err := r.getField(ctx, RegTapThsY, tapThsYPrior)
	if err != nil {
		return TapPriorityXYZ, err
	}
	switch p := TapPriority(v); p {
	case TapPriorityXYZ, TapPriorityYXZ, TapPriorityXZY, TapPriorityZYX, TapPriorityYZX, TapPriorityZXY:
		return p, nil
	default:
		return TapPriorityXYZ, nil
	}
}

func (r *Regs) SetTapDetectionOnX(ctx context.Context, enable bool) error {
	return r.setFlag(ctx, RegTapThsZ, tapThsZXEn, enable)
}

func (r *Regs) TapDetectionOnX(ctx context.Context) (bool, error) {
	return r.flag(ctx, RegTapThsZ, tapThsZXEn)
}

func (r *Regs) SetTapDetectionOnY(ctx context.Context, enable bool) error {
	return r.setFlag(ctx, RegTapThsZ, tapThsZYEn, enable)
}

func (r *Regs) TapDetectionOnY(ctx context.Context) (bool, error) {
	return r.flag(ctx, RegTapThsZ, tapThsZYEn)
}

func (r *Regs) SetTapDetectionOnZ(ctx context.Context, enable bool) error {
	return r.setFlag(ctx, RegTapThsZ, tapThsZZEn, enable)
}

func (r *Regs) TapDetectionOnZ(ctx context.Context) (bool, error) {
	return r.flag(ctx, RegTapThsZ, tapThsZZEn)
}

// SetTapShock sets the maximum duration of an over-threshold event, 1 LSB = 8/ODR.
func (r *Regs) SetTapShock(ctx context.Context, v uint8) error {
	return r.setField(ctx, RegIntDur, intDurShock, v)
}

func (r *Regs) TapShock(ctx context.Context) (uint8, error) {
	return r.getField(ctx, RegIntDur, intDurShock)
}

// SetTapQuiet sets the quiet time after a tap, 1 LSB = 4/ODR.
func (r *Regs) SetTapQuiet(ctx context.Context, v uint8) error {
	return r.setField(ctx, RegIntDur, intDurQuiet, v)
}

func (r *Regs) TapQuiet(ctx context.Context) (uint8, error) {
	return r.getField(ctx, RegIntDur, intDurQuiet)
}

// SetTapLatency sets the maximum gap between the two taps of a double tap, 1 LSB = 32/ODR.
func (r *Regs) SetTapLatency(ctx context.Context, v uint8) error {
	return r.setField(ctx, RegIntDur, intDurLatency, v)
}

func (r *Regs) TapLatency(ctx context.Context) (uint8, error) {
	return r.getField(ctx, RegIntDur, intDurLatency)
}

func (r *Regs) SetTapMode(ctx context.Context, m TapMode) error {
	return r.setField(ctx, RegWakeUpThs, wakeUpThsSingleDoubleTap, byte(m))
}

func (r *Regs) TapMode(ctx context.Context) (TapMode, error) {
	v, err := r.getField(ctx, RegWakeUpThs, wakeUpThsSingleDoubleTap)
	return TapMode(v), err
}

func (r *Regs) TapSource(ctx context.Context) (TapSrc, error) {
	b, err := r.readByte(ctx, RegTapSrc)
	return TapSrc(b), err
}

// SetSixDThreshold selects the 6D angle threshold (0: 80°, 1: 70°, 2: 60°, 3: 50°).
func (r *Regs) SetSixDThreshold(ctx context.Context, v uint8) error {
	return r.setField(ctx, RegTapThsX, tapThsX6DThs, v)
}

func (r *Regs) SixDThreshold(ctx context.Context) (uint8, error) {
	return r.getField(ctx, RegTapThsX, tapThsX6DThs)
}

// SetFourDMode restricts orientation detection to the X and Y axes.
func (r *Regs) SetFourDMode(ctx context.Context, enable bool) error {
	return r.setFlag(ctx, RegTapThsX, tapThsX4DEn, enable)
}

func (r *Regs) FourDMode(ctx context.Context) (bool, error) {
	return r.flag(ctx, RegTapThsX, tapThsX4DEn)
}

func (r *Regs) SixDSource(ctx context.Context) (SixDSrc, error) {
	b, err := r.readByte(ctx, RegSixDSrc)
	return SixDSrc(b), err
}

func (r *Regs) SetSixDFeedData(ctx context.Context, f SixDFeed) error {
	return r.setField(ctx, RegCtrl7, ctrl7LPassOn6D, byte(f))
}

func (r *Regs) SixDFeedData(ctx context.Context) (SixDFeed, error) {
	v, err := r.getField(ctx, RegCtrl7, ctrl7LPassOn6D)
	return SixDFeed(v), err
}

// SetFreeFallDuration sets the 6-bit free-fall duration, 1 LSB = 1/ODR. Bit 5 lives in
// WAKE_UP_DUR.ff_dur and bits 4..0 in FREE_FALL.ff_dur.
func (r *Regs) SetFreeFallDuration(ctx context.Context, v uint8) error {
	dur, err := r.readByte(ctx, RegWakeUpDur)
	if err != nil {
		return err
	}
	ff, err := r.readByte(ctx, RegFreeFall)
	if err != nil {
		return err
	}
	if err = r.writeByte(ctx, RegWakeUpDur, wakeUpDurFFDur.set(dur, (v&0x20)>>5)); err != nil {
		return err
	}
	return r.writeByte(ctx, RegFreeFall, freeFallDur.set(ff, v&0x1F))
}

func (r *Regs) FreeFallDuration(ctx context.Context) (uint8, error) {
	dur, err := r.readByte(ctx, RegWakeUpDur)
	if err != nil {
		return 0, err
	}
	ff, err := r.readByte(ctx, RegFreeFall)
	if err != nil {
		return 0, err
	}
	return wakeUpDurFFDur.get(dur)<<5 | freeFallDur.get(ff), nil
}

func (r *Regs) SetFreeFallThreshold(ctx context.Context, t FreeFallThreshold) error {
	return r.setField(ctx, RegFreeFall, freeFallThs, byte(t))
}

func (r *Regs) FreeFallThreshold(ctx context.Context) (FreeFallThreshold, error) {
	v, err := r.getField(ctx, RegFreeFall, freeFallThs)
	if err != nil {
		return FreeFall5LSB, err
	}
	switch t := FreeFallThreshold(v); t {
	case FreeFall5LSB, FreeFall7LSB, FreeFall8LSB, FreeFall10LSB,
		FreeFall11LSB, FreeFall13LSB, FreeFall15LSB, FreeFall16LSB:
		return t, nil
	default:
		return FreeFall5LSB, nil
	}
}

package iis2dlpc

import (
	"context"
	"encoding/binary"
)

// SetPowerMode writes mode and lp_mode to CTRL1, then low_noise to CTRL6.
func (r *Regs) SetPowerMode(ctx context.Context, m PowerMode) error {
	ctrl1, err := r.readByte(ctx, RegCtrl1)
	if err != nil {
		return err
	}
	ctrl1 = ctrl1Mode.set(ctrl1, (byte(m)&0x0C)>>2)
	ctrl1 = ctrl1LPMode.set(ctrl1, byte(m)&0x03)
	if err = r.writeByte(ctx, RegCtrl1, ctrl1); err != nil {
		return err
	}
	ctrl6, err := r.readByte(ctx, RegCtrl6)
	if err != nil {
		return err
	}
	return r.writeByte(ctx, RegCtrl6, ctrl6LowNoise.set(ctrl6, (byte(m)&0x10)>>4))
}

// PowerMode decodes CTRL1 and CTRL6. Combinations the device does not define read as HighPerformance.
func (r *Regs) PowerMode(ctx context.Context) (PowerMode, error) {
	ctrl1, err := r.readByte(ctx, RegCtrl1)
	if err != nil {
		return HighPerformance, err
	}
	ctrl6, err := r.readByte(ctx, RegCtrl6)
	if err != nil {
		return HighPerformance, err
	}
	m := PowerMode(ctrl6LowNoise.get(ctrl6)<<4 | ctrl1Mode.get(ctrl1)<<2 | ctrl1LPMode.get(ctrl1))
	switch m {
	case HighPerformance, ContLowPower4, ContLowPower3, ContLowPower2, ContLowPower12bit,
		SingleLowPower4, SingleLowPower3, SingleLowPower2, SingleLowPower12bit,
		HighPerformanceLowNoise, ContLowPowerLowNoise4, ContLowPowerLowNoise3,
		ContLowPowerLowNoise2, ContLowPowerLowNoise12bit, SingleLowPowerLowNoise4,
		SingleLowPowerLowNoise3, SingleLowPowerLowNoise2, SingleLowPowerLowNoise12bit:
		return m, nil
	default:
		return HighPerformance, nil
	}
}

// SetDataRate writes odr to CTRL1, then slp_mode to CTRL3.
func (r *Regs) SetDataRate(ctx context.Context, odr ODR) error {
	ctrl1, err := r.readByte(ctx, RegCtrl1)
	if err != nil {
		return err
	}
	if err = r.writeByte(ctx, RegCtrl1, ctrl1ODR.set(ctrl1, byte(odr))); err != nil {
		return err
	}
	ctrl3, err := r.readByte(ctx, RegCtrl3)
	if err != nil {
		return err
	}
	return r.writeByte(ctx, RegCtrl3, ctrl3SlpMode.set(ctrl3, (byte(odr)&0x30)>>4))
}

// DataRate decodes CTRL1 and CTRL3. Unknown combinations read as ODROff.
func (r *Regs) DataRate(ctx context.Context) (ODR, error) {
	ctrl1, err := r.readByte(ctx, RegCtrl1)
	if err != nil {
		return ODROff, err
	}
	ctrl3, err := r.readByte(ctx, RegCtrl3)
	if err != nil {
		return ODROff, err
	}
	odr := ODR(ctrl3SlpMode.get(ctrl3)<<4 | ctrl1ODR.get(ctrl1))
	switch odr {
	case ODROff, ODR1Hz6, ODR12Hz5, ODR25Hz, ODR50Hz, ODR100Hz, ODR200Hz, ODR400Hz, ODR800Hz,
		ODR1k6Hz, ODRSoftwareTrigger, ODRPinTrigger:
		return odr, nil
	default:
		return ODROff, nil
	}
}

// SetBlockDataUpdate keeps output registers frozen until both halves of a sample are read.
func (r *Regs) SetBlockDataUpdate(ctx context.Context, enable bool) error {
	return r.setFlag(ctx, RegCtrl2, ctrl2BDU, enable)
}

func (r *Regs) BlockDataUpdate(ctx context.Context) (bool, error) {
	return r.flag(ctx, RegCtrl2, ctrl2BDU)
}

func (r *Regs) SetFullScale(ctx context.Context, fs FullScale) error {
	return r.setField(ctx, RegCtrl6, ctrl6FS, byte(fs))
}

func (r *Regs) FullScale(ctx context.Context) (FullScale, error) {
	v, err := r.getField(ctx, RegCtrl6, ctrl6FS)
	if err != nil {
		return FullScale2g, err
	}
	switch fs := FullScale(v); fs {
	case FullScale2g, FullScale4g, FullScale8g, FullScale16g:
		return fs, nil
	default:
		return FullScale2g, nil
	}
}

// Status is the STATUS register.
type Status byte

func (s Status) DataReady() bool     { return statusDRDY.flag(byte(s)) }
func (s Status) FreeFall() bool      { return statusFFIA.flag(byte(s)) }
func (s Status) SixD() bool          { return status6DIA.flag(byte(s)) }
func (s Status) SingleTap() bool     { return statusSingleTap.flag(byte(s)) }
func (s Status) DoubleTap() bool     { return statusDoubleTap.flag(byte(s)) }
func (s Status) SleepState() bool    { return statusSleepState.flag(byte(s)) }
func (s Status) WakeUp() bool        { return statusWUIA.flag(byte(s)) }
func (s Status) FIFOThreshold() bool { return statusFIFOThs.flag(byte(s)) }

func (r *Regs) Status(ctx context.Context) (Status, error) {
	b, err := r.readByte(ctx, RegStatus)
	return Status(b), err
}

func (r *Regs) DataReady(ctx context.Context) (bool, error) {
	return r.flag(ctx, RegStatus, statusDRDY)
}

// AllSources reads STATUS_DUP, WAKE_UP_SRC, TAP_SRC, SIXD_SRC and ALL_INT_SRC in one burst.
func (r *Regs) AllSources(ctx context.Context) (AllSources, error) {
	var buf [5]byte
	if err := r.bus.ReadRegs(ctx, RegStatusDup, buf[:]); err != nil {
		return AllSources{}, err
	}
	return AllSources{
		StatusDup: StatusDup(buf[0]),
		WakeUpSrc: WakeUpSrc(buf[1]),
		TapSrc:    TapSrc(buf[2]),
		SixDSrc:   SixDSrc(buf[3]),
		AllIntSrc: AllIntSrc(buf[4]),
	}, nil
}

// SetUserOffsetX writes the X axis user offset in two's complement, weighted by OffsetWeight.
func (r *Regs) SetUserOffsetX(ctx context.Context, v int8) error {
	return r.writeByte(ctx, RegXOfsUsr, byte(v))
}

func (r *Regs) UserOffsetX(ctx context.Context) (int8, error) {
	b, err := r.readByte(ctx, RegXOfsUsr)
	return int8(b), err
}

func (r *Regs) SetUserOffsetY(ctx context.Context, v int8) error {
	return r.writeByte(ctx, RegYOfsUsr, byte(v))
}

func (r *Regs) UserOffsetY(ctx context.Context) (int8, error) {
	b, err := r.readByte(ctx, RegYOfsUsr)
	return int8(b), err
}

func (r *Regs) SetUserOffsetZ(ctx context.Context, v int8) error {
	return r.writeByte(ctx, RegZOfsUsr, byte(v))
}

func (r *Regs) UserOffsetZ(ctx context.Context) (int8, error) {
	b, err := r.readByte(ctx, RegZOfsUsr)
	return int8(b), err
}

func (r *Regs) SetOffsetWeight(ctx context.Context, w OffsetWeight) error {
	return r.setField(ctx, RegCtrl7, ctrl7UsrOffW, byte(w))
}

func (r *Regs) OffsetWeight(ctx context.Context) (OffsetWeight, error) {
	v, err := r.getField(ctx, RegCtrl7, ctrl7UsrOffW)
	return OffsetWeight(v), err
}

// TemperatureRaw returns OUT_T_L/OUT_T_H as a left-justified 16-bit word (12 significant bits).
func (r *Regs) TemperatureRaw(ctx context.Context) (int16, error) {
	var buf [2]byte
	if err := r.bus.ReadRegs(ctx, RegOutTL, buf[:]); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(buf[:])), nil
}

// Temperature8bit returns OUT_T, 1 °C/LSB with 0 at 25 °C.
func (r *Regs) Temperature8bit(ctx context.Context) (int8, error) {
	b, err := r.readByte(ctx, RegOutT)
	return int8(b), err
}

// AccelerationRaw returns the left-justified X, Y and Z output words.
func (r *Regs) AccelerationRaw(ctx context.Context) ([3]int16, error) {
	var buf [6]byte
	var out [3]int16
	if err := r.bus.ReadRegs(ctx, RegOutXL, buf[:]); err != nil {
		return out, err
	}
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
	}
	return out, nil
}

package iis2dlpc

import "context"

func (r *Regs) SetPinPolarity(ctx context.Context, p Polarity) error {
	return r.setField(ctx, RegCtrl3, ctrl3HLActive, byte(p))
}

func (r *Regs) PinPolarity(ctx context.Context) (Polarity, error) {
	v, err := r.getField(ctx, RegCtrl3, ctrl3HLActive)
	return Polarity(v), err
}

// SetIntNotification selects latched or pulsed interrupt requests.
func (r *Regs) SetIntNotification(ctx context.Context, n Notification) error {
	return r.setField(ctx, RegCtrl3, ctrl3LIR, byte(n))
}

func (r *Regs) IntNotification(ctx context.Context) (Notification, error) {
	v, err := r.getField(ctx, RegCtrl3, ctrl3LIR)
	return Notification(v), err
}

func (r *Regs) SetPinMode(ctx context.Context, m PinMode) error {
	return r.setField(ctx, RegCtrl3, ctrl3PPOD, byte(m))
}

func (r *Regs) PinMode(ctx context.Context) (PinMode, error) {
	v, err := r.getField(ctx, RegCtrl3, ctrl3PPOD)
	return PinMode(v), err
}

// Int1Route is the set of signals routed to the INT1 pad (CTRL4_INT1_PAD_CTRL).
type Int1Route struct {
	DataReady     bool
	FIFOThreshold bool
	FIFOFull      bool
	DoubleTap     bool
	FreeFall      bool
	WakeUp        bool
	SingleTap     bool
	SixD          bool
}

func (rt Int1Route) pack() byte {
	var b byte
	b = int1DRDY.setFlag(b, rt.DataReady)
	b = int1FTH.setFlag(b, rt.FIFOThreshold)
	b = int1Diff5.setFlag(b, rt.FIFOFull)
	b = int1Tap.setFlag(b, rt.DoubleTap)
	b = int1FF.setFlag(b, rt.FreeFall)
	b = int1WU.setFlag(b, rt.WakeUp)
	b = int1SingleTap.setFlag(b, rt.SingleTap)
	return int16D.setFlag(b, rt.SixD)
}

func int1RouteFrom(b byte) Int1Route {
	return Int1Route{
		DataReady:     int1DRDY.flag(b),
		FIFOThreshold: int1FTH.flag(b),
		FIFOFull:      int1Diff5.flag(b),
		DoubleTap:     int1Tap.flag(b),
		FreeFall:      int1FF.flag(b),
		WakeUp:        int1WU.flag(b),
		SingleTap:     int1SingleTap.flag(b),
		SixD:          int16D.flag(b),
	}
}

// events reports whether any embedded function event is routed to INT1.
func (rt Int1Route) events() bool {
	return rt.DoubleTap || rt.FreeFall || rt.WakeUp || rt.SingleTap || rt.SixD
}

// Int2Route is the set of signals routed to the INT2 pad (CTRL5_INT2_PAD_CTRL).
type Int2Route struct {
	DataReady     bool
	FIFOThreshold bool
	FIFOFull      bool
	FIFOOverrun   bool
	TempDataReady bool
	Boot          bool
	SleepChange   bool
	SleepState    bool
}

func (rt Int2Route) pack() byte {
	var b byte
	b = int2DRDY.setFlag(b, rt.DataReady)
	b = int2FTH.setFlag(b, rt.FIFOThreshold)
	b = int2Diff5.setFlag(b, rt.FIFOFull)
	b = int2OVR.setFlag(b, rt.FIFOOverrun)
	b = int2DRDYT.setFlag(b, rt.TempDataReady)
	b = int2Boot.setFlag(b, rt.Boot)
	b = int2SleepChg.setFlag(b, rt.SleepChange)
	return int2SleepState.setFlag(b, rt.SleepState)
}

func int2RouteFrom(b byte) Int2Route {
	return Int2Route{
		DataReady:     int2DRDY.flag(b),
		FIFOThreshold: int2FTH.flag(b),
		FIFOFull:      int2Diff5.flag(b),
		FIFOOverrun:   int2OVR.flag(b),
		TempDataReady: int2DRDYT.flag(b),
		Boot:          int2Boot.flag(b),
		SleepChange:   int2SleepChg.flag(b),
		SleepState:    int2SleepState.flag(b),
	}
}

func (rt Int2Route) events() bool {
	return rt.SleepChange || rt.SleepState
}

// SetInt1Route writes CTRL4_INT1_PAD_CTRL and recomputes CTRL_REG7.interrupts_enable from
// the embedded function events routed to either pad.
func (r *Regs) SetInt1Route(ctx context.Context, rt Int1Route) error {
	ctrl5, err := r.readByte(ctx, RegCtrl5Int2PadCtrl)
	if err != nil {
		return err
	}
	ctrl7, err := r.readByte(ctx, RegCtrl7)
	if err != nil {
		return err
	}
	ctrl7 = ctrl7InterruptsEnable.setFlag(ctrl7, rt.events() || int2RouteFrom(ctrl5).events())
	if err = r.writeByte(ctx, RegCtrl4Int1PadCtrl, rt.pack()); err != nil {
		return err
	}
	return r.writeByte(ctx, RegCtrl7, ctrl7)
}

func (r *Regs) Int1Route(ctx context.Context) (Int1Route, error) {
	b, err := r.readByte(ctx, RegCtrl4Int1PadCtrl)
	return int1RouteFrom(b), err
}

// SetInt2Route writes CTRL5_INT2_PAD_CTRL and recomputes CTRL_REG7.interrupts_enable.
func (r *Regs) SetInt2Route(ctx context.Context, rt Int2Route) error {
	ctrl4, err := r.readByte(ctx, RegCtrl4Int1PadCtrl)
	if err != nil {
		return err
	}
	ctrl7, err := r.readByte(ctx, RegCtrl7)
	if err != nil {
		return err
	}
	ctrl7 = ctrl7InterruptsEnable.setFlag(ctrl7, rt.events() || int1RouteFrom(ctrl4).events())
	if err = r.writeByte(ctx, RegCtrl5Int2PadCtrl, rt.pack()); err != nil {
		return err
	}
	return r.writeByte(ctx, RegCtrl7, ctrl7)
}

func (r *Regs) Int2Route(ctx context.Context) (Int2Route, error) {
	b, err := r.readByte(ctx, RegCtrl5Int2PadCtrl)
	return int2RouteFrom(b), err
}

// SetAllOnInt1 routes every INT2 signal to the INT1 pad as well.
func (r *Regs) SetAllOnInt1(ctx context.Context, enable bool) error {
	return r.setFlag(ctx, RegCtrl7, ctrl7Int2OnInt1, enable)
}

func (r *Regs) AllOnInt1(ctx context.Context) (bool, error) {
	return r.flag(ctx, RegCtrl7, ctrl7Int2OnInt1)
}

// AllSources is the interrupt source snapshot read in a single burst.
type AllSources struct {
	StatusDup StatusDup
	WakeUpSrc WakeUpSrc
	TapSrc    TapSrc
	SixDSrc   SixDSrc
	AllIntSrc AllIntSrc
}

// StatusDup is the STATUS_DUP register.
type StatusDup byte

func (s StatusDup) DataReady() bool     { return statusDupDRDY.flag(byte(s)) }
func (s StatusDup) FreeFall() bool      { return statusDupFFIA.flag(byte(s)) }
func (s StatusDup) SixD() bool          { return statusDup6DIA.flag(byte(s)) }
func (s StatusDup) SingleTap() bool     { return statusDupSingleTap.flag(byte(s)) }
func (s StatusDup) DoubleTap() bool     { return statusDupDoubleTap.flag(byte(s)) }
func (s StatusDup) SleepState() bool    { return statusDupSleepStateIA.flag(byte(s)) }
func (s StatusDup) TempDataReady() bool { return statusDupDRDYT.flag(byte(s)) }
func (s StatusDup) FIFOOverrun() bool   { return statusDupOVR.flag(byte(s)) }

// WakeUpSrc is the WAKE_UP_SRC register.
type WakeUpSrc byte

func (s WakeUpSrc) Z() bool          { return wakeUpSrcZWU.flag(byte(s)) }
func (s WakeUpSrc) Y() bool          { return wakeUpSrcYWU.flag(byte(s)) }
func (s WakeUpSrc) X() bool          { return wakeUpSrcXWU.flag(byte(s)) }
func (s WakeUpSrc) WakeUp() bool     { return wakeUpSrcWUIA.flag(byte(s)) }
func (s WakeUpSrc) SleepState() bool { return wakeUpSrcSleepStateIA.flag(byte(s)) }
func (s WakeUpSrc) FreeFall() bool   { return wakeUpSrcFFIA.flag(byte(s)) }

// TapSrc is the TAP_SRC register.
type TapSrc byte

func (s TapSrc) Z() bool { return tapSrcZTap.flag(byte(s)) }
func (s TapSrc) Y() bool { return tapSrcYTap.flag(byte(s)) }
func (s TapSrc) X() bool { return tapSrcXTap.flag(byte(s)) }

// Negative reports the sign of the acceleration that triggered the tap.
func (s TapSrc) Negative() bool  { return tapSrcSign.flag(byte(s)) }
func (s TapSrc) DoubleTap() bool { return tapSrcDoubleTap.flag(byte(s)) }
func (s TapSrc) SingleTap() bool { return tapSrcSingleTap.flag(byte(s)) }
func (s TapSrc) Tap() bool       { return tapSrcTapIA.flag(byte(s)) }

// SixDSrc is the SIXD_SRC register.
type SixDSrc byte

func (s SixDSrc) XL() bool   { return sixDSrcXL.flag(byte(s)) }
func (s SixDSrc) XH() bool   { return sixDSrcXH.flag(byte(s)) }
func (s SixDSrc) YL() bool   { return sixDSrcYL.flag(byte(s)) }
func (s SixDSrc) YH() bool   { return sixDSrcYH.flag(byte(s)) }
func (s SixDSrc) ZL() bool   { return sixDSrcZL.flag(byte(s)) }
func (s SixDSrc) ZH() bool   { return sixDSrcZH.flag(byte(s)) }
func (s SixDSrc) SixD() bool { return sixDSrc6DIA.flag(byte(s)) }

// AllIntSrc is the ALL_INT_SRC register.
type AllIntSrc byte

func (s AllIntSrc) FreeFall() bool    { return allIntSrcFFIA.flag(byte(s)) }
func (s AllIntSrc) WakeUp() bool      { return allIntSrcWUIA.flag(byte(s)) }
func (s AllIntSrc) SingleTap() bool   { return allIntSrcSingleTap.flag(byte(s)) }
func (s AllIntSrc) DoubleTap() bool   { return allIntSrcDoubleTap.flag(byte(s)) }
func (s AllIntSrc) SixD() bool        { return allIntSrc6DIA.flag(byte(s)) }
func (s AllIntSrc) SleepChange() bool { return allIntSrcSleepChangeIA.flag(byte(s)) }

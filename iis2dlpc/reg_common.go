package iis2dlpc

import "context"

func (r *Regs) DeviceID(ctx context.Context) (byte, error) {
	return r.readByte(ctx, RegWhoAmI)
}

// SetAutoIncrement enables register address auto increment on multi-byte accesses.
func (r *Regs) SetAutoIncrement(ctx context.Context, enable bool) error {
	return r.setFlag(ctx, RegCtrl2, ctrl2IfAddInc, enable)
}

func (r *Regs) AutoIncrement(ctx context.Context) (bool, error) {
	return r.flag(ctx, RegCtrl2, ctrl2IfAddInc)
}

// SetReset triggers a software reset. The device clears the bit when done.
func (r *Regs) SetReset(ctx context.Context, enable bool) error {
	return r.setFlag(ctx, RegCtrl2, ctrl2SoftReset, enable)
}

func (r *Regs) Reset(ctx context.Context) (bool, error) {
	return r.flag(ctx, RegCtrl2, ctrl2SoftReset)
}

// SetBoot reloads the trimming parameters.
func (r *Regs) SetBoot(ctx context.Context, enable bool) error {
	return r.setFlag(ctx, RegCtrl2, ctrl2Boot, enable)
}

func (r *Regs) Boot(ctx context.Context) (bool, error) {
	return r.flag(ctx, RegCtrl2, ctrl2Boot)
}

func (r *Regs) SetSelfTest(ctx context.Context, st SelfTest) error {
	return r.setField(ctx, RegCtrl3, ctrl3ST, byte(st))
}

func (r *Regs) SelfTest(ctx context.Context) (SelfTest, error) {
	v, err := r.getField(ctx, RegCtrl3, ctrl3ST)
	if err != nil {
		return SelfTestDisabled, err
	}
	switch st := SelfTest(v); st {
	case SelfTestDisabled, SelfTestPositive, SelfTestNegative:
		return st, nil
	default:
		return SelfTestDisabled, nil
	}
}

func (r *Regs) SetDataReadyMode(ctx context.Context, m DataReadyMode) error {
	return r.setField(ctx, RegCtrl7, ctrl7DRDYPulsed, byte(m))
}

func (r *Regs) DataReadyMode(ctx context.Context) (DataReadyMode, error) {
	v, err := r.getField(ctx, RegCtrl7, ctrl7DRDYPulsed)
	return DataReadyMode(v), err
}

// SetFilterPath writes fds to CTRL6, then usr_off_on_out to CTRL_REG7.
func (r *Regs) SetFilterPath(ctx context.Context, p FilterPath) error {
	ctrl6, err := r.readByte(ctx, RegCtrl6)
	if err != nil {
		return err
	}
	if err = r.writeByte(ctx, RegCtrl6, ctrl6FDS.set(ctrl6, (byte(p)&0x10)>>4)); err != nil {
		return err
	}
	ctrl7, err := r.readByte(ctx, RegCtrl7)
	if err != nil {
		return err
	}
	return r.writeByte(ctx, RegCtrl7, ctrl7UsrOffOnOut.set(ctrl7, byte(p)&0x01))
}

// FilterPath decodes CTRL6 and CTRL_REG7. Unknown combinations read as LowPassOnOut.
func (r *Regs) FilterPath(ctx context.Context) (FilterPath, error) {
	ctrl6, err := r.readByte(ctx, RegCtrl6)
	if err != nil {
		return LowPassOnOut, err
	}
	ctrl7, err := r.readByte(ctx, RegCtrl7)
	if err != nil {
		return LowPassOnOut, err
	}
	switch p := FilterPath(ctrl6FDS.get(ctrl6)<<4 | ctrl7UsrOffOnOut.get(ctrl7)); p {
	case LowPassOnOut, UserOffsetOnOut, HighPassOnOut:
		return p, nil
	default:
		return LowPassOnOut, nil
	}
}

func (r *Regs) SetFilterBandwidth(ctx context.Context, bw Bandwidth) error {
	return r.setField(ctx, RegCtrl6, ctrl6BWFilt, byte(bw))
}

func (r *Regs) FilterBandwidth(ctx context.Context) (Bandwidth, error) {
	v, err := r.getField(ctx, RegCtrl6, ctrl6BWFilt)
	if err != nil {
		return ODRDiv2, err
	}
	switch bw := Bandwidth(v); bw {
	case ODRDiv2, ODRDiv4, ODRDiv10, ODRDiv20:
		return bw, nil
	default:
		return ODRDiv2, nil
	}
}

// SetReferenceMode enables the high-pass filter reference mode.
func (r *Regs) SetReferenceMode(ctx context.Context, enable bool) error {
	return r.setFlag(ctx, RegCtrl7, ctrl7HPRefMode, enable)
}

func (r *Regs) ReferenceMode(ctx context.Context) (bool, error) {
	return r.flag(ctx, RegCtrl7, ctrl7HPRefMode)
}

func (r *Regs) SetSPIMode(ctx context.Context, m SPIMode) error {
	return r.setField(ctx, RegCtrl2, ctrl2SIM, byte(m))
}

func (r *Regs) SPIMode(ctx context.Context) (SPIMode, error) {
	v, err := r.getField(ctx, RegCtrl2, ctrl2SIM)
	return SPIMode(v), err
}

func (r *Regs) SetI2CInterface(ctx context.Context, i I2CInterface) error {
	return r.setField(ctx, RegCtrl2, ctrl2I2CDisable, byte(i))
}

func (r *Regs) I2CInterface(ctx context.Context) (I2CInterface, error) {
	v, err := r.getField(ctx, RegCtrl2, ctrl2I2CDisable)
	return I2CInterface(v), err
}

// SetCSMode connects or disconnects the pull-up on the CS pad.
func (r *Regs) SetCSMode(ctx context.Context, m CSPullUp) error {
	return r.setField(ctx, RegCtrl2, ctrl2CSPUDisc, byte(m))
}

func (r *Regs) CSMode(ctx context.Context) (CSPullUp, error) {
	v, err := r.getField(ctx, RegCtrl2, ctrl2CSPUDisc)
	return CSPullUp(v), err
}

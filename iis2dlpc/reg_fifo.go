package iis2dlpc

import "context"

// SetFIFOWatermark sets the FIFO threshold level (0..31).
func (r *Regs) SetFIFOWatermark(ctx context.Context, v uint8) error {
	return r.setField(ctx, RegFIFOCtrl, fifoCtrlFTH, v)
}

func (r *Regs) FIFOWatermark(ctx context.Context) (uint8, error) {
	return r.getField(ctx, RegFIFOCtrl, fifoCtrlFTH)
}

func (r *Regs) SetFIFOMode(ctx context.Context, m FIFOMode) error {
	return r.setField(ctx, RegFIFOCtrl, fifoCtrlFMode, byte(m))
}

// FIFOMode decodes FIFO_CTRL.fmode. Unknown patterns read as FIFOBypass.
func (r *Regs) FIFOMode(ctx context.Context) (FIFOMode, error) {
	v, err := r.getField(ctx, RegFIFOCtrl, fifoCtrlFMode)
	if err != nil {
		return FIFOBypass, err
	}
	switch m := FIFOMode(v); m {
	case FIFOBypass, FIFOMode1, FIFOStreamToFIFO, FIFOBypassToStream, FIFOStream:
		return m, nil
	default:
		return FIFOBypass, nil
	}
}

// FIFODataLevel returns the number of unread samples in the FIFO.
func (r *Regs) FIFODataLevel(ctx context.Context) (uint8, error) {
	return r.getField(ctx, RegFIFOSamples, fifoSamplesDiff)
}

func (r *Regs) FIFOOverrun(ctx context.Context) (bool, error) {
	return r.flag(ctx, RegFIFOSamples, fifoSamplesOVR)
}

func (r *Regs) FIFOWatermarkReached(ctx context.Context) (bool, error) {
	return r.flag(ctx, RegFIFOSamples, fifoSamplesFTH)
}

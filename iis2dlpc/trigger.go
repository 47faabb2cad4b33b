package iis2dlpc

import (
	"context"
	"fmt"
	"sync"

	"github.com/mklimuk/accel/gpio"
)

type TriggerType int

const (
	TriggerDataReady TriggerType = iota
	TriggerTap
	TriggerDoubleTap
	TriggerActivity
)

var triggerNames = map[TriggerType]string{
	TriggerDataReady: "data-ready",
	TriggerTap:       "tap",
	TriggerDoubleTap: "double-tap",
	TriggerActivity:  "activity",
}

func (t TriggerType) String() string {
	if n, ok := triggerNames[t]; ok {
		return n
	}
	return fmt.Sprintf("TriggerType(%d)", int(t))
}

type Trigger struct {
	Type    TriggerType
	Channel Channel
}

// TriggerHandler is called from the servicing goroutine, never from the line callback.
type TriggerHandler func(d *Device, t Trigger)

type handlerEntry struct {
	handler TriggerHandler
	trig    Trigger
}

type triggerState struct {
	mx       sync.Mutex
	handlers map[TriggerType]handlerEntry

	servicer servicer
	ctx      context.Context
	cancel   context.CancelFunc
	closed   bool
}

// TriggerSet registers handler for trig, routing the matching event to the interrupt pad.
// A nil handler disables the event.
func (d *Device) TriggerSet(ctx context.Context, trig Trigger, handler TriggerHandler) error {
	if d.config.Line == nil || d.config.TriggerMode == TriggerNone {
		return ErrNoInterruptLine
	}
	enable := handler != nil
	switch trig.Type {
	case TriggerDataReady:
		if !enable {
			d.storeHandler(trig, nil)
			return d.routeDataReady(ctx, false)
		}
		// reading the output clears a data-ready condition latched before routing
		if _, err := d.regs.AccelerationRaw(ctx); err != nil {
			return fmt.Errorf("could not clear data-ready: %w", err)
		}
		if err := d.routeDataReady(ctx, true); err != nil {
			return err
		}
		d.storeHandler(trig, handler)
		return nil
	case TriggerTap, TriggerDoubleTap, TriggerActivity:
		if d.config.Pad != Int1 {
			return fmt.Errorf("%s on INT%d: %w", trig.Type, d.config.Pad, ErrNotSupported)
		}
	default:
		return fmt.Errorf("trigger %s: %w", trig.Type, ErrNotSupported)
	}
	if !enable {
		d.storeHandler(trig, nil)
	}
	rt, err := d.regs.Int1Route(ctx)
	if err != nil {
		return fmt.Errorf("could not read INT1 route: %w", err)
	}
	switch trig.Type {
	case TriggerTap:
		rt.SingleTap = enable
	case TriggerDoubleTap:
		rt.DoubleTap = enable
	case TriggerActivity:
		rt.WakeUp = enable
	}
	if err = d.regs.SetInt1Route(ctx, rt); err != nil {
		return fmt.Errorf("could not route %s to INT1: %w", trig.Type, err)
	}
	if enable {
		d.storeHandler(trig, handler)
	}
	if trig.Type != TriggerActivity {
		return nil
	}
	mode := NoDetection
	if enable {
		mode = DetectActInact
	}
	if err = d.regs.SetActivityMode(ctx, mode); err != nil {
		return fmt.Errorf("could not set activity mode: %w", err)
	}
	return nil
}

func (d *Device) storeHandler(trig Trigger, handler TriggerHandler) {
	d.trig.mx.Lock()
	defer d.trig.mx.Unlock()
	if d.trig.handlers == nil {
		d.trig.handlers = make(map[TriggerType]handlerEntry)
	}
	if handler == nil {
		delete(d.trig.handlers, trig.Type)
		return
	}
	d.trig.handlers[trig.Type] = handlerEntry{handler: handler, trig: trig}
}

func (d *Device) routeDataReady(ctx context.Context, enable bool) error {
	if d.config.Pad == Int2 {
		rt, err := d.regs.Int2Route(ctx)
		if err != nil {
			return fmt.Errorf("could not read INT2 route: %w", err)
		}
		rt.DataReady = enable
		if err = d.regs.SetInt2Route(ctx, rt); err != nil {
			return fmt.Errorf("could not route data-ready to INT2: %w", err)
		}
		return nil
	}
	rt, err := d.regs.Int1Route(ctx)
	if err != nil {
		return fmt.Errorf("could not read INT1 route: %w", err)
	}
	rt.DataReady = enable
	if err = d.regs.SetInt1Route(ctx, rt); err != nil {
		return fmt.Errorf("could not route data-ready to INT1: %w", err)
	}
	return nil
}

func (d *Device) initInterrupt(ctx context.Context) error {
	if d.config.Pad != Int1 && d.config.Pad != Int2 {
		return fmt.Errorf("pad INT%d: %w", d.config.Pad, ErrInvalidValue)
	}
	if err := d.regs.SetIntNotification(ctx, IntPulsed); err != nil {
		return fmt.Errorf("could not set pulsed notification: %w", err)
	}
	if d.config.Tap != nil {
		if err := d.configureTap(ctx, *d.config.Tap); err != nil {
			return err
		}
	}
	if d.config.Activity != nil {
		if err := d.configureActivity(ctx, *d.config.Activity); err != nil {
			return err
		}
	}
	if err := d.startServicing(); err != nil {
		return err
	}
	return d.config.Line.ConfigureEdge(gpio.EdgeToActive)
}

// startServicing installs the servicer and the line callback. It runs once per Device, so a
// failed Init can be retried.
func (d *Device) startServicing() error {
	if d.trig.servicer != nil {
		return nil
	}
	d.trig.ctx, d.trig.cancel = context.WithCancel(context.Background())
	s, err := newServicer(d)
	if err != nil {
		d.trig.cancel()
		return err
	}
	d.trig.servicer = s
	if err = d.config.Line.Watch(d.onInterrupt); err != nil {
		d.trig.servicer = nil
		s.stop()
		d.trig.cancel()
		return fmt.Errorf("could not watch interrupt line: %w", err)
	}
	return nil
}

func (d *Device) configureTap(ctx context.Context, cfg TapConfig) error {
	if err := d.regs.SetTapMode(ctx, cfg.Mode); err != nil {
		return fmt.Errorf("could not set tap mode: %w", err)
	}
	axes := []struct {
		threshold func(context.Context, uint8) error
		detect    func(context.Context, bool) error
	}{
		{d.regs.SetTapThresholdX, d.regs.SetTapDetectionOnX},
		{d.regs.SetTapThresholdY, d.regs.SetTapDetectionOnY},
		{d.regs.SetTapThresholdZ, d.regs.SetTapDetectionOnZ},
	}
	for i, axis := range axes {
		ths := cfg.Threshold[i]
		if err := axis.threshold(ctx, ths); err != nil {
			return fmt.Errorf("could not set tap threshold on axis %d: %w", i, err)
		}
		if ths == 0 {
			continue
		}
		if err := axis.detect(ctx, true); err != nil {
			return fmt.Errorf("could not enable tap on axis %d: %w", i, err)
		}
	}
	if err := d.regs.SetTapShock(ctx, cfg.Shock); err != nil {
		return fmt.Errorf("could not set tap shock: %w", err)
	}
	if err := d.regs.SetTapQuiet(ctx, cfg.Quiet); err != nil {
		return fmt.Errorf("could not set tap quiet: %w", err)
	}
	if err := d.regs.SetTapLatency(ctx, cfg.Latency); err != nil {
		return fmt.Errorf("could not set tap latency: %w", err)
	}
	return nil
}

func (d *Device) configureActivity(ctx context.Context, cfg ActivityConfig) error {
	if err := d.regs.SetWakeUpThreshold(ctx, cfg.Threshold); err != nil {
		return fmt.Errorf("could not set wake-up threshold: %w", err)
	}
	if err := d.regs.SetWakeUpDuration(ctx, cfg.Duration); err != nil {
		return fmt.Errorf("could not set wake-up duration: %w", err)
	}
	if err := d.regs.SetActivitySleepDuration(ctx, cfg.SleepDuration); err != nil {
		return fmt.Errorf("could not set sleep duration: %w", err)
	}
	return nil
}

// onInterrupt runs in the line's context: disarm and hand over to the servicer.
func (d *Device) onInterrupt() {
	if err := d.config.Line.ConfigureEdge(gpio.EdgeDisabled); err != nil {
		d.logger.Debug("could not disarm interrupt line", "error", err)
	}
	if err := d.trig.servicer.signal(); err != nil {
		d.logger.Error("could not schedule interrupt servicing", "error", err)
		d.rearm()
	}
}

func (d *Device) rearm() {
	if d.isClosed() {
		return
	}
	if err := d.config.Line.ConfigureEdge(gpio.EdgeToActive); err != nil {
		d.logger.Error("could not re-arm interrupt line", "error", err)
	}
}

func (d *Device) isClosed() bool {
	d.trig.mx.Lock()
	defer d.trig.mx.Unlock()
	return d.trig.closed
}

// service is one servicing pass. The line is re-armed on every exit path until the device is
// closed.
func (d *Device) service() {
	if d.isClosed() {
		return
	}
	defer d.rearm()
	src, err := d.regs.AllSources(d.trig.ctx)
	if err != nil {
		d.logger.Error("could not read interrupt sources", "error", err)
		return
	}
	d.trig.mx.Lock()
	handlers := make(map[TriggerType]handlerEntry, len(d.trig.handlers))
	for k, v := range d.trig.handlers {
		handlers[k] = v
	}
	d.trig.mx.Unlock()

	fired := []struct {
		typ TriggerType
		set bool
	}{
		{TriggerDataReady, src.StatusDup.DataReady()},
		{TriggerTap, src.StatusDup.SingleTap()},
		{TriggerDoubleTap, src.StatusDup.DoubleTap()},
		{TriggerActivity, src.AllIntSrc.WakeUp()},
	}
	for _, f := range fired {
		if !f.set {
			continue
		}
		if h, ok := handlers[f.typ]; ok {
			h.handler(d, h.trig)
		}
	}
}

func (d *Device) closeTriggers() error {
	d.trig.mx.Lock()
	if d.trig.closed || d.trig.servicer == nil {
		d.trig.closed = true
		d.trig.mx.Unlock()
		return nil
	}
	d.trig.closed = true
	d.trig.mx.Unlock()
	err := d.config.Line.Close()
	d.trig.cancel()
	d.trig.servicer.stop()
	return err
}

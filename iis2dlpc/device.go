package iis2dlpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mklimuk/accel"
	"github.com/mklimuk/accel/gpio"
	"github.com/mklimuk/accel/workq"
)

const (
	// DefaultAddress is the 7-bit I2C address with SA0 high; 0x18 when SA0 is tied low.
	DefaultAddress = 0x19
	AddressSA0Low  = 0x18
)

var (
	ErrNotSupported    = accel.ErrNotSupported
	ErrWrongDevice     = errors.New("iis2dlpc: unexpected device id")
	ErrInvalidValue    = errors.New("invalid value")
	ErrNoInterruptLine = fmt.Errorf("no interrupt line configured: %w", ErrNotSupported)
)

const resetPolls = 10

type Channel int

const (
	ChanAccelX Channel = iota
	ChanAccelY
	ChanAccelZ
	ChanAccelXYZ
	ChanDieTemp
	ChanAll
)

var channelNames = map[Channel]string{
	ChanAccelX:   "accel_x",
	ChanAccelY:   "accel_y",
	ChanAccelZ:   "accel_z",
	ChanAccelXYZ: "accel_xyz",
	ChanDieTemp:  "die_temp",
	ChanAll:      "all",
}

func (c Channel) String() string {
	if n, ok := channelNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Channel(%d)", int(c))
}

type Attribute int

const (
	AttrSamplingFrequency Attribute = iota
	AttrFullScale
	AttrOffset
	AttrSlopeThreshold
	AttrSlopeDuration
)

// Pad is the device interrupt pad the interrupt line is wired to.
type Pad int

const (
	Int1 Pad = 1
	Int2 Pad = 2
)

// TapConfig configures tap recognition. A zero threshold disables detection on that axis.
type TapConfig struct {
	Mode      TapMode  `yaml:"mode"`
	Threshold [3]uint8 `yaml:"threshold"`
	Shock     uint8    `yaml:"shock"`
	Quiet     uint8    `yaml:"quiet"`
	Latency   uint8    `yaml:"latency"`
}

type ActivityConfig struct {
	Threshold     uint8 `yaml:"threshold"`
	Duration      uint8 `yaml:"duration"`
	SleepDuration uint8 `yaml:"sleep_duration"`
}

type DeviceOpts struct {
	PowerMode   PowerMode
	FullScale   FullScale
	ODR         ODR
	Line        gpio.InterruptLine
	Pad         Pad
	TriggerMode TriggerMode
	Queue       *workq.Queue
	Tap         *TapConfig
	Activity    *ActivityConfig
	Logger      *slog.Logger
}

type DeviceOpt func(*DeviceOpts)

func WithPowerMode(m PowerMode) DeviceOpt {
	return func(o *DeviceOpts) {
		o.PowerMode = m
	}
}

func WithFullScale(fs FullScale) DeviceOpt {
	return func(o *DeviceOpts) {
		o.FullScale = fs
	}
}

func WithODR(odr ODR) DeviceOpt {
	return func(o *DeviceOpts) {
		o.ODR = odr
	}
}

// WithInterruptLine enables triggers. pad is the device pad the line is wired to.
func WithInterruptLine(line gpio.InterruptLine, pad Pad) DeviceOpt {
	return func(o *DeviceOpts) {
		o.Line = line
		o.Pad = pad
	}
}

func WithTriggerMode(m TriggerMode) DeviceOpt {
	return func(o *DeviceOpts) {
		o.TriggerMode = m
	}
}

// WithWorkQueue sets the queue used by TriggerGlobalThread. Defaults to workq.Default().
func WithWorkQueue(q *workq.Queue) DeviceOpt {
	return func(o *DeviceOpts) {
		o.Queue = q
	}
}

func WithTapConfig(cfg TapConfig) DeviceOpt {
	return func(o *DeviceOpts) {
		o.Tap = &cfg
	}
}

func WithActivityConfig(cfg ActivityConfig) DeviceOpt {
	return func(o *DeviceOpts) {
		o.Activity = &cfg
	}
}

func WithLogger(l *slog.Logger) DeviceOpt {
	return func(o *DeviceOpts) {
		o.Logger = l
	}
}

// Device is the sensor level driver of the ST IIS2DLPC 3-axis accelerometer.
// Typical usage:
//
//	d := New(i2c.NewDevice(bus, DefaultAddress), WithODR(ODR100Hz))
//	err := d.Init(ctx)
//	err = d.SampleFetch(ctx, ChanAll)
//	xyz, err := d.ChannelGet(ChanAccelXYZ)
type Device struct {
	regs   *Regs
	config DeviceOpts
	logger *slog.Logger

	mx    sync.Mutex
	mode  PowerMode
	fs    FullScale
	shift uint8
	gain  uint32
	accel [3]int16
	temp  int16

	trig triggerState
}

func New(bus accel.Bus, opts ...DeviceOpt) *Device {
	config := DeviceOpts{
		PowerMode:   HighPerformance,
		FullScale:   FullScale2g,
		ODR:         ODROff,
		Pad:         Int1,
		TriggerMode: TriggerOwnThread,
	}
	for _, opt := range opts {
		opt(&config)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	d := &Device{
		regs:   NewRegs(bus),
		config: config,
		logger: logger,
		mode:   config.PowerMode,
		fs:     config.FullScale,
	}
	d.shift, d.gain = Scale(d.fs, d.mode)
	return d
}

// Regs gives access to the register level interface.
func (d *Device) Regs() *Regs {
	return d.regs
}

func (d *Device) Config() DeviceOpts {
	return d.config
}

// Init checks the device identity, resets it and applies the configured power mode, full scale
// and data rate. Triggers are initialized when an interrupt line is configured.
func (d *Device) Init(ctx context.Context) error {
	id, err := d.regs.DeviceID(ctx)
	if err != nil {
		return fmt.Errorf("could not read device id: %w", err)
	}
	if id != DeviceID {
		return fmt.Errorf("%w: 0x%02x", ErrWrongDevice, id)
	}
	if err = d.Reset(ctx); err != nil {
		return err
	}
	if err = d.regs.SetBlockDataUpdate(ctx, true); err != nil {
		return fmt.Errorf("could not enable block data update: %w", err)
	}
	if err = d.SetPowerMode(ctx, d.config.PowerMode); err != nil {
		return err
	}
	if err = d.SetRange(ctx, d.config.FullScale); err != nil {
		return err
	}
	if err = d.SetODR(ctx, d.config.ODR); err != nil {
		return err
	}
	if d.config.Line == nil || d.config.TriggerMode == TriggerNone {
		return nil
	}
	if err = d.initInterrupt(ctx); err != nil {
		return fmt.Errorf("could not initialize interrupts: %w", err)
	}
	return nil
}

// Reset performs a software reset and waits for the device to clear the reset bit.
func (d *Device) Reset(ctx context.Context) error {
	if err := d.regs.SetReset(ctx, true); err != nil {
		return fmt.Errorf("could not reset device: %w", err)
	}
	for i := 0; i < resetPolls; i++ {
		busy, err := d.regs.Reset(ctx)
		if err != nil {
			return fmt.Errorf("could not read reset state: %w", err)
		}
		if !busy {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
	return fmt.Errorf("device did not leave reset after %d polls", resetPolls)
}

func (d *Device) SetPowerMode(ctx context.Context, m PowerMode) error {
	if err := d.regs.SetPowerMode(ctx, m); err != nil {
		return fmt.Errorf("could not set power mode %s: %w", m, err)
	}
	d.mx.Lock()
	d.mode = m
	d.shift, d.gain = Scale(d.fs, d.mode)
	d.mx.Unlock()
	return nil
}

func (d *Device) SetRange(ctx context.Context, fs FullScale) error {
	if err := d.regs.SetFullScale(ctx, fs); err != nil {
		return fmt.Errorf("could not set full scale %s: %w", fs, err)
	}
	d.mx.Lock()
	d.fs = fs
	d.shift, d.gain = Scale(d.fs, d.mode)
	d.mx.Unlock()
	return nil
}

func (d *Device) SetODR(ctx context.Context, odr ODR) error {
	if err := d.regs.SetDataRate(ctx, odr); err != nil {
		return fmt.Errorf("could not set data rate %s: %w", odr, err)
	}
	return nil
}

// SetSamplingFrequency selects the data rate for a frequency in Hz, 0 powering the device off.
func (d *Device) SetSamplingFrequency(ctx context.Context, hz uint16) error {
	odr, err := ODRFromHz(hz)
	if err != nil {
		d.logger.Debug("sampling frequency out of range", "hz", hz)
		return err
	}
	return d.SetODR(ctx, odr)
}

// Scale returns the sample shift and sensitivity (µg/LSB) currently applied by ChannelGet.
func (d *Device) Scale() (shift uint8, gain uint32) {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.shift, d.gain
}

// AttrSet changes the full scale (value in m/s²) or the sampling frequency (value in Hz) of
// the acceleration channels.
func (d *Device) AttrSet(ctx context.Context, ch Channel, attr Attribute, val Value) error {
	switch ch {
	case ChanAccelX, ChanAccelY, ChanAccelZ, ChanAccelXYZ:
	default:
		return fmt.Errorf("attribute on channel %s: %w", ch, ErrNotSupported)
	}
	switch attr {
	case AttrFullScale:
		fs, err := FullScaleFromG(MS2ToG(val))
		if err != nil {
			return err
		}
		return d.SetRange(ctx, fs)
	case AttrSamplingFrequency:
		if val.Val1 < 0 || val.Val1 > 0xFFFF {
			return fmt.Errorf("%d Hz: %w", val.Val1, ErrNotSupported)
		}
		return d.SetSamplingFrequency(ctx, uint16(val.Val1))
	default:
		return fmt.Errorf("attribute %d: %w", attr, ErrNotSupported)
	}
}

// SampleFetch reads the output registers of ch and caches the sample for ChannelGet.
func (d *Device) SampleFetch(ctx context.Context, ch Channel) error {
	switch ch {
	case ChanAll:
		if err := d.fetchAccel(ctx); err != nil {
			return err
		}
		return d.fetchTemp(ctx)
	case ChanAccelX, ChanAccelY, ChanAccelZ, ChanAccelXYZ:
		return d.fetchAccel(ctx)
	case ChanDieTemp:
		return d.fetchTemp(ctx)
	default:
		return fmt.Errorf("fetch %s: %w", ch, ErrNotSupported)
	}
}

func (d *Device) fetchAccel(ctx context.Context) error {
	raw, err := d.regs.AccelerationRaw(ctx)
	if err != nil {
		return fmt.Errorf("could not read acceleration: %w", err)
	}
	d.mx.Lock()
	for i := range raw {
		d.accel[i] = raw[i] >> d.shift
	}
	d.mx.Unlock()
	return nil
}

func (d *Device) fetchTemp(ctx context.Context) error {
	raw, err := d.regs.TemperatureRaw(ctx)
	if err != nil {
		return fmt.Errorf("could not read temperature: %w", err)
	}
	d.mx.Lock()
	d.temp = raw
	d.mx.Unlock()
	return nil
}

// ChannelGet converts the last fetched sample: m/s² for acceleration channels, °C for the
// die temperature.
func (d *Device) ChannelGet(ch Channel) ([]Value, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	switch ch {
	case ChanAccelX, ChanAccelY, ChanAccelZ:
		return []Value{ConvertAccel(d.accel[ch-ChanAccelX], d.gain)}, nil
	case ChanAccelXYZ:
		out := make([]Value, 3)
		for i := range out {
			out[i] = ConvertAccel(d.accel[i], d.gain)
		}
		return out, nil
	case ChanDieTemp:
		return []Value{ConvertTemperature(d.temp)}, nil
	default:
		return nil, fmt.Errorf("channel %s: %w", ch, ErrNotSupported)
	}
}

// RawSample returns the last fetched right-justified acceleration counts.
func (d *Device) RawSample() [3]int16 {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.accel
}

// Close stops interrupt servicing and releases the interrupt line.
func (d *Device) Close() error {
	return d.closeTriggers()
}

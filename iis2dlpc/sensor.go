package iis2dlpc

import (
	"context"

	"tinygo.org/x/drivers"
)

var _ drivers.Sensor = &Sensor{}

// Sensor adapts a Device to the tinygo drivers.Sensor contract: Update fetches, the getters
// return the cached values in the units used by tinygo drivers.
type Sensor struct {
	dev  *Device
	ctx  context.Context
	temp int16
}

func NewSensor(ctx context.Context, dev *Device) *Sensor {
	return &Sensor{dev: dev, ctx: ctx}
}

func (s *Sensor) Update(which drivers.Measurement) error {
	if which&drivers.Acceleration != 0 {
		if err := s.dev.SampleFetch(s.ctx, ChanAccelXYZ); err != nil {
			return err
		}
	}
	if which&drivers.Temperature != 0 {
		if err := s.dev.SampleFetch(s.ctx, ChanDieTemp); err != nil {
			return err
		}
		s.dev.mx.Lock()
		s.temp = s.dev.temp
		s.dev.mx.Unlock()
	}
	return nil
}

// Acceleration returns the last sample in µg.
func (s *Sensor) Acceleration() (x, y, z int32) {
	raw := s.dev.RawSample()
	_, gain := s.dev.Scale()
	return int32(raw[0]) * int32(gain), int32(raw[1]) * int32(gain), int32(raw[2]) * int32(gain)
}

// Temperature returns the last die temperature in milli °C.
func (s *Sensor) Temperature() int32 {
	return int32(ConvertTemperature(s.temp).Micro() / 1000)
}

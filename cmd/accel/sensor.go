package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/accel/cmd/accel/console"
	"github.com/mklimuk/accel/iis2dlpc"
)

var infoCmd = cli.Command{
	Name:  "info",
	Usage: "print the configuration and probe the device",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "no-probe", Usage: "only print the configuration"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		if err = cfg.Encode(os.Stdout); err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		if c.Bool("no-probe") {
			return nil
		}
		ctx := commandContext(c)
		s, err := openSession(cfg)
		if err != nil {
			return console.Exit(1, "could not open device: %s", console.Red(err))
		}
		defer s.Close()
		regs := s.dev.Regs()
		id, err := regs.DeviceID(ctx)
		if err != nil {
			return console.Exit(1, "device communication error: %s", console.Red(err))
		}
		if id != iis2dlpc.DeviceID {
			console.Warnf("unexpected device id %#02x (want %#02x)", id, iis2dlpc.DeviceID)
		} else {
			console.Infof("device id: %s", console.Green(fmt.Sprintf("%#02x", id)))
		}
		mode, err := regs.PowerMode(ctx)
		if err != nil {
			return console.Exit(1, "device communication error: %s", console.Red(err))
		}
		odr, err := regs.DataRate(ctx)
		if err != nil {
			return console.Exit(1, "device communication error: %s", console.Red(err))
		}
		fs, err := regs.FullScale(ctx)
		if err != nil {
			return console.Exit(1, "device communication error: %s", console.Red(err))
		}
		console.Infof("power mode: %s, data rate: %s, range: %s", console.Bold(mode), console.Bold(odr), console.Bold(fs))
		return nil
	},
}

var readCmd = cli.Command{
	Name:  "read",
	Usage: "fetch and print samples",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 10},
		&cli.DurationFlag{Name: "interval", Aliases: []string{"i"}, Value: 100 * time.Millisecond},
		&cli.BoolFlag{Name: "raw", Usage: "print raw register values"},
	},
	Action: func(c *cli.Context) error {
		ctx, s, err := open(c)
		if err != nil {
			return console.Exit(1, "could not initialize device: %s", console.Red(err))
		}
		defer s.Close()
		ticker := time.NewTicker(c.Duration("interval"))
		defer ticker.Stop()
		for i := 0; i < c.Int("count"); i++ {
			if i > 0 {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
			if err = s.dev.SampleFetch(ctx, iis2dlpc.ChanAll); err != nil {
				return console.Exit(1, "could not fetch sample: %s", console.Red(err))
			}
			if c.Bool("raw") {
				raw := s.dev.RawSample()
				console.PInfof(console.PictoSample, "x=%6d y=%6d z=%6d", raw[0], raw[1], raw[2])
				continue
			}
			if err = printSample(s.dev); err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
		}
		return nil
	},
}

func printSample(dev *iis2dlpc.Device) error {
	xyz, err := dev.ChannelGet(iis2dlpc.ChanAccelXYZ)
	if err != nil {
		return err
	}
	temp, err := dev.ChannelGet(iis2dlpc.ChanDieTemp)
	if err != nil {
		return err
	}
	const g = 9.80665
	console.PInfof(console.PictoSample, "x=%s y=%s z=%s m/s² %s %s°C",
		console.Axis(xyz[0].Float64(), g), console.Axis(xyz[1].Float64(), g), console.Axis(xyz[2].Float64(), g),
		console.PictoThermometer, temp[0])
	return nil
}

var setCmd = cli.Command{
	Name:  "set",
	Usage: "change sampling frequency, range or power mode",
	Flags: []cli.Flag{
		&cli.UintFlag{Name: "odr", Usage: "sampling frequency in Hz (0 powers the sensor down)"},
		&cli.IntFlag{Name: "range", Usage: "full scale in g (2, 4, 8, 16)"},
		&cli.StringFlag{Name: "power-mode", Usage: "power mode, e.g. high-performance or cont-lp2-ln"},
	},
	Action: func(c *cli.Context) error {
		ctx, s, err := open(c)
		if err != nil {
			return console.Exit(1, "could not initialize device: %s", console.Red(err))
		}
		defer s.Close()
		if c.IsSet("power-mode") {
			mode, err := iis2dlpc.ParsePowerMode(c.String("power-mode"))
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
			if err = s.dev.SetPowerMode(ctx, mode); err != nil {
				return console.Exit(1, "could not set power mode: %s", console.Red(err))
			}
		}
		if c.IsSet("range") {
			fs, err := iis2dlpc.FullScaleFromG(c.Int("range"))
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
			if err = s.dev.SetRange(ctx, fs); err != nil {
				return console.Exit(1, "could not set range: %s", console.Red(err))
			}
		}
		if c.IsSet("odr") {
			hz := c.Uint("odr")
			if hz > 0xFFFF {
				return console.Exit(1, "sampling frequency %d Hz out of range", hz)
			}
			if err = s.dev.SetSamplingFrequency(ctx, uint16(hz)); err != nil {
				return console.Exit(1, "could not set sampling frequency: %s", console.Red(err))
			}
		}
		shift, gain := s.dev.Scale()
		console.Infof("sensitivity: %d µg/LSB, data shift: %d", gain, shift)
		return nil
	},
}

var resetCmd = cli.Command{
	Name:  "reset",
	Usage: "soft reset the device",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"},
	},
	Action: func(c *cli.Context) error {
		if !c.Bool("yes") {
			ok, err := console.Confirm("reset the accelerometer?")
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
			if !ok {
				return nil
			}
		}
		cfg, err := loadConfig(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		s, err := openSession(cfg)
		if err != nil {
			return console.Exit(1, "could not open device: %s", console.Red(err))
		}
		defer s.Close()
		if err = s.dev.Reset(commandContext(c)); err != nil {
			return console.Exit(1, "reset failed: %s", console.Red(err))
		}
		console.PInfof(console.PictoPin, "device reset")
		return nil
	},
}

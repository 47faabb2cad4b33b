package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/accel/cmd/accel/console"
	"github.com/mklimuk/accel/iis2dlpc"
	"github.com/mklimuk/accel/publish"
	"github.com/mklimuk/accel/snsctx"
)

var triggerNames = map[string]iis2dlpc.TriggerType{
	iis2dlpc.TriggerDataReady.String(): iis2dlpc.TriggerDataReady,
	iis2dlpc.TriggerTap.String():       iis2dlpc.TriggerTap,
	iis2dlpc.TriggerDoubleTap.String(): iis2dlpc.TriggerDoubleTap,
	iis2dlpc.TriggerActivity.String():  iis2dlpc.TriggerActivity,
}

var triggerPictos = map[iis2dlpc.TriggerType]string{
	iis2dlpc.TriggerDataReady: console.PictoSample,
	iis2dlpc.TriggerTap:       console.PictoTap,
	iis2dlpc.TriggerDoubleTap: console.PictoDoubleTap,
	iis2dlpc.TriggerActivity:  console.PictoActivity,
}

var watchCmd = cli.Command{
	Name:  "watch",
	Usage: "register triggers and print (or publish) every event",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "trigger",
			Aliases: []string{"t"},
			Value:   cli.NewStringSlice(iis2dlpc.TriggerDataReady.String()),
			Usage:   "data-ready, tap, double-tap or activity",
		},
		&cli.BoolFlag{Name: "publish", Aliases: []string{"p"}, Usage: "publish events to the configured MQTT broker"},
		&cli.DurationFlag{Name: "duration", Aliases: []string{"d"}, Usage: "stop after this time"},
	},
	Action: func(c *cli.Context) error {
		var types []iis2dlpc.TriggerType
		for _, name := range c.StringSlice("trigger") {
			t, ok := triggerNames[name]
			if !ok {
				return console.Exit(1, "unknown trigger %q", name)
			}
			types = append(types, t)
		}
		ctx, s, err := open(c)
		if err != nil {
			return console.Exit(1, "could not initialize device: %s", console.Red(err))
		}
		defer s.Close()

		var pub *publish.MQTT
		if c.Bool("publish") {
			if s.cfg.MQTT.Broker == "" {
				return console.Exit(1, "no MQTT broker configured")
			}
			pub, err = publish.Connect(s.cfg.MQTT.Broker,
				publish.WithClientID(s.cfg.MQTT.ClientID),
				publish.WithTopic(s.cfg.MQTT.Topic))
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
			defer pub.Close()
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if d := c.Duration("duration"); d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}

		handler := eventHandler(ctx, s.cfg.Name, pub)
		for _, t := range types {
			trig := iis2dlpc.Trigger{Type: t, Channel: iis2dlpc.ChanAccelXYZ}
			if err = s.dev.TriggerSet(ctx, trig, handler); err != nil {
				return console.Exit(1, "could not enable %s trigger: %s", t, console.Red(err))
			}
		}
		if s.mockLine != nil {
			go simulate(ctx, s)
		}
		console.Infof("watching %v, press Ctrl+C to stop", c.StringSlice("trigger"))
		<-ctx.Done()
		for _, t := range types {
			// ctx is done, disable with a fresh one
			_ = s.dev.TriggerSet(context.Background(), iis2dlpc.Trigger{Type: t, Channel: iis2dlpc.ChanAccelXYZ}, nil)
		}
		return nil
	},
}

// eventHandler prints every serviced trigger and publishes it when pub is set. Data-ready events
// carry the fetched sample.
func eventHandler(ctx context.Context, name string, pub *publish.MQTT) iis2dlpc.TriggerHandler {
	return func(d *iis2dlpc.Device, t iis2dlpc.Trigger) {
		event := publish.Event{Device: name, Trigger: t.Type.String(), Time: time.Now()}
		if t.Type == iis2dlpc.TriggerDataReady {
			sample, err := fetch(ctx, d)
			if err != nil {
				snsctx.Logger(ctx).Error("could not fetch sample", "error", err)
				return
			}
			event.Sample = sample
			console.PInfof(triggerPictos[t.Type], "x=%+.4f y=%+.4f z=%+.4f m/s²", sample.X, sample.Y, sample.Z)
		} else {
			console.PInfof(triggerPictos[t.Type], "%s", console.Yellow(t.Type))
		}
		if pub == nil {
			return
		}
		if err := pub.PublishEvent(event); err != nil {
			snsctx.Logger(ctx).Error("could not publish event", "error", err)
		}
	}
}

func fetch(ctx context.Context, d *iis2dlpc.Device) (*publish.Sample, error) {
	if err := d.SampleFetch(ctx, iis2dlpc.ChanAll); err != nil {
		return nil, err
	}
	xyz, err := d.ChannelGet(iis2dlpc.ChanAccelXYZ)
	if err != nil {
		return nil, err
	}
	temp, err := d.ChannelGet(iis2dlpc.ChanDieTemp)
	if err != nil {
		return nil, err
	}
	return &publish.Sample{
		X:           xyz[0].Float64(),
		Y:           xyz[1].Float64(),
		Z:           xyz[2].Float64(),
		Temperature: temp[0].Float64(),
	}, nil
}

// simulate drives the mock adapter: a data-ready interrupt every 80 ms and a double tap every
// few seconds.
func simulate(ctx context.Context, s *session) {
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()
	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		src := iis2dlpc.AllSources{StatusDup: 0x01}
		if n%50 == 0 {
			src.StatusDup |= 0x10
		}
		s.mockBus.SetAcceleration(int16(n%64)<<4, -int16(n%32)<<4, 16384)
		s.mockBus.SetSources(src)
		if !s.mockLine.Fire() {
			slog.Debug("interrupt dropped while servicing", "n", n)
		}
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/accel/adapter"
	"github.com/mklimuk/accel/cmd/accel/console"
)

var indexFlag = &cli.IntFlag{Name: "index", Usage: "adapter index as listed by usb detect"}

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "USB to I2C bridge maintenance",
	Subcommands: cli.Commands{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
		&mcp2221SpeedCmd,
		&mcp2221GPIOCmd,
	},
}

func encode(v any) error {
	enc := yaml.NewEncoder(os.Stdout)
	if err := enc.Encode(v); err != nil {
		return console.Exit(1, "encoding error: %s", console.Red(err))
	}
	return nil
}

var mcp2221StatusCmd = cli.Command{
	Name:  "status",
	Flags: []cli.Flag{indexFlag},
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221(adapter.WithIndex(c.Int("index")))
		status, err := a.Status(commandContext(c))
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return encode(status)
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel a hung transfer and free the bus",
	Flags: []cli.Flag{indexFlag},
	Action: func(c *cli.Context) error {
		a := adapter.NewMCP2221(adapter.WithIndex(c.Int("index")))
		status, err := a.ReleaseBus(commandContext(c))
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return encode(status)
	},
}

var mcp2221SpeedCmd = cli.Command{
	Name:      "speed",
	ArgsUsage: "<hz>",
	Flags:     []cli.Flag{indexFlag},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		var hz int
		if _, err := fmt.Sscan(c.Args().First(), &hz); err != nil {
			return console.Exit(1, "could not parse speed: %v", err)
		}
		a := adapter.NewMCP2221(adapter.WithIndex(c.Int("index")))
		if err := a.SetSpeed(commandContext(c), hz); err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		console.Infof("i2c speed set to %d Hz", hz)
		return nil
	},
}

var mcp2221GPIOCmd = cli.Command{
	Name:  "gpio",
	Usage: "print the GP pin configuration and levels",
	Flags: []cli.Flag{
		indexFlag,
		&cli.IntFlag{Name: "input", Value: -1, Usage: "configure this GP pin as a GPIO input first"},
	},
	Action: func(c *cli.Context) error {
		ctx := commandContext(c)
		a := adapter.NewMCP2221(adapter.WithIndex(c.Int("index")))
		if pin := c.Int("input"); pin >= 0 {
			if pin > 3 {
				return console.Exit(1, "no GP%d on MCP2221", pin)
			}
			state, err := a.GPIOParameters(ctx)
			if err != nil {
				return console.Exit(1, "adapter communication error: %s", console.Red(err))
			}
			state[pin] = adapter.GPIOPin{Mode: adapter.GPIOModeIn, Designation: adapter.GPIOOperation}
			if err = a.SetGPIOParameters(ctx, state); err != nil {
				return console.Exit(1, "could not configure GP%d: %s", pin, console.Red(err))
			}
		}
		state, err := a.ReadGPIO(ctx)
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return encode(state)
	},
}

package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/accel/cmd/accel/console"
	"github.com/mklimuk/accel/gpio"
)

// gpioCmd drives an MCP23017 expander sharing the bus with the sensor, typically used to bring
// the INT pads to a board without free host GPIOs.
var gpioCmd = cli.Command{
	Name:  "gpio",
	Usage: "MCP23017 port expander",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "expander", Value: "21", Usage: "expander i2c address in hex"},
	},
	Subcommands: cli.Commands{
		&gpioReadCmd,
		&gpioStatusCmd,
		&gpioConfigureCmd,
	},
}

func openExpander(c *cli.Context) (*gpio.MCP23017, func() error, error) {
	addr, err := hex.DecodeString(c.String("expander"))
	if err != nil || len(addr) != 1 {
		return nil, nil, fmt.Errorf("could not decode address %q", c.String("expander"))
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	m, err := i2cMaster(cfg)
	if err != nil {
		return nil, nil, err
	}
	return gpio.NewMCP23017(m.bus, addr[0]), m.close, nil
}

func parsePort(s string) (gpio.Port, error) {
	switch strings.ToUpper(s) {
	case "A":
		return gpio.PortA, nil
	case "B":
		return gpio.PortB, nil
	}
	return 0, fmt.Errorf("unknown port %q", s)
}

var gpioReadCmd = cli.Command{
	Name: "read",
	Action: func(c *cli.Context) error {
		exp, closer, err := openExpander(c)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		defer closer()
		ports, err := exp.Read(commandContext(c))
		if err != nil {
			return console.Exit(1, "could not read ports: %s", console.Red(err))
		}
		console.Printf("I/O A: %#08b\nI/O B: %#08b\n", ports[0], ports[1])
		return nil
	},
}

var gpioStatusCmd = cli.Command{
	Name: "status",
	Action: func(c *cli.Context) error {
		exp, closer, err := openExpander(c)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		defer closer()
		data, err := exp.Settings(commandContext(c))
		if err != nil {
			return console.Exit(1, "could not read settings: %s", console.Red(err))
		}
		console.Printf("IOCON content: %#X\n", data)
		return nil
	},
}

var gpioConfigureCmd = cli.Command{
	Name:      "configure",
	ArgsUsage: "<port>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "inputs", Value: "ff", Usage: "direction mask in hex, 1 is input"},
		&cli.StringFlag{Name: "pull-ups", Value: "00", Usage: "pull-up mask in hex"},
		&cli.StringFlag{Name: "inverted", Value: "00", Usage: "polarity mask in hex"},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		port, err := parsePort(c.Args().First())
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		var masks [3]byte
		for i, name := range []string{"inputs", "pull-ups", "inverted"} {
			b, err := hex.DecodeString(c.String(name))
			if err != nil || len(b) != 1 {
				return console.Exit(1, "could not decode %s mask %q", name, c.String(name))
			}
			masks[i] = b[0]
		}
		exp, closer, err := openExpander(c)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		defer closer()
		cfg := gpio.PortConfig{Inputs: masks[0], PullUps: masks[1], Inverted: masks[2]}
		if err = exp.Configure(commandContext(c), port, cfg); err != nil {
			return console.Exit(1, "could not configure port %s: %s", port, console.Red(err))
		}
		console.Infof("port %s configured", port)
		return nil
	},
}

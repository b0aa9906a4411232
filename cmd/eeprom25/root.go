package main

import (
	"context"
	"flag"

	"github.com/peterbourgon/ff/v3/ffcli"
)

type rootConfig struct {
	verbose   bool
	transport string
	mhz       int
	csPin     int
}

func (c *rootConfig) registerFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "log every bus transaction")
	fs.StringVar(&c.transport, "t", "ftdi", "usb bridge, ftdi or mcp2210")
	fs.IntVar(&c.mhz, "mhz", 1, "spi clock in MHz, up to 10 per datasheet")
	fs.IntVar(&c.csPin, "cs", defaultCSPin, "bridge pin wired to chip select")
}

func (c *rootConfig) Exec(context.Context, []string) error {
	return flag.ErrHelp
}

func newRootCmd() (*ffcli.Command, *rootConfig) {
	var cfg rootConfig

	fs := flag.NewFlagSet("eeprom25", flag.ExitOnError)
	cfg.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "eeprom25",
		ShortUsage: "eeprom25 [flags] <subcommand>",
		ShortHelp:  "Utilities to read and write the 25AA02E48 EEPROM.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}), &cfg
}

var eepromLongHelp = `

WIRING
With the adafruit FT232H breakout, connect SCK to D0, MOSI to D1, MISO to
D2 and CS to D4 (change -cs when wired differently). With the MCP2210,
connect CS to GP4 and use -t mcp2210.`

package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/peterbourgon/ff/v3/ffcli"
)

type macConfig struct {
	rootConfig *rootConfig
	out        io.Writer
}

func (c *macConfig) Exec(ctx context.Context, _ []string) error {
	d, closer, err := newEEPROM(c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	eui, err := d.ReadEUI48()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.out, formatMAC(eui))
	return err
}

func newMacCmd(rootConfig *rootConfig, out io.Writer) *ffcli.Command {
	cfg := macConfig{
		rootConfig: rootConfig,
		out:        out,
	}

	fs := flag.NewFlagSet("eeprom25 mac", flag.ExitOnError)
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "mac",
		ShortUsage: "mac",
		ShortHelp:  "Prints the factory programmed EUI-48 node address.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	})
}

/*
eeprom25 is a tool to communicate with the 25AA02E48 SPI EEPROM.

It talks to the chip through an FT232H or MCP2210 USB bridge and can print
the factory programmed EUI-48, dump the array and read or write ranges.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/peterbourgon/ff/v3/ffcli"
)

func main() {
	var (
		out = os.Stdout
		err = os.Stderr
	)

	rootCmd, cfg := newRootCmd()
	rootCmd.Subcommands = []*ffcli.Command{
		newMacCmd(cfg, out),
		newDumpCmd(cfg, out),
		newReadCmd(cfg, out),
		newWriteCmd(cfg, out, err),
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		var num = 0
		for range c {
			num += 1
			if num >= 3 {
				os.Exit(1)
			} else {
				cancel()
			}
		}
	}()

	if err := rootCmd.ParseAndRun(ctx, os.Args[1:]); err != nil {
		if !errors.Is(err, context.Canceled) {
			libPrefix := "eeprom25: "
			msg := strings.TrimPrefix(err.Error(), libPrefix)
			fmt.Fprintf(os.Stderr, "%s: %s\n", rootCmd.Name, msg)
			os.Exit(1)
		} else if cfg.verbose {
			fmt.Fprintf(os.Stderr, "%s: cancelled\n", rootCmd.Name)
		}
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/northvolt/go-eeprom25"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type readConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	addr       string
	n          int
	outFile    string
}

func (c *readConfig) Exec(ctx context.Context, _ []string) error {
	addr, err := parseAddr(c.addr)
	if err != nil {
		return err
	}
	if c.n < 0 || c.n > eeprom25.Size {
		return errors.New("eeprom25: length must be 0..256")
	}

	d, closer, err := newEEPROM(c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	buf := make([]byte, c.n)
	if err := d.Read(addr, buf); err != nil {
		return err
	}

	if c.outFile != "" {
		return os.WriteFile(c.outFile, buf, 0o644)
	}
	_, err = fmt.Fprintln(c.out, prettyHex(buf))
	return err
}

func newReadCmd(rootConfig *rootConfig, out io.Writer) *ffcli.Command {
	cfg := readConfig{
		rootConfig: rootConfig,
		out:        out,
	}

	fs := flag.NewFlagSet("eeprom25 read", flag.ExitOnError)
	fs.StringVar(&cfg.addr, "addr", "0", "start address in hex")
	fs.IntVar(&cfg.n, "n", eeprom25.PageSize, "number of bytes to read")
	fs.StringVar(&cfg.outFile, "o", "", "output file (default: hex to stdout)")
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "read",
		ShortUsage: "read [-addr 0x10] [-n 16]",
		ShortHelp:  "Reads a byte range. Reads past 0xFF wrap to 0x00.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	})
}

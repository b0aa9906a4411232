package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/northvolt/go-eeprom25"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type dumpConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	outFile    string
}

func (c *dumpConfig) Exec(ctx context.Context, _ []string) error {
	d, closer, err := newEEPROM(c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	buf := make([]byte, eeprom25.Size)
	if err := d.Read(0x00, buf); err != nil {
		return err
	}

	if c.outFile != "" {
		return os.WriteFile(c.outFile, buf, 0o644)
	}
	_, err = fmt.Fprint(c.out, hex.Dump(buf))
	return err
}

func newDumpCmd(rootConfig *rootConfig, out io.Writer) *ffcli.Command {
	cfg := dumpConfig{
		rootConfig: rootConfig,
		out:        out,
	}

	fs := flag.NewFlagSet("eeprom25 dump", flag.ExitOnError)
	fs.StringVar(&cfg.outFile, "o", "", "output file (default: hexdump to stdout)")
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "dump",
		ShortUsage: "dump [-o file]",
		ShortHelp:  "Dumps the entire memory array.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	})
}

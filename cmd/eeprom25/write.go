package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/northvolt/go-eeprom25"
	"github.com/peterbourgon/ff/v3/ffcli"
)

// tWC is the internal write cycle time, 5 ms per datasheet. The chip
// ignores instructions while a write cycle is in progress, so the tool
// waits it out between pages instead of polling the status register.
const tWC = 5 * time.Millisecond

type writeConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
	addr       string
	inFile     string
}

func (c *writeConfig) Exec(ctx context.Context, args []string) error {
	addr, err := parseAddr(c.addr)
	if err != nil {
		return err
	}

	data, err := c.payload(args)
	if err != nil {
		return err
	}
	if c.rootConfig.verbose {
		fmt.Fprintf(c.err, "write %d bytes at 0x%02X\n", len(data), addr)
	}
	if int(addr)+len(data) > eeprom25.Size {
		return errors.New("eeprom25: write runs past the end of memory")
	}

	d, closer, err := newEEPROM(c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := writePages(ctx, d, addr, data); err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.out, "wrote %d bytes at 0x%02X\n", len(data), addr)
	return err
}

// payload returns the bytes to write, from -f or from a hex argument.
func (c *writeConfig) payload(args []string) ([]byte, error) {
	if c.inFile != "" {
		return os.ReadFile(c.inFile)
	}
	if len(args) != 1 {
		return nil, errors.New("eeprom25: pass hex data as the single argument or use -f")
	}
	data, err := hex.DecodeString(strings.ReplaceAll(args[0], " ", ""))
	if err != nil {
		return nil, fmt.Errorf("eeprom25: invalid hex data: %w", err)
	}
	return data, nil
}

// writePages writes data one page at a time, waiting out the write cycle
// after each page.
func writePages(ctx context.Context, d *eeprom25.Dev, addr byte, data []byte) error {
	for len(data) > 0 {
		page := data
		if len(page) > eeprom25.PageSize {
			page = page[:eeprom25.PageSize]
		}
		if err := d.WritePage(addr, page); err != nil {
			return err
		}

		data = data[len(page):]
		addr += byte(len(page))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(tWC):
		}
	}
	return nil
}

func newWriteCmd(rootConfig *rootConfig, out io.Writer, errw io.Writer) *ffcli.Command {
	cfg := writeConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        errw,
	}

	fs := flag.NewFlagSet("eeprom25 write", flag.ExitOnError)
	fs.StringVar(&cfg.addr, "addr", "0", "page aligned start address in hex")
	fs.StringVar(&cfg.inFile, "f", "", "input file (default: hex argument)")
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "write",
		ShortUsage: "write [-addr 0x10] <hex data>",
		ShortHelp:  "Writes data starting at a page aligned address.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	})
}

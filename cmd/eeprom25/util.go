package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/northvolt/go-eeprom25"
	"github.com/northvolt/go-eeprom25/mcp2210"
	"github.com/peterbourgon/ff/v3/ffcli"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/ftdi"
)

// defaultCSPin is D4 on the FT232H and GP4 on the MCP2210. D0..D2 carry
// SCK/MOSI/MISO on the FT232H, so the chip select must live elsewhere.
const defaultCSPin = 4

func newEEPROM(c *rootConfig) (*eeprom25.Dev, io.Closer, error) {
	switch c.transport {
	case "ftdi":
		return newEEPROM_FT232H(c)
	case "mcp2210":
		return newEEPROM_MCP2210(c)
	default:
		return nil, nil, errors.New("eeprom25: unknown transport")
	}
}

func newEEPROM_FT232H(c *rootConfig) (*eeprom25.Dev, io.Closer, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}

	ft, err := findFT232H()
	if err != nil {
		return nil, nil, err
	}

	// D0..D2 carry the bus and D3 belongs to the MPSSE engine.
	pins := []gpio.PinIO{ft.D0, ft.D1, ft.D2, ft.D3, ft.D4, ft.D5, ft.D6, ft.D7}
	if c.csPin < 4 || c.csPin >= len(pins) {
		return nil, nil, errors.New("eeprom25: chip select must be D4..D7")
	}
	cs := pins[c.csPin]
	// The device must see its select line high before the driver takes over.
	if err := cs.Out(gpio.High); err != nil {
		return nil, nil, err
	}

	port, err := ft.SPI()
	if err != nil {
		return nil, nil, fmt.Errorf("eeprom25: failed to get SPI port: %w", err)
	}
	conn, err := port.Connect(physic.Frequency(c.mhz)*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, nil, err
	}

	l := newLogger(c.verbose)
	return eeprom25.New(eeprom25.Trace(conn, l), eeprom25.TracePin(cs, l)), port, nil
}

func newEEPROM_MCP2210(c *rootConfig) (*eeprom25.Dev, io.Closer, error) {
	d, err := mcp2210.Open()
	if err != nil {
		return nil, nil, err
	}

	cs, err := d.Pin(c.csPin)
	if err != nil {
		_ = d.Close()
		return nil, nil, err
	}
	if err := cs.Out(gpio.High); err != nil {
		_ = d.Close()
		return nil, nil, err
	}

	conn, err := d.Connect(physic.Frequency(c.mhz)*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		_ = d.Close()
		return nil, nil, err
	}

	l := newLogger(c.verbose)
	return eeprom25.New(eeprom25.Trace(conn, l), eeprom25.TracePin(cs, l)), d, nil
}

func findFT232H() (*ftdi.FT232H, error) {
	for _, dev := range ftdi.All() {
		if ft, ok := dev.(*ftdi.FT232H); ok {
			return ft, nil
		}
	}
	return nil, errors.New("eeprom25: no FT232H found")
}

// parseAddr parses a memory address given as hex, with or without 0x.
func parseAddr(s string) (byte, error) {
	addr, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 8)
	if err != nil {
		return 0, fmt.Errorf("eeprom25: invalid address %q", s)
	}
	return byte(addr), nil
}

// formatMAC renders an EUI-48 in the common colon separated form.
func formatMAC(eui []byte) string {
	parts := make([]string, len(eui))
	for i, b := range eui {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, ":")
}

func prettyHex(data []byte) string {
	return prettyHexIndent(data, "    ", "")
}

func prettyHexIndent(data []byte, prefix string, space string) string {
	var buf strings.Builder

	// prefix and space every 16 byte, and 2 hex, and one space/newline
	cols := 16
	size := (len(data)/cols+1)*(len(prefix)+len(space)+1) + len(data)*3
	buf.Grow(size)

	for i := range data {
		if i > 0 {
			switch i % cols {
			case 0:
				buf.WriteByte('\n')
			case cols / 2:
				buf.WriteByte(' ')
				buf.WriteString(space)
			default:
				buf.WriteByte(' ')
			}
		}
		if i%cols == 0 {
			buf.WriteString(prefix)
		}

		buf.WriteString(fmt.Sprintf("%02X", data[i:i+1]))
	}

	return buf.String()
}

func addLongHelp(cmd *ffcli.Command) *ffcli.Command {
	if cmd.LongHelp == "" {
		cmd.LongHelp = cmd.ShortHelp
	}

	cmd.LongHelp += eepromLongHelp

	return cmd
}

func newLogger(verbose bool) eeprom25.Logger {
	if verbose {
		return log.New(os.Stderr, "", 0)
	}
	return nil
}

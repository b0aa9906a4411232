// Package mcp2210 drives the Microchip MCP2210 USB-to-SPI bridge over HID.
//
// The bridge shows up as a generic HID device and is commanded with 64 byte
// reports. The package exposes the SPI engine as a periph.io spi.PortCloser
// and the GP pins as gpio.PinOut, which is exactly the surface the eeprom25
// driver consumes.
//
// The SPI chip select is deliberately not left to the bridge: all GP pins
// are configured as plain GPIO so a driver can frame multi-transfer
// transactions under one chip select assertion itself.
//
// Datasheet: MCP2210 USB-to-SPI Protocol Converter with GPIO, DS22288.
package mcp2210

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/karalabe/usb"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Default USB identity of the MCP2210.
const (
	VendorID  = 0x04d8
	ProductID = 0x00de
)

// numPins is the number of GP pins on the bridge.
const numPins = 9

// reportSize is the fixed HID report size in bytes.
const reportSize = 64

// Commands. See datasheet chapter 3.
const (
	cmdGetChipStatus  = 0x10
	cmdCancelTransfer = 0x11
	cmdSetChipConfig  = 0x21
	cmdSetGPIOValue   = 0x30
	cmdGetGPIOValue   = 0x31
	cmdSetSPIConfig   = 0x40
	cmdTransferSPI    = 0x42
)

// Command status codes, second byte of every response.
const (
	statusOK             = 0x00
	statusBusUnavailable = 0xf7
	statusBusy           = 0xf8
)

// SPI engine status, fourth byte of a transfer response.
const (
	engineDone     = 0x10
	engineStarted  = 0x20
	engineShifting = 0x30
)

// transferChunk is the number of data bytes that fit one transfer report.
const transferChunk = reportSize - 4

// ErrUSBNotSupported is returned when the USB support is missing.
//
// When building, CGO is required for USB support. If CGO is not enabled,
// the bridge will not be available.
var ErrUSBNotSupported = errors.New("mcp2210: usb support is missing")

var errBusUnavailable = errors.New("mcp2210: spi bus owned by an external master")

// Dev is an open MCP2210 bridge.
type Dev struct {
	dev usb.Device
	buf [reportSize]byte

	// gpioShadow holds the last value written to the GP pins. The set value
	// command rewrites all pins at once, so single pin writes need the rest.
	gpioShadow uint16
}

// Open enumerates HID devices and opens the first MCP2210 found.
func Open() (*Dev, error) {
	return OpenVIDPID(VendorID, ProductID)
}

// OpenVIDPID opens the first bridge matching the given USB identity.
func OpenVIDPID(vid, pid uint16) (*Dev, error) {
	if !usb.Supported() {
		return nil, ErrUSBNotSupported
	}

	deviceInfos, err := usb.EnumerateHid(vid, pid)
	if err != nil {
		return nil, fmt.Errorf("mcp2210: failed to get hid devices: %w", err)
	}
	for _, di := range deviceInfos {
		hid, e := di.Open()
		if e != nil {
			err = e
			continue
		}

		d := &Dev{dev: hid, gpioShadow: 0x01ff}
		if err := d.configureGPIO(); err != nil {
			_ = hid.Close()
			return nil, err
		}
		return d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mcp2210: %w", err)
	}
	return nil, errors.New("mcp2210: no hid devices found")
}

// Close releases the underlying HID device.
func (d *Dev) Close() error {
	return d.dev.Close()
}

func (d *Dev) String() string {
	return "mcp2210"
}

// LimitSpeed implements spi.PortCloser. The bit rate is fixed at Connect
// time on this bridge.
func (d *Dev) LimitSpeed(f physic.Frequency) error {
	return errors.New("mcp2210: speed is set at Connect time")
}

// Connect configures the SPI engine and returns a connection.
//
// Only 8 bit words are supported. The returned connection stays valid until
// the device is closed.
func (d *Dev) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if bits != 8 {
		return nil, errors.New("mcp2210: only 8 bit words are supported")
	}
	// NoCS is implied, the engine never drives a select line here.
	if mode&^(spi.Mode3|spi.NoCS) != 0 {
		return nil, errors.New("mcp2210: unsupported mode flags")
	}

	c := &spiConn{d: d, hz: uint32(f / physic.Hertz), mode: uint8(mode & spi.Mode3)}
	// Program the settings once with a zero transfer size; Tx rewrites the
	// size per transaction.
	if err := c.configure(0); err != nil {
		return nil, err
	}
	return c, nil
}

// Pin returns one of the GP0..GP8 pins as an output.
//
// The pin is a plain GPIO output, suitable as a manually framed chip
// select. All pins power up high.
func (d *Dev) Pin(n int) (gpio.PinOut, error) {
	if n < 0 || n >= numPins {
		return nil, errors.New("mcp2210: no such pin")
	}
	return &gpPin{d: d, n: n}, nil
}

// configureGPIO designates every GP pin as a GPIO output driving high.
//
// Datasheet 3.1.5, Set Chip Settings: bytes 4..12 are the GP designations
// (0 GPIO, 1 chip select, 2 dedicated), bytes 13-14 the default output and
// bytes 15-16 the default direction (0 output).
func (d *Dev) configureGPIO() error {
	var req [reportSize]byte
	req[0] = cmdSetChipConfig
	binary.LittleEndian.PutUint16(req[13:], d.gpioShadow)
	_, err := d.command(req[:])
	return err
}

func (d *Dev) setGPIO(n int, l gpio.Level) error {
	shadow := d.gpioShadow
	if l {
		shadow |= 1 << uint(n)
	} else {
		shadow &^= 1 << uint(n)
	}

	var req [reportSize]byte
	req[0] = cmdSetGPIOValue
	binary.LittleEndian.PutUint16(req[4:], shadow)
	if _, err := d.command(req[:]); err != nil {
		return err
	}
	d.gpioShadow = shadow
	return nil
}

// command sends one 64 byte report and reads back the matching response.
func (d *Dev) command(req []byte) ([]byte, error) {
	if _, err := d.dev.Write(req); err != nil {
		return nil, fmt.Errorf("mcp2210: send: %w", err)
	}
	n, err := d.dev.Read(d.buf[:])
	if err != nil {
		return nil, fmt.Errorf("mcp2210: recv: %w", err)
	}
	rsp := d.buf[:n]
	if len(rsp) < 2 {
		return nil, errors.New("mcp2210: short response")
	}
	if rsp[0] != req[0] {
		return nil, fmt.Errorf("mcp2210: response for command %#02x, want %#02x", rsp[0], req[0])
	}
	return rsp, nil
}

type spiConn struct {
	d    *Dev
	hz   uint32
	mode uint8
	size uint16 // transfer size currently programmed into the engine
}

func (c *spiConn) String() string {
	return "mcp2210"
}

func (c *spiConn) Duplex() conn.Duplex {
	return conn.Full
}

// configure programs the SPI transfer settings.
//
// Datasheet 3.1.2, Set SPI Transfer Settings: bytes 4-7 bit rate, 8-9 idle
// chip select value, 10-11 active chip select value, 12-17 delays in 100 µs
// quanta, 18-19 bytes per transaction, byte 20 SPI mode. The chip select
// masks stay zero so the engine never drives a select line.
func (c *spiConn) configure(size uint16) error {
	req := encodeSPIConfig(c.hz, c.mode, size)
	if _, err := c.d.command(req); err != nil {
		return err
	}
	c.size = size
	return nil
}

// Tx shifts len(w) bytes out while shifting the response into r.
//
// r may be nil for write-only transfers, otherwise it must be as long as w.
func (c *spiConn) Tx(w, r []byte) error {
	if r != nil && len(w) != len(r) {
		return errors.New("mcp2210: write and read buffer must be the same size")
	}
	if len(w) == 0 {
		return nil
	}
	if len(w) > int(^uint16(0)) {
		return errors.New("mcp2210: transfer too large")
	}

	if c.size != uint16(len(w)) {
		if err := c.configure(uint16(len(w))); err != nil {
			return err
		}
	}

	recv := make([]byte, 0, len(w))
	sent := 0
	for {
		chunk := w[sent:]
		if len(chunk) > transferChunk {
			chunk = chunk[:transferChunk]
		}

		rsp, err := c.d.command(encodeTransfer(chunk))
		if err != nil {
			return err
		}
		data, engine, err := parseTransfer(rsp)
		if err != nil {
			if errors.Is(err, errEngineBusy) {
				// The engine is still shifting the previous chunk, poll it
				// with an empty transfer.
				time.Sleep(100 * time.Microsecond)
				continue
			}
			return err
		}
		sent += len(chunk)
		recv = append(recv, data...)

		if engine == engineDone && sent >= len(w) {
			break
		}
	}
	if r != nil {
		copy(r, recv)
	}
	return nil
}

func (c *spiConn) TxPackets(p []spi.Packet) error {
	return errors.New("mcp2210: TxPackets is not supported, frame the chip select with a GP pin")
}

var errEngineBusy = errors.New("mcp2210: transfer in progress")

// encodeSPIConfig builds a Set SPI Transfer Settings report.
func encodeSPIConfig(hz uint32, mode uint8, size uint16) []byte {
	req := make([]byte, reportSize)
	req[0] = cmdSetSPIConfig
	binary.LittleEndian.PutUint32(req[4:], hz)
	// Idle and active chip select values both zero: no engine driven CS.
	binary.LittleEndian.PutUint16(req[18:], size)
	req[20] = mode
	return req
}

// encodeTransfer builds a Transfer SPI Data report for one chunk.
func encodeTransfer(chunk []byte) []byte {
	req := make([]byte, reportSize)
	req[0] = cmdTransferSPI
	req[1] = byte(len(chunk))
	copy(req[4:], chunk)
	return req
}

// parseTransfer decodes a Transfer SPI Data response into the received
// bytes and the engine status.
func parseTransfer(rsp []byte) ([]byte, byte, error) {
	if len(rsp) < 4 {
		return nil, 0, errors.New("mcp2210: short transfer response")
	}
	switch rsp[1] {
	case statusOK:
	case statusBusUnavailable:
		return nil, 0, errBusUnavailable
	case statusBusy:
		return nil, 0, errEngineBusy
	default:
		return nil, 0, fmt.Errorf("mcp2210: transfer failed with status %#02x", rsp[1])
	}

	n := int(rsp[2])
	if 4+n > len(rsp) {
		return nil, 0, errors.New("mcp2210: transfer response size out of range")
	}
	return rsp[4 : 4+n], rsp[3], nil
}

type gpPin struct {
	d *Dev
	n int
}

func (p *gpPin) String() string {
	return p.Name()
}

func (p *gpPin) Halt() error {
	return nil
}

func (p *gpPin) Name() string {
	return fmt.Sprintf("GP%d", p.n)
}

func (p *gpPin) Number() int {
	return p.n
}

func (p *gpPin) Function() string {
	return "Out"
}

func (p *gpPin) Out(l gpio.Level) error {
	return p.d.setGPIO(p.n, l)
}

func (p *gpPin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("mcp2210: pwm is not supported")
}

var _ spi.PortCloser = &Dev{}
var _ gpio.PinOut = &gpPin{}

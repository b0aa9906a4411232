package eeprom25

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
)

// Dev is a driver for the 25AA02E48.
//
// It owns the SPI connection and the chip select pin for as long as it is
// alive; no other code may touch them until Free is called. All operations
// are blocking and run to completion before returning. The driver does no
// locking, callers with more than one goroutine must serialize access
// themselves.
type Dev struct {
	conn spi.Conn
	cs   gpio.PinOut
}

// New returns a driver using conn for the bus and cs as the chip select.
//
// The chip select pin must be high (deasserted) before it is handed over.
// New does no I/O.
func New(conn spi.Conn, cs gpio.PinOut) *Dev {
	return &Dev{conn: conn, cs: cs}
}

// Free returns the SPI connection and the chip select pin to the caller.
//
// Free does no I/O. The Dev must not be used afterwards.
func (d *Dev) Free() (spi.Conn, gpio.PinOut) {
	return d.conn, d.cs
}

// Read fills buf with data starting at address.
//
// The length of buf determines the number of bytes read. A zero length buf
// is a no-op. Buffers longer than the memory array return ErrReadTooLong.
//
// The device increments its internal address counter past 0xFF back to
// 0x00, so a read crossing the end of memory continues from address zero.
// The driver passes this through unchanged.
func (d *Dev) Read(address byte, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if len(buf) > Size {
		return ErrReadTooLong
	}
	cmd := [2]byte{OpRead, address}
	return d.txn(func(c spi.Conn) error {
		if err := c.Tx(cmd[:], nil); err != nil {
			return &SPIError{err}
		}
		// Clock out dummy bytes while the device shifts data back in place.
		if err := c.Tx(buf, buf); err != nil {
			return &SPIError{err}
		}
		return nil
	})
}

// WritePage writes up to one page of data starting at address.
//
// The address must be page aligned and data must fit in a single page;
// violations return ErrAddressNotPageAligned or ErrPageOverflow before any
// bus traffic. Writing nothing is a no-op.
//
// The page holding the EUI-48 is permanently write protected by the device
// itself; writes there complete without effect.
func (d *Dev) WritePage(address byte, data []byte) error {
	if address%PageSize != 0 {
		return ErrAddressNotPageAligned
	}
	if len(data) > PageSize {
		return ErrPageOverflow
	}
	if len(data) == 0 {
		return nil
	}
	return d.write(address, data)
}

// WriteByte writes a single byte at any address.
//
// Kept for compatibility with the first generation of this driver; it runs
// through the same latch protected path as WritePage. A single byte never
// crosses a page boundary, so any address is valid.
func (d *Dev) WriteByte(address byte, value byte) error {
	return d.write(address, []byte{value})
}

// ReadEUI48 returns the factory programmed EUI-48 node address.
func (d *Dev) ReadEUI48() ([]byte, error) {
	eui := make([]byte, EUI48Size)
	if err := d.Read(EUI48Addr, eui); err != nil {
		return nil, err
	}
	return eui, nil
}

func (d *Dev) write(address byte, data []byte) error {
	cmd := [2]byte{OpWrite, address}
	return d.writeLatch(func(c spi.Conn) error {
		if err := c.Tx(cmd[:], nil); err != nil {
			return &SPIError{err}
		}
		if err := c.Tx(data, nil); err != nil {
			return &SPIError{err}
		}
		return nil
	})
}

// txn brackets f with the chip select: asserted before the first byte and
// released after the last, including when f fails partway. A release
// failure is only surfaced when f itself succeeded.
func (d *Dev) txn(f func(c spi.Conn) error) (err error) {
	if csErr := d.cs.Out(gpio.Low); csErr != nil {
		return &CSError{csErr}
	}
	defer func() {
		if csErr := d.cs.Out(gpio.High); csErr != nil && err == nil {
			err = &CSError{csErr}
		}
	}()
	err = f(d.conn)
	return
}

// writeLatch brackets f with the write enable latch. WREN is sent in its
// own chip select frame, then f runs in a second frame. The latch clears
// itself on a successful write; on failure a corrective WRDI is sent so the
// device never stays write enabled after an error. If the WRDI fails too,
// its error supersedes the original one since the device is then in an
// unknown state.
func (d *Dev) writeLatch(f func(c spi.Conn) error) error {
	err := d.opcode(OpWREN)
	if err != nil {
		return err
	}
	if err = d.txn(f); err != nil {
		if wrdiErr := d.opcode(OpWRDI); wrdiErr != nil {
			return wrdiErr
		}
	}
	return err
}

// opcode sends a single instruction byte in its own chip select frame.
func (d *Dev) opcode(op byte) error {
	cmd := [1]byte{op}
	return d.txn(func(c spi.Conn) error {
		if err := c.Tx(cmd[:], nil); err != nil {
			return &SPIError{err}
		}
		return nil
	})
}

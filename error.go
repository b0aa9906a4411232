package eeprom25

import (
	"errors"
)

// Contract errors. These are returned before any bus traffic when a caller
// asks for something the device cannot do.
var (
	// ErrReadTooLong is returned when a read buffer is larger than the
	// memory array itself.
	ErrReadTooLong = errors.New("eeprom25: read length exceeds memory size")

	// ErrPageOverflow is returned when a write payload is larger than one
	// page.
	ErrPageOverflow = errors.New("eeprom25: write length exceeds page size")

	// ErrAddressNotPageAligned is returned when a page write targets an
	// address that is not a multiple of PageSize.
	ErrAddressNotPageAligned = errors.New("eeprom25: write address not page aligned")
)

// SPIError wraps an error returned by the SPI connection.
type SPIError struct {
	Err error
}

func (e *SPIError) Error() string {
	return "eeprom25: spi: " + e.Err.Error()
}

func (e *SPIError) Unwrap() error {
	return e.Err
}

// CSError wraps an error returned by the chip select pin.
type CSError struct {
	Err error
}

func (e *CSError) Error() string {
	return "eeprom25: chip select: " + e.Err.Error()
}

func (e *CSError) Unwrap() error {
	return e.Err
}

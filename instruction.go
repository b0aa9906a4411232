package eeprom25

// Instruction set. See datasheet Table 2-1.
const (
	// OpRead reads data from memory beginning at the selected address.
	OpRead byte = 0x03
	// OpWrite writes data to memory beginning at the selected address.
	OpWrite byte = 0x02
	// OpWRDI resets the write enable latch, disabling writes.
	OpWRDI byte = 0x04
	// OpWREN sets the write enable latch, enabling writes.
	OpWREN byte = 0x06
	// OpRDSR reads the STATUS register.
	OpRDSR byte = 0x05
	// OpWRSR writes the STATUS register.
	OpWRSR byte = 0x01
)

// Memory geometry.
const (
	// Size is the total number of bytes in the memory array.
	Size = 256
	// PageSize is the number of bytes in one write page.
	PageSize = 16
	// EUI48Addr is the memory address of the factory programmed EUI-48.
	EUI48Addr byte = 0xFA
	// EUI48Size is the number of bytes in an EUI-48 node address.
	EUI48Size = 6
)

// Package eeprom25 is a driver for the Microchip 25AA02E48 SPI EEPROM in Go.
//
// The 25AA02E48 is a 2 Kbit (256 byte) serial EEPROM organized as 16 pages
// of 16 bytes. What makes this part interesting is the factory programmed
// EUI-48 node address in the last six bytes of the array, which gives
// network facing devices a globally unique MAC address without a
// provisioning step.
//
// The driver speaks to the device through a periph.io SPI connection and a
// chip select pin that it toggles itself, so it works with any host that
// exposes those, including USB bridges such as the FT232H (see the examples
// directory) and the MCP2210 (see the mcp2210 package).
//
// # Datasheets
//
// 25AA02E48/25AA02E64 2K SPI Bus Serial EEPROM with EUI-48 or EUI-64 Node
// Identity, DS20002123.
// https://ww1.microchip.com/downloads/en/DeviceDoc/25AA02E48-25AA02E64-2K-SPI-Bus-Serial-EEPROM-Data%20Sheet_DS20002123G.pdf
package eeprom25

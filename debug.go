package eeprom25

import (
	"encoding/hex"
	"strings"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Logger is the interface used for debug messages.
//
// Some messages will be multiple lines.
type Logger interface {
	Printf(format string, args ...interface{})
}

type nullLoggerImpl struct{}

func (nullLoggerImpl) Printf(format string, args ...interface{}) {}

// nullLogger is a logger that does nothing.
var nullLogger = nullLoggerImpl{}

// hexDump lazily formats binary data, matching `hexdump -C`.
//
// hexDump implements fmt.Stringer interface, allowing it to lazily dump binary
// data as hex when needed. The format of the dump matches the output of
// `hexdump -C` on the command line.
type hexDump []byte

func (h hexDump) String() string {
	var buf strings.Builder
	buf.WriteByte('\n')
	d := hex.Dumper(&buf)
	_, _ = d.Write([]byte(h))
	_ = d.Close()
	buf.WriteByte('\n')
	return buf.String()
}

// Trace returns a connection that logs every bus transaction to l.
//
// Wrap the connection before passing it to New to see the traffic of a
// device.
func Trace(c spi.Conn, l Logger) spi.Conn {
	if l == nil {
		l = nullLogger
	}
	return &spiTrace{l, c}
}

// TracePin returns a pin that logs every level change to l.
func TracePin(p gpio.PinOut, l Logger) gpio.PinOut {
	if l == nil {
		l = nullLogger
	}
	return &pinTrace{l, p}
}

type spiTrace struct {
	l    Logger
	next spi.Conn
}

func (t *spiTrace) String() string {
	return t.next.String()
}

func (t *spiTrace) Duplex() conn.Duplex {
	return t.next.Duplex()
}

func (t *spiTrace) Tx(w, r []byte) error {
	t.l.Printf("  spi >>  tx %d/%d", len(w), len(r))
	if len(w) > 0 {
		t.l.Printf("%s", hexDump(w))
	}
	err := t.next.Tx(w, r)
	t.l.Printf("  spi <<  tx %+v", err)
	if err == nil && len(r) > 0 {
		t.l.Printf("%s", hexDump(r))
	}
	return err
}

func (t *spiTrace) TxPackets(p []spi.Packet) error {
	t.l.Printf("  spi >>  txpackets %d", len(p))
	err := t.next.TxPackets(p)
	t.l.Printf("  spi <<  txpackets %+v", err)
	return err
}

type pinTrace struct {
	l    Logger
	next gpio.PinOut
}

func (t *pinTrace) String() string {
	return t.next.String()
}

func (t *pinTrace) Halt() error {
	return t.next.Halt()
}

func (t *pinTrace) Name() string {
	return t.next.Name()
}

func (t *pinTrace) Number() int {
	return t.next.Number()
}

func (t *pinTrace) Function() string {
	return t.next.Function()
}

func (t *pinTrace) Out(l gpio.Level) error {
	err := t.next.Out(l)
	t.l.Printf("   cs >>  %s %+v", l, err)
	return err
}

func (t *pinTrace) PWM(duty gpio.Duty, f physic.Frequency) error {
	return t.next.PWM(duty, f)
}

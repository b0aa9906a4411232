package eeprom25

import (
	"bytes"
	"errors"
	"testing"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// busOp is one expected SPI transaction.
type busOp struct {
	w   []byte // bytes the driver must clock out
	r   []byte // bytes clocked back into the read buffer, may be nil
	err error  // returned to the driver after the expectation check
}

// spiScript replays a fixed list of expected transactions and fails the
// test on any deviation.
type spiScript struct {
	t   *testing.T
	ops []busOp
	i   int
}

func (m *spiScript) String() string {
	return "spiscript"
}

func (m *spiScript) Duplex() conn.Duplex {
	return conn.Half
}

func (m *spiScript) Tx(w, r []byte) error {
	m.t.Helper()
	if m.i >= len(m.ops) {
		m.t.Fatalf("unexpected transaction % X", w)
	}
	op := m.ops[m.i]
	m.i++
	if !bytes.Equal(w, op.w) {
		m.t.Errorf("transaction %d: sent % X, want % X", m.i, w, op.w)
	}
	if op.r != nil {
		copy(r, op.r)
	}
	return op.err
}

func (m *spiScript) TxPackets(p []spi.Packet) error {
	m.t.Fatal("driver must not use TxPackets")
	return nil
}

func (m *spiScript) done() {
	m.t.Helper()
	if m.i != len(m.ops) {
		m.t.Errorf("%d transactions issued, want %d", m.i, len(m.ops))
	}
}

// csPin records every level written to the chip select line.
type csPin struct {
	levels []gpio.Level
	// failAt makes the matching Out call fail, counting from 1. Zero never
	// fails.
	failAt int
	err    error
}

func (p *csPin) String() string {
	return p.Name()
}

func (p *csPin) Halt() error {
	return nil
}

func (p *csPin) Name() string {
	return "CS"
}

func (p *csPin) Number() int {
	return 3
}

func (p *csPin) Function() string {
	return "Out"
}

func (p *csPin) Out(l gpio.Level) error {
	p.levels = append(p.levels, l)
	if p.failAt != 0 && len(p.levels) == p.failAt {
		return p.err
	}
	return nil
}

func (p *csPin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("pwm not supported")
}

// checkLevels verifies the chip select saw exactly n assert/release pairs.
func (p *csPin) checkLevels(t *testing.T, pairs int) {
	t.Helper()
	if len(p.levels) != 2*pairs {
		t.Fatalf("%d chip select edges, want %d", len(p.levels), 2*pairs)
	}
	for i, l := range p.levels {
		want := gpio.High
		if i%2 == 0 {
			want = gpio.Low
		}
		if l != want {
			t.Errorf("chip select edge %d: %s, want %s", i, l, want)
		}
	}
}

// chipSim emulates enough of the 25AA02E48 to support round trips: it
// decodes the instructions the driver frames between chip select edges and
// applies them to an in-memory array, including the address counter
// wrap-around and the write enable latch.
type chipSim struct {
	mem   [Size]byte
	latch bool

	inFrame bool
	op      byte
	addr    int
	decoded bool
}

func (s *chipSim) String() string {
	return "chipsim"
}

func (s *chipSim) Duplex() conn.Duplex {
	return conn.Half
}

func (s *chipSim) TxPackets(p []spi.Packet) error {
	return errors.New("chipsim: TxPackets not supported")
}

func (s *chipSim) Tx(w, r []byte) error {
	if !s.inFrame {
		return errors.New("chipsim: transfer without chip select")
	}
	if !s.decoded {
		s.decoded = true
		s.op = w[0]
		switch s.op {
		case OpWREN:
			s.latch = true
		case OpWRDI:
			s.latch = false
		case OpRead, OpWrite:
			if len(w) != 2 {
				return errors.New("chipsim: missing address byte")
			}
			s.addr = int(w[1])
		default:
			return errors.New("chipsim: unknown instruction")
		}
		return nil
	}
	switch s.op {
	case OpRead:
		for i := range r {
			r[i] = s.mem[(s.addr+i)%Size]
		}
	case OpWrite:
		if !s.latch {
			return errors.New("chipsim: write without enable latch")
		}
		for i, b := range w {
			s.mem[(s.addr+i)%Size] = b
		}
	default:
		return errors.New("chipsim: data without read or write")
	}
	return nil
}

// pin returns the chip select input of the simulated chip.
func (s *chipSim) pin() gpio.PinOut {
	return &simPin{s}
}

type simPin struct {
	s *chipSim
}

func (p *simPin) String() string {
	return p.Name()
}

func (p *simPin) Halt() error {
	return nil
}

func (p *simPin) Name() string {
	return "CS"
}

func (p *simPin) Number() int {
	return 3
}

func (p *simPin) Function() string {
	return "Out"
}

func (p *simPin) Out(l gpio.Level) error {
	s := p.s
	if l == gpio.Low {
		s.inFrame = true
		s.decoded = false
		return nil
	}
	// Rising edge latches a completed write and clears the enable latch.
	if s.decoded && s.op == OpWrite {
		s.latch = false
	}
	s.inFrame = false
	return nil
}

func (p *simPin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("pwm not supported")
}

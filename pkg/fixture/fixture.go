// Package fixture reads and runs conformance fixtures in the FUSE
// tests.in / tests.expected format.
//
// A tests.in block is a name line, a register line
// "AF BC DE HL AF' BC' DE' HL' IX IY SP PC [MEMPTR]", a state line
// "I R IFF1 IFF2 IM halted tstates", memory lines "addr bytes... -1" and a
// closing "-1". A tests.expected block is a name line, indented event
// lines "time type address [data]", the register and state lines, memory
// lines, and a blank line.
package fixture

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/oisee/z80sim/pkg/cpu"
)

// ErrSyntax is returned, wrapped with the line number, for malformed input.
var ErrSyntax = errors.New("fixture syntax error")

// Block is a run of bytes starting at Addr.
type Block struct {
	Addr uint16
	Data []byte
}

// Event is one bus event of an expected result. Data is -1 for events
// without a data byte (MC, PC).
type Event struct {
	Time int
	Kind string
	Addr uint16
	Data int
}

// Case is the initial setup of one fixture.
type Case struct {
	Name      string
	State     cpu.State
	HasMEMPTR bool
	TStates   int // run until at least this many T-states have elapsed
	Memory    []Block
}

// Expected is the result a fixture must produce.
type Expected struct {
	Name      string
	Events    []Event
	State     cpu.State
	HasMEMPTR bool
	TStates   int
	Memory    []Block
}

// PortWrites returns the PW events in order.
func (e *Expected) PortWrites() []Event {
	var out []Event
	for _, ev := range e.Events {
		if ev.Kind == "PW" {
			out = append(out, ev)
		}
	}
	return out
}

func syntaxErr(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, line, fmt.Sprintf(format, args...))
}

func parseHex(line int, s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 16, bits)
	if err != nil {
		return 0, syntaxErr(line, "bad hex %q", s)
	}
	return v, nil
}

// parseRegs fills the register part of s from a register line and reports
// whether a MEMPTR column was present.
func parseRegs(line int, text string, s *cpu.State) (bool, error) {
	f := strings.Fields(text)
	if len(f) != 12 && len(f) != 13 {
		return false, syntaxErr(line, "register line has %d words, want 12 or 13", len(f))
	}
	dst := []*uint16{&s.AF, &s.BC, &s.DE, &s.HL, &s.AF2, &s.BC2, &s.DE2, &s.HL2,
		&s.IX, &s.IY, &s.SP, &s.PC, &s.WZ}
	for i, w := range f {
		v, err := parseHex(line, w, 16)
		if err != nil {
			return false, err
		}
		*dst[i] = uint16(v)
	}
	return len(f) == 13, nil
}

// parseState fills I, R, IFF1, IFF2, IM and halted and returns the
// T-state column.
func parseState(line int, text string, s *cpu.State) (int, error) {
	f := strings.Fields(text)
	if len(f) != 7 {
		return 0, syntaxErr(line, "state line has %d words, want 7", len(f))
	}
	i, err := parseHex(line, f[0], 8)
	if err != nil {
		return 0, err
	}
	r, err := parseHex(line, f[1], 8)
	if err != nil {
		return 0, err
	}
	var n [5]int
	for k := range n {
		if n[k], err = strconv.Atoi(f[2+k]); err != nil {
			return 0, syntaxErr(line, "bad number %q", f[2+k])
		}
	}
	s.I, s.R = uint8(i), uint8(r)
	s.IFF1, s.IFF2 = n[0] != 0, n[1] != 0
	s.IM = uint8(n[2])
	s.Halted = n[3] != 0
	return n[4], nil
}

// parseBlock reads "addr bytes... -1".
func parseBlock(line int, text string) (Block, error) {
	f := strings.Fields(text)
	if len(f) < 2 || f[len(f)-1] != "-1" {
		return Block{}, syntaxErr(line, "memory line not terminated by -1")
	}
	addr, err := parseHex(line, f[0], 16)
	if err != nil {
		return Block{}, err
	}
	b := Block{Addr: uint16(addr)}
	for _, w := range f[1 : len(f)-1] {
		v, err := parseHex(line, w, 8)
		if err != nil {
			return Block{}, err
		}
		b.Data = append(b.Data, uint8(v))
	}
	return b, nil
}

func parseEvent(line int, text string) (Event, error) {
	f := strings.Fields(text)
	if len(f) != 3 && len(f) != 4 {
		return Event{}, syntaxErr(line, "event line has %d words", len(f))
	}
	t, err := strconv.Atoi(f[0])
	if err != nil {
		return Event{}, syntaxErr(line, "bad event time %q", f[0])
	}
	addr, err := parseHex(line, f[2], 16)
	if err != nil {
		return Event{}, err
	}
	ev := Event{Time: t, Kind: f[1], Addr: uint16(addr), Data: -1}
	if len(f) == 4 {
		v, err := parseHex(line, f[3], 8)
		if err != nil {
			return Event{}, err
		}
		ev.Data = int(v)
	}
	return ev, nil
}

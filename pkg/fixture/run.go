package fixture

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/oisee/z80sim/pkg/cpu"
)

// Suite pairs each case with its expected result.
type Suite struct {
	Cases    []Case
	Expected map[string]Expected
}

// Result is the outcome of one case. Diffs is empty when it passed.
type Result struct {
	Name  string
	Diffs []string
}

func (r Result) Passed() bool { return len(r.Diffs) == 0 }

// Load reads a tests.in and tests.expected pair from fs.
func Load(fs afero.Fs, inPath, expectedPath string) (*Suite, error) {
	in, err := fs.Open(inPath)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	cases, err := ParseCases(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", inPath, err)
	}

	ex, err := fs.Open(expectedPath)
	if err != nil {
		return nil, err
	}
	defer ex.Close()
	exp, err := ParseExpected(ex)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", expectedPath, err)
	}

	s := &Suite{Cases: cases, Expected: make(map[string]Expected, len(exp))}
	for _, e := range exp {
		s.Expected[e.Name] = e
	}
	return s, nil
}

// Run executes every case. Cases without an expected block fail with a
// single diff saying so.
func (s *Suite) Run(log *slog.Logger) []Result {
	results := make([]Result, 0, len(s.Cases))
	for _, c := range s.Cases {
		e, ok := s.Expected[c.Name]
		if !ok {
			results = append(results, Result{Name: c.Name, Diffs: []string{"no expected result"}})
			continue
		}
		results = append(results, Result{Name: c.Name, Diffs: c.Run(&e, log)})
	}
	return results
}

type portWrite struct {
	port  uint16
	value uint8
}

// fixtureIO floats reads to the upper port byte and records writes.
type fixtureIO struct {
	writes []portWrite
}

func (f *fixtureIO) ReadPort(port uint16) uint8 { return uint8(port >> 8) }

func (f *fixtureIO) WritePort(port uint16, v uint8) {
	f.writes = append(f.writes, portWrite{port, v})
}

// Run executes c whole instructions at a time until its T-state count is
// reached and returns the differences from e as "what got want" strings.
func (c *Case) Run(e *Expected, log *slog.Logger) []string {
	ram := cpu.NewRAM()
	for _, b := range c.Memory {
		ram.Load(b.Addr, b.Data)
	}
	io := &fixtureIO{}
	z := cpu.New(ram, cpu.WithIO(io), cpu.WithLogger(log))
	z.SetState(c.State)

	total := 0
	for total < c.TStates {
		total += z.ExecuteInstruction()
	}

	got := z.State()
	want := e.State
	if !e.HasMEMPTR {
		want.WZ = got.WZ
	}
	diffs := got.Diff(want)
	if total != e.TStates {
		diffs = append(diffs, fmt.Sprintf("tstates %d %d", total, e.TStates))
	}
	for _, b := range e.Memory {
		for i, v := range b.Data {
			addr := b.Addr + uint16(i)
			if ram[addr] != v {
				diffs = append(diffs, fmt.Sprintf("mem[%04X] %02X %02X", addr, ram[addr], v))
			}
		}
	}
	pw := e.PortWrites()
	if len(pw) != len(io.writes) {
		diffs = append(diffs, fmt.Sprintf("port writes %d %d", len(io.writes), len(pw)))
	} else {
		for i, w := range io.writes {
			if w.port != pw[i].Addr || int(w.value) != pw[i].Data {
				diffs = append(diffs, fmt.Sprintf("port write %d %04X:%02X %04X:%02X",
					i, w.port, w.value, pw[i].Addr, pw[i].Data))
			}
		}
	}
	return diffs
}

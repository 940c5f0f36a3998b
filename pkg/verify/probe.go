package verify

import (
	"fmt"
	"log/slog"

	"github.com/oisee/z80sim/pkg/cpu"
	"github.com/oisee/z80sim/pkg/inst"
	"github.com/oisee/z80sim/pkg/result"
)

// stepFunc runs one instruction and returns the T-states it took.
type stepFunc func(c *cpu.CPU) int

func byInstruction(c *cpu.CPU) int { return c.ExecuteInstruction() }

func byMCycle(c *cpu.CPU) int {
	total := c.ExecuteMCycle()
	for c.InFlight() {
		total += c.ExecuteMCycle()
	}
	return total
}

func byTState(c *cpu.CPU) int {
	total := c.ExecuteTStates(1)
	for c.InFlight() {
		total += c.ExecuteTStates(1)
	}
	return total
}

var steppers = [...]struct {
	name string
	step stepFunc
}{
	{"instruction", byInstruction},
	{"m-cycle", byMCycle},
	{"t-state", byTState},
}

// Program returns the bytes of table t's opcode followed by its operands.
// Displacements and immediates are fixed small values.
func Program(t inst.Table, opcode uint8) []byte {
	p := append([]byte(nil), t.Prefix()...)
	if t == inst.DDCB || t == inst.FDCB {
		return append(p, 0x05, opcode)
	}
	p = append(p, opcode)
	n := inst.Lookup(t, opcode).OperandBytes(t)
	for i := 0; i < n; i++ {
		p = append(p, 0x05+uint8(i)*0x1B)
	}
	return p
}

// floatingBus reads the upper port byte, like the conformance fixtures.
var floatingBus = cpu.IOFuncs{ReadFunc: func(port uint16) uint8 { return uint8(port >> 8) }}

type probeRun struct {
	ram     *cpu.RAM
	state   cpu.State
	tstates int
}

func (p *probeSet) run(prog []byte, seed int, step stepFunc, log *slog.Logger) probeRun {
	ram := new(cpu.RAM)
	*ram = p.images[seed]
	ram.Load(Origin, prog)
	c := cpu.New(ram, cpu.WithIO(floatingBus), cpu.WithLogger(log))
	s := p.states[seed]
	s.PC = Origin
	c.SetState(s)
	ts := step(c)
	return probeRun{ram: ram, state: c.State(), tstates: ts}
}

// Check runs table t's opcode from Seeds[seed] at every granularity and
// returns the disagreements found, compared against instruction stepping.
func Check(t inst.Table, opcode uint8, seed int, log *slog.Logger) []result.Mismatch {
	return defaultProbes().check(t, opcode, seed, log)
}

func (p *probeSet) check(t inst.Table, opcode uint8, seed int, log *slog.Logger) []result.Mismatch {
	prog := Program(t, opcode)
	var runs [len(steppers)]probeRun
	for i, s := range steppers {
		runs[i] = p.run(prog, seed, s.step, log)
	}

	var out []result.Mismatch
	name := inst.Mnemonic(inst.Lookup(t, opcode))
	add := func(kind, detail string) {
		out = append(out, result.Mismatch{
			Table: t.String(), Opcode: opcode, Mnemonic: name, Seed: seed, Kind: kind, Detail: detail,
		})
	}
	ref := runs[0]
	for i := 1; i < len(runs); i++ {
		by := steppers[i].name
		if runs[i].tstates != ref.tstates {
			add("tstates", fmt.Sprintf("%s %d, instruction %d", by, runs[i].tstates, ref.tstates))
		}
		if d := runs[i].state.Diff(ref.state); len(d) > 0 {
			add("state", fmt.Sprintf("%s %v", by, d))
		}
		if addr, ok := firstDiff(runs[i].ram, ref.ram); ok {
			add("memory", fmt.Sprintf("%s differs at %04X: %02X vs %02X", by, addr, runs[i].ram[addr], ref.ram[addr]))
		}
	}
	return out
}

func firstDiff(a, b *cpu.RAM) (uint16, bool) {
	if *a == *b {
		return 0, false
	}
	for i := range a {
		if a[i] != b[i] {
			return uint16(i), true
		}
	}
	return 0, false
}

// Package cpu implements a cycle-accurate Z80 core. The host drives it at
// instruction, M-cycle or T-state granularity; all three produce the same
// architectural state and the same T-state totals.
package cpu

import (
	"log/slog"

	"github.com/oisee/z80sim/pkg/inst"
)

// action is what the in-flight slot retires as.
type action uint8

const (
	actExecute action = iota // run the decoded descriptor
	actStray                 // stray DD prefix, no effect
	actHalted                // NOP repeated while halted
	actNMI
	actIRQ
)

// CPU is a Z80 with its bus wiring. The zero value is not usable; call New.
type CPU struct {
	reg        Registers
	pc         uint16
	iff1, iff2 bool
	im         uint8
	halted     bool

	mem Memory
	ram *RAM // fast path when mem is a *RAM
	io  IO
	log *slog.Logger

	// interrupt lines
	nmiPending bool
	irqPending bool
	irqData    uint8
	deferIRQ   bool

	// in-flight instruction
	act               action
	table             inst.Table
	opcode            uint8
	current           *inst.Descriptor
	willJump          bool
	penalty           int // leading 4 T-state cycles added by stray prefixes
	planT, planM      int
	lastMCycleTStates int
	tstatesCounter    int // T-states left
	mcyclesCounter    int // M-cycles left
	cycleLeft         int // T-states left in the current M-cycle
}

// Option configures a CPU.
type Option func(*CPU)

// WithIO wires the port space. Without it, port reads return the upper
// address byte and every access is logged.
func WithIO(io IO) Option {
	return func(c *CPU) { c.io = io }
}

// WithLogger sets the logger used for bus diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *CPU) { c.log = l }
}

// New returns a CPU attached to mem, already reset.
func New(mem Memory, opts ...Option) *CPU {
	c := &CPU{mem: mem}
	if ram, ok := mem.(*RAM); ok {
		c.ram = ram
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.io == nil {
		c.io = unmappedIO{log: c.log}
	}
	c.Reset()
	return c
}

// Reset puts the CPU in its power-on state: PC, I, R, IM and both IFFs
// zero, AF and SP 0xFFFF, not halted, nothing in flight or pending. Other
// registers keep their values.
func (c *CPU) Reset() {
	c.pc = 0
	c.reg.IR.Set(0)
	c.reg.SP.Set(0xFFFF)
	c.reg.AF.Set(0xFFFF)
	c.iff1, c.iff2 = false, false
	c.im = 0
	c.halted = false
	c.clearPending()
}

func (c *CPU) clearPending() {
	c.nmiPending, c.irqPending, c.deferIRQ = false, false, false
	c.irqData = 0
	c.willJump = false
	c.penalty = 0
	c.current = nil
	c.tstatesCounter, c.mcyclesCounter, c.cycleLeft = 0, 0, 0
}

// === register access ===

// Regs returns the register file for direct inspection and modification.
func (c *CPU) Regs() *Registers { return &c.reg }

func (c *CPU) PC() uint16 { return c.pc }

func (c *CPU) SetPC(pc uint16) { c.pc = pc }

func (c *CPU) IFF1() bool { return c.iff1 }

func (c *CPU) IFF2() bool { return c.iff2 }

// SetIFF sets both interrupt flip-flops.
func (c *CPU) SetIFF(iff1, iff2 bool) { c.iff1, c.iff2 = iff1, iff2 }

func (c *CPU) IM() uint8 { return c.im }

func (c *CPU) SetIM(mode uint8) { c.im = mode & 3 }

// IsHalted reports whether the CPU is executing HALT.
func (c *CPU) IsHalted() bool { return c.halted }

func (c *CPU) SetHalted(h bool) { c.halted = h }

// InFlight reports whether an instruction has been decoded but not yet
// retired.
func (c *CPU) InFlight() bool { return c.tstatesCounter > 0 }

// Current returns the table and opcode of the in-flight instruction. ok is
// false when nothing is in flight or the slot holds an interrupt
// acknowledge, a halted NOP or a stray prefix.
func (c *CPU) Current() (t inst.Table, opcode uint8, ok bool) {
	if !c.InFlight() || c.act != actExecute {
		return 0, 0, false
	}
	return c.table, c.opcode, true
}

func (c *CPU) incR() {
	r := c.reg.IR.Low()
	c.reg.IR.SetLow(r&0x80 | (r+1)&0x7F)
}

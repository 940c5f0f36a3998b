package cpu

import "fmt"

// State is a value copy of the architectural registers and interrupt state.
// It is cheap to copy and comparable with ==, which the verifier and the
// fixture runner rely on.
type State struct {
	AF, BC, DE, HL     uint16
	AF2, BC2, DE2, HL2 uint16
	IX, IY, SP, PC     uint16
	WZ                 uint16
	I, R, IM           uint8
	IFF1, IFF2, Halted bool
}

// Equal returns true if two states are identical.
func (s State) Equal(o State) bool {
	return s == o
}

// Diff lists the registers that differ between s and o as
// "NAME got want" strings, in register-file order.
func (s State) Diff(o State) []string {
	var out []string
	word := func(name string, a, b uint16) {
		if a != b {
			out = append(out, fmt.Sprintf("%s %04X %04X", name, a, b))
		}
	}
	word("AF", s.AF, o.AF)
	word("BC", s.BC, o.BC)
	word("DE", s.DE, o.DE)
	word("HL", s.HL, o.HL)
	word("AF'", s.AF2, o.AF2)
	word("BC'", s.BC2, o.BC2)
	word("DE'", s.DE2, o.DE2)
	word("HL'", s.HL2, o.HL2)
	word("IX", s.IX, o.IX)
	word("IY", s.IY, o.IY)
	word("SP", s.SP, o.SP)
	word("PC", s.PC, o.PC)
	word("WZ", s.WZ, o.WZ)
	byt := func(name string, a, b uint8) {
		if a != b {
			out = append(out, fmt.Sprintf("%s %02X %02X", name, a, b))
		}
	}
	byt("I", s.I, o.I)
	byt("R", s.R, o.R)
	byt("IM", s.IM, o.IM)
	flag := func(name string, a, b bool) {
		if a != b {
			out = append(out, fmt.Sprintf("%s %v %v", name, a, b))
		}
	}
	flag("IFF1", s.IFF1, o.IFF1)
	flag("IFF2", s.IFF2, o.IFF2)
	flag("halted", s.Halted, o.Halted)
	return out
}

// State captures the current registers.
func (c *CPU) State() State {
	r := &c.reg
	return State{
		AF: r.AF.Word(), BC: r.BC.Word(), DE: r.DE.Word(), HL: r.HL.Word(),
		AF2: r.Alt.AF.Word(), BC2: r.Alt.BC.Word(), DE2: r.Alt.DE.Word(), HL2: r.Alt.HL.Word(),
		IX: r.IX.Word(), IY: r.IY.Word(), SP: r.SP.Word(), PC: c.pc,
		WZ: r.WZ.Word(),
		I: r.I(), R: r.R(), IM: c.im,
		IFF1: c.iff1, IFF2: c.iff2, Halted: c.halted,
	}
}

// SetState loads registers from s. Any in-flight instruction is dropped and
// latched NMI and IRQ requests are cleared, so the next step starts from s
// alone.
func (c *CPU) SetState(s State) {
	r := &c.reg
	r.AF.Set(s.AF)
	r.BC.Set(s.BC)
	r.DE.Set(s.DE)
	r.HL.Set(s.HL)
	r.Alt.AF.Set(s.AF2)
	r.Alt.BC.Set(s.BC2)
	r.Alt.DE.Set(s.DE2)
	r.Alt.HL.Set(s.HL2)
	r.IX.Set(s.IX)
	r.IY.Set(s.IY)
	r.SP.Set(s.SP)
	r.WZ.Set(s.WZ)
	r.IR.Set(uint16(s.I)<<8 | uint16(s.R))
	c.pc = s.PC
	c.im = s.IM
	c.iff1, c.iff2 = s.IFF1, s.IFF2
	c.halted = s.Halted
	c.clearPending()
}

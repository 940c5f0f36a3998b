package cpu

import "github.com/oisee/z80sim/pkg/inst"

// Pair is a 16-bit register pair with byte views. The high byte is the
// first-named register (B of BC, A of AF).
type Pair struct {
	w uint16
}

// Word returns the 16-bit value.
func (p *Pair) Word() uint16 { return p.w }

// High returns the upper byte.
func (p *Pair) High() uint8 { return uint8(p.w >> 8) }

// Low returns the lower byte.
func (p *Pair) Low() uint8 { return uint8(p.w) }

func (p *Pair) Set(v uint16) { p.w = v }

func (p *Pair) SetHigh(v uint8) { p.w = p.w&0x00FF | uint16(v)<<8 }

func (p *Pair) SetLow(v uint8) { p.w = p.w&0xFF00 | uint16(v) }

func (p *Pair) Add(delta uint16) { p.w += delta }

// Bank is one set of the swappable registers.
type Bank struct {
	AF, BC, DE, HL Pair
}

// Registers is the full register file. PC lives on the CPU.
type Registers struct {
	Bank

	// Alt is the shadow set, exchanged by EX AF,AF' and EXX.
	Alt Bank

	IX, IY, SP Pair
	IR         Pair // I in the high byte, R in the low byte
	WZ         Pair // MEMPTR
}

func (r *Registers) A() uint8 { return r.AF.High() }
func (r *Registers) F() uint8 { return r.AF.Low() }
func (r *Registers) B() uint8 { return r.BC.High() }
func (r *Registers) C() uint8 { return r.BC.Low() }
func (r *Registers) D() uint8 { return r.DE.High() }
func (r *Registers) E() uint8 { return r.DE.Low() }
func (r *Registers) H() uint8 { return r.HL.High() }
func (r *Registers) L() uint8 { return r.HL.Low() }
func (r *Registers) I() uint8 { return r.IR.High() }
func (r *Registers) R() uint8 { return r.IR.Low() }

// Get8 reads the 8-bit register selected by an operand field. RegNone reads
// as zero.
func (r *Registers) Get8(sel inst.Reg8) uint8 {
	switch sel {
	case inst.RegB:
		return r.BC.High()
	case inst.RegC:
		return r.BC.Low()
	case inst.RegD:
		return r.DE.High()
	case inst.RegE:
		return r.DE.Low()
	case inst.RegH:
		return r.HL.High()
	case inst.RegL:
		return r.HL.Low()
	case inst.RegA:
		return r.AF.High()
	case inst.RegF:
		return r.AF.Low()
	case inst.RegIXH:
		return r.IX.High()
	case inst.RegIXL:
		return r.IX.Low()
	case inst.RegIYH:
		return r.IY.High()
	case inst.RegIYL:
		return r.IY.Low()
	case inst.RegI:
		return r.IR.High()
	case inst.RegR:
		return r.IR.Low()
	}
	return 0
}

// Set8 writes the 8-bit register selected by an operand field. Writes to
// RegNone are dropped.
func (r *Registers) Set8(sel inst.Reg8, v uint8) {
	switch sel {
	case inst.RegB:
		r.BC.SetHigh(v)
	case inst.RegC:
		r.BC.SetLow(v)
	case inst.RegD:
		r.DE.SetHigh(v)
	case inst.RegE:
		r.DE.SetLow(v)
	case inst.RegH:
		r.HL.SetHigh(v)
	case inst.RegL:
		r.HL.SetLow(v)
	case inst.RegA:
		r.AF.SetHigh(v)
	case inst.RegF:
		r.AF.SetLow(v)
	case inst.RegIXH:
		r.IX.SetHigh(v)
	case inst.RegIXL:
		r.IX.SetLow(v)
	case inst.RegIYH:
		r.IY.SetHigh(v)
	case inst.RegIYL:
		r.IY.SetLow(v)
	case inst.RegI:
		r.IR.SetHigh(v)
	case inst.RegR:
		r.IR.SetLow(v)
	}
}

// Pair returns the register pair selected by an operand field.
func (r *Registers) Pair(sel inst.Pair) *Pair {
	switch sel {
	case inst.PairBC:
		return &r.BC
	case inst.PairDE:
		return &r.DE
	case inst.PairHL:
		return &r.HL
	case inst.PairSP:
		return &r.SP
	case inst.PairAF:
		return &r.AF
	case inst.PairIX:
		return &r.IX
	case inst.PairIY:
		return &r.IY
	}
	return nil
}

package cpu

import "github.com/oisee/z80sim/pkg/inst"

// Half-carry and overflow come from x = a ^ b ^ result: bit 4 of x is the
// carry into bit 4, bits 7 and 8 are the carries into and out of the sign
// bit. Subtraction works the same way on the wrapped result.

func (c *CPU) alu(kind inst.AluKind, value uint8) {
	r := &c.reg
	switch kind {
	case inst.AluAdd:
		c.add8(value, 0)
	case inst.AluAdc:
		c.add8(value, r.F()&FlagC)
	case inst.AluSub:
		r.AF.SetHigh(c.sub8(value, 0))
	case inst.AluSbc:
		r.AF.SetHigh(c.sub8(value, r.F()&FlagC))
	case inst.AluAnd:
		a := r.A() & value
		r.AF.Set(uint16(a)<<8 | uint16(Sz53pTable[a]|FlagH))
	case inst.AluXor:
		a := r.A() ^ value
		r.AF.Set(uint16(a)<<8 | uint16(Sz53pTable[a]))
	case inst.AluOr:
		a := r.A() | value
		r.AF.Set(uint16(a)<<8 | uint16(Sz53pTable[a]))
	case inst.AluCp:
		c.sub8(value, 0)
		// CP takes the undocumented bits from the operand.
		r.AF.SetLow(r.F()&^(Flag3|Flag5) | value&(Flag3|Flag5))
	}
}

func (c *CPU) add8(value, carry uint8) {
	r := &c.reg
	a := uint16(r.A())
	res := a + uint16(value) + uint16(carry)
	x := a ^ uint16(value) ^ res
	r.AF.Set(res<<8 | uint16(
		Sz53Table[uint8(res)]|
			uint8(x)&FlagH|
			OverflowTable[(x>>7)&3]|
			uint8(res>>8)&FlagC))
}

// sub8 computes A - value - carry, sets flags and returns the result
// without storing it.
func (c *CPU) sub8(value, carry uint8) uint8 {
	r := &c.reg
	a := uint16(r.A())
	res := a - uint16(value) - uint16(carry)
	x := a ^ uint16(value) ^ res
	r.AF.SetLow(Sz53Table[uint8(res)] |
		FlagN |
		uint8(x)&FlagH |
		OverflowTable[(x>>7)&3] |
		uint8(res>>8)&FlagC)
	return uint8(res)
}

func (c *CPU) inc(v uint8) uint8 {
	res := uint16(v) + 1
	x := uint16(v) ^ res
	c.reg.AF.SetLow(c.reg.F()&FlagC |
		Sz53Table[uint8(res)] |
		uint8(x)&FlagH |
		OverflowTable[(x>>7)&3])
	return uint8(res)
}

func (c *CPU) dec(v uint8) uint8 {
	res := uint16(v) - 1
	x := uint16(v) ^ res
	c.reg.AF.SetLow(c.reg.F()&FlagC |
		FlagN |
		Sz53Table[uint8(res)] |
		uint8(x)&FlagH |
		OverflowTable[(x>>7)&3])
	return uint8(res)
}

func (c *CPU) daa() {
	r := &c.reg
	a, f := r.A(), r.F()
	var add, carry uint8
	carry = f & FlagC
	if f&FlagH != 0 || a&0x0F > 9 {
		add = 6
	}
	if carry != 0 || a > 0x99 {
		add |= 0x60
	}
	if a > 0x99 {
		carry = FlagC
	}
	if f&FlagN != 0 {
		r.AF.SetHigh(c.sub8(add, 0))
	} else {
		c.add8(add, 0)
	}
	r.AF.SetLow(r.F()&^(FlagC|FlagP) | carry | ParityTable[r.A()])
}

// === 16-bit arithmetic ===

// addPair implements ADD HL/IX/IY, rr: S, Z and P/V are preserved.
func (c *CPU) addPair(dst *Pair, value uint16) {
	r := &c.reg
	v := dst.Word()
	res := uint32(v) + uint32(value)
	x := uint32(v) ^ uint32(value) ^ res
	r.WZ.Set(v + 1)
	r.AF.SetLow(r.F()&(FlagS|FlagZ|FlagP) |
		uint8(x>>8)&FlagH |
		uint8(res>>16)&FlagC |
		uint8(res>>8)&(Flag3|Flag5))
	dst.Set(uint16(res))
}

func (c *CPU) adcHL(value uint16) {
	r := &c.reg
	hl := r.HL.Word()
	res := uint32(hl) + uint32(value) + uint32(r.F()&FlagC)
	c.setHL16(hl, value, res, 0)
}

func (c *CPU) sbcHL(value uint16) {
	r := &c.reg
	hl := r.HL.Word()
	res := uint32(hl) - uint32(value) - uint32(r.F()&FlagC)
	c.setHL16(hl, value, res, FlagN)
}

func (c *CPU) setHL16(hl, value uint16, res uint32, n uint8) {
	r := &c.reg
	x := uint32(hl) ^ uint32(value) ^ res
	r.WZ.Set(hl + 1)
	r.HL.Set(uint16(res))
	r.AF.SetLow(Sz53Table[uint8(res>>8)]&^FlagZ |
		bsel(uint16(res) == 0, FlagZ, 0) |
		n |
		uint8(x>>8)&FlagH |
		OverflowTable[(x>>15)&3] |
		uint8(res>>16)&FlagC)
}

// === rotates and shifts ===

// rotateA implements RLCA, RRCA, RLA and RRA: S, Z and P/V are preserved.
func (c *CPU) rotateA(kind inst.ShiftKind) {
	r := &c.reg
	a, f := r.A(), r.F()
	var res, carry uint8
	switch kind {
	case inst.ShiftRlc:
		res, carry = a<<1|a>>7, a>>7
	case inst.ShiftRrc:
		res, carry = a>>1|a<<7, a&1
	case inst.ShiftRl:
		res, carry = a<<1|f&FlagC, a>>7
	default:
		res, carry = a>>1|f<<7, a&1
	}
	r.AF.Set(uint16(res)<<8 | uint16(f&(FlagS|FlagZ|FlagP)|res&(Flag3|Flag5)|carry))
}

// shift implements the CB rotate/shift group and sets S, Z, P/V from the
// result.
func (c *CPU) shift(kind inst.ShiftKind, v uint8) uint8 {
	var res, carry uint8
	f := c.reg.F()
	switch kind {
	case inst.ShiftRlc:
		res, carry = v<<1|v>>7, v>>7
	case inst.ShiftRrc:
		res, carry = v>>1|v<<7, v&1
	case inst.ShiftRl:
		res, carry = v<<1|f&FlagC, v>>7
	case inst.ShiftRr:
		res, carry = v>>1|f<<7, v&1
	case inst.ShiftSla:
		res, carry = v<<1, v>>7
	case inst.ShiftSra:
		res, carry = v>>1|v&0x80, v&1
	case inst.ShiftSll:
		res, carry = v<<1|1, v>>7
	case inst.ShiftSrl:
		res, carry = v>>1, v&1
	}
	c.reg.AF.SetLow(Sz53pTable[res] | carry)
	return res
}

// bit implements BIT n. Flags 3 and 5 come from xy, which depends on the
// addressing form.
func (c *CPU) bit(n, v, xy uint8) {
	set := v&(1<<n) != 0
	c.reg.AF.SetLow(c.reg.F()&FlagC |
		FlagH |
		xy&(Flag3|Flag5) |
		bsel(set, 0, FlagZ|FlagP) |
		bsel(set && n == 7, FlagS, 0))
}

// === decimal rotates ===

func (c *CPU) rrd() {
	r := &c.reg
	hl := r.HL.Word()
	v, a := c.read(hl), r.A()
	c.write(hl, a<<4|v>>4)
	a = a&0xF0 | v&0x0F
	r.AF.Set(uint16(a)<<8 | uint16(r.F()&FlagC|Sz53pTable[a]))
	r.WZ.Set(hl + 1)
}

func (c *CPU) rld() {
	r := &c.reg
	hl := r.HL.Word()
	v, a := c.read(hl), r.A()
	c.write(hl, v<<4|a&0x0F)
	a = a&0xF0 | v>>4
	r.AF.Set(uint16(a)<<8 | uint16(r.F()&FlagC|Sz53pTable[a]))
	r.WZ.Set(hl + 1)
}

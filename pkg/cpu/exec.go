package cpu

import "github.com/oisee/z80sim/pkg/inst"

func reg8(v uint8) inst.Reg8 { return inst.Reg8(v) }

// indexAddr reads the displacement of an (IX+d)/(IY+d) operand and returns
// the effective address, which also lands in WZ.
func (c *CPU) indexAddr(p uint8) uint16 {
	addr := c.fetchDisp(c.reg.Pair(inst.Pair(p)).Word())
	c.reg.WZ.Set(addr)
	return addr
}

// indexAddrCB is indexAddr for DDCB/FDCB, where the opcode byte follows the
// displacement and has already been decoded.
func (c *CPU) indexAddrCB(p uint8) uint16 {
	addr := c.indexAddr(p)
	c.pc++
	return addr
}

func (c *CPU) jr() {
	e := int8(c.fetch())
	c.pc += uint16(e)
	c.reg.WZ.Set(c.pc)
}

func (c *CPU) ret() {
	c.pc = c.pop()
	c.reg.WZ.Set(c.pc)
}

// execute applies the semantic effect of a decoded instruction. Operand
// bytes are read from PC here, after the opcode bytes consumed by decode.
func (c *CPU) execute(d *inst.Descriptor) {
	r := &c.reg
	switch d.Op {
	case inst.OpNop, inst.OpPrefix:

	case inst.OpHalt:
		c.halted = true
		c.pc--

	// === 8-bit loads ===
	case inst.OpLdRR:
		r.Set8(reg8(d.Op1), r.Get8(reg8(d.Op2)))
	case inst.OpLdRN:
		r.Set8(reg8(d.Op1), c.fetch())
	case inst.OpLdRInd:
		addr := r.Pair(inst.Pair(d.Op2)).Word()
		r.Set8(reg8(d.Op1), c.read(addr))
		if inst.Pair(d.Op2) != inst.PairHL {
			r.WZ.Set(addr + 1)
		}
	case inst.OpLdIndR:
		addr := r.Pair(inst.Pair(d.Op1)).Word()
		c.write(addr, r.Get8(reg8(d.Op2)))
		if inst.Pair(d.Op1) != inst.PairHL {
			r.WZ.Set(uint16(r.A())<<8 | (addr+1)&0xFF)
		}
	case inst.OpLdIndN:
		c.write(r.HL.Word(), c.fetch())
	case inst.OpLdRIdx:
		r.Set8(reg8(d.Op1), c.read(c.indexAddr(d.Op2)))
	case inst.OpLdIdxR:
		c.write(c.indexAddr(d.Op1), r.Get8(reg8(d.Op2)))
	case inst.OpLdIdxN:
		addr := c.indexAddr(d.Op1)
		c.write(addr, c.fetch())
	case inst.OpLdAAddr:
		nn := c.fetchWord()
		r.AF.SetHigh(c.read(nn))
		r.WZ.Set(nn + 1)
	case inst.OpLdAddrA:
		nn := c.fetchWord()
		c.write(nn, r.A())
		r.WZ.Set(uint16(r.A())<<8 | (nn+1)&0xFF)
	case inst.OpLdAIR:
		v := r.Get8(reg8(d.Op2))
		r.AF.Set(uint16(v)<<8 | uint16(r.F()&FlagC|Sz53Table[v]|bsel(c.iff2, FlagV, 0)))

	// === 16-bit loads and exchanges ===
	case inst.OpLdPairNN:
		r.Pair(inst.Pair(d.Op1)).Set(c.fetchWord())
	case inst.OpLdPairAddr:
		nn := c.fetchWord()
		r.Pair(inst.Pair(d.Op1)).Set(c.readWord(nn))
		r.WZ.Set(nn + 1)
	case inst.OpLdAddrPair:
		nn := c.fetchWord()
		c.writeWord(nn, r.Pair(inst.Pair(d.Op1)).Word())
		r.WZ.Set(nn + 1)
	case inst.OpLdSPPair:
		r.SP.Set(r.Pair(inst.Pair(d.Op1)).Word())
	case inst.OpPush:
		c.push(r.Pair(inst.Pair(d.Op1)).Word())
	case inst.OpPop:
		r.Pair(inst.Pair(d.Op1)).Set(c.pop())
	case inst.OpExAF:
		r.AF, r.Alt.AF = r.Alt.AF, r.AF
	case inst.OpExx:
		r.BC, r.Alt.BC = r.Alt.BC, r.BC
		r.DE, r.Alt.DE = r.Alt.DE, r.DE
		r.HL, r.Alt.HL = r.Alt.HL, r.HL
	case inst.OpExDEHL:
		r.DE, r.HL = r.HL, r.DE
	case inst.OpExSPPair:
		p := r.Pair(inst.Pair(d.Op1))
		sp := r.SP.Word()
		v := c.readWord(sp)
		c.writeWord(sp, p.Word())
		p.Set(v)
		r.WZ.Set(v)

	// === 8-bit arithmetic and logic ===
	case inst.OpAluR:
		c.alu(inst.AluKind(d.Op1), r.Get8(reg8(d.Op2)))
	case inst.OpAluN:
		c.alu(inst.AluKind(d.Op1), c.fetch())
	case inst.OpAluInd:
		c.alu(inst.AluKind(d.Op1), c.read(r.HL.Word()))
	case inst.OpAluIdx:
		c.alu(inst.AluKind(d.Op1), c.read(c.indexAddr(d.Op2)))
	case inst.OpIncR:
		r.Set8(reg8(d.Op1), c.inc(r.Get8(reg8(d.Op1))))
	case inst.OpDecR:
		r.Set8(reg8(d.Op1), c.dec(r.Get8(reg8(d.Op1))))
	case inst.OpIncInd:
		hl := r.HL.Word()
		c.write(hl, c.inc(c.read(hl)))
	case inst.OpDecInd:
		hl := r.HL.Word()
		c.write(hl, c.dec(c.read(hl)))
	case inst.OpIncIdx:
		addr := c.indexAddr(d.Op1)
		c.write(addr, c.inc(c.read(addr)))
	case inst.OpDecIdx:
		addr := c.indexAddr(d.Op1)
		c.write(addr, c.dec(c.read(addr)))
	case inst.OpDaa:
		c.daa()
	case inst.OpCpl:
		a := ^r.A()
		r.AF.Set(uint16(a)<<8 | uint16(r.F()&(FlagS|FlagZ|FlagP|FlagC)|FlagH|FlagN|a&(Flag3|Flag5)))
	case inst.OpScf:
		r.AF.SetLow(r.F()&(FlagS|FlagZ|FlagP) | r.A()&(Flag3|Flag5) | FlagC)
	case inst.OpCcf:
		f := r.F()
		r.AF.SetLow(f&(FlagS|FlagZ|FlagP) | bsel(f&FlagC != 0, FlagH, FlagC) | r.A()&(Flag3|Flag5))
	case inst.OpNeg:
		v := r.A()
		r.AF.SetHigh(0)
		c.alu(inst.AluSub, v)

	// === 16-bit arithmetic ===
	case inst.OpIncPair:
		r.Pair(inst.Pair(d.Op1)).Add(1)
	case inst.OpDecPair:
		r.Pair(inst.Pair(d.Op1)).Add(0xFFFF)
	case inst.OpAddPair:
		c.addPair(r.Pair(inst.Pair(d.Op1)), r.Pair(inst.Pair(d.Op2)).Word())
	case inst.OpAdcPair:
		c.adcHL(r.Pair(inst.Pair(d.Op2)).Word())
	case inst.OpSbcPair:
		c.sbcHL(r.Pair(inst.Pair(d.Op2)).Word())

	// === rotates, shifts and bits ===
	case inst.OpRotA:
		c.rotateA(inst.ShiftKind(d.Op1))
	case inst.OpShiftR:
		r.Set8(reg8(d.Op2), c.shift(inst.ShiftKind(d.Op1), r.Get8(reg8(d.Op2))))
	case inst.OpShiftInd:
		hl := r.HL.Word()
		c.write(hl, c.shift(inst.ShiftKind(d.Op1), c.read(hl)))
	case inst.OpShiftIdx:
		addr := c.indexAddrCB(d.Op2)
		v := c.shift(inst.ShiftKind(d.Op1), c.read(addr))
		c.write(addr, v)
		r.Set8(reg8(d.Op3), v)
	case inst.OpBitR:
		v := r.Get8(reg8(d.Op2))
		c.bit(d.Op1, v, v)
	case inst.OpBitInd:
		c.bit(d.Op1, c.read(r.HL.Word()), r.WZ.High())
	case inst.OpBitIdx:
		addr := c.indexAddrCB(d.Op2)
		c.bit(d.Op1, c.read(addr), uint8(addr>>8))
	case inst.OpResR:
		r.Set8(reg8(d.Op2), r.Get8(reg8(d.Op2))&^(1<<d.Op1))
	case inst.OpResInd:
		hl := r.HL.Word()
		c.write(hl, c.read(hl)&^(1<<d.Op1))
	case inst.OpResIdx:
		addr := c.indexAddrCB(d.Op2)
		v := c.read(addr) &^ (1 << d.Op1)
		c.write(addr, v)
		r.Set8(reg8(d.Op3), v)
	case inst.OpSetR:
		r.Set8(reg8(d.Op2), r.Get8(reg8(d.Op2))|1<<d.Op1)
	case inst.OpSetInd:
		hl := r.HL.Word()
		c.write(hl, c.read(hl)|1<<d.Op1)
	case inst.OpSetIdx:
		addr := c.indexAddrCB(d.Op2)
		v := c.read(addr) | 1<<d.Op1
		c.write(addr, v)
		r.Set8(reg8(d.Op3), v)
	case inst.OpRrd:
		c.rrd()
	case inst.OpRld:
		c.rld()

	// === block instructions ===
	case inst.OpLdi:
		c.blockLoad(1)
	case inst.OpLdd:
		c.blockLoad(0xFFFF)
	case inst.OpLdir:
		c.blockLoad(1)
		c.repeat(true)
	case inst.OpLddr:
		c.blockLoad(0xFFFF)
		c.repeat(true)
	case inst.OpCpi:
		c.blockCompare(1)
	case inst.OpCpd:
		c.blockCompare(0xFFFF)
	case inst.OpCpir:
		c.blockCompare(1)
		c.repeat(true)
	case inst.OpCpdr:
		c.blockCompare(0xFFFF)
		c.repeat(true)
	case inst.OpIni:
		c.blockIn(1)
	case inst.OpInd:
		c.blockIn(0xFFFF)
	case inst.OpInir:
		c.blockIn(1)
		c.repeat(false)
	case inst.OpIndr:
		c.blockIn(0xFFFF)
		c.repeat(false)
	case inst.OpOuti:
		c.blockOut(1)
	case inst.OpOutd:
		c.blockOut(0xFFFF)
	case inst.OpOtir:
		c.blockOut(1)
		c.repeat(false)
	case inst.OpOtdr:
		c.blockOut(0xFFFF)
		c.repeat(false)

	// === control flow ===
	case inst.OpJp:
		c.pc = c.fetchWord()
		r.WZ.Set(c.pc)
	case inst.OpJpCond:
		nn := c.fetchWord()
		r.WZ.Set(nn)
		if c.willJump {
			c.pc = nn
		}
	case inst.OpJpPair:
		c.pc = r.Pair(inst.Pair(d.Op1)).Word()
	case inst.OpJr:
		c.jr()
	case inst.OpJrCond, inst.OpDjnz:
		if d.Op == inst.OpDjnz {
			r.BC.SetHigh(r.B() - 1)
		}
		if c.willJump {
			c.jr()
		} else {
			c.pc++
		}
	case inst.OpCall:
		nn := c.fetchWord()
		r.WZ.Set(nn)
		c.push(c.pc)
		c.pc = nn
	case inst.OpCallCond:
		nn := c.fetchWord()
		r.WZ.Set(nn)
		if c.willJump {
			c.push(c.pc)
			c.pc = nn
		}
	case inst.OpRet:
		c.ret()
	case inst.OpRetCond:
		if c.willJump {
			c.ret()
		}
	case inst.OpRetn, inst.OpReti:
		c.iff1 = c.iff2
		c.ret()
	case inst.OpRst:
		c.push(c.pc)
		c.pc = uint16(d.Op1)
		r.WZ.Set(c.pc)

	// === I/O and interrupt control ===
	case inst.OpInAN:
		port := uint16(r.A())<<8 | uint16(c.fetch())
		r.AF.SetHigh(c.in(port))
		r.WZ.Set(port + 1)
	case inst.OpOutNA:
		n, a := c.fetch(), r.A()
		c.out(uint16(a)<<8|uint16(n), a)
		r.WZ.Set(uint16(a)<<8 | uint16(n+1))
	case inst.OpInRC:
		bc := r.BC.Word()
		v := c.in(bc)
		r.Set8(reg8(d.Op1), v)
		r.AF.SetLow(r.F()&FlagC | Sz53pTable[v])
		r.WZ.Set(bc + 1)
	case inst.OpOutCR:
		bc := r.BC.Word()
		c.out(bc, r.Get8(reg8(d.Op1)))
		r.WZ.Set(bc + 1)
	case inst.OpDi:
		c.iff1, c.iff2 = false, false
		c.deferIRQ = true
	case inst.OpEi:
		c.iff1, c.iff2 = true, true
		c.deferIRQ = true
	case inst.OpIm:
		c.im = d.Op1
	}
}

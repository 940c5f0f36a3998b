package inst

// Tables holds the seven opcode tables, indexed by Table and opcode byte.
// Every slot of every table is populated; slots that the decoder never
// dispatches (prefix bytes) carry OpPrefix.
var Tables [TableCount][256]Descriptor

// Lookup returns the descriptor for an opcode byte in the given table.
func Lookup(t Table, opcode uint8) *Descriptor {
	return &Tables[t][opcode]
}

// lastCycle picks the length of the final M-cycle. Cycles before it share
// the remaining T-states, which keeps every per-cycle length positive.
func lastCycle(t, m int) int {
	if m == 1 {
		return t
	}
	last := t - 4*(m-1)
	if last < 3 || last > 6 {
		last = 3
	}
	return last
}

func entry(op Op, t, m int) Descriptor {
	last := uint8(lastCycle(t, m))
	return Descriptor{
		Op:                op,
		TStates:           uint8(t),
		MCycles:           uint8(m),
		LastTStates:       last,
		TStatesNoJump:     uint8(t),
		MCyclesNoJump:     uint8(m),
		LastTStatesNoJump: last,
	}
}

func (d Descriptor) operands(ops ...uint8) Descriptor {
	if len(ops) > 0 {
		d.Op1 = ops[0]
	}
	if len(ops) > 1 {
		d.Op2 = ops[1]
	}
	if len(ops) > 2 {
		d.Op3 = ops[2]
	}
	return d
}

// branch sets the cost used when the runtime test fails.
func (d Descriptor) branch(kind BranchKind, t, m int) Descriptor {
	d.Branch = kind
	d.TStatesNoJump = uint8(t)
	d.MCyclesNoJump = uint8(m)
	d.LastTStatesNoJump = uint8(lastCycle(t, m))
	return d
}

// plus adds a prefix fetch to both costs.
func (d Descriptor) plus(t, m int) Descriptor {
	d.TStates += uint8(t)
	d.MCycles += uint8(m)
	d.LastTStates = uint8(lastCycle(int(d.TStates), int(d.MCycles)))
	d.TStatesNoJump += uint8(t)
	d.MCyclesNoJump += uint8(m)
	d.LastTStatesNoJump = uint8(lastCycle(int(d.TStatesNoJump), int(d.MCyclesNoJump)))
	return d
}

// hlMode describes how a base table treats HL, H, L and (HL).
type hlMode struct {
	pair    Pair
	h, l    Reg8
	indexed bool
}

var (
	modeHL = hlMode{pair: PairHL, h: RegH, l: RegL}
	modeIX = hlMode{pair: PairIX, h: RegIXH, l: RegIXL, indexed: true}
	modeIY = hlMode{pair: PairIY, h: RegIYH, l: RegIYL, indexed: true}
)

func (m hlMode) reg(r int) uint8 {
	switch Reg8(r) {
	case RegH:
		return uint8(m.h)
	case RegL:
		return uint8(m.l)
	}
	return uint8(r)
}

func (m hlMode) rp(p int) uint8 {
	if Pair(p) == PairHL {
		return uint8(m.pair)
	}
	return uint8(p)
}

func (m hlMode) rp2(p int) uint8 {
	if p == 3 {
		return uint8(PairAF)
	}
	return m.rp(p)
}

func init() {
	buildBase(&Tables[Main], modeHL)
	buildBase(&Tables[DD], modeIX)
	buildBase(&Tables[FD], modeIY)
	buildCB(&Tables[CB])
	buildED(&Tables[ED])
	buildIndexedCB(&Tables[DDCB], PairIX)
	buildIndexedCB(&Tables[FDCB], PairIY)
}

// buildBase fills the unprefixed table, or the DD/FD table when mode is
// indexed. Indexed tables include the cost of the prefix fetch.
func buildBase(t *[256]Descriptor, mode hlMode) {
	hl := uint8(mode.pair)
	for i := 0; i < 256; i++ {
		x, y, z := i>>6, (i>>3)&7, i&7
		p, q := y>>1, y&1
		var d Descriptor
		mem := false // (HL) form, costed explicitly in indexed tables

		switch x {
		case 0:
			switch z {
			case 0:
				switch {
				case y == 0:
					d = entry(OpNop, 4, 1)
				case y == 1:
					d = entry(OpExAF, 4, 1)
				case y == 2:
					d = entry(OpDjnz, 13, 3).branch(BranchDJNZ, 8, 2)
				case y == 3:
					d = entry(OpJr, 12, 3)
				default:
					d = entry(OpJrCond, 12, 3).operands(uint8(y-4)).branch(BranchCond, 7, 2)
				}
			case 1:
				if q == 0 {
					d = entry(OpLdPairNN, 10, 3).operands(mode.rp(p))
				} else {
					d = entry(OpAddPair, 11, 3).operands(hl, mode.rp(p))
				}
			case 2:
				switch y {
				case 0:
					d = entry(OpLdIndR, 7, 2).operands(uint8(PairBC), uint8(RegA))
				case 1:
					d = entry(OpLdRInd, 7, 2).operands(uint8(RegA), uint8(PairBC))
				case 2:
					d = entry(OpLdIndR, 7, 2).operands(uint8(PairDE), uint8(RegA))
				case 3:
					d = entry(OpLdRInd, 7, 2).operands(uint8(RegA), uint8(PairDE))
				case 4:
					d = entry(OpLdAddrPair, 16, 5).operands(hl)
				case 5:
					d = entry(OpLdPairAddr, 16, 5).operands(hl)
				case 6:
					d = entry(OpLdAddrA, 13, 4)
				case 7:
					d = entry(OpLdAAddr, 13, 4)
				}
			case 3:
				if q == 0 {
					d = entry(OpIncPair, 6, 1).operands(mode.rp(p))
				} else {
					d = entry(OpDecPair, 6, 1).operands(mode.rp(p))
				}
			case 4, 5:
				inc := z == 4
				switch {
				case y != 6:
					op := OpDecR
					if inc {
						op = OpIncR
					}
					d = entry(op, 4, 1).operands(mode.reg(y))
				case mode.indexed:
					op := OpDecIdx
					if inc {
						op = OpIncIdx
					}
					d, mem = entry(op, 23, 6).operands(hl), true
				default:
					op := OpDecInd
					if inc {
						op = OpIncInd
					}
					d = entry(op, 11, 3)
				}
			case 6:
				switch {
				case y != 6:
					d = entry(OpLdRN, 7, 2).operands(mode.reg(y))
				case mode.indexed:
					d, mem = entry(OpLdIdxN, 19, 5).operands(hl), true
				default:
					d = entry(OpLdIndN, 10, 3).operands(hl)
				}
			case 7:
				switch y {
				case 0, 1, 2, 3:
					d = entry(OpRotA, 4, 1).operands(uint8(y))
				case 4:
					d = entry(OpDaa, 4, 1)
				case 5:
					d = entry(OpCpl, 4, 1)
				case 6:
					d = entry(OpScf, 4, 1)
				case 7:
					d = entry(OpCcf, 4, 1)
				}
			}

		case 1:
			switch {
			case y == 6 && z == 6:
				d = entry(OpHalt, 4, 1)
			case z == 6 && mode.indexed:
				d, mem = entry(OpLdRIdx, 19, 5).operands(uint8(y), hl), true
			case z == 6:
				d = entry(OpLdRInd, 7, 2).operands(uint8(y), hl)
			case y == 6 && mode.indexed:
				d, mem = entry(OpLdIdxR, 19, 5).operands(hl, uint8(z)), true
			case y == 6:
				d = entry(OpLdIndR, 7, 2).operands(hl, uint8(z))
			default:
				d = entry(OpLdRR, 4, 1).operands(mode.reg(y), mode.reg(z))
			}

		case 2:
			switch {
			case z == 6 && mode.indexed:
				d, mem = entry(OpAluIdx, 19, 5).operands(uint8(y), hl), true
			case z == 6:
				d = entry(OpAluInd, 7, 2).operands(uint8(y))
			default:
				d = entry(OpAluR, 4, 1).operands(uint8(y), mode.reg(z))
			}

		case 3:
			switch z {
			case 0:
				d = entry(OpRetCond, 11, 3).operands(uint8(y)).branch(BranchCond, 5, 1)
			case 1:
				switch {
				case q == 0:
					d = entry(OpPop, 10, 3).operands(mode.rp2(p))
				case p == 0:
					d = entry(OpRet, 10, 3)
				case p == 1:
					d = entry(OpExx, 4, 1)
				case p == 2:
					d = entry(OpJpPair, 4, 1).operands(hl)
				default:
					d = entry(OpLdSPPair, 6, 1).operands(hl)
				}
			case 2:
				d = entry(OpJpCond, 10, 3).operands(uint8(y)).branch(BranchCond, 10, 3)
			case 3:
				switch y {
				case 0:
					d = entry(OpJp, 10, 3)
				case 1:
					d = Descriptor{Op: OpPrefix}
				case 2:
					d = entry(OpOutNA, 11, 3)
				case 3:
					d = entry(OpInAN, 11, 3)
				case 4:
					d = entry(OpExSPPair, 19, 5).operands(hl)
				case 5:
					d = entry(OpExDEHL, 4, 1)
				case 6:
					d = entry(OpDi, 4, 1)
				case 7:
					d = entry(OpEi, 4, 1)
				}
			case 4:
				d = entry(OpCallCond, 17, 5).operands(uint8(y)).branch(BranchCond, 10, 3)
			case 5:
				switch {
				case q == 0:
					d = entry(OpPush, 11, 3).operands(mode.rp2(p))
				case p == 0:
					d = entry(OpCall, 17, 5)
				default:
					d = Descriptor{Op: OpPrefix}
				}
			case 6:
				d = entry(OpAluN, 7, 2).operands(uint8(y))
			case 7:
				d = entry(OpRst, 11, 3).operands(uint8(y * 8))
			}
		}

		if mode.indexed && !mem && d.Op != OpPrefix {
			d = d.plus(4, 1)
		}
		t[i] = d
	}
}

// buildCB fills the CB table. Costs include the CB fetch.
func buildCB(t *[256]Descriptor) {
	for i := 0; i < 256; i++ {
		x, y, z := i>>6, uint8((i>>3)&7), uint8(i&7)
		ind := z == 6
		switch x {
		case 0:
			if ind {
				t[i] = entry(OpShiftInd, 15, 4).operands(y)
			} else {
				t[i] = entry(OpShiftR, 8, 2).operands(y, z)
			}
		case 1:
			if ind {
				t[i] = entry(OpBitInd, 12, 3).operands(y)
			} else {
				t[i] = entry(OpBitR, 8, 2).operands(y, z)
			}
		case 2:
			if ind {
				t[i] = entry(OpResInd, 15, 4).operands(y)
			} else {
				t[i] = entry(OpResR, 8, 2).operands(y, z)
			}
		case 3:
			if ind {
				t[i] = entry(OpSetInd, 15, 4).operands(y)
			} else {
				t[i] = entry(OpSetR, 8, 2).operands(y, z)
			}
		}
	}
}

// buildIndexedCB fills a DDCB/FDCB table. Every entry addresses (IX+d); a
// register field other than 6 names the register that receives a copy of
// the result. BIT ignores it.
func buildIndexedCB(t *[256]Descriptor, idx Pair) {
	for i := 0; i < 256; i++ {
		x, y, z := i>>6, uint8((i>>3)&7), uint8(i&7)
		switch x {
		case 0:
			t[i] = entry(OpShiftIdx, 23, 6).operands(y, uint8(idx), z)
		case 1:
			t[i] = entry(OpBitIdx, 20, 5).operands(y, uint8(idx))
		case 2:
			t[i] = entry(OpResIdx, 23, 6).operands(y, uint8(idx), z)
		case 3:
			t[i] = entry(OpSetIdx, 23, 6).operands(y, uint8(idx), z)
		}
	}
}

var (
	edIM    = [8]uint8{0, 0, 1, 2, 0, 0, 1, 2}
	edBlock = [4][4]Op{
		{OpLdi, OpCpi, OpIni, OpOuti},
		{OpLdd, OpCpd, OpInd, OpOutd},
		{OpLdir, OpCpir, OpInir, OpOtir},
		{OpLddr, OpCpdr, OpIndr, OpOtdr},
	}
	edBlockBranch = [4]BranchKind{BranchBlock, BranchBlockCompare, BranchDJNZ, BranchDJNZ}
)

// buildED fills the ED table. Costs include the ED fetch; undefined slots
// behave as an 8 T-state NOP.
func buildED(t *[256]Descriptor) {
	for i := 0; i < 256; i++ {
		x, y, z := i>>6, (i>>3)&7, i&7
		p, q := y>>1, y&1
		d := entry(OpNop, 8, 2)

		switch {
		case x == 1:
			switch z {
			case 0:
				d = entry(OpInRC, 12, 3).operands(uint8(y))
			case 1:
				d = entry(OpOutCR, 12, 3).operands(uint8(y))
			case 2:
				if q == 0 {
					d = entry(OpSbcPair, 15, 4).operands(uint8(PairHL), uint8(p))
				} else {
					d = entry(OpAdcPair, 15, 4).operands(uint8(PairHL), uint8(p))
				}
			case 3:
				if q == 0 {
					d = entry(OpLdAddrPair, 20, 6).operands(uint8(p))
				} else {
					d = entry(OpLdPairAddr, 20, 6).operands(uint8(p))
				}
			case 4:
				d = entry(OpNeg, 8, 2)
			case 5:
				if y == 1 {
					d = entry(OpReti, 14, 4)
				} else {
					d = entry(OpRetn, 14, 4)
				}
			case 6:
				d = entry(OpIm, 8, 2).operands(edIM[y])
			case 7:
				switch y {
				case 0:
					d = entry(OpLdRR, 9, 2).operands(uint8(RegI), uint8(RegA))
				case 1:
					d = entry(OpLdRR, 9, 2).operands(uint8(RegR), uint8(RegA))
				case 2:
					d = entry(OpLdAIR, 9, 2).operands(uint8(RegA), uint8(RegI))
				case 3:
					d = entry(OpLdAIR, 9, 2).operands(uint8(RegA), uint8(RegR))
				case 4:
					d = entry(OpRrd, 18, 5)
				case 5:
					d = entry(OpRld, 18, 5)
				}
			}
		case x == 2 && z <= 3 && y >= 4:
			op := edBlock[y-4][z]
			if y >= 6 {
				d = entry(op, 21, 5).branch(edBlockBranch[z], 16, 4)
			} else {
				d = entry(op, 16, 4)
			}
		}
		t[i] = d
	}
}

package inst

import "strconv"

var (
	reg8Names = [...]string{"B", "C", "D", "E", "H", "L", "(HL)", "A", "F", "IXH", "IXL", "IYH", "IYL", "I", "R"}
	pairNames = [...]string{"BC", "DE", "HL", "SP", "AF", "IX", "IY", "-"}
	aluNames  = [...]string{"ADD A, ", "ADC A, ", "SUB ", "SBC A, ", "AND ", "XOR ", "OR ", "CP "}
	shiftName = [...]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SLL", "SRL"}
	rotAName  = [...]string{"RLCA", "RRCA", "RLA", "RRA"}
	condNames = [...]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}
)

func (r Reg8) String() string {
	if int(r) < len(reg8Names) {
		return reg8Names[r]
	}
	return "?"
}

func (p Pair) String() string {
	if int(p) < len(pairNames) {
		return pairNames[p]
	}
	return "?"
}

func (c Cond) String() string { return condNames[c&7] }

var simpleNames = map[Op]string{
	OpNop: "NOP", OpHalt: "HALT", OpExAF: "EX AF, AF'", OpExx: "EXX", OpExDEHL: "EX DE, HL",
	OpDaa: "DAA", OpCpl: "CPL", OpScf: "SCF", OpCcf: "CCF", OpNeg: "NEG",
	OpRrd: "RRD", OpRld: "RLD",
	OpLdi: "LDI", OpLdd: "LDD", OpLdir: "LDIR", OpLddr: "LDDR",
	OpCpi: "CPI", OpCpd: "CPD", OpCpir: "CPIR", OpCpdr: "CPDR",
	OpIni: "INI", OpInd: "IND", OpInir: "INIR", OpIndr: "INDR",
	OpOuti: "OUTI", OpOutd: "OUTD", OpOtir: "OTIR", OpOtdr: "OTDR",
	OpJp: "JP nn", OpJr: "JR e", OpDjnz: "DJNZ e", OpCall: "CALL nn",
	OpRet: "RET", OpRetn: "RETN", OpReti: "RETI",
	OpInAN: "IN A, (n)", OpOutNA: "OUT (n), A", OpDi: "DI", OpEi: "EI",
	OpLdAAddr: "LD A, (nn)", OpLdAddrA: "LD (nn), A", OpIncInd: "INC (HL)", OpDecInd: "DEC (HL)",
	OpPrefix: "PREFIX",
}

func idx(p uint8) string { return "(" + Pair(p).String() + "+d)" }

// appendHex8 appends v as two upper-case hex digits and an h suffix.
func appendHex8(b []byte, v uint8) []byte {
	const digits = "0123456789ABCDEF"
	return append(b, digits[v>>4], digits[v&0x0F], 'h')
}

// Mnemonic returns the assembly form of a descriptor. Operand bytes appear as
// placeholders: n (byte), nn (word), d (index displacement), e (relative jump).
func Mnemonic(d *Descriptor) string {
	if s, ok := simpleNames[d.Op]; ok {
		return s
	}
	r1, r2 := Reg8(d.Op1), Reg8(d.Op2)
	p1, p2 := Pair(d.Op1), Pair(d.Op2)
	bit := strconv.Itoa(int(d.Op1))
	copyTo := ""
	if Reg8(d.Op3) != RegNone {
		copyTo = ", " + Reg8(d.Op3).String()
	}

	switch d.Op {
	case OpLdRR:
		return "LD " + r1.String() + ", " + r2.String()
	case OpLdRN:
		return "LD " + r1.String() + ", n"
	case OpLdRInd:
		return "LD " + r1.String() + ", (" + p2.String() + ")"
	case OpLdIndR:
		return "LD (" + p1.String() + "), " + r2.String()
	case OpLdIndN:
		return "LD (HL), n"
	case OpLdRIdx:
		return "LD " + r1.String() + ", " + idx(d.Op2)
	case OpLdIdxR:
		return "LD " + idx(d.Op1) + ", " + r2.String()
	case OpLdIdxN:
		return "LD " + idx(d.Op1) + ", n"
	case OpLdPairNN:
		return "LD " + p1.String() + ", nn"
	case OpLdPairAddr:
		return "LD " + p1.String() + ", (nn)"
	case OpLdAddrPair:
		return "LD (nn), " + p1.String()
	case OpLdSPPair:
		return "LD SP, " + p1.String()
	case OpLdAIR:
		return "LD A, " + r2.String()
	case OpPush:
		return "PUSH " + p1.String()
	case OpPop:
		return "POP " + p1.String()
	case OpExSPPair:
		return "EX (SP), " + p1.String()
	case OpAluR:
		return aluNames[d.Op1&7] + r2.String()
	case OpAluN:
		return aluNames[d.Op1&7] + "n"
	case OpAluInd:
		return aluNames[d.Op1&7] + "(HL)"
	case OpAluIdx:
		return aluNames[d.Op1&7] + idx(d.Op2)
	case OpIncR:
		return "INC " + r1.String()
	case OpDecR:
		return "DEC " + r1.String()
	case OpIncIdx:
		return "INC " + idx(d.Op1)
	case OpDecIdx:
		return "DEC " + idx(d.Op1)
	case OpIncPair:
		return "INC " + p1.String()
	case OpDecPair:
		return "DEC " + p1.String()
	case OpAddPair:
		return "ADD " + p1.String() + ", " + p2.String()
	case OpAdcPair:
		return "ADC HL, " + p2.String()
	case OpSbcPair:
		return "SBC HL, " + p2.String()
	case OpRotA:
		return rotAName[d.Op1&3]
	case OpShiftR:
		return shiftName[d.Op1&7] + " " + r2.String()
	case OpShiftInd:
		return shiftName[d.Op1&7] + " (HL)"
	case OpShiftIdx:
		return shiftName[d.Op1&7] + " " + idx(d.Op2) + copyTo
	case OpBitR:
		return "BIT " + bit + ", " + r2.String()
	case OpBitInd:
		return "BIT " + bit + ", (HL)"
	case OpBitIdx:
		return "BIT " + bit + ", " + idx(d.Op2)
	case OpResR:
		return "RES " + bit + ", " + r2.String()
	case OpResInd:
		return "RES " + bit + ", (HL)"
	case OpResIdx:
		return "RES " + bit + ", " + idx(d.Op2) + copyTo
	case OpSetR:
		return "SET " + bit + ", " + r2.String()
	case OpSetInd:
		return "SET " + bit + ", (HL)"
	case OpSetIdx:
		return "SET " + bit + ", " + idx(d.Op2) + copyTo
	case OpJpCond:
		return "JP " + Cond(d.Op1).String() + ", nn"
	case OpJpPair:
		return "JP (" + p1.String() + ")"
	case OpJrCond:
		return "JR " + Cond(d.Op1).String() + ", e"
	case OpCallCond:
		return "CALL " + Cond(d.Op1).String() + ", nn"
	case OpRetCond:
		return "RET " + Cond(d.Op1).String()
	case OpRst:
		return string(appendHex8([]byte("RST "), d.Op1))
	case OpInRC:
		if r1 == RegNone {
			return "IN (C)"
		}
		return "IN " + r1.String() + ", (C)"
	case OpOutCR:
		if r1 == RegNone {
			return "OUT (C), 0"
		}
		return "OUT (C), " + r1.String()
	case OpIm:
		return "IM " + bit
	}
	return "???"
}

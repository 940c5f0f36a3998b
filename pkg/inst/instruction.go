package inst

// Op is the operation tag of an opcode table entry. It selects the semantic
// handler; the operand selectors of the Descriptor carry everything else, so
// handlers never look at the raw opcode byte.
type Op uint8

// Operation tags, grouped like the handler families that implement them.
const (
	OpNop Op = iota
	OpPrefix // table slot occupied by a prefix byte, never dispatched
	OpHalt

	// === 8-bit and 16-bit loads ===
	OpLdRR       // LD r, r'              Op1=dst Op2=src
	OpLdRN       // LD r, n               Op1=dst
	OpLdRInd     // LD r, (rr)            Op1=dst Op2=pair
	OpLdIndR     // LD (rr), r            Op1=pair Op2=src
	OpLdIndN     // LD (HL), n            Op1=pair
	OpLdRIdx     // LD r, (IX+d)          Op1=dst Op2=index
	OpLdIdxR     // LD (IX+d), r          Op1=index Op2=src
	OpLdIdxN     // LD (IX+d), n          Op1=index
	OpLdAAddr    // LD A, (nn)
	OpLdAddrA    // LD (nn), A
	OpLdPairNN   // LD rr, nn             Op1=pair
	OpLdPairAddr // LD rr, (nn)           Op1=pair
	OpLdAddrPair // LD (nn), rr           Op1=pair
	OpLdSPPair   // LD SP, rr             Op1=pair
	OpLdAIR      // LD A, I / LD A, R     Op2=I or R
	OpPush       // PUSH rr               Op1=pair
	OpPop        // POP rr                Op1=pair
	OpExAF       // EX AF, AF'
	OpExx        // EXX
	OpExDEHL     // EX DE, HL
	OpExSPPair   // EX (SP), rr           Op1=pair

	// === 8-bit arithmetic and logic ===
	OpAluR   // ALU A, r              Op1=AluKind Op2=src
	OpAluN   // ALU A, n              Op1=AluKind
	OpAluInd // ALU A, (HL)           Op1=AluKind
	OpAluIdx // ALU A, (IX+d)         Op1=AluKind Op2=index
	OpIncR   // INC r                 Op1=reg
	OpDecR   // DEC r                 Op1=reg
	OpIncInd // INC (HL)
	OpDecInd // DEC (HL)
	OpIncIdx // INC (IX+d)            Op1=index
	OpDecIdx // DEC (IX+d)            Op1=index
	OpDaa
	OpCpl
	OpScf
	OpCcf
	OpNeg

	// === 16-bit arithmetic ===
	OpIncPair // INC rr               Op1=pair
	OpDecPair // DEC rr               Op1=pair
	OpAddPair // ADD rr, rr'          Op1=dst Op2=src
	OpAdcPair // ADC HL, rr           Op1=HL Op2=src
	OpSbcPair // SBC HL, rr           Op1=HL Op2=src

	// === rotates, shifts and bit operations ===
	OpRotA     // RLCA/RRCA/RLA/RRA  Op1=ShiftKind
	OpShiftR   // CB rot r           Op1=ShiftKind Op2=reg
	OpShiftInd // CB rot (HL)        Op1=ShiftKind
	OpShiftIdx // CB rot (IX+d)      Op1=ShiftKind Op2=index Op3=copy reg or RegNone
	OpBitR     // BIT b, r           Op1=bit Op2=reg
	OpBitInd   // BIT b, (HL)        Op1=bit
	OpBitIdx   // BIT b, (IX+d)      Op1=bit Op2=index
	OpResR     // RES b, r           Op1=bit Op2=reg
	OpResInd   // RES b, (HL)        Op1=bit
	OpResIdx   // RES b, (IX+d)      Op1=bit Op2=index Op3=copy reg or RegNone
	OpSetR     // SET b, r           Op1=bit Op2=reg
	OpSetInd   // SET b, (HL)        Op1=bit
	OpSetIdx   // SET b, (IX+d)      Op1=bit Op2=index Op3=copy reg or RegNone
	OpRrd
	OpRld

	// === block transfer, search and I/O ===
	OpLdi
	OpLdd
	OpLdir
	OpLddr
	OpCpi
	OpCpd
	OpCpir
	OpCpdr
	OpIni
	OpInd
	OpInir
	OpIndr
	OpOuti
	OpOutd
	OpOtir
	OpOtdr

	// === control flow ===
	OpJp       // JP nn
	OpJpCond   // JP cc, nn         Op1=Cond
	OpJpPair   // JP (rr)           Op1=pair
	OpJr       // JR d
	OpJrCond   // JR cc, d          Op1=Cond
	OpDjnz     // DJNZ d
	OpCall     // CALL nn
	OpCallCond // CALL cc, nn       Op1=Cond
	OpRet      // RET
	OpRetCond  // RET cc            Op1=Cond
	OpRetn
	OpReti
	OpRst // RST p               Op1=target address

	// === port I/O and interrupt control ===
	OpInAN  // IN A, (n)
	OpOutNA // OUT (n), A
	OpInRC  // IN r, (C)         Op1=reg or RegNone (flags only)
	OpOutCR // OUT (C), r        Op1=reg or RegNone (writes 0)
	OpDi
	OpEi
	OpIm // IM n               Op1=mode

	OpCount
)

// Table identifies one of the seven opcode tables.
type Table uint8

const (
	Main Table = iota
	CB
	ED
	DD
	FD
	DDCB
	FDCB
	TableCount
)

var tableNames = [TableCount]string{"main", "CB", "ED", "DD", "FD", "DDCB", "FDCB"}

func (t Table) String() string {
	if t < TableCount {
		return tableNames[t]
	}
	return "invalid"
}

// Prefix returns the bytes that precede the opcode byte for this table. For
// DDCB/FDCB the displacement sits between the prefix and the opcode.
func (t Table) Prefix() []byte {
	switch t {
	case CB:
		return []byte{0xCB}
	case ED:
		return []byte{0xED}
	case DD:
		return []byte{0xDD}
	case FD:
		return []byte{0xFD}
	case DDCB:
		return []byte{0xDD, 0xCB}
	case FDCB:
		return []byte{0xFD, 0xCB}
	}
	return nil
}

// Reg8 selects an 8-bit register. The first eight values follow the Z80
// r-field encoding, with RegNone in the (HL) slot.
type Reg8 uint8

const (
	RegB Reg8 = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegNone
	RegA
	RegF
	RegIXH
	RegIXL
	RegIYH
	RegIYL
	RegI
	RegR
)

// Pair selects a 16-bit register pair.
type Pair uint8

const (
	PairBC Pair = iota
	PairDE
	PairHL
	PairSP
	PairAF
	PairIX
	PairIY
	PairNone
)

// AluKind selects the 8-bit accumulator operation, in encoding order.
type AluKind uint8

const (
	AluAdd AluKind = iota
	AluAdc
	AluSub
	AluSbc
	AluAnd
	AluXor
	AluOr
	AluCp
)

// ShiftKind selects the rotate/shift operation, in encoding order.
type ShiftKind uint8

const (
	ShiftRlc ShiftKind = iota
	ShiftRrc
	ShiftRl
	ShiftRr
	ShiftSla
	ShiftSra
	ShiftSll
	ShiftSrl
)

// Cond is a branch condition, in encoding order.
type Cond uint8

const (
	CondNZ Cond = iota
	CondZ
	CondNC
	CondC
	CondPO
	CondPE
	CondP
	CondM
)

// BranchKind selects the runtime test that decides which cost pair of a
// Descriptor applies.
type BranchKind uint8

const (
	BranchNone         BranchKind = iota // single cost
	BranchCond                           // flag condition in Op1
	BranchDJNZ                           // B-1 != 0 (DJNZ, INIR/INDR/OTIR/OTDR)
	BranchBlock                          // BC-1 != 0 (LDIR/LDDR)
	BranchBlockCompare                   // BC-1 != 0 && A != (HL) (CPIR/CPDR)
)

// Descriptor is the timing and operand record of one opcode table entry.
// TStates/MCycles/LastTStates apply when the branch is taken (or always for
// BranchNone); the NoJump triple applies otherwise.
type Descriptor struct {
	Op            Op
	Op1, Op2, Op3 uint8

	TStates     uint8
	MCycles     uint8
	LastTStates uint8

	TStatesNoJump     uint8
	MCyclesNoJump     uint8
	LastTStatesNoJump uint8

	Branch BranchKind
}

// Cost returns the T-state, M-cycle and final M-cycle cost for the given
// branch decision.
func (d *Descriptor) Cost(taken bool) (tstates, mcycles, last int) {
	if taken {
		return int(d.TStates), int(d.MCycles), int(d.LastTStates)
	}
	return int(d.TStatesNoJump), int(d.MCyclesNoJump), int(d.LastTStatesNoJump)
}

// Indexed reports whether the entry addresses memory through (IX+d)/(IY+d),
// which means a displacement byte follows the opcode in the stream.
func (d *Descriptor) Indexed() bool {
	switch d.Op {
	case OpLdRIdx, OpLdIdxR, OpLdIdxN, OpAluIdx, OpIncIdx, OpDecIdx,
		OpShiftIdx, OpBitIdx, OpResIdx, OpSetIdx:
		return true
	}
	return false
}

// OperandBytes returns how many bytes follow the opcode byte (displacement and
// immediates). DDCB/FDCB entries report 1: the displacement precedes the
// opcode, so nothing follows it.
func (d *Descriptor) OperandBytes(t Table) int {
	if t == DDCB || t == FDCB {
		return 1
	}
	n := 0
	if d.Indexed() {
		n++
	}
	switch d.Op {
	case OpLdRN, OpLdIndN, OpLdIdxN, OpAluN, OpJr, OpJrCond, OpDjnz, OpInAN, OpOutNA:
		n++
	case OpLdAAddr, OpLdAddrA, OpLdPairNN, OpLdPairAddr, OpLdAddrPair,
		OpJp, OpJpCond, OpCall, OpCallCond:
		n += 2
	}
	return n
}

package inst

import (
	"testing"
)

// TestTablesComplete verifies every slot outside the prefix bytes has a cost.
func TestTablesComplete(t *testing.T) {
	for tbl := Main; tbl < TableCount; tbl++ {
		for op := 0; op < 256; op++ {
			d := Lookup(tbl, uint8(op))
			if d.Op == OpPrefix {
				continue
			}
			if d.TStates == 0 || d.MCycles == 0 || d.TStatesNoJump == 0 || d.MCyclesNoJump == 0 {
				t.Errorf("%s %02X (%s): zero cost %+v", tbl, op, Mnemonic(d), *d)
			}
		}
	}
}

// TestCycleSplit verifies each cost can be split into M-cycles of at least
// 3 T-states, with the last cycle inside the total.
func TestCycleSplit(t *testing.T) {
	for tbl := Main; tbl < TableCount; tbl++ {
		for op := 0; op < 256; op++ {
			d := Lookup(tbl, uint8(op))
			if d.Op == OpPrefix {
				continue
			}
			for _, taken := range []bool{true, false} {
				ts, m, last := d.Cost(taken)
				if last <= 0 || last > ts {
					t.Errorf("%s %02X: last cycle %d of %d", tbl, op, last, ts)
				}
				if m > 1 && (ts-last)/(m-1) < 3 {
					t.Errorf("%s %02X: %dT over %dM leaves short cycles", tbl, op, ts, m)
				}
				if m == 1 && last != ts {
					t.Errorf("%s %02X: single cycle %d != %d", tbl, op, last, ts)
				}
			}
		}
	}
}

func TestPrefixSlots(t *testing.T) {
	for _, op := range []uint8{0xCB, 0xDD, 0xED, 0xFD} {
		if Tables[Main][op].Op != OpPrefix {
			t.Errorf("main %02X should be a prefix slot", op)
		}
	}
	for _, tbl := range []Table{DD, FD} {
		for _, op := range []uint8{0xCB, 0xDD, 0xED, 0xFD} {
			if Tables[tbl][op].Op != OpPrefix {
				t.Errorf("%s %02X should be a prefix slot", tbl, op)
			}
		}
	}
}

func TestKnownTimings(t *testing.T) {
	tests := []struct {
		tbl       Table
		op        uint8
		name      string
		ts, m     int
		tsNo, mNo int
	}{
		{Main, 0x00, "NOP", 4, 1, 4, 1},
		{Main, 0x20, "JR NZ, e", 12, 3, 7, 2},
		{Main, 0x10, "DJNZ e", 13, 3, 8, 2},
		{Main, 0xC0, "RET NZ", 11, 3, 5, 1},
		{Main, 0xC4, "CALL NZ, nn", 17, 5, 10, 3},
		{Main, 0xC2, "JP NZ, nn", 10, 3, 10, 3},
		{Main, 0x34, "INC (HL)", 11, 3, 11, 3},
		{Main, 0xE3, "EX (SP), HL", 19, 5, 19, 5},
		{CB, 0x00, "RLC B", 8, 2, 8, 2},
		{CB, 0x46, "BIT 0, (HL)", 12, 3, 12, 3},
		{Main, 0xFF, "RST 38h", 11, 3, 11, 3},
		{Main, 0xC7, "RST 00h", 11, 3, 11, 3},
		{CB, 0xC6, "SET 0, (HL)", 15, 4, 15, 4},
		{ED, 0xB0, "LDIR", 21, 5, 16, 4},
		{ED, 0xB1, "CPIR", 21, 5, 16, 4},
		{ED, 0x43, "LD (nn), BC", 20, 6, 20, 6},
		{ED, 0x57, "LD A, I", 9, 2, 9, 2},
		{ED, 0x00, "NOP", 8, 2, 8, 2},
		{DD, 0x21, "LD IX, nn", 14, 4, 14, 4},
		{DD, 0x22, "LD (nn), IX", 20, 6, 20, 6},
		{DD, 0x34, "INC (IX+d)", 23, 6, 23, 6},
		{DD, 0x36, "LD (IX+d), n", 19, 5, 19, 5},
		{DD, 0x66, "LD H, (IX+d)", 19, 5, 19, 5},
		{DD, 0x65, "LD IXH, IXL", 8, 2, 8, 2},
		{DD, 0x00, "NOP", 8, 2, 8, 2},
		{FD, 0xE9, "JP (IY)", 8, 2, 8, 2},
		{FD, 0x20, "JR NZ, e", 16, 4, 11, 3},
		{DDCB, 0x46, "BIT 0, (IX+d)", 20, 5, 20, 5},
		{DDCB, 0x06, "RLC (IX+d)", 23, 6, 23, 6},
		{FDCB, 0xC0, "SET 0, (IY+d), B", 23, 6, 23, 6},
	}
	for _, tt := range tests {
		d := Lookup(tt.tbl, tt.op)
		if got := Mnemonic(d); got != tt.name {
			t.Errorf("%s %02X: mnemonic %q, want %q", tt.tbl, tt.op, got, tt.name)
		}
		ts, m, _ := d.Cost(true)
		tsNo, mNo, _ := d.Cost(false)
		if ts != tt.ts || m != tt.m || tsNo != tt.tsNo || mNo != tt.mNo {
			t.Errorf("%s %02X (%s): cost %d/%d, %d/%d; want %d/%d, %d/%d",
				tt.tbl, tt.op, tt.name, ts, m, tsNo, mNo, tt.ts, tt.m, tt.tsNo, tt.mNo)
		}
	}
}

// TestEDUndefinedNops checks the two undefined ED quadrants.
func TestEDUndefinedNops(t *testing.T) {
	for op := 0; op < 256; op++ {
		if op >= 0x40 && op < 0x80 {
			continue
		}
		if op >= 0xA0 && op < 0xC0 && op&7 <= 3 {
			continue
		}
		d := Lookup(ED, uint8(op))
		if d.Op != OpNop || d.TStates != 8 {
			t.Errorf("ED %02X: got %s %dT, want NOP 8T", op, Mnemonic(d), d.TStates)
		}
	}
}

func TestIndexedRegisterMapping(t *testing.T) {
	// H/L become IXH/IXL unless the instruction also addresses (IX+d).
	if d := Lookup(DD, 0x44); Reg8(d.Op1) != RegB || Reg8(d.Op2) != RegIXH {
		t.Errorf("DD 44: %s", Mnemonic(d))
	}
	if d := Lookup(DD, 0x74); d.Op != OpLdIdxR || Reg8(d.Op2) != RegH {
		t.Errorf("DD 74: %s", Mnemonic(d))
	}
	if d := Lookup(FD, 0xEB); d.Op != OpExDEHL {
		t.Errorf("FD EB: %s", Mnemonic(d))
	}
	if d := Lookup(FD, 0xE5); Pair(d.Op1) != PairIY {
		t.Errorf("FD E5: %s", Mnemonic(d))
	}
}

func TestOperandBytes(t *testing.T) {
	tests := []struct {
		tbl  Table
		op   uint8
		want int
	}{
		{Main, 0x00, 0}, {Main, 0x3E, 1}, {Main, 0x21, 2}, {Main, 0xCD, 2},
		{DD, 0x36, 2}, {DD, 0x7E, 1}, {DD, 0x21, 2}, {ED, 0x43, 2},
		{DDCB, 0x06, 1}, {CB, 0x06, 0},
	}
	for _, tt := range tests {
		if got := Lookup(tt.tbl, tt.op).OperandBytes(tt.tbl); got != tt.want {
			t.Errorf("%s %02X: %d operand bytes, want %d", tt.tbl, tt.op, got, tt.want)
		}
	}
}

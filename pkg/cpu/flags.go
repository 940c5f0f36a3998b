package cpu

// Z80 flag bit positions in the F register.
const (
	FlagC uint8 = 0x01 // Carry
	FlagN uint8 = 0x02 // Subtract
	FlagP uint8 = 0x04 // Parity/Overflow
	FlagV       = FlagP // Overflow (same bit as Parity)
	Flag3 uint8 = 0x08 // Undocumented bit 3 (X)
	FlagH uint8 = 0x10 // Half-carry
	Flag5 uint8 = 0x20 // Undocumented bit 5 (Y)
	FlagZ uint8 = 0x40 // Zero
	FlagS uint8 = 0x80 // Sign

	FlagX = Flag3
	FlagY = Flag5
)

// Precomputed flag tables.
var (
	// Sz53Table: S, Z, 5, 3 flags for each byte value
	Sz53Table [256]uint8
	// Sz53pTable: Sz53 with parity flag included
	Sz53pTable [256]uint8
	// ParityTable: parity flag for each byte value
	ParityTable [256]uint8

	// OverflowTable maps the two carry bits around the sign bit, taken from
	// a^b^result, to the V flag: overflow when exactly one of them is set.
	// Index with (x>>7)&3 for 8-bit results, x>>15 for 16-bit ones.
	OverflowTable = [4]uint8{0, FlagV, FlagV, 0}
)

func init() {
	for i := 0; i < 256; i++ {
		Sz53Table[i] = uint8(i) & (Flag3 | Flag5 | FlagS)

		// Count parity (number of 1 bits)
		j := uint8(i)
		parity := uint8(0)
		for k := 0; k < 8; k++ {
			parity ^= j & 1
			j >>= 1
		}
		if parity == 0 {
			ParityTable[i] = FlagP
		}
		Sz53pTable[i] = Sz53Table[i] | ParityTable[i]
	}
	// Zero flag for value 0
	Sz53Table[0] |= FlagZ
	Sz53pTable[0] |= FlagZ
}

// Flag reports whether every bit of mask is set in F.
func (c *CPU) Flag(mask uint8) bool { return c.reg.AF.Low()&mask == mask }

// SetFlag sets the bits of mask in F.
func (c *CPU) SetFlag(mask uint8) { c.reg.AF.SetLow(c.reg.AF.Low() | mask) }

// ClearFlag clears the bits of mask in F.
func (c *CPU) ClearFlag(mask uint8) { c.reg.AF.SetLow(c.reg.AF.Low() &^ mask) }

// PutFlag sets or clears the bits of mask in F.
func (c *CPU) PutFlag(mask uint8, on bool) {
	if on {
		c.SetFlag(mask)
	} else {
		c.ClearFlag(mask)
	}
}

func bsel(cond bool, a, b uint8) uint8 {
	if cond {
		return a
	}
	return b
}

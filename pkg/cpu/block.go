package cpu

// Block instructions run one iteration per execution. The repeating forms
// rewind PC onto themselves while the decode-time test said to repeat, so an
// interrupt can be taken between iterations.

// blockLoad implements LDI/LDD. step is +1 or -1.
func (c *CPU) blockLoad(step uint16) {
	r := &c.reg
	v := c.read(r.HL.Word())
	c.write(r.DE.Word(), v)
	r.HL.Add(step)
	r.DE.Add(step)
	r.BC.Add(0xFFFF)
	n := v + r.A()
	r.AF.SetLow(r.F()&(FlagS|FlagZ|FlagC) |
		n&Flag3 |
		(n&0x02)<<4 |
		bsel(r.BC.Word() != 0, FlagV, 0))
}

// blockCompare implements CPI/CPD.
func (c *CPU) blockCompare(step uint16) {
	r := &c.reg
	a := r.A()
	v := c.read(r.HL.Word())
	res := a - v
	h := (a ^ v ^ res) & FlagH
	n := res - h>>4
	r.HL.Add(step)
	r.BC.Add(0xFFFF)
	r.WZ.Add(step)
	r.AF.SetLow(r.F()&FlagC |
		FlagN |
		Sz53Table[res]&^(Flag3|Flag5) |
		h |
		n&Flag3 |
		(n&0x02)<<4 |
		bsel(r.BC.Word() != 0, FlagV, 0))
}

// blockIn implements INI/IND.
func (c *CPU) blockIn(step uint16) {
	r := &c.reg
	bc := r.BC.Word()
	v := c.in(bc)
	r.WZ.Set(bc + step)
	r.BC.SetHigh(r.B() - 1)
	c.write(r.HL.Word(), v)
	r.HL.Add(step)
	c.blockIOFlags(v, uint16(v)+uint16(r.C()+uint8(step)))
}

// blockOut implements OUTI/OUTD. B is decremented before the port write.
func (c *CPU) blockOut(step uint16) {
	r := &c.reg
	v := c.read(r.HL.Word())
	r.BC.SetHigh(r.B() - 1)
	bc := r.BC.Word()
	r.WZ.Set(bc + step)
	c.out(bc, v)
	r.HL.Add(step)
	c.blockIOFlags(v, uint16(v)+uint16(r.L()))
}

func (c *CPU) blockIOFlags(v uint8, k uint16) {
	r := &c.reg
	b := r.B()
	r.AF.SetLow(Sz53Table[b] |
		bsel(v&0x80 != 0, FlagN, 0) |
		bsel(k > 0xFF, FlagH|FlagC, 0) |
		ParityTable[uint8(k)&7^b])
}

// repeat rewinds PC onto the block instruction when the decode-time test
// said it repeats. Transfer and compare forms also point WZ at it.
func (c *CPU) repeat(setWZ bool) {
	if !c.willJump {
		return
	}
	c.pc -= 2
	if setWZ {
		c.reg.WZ.Set(c.pc + 1)
	}
}

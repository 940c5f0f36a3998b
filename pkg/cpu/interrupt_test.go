package cpu

import (
	"testing"
)

func TestEIDefersInterrupt(t *testing.T) {
	rig := newTestRig(0x0000, 0xFB, 0x00, 0x00) // EI; NOP; NOP
	c := rig.cpu
	c.Regs().SP.Set(0x8000)
	c.SetIM(1)
	c.IRQ1()

	requireEqualInt(t, "EI", c.ExecuteInstruction(), 4)
	requireEqualInt(t, "NOP", c.ExecuteInstruction(), 4)
	requireEqualU16(t, "PC after NOP", c.PC(), 0x0002)
	requireEqualInt(t, "IM 1 acknowledge", c.ExecuteInstruction(), 13)
	requireEqualU16(t, "PC", c.PC(), 0x0038)
	requireEqualU16(t, "SP", c.Regs().SP.Word(), 0x7FFE)
	requireEqualU8(t, "return lo", rig.ram[0x7FFE], 0x02)
	if c.IFF1() || c.IFF2() || c.IRQPending() {
		t.Fatal("acknowledge should clear IFFs and the request")
	}
}

func TestIRQHeldWhileDisabled(t *testing.T) {
	rig := newTestRig(0x0000, 0x00, 0x00, 0xFB, 0x00, 0x00)
	c := rig.cpu
	c.SetIM(1)
	c.IRQ1()
	rig.run(2)
	if !c.IRQPending() {
		t.Fatal("request should stay latched while IFF1 is clear")
	}
	requireEqualU16(t, "PC", c.PC(), 0x0002)
	rig.run(3) // EI, NOP, acknowledge
	requireEqualU16(t, "PC", c.PC(), 0x0038)
}

func TestClearIRQ(t *testing.T) {
	rig := newTestRig(0x0000, 0x00, 0x00)
	c := rig.cpu
	c.SetIFF(true, true)
	c.SetIM(1)
	c.IRQ1()
	c.ClearIRQ()
	rig.run(1)
	requireEqualU16(t, "PC", c.PC(), 0x0001)
}

func TestHaltAndNMI(t *testing.T) {
	rig := newTestRig(0x0000, 0x76) // HALT
	c := rig.cpu
	c.Regs().SP.Set(0x8000)
	c.SetIFF(true, true)
	rig.ram.Load(0x0066, []byte{0xED, 0x45}) // RETN

	requireEqualInt(t, "HALT", c.ExecuteInstruction(), 4)
	if !c.IsHalted() {
		t.Fatal("CPU should be halted")
	}
	requireEqualU16(t, "PC", c.PC(), 0x0000)
	requireEqualInt(t, "halted NOP", c.ExecuteInstruction(), 4)
	requireEqualU16(t, "PC", c.PC(), 0x0000)
	requireEqualU8(t, "R", c.Regs().R(), 2)

	c.NMI()
	requireEqualInt(t, "NMI", c.ExecuteInstruction(), 11)
	requireEqualU16(t, "PC", c.PC(), 0x0066)
	if c.IsHalted() || c.IFF1() || !c.IFF2() {
		t.Fatalf("after NMI: halted=%v iff1=%v iff2=%v", c.IsHalted(), c.IFF1(), c.IFF2())
	}
	requireEqualU8(t, "return lo", rig.ram[0x7FFE], 0x01)

	requireEqualInt(t, "RETN", c.ExecuteInstruction(), 14)
	requireEqualU16(t, "PC", c.PC(), 0x0001)
	if !c.IFF1() {
		t.Fatal("RETN should restore IFF1 from IFF2")
	}
}

func TestNMIIgnoresIFF(t *testing.T) {
	rig := newTestRig(0x1000, 0x00)
	c := rig.cpu
	c.Regs().SP.Set(0x8000)
	c.NMI()
	requireEqualInt(t, "NMI", c.ExecuteInstruction(), 11)
	requireEqualU16(t, "PC", c.PC(), 0x0066)
	requireEqualU16(t, "WZ", c.Regs().WZ.Word(), 0x0066)
	requireEqualU8(t, "return hi", rig.ram[0x7FFF], 0x10)
}

func TestHaltWakesOnIRQ(t *testing.T) {
	rig := newTestRig(0x0000, 0xFB, 0x76) // EI; HALT
	c := rig.cpu
	c.Regs().SP.Set(0x8000)
	c.SetIM(1)
	rig.run(2)
	if !c.IsHalted() {
		t.Fatal("CPU should be halted")
	}
	c.IRQ1()
	requireEqualInt(t, "acknowledge", c.ExecuteInstruction(), 13)
	requireEqualU16(t, "PC", c.PC(), 0x0038)
	requireEqualU8(t, "return lo", rig.ram[0x7FFE], 0x02)
}

func TestIM2(t *testing.T) {
	rig := newTestRig(0x0000, 0x00)
	c := rig.cpu
	c.Regs().SP.Set(0x9000)
	c.Regs().IR.SetHigh(0x80)
	rig.ram.Load(0x8010, []byte{0x34, 0x12})
	c.SetIM(2)
	c.SetIFF(true, true)
	c.IRQ2(0x10)
	requireEqualInt(t, "IM 2 acknowledge", c.ExecuteInstruction(), 19)
	requireEqualU16(t, "PC", c.PC(), 0x1234)
	requireEqualU16(t, "WZ", c.Regs().WZ.Word(), 0x1234)
	requireEqualU8(t, "R", c.Regs().R(), 1)
}

func TestIM0(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint8
		want   uint16
	}{
		{"RST 08h", 0xCF, 0x0008},
		{"RST 38h", 0xFF, 0x0038},
		{"non-RST falls back", 0x00, 0x0038},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := newTestRig(0x0000, 0x00)
			c := rig.cpu
			c.Regs().SP.Set(0x8000)
			c.SetIFF(true, true)
			c.IRQ0Opcode(tt.opcode)
			requireEqualInt(t, "IM 0 acknowledge", c.ExecuteInstruction(), 13)
			requireEqualU16(t, "PC", c.PC(), tt.want)
		})
	}
}

func TestImSwitch(t *testing.T) {
	rig := newTestRig(0x0000, 0xED, 0x5E, 0xED, 0x46, 0xED, 0x56) // IM 2; IM 0; IM 1
	c := rig.cpu
	for _, want := range []uint8{2, 0, 1} {
		c.ExecuteInstruction()
		requireEqualU8(t, "IM", c.IM(), want)
	}
}

func TestIM0WithIRQ2Vector(t *testing.T) {
	tests := []struct {
		name   string
		vector uint8
		want   uint16
	}{
		{"RST 08h", 0xCF, 0x0008},
		{"non-RST vector", 0x00, 0x0038},
		{"table vector", 0x10, 0x0038},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := newTestRig(0x0000, 0x00)
			c := rig.cpu
			c.Regs().SP.Set(0x8000)
			c.SetIM(0)
			c.SetIFF(true, true)
			c.IRQ2(tt.vector)
			requireEqualInt(t, "IM 0 acknowledge", c.ExecuteInstruction(), 13)
			requireEqualU16(t, "PC", c.PC(), tt.want)
		})
	}
}

func TestSetStateClearsRequests(t *testing.T) {
	rig := newTestRig(0x0000, 0x00, 0x00)
	c := rig.cpu
	s := c.State()
	s.IFF1, s.IFF2, s.IM = true, true, 1
	c.NMI()
	c.IRQ1()
	c.SetState(s)
	if c.NMIPending() || c.IRQPending() {
		t.Fatal("SetState should clear latched requests")
	}
	requireEqualInt(t, "NOP", c.ExecuteInstruction(), 4)
	requireEqualU16(t, "PC", c.PC(), 0x0001)
}

package cpu

// Acknowledge costs: T-states, M-cycles and final M-cycle length.
var (
	costNMI = [3]int{11, 3, 3}
	costIM0 = [3]int{13, 3, 5}
	costIM1 = [3]int{13, 3, 5}
	costIM2 = [3]int{19, 5, 3}
)

// NMI latches a non-maskable interrupt. It is taken at the next instruction
// boundary regardless of IFF1.
func (c *CPU) NMI() {
	c.nmiPending = true
}

// IRQ0 requests a maskable interrupt with RST 38h on the data bus, which is
// what a mode 0 acknowledge reads from an undriven bus.
func (c *CPU) IRQ0() {
	c.IRQ0Opcode(0xFF)
}

// IRQ0Opcode requests a maskable interrupt with an RST opcode on the data
// bus for mode 0. Other opcodes are not supported and are replaced by RST 38h.
func (c *CPU) IRQ0Opcode(op uint8) {
	if op&0xC7 != 0xC7 {
		c.log.Warn("mode 0 interrupt opcode is not an RST, using RST 38h", "opcode", op)
		op = 0xFF
	}
	c.requestIRQ(op)
}

// IRQ1 requests a maskable interrupt for mode 1 hosts.
func (c *CPU) IRQ1() {
	c.requestIRQ(0xFF)
}

// IRQ2 requests a maskable interrupt with vector as the low byte of the
// mode 2 table address. If the CPU is in mode 0 when it accepts the request,
// vector is treated as the opcode on the bus and anything other than an RST
// becomes RST 38h.
func (c *CPU) IRQ2(vector uint8) {
	c.requestIRQ(vector)
}

// ClearIRQ withdraws a maskable request that has not been accepted yet.
func (c *CPU) ClearIRQ() {
	c.irqPending = false
}

// IRQPending reports whether a maskable request is latched.
func (c *CPU) IRQPending() bool { return c.irqPending }

// NMIPending reports whether a non-maskable request is latched.
func (c *CPU) NMIPending() bool { return c.nmiPending }

// requestIRQ latches the line until the CPU accepts it. The mode used is the
// CPU's own IM register at acceptance time.
func (c *CPU) requestIRQ(data uint8) {
	c.irqPending = true
	c.irqData = data
}

// acknowledge starts an interrupt acknowledge cycle in place of a fetch.
func (c *CPU) acknowledge(a action) {
	c.incR()
	c.act = a
	cost := costNMI
	if a == actIRQ {
		switch c.im {
		case 0:
			cost = costIM0
		case 1:
			cost = costIM1
		default:
			cost = costIM2
		}
	}
	c.arm(cost[0], cost[1], cost[2])
}

// leaveHalt steps PC past the HALT opcode when an interrupt wakes the CPU.
func (c *CPU) leaveHalt() {
	if c.halted {
		c.pc++
		c.halted = false
	}
}

func (c *CPU) serviceNMI() {
	c.nmiPending = false
	c.leaveHalt()
	c.iff2 = c.iff1
	c.iff1 = false
	c.push(c.pc)
	c.pc = 0x0066
	c.reg.WZ.Set(c.pc)
}

func (c *CPU) serviceIRQ() {
	c.irqPending = false
	c.leaveHalt()
	c.iff1, c.iff2 = false, false
	c.push(c.pc)
	switch c.im {
	case 0:
		op := c.irqData
		if op&0xC7 != 0xC7 {
			op = 0xFF
		}
		c.pc = uint16(op & 0x38)
	case 1:
		c.pc = 0x0038
	default:
		table := uint16(c.reg.I())<<8 | uint16(c.irqData)
		c.pc = c.readWord(table)
	}
	c.reg.WZ.Set(c.pc)
}

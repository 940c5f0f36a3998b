package cpu

import "github.com/oisee/z80sim/pkg/inst"

// fetchOpcode reads an opcode byte in an M1 cycle, which refreshes R.
func (c *CPU) fetchOpcode() uint8 {
	op := c.fetch()
	c.incR()
	return op
}

// decode reads the next instruction, following prefixes to the table that
// holds it, and arms the engine with its cost.
func (c *CPU) decode() {
	switch op := c.fetchOpcode(); op {
	case 0xCB:
		c.dispatch(inst.CB, c.fetchOpcode())
	case 0xED:
		c.dispatch(inst.ED, c.fetchOpcode())
	case 0xDD:
		c.decodeIndex(inst.DD, inst.DDCB)
	case 0xFD:
		c.decodeIndex(inst.FD, inst.FDCB)
	default:
		c.dispatch(inst.Main, op)
	}
}

// decodeIndex continues after a DD or FD prefix. A prefix followed by
// another ED/DD/FD is stray. A stray DD retires on its own as a 4 T-state
// no-op and leaves PC on the next prefix. A stray FD costs the same 4
// T-states but decoding carries on into the next prefix within the same
// instruction.
func (c *CPU) decodeIndex(t, cb inst.Table) {
	for {
		next := c.read(c.pc)
		switch next {
		case 0xCB:
			c.pc++
			c.incR()
			// PC stays on the displacement; the opcode byte follows it and
			// is not an M1 fetch.
			c.dispatch(cb, c.read(c.pc+1))
			return
		case 0xED, 0xDD, 0xFD:
			if t == inst.DD || c.penalty >= 0xFFFF {
				c.act = actStray
				c.arm(4, 1, 4)
				return
			}
			c.penalty++
			c.fetchOpcode()
			switch next {
			case 0xED:
				c.dispatch(inst.ED, c.fetchOpcode())
				return
			case 0xDD:
				t, cb = inst.DD, inst.DDCB
			}
		default:
			c.dispatch(t, c.fetchOpcode())
			return
		}
	}
}

func (c *CPU) dispatch(t inst.Table, op uint8) {
	d := inst.Lookup(t, op)
	c.act, c.table, c.opcode, c.current = actExecute, t, op, d
	c.willJump = c.branchTaken(d)
	c.arm(d.Cost(c.willJump))
}

// branchTaken evaluates the descriptor's branch test against the state at
// decode time. Handlers act on the latched result so the effect always
// matches the cost charged.
func (c *CPU) branchTaken(d *inst.Descriptor) bool {
	r := &c.reg
	switch d.Branch {
	case inst.BranchCond:
		return c.condition(inst.Cond(d.Op1))
	case inst.BranchDJNZ:
		return r.B() != 1
	case inst.BranchBlock:
		return r.BC.Word() != 1
	case inst.BranchBlockCompare:
		return r.BC.Word() != 1 && r.A() != c.read(r.HL.Word())
	}
	return false
}

func (c *CPU) condition(cc inst.Cond) bool {
	f := c.reg.F()
	switch cc {
	case inst.CondNZ:
		return f&FlagZ == 0
	case inst.CondZ:
		return f&FlagZ != 0
	case inst.CondNC:
		return f&FlagC == 0
	case inst.CondC:
		return f&FlagC != 0
	case inst.CondPO:
		return f&FlagP == 0
	case inst.CondPE:
		return f&FlagP != 0
	case inst.CondP:
		return f&FlagS == 0
	}
	return f&FlagS != 0
}

package cpu

// The engine keeps one instruction in flight. begin decodes it (or accepts
// an interrupt) and arms the counters with its cost; the semantic effect is
// applied by retire once the last T-state of the last M-cycle has elapsed.
// The three Execute entry points only differ in how far they advance the
// counters before returning.

// ExecuteTStates advances the CPU by exactly n T-states, decoding new
// instructions as needed. An instruction that does not fit in n stays in
// flight and completes on a later call. It returns the T-states consumed.
func (c *CPU) ExecuteTStates(n int) int {
	done := 0
	for done < n {
		if c.tstatesCounter == 0 {
			c.begin()
		}
		step := min(c.cycleLeft, n-done)
		c.advance(step)
		done += step
	}
	return done
}

// ExecuteMCycle runs until the end of the current M-cycle, decoding a new
// instruction first if none is in flight. It returns the T-states consumed.
func (c *CPU) ExecuteMCycle() int {
	if c.tstatesCounter == 0 {
		c.begin()
	}
	step := c.cycleLeft
	c.advance(step)
	return step
}

// ExecuteInstruction runs the in-flight instruction, or a newly decoded one,
// to completion and returns the T-states consumed.
func (c *CPU) ExecuteInstruction() int {
	if c.tstatesCounter == 0 {
		c.begin()
	}
	total := c.tstatesCounter
	for c.tstatesCounter > 0 {
		c.advance(c.cycleLeft)
	}
	return total
}

// advance consumes n T-states, never more than remain in the current
// M-cycle.
func (c *CPU) advance(n int) {
	c.cycleLeft -= n
	c.tstatesCounter -= n
	if c.cycleLeft > 0 {
		return
	}
	c.mcyclesCounter--
	if c.mcyclesCounter > 0 {
		c.cycleLeft = c.cycleLength(c.planM - c.mcyclesCounter)
		return
	}
	c.retire()
}

func (c *CPU) begin() {
	c.willJump = false
	c.penalty = 0
	c.current = nil
	switch {
	case c.nmiPending:
		c.acknowledge(actNMI)
	case c.irqPending && c.iff1 && !c.deferIRQ:
		c.acknowledge(actIRQ)
	default:
		c.deferIRQ = false
		if c.halted {
			c.incR()
			c.act = actHalted
			c.arm(4, 1, 4)
			return
		}
		c.decode()
	}
}

func (c *CPU) retire() {
	c.tstatesCounter, c.mcyclesCounter, c.cycleLeft = 0, 0, 0
	switch c.act {
	case actExecute:
		c.execute(c.current)
	case actNMI:
		c.serviceNMI()
	case actIRQ:
		c.serviceIRQ()
	}
}

// arm loads the counters for an instruction of t T-states in m M-cycles
// whose final cycle is last T-states long, plus any prefix penalty.
func (c *CPU) arm(t, m, last int) {
	c.planT = t + 4*c.penalty
	c.planM = m + c.penalty
	c.lastMCycleTStates = last
	c.tstatesCounter = c.planT
	c.mcyclesCounter = c.planM
	c.cycleLeft = c.cycleLength(0)
}

// cycleLength returns the length of M-cycle k. Penalty cycles come first at
// 4 T-states each; the instruction's own cycles before the last share the
// remaining T-states, the earlier ones taking any remainder.
func (c *CPU) cycleLength(k int) int {
	if k < c.penalty {
		return 4
	}
	k -= c.penalty
	m := c.planM - c.penalty
	if k == m-1 {
		return c.lastMCycleTStates
	}
	body := c.planT - 4*c.penalty - c.lastMCycleTStates
	l := body / (m - 1)
	if k < body%(m-1) {
		l++
	}
	return l
}

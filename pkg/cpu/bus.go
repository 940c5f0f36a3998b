package cpu

import "log/slog"

// Memory is the 64 KiB address space seen by the CPU. Implementations must
// not call back into the CPU.
type Memory interface {
	Read(addr uint16) uint8
	Write(addr uint16, v uint8)
}

// IO is the 64 KiB port space. The full 16-bit port address is passed; the
// upper byte carries A or B depending on the instruction.
type IO interface {
	ReadPort(port uint16) uint8
	WritePort(port uint16, v uint8)
}

// RAM is a flat 64 KiB memory. The CPU indexes it directly when it is the
// configured Memory.
type RAM [0x10000]uint8

// NewRAM returns zeroed memory.
func NewRAM() *RAM { return new(RAM) }

func (m *RAM) Read(addr uint16) uint8 { return m[addr] }

func (m *RAM) Write(addr uint16, v uint8) { m[addr] = v }

// Load copies data to addr, wrapping at the top of memory.
func (m *RAM) Load(addr uint16, data []byte) {
	for i, b := range data {
		m[addr+uint16(i)] = b
	}
}

// MemoryFuncs adapts a pair of callbacks to Memory.
type MemoryFuncs struct {
	ReadFunc  func(addr uint16) uint8
	WriteFunc func(addr uint16, v uint8)
}

func (m MemoryFuncs) Read(addr uint16) uint8 { return m.ReadFunc(addr) }

func (m MemoryFuncs) Write(addr uint16, v uint8) { m.WriteFunc(addr, v) }

// IOFuncs adapts a pair of callbacks to IO. Nil callbacks read 0xFF and
// discard writes.
type IOFuncs struct {
	ReadFunc  func(port uint16) uint8
	WriteFunc func(port uint16, v uint8)
}

func (f IOFuncs) ReadPort(port uint16) uint8 {
	if f.ReadFunc == nil {
		return 0xFF
	}
	return f.ReadFunc(port)
}

func (f IOFuncs) WritePort(port uint16, v uint8) {
	if f.WriteFunc != nil {
		f.WriteFunc(port, v)
	}
}

// unmappedIO is installed when the host wires no port space. Reads return
// the upper address byte, which is what a floating data bus usually shows
// after an IN r,(C).
type unmappedIO struct {
	log *slog.Logger
}

func (u unmappedIO) ReadPort(port uint16) uint8 {
	u.log.Warn("read from unmapped port", "port", port)
	return uint8(port >> 8)
}

func (u unmappedIO) WritePort(port uint16, v uint8) {
	u.log.Warn("write to unmapped port", "port", port, "value", v)
}

// === bus helpers ===

func (c *CPU) read(addr uint16) uint8 {
	if c.ram != nil {
		return c.ram[addr]
	}
	return c.mem.Read(addr)
}

func (c *CPU) write(addr uint16, v uint8) {
	if c.ram != nil {
		c.ram[addr] = v
		return
	}
	c.mem.Write(addr, v)
}

// readWord reads a little-endian word; the high byte wraps at 0xFFFF.
func (c *CPU) readWord(addr uint16) uint16 {
	lo := c.read(addr)
	return uint16(c.read(addr+1))<<8 | uint16(lo)
}

func (c *CPU) writeWord(addr, v uint16) {
	c.write(addr, uint8(v))
	c.write(addr+1, uint8(v>>8))
}

func (c *CPU) fetch() uint8 {
	v := c.read(c.pc)
	c.pc++
	return v
}

func (c *CPU) fetchWord() uint16 {
	lo := c.fetch()
	return uint16(c.fetch())<<8 | uint16(lo)
}

// fetchDisp reads a signed displacement and returns addr+d.
func (c *CPU) fetchDisp(addr uint16) uint16 {
	return addr + uint16(int8(c.fetch()))
}

func (c *CPU) push(v uint16) {
	sp := c.reg.SP.Word()
	sp--
	c.write(sp, uint8(v>>8))
	sp--
	c.write(sp, uint8(v))
	c.reg.SP.Set(sp)
}

func (c *CPU) pop() uint16 {
	sp := c.reg.SP.Word()
	v := c.readWord(sp)
	c.reg.SP.Set(sp + 2)
	return v
}

func (c *CPU) in(port uint16) uint8 { return c.io.ReadPort(port) }

func (c *CPU) out(port uint16, v uint8) { c.io.WritePort(port, v) }

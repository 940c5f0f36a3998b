package verify

import (
	"math/rand/v2"
	"sync"

	"github.com/oisee/z80sim/pkg/cpu"
)

// Origin is where each probe instruction is placed.
const Origin = 0x1000

// Seeds are the starting states every opcode is probed from. Between them
// every condition code is both true and false, B and BC are both 1 and 2,
// and the index registers point at distinct pages.
var Seeds = []cpu.State{
	{AF: 0x0000, BC: 0x0001, DE: 0x2000, HL: 0x3000, IX: 0x4000, IY: 0x5000, SP: 0x8000,
		AF2: 0x1234, BC2: 0x5678, DE2: 0x9ABC, HL2: 0xDEF0, I: 0x20, IM: 1},
	{AF: 0xFFFF, BC: 0x0002, DE: 0x2101, HL: 0x3101, IX: 0x4101, IY: 0x5101, SP: 0x7FFE,
		AF2: 0xFFFF, BC2: 0xFFFF, DE2: 0xFFFF, HL2: 0xFFFF, I: 0x21, IM: 2, IFF1: true, IFF2: true},
	{AF: 0x0100, BC: 0x0201, DE: 0x0304, HL: 0x0506, IX: 0x0708, IY: 0x090A, SP: 0x1234},
	{AF: 0x8001, BC: 0x0102, DE: 0x1008, HL: 0x0402, IX: 0x8080, IY: 0x7F7F, SP: 0x8000, R: 0x7F},
	{AF: 0x5500, BC: 0xAA55, DE: 0xAA55, HL: 0xAA55, IX: 0x5555, IY: 0xAAAA, SP: 0x5555, IFF2: true},
	{AF: 0xAA01, BC: 0x55AA, DE: 0x55AA, HL: 0x55AA, IX: 0xAAAA, IY: 0x5555, SP: 0xAAAA, R: 0x80},
	{AF: 0x0F44, BC: 0xF00F, DE: 0xF00F, HL: 0xF00F, IX: 0x0FF0, IY: 0xF00F, SP: 0xFFFE, IM: 2},
	{AF: 0x7F85, BC: 0x807F, DE: 0x807F, HL: 0x807F, IX: 0x7F80, IY: 0x807F, SP: 0x7FFF, I: 0xFF},
}

// RandomSeeds returns n pseudo-random starting states. The same seed
// always yields the same states.
func RandomSeeds(n int, seed uint64) []cpu.State {
	rng := rand.New(rand.NewPCG(seed, seed^0xDEADBEEF))
	word := func() uint16 { return uint16(rng.Uint32()) }
	states := make([]cpu.State, n)
	for i := range states {
		states[i] = cpu.State{
			AF: word(), BC: word(), DE: word(), HL: word(),
			AF2: word(), BC2: word(), DE2: word(), HL2: word(),
			IX: word(), IY: word(), SP: word(), WZ: word(),
			I: uint8(rng.Uint32()), R: uint8(rng.Uint32()), IM: uint8(rng.IntN(3)),
			IFF1: rng.IntN(2) == 1, IFF2: rng.IntN(2) == 1,
		}
	}
	return states
}

// probeSet holds the starting states of a run and the memory image each
// one starts with. Image content varies with the index so that loads,
// block compares and indirect jumps see varied data.
type probeSet struct {
	states []cpu.State
	images []cpu.RAM
}

func newProbeSet(states []cpu.State) *probeSet {
	p := &probeSet{states: states, images: make([]cpu.RAM, len(states))}
	for s := range p.images {
		for i := range p.images[s] {
			p.images[s][i] = uint8(i) ^ uint8(i>>8) + uint8(s*37)
		}
	}
	return p
}

var (
	defaultOnce sync.Once
	defaultSet  *probeSet
)

func defaultProbes() *probeSet {
	defaultOnce.Do(func() { defaultSet = newProbeSet(Seeds) })
	return defaultSet
}

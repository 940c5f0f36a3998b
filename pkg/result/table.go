package result

import (
	"fmt"
	"sort"
	"sync"
)

// Mismatch records one opcode whose stepping granularities disagreed.
type Mismatch struct {
	Table    string `json:"table"`
	Opcode   uint8  `json:"opcode"`
	Mnemonic string `json:"mnemonic"`
	Seed     int    `json:"seed"`
	Kind     string `json:"kind"` // "tstates", "state" or "memory"
	Detail   string `json:"detail"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s %02X %s seed %d: %s: %s", m.Table, m.Opcode, m.Mnemonic, m.Seed, m.Kind, m.Detail)
}

// Table stores mismatches found by concurrent workers.
type Table struct {
	mu         sync.Mutex
	mismatches []Mismatch
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add inserts a mismatch into the table.
func (t *Table) Add(m Mismatch) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mismatches = append(t.mismatches, m)
}

// Mismatches returns a copy of all entries ordered by table, opcode and seed.
func (t *Table) Mismatches() []Mismatch {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Mismatch, len(t.mismatches))
	copy(out, t.mismatches)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Table != b.Table {
			return a.Table < b.Table
		}
		if a.Opcode != b.Opcode {
			return a.Opcode < b.Opcode
		}
		return a.Seed < b.Seed
	})
	return out
}

// Len returns the number of mismatches.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.mismatches)
}

package verify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/oisee/z80sim/pkg/inst"
)

func TestProgram(t *testing.T) {
	tests := []struct {
		name  string
		table inst.Table
		op    uint8
		want  []byte
	}{
		{"NOP", inst.Main, 0x00, []byte{0x00}},
		{"LD BC,nn", inst.Main, 0x01, []byte{0x01, 0x05, 0x20}},
		{"LD (IX+d),n", inst.DD, 0x36, []byte{0xDD, 0x36, 0x05, 0x20}},
		{"LDIR", inst.ED, 0xB0, []byte{0xED, 0xB0}},
		{"RLC (IY+d)", inst.FDCB, 0x06, []byte{0xFD, 0xCB, 0x05, 0x06}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Program(tc.table, tc.op)
			if !bytes.Equal(got, tc.want) {
				t.Errorf("Program = % X, want % X", got, tc.want)
			}
		})
	}
}

func TestCollectTasksSkipsPrefixes(t *testing.T) {
	tasks := collectTasks(inst.Main)
	if len(tasks) != 252 {
		t.Fatalf("main tasks = %d, want 252", len(tasks))
	}
	for _, task := range tasks {
		switch task.Opcode {
		case 0xCB, 0xDD, 0xED, 0xFD:
			t.Errorf("prefix %02X listed as a task", task.Opcode)
		}
	}
	if n := len(collectTasks(inst.ED)); n != 256 {
		t.Errorf("ED tasks = %d, want 256", n)
	}
}

func TestCheckAgrees(t *testing.T) {
	probes := []struct {
		table inst.Table
		op    uint8
	}{
		{inst.Main, 0x10}, // DJNZ
		{inst.Main, 0xCD}, // CALL nn
		{inst.ED, 0xB1},   // CPIR
		{inst.ED, 0xB3},   // OTIR
		{inst.DD, 0x34},   // INC (IX+d)
		{inst.FDCB, 0xC6}, // SET 0,(IY+d)
		{inst.Main, 0x76}, // HALT
	}
	for _, p := range probes {
		for seed := range Seeds {
			if ms := Check(p.table, p.op, seed, nil); len(ms) != 0 {
				t.Errorf("%s %02X seed %d: %v", p.table, p.op, seed, ms)
			}
		}
	}
}

func TestRunTables(t *testing.T) {
	var out bytes.Buffer
	pool := Run(Config{
		NumWorkers: 4,
		Tables:     []inst.Table{inst.ED, inst.DDCB},
		Verbose:    true,
		Out:        &out,
	})
	checked, found := pool.Stats()
	if want := int64(512 * len(Seeds)); checked != want {
		t.Errorf("checked = %d, want %d", checked, want)
	}
	if found != 0 || pool.Results.Len() != 0 {
		t.Errorf("mismatches: %v", pool.Results.Mismatches())
	}
	if !strings.Contains(out.String(), "=== Table DDCB") {
		t.Errorf("progress output missing table header:\n%s", out.String())
	}
	if r := pool.Report(); r.Checked != checked {
		t.Errorf("report checked = %d, want %d", r.Checked, checked)
	}
}

func TestRandomSeeds(t *testing.T) {
	a := RandomSeeds(4, 42)
	b := RandomSeeds(4, 42)
	if len(a) != 4 {
		t.Fatalf("len = %d, want 4", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("state %d differs between runs with the same seed", i)
		}
		if a[i].IM > 2 {
			t.Errorf("state %d IM = %d", i, a[i].IM)
		}
	}
	if RandomSeeds(1, 1)[0] == RandomSeeds(1, 2)[0] {
		t.Error("different seeds gave the same state")
	}
}

func TestRunWithRandomSeeds(t *testing.T) {
	pool := Run(Config{
		NumWorkers: 2,
		Tables:     []inst.Table{inst.FD},
		Random:     3,
		RandSeed:   7,
	})
	checked, found := pool.Stats()
	if want := int64(len(collectTasks(inst.FD)) * (len(Seeds) + 3)); checked != want {
		t.Errorf("checked = %d, want %d", checked, want)
	}
	if found != 0 {
		t.Errorf("mismatches: %v", pool.Results.Mismatches())
	}
}

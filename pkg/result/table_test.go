package result

import (
	"sync"
	"testing"

	"github.com/spf13/afero"
)

func TestTableOrdering(t *testing.T) {
	tbl := NewTable()
	tbl.Add(Mismatch{Table: "ED", Opcode: 0xB0, Seed: 1, Kind: "tstates"})
	tbl.Add(Mismatch{Table: "CB", Opcode: 0x10, Seed: 0, Kind: "state"})
	tbl.Add(Mismatch{Table: "ED", Opcode: 0xB0, Seed: 0, Kind: "memory"})

	got := tbl.Mismatches()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Table != "CB" || got[1].Seed != 0 || got[2].Seed != 1 {
		t.Errorf("unexpected order: %v", got)
	}
}

func TestTableConcurrentAdd(t *testing.T) {
	tbl := NewTable()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for op := 0; op < 32; op++ {
				tbl.Add(Mismatch{Table: "main", Opcode: uint8(op), Seed: seed})
			}
		}(i)
	}
	wg.Wait()
	if tbl.Len() != 8*32 {
		t.Errorf("Len = %d, want %d", tbl.Len(), 8*32)
	}
}

func TestReportRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	tbl := NewTable()
	tbl.Add(Mismatch{Table: "DDCB", Opcode: 0x06, Seed: 3, Kind: "state", Detail: "PC 0004 vs 0005"})

	if err := SaveReport(fs, "/report.json", NewReport(1792, tbl)); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	r, err := LoadReport(fs, "/report.json")
	if err != nil {
		t.Fatalf("LoadReport: %v", err)
	}
	if r.Checked != 1792 || len(r.Mismatches) != 1 {
		t.Fatalf("report = %+v", r)
	}
	if m := r.Mismatches[0]; m.Table != "DDCB" || m.Opcode != 0x06 || m.Detail != "PC 0004 vs 0005" {
		t.Errorf("mismatch = %+v", m)
	}
}

func TestLoadReportMissing(t *testing.T) {
	if _, err := LoadReport(afero.NewMemMapFs(), "/nope.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMismatchString(t *testing.T) {
	m := Mismatch{Table: "ED", Opcode: 0xB0, Mnemonic: "LDIR", Seed: 2, Kind: "tstates", Detail: "m-cycle 16, instruction 21"}
	if got, want := m.String(), "ED B0 LDIR seed 2: tstates: m-cycle 16, instruction 21"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

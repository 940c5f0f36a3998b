package fixture

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

const testsIn = `00
0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000
00 00 0 0 0 0 1
0000 00 -1
-1

01
0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000
00 00 0 0 0 0 1
0000 01 12 e9 -1
-1

d3
3a00 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000
00 00 0 0 0 0 1
0000 d3 7f -1
-1

76
0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000
00 00 0 0 0 0 6
0000 76 -1
-1
`

const testsExpected = `00
    0 MC 0000
    0 MR 0000 00
0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0001
00 01 0 0 0 0 4

01
    0 MC 0000
    0 MR 0000 01
    4 MC 0001
    4 MR 0001 12
    7 MC 0002
    7 MR 0002 e9
0000 e912 0000 0000 0000 0000 0000 0000 0000 0000 0000 0003
00 01 0 0 0 0 10

d3
    0 MC 0000
    0 MR 0000 d3
    4 MC 0001
    4 MR 0001 7f
    7 PC 3a7f
    7 PW 3a7f 3a
3a00 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0002 3a80
00 01 0 0 0 0 11

76
    0 MC 0000
    0 MR 0000 76
0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000
00 02 0 0 0 1 8
0000 76 -1

`

func quietLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestParseCases(t *testing.T) {
	cases, err := ParseCases(strings.NewReader(testsIn))
	if err != nil {
		t.Fatalf("ParseCases: %v", err)
	}
	if len(cases) != 4 {
		t.Fatalf("got %d cases, want 4", len(cases))
	}
	c := cases[2]
	if c.Name != "d3" || c.State.AF != 0x3a00 || !c.HasMEMPTR || c.TStates != 1 {
		t.Errorf("case d3 = %+v", c)
	}
	if len(c.Memory) != 1 || c.Memory[0].Addr != 0 || len(c.Memory[0].Data) != 2 || c.Memory[0].Data[1] != 0x7f {
		t.Errorf("case d3 memory = %+v", c.Memory)
	}
	if cases[0].HasMEMPTR {
		t.Error("12-word register line should not carry MEMPTR")
	}
}

func TestParseExpected(t *testing.T) {
	exp, err := ParseExpected(strings.NewReader(testsExpected))
	if err != nil {
		t.Fatalf("ParseExpected: %v", err)
	}
	if len(exp) != 4 {
		t.Fatalf("got %d expected blocks, want 4", len(exp))
	}
	e := exp[2]
	if len(e.Events) != 6 || e.State.WZ != 0x3a80 || e.TStates != 11 {
		t.Errorf("expected d3 = %+v", e)
	}
	pw := e.PortWrites()
	if len(pw) != 1 || pw[0].Addr != 0x3a7f || pw[0].Data != 0x3a {
		t.Errorf("port writes = %+v", pw)
	}
	if e.Events[4].Data != -1 {
		t.Errorf("PC event data = %d, want -1", e.Events[4].Data)
	}
	if !exp[3].State.Halted || len(exp[3].Memory) != 1 {
		t.Errorf("expected 76 = %+v", exp[3])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"short register line", "00\n0000 0000\n"},
		{"bad hex", "00\nzzzz 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000 0000\n"},
		{"short state line", "00\n" + strings.Repeat("0000 ", 12) + "\n00 00 0\n"},
		{"unterminated memory", "00\n" + strings.Repeat("0000 ", 12) + "\n00 00 0 0 0 0 1\n0000 00\n"},
		{"truncated", "00\n" + strings.Repeat("0000 ", 12) + "\n00 00 0 0 0 0 1\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCases(strings.NewReader(tc.in))
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("err = %v, want ErrSyntax", err)
			}
		})
	}
}

func writeSuite(t *testing.T, expected string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/fuse/tests.in", []byte(testsIn), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/fuse/tests.expected", []byte(expected), 0o644); err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestSuitePasses(t *testing.T) {
	s, err := Load(writeSuite(t, testsExpected), "/fuse/tests.in", "/fuse/tests.expected")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, r := range s.Run(quietLogger()) {
		if !r.Passed() {
			t.Errorf("%s: %v", r.Name, r.Diffs)
		}
	}
}

func TestSuiteReportsDiffs(t *testing.T) {
	bad := strings.Replace(testsExpected,
		"0000 e912 0000 0000 0000 0000 0000 0000 0000 0000 0000 0003",
		"0000 e913 0000 0000 0000 0000 0000 0000 0000 0000 0000 0003", 1)
	bad = strings.Replace(bad, "    7 PW 3a7f 3a", "    7 PW 3a7f 3b", 1)
	s, err := Load(writeSuite(t, bad), "/fuse/tests.in", "/fuse/tests.expected")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	results := s.Run(quietLogger())
	if got := results[1].Diffs; len(got) != 1 || got[0] != "BC E912 E913" {
		t.Errorf("01 diffs = %q", got)
	}
	if got := results[2].Diffs; len(got) != 1 || !strings.HasPrefix(got[0], "port write 0") {
		t.Errorf("d3 diffs = %q", got)
	}
	if !results[0].Passed() || !results[3].Passed() {
		t.Errorf("unexpected failures: %+v %+v", results[0], results[3])
	}
}

func TestSuiteMissingExpected(t *testing.T) {
	fs := writeSuite(t, testsExpected[:strings.Index(testsExpected, "\n01\n")+1])
	s, err := Load(fs, "/fuse/tests.in", "/fuse/tests.expected")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	results := s.Run(quietLogger())
	if results[1].Passed() || results[1].Diffs[0] != "no expected result" {
		t.Errorf("01 = %+v", results[1])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(afero.NewMemMapFs(), "/nope.in", "/nope.expected"); err == nil {
		t.Error("expected error")
	}
}

package cpu

import (
	"log/slog"
	"testing"
)

type portWrite struct {
	port  uint16
	value uint8
}

type testIO struct {
	ports  [0x10000]uint8
	writes []portWrite
}

func (b *testIO) ReadPort(port uint16) uint8 { return b.ports[port] }

func (b *testIO) WritePort(port uint16, v uint8) {
	b.writes = append(b.writes, portWrite{port, v})
}

type testRig struct {
	ram *RAM
	io  *testIO
	cpu *CPU
}

// newTestRig returns a reset CPU with program loaded at start and PC on it.
func newTestRig(start uint16, program ...byte) *testRig {
	ram := NewRAM()
	ram.Load(start, program)
	io := &testIO{}
	c := New(ram, WithIO(io), WithLogger(discardLogger()))
	c.SetPC(start)
	return &testRig{ram: ram, io: io, cpu: c}
}

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

// run executes n instructions and returns the T-states they took.
func (r *testRig) run(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += r.cpu.ExecuteInstruction()
	}
	return total
}

func requireEqualU16(t *testing.T, name string, got, want uint16) {
	t.Helper()
	if got != want {
		t.Fatalf("%s = 0x%04X, want 0x%04X", name, got, want)
	}
}

func requireEqualU8(t *testing.T, name string, got, want uint8) {
	t.Helper()
	if got != want {
		t.Fatalf("%s = 0x%02X, want 0x%02X", name, got, want)
	}
}

func requireEqualInt(t *testing.T, name string, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("%s = %d, want %d", name, got, want)
	}
}

// Package cpm runs CP/M .COM programs that only need console output, such
// as the zexdoc and zexall instruction exercisers.
//
// The program is loaded at 0x0100. Warm boot at 0x0000 is an OUT (0),A,
// which stops the machine, and the BDOS entry at 0x0005 is IN A,(0); RET.
// The port read is where the BDOS function in C is carried out.
package cpm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/afero"

	"github.com/oisee/z80sim/pkg/cpu"
)

var (
	// ErrUnimplemented is returned when the program calls a BDOS function
	// other than console output.
	ErrUnimplemented = errors.New("unimplemented BDOS function")

	// ErrTooLong is returned when a "$"-terminated string runs off the end
	// of memory.
	ErrTooLong = errors.New("string not terminated")
)

const (
	tpa       = 0x0100
	warmBoot  = 0x0000
	bdosEntry = 0x0005

	// ctxCheckEvery is how many M-cycles run between context checks.
	ctxCheckEvery = 4096
)

// Report is the outcome of a run.
type Report struct {
	TStates uint64
	Output  string
}

// Machine is a Z80 with a 64 KiB TPA and a console-only BDOS.
type Machine struct {
	ram *cpu.RAM
	cpu *cpu.CPU
	log *slog.Logger

	console io.Writer
	output  strings.Builder
	done    bool
	err     error
}

// Option configures a Machine.
type Option func(*Machine)

// WithConsole streams console output to w as well as collecting it in the
// report.
func WithConsole(w io.Writer) Option {
	return func(m *Machine) { m.console = w }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.log = l }
}

// New returns a machine with program loaded at 0x0100 and the BDOS traps
// in place.
func New(program []byte, opts ...Option) (*Machine, error) {
	if len(program) > 0x10000-tpa {
		return nil, fmt.Errorf("program is %d bytes, TPA holds %d", len(program), 0x10000-tpa)
	}
	m := &Machine{ram: cpu.NewRAM()}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	m.ram.Load(tpa, program)
	m.ram.Load(warmBoot, []byte{0xD3, 0x00})        // OUT (0),A
	m.ram.Load(bdosEntry, []byte{0xDB, 0x00, 0xC9}) // IN A,(0); RET
	m.cpu = cpu.New(m.ram, cpu.WithIO(m), cpu.WithLogger(m.log))
	m.cpu.SetPC(tpa)
	m.cpu.Regs().SP.Set(0xFFFE) // returns to warm boot
	return m, nil
}

// Load reads a .COM file from fs and returns a machine ready to run it.
func Load(fs afero.Fs, path string, opts ...Option) (*Machine, error) {
	program, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	m, err := New(program, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// CPU exposes the processor for inspection.
func (m *Machine) CPU() *cpu.CPU { return m.cpu }

// Run executes M-cycle by M-cycle until warm boot, a HALT with interrupts
// disabled, a BDOS error or cancellation of ctx.
func (m *Machine) Run(ctx context.Context) (*Report, error) {
	var total uint64
	for n := 0; !m.done; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return m.report(total), err
			}
		}
		total += uint64(m.cpu.ExecuteMCycle())
		if m.cpu.IsHalted() && !m.cpu.IFF1() && !m.cpu.InFlight() {
			m.log.Debug("halted", slog.String("pc", fmt.Sprintf("0x%04X", m.cpu.PC())))
			break
		}
	}
	return m.report(total), m.err
}

func (m *Machine) report(total uint64) *Report {
	return &Report{TStates: total, Output: m.output.String()}
}

// ReadPort carries out the BDOS call selected by C.
func (m *Machine) ReadPort(port uint16) uint8 {
	r := m.cpu.Regs()
	fn := r.C()
	m.log.Debug("BDOS call",
		slog.Int("function", int(fn)),
		slog.String("functionHex", fmt.Sprintf("0x%02X", fn)),
	)
	switch fn {
	case 2:
		m.print(string([]byte{r.E()}))
	case 9:
		s, err := m.dollarString(r.DE.Word())
		if err != nil {
			m.fail(err)
			return 0
		}
		m.print(s)
	default:
		m.log.Error("unimplemented BDOS function", slog.Int("function", int(fn)))
		m.fail(fmt.Errorf("%w: %d", ErrUnimplemented, fn))
	}
	return 0
}

// WritePort is only reached from warm boot.
func (m *Machine) WritePort(port uint16, v uint8) {
	m.done = true
}

func (m *Machine) fail(err error) {
	m.err = err
	m.done = true
}

func (m *Machine) print(s string) {
	m.output.WriteString(s)
	if m.console != nil {
		io.WriteString(m.console, s)
	}
}

func (m *Machine) dollarString(addr uint16) (string, error) {
	var sb strings.Builder
	for i := 0; i < 0x10000; i++ {
		c := m.ram[addr+uint16(i)]
		if c == '$' {
			return sb.String(), nil
		}
		sb.WriteByte(c)
	}
	return "", fmt.Errorf("%w: string at 0x%04X", ErrTooLong, addr)
}

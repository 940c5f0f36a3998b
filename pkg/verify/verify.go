// Package verify cross-checks the CPU's three stepping granularities. Every
// opcode of every table is run from a set of seed states by instruction,
// by M-cycle and by single T-states, and any difference in cycle totals,
// registers or memory is reported.
package verify

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/oisee/z80sim/pkg/cpu"
	"github.com/oisee/z80sim/pkg/inst"
	"github.com/oisee/z80sim/pkg/result"
)

// Config holds verifier configuration.
type Config struct {
	NumWorkers int          // parallel workers (defaults to NumCPU)
	Tables     []inst.Table // tables to probe (defaults to all)
	Random     int          // extra pseudo-random seed states
	RandSeed   uint64       // seed for the random states
	Verbose    bool         // print progress and mismatches
	Out        io.Writer    // progress output
}

// Run probes every opcode and returns the pool holding results and counts.
func Run(cfg Config) *WorkerPool {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = runtime.NumCPU()
	}
	if len(cfg.Tables) == 0 {
		for t := inst.Main; t < inst.TableCount; t++ {
			cfg.Tables = append(cfg.Tables, t)
		}
	}
	var out io.Writer
	if cfg.Verbose && cfg.Out != nil {
		out = cfg.Out
	}

	var extra []cpu.State
	if cfg.Random > 0 {
		extra = RandomSeeds(cfg.Random, cfg.RandSeed)
	}
	pool := NewWorkerPool(cfg.NumWorkers, extra...)
	start := time.Now()
	for _, t := range cfg.Tables {
		tasks := collectTasks(t)
		if out != nil {
			fmt.Fprintf(out, "=== Table %s: %d opcodes ===\n", t, len(tasks))
		}
		pool.RunTasks(tasks, out)
		if out != nil {
			checked, found := pool.Stats()
			fmt.Fprintf(out, "  Checked: %d, Mismatches: %d, Elapsed: %s\n",
				checked, found, time.Since(start).Round(time.Millisecond))
		}
	}
	return pool
}

// collectTasks lists the opcodes of t that are instructions rather than
// prefix slots.
func collectTasks(t inst.Table) []Task {
	var tasks []Task
	for op := 0; op < 256; op++ {
		if inst.Lookup(t, uint8(op)).Op == inst.OpPrefix {
			continue
		}
		tasks = append(tasks, Task{Table: t, Opcode: uint8(op)})
	}
	return tasks
}

// Report snapshots the pool as a persisted report.
func (wp *WorkerPool) Report() *result.Report {
	checked, _ := wp.Stats()
	return result.NewReport(checked, wp.Results)
}

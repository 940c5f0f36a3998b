package verify

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/oisee/z80sim/pkg/cpu"
	"github.com/oisee/z80sim/pkg/inst"
	"github.com/oisee/z80sim/pkg/result"
)

// WorkerPool manages parallel probe workers.
type WorkerPool struct {
	NumWorkers int
	Results    *result.Table
	Logger     *slog.Logger
	probes     *probeSet
	checked    atomic.Int64
	found      atomic.Int64
}

// NewWorkerPool creates a pool with the given number of workers probing
// from Seeds plus any extra states.
func NewWorkerPool(numWorkers int, extra ...cpu.State) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	probes := defaultProbes()
	if len(extra) > 0 {
		probes = newProbeSet(append(append([]cpu.State(nil), Seeds...), extra...))
	}
	return &WorkerPool{
		NumWorkers: numWorkers,
		Results:    result.NewTable(),
		Logger:     slog.New(slog.DiscardHandler),
		probes:     probes,
	}
}

// Task is a unit of work: one opcode probed from every seed.
type Task struct {
	Table  inst.Table
	Opcode uint8
}

// Stats returns probe statistics.
func (wp *WorkerPool) Stats() (checked, found int64) {
	return wp.checked.Load(), wp.found.Load()
}

// RunTasks distributes tasks across workers. When out is non-nil every
// mismatch is also printed to it as it is found.
func (wp *WorkerPool) RunTasks(tasks []Task, out io.Writer) {
	ch := make(chan Task, len(tasks))
	for _, t := range tasks {
		ch <- t
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < wp.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range ch {
				for _, m := range wp.processTask(task) {
					wp.Results.Add(m)
					if out != nil {
						mu.Lock()
						fmt.Fprintf(out, "  MISMATCH: %s\n", m)
						mu.Unlock()
					}
				}
			}
		}()
	}
	wg.Wait()
}

func (wp *WorkerPool) processTask(task Task) []result.Mismatch {
	var all []result.Mismatch
	for seed := range wp.probes.states {
		wp.checked.Add(1)
		ms := wp.probes.check(task.Table, task.Opcode, seed, wp.Logger)
		wp.found.Add(int64(len(ms)))
		all = append(all, ms...)
	}
	return all
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/oisee/z80sim/pkg/cpm"
	"github.com/oisee/z80sim/pkg/cpu"
	"github.com/oisee/z80sim/pkg/fixture"
	"github.com/oisee/z80sim/pkg/result"
	"github.com/oisee/z80sim/pkg/verify"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd(afero.NewOsFs()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	var verbose bool
	logger := func(cmd *cobra.Command) *slog.Logger {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	}

	rootCmd := &cobra.Command{
		Use:          "z80sim",
		Short:        "Cycle-accurate Z80 simulator",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// run command
	var org, pc, sp hexFlag
	var steps, tstates int
	sp = 0xFFFF

	runCmd := &cobra.Command{
		Use:   "run [image]",
		Short: "Load a raw memory image and run it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := afero.ReadFile(fs, args[0])
			if err != nil {
				return err
			}
			if len(image) > 0x10000 {
				return fmt.Errorf("%s: image is %d bytes, larger than 64 KiB", args[0], len(image))
			}
			out := cmd.OutOrStdout()
			ram := cpu.NewRAM()
			ram.Load(uint16(org), image)
			c := cpu.New(ram, cpu.WithLogger(logger(cmd)))
			start := uint16(org)
			if cmd.Flags().Changed("pc") {
				start = uint16(pc)
			}
			c.SetPC(start)
			c.Regs().SP.Set(uint16(sp))

			total := 0
			if tstates > 0 {
				total = c.ExecuteTStates(tstates)
			} else {
				for i := 0; i < steps; i++ {
					if c.IsHalted() && !c.IFF1() {
						break
					}
					total += c.ExecuteInstruction()
				}
			}
			dumpRegs(out, c)
			fmt.Fprintf(out, "T-states: %d\n", total)
			return nil
		},
	}
	runCmd.Flags().Var(&org, "org", "Load address")
	runCmd.Flags().Var(&pc, "pc", "Start address (default: org)")
	runCmd.Flags().Var(&sp, "sp", "Initial stack pointer")
	runCmd.Flags().IntVar(&steps, "steps", 1000, "Maximum instructions to run")
	runCmd.Flags().IntVar(&tstates, "tstates", 0, "Run exactly this many T-states instead of --steps")

	// zex command
	zexCmd := &cobra.Command{
		Use:   "zex [file.com...]",
		Short: "Run CP/M programs such as zexdoc and zexall",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				m, err := cpm.Load(fs, path, cpm.WithConsole(out), cpm.WithLogger(logger(cmd)))
				if err != nil {
					return err
				}
				rep, err := m.Run(cmd.Context())
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(out, "\n%s: %d T-states\n", path, rep.TStates)
			}
			return nil
		},
	}

	// fixtures command
	fixturesCmd := &cobra.Command{
		Use:   "fixtures [tests.in] [tests.expected]",
		Short: "Run FUSE-format conformance fixtures",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := fixture.Load(fs, args[0], args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			results := suite.Run(logger(cmd))
			failed := 0
			for _, r := range results {
				if r.Passed() {
					if verbose {
						fmt.Fprintf(out, "  ok   %s\n", r.Name)
					}
					continue
				}
				failed++
				fmt.Fprintf(out, "  FAIL %s: %s\n", r.Name, strings.Join(r.Diffs, ", "))
			}
			fmt.Fprintf(out, "%d/%d fixtures passed\n", len(results)-failed, len(results))
			if failed > 0 {
				return fmt.Errorf("%d fixtures failed", failed)
			}
			return nil
		},
	}

	// verify command
	var numWorkers, random int
	var randSeed uint64
	var jsonOut string

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that all stepping granularities agree for every opcode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if numWorkers <= 0 {
				numWorkers = runtime.NumCPU()
			}
			cfg := verify.Config{
				NumWorkers: numWorkers,
				Random:     random,
				RandSeed:   randSeed,
				Verbose:    verbose,
				Out:        out,
			}
			fmt.Fprintf(out, "Granularity verifier\n")
			fmt.Fprintf(out, "  Seeds: %d per opcode\n", len(verify.Seeds)+random)
			fmt.Fprintf(out, "  Workers: %d\n", cfg.NumWorkers)

			pool := verify.Run(cfg)
			checked, found := pool.Stats()
			fmt.Fprintf(out, "\nChecked %d probes, %d mismatches\n", checked, found)
			if !verbose {
				for _, m := range pool.Results.Mismatches() {
					fmt.Fprintf(out, "  %s\n", m)
				}
			}

			if jsonOut != "" {
				if err := result.SaveReport(fs, jsonOut, pool.Report()); err != nil {
					return err
				}
				fmt.Fprintf(out, "Written to %s\n", jsonOut)
			}
			if found > 0 {
				return fmt.Errorf("%d mismatches", found)
			}
			return nil
		},
	}
	verifyCmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of workers (0 = NumCPU)")
	verifyCmd.Flags().IntVar(&random, "random", 0, "Extra pseudo-random seed states per opcode")
	verifyCmd.Flags().Uint64Var(&randSeed, "rand-seed", 1, "Seed for --random states")
	verifyCmd.Flags().StringVar(&jsonOut, "json", "", "Write a JSON report to this path")

	rootCmd.AddCommand(runCmd, zexCmd, fixturesCmd, verifyCmd)
	return rootCmd
}

func dumpRegs(out io.Writer, c *cpu.CPU) {
	s := c.State()
	fmt.Fprintf(out, "AF=%04X BC=%04X DE=%04X HL=%04X IX=%04X IY=%04X\n", s.AF, s.BC, s.DE, s.HL, s.IX, s.IY)
	fmt.Fprintf(out, "AF'=%04X BC'=%04X DE'=%04X HL'=%04X\n", s.AF2, s.BC2, s.DE2, s.HL2)
	fmt.Fprintf(out, "PC=%04X SP=%04X WZ=%04X I=%02X R=%02X IM=%d IFF1=%v IFF2=%v halted=%v\n",
		s.PC, s.SP, s.WZ, s.I, s.R, s.IM, s.IFF1, s.IFF2, s.Halted)
}

package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/32Lwk/monte-carlo-pi-multi-language/bench"
	"github.com/32Lwk/monte-carlo-pi-multi-language/estimator"
	"github.com/32Lwk/monte-carlo-pi-multi-language/report"
)

var benchConfig struct {
	mode   string
	warmup int
	runs   int
	sweep  []int
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "time repeated runs, optionally across several worker counts",
	Args:  cobra.NoArgs,
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().StringVar(
		&benchConfig.mode, "mode", "", "single or parallel (default from config)")
	benchCmd.Flags().IntVar(
		&benchConfig.warmup, "warmup", 0, "discarded runs before timing")
	benchCmd.Flags().IntVarP(
		&benchConfig.runs, "runs", "r", 0, "timed runs (default from config, 1)")
	benchCmd.Flags().IntSliceVar(
		&benchConfig.sweep, "sweep", nil, "worker counts to compare, e.g. 1,2,4,8")
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Mode = benchConfig.mode
	}
	if flags.Changed("warmup") {
		cfg.Warmup = benchConfig.warmup
	}
	if flags.Changed("runs") {
		cfg.Runs = benchConfig.runs
	}
	ec, err := cfg.EstimatorConfig(logger())
	if err != nil {
		return err
	}
	opts := bench.Options{Warmup: cfg.Warmup, Runs: cfg.Runs, Verbose: verbose}

	out := make(chan string, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for s := range out {
			log.Println(s)
		}
	}()

	var summaries []*bench.Summary
	if len(benchConfig.sweep) > 0 {
		summaries, err = bench.Sweep(ec, benchConfig.sweep, opts, out)
	} else {
		var s *bench.Summary
		if s, err = bench.Run(ec, opts, out); err == nil {
			summaries = []*bench.Summary{s}
		}
	}
	close(out)
	<-done
	if err != nil {
		return err
	}

	records := make([]*report.Record, 0, len(summaries))
	for _, s := range summaries {
		stats.Observe(s.Last)
		records = append(records, report.NewRecord(s.Last))
	}
	report.WriteBench(os.Stdout, summaries)
	if cfg.Format != "" {
		f, err := report.ParseFormat(cfg.Format)
		if err != nil {
			return err
		}
		return report.Write(os.Stdout, f, records...)
	}
	return nil
}

var traceConfig struct {
	points int
	width  int
	height int
}

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "plot how the single-worker estimate converges",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		trace, err := estimator.Trace(&estimator.Config{
			Mode:       estimator.ModeSingle,
			Iterations: cfg.Iterations,
			Seed:       cfg.Seed,
		}, traceConfig.points)
		if err != nil {
			return err
		}
		_, err = os.Stdout.WriteString(report.PlotConvergence(trace, traceConfig.width, traceConfig.height) + "\n")
		return err
	},
}

func init() {
	traceCmd.Flags().IntVar(
		&traceConfig.points, "points", 100, "number of checkpoints")
	traceCmd.Flags().IntVar(
		&traceConfig.width, "width", 80, "plot width in columns")
	traceCmd.Flags().IntVar(
		&traceConfig.height, "height", 15, "plot height in rows")
}

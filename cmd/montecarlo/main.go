package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/32Lwk/monte-carlo-pi-multi-language/config"
	"github.com/32Lwk/monte-carlo-pi-multi-language/metrics"
)

const (
	exitOK  = 0
	exitErr = 1

	profileAddr = "localhost:6060"
)

var (
	configPath  string
	metricsAddr string
	profile     bool
	verbose     bool

	iterations uint64
	seed       uint64
	workers    int
	format     string

	registry = prometheus.NewRegistry()
	stats    = metrics.New(registry)
)

var rootCmd = &cobra.Command{
	Use:   "montecarlo [command] (flags)",
	Short: "Monte Carlo pi estimation benchmark",
	Long: `Estimates pi by sampling points with a seeded xoshiro256 generator.
Results are bit-identical across runs for a fixed worker count.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if profile {
			runProfiler()
		}
		if metricsAddr != "" {
			runMetrics(metricsAddr)
		}
		return nil
	},
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		singleCmd,
		parallelCmd,
		benchCmd,
		traceCmd,
		verifyCmd,
		sessionCmd,
	)

	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", "", "TOML file with default settings")
	rootCmd.PersistentFlags().StringVar(
		&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	rootCmd.PersistentFlags().BoolVar(
		&profile, "profile", false, "serve pprof endpoint")
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "log progress to stderr")

	for _, cmd := range []*cobra.Command{singleCmd, parallelCmd, benchCmd, traceCmd, sessionCmd} {
		cmd.Flags().Uint64VarP(
			&iterations, "iterations", "n", 0, "number of sampled points (default from config, 100000000)")
		cmd.Flags().Uint64Var(
			&seed, "seed", 0, "base seed (default from config, 12345)")
		cmd.Flags().IntVarP(
			&workers, "workers", "w", 0, "number of parallel workers (0 uses every CPU)")
	}
	for _, cmd := range []*cobra.Command{singleCmd, parallelCmd} {
		cmd.Flags().StringVarP(
			&format, "format", "f", "", "output format: auto, json, toml, table or text")
	}
}

func main() {
	log.SetFlags(0)

	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(exitErr)
	}
	os.Exit(exitOK)
}

func runProfiler() {
	go func() {
		log.Printf("starting pprof endpoint: http://%s/debug/pprof\n", profileAddr)
		_ = http.ListenAndServe(profileAddr, nil)
	}()
}

func runMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	go func() {
		log.Printf("serving metrics: http://%s/metrics\n", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Println(color.RedString("metrics endpoint: %v", err))
		}
	}()
}

// loadConfig reads --config when given and applies the flags that were set
// explicitly on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("format") {
		cfg.Format = format
	}
	if metricsAddr == "" && cfg.MetricsAddr != "" {
		metricsAddr = cfg.MetricsAddr
		runMetrics(metricsAddr)
	}
	if !profile && cfg.Profile {
		profile = true
		runProfiler()
	}
	return cfg, cfg.Validate()
}

func logger() func(...any) {
	if !verbose {
		return nil
	}
	return func(a ...any) {
		log.Println(a...)
	}
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/32Lwk/monte-carlo-pi-multi-language/estimator"
	"github.com/32Lwk/monte-carlo-pi-multi-language/report"
)

var singleCmd = &cobra.Command{
	Use:   "single",
	Short: "estimate pi with one worker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEstimate(cmd, estimator.ModeSingle)
	},
}

var parallelCmd = &cobra.Command{
	Use:   "parallel",
	Short: "estimate pi with one worker per CPU (or --workers)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEstimate(cmd, estimator.ModeParallel)
	},
}

func runEstimate(cmd *cobra.Command, mode estimator.Mode) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Mode = mode.String()
	f, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	ec, err := cfg.EstimatorConfig(logger())
	if err != nil {
		return err
	}

	res, err := estimator.Run(ec)
	if err != nil {
		return err
	}
	stats.Observe(res)
	return report.Write(os.Stdout, f, report.NewRecord(res))
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/32Lwk/monte-carlo-pi-multi-language/conformance"
	"github.com/32Lwk/monte-carlo-pi-multi-language/report"
	"github.com/32Lwk/monte-carlo-pi-multi-language/session"
)

var verifyLong bool

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "check the generator and estimator against the pinned vectors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vectors := conformance.DefaultVectors()
		if verifyLong {
			vectors = conformance.LongVectors()
		}
		if err := conformance.Verify(context.Background(), vectors); err != nil {
			fmt.Fprintln(os.Stderr, color.RedString("FAIL"))
			return err
		}
		fmt.Println(color.GreenString("ok"), len(vectors), "vectors")
		return nil
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "serve the line protocol on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		f, err := report.ParseFormat(cfg.Format)
		if err != nil {
			return err
		}
		return session.NewInterface(os.Stdin, os.Stdout, session.Options{
			Iterations: cfg.Iterations,
			Workers:    cfg.ResolvedWorkers(),
			Seed:       cfg.Seed,
			Format:     f,
		}, stats).Run(context.Background())
	},
}

func init() {
	verifyCmd.Flags().BoolVar(
		&verifyLong, "long", false, "include the 100,000,000 point runs")
}

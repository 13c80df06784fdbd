package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/meelinux/sssdcfg/internal/domain/config"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Converge the system to the declared state",
	Long: `Apply probes every step and runs the ones whose state diverges.

Execution is fail-fast: the first failed step stops the run. Completed
steps are not rolled back; fix the cause and re-run, and converged
steps will be skipped.`,
	RunE: runApply,
}

var (
	applyDryRun  bool
	applyTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "show what would be applied without applying")
	applyCmd.Flags().DurationVar(&applyTimeout, "timeout", 10*time.Minute, "overall deadline for the run")
}

func runApply(_ *cobra.Command, _ []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	dryRun := applyDryRun || env.DryRun

	a, err := newApp(os.Stdout)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
	defer cancel()

	results, err := a.Apply(ctx, path, dryRun)
	if len(results) > 0 {
		a.PrintResults(results, dryRun)
	}
	return err
}

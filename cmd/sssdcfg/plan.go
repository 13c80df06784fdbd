package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what changes sssdcfg would make",
	Long: `Plan loads the declaration, probes current system state, and shows
what would change, without changing anything.`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(_ *cobra.Command, _ []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	a, err := newApp(os.Stdout)
	if err != nil {
		return err
	}

	plan, err := a.Plan(context.Background(), path)
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	a.PrintPlan(plan)
	return nil
}

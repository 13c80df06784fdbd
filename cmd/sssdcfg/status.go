package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-step convergence status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
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
		return fmt.Errorf("status failed: %w", err)
	}

	a.PrintStatus(plan)
	return nil
}

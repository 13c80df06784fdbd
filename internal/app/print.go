package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/meelinux/sssdcfg/internal/domain/compiler"
	"github.com/meelinux/sssdcfg/internal/domain/execution"
)

var (
	styleSatisfied = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"})
	stylePending   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"})
	styleFailed    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"}).Bold(true)
	styleMuted     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"})
	styleTitle     = lipgloss.NewStyle().Bold(true)
)

func statusGlyph(status compiler.StepStatus) string {
	switch status {
	case compiler.StatusSatisfied:
		return styleSatisfied.Render("✓")
	case compiler.StatusNeedsApply:
		return stylePending.Render("+")
	case compiler.StatusFailed:
		return styleFailed.Render("✗")
	case compiler.StatusSkipped:
		return styleMuted.Render("-")
	case compiler.StatusUnknown:
		return stylePending.Render("?")
	}
	return " "
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// PrintPlan outputs a human-readable plan.
func (a *App) PrintPlan(plan *execution.Plan) {
	a.printf("%s\n\n", styleTitle.Render("sssdcfg plan"))

	if !plan.HasChanges() {
		a.printf("No changes needed. SSSD configuration is converged.\n")
		return
	}

	summary := plan.Summary()
	a.printf("Steps: %d total, %d to apply, %d satisfied\n\n",
		summary.Total, summary.NeedsApply, summary.Satisfied)

	for _, entry := range plan.Entries() {
		a.printf("  %s %s\n", statusGlyph(entry.Status()), entry.Step().ID().String())
		if entry.Status() == compiler.StatusNeedsApply {
			if diff := entry.Diff(); !diff.IsEmpty() {
				a.printf("      %s\n", styleMuted.Render(diff.Summary()))
			}
		}
	}

	a.printf("\nRun 'sssdcfg apply' to execute this plan.\n")
}

// PrintStatus outputs a per-step status table.
func (a *App) PrintStatus(plan *execution.Plan) {
	a.printf("%s\n\n", styleTitle.Render("sssdcfg status"))

	for _, entry := range plan.Entries() {
		a.printf("  %s %-45s %s\n",
			statusGlyph(entry.Status()),
			entry.Step().ID().String(),
			styleMuted.Render(entry.Step().Explain().Summary()))
	}

	summary := plan.Summary()
	a.printf("\n%d of %d steps satisfied\n", summary.Satisfied, summary.Total)
}

// PrintResults outputs the results of an apply run.
func (a *App) PrintResults(results []execution.StepResult, dryRun bool) {
	if dryRun {
		a.printf("%s\n\n", styleTitle.Render("sssdcfg apply (dry run)"))
	} else {
		a.printf("%s\n\n", styleTitle.Render("sssdcfg apply"))
	}

	applied := 0
	for _, result := range results {
		a.printf("  %s %s", statusGlyph(result.Status()), result.StepID().String())
		if d := result.Duration(); d > 0 {
			a.printf(" %s", styleMuted.Render(fmt.Sprintf("(%s)", d.Round(time.Millisecond))))
		}
		a.printf("\n")

		if result.Failed() {
			a.printf("      %s\n", styleFailed.Render(result.Error().Error()))
			a.printf("\nExecution stopped at the first failure. Fix the cause and re-run;\ncompleted steps will be skipped.\n")
			return
		}
		if !result.Diff().IsEmpty() {
			applied++
		}
	}

	if dryRun {
		a.printf("\n%d steps would be applied.\n", applied)
		return
	}
	a.printf("\nConverged: %d steps applied.\n", applied)
}

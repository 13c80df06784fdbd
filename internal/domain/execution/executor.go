package execution

import (
	"context"
	"time"

	"github.com/meelinux/sssdcfg/internal/domain/compiler"
)

// Executor runs steps from a Plan.
//
// Execution is single-actor and sequential: each step blocks on external
// process completion before the next starts. Failure is terminal for the
// run (fail-fast): execution halts at the first failed step, the effects
// of completed steps persist, and the next run converges the remainder
// via Check. There is no rollback.
type Executor struct {
	dryRun bool
}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// WithDryRun returns an Executor that simulates execution without applying.
func (e *Executor) WithDryRun(dryRun bool) *Executor {
	return &Executor{dryRun: dryRun}
}

// Execute runs the plan's steps in order. It returns the results of every
// step up to and including the first failure; steps after a failure are
// never attempted.
func (e *Executor) Execute(ctx context.Context, plan *Plan) []StepResult {
	results := make([]StepResult, 0, plan.Len())

	runCtx := compiler.NewRunContext(ctx).WithDryRun(e.dryRun)
	applied := make(map[compiler.StepID]bool)

	for _, entry := range plan.Entries() {
		select {
		case <-ctx.Done():
			// The deadline expired with steps still pending. Report the
			// aborted step as failed so the run does not look converged.
			stepID := entry.Step().ID()
			failure := compiler.NewTimeoutError(stepID.String(), ctx.Err())
			results = append(results, NewStepResult(stepID, compiler.StatusFailed, failure))
			return results
		default:
		}

		result, didApply := e.executeEntry(entry, runCtx, applied)
		results = append(results, result)

		if result.Failed() {
			break
		}
		if didApply {
			applied[entry.Step().ID()] = true
		}
	}

	return results
}

// executeEntry executes a single plan entry. The second return value
// reports whether the step's action actually ran.
func (e *Executor) executeEntry(entry PlanEntry, ctx compiler.RunContext, applied map[compiler.StepID]bool) (StepResult, bool) {
	step := entry.Step()
	stepID := step.ID()
	status := entry.Status()

	// A dependency's action may have invalidated state this step checked
	// at plan time (a profile switch resets its features, for example).
	// Re-check before trusting the plan-time status.
	if status == compiler.StatusSatisfied && !ctx.DryRun() && dependencyApplied(step, applied) {
		fresh, err := step.Check(ctx)
		if err != nil {
			failure := compiler.NewCheckFailedError(stepID.String(), err)
			return NewStepResult(stepID, compiler.StatusFailed, failure), false
		}
		status = fresh
	}

	if status == compiler.StatusSatisfied {
		return NewStepResult(stepID, compiler.StatusSatisfied, nil), false
	}

	if ctx.DryRun() {
		return NewStepResult(stepID, entry.Status(), nil).WithDiff(entry.Diff()), false
	}

	start := time.Now()
	err := step.Apply(ctx)
	duration := time.Since(start)

	if err != nil {
		failure := compiler.NewApplyFailedError(stepID.String(), err)
		return NewStepResult(stepID, compiler.StatusFailed, failure).WithDuration(duration), false
	}

	result := NewStepResult(stepID, compiler.StatusSatisfied, nil).
		WithDuration(duration).
		WithDiff(entry.Diff())
	return result, true
}

// dependencyApplied reports whether any direct dependency of step ran its
// action during this execution.
func dependencyApplied(step compiler.Step, applied map[compiler.StepID]bool) bool {
	for _, dep := range step.DependsOn() {
		if applied[dep] {
			return true
		}
	}
	return false
}

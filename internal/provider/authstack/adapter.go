package authstack

import (
	"fmt"

	"github.com/meelinux/sssdcfg/internal/domain/compiler"
	"github.com/meelinux/sssdcfg/internal/domain/reconcile"
	"github.com/meelinux/sssdcfg/internal/ports"
)

// AdapterStep exposes a reconcile.Step as an engine step. All steps of
// one compilation share a reconciler, so its dependency memory spans
// the pass: a step observed converged at plan time satisfies later
// prerequisites the same way an applied one does.
type AdapterStep struct {
	step       reconcile.Step
	deps       []compiler.StepID
	id         compiler.StepID
	runner     ports.CommandRunner
	reconciler *reconcile.Reconciler
}

// NewAdapterStep creates a new AdapterStep.
func NewAdapterStep(step reconcile.Step, deps []compiler.StepID, runner ports.CommandRunner, reconciler *reconcile.Reconciler) *AdapterStep {
	id := compiler.MustNewStepID("auth:" + step.Name)
	return &AdapterStep{
		step:       step,
		deps:       deps,
		id:         id,
		runner:     runner,
		reconciler: reconciler,
	}
}

// ID returns the step identifier.
func (s *AdapterStep) ID() compiler.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *AdapterStep) DependsOn() []compiler.StepID {
	return s.deps
}

// Check runs the probe. Exit 0 means satisfied, exit 1 means the
// action is needed; anything else is ambiguous and refuses to guess.
func (s *AdapterStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	result, err := s.runner.Run(ctx.Context(), s.step.Probe.Name, s.step.Probe.Args...)
	if err != nil {
		return compiler.StatusUnknown, &reconcile.Error{
			Kind: reconcile.KindProbeFailed,
			Step: s.step.Name,
			Err:  err,
		}
	}
	if result.Success() {
		s.reconciler.MarkConverged(s.step.Name)
		return compiler.StatusSatisfied, nil
	}
	if result.ExitCode != 1 {
		return compiler.StatusUnknown, &reconcile.Error{
			Kind:   reconcile.KindProbeFailed,
			Step:   s.step.Name,
			Output: result.Output(),
			Err:    fmt.Errorf("probe exited with ambiguous status %d", result.ExitCode),
		}
	}
	return compiler.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *AdapterStep) Plan(_ compiler.RunContext) (compiler.Diff, error) {
	return compiler.NewDiff(compiler.DiffTypeModify, "auth", s.step.Name, "", s.step.Action.String()), nil
}

// Apply reconciles the step. The probe runs again before the action,
// so state that converged between plan and apply is left alone.
func (s *AdapterStep) Apply(ctx compiler.RunContext) error {
	result := s.reconciler.Reconcile(ctx.Context(), s.step)
	if result.Failed() {
		return result.Err
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *AdapterStep) Explain() compiler.Explanation {
	return compiler.NewExplanation(
		"Configure auth stack",
		fmt.Sprintf("Runs %s when %s reports the state is not in place.", s.step.Action.String(), s.step.Probe.String()),
	)
}

// Ensure AdapterStep implements compiler.Step.
var _ compiler.Step = (*AdapterStep)(nil)

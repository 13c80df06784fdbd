package execution

import (
	"context"
	"fmt"

	"github.com/meelinux/sssdcfg/internal/domain/compiler"
)

// Planner generates a Plan from a StepGraph.
// It checks each step's current status and records the pending changes.
type Planner struct{}

// NewPlanner creates a new Planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// Plan generates a Plan by checking each step's status.
// Steps are returned in topological order for correct execution. A
// check that errors aborts planning: the state of that step cannot be
// determined and guessing would risk acting on a healthy system.
func (p *Planner) Plan(ctx context.Context, graph *compiler.StepGraph) (*Plan, error) {
	plan := NewPlan()

	steps, err := graph.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("failed to sort steps: %w", err)
	}

	runCtx := compiler.NewRunContext(ctx)

	for _, step := range steps {
		entry, err := p.planStep(step, runCtx)
		if err != nil {
			return nil, compiler.NewCheckFailedError(step.ID().String(), err)
		}
		plan.Add(entry)
	}

	return plan, nil
}

// planStep checks a single step and generates a PlanEntry.
func (p *Planner) planStep(step compiler.Step, ctx compiler.RunContext) (PlanEntry, error) {
	status, err := step.Check(ctx)
	if err != nil {
		return PlanEntry{}, err
	}

	var diff compiler.Diff

	if status == compiler.StatusNeedsApply {
		diff, err = step.Plan(ctx)
		if err != nil {
			return PlanEntry{}, fmt.Errorf("plan failed: %w", err)
		}
	}

	return NewPlanEntry(step, status, diff), nil
}

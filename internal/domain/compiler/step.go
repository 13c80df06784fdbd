package compiler

// Step represents an idempotent unit of convergence.
// Each step can check its current state, plan changes, and apply them.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() StepID

	// DependsOn returns the IDs of steps that must complete before this one.
	DependsOn() []StepID

	// Check determines the current status of this step.
	// Returns StatusSatisfied if no action is needed, StatusNeedsApply if
	// changes are required. The check must not mutate system state.
	Check(ctx RunContext) (StepStatus, error)

	// Plan returns the diff describing what changes this step will make.
	Plan(ctx RunContext) (Diff, error)

	// Apply executes the step's changes.
	// Applying must be idempotent: running it twice produces the same end
	// state as running it once. There is no rollback; a failed apply leaves
	// the system in whatever intermediate state the completed steps
	// produced, and the next run converges via Check.
	Apply(ctx RunContext) error

	// Explain returns human-readable context for this step.
	Explain() Explanation
}

// Package reconcile converges external subsystems to a desired state
// using only command execution and exit-status inspection.
//
// Each step pairs a side-effect-free probe with a mutating action. The
// probe reports whether the subsystem already matches the desired state;
// the action runs only when it does not. Because state is rediscovered
// via the probe on every pass, actions must be idempotent and a repeat
// pass with no external change converges to all-skipped.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meelinux/sssdcfg/internal/ports"
)

// Outcome is the terminal result of reconciling a single step.
type Outcome string

const (
	// OutcomeSkipped means the probe reported the desired state already holds.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeApplied means the action ran and succeeded.
	OutcomeApplied Outcome = "applied"
	// OutcomeFailed means the step could not be brought to the desired state.
	OutcomeFailed Outcome = "failed"
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// ErrorKind categorizes a failed reconciliation.
type ErrorKind string

const (
	// KindDependencyUnmet means a prerequisite step did not complete.
	KindDependencyUnmet ErrorKind = "dependency-unmet"
	// KindProbeFailed means the probe errored rather than cleanly
	// reporting "not satisfied"; the state could not be determined.
	KindProbeFailed ErrorKind = "probe-failed"
	// KindActionFailed means the action process exited non-zero.
	KindActionFailed ErrorKind = "action-failed"
	// KindTimeout means the step exceeded its execution deadline.
	KindTimeout ErrorKind = "timeout"
)

// Command is an external command invocation.
type Command struct {
	Name string
	Args []string
}

// String returns the rendered command line.
func (c Command) String() string {
	s := c.Name
	for _, a := range c.Args {
		s += " " + a
	}
	return s
}

// IsZero returns true if no command is set.
func (c Command) IsZero() bool {
	return c.Name == ""
}

// Step pairs a probe with an action.
//
// Probe exit status contract: 0 means "already satisfied", 1 means "not
// satisfied"; any other exit status is treated as an ambiguous probe and
// surfaces as KindProbeFailed rather than silently triggering the action.
// The probe must never mutate state; this is a caller contract.
type Step struct {
	// Name identifies the step within a pass.
	Name string
	// Probe checks whether the desired state already holds.
	Probe Command
	// Action mutates external state to reach the desired state.
	// It must be idempotent with respect to repeated application.
	Action Command
	// DependsOn names a prior step that must have completed (applied or
	// skipped) before this step runs. Empty means no prerequisite.
	DependsOn string
	// Timeout bounds the execution of each of probe and action.
	// Zero means no step-level deadline beyond the caller's context.
	Timeout time.Duration
}

// Result captures the terminal outcome of reconciling one step.
type Result struct {
	Step     string
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// Failed returns true if the step failed.
func (r Result) Failed() bool {
	return r.Outcome == OutcomeFailed
}

// Error is the failure detail carried by a failed Result.
type Error struct {
	Kind   ErrorKind
	Step   string
	Output string
	Err    error
}

// Error returns the formatted error message.
func (e *Error) Error() string {
	msg := fmt.Sprintf("step %q: %s", e.Step, e.Kind)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the error kind from a failed result's error.
// Returns the empty kind if err is not a reconcile error.
func KindOf(err error) ErrorKind {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return ""
}

// Reconciler runs steps against an external subsystem through a command
// runner. It remembers the outcomes of steps it has run so later steps
// can depend on earlier ones. A Reconciler is built fresh per
// reconciliation pass and is not safe for concurrent use; two actors
// probing and acting on the same subsystem race on shared OS state.
type Reconciler struct {
	runner ports.CommandRunner
	logger ports.Logger
	done   map[string]Outcome
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger used for per-step diagnostics.
func WithLogger(logger ports.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// New creates a Reconciler for one reconciliation pass.
func New(runner ports.CommandRunner, opts ...Option) *Reconciler {
	r := &Reconciler{
		runner: runner,
		done:   make(map[string]Outcome),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile converges a single step.
//
// If the probe reports the desired state already holds the step is
// skipped and the action never runs; otherwise the action runs and its
// exit status decides between applied and failed. At most one external
// mutation happens per call. Calling Reconcile twice with no intervening
// external change yields skipped on the second call, given a correctly
// matched probe/action pair.
func (r *Reconciler) Reconcile(ctx context.Context, step Step) Result {
	start := time.Now()
	result := r.reconcile(ctx, step)
	result.Duration = time.Since(start)

	r.done[step.Name] = result.Outcome
	r.logResult(ctx, step, result)
	return result
}

func (r *Reconciler) reconcile(ctx context.Context, step Step) Result {
	if step.DependsOn != "" {
		outcome, ran := r.done[step.DependsOn]
		if !ran || outcome == OutcomeFailed {
			return Result{
				Step:    step.Name,
				Outcome: OutcomeFailed,
				Err: &Error{
					Kind: KindDependencyUnmet,
					Step: step.Name,
					Err:  fmt.Errorf("prerequisite %q did not complete", step.DependsOn),
				},
			}
		}
	}

	if step.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, step.Timeout)
		defer cancel()
	}

	probe, err := r.runner.Run(ctx, step.Probe.Name, step.Probe.Args...)
	if err != nil {
		return Result{
			Step:    step.Name,
			Outcome: OutcomeFailed,
			Err:     r.failure(ctx, KindProbeFailed, step, probe.Output(), err),
		}
	}
	if probe.Success() {
		return Result{Step: step.Name, Outcome: OutcomeSkipped}
	}
	if probe.ExitCode != 1 {
		// Probe could not determine state; do not guess and act.
		return Result{
			Step:    step.Name,
			Outcome: OutcomeFailed,
			Err: r.failure(ctx, KindProbeFailed, step, probe.Output(),
				fmt.Errorf("probe exited with ambiguous status %d", probe.ExitCode)),
		}
	}

	action, err := r.runner.Run(ctx, step.Action.Name, step.Action.Args...)
	if err != nil {
		return Result{
			Step:    step.Name,
			Outcome: OutcomeFailed,
			Err:     r.failure(ctx, KindActionFailed, step, action.Output(), err),
		}
	}
	if !action.Success() {
		return Result{
			Step:    step.Name,
			Outcome: OutcomeFailed,
			Err: r.failure(ctx, KindActionFailed, step, action.Output(),
				fmt.Errorf("action exited with status %d", action.ExitCode)),
		}
	}

	return Result{Step: step.Name, Outcome: OutcomeApplied}
}

// MarkConverged records a step observed to already hold its desired
// state without this reconciler having run it, so later steps may
// declare it as a prerequisite. The step counts as skipped.
func (r *Reconciler) MarkConverged(name string) {
	r.done[name] = OutcomeSkipped
}

// Chain converges steps in order, fail-fast: execution stops at the
// first failed step and the returned results end with that failure.
// Completed steps are not rolled back; the caller re-runs the chain once
// the root cause is fixed and converged steps report skipped.
func (r *Reconciler) Chain(ctx context.Context, steps []Step) []Result {
	results := make([]Result, 0, len(steps))
	for _, step := range steps {
		result := r.Reconcile(ctx, step)
		results = append(results, result)
		if result.Failed() {
			break
		}
	}
	return results
}

// failure builds the error for a failed step, promoting context
// expiry to a timeout kind.
func (r *Reconciler) failure(ctx context.Context, kind ErrorKind, step Step, output string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &Error{Kind: KindTimeout, Step: step.Name, Output: output, Err: ctxErr}
	}
	return &Error{Kind: kind, Step: step.Name, Output: output, Err: err}
}

func (r *Reconciler) logResult(ctx context.Context, step Step, result Result) {
	if r.logger == nil {
		return
	}
	fields := []ports.Field{
		ports.F("step", step.Name),
		ports.F("outcome", result.Outcome.String()),
		ports.F("duration", result.Duration.String()),
	}
	if result.Err != nil {
		r.logger.Error(ctx, "reconcile step failed", append(fields, ports.F("error", result.Err.Error()))...)
		return
	}
	r.logger.Debug(ctx, "reconcile step done", fields...)
}

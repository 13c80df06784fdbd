package compiler

import (
	"fmt"
	"strings"
)

// Error codes for compiler operations.
const (
	ErrCodeProviderFailed    = "PROVIDER_FAILED"
	ErrCodeStepDuplicate     = "STEP_DUPLICATE"
	ErrCodeDependencyMissing = "DEPENDENCY_MISSING"
	ErrCodeCyclicDependency  = "CYCLIC_DEPENDENCY"
	ErrCodeApplyFailed       = "APPLY_FAILED"
	ErrCodeCheckFailed       = "CHECK_FAILED"
	ErrCodeTimeout           = "TIMEOUT"
)

// StepError represents a user-facing compiler error with actionable suggestions.
type StepError struct {
	Code       string // Error code for categorization
	Message    string // User-facing error message
	Provider   string // Provider that caused the error
	StepID     string // Step ID if applicable
	Suggestion string // Actionable suggestion to fix the error
	Underlying error  // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *StepError) Error() string {
	var parts []string

	if e.Provider != "" {
		parts = append(parts, fmt.Sprintf("provider %q", e.Provider))
	}
	if e.StepID != "" {
		parts = append(parts, fmt.Sprintf("step %q", e.StepID))
	}

	if len(parts) > 0 {
		return fmt.Sprintf("%s: %s", strings.Join(parts, ", "), e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain support.
func (e *StepError) Unwrap() error {
	return e.Underlying
}

// Format returns a fully formatted error with all details.
func (e *StepError) Format() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Provider != "" {
		b.WriteString(fmt.Sprintf("\n  Provider: %s", e.Provider))
	}
	if e.StepID != "" {
		b.WriteString(fmt.Sprintf("\n  Step: %s", e.StepID))
	}
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  Suggestion: %s", e.Suggestion))
	}
	if e.Underlying != nil {
		b.WriteString(fmt.Sprintf("\n  Cause: %s", e.Underlying.Error()))
	}

	return b.String()
}

// NewApplyFailedError creates an error for step apply failure.
func NewApplyFailedError(stepID string, err error) *StepError {
	return &StepError{
		Code:       ErrCodeApplyFailed,
		Message:    "step failed to apply",
		StepID:     stepID,
		Suggestion: "Check the captured output; previously applied steps persist and re-running converges once the cause is fixed.",
		Underlying: err,
	}
}

// NewTimeoutError creates an error for a step aborted by the run deadline.
func NewTimeoutError(stepID string, err error) *StepError {
	return &StepError{
		Code:       ErrCodeTimeout,
		Message:    "run deadline expired before the step could run",
		StepID:     stepID,
		Suggestion: "Increase --timeout; completed steps persist and re-running converges the remainder.",
		Underlying: err,
	}
}

// NewCheckFailedError creates an error for step check failure.
func NewCheckFailedError(stepID string, err error) *StepError {
	return &StepError{
		Code:       ErrCodeCheckFailed,
		Message:    "step status check failed",
		StepID:     stepID,
		Suggestion: "The step could not determine its current status. This may be a transient error.",
		Underlying: err,
	}
}

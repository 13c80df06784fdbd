package config

import "fmt"

// UserError is a user-facing configuration error with an actionable
// suggestion. The CLI renders Message and Suggestion; Underlying is for
// verbose output and error-chain inspection.
type UserError struct {
	Message    string
	Context    string
	Suggestion string
	Underlying error
}

// Error returns the formatted error message.
func (e *UserError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s (at %s)", e.Message, e.Context)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *UserError) Unwrap() error {
	return e.Underlying
}

// NewConfigNotFoundError creates an error for a missing declaration file.
func NewConfigNotFoundError(path string) *UserError {
	return &UserError{
		Message:    fmt.Sprintf("configuration file not found: %s", path),
		Context:    path,
		Suggestion: "Create a sssdcfg.yaml declaration or point --config at one.",
	}
}

// NewParseError creates an error for an unparseable declaration file.
func NewParseError(path string, err error) *UserError {
	return &UserError{
		Message:    fmt.Sprintf("could not parse %s", path),
		Context:    path,
		Suggestion: "Check the file for syntax errors; YAML is indentation sensitive.",
		Underlying: err,
	}
}

package compiler

// Explanation provides context for why a step exists and what it does.
type Explanation struct {
	summary string
	detail  string
}

// NewExplanation creates a new Explanation.
func NewExplanation(summary, detail string) Explanation {
	return Explanation{
		summary: summary,
		detail:  detail,
	}
}

// Summary returns a brief description of what the step does.
func (e Explanation) Summary() string {
	return e.summary
}

// Detail returns a longer explanation with context.
func (e Explanation) Detail() string {
	return e.detail
}

// IsEmpty returns true if this explanation has no content.
func (e Explanation) IsEmpty() bool {
	return e.summary == "" && e.detail == ""
}

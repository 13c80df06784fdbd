package compiler

import (
	"github.com/meelinux/sssdcfg/internal/domain/config"
	"github.com/meelinux/sssdcfg/internal/domain/platform"
)

// Provider compiles part of the desired configuration into executable
// steps. Each provider handles one resource kind (packages, the config
// file, services, the auth stack).
type Provider interface {
	// Name returns the provider's identifier (e.g., "pkg", "service").
	Name() string

	// Compile transforms configuration into a list of steps.
	// Cross-provider ordering is expressed through Step.DependsOn().
	Compile(ctx CompileContext) ([]Step, error)
}

// CompileContext provides the desired configuration and detected
// platform facts to providers during compilation. It is immutable
// during one reconciliation pass.
type CompileContext struct {
	cfg   *config.Config
	facts platform.Facts
}

// NewCompileContext creates a new CompileContext.
func NewCompileContext(cfg *config.Config, facts platform.Facts) CompileContext {
	return CompileContext{
		cfg:   cfg,
		facts: facts,
	}
}

// Config returns the desired configuration.
func (c CompileContext) Config() *config.Config {
	return c.cfg
}

// Facts returns the detected platform facts.
func (c CompileContext) Facts() platform.Facts {
	return c.facts
}

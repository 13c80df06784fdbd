package pkgmgr

import (
	"fmt"

	"github.com/meelinux/sssdcfg/internal/domain/compiler"
	"github.com/meelinux/sssdcfg/internal/domain/platform"
	"github.com/meelinux/sssdcfg/internal/ports"
)

// Provider compiles the package requirements into install steps.
type Provider struct {
	runner ports.CommandRunner
}

// NewProvider creates a new package Provider.
func NewProvider(runner ports.CommandRunner) *Provider {
	return &Provider{runner: runner}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "pkg"
}

// Compile transforms package requirements into install steps.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]compiler.Step, error) {
	cfg := ctx.Config()
	if !cfg.Packages.Managed() {
		return nil, nil
	}

	facts := ctx.Facts()
	if facts.Family == platform.FamilyUnknown {
		return nil, fmt.Errorf("no package manager known for platform %q", facts.ID)
	}

	pkgs := packageSet(cfg, facts)
	steps := make([]compiler.Step, 0, len(pkgs))
	for _, pkg := range pkgs {
		steps = append(steps, NewInstallStep(pkg, facts, p.runner))
	}
	return steps, nil
}

// Ensure Provider implements compiler.Provider.
var _ compiler.Provider = (*Provider)(nil)

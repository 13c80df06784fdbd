// Package service provides the systemd provider: it enables and starts
// the sssd unit (and oddjobd where home directory creation needs it)
// and restarts sssd when the configuration file changes.
package service

import (
	"github.com/meelinux/sssdcfg/internal/domain/compiler"
	"github.com/meelinux/sssdcfg/internal/domain/platform"
	"github.com/meelinux/sssdcfg/internal/ports"
	"github.com/meelinux/sssdcfg/internal/provider/sssdconf"
)

// Provider compiles service requirements into systemd steps.
type Provider struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewProvider creates a new service Provider.
func NewProvider(runner ports.CommandRunner, fs ports.FileSystem) *Provider {
	return &Provider{runner: runner, fs: fs}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "service"
}

// Compile produces unit steps for the managed services and a restart
// step that fires when sssd.conf is about to change.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]compiler.Step, error) {
	cfg := ctx.Config()
	if !cfg.Services.Managed() {
		return nil, nil
	}

	content, err := sssdconf.Render(cfg)
	if err != nil {
		return nil, err
	}

	confStep := compiler.MustNewStepID("sssdconf:file:" + cfg.Path())

	units := []string{"sssd"}
	if cfg.MkHomeDir && ctx.Facts().Family == platform.FamilyRedHat {
		units = append(units, "oddjobd")
	}
	units = append(units, cfg.Services.Extra...)

	steps := make([]compiler.Step, 0, len(units)+1)
	for _, unit := range units {
		steps = append(steps, NewUnitStep(unit, []compiler.StepID{confStep}, p.runner))
	}

	restartDeps := []compiler.StepID{
		confStep,
		compiler.MustNewStepID("service:unit:sssd"),
	}
	steps = append(steps, NewRestartStep("sssd", cfg.Path(), content, restartDeps, p.runner, p.fs))

	return steps, nil
}

// Ensure Provider implements compiler.Provider.
var _ compiler.Provider = (*Provider)(nil)

package authstack

import (
	"github.com/meelinux/sssdcfg/internal/domain/compiler"
	"github.com/meelinux/sssdcfg/internal/domain/reconcile"
	"github.com/meelinux/sssdcfg/internal/ports"
)

// Provider compiles the auth stack integration into engine steps.
type Provider struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// NewProvider creates a new auth stack Provider.
func NewProvider(runner ports.CommandRunner, logger ports.Logger) *Provider {
	return &Provider{runner: runner, logger: logger}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "auth"
}

// Compile builds the dialect's reconcile steps and adapts them. The
// profile step waits for sssd.conf so the daemon configuration exists
// before PAM starts consulting it; feature steps chain on the profile.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]compiler.Step, error) {
	cfg := ctx.Config()

	rsteps, err := BuildSteps(cfg, ctx.Facts())
	if err != nil {
		return nil, err
	}

	var opts []reconcile.Option
	if p.logger != nil {
		opts = append(opts, reconcile.WithLogger(p.logger))
	}
	reconciler := reconcile.New(p.runner, opts...)

	confStep := compiler.MustNewStepID("sssdconf:file:" + cfg.Path())

	steps := make([]compiler.Step, 0, len(rsteps))
	for _, rstep := range rsteps {
		deps := []compiler.StepID{confStep}
		if rstep.DependsOn != "" {
			deps = append(deps, compiler.MustNewStepID("auth:"+rstep.DependsOn))
		}
		steps = append(steps, NewAdapterStep(rstep, deps, p.runner, reconciler))
	}
	return steps, nil
}

// Ensure Provider implements compiler.Provider.
var _ compiler.Provider = (*Provider)(nil)

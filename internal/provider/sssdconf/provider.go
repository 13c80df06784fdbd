package sssdconf

import (
	"github.com/meelinux/sssdcfg/internal/domain/compiler"
	"github.com/meelinux/sssdcfg/internal/ports"
)

// Provider compiles the declared SSSD settings into a file step.
type Provider struct {
	fs ports.FileSystem
}

// NewProvider creates a new sssd.conf Provider.
func NewProvider(fs ports.FileSystem) *Provider {
	return &Provider{fs: fs}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "sssdconf"
}

// Compile renders the configuration and produces the step that keeps
// sssd.conf in sync. The step depends on the sssd package so the
// directory layout and ownership conventions exist before writing.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]compiler.Step, error) {
	cfg := ctx.Config()

	content, err := Render(cfg)
	if err != nil {
		return nil, err
	}

	var deps []compiler.StepID
	if cfg.Packages.Managed() {
		deps = append(deps, compiler.MustNewStepID("pkg:install:sssd"))
	}

	return []compiler.Step{NewFileStep(cfg.Path(), content, deps, p.fs)}, nil
}

// Ensure Provider implements compiler.Provider.
var _ compiler.Provider = (*Provider)(nil)

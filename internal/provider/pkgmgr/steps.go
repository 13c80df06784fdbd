package pkgmgr

import (
	"fmt"
	"strings"

	"github.com/meelinux/sssdcfg/internal/domain/compiler"
	"github.com/meelinux/sssdcfg/internal/domain/platform"
	"github.com/meelinux/sssdcfg/internal/ports"
)

// InstallStep installs a single package through the platform's
// package manager.
type InstallStep struct {
	pkg    string
	facts  platform.Facts
	id     compiler.StepID
	runner ports.CommandRunner
}

// NewInstallStep creates a new InstallStep.
func NewInstallStep(pkg string, facts platform.Facts, runner ports.CommandRunner) *InstallStep {
	id := compiler.MustNewStepID("pkg:install:" + pkg)
	return &InstallStep{
		pkg:    pkg,
		facts:  facts,
		id:     id,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *InstallStep) ID() compiler.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *InstallStep) DependsOn() []compiler.StepID {
	return nil
}

// Check determines if the package is already installed.
func (s *InstallStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	switch s.facts.Family {
	case platform.FamilyDebian:
		result, err := s.runner.Run(ctx.Context(), "dpkg-query", "-W", "-f=${db:Status-Status}", s.pkg)
		if err != nil {
			return compiler.StatusUnknown, err
		}
		// dpkg-query exits 1 when the package is not in the database.
		if !result.Success() {
			return compiler.StatusNeedsApply, nil
		}
		if strings.TrimSpace(result.Stdout) == "installed" {
			return compiler.StatusSatisfied, nil
		}
		return compiler.StatusNeedsApply, nil
	case platform.FamilyRedHat, platform.FamilySuse:
		result, err := s.runner.Run(ctx.Context(), "rpm", "-q", s.pkg)
		if err != nil {
			return compiler.StatusUnknown, err
		}
		if result.Success() {
			return compiler.StatusSatisfied, nil
		}
		return compiler.StatusNeedsApply, nil
	default:
		return compiler.StatusUnknown, fmt.Errorf("unsupported platform family %q", s.facts.Family)
	}
}

// Plan returns the diff for this step.
func (s *InstallStep) Plan(_ compiler.RunContext) (compiler.Diff, error) {
	return compiler.NewDiff(compiler.DiffTypeAdd, "package", s.pkg, "", "installed"), nil
}

// Apply installs the package.
func (s *InstallStep) Apply(ctx compiler.RunContext) error {
	name, args := installCommand(s.facts, s.pkg)
	result, err := s.runner.Run(ctx.Context(), name, args...)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("%s install %s failed: %s", name, s.pkg, result.Stderr)
	}
	return nil
}

// installCommand returns the install command for the platform.
// Red Hat platforms use dnf from RHEL 8 / Fedora onward and yum before.
func installCommand(facts platform.Facts, pkg string) (string, []string) {
	switch facts.Family {
	case platform.FamilyDebian:
		return "apt-get", []string{"install", "-y", pkg}
	case platform.FamilySuse:
		return "zypper", []string{"--non-interactive", "install", pkg}
	default:
		if facts.ID == "fedora" || facts.Major >= 8 {
			return "dnf", []string{"install", "-y", pkg}
		}
		return "yum", []string{"install", "-y", pkg}
	}
}

// Explain provides a human-readable explanation.
func (s *InstallStep) Explain() compiler.Explanation {
	name, _ := installCommand(s.facts, s.pkg)
	return compiler.NewExplanation(
		"Install package",
		fmt.Sprintf("Installs the %s package via %s.", s.pkg, name),
	)
}

package pkgmgr_test

import (
	"context"
	"errors"
	"testing"

	"github.com/meelinux/sssdcfg/internal/domain/compiler"
	"github.com/meelinux/sssdcfg/internal/domain/platform"
	"github.com/meelinux/sssdcfg/internal/ports"
	"github.com/meelinux/sssdcfg/internal/provider/pkgmgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rhel9Facts() platform.Facts {
	return platform.Facts{ID: "rhel", Family: platform.FamilyRedHat, Major: 9}
}

func debianFacts() platform.Facts {
	return platform.Facts{ID: "debian", Family: platform.FamilyDebian, Major: 12}
}

func suseFacts() platform.Facts {
	return platform.Facts{ID: "opensuse-leap", Family: platform.FamilySuse, Major: 15}
}

func TestInstallStep_ID(t *testing.T) {
	t.Parallel()

	runner := ports.NewMockCommandRunner()
	step := pkgmgr.NewInstallStep("sssd", rhel9Facts(), runner)

	assert.Equal(t, "pkg:install:sssd", step.ID().String())
}

func TestInstallStep_DependsOn(t *testing.T) {
	t.Parallel()

	runner := ports.NewMockCommandRunner()
	step := pkgmgr.NewInstallStep("sssd", rhel9Facts(), runner)

	assert.Empty(t, step.DependsOn())
}

func TestInstallStep_Check_RPMInstalled(t *testing.T) {
	t.Parallel()

	runner := ports.NewMockCommandRunner()
	runner.AddResult("rpm", []string{"-q", "sssd"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "sssd-2.9.4-1.el9.x86_64\n",
	})

	step := pkgmgr.NewInstallStep("sssd", rhel9Facts(), runner)

	ctx := compiler.NewRunContext(context.TODO())
	status, err := step.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, compiler.StatusSatisfied, status)
}

func TestInstallStep_Check_RPMNotInstalled(t *testing.T) {
	t.Parallel()

	runner := ports.NewMockCommandRunner()
	runner.AddResult("rpm", []string{"-q", "sssd"}, ports.CommandResult{
		ExitCode: 1,
		Stdout:   "package sssd is not installed\n",
	})

	step := pkgmgr.NewInstallStep("sssd", rhel9Facts(), runner)

	ctx := compiler.NewRunContext(context.TODO())
	status, err := step.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, compiler.StatusNeedsApply, status)
}

func TestInstallStep_Check_DpkgInstalled(t *testing.T) {
	t.Parallel()

	runner := ports.NewMockCommandRunner()
	runner.AddResult("dpkg-query", []string{"-W", "-f=${db:Status-Status}", "sssd"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "installed",
	})

	step := pkgmgr.NewInstallStep("sssd", debianFacts(), runner)

	ctx := compiler.NewRunContext(context.TODO())
	status, err := step.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, compiler.StatusSatisfied, status)
}

func TestInstallStep_Check_DpkgDeinstalled(t *testing.T) {
	t.Parallel()

	runner := ports.NewMockCommandRunner()
	runner.AddResult("dpkg-query", []string{"-W", "-f=${db:Status-Status}", "sssd"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "config-files",
	})

	step := pkgmgr.NewInstallStep("sssd", debianFacts(), runner)

	ctx := compiler.NewRunContext(context.TODO())
	status, err := step.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, compiler.StatusNeedsApply, status)
}

func TestInstallStep_Check_DpkgNotFound(t *testing.T) {
	t.Parallel()

	runner := ports.NewMockCommandRunner()
	runner.AddResult("dpkg-query", []string{"-W", "-f=${db:Status-Status}", "sssd"}, ports.CommandResult{
		ExitCode: 1,
		Stderr:   "dpkg-query: no packages found matching sssd\n",
	})

	step := pkgmgr.NewInstallStep("sssd", debianFacts(), runner)

	ctx := compiler.NewRunContext(context.TODO())
	status, err := step.Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, compiler.StatusNeedsApply, status)
}

func TestInstallStep_Check_RunnerError(t *testing.T) {
	t.Parallel()

	runner := ports.NewMockCommandRunner()
	runner.AddError("rpm", []string{"-q", "sssd"}, errors.New("exec failed"))

	step := pkgmgr.NewInstallStep("sssd", rhel9Facts(), runner)

	ctx := compiler.NewRunContext(context.TODO())
	status, err := step.Check(ctx)

	require.Error(t, err)
	assert.Equal(t, compiler.StatusUnknown, status)
}

func TestInstallStep_Plan(t *testing.T) {
	t.Parallel()

	runner := ports.NewMockCommandRunner()
	step := pkgmgr.NewInstallStep("sssd", rhel9Facts(), runner)

	ctx := compiler.NewRunContext(context.TODO())
	diff, err := step.Plan(ctx)

	require.NoError(t, err)
	assert.Equal(t, compiler.DiffTypeAdd, diff.Type())
	assert.Equal(t, "package", diff.Resource())
	assert.Equal(t, "sssd", diff.Name())
}

func TestInstallStep_Apply_Dnf(t *testing.T) {
	t.Parallel()

	runner := ports.NewMockCommandRunner()
	runner.AddResult("dnf", []string{"install", "-y", "sssd"}, ports.CommandResult{
		ExitCode: 0,
	})

	step := pkgmgr.NewInstallStep("sssd", rhel9Facts(), runner)

	ctx := compiler.NewRunContext(context.TODO())
	err := step.Apply(ctx)

	require.NoError(t, err)
	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "dnf", calls[0].Command)
}

func TestInstallStep_Apply_YumOnOldRHEL(t *testing.T) {
	t.Parallel()

	runner := ports.NewMockCommandRunner()
	runner.AddResult("yum", []string{"install", "-y", "sssd"}, ports.CommandResult{
		ExitCode: 0,
	})

	facts := platform.Facts{ID: "centos", Family: platform.FamilyRedHat, Major: 7}
	step := pkgmgr.NewInstallStep("sssd", facts, runner)

	ctx := compiler.NewRunContext(context.TODO())
	err := step.Apply(ctx)

	require.NoError(t, err)
}

func TestInstallStep_Apply_AptGet(t *testing.T) {
	t.Parallel()

	runner := ports.NewMockCommandRunner()
	runner.AddResult("apt-get", []string{"install", "-y", "libpam-sss"}, ports.CommandResult{
		ExitCode: 0,
	})

	step := pkgmgr.NewInstallStep("libpam-sss", debianFacts(), runner)

	ctx := compiler.NewRunContext(context.TODO())
	err := step.Apply(ctx)

	require.NoError(t, err)
}

func TestInstallStep_Apply_Zypper(t *testing.T) {
	t.Parallel()

	runner := ports.NewMockCommandRunner()
	runner.AddResult("zypper", []string{"--non-interactive", "install", "sssd"}, ports.CommandResult{
		ExitCode: 0,
	})

	step := pkgmgr.NewInstallStep("sssd", suseFacts(), runner)

	ctx := compiler.NewRunContext(context.TODO())
	err := step.Apply(ctx)

	require.NoError(t, err)
}

func TestInstallStep_Apply_Failure(t *testing.T) {
	t.Parallel()

	runner := ports.NewMockCommandRunner()
	runner.AddResult("dnf", []string{"install", "-y", "sssd"}, ports.CommandResult{
		ExitCode: 1,
		Stderr:   "No match for argument: sssd\n",
	})

	step := pkgmgr.NewInstallStep("sssd", rhel9Facts(), runner)

	ctx := compiler.NewRunContext(context.TODO())
	err := step.Apply(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "No match for argument")
}

func TestInstallStep_Explain(t *testing.T) {
	t.Parallel()

	runner := ports.NewMockCommandRunner()
	step := pkgmgr.NewInstallStep("sssd", rhel9Facts(), runner)

	explanation := step.Explain()

	assert.Equal(t, "Install package", explanation.Summary())
	assert.Contains(t, explanation.Detail(), "dnf")
}

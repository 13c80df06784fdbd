// Package authstack provides the auth integration provider: it drives
// the platform's PAM/NSS management tool (authselect, authconfig,
// pam-config or pam-auth-update) to wire sssd into the auth stack.
package authstack

import (
	"fmt"

	"github.com/meelinux/sssdcfg/internal/domain/config"
	"github.com/meelinux/sssdcfg/internal/domain/platform"
	"github.com/meelinux/sssdcfg/internal/domain/reconcile"
)

// Step names within a pass. Feature steps depend on the profile step
// so the base integration is in place before features toggle.
const (
	stepProfile   = "profile"
	stepMkHomeDir = "mkhomedir"
)

// shellProbe wraps a pipeline in sh -c. The pipeline must follow the
// probe exit contract: grep's 0/1/2 statuses map directly onto
// satisfied, not satisfied, and ambiguous.
func shellProbe(pipeline string) reconcile.Command {
	return reconcile.Command{Name: "sh", Args: []string{"-c", pipeline}}
}

// BuildSteps produces the reconcile steps for the platform's dialect.
func BuildSteps(cfg *config.Config, facts platform.Facts) ([]reconcile.Step, error) {
	switch facts.Dialect() {
	case platform.DialectAuthselect:
		return authselectSteps(cfg), nil
	case platform.DialectAuthconfig:
		return authconfigSteps(cfg), nil
	case platform.DialectPamConfig:
		return pamConfigSteps(cfg), nil
	case platform.DialectPamAuthUpdate:
		return pamAuthUpdateSteps(cfg), nil
	default:
		return nil, fmt.Errorf("no auth stack tool known for platform %q", facts.ID)
	}
}

func authselectSteps(cfg *config.Config) []reconcile.Step {
	steps := []reconcile.Step{{
		Name:  stepProfile,
		Probe: shellProbe(fmt.Sprintf("authselect current --raw | grep -q '^%s'", cfg.Profile)),
		Action: reconcile.Command{
			Name: "authselect",
			Args: []string{"select", cfg.Profile, "--force"},
		},
	}}
	if cfg.MkHomeDir {
		steps = append(steps, reconcile.Step{
			Name:  stepMkHomeDir,
			Probe: shellProbe("authselect current --raw | grep -q with-mkhomedir"),
			Action: reconcile.Command{
				Name: "authselect",
				Args: []string{"enable-feature", "with-mkhomedir"},
			},
			DependsOn: stepProfile,
		})
	}
	return steps
}

func authconfigSteps(cfg *config.Config) []reconcile.Step {
	steps := []reconcile.Step{{
		Name:  stepProfile,
		Probe: shellProbe("authconfig --test | grep -q 'nss_sss is enabled'"),
		Action: reconcile.Command{
			Name: "authconfig",
			Args: []string{"--enablesssd", "--enablesssdauth", "--update"},
		},
	}}
	if cfg.MkHomeDir {
		steps = append(steps, reconcile.Step{
			Name:  stepMkHomeDir,
			Probe: shellProbe("authconfig --test | grep -q 'mkhomedir is enabled'"),
			Action: reconcile.Command{
				Name: "authconfig",
				Args: []string{"--enablemkhomedir", "--update"},
			},
			DependsOn: stepProfile,
		})
	}
	return steps
}

func pamConfigSteps(cfg *config.Config) []reconcile.Step {
	steps := []reconcile.Step{{
		Name:  stepProfile,
		Probe: shellProbe("pam-config -q --sss | grep -q sss"),
		Action: reconcile.Command{
			Name: "pam-config",
			Args: []string{"-a", "--sss"},
		},
	}}
	if cfg.MkHomeDir {
		steps = append(steps, reconcile.Step{
			Name:  stepMkHomeDir,
			Probe: shellProbe("pam-config -q --mkhomedir | grep -q mkhomedir"),
			Action: reconcile.Command{
				Name: "pam-config",
				Args: []string{"-a", "--mkhomedir", "--mkhomedir-umask=" + cfg.HomedirUmask},
			},
			DependsOn: stepProfile,
		})
	}
	return steps
}

func pamAuthUpdateSteps(cfg *config.Config) []reconcile.Step {
	steps := []reconcile.Step{{
		Name: stepProfile,
		Probe: reconcile.Command{
			Name: "grep",
			Args: []string{"-q", "pam_sss.so", "/etc/pam.d/common-auth"},
		},
		Action: reconcile.Command{
			Name: "pam-auth-update",
			Args: []string{"--enable", "sss", "--force"},
		},
	}}
	if cfg.MkHomeDir {
		steps = append(steps, reconcile.Step{
			Name: stepMkHomeDir,
			Probe: reconcile.Command{
				Name: "grep",
				Args: []string{"-q", "pam_mkhomedir.so", "/etc/pam.d/common-session"},
			},
			Action: reconcile.Command{
				Name: "pam-auth-update",
				Args: []string{"--enable", "mkhomedir", "--force"},
			},
			DependsOn: stepProfile,
		})
	}
	return steps
}

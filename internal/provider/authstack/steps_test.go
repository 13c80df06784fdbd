package authstack_test

import (
	"testing"

	"github.com/meelinux/sssdcfg/internal/domain/config"
	"github.com/meelinux/sssdcfg/internal/domain/platform"
	"github.com/meelinux/sssdcfg/internal/provider/authstack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(mkHomeDir bool) *config.Config {
	return &config.Config{
		Profile:      "sssd",
		MkHomeDir:    mkHomeDir,
		HomedirUmask: "0022",
		SSSD: map[string]map[string]string{
			"sssd": {"services": "nss, pam"},
		},
	}
}

func TestBuildSteps_Authselect(t *testing.T) {
	t.Parallel()

	facts := platform.Facts{ID: "rhel", Family: platform.FamilyRedHat, Major: 9}
	steps, err := authstack.BuildSteps(testConfig(false), facts)

	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "profile", steps[0].Name)
	assert.Equal(t, "authselect", steps[0].Action.Name)
	assert.Equal(t, []string{"select", "sssd", "--force"}, steps[0].Action.Args)
	assert.Equal(t, "sh", steps[0].Probe.Name)
	assert.Contains(t, steps[0].Probe.Args[1], "authselect current")
}

func TestBuildSteps_AuthselectMkHomeDir(t *testing.T) {
	t.Parallel()

	facts := platform.Facts{ID: "fedora", Family: platform.FamilyRedHat, Major: 40}
	steps, err := authstack.BuildSteps(testConfig(true), facts)

	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "mkhomedir", steps[1].Name)
	assert.Equal(t, "profile", steps[1].DependsOn)
	assert.Equal(t, []string{"enable-feature", "with-mkhomedir"}, steps[1].Action.Args)
}

func TestBuildSteps_AuthconfigOnOldRHEL(t *testing.T) {
	t.Parallel()

	facts := platform.Facts{ID: "centos", Family: platform.FamilyRedHat, Major: 7}
	steps, err := authstack.BuildSteps(testConfig(true), facts)

	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "authconfig", steps[0].Action.Name)
	assert.Equal(t, []string{"--enablesssd", "--enablesssdauth", "--update"}, steps[0].Action.Args)
	assert.Equal(t, []string{"--enablemkhomedir", "--update"}, steps[1].Action.Args)
}

func TestBuildSteps_PamAuthUpdate(t *testing.T) {
	t.Parallel()

	facts := platform.Facts{ID: "debian", Family: platform.FamilyDebian, Major: 12}
	steps, err := authstack.BuildSteps(testConfig(true), facts)

	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "grep", steps[0].Probe.Name)
	assert.Equal(t, []string{"-q", "pam_sss.so", "/etc/pam.d/common-auth"}, steps[0].Probe.Args)
	assert.Equal(t, "pam-auth-update", steps[0].Action.Name)
	assert.Equal(t, []string{"--enable", "mkhomedir", "--force"}, steps[1].Action.Args)
}

func TestBuildSteps_PamConfig(t *testing.T) {
	t.Parallel()

	facts := platform.Facts{ID: "opensuse-leap", Family: platform.FamilySuse, Major: 15}
	steps, err := authstack.BuildSteps(testConfig(true), facts)

	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "pam-config", steps[0].Action.Name)
	assert.Equal(t, []string{"-a", "--sss"}, steps[0].Action.Args)
	assert.Equal(t, []string{"-a", "--mkhomedir", "--mkhomedir-umask=0022"}, steps[1].Action.Args)
}

func TestBuildSteps_UmaskFlowsIntoPamConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig(true)
	cfg.HomedirUmask = "0077"

	facts := platform.Facts{ID: "sles", Family: platform.FamilySuse, Major: 15}
	steps, err := authstack.BuildSteps(cfg, facts)

	require.NoError(t, err)
	assert.Contains(t, steps[1].Action.Args, "--mkhomedir-umask=0077")
}

func TestBuildSteps_UnsupportedPlatform(t *testing.T) {
	t.Parallel()

	facts := platform.Facts{ID: "alpine", Family: platform.FamilyUnknown}
	_, err := authstack.BuildSteps(testConfig(false), facts)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "alpine")
}

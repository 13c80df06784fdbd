package service_test

import (
	"testing"

	"github.com/meelinux/sssdcfg/internal/domain/compiler"
	"github.com/meelinux/sssdcfg/internal/domain/config"
	"github.com/meelinux/sssdcfg/internal/domain/platform"
	"github.com/meelinux/sssdcfg/internal/ports"
	"github.com/meelinux/sssdcfg/internal/provider/service"
	"github.com/meelinux/sssdcfg/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.Config {
	return &config.Config{
		SSSD: map[string]map[string]string{
			"sssd": {"services": "nss, pam"},
		},
	}
}

func rhel9Facts() platform.Facts {
	return platform.Facts{ID: "rhel", Family: platform.FamilyRedHat, Major: 9}
}

func debianFacts() platform.Facts {
	return platform.Facts{ID: "debian", Family: platform.FamilyDebian, Major: 12}
}

func stepIDs(steps []compiler.Step) []string {
	ids := make([]string, 0, len(steps))
	for _, s := range steps {
		ids = append(ids, s.ID().String())
	}
	return ids
}

func newProvider() *service.Provider {
	return service.NewProvider(ports.NewMockCommandRunner(), mocks.NewFileSystem())
}

func TestProvider_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "service", newProvider().Name())
}

func TestProvider_Compile_Defaults(t *testing.T) {
	t.Parallel()

	steps, err := newProvider().Compile(compiler.NewCompileContext(baseConfig(), rhel9Facts()))

	require.NoError(t, err)
	assert.Equal(t, []string{"service:unit:sssd", "service:restart:sssd"}, stepIDs(steps))
}

func TestProvider_Compile_MkHomeDirAddsOddjobdOnRHEL(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.MkHomeDir = true

	steps, err := newProvider().Compile(compiler.NewCompileContext(cfg, rhel9Facts()))

	require.NoError(t, err)
	assert.Equal(t, []string{"service:unit:sssd", "service:unit:oddjobd", "service:restart:sssd"}, stepIDs(steps))
}

func TestProvider_Compile_MkHomeDirNoOddjobdOnDebian(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.MkHomeDir = true

	steps, err := newProvider().Compile(compiler.NewCompileContext(cfg, debianFacts()))

	require.NoError(t, err)
	assert.Equal(t, []string{"service:unit:sssd", "service:restart:sssd"}, stepIDs(steps))
}

func TestProvider_Compile_UnitsDependOnConfFile(t *testing.T) {
	t.Parallel()

	steps, err := newProvider().Compile(compiler.NewCompileContext(baseConfig(), rhel9Facts()))

	require.NoError(t, err)
	require.NotEmpty(t, steps)
	deps := steps[0].DependsOn()
	require.Len(t, deps, 1)
	assert.Equal(t, "sssdconf:file:/etc/sssd/sssd.conf", deps[0].String())
}

func TestProvider_Compile_RestartOrderedAfterUnit(t *testing.T) {
	t.Parallel()

	steps, err := newProvider().Compile(compiler.NewCompileContext(baseConfig(), rhel9Facts()))

	require.NoError(t, err)
	restart := steps[len(steps)-1]
	deps := make([]string, 0, 2)
	for _, d := range restart.DependsOn() {
		deps = append(deps, d.String())
	}
	assert.Contains(t, deps, "sssdconf:file:/etc/sssd/sssd.conf")
	assert.Contains(t, deps, "service:unit:sssd")
}

func TestProvider_Compile_ExtraServices(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Services.Extra = []string{"oddjobd"}

	steps, err := newProvider().Compile(compiler.NewCompileContext(cfg, debianFacts()))

	require.NoError(t, err)
	assert.Contains(t, stepIDs(steps), "service:unit:oddjobd")
}

func TestProvider_Compile_Unmanaged(t *testing.T) {
	t.Parallel()

	manage := false
	cfg := baseConfig()
	cfg.Services.Manage = &manage

	steps, err := newProvider().Compile(compiler.NewCompileContext(cfg, rhel9Facts()))

	require.NoError(t, err)
	assert.Empty(t, steps)
}

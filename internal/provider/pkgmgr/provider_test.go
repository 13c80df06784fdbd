package pkgmgr_test

import (
	"testing"

	"github.com/meelinux/sssdcfg/internal/domain/compiler"
	"github.com/meelinux/sssdcfg/internal/domain/config"
	"github.com/meelinux/sssdcfg/internal/domain/platform"
	"github.com/meelinux/sssdcfg/internal/ports"
	"github.com/meelinux/sssdcfg/internal/provider/pkgmgr"
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

func TestProvider_Name(t *testing.T) {
	t.Parallel()

	provider := pkgmgr.NewProvider(ports.NewMockCommandRunner())

	assert.Equal(t, "pkg", provider.Name())
}

func TestProvider_Compile_RHELDefaults(t *testing.T) {
	t.Parallel()

	provider := pkgmgr.NewProvider(ports.NewMockCommandRunner())
	ctx := compiler.NewCompileContext(baseConfig(), rhel9Facts())

	steps, err := provider.Compile(ctx)

	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "pkg:install:sssd", steps[0].ID().String())
	assert.Equal(t, "pkg:install:sssd-tools", steps[1].ID().String())
}

func TestProvider_Compile_RHELWithMkHomeDir(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.MkHomeDir = true

	provider := pkgmgr.NewProvider(ports.NewMockCommandRunner())
	ctx := compiler.NewCompileContext(cfg, rhel9Facts())

	steps, err := provider.Compile(ctx)

	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, "pkg:install:oddjob-mkhomedir", steps[2].ID().String())
}

func TestProvider_Compile_DebianDefaults(t *testing.T) {
	t.Parallel()

	provider := pkgmgr.NewProvider(ports.NewMockCommandRunner())
	ctx := compiler.NewCompileContext(baseConfig(), debianFacts())

	steps, err := provider.Compile(ctx)

	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, "pkg:install:sssd", steps[0].ID().String())
	assert.Equal(t, "pkg:install:libnss-sss", steps[1].ID().String())
	assert.Equal(t, "pkg:install:libpam-sss", steps[2].ID().String())
}

func TestProvider_Compile_ExtrasDeduplicated(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Packages.Extra = []string{"sssd-ldap", "sssd"}

	provider := pkgmgr.NewProvider(ports.NewMockCommandRunner())
	ctx := compiler.NewCompileContext(cfg, rhel9Facts())

	steps, err := provider.Compile(ctx)

	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, "pkg:install:sssd-ldap", steps[2].ID().String())
}

func TestProvider_Compile_Unmanaged(t *testing.T) {
	t.Parallel()

	manage := false
	cfg := baseConfig()
	cfg.Packages.Manage = &manage

	provider := pkgmgr.NewProvider(ports.NewMockCommandRunner())
	ctx := compiler.NewCompileContext(cfg, rhel9Facts())

	steps, err := provider.Compile(ctx)

	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestProvider_Compile_UnknownPlatform(t *testing.T) {
	t.Parallel()

	facts := platform.Facts{ID: "alpine", Family: platform.FamilyUnknown}

	provider := pkgmgr.NewProvider(ports.NewMockCommandRunner())
	ctx := compiler.NewCompileContext(baseConfig(), facts)

	_, err := provider.Compile(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "alpine")
}

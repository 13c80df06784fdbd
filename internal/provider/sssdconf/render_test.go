package sssdconf_test

import (
	"strings"
	"testing"

	"github.com/meelinux/sssdcfg/internal/domain/config"
	"github.com/meelinux/sssdcfg/internal/provider/sssdconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleConfig() *config.Config {
	return &config.Config{
		SSSD: map[string]map[string]string{
			"sssd": {
				"services": "nss, pam",
				"domains":  "example.com",
			},
			"domain/example.com": {
				"id_provider":       "ldap",
				"ldap_uri":          "ldaps://ldap.example.com",
				"cache_credentials": "true",
			},
			"nss": {
				"filter_groups": "root",
			},
		},
	}
}

func TestRender_SectionOrder(t *testing.T) {
	t.Parallel()

	content, err := sssdconf.Render(exampleConfig())
	require.NoError(t, err)

	text := string(content)
	sssdIdx := strings.Index(text, "[sssd]")
	domainIdx := strings.Index(text, "[domain/example.com]")
	nssIdx := strings.Index(text, "[nss]")

	require.NotEqual(t, -1, sssdIdx)
	require.NotEqual(t, -1, domainIdx)
	require.NotEqual(t, -1, nssIdx)

	// [sssd] leads, remaining sections are sorted.
	assert.Less(t, sssdIdx, domainIdx)
	assert.Less(t, domainIdx, nssIdx)
}

func TestRender_KeysSorted(t *testing.T) {
	t.Parallel()

	content, err := sssdconf.Render(exampleConfig())
	require.NoError(t, err)

	text := string(content)
	assert.Less(t, strings.Index(text, "cache_credentials"), strings.Index(text, "id_provider"))
	assert.Less(t, strings.Index(text, "id_provider"), strings.Index(text, "ldap_uri"))
}

func TestRender_ManagedHeader(t *testing.T) {
	t.Parallel()

	content, err := sssdconf.Render(exampleConfig())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(content), "# Managed by sssdcfg."))
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := sssdconf.Render(exampleConfig())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := sssdconf.Render(exampleConfig())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

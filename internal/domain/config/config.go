// Package config defines the desired state for an SSSD-managed host and
// loads it from a declaration file.
package config

import (
	"fmt"
	"regexp"
	"sort"
)

// DefaultConfPath is where the rendered sssd.conf lands.
const DefaultConfPath = "/etc/sssd/sssd.conf"

// Config is the desired state for one host. It is immutable during a
// reconciliation pass: providers read it, nothing writes it back.
type Config struct {
	// Profile is the authentication profile to select (authselect
	// dialect only; other dialects ignore it).
	Profile string `yaml:"profile" toml:"profile"`

	// MkHomeDir enables home-directory auto-creation on first login.
	MkHomeDir bool `yaml:"mkhomedir" toml:"mkhomedir"`

	// HomedirUmask is the umask applied to auto-created home directories.
	HomedirUmask string `yaml:"homedir_umask" toml:"homedir_umask"`

	// ConfPath overrides the sssd.conf location, mainly for tests.
	ConfPath string `yaml:"conf_path" toml:"conf_path"`

	// Packages controls package management.
	Packages Packages `yaml:"packages" toml:"packages"`

	// Services controls service management.
	Services Services `yaml:"services" toml:"services"`

	// SSSD is the content of sssd.conf: section name to settings.
	SSSD map[string]map[string]string `yaml:"sssd" toml:"sssd"`
}

// Packages controls the package provider.
type Packages struct {
	// Manage disables package steps entirely when set to false.
	Manage *bool `yaml:"manage" toml:"manage"`
	// Extra lists packages beyond the platform defaults.
	Extra []string `yaml:"extra" toml:"extra"`
}

// Managed reports whether package steps should be compiled. Defaults to true.
func (p Packages) Managed() bool {
	return p.Manage == nil || *p.Manage
}

// Services controls the service provider.
type Services struct {
	// Manage disables service steps entirely when set to false.
	Manage *bool `yaml:"manage" toml:"manage"`
	// Extra lists services beyond the platform defaults.
	Extra []string `yaml:"extra" toml:"extra"`
}

// Managed reports whether service steps should be compiled. Defaults to true.
func (s Services) Managed() bool {
	return s.Manage == nil || *s.Manage
}

// Path returns the sssd.conf location.
func (c *Config) Path() string {
	if c.ConfPath != "" {
		return c.ConfPath
	}
	return DefaultConfPath
}

// SectionNames returns the sssd.conf section names in deterministic
// order: [sssd] first, then the rest sorted.
func (c *Config) SectionNames() []string {
	names := make([]string, 0, len(c.SSSD))
	for name := range c.SSSD {
		if name == "sssd" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	if _, ok := c.SSSD["sssd"]; ok {
		names = append([]string{"sssd"}, names...)
	}
	return names
}

var umaskPattern = regexp.MustCompile(`^0?[0-7]{3}$`)

// Validate checks the configuration and applies defaults.
func (c *Config) Validate() error {
	if c.Profile == "" {
		c.Profile = "sssd"
	}
	if c.HomedirUmask == "" {
		c.HomedirUmask = "0022"
	}
	if !umaskPattern.MatchString(c.HomedirUmask) {
		return &UserError{
			Message:    fmt.Sprintf("invalid homedir_umask %q", c.HomedirUmask),
			Context:    "homedir_umask",
			Suggestion: "Use three or four octal digits, e.g. \"0022\" or \"0077\".",
		}
	}
	if len(c.SSSD) == 0 {
		return &UserError{
			Message:    "no sssd configuration sections declared",
			Context:    "sssd",
			Suggestion: "Declare at least the [sssd] section with services and domains keys.",
		}
	}
	if _, ok := c.SSSD["sssd"]; !ok {
		return &UserError{
			Message:    "missing [sssd] section",
			Context:    "sssd",
			Suggestion: "The daemon refuses to start without an [sssd] section; declare services and domains there.",
		}
	}
	return nil
}

// Package sssdconf provides the configuration file provider: it renders
// the declared SSSD settings into sssd.conf and keeps the file on disk
// in sync with the rendered content.
package sssdconf

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/ini.v1"

	"github.com/meelinux/sssdcfg/internal/domain/config"
)

const managedHeader = "# Managed by sssdcfg. Manual edits will be overwritten.\n"

// Render produces the sssd.conf content for the declared settings.
// Sections come out in config.SectionNames order with keys sorted, so
// rendering the same configuration twice yields identical bytes.
func Render(cfg *config.Config) ([]byte, error) {
	file := ini.Empty()

	for _, name := range cfg.SectionNames() {
		section, err := file.NewSection(name)
		if err != nil {
			return nil, fmt.Errorf("render section %q: %w", name, err)
		}

		settings := cfg.SSSD[name]
		keys := make([]string, 0, len(settings))
		for k := range settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if _, err := section.NewKey(k, settings[k]); err != nil {
				return nil, fmt.Errorf("render key %q in section %q: %w", k, name, err)
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString(managedHeader)
	if _, err := file.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render sssd.conf: %w", err)
	}
	return buf.Bytes(), nil
}

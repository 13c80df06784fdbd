// Package pkgmgr provides the package provider: it ensures the SSSD
// daemon and its companion packages are installed through the platform's
// package manager.
package pkgmgr

import (
	"github.com/meelinux/sssdcfg/internal/domain/config"
	"github.com/meelinux/sssdcfg/internal/domain/platform"
)

// defaultPackages returns the platform package set for SSSD.
// The mkhomedir helper on Red Hat platforms lives in oddjob-mkhomedir;
// on Debian the PAM and NSS modules ship separately from the daemon.
func defaultPackages(facts platform.Facts, mkHomeDir bool) []string {
	switch facts.Family {
	case platform.FamilyRedHat:
		pkgs := []string{"sssd", "sssd-tools"}
		if mkHomeDir {
			pkgs = append(pkgs, "oddjob-mkhomedir")
		}
		return pkgs
	case platform.FamilyDebian:
		return []string{"sssd", "libnss-sss", "libpam-sss"}
	case platform.FamilySuse:
		return []string{"sssd", "sssd-tools"}
	default:
		return nil
	}
}

// packageSet merges the platform defaults with declared extras,
// dropping duplicates while keeping order.
func packageSet(cfg *config.Config, facts platform.Facts) []string {
	pkgs := defaultPackages(facts, cfg.MkHomeDir)
	seen := make(map[string]bool, len(pkgs))
	for _, p := range pkgs {
		seen[p] = true
	}
	for _, p := range cfg.Packages.Extra {
		if !seen[p] {
			pkgs = append(pkgs, p)
			seen[p] = true
		}
	}
	return pkgs
}

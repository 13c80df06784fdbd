// Package platform detects the operating system family and version and
// maps them to the authentication-stack dialect used on that platform.
package platform

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Family represents the operating system family.
type Family string

const (
	// FamilyRedHat covers RHEL, CentOS, Fedora, Rocky, Alma, and Oracle Linux.
	FamilyRedHat Family = "redhat"
	// FamilyDebian covers Debian and Ubuntu.
	FamilyDebian Family = "debian"
	// FamilySuse covers SLES and openSUSE.
	FamilySuse Family = "suse"
	// FamilyUnknown is an unsupported OS family.
	FamilyUnknown Family = "unknown"
)

// Facts contains detected platform information.
// They are an opaque input to the rest of the system: detection is a
// thin reader over /etc/os-release and results are cached per process.
type Facts struct {
	// ID is the os-release ID field (e.g., "rocky", "ubuntu").
	ID string
	// Family is the resolved OS family.
	Family Family
	// Major is the major version number (0 when not stated, e.g. on
	// Debian testing).
	Major int
}

const osReleasePath = "/etc/os-release"

var (
	detected   Facts
	detectErr  error
	detectOnce sync.Once
)

// Detect returns the current platform facts.
// Results are cached after the first call.
func Detect() (Facts, error) {
	detectOnce.Do(func() {
		data, err := os.ReadFile(osReleasePath)
		if err != nil {
			detectErr = fmt.Errorf("read %s: %w", osReleasePath, err)
			return
		}
		detected, detectErr = Parse(string(data))
	})
	return detected, detectErr
}

// Parse extracts platform facts from os-release content.
func Parse(osRelease string) (Facts, error) {
	fields := make(map[string]string)
	for _, line := range strings.Split(osRelease, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = strings.Trim(value, `"`)
	}

	id := fields["ID"]
	if id == "" {
		return Facts{}, fmt.Errorf("os-release has no ID field")
	}

	facts := Facts{
		ID:     id,
		Family: resolveFamily(id, fields["ID_LIKE"]),
	}

	if version := fields["VERSION_ID"]; version != "" {
		major, _, _ := strings.Cut(version, ".")
		if n, err := strconv.Atoi(major); err == nil {
			facts.Major = n
		}
	}

	return facts, nil
}

// resolveFamily maps an os-release ID (falling back to ID_LIKE) to a family.
func resolveFamily(id, idLike string) Family {
	ids := append([]string{id}, strings.Fields(idLike)...)
	for _, candidate := range ids {
		switch candidate {
		case "rhel", "centos", "fedora", "rocky", "almalinux", "ol", "oracle":
			return FamilyRedHat
		case "debian", "ubuntu":
			return FamilyDebian
		case "sles", "sled", "opensuse", "opensuse-leap", "opensuse-tumbleweed", "suse":
			return FamilySuse
		}
	}
	return FamilyUnknown
}

// String returns a human-readable description.
func (f Facts) String() string {
	if f.Major > 0 {
		return fmt.Sprintf("%s %d (%s)", f.ID, f.Major, f.Family)
	}
	return fmt.Sprintf("%s (%s)", f.ID, f.Family)
}

package platform

// Dialect identifies the CLI tool used to wire SSSD into the PAM stack
// on a given platform. The three tools have incompatible state models
// but share the probe-then-act idiom, so selection happens once per run
// from a static table instead of conditionals at each call site.
type Dialect string

const (
	// DialectAuthselect is the profile-based tool on RHEL 8+ and Fedora 28+.
	DialectAuthselect Dialect = "authselect"
	// DialectAuthconfig is the flag-based tool on RHEL 7 and earlier.
	DialectAuthconfig Dialect = "authconfig"
	// DialectPamConfig is the SUSE pam-config tool.
	DialectPamConfig Dialect = "pam-config"
	// DialectPamAuthUpdate is the Debian/Ubuntu pam-auth-update tool.
	DialectPamAuthUpdate Dialect = "pam-auth-update"
	// DialectNone means no auth-stack integration is available.
	DialectNone Dialect = "none"
)

// String returns the string representation of the dialect.
func (d Dialect) String() string {
	return string(d)
}

// dialectRule is one row of the dialect selection table.
type dialectRule struct {
	family   Family
	id       string // empty matches any ID within the family
	minMajor int    // 0 means any version
	dialect  Dialect
}

// dialectTable maps (family, version) to a dialect. First match wins;
// rows are ordered most-specific first.
var dialectTable = []dialectRule{
	{family: FamilyRedHat, id: "fedora", minMajor: 28, dialect: DialectAuthselect},
	{family: FamilyRedHat, id: "fedora", dialect: DialectAuthconfig},
	{family: FamilyRedHat, minMajor: 8, dialect: DialectAuthselect},
	{family: FamilyRedHat, dialect: DialectAuthconfig},
	{family: FamilyDebian, dialect: DialectPamAuthUpdate},
	{family: FamilySuse, dialect: DialectPamConfig},
}

// Dialect returns the auth-stack dialect for these facts.
func (f Facts) Dialect() Dialect {
	for _, rule := range dialectTable {
		if rule.family != f.Family {
			continue
		}
		if rule.id != "" && rule.id != f.ID {
			continue
		}
		if rule.minMajor > 0 && f.Major < rule.minMajor {
			continue
		}
		return rule.dialect
	}
	return DialectNone
}

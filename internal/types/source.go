package types

import (
	"fmt"
	"strings"
)

// SourceKey addresses all per-source state: one source scoped to one user.
type SourceKey struct {
	SourceID string
	UserID   string
}

func KeyOf(sourceID, userID string) SourceKey {
	return SourceKey{SourceID: sourceID, UserID: userID}
}

func (k SourceKey) String() string {
	return k.SourceID + ":" + k.UserID
}

// IssueKey identifies one issue across reports: the content behind the key
// may change, the key denotes continuity for dismissal purposes.
type IssueKey struct {
	SourceID string
	IssueID  string
	UserID   string
}

func (k IssueKey) SourceKey() SourceKey {
	return SourceKey{SourceID: k.SourceID, UserID: k.UserID}
}

func (k IssueKey) Encode() string {
	return k.SourceID + ":" + k.IssueID + ":" + k.UserID
}

func DecodeIssueKey(value string) (IssueKey, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return IssueKey{}, fmt.Errorf("malformed issue key %q", value)
	}
	return IssueKey{SourceID: parts[0], IssueID: parts[1], UserID: parts[2]}, nil
}

// SourceDescriptor is the static configuration of one known source.
// Immutable once compiled from the registry file.
type SourceDescriptor struct {
	ID                string     `yaml:"id"`
	Type              SourceType `yaml:"type"`
	Title             string     `yaml:"title"`
	Summary           string     `yaml:"summary"`
	DefaultAction     string     `yaml:"default_action"`
	ManagedProfiles   bool       `yaml:"managed_profiles"`
	LoggingAllowed    bool       `yaml:"logging_allowed"`
	MaxSeverity       Severity   `yaml:"max_severity"`
	HiddenByDefault   bool       `yaml:"hidden_by_default"`
	DisabledByDefault bool       `yaml:"disabled_by_default"`
}

// External reports whether the source delivers reports at runtime, as
// opposed to being fully described by configuration.
func (d SourceDescriptor) External() bool {
	return d.Type == SourceTypeDynamic || d.Type == SourceTypeIssueOnly
}

type SourceGroup struct {
	ID      string             `yaml:"id"`
	Kind    GroupKind          `yaml:"kind"`
	Title   string             `yaml:"title"`
	Summary string             `yaml:"summary"`
	Sources []SourceDescriptor `yaml:"sources"`
}

// RegistryConfig is the raw registry file before compilation.
type RegistryConfig struct {
	Enabled          bool          `yaml:"enabled"`
	UntrackedSources []string      `yaml:"untracked_sources"`
	Groups           []SourceGroup `yaml:"groups"`
}

type ManagedProfile struct {
	UserID  string
	Running bool
}

// UserProfileGroup is the set of users a view or refresh spans: one primary
// user plus any managed profiles attached to it.
type UserProfileGroup struct {
	Primary string
	Managed []ManagedProfile
}

func (g UserProfileGroup) Contains(userID string) bool {
	if g.Primary == userID {
		return true
	}
	for _, profile := range g.Managed {
		if profile.UserID == userID {
			return true
		}
	}
	return false
}

// RunningManaged returns the user ids of managed profiles that are running.
func (g UserProfileGroup) RunningManaged() []string {
	var out []string
	for _, profile := range g.Managed {
		if profile.Running {
			out = append(out, profile.UserID)
		}
	}
	return out
}

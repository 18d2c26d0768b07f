package types

import "time"

// PersistedIssue is one dismissal record as held in durable storage.
// Invariant: DismissCount > 0 if and only if DismissedAt is set.
type PersistedIssue struct {
	Key               string     `yaml:"key"`
	FirstSeenAt       time.Time  `yaml:"first_seen_at"`
	DismissedAt       *time.Time `yaml:"dismissed_at,omitempty"`
	DismissCount      int        `yaml:"dismiss_count"`
	DismissedSeverity Severity   `yaml:"dismissed_severity"`
}

package core

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"safetyhub/internal/types"
)

type dismissalRecord struct {
	firstSeenAt       time.Time
	dismissedAt       *time.Time
	dismissCount      int
	dismissedSeverity types.Severity
	active            bool
}

// DismissalCache tracks which issues the user has suppressed and at what
// severity. Records are never deleted when an issue's severity rises: the
// comparison is always against the severity recorded at dismissal, so a
// later severity decrease does not resurface the issue.
//
// Not safe for concurrent use; callers serialize through the engine's
// critical section.
type DismissalCache struct {
	records map[types.IssueKey]*dismissalRecord
	clock   func() time.Time
}

func NewDismissalCache(clock func() time.Time) *DismissalCache {
	if clock == nil {
		clock = time.Now
	}
	return &DismissalCache{
		records: map[types.IssueKey]*dismissalRecord{},
		clock:   clock,
	}
}

// Dismiss suppresses the issue at its current severity. Re-dismissing a
// resurfaced issue records the new, higher severity and bumps the count.
func (c *DismissalCache) Dismiss(key types.IssueKey, currentSeverity types.Severity) {
	now := c.clock()
	record, ok := c.records[key]
	if !ok {
		record = &dismissalRecord{firstSeenAt: now, active: true}
		c.records[key] = record
	}
	record.dismissedAt = &now
	record.dismissCount++
	record.dismissedSeverity = currentSeverity
}

// IsDismissed reports whether the issue is currently suppressed: dismissed
// at some point, and not re-reported above the recorded severity since.
func (c *DismissalCache) IsDismissed(key types.IssueKey, currentSeverity types.Severity) bool {
	record, ok := c.records[key]
	if !ok || record.dismissedAt == nil {
		return false
	}
	return currentSeverity <= record.dismissedSeverity
}

// SyncReported reconciles the cache with the latest report for one source:
// newly seen issues get a first-seen record, issues no longer reported go
// inactive. Dismissal state is untouched either way.
func (c *DismissalCache) SyncReported(sourceKey types.SourceKey, issueKeys []types.IssueKey) {
	reported := map[types.IssueKey]struct{}{}
	for _, key := range issueKeys {
		reported[key] = struct{}{}
		if record, ok := c.records[key]; ok {
			record.active = true
			continue
		}
		c.records[key] = &dismissalRecord{firstSeenAt: c.clock(), active: true}
	}
	for key, record := range c.records {
		if key.SourceKey() != sourceKey {
			continue
		}
		if _, ok := reported[key]; !ok {
			record.active = false
		}
	}
}

// CountActive counts issues currently reported for the profile group,
// dismissed or not. Subtracting the live view's open issue count yields the
// dismissed count used for telemetry.
func (c *DismissalCache) CountActive(group types.UserProfileGroup) int {
	count := 0
	for key, record := range c.records {
		if record.active && group.Contains(key.UserID) {
			count++
		}
	}
	return count
}

// Export snapshots all records for persistence, ordered by key for stable
// output.
func (c *DismissalCache) Export() []types.PersistedIssue {
	out := make([]types.PersistedIssue, 0, len(c.records))
	for key, record := range c.records {
		out = append(out, types.PersistedIssue{
			Key:               key.Encode(),
			FirstSeenAt:       record.firstSeenAt,
			DismissedAt:       record.dismissedAt,
			DismissCount:      record.dismissCount,
			DismissedSeverity: record.dismissedSeverity,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Restore loads persisted records, replacing the current contents. Records
// with malformed keys are logged and skipped rather than failing the load.
func (c *DismissalCache) Restore(issues []types.PersistedIssue) {
	c.records = map[types.IssueKey]*dismissalRecord{}
	for _, issue := range issues {
		key, err := types.DecodeIssueKey(issue.Key)
		if err != nil {
			log.Warn().Str("key", issue.Key).Msg("skipping persisted issue with malformed key")
			continue
		}
		c.records[key] = &dismissalRecord{
			firstSeenAt:       issue.FirstSeenAt,
			dismissedAt:       issue.DismissedAt,
			dismissCount:      issue.DismissCount,
			dismissedSeverity: issue.DismissedSeverity,
		}
	}
}

func (c *DismissalCache) Clear() {
	c.records = map[types.IssueKey]*dismissalRecord{}
}

func (c *DismissalCache) ClearForUser(userID string) {
	for key := range c.records {
		if key.UserID == userID {
			delete(c.records, key)
		}
	}
}

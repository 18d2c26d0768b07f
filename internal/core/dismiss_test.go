package core

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safetyhub/internal/types"
)

func issueKey(source, issue, user string) types.IssueKey {
	return types.IssueKey{SourceID: source, IssueID: issue, UserID: user}
}

func TestDismissSuppressesAtRecordedSeverity(t *testing.T) {
	cache := NewDismissalCache(nil)
	key := issueKey("a", "weak-password", "0")

	assert.False(t, cache.IsDismissed(key, types.SeverityRecommendation))

	cache.Dismiss(key, types.SeverityRecommendation)
	assert.True(t, cache.IsDismissed(key, types.SeverityRecommendation))
	assert.True(t, cache.IsDismissed(key, types.SeverityInformation))
}

func TestDismissedIssueResurfacesAboveRecordedSeverity(t *testing.T) {
	cache := NewDismissalCache(nil)
	key := issueKey("a", "weak-password", "0")

	cache.Dismiss(key, types.SeverityRecommendation)
	assert.False(t, cache.IsDismissed(key, types.SeverityCritical))

	// Dropping back to the recorded severity suppresses it again: the
	// record survives the resurfacing.
	assert.True(t, cache.IsDismissed(key, types.SeverityRecommendation))
}

func TestRedismissRecordsHigherSeverity(t *testing.T) {
	cache := NewDismissalCache(nil)
	key := issueKey("a", "weak-password", "0")

	cache.Dismiss(key, types.SeverityRecommendation)
	cache.Dismiss(key, types.SeverityCritical)
	assert.True(t, cache.IsDismissed(key, types.SeverityCritical))

	exported := cache.Export()
	require.Len(t, exported, 1)
	assert.Equal(t, 2, exported[0].DismissCount)
	assert.Equal(t, types.SeverityCritical, exported[0].DismissedSeverity)
}

func TestSyncReportedTracksFirstSeenAndActivity(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewDismissalCache(func() time.Time { return now })
	sourceKey := types.KeyOf("a", "0")
	first := issueKey("a", "one", "0")
	second := issueKey("a", "two", "0")

	cache.SyncReported(sourceKey, []types.IssueKey{first, second})
	assert.Equal(t, 2, cache.CountActive(types.UserProfileGroup{Primary: "0"}))

	// The next report drops one issue: it goes inactive but keeps its
	// record.
	cache.SyncReported(sourceKey, []types.IssueKey{first})
	assert.Equal(t, 1, cache.CountActive(types.UserProfileGroup{Primary: "0"}))

	exported := cache.Export()
	require.Len(t, exported, 2)
	assert.Equal(t, now, exported[0].FirstSeenAt)
}

func TestSyncReportedScopedToOneSource(t *testing.T) {
	cache := NewDismissalCache(nil)
	cache.SyncReported(types.KeyOf("a", "0"), []types.IssueKey{issueKey("a", "one", "0")})
	cache.SyncReported(types.KeyOf("b", "0"), []types.IssueKey{issueKey("b", "two", "0")})

	// An empty report from b must not deactivate a's issues.
	cache.SyncReported(types.KeyOf("b", "0"), nil)
	assert.Equal(t, 1, cache.CountActive(types.UserProfileGroup{Primary: "0"}))
}

func TestCountActiveHonorsProfileGroup(t *testing.T) {
	cache := NewDismissalCache(nil)
	cache.SyncReported(types.KeyOf("a", "0"), []types.IssueKey{issueKey("a", "one", "0")})
	cache.SyncReported(types.KeyOf("a", "10"), []types.IssueKey{issueKey("a", "one", "10")})

	assert.Equal(t, 1, cache.CountActive(types.UserProfileGroup{Primary: "0"}))
	group := types.UserProfileGroup{
		Primary: "0",
		Managed: []types.ManagedProfile{{UserID: "10", Running: true}},
	}
	assert.Equal(t, 2, cache.CountActive(group))
}

func TestExportRestoreRoundTrip(t *testing.T) {
	cache := NewDismissalCache(nil)
	key := issueKey("a", "weak-password", "0")
	cache.Dismiss(key, types.SeverityRecommendation)

	restored := NewDismissalCache(nil)
	restored.Restore(cache.Export())

	assert.True(t, restored.IsDismissed(key, types.SeverityRecommendation))
	assert.False(t, restored.IsDismissed(key, types.SeverityCritical))
	if diff := cmp.Diff(cache.Export(), restored.Export()); diff != "" {
		t.Fatalf("round trip changed records (-want +got):\n%s", diff)
	}
}

func TestRestoreSkipsMalformedKeys(t *testing.T) {
	cache := NewDismissalCache(nil)
	cache.Restore([]types.PersistedIssue{
		{Key: "not-a-key", FirstSeenAt: time.Now()},
		{Key: "a:ok:0", FirstSeenAt: time.Now()},
	})
	assert.Len(t, cache.Export(), 1)
}

func TestClearForUserDropsOnlyThatUser(t *testing.T) {
	cache := NewDismissalCache(nil)
	cache.Dismiss(issueKey("a", "one", "0"), types.SeverityInformation)
	cache.Dismiss(issueKey("a", "one", "10"), types.SeverityInformation)

	cache.ClearForUser("10")

	assert.True(t, cache.IsDismissed(issueKey("a", "one", "0"), types.SeverityInformation))
	assert.False(t, cache.IsDismissed(issueKey("a", "one", "10"), types.SeverityInformation))
}

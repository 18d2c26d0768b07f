package adapters

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safetyhub/internal/types"
)

func TestDismissalStoreRoundTrip(t *testing.T) {
	adapter := NewDismissalFileAdapter(filepath.Join(t.TempDir(), "issues.yaml"))

	dismissedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issues := []types.PersistedIssue{
		{
			Key:               "a:weak-password:0",
			FirstSeenAt:       dismissedAt.Add(-time.Hour),
			DismissedAt:       &dismissedAt,
			DismissCount:      2,
			DismissedSeverity: types.SeverityRecommendation,
		},
		{
			Key:         "b:seen-only:0",
			FirstSeenAt: dismissedAt,
		},
	}
	require.NoError(t, adapter.Save(issues))

	loaded, err := adapter.Load()
	require.NoError(t, err)
	if diff := cmp.Diff(issues, loaded); diff != "" {
		t.Fatalf("round trip changed issues (-want +got):\n%s", diff)
	}
}

func TestDismissalStoreMissingFileIsEmpty(t *testing.T) {
	adapter := NewDismissalFileAdapter(filepath.Join(t.TempDir(), "absent.yaml"))
	loaded, err := adapter.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestDismissalStoreRejectsInconsistentRecords(t *testing.T) {
	adapter := NewDismissalFileAdapter(filepath.Join(t.TempDir(), "issues.yaml"))
	now := time.Now()

	// A dismiss count without a dismissal time is a corrupt record.
	err := adapter.Save([]types.PersistedIssue{
		{Key: "a:x:0", FirstSeenAt: now, DismissCount: 1},
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	// So is a dismissal time without a count.
	err = adapter.Save([]types.PersistedIssue{
		{Key: "a:x:0", FirstSeenAt: now, DismissedAt: &now},
	})
	require.Error(t, err)

	err = adapter.Save([]types.PersistedIssue{{Key: "a:x:0"}})
	require.Error(t, err)
}

func TestDismissalStoreCreatesParentDirectory(t *testing.T) {
	adapter := NewDismissalFileAdapter(filepath.Join(t.TempDir(), "nested", "dir", "issues.yaml"))
	require.NoError(t, adapter.Save(nil))

	loaded, err := adapter.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

package app

import (
	"safetyhub/internal/types"
)

// RefreshRequest identifies the profile group to refresh and why.
type RefreshRequest struct {
	Reason  types.RefreshReason
	User    string
	Managed []types.ManagedProfile
}

func (r RefreshRequest) group() types.UserProfileGroup {
	return types.UserProfileGroup{Primary: r.User, Managed: r.Managed}
}

// RefreshOutcome reports the session that was started and which source
// keys were asked for fresh data.
type RefreshOutcome struct {
	SessionID string
	Sources   []types.SourceKey
}

// SnapshotResult mirrors the telemetry that a snapshot emitted.
type SnapshotResult struct {
	Overall types.SnapshotEvent
	Sources []types.SourceStateEvent
}

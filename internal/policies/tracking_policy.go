package policies

import "safetyhub/internal/types"

// TrackingPolicy decides which sources get timed and logged during a
// refresh. Untracked sources still receive refresh requests and may
// respond, but they never hold a session open and never produce
// per-source telemetry.
type TrackingPolicy struct {
	untracked map[string]struct{}
}

func NewTrackingPolicy(untrackedSourceIDs []string) TrackingPolicy {
	policy := TrackingPolicy{untracked: map[string]struct{}{}}
	for _, id := range untrackedSourceIDs {
		if id == "" {
			continue
		}
		policy.untracked[id] = struct{}{}
	}
	return policy
}

func (p TrackingPolicy) Tracked(key types.SourceKey) bool {
	_, untracked := p.untracked[key.SourceID]
	return !untracked
}

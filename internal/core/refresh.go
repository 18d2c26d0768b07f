package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"safetyhub/internal/policies"
	"safetyhub/internal/ports"
	"safetyhub/internal/types"
)

// RefreshTracker is the refresh state machine. At most one session exists
// at a time; starting a new one supersedes and discards the previous one.
//
// Not safe for concurrent use; callers serialize through the engine's
// critical section.
type RefreshTracker struct {
	telemetry ports.TelemetryPort
	tracking  policies.TrackingPolicy
	clock     func() time.Time
	counter   int
	current   *refreshInProgress
}

type refreshInProgress struct {
	id             string
	reason         types.RefreshReason
	group          types.UserProfileGroup
	startedAt      time.Time
	inFlight       map[types.SourceKey]time.Time
	trackedFailure bool
}

func NewRefreshTracker(telemetry ports.TelemetryPort, tracking policies.TrackingPolicy, clock func() time.Time) *RefreshTracker {
	if clock == nil {
		clock = time.Now
	}
	return &RefreshTracker{
		telemetry: telemetry,
		tracking:  tracking,
		clock:     clock,
	}
}

// Start opens a new session and returns its id. An already-open session is
// discarded: its in-flight set is abandoned and a superseded event emitted.
func (t *RefreshTracker) Start(reason types.RefreshReason, group types.UserProfileGroup) string {
	if t.current != nil {
		log.Warn().Str("session", t.current.id).Msg("replacing an ongoing refresh")
		t.telemetry.WholeRefresh(types.WholeRefreshEvent{
			RequestType: t.current.reason.RequestType(),
			Duration:    t.clock().Sub(t.current.startedAt),
			Result:      types.RefreshResultSuperseded,
		})
	}

	sessionID := fmt.Sprintf("%s_%d", uuid.NewString(), t.counter)
	t.counter++
	log.Debug().Str("session", sessionID).Str("reason", string(reason)).Msg("starting refresh")

	t.current = &refreshInProgress{
		id:        sessionID,
		reason:    reason,
		group:     group,
		startedAt: t.clock(),
		inFlight:  map[types.SourceKey]time.Time{},
	}
	return sessionID
}

// MarkInFlight records that refresh requests went out to the given keys.
// Untracked sources are accepted but not timed: they never hold the
// session open.
func (t *RefreshTracker) MarkInFlight(sessionID string, keys []types.SourceKey) {
	if !t.checkSession("MarkInFlight", sessionID) {
		return
	}
	now := t.clock()
	for _, key := range keys {
		if !t.tracking.Tracked(key) {
			continue
		}
		t.current.inFlight[key] = now
	}
	log.Debug().
		Str("session", sessionID).
		Int("in_flight", len(t.current.inFlight)).
		Msg("sources in flight")
}

// ReportComplete removes the key from the in-flight set and returns true
// iff this call completed the whole session. On completion the session is
// cleared and a whole-refresh event emitted; calls referencing a cleared
// session id are no-ops.
func (t *RefreshTracker) ReportComplete(sessionID string, key types.SourceKey, success bool) bool {
	if !t.checkSession("ReportComplete", sessionID) {
		return false
	}
	startedAt, wasInFlight := t.current.inFlight[key]
	delete(t.current.inFlight, key)

	tracked := t.tracking.Tracked(key)
	if tracked && !success {
		t.current.trackedFailure = true
	}
	if wasInFlight {
		result := types.RefreshResultSuccess
		if !success {
			result = types.RefreshResultError
		}
		t.telemetry.SourceRefresh(types.SourceRefreshEvent{
			RequestType: t.current.reason.RequestType(),
			SourceID:    key.SourceID,
			UserID:      key.UserID,
			Duration:    t.clock().Sub(startedAt),
			Result:      result,
		})
	}

	if len(t.current.inFlight) > 0 {
		return false
	}

	log.Debug().Str("session", t.current.id).Msg("refresh completed")
	wholeResult := types.RefreshResultSuccess
	if t.current.trackedFailure {
		wholeResult = types.RefreshResultError
	}
	t.telemetry.WholeRefresh(types.WholeRefreshEvent{
		RequestType: t.current.reason.RequestType(),
		Duration:    t.clock().Sub(t.current.startedAt),
		Result:      wholeResult,
	})
	t.current = nil
	return true
}

// Status derives the refresh status from the open session, if any.
func (t *RefreshTracker) Status() types.RefreshStatus {
	if t.current == nil || len(t.current.inFlight) == 0 {
		return types.RefreshStatusNone
	}
	if t.current.reason == types.RefreshReasonRescanButton {
		return types.RefreshStatusFullRescanInProgress
	}
	return types.RefreshStatusDataFetchInProgress
}

// CurrentSessionID returns the open session id, if any.
func (t *RefreshTracker) CurrentSessionID() (string, bool) {
	if t.current == nil {
		return "", false
	}
	return t.current.id, true
}

// Timeout clears the session regardless of completeness and returns the
// keys that were still in flight, emitting a timeout event per key and for
// the whole session. Calling again with the same id is a no-op.
func (t *RefreshTracker) Timeout(sessionID string) []types.SourceKey {
	if !t.checkSession("Timeout", sessionID) {
		return nil
	}
	cleared := t.clearCurrent()
	if cleared == nil || len(cleared.inFlight) == 0 {
		return nil
	}

	now := t.clock()
	requestType := cleared.reason.RequestType()
	timedOut := make([]types.SourceKey, 0, len(cleared.inFlight))
	for key, startedAt := range cleared.inFlight {
		timedOut = append(timedOut, key)
		t.telemetry.SourceRefresh(types.SourceRefreshEvent{
			RequestType: requestType,
			SourceID:    key.SourceID,
			UserID:      key.UserID,
			Duration:    now.Sub(startedAt),
			Result:      types.RefreshResultTimeout,
		})
	}
	t.telemetry.WholeRefresh(types.WholeRefreshEvent{
		RequestType: requestType,
		Duration:    now.Sub(cleared.startedAt),
		Result:      types.RefreshResultTimeout,
	})
	return timedOut
}

// ClearForUser drops in-flight entries for the user; if that empties the
// session, or the user owns it, the session is cleared without
// timeout-classified telemetry.
func (t *RefreshTracker) ClearForUser(userID string) {
	if t.current == nil {
		log.Debug().Str("user", userID).Msg("clear refresh for user with no refresh in progress")
		return
	}
	if t.current.group.Primary == userID {
		t.clearCurrent()
		return
	}
	for key := range t.current.inFlight {
		if key.UserID == userID {
			delete(t.current.inFlight, key)
		}
	}
	if len(t.current.inFlight) == 0 {
		t.clearCurrent()
	}
}

// Clear drops any session unconditionally, without telemetry.
func (t *RefreshTracker) Clear() {
	t.clearCurrent()
}

func (t *RefreshTracker) clearCurrent() *refreshInProgress {
	if t.current == nil {
		log.Debug().Msg("clear refresh with no refresh in progress")
		return nil
	}
	cleared := t.current
	log.Debug().Str("session", cleared.id).Msg("clearing refresh")
	t.current = nil
	return cleared
}

func (t *RefreshTracker) checkSession(op, sessionID string) bool {
	if t.current == nil || t.current.id != sessionID {
		log.Warn().
			Str("op", op).
			Str("session", sessionID).
			Msg("no refresh in progress with this session id")
		return false
	}
	return true
}

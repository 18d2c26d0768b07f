package app

import (
	"context"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"safetyhub/internal/ports"
	"safetyhub/internal/types"
)

// Refresh starts a refresh session for the request's profile group,
// dispatches the fetch to the transport and arms the timeout. Any running
// session is superseded. The transport dispatch happens outside the
// critical section so a slow transport cannot stall views or responses.
func (s *Service) Refresh(ctx context.Context, request RefreshRequest) (RefreshOutcome, error) {
	if !request.Reason.Valid() {
		return RefreshOutcome{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown refresh reason: " + string(request.Reason))
	}

	s.mu.Lock()
	if !s.enabled {
		s.mu.Unlock()
		return RefreshOutcome{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("refusing to refresh while disabled")
	}
	sessionID := s.tracker.Start(request.Reason, request.group())
	keys := s.registry.ExternalKeys(request.group())
	if len(keys) == 0 {
		// Nothing to fetch, the session completes on the spot.
		s.tracker.Clear()
		s.mu.Unlock()
		return RefreshOutcome{SessionID: sessionID}, nil
	}
	s.tracker.MarkInFlight(sessionID, keys)
	s.mu.Unlock()

	if s.transport != nil {
		dispatch := ports.TransportRequest{
			SessionID:   sessionID,
			RequestType: request.Reason.RequestType(),
			Keys:        keys,
		}
		if err := s.transport.Dispatch(ctx, dispatch); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("session", sessionID).
				Msg("dispatch failed, session left to time out")
		}
	}
	if s.timeout > 0 {
		time.AfterFunc(s.timeout, func() { s.Timeout(sessionID) })
	}
	return RefreshOutcome{SessionID: sessionID, Sources: keys}, nil
}

// Timeout expires the session with the given id. Sources still in flight
// are marked as errored so their entries surface the failed refresh. A
// no-op when the session already completed or was superseded.
func (s *Service) Timeout(sessionID string) []types.SourceKey {
	s.mu.Lock()
	defer s.mu.Unlock()

	stale := s.tracker.Timeout(sessionID)
	for _, key := range stale {
		s.store.SetSourceError(key)
	}
	return stale
}

// Await blocks until the session is no longer running, polling the
// tracker. Completion, timeout and supersession all unblock it.
func (s *Service) Await(ctx context.Context, sessionID string) error {
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()
	for {
		s.mu.Lock()
		current, open := s.tracker.CurrentSessionID()
		s.mu.Unlock()
		if !open || current != sessionID {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

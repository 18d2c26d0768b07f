package adapters

import (
	"context"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"safetyhub/internal/ports"
	"safetyhub/internal/types"
)

// ReporterFunc produces a source's report for one user. An error marks the
// source refresh as failed for that user.
type ReporterFunc func(ctx context.Context, userID string) (types.SourceReport, error)

// InprocTransport delivers refresh requests to reporter functions living in
// the same process and feeds their responses back through a single inbox
// channel, tagged with the originating session id. Sources without a
// registered reporter answer with a failure, not silence, so a session
// never waits on a source that cannot exist.
type InprocTransport struct {
	mu        sync.Mutex
	reporters map[string]ReporterFunc
	inbox     chan<- types.SourceResponse
}

func NewInprocTransport(inbox chan<- types.SourceResponse) *InprocTransport {
	return &InprocTransport{
		reporters: map[string]ReporterFunc{},
		inbox:     inbox,
	}
}

func (t *InprocTransport) Register(sourceID string, reporter ReporterFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reporters[sourceID] = reporter
}

func (t *InprocTransport) Dispatch(ctx context.Context, req ports.TransportRequest) error {
	if req.SessionID == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("transport request has no session id")
	}
	for _, key := range req.Keys {
		t.mu.Lock()
		reporter, ok := t.reporters[key.SourceID]
		t.mu.Unlock()
		go t.deliver(ctx, req.SessionID, key, reporter, ok)
	}
	return nil
}

func (t *InprocTransport) deliver(ctx context.Context, sessionID string, key types.SourceKey, reporter ReporterFunc, registered bool) {
	response := types.SourceResponse{SessionID: sessionID, Key: key}
	if !registered {
		log.Warn().Str("source", key.SourceID).Msg("no reporter registered for source")
		response.Failed = true
	} else {
		report, err := reporter(ctx, key.UserID)
		if err != nil {
			log.Warn().Err(err).Str("source", key.SourceID).Str("user", key.UserID).Msg("reporter failed")
			response.Failed = true
		} else {
			response.Report = &report
		}
	}
	select {
	case t.inbox <- response:
	case <-ctx.Done():
	}
}

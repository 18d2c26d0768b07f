package ports

import (
	"context"

	"safetyhub/internal/types"
)

type TransportRequest struct {
	SessionID   string
	RequestType types.RequestType
	Keys        []types.SourceKey
}

// TransportPort delivers refresh requests to sources. Responses come back
// asynchronously as types.SourceResponse messages carrying the session id;
// delivery is at-least-once and the engine tolerates duplicates and
// late arrivals by rejecting stale session ids.
type TransportPort interface {
	Dispatch(ctx context.Context, req TransportRequest) error
}

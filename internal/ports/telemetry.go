package ports

import "safetyhub/internal/types"

// TelemetryPort is the external event sink. Emission must be cheap and
// non-blocking: it is called from inside the engine's critical section.
type TelemetryPort interface {
	SourceRefresh(event types.SourceRefreshEvent)
	WholeRefresh(event types.WholeRefreshEvent)
	Snapshot(event types.SnapshotEvent)
	SourceState(event types.SourceStateEvent)
}

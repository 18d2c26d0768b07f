package core

import (
	"safetyhub/internal/types"
)

// telemetryRecorder captures emitted events for assertions.
type telemetryRecorder struct {
	sourceRefreshes []types.SourceRefreshEvent
	wholeRefreshes  []types.WholeRefreshEvent
	snapshots       []types.SnapshotEvent
	sourceStates    []types.SourceStateEvent
}

func (r *telemetryRecorder) SourceRefresh(event types.SourceRefreshEvent) {
	r.sourceRefreshes = append(r.sourceRefreshes, event)
}

func (r *telemetryRecorder) WholeRefresh(event types.WholeRefreshEvent) {
	r.wholeRefreshes = append(r.wholeRefreshes, event)
}

func (r *telemetryRecorder) Snapshot(event types.SnapshotEvent) {
	r.snapshots = append(r.snapshots, event)
}

func (r *telemetryRecorder) SourceState(event types.SourceStateEvent) {
	r.sourceStates = append(r.sourceStates, event)
}

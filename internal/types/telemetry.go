package types

import "time"

// SourceRefreshEvent reports one source answering (or timing out of) one
// refresh session.
type SourceRefreshEvent struct {
	RequestType RequestType
	SourceID    string
	UserID      string
	Duration    time.Duration
	Result      RefreshResult
}

// WholeRefreshEvent reports the outcome of an entire refresh session.
type WholeRefreshEvent struct {
	RequestType RequestType
	Duration    time.Duration
	Result      RefreshResult
}

// SnapshotEvent is the pull-style summary of the current aggregated state.
type SnapshotEvent struct {
	OverallSeverity      OverallSeverity
	OpenIssueCount       int
	DismissedIssueCount  int
}

// SourceStateEvent is the per-source companion of SnapshotEvent, emitted
// only for sources whose configuration allows logging.
type SourceStateEvent struct {
	SourceID            string
	UserID              string
	Managed             bool
	MaxSeverity         *Severity
	OpenIssueCount      int
	DismissedIssueCount int
}

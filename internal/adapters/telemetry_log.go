package adapters

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"safetyhub/internal/types"
)

// TelemetryLogAdapter writes telemetry events as structured log lines.
type TelemetryLogAdapter struct {
	logger zerolog.Logger
}

func NewTelemetryLogAdapter() TelemetryLogAdapter {
	return TelemetryLogAdapter{logger: log.With().Str("component", "telemetry").Logger()}
}

func (a TelemetryLogAdapter) SourceRefresh(event types.SourceRefreshEvent) {
	a.logger.Info().
		Str("event", "source_refresh").
		Str("request_type", string(event.RequestType)).
		Str("source_id", event.SourceID).
		Str("user_id", event.UserID).
		Dur("duration", event.Duration).
		Str("result", string(event.Result)).
		Send()
}

func (a TelemetryLogAdapter) WholeRefresh(event types.WholeRefreshEvent) {
	a.logger.Info().
		Str("event", "whole_refresh").
		Str("request_type", string(event.RequestType)).
		Dur("duration", event.Duration).
		Str("result", string(event.Result)).
		Send()
}

func (a TelemetryLogAdapter) Snapshot(event types.SnapshotEvent) {
	a.logger.Info().
		Str("event", "snapshot").
		Stringer("overall_severity", event.OverallSeverity).
		Int("open_issues", event.OpenIssueCount).
		Int("dismissed_issues", event.DismissedIssueCount).
		Send()
}

func (a TelemetryLogAdapter) SourceState(event types.SourceStateEvent) {
	entry := a.logger.Info().
		Str("event", "source_state").
		Str("source_id", event.SourceID).
		Str("user_id", event.UserID).
		Bool("managed", event.Managed).
		Int("open_issues", event.OpenIssueCount).
		Int("dismissed_issues", event.DismissedIssueCount)
	if event.MaxSeverity != nil {
		entry = entry.Stringer("max_severity", *event.MaxSeverity)
	}
	entry.Send()
}

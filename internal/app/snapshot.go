package app

import (
	"safetyhub/internal/types"
)

// Snapshot emits the pull-style telemetry for the profile group: one
// overall event plus one per-source event for every reporting source whose
// configuration allows logging.
func (s *Service) Snapshot(user string, managed []types.ManagedProfile) SnapshotResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	group := types.UserProfileGroup{Primary: user, Managed: managed}
	view := s.aggregator.View(group)

	open := len(view.Issues)
	dismissed := s.cache.CountActive(group) - open
	if dismissed < 0 {
		dismissed = 0
	}
	overall := types.SnapshotEvent{
		OverallSeverity:     view.Status.Severity,
		OpenIssueCount:      open,
		DismissedIssueCount: dismissed,
	}
	s.telemetry.Snapshot(overall)

	var sources []types.SourceStateEvent
	for _, sourceGroup := range s.registry.Groups {
		for _, source := range sourceGroup.Sources {
			if !source.External() || !source.LoggingAllowed {
				continue
			}
			sources = append(sources, s.sourceState(source, group.Primary, false))
			if !source.ManagedProfiles {
				continue
			}
			for _, userID := range group.RunningManaged() {
				sources = append(sources, s.sourceState(source, userID, true))
			}
		}
	}
	for _, event := range sources {
		s.telemetry.SourceState(event)
	}
	return SnapshotResult{Overall: overall, Sources: sources}
}

func (s *Service) sourceState(source types.SourceDescriptor, userID string, managedUser bool) types.SourceStateEvent {
	event := types.SourceStateEvent{
		SourceID: source.ID,
		UserID:   userID,
		Managed:  managedUser,
	}
	key := types.KeyOf(source.ID, userID)
	report, ok := s.store.Get(key)
	if !ok {
		return event
	}

	var max *types.Severity
	record := func(severity types.Severity) {
		if max == nil || severity > *max {
			value := severity
			max = &value
		}
	}
	if report.Status != nil {
		record(report.Status.Severity)
	}
	for _, issue := range report.Issues {
		issueKey := types.IssueKey{SourceID: source.ID, IssueID: issue.ID, UserID: userID}
		if s.cache.IsDismissed(issueKey, issue.Severity) {
			event.DismissedIssueCount++
			continue
		}
		event.OpenIssueCount++
		record(issue.Severity)
	}
	event.MaxSeverity = max
	return event
}

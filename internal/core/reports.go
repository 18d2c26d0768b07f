package core

import (
	"safetyhub/internal/types"
)

// ActionKey identifies one remediation action on one issue.
type ActionKey struct {
	Issue    types.IssueKey
	ActionID string
}

// ReportStore holds the latest report per source key, plus per-source error
// markers and in-flight remediation actions.
//
// Not safe for concurrent use; callers serialize through the engine's
// critical section.
type ReportStore struct {
	reports         map[types.SourceKey]types.SourceReport
	sourceErrors    map[types.SourceKey]struct{}
	actionsInFlight map[ActionKey]struct{}
}

func NewReportStore() *ReportStore {
	return &ReportStore{
		reports:         map[types.SourceKey]types.SourceReport{},
		sourceErrors:    map[types.SourceKey]struct{}{},
		actionsInFlight: map[ActionKey]struct{}{},
	}
}

// Set overwrites the report for the key wholesale and clears any error
// marker: fresh data supersedes a previous failure.
func (s *ReportStore) Set(key types.SourceKey, report types.SourceReport) {
	s.reports[key] = report
	delete(s.sourceErrors, key)
}

// Get returns the latest report for the key. The second return value
// distinguishes "no report yet" from an empty report.
func (s *ReportStore) Get(key types.SourceKey) (types.SourceReport, bool) {
	report, ok := s.reports[key]
	return report, ok
}

// SetSourceError marks the source as having failed its last refresh. The
// previous report, if any, stays available: a failed refresh does not
// destroy known data.
func (s *ReportStore) SetSourceError(key types.SourceKey) {
	s.sourceErrors[key] = struct{}{}
}

func (s *ReportStore) SourceHasError(key types.SourceKey) bool {
	_, ok := s.sourceErrors[key]
	return ok
}

func (s *ReportStore) MarkActionInFlight(key ActionKey) {
	s.actionsInFlight[key] = struct{}{}
}

func (s *ReportStore) UnmarkActionInFlight(key ActionKey) {
	delete(s.actionsInFlight, key)
}

func (s *ReportStore) ActionInFlight(key ActionKey) bool {
	_, ok := s.actionsInFlight[key]
	return ok
}

func (s *ReportStore) Clear() {
	s.reports = map[types.SourceKey]types.SourceReport{}
	s.sourceErrors = map[types.SourceKey]struct{}{}
	s.actionsInFlight = map[ActionKey]struct{}{}
}

func (s *ReportStore) ClearForUser(userID string) {
	for key := range s.reports {
		if key.UserID == userID {
			delete(s.reports, key)
		}
	}
	for key := range s.sourceErrors {
		if key.UserID == userID {
			delete(s.sourceErrors, key)
		}
	}
	for key := range s.actionsInFlight {
		if key.Issue.UserID == userID {
			delete(s.actionsInFlight, key)
		}
	}
}

package app

import (
	"safetyhub/internal/core"
	"safetyhub/internal/types"
)

// SetSourceReport is the push path: a source replaces its report outside
// any refresh session. The report is validated against the source's
// descriptor before it is accepted.
func (s *Service) SetSourceReport(key types.SourceKey, report types.SourceReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateReport(key, report); err != nil {
		return err
	}
	s.store.Set(key, report)
	s.cache.SyncReported(key, report.IssueKeys(key))
	return nil
}

// ReportSourceError marks the source as failed without touching its last
// known report.
func (s *Service) ReportSourceError(key types.SourceKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.externalSource(key.SourceID); err != nil {
		return err
	}
	s.store.SetSourceError(key)
	return nil
}

// ActionStarted marks a remediation action as in flight so views can show
// its progress.
func (s *Service) ActionStarted(issue types.IssueKey, actionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.MarkActionInFlight(core.ActionKey{Issue: issue, ActionID: actionID})
}

// ActionFinished clears the in-flight marker. The source is expected to
// follow up with a fresh report reflecting the outcome.
func (s *Service) ActionFinished(issue types.IssueKey, actionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.UnmarkActionInFlight(core.ActionKey{Issue: issue, ActionID: actionID})
}

package app

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"safetyhub/internal/types"
)

// Dismiss suppresses the issue at its currently reported severity and
// persists the dismissal. The issue must be present in the latest report
// of its source; dismissing a stale key is an error, not a silent no-op.
func (s *Service) Dismiss(key types.IssueKey) error {
	s.mu.Lock()
	severity, found := s.currentSeverity(key)
	if !found {
		s.mu.Unlock()
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("issue %s is not currently reported", key.Encode()))
	}
	s.cache.Dismiss(key, severity)
	export := s.cache.Export()
	s.mu.Unlock()

	return s.dismissals.Save(export)
}

func (s *Service) currentSeverity(key types.IssueKey) (types.Severity, bool) {
	report, ok := s.store.Get(key.SourceKey())
	if !ok {
		return 0, false
	}
	for _, issue := range report.Issues {
		if issue.ID == key.IssueID {
			return issue.Severity, true
		}
	}
	return 0, false
}

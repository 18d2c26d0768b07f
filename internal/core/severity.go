package core

import (
	"github.com/rs/zerolog/log"

	"safetyhub/internal/types"
)

// issueOverallSeverity maps a reported issue severity onto the overall
// scale. Out-of-range values degrade to unknown rather than aborting the
// view.
func issueOverallSeverity(severity types.Severity) types.OverallSeverity {
	switch severity {
	case types.SeverityUnspecified, types.SeverityInformation:
		return types.OverallSeverityOK
	case types.SeverityRecommendation:
		return types.OverallSeverityRecommendation
	case types.SeverityCritical:
		return types.OverallSeverityCritical
	}
	log.Warn().Stringer("severity", severity).Msg("unexpected issue severity")
	return types.OverallSeverityUnknown
}

func entrySeverity(severity types.Severity) types.EntrySeverity {
	switch severity {
	case types.SeverityUnspecified:
		return types.EntrySeverityUnspecified
	case types.SeverityInformation:
		return types.EntrySeverityOK
	case types.SeverityRecommendation:
		return types.EntrySeverityRecommendation
	case types.SeverityCritical:
		return types.EntrySeverityCritical
	}
	log.Warn().Stringer("severity", severity).Msg("unexpected status severity")
	return types.EntrySeverityUnknown
}

func entryOverallSeverity(severity types.EntrySeverity) types.OverallSeverity {
	switch severity {
	case types.EntrySeverityUnknown:
		return types.OverallSeverityUnknown
	case types.EntrySeverityUnspecified, types.EntrySeverityOK:
		return types.OverallSeverityOK
	case types.EntrySeverityRecommendation:
		return types.OverallSeverityRecommendation
	case types.EntrySeverityCritical:
		return types.OverallSeverityCritical
	}
	log.Warn().Stringer("severity", severity).Msg("unexpected entry severity")
	return types.OverallSeverityUnknown
}

// mergeEntrySeverities combines two entry severities: anything above OK
// wins outright, then unknown dominates, then plain maximum.
func mergeEntrySeverities(left, right types.EntrySeverity) types.EntrySeverity {
	if left > types.EntrySeverityOK || right > types.EntrySeverityOK {
		return maxEntrySeverity(left, right)
	}
	if left == types.EntrySeverityUnknown || right == types.EntrySeverityUnknown {
		return types.EntrySeverityUnknown
	}
	return maxEntrySeverity(left, right)
}

func maxEntrySeverity(left, right types.EntrySeverity) types.EntrySeverity {
	if left > right {
		return left
	}
	return right
}

// overallState accumulates issue-derived and entry-derived severities
// separately: unknown entries only force the overall status to unknown
// when no recommendation-or-above issue exists, because an unreported
// source must not mask a known, real problem.
type overallState struct {
	issues  types.OverallSeverity
	entries types.OverallSeverity
}

func newOverallState() *overallState {
	return &overallState{
		issues:  types.OverallSeverityOK,
		entries: types.OverallSeverityOK,
	}
}

func (s *overallState) addIssue(severity types.OverallSeverity) {
	// An issue with no data does not exist; unknown never comes from issues.
	if severity == types.OverallSeverityUnknown {
		return
	}
	s.issues = mergeOverallSeverities(s.issues, severity)
}

func (s *overallState) addEntry(severity types.OverallSeverity) {
	s.entries = mergeOverallSeverities(s.entries, severity)
}

func (s *overallState) overall() types.OverallSeverity {
	if s.entries == types.OverallSeverityUnknown && s.issues <= types.OverallSeverityOK {
		return types.OverallSeverityUnknown
	}
	return s.issues
}

// settingsToReview reports whether any entry is less safe than the
// aggregate issue severity, or unknown.
func (s *overallState) settingsToReview() bool {
	return s.entries == types.OverallSeverityUnknown || s.entries > s.issues
}

func mergeOverallSeverities(left, right types.OverallSeverity) types.OverallSeverity {
	if left == types.OverallSeverityUnknown || right == types.OverallSeverityUnknown {
		return types.OverallSeverityUnknown
	}
	if left > right {
		return left
	}
	return right
}

package app

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"safetyhub/internal/types"
)

func (s *Service) externalSource(sourceID string) (types.SourceDescriptor, error) {
	descriptor, ok := s.registry.Source(sourceID)
	if !ok {
		return types.SourceDescriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("unknown source %s", sourceID))
	}
	if !descriptor.External() {
		return types.SourceDescriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("source %s does not report at runtime", sourceID))
	}
	return descriptor, nil
}

func (s *Service) validateReport(key types.SourceKey, report types.SourceReport) error {
	descriptor, err := s.externalSource(key.SourceID)
	if err != nil {
		return err
	}
	if report.Status != nil {
		if descriptor.Type == types.SourceTypeIssueOnly {
			return invalidReport(key, "issue-only sources cannot set a status")
		}
		if report.Status.Title == "" {
			return invalidReport(key, "status title is required")
		}
		if !report.Status.Severity.Valid() {
			return invalidReport(key, fmt.Sprintf("invalid status severity %d", report.Status.Severity))
		}
		if report.Status.Severity > descriptor.MaxSeverity {
			return invalidReport(key, fmt.Sprintf("status severity %s exceeds the allowed maximum %s",
				report.Status.Severity, descriptor.MaxSeverity))
		}
	}
	for _, issue := range report.Issues {
		if issue.ID == "" || issue.Title == "" {
			return invalidReport(key, "issues need an id and a title")
		}
		if !issue.Severity.Valid() {
			return invalidReport(key, fmt.Sprintf("issue %s: invalid severity %d", issue.ID, issue.Severity))
		}
		if issue.Severity > descriptor.MaxSeverity {
			return invalidReport(key, fmt.Sprintf("issue %s: severity %s exceeds the allowed maximum %s",
				issue.ID, issue.Severity, descriptor.MaxSeverity))
		}
		for _, action := range issue.Actions {
			if action.ID == "" || action.Label == "" {
				return invalidReport(key, fmt.Sprintf("issue %s: actions need an id and a label", issue.ID))
			}
		}
	}
	return nil
}

func invalidReport(key types.SourceKey, reason string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("rejecting report from %s: %s", key, reason))
}

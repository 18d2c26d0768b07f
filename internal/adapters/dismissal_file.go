package adapters

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"safetyhub/internal/types"
)

// DismissalFileAdapter persists dismissal records to a YAML file. A missing
// file is an empty store, not an error.
type DismissalFileAdapter struct {
	Path string
}

func NewDismissalFileAdapter(path string) DismissalFileAdapter {
	return DismissalFileAdapter{Path: path}
}

type persistedIssueFile struct {
	Issues []types.PersistedIssue `yaml:"issues"`
}

func (a DismissalFileAdapter) Load() ([]types.PersistedIssue, error) {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read dismissal store").
			WithCause(err)
	}
	var file persistedIssueFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse dismissal store yaml").
			WithCause(err)
	}
	for _, issue := range file.Issues {
		if err := validatePersistedIssue(issue); err != nil {
			return nil, err
		}
	}
	return file.Issues, nil
}

func (a DismissalFileAdapter) Save(issues []types.PersistedIssue) error {
	for _, issue := range issues {
		if err := validatePersistedIssue(issue); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(persistedIssueFile{Issues: issues})
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode dismissal store").
			WithCause(err)
	}
	if dir := filepath.Dir(a.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create dismissal store directory").
				WithCause(err)
		}
	}
	return os.WriteFile(a.Path, data, 0644)
}

func validatePersistedIssue(issue types.PersistedIssue) error {
	if issue.Key == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("persisted issue is missing its key")
	}
	if issue.FirstSeenAt.IsZero() {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("persisted issue %s is missing first_seen_at", issue.Key))
	}
	if issue.DismissedAt != nil && issue.DismissCount == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("persisted issue %s has dismissed_at but no dismiss count", issue.Key))
	}
	if issue.DismissCount > 0 && issue.DismissedAt == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("persisted issue %s has a dismiss count but no dismissed_at", issue.Key))
	}
	return nil
}

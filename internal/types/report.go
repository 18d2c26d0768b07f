package types

// SourceStatus is the status half of a report. A nil *SourceStatus on a
// report means the source sent issues only; it is distinct from a missing
// report, which means the source has not reported at all.
type SourceStatus struct {
	Title         string   `yaml:"title"`
	Summary       string   `yaml:"summary"`
	Severity      Severity `yaml:"severity"`
	Enabled       bool     `yaml:"enabled"`
	PendingAction string   `yaml:"pending_action"`
}

type IssueAction struct {
	ID        string `yaml:"id"`
	Label     string `yaml:"label"`
	Resolving bool   `yaml:"resolving"`
}

type Issue struct {
	ID       string        `yaml:"id"`
	TypeID   string        `yaml:"type_id"`
	Severity Severity      `yaml:"severity"`
	Category IssueCategory `yaml:"category"`
	Title    string        `yaml:"title"`
	Summary  string        `yaml:"summary"`
	Actions  []IssueAction `yaml:"actions"`
}

// SourceReport is the latest data reported by one source for one user.
// Each set overwrites the previous report wholesale.
type SourceReport struct {
	Status *SourceStatus `yaml:"status"`
	Issues []Issue       `yaml:"issues"`
}

// IssueKeys returns the keys of all issues in the report for the given
// source key.
func (r SourceReport) IssueKeys(key SourceKey) []IssueKey {
	out := make([]IssueKey, 0, len(r.Issues))
	for _, issue := range r.Issues {
		out = append(out, IssueKey{SourceID: key.SourceID, IssueID: issue.ID, UserID: key.UserID})
	}
	return out
}

// SourceResponse is one transport callback: a source answering (or failing
// to answer) a refresh request. Correlated to its session by id.
type SourceResponse struct {
	SessionID string
	Key       SourceKey
	Report    *SourceReport
	Failed    bool
}

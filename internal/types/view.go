package types

// View is the aggregated picture of all sources. It is computed fresh on
// every read and never mutated incrementally.
type View struct {
	Status       ViewStatus
	Issues       []ViewIssue
	Entries      []EntryOrGroup
	StaticGroups []StaticEntryGroup
}

type ViewStatus struct {
	Title         string
	Summary       string
	Severity      OverallSeverity
	RefreshStatus RefreshStatus
}

type ViewIssueAction struct {
	ID        string
	Label     string
	Resolving bool
	InFlight  bool
}

type ViewIssue struct {
	Key              IssueKey
	TypeID           string
	Severity         Severity
	Category         IssueCategory
	Title            string
	Summary          string
	ConfirmDismissal bool
	Actions          []ViewIssueAction
}

type Entry struct {
	Key      SourceKey
	Title    string
	Summary  string
	Severity EntrySeverity
	Enabled  bool
	Action   string
}

type EntryGroup struct {
	GroupID  string
	Title    string
	Summary  string
	Severity EntrySeverity
	Entries  []Entry
}

// EntryOrGroup holds exactly one of Entry or Group: a group that collapsed
// to a single entry is flattened rather than wrapped.
type EntryOrGroup struct {
	Entry *Entry
	Group *EntryGroup
}

type StaticEntry struct {
	Key     SourceKey
	Title   string
	Summary string
	Action  string
}

type StaticEntryGroup struct {
	Title   string
	Entries []StaticEntry
}

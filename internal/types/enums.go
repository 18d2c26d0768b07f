package types

type SourceType string

const (
	SourceTypeDynamic   SourceType = "dynamic"
	SourceTypeStatic    SourceType = "static"
	SourceTypeIssueOnly SourceType = "issue-only"
)

type GroupKind string

const (
	GroupKindCollapsible GroupKind = "collapsible"
	GroupKindRigid       GroupKind = "rigid"
	GroupKindHidden      GroupKind = "hidden"
)

type IssueCategory string

const (
	IssueCategoryDevice  IssueCategory = "device"
	IssueCategoryAccount IssueCategory = "account"
	IssueCategoryGeneral IssueCategory = "general"
)

type RefreshReason string

const (
	RefreshReasonPageOpen       RefreshReason = "page-open"
	RefreshReasonRescanButton   RefreshReason = "rescan-button"
	RefreshReasonDeviceReboot   RefreshReason = "device-reboot"
	RefreshReasonLocaleChange   RefreshReason = "locale-change"
	RefreshReasonFeatureEnabled RefreshReason = "feature-enabled"
	RefreshReasonOther          RefreshReason = "other"
)

func (r RefreshReason) Valid() bool {
	switch r {
	case RefreshReasonPageOpen, RefreshReasonRescanButton, RefreshReasonDeviceReboot,
		RefreshReasonLocaleChange, RefreshReasonFeatureEnabled, RefreshReasonOther:
		return true
	}
	return false
}

// RequestType is the telemetry bucket a refresh reason maps to. A rescan
// asks sources to fetch fresh data, everything else re-reports cached data.
type RequestType string

const (
	RequestTypeGetData        RequestType = "get-data"
	RequestTypeFetchFreshData RequestType = "fetch-fresh-data"
)

func (r RefreshReason) RequestType() RequestType {
	if r == RefreshReasonRescanButton {
		return RequestTypeFetchFreshData
	}
	return RequestTypeGetData
}

type RefreshStatus string

const (
	RefreshStatusNone                 RefreshStatus = "none"
	RefreshStatusDataFetchInProgress  RefreshStatus = "data-fetch-in-progress"
	RefreshStatusFullRescanInProgress RefreshStatus = "full-rescan-in-progress"
)

type RefreshResult string

const (
	RefreshResultSuccess    RefreshResult = "success"
	RefreshResultError      RefreshResult = "error"
	RefreshResultTimeout    RefreshResult = "timeout"
	RefreshResultSuperseded RefreshResult = "superseded"
)

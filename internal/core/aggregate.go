package core

import (
	"sort"

	"github.com/rs/zerolog/log"

	"safetyhub/internal/types"
)

// Aggregator merges per-source reports into one consistent view. Reads are
// pure: nothing is cached or mutated, every call recomputes from the three
// stores, which the caller must hold the critical section over.
type Aggregator struct {
	Registry Registry
	Store    *ReportStore
	Cache    *DismissalCache
	Tracker  *RefreshTracker
}

func NewAggregator(registry Registry, store *ReportStore, cache *DismissalCache, tracker *RefreshTracker) Aggregator {
	return Aggregator{
		Registry: registry,
		Store:    store,
		Cache:    cache,
		Tracker:  tracker,
	}
}

// View computes the aggregated view for the profile group. It never fails:
// bad or missing data degrades to unknown, never to an error.
func (a Aggregator) View(group types.UserProfileGroup) types.View {
	state := newOverallState()
	var issues []types.ViewIssue
	var entries []types.EntryOrGroup
	var staticGroups []types.StaticEntryGroup

	for _, sourceGroup := range a.Registry.Groups {
		a.collectIssues(state, &issues, sourceGroup, group)
		switch sourceGroup.Kind {
		case types.GroupKindCollapsible:
			a.addEntryGroup(state, &entries, sourceGroup, group)
		case types.GroupKindRigid:
			a.addStaticGroup(state, &staticGroups, sourceGroup, group)
		case types.GroupKindHidden:
		default:
			log.Warn().Str("group", sourceGroup.ID).Str("kind", string(sourceGroup.Kind)).Msg("unexpected group kind")
		}
	}

	// Stable sort: ties keep source iteration order. Consumers rely on
	// index 0 being the most severe issue.
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity > issues[j].Severity
	})

	refreshStatus := a.Tracker.Status()
	overall := state.overall()
	return types.View{
		Status: types.ViewStatus{
			Title:         statusTitle(overall, issues, refreshStatus, state.settingsToReview()),
			Summary:       statusSummary(overall, refreshStatus, len(issues), state.settingsToReview()),
			Severity:      overall,
			RefreshStatus: refreshStatus,
		},
		Issues:       issues,
		Entries:      entries,
		StaticGroups: staticGroups,
	}
}

func (a Aggregator) collectIssues(state *overallState, issues *[]types.ViewIssue, sourceGroup types.SourceGroup, group types.UserProfileGroup) {
	for _, source := range sourceGroup.Sources {
		if !source.External() {
			continue
		}
		a.collectSourceIssues(state, issues, source, group.Primary)
		if !source.ManagedProfiles {
			continue
		}
		for _, userID := range group.RunningManaged() {
			a.collectSourceIssues(state, issues, source, userID)
		}
	}
}

func (a Aggregator) collectSourceIssues(state *overallState, issues *[]types.ViewIssue, source types.SourceDescriptor, userID string) {
	key := types.KeyOf(source.ID, userID)
	report, ok := a.Store.Get(key)
	if !ok {
		return
	}
	for _, issue := range report.Issues {
		issueKey := types.IssueKey{SourceID: source.ID, IssueID: issue.ID, UserID: userID}
		if a.Cache.IsDismissed(issueKey, issue.Severity) {
			continue
		}
		state.addIssue(issueOverallSeverity(issue.Severity))
		*issues = append(*issues, a.toViewIssue(issueKey, issue))
	}
}

func (a Aggregator) toViewIssue(key types.IssueKey, issue types.Issue) types.ViewIssue {
	actions := make([]types.ViewIssueAction, 0, len(issue.Actions))
	for _, action := range issue.Actions {
		actions = append(actions, types.ViewIssueAction{
			ID:        action.ID,
			Label:     action.Label,
			Resolving: action.Resolving,
			InFlight:  a.Store.ActionInFlight(ActionKey{Issue: key, ActionID: action.ID}),
		})
	}
	return types.ViewIssue{
		Key:              key,
		TypeID:           issue.TypeID,
		Severity:         issue.Severity,
		Category:         issue.Category,
		Title:            issue.Title,
		Summary:          issue.Summary,
		ConfirmDismissal: issue.Severity > types.SeverityInformation,
		Actions:          actions,
	}
}

func (a Aggregator) addEntryGroup(state *overallState, out *[]types.EntryOrGroup, sourceGroup types.SourceGroup, group types.UserProfileGroup) {
	groupLevel := types.EntrySeverityUnspecified
	var entries []types.Entry

	for _, source := range sourceGroup.Sources {
		groupLevel = mergeEntrySeverities(groupLevel,
			a.addEntry(state, &entries, source, group.Primary, false, false))

		if !source.ManagedProfiles {
			continue
		}
		for _, profile := range group.Managed {
			groupLevel = mergeEntrySeverities(groupLevel,
				a.addEntry(state, &entries, source, profile.UserID, true, profile.Running))
		}
	}

	if len(entries) == 0 {
		return
	}
	if len(entries) == 1 {
		entry := entries[0]
		*out = append(*out, types.EntryOrGroup{Entry: &entry})
		return
	}
	*out = append(*out, types.EntryOrGroup{Group: &types.EntryGroup{
		GroupID:  sourceGroup.ID,
		Title:    sourceGroup.Title,
		Summary:  a.groupSummary(sourceGroup, groupLevel, entries),
		Severity: groupLevel,
		Entries:  entries,
	}})
}

func (a Aggregator) addEntry(state *overallState, entries *[]types.Entry, source types.SourceDescriptor, userID string, managed, running bool) types.EntrySeverity {
	entry := a.entryFor(source, userID, managed, running)
	if entry == nil {
		return types.EntrySeverityUnspecified
	}
	state.addEntry(entryOverallSeverity(entry.Severity))
	*entries = append(*entries, *entry)
	return entry.Severity
}

func (a Aggregator) entryFor(source types.SourceDescriptor, userID string, managed, running bool) *types.Entry {
	switch source.Type {
	case types.SourceTypeIssueOnly:
		return nil
	case types.SourceTypeDynamic:
		key := types.KeyOf(source.ID, userID)
		report, ok := a.Store.Get(key)
		quiet := managed && !running
		if !ok || report.Status == nil || quiet {
			return a.defaultEntry(source, types.EntrySeverityUnknown, userID, managed, running)
		}
		status := report.Status
		enabled := status.Enabled
		action := status.PendingAction
		if action == "" {
			action = source.DefaultAction
			enabled = enabled && action != ""
		}
		severity := types.EntrySeverityUnspecified
		if enabled {
			severity = entrySeverity(status.Severity)
		}
		return &types.Entry{
			Key:      key,
			Title:    status.Title,
			Summary:  status.Summary,
			Severity: severity,
			Enabled:  enabled,
			Action:   action,
		}
	case types.SourceTypeStatic:
		return a.defaultEntry(source, types.EntrySeverityUnspecified, userID, managed, running)
	}
	log.Warn().Str("source", source.ID).Str("type", string(source.Type)).Msg("unknown source type in collapsible group")
	return nil
}

// defaultEntry builds the config-derived entry shown when a source has no
// usable report, or when a managed profile is in quiet mode.
func (a Aggregator) defaultEntry(source types.SourceDescriptor, severity types.EntrySeverity, userID string, managed, running bool) *types.Entry {
	if source.HiddenByDefault {
		return nil
	}
	key := types.KeyOf(source.ID, userID)
	quiet := managed && !running
	enabled := source.DefaultAction != "" && !source.DisabledByDefault
	title := source.Title
	if managed {
		title += " (work)"
	}
	summary := source.Summary
	if a.Store.SourceHasError(key) {
		summary = refreshErrorSummary(1)
	}
	if quiet {
		enabled = false
		summary = profilePausedSummary
	}
	return &types.Entry{
		Key:      key,
		Title:    title,
		Summary:  summary,
		Severity: severity,
		Enabled:  enabled,
		Action:   source.DefaultAction,
	}
}

func (a Aggregator) groupSummary(sourceGroup types.SourceGroup, groupLevel types.EntrySeverity, entries []types.Entry) string {
	switch groupLevel {
	case types.EntrySeverityCritical, types.EntrySeverityRecommendation, types.EntrySeverityOK:
		for _, entry := range entries {
			if entry.Severity != groupLevel || entry.Summary == "" {
				continue
			}
			if groupLevel > types.EntrySeverityOK {
				return entry.Summary
			}
			report, ok := a.Store.Get(entry.Key)
			if ok && len(report.Issues) > 0 {
				return entry.Summary
			}
		}
		return sourceGroup.Summary
	case types.EntrySeverityUnspecified:
		return sourceGroup.Summary
	case types.EntrySeverityUnknown:
		errorEntries := 0
		for _, entry := range entries {
			if a.Store.SourceHasError(entry.Key) {
				errorEntries++
			}
		}
		if errorEntries > 0 {
			return refreshErrorSummary(errorEntries)
		}
		return groupUnknownSummary
	}
	log.Warn().Stringer("severity", groupLevel).Str("group", sourceGroup.ID).Msg("unexpected group severity")
	return sourceGroup.Summary
}

func (a Aggregator) addStaticGroup(state *overallState, out *[]types.StaticEntryGroup, sourceGroup types.SourceGroup, group types.UserProfileGroup) {
	var entries []types.StaticEntry
	for _, source := range sourceGroup.Sources {
		a.addStaticEntry(state, &entries, source, group.Primary, false, false)
		if !source.ManagedProfiles {
			continue
		}
		for _, profile := range group.Managed {
			a.addStaticEntry(state, &entries, source, profile.UserID, true, profile.Running)
		}
	}
	*out = append(*out, types.StaticEntryGroup{Title: sourceGroup.Title, Entries: entries})
}

func (a Aggregator) addStaticEntry(state *overallState, entries *[]types.StaticEntry, source types.SourceDescriptor, userID string, managed, running bool) {
	entry := a.staticEntryFor(source, userID, managed, running)
	if entry == nil {
		return
	}
	key := types.KeyOf(source.ID, userID)
	quiet := managed && !running
	if quiet || a.Store.SourceHasError(key) {
		state.addEntry(types.OverallSeverityUnknown)
	}
	*entries = append(*entries, *entry)
}

func (a Aggregator) staticEntryFor(source types.SourceDescriptor, userID string, managed, running bool) *types.StaticEntry {
	switch source.Type {
	case types.SourceTypeIssueOnly:
		return nil
	case types.SourceTypeDynamic:
		key := types.KeyOf(source.ID, userID)
		report, ok := a.Store.Get(key)
		quiet := managed && !running
		if ok && report.Status != nil && !quiet {
			status := report.Status
			if status.PendingAction == "" {
				log.Warn().Str("source", source.ID).Msg("dropping static entry without a resolved action")
				return nil
			}
			return &types.StaticEntry{
				Key:     key,
				Title:   status.Title,
				Summary: status.Summary,
				Action:  status.PendingAction,
			}
		}
		return a.defaultStaticEntry(source, userID, managed, running)
	case types.SourceTypeStatic:
		return a.defaultStaticEntry(source, userID, managed, running)
	}
	log.Warn().Str("source", source.ID).Str("type", string(source.Type)).Msg("unknown source type in rigid group")
	return nil
}

func (a Aggregator) defaultStaticEntry(source types.SourceDescriptor, userID string, managed, running bool) *types.StaticEntry {
	if source.HiddenByDefault {
		return nil
	}
	if source.DefaultAction == "" {
		log.Warn().Str("source", source.ID).Msg("dropping static entry without a resolved action")
		return nil
	}
	key := types.KeyOf(source.ID, userID)
	title := source.Title
	if managed {
		title += " (work)"
	}
	summary := source.Summary
	if a.Store.SourceHasError(key) {
		summary = refreshErrorSummary(1)
	}
	if managed && !running {
		summary = profilePausedSummary
	}
	return &types.StaticEntry{
		Key:     key,
		Title:   title,
		Summary: summary,
		Action:  source.DefaultAction,
	}
}

func statusTitle(overall types.OverallSeverity, issues []types.ViewIssue, refreshStatus types.RefreshStatus, review bool) string {
	if title := refreshStatusTitle(refreshStatus, overall == types.OverallSeverityUnknown); title != "" {
		return title
	}
	switch overall {
	case types.OverallSeverityUnknown, types.OverallSeverityOK:
		if review {
			return okReviewTitle
		}
		return okTitle
	case types.OverallSeverityRecommendation:
		return categoryTitle(issues, recommendationTitles)
	case types.OverallSeverityCritical:
		return categoryTitle(issues, criticalTitles)
	}
	log.Warn().Stringer("severity", overall).Msg("unexpected overall severity")
	return ""
}

// refreshStatusTitle returns the scanning title when refresh state preempts
// severity text: a full rescan always, a data fetch only while the overall
// state is still unknown.
func refreshStatusTitle(refreshStatus types.RefreshStatus, overallUnknown bool) string {
	switch refreshStatus {
	case types.RefreshStatusNone:
		return ""
	case types.RefreshStatusDataFetchInProgress:
		if !overallUnknown {
			return ""
		}
		return scanningTitle
	case types.RefreshStatusFullRescanInProgress:
		return scanningTitle
	}
	log.Warn().Str("status", string(refreshStatus)).Msg("unexpected refresh status")
	return ""
}

// categoryTitle selects the phrasing from the most severe issue's category.
func categoryTitle(issues []types.ViewIssue, titles map[types.IssueCategory]string) string {
	general := titles[types.IssueCategoryGeneral]
	if len(issues) == 0 {
		log.Warn().Msg("no issues found for a non-ok status")
		return general
	}
	if title, ok := titles[issues[0].Category]; ok {
		return title
	}
	log.Warn().Str("category", string(issues[0].Category)).Msg("unexpected issue category")
	return general
}

func statusSummary(overall types.OverallSeverity, refreshStatus types.RefreshStatus, issueCount int, review bool) string {
	if refreshStatus == types.RefreshStatusDataFetchInProgress || refreshStatus == types.RefreshStatusFullRescanInProgress {
		return loadingSummary
	}
	switch overall {
	case types.OverallSeverityUnknown, types.OverallSeverityOK:
		if issueCount == 0 {
			if review {
				return okReviewSummary
			}
			return okSummary
		}
		return alertsSummary(issueCount)
	case types.OverallSeverityRecommendation, types.OverallSeverityCritical:
		return alertsSummary(issueCount)
	}
	log.Warn().Stringer("severity", overall).Msg("unexpected overall severity")
	return ""
}

package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safetyhub/internal/adapters"
	"safetyhub/internal/ports"
	"safetyhub/internal/types"
)

// telemetrySink captures emitted events behind a mutex so tests can read
// them while the inbox consumer is running.
type telemetrySink struct {
	mu           sync.Mutex
	wholeResults []types.RefreshResult
	snapshots    []types.SnapshotEvent
	sourceStates []types.SourceStateEvent
}

func (s *telemetrySink) SourceRefresh(types.SourceRefreshEvent) {}

func (s *telemetrySink) WholeRefresh(event types.WholeRefreshEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wholeResults = append(s.wholeResults, event.Result)
}

func (s *telemetrySink) Snapshot(event types.SnapshotEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, event)
}

func (s *telemetrySink) SourceState(event types.SourceStateEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sourceStates = append(s.sourceStates, event)
}

func (s *telemetrySink) results() []types.RefreshResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.RefreshResult(nil), s.wholeResults...)
}

func testConfig() types.RegistryConfig {
	return types.RegistryConfig{
		Enabled: true,
		Groups: []types.SourceGroup{{
			ID:      "device-security",
			Kind:    types.GroupKindCollapsible,
			Title:   "Device security",
			Summary: "Overall device security",
			Sources: []types.SourceDescriptor{
				{
					ID: "lockscreen", Type: types.SourceTypeDynamic,
					Title: "Screen lock", Summary: "Protects your device",
					DefaultAction:  "open://lockscreen",
					MaxSeverity:    types.SeverityCritical,
					LoggingAllowed: true,
				},
				{
					ID: "encryption", Type: types.SourceTypeDynamic,
					Title: "Encryption", Summary: "Protects your data",
					DefaultAction: "open://encryption",
					MaxSeverity:   types.SeverityRecommendation,
				},
			},
		}, {
			ID:    "more-settings",
			Kind:  types.GroupKindRigid,
			Title: "More settings",
			Sources: []types.SourceDescriptor{{
				ID: "about", Type: types.SourceTypeStatic,
				Title: "About", DefaultAction: "open://about",
			}},
		}},
	}
}

func okReport(title string) types.SourceReport {
	return types.SourceReport{Status: &types.SourceStatus{
		Title:    title,
		Summary:  "All good",
		Severity: types.SeverityInformation,
		Enabled:  true,
	}}
}

type serviceEnv struct {
	service *Service
	sink    *telemetrySink
	store   string
}

func newTestService(t *testing.T, cfg types.RegistryConfig, reporters map[string]adapters.ReporterFunc) *serviceEnv {
	t.Helper()
	sink := &telemetrySink{}
	storePath := filepath.Join(t.TempDir(), "issues.yaml")

	opts := Options{
		Telemetry:  sink,
		Dismissals: adapters.NewDismissalFileAdapter(storePath),
	}
	if reporters != nil {
		opts.Transport = func(inbox chan<- types.SourceResponse) ports.TransportPort {
			transport := adapters.NewInprocTransport(inbox)
			for id, reporter := range reporters {
				transport.Register(id, reporter)
			}
			return transport
		}
	}

	service, err := NewServiceFromConfig(t.Context(), cfg, opts)
	require.NoError(t, err)
	go service.Run(t.Context())
	return &serviceEnv{service: service, sink: sink, store: storePath}
}

func staticReporter(report types.SourceReport) adapters.ReporterFunc {
	return func(context.Context, string) (types.SourceReport, error) {
		return report, nil
	}
}

func TestRefreshPopulatesView(t *testing.T) {
	env := newTestService(t, testConfig(), map[string]adapters.ReporterFunc{
		"lockscreen": staticReporter(okReport("Screen lock on")),
		"encryption": staticReporter(okReport("Encrypted")),
	})

	outcome, err := env.service.Refresh(t.Context(), RefreshRequest{
		Reason: types.RefreshReasonPageOpen,
		User:   "0",
	})
	require.NoError(t, err)
	require.Len(t, outcome.Sources, 2)
	require.NoError(t, env.service.Await(t.Context(), outcome.SessionID))

	view := env.service.View("0", nil)
	assert.Equal(t, types.OverallSeverityOK, view.Status.Severity)
	assert.Equal(t, types.RefreshStatusNone, view.Status.RefreshStatus)
	assert.Equal(t, []types.RefreshResult{types.RefreshResultSuccess}, env.sink.results())
}

func TestRefreshWhileDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	env := newTestService(t, cfg, nil)

	_, err := env.service.Refresh(t.Context(), RefreshRequest{
		Reason: types.RefreshReasonPageOpen,
		User:   "0",
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.False(t, env.service.Enabled())
}

func TestRefreshRejectsUnknownReason(t *testing.T) {
	env := newTestService(t, testConfig(), nil)
	_, err := env.service.Refresh(t.Context(), RefreshRequest{Reason: "vibes", User: "0"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestStaleResponseDropped(t *testing.T) {
	env := newTestService(t, testConfig(), nil)

	outcome, err := env.service.Refresh(t.Context(), RefreshRequest{
		Reason: types.RefreshReasonPageOpen,
		User:   "0",
	})
	require.NoError(t, err)

	stale := okReport("From a dead session")
	fresh := okReport("Screen lock on")
	env.service.Inbox() <- types.SourceResponse{
		SessionID: "long-gone",
		Key:       types.KeyOf("lockscreen", "0"),
		Report:    &stale,
	}
	env.service.Inbox() <- types.SourceResponse{
		SessionID: outcome.SessionID,
		Key:       types.KeyOf("lockscreen", "0"),
		Report:    &fresh,
	}
	env.service.Inbox() <- types.SourceResponse{
		SessionID: outcome.SessionID,
		Key:       types.KeyOf("encryption", "0"),
		Report:    &fresh,
	}
	require.NoError(t, env.service.Await(t.Context(), outcome.SessionID))

	view := env.service.View("0", nil)
	for _, item := range view.Entries {
		if item.Group == nil {
			continue
		}
		for _, entry := range item.Group.Entries {
			assert.NotEqual(t, "From a dead session", entry.Title)
		}
	}
}

func TestTimeoutMarksRemainingSourcesErrored(t *testing.T) {
	env := newTestService(t, testConfig(), nil)

	outcome, err := env.service.Refresh(t.Context(), RefreshRequest{
		Reason: types.RefreshReasonPageOpen,
		User:   "0",
	})
	require.NoError(t, err)

	stale := env.service.Timeout(outcome.SessionID)
	require.Len(t, stale, 2)
	assert.Empty(t, env.service.Timeout(outcome.SessionID))

	view := env.service.View("0", nil)
	require.Len(t, view.Entries, 1)
	group := view.Entries[0].Group
	require.NotNil(t, group)
	assert.Equal(t, "Couldn’t refresh 2 settings", group.Summary)
	assert.Equal(t, []types.RefreshResult{types.RefreshResultTimeout}, env.sink.results())
}

func TestDismissPersistsAcrossRestart(t *testing.T) {
	env := newTestService(t, testConfig(), nil)
	key := types.KeyOf("lockscreen", "0")
	report := okReport("Screen lock on")
	report.Issues = []types.Issue{{
		ID: "weak-pin", Severity: types.SeverityRecommendation,
		Category: types.IssueCategoryDevice, Title: "Weak PIN",
	}}
	require.NoError(t, env.service.SetSourceReport(key, report))

	issue := types.IssueKey{SourceID: "lockscreen", IssueID: "weak-pin", UserID: "0"}
	require.NoError(t, env.service.Dismiss(issue))
	assert.Empty(t, env.service.View("0", nil).Issues)

	// A new service over the same store still hides the issue.
	restarted, err := NewServiceFromConfig(t.Context(), testConfig(), Options{
		Telemetry:  &telemetrySink{},
		Dismissals: adapters.NewDismissalFileAdapter(env.store),
	})
	require.NoError(t, err)
	require.NoError(t, restarted.SetSourceReport(key, report))
	assert.Empty(t, restarted.View("0", nil).Issues)
}

func TestDismissUnknownIssue(t *testing.T) {
	env := newTestService(t, testConfig(), nil)
	err := env.service.Dismiss(types.IssueKey{SourceID: "lockscreen", IssueID: "ghost", UserID: "0"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestSetSourceReportValidation(t *testing.T) {
	env := newTestService(t, testConfig(), nil)

	err := env.service.SetSourceReport(types.KeyOf("ghost", "0"), okReport("X"))
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	err = env.service.SetSourceReport(types.KeyOf("about", "0"), okReport("X"))
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	// Encryption caps out at recommendation.
	report := okReport("Encrypted")
	report.Status.Severity = types.SeverityCritical
	err = env.service.SetSourceReport(types.KeyOf("encryption", "0"), report)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	report = okReport("Encrypted")
	report.Issues = []types.Issue{{
		ID: "bad", Severity: types.SeverityCritical,
		Category: types.IssueCategoryGeneral, Title: "Bad",
	}}
	err = env.service.SetSourceReport(types.KeyOf("encryption", "0"), report)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestReportSourceErrorKeepsLastReport(t *testing.T) {
	env := newTestService(t, testConfig(), nil)
	key := types.KeyOf("lockscreen", "0")
	require.NoError(t, env.service.SetSourceReport(key, okReport("Screen lock on")))
	require.NoError(t, env.service.ReportSourceError(key))

	view := env.service.View("0", nil)
	var found bool
	for _, item := range view.Entries {
		if item.Group == nil {
			continue
		}
		for _, entry := range item.Group.Entries {
			if entry.Key == key {
				found = true
				assert.Equal(t, "Screen lock on", entry.Title)
			}
		}
	}
	assert.True(t, found)
}

func TestSnapshotCounts(t *testing.T) {
	env := newTestService(t, testConfig(), nil)
	key := types.KeyOf("lockscreen", "0")
	report := okReport("Screen lock on")
	report.Issues = []types.Issue{
		{ID: "one", Severity: types.SeverityRecommendation, Category: types.IssueCategoryDevice, Title: "One"},
		{ID: "two", Severity: types.SeverityRecommendation, Category: types.IssueCategoryDevice, Title: "Two"},
	}
	require.NoError(t, env.service.SetSourceReport(key, report))
	require.NoError(t, env.service.SetSourceReport(types.KeyOf("encryption", "0"), okReport("Encrypted")))
	require.NoError(t, env.service.Dismiss(types.IssueKey{SourceID: "lockscreen", IssueID: "one", UserID: "0"}))

	result := env.service.Snapshot("0", nil)

	assert.Equal(t, types.OverallSeverityRecommendation, result.Overall.OverallSeverity)
	assert.Equal(t, 1, result.Overall.OpenIssueCount)
	assert.Equal(t, 1, result.Overall.DismissedIssueCount)

	// Only lockscreen allows logging.
	require.Len(t, result.Sources, 1)
	source := result.Sources[0]
	assert.Equal(t, "lockscreen", source.SourceID)
	assert.Equal(t, 1, source.OpenIssueCount)
	assert.Equal(t, 1, source.DismissedIssueCount)
	require.NotNil(t, source.MaxSeverity)
	assert.Equal(t, types.SeverityRecommendation, *source.MaxSeverity)
}

func TestClearDataResetsEverything(t *testing.T) {
	env := newTestService(t, testConfig(), nil)
	key := types.KeyOf("lockscreen", "0")
	report := okReport("Screen lock on")
	report.Issues = []types.Issue{{
		ID: "one", Severity: types.SeverityRecommendation,
		Category: types.IssueCategoryDevice, Title: "One",
	}}
	require.NoError(t, env.service.SetSourceReport(key, report))
	require.NoError(t, env.service.Dismiss(types.IssueKey{SourceID: "lockscreen", IssueID: "one", UserID: "0"}))

	require.NoError(t, env.service.ClearData())

	view := env.service.View("0", nil)
	assert.Equal(t, types.OverallSeverityUnknown, view.Status.Severity)
	assert.Empty(t, view.Issues)

	loaded, err := adapters.NewDismissalFileAdapter(env.store).Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	// Previously dismissed issues come back once re-reported.
	require.NoError(t, env.service.SetSourceReport(key, report))
	assert.Len(t, env.service.View("0", nil).Issues, 1)
}

func TestClearForUserLeavesOthersAlone(t *testing.T) {
	cfg := testConfig()
	cfg.Groups[0].Sources[0].ManagedProfiles = true
	env := newTestService(t, cfg, nil)

	primary := types.KeyOf("lockscreen", "0")
	work := types.KeyOf("lockscreen", "10")
	require.NoError(t, env.service.SetSourceReport(primary, okReport("Screen lock on")))
	require.NoError(t, env.service.SetSourceReport(work, okReport("Work screen lock on")))

	require.NoError(t, env.service.ClearForUser("10"))

	managed := []types.ManagedProfile{{UserID: "10", Running: true}}
	view := env.service.View("0", managed)
	for _, item := range view.Entries {
		if item.Group == nil {
			continue
		}
		for _, entry := range item.Group.Entries {
			if entry.Key == work {
				// Back to the config-derived default entry.
				assert.Equal(t, "Screen lock (work)", entry.Title)
			}
			if entry.Key == primary {
				assert.Equal(t, "Screen lock on", entry.Title)
			}
		}
	}
}

package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"safetyhub/internal/adapters"
	"safetyhub/internal/core"
	"safetyhub/internal/policies"
	"safetyhub/internal/ports"
	"safetyhub/internal/types"
)

// Service owns the whole engine aggregate. Every mutation and every view
// read goes through one mutex: transport callbacks, timeouts and user
// removal may arrive concurrently, but the engine itself has no internal
// concurrency. Nothing under the mutex calls back out into the service.
type Service struct {
	mu sync.Mutex

	registry   core.Registry
	store      *core.ReportStore
	cache      *core.DismissalCache
	tracker    *core.RefreshTracker
	aggregator core.Aggregator

	enabled    bool
	dismissals ports.DismissalStorePort
	telemetry  ports.TelemetryPort
	transport  ports.TransportPort

	clock     func() time.Time
	timeout   time.Duration
	responses chan types.SourceResponse
}

type Options struct {
	RegistryPath       string
	DismissalStorePath string
	RefreshTimeout     time.Duration

	// Overrides for the default adapters; nil selects the default.
	Registry   ports.RegistryPort
	Dismissals ports.DismissalStorePort
	Telemetry  ports.TelemetryPort
	// Transport is constructed with the service's inbox so responses flow
	// back through the single-consumer loop.
	Transport func(inbox chan<- types.SourceResponse) ports.TransportPort

	Clock func() time.Time
}

func NewService(ctx context.Context, opts Options) (*Service, error) {
	registryPort := opts.Registry
	if registryPort == nil {
		registryPort = adapters.NewRegistryFileAdapter()
	}
	cfg, err := registryPort.LoadRegistry(opts.RegistryPath)
	if err != nil {
		return nil, err
	}
	return NewServiceFromConfig(ctx, cfg, opts)
}

// NewServiceFromConfig wires the engine from an already-loaded registry
// config. Compilation errors are fatal here, never during aggregation.
func NewServiceFromConfig(ctx context.Context, cfg types.RegistryConfig, opts Options) (*Service, error) {
	registry, err := core.CompileRegistry(ctx, cfg)
	if err != nil {
		return nil, err
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	telemetry := opts.Telemetry
	if telemetry == nil {
		telemetry = adapters.NewTelemetryLogAdapter()
	}
	dismissals := opts.Dismissals
	if dismissals == nil {
		dismissals = adapters.NewDismissalFileAdapter(opts.DismissalStorePath)
	}

	store := core.NewReportStore()
	cache := core.NewDismissalCache(clock)
	tracking := policies.NewTrackingPolicy(cfg.UntrackedSources)
	tracker := core.NewRefreshTracker(telemetry, tracking, clock)

	persisted, err := dismissals.Load()
	if err != nil {
		return nil, err
	}
	cache.Restore(persisted)

	service := &Service{
		registry:   registry,
		store:      store,
		cache:      cache,
		tracker:    tracker,
		aggregator: core.NewAggregator(registry, store, cache, tracker),
		enabled:    cfg.Enabled,
		dismissals: dismissals,
		telemetry:  telemetry,
		clock:      clock,
		timeout:    opts.RefreshTimeout,
		responses:  make(chan types.SourceResponse, 64),
	}
	if opts.Transport != nil {
		service.transport = opts.Transport(service.responses)
	}
	return service, nil
}

func (s *Service) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Inbox is where transports deliver source responses.
func (s *Service) Inbox() chan<- types.SourceResponse {
	return s.responses
}

// Run consumes the response inbox until the context is cancelled. It is
// the single consumer: responses execute one at a time under the critical
// section regardless of how many goroutines the transport uses.
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case response := <-s.responses:
			s.onSourceResponse(response)
		}
	}
}

func (s *Service) onSourceResponse(response types.SourceResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionID, open := s.tracker.CurrentSessionID()
	if !open || sessionID != response.SessionID {
		log.Warn().
			Str("session", response.SessionID).
			Str("source", response.Key.SourceID).
			Msg("dropping response for a cleared or superseded session")
		return
	}
	if response.Failed {
		s.store.SetSourceError(response.Key)
	} else if response.Report != nil {
		s.store.Set(response.Key, *response.Report)
		s.cache.SyncReported(response.Key, response.Report.IssueKeys(response.Key))
	}
	s.tracker.ReportComplete(sessionID, response.Key, !response.Failed)
}

package adapters

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"safetyhub/internal/types"
)

// TelemetryFileAdapter appends telemetry events as JSON lines. Emission
// never fails the caller: write errors are logged and dropped, telemetry
// is best-effort by contract.
type TelemetryFileAdapter struct {
	mu    *sync.Mutex
	path  string
	clock func() time.Time
}

func NewTelemetryFileAdapter(path string) *TelemetryFileAdapter {
	return &TelemetryFileAdapter{
		mu:    &sync.Mutex{},
		path:  path,
		clock: time.Now,
	}
}

type telemetryLine struct {
	At    time.Time `json:"at"`
	Event string    `json:"event"`
	Data  any       `json:"data"`
}

func (a *TelemetryFileAdapter) SourceRefresh(event types.SourceRefreshEvent) {
	a.append("source_refresh", event)
}

func (a *TelemetryFileAdapter) WholeRefresh(event types.WholeRefreshEvent) {
	a.append("whole_refresh", event)
}

func (a *TelemetryFileAdapter) Snapshot(event types.SnapshotEvent) {
	a.append("snapshot", event)
}

func (a *TelemetryFileAdapter) SourceState(event types.SourceStateEvent) {
	a.append("source_state", event)
}

func (a *TelemetryFileAdapter) append(name string, data any) {
	line, err := json.Marshal(telemetryLine{At: a.clock(), Event: name, Data: data})
	if err != nil {
		log.Warn().Err(err).Str("event", name).Msg("failed to encode telemetry event")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	file, err := os.OpenFile(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Warn().Err(err).Msg("failed to open telemetry file")
		return
	}
	defer file.Close()
	if _, err := file.Write(append(line, '\n')); err != nil {
		log.Warn().Err(err).Msg("failed to write telemetry event")
	}
}

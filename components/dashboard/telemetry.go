package dashboard

import (
	"context"
	"maps"
	"slices"

	"github.com/charmbracelet/log"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// MultiTelemetry fans events out to every non-nil sink.
type MultiTelemetry []Telemetry

// Record forwards the event to each sink in order.
func (m MultiTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	for _, t := range m {
		if t != nil {
			t.Record(ctx, event, payload)
		}
	}
}

// LogTelemetry writes dashboard events to a structured logger at debug level.
type LogTelemetry struct {
	logger *log.Logger
}

// NewLogTelemetry wraps logger. A nil logger uses the package default.
func NewLogTelemetry(logger *log.Logger) *LogTelemetry {
	if logger == nil {
		logger = log.Default()
	}
	return &LogTelemetry{logger: logger}
}

// Record logs the event and its payload as key/value pairs.
func (t *LogTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	keyvals := make([]any, 0, len(payload)*2)
	for _, key := range slices.Sorted(maps.Keys(payload)) {
		keyvals = append(keyvals, key, payload[key])
	}
	t.logger.Debug(event, keyvals...)
}

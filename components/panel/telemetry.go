package panel

import (
	"context"

	"github.com/rs/zerolog"
)

// Telemetry records panel events for observability.
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

// ZerologTelemetry emits telemetry events through a zerolog logger.
type ZerologTelemetry struct {
	Logger zerolog.Logger
}

// Record logs the event with its payload as structured fields.
func (t ZerologTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	t.Logger.Info().Fields(payload).Msg(event)
}

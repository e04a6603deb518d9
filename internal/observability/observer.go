// Package observability gives the scheduling engine a lightweight phase
// observer, the same injected-observer shape the teacher uses for its own
// service use cases, generalized from "use case" to "engine phase" (pass
// 1..4, conflict detection, emergency insert, reschedule).
package observability

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// PhaseEvent captures lightweight execution telemetry for one engine phase.
type PhaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// Observer receives phase execution events.
type Observer interface {
	ObservePhase(ctx context.Context, event PhaseEvent)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) ObservePhase(context.Context, PhaseEvent) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes phase events to w as structured text. Returns a
// NoopObserver if w is nil.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) ObservePhase(ctx context.Context, event PhaseEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"phase", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "engine_phase", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "engine_phase", attrs...)
}

// OrNoop returns the first non-nil observer in observers, or a NoopObserver
// if none was given — the same fallback the teacher's
// useCaseObserverOrNoop applies to its own variadic observer parameters.
func OrNoop(observers []Observer) Observer {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopObserver{}
}

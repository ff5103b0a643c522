package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/ravencrawl/raven/internal/observability"
)

// Dispatcher fans a notification out to every registered Sink whose
// MinSeverity is at or below the notification's severity. One sink's
// delivery failure is logged and does not prevent the others from being
// attempted, mirroring the reference notifier's write_error_log_if_err
// behavior.
type Dispatcher struct {
	sinks []Sink
}

// NewDispatcher builds a Dispatcher over the given sinks.
func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

func (d *Dispatcher) dispatch(ctx context.Context, severity Severity, label, message string) {
	for _, sink := range d.sinks {
		if severity < sink.MinSeverity() {
			continue
		}
		if err := sink.Notify(ctx, severity, label, message); err != nil {
			observability.CLILogger.Error("failed to notify", zap.String("sink", sink.Name()), zap.Error(err))
		}
	}
}

// Info sends an informational notification, e.g. the final run summary.
func (d *Dispatcher) Info(ctx context.Context, label, message string) {
	d.dispatch(ctx, SeverityInfo, label, message)
}

// Warn sends a warning notification, e.g. a partial run failure.
func (d *Dispatcher) Warn(ctx context.Context, label, message string) {
	d.dispatch(ctx, SeverityWarn, label, message)
}

// Error sends an error notification, e.g. a fatal startup failure.
func (d *Dispatcher) Error(ctx context.Context, label, message string) {
	d.dispatch(ctx, SeverityError, label, message)
}

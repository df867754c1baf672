package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/fixture-sync/internal/config"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
)

type stopFunc func(context.Context) error

// Telemetry owns the process-wide exporters started from config.
type Telemetry struct {
	names []string
	stops []stopFunc
}

// Start brings up tracing then profiling. Disabled exporters are skipped.
func Start(cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{}

	stop, err := startTracing(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("start tracing: %w", err)
	}
	t.add("uptrace", stop)

	stop, err = startProfiling(cfg, logger)
	if err != nil {
		_ = t.Shutdown(context.Background())
		return nil, fmt.Errorf("start profiling: %w", err)
	}
	t.add("pyroscope", stop)

	return t, nil
}

func (t *Telemetry) add(name string, stop stopFunc) {
	if stop == nil {
		return
	}
	t.names = append(t.names, name)
	t.stops = append(t.stops, stop)
}

// Enabled lists the exporters that were started.
func (t *Telemetry) Enabled() []string {
	return append([]string(nil), t.names...)
}

// Shutdown stops exporters in reverse start order and flushes pending data.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(t.stops) - 1; i >= 0; i-- {
		if err := t.stops[i](ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", t.names[i], err))
		}
	}
	t.names, t.stops = nil, nil
	return errors.Join(errs...)
}

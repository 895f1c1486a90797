package telemetry

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/foxseedlab/lucidia/internal/config"
	"github.com/samber/do/v2"
	"go.opentelemetry.io/otel/metric/noop"
)

const serviceName = "lucidia"

// Telemetry bundles the metrics handler with the analysis recorder. Handler is
// nil when telemetry is disabled.
type Telemetry struct {
	Handler  http.Handler
	Recorder *Recorder
	shutdown func(context.Context) error
}

func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t.shutdown == nil {
		return nil
	}
	return t.shutdown(ctx)
}

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Telemetry, error) {
		c := do.MustInvoke[*config.Config](i)
		if !c.TelemetryEnabled {
			slog.Info("telemetry disabled")
			rec, err := NewRecorder(noop.NewMeterProvider())
			if err != nil {
				return nil, err
			}
			return &Telemetry{Recorder: rec}, nil
		}
		shutdown, handler, err := Setup(context.Background(), serviceName, c.Env)
		if err != nil {
			return nil, err
		}
		rec, err := NewRecorder(nil)
		if err != nil {
			_ = shutdown(context.Background())
			return nil, err
		}
		return &Telemetry{Handler: handler, Recorder: rec, shutdown: shutdown}, nil
	})
}

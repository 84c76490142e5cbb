package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"ticketbooker/lib/configutil"

	"go.opentelemetry.io/otel"
)

// Telemetry holds the providers installed by Setup.
type Telemetry struct {
	shutdown []func(context.Context) error
}

func (t Telemetry) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	var errlist []error
	for _, fn := range t.shutdown {
		err := fn(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	return errors.Join(errlist...)
}

// searches up the filesystem from the cwd to find a file
// called telemetry.json5, once found it will then use it
// as a config to setup telemetry. if there is no such file
// the global no-op providers are left in place.
func SetupFromEnv(ctx context.Context, serviceName string) (Telemetry, error) {
	cfg, err := configutil.ReadRecursively[config]("telemetry.json5")
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no telemetry.json5 found, traces will not be exported")
		return Telemetry{}, nil
	}
	if err != nil {
		return Telemetry{}, err
	}
	return Setup(ctx, serviceName, cfg)
}

func Setup(ctx context.Context, serviceName string, cfg config) (Telemetry, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := newResource(serviceName)
	if err != nil {
		return Telemetry{}, err
	}

	var out Telemetry

	if cfg.Otlp.Traces.endpoint() != "" {
		tracerProvider, err := newTraceProvider(ctx, r, cfg)
		if err != nil {
			return Telemetry{}, err
		}
		otel.SetTracerProvider(tracerProvider)
		out.shutdown = append(out.shutdown, tracerProvider.Shutdown)
	}

	if cfg.Otlp.Metrics.endpoint() != "" {
		meterProvider, err := newMetricProvider(ctx, r, cfg)
		if err != nil {
			return out, err
		}
		otel.SetMeterProvider(meterProvider)
		out.shutdown = append(out.shutdown, meterProvider.Shutdown)
	}

	return out, nil
}

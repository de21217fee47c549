package infra

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/plantops/opsboard/internal/app/appconfig"
	"github.com/plantops/opsboard/internal/pkg/bininfo"
	"github.com/plantops/opsboard/internal/pkg/observability"
)

// Tracing installs the global tracer provider. When tracing is disabled the returned
// provider is the no-op global one.
func Tracing(conf *appconfig.Config, lc fx.Lifecycle) (trace.TracerProvider, error) {
	if !conf.TracingEnabled {
		return otel.GetTracerProvider(), nil
	}

	opts := []tracesdk.TracerProviderOption{
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(conf.TracingSampleRate))),
		tracesdk.WithResource(resource.NewSchemaless(
			attribute.String("service.name", observability.ServiceName),
			attribute.String("service.version", bininfo.Version),
			attribute.Bool("dev", conf.DevMode),
		)),
	}

	for _, name := range conf.TracingExporters {
		switch name {
		case "otlpgrpc":
			exporter, err := otlptracegrpc.New(context.Background())
			if err != nil {
				return nil, errors.Wrap(err, "infra: tracing: failed to create otlp grpc exporter")
			}
			opts = append(opts, tracesdk.WithBatcher(exporter))
		case "stdout":
			exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
			if err != nil {
				return nil, errors.Wrap(err, "infra: tracing: failed to create stdout exporter")
			}
			opts = append(opts, tracesdk.WithSyncer(exporter))
		default:
			log.Warn().
				Str("evt.name", "infra.tracing.unknown_exporter").
				Str("exporter", name).
				Msg("ignoring unknown tracing exporter")
		}
	}

	tp := tracesdk.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})

	return tp, nil
}

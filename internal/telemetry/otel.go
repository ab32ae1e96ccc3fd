package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	name = "github.com/hyperledger-labs/yui-relay-core"

	// Some of the environment variables that the Go SDK doesn't support
	propagatorsKey     = "OTEL_PROPAGATORS"
	defaultPropagators = "tracecontext,baggage"

	// Environment variables for exporter selection
	// cf. https://opentelemetry.io/docs/specs/otel/configuration/sdk-environment-variables/#exporter-selection
	tracesExporterKey  = "OTEL_TRACES_EXPORTER"
	metricsExporterKey = "OTEL_METRICS_EXPORTER"
	logsExporterKey    = "OTEL_LOGS_EXPORTER"
	defaultExporter    = "otlp"

	// Environment variables for the Prometheus exporter
	// cf. https://opentelemetry.io/docs/specs/otel/configuration/sdk-environment-variables/#prometheus-exporter
	prometheusHostKey     = "OTEL_EXPORTER_PROMETHEUS_HOST"
	prometheusPortKey     = "OTEL_EXPORTER_PROMETHEUS_PORT"
	defaultPrometheusHost = "localhost"
	defaultPrometheusPort = 9464

	// Custom environment variables similar to the OTLP exporter
	consoleTracesWriterKey  = "OTEL_EXPORTER_CONSOLE_TRACES_WRITER"
	consoleLogsWriterKey    = "OTEL_EXPORTER_CONSOLE_LOGS_WRITER"
	consoleMetricsWriterKey = "OTEL_EXPORTER_CONSOLE_METRICS_WRITER"
	defaultConsoleWriter    = "stdout"
)

// SetupOTelSDK bootstraps the OpenTelemetry pipeline from the OTEL_* environment variables.
// If it does not return an error, make sure to call shutdown for proper cleanup.
//
// An unknown exporter or propagator name is reported as an error instead of being ignored.
func SetupOTelSDK(ctx context.Context) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error

	shutdown = func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}

	fail := func(inErr error) (func(context.Context) error, error) {
		return nil, errors.Join(inErr, shutdown(ctx))
	}

	prop, err := newPropagator()
	if err != nil {
		return fail(err)
	}
	otel.SetTextMapPropagator(prop)

	tracerProvider, err := newTracerProvider(ctx)
	if err != nil {
		return fail(err)
	}
	shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
	otel.SetTracerProvider(tracerProvider)

	meterProvider, err := newMeterProvider(ctx)
	if err != nil {
		return fail(err)
	}
	shutdownFuncs = append(shutdownFuncs, meterProvider.Shutdown)
	otel.SetMeterProvider(meterProvider)

	loggerProvider, err := newLoggerProvider(ctx)
	if err != nil {
		return fail(err)
	}
	shutdownFuncs = append(shutdownFuncs, loggerProvider.Shutdown)
	global.SetLoggerProvider(loggerProvider)

	return shutdown, nil
}

func getEnv(envName, defaultValue string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return defaultValue
}

func getWriter(envName string) (io.Writer, error) {
	v := getEnv(envName, defaultConsoleWriter)
	switch v {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return nil, fmt.Errorf("unknown writer: %q from %s=%q", v, envName, os.Getenv(envName))
	}
}

// forEachExporter calls `fn` for each exporter listed in the environment variable `envName`.
// "none" is skipped.
func forEachExporter(envName string, fn func(exporter string) error) error {
	for _, exporter := range strings.Split(getEnv(envName, defaultExporter), ",") {
		exporter = strings.TrimSpace(exporter)
		if exporter == "none" {
			continue
		}
		if err := fn(exporter); err != nil {
			return err
		}
	}
	return nil
}

func unsupportedExporter(exporter, envName string) error {
	return fmt.Errorf("unsupported exporter: %q from %s=%q", exporter, envName, os.Getenv(envName))
}

func newPropagator() (propagation.TextMapPropagator, error) {
	var propagators []propagation.TextMapPropagator
	for _, propagator := range strings.Split(getEnv(propagatorsKey, defaultPropagators), ",") {
		switch strings.TrimSpace(propagator) {
		case "tracecontext":
			propagators = append(propagators, propagation.TraceContext{})
		case "baggage":
			propagators = append(propagators, propagation.Baggage{})
		default:
			return nil, fmt.Errorf("unsupported propagator: %q from %s=%q", propagator, propagatorsKey, os.Getenv(propagatorsKey))
		}
	}

	return propagation.NewCompositeTextMapPropagator(propagators...), nil
}

// buildExporters creates the exporters listed in the environment variable `envName` with `factories`
func buildExporters[E any](ctx context.Context, envName string, factories map[string]func(context.Context) (E, error)) ([]E, error) {
	var exps []E
	err := forEachExporter(envName, func(exporter string) error {
		newExporter, ok := factories[exporter]
		if !ok {
			return unsupportedExporter(exporter, envName)
		}
		exp, err := newExporter(ctx)
		if err != nil {
			return fmt.Errorf("failed to create the %s exporter: %w", exporter, err)
		}
		exps = append(exps, exp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return exps, nil
}

var spanExporters = map[string]func(context.Context) (sdktrace.SpanExporter, error){
	"otlp": func(ctx context.Context) (sdktrace.SpanExporter, error) {
		return otlptracegrpc.New(ctx)
	},
	"console": func(context.Context) (sdktrace.SpanExporter, error) {
		writer, err := getWriter(consoleTracesWriterKey)
		if err != nil {
			return nil, err
		}
		return stdouttrace.New(stdouttrace.WithWriter(writer))
	},
}

var metricReaders = map[string]func(context.Context) (sdkmetric.Reader, error){
	"otlp": func(ctx context.Context) (sdkmetric.Reader, error) {
		exp, err := otlpmetricgrpc.New(ctx)
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil
	},
	"console": func(context.Context) (sdkmetric.Reader, error) {
		writer, err := getWriter(consoleMetricsWriterKey)
		if err != nil {
			return nil, err
		}
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(writer))
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil
	},
	"prometheus": func(context.Context) (sdkmetric.Reader, error) {
		addr := fmt.Sprintf("%s:%s", getEnv(prometheusHostKey, defaultPrometheusHost), getEnv(prometheusPortKey, fmt.Sprint(defaultPrometheusPort)))
		return NewPrometheusExporter(addr)
	},
}

var logExporters = map[string]func(context.Context) (sdklog.Exporter, error){
	"otlp": func(ctx context.Context) (sdklog.Exporter, error) {
		return otlploggrpc.New(ctx)
	},
	"console": func(context.Context) (sdklog.Exporter, error) {
		writer, err := getWriter(consoleLogsWriterKey)
		if err != nil {
			return nil, err
		}
		return stdoutlog.New(stdoutlog.WithWriter(writer))
	},
}

func newTracerProvider(ctx context.Context) (*sdktrace.TracerProvider, error) {
	exps, err := buildExporters(ctx, tracesExporterKey, spanExporters)
	if err != nil {
		return nil, err
	}
	opts := make([]sdktrace.TracerProviderOption, 0, len(exps))
	for _, exp := range exps {
		opts = append(opts, sdktrace.WithBatcher(exp))
	}
	return sdktrace.NewTracerProvider(opts...), nil
}

func newMeterProvider(ctx context.Context) (*sdkmetric.MeterProvider, error) {
	readers, err := buildExporters(ctx, metricsExporterKey, metricReaders)
	if err != nil {
		return nil, err
	}
	opts := make([]sdkmetric.Option, 0, len(readers))
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}
	return sdkmetric.NewMeterProvider(opts...), nil
}

func newLoggerProvider(ctx context.Context) (*sdklog.LoggerProvider, error) {
	exps, err := buildExporters(ctx, logsExporterKey, logExporters)
	if err != nil {
		return nil, err
	}
	opts := make([]sdklog.LoggerProviderOption, 0, len(exps))
	for _, exp := range exps {
		opts = append(opts, sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)))
	}
	return sdklog.NewLoggerProvider(opts...), nil
}

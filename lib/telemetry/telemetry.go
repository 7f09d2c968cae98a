package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type Config struct {
	Otlp OtlpConfig `json:"otlp"`
}

// Telemetry holds the providers installed by Setup, either provider may be
// nil when its exporter is not configured.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
}

func (t Telemetry) Shutdown(ctx context.Context) error {
	errlist := []error{}
	if t.TracerProvider != nil {
		err := t.TracerProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	if t.MeterProvider != nil {
		err := t.MeterProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	return errors.Join(errlist...)
}

// Tracer and Meter go through the global providers, so instruments created
// at package init pick up whatever Setup installs later.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Setup installs OTLP exporters for whichever signals have an endpoint,
// signals without one stay on the global no-op providers.
func Setup(ctx context.Context, serviceName, environment string, config Config) (Telemetry, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	var tel Telemetry
	if !config.Otlp.Traces.Enabled() && !config.Otlp.Metrics.Enabled() {
		return tel, nil
	}

	r, err := newResource(serviceName, environment)
	if err != nil {
		return tel, err
	}

	if config.Otlp.Traces.Enabled() {
		tel.TracerProvider, err = newTraceProvider(ctx, r, config.Otlp.Traces)
		if err != nil {
			return tel, err
		}
		otel.SetTracerProvider(tel.TracerProvider)
	}

	if config.Otlp.Metrics.Enabled() {
		tel.MeterProvider, err = newMetricProvider(ctx, r, config.Otlp.Metrics)
		if err != nil {
			return tel, err
		}
		otel.SetMeterProvider(tel.MeterProvider)
	}

	return tel, nil
}

var setupTestEnvironments sync.Map

// sets up logging in a testing environment, ensuring that it isn't
// set up more than once per service name. exporters are never started
// in tests.
func SetupForTesting(serviceName string) func() {
	_, setupAlready := setupTestEnvironments.LoadOrStore(serviceName, struct{}{})
	if setupAlready {
		return func() {}
	}
	InitSlog(EnvironmentTest, true)
	return func() {
		setupTestEnvironments.Delete(serviceName)
	}
}

package mirror

import (
	"context"
	"time"
	"xlinkfetcher/lib/restyutil"
	"xlinkfetcher/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var tracer = telemetry.Tracer("xlinkfetcher.services.mirror")
var meter = telemetry.Meter("xlinkfetcher.services.mirror")

var fetchCount, _ = meter.Int64Counter(
	"mirror.fetch.count",
	metric.WithDescription("Mirror fetches by outcome."),
)
var fetchDuration, _ = meter.Float64Histogram(
	"mirror.fetch.duration_ms",
	metric.WithDescription("Time spent fetching and extracting a post."),
	metric.WithUnit("ms"),
)

const (
	outcomeOk        = "ok"
	outcomeNoContent = "no_content"
	outcomeInvalid   = "invalid"
	outcomeFailed    = "failed"
)

func recordFetch(ctx context.Context, outcome string, start time.Time) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	fetchCount.Add(ctx, 1, attrs)
	fetchDuration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
}

var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput makes fetchers created afterwards dump their
// exchanges into `out` when debug logging is on.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}

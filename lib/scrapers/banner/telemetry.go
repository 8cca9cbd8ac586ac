package banner

import (
	"bannerreg/lib/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var tracer = telemetry.Tracer("bannerreg.lib.scrapers.banner")

var meter = otel.Meter("bannerreg.lib.scrapers.banner")
var submitDuration, _ = meter.Int64Histogram(
	"banner_submit_duration_ms",
	metric.WithDescription("time from fetching the registration page to reading the result"),
	metric.WithUnit("ms"),
)
var waitRemaining, _ = meter.Int64Gauge(
	"banner_wait_remaining_seconds",
	metric.WithUnit("s"),
)

package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/surplus"
)

// Metrics holds the OpenTelemetry instruments used by the client.
type Metrics struct {
	// Session metrics
	SessionTransitionsTotal metric.Int64Counter
	SessionExpiryChecks     metric.Int64Counter

	// API metrics
	APIRequestsTotal       metric.Int64Counter
	APIRequestErrorsTotal  metric.Int64Counter
	APIRequestDuration     metric.Float64Histogram
	APIUnauthorizedTotal   metric.Int64Counter
	CatalogItemsLoaded     metric.Int64Counter
	CatalogRecomputesTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary.
// Instruments are bound to the global meter provider at first use, so Init
// must run before the first call for metrics to be exported.
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.SessionTransitionsTotal, _ = meter.Int64Counter(
		"surplus.session.transitions.total",
		metric.WithDescription("Total number of session state transitions"),
		metric.WithUnit("{transition}"),
	)

	m.SessionExpiryChecks, _ = meter.Int64Counter(
		"surplus.session.expiry_checks.total",
		metric.WithDescription("Total number of background token expiry checks"),
		metric.WithUnit("{check}"),
	)

	m.APIRequestsTotal, _ = meter.Int64Counter(
		"surplus.api.requests.total",
		metric.WithDescription("Total number of API requests"),
		metric.WithUnit("{request}"),
	)

	m.APIRequestErrorsTotal, _ = meter.Int64Counter(
		"surplus.api.requests.errors.total",
		metric.WithDescription("Total number of API requests that failed or returned non-2xx"),
		metric.WithUnit("{error}"),
	)

	m.APIRequestDuration, _ = meter.Float64Histogram(
		"surplus.api.requests.duration",
		metric.WithDescription("Duration of API requests"),
		metric.WithUnit("ms"),
	)

	m.APIUnauthorizedTotal, _ = meter.Int64Counter(
		"surplus.api.unauthorized.total",
		metric.WithDescription("Total number of authenticated requests rejected with 401"),
		metric.WithUnit("{response}"),
	)

	m.CatalogItemsLoaded, _ = meter.Int64Counter(
		"surplus.catalog.items.loaded.total",
		metric.WithDescription("Total number of catalog items loaded from the API"),
		metric.WithUnit("{item}"),
	)

	m.CatalogRecomputesTotal, _ = meter.Int64Counter(
		"surplus.catalog.recomputes.total",
		metric.WithDescription("Total number of visible list recomputations"),
		metric.WithUnit("{recompute}"),
	)

	return m
}

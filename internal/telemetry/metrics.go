package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/mihotel"
)

// Metrics holds the instruments recorded by the dashboard and entity views.
type Metrics struct {
	// Collection refreshes
	RefreshTotal       metric.Int64Counter
	RefreshErrorsTotal metric.Int64Counter
	RefreshCoalesced   metric.Int64Counter
	RefreshDuration    metric.Float64Histogram
	RefreshInflight    metric.Int64UpDownCounter
	RecordsLoaded      metric.Int64Histogram

	// Session lifecycle
	SessionExpiredTotal metric.Int64Counter

	// Entity actions
	ActionsTotal       metric.Int64Counter
	ActionsDeclined    metric.Int64Counter
	ActionsErrorsTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.RefreshTotal, _ = meter.Int64Counter(
		"mihotel.dashboard.refresh.total",
		metric.WithDescription("Total number of collection refreshes started"),
		metric.WithUnit("{refresh}"),
	)

	m.RefreshErrorsTotal, _ = meter.Int64Counter(
		"mihotel.dashboard.refresh.errors.total",
		metric.WithDescription("Total number of collection refreshes that failed"),
		metric.WithUnit("{error}"),
	)

	m.RefreshCoalesced, _ = meter.Int64Counter(
		"mihotel.dashboard.refresh.coalesced.total",
		metric.WithDescription("Refresh requests that joined one already in flight"),
		metric.WithUnit("{refresh}"),
	)

	m.RefreshDuration, _ = meter.Float64Histogram(
		"mihotel.dashboard.refresh.duration",
		metric.WithDescription("Duration of collection refreshes"),
		metric.WithUnit("ms"),
	)

	m.RefreshInflight, _ = meter.Int64UpDownCounter(
		"mihotel.dashboard.refresh.inflight",
		metric.WithDescription("Number of collection refreshes in flight"),
		metric.WithUnit("{refresh}"),
	)

	m.RecordsLoaded, _ = meter.Int64Histogram(
		"mihotel.dashboard.records",
		metric.WithDescription("Number of records returned per refresh"),
		metric.WithUnit("{record}"),
	)

	m.SessionExpiredTotal, _ = meter.Int64Counter(
		"mihotel.session.expired.total",
		metric.WithDescription("Sessions cleared after the API rejected the token"),
		metric.WithUnit("{session}"),
	)

	m.ActionsTotal, _ = meter.Int64Counter(
		"mihotel.actions.total",
		metric.WithDescription("Entity actions sent to the API"),
		metric.WithUnit("{action}"),
	)

	m.ActionsDeclined, _ = meter.Int64Counter(
		"mihotel.actions.declined.total",
		metric.WithDescription("Entity actions declined at confirmation"),
		metric.WithUnit("{action}"),
	)

	m.ActionsErrorsTotal, _ = meter.Int64Counter(
		"mihotel.actions.errors.total",
		metric.WithDescription("Entity actions rejected by the API"),
		metric.WithUnit("{error}"),
	)

	return m
}

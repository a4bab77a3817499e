// Package telemetry provides OpenTelemetry integration for the application.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fieldproof/fieldproof/pkg/logger"
)

const (
	// MeterName is the default meter name for the application
	MeterName = "github.com/fieldproof/fieldproof"
)

// Metrics holds all application metrics
type Metrics struct {
	// Export metrics
	ExportsTotal   metric.Int64Counter
	ExportDuration metric.Float64Histogram
	ExportPages    metric.Int64Histogram
	ActiveExports  metric.Int64UpDownCounter

	// Render metrics
	RenderDuration metric.Float64Histogram
	EncodeFallback metric.Int64Counter

	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
}

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// GetMetrics returns the global metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		var err error
		globalMetrics, err = initMetrics()
		if err != nil {
			logger.Error("Failed to initialize metrics", zap.Error(err))
			// Return empty metrics to avoid nil pointer
			globalMetrics = &Metrics{}
		}
	})
	return globalMetrics
}

// initMetrics initializes all application metrics
func initMetrics() (*Metrics, error) {
	meter := otel.Meter(MeterName)
	m := &Metrics{}

	var err error

	m.ExportsTotal, err = meter.Int64Counter(
		"fieldproof_exports_total",
		metric.WithDescription("Total number of document exports"),
		metric.WithUnit("{export}"),
	)
	if err != nil {
		return nil, err
	}

	m.ExportDuration, err = meter.Float64Histogram(
		"fieldproof_export_duration_seconds",
		metric.WithDescription("Duration of document exports in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, err
	}

	m.ExportPages, err = meter.Int64Histogram(
		"fieldproof_export_pages",
		metric.WithDescription("Number of pages per exported document"),
		metric.WithUnit("{page}"),
		metric.WithExplicitBucketBoundaries(1, 2, 4, 8, 16, 32, 64),
	)
	if err != nil {
		return nil, err
	}

	m.ActiveExports, err = meter.Int64UpDownCounter(
		"fieldproof_active_exports",
		metric.WithDescription("Number of currently running exports"),
		metric.WithUnit("{export}"),
	)
	if err != nil {
		return nil, err
	}

	m.RenderDuration, err = meter.Float64Histogram(
		"fieldproof_render_duration_seconds",
		metric.WithDescription("Duration of headless-browser page rendering in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2, 5, 10, 30, 60, 120),
	)
	if err != nil {
		return nil, err
	}

	m.EncodeFallback, err = meter.Int64Counter(
		"fieldproof_encode_fallback_total",
		metric.WithDescription("Number of page images that fell back to lossy encoding"),
		metric.WithUnit("{page}"),
	)
	if err != nil {
		return nil, err
	}

	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"fieldproof_http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"fieldproof_http_request_duration_seconds",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10, 60),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordExport records a completed export with its mode, outcome and duration.
// Safe to call when metrics failed to initialize.
func (m *Metrics) RecordExport(ctx context.Context, mode, status string, duration time.Duration, pages int) {
	attrs := metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("status", status),
	)
	if m.ExportsTotal != nil {
		m.ExportsTotal.Add(ctx, 1, attrs)
	}
	if m.ExportDuration != nil {
		m.ExportDuration.Record(ctx, duration.Seconds(), attrs)
	}
	if m.ExportPages != nil && pages > 0 {
		m.ExportPages.Record(ctx, int64(pages), attrs)
	}
}

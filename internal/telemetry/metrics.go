// Package telemetry records site metrics with OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const meterName = "kroneus.site"

// Config selects the metric exporter. An empty OTLPEndpoint keeps metrics in-process only.
type Config struct {
	ServiceVersion string
	OTLPEndpoint   string
	Insecure       bool
	Interval       time.Duration
}

// Metrics holds the site's instruments. A nil *Metrics records nothing.
type Metrics struct {
	provider     *sdkmetric.MeterProvider
	submissions  metric.Int64Counter
	plays        metric.Int64Counter
	chats        metric.Int64Counter
	httpDuration metric.Float64Histogram
}

// New builds a MeterProvider that exports over OTLP/gRPC when an endpoint is set.
func New(ctx context.Context, cfg Config) (*Metrics, error) {
	if cfg.OTLPEndpoint == "" {
		return newMetrics(cfg, nil)
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return newMetrics(cfg, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
}

// NewWithReader builds Metrics on a caller-supplied reader.
func NewWithReader(reader sdkmetric.Reader) (*Metrics, error) {
	return newMetrics(Config{}, reader)
}

func newMetrics(cfg Config, reader sdkmetric.Reader) (*Metrics, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", "kroneus"),
		attribute.String("service.version", cfg.ServiceVersion),
	)
	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if reader != nil {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	m := &Metrics{provider: sdkmetric.NewMeterProvider(opts...)}
	meter := m.provider.Meter(meterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))

	var err error
	if m.submissions, err = meter.Int64Counter("kroneus.contact.submissions",
		metric.WithDescription("Contact submissions by result"),
		metric.WithUnit("{submission}"),
	); err != nil {
		return nil, err
	}
	if m.plays, err = meter.Int64Counter("kroneus.demo.plays",
		metric.WithDescription("Demo runs started, by scenario and outcome"),
		metric.WithUnit("{run}"),
	); err != nil {
		return nil, err
	}
	if m.chats, err = meter.Int64Counter("kroneus.chat.replies",
		metric.WithDescription("Chat replies by matched rule"),
		metric.WithUnit("{reply}"),
	); err != nil {
		return nil, err
	}
	if m.httpDuration, err = meter.Float64Histogram("kroneus.http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// SubmissionRecorded counts a contact submission. result is "sent", "invalid" or "failed".
func (m *Metrics) SubmissionRecorded(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.submissions.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// PlayRecorded counts a demo run.
func (m *Metrics) PlayRecorded(ctx context.Context, scenarioID, outcome string) {
	if m == nil {
		return
	}
	m.plays.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scenario", scenarioID),
		attribute.String("outcome", outcome),
	))
}

// ChatAnswered counts a chat reply. rule is empty for the fallback.
func (m *Metrics) ChatAnswered(ctx context.Context, rule string) {
	if m == nil {
		return
	}
	if rule == "" {
		rule = "fallback"
	}
	m.chats.Add(ctx, 1, metric.WithAttributes(attribute.String("rule", rule)))
}

// RequestServed records an HTTP request's duration.
func (m *Metrics) RequestServed(ctx context.Context, route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("http.route", route),
		attribute.String("http.method", method),
		attribute.Int("http.status_code", status),
	))
}

// Shutdown flushes and stops the provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}

package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumFor(t *testing.T, m metricdata.Metrics, key, value string) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			return dp.Value
		}
	}
	return 0
}

func TestCountersRecord(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	m, err := NewWithReader(reader)
	require.NoError(t, err)
	defer m.Shutdown(context.Background())

	ctx := context.Background()
	m.SubmissionRecorded(ctx, "sent")
	m.SubmissionRecorded(ctx, "sent")
	m.SubmissionRecorded(ctx, "invalid")
	m.PlayRecorded(ctx, "banking-wire-fraud", "blocked")
	m.ChatAnswered(ctx, "")
	m.ChatAnswered(ctx, "pricing")

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumFor(t, got["kroneus.contact.submissions"], "result", "sent"))
	assert.Equal(t, int64(1), sumFor(t, got["kroneus.contact.submissions"], "result", "invalid"))
	assert.Equal(t, int64(1), sumFor(t, got["kroneus.demo.plays"], "outcome", "blocked"))
	assert.Equal(t, int64(1), sumFor(t, got["kroneus.chat.replies"], "rule", "fallback"))
	assert.Equal(t, int64(1), sumFor(t, got["kroneus.chat.replies"], "rule", "pricing"))
}

func TestRequestServedHistogram(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	m, err := NewWithReader(reader)
	require.NoError(t, err)
	defer m.Shutdown(context.Background())

	m.RequestServed(context.Background(), "/api/contact", "POST", 200, 20*time.Millisecond)

	got := collect(t, reader)
	hist, ok := got["kroneus.http.request.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.SubmissionRecorded(ctx, "sent")
	m.PlayRecorded(ctx, "x", "allowed")
	m.ChatAnswered(ctx, "x")
	m.RequestServed(ctx, "/", "GET", 200, time.Millisecond)
	assert.NoError(t, m.Shutdown(ctx))
}

func TestNewWithoutEndpoint(t *testing.T) {
	m, err := New(context.Background(), Config{ServiceVersion: "test"})
	require.NoError(t, err)
	m.SubmissionRecorded(context.Background(), "sent")
	assert.NoError(t, m.Shutdown(context.Background()))
}

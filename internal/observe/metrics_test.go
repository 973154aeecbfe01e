package observe

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *metric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func TestMetricsRecord(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	metrics, err := NewMetrics(provider)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordRequest(ctx, "tools/call", "success")
	metrics.RecordRequest(ctx, "tools/call", "success")
	metrics.RecordToolCall(ctx, "SHOCK", "success")
	metrics.RecordClamp(ctx, "SHOCK")
	metrics.RecordDownstream(ctx, 0.25, "success")

	rm := collect(t, reader)

	requests, ok := findMetric(rm, "mcp.rpc.requests")
	if !ok {
		t.Fatal("mcp.rpc.requests not collected")
	}
	sum := requests.Data.(metricdata.Sum[int64])
	if len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 2 {
		t.Errorf("rpc requests datapoints = %+v", sum.DataPoints)
	}

	clamps, ok := findMetric(rm, "mcp.safety.clamps")
	if !ok {
		t.Fatal("mcp.safety.clamps not collected")
	}
	clampSum := clamps.Data.(metricdata.Sum[int64])
	if len(clampSum.DataPoints) != 1 || clampSum.DataPoints[0].Value != 1 {
		t.Errorf("clamp datapoints = %+v", clampSum.DataPoints)
	}

	duration, ok := findMetric(rm, "openshock.request.duration")
	if !ok {
		t.Fatal("openshock.request.duration not collected")
	}
	hist := duration.Data.(metricdata.Histogram[float64])
	if len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 1 {
		t.Errorf("duration datapoints = %+v", hist.DataPoints)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var metrics *Metrics
	ctx := context.Background()

	// Must not panic.
	metrics.RecordRequest(ctx, "initialize", "success")
	metrics.RecordToolCall(ctx, "SHOCK", "invalid_argument")
	metrics.RecordClamp(ctx, "SHOCK")
	metrics.RecordDownstream(ctx, 0.1, "error")
}

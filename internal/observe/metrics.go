// Package observe provides the gateway's metrics: OpenTelemetry instruments
// exported through a Prometheus bridge so they can be scraped via /metrics.
package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope for all gateway metrics.
const meterName = "github.com/Kyrnepi/mcp-openshock-server"

// Metrics holds the metric instruments. All methods are safe on a nil
// receiver so callers can run without metrics wired.
type Metrics struct {
	// RPCRequests counts inbound JSON-RPC requests by method and status.
	RPCRequests metric.Int64Counter

	// ToolCalls counts tools/call invocations by tool and status.
	ToolCalls metric.Int64Counter

	// IntensityClamps counts SHOCK intensities reduced by the safety clamp.
	IntensityClamps metric.Int64Counter

	// DownstreamDuration tracks OpenShock API round-trip latency in seconds.
	DownstreamDuration metric.Float64Histogram
}

// NewMetrics creates the instruments on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)
	m := &Metrics{}
	var err error

	if m.RPCRequests, err = meter.Int64Counter("mcp.rpc.requests",
		metric.WithDescription("Inbound JSON-RPC requests."),
	); err != nil {
		return nil, err
	}
	if m.ToolCalls, err = meter.Int64Counter("mcp.tool.calls",
		metric.WithDescription("tools/call invocations."),
	); err != nil {
		return nil, err
	}
	if m.IntensityClamps, err = meter.Int64Counter("mcp.safety.clamps",
		metric.WithDescription("SHOCK intensities reduced by the safety clamp."),
	); err != nil {
		return nil, err
	}
	if m.DownstreamDuration, err = meter.Float64Histogram("openshock.request.duration",
		metric.WithDescription("OpenShock API round-trip latency."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordRequest counts one dispatched JSON-RPC request.
func (m *Metrics) RecordRequest(ctx context.Context, method, status string) {
	if m == nil {
		return
	}
	m.RPCRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("status", status),
	))
}

// RecordToolCall counts one tool invocation.
func (m *Metrics) RecordToolCall(ctx context.Context, tool, status string) {
	if m == nil {
		return
	}
	m.ToolCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("status", status),
	))
}

// RecordClamp counts one safety-clamp reduction.
func (m *Metrics) RecordClamp(ctx context.Context, tool string) {
	if m == nil {
		return
	}
	m.IntensityClamps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", tool),
	))
}

// RecordDownstream records one downstream round trip.
func (m *Metrics) RecordDownstream(ctx context.Context, seconds float64, status string) {
	if m == nil {
		return
	}
	m.DownstreamDuration.Record(ctx, seconds, metric.WithAttributes(
		attribute.String("status", status),
	))
}

package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Kyrnepi/mcp-openshock-server/internal/audit"
	"github.com/Kyrnepi/mcp-openshock-server/internal/catalog"
	"github.com/Kyrnepi/mcp-openshock-server/internal/command"
	"github.com/Kyrnepi/mcp-openshock-server/internal/observe"
	"github.com/Kyrnepi/mcp-openshock-server/internal/telemetry"
)

// ProtocolVersion is the MCP protocol revision announced on initialize.
const ProtocolVersion = "2024-11-05"

// Methods routed by the dispatcher.
const (
	MethodInitialize = "initialize"
	MethodToolsList  = "tools/list"
	MethodToolsCall  = "tools/call"
)

// Dispatcher routes inbound envelopes to the three MCP handlers and shapes
// every outcome, failures included, into a response envelope. It holds no
// mutable state; all working data is local to one call.
type Dispatcher struct {
	catalog    *catalog.Catalog
	translator *command.Translator
	client     ControlClient

	serverName    string
	serverVersion string

	auditLogger AuditLogger
	hub         *telemetry.Hub
	metrics     *observe.Metrics
}

// NewDispatcher creates a dispatcher for the given catalog, translator and
// downstream client.
func NewDispatcher(cat *catalog.Catalog, translator *command.Translator, client ControlClient, serverName, serverVersion string) *Dispatcher {
	return &Dispatcher{
		catalog:       cat,
		translator:    translator,
		client:        client,
		serverName:    serverName,
		serverVersion: serverVersion,
	}
}

// SetAuditLogger wires the audit sink. Optional.
func (d *Dispatcher) SetAuditLogger(logger AuditLogger) {
	d.auditLogger = logger
}

// SetTelemetryHub wires the telemetry hub. Optional.
func (d *Dispatcher) SetTelemetryHub(hub *telemetry.Hub) {
	d.hub = hub
}

// SetMetrics wires the metric instruments. Optional.
func (d *Dispatcher) SetMetrics(metrics *observe.Metrics) {
	d.metrics = metrics
}

// Dispatch routes one request and always returns a well-formed response
// envelope; no error crosses this boundary unformatted.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) *Response {
	var (
		result any
		err    error
	)

	switch req.Method {
	case MethodInitialize:
		result, err = d.handleInitialize()
	case MethodToolsList:
		result, err = d.handleToolsList()
	case MethodToolsCall:
		result, err = d.handleToolsCall(ctx, req.Params)
	default:
		d.metrics.RecordRequest(ctx, req.Method, "method_not_found")
		return NewError(req.ID, CodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}

	if err != nil {
		d.metrics.RecordRequest(ctx, req.Method, "error")
		return NewError(req.ID, CodeInternalError, fmt.Sprintf("Internal error: %s", err.Error()))
	}

	d.metrics.RecordRequest(ctx, req.Method, "ok")
	return NewResult(req.ID, result)
}

// handleInitialize returns the fixed capability descriptor.
func (d *Dispatcher) handleInitialize() (any, error) {
	return map[string]any{
		"protocolVersion": ProtocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{
				"listChanged": false,
			},
		},
		"serverInfo": map[string]any{
			"name":    d.serverName,
			"version": d.serverVersion,
		},
	}, nil
}

// handleToolsList returns the tool catalog.
func (d *Dispatcher) handleToolsList() (any, error) {
	return map[string]any{"tools": d.catalog.List()}, nil
}

// callParams are the tools/call parameters.
type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// callArguments distinguishes an absent shockers array from an empty one.
type callArguments struct {
	Shockers json.RawMessage `json:"shockers"`
}

// textContent is one text block of a tool result.
type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// callResult is the tools/call result payload.
type callResult struct {
	Content []textContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// handleToolsCall validates, translates and forwards one tool invocation.
// Validation failures return an error (shaped into -32603 by Dispatch);
// downstream failures return a result with isError set, because at the
// protocol level the tool call itself succeeded.
func (d *Dispatcher) handleToolsCall(ctx context.Context, params json.RawMessage) (any, error) {
	start := time.Now()

	var call callParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &call); err != nil {
			return nil, &command.ValidationError{Message: "Malformed tools/call parameters"}
		}
	}

	tool, err := command.ParseTool(call.Name)
	if err != nil {
		d.recordFailure(ctx, call.Name, 0, audit.OutcomeInvalidArgument, start)
		return nil, err
	}

	targets, err := parseTargets(call.Arguments)
	if err != nil {
		d.recordFailure(ctx, string(tool), 0, audit.OutcomeInvalidArgument, start)
		return nil, err
	}

	controls, adjustments, err := d.translator.Translate(tool, targets)
	if err != nil {
		d.recordFailure(ctx, string(tool), len(targets), audit.OutcomeInvalidArgument, start)
		return nil, err
	}

	for _, adj := range adjustments {
		d.metrics.RecordClamp(ctx, string(tool))
		d.publish(telemetry.Event{
			Type: telemetry.EventIntensityAdjusted,
			Data: map[string]any{
				"tool":      string(tool),
				"shockerId": adj.TargetID,
				"requested": adj.Requested,
				"applied":   adj.Applied,
			},
		})
	}

	downstreamStart := time.Now()
	raw, err := d.client.Control(ctx, controls, "MCP-"+string(tool))
	downstreamLatency := time.Since(downstreamStart)

	if err != nil {
		d.metrics.RecordDownstream(ctx, downstreamLatency.Seconds(), "error")
		d.recordFailure(ctx, string(tool), len(controls), audit.OutcomeDownstreamError, start)
		d.publish(telemetry.Event{
			Type: telemetry.EventDownstreamFault,
			Data: map[string]any{
				"tool":  string(tool),
				"error": err.Error(),
			},
		})
		return callResult{
			Content: []textContent{{
				Type: "text",
				Text: fmt.Sprintf("Error executing %s command: %s", tool, err.Error()),
			}},
			IsError: true,
		}, nil
	}

	d.metrics.RecordDownstream(ctx, downstreamLatency.Seconds(), "ok")
	d.metrics.RecordToolCall(ctx, string(tool), "ok")
	d.audit(ctx, string(tool), len(controls), audit.OutcomeSuccess, time.Since(start))
	d.publish(telemetry.Event{
		Type: telemetry.EventToolInvoked,
		Data: map[string]any{
			"tool":     string(tool),
			"targets":  len(controls),
			"adjusted": len(adjustments),
		},
	})

	return callResult{
		Content: []textContent{{
			Type: "text",
			Text: formatCallText(tool, len(controls), adjustments, raw),
		}},
	}, nil
}

// parseTargets decodes the shockers array out of the tools/call arguments.
func parseTargets(arguments json.RawMessage) ([]command.Target, error) {
	var args callArguments
	if len(arguments) > 0 {
		if err := json.Unmarshal(arguments, &args); err != nil {
			return nil, &command.ValidationError{Message: "Malformed tools/call arguments"}
		}
	}
	if len(args.Shockers) == 0 || string(args.Shockers) == "null" {
		return nil, &command.ValidationError{Message: "Missing 'shockers' parameter"}
	}

	var targets []command.Target
	if err := json.Unmarshal(args.Shockers, &targets); err != nil {
		return nil, &command.ValidationError{Message: "'shockers' must be an array"}
	}
	return targets, nil
}

// formatCallText builds the human-readable tool result: the success sentence,
// an itemized security-adjustment block when the clamp fired, and the raw
// downstream response for transparency.
func formatCallText(tool command.Tool, targetCount int, adjustments []command.Adjustment, raw map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Successfully executed %s command on %d shocker(s).", tool, targetCount)

	if len(adjustments) > 0 {
		b.WriteString("\n\nSecurity adjustments applied:")
		for _, adj := range adjustments {
			fmt.Fprintf(&b, "\n- shocker %q: intensity reduced from %d to %d",
				adj.TargetID, adj.Requested, adj.Applied)
		}
	}

	body, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		body = []byte("{}")
	}
	fmt.Fprintf(&b, "\n\nResponse: %s", body)
	return b.String()
}

// recordFailure audits and counts one failed tools/call.
func (d *Dispatcher) recordFailure(ctx context.Context, tool string, targets int, outcome string, start time.Time) {
	d.metrics.RecordToolCall(ctx, tool, strings.ToLower(outcome))
	d.audit(ctx, tool, targets, outcome, time.Since(start))
}

func (d *Dispatcher) audit(ctx context.Context, tool string, targets int, outcome string, latency time.Duration) {
	if d.auditLogger != nil {
		d.auditLogger.LogToolCall(ctx, tool, targets, outcome, latency)
	}
}

func (d *Dispatcher) publish(event telemetry.Event) {
	if d.hub != nil {
		d.hub.Publish(event)
	}
}

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Kyrnepi/mcp-openshock-server/internal/command"
	"github.com/Kyrnepi/mcp-openshock-server/internal/rpc"
)

// handleMCP handles POST /mcp. The envelope is decoded strictly; whatever the
// dispatcher returns is emitted as exactly one SSE data frame with HTTP 200.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST method is allowed")
		return
	}

	var req rpc.Request
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeFrame(w, rpc.NewError(nil, rpc.CodeParseError, "Parse error"))
		return
	}

	resp := s.dispatcher.Dispatch(r.Context(), &req)
	writeFrame(w, resp)
}

// writeFrame emits one response envelope as a single server-sent event frame.
func writeFrame(w http.ResponseWriter, resp *rpc.Response) {
	body, err := json.Marshal(resp)
	if err != nil {
		// Marshal of our own envelope types cannot realistically fail; keep
		// the contract of always answering 200 with a frame anyway.
		body = []byte(`{"jsonrpc":"2.0","error":{"code":-32603,"message":"Internal error"},"id":null}`)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("data: "))
	_, _ = w.Write(body)
	_, _ = w.Write([]byte("\n\n"))
}

// handleRoot handles GET / with server information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET method is allowed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":            s.serverName,
		"version":         s.serverVersion,
		"protocol":        "MCP",
		"tools":           command.ToolNames(),
		"auth_configured": true,
		"endpoints": map[string]string{
			"mcp":     "POST /mcp",
			"health":  "GET /health",
			"info":    "GET /",
			"events":  "GET /events",
			"metrics": "GET /metrics",
		},
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET method is allowed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"server":    s.serverName,
		"version":   s.serverVersion,
		"uptimeSec": time.Since(s.startTime).Seconds(),
		"subsystems": map[string]bool{
			"telemetry": s.telemetryHub != nil,
			"metrics":   s.metricsHandler != nil,
		},
	})
}

// handleEvents handles GET /events (telemetry SSE stream).
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET method is allowed")
		return
	}
	if s.telemetryHub == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Telemetry service not available")
		return
	}

	if err := s.telemetryHub.Subscribe(w, r); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "INTERNAL", "Failed to subscribe to telemetry stream")
	}
}

// writeJSON writes a JSON body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeJSONError writes a non-envelope JSON error body.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

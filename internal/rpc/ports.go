package rpc

import (
	"context"
	"time"

	"github.com/Kyrnepi/mcp-openshock-server/internal/audit"
	"github.com/Kyrnepi/mcp-openshock-server/internal/command"
	"github.com/Kyrnepi/mcp-openshock-server/internal/openshock"
)

// Compile-time assertions that the concrete collaborators satisfy the ports.
var (
	_ ControlClient = (*openshock.Client)(nil)
	_ AuditLogger   = (*audit.Logger)(nil)
)

// ControlClient is the minimal downstream contract the dispatcher needs: one
// blocking round trip per tools/call, no retries.
type ControlClient interface {
	Control(ctx context.Context, controls []command.Control, customName string) (map[string]any, error)
}

// AuditLogger records the outcome of each tools/call.
type AuditLogger interface {
	LogToolCall(ctx context.Context, tool string, targets int, outcome string, latency time.Duration)
}

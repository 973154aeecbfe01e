// Package audit writes an append-only JSONL record of every tools/call, one
// line per invocation with its outcome and latency. Files are rotated by
// lumberjack so the log cannot grow without bound.
package audit

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Kyrnepi/mcp-openshock-server/internal/auth"
)

// Entry is one audit record.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	User      string    `json:"user"`
	Tool      string    `json:"tool"`
	Targets   int       `json:"targets"`
	Outcome   string    `json:"outcome"`
	LatencyMs int64     `json:"latencyMs"`
}

// Outcome codes recorded per invocation.
const (
	OutcomeSuccess         = "SUCCESS"
	OutcomeInvalidArgument = "INVALID_ARGUMENT"
	OutcomeDownstreamError = "DOWNSTREAM_ERROR"
)

// Logger writes audit entries. Safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	out io.WriteCloser
}

// NewLogger creates an audit logger writing to path with rotation.
func NewLogger(path string, maxSizeMB, maxBackups, maxAgeDays int) *Logger {
	return &Logger{
		out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		},
	}
}

// NewLoggerWithWriter creates an audit logger writing to an arbitrary sink.
func NewLoggerWithWriter(out io.WriteCloser) *Logger {
	return &Logger{out: out}
}

// LogToolCall records one tools/call invocation. The user is taken from the
// authenticated principal in ctx when present. Write failures are swallowed:
// auditing must never fail the request.
func (l *Logger) LogToolCall(ctx context.Context, tool string, targets int, outcome string, latency time.Duration) {
	user := ""
	if principal := auth.PrincipalFromContext(ctx); principal != nil {
		user = principal.Subject
	}

	entry := Entry{
		Timestamp: time.Now().UTC(),
		User:      user,
		Tool:      tool,
		Targets:   targets,
		Outcome:   outcome,
		LatencyMs: latency.Milliseconds(),
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(line)
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Close()
}

package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// nopCloser wraps a buffer as the logger sink.
type nopCloser struct {
	bytes.Buffer
}

func (n *nopCloser) Close() error { return nil }

func TestLogToolCallWritesJSONL(t *testing.T) {
	sink := &nopCloser{}
	logger := NewLoggerWithWriter(sink)

	logger.LogToolCall(context.Background(), "SHOCK", 2, OutcomeSuccess, 42*time.Millisecond)
	logger.LogToolCall(context.Background(), "STOP", 1, OutcomeDownstreamError, 7*time.Millisecond)

	lines := strings.Split(strings.TrimRight(sink.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var first Entry
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 1 is not JSON: %v", err)
	}
	if first.Tool != "SHOCK" || first.Targets != 2 || first.Outcome != OutcomeSuccess || first.LatencyMs != 42 {
		t.Errorf("entry = %+v", first)
	}
	if first.Timestamp.IsZero() {
		t.Error("timestamp is zero")
	}
	if first.User != "" {
		t.Errorf("user = %q, want empty without a principal", first.User)
	}

	var second Entry
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("line 2 is not JSON: %v", err)
	}
	if second.Tool != "STOP" || second.Outcome != OutcomeDownstreamError {
		t.Errorf("entry = %+v", second)
	}
}

func TestLogToolCallRecordsOutcomes(t *testing.T) {
	for _, outcome := range []string{OutcomeSuccess, OutcomeInvalidArgument, OutcomeDownstreamError} {
		sink := &nopCloser{}
		logger := NewLoggerWithWriter(sink)
		logger.LogToolCall(context.Background(), "VIBRATE", 1, outcome, time.Millisecond)

		var entry Entry
		if err := json.Unmarshal(bytes.TrimRight(sink.Bytes(), "\n"), &entry); err != nil {
			t.Fatalf("entry is not JSON: %v", err)
		}
		if entry.Outcome != outcome {
			t.Errorf("outcome = %q, want %q", entry.Outcome, outcome)
		}
	}
}

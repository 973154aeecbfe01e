// Package telemetry implements an in-process event hub exposed over SSE.
// The dispatcher publishes one event per notable action (tool invoked,
// intensity adjusted, downstream fault); subscribers on GET /events receive
// them as server-sent event frames until they disconnect.
package telemetry

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Event is one telemetry event.
type Event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Event types published by the dispatcher.
const (
	EventToolInvoked       = "toolInvoked"
	EventIntensityAdjusted = "intensityAdjusted"
	EventDownstreamFault   = "downstreamFault"
)

// subscriberBuffer bounds the per-subscriber queue; events for a slow
// subscriber are dropped rather than blocking the publisher.
const subscriberBuffer = 16

// Hub fans events out to SSE subscribers. Safe for concurrent use.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Publish delivers the event to all current subscribers without blocking.
func (h *Hub) Publish(event Event) {
	if event.Data == nil {
		event.Data = map[string]any{}
	}
	if _, ok := event.Data["ts"]; !ok {
		event.Data["ts"] = time.Now().UTC().Format(time.RFC3339)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub <- event:
		default:
			// Slow subscriber, drop.
		}
	}
}

// Subscribe streams events to the client as SSE frames until the request
// context is done or the hub stops.
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming not supported by response writer")
	}

	sub := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return fmt.Errorf("telemetry hub is stopped")
	}
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-sub:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
			flusher.Flush()
		}
	}
}

// Stop disconnects all subscribers and rejects new ones.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		close(sub)
		delete(h.subs, sub)
	}
}

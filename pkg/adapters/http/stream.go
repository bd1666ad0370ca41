package http

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// globalStream is the topic for definition-wide notices.
const globalStream = ""

const (
	eventDiff   = "diff"
	eventReload = "reload"
)

// streamEvent is one Server-Sent Event frame.
type streamEvent struct {
	Kind string
	Data string
}

// subscriberBuffer bounds how far a slow client may lag before frames are dropped.
const subscriberBuffer = 16

// StreamManager fans session events out to SSE subscribers.
// Topics are session IDs; globalStream carries reload notices.
type StreamManager struct {
	mu     sync.RWMutex
	topics map[string]map[chan streamEvent]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		topics: make(map[string]map[chan streamEvent]struct{}),
	}
}

// Subscribe registers a listener on topic. The returned func unregisters it and
// closes the channel; it is safe to call more than once.
func (sm *StreamManager) Subscribe(topic string) (<-chan streamEvent, func()) {
	ch := make(chan streamEvent, subscriberBuffer)

	sm.mu.Lock()
	subs, ok := sm.topics[topic]
	if !ok {
		subs = make(map[chan streamEvent]struct{})
		sm.topics[topic] = subs
	}
	subs[ch] = struct{}{}
	sm.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.topics[topic], ch)
			if len(sm.topics[topic]) == 0 {
				delete(sm.topics, topic)
			}
			close(ch)
		})
	}
}

// Publish delivers ev to every subscriber of topic without blocking.
func (sm *StreamManager) Publish(topic string, ev streamEvent) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.topics[topic] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers reports how many listeners topic has.
func (sm *StreamManager) Subscribers(topic string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.topics[topic])
}

// SubscribeEvents handles GET /events and GET /sessions/{id}/events.
// Session streams carry "diff" events with a JSON snapshot diff; the global stream
// carries "reload" events naming the reloaded definition.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	var topic string
	if raw := chi.URLParam(r, "id"); raw != "" {
		id, err := sanitizeSessionID(raw)
		if err != nil {
			s.writeError(w, "events", err)
			return
		}
		topic = id
	}
	events, unsubscribe := s.Streams.Subscribe(topic)
	defer unsubscribe()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")

	s.logger.Debug("event stream opened", "session_id", topic)
	writeFrame(w, streamEvent{Kind: "ping", Data: "connected"})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("event stream closed", "session_id", topic)
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			writeFrame(w, ev)
			flusher.Flush()
		}
	}
}

func writeFrame(w http.ResponseWriter, ev streamEvent) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, ev.Data)
}

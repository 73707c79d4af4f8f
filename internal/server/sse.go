package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// replayBufferSize is the number of recent events kept for Last-Event-ID
	// replay.
	replayBufferSize = 256

	// streamKeepalive is how often a comment line is written to idle streams.
	streamKeepalive = 15 * time.Second
)

// streamEvent is one lint event as delivered to stream clients.
type streamEvent struct {
	ID    uint64
	Topic string
	Data  []byte // JSON payload
}

// eventHub fans lint events out to connected stream clients and keeps a
// bounded replay buffer.
type eventHub struct {
	mu      sync.Mutex
	clients map[*streamClient]struct{}
	lastID  uint64
	replay  []streamEvent // oldest first, at most replayBufferSize
}

type streamClient struct {
	topics []string // NATS-style patterns; empty matches all
	ch     chan streamEvent
}

func newEventHub() *eventHub {
	return &eventHub{clients: make(map[*streamClient]struct{})}
}

// broadcast assigns the next sequence number to the event and delivers it.
// Slow clients drop events rather than stall the lint request.
func (h *eventHub) broadcast(topic string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastID++
	evt := streamEvent{ID: h.lastID, Topic: topic, Data: payload}
	if len(h.replay) == replayBufferSize {
		copy(h.replay, h.replay[1:])
		h.replay = h.replay[:replayBufferSize-1]
	}
	h.replay = append(h.replay, evt)

	for c := range h.clients {
		if !c.matches(topic) {
			continue
		}
		select {
		case c.ch <- evt:
		default:
		}
	}
}

// subscribe registers a client. Events with ID > lastSeen still in the
// replay buffer are returned so the caller can send them first.
func (h *eventHub) subscribe(topics []string, lastSeen uint64) (*streamClient, []streamEvent) {
	c := &streamClient{topics: topics, ch: make(chan streamEvent, 64)}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}

	var backlog []streamEvent
	if lastSeen > 0 {
		for _, evt := range h.replay {
			if evt.ID > lastSeen && c.matches(evt.Topic) {
				backlog = append(backlog, evt)
			}
		}
	}
	return c, backlog
}

func (h *eventHub) unsubscribe(c *streamClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (c *streamClient) matches(topic string) bool {
	if len(c.topics) == 0 {
		return true
	}
	for _, pattern := range c.topics {
		if matchTopicPattern(pattern, topic) {
			return true
		}
	}
	return false
}

// matchTopicPattern matches a dot-separated topic against a pattern.
// "*" matches one segment and a trailing ">" matches one or more.
func matchTopicPattern(pattern, topic string) bool {
	if pattern == topic {
		return true
	}

	patParts := strings.Split(pattern, ".")
	topParts := strings.Split(topic, ".")

	for i, pp := range patParts {
		if pp == ">" {
			return i < len(topParts)
		}
		if i >= len(topParts) {
			return false
		}
		if pp != "*" && pp != topParts[i] {
			return false
		}
	}
	return len(patParts) == len(topParts)
}

// handleEventStream handles GET /v1/events/stream (server-sent events).
// The topics query parameter takes a comma-separated list of patterns.
func (s *LintServer) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	var topics []string
	for _, t := range strings.Split(r.URL.Query().Get("topics"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	lastSeen, _ := strconv.ParseUint(r.Header.Get("Last-Event-ID"), 10, 64)

	client, backlog := s.hub.subscribe(topics, lastSeen)
	defer s.hub.unsubscribe(client)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	for _, evt := range backlog {
		writeStreamEvent(w, evt)
	}
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-client.ch:
			writeStreamEvent(w, evt)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

func writeStreamEvent(w http.ResponseWriter, evt streamEvent) {
	fmt.Fprintf(w, "id:%d\nevent:%s\ndata:%s\n\n", evt.ID, evt.Topic, evt.Data)
}

// broadcastEvent fans a published event out to stream clients.
func (s *LintServer) broadcastEvent(topic string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("failed to marshal event for stream", "topic", topic, "error", err)
		return
	}
	s.hub.broadcast(topic, payload)
}

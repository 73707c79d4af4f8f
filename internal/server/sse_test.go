package server

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/flowlint/internal/events"
)

func receive(t *testing.T, c *streamClient) streamEvent {
	t.Helper()
	select {
	case evt := <-c.ch:
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return streamEvent{}
}

func requireNoEvent(t *testing.T, c *streamClient) {
	t.Helper()
	select {
	case evt := <-c.ch:
		t.Fatalf("unexpected event: topic=%q", evt.Topic)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventHub_BroadcastAndReceive(t *testing.T) {
	hub := newEventHub()
	client, backlog := hub.subscribe(nil, 0)
	defer hub.unsubscribe(client)
	if len(backlog) != 0 {
		t.Fatalf("fresh subscription should have no backlog, got %d", len(backlog))
	}

	hub.broadcast(events.TopicLintCompleted, []byte(`{"report_id":"lr-1"}`))

	evt := receive(t, client)
	if evt.Topic != events.TopicLintCompleted || string(evt.Data) != `{"report_id":"lr-1"}` || evt.ID != 1 {
		t.Fatalf("unexpected event %+v", evt)
	}
}

func TestEventHub_TopicFiltering(t *testing.T) {
	hub := newEventHub()
	client, _ := hub.subscribe([]string{"flowlint.lint.*"}, 0)
	defer hub.unsubscribe(client)

	hub.broadcast(events.TopicReportsExported, []byte(`{}`))
	hub.broadcast(events.TopicLintRejected, []byte(`{}`))

	if evt := receive(t, client); evt.Topic != events.TopicLintRejected {
		t.Fatalf("expected %q, got %q", events.TopicLintRejected, evt.Topic)
	}
	requireNoEvent(t, client)
}

func TestEventHub_Unsubscribe(t *testing.T) {
	hub := newEventHub()
	client, _ := hub.subscribe(nil, 0)
	hub.unsubscribe(client)

	hub.broadcast(events.TopicLintCompleted, []byte(`{}`))
	requireNoEvent(t, client)
}

func TestEventHub_Replay(t *testing.T) {
	hub := newEventHub()
	for range 5 {
		hub.broadcast(events.TopicLintCompleted, []byte(`{}`))
	}
	hub.broadcast(events.TopicReportsExported, []byte(`{}`))

	client, backlog := hub.subscribe([]string{events.TopicLintCompleted}, 2)
	defer hub.unsubscribe(client)
	if len(backlog) != 3 {
		t.Fatalf("expected 3 replayed events, got %d", len(backlog))
	}
	if backlog[0].ID != 3 || backlog[2].ID != 5 {
		t.Fatalf("expected IDs 3..5, got %d..%d", backlog[0].ID, backlog[2].ID)
	}
}

func TestEventHub_ReplayBounded(t *testing.T) {
	hub := newEventHub()
	for range replayBufferSize + 100 {
		hub.broadcast(events.TopicLintCompleted, []byte(`{}`))
	}

	client, backlog := hub.subscribe(nil, 1)
	defer hub.unsubscribe(client)
	if len(backlog) != replayBufferSize {
		t.Fatalf("expected %d events, got %d", replayBufferSize, len(backlog))
	}
	if backlog[0].ID != 101 {
		t.Fatalf("expected oldest event ID=101, got %d", backlog[0].ID)
	}
}

func TestMatchTopicPattern(t *testing.T) {
	for _, tc := range []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"flowlint.lint.completed", "flowlint.lint.completed", true},
		{"flowlint.lint.completed", "flowlint.lint.rejected", false},
		{"flowlint.lint.*", "flowlint.lint.rejected", true},
		{"flowlint.lint.*", "flowlint.reports.exported", false},
		{"flowlint.>", "flowlint.reports.exported", true},
		{"flowlint.>", "flowlint", false},
		{"flowlint.>", "other.topic", false},
		{"*.*.*", "flowlint.lint.completed", true},
		{"*.*.*", "flowlint.lint", false},
	} {
		t.Run(tc.pattern+"_"+tc.topic, func(t *testing.T) {
			if got := matchTopicPattern(tc.pattern, tc.topic); got != tc.want {
				t.Fatalf("matchTopicPattern(%q, %q) = %v, want %v", tc.pattern, tc.topic, got, tc.want)
			}
		})
	}
}

// TestHandleEventStream lints twice, then connects with Last-Event-ID so the
// second run is replayed deterministically.
func TestHandleEventStream(t *testing.T) {
	_, _, _, handler := newTestServer()
	doRequest(t, handler, "POST", "/v1/lint", validGraph)
	doRequest(t, handler, "POST", "/v1/lint", invalidGraph)

	ts := httptest.NewServer(handler)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", ts.URL+"/v1/events/stream?topics=flowlint.lint.*", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Last-Event-ID", "1")

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("GET stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	scanner := bufio.NewScanner(resp.Body)
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	if len(lines) != 3 {
		t.Fatalf("expected one event of 3 lines, got %q", lines)
	}
	if lines[0] != "id:2" || lines[1] != "event:"+events.TopicLintRejected {
		t.Errorf("event header = %q", lines[:2])
	}
	if !strings.Contains(lines[2], `"error_count":1`) {
		t.Errorf("event data = %q", lines[2])
	}
}

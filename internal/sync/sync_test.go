package sync

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/alfredjeanlab/flowlint/internal/events"
	"github.com/alfredjeanlab/flowlint/internal/model"
	"github.com/alfredjeanlab/flowlint/internal/store/memory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// mockDestination records calls to Write.
type mockDestination struct {
	writes atomic.Int64
	last   atomic.Value // []byte
	err    error
}

func (d *mockDestination) Write(_ context.Context, data []byte) error {
	d.writes.Add(1)
	cp := make([]byte, len(data))
	copy(cp, data)
	d.last.Store(cp)
	return d.err
}

// recordingPublisher counts published events.
type recordingPublisher struct {
	count atomic.Int64
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event any) error {
	if topic == events.TopicReportsExported {
		p.count.Add(1)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestSchedulerStartStop(t *testing.T) {
	ms := memory.New(0)
	now := time.Now().UTC()
	ms.SaveReport(context.Background(), &model.Report{ID: "lr-1", CreatedAt: now, Mode: "flow"}) //nolint:errcheck

	dest := &mockDestination{}
	pub := &recordingPublisher{}

	sched := NewScheduler(ms, []Destination{dest}, 50*time.Millisecond, testLogger()).WithPublisher(pub)
	sched.Start()

	// Wait for at least the initial export + one tick.
	time.Sleep(120 * time.Millisecond)
	sched.Stop()

	if writes := dest.writes.Load(); writes < 2 {
		t.Fatalf("expected at least 2 writes, got %d", writes)
	}
	if got := pub.count.Load(); got != dest.writes.Load() {
		t.Errorf("published %d export events for %d writes", got, dest.writes.Load())
	}

	data, ok := dest.last.Load().([]byte)
	if !ok || len(data) == 0 {
		t.Fatal("expected non-empty data")
	}

	lines := nonEmptyLines(string(data))
	// 1 header + 1 report
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}

func TestSchedulerStop_NoStart(t *testing.T) {
	sched := NewScheduler(memory.New(0), nil, time.Minute, testLogger())
	// Stop without Start should not panic.
	sched.Stop()
}

func TestSchedulerMultipleDestinations(t *testing.T) {
	dest1 := &mockDestination{err: errors.New("bucket unavailable")}
	dest2 := &mockDestination{}
	pub := &recordingPublisher{}

	sched := NewScheduler(memory.New(0), []Destination{dest1, dest2}, time.Second, testLogger()).WithPublisher(pub)
	sched.Start()

	// Wait for the initial export.
	time.Sleep(50 * time.Millisecond)
	sched.Stop()

	if dest1.writes.Load() < 1 {
		t.Fatal("dest1 expected at least 1 write")
	}
	if dest2.writes.Load() < 1 {
		t.Fatal("dest2 expected at least 1 write")
	}
	if got := pub.count.Load(); got != dest2.writes.Load() {
		t.Errorf("failed writes must not be announced: %d events", got)
	}
}

func TestFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "reports.jsonl")
	dest := NewFileDestination(path)

	if err := dest.Write(context.Background(), []byte("one\n")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := dest.Write(context.Background(), []byte("two\n")); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if string(got) != "two\n" {
		t.Errorf("file contents = %q, want the last write", got)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
	if dest.String() != path {
		t.Errorf("String() = %q", dest.String())
	}
}

func TestFileDestination_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewFileDestination(filepath.Join(t.TempDir(), "r.jsonl")).Write(ctx, nil); err == nil {
		t.Error("expected error for canceled context")
	}
}

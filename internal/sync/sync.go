// Package sync periodically exports stored lint reports as JSONL.
package sync

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/flowlint/internal/events"
	"github.com/alfredjeanlab/flowlint/internal/store"
)

// Destination is the interface for an export target (S3, local file).
type Destination interface {
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
}

// Scheduler runs periodic exports to one or more destinations.
type Scheduler struct {
	store        store.ReportStore
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger
	publisher    events.Publisher

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that exports from the store to the given
// destinations at the specified interval.
func NewScheduler(s store.ReportStore, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:        s,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
		publisher:    &events.NoopPublisher{},
	}
}

// WithPublisher announces each successful destination write on
// events.TopicReportsExported. It must be called before Start.
func (s *Scheduler) WithPublisher(p events.Publisher) *Scheduler {
	s.publisher = p
	return s
}

// Start begins periodic export. It runs an initial export immediately, then
// on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current export (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	s.exportOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.exportOnce(ctx)
		}
	}
}

func (s *Scheduler) exportOnce(ctx context.Context) {
	var buf bytes.Buffer
	n, err := ExportJSONL(ctx, s.store, &buf)
	if err != nil {
		s.logger.Error("report export failed", "err", err)
		return
	}
	data := buf.Bytes()

	for i, dest := range s.destinations {
		name := destinationName(i, dest)
		if err := dest.Write(ctx, data); err != nil {
			s.logger.Error("export destination write failed", "destination", name, "err", err)
			continue
		}
		ev := events.ReportsExported{Destination: name, Count: n, ExportedAt: time.Now().UTC()}
		if err := s.publisher.Publish(ctx, events.TopicReportsExported, ev); err != nil {
			s.logger.Warn("publish export event failed", "err", err)
		}
	}

	s.logger.Info("report export completed", "destinations", len(s.destinations), "reports", n, "bytes", len(data))
}

func destinationName(i int, d Destination) string {
	if s, ok := d.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%d", i)
}

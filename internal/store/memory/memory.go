// Package memory implements store.ReportStore in process memory. The server
// falls back to it when no database is configured; contents are lost on exit.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/alfredjeanlab/flowlint/internal/model"
	"github.com/alfredjeanlab/flowlint/internal/store"
)

// DefaultCapacity bounds the number of reports kept by New(0).
const DefaultCapacity = 1000

// Store keeps the most recent reports, evicting the oldest beyond capacity.
type Store struct {
	mu       sync.RWMutex
	capacity int
	reports  map[string]*model.Report
	order    []string // insertion order, oldest first
}

var _ store.ReportStore = (*Store)(nil)

// New returns an empty store holding at most capacity reports. A capacity
// of zero or less selects DefaultCapacity.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		reports:  make(map[string]*model.Report),
	}
}

func (s *Store) SaveReport(_ context.Context, r *model.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.reports[r.ID] = cloneReport(r)
	for len(s.order) > s.capacity {
		delete(s.reports, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

func (s *Store) GetReport(_ context.Context, id string) (*model.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return cloneReport(r), nil
}

func (s *Store) ListReports(_ context.Context, filter model.ReportFilter) ([]*model.Report, int, error) {
	s.mu.RLock()
	var matched []*model.Report
	for _, r := range s.reports {
		if filter.Mode != "" && r.Mode != filter.Mode {
			continue
		}
		if filter.OnlyInvalid && r.ErrorCount == 0 {
			continue
		}
		matched = append(matched, cloneReport(r))
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, total, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (s *Store) DeleteReportsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		kept    []string
		deleted int64
	)
	for _, id := range s.order {
		if s.reports[id].CreatedAt.Before(cutoff) {
			delete(s.reports, id)
			deleted++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return deleted, nil
}

func (s *Store) CodeStats(_ context.Context) (map[model.Code]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := make(map[model.Code]int)
	for _, r := range s.reports {
		for _, d := range r.Diagnostics {
			stats[d.Code]++
		}
	}
	return stats, nil
}

func (s *Store) Close() error {
	return nil
}

func cloneReport(r *model.Report) *model.Report {
	cp := *r
	cp.Diagnostics = append([]model.Diagnostic{}, r.Diagnostics...)
	return &cp
}

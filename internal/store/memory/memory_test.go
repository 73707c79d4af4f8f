package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

func report(id string, at time.Time, mode string, errs int) *model.Report {
	r := &model.Report{ID: id, CreatedAt: at, Mode: mode, ErrorCount: errs}
	for i := 0; i < errs; i++ {
		r.Diagnostics = append(r.Diagnostics, model.Diagnostic{Severity: model.SeverityError, Code: model.CodeMissingNodeID})
	}
	return r
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := New(0)
	r := report("lr-1", time.Now(), "flow", 1)
	if err := s.SaveReport(ctx, r); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	r.Diagnostics[0].Message = "mutated"

	got, err := s.GetReport(ctx, "lr-1")
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got.Diagnostics[0].Message != "" {
		t.Error("store must not alias saved reports")
	}

	if _, err := s.GetReport(ctx, "lr-missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestListReports(t *testing.T) {
	ctx := context.Background()
	s := New(0)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, mode := range []string{"flow", "node", "flow", "flow"} {
		s.SaveReport(ctx, report(fmt.Sprintf("lr-%d", i), base.Add(time.Duration(i)*time.Minute), mode, i%2)) //nolint:errcheck
	}

	all, total, err := s.ListReports(ctx, model.ReportFilter{})
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if total != 4 || all[0].ID != "lr-3" || all[3].ID != "lr-0" {
		t.Fatalf("expected newest first, got total=%d first=%s", total, all[0].ID)
	}

	flows, total, _ := s.ListReports(ctx, model.ReportFilter{Mode: "flow", OnlyInvalid: true})
	if total != 1 || flows[0].ID != "lr-3" {
		t.Errorf("filtered = %d %v", total, flows)
	}

	page, total, _ := s.ListReports(ctx, model.ReportFilter{Limit: 2, Offset: 1})
	if total != 4 || len(page) != 2 || page[0].ID != "lr-2" {
		t.Errorf("page = %d %v", total, page)
	}

	beyond, total, _ := s.ListReports(ctx, model.ReportFilter{Offset: 10})
	if total != 4 || len(beyond) != 0 {
		t.Errorf("offset beyond end = %d %v", total, beyond)
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	ctx := context.Background()
	s := New(2)
	for i := 0; i < 3; i++ {
		s.SaveReport(ctx, report(fmt.Sprintf("lr-%d", i), time.Now(), "flow", 0)) //nolint:errcheck
	}
	if _, err := s.GetReport(ctx, "lr-0"); err == nil {
		t.Error("oldest report should have been evicted")
	}
	if _, err := s.GetReport(ctx, "lr-2"); err != nil {
		t.Errorf("newest report missing: %v", err)
	}
}

func TestDeleteReportsBefore(t *testing.T) {
	ctx := context.Background()
	s := New(0)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.SaveReport(ctx, report("old", base, "flow", 0))                   //nolint:errcheck
	s.SaveReport(ctx, report("new", base.Add(48*time.Hour), "flow", 0)) //nolint:errcheck

	n, err := s.DeleteReportsBefore(ctx, base.Add(time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("DeleteReportsBefore = %d, %v", n, err)
	}
	if _, total, _ := s.ListReports(ctx, model.ReportFilter{}); total != 1 {
		t.Errorf("remaining = %d", total)
	}
}

func TestCodeStats(t *testing.T) {
	ctx := context.Background()
	s := New(0)
	s.SaveReport(ctx, report("a", time.Now(), "flow", 2)) //nolint:errcheck
	s.SaveReport(ctx, report("b", time.Now(), "flow", 1)) //nolint:errcheck

	stats, err := s.CodeStats(ctx)
	if err != nil {
		t.Fatalf("CodeStats: %v", err)
	}
	if stats[model.CodeMissingNodeID] != 3 {
		t.Errorf("stats = %v", stats)
	}
}

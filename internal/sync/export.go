package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/flowlint/internal/model"
	"github.com/alfredjeanlab/flowlint/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version     string    `json:"version"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	ReportCount int       `json:"report_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes every stored report as JSONL to w, oldest first, and
// returns the number of reports written.
func ExportJSONL(ctx context.Context, s store.ReportStore, w io.Writer) (int, error) {
	reports, _, err := s.ListReports(ctx, model.ReportFilter{})
	if err != nil {
		return 0, fmt.Errorf("list reports: %w", err)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		if !reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].CreatedAt.Before(reports[j].CreatedAt)
		}
		return reports[i].ID < reports[j].ID
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:     "1",
		Type:        "header",
		Timestamp:   time.Now().UTC(),
		ReportCount: len(reports),
	}); err != nil {
		return 0, fmt.Errorf("encode header: %w", err)
	}

	for _, r := range reports {
		if err := enc.Encode(record{Type: "report", Data: r}); err != nil {
			return 0, fmt.Errorf("encode report %s: %w", r.ID, err)
		}
	}

	return len(reports), nil
}

package events

import (
	"context"
	"time"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

// Event topic constants
const (
	TopicLintCompleted   = "flowlint.lint.completed"
	TopicLintRejected    = "flowlint.lint.rejected"
	TopicReportsExported = "flowlint.reports.exported"

	// TopicAll matches every flowlint subject.
	TopicAll = "flowlint.>"
)

// Event types

// LintCompleted summarizes one lint run. It is published on
// TopicLintCompleted for clean graphs and TopicLintRejected when the run
// produced errors.
type LintCompleted struct {
	ReportID     string       `json:"report_id,omitempty"`
	Mode         string       `json:"mode"`
	Schema       string       `json:"schema,omitempty"`
	NodeCount    int          `json:"node_count"`
	EdgeCount    int          `json:"edge_count"`
	ErrorCount   int          `json:"error_count"`
	WarningCount int          `json:"warning_count"`
	Codes        []model.Code `json:"codes,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

type ReportsExported struct {
	Destination string    `json:"destination"`
	Count       int       `json:"count"`
	ExportedAt  time.Time `json:"exported_at"`
}

// NewLintCompleted builds the event for r along with the topic it belongs on.
func NewLintCompleted(r *model.Report) (string, LintCompleted) {
	topic := TopicLintCompleted
	if !r.Valid() {
		topic = TopicLintRejected
	}
	return topic, LintCompleted{
		ReportID:     r.ID,
		Mode:         r.Mode,
		Schema:       r.Schema,
		NodeCount:    r.NodeCount,
		EdgeCount:    r.EdgeCount,
		ErrorCount:   r.ErrorCount,
		WarningCount: r.WarningCount,
		Codes:        r.Codes(),
		CreatedAt:    r.CreatedAt,
	}
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Package server exposes the linter over HTTP and serves gRPC health checks.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/flowlint/internal/events"
	"github.com/alfredjeanlab/flowlint/internal/idgen"
	"github.com/alfredjeanlab/flowlint/internal/lint"
	"github.com/alfredjeanlab/flowlint/internal/model"
	"github.com/alfredjeanlab/flowlint/internal/schema"
	"github.com/alfredjeanlab/flowlint/internal/store"
)

// LintServer lints submitted graphs and records the outcome.
type LintServer struct {
	linter    *lint.Linter
	store     store.ReportStore // nil disables report endpoints
	publisher events.Publisher
	hub       *eventHub
	metrics   *Metrics
	logger    *slog.Logger
}

// Option configures a LintServer.
type Option func(*LintServer)

// WithStore persists a report for every lint run.
func WithStore(s store.ReportStore) Option {
	return func(srv *LintServer) { srv.store = s }
}

// WithPublisher announces every lint run on the event bus.
func WithPublisher(p events.Publisher) Option {
	return func(srv *LintServer) { srv.publisher = p }
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(srv *LintServer) { srv.logger = logger }
}

// NewLintServer returns a server that checks graphs with l.
func NewLintServer(l *lint.Linter, opts ...Option) *LintServer {
	s := &LintServer{
		linter:    l,
		publisher: &events.NoopPublisher{},
		hub:       newEventHub(),
		metrics:   NewMetrics(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Metrics returns the server's collectors.
func (s *LintServer) Metrics() *Metrics {
	return s.metrics
}

// inputError indicates invalid user input.
// Transport layers map this to 400 / InvalidArgument.
type inputError string

func (e inputError) Error() string { return string(e) }

// lintResult is the response body of the lint endpoints.
type lintResult struct {
	Valid       bool               `json:"valid"`
	Diagnostics []model.Diagnostic `json:"diagnostics"`
	Summary     lint.Summary       `json:"summary"`
	ReportID    string             `json:"report_id,omitempty"`
}

// lintDocument decodes body as a compact or full graph, lints it with l in
// mode and records the run. Only undecodable input is an error; everything else the
// linter has to say is in the diagnostics.
func (s *LintServer) lintDocument(ctx context.Context, l *lint.Linter, body []byte, mode lint.Mode) (*lintResult, error) {
	g, schemaName, err := schema.DecodeDocument(body)
	if err != nil {
		return nil, inputError(err.Error())
	}

	start := time.Now()
	diags := l.LintWithMode(g, mode)
	s.metrics.observeLint(mode, diags, time.Since(start))
	if diags == nil {
		diags = []model.Diagnostic{}
	}
	sum := lint.Summarize(diags)

	report := &model.Report{
		CreatedAt:    time.Now().UTC(),
		Mode:         string(mode),
		Schema:       schemaName,
		ErrorCount:   sum.Errors,
		WarningCount: sum.Warnings,
		Diagnostics:  diags,
	}
	if g != nil {
		report.NodeCount = len(g.Nodes)
		report.EdgeCount = len(g.Edges)
	}
	s.recordAndPublish(ctx, report)

	return &lintResult{
		Valid:       sum.Valid(),
		Diagnostics: diags,
		Summary:     sum,
		ReportID:    report.ID,
	}, nil
}

// recordAndPublish persists the report and announces it. Both operations are
// best-effort; failures are logged but do not block the caller. report.ID is
// left empty when the report was not stored.
func (s *LintServer) recordAndPublish(ctx context.Context, report *model.Report) {
	if s.store != nil {
		if err := s.saveReport(ctx, report); err != nil {
			s.logger.Warn("failed to save lint report", "error", err)
			report.ID = ""
		}
	}

	topic, event := events.NewLintCompleted(report)
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "report_id", report.ID, "error", err)
	}
	s.broadcastEvent(topic, event)
}

func (s *LintServer) saveReport(ctx context.Context, report *model.Report) error {
	id, err := idgen.ReportID()
	if err != nil {
		return err
	}
	report.ID = id
	if err := s.store.SaveReport(ctx, report); err != nil {
		return fmt.Errorf("save report %s: %w", id, err)
	}
	return nil
}

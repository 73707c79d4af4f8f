// Package client talks to a flowlint server over its HTTP/JSON API.
package client

import (
	"context"
	"encoding/json"

	"github.com/alfredjeanlab/flowlint/internal/lint"
	"github.com/alfredjeanlab/flowlint/internal/model"
)

// LintClient is the interface CLI commands use when a server is configured.
type LintClient interface {
	// Lint submits a compact or full graph document.
	Lint(ctx context.Context, graph json.RawMessage, opts LintOptions) (*LintResponse, error)

	ListNodeTypes(ctx context.Context) ([]model.NodeTypeContract, error)
	GetNodeType(ctx context.Context, typ string) (*model.NodeTypeContract, error)

	ListReports(ctx context.Context, filter model.ReportFilter) (*ListReportsResponse, error)
	GetReport(ctx context.Context, id string) (*model.Report, error)
	CodeStats(ctx context.Context) (map[model.Code]int, error)

	Health(ctx context.Context) (string, error)

	Close() error
}

// LintOptions select the checks for one remote lint run. The zero value
// defers to the server's configuration.
type LintOptions struct {
	Mode          lint.Mode
	StrictOutputs bool
	StrictEmpty   bool
}

// LintResponse is the result of one remote lint run.
type LintResponse struct {
	Valid       bool               `json:"valid"`
	Diagnostics []model.Diagnostic `json:"diagnostics"`
	Summary     lint.Summary       `json:"summary"`
	ReportID    string             `json:"report_id,omitempty"`
}

// ListReportsResponse is a page of stored reports.
type ListReportsResponse struct {
	Reports []*model.Report `json:"reports"`
	Total   int             `json:"total"`
}

package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanReport scans a single row into a model.Report.
// The row must contain columns in the order defined by reportColumns.
func scanReport(row scannable) (*model.Report, error) {
	var (
		r     model.Report
		diags []byte
	)
	err := row.Scan(
		&r.ID,
		&r.CreatedAt,
		&r.Mode,
		&r.Schema,
		&r.NodeCount,
		&r.EdgeCount,
		&r.ErrorCount,
		&r.WarningCount,
		&diags,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeDiagnostics(&r, diags); err != nil {
		return nil, err
	}
	return &r, nil
}

// scanReportWithTotal scans a row that leads with a total_count window column.
func scanReportWithTotal(row scannable) (*model.Report, int, error) {
	var (
		total int
		r     model.Report
		diags []byte
	)
	err := row.Scan(
		&total,
		&r.ID,
		&r.CreatedAt,
		&r.Mode,
		&r.Schema,
		&r.NodeCount,
		&r.EdgeCount,
		&r.ErrorCount,
		&r.WarningCount,
		&diags,
	)
	if err != nil {
		return nil, 0, err
	}
	if err := decodeDiagnostics(&r, diags); err != nil {
		return nil, 0, err
	}
	return &r, total, nil
}

func decodeDiagnostics(r *model.Report, data []byte) error {
	r.Diagnostics = []model.Diagnostic{}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &r.Diagnostics); err != nil {
		return fmt.Errorf("decode diagnostics for report %s: %w", r.ID, err)
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

// reportColumns is the column list used for SELECT statements on the lint_reports table.
const reportColumns = `id, created_at, mode, schema, node_count, edge_count,
	error_count, warning_count, diagnostics`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func querySaveReport(ctx context.Context, db executor, r *model.Report) error {
	diags := r.Diagnostics
	if diags == nil {
		diags = []model.Diagnostic{}
	}
	data, err := json.Marshal(diags)
	if err != nil {
		return fmt.Errorf("marshal diagnostics: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO lint_reports (
			id, created_at, mode, schema, node_count, edge_count,
			error_count, warning_count, diagnostics
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID,
		r.CreatedAt,
		r.Mode,
		schemaOrDefault(r.Schema),
		r.NodeCount,
		r.EdgeCount,
		r.ErrorCount,
		r.WarningCount,
		data,
	)
	if err != nil {
		return fmt.Errorf("insert report %s: %w", r.ID, err)
	}
	return nil
}

func queryGetReport(ctx context.Context, db executor, id string) (*model.Report, error) {
	row := db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM lint_reports WHERE id = $1`, id)
	return scanReport(row)
}

func queryListReports(ctx context.Context, db executor, filter model.ReportFilter) ([]*model.Report, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.Mode != "" {
		whereClauses = append(whereClauses, "mode = "+nextArg())
		args = append(args, filter.Mode)
	}
	if filter.OnlyInvalid {
		whereClauses = append(whereClauses, "error_count > 0")
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Single query with COUNT(*) OVER() to get total and rows atomically.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + reportColumns + " FROM lint_reports" + whereSQL + " ORDER BY created_at DESC, id"

	if filter.Limit > 0 {
		dataQuery += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		dataQuery += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []*model.Report
	var total int
	for rows.Next() {
		r, t, err := scanReportWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan reports: %w", err)
		}
		total = t
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan reports: %w", err)
	}

	return reports, total, nil
}

func queryDeleteReportsBefore(ctx context.Context, db executor, cutoff time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM lint_reports WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete reports: %w", err)
	}
	return res.RowsAffected()
}

func queryCodeStats(ctx context.Context, db executor) (map[model.Code]int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT d->>'code' AS code, COUNT(*)
		FROM lint_reports, jsonb_array_elements(diagnostics) AS d
		GROUP BY 1`)
	if err != nil {
		return nil, fmt.Errorf("code stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[model.Code]int)
	for rows.Next() {
		var (
			code  sql.NullString
			count int
		)
		if err := rows.Scan(&code, &count); err != nil {
			return nil, fmt.Errorf("scan code stats: %w", err)
		}
		if code.Valid {
			stats[model.Code(code.String)] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan code stats: %w", err)
	}
	return stats, nil
}

func schemaOrDefault(s string) string {
	if s == "" {
		return model.SchemaCompact
	}
	return s
}

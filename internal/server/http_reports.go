package server

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/alfredjeanlab/flowlint/internal/lint"
	"github.com/alfredjeanlab/flowlint/internal/model"
)

// requireStore writes 503 and returns false when no report store is configured.
func (s *LintServer) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "report storage is not configured")
		return false
	}
	return true
}

// handleListReports handles GET /v1/reports.
func (s *LintServer) handleListReports(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	q := r.URL.Query()
	var filter model.ReportFilter
	if v := q.Get("mode"); v != "" {
		mode, err := lint.ParseMode(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Mode = string(mode)
	}
	if v := q.Get("invalid"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid must be a boolean")
			return
		}
		filter.OnlyInvalid = b
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Offset = n
		}
	}

	reports, total, err := s.store.ListReports(r.Context(), filter)
	if err != nil {
		s.logger.Error("list reports failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	// Ensure reports is never null in JSON output.
	if reports == nil {
		reports = []*model.Report{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reports": reports,
		"total":   total,
	})
}

// handleGetReport handles GET /v1/reports/{id}.
func (s *LintServer) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	report, err := s.store.GetReport(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		s.logger.Error("get report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get report")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleGetStats handles GET /v1/stats: diagnostic counts by code across
// stored reports.
func (s *LintServer) handleGetStats(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	stats, err := s.store.CodeStats(r.Context())
	if err != nil {
		s.logger.Error("code stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}
	if stats == nil {
		stats = map[model.Code]int{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"codes": stats})
}

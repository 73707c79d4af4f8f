package model

import "time"

// Report is the persisted record of one lint run.
type Report struct {
	ID           string       `json:"id"`
	CreatedAt    time.Time    `json:"created_at"`
	Mode         string       `json:"mode"`
	Schema       string       `json:"schema"` // "compact" or "full"
	NodeCount    int          `json:"node_count"`
	EdgeCount    int          `json:"edge_count"`
	ErrorCount   int          `json:"error_count"`
	WarningCount int          `json:"warning_count"`
	Diagnostics  []Diagnostic `json:"diagnostics"`
}

// Schema names for Report.Schema.
const (
	SchemaCompact = "compact"
	SchemaFull    = "full"
)

// Valid reports whether the run produced no error diagnostics.
func (r *Report) Valid() bool {
	return r.ErrorCount == 0
}

// Codes returns the distinct diagnostic codes in first-seen order.
func (r *Report) Codes() []Code {
	seen := make(map[Code]bool)
	var codes []Code
	for _, d := range r.Diagnostics {
		if !seen[d.Code] {
			seen[d.Code] = true
			codes = append(codes, d.Code)
		}
	}
	return codes
}

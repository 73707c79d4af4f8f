package lint

import "github.com/alfredjeanlab/flowlint/internal/model"

// Summary aggregates a diagnostic list.
type Summary struct {
	Errors   int                `json:"errors"`
	Warnings int                `json:"warnings"`
	Codes    map[model.Code]int `json:"codes,omitempty"`
}

// Valid reports whether there were no error diagnostics. Warnings never
// make a graph invalid.
func (s Summary) Valid() bool {
	return s.Errors == 0
}

// Summarize counts diagnostics by severity and code.
func Summarize(diags []model.Diagnostic) Summary {
	var s Summary
	for _, d := range diags {
		switch d.Severity {
		case model.SeverityError:
			s.Errors++
		case model.SeverityWarning:
			s.Warnings++
		}
		if s.Codes == nil {
			s.Codes = make(map[model.Code]int)
		}
		s.Codes[d.Code]++
	}
	return s
}

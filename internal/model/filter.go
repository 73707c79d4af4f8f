package model

// ReportFilter holds criteria for querying lint reports.
type ReportFilter struct {
	Mode        string `json:"mode,omitempty"`
	OnlyInvalid bool   `json:"only_invalid,omitempty"` // reports with at least one error
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}

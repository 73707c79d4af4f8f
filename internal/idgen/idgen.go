// Package idgen generates lint report IDs backed by nanoid.
package idgen

import (
	"fmt"
	"strings"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// ReportPrefix is prepended to every report ID.
const ReportPrefix = "lr-"

// Length is the number of random characters generated (excluding the prefix).
const Length = 12

// Lowercase only, so IDs survive case-folding file systems and URLs.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// ReportID returns a new report ID.
func ReportID() (string, error) {
	return WithPrefix(ReportPrefix)
}

// WithPrefix returns a new ID with the given prefix.
func WithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// IsReportID reports whether s has the shape of an ID returned by ReportID.
func IsReportID(s string) bool {
	rest, ok := strings.CutPrefix(s, ReportPrefix)
	if !ok || len(rest) != Length {
		return false
	}
	for _, r := range rest {
		if !strings.ContainsRune(alphabet, r) {
			return false
		}
	}
	return true
}

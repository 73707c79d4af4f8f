package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/alfredjeanlab/flowlint/internal/model"
	"github.com/alfredjeanlab/flowlint/internal/ui"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func printLintResults(w io.Writer, results []fileResult) {
	var errs, warnings, failed int
	for _, r := range results {
		switch {
		case r.Error != "":
			failed++
			fmt.Fprintf(w, "%s: %s\n", ui.RenderAccent(r.File), ui.RenderSeverity(model.SeverityError, r.Error))
			continue
		case len(r.Diagnostics) == 0:
			fmt.Fprintf(w, "%s: %s\n", ui.RenderAccent(r.File), ui.RenderOK("ok"))
			continue
		}
		if !r.Valid {
			failed++
		}
		errs += r.Summary.Errors
		warnings += r.Summary.Warnings
		fmt.Fprintf(w, "%s:\n", ui.RenderAccent(r.File))
		for _, d := range r.Diagnostics {
			fmt.Fprintf(w, "  %s\n", formatDiagnostic(d))
		}
		if r.ReportID != "" {
			fmt.Fprintf(w, "  %s\n", ui.RenderMuted("report "+r.ReportID))
		}
	}
	fmt.Fprintf(w, "\n%s, %s, %s\n",
		plural(len(results), "file"),
		plural(errs, "error"),
		plural(warnings, "warning"))
	if failed > 0 {
		fmt.Fprintf(w, "%s\n", ui.RenderSeverity(model.SeverityError, plural(failed, "file")+" failed"))
	}
}

func formatDiagnostic(d model.Diagnostic) string {
	var b strings.Builder
	b.WriteString(ui.RenderSeverity(d.Severity, fmt.Sprintf("%-7s", d.Severity)))
	b.WriteString(" ")
	b.WriteString(ui.RenderMuted(string(d.Code)))
	b.WriteString(" ")
	b.WriteString(d.Message)
	if d.ElementID != "" {
		loc := fmt.Sprintf("%s %s", d.ElementType, d.ElementID)
		if d.FieldID != "" {
			loc += fmt.Sprintf(", %s %s", d.FieldType, d.FieldID)
		}
		b.WriteString(" ")
		b.WriteString(ui.RenderMuted("(" + loc + ")"))
	}
	return b.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func printContractTable(w io.Writer, contracts []model.NodeTypeContract) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tCATEGORY\tREQUIRED\tOPTIONAL\tOUTPUTS")
	for _, c := range contracts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			c.Type,
			c.Category,
			joinOrDash(c.RequiredInputs),
			joinOrDash(c.OptionalInputs),
			joinOrDash(c.Outputs),
		)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%s\n", plural(len(contracts), "node type"))
}

func printContract(w io.Writer, c *model.NodeTypeContract) {
	fmt.Fprintf(w, "Type:        %s\n", c.Type)
	fmt.Fprintf(w, "Category:    %s\n", c.Category)
	fmt.Fprintf(w, "Required:    %s\n", joinOrDash(c.RequiredInputs))
	fmt.Fprintf(w, "Optional:    %s\n", joinOrDash(c.OptionalInputs))
	fmt.Fprintf(w, "Outputs:     %s\n", joinOrDash(c.Outputs))
	if c.ParamListInput != "" {
		fmt.Fprintf(w, "Param list:  %s\n", c.ParamListInput)
	}
}

func joinOrDash(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ", ")
}

func printReportTable(w io.Writer, reports []*model.Report, total int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tMODE\tSCHEMA\tNODES\tEDGES\tERRORS\tWARNINGS")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Mode,
			r.Schema,
			r.NodeCount,
			r.EdgeCount,
			r.ErrorCount,
			r.WarningCount,
		)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d reports (%d total)\n", len(reports), total)
}

func printReport(w io.Writer, r *model.Report) {
	status := ui.RenderOK("valid")
	if !r.Valid() {
		status = ui.RenderSeverity(model.SeverityError, "invalid")
	}
	fmt.Fprintf(w, "ID:          %s\n", r.ID)
	fmt.Fprintf(w, "Status:      %s\n", status)
	fmt.Fprintf(w, "Created At:  %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Mode:        %s\n", r.Mode)
	fmt.Fprintf(w, "Schema:      %s\n", r.Schema)
	fmt.Fprintf(w, "Nodes:       %d\n", r.NodeCount)
	fmt.Fprintf(w, "Edges:       %d\n", r.EdgeCount)
	if len(r.Diagnostics) > 0 {
		fmt.Fprintln(w, "\nDiagnostics:")
		for _, d := range r.Diagnostics {
			fmt.Fprintf(w, "  %s\n", formatDiagnostic(d))
		}
	}
}

// printCodeStats prints counts most frequent first, ties broken by code.
func printCodeStats(w io.Writer, stats map[model.Code]int) {
	codes := make([]model.Code, 0, len(stats))
	for c := range stats {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		if stats[codes[i]] != stats[codes[j]] {
			return stats[codes[i]] > stats[codes[j]]
		}
		return codes[i] < codes[j]
	})
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tCOUNT")
	for _, c := range codes {
		fmt.Fprintf(tw, "%s\t%d\n", c, stats[c])
	}
	tw.Flush()
}

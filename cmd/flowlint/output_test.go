package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/flowlint/internal/lint"
	"github.com/alfredjeanlab/flowlint/internal/model"
	"github.com/alfredjeanlab/flowlint/internal/ui"
)

func init() {
	ui.ForceNoColor()
}

func TestPrintLintResults(t *testing.T) {
	diags := []model.Diagnostic{
		{Severity: model.SeverityError, Code: model.CodeInvalidNodeType, Message: "Unknown node type: bogus_node",
			ElementID: "x", ElementType: model.ElementNode},
		{Severity: model.SeverityWarning, Code: model.CodeIsolatedNode, Message: "Node is not connected",
			ElementID: "y", ElementType: model.ElementNode},
	}
	results := []fileResult{
		{File: "ok.json", Valid: true, Diagnostics: []model.Diagnostic{}},
		{File: "bad.json", Diagnostics: diags, Summary: lint.Summarize(diags), ReportID: "lr-abc"},
		{File: "gone.json", Error: "open gone.json: no such file or directory"},
	}

	var buf bytes.Buffer
	printLintResults(&buf, results)
	out := buf.String()

	for _, want := range []string{
		"ok.json: ok",
		"bad.json:",
		"error   invalid-node-type Unknown node type: bogus_node (node x)",
		"warning isolated-node Node is not connected (node y)",
		"report lr-abc",
		"gone.json: open gone.json",
		"3 files, 1 error, 1 warning",
		"2 files failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDiagnostic_Field(t *testing.T) {
	d := model.Diagnostic{
		Severity:    model.SeverityError,
		Code:        model.CodeMissingRequiredInput,
		Message:     "Required input is missing",
		ElementID:   "ma",
		ElementType: model.ElementNode,
		FieldID:     "source",
		FieldType:   model.FieldInput,
	}
	want := "error   missing-required-input Required input is missing (node ma, input source)"
	if got := formatDiagnostic(d); got != want {
		t.Errorf("formatDiagnostic() = %q, want %q", got, want)
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 errors"},
		{1, "1 error"},
		{2, "2 errors"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, "error"); got != tt.want {
			t.Errorf("plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestPrintCodeStats_Order(t *testing.T) {
	var buf bytes.Buffer
	printCodeStats(&buf, map[model.Code]int{
		model.CodeIsolatedNode:       2,
		model.CodeInvalidNodeType:    5,
		model.CodeCircularDependency: 2,
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d:\n%s", len(lines), buf.String())
	}
	order := []model.Code{model.CodeInvalidNodeType, model.CodeCircularDependency, model.CodeIsolatedNode}
	for i, code := range order {
		if !strings.HasPrefix(lines[i+1], string(code)) {
			t.Errorf("row %d = %q, want code %s", i+1, lines[i+1], code)
		}
	}
}

func TestPrintContract(t *testing.T) {
	var buf bytes.Buffer
	printContract(&buf, &model.NodeTypeContract{
		Type:           "custom_script",
		Category:       model.CategoryCompute,
		RequiredInputs: []string{"code"},
		Outputs:        []string{"result"},
		ParamListInput: "params",
	})
	out := buf.String()
	for _, want := range []string{"custom_script", "Optional:    -", "Param list:  params"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintReportTable(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	var buf bytes.Buffer
	printReportTable(&buf, []*model.Report{
		{ID: "lr-1", CreatedAt: created, Mode: "flow", Schema: model.SchemaCompact, NodeCount: 3, ErrorCount: 1},
	}, 7)
	out := buf.String()
	if !strings.Contains(out, "lr-1") || !strings.Contains(out, "2026-03-01 12:30:00") {
		t.Errorf("unexpected table:\n%s", out)
	}
	if !strings.Contains(out, "1 reports (7 total)") {
		t.Errorf("missing footer:\n%s", out)
	}
}

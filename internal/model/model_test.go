package model

import (
	"slices"
	"testing"
	"time"
)

func TestCategory_IsValid(t *testing.T) {
	for _, tc := range []struct {
		cat  Category
		want bool
	}{
		{CategoryInput, true},
		{CategoryCompute, true},
		{CategoryTrade, true},
		{CategoryOutput, true},
		{Category(""), false},
		{Category("storage"), false},
	} {
		if got := tc.cat.IsValid(); got != tc.want {
			t.Errorf("Category(%q).IsValid() = %v, want %v", tc.cat, got, tc.want)
		}
	}
}

func TestCodes_ClosedSet(t *testing.T) {
	if len(Codes) != 30 {
		t.Fatalf("expected 30 diagnostic codes, got %d", len(Codes))
	}
	seen := make(map[Code]bool)
	for _, c := range Codes {
		if seen[c] {
			t.Errorf("duplicate code %q", c)
		}
		seen[c] = true
		if !c.IsValid() {
			t.Errorf("Code(%q).IsValid() = false", c)
		}
	}
	if Code("not-a-code").IsValid() {
		t.Error("unknown code should be invalid")
	}
}

func TestContract_Lookups(t *testing.T) {
	c := NodeTypeContract{
		RequiredInputs: []string{"a"},
		OptionalInputs: []string{"b"},
		Outputs:        []string{"out"},
	}
	if !c.HasInput("a") || !c.HasInput("b") || c.HasInput("out") {
		t.Error("HasInput mismatch")
	}
	if !c.HasOutput("out") || c.HasOutput("a") {
		t.Error("HasOutput mismatch")
	}
}

func TestContract_CloneIsDeep(t *testing.T) {
	c := NodeTypeContract{RequiredInputs: []string{"a"}, Outputs: []string{"out"}}
	clone := c.Clone()
	clone.RequiredInputs[0] = "changed"
	clone.Outputs[0] = "changed"
	if c.RequiredInputs[0] != "a" || c.Outputs[0] != "out" {
		t.Error("Clone shares backing arrays with the original")
	}
}

func TestParamNames(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   any
		want []string
	}{
		{"nil", nil, nil},
		{"not a list", "alpha", nil},
		{"strings", []string{"a", "b", "a"}, []string{"a", "b"}},
		{"mixed", []any{"a", map[string]any{"name": "b"}, map[string]any{"name": 3.0}, "", 7.0}, []string{"a", "b"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParamNames(tc.in); !slices.Equal(got, tc.want) {
				t.Errorf("ParamNames = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestContract_DynamicInputs(t *testing.T) {
	c := NodeTypeContract{Type: "custom_code", OptionalInputs: []string{"parameters"}, ParamListInput: "parameters"}
	n := &Node{Inputs: []Field{
		{ID: "code", Value: "x"},
		{ID: "parameters", Value: []any{map[string]any{"name": "alpha"}, "beta"}},
	}}
	if got := c.DynamicInputs(n); !slices.Equal(got, []string{"alpha", "beta"}) {
		t.Errorf("DynamicInputs = %v", got)
	}
	c.ParamListInput = ""
	if got := c.DynamicInputs(n); got != nil {
		t.Errorf("DynamicInputs without a param list = %v", got)
	}
}

func TestNormalizeHandle(t *testing.T) {
	for _, tc := range []struct {
		in, want string
	}{
		{"price-handle", "price"},
		{"price", "price"},
		{"price-handle-handle", "price-handle"},
		{"-handle", ""},
		{"", ""},
	} {
		if got := NormalizeHandle(tc.in); got != tc.want {
			t.Errorf("NormalizeHandle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHandleRefersTo(t *testing.T) {
	for _, tc := range []struct {
		handle, field string
		want          bool
	}{
		{"period", "period", true},
		{"node-2:period", "period", true},
		{"node-2:period:extra", "period", true},
		{"period:node-2", "period", false},
		{"periods", "period", false},
		{"", "period", false},
	} {
		if got := HandleRefersTo(tc.handle, tc.field); got != tc.want {
			t.Errorf("HandleRefersTo(%q, %q) = %v, want %v", tc.handle, tc.field, got, tc.want)
		}
	}
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Severity:    SeverityError,
		Message:     "Required input is missing",
		Code:        CodeMissingRequiredInput,
		ElementID:   "n1",
		ElementType: ElementNode,
		FieldID:     "period",
		FieldType:   FieldInput,
	}
	want := "error [missing-required-input] Required input is missing (node n1, input period)"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if !d.IsError() {
		t.Error("IsError() = false for error severity")
	}
}

func TestReport_CodesAndValid(t *testing.T) {
	r := &Report{
		ID:        "lr-1",
		CreatedAt: time.Now(),
		Diagnostics: []Diagnostic{
			{Code: CodeIsolatedNode},
			{Code: CodeUnknownInput},
			{Code: CodeIsolatedNode},
		},
		WarningCount: 3,
	}
	codes := r.Codes()
	if len(codes) != 2 || codes[0] != CodeIsolatedNode || codes[1] != CodeUnknownInput {
		t.Errorf("Codes() = %v", codes)
	}
	if !r.Valid() {
		t.Error("report without errors should be valid")
	}
	r.ErrorCount = 1
	if r.Valid() {
		t.Error("report with errors should be invalid")
	}
}

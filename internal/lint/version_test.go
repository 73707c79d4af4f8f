package lint

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

func TestClassifyVersion(t *testing.T) {
	for _, tc := range []struct {
		in         string
		valid      bool
		prerelease bool
	}{
		{"1.2.3", true, false},
		{"0.0.1", true, false},
		{"1.2.3-beta.1", true, true},
		{"2.0.0-rc1", true, true},
		{"1.2.3+build.5", true, false},
		{"1.2.3-alpha+build", true, true},
		{"latest", true, false},
		{"latest-beta", true, true},
		{"latest-rc.2", true, true},
		{"^1.2.3", true, false},
		{"~1.2.3", true, false},
		{">=1.0.0", true, false},
		{"<2.0.0", true, false},
		{"v1.2.3", false, false},
		{"1.2", false, false},
		{"1.2.3-", false, false},
		{"1.2.3+", false, false},
		{"latest-", false, false},
		{"LATEST", false, false},
		{"=>1.0.0", false, false},
		{"~1.2", false, false},
		{"banana", false, false},
	} {
		t.Run(tc.in, func(t *testing.T) {
			valid, pre := ClassifyVersion(tc.in)
			if valid != tc.valid || pre != tc.prerelease {
				t.Errorf("ClassifyVersion(%q) = (%v, %v), want (%v, %v)", tc.in, valid, pre, tc.valid, tc.prerelease)
			}
		})
	}
}

func TestCheckVersion(t *testing.T) {
	versioned := func(schema int, versions ...string) *model.Graph {
		g := &model.Graph{SchemaVersion: schema, Edges: []model.Edge{}}
		for i, v := range versions {
			n := node(fmt.Sprintf("n%d", i), "sink", float64(i)*200, 0)
			n.Version = v
			g.Nodes = append(g.Nodes, n)
		}
		return g
	}
	l := New(testRegistry(t))

	got := codesOf(l.LintForNodeExecution(versioned(model.SchemaVersionVersioned, "", "1.0.0", "1.0.0-beta", "latest", "nope")))
	want := []model.Code{model.CodeMissingNodeVersion, model.CodePrereleaseVersion, model.CodeInvalidVersionSyntax}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("versioned graph (-want +got):\n%s", diff)
	}

	// Before version tags existed an absent version is normal, but a tag
	// that is present is still checked.
	got = codesOf(l.LintForNodeExecution(versioned(0, "", "1.0.0", "1.0.0-rc.1", "nope")))
	want = []model.Code{model.CodePrereleaseVersion, model.CodeInvalidVersionSyntax}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unversioned graph (-want +got):\n%s", diff)
	}
}

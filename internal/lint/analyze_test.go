package lint

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

// relays returns relay nodes laid out on a row, one per id.
func relays(ids ...string) []model.Node {
	nodes := make([]model.Node, len(ids))
	for i, id := range ids {
		nodes[i] = node(id, "relay", float64(i)*200, 0)
	}
	return nodes
}

func chain(pairs ...string) []model.Edge {
	var edges []model.Edge
	for i := 0; i+1 < len(pairs); i += 2 {
		edges = append(edges, edge(pairs[i], "out", pairs[i+1], "in"))
	}
	return edges
}

func cycleMessages(diags []model.Diagnostic) []string {
	var out []string
	for _, d := range diags {
		if d.Code == model.CodeCircularDependency {
			out = append(out, d.Message)
		}
	}
	return out
}

func TestCheckCycles(t *testing.T) {
	for _, tc := range []struct {
		name  string
		nodes []model.Node
		edges []model.Edge
		want  []string
	}{
		{
			name:  "acyclic",
			nodes: relays("A", "B", "C"),
			edges: chain("A", "B", "B", "C"),
			want:  nil,
		},
		{
			name:  "three cycle",
			nodes: relays("A", "B", "C"),
			edges: chain("A", "B", "B", "C", "C", "A"),
			want:  []string{"Circular dependency detected: A -> B -> C -> A"},
		},
		{
			name:  "self loop",
			nodes: relays("A", "B"),
			edges: chain("A", "A", "A", "B"),
			want:  []string{"Circular dependency detected: A -> A"},
		},
		{
			name:  "cycle below entry",
			nodes: relays("A", "B", "C"),
			edges: chain("A", "B", "B", "C", "C", "B"),
			want:  []string{"Circular dependency detected: B -> C -> B"},
		},
		{
			name:  "disjoint cycles",
			nodes: relays("A", "B", "C", "D"),
			edges: chain("A", "B", "B", "A", "C", "D", "D", "C"),
			want: []string{
				"Circular dependency detected: A -> B -> A",
				"Circular dependency detected: C -> D -> C",
			},
		},
		{
			name:  "one report per root",
			nodes: relays("A", "B", "C"),
			edges: chain("A", "B", "B", "A", "A", "C", "C", "A"),
			want:  []string{"Circular dependency detected: A -> B -> A"},
		},
		{
			name:  "diamond is not a cycle",
			nodes: relays("A", "B", "C", "D"),
			edges: chain("A", "B", "A", "C", "B", "D", "C", "D"),
			want:  nil,
		},
		{
			name:  "edges to unknown nodes ignored",
			nodes: relays("A", "B"),
			edges: chain("A", "B", "B", "ghost", "ghost", "A"),
			want:  nil,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l := New(testRegistry(t))
			diags := l.Lint(&model.Graph{Nodes: tc.nodes, Edges: tc.edges})
			if diff := cmp.Diff(tc.want, cycleMessages(diags)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckCycles_Attribution(t *testing.T) {
	l := New(testRegistry(t))
	diags := l.Lint(&model.Graph{
		Nodes: relays("X", "Y"),
		Edges: chain("X", "Y", "Y", "X"),
	})
	d := findCode(t, diags, model.CodeCircularDependency)
	if d.ElementID != "X" || d.ElementType != model.ElementNode || !d.IsError() {
		t.Errorf("cycle diagnostic = %+v", d)
	}
}

func TestCheckCycles_DeepChain(t *testing.T) {
	const n = 5000
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("n%d", i)
	}
	nodes := make([]model.Node, n)
	edges := make([]model.Edge, 0, n)
	for i, id := range ids {
		nodes[i] = model.Node{ID: id, Type: "relay", Position: &model.Position{X: float64(i) * 200}}
		if i > 0 {
			edges = append(edges, edge(ids[i-1], "out", id, "in"))
		}
	}
	edges = append(edges, edge(ids[n-1], "out", ids[0], "in"))

	l := New(testRegistry(t))
	diags := l.Lint(&model.Graph{Nodes: nodes, Edges: edges})
	if got := countCode(diags, model.CodeCircularDependency); got != 1 {
		t.Errorf("circular-dependency count = %d, want 1", got)
	}
}

func TestCheckIsolated(t *testing.T) {
	l := New(testRegistry(t))
	g := &model.Graph{
		Nodes: append(relays("A", "B", "C"), model.Node{Type: "relay", Position: &model.Position{X: 1000}}),
		Edges: []model.Edge{edge("A", "out", "ghost", "in")},
	}
	var isolated []string
	for _, d := range l.Lint(g) {
		if d.Code == model.CodeIsolatedNode {
			isolated = append(isolated, d.ElementID)
		}
	}
	if diff := cmp.Diff([]string{"B", "C"}, isolated); diff != "" {
		t.Errorf("isolated nodes (-want +got):\n%s", diff)
	}
}

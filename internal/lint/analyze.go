package lint

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

// checkIsolated warns about nodes no edge touches. A single-node graph is
// never isolated.
func (p *pass) checkIsolated() {
	if len(p.graph.Nodes) <= 1 {
		return
	}
	connected := make(map[string]bool)
	for _, e := range p.graph.Edges {
		if e.Source != "" {
			connected[e.Source] = true
		}
		if e.Target != "" {
			connected[e.Target] = true
		}
	}
	for _, n := range p.graph.Nodes {
		if n.ID == "" || connected[n.ID] {
			continue
		}
		p.nodeIssue(model.SeverityWarning, model.CodeIsolatedNode, n.ID,
			fmt.Sprintf("Node %q is not connected to any other node", n.ID))
	}
}

// frame is one entry of the explicit depth-first search stack.
type frame struct {
	id   string
	next int // index of the next successor to visit
}

// checkCycles runs a depth-first search from each unvisited node in input
// order, following successors in edge order. Each root reports at most the
// first cycle it reaches.
func (p *pass) checkCycles() {
	adj := make(map[string][]string)
	for _, e := range p.graph.Edges {
		if p.nodes[e.Source] == nil || p.nodes[e.Target] == nil {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
	}

	visited := make(map[string]bool, len(p.nodes))
	for _, n := range p.graph.Nodes {
		if n.ID == "" || visited[n.ID] {
			continue
		}
		if cycle := findCycle(n.ID, adj, visited); cycle != nil {
			p.nodeIssue(model.SeverityError, model.CodeCircularDependency, cycle[0],
				"Circular dependency detected: "+strings.Join(cycle, " -> "))
		}
	}
}

// findCycle explores from root and returns the first cycle found as a path
// that starts and ends at the repeated node, or nil.
func findCycle(root string, adj map[string][]string, visited map[string]bool) []string {
	stack := []frame{{id: root}}
	onStack := map[string]bool{root: true}
	visited[root] = true

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		succ := adj[top.id]
		if top.next >= len(succ) {
			delete(onStack, top.id)
			stack = stack[:len(stack)-1]
			continue
		}
		next := succ[top.next]
		top.next++

		if onStack[next] {
			return cyclePath(stack, next)
		}
		if visited[next] {
			continue
		}
		visited[next] = true
		onStack[next] = true
		stack = append(stack, frame{id: next})
	}
	return nil
}

func cyclePath(stack []frame, repeated string) []string {
	start := slices.IndexFunc(stack, func(f frame) bool { return f.id == repeated })
	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.id)
	}
	return append(path, repeated)
}

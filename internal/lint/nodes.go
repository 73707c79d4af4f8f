package lint

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

// Nominal node footprint used for overlap detection.
const (
	nodeWidth  = 100
	nodeHeight = 50
)

// checkNodes runs the per-node structural checks in order.
func (p *pass) checkNodes() {
	seen := make(map[string]bool, len(p.graph.Nodes))
	for i := range p.graph.Nodes {
		n := &p.graph.Nodes[i]

		// Without an id nothing else can be attributed to the node.
		if n.ID == "" {
			p.nodeIssue(model.SeverityError, model.CodeMissingNodeID, "",
				fmt.Sprintf("Node at index %d is missing an id", i))
			continue
		}
		if seen[n.ID] {
			p.nodeIssue(model.SeverityError, model.CodeDuplicateNodeID, n.ID,
				fmt.Sprintf("Duplicate node id %q at index %d", n.ID, i))
		}
		seen[n.ID] = true

		contract, known := p.checkNodeType(n)
		p.checkPosition(n)
		if known {
			p.checkInputs(n, &contract)
			p.checkOutputs(n, &contract)
		}
		p.checkVersion(n)
		if p.mode.wholeGraph() {
			p.checkOverlap(i)
		}
	}
}

func (p *pass) checkNodeType(n *model.Node) (model.NodeTypeContract, bool) {
	if n.Type == "" {
		p.nodeIssue(model.SeverityError, model.CodeMissingNodeType, n.ID,
			fmt.Sprintf("Node %q is missing a type", n.ID))
		return model.NodeTypeContract{}, false
	}
	c, ok := p.registry.Contract(n.Type)
	if !ok {
		p.nodeIssue(model.SeverityError, model.CodeInvalidNodeType, n.ID,
			fmt.Sprintf("Node %q has unknown type %q", n.ID, n.Type))
	}
	return c, ok
}

func (p *pass) checkPosition(n *model.Node) {
	switch {
	case n.Position == nil:
		p.nodeIssue(model.SeverityError, model.CodeMissingNodePosition, n.ID,
			fmt.Sprintf("Node %q is missing a position", n.ID))
	case n.Position.Invalid || !isFinite(n.Position.X) || !isFinite(n.Position.Y):
		p.nodeIssue(model.SeverityError, model.CodeInvalidNodePosition, n.ID,
			fmt.Sprintf("Node %q has non-numeric position coordinates", n.ID))
	}
}

func (p *pass) checkInputs(n *model.Node, c *model.NodeTypeContract) {
	present := make(map[string]*model.Field, len(n.Inputs))
	for i := range n.Inputs {
		f := &n.Inputs[i]
		if f.ID != "" {
			if _, dup := present[f.ID]; !dup {
				present[f.ID] = f
			}
		}
	}

	for _, id := range c.RequiredInputs {
		f, ok := present[id]
		if !ok {
			p.fieldIssue(model.SeverityError, model.CodeMissingRequiredInput, n.ID, model.FieldInput, id,
				fmt.Sprintf("Node %q (%s) is missing required input %q", n.ID, n.Type, id))
			continue
		}
		if p.valueIsEmpty(f.Value) && !p.hasInboundEdge(n.ID, id) {
			p.fieldIssue(model.SeverityError, model.CodeRequiredInputEmpty, n.ID, model.FieldInput, id,
				fmt.Sprintf("Required input %q on node %q has no value and no incoming connection", id, n.ID))
		}
	}

	valid := make(map[string]bool)
	for _, id := range c.RequiredInputs {
		valid[id] = true
	}
	for _, id := range c.OptionalInputs {
		valid[id] = true
	}
	for _, id := range c.DynamicInputs(n) {
		valid[id] = true
	}

	for i, f := range n.Inputs {
		if f.ID == "" {
			p.fieldIssue(model.SeverityError, model.CodeMissingInputID, n.ID, model.FieldInput, "",
				fmt.Sprintf("Input at index %d on node %q is missing an id", i, n.ID))
			continue
		}
		if !valid[f.ID] {
			p.fieldIssue(model.SeverityWarning, model.CodeUnknownInput, n.ID, model.FieldInput, f.ID,
				fmt.Sprintf("Input %q is not declared by node type %q", f.ID, n.Type))
		}
	}
}

func (p *pass) checkOutputs(n *model.Node, c *model.NodeTypeContract) {
	for i, f := range n.Outputs {
		if f.ID == "" {
			p.fieldIssue(model.SeverityError, model.CodeMissingOutputID, n.ID, model.FieldOutput, "",
				fmt.Sprintf("Output at index %d on node %q is missing an id", i, n.ID))
		}
		if f.IsDeletedInvalid || (p.strictOutputs && f.IsDeleted == nil) {
			p.fieldIssue(model.SeverityError, model.CodeInvalidOutputIsDeleted, n.ID, model.FieldOutput, f.ID,
				fmt.Sprintf("Output at index %d on node %q must have a boolean isDeleted flag", i, n.ID))
		}
		if f.ID != "" && !c.HasOutput(f.ID) {
			p.fieldIssue(model.SeverityWarning, model.CodeUnknownOutput, n.ID, model.FieldOutput, f.ID,
				fmt.Sprintf("Output %q is not declared by node type %q", f.ID, n.Type))
		}
	}
}

// checkOverlap compares node i against every later positioned node, so each
// overlapping pair is reported once, on the earlier node.
func (p *pass) checkOverlap(i int) {
	n := &p.graph.Nodes[i]
	if !hasUsablePosition(n) {
		return
	}
	for j := i + 1; j < len(p.graph.Nodes); j++ {
		other := &p.graph.Nodes[j]
		if other.ID == "" || !hasUsablePosition(other) {
			continue
		}
		if overlaps(n.Position, other.Position) {
			p.nodeIssue(model.SeverityWarning, model.CodeNodePositionOverlap, n.ID,
				fmt.Sprintf("Node %q overlaps node %q", n.ID, other.ID))
		}
	}
}

// overlaps reports whether the footprints anchored at a and b intersect.
// Footprints that only touch along an edge do not overlap.
func overlaps(a, b *model.Position) bool {
	return math.Abs(a.X-b.X) < nodeWidth && math.Abs(a.Y-b.Y) < nodeHeight
}

func hasUsablePosition(n *model.Node) bool {
	return n.Position != nil && !n.Position.Invalid && isFinite(n.Position.X) && isFinite(n.Position.Y)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (p *pass) valueIsEmpty(v any) bool {
	if p.strictEmpty {
		return IsEmptyValue(v)
	}
	return v == nil
}

// IsEmptyValue reports whether v carries no usable data: nil, a blank string,
// or an empty list or object.
func IsEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

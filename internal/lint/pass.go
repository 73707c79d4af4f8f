package lint

import (
	"github.com/alfredjeanlab/flowlint/internal/model"
)

// pass holds the derived indexes for a single lint run. It is rebuilt on
// every call and never outlives it.
type pass struct {
	*Linter
	graph *model.Graph
	mode  Mode

	// nodes maps each id to its first occurrence.
	nodes map[string]*model.Node
	// inbound maps a target node id to the normalized handles of edges
	// pointing at it.
	inbound map[string][]string

	inputHandles  map[*model.Node]map[string]bool
	outputHandles map[*model.Node]map[string]bool

	diags []model.Diagnostic
}

func newPass(l *Linter, g *model.Graph, mode Mode) *pass {
	p := &pass{
		Linter:        l,
		graph:         g,
		mode:          mode,
		nodes:         make(map[string]*model.Node, len(g.Nodes)),
		inbound:       make(map[string][]string),
		inputHandles:  make(map[*model.Node]map[string]bool),
		outputHandles: make(map[*model.Node]map[string]bool),
		diags:         []model.Diagnostic{},
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.ID == "" {
			continue
		}
		if _, ok := p.nodes[n.ID]; !ok {
			p.nodes[n.ID] = n
		}
	}
	for _, e := range g.Edges {
		if e.Target == "" || e.TargetHandle == "" {
			continue
		}
		p.inbound[e.Target] = append(p.inbound[e.Target], model.NormalizeHandle(e.TargetHandle))
	}
	return p
}

func (p *pass) add(d model.Diagnostic) {
	p.diags = append(p.diags, d)
}

func (p *pass) nodeIssue(sev model.Severity, code model.Code, nodeID, msg string) {
	p.add(model.Diagnostic{
		Severity:    sev,
		Message:     msg,
		Code:        code,
		ElementID:   nodeID,
		ElementType: model.ElementNode,
	})
}

func (p *pass) fieldIssue(sev model.Severity, code model.Code, nodeID string, kind model.FieldKind, fieldID, msg string) {
	p.add(model.Diagnostic{
		Severity:    sev,
		Message:     msg,
		Code:        code,
		ElementID:   nodeID,
		ElementType: model.ElementNode,
		FieldID:     fieldID,
		FieldType:   kind,
	})
}

func (p *pass) edgeIssue(sev model.Severity, code model.Code, edgeID string, msg string) {
	p.add(model.Diagnostic{
		Severity:    sev,
		Message:     msg,
		Code:        code,
		ElementID:   edgeID,
		ElementType: model.ElementEdge,
	})
}

// hasInboundEdge reports whether any edge targets fieldID on nodeID.
func (p *pass) hasInboundEdge(nodeID, fieldID string) bool {
	for _, h := range p.inbound[nodeID] {
		if model.HandleRefersTo(h, fieldID) {
			return true
		}
	}
	return false
}

// validInputs is the set of input handles n accepts: its contract's inputs,
// any dynamically declared parameters, and the inputs present on the node.
func (p *pass) validInputs(n *model.Node) map[string]bool {
	if set, ok := p.inputHandles[n]; ok {
		return set
	}
	set := make(map[string]bool)
	if c, ok := p.registry.Contract(n.Type); ok {
		for _, id := range c.RequiredInputs {
			set[id] = true
		}
		for _, id := range c.OptionalInputs {
			set[id] = true
		}
		for _, id := range c.DynamicInputs(n) {
			set[id] = true
		}
	}
	for _, f := range n.Inputs {
		if f.ID != "" {
			set[f.ID] = true
		}
	}
	p.inputHandles[n] = set
	return set
}

// validOutputs is the set of output handles n exposes: its contract's
// outputs and the outputs present on the node.
func (p *pass) validOutputs(n *model.Node) map[string]bool {
	if set, ok := p.outputHandles[n]; ok {
		return set
	}
	set := make(map[string]bool)
	if c, ok := p.registry.Contract(n.Type); ok {
		for _, id := range c.Outputs {
			set[id] = true
		}
	}
	for _, f := range n.Outputs {
		if f.ID != "" {
			set[f.ID] = true
		}
	}
	p.outputHandles[n] = set
	return set
}

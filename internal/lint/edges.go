package lint

import (
	"fmt"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

// EdgeID is the element id diagnostics use for the edge at index i. Compact
// graphs do not carry edge ids, so edges are identified by position.
func EdgeID(i int) string {
	return fmt.Sprintf("edge-%d", i)
}

// checkEdges validates each edge's endpoints and handles independently.
func (p *pass) checkEdges() {
	for i, e := range p.graph.Edges {
		id := EdgeID(i)

		if e.Source == "" {
			p.edgeIssue(model.SeverityError, model.CodeMissingEdgeSource, id,
				fmt.Sprintf("Edge %d is missing a source node", i))
		}
		if e.SourceHandle == "" {
			p.edgeIssue(model.SeverityError, model.CodeMissingEdgeSourceHandle, id,
				fmt.Sprintf("Edge %d is missing a source handle", i))
		}
		if e.Target == "" {
			p.edgeIssue(model.SeverityError, model.CodeMissingEdgeTarget, id,
				fmt.Sprintf("Edge %d is missing a target node", i))
		}
		if e.TargetHandle == "" {
			p.edgeIssue(model.SeverityError, model.CodeMissingEdgeTargetHandle, id,
				fmt.Sprintf("Edge %d is missing a target handle", i))
		}

		var src, tgt *model.Node
		if e.Source != "" {
			if src = p.nodes[e.Source]; src == nil {
				p.edgeIssue(model.SeverityError, model.CodeInvalidEdgeSourceNode, id,
					fmt.Sprintf("Edge %d references unknown source node %q", i, e.Source))
			}
		}
		if e.Target != "" {
			if tgt = p.nodes[e.Target]; tgt == nil {
				p.edgeIssue(model.SeverityError, model.CodeInvalidEdgeTargetNode, id,
					fmt.Sprintf("Edge %d references unknown target node %q", i, e.Target))
			}
		}

		if src != nil && e.SourceHandle != "" {
			h := model.NormalizeHandle(e.SourceHandle)
			if !p.validOutputs(src)[h] {
				p.add(model.Diagnostic{
					Severity:    model.SeverityError,
					Message:     fmt.Sprintf("Edge %d source handle %q is not an output of node %q", i, h, src.ID),
					Code:        model.CodeInvalidEdgeSourceHandle,
					ElementID:   id,
					ElementType: model.ElementEdge,
					FieldID:     h,
					FieldType:   model.FieldOutput,
				})
			}
		}
		if tgt != nil && e.TargetHandle != "" {
			h := model.NormalizeHandle(e.TargetHandle)
			if !p.validInputs(tgt)[h] {
				p.add(model.Diagnostic{
					Severity:    model.SeverityError,
					Message:     fmt.Sprintf("Edge %d target handle %q is not an input of node %q", i, h, tgt.ID),
					Code:        model.CodeInvalidEdgeTargetHandle,
					ElementID:   id,
					ElementType: model.ElementEdge,
					FieldID:     h,
					FieldType:   model.FieldInput,
				})
			}
		}
	}
}

package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

// The full view is decoded with the same rules as model.Graph: a malformed
// attribute decodes to its zero value (or is flagged invalid) so the linter
// reports it, and a nodes, edges, inputs or outputs attribute that is not an
// array stays nil. Core attributes are decoded by the model types themselves.

// UnmarshalJSON decodes a full graph.
func (g *FullGraph) UnmarshalJSON(data []byte) error {
	*g = FullGraph{}
	raw, ok := rawObject(data)
	if !ok {
		return nil
	}
	if v, ok := raw["schemaVersion"]; ok {
		var n float64
		if err := json.Unmarshal(v, &n); err == nil {
			g.SchemaVersion = int(n)
		}
	}
	if elems, ok := rawArray(raw["nodes"]); ok {
		g.Nodes = make([]FullNode, len(elems))
		for i, e := range elems {
			if err := g.Nodes[i].UnmarshalJSON(e); err != nil {
				return fmt.Errorf("node %d: %w", i, err)
			}
		}
	}
	if elems, ok := rawArray(raw["edges"]); ok {
		g.Edges = make([]FullEdge, len(elems))
		for i, e := range elems {
			if err := g.Edges[i].UnmarshalJSON(e); err != nil {
				return fmt.Errorf("edge %d: %w", i, err)
			}
		}
	}
	if v, ok := raw["viewport"]; ok && !isNull(v) {
		var vp Viewport
		if err := json.Unmarshal(v, &vp); err == nil {
			g.Viewport = &vp
		}
	}
	return nil
}

// UnmarshalJSON decodes a node and its display attributes.
func (n *FullNode) UnmarshalJSON(data []byte) error {
	*n = FullNode{}
	var core model.Node
	if err := core.UnmarshalJSON(data); err != nil {
		return err
	}
	raw, ok := rawObject(data)
	if !ok {
		return nil
	}
	n.ID = core.ID
	n.Type = core.Type
	n.Version = core.Version
	n.Position = core.Position
	n.Label = stringAttr(raw, "label")
	n.Description = stringAttr(raw, "description")
	n.Width = numberAttr(raw, "width")
	n.Height = numberAttr(raw, "height")
	n.Selected = boolAttr(raw, "selected")

	if elems, ok := rawArray(raw["inputs"]); ok {
		n.Inputs = make([]FullInput, len(elems))
		for i, e := range elems {
			if err := n.Inputs[i].UnmarshalJSON(e); err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
		}
	}
	if elems, ok := rawArray(raw["outputs"]); ok {
		n.Outputs = make([]FullOutput, len(elems))
		for i, e := range elems {
			if err := n.Outputs[i].UnmarshalJSON(e); err != nil {
				return fmt.Errorf("output %d: %w", i, err)
			}
		}
	}
	return nil
}

// UnmarshalJSON decodes an input field and its form metadata.
func (in *FullInput) UnmarshalJSON(data []byte) error {
	var f model.Field
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*in = FullInput{ID: f.ID, Value: f.Value}
	raw, ok := rawObject(data)
	if !ok {
		return nil
	}
	in.Label = stringAttr(raw, "label")
	in.Kind = stringAttr(raw, "kind")
	in.Placeholder = stringAttr(raw, "placeholder")
	in.Hidden = boolAttr(raw, "hidden")
	return nil
}

// UnmarshalJSON decodes an output field. A non-boolean isDeleted sets
// IsDeletedInvalid.
func (out *FullOutput) UnmarshalJSON(data []byte) error {
	var f model.Field
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*out = FullOutput{ID: f.ID, IsDeleted: f.IsDeleted, IsDeletedInvalid: f.IsDeletedInvalid}
	raw, ok := rawObject(data)
	if !ok {
		return nil
	}
	out.Label = stringAttr(raw, "label")
	out.Kind = stringAttr(raw, "kind")
	return nil
}

// UnmarshalJSON decodes an edge and its editor attributes.
func (e *FullEdge) UnmarshalJSON(data []byte) error {
	var core model.Edge
	if err := core.UnmarshalJSON(data); err != nil {
		return err
	}
	*e = FullEdge{
		Source:       core.Source,
		SourceHandle: core.SourceHandle,
		Target:       core.Target,
		TargetHandle: core.TargetHandle,
	}
	raw, ok := rawObject(data)
	if !ok {
		return nil
	}
	e.ID = stringAttr(raw, "id")
	e.Animated = boolAttr(raw, "animated")
	return nil
}

func rawObject(data []byte) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, false
	}
	return raw, true
}

func rawArray(data json.RawMessage) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, false
	}
	if elems == nil {
		elems = []json.RawMessage{}
	}
	return elems, true
}

func isNull(data json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// stringAttr, numberAttr and boolAttr return the zero value when key is
// absent or holds another JSON type.
func stringAttr(raw map[string]json.RawMessage, key string) string {
	var s string
	if v, ok := raw[key]; ok {
		_ = json.Unmarshal(v, &s)
	}
	return s
}

func numberAttr(raw map[string]json.RawMessage, key string) float64 {
	var f float64
	if v, ok := raw[key]; ok {
		_ = json.Unmarshal(v, &f)
	}
	return f
}

func boolAttr(raw map[string]json.RawMessage, key string) bool {
	var b bool
	if v, ok := raw[key]; ok {
		_ = json.Unmarshal(v, &b)
	}
	return b
}

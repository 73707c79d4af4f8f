package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// SchemaVersionVersioned is the first graph schema revision whose nodes carry
// a version tag. Graphs below it skip node version checks.
const SchemaVersionVersioned = 2

// Graph is the compact (storage) view of a workflow submitted for linting.
//
// A nil Nodes or Edges slice means the attribute was absent from the input or
// was not an array. An empty, non-nil slice is a well-formed empty list.
type Graph struct {
	SchemaVersion int    `json:"schemaVersion,omitempty"`
	Nodes         []Node `json:"nodes"`
	Edges         []Edge `json:"edges"`
}

// Node is one workflow step.
type Node struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Version  string    `json:"version,omitempty"`
	Position *Position `json:"position,omitempty"`
	Inputs   []Field   `json:"inputs"`
	Outputs  []Field   `json:"outputs"`
}

// Position anchors a node on the editor canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Invalid is set during decoding when a coordinate was missing,
	// non-numeric, or not finite.
	Invalid bool `json:"-"`
}

// Field is an input or output descriptor attached to a node.
// Value is only meaningful for inputs and IsDeleted only for outputs.
type Field struct {
	ID        string `json:"id"`
	Value     any    `json:"value,omitempty"`
	IsDeleted *bool  `json:"isDeleted,omitempty"`

	// IsDeletedInvalid is set during decoding when isDeleted was present
	// but not a boolean.
	IsDeletedInvalid bool `json:"-"`
}

// Edge connects an output field of Source to an input field of Target.
type Edge struct {
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle"`
}

// DecodeGraph parses a compact graph document. Invalid JSON is an error. A
// document that is valid JSON but not an object (including null) yields a nil
// graph, which the linter reports as invalid flow data.
func DecodeGraph(data []byte) (*Graph, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("decode graph: invalid JSON")
	}
	if !isJSONObject(data) {
		return nil, nil
	}
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	return &g, nil
}

// UnmarshalJSON decodes a graph, leaving Nodes or Edges nil when the
// corresponding attribute is absent or not an array.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = Graph{}
	if v, ok := raw["schemaVersion"]; ok {
		var n float64
		if err := json.Unmarshal(v, &n); err == nil {
			g.SchemaVersion = int(n)
		}
	}
	if elems, ok := decodeArray(raw["nodes"]); ok {
		g.Nodes = make([]Node, len(elems))
		for i, e := range elems {
			if err := g.Nodes[i].UnmarshalJSON(e); err != nil {
				return fmt.Errorf("node %d: %w", i, err)
			}
		}
	}
	if elems, ok := decodeArray(raw["edges"]); ok {
		g.Edges = make([]Edge, len(elems))
		for i, e := range elems {
			if err := g.Edges[i].UnmarshalJSON(e); err != nil {
				return fmt.Errorf("edge %d: %w", i, err)
			}
		}
	}
	return nil
}

// UnmarshalJSON decodes a node. Malformed nodes decode to their zero value so
// the linter can report them instead of failing the whole document.
func (n *Node) UnmarshalJSON(data []byte) error {
	*n = Node{}
	raw, ok := decodeObject(data)
	if !ok {
		return nil
	}
	n.ID = stringAttr(raw, "id")
	n.Type = stringAttr(raw, "type")
	n.Version = stringAttr(raw, "version")
	if v, ok := raw["position"]; ok && !isJSONNull(v) {
		n.Position = decodePosition(v)
	}
	n.Inputs = decodeFields(raw["inputs"])
	n.Outputs = decodeFields(raw["outputs"])
	return nil
}

// UnmarshalJSON decodes a field descriptor.
func (f *Field) UnmarshalJSON(data []byte) error {
	*f = Field{}
	raw, ok := decodeObject(data)
	if !ok {
		return nil
	}
	f.ID = stringAttr(raw, "id")
	if v, ok := raw["value"]; ok {
		if err := json.Unmarshal(v, &f.Value); err != nil {
			return err
		}
	}
	if v, ok := raw["isDeleted"]; ok && !isJSONNull(v) {
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			f.IsDeletedInvalid = true
		} else {
			f.IsDeleted = &b
		}
	}
	return nil
}

// UnmarshalJSON decodes an edge.
func (e *Edge) UnmarshalJSON(data []byte) error {
	*e = Edge{}
	raw, ok := decodeObject(data)
	if !ok {
		return nil
	}
	e.Source = stringAttr(raw, "source")
	e.SourceHandle = stringAttr(raw, "sourceHandle")
	e.Target = stringAttr(raw, "target")
	e.TargetHandle = stringAttr(raw, "targetHandle")
	return nil
}

func decodePosition(data []byte) *Position {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return &Position{Invalid: true}
	}
	x, okX := finite(raw["x"])
	y, okY := finite(raw["y"])
	return &Position{X: x, Y: y, Invalid: !okX || !okY}
}

func finite(v any) (float64, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// decodeFields returns nil when data is absent or not an array.
func decodeFields(data json.RawMessage) []Field {
	elems, ok := decodeArray(data)
	if !ok {
		return nil
	}
	fields := make([]Field, 0, len(elems))
	for _, e := range elems {
		var f Field
		if err := f.UnmarshalJSON(e); err != nil {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func decodeArray(data json.RawMessage) ([]json.RawMessage, bool) {
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

func decodeObject(data []byte) (map[string]json.RawMessage, bool) {
	if !isJSONObject(data) {
		return nil, false
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}
	return raw, true
}

// stringAttr returns the string value of key, or "" when it is absent or not
// a JSON string.
func stringAttr(raw map[string]json.RawMessage, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

func isJSONObject(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isJSONNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

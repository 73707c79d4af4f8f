// Package schema converts between the full editing view of a workflow graph
// and the compact view the linter and storage use.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

// Input kinds assigned by Expand.
const (
	KindRequired  = "required"
	KindOptional  = "optional"
	KindParameter = "parameter"
	KindCustom    = "custom"
	KindDeclared  = "declared"
)

// FullGraph is the editor's view of a workflow: the compact graph plus
// presentation metadata.
type FullGraph struct {
	SchemaVersion int        `json:"schemaVersion,omitempty"`
	Nodes         []FullNode `json:"nodes"`
	Edges         []FullEdge `json:"edges"`
	Viewport      *Viewport  `json:"viewport,omitempty"`
}

// Viewport is the editor camera.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// FullNode is a node with its display attributes.
type FullNode struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Version     string          `json:"version,omitempty"`
	Position    *model.Position `json:"position,omitempty"`
	Label       string          `json:"label"`
	Description string          `json:"description,omitempty"`
	Width       float64         `json:"width,omitempty"`
	Height      float64         `json:"height,omitempty"`
	Selected    bool            `json:"selected,omitempty"`
	Inputs      []FullInput     `json:"inputs"`
	Outputs     []FullOutput    `json:"outputs"`
}

// FullInput is an input field with its form metadata.
type FullInput struct {
	ID          string `json:"id"`
	Value       any    `json:"value,omitempty"`
	Label       string `json:"label"`
	Kind        string `json:"kind,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Hidden      bool   `json:"hidden,omitempty"`
}

// FullOutput is an output field with its display metadata.
type FullOutput struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Kind      string `json:"kind,omitempty"`
	IsDeleted *bool  `json:"isDeleted,omitempty"`

	// IsDeletedInvalid is set during decoding when isDeleted was present
	// but not a boolean.
	IsDeletedInvalid bool `json:"-"`
}

// FullEdge is an edge with its editor id.
type FullEdge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle"`
	Animated     bool   `json:"animated,omitempty"`
}

// DecodeFull parses a full graph document.
func DecodeFull(data []byte) (*FullGraph, error) {
	var g FullGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode full graph: %w", err)
	}
	return &g, nil
}

// IsFull reports whether data looks like a full graph: any node carries a
// label or any edge carries an id. Compact documents have neither.
func IsFull(data []byte) bool {
	var shape struct {
		Nodes []map[string]json.RawMessage `json:"nodes"`
		Edges []map[string]json.RawMessage `json:"edges"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(data), &shape); err != nil {
		return false
	}
	for _, n := range shape.Nodes {
		if _, ok := n["label"]; ok {
			return true
		}
	}
	for _, e := range shape.Edges {
		if _, ok := e["id"]; ok {
			return true
		}
	}
	return false
}

// Project drops presentation metadata. A nil node or edge list stays nil so
// the linter still reports it as absent.
func Project(g *FullGraph) *model.Graph {
	if g == nil {
		return nil
	}
	out := &model.Graph{SchemaVersion: g.SchemaVersion}
	if g.Nodes != nil {
		out.Nodes = make([]model.Node, len(g.Nodes))
		for i := range g.Nodes {
			out.Nodes[i] = projectNode(&g.Nodes[i])
		}
	}
	if g.Edges != nil {
		out.Edges = make([]model.Edge, len(g.Edges))
		for i, e := range g.Edges {
			out.Edges[i] = model.Edge{
				Source:       e.Source,
				SourceHandle: e.SourceHandle,
				Target:       e.Target,
				TargetHandle: e.TargetHandle,
			}
		}
	}
	return out
}

func projectNode(n *FullNode) model.Node {
	out := model.Node{
		ID:      n.ID,
		Type:    n.Type,
		Version: n.Version,
	}
	if n.Position != nil {
		p := *n.Position
		out.Position = &p
	}
	if n.Inputs != nil {
		out.Inputs = make([]model.Field, len(n.Inputs))
		for i, f := range n.Inputs {
			out.Inputs[i] = model.Field{ID: f.ID, Value: f.Value}
		}
	}
	if n.Outputs != nil {
		out.Outputs = make([]model.Field, len(n.Outputs))
		for i, f := range n.Outputs {
			out.Outputs[i] = model.Field{ID: f.ID, IsDeleted: f.IsDeleted, IsDeletedInvalid: f.IsDeletedInvalid}
		}
	}
	return out
}

// ContractSource resolves node-type contracts. *registry.Registry
// satisfies it.
type ContractSource interface {
	Contract(typ string) (model.NodeTypeContract, bool)
}

// Expand builds the full view of g. Labels are derived from type and field
// ids, field kinds from the node's contract, and edge ids from the edge's
// endpoints. contracts may be nil, in which case every field is custom.
func Expand(g *model.Graph, contracts ContractSource) *FullGraph {
	if g == nil {
		return nil
	}
	out := &FullGraph{SchemaVersion: g.SchemaVersion}
	if g.Nodes != nil {
		out.Nodes = make([]FullNode, len(g.Nodes))
		for i := range g.Nodes {
			out.Nodes[i] = expandNode(&g.Nodes[i], contracts)
		}
	}
	if g.Edges != nil {
		out.Edges = make([]FullEdge, len(g.Edges))
		for i, e := range g.Edges {
			out.Edges[i] = FullEdge{
				ID:           EdgeID(e),
				Source:       e.Source,
				SourceHandle: e.SourceHandle,
				Target:       e.Target,
				TargetHandle: e.TargetHandle,
			}
		}
	}
	return out
}

func expandNode(n *model.Node, contracts ContractSource) FullNode {
	var (
		contract model.NodeTypeContract
		known    bool
	)
	if contracts != nil {
		contract, known = contracts.Contract(n.Type)
	}

	out := FullNode{
		ID:      n.ID,
		Type:    n.Type,
		Version: n.Version,
		Label:   Label(n.Type),
	}
	if n.Position != nil {
		p := *n.Position
		out.Position = &p
	}
	if n.Inputs != nil {
		params := make(map[string]bool)
		for _, name := range contract.DynamicInputs(n) {
			params[name] = true
		}
		out.Inputs = make([]FullInput, len(n.Inputs))
		for i, f := range n.Inputs {
			out.Inputs[i] = FullInput{
				ID:    f.ID,
				Value: f.Value,
				Label: Label(f.ID),
				Kind:  inputKind(&contract, known, params, f.ID),
			}
		}
	}
	if n.Outputs != nil {
		out.Outputs = make([]FullOutput, len(n.Outputs))
		for i, f := range n.Outputs {
			kind := KindCustom
			if known && contract.HasOutput(f.ID) {
				kind = KindDeclared
			}
			out.Outputs[i] = FullOutput{ID: f.ID, Label: Label(f.ID), Kind: kind, IsDeleted: f.IsDeleted, IsDeletedInvalid: f.IsDeletedInvalid}
		}
	}
	return out
}

func inputKind(c *model.NodeTypeContract, known bool, params map[string]bool, id string) string {
	switch {
	case !known:
		return KindCustom
	case c.IsRequired(id):
		return KindRequired
	case c.HasInput(id):
		return KindOptional
	case params[id]:
		return KindParameter
	}
	return KindCustom
}

// EdgeID derives the editor id of a compact edge.
func EdgeID(e model.Edge) string {
	return strings.Join([]string{"e", e.Source, e.SourceHandle, e.Target, e.TargetHandle}, "-")
}

// Label turns an identifier such as "moving_average" or "take-profit" into
// a display label ("Moving Average", "Take Profit").
func Label(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}

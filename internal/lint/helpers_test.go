package lint

import (
	"testing"

	"github.com/alfredjeanlab/flowlint/internal/model"
	"github.com/alfredjeanlab/flowlint/internal/registry"
)

// testRegistry returns a small registry covering every contract shape.
func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r, err := registry.New(
		model.NodeTypeContract{
			Type:           "source",
			Category:       model.CategoryInput,
			OptionalInputs: []string{"symbol"},
			Outputs:        []string{"price", "volume"},
		},
		model.NodeTypeContract{
			Type:           "average",
			Category:       model.CategoryCompute,
			RequiredInputs: []string{"input", "period"},
			OptionalInputs: []string{"kind"},
			Outputs:        []string{"value"},
		},
		model.NodeTypeContract{
			Type:           "relay",
			Category:       model.CategoryCompute,
			OptionalInputs: []string{"in"},
			Outputs:        []string{"out"},
		},
		model.NodeTypeContract{
			Type:           "script",
			Category:       model.CategoryCompute,
			RequiredInputs: []string{"code"},
			OptionalInputs: []string{"parameters"},
			Outputs:        []string{"result"},
			ParamListInput: "parameters",
		},
		model.NodeTypeContract{
			Type:           "sink",
			Category:       model.CategoryOutput,
			OptionalInputs: []string{"value"},
		},
	)
	if err != nil {
		t.Fatalf("building test registry: %v", err)
	}
	return r
}

// node returns a positioned node with the given inputs and no outputs.
func node(id, typ string, x, y float64, inputs ...model.Field) model.Node {
	return model.Node{
		ID:       id,
		Type:     typ,
		Position: &model.Position{X: x, Y: y},
		Inputs:   inputs,
		Outputs:  []model.Field{},
	}
}

func in(id string, value any) model.Field {
	return model.Field{ID: id, Value: value}
}

func edge(source, sourceHandle, target, targetHandle string) model.Edge {
	return model.Edge{Source: source, SourceHandle: sourceHandle, Target: target, TargetHandle: targetHandle}
}

func codesOf(diags []model.Diagnostic) []model.Code {
	out := make([]model.Code, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func countCode(diags []model.Diagnostic, code model.Code) int {
	n := 0
	for _, d := range diags {
		if d.Code == code {
			n++
		}
	}
	return n
}

func findCode(t *testing.T, diags []model.Diagnostic, code model.Code) model.Diagnostic {
	t.Helper()
	for _, d := range diags {
		if d.Code == code {
			return d
		}
	}
	t.Fatalf("no %s diagnostic in %v", code, codesOf(diags))
	return model.Diagnostic{}
}

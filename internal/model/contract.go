package model

// Category groups node types by the role they play in a workflow.
type Category string

const (
	CategoryInput   Category = "input"
	CategoryCompute Category = "compute"
	CategoryTrade   Category = "trade"
	CategoryOutput  Category = "output"
)

// IsValid reports whether the category is one of the known values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryInput, CategoryCompute, CategoryTrade, CategoryOutput:
		return true
	}
	return false
}

// NodeTypeContract declares the inputs and outputs a node type accepts.
type NodeTypeContract struct {
	Type           string   `json:"type" toml:"type"`
	Category       Category `json:"category" toml:"category"`
	RequiredInputs []string `json:"requiredInputs" toml:"required"`
	OptionalInputs []string `json:"optionalInputs" toml:"optional"`
	Outputs        []string `json:"outputs" toml:"outputs"`

	// ParamListInput names the input whose value declares additional,
	// dynamically named inputs. Empty for most node types.
	ParamListInput string `json:"paramListInput,omitempty" toml:"param_list"`
}

// HasInput reports whether id is a required or optional input.
func (c *NodeTypeContract) HasInput(id string) bool {
	return contains(c.RequiredInputs, id) || contains(c.OptionalInputs, id)
}

// IsRequired reports whether id is a required input.
func (c *NodeTypeContract) IsRequired(id string) bool {
	return contains(c.RequiredInputs, id)
}

// DynamicInputs returns the parameter names n declares through the
// contract's parameter-list input, or nil when the type has none.
func (c *NodeTypeContract) DynamicInputs(n *Node) []string {
	if c.ParamListInput == "" {
		return nil
	}
	for _, f := range n.Inputs {
		if f.ID == c.ParamListInput {
			return ParamNames(f.Value)
		}
	}
	return nil
}

// ParamNames extracts the distinct names from a parameter list value. Entries
// are either strings or objects with a string "name"; anything else is
// skipped.
func ParamNames(v any) []string {
	var items []any
	switch list := v.(type) {
	case []any:
		items = list
	case []string:
		for _, s := range list {
			items = append(items, s)
		}
	default:
		return nil
	}

	seen := make(map[string]bool)
	var names []string
	for _, item := range items {
		var name string
		switch it := item.(type) {
		case string:
			name = it
		case map[string]any:
			name, _ = it["name"].(string)
		}
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// HasOutput reports whether id is a declared output.
func (c *NodeTypeContract) HasOutput(id string) bool {
	return contains(c.Outputs, id)
}

// Clone returns a deep copy of the contract.
func (c NodeTypeContract) Clone() NodeTypeContract {
	c.RequiredInputs = cloneStrings(c.RequiredInputs)
	c.OptionalInputs = cloneStrings(c.OptionalInputs)
	c.Outputs = cloneStrings(c.Outputs)
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Package registry holds the immutable table of node-type contracts the
// linter checks graphs against.
package registry

import (
	"fmt"
	"sort"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

// Registry maps node-type identifiers to their contracts. A Registry is never
// mutated after construction and is safe for concurrent use.
type Registry struct {
	contracts map[string]model.NodeTypeContract
	types     []string
}

// New validates the given contracts and returns a registry holding copies of
// them. Duplicate types and invalid contracts are rejected.
func New(contracts ...model.NodeTypeContract) (*Registry, error) {
	r := &Registry{
		contracts: make(map[string]model.NodeTypeContract, len(contracts)),
		types:     make([]string, 0, len(contracts)),
	}
	for i := range contracts {
		c := contracts[i].Clone()
		if err := model.ValidateContract(&c); err != nil {
			return nil, fmt.Errorf("node type %d (%q): %w", i, c.Type, err)
		}
		if _, dup := r.contracts[c.Type]; dup {
			return nil, fmt.Errorf("duplicate node type %q", c.Type)
		}
		r.contracts[c.Type] = c
		r.types = append(r.types, c.Type)
	}
	sort.Strings(r.types)
	return r, nil
}

// Contract returns a copy of the contract for typ.
func (r *Registry) Contract(typ string) (model.NodeTypeContract, bool) {
	c, ok := r.contracts[typ]
	if !ok {
		return model.NodeTypeContract{}, false
	}
	return c.Clone(), true
}

// Has reports whether typ is a registered node type.
func (r *Registry) Has(typ string) bool {
	_, ok := r.contracts[typ]
	return ok
}

// Types returns the registered node types in sorted order.
func (r *Registry) Types() []string {
	return append([]string(nil), r.types...)
}

// Contracts returns copies of all contracts, sorted by type.
func (r *Registry) Contracts() []model.NodeTypeContract {
	out := make([]model.NodeTypeContract, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, r.contracts[t].Clone())
	}
	return out
}

// Len returns the number of registered node types.
func (r *Registry) Len() int {
	return len(r.types)
}

package server

import (
	"net/http"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

// handleListNodeTypes handles GET /v1/node-types.
func (s *LintServer) handleListNodeTypes(w http.ResponseWriter, r *http.Request) {
	contracts := s.linter.Registry().Contracts()
	if cat := model.Category(r.URL.Query().Get("category")); cat != "" {
		if !cat.IsValid() {
			writeError(w, http.StatusBadRequest, "unknown category "+string(cat))
			return
		}
		filtered := contracts[:0]
		for _, c := range contracts {
			if c.Category == cat {
				filtered = append(filtered, c)
			}
		}
		contracts = filtered
	}
	if contracts == nil {
		contracts = []model.NodeTypeContract{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"node_types": contracts,
		"total":      len(contracts),
	})
}

// handleGetNodeType handles GET /v1/node-types/{type}.
func (s *LintServer) handleGetNodeType(w http.ResponseWriter, r *http.Request) {
	typ := r.PathValue("type")
	c, ok := s.linter.NodeTypeContract(typ)
	if !ok {
		writeError(w, http.StatusNotFound, "node type not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

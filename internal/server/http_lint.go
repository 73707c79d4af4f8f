package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/alfredjeanlab/flowlint/internal/lint"
	"github.com/alfredjeanlab/flowlint/internal/model"
	"github.com/alfredjeanlab/flowlint/internal/schema"
)

// handleLint handles POST /v1/lint. The optional mode query parameter
// selects flow or node checks; without it the linter's configured mode
// applies. strict_outputs and strict_empty turn on the matching linter
// options for this request only.
func (s *LintServer) handleLint(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("mode")
	if name == "" {
		s.serveLint(w, r, s.linter.Mode())
		return
	}
	mode, err := lint.ParseMode(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.serveLint(w, r, mode)
}

// handleLintNode handles POST /v1/lint/node.
func (s *LintServer) handleLintNode(w http.ResponseWriter, r *http.Request) {
	s.serveLint(w, r, lint.ModeNode)
}

func (s *LintServer) serveLint(w http.ResponseWriter, r *http.Request, mode lint.Mode) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	l, err := s.requestLinter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.lintDocument(r.Context(), l, body, mode)
	if err != nil {
		var ie inputError
		if errors.As(err, &ie) {
			writeError(w, http.StatusBadRequest, ie.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// requestLinter layers the strict query flags over the server's linter.
// A false flag leaves the server's own setting in place.
func (s *LintServer) requestLinter(r *http.Request) (*lint.Linter, error) {
	q := r.URL.Query()
	var opts []lint.Option
	for _, f := range []struct {
		name string
		opt  lint.Option
	}{
		{"strict_outputs", lint.WithStrictOutputs()},
		{"strict_empty", lint.WithStrictEmptyInputs()},
	} {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		on, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: must be a boolean", f.name, v)
		}
		if on {
			opts = append(opts, f.opt)
		}
	}
	if len(opts) == 0 {
		return s.linter, nil
	}
	return s.linter.With(opts...), nil
}

// handleExpand handles POST /v1/expand: it converts a compact graph into the
// full editor view using the server's registry.
func (s *LintServer) handleExpand(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	g, err := model.DecodeGraph(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if g == nil {
		writeError(w, http.StatusBadRequest, "graph must be a JSON object")
		return
	}
	writeJSON(w, http.StatusOK, schema.Expand(g, s.linter.Registry()))
}

// readBody reads at most maxBodyBytes of the request body, writing an error
// response and returning false on failure.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "failed to read request body")
		}
		return nil, false
	}
	return body, true
}

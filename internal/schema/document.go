package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

// DecodeDocument decides once whether data is a compact or full graph and
// returns its compact view along with model.SchemaCompact or
// model.SchemaFull. Invalid JSON is an error; a document that is valid JSON
// but not an object yields a nil graph.
func DecodeDocument(data []byte) (*model.Graph, string, error) {
	if !json.Valid(data) {
		return nil, "", fmt.Errorf("decode graph: invalid JSON")
	}
	if IsFull(data) {
		full, err := DecodeFull(data)
		if err != nil {
			return nil, "", err
		}
		return Project(full), model.SchemaFull, nil
	}
	g, err := model.DecodeGraph(data)
	if err != nil {
		return nil, "", err
	}
	return g, model.SchemaCompact, nil
}

// YAMLToJSON converts a YAML graph document to JSON so it can go through
// DecodeDocument. JSON input is returned unchanged.
func YAMLToJSON(data []byte) ([]byte, error) {
	if json.Valid(data) {
		return data, nil
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	doc, err := jsonCompatible(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode yaml as json: %w", err)
	}
	return buf.Bytes(), nil
}

// jsonCompatible rewrites YAML mappings with non-string keys, which
// encoding/json rejects.
func jsonCompatible(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			c, err := jsonCompatible(e)
			if err != nil {
				return nil, err
			}
			t[k] = c
		}
		return t, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			c, err := jsonCompatible(e)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(k)] = c
		}
		return out, nil
	case []any:
		for i, e := range t {
			c, err := jsonCompatible(e)
			if err != nil {
				return nil, err
			}
			t[i] = c
		}
		return t, nil
	}
	return v, nil
}

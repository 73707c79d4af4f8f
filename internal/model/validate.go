package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateContract checks a NodeTypeContract for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the contract is valid.
func ValidateContract(c *NodeTypeContract) error {
	var ve ValidationError

	// Type: required, no surrounding whitespace.
	if strings.TrimSpace(c.Type) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "type", Message: "is required"})
	} else if strings.TrimSpace(c.Type) != c.Type {
		ve.Errors = append(ve.Errors, FieldError{Field: "type", Message: "must not have surrounding whitespace"})
	}

	// Category: closed set.
	if !c.Category.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "category",
			Message: fmt.Sprintf("invalid value %q", c.Category),
		})
	}

	// Input ids: non-empty and declared once across required and optional.
	seen := make(map[string]bool)
	for _, list := range []struct {
		field string
		ids   []string
	}{
		{"required", c.RequiredInputs},
		{"optional", c.OptionalInputs},
	} {
		for _, id := range list.ids {
			if id == "" {
				ve.Errors = append(ve.Errors, FieldError{Field: list.field, Message: "contains an empty input id"})
				continue
			}
			if seen[id] {
				ve.Errors = append(ve.Errors, FieldError{
					Field:   list.field,
					Message: fmt.Sprintf("input %q is declared more than once", id),
				})
			}
			seen[id] = true
		}
	}

	outputs := make(map[string]bool)
	for _, id := range c.Outputs {
		if id == "" {
			ve.Errors = append(ve.Errors, FieldError{Field: "outputs", Message: "contains an empty output id"})
			continue
		}
		if outputs[id] {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   "outputs",
				Message: fmt.Sprintf("output %q is declared more than once", id),
			})
		}
		outputs[id] = true
	}

	// ParamListInput must name one of the declared inputs.
	if c.ParamListInput != "" && !seen[c.ParamListInput] {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "param_list",
			Message: fmt.Sprintf("input %q is not declared", c.ParamListInput),
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

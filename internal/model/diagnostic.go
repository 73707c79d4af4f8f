package model

import "fmt"

// Severity is the level of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ElementType identifies the kind of graph element a diagnostic refers to.
type ElementType string

const (
	ElementNode ElementType = "node"
	ElementEdge ElementType = "edge"
)

// FieldKind identifies whether a diagnostic refers to an input or an output.
type FieldKind string

const (
	FieldInput  FieldKind = "input"
	FieldOutput FieldKind = "output"
)

// Code is a stable, machine-readable diagnostic identifier. Consumers match
// on these strings, so they must never change.
type Code string

const (
	CodeInvalidFlowData   Code = "invalid-flow-data"
	CodeMissingNodesArray Code = "missing-nodes-array"
	CodeMissingEdgesArray Code = "missing-edges-array"

	CodeMissingNodeID       Code = "missing-node-id"
	CodeDuplicateNodeID     Code = "duplicate-node-id"
	CodeMissingNodeType     Code = "missing-node-type"
	CodeInvalidNodeType     Code = "invalid-node-type"
	CodeMissingNodePosition Code = "missing-node-position"
	CodeInvalidNodePosition Code = "invalid-node-position"

	CodeMissingRequiredInput    Code = "missing-required-input"
	CodeRequiredInputEmpty      Code = "required-input-empty"
	CodeMissingInputID          Code = "missing-input-id"
	CodeUnknownInput            Code = "unknown-input"
	CodeMissingOutputID         Code = "missing-output-id"
	CodeInvalidOutputIsDeleted  Code = "invalid-output-isdeleted"
	CodeUnknownOutput           Code = "unknown-output"
	CodeMissingNodeVersion      Code = "missing-node-version"
	CodeInvalidVersionSyntax    Code = "invalid-version-syntax"
	CodePrereleaseVersion       Code = "prerelease-version"
	CodeNodePositionOverlap     Code = "node-position-overlap"
	CodeMissingEdgeSource       Code = "missing-edge-source"
	CodeMissingEdgeSourceHandle Code = "missing-edge-sourcehandle"
	CodeMissingEdgeTarget       Code = "missing-edge-target"
	CodeMissingEdgeTargetHandle Code = "missing-edge-targethandle"
	CodeInvalidEdgeSourceNode   Code = "invalid-edge-source-node"
	CodeInvalidEdgeTargetNode   Code = "invalid-edge-target-node"
	CodeInvalidEdgeSourceHandle Code = "invalid-edge-source-handle"
	CodeInvalidEdgeTargetHandle Code = "invalid-edge-target-handle"
	CodeIsolatedNode            Code = "isolated-node"
	CodeCircularDependency      Code = "circular-dependency"
)

// Codes lists every diagnostic code in a stable order.
var Codes = []Code{
	CodeInvalidFlowData, CodeMissingNodesArray, CodeMissingEdgesArray,
	CodeMissingNodeID, CodeDuplicateNodeID, CodeMissingNodeType, CodeInvalidNodeType,
	CodeMissingNodePosition, CodeInvalidNodePosition,
	CodeMissingRequiredInput, CodeRequiredInputEmpty, CodeMissingInputID, CodeUnknownInput,
	CodeMissingOutputID, CodeInvalidOutputIsDeleted, CodeUnknownOutput,
	CodeMissingNodeVersion, CodeInvalidVersionSyntax, CodePrereleaseVersion,
	CodeNodePositionOverlap,
	CodeMissingEdgeSource, CodeMissingEdgeSourceHandle, CodeMissingEdgeTarget, CodeMissingEdgeTargetHandle,
	CodeInvalidEdgeSourceNode, CodeInvalidEdgeTargetNode, CodeInvalidEdgeSourceHandle, CodeInvalidEdgeTargetHandle,
	CodeIsolatedNode, CodeCircularDependency,
}

// IsValid reports whether c is one of the known codes.
func (c Code) IsValid() bool {
	for _, known := range Codes {
		if c == known {
			return true
		}
	}
	return false
}

// Diagnostic is one issue reported by the linter.
type Diagnostic struct {
	Severity    Severity    `json:"severity"`
	Message     string      `json:"message"`
	Code        Code        `json:"code"`
	ElementID   string      `json:"elementId,omitempty"`
	ElementType ElementType `json:"elementType,omitempty"`
	FieldID     string      `json:"fieldId,omitempty"`
	FieldType   FieldKind   `json:"fieldType,omitempty"`
}

// IsError reports whether the diagnostic has error severity.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
	if d.ElementID != "" {
		s += fmt.Sprintf(" (%s %s", d.ElementType, d.ElementID)
		if d.FieldID != "" {
			s += fmt.Sprintf(", %s %s", d.FieldType, d.FieldID)
		}
		s += ")"
	}
	return s
}

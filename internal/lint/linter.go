// Package lint validates workflow graphs against a node-type registry.
//
// Lint never fails: every problem, including a malformed top-level graph, is
// reported as a model.Diagnostic. A Linter holds no per-run state and is safe
// for concurrent use.
package lint

import (
	"fmt"
	"log/slog"

	"github.com/alfredjeanlab/flowlint/internal/model"
	"github.com/alfredjeanlab/flowlint/internal/registry"
)

// Mode selects how much of the graph is checked.
type Mode string

const (
	// ModeFlow runs structural, referential and whole-graph checks.
	ModeFlow Mode = "flow"
	// ModeNode runs structural checks only, for validating a node before it
	// is wired into a graph.
	ModeNode Mode = "node"
)

// ParseMode converts a user-supplied mode name. The empty string selects ModeFlow.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeFlow:
		return ModeFlow, nil
	case ModeNode:
		return ModeNode, nil
	}
	return "", fmt.Errorf("unknown lint mode %q (must be flow or node)", s)
}

func (m Mode) wholeGraph() bool {
	return m != ModeNode
}

// Option configures a Linter.
type Option func(*Linter)

// WithMode sets the default mode used by Lint.
func WithMode(m Mode) Option {
	return func(l *Linter) { l.mode = m }
}

// WithLogger sets the logger used for per-run debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Linter) { l.logger = logger }
}

// WithStrictOutputs applies the older schema rule under which every output
// must carry a boolean isDeleted flag.
func WithStrictOutputs() Option {
	return func(l *Linter) { l.strictOutputs = true }
}

// WithStrictEmptyInputs treats empty strings, lists and objects as missing
// values for required inputs, in addition to null.
func WithStrictEmptyInputs() Option {
	return func(l *Linter) { l.strictEmpty = true }
}

// Linter checks graphs against an immutable registry.
type Linter struct {
	registry      *registry.Registry
	mode          Mode
	logger        *slog.Logger
	strictOutputs bool
	strictEmpty   bool
}

// New returns a Linter for reg. A nil registry selects registry.Default().
func New(reg *registry.Registry, opts ...Option) *Linter {
	if reg == nil {
		reg = registry.Default()
	}
	l := &Linter{
		registry: reg,
		mode:     ModeFlow,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Mode returns the linter's default mode.
// With returns a copy of l with opts applied on top of its configuration.
func (l *Linter) With(opts ...Option) *Linter {
	c := *l
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

func (l *Linter) Mode() Mode {
	return l.mode
}

// Lint checks g in the linter's default mode.
func (l *Linter) Lint(g *model.Graph) []model.Diagnostic {
	return l.LintWithMode(g, l.mode)
}

// LintForNodeExecution checks g in ModeNode.
func (l *Linter) LintForNodeExecution(g *model.Graph) []model.Diagnostic {
	return l.LintWithMode(g, ModeNode)
}

// LintWithMode checks g in the given mode. The result is never nil, and is
// identical across calls for an unchanged graph and registry.
func (l *Linter) LintWithMode(g *model.Graph, mode Mode) []model.Diagnostic {
	if g == nil {
		return []model.Diagnostic{{
			Severity: model.SeverityError,
			Message:  "Flow data is missing or is not an object",
			Code:     model.CodeInvalidFlowData,
		}}
	}
	if g.Nodes == nil {
		return []model.Diagnostic{{
			Severity: model.SeverityError,
			Message:  "Flow data must contain a nodes array",
			Code:     model.CodeMissingNodesArray,
		}}
	}
	if g.Edges == nil {
		return []model.Diagnostic{{
			Severity: model.SeverityError,
			Message:  "Flow data must contain an edges array",
			Code:     model.CodeMissingEdgesArray,
		}}
	}

	p := newPass(l, g, mode)
	p.checkNodes()
	if mode.wholeGraph() {
		p.checkEdges()
		p.checkIsolated()
		p.checkCycles()
	}

	sum := Summarize(p.diags)
	l.logger.Debug("lint completed",
		"mode", mode,
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"errors", sum.Errors,
		"warnings", sum.Warnings,
	)
	return p.diags
}

// NodeTypeContract returns the registry contract for typ.
func (l *Linter) NodeTypeContract(typ string) (model.NodeTypeContract, bool) {
	return l.registry.Contract(typ)
}

// SupportedNodeTypes lists the registry's node types in sorted order.
func (l *Linter) SupportedNodeTypes() []string {
	return l.registry.Types()
}

// Registry returns the registry the linter checks against.
func (l *Linter) Registry() *registry.Registry {
	return l.registry
}

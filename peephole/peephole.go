// Package peephole implements the statement rewrites that shrink control flow. They are applied to a statement list when it is left by the resolution walk and again after constant folding. Every rewrite is local to a single statement list and never crosses a function or scope boundary.
package peephole

import (
	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/config"
)

// Simplifier rewrites statement lists.
type Simplifier struct {
	settings *config.Settings
	changed  bool
}

// New returns a simplifier applying the modifications allowed by settings.
func New(settings *config.Settings) *Simplifier {
	return &Simplifier{
		settings: settings,
	}
}

func (s *Simplifier) allowed(m config.Modification) bool {
	return s.settings.IsModificationAllowed(m)
}

// List simplifies the statements of a Program, Block or Case node and returns true if the tree changed. Nested blocks are spliced into the list first. Other statement lists nested in it must have been simplified before.
func (s *Simplifier) List(list *ast.Node) bool {
	s.changed = false
	s.flatten(list)
	for _, stmt := range snapshot(list) {
		s.statement(stmt)
	}
	// rewritten statements may leave blocks behind
	s.flatten(list)
	s.hoistElse(list)
	s.merge(list)
	if p := list.Parent(); list.Kind == ast.BlockNode && p != nil && p.Kind == ast.FunctionNode {
		s.functionBody(list)
	}
	return s.changed
}

// Walk simplifies every statement list below and including n, innermost first.
func (s *Simplifier) Walk(n *ast.Node) bool {
	changed := false
	ast.Walk(walker{s, &changed}, n)
	return changed
}

type walker struct {
	s       *Simplifier
	changed *bool
}

func (w walker) Enter(n *ast.Node) bool {
	return n.Kind != ast.LiteralNode && n.Kind != ast.LookupNode
}

func (w walker) Exit(n *ast.Node) {
	if n.Kind == ast.ProgramNode || n.Kind == ast.BlockNode || n.Kind == ast.CaseNode {
		if w.s.List(n) {
			*w.changed = true
		}
	}
}

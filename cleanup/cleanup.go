// Package cleanup removes the patterns that only appear after constant folding, such as branches on constant conditions and returns of undefined. Statement lists that changed are simplified again by the peephole rewrites.
package cleanup

import (
	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/config"
	"github.com/tdewolff/crunch/literal"
	"github.com/tdewolff/crunch/peephole"
)

// Cleaner rewrites statements with constant conditions.
type Cleaner struct {
	settings   *config.Settings
	simplifier *peephole.Simplifier

	dirty   map[*ast.Node]bool
	changed bool
}

// New returns a cleaner applying the modifications allowed by settings.
func New(settings *config.Settings) *Cleaner {
	return &Cleaner{
		settings:   settings,
		simplifier: peephole.New(settings),
	}
}

// Clean cleans up the tree below n and returns true if it changed.
func Clean(n *ast.Node, settings *config.Settings) bool {
	return New(settings).Walk(n)
}

// Walk cleans up the tree below n, innermost statements first.
func (c *Cleaner) Walk(n *ast.Node) bool {
	c.dirty = map[*ast.Node]bool{}
	c.changed = false
	ast.Walk(c, n)
	return c.changed
}

func (c *Cleaner) allowed(m config.Modification) bool {
	return c.settings.IsModificationAllowed(m)
}

// Enter implements ast.Visitor.
func (c *Cleaner) Enter(n *ast.Node) bool {
	return n.Kind != ast.LiteralNode && n.Kind != ast.LookupNode && n.Kind != ast.RegExpNode
}

// Exit implements ast.Visitor.
func (c *Cleaner) Exit(n *ast.Node) {
	switch n.Kind {
	case ast.IfNode:
		c.ifStatement(n)
	case ast.WhileNode:
		c.whileLoop(n)
	case ast.ForNode:
		if cond := n.Child(1); isTruthy(cond) && c.allowed(config.ConstantConditions) {
			// for(;1;) => for(;;)
			c.mark(n)
			ast.ReplaceChild(n, cond, nil)
		}
	case ast.ReturnNode:
		if v := n.Child(0); isVoid0(v) && c.allowed(config.RemoveEmptyBlocks) {
			// return void 0 => return
			c.mark(n)
			ast.ReplaceChild(n, v, nil)
		}
	case ast.ProgramNode, ast.BlockNode, ast.CaseNode:
		if c.dirty[n] {
			delete(c.dirty, n)
			if c.simplifier.List(n) {
				c.mark(n)
			}
		}
	}
}

// mark flags the statement list that contains n for another peephole pass.
func (c *Cleaner) mark(n *ast.Node) {
	c.changed = true
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind == ast.ProgramNode || p.Kind == ast.BlockNode || p.Kind == ast.CaseNode {
			c.dirty[p] = true
			return
		}
	}
}

func (c *Cleaner) ifStatement(n *ast.Node) {
	cond := n.Child(0)
	if !cond.IsLiteral() || !c.allowed(config.ConstantConditions) {
		return
	}
	truthy, err := literal.ToBoolean(cond.Value)
	if err != nil {
		return
	}
	taken, discarded := n.Child(1), n.Child(2)
	if !truthy {
		taken, discarded = discarded, taken
	}
	vars, ok := hoisted(discarded)
	if !ok {
		return
	}
	c.replace(n, vars, taken)
}

func (c *Cleaner) whileLoop(n *ast.Node) {
	cond := n.Child(0)
	if !cond.IsLiteral() || !c.allowed(config.ConstantConditions) {
		return
	} else if isTruthy(cond) {
		// while(1) => for(;;)
		loop := ast.New(ast.ForNode, nil, nil, nil, n.Child(1))
		loop.Span = n.Span
		c.replace(n, loop)
	} else if literal.IsOneOrPositiveZero(cond.Value) {
		// while(0) never runs its body
		if vars, ok := hoisted(n.Child(1)); ok {
			c.replace(n, vars)
		}
	}
}

// replace puts the statements in the place of n. A position that holds a single statement receives a block when more than one remains, or an empty statement when none does.
func (c *Cleaner) replace(n *ast.Node, stmts ...*ast.Node) {
	p := n.Parent()
	if p == nil {
		return
	}
	c.mark(n)
	i := p.IndexOf(n)
	if !p.IsFixed(i) {
		ast.Splice(p, n, stmts...)
		return
	}

	var list []*ast.Node
	for _, stmt := range stmts {
		if stmt != nil {
			list = append(list, stmt)
		}
	}
	switch len(list) {
	case 0:
		ast.ReplaceChild(p, n, ast.New(ast.EmptyNode))
	case 1:
		ast.ReplaceChild(p, n, list[0])
	default:
		ast.ReplaceChild(p, n, ast.New(ast.BlockNode, list...))
	}
}

// hoisted returns a var statement declaring the variables of n without their initializers, or nil if there are none. It returns false if n declares a function, whose binding cannot be kept without its body.
func hoisted(n *ast.Node) (*ast.Node, bool) {
	if n == nil {
		return nil, true
	}
	var decls []*ast.Node
	ok := true
	ast.Inspect(n, func(m *ast.Node) bool {
		switch m.Kind {
		case ast.FunctionNode:
			if !m.IsFunctionExpr() {
				ok = false
			}
			return false
		case ast.VarNode:
			if m.Name != "" {
				// let and const are scoped to the discarded statement
				return true
			}
			for _, decl := range m.Tail() {
				d := ast.NewVarDecl(decl.Name, decl.Field, nil)
				d.Span = decl.Span
				decls = append(decls, d)
			}
		}
		return true
	})
	if !ok || len(decls) == 0 {
		return nil, ok
	}
	v := ast.New(ast.VarNode, decls...)
	v.Span = n.Span
	return v, true
}

func isTruthy(n *ast.Node) bool {
	if !n.IsLiteral() {
		return false
	}
	b, err := literal.ToBoolean(n.Value)
	return err == nil && b
}

func isVoid0(n *ast.Node) bool {
	return n != nil && n.Kind == ast.UnaryNode && n.Op == ast.VoidOp && n.Child(0).IsLiteral()
}

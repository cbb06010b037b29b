package peephole

import (
	"strings"

	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/literal"
)

// snapshot copies the variadic children of n so that they can be iterated while the list changes.
func snapshot(n *ast.Node) []*ast.Node {
	return append([]*ast.Node{}, n.Tail()...)
}

func isEmptyStmt(n *ast.Node) bool {
	if n == nil || n.Kind == ast.EmptyNode {
		return true
	} else if n.Kind == ast.BlockNode && n.Scope == nil {
		for _, stmt := range n.Tail() {
			if !isEmptyStmt(stmt) {
				return false
			}
		}
		return true
	}
	return false
}

// isDeclaration returns true for statements that may not be the single body of another statement.
func isDeclaration(n *ast.Node) bool {
	return n.Kind == ast.FunctionNode || n.Kind == ast.VarNode && n.Name != ""
}

func hasDeclaration(n *ast.Node) bool {
	for _, stmt := range n.Tail() {
		if isDeclaration(stmt) {
			return true
		}
	}
	return false
}

func isFlowStmt(n *ast.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case ast.ReturnNode, ast.ThrowNode, ast.BreakNode, ast.ContinueNode:
		return true
	case ast.IfNode:
		return isFlowStmt(n.Child(1)) && isFlowStmt(n.Child(2))
	}
	return false
}

func lastStmt(n *ast.Node) *ast.Node {
	for n != nil && n.Kind == ast.BlockNode {
		stmts := n.Tail()
		if len(stmts) == 0 {
			return nil
		}
		n = stmts[len(stmts)-1]
	}
	return n
}

// isVoid0 returns true for void applied to a literal, which is always undefined.
func isVoid0(n *ast.Node) bool {
	return n != nil && n.Kind == ast.UnaryNode && n.Op == ast.VoidOp && n.Child(0).Kind == ast.LiteralNode
}

// valueOrVoid returns the value of a return statement, or void 0 when it has none.
func valueOrVoid(ret *ast.Node) *ast.Node {
	if v := ret.Child(0); v != nil {
		return v
	}
	return ast.NewVoid0()
}

// negate returns the logical negation of a condition. It may reuse or modify x.
func negate(x *ast.Node) *ast.Node {
	switch x.Kind {
	case ast.UnaryNode:
		if x.Op == ast.NotOp {
			return x.Child(0)
		}
	case ast.BinaryNode:
		if op, ok := x.Op.Negated(); ok {
			x.Op = op
			return x
		}
	case ast.LiteralNode:
		if x.Value.Kind == literal.BooleanKind {
			x.Value.Bool = !x.Value.Bool
			return x
		}
	}
	n := ast.NewUnary(ast.NotOp, x)
	n.Span = x.Span
	return n
}

// conditional returns C?X:Y, swapping the branches to drop a negation of the test.
func conditional(c, x, y *ast.Node) *ast.Node {
	if c.Kind == ast.UnaryNode && c.Op == ast.NotOp {
		c, x, y = c.Child(0), y, x
	}
	n := ast.New(ast.CondNode, c, x, y)
	n.Span = ast.Span{Start: c.Span.Start, End: y.Span.End}
	return n
}

// isEventHandler returns true if a call invokes a function named like a DOM event handler such as onclick.
func isEventHandler(call *ast.Node) bool {
	callee := call.Child(0)
	return (callee.Kind == ast.LookupNode || callee.Kind == ast.MemberNode) && strings.HasPrefix(callee.Name, "on")
}

// isDebugCall returns true for calls of the form Debug.x(...) or $Debug.x.y(...) on the global debug objects.
func isDebugCall(n *ast.Node) bool {
	if n.Kind != ast.CallNode {
		return false
	}
	root := n.Child(0)
	if root.Kind != ast.MemberNode && root.Kind != ast.IndexNode {
		return false
	}
	for root.Kind == ast.MemberNode || root.Kind == ast.IndexNode {
		root = root.Child(0)
	}
	if root.Kind != ast.LookupNode || root.Name != "Debug" && root.Name != "$Debug" {
		return false
	}
	return root.Field == nil || root.Field.Root().Origin == ast.GlobalOrigin
}

// isBreakOf returns true for a break statement that leaves the switch statement sw.
func isBreakOf(n, sw *ast.Node) bool {
	if n.Kind != ast.BreakNode {
		return false
	} else if n.Name == "" {
		return true
	}
	p := sw.Parent()
	return p != nil && p.Kind == ast.LabeledNode && p.Name == n.Name
}

// countLookups counts the lookups of name in n, nested functions included. Any lookup of eval counts as infinitely many.
func countLookups(n *ast.Node, name string) int {
	count := 0
	ast.Inspect(n, func(m *ast.Node) bool {
		if m.Kind == ast.LookupNode {
			if m.Name == name {
				count++
			} else if m.Name == "eval" {
				count += 1 << 20
			}
		}
		return true
	})
	return count
}

// inWith returns true if n lies inside a with statement within fn.
func inWith(n, fn *ast.Node) bool {
	for p := n.Parent(); p != nil && p != fn; p = p.Parent() {
		if p.Kind == ast.WithNode {
			return true
		}
	}
	return false
}

// dedupe drops declarations without initializer from a var statement when the same variable is declared by another of its declarations.
func dedupe(v *ast.Node) bool {
	count := map[*ast.Field]int{}
	for _, d := range v.Tail() {
		if d.Field != nil {
			count[d.Field.Root()]++
		}
	}
	changed := false
	for _, d := range snapshot(v) {
		if d.Field == nil || d.Child(0) != nil {
			continue
		} else if f := d.Field.Root(); 1 < count[f] {
			count[f]--
			d.Field.Decls--
			ast.Detach(d)
			changed = true
		}
	}
	return changed
}

package peephole

import (
	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/config"
)

// statement simplifies a single statement and returns the node that took its place, or nil if it was removed.
func (s *Simplifier) statement(n *ast.Node) *ast.Node {
	switch n.Kind {
	case ast.DebuggerNode:
		if s.allowed(config.StripDebugStatements) {
			s.remove(n)
			return nil
		}
	case ast.ExprStmtNode:
		if s.allowed(config.StripDebugStatements) && isDebugCall(n.Child(0)) {
			s.remove(n)
			return nil
		}
	case ast.IfNode:
		return s.ifStatement(n)
	case ast.ForNode, ast.ForInNode, ast.WhileNode, ast.WithNode:
		s.body(n, n.Len()-1)
	case ast.DoWhileNode, ast.LabeledNode:
		s.body(n, 0)
	case ast.SwitchNode:
		s.switchStatement(n)
	}
	return n
}

func (s *Simplifier) remove(n *ast.Node) {
	ast.Detach(n)
	s.changed = true
}

func (s *Simplifier) replace(n, m *ast.Node) *ast.Node {
	m.Span = n.Span
	ast.Replace(n, m)
	s.changed = true
	return m
}

// body simplifies the statement in slot i of n, which is the body of a compound statement. Blocks holding a single statement lose their braces and empty bodies are removed.
func (s *Simplifier) body(n *ast.Node, i int) *ast.Node {
	b := n.Child(i)
	if b == nil {
		return nil
	}
	if b.Kind == ast.BlockNode && b.Scope == nil && s.allowed(config.FlattenBlocks) {
		if stmts := b.Tail(); len(stmts) == 1 && !isDeclaration(stmts[0]) {
			inner := stmts[0]
			ast.Replace(b, inner)
			s.changed = true
			b = inner
		}
	}
	if b.Kind != ast.BlockNode {
		if b = s.statement(b); b == nil {
			return nil
		}
	}
	if isEmptyStmt(b) && s.allowed(config.RemoveEmptyBlocks) {
		s.remove(b)
		return nil
	}
	return b
}

func (s *Simplifier) ifStatement(n *ast.Node) *ast.Node {
	then := s.body(n, 1)
	els := s.body(n, 2)
	if then == nil && els != nil && s.allowed(config.RemoveEmptyBlocks) {
		// if(a);else b => if(!a)b
		n = ast.Rebuild(n, negate(n.Child(0)), els, nil)
		then, els = els, nil
		s.changed = true
	}
	cond := n.Child(0)
	if then == nil {
		if els == nil && s.allowed(config.RemoveEmptyBlocks) {
			return s.replace(n, ast.New(ast.ExprStmtNode, cond))
		}
	} else if els == nil {
		if then.Kind == ast.ExprStmtNode && then.Child(0).Kind == ast.CallNode && !isEventHandler(then.Child(0)) && s.allowed(config.IfToAndCall) {
			// if(a)b() => a&&b()
			op := ast.AndOp
			if cond.Kind == ast.UnaryNode && cond.Op == ast.NotOp {
				op = ast.OrOp
				cond = cond.Child(0)
			}
			return s.replace(n, ast.New(ast.ExprStmtNode, ast.NewBinary(op, cond, then.Child(0))))
		}
	} else if then.Kind == ast.ReturnNode && els.Kind == ast.ReturnNode {
		if (then.Child(0) != nil || els.Child(0) != nil) && s.allowed(config.IfReturnToConditional) {
			// if(a)return b;else return c => return a?b:c
			return s.replace(n, ast.New(ast.ReturnNode, conditional(cond, valueOrVoid(then), valueOrVoid(els))))
		}
	} else if then.Kind == ast.ThrowNode && els.Kind == ast.ThrowNode {
		if s.allowed(config.IfReturnToConditional) {
			return s.replace(n, ast.New(ast.ThrowNode, conditional(cond, then.Child(0), els.Child(0))))
		}
	} else if then.Kind == ast.ExprStmtNode && els.Kind == ast.ExprStmtNode {
		if s.allowed(config.IfToAndCall) {
			// if(a)b();else c() => a?b():c()
			return s.replace(n, ast.New(ast.ExprStmtNode, conditional(cond, then.Child(0), els.Child(0))))
		}
	}
	return n
}

func (s *Simplifier) switchStatement(n *ast.Node) {
	cases := n.Tail()
	if len(cases) == 0 {
		return
	}
	if last := cases[len(cases)-1]; last.Child(0) == nil && s.allowed(config.RemoveDefaultCase) {
		stmts := last.Tail()
		if len(stmts) == 0 || len(stmts) == 1 && isBreakOf(stmts[0], n) {
			// cases without statements fall through into the default case and do nothing either
			s.remove(last)
			for cases = n.Tail(); 0 < len(cases); cases = n.Tail() {
				c := cases[len(cases)-1]
				if c.Child(0) == nil || c.Child(0).Kind != ast.LiteralNode || 0 < len(c.Tail()) {
					break
				}
				s.remove(c)
			}
		}
	}
	if cases = n.Tail(); 0 < len(cases) && s.allowed(config.RemoveEmptyBlocks) {
		stmts := cases[len(cases)-1].Tail()
		if 0 < len(stmts) && isBreakOf(stmts[len(stmts)-1], n) {
			s.remove(stmts[len(stmts)-1])
		}
	}
}

package peephole

import (
	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/config"
)

// flatten removes empty statements and splices nested blocks without a scope into the list.
func (s *Simplifier) flatten(list *ast.Node) {
	for _, stmt := range snapshot(list) {
		switch stmt.Kind {
		case ast.EmptyNode:
			if s.allowed(config.RemoveEmptyBlocks) {
				s.remove(stmt)
			}
		case ast.BlockNode:
			if stmt.Scope == nil && !hasDeclaration(stmt) && s.allowed(config.FlattenBlocks) {
				ast.Splice(list, stmt, snapshot(stmt)...)
				s.changed = true
			}
		}
	}
}

// hoistElse moves the else branch of an if statement whose then branch ends in a jump after the if statement.
func (s *Simplifier) hoistElse(list *ast.Node) {
	for _, stmt := range snapshot(list) {
		if stmt.Kind != ast.IfNode {
			continue
		}
		if els := stmt.Child(2); els != nil && isFlowStmt(lastStmt(stmt.Child(1))) && s.allowed(config.FlattenBlocks) {
			// if(a){return}else{b} => if(a){return}b
			i := list.IndexOf(stmt) - (list.Len() - len(list.Tail()))
			if els.Kind == ast.BlockNode && els.Scope == nil && !hasDeclaration(els) {
				ast.Insert(list, i+1, snapshot(els)...)
				ast.Detach(els)
			} else if !isDeclaration(els) {
				ast.Insert(list, i+1, els)
			}
			s.changed = true
		}
	}
}

// merge combines adjacent statements, retrying on the previous statement after every successful merge so that rewrites chain.
func (s *Simplifier) merge(list *ast.Node) {
	for i := 0; i+1 < len(list.Tail()); {
		stmts := list.Tail()
		if s.mergePair(stmts[i], stmts[i+1]) {
			s.changed = true
			if 0 < i {
				i--
			}
			continue
		}
		i++
	}
}

func (s *Simplifier) mergePair(a, b *ast.Node) bool {
	switch a.Kind {
	case ast.VarNode:
		if b.Kind == ast.VarNode && a.Name == b.Name && s.allowed(config.CombineVarStatements) {
			// var a;var b => var a,b
			for _, decl := range snapshot(b) {
				ast.Append(a, decl)
			}
			a.Span.End = b.Span.End
			ast.Detach(b)
			if a.Name == "" {
				dedupe(a)
			}
			return true
		} else if a.Name == "" && b.Kind == ast.ForNode && s.allowed(config.MoveVarIntoFor) {
			return s.moveIntoFor(a, b)
		} else if a.Name == "" && b.Kind == ast.ReturnNode && s.allowed(config.ReturnVarCollapse) {
			return s.collapseReturn(a, b)
		}
	case ast.IfNode:
		if b.Kind == ast.ReturnNode && s.allowed(config.IfReturnToConditional) {
			return s.ifReturn(a, b)
		}
	case ast.ExprStmtNode:
		if a.Flags&ast.DirectiveFlag == 0 && s.allowed(config.CombineExpressionStatements) {
			return s.joinExpr(a, b)
		}
	}
	return false
}

// moveIntoFor moves a var statement into the initializer of the following for statement.
func (s *Simplifier) moveIntoFor(v, f *ast.Node) bool {
	init := f.Child(0)
	switch {
	case init == nil:
		// var a;for(;;) => for(var a;;)
		ast.Rebuild(f, v, f.Child(1), f.Child(2), f.Child(3))
	case init.Kind == ast.VarNode && init.Name == "":
		// var a;for(var b;;) => for(var a,b;;)
		ast.Insert(init, 0, snapshot(v)...)
		ast.Detach(v)
		dedupe(init)
	case init.Kind == ast.AssignNode && init.Op == ast.AssignOp && init.Child(0).Kind == ast.LookupNode:
		// var a;for(a=0;;) => for(var a=0;;)
		target := init.Child(0)
		if target.Field == nil {
			return false
		}
		var field *ast.Field
		for _, decl := range v.Tail() {
			if decl.Field != nil && decl.Field.Root() == target.Field.Root() {
				field = decl.Field
				break
			}
		}
		if field == nil {
			return false
		}
		decl := ast.NewVarDecl(target.Name, field, init.Child(1))
		decl.Span = init.Span
		ast.Append(v, decl)
		ast.ReplaceChild(f, init, v)
		target.Field.Uses--
		field.Decls++
		dedupe(v)
	default:
		return false
	}
	return true
}

// collapseReturn rewrites var a=b;return a into return b when a is not used anywhere else.
func (s *Simplifier) collapseReturn(v, ret *ast.Node) bool {
	x := ret.Child(0)
	if x == nil || x.Kind != ast.LookupNode || x.Field == nil {
		return false
	}
	decls := v.Tail()
	decl := decls[len(decls)-1]
	f := decl.Field
	if decl.Child(0) == nil || f == nil || f.Root() != x.Field.Root() {
		return false
	} else if f.Scope.Kind != ast.FunctionScope || f.Scope.Unknown || f.Decls != 1 || !f.CanRename {
		return false
	}
	fn := f.Scope.Node
	if fn == nil || !fn.IsAncestorOf(v) || inWith(v, fn) || countLookups(fn, f.Name) != 1 {
		return false
	}
	ast.ReplaceChild(ret, x, decl.Child(0))
	ast.Detach(decl)
	if len(v.Tail()) == 0 {
		ast.Detach(v)
	}
	x.Field.Uses--
	f.Decls--
	return true
}

// ifReturn rewrites if(a)return b;return c into return a?b:c.
func (s *Simplifier) ifReturn(n, ret *ast.Node) bool {
	then := n.Child(1)
	if n.Child(2) != nil || then == nil || then.Kind != ast.ReturnNode || then.Child(0) == nil && ret.Child(0) == nil {
		return false
	}
	m := ast.New(ast.ReturnNode, conditional(n.Child(0), valueOrVoid(then), valueOrVoid(ret)))
	m.Span = ast.Span{Start: n.Span.Start, End: ret.Span.End}
	ast.Replace(ret, m)
	ast.Detach(n)
	return true
}

// joinExpr merges an expression statement into the expression of the following statement using the comma operator.
func (s *Simplifier) joinExpr(a, b *ast.Node) bool {
	x := a.Child(0)
	var y *ast.Node
	switch b.Kind {
	case ast.ExprStmtNode:
		if b.Flags&ast.DirectiveFlag != 0 {
			return false
		}
		y = b.Child(0)
	case ast.ReturnNode, ast.ThrowNode, ast.IfNode, ast.SwitchNode:
		y = b.Child(0)
	case ast.ForNode:
		if init := b.Child(0); init == nil {
			ast.Rebuild(b, x, b.Child(1), b.Child(2), b.Child(3))
			ast.Detach(a)
			return true
		} else if init.Kind == ast.VarNode {
			return false
		}
		y = b.Child(0)
	}
	if y == nil {
		return false
	}
	ast.Wrap(y, func(y *ast.Node) *ast.Node {
		return ast.NewBinary(ast.CommaOp, x, y)
	})
	b.Span.Start = a.Span.Start
	ast.Detach(a)
	return true
}

// functionBody applies the rewrites that only hold at the end of a function body.
func (s *Simplifier) functionBody(body *ast.Node) {
	stmts := body.Tail()
	if len(stmts) == 0 {
		return
	}
	last := stmts[len(stmts)-1]
	switch last.Kind {
	case ast.ReturnNode:
		v := last.Child(0)
		if v == nil || isVoid0(v) {
			if s.allowed(config.RemoveEmptyBlocks) {
				s.remove(last)
			}
			return
		} else if !s.allowed(config.IfReturnToConditional) {
			return
		}

		// return a?b:void 0 => if(a)return b
		var prefix *ast.Node
		if v.Kind == ast.BinaryNode && v.Op == ast.CommaOp && v.Child(1).Kind == ast.CondNode {
			prefix, v = v.Child(0), v.Child(1)
		}
		if v.Kind != ast.CondNode {
			return
		}
		var cond, value *ast.Node
		if isVoid0(v.Child(2)) {
			cond, value = v.Child(0), v.Child(1)
		} else if isVoid0(v.Child(1)) {
			cond, value = negate(v.Child(0)), v.Child(2)
		} else {
			return
		}
		if prefix != nil {
			cond = ast.NewBinary(ast.CommaOp, prefix, cond)
		}
		ret := ast.New(ast.ReturnNode, value)
		ret.Span = v.Span
		s.replace(last, ast.New(ast.IfNode, cond, ret, nil))
	case ast.IfNode:
		then := last.Child(1)
		if last.Child(2) == nil && then != nil && then.Kind == ast.ReturnNode && then.Child(0) == nil && s.allowed(config.RemoveEmptyBlocks) {
			// if(a)return} => a}
			s.replace(last, ast.New(ast.ExprStmtNode, last.Child(0)))
		}
	}
}

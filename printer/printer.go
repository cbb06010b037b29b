// Package printer writes a syntax tree as minified JavaScript source. It inserts the fewest parentheses, semicolons and spaces that keep the meaning of the tree.
package printer

import (
	"io"
	"math"
	"strings"

	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/literal"
)

type printer struct {
	buf []byte

	stmtStart   int  // buffer length at the start of an expression statement
	noIn        bool // inside the initializer of a for statement
	afterRegExp bool
}

// Print writes the source text of the tree to w.
func Print(w io.Writer, n *ast.Node) error {
	_, err := w.Write(Bytes(n))
	return err
}

// Bytes returns the source text of a node.
func Bytes(n *ast.Node) []byte {
	p := &printer{stmtStart: -1}
	p.node(n)
	return p.buf
}

// String returns the source text of a node.
func String(n *ast.Node) string {
	return string(Bytes(n))
}

// Len returns the length of the source text of an expression without surrounding parentheses.
func Len(n *ast.Node) int {
	p := &printer{stmtStart: -1}
	p.expr(n, ast.PrecLowest)
	return len(p.buf)
}

func isIdentChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '_' || c == '$' || c == '\\' || 0x80 <= c
}

// write appends s and inserts a space where the two tokens would otherwise merge.
func (p *printer) write(s string) {
	if len(s) == 0 {
		return
	}
	if 0 < len(p.buf) {
		last, first := p.buf[len(p.buf)-1], s[0]
		if isIdentChar(last) && isIdentChar(first) ||
			(last == '+' || last == '-') && first == last ||
			last == '/' && (first == '/' || first == '*') ||
			last == '<' && first == '!' ||
			p.afterRegExp && isIdentChar(first) {
			p.buf = append(p.buf, ' ')
		}
	}
	p.buf = append(p.buf, s...)
	p.afterRegExp = false
}

func (p *printer) node(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.ProgramNode:
		p.stmts(n.Tail())
	case ast.CaseNode, ast.CatchNode, ast.ParamListNode, ast.ParamNode, ast.VarDeclNode, ast.PropertyNode, ast.ElisionNode:
		p.part(n)
	default:
		if n.Kind.IsExpression() {
			p.expr(n, ast.PrecLowest)
		} else {
			p.stmt(n)
		}
	}
}

////////////////////////////////////////////////////////////////

// stmts writes a statement list, separating statements by semicolons where required. It returns whether the last statement needs a semicolon.
func (p *printer) stmts(list []*ast.Node) bool {
	semi := false
	for i, s := range list {
		if semi = p.stmt(s); semi && i+1 < len(list) {
			p.write(";")
		}
	}
	return semi
}

// body writes the body of a compound statement. A missing body is written as an empty statement.
func (p *printer) body(n *ast.Node) bool {
	if n == nil {
		p.write(";")
		return false
	}
	return p.stmt(n)
}

// stmt writes a statement and returns true if it must be followed by a semicolon when another statement follows.
func (p *printer) stmt(n *ast.Node) bool {
	switch n.Kind {
	case ast.BlockNode:
		p.write("{")
		p.stmts(n.Tail())
		p.write("}")
		return false
	case ast.EmptyNode:
		p.write(";")
		return false
	case ast.VarNode:
		p.varList(n)
		return true
	case ast.ExprStmtNode:
		p.stmtStart = len(p.buf)
		p.expr(n.Child(0), ast.PrecLowest)
		p.stmtStart = -1
		return true
	case ast.IfNode:
		p.write("if(")
		p.expr(n.Child(0), ast.PrecLowest)
		p.write(")")
		then, els := n.Child(1), n.Child(2)
		semi := false
		if els != nil && endsWithElselessIf(then) {
			p.write("{")
			p.stmt(then)
			p.write("}")
		} else {
			semi = p.body(then)
		}
		if els == nil {
			return semi
		} else if semi {
			p.write(";")
		}
		p.write("else")
		return p.body(els)
	case ast.ForNode:
		p.write("for(")
		if init := n.Child(0); init != nil {
			p.noIn = true
			if init.Kind == ast.VarNode {
				p.varList(init)
			} else {
				p.expr(init, ast.PrecLowest)
			}
			p.noIn = false
		}
		p.write(";")
		p.expr(n.Child(1), ast.PrecLowest)
		p.write(";")
		p.expr(n.Child(2), ast.PrecLowest)
		p.write(")")
		return p.body(n.Child(3))
	case ast.ForInNode:
		p.write("for(")
		if lhs := n.Child(0); lhs.Kind == ast.VarNode {
			p.noIn = true
			p.varList(lhs)
			p.noIn = false
		} else {
			p.expr(lhs, ast.PrecNew)
		}
		p.write("in")
		p.expr(n.Child(1), ast.PrecLowest)
		p.write(")")
		return p.body(n.Child(2))
	case ast.WhileNode:
		p.write("while(")
		p.expr(n.Child(0), ast.PrecLowest)
		p.write(")")
		return p.body(n.Child(1))
	case ast.DoWhileNode:
		p.write("do")
		if p.body(n.Child(0)) {
			p.write(";")
		}
		p.write("while(")
		p.expr(n.Child(1), ast.PrecLowest)
		p.write(")")
		return true
	case ast.SwitchNode:
		p.write("switch(")
		p.expr(n.Child(0), ast.PrecLowest)
		p.write("){")
		cases := n.Tail()
		for i, c := range cases {
			if p.part(c) && i+1 < len(cases) {
				p.write(";")
			}
		}
		p.write("}")
		return false
	case ast.TryNode:
		p.write("try")
		p.stmt(n.Child(0))
		if catch := n.Child(1); catch != nil {
			p.part(catch)
		}
		if finally := n.Child(2); finally != nil {
			p.write("finally")
			p.stmt(finally)
		}
		return false
	case ast.ReturnNode, ast.ThrowNode:
		if n.Kind == ast.ReturnNode {
			p.write("return")
		} else {
			p.write("throw")
		}
		if value := n.Child(0); value != nil {
			p.expr(value, ast.PrecLowest)
		}
		return true
	case ast.BreakNode, ast.ContinueNode:
		if n.Kind == ast.BreakNode {
			p.write("break")
		} else {
			p.write("continue")
		}
		p.write(n.Name)
		return true
	case ast.LabeledNode:
		p.write(n.Name)
		p.write(":")
		return p.body(n.Child(0))
	case ast.WithNode:
		p.write("with(")
		p.expr(n.Child(0), ast.PrecLowest)
		p.write(")")
		return p.body(n.Child(1))
	case ast.DebuggerNode:
		p.write("debugger")
		return true
	case ast.FunctionNode:
		if n.Flags&ast.ExprFlag != 0 {
			p.stmtStart = len(p.buf)
			p.expr(n, ast.PrecLowest)
			p.stmtStart = -1
			return true
		}
		p.function(n)
		return false
	}
	if n.Kind.IsExpression() {
		p.expr(n, ast.PrecLowest)
		return true
	}
	return false
}

// part writes nodes that only occur inside other nodes.
func (p *printer) part(n *ast.Node) bool {
	switch n.Kind {
	case ast.CaseNode:
		if test := n.Child(0); test != nil {
			p.write("case")
			p.expr(test, ast.PrecLowest)
		} else {
			p.write("default")
		}
		p.write(":")
		return p.stmts(n.Tail())
	case ast.CatchNode:
		p.write("catch(")
		p.part(n.Child(0))
		p.write(")")
		p.stmt(n.Child(1))
	case ast.ParamListNode:
		p.write("(")
		for i, param := range n.Tail() {
			if i != 0 {
				p.write(",")
			}
			p.part(param)
		}
		p.write(")")
	case ast.ParamNode:
		p.write(bindingName(n))
	case ast.VarDeclNode:
		p.write(bindingName(n))
		if init := n.Child(0); init != nil {
			p.write("=")
			p.expr(init, ast.PrecAssign)
		}
	case ast.PropertyNode:
		if n.Flags&(ast.GetterFlag|ast.SetterFlag) != 0 {
			if n.Flags&ast.GetterFlag != 0 {
				p.write("get")
			} else {
				p.write("set")
			}
			p.write(propertyKey(n))
			fn := n.Child(0)
			p.part(fn.Child(0))
			p.write("{")
			p.stmts(fn.Child(1).Tail())
			p.write("}")
			return false
		}
		p.write(propertyKey(n))
		p.write(":")
		p.expr(n.Child(0), ast.PrecAssign)
	}
	return false
}

func (p *printer) varList(n *ast.Node) {
	if n.Name == "" {
		p.write("var")
	} else {
		p.write(n.Name)
	}
	for i, decl := range n.Tail() {
		if i != 0 {
			p.write(",")
		}
		p.part(decl)
	}
}

func (p *printer) function(n *ast.Node) {
	p.write("function")
	if n.Name != "" {
		p.write(bindingName(n))
	}
	p.part(n.Child(0))
	p.write("{")
	noIn, stmtStart := p.noIn, p.stmtStart
	p.noIn, p.stmtStart = false, -1
	p.stmts(n.Child(1).Tail())
	p.noIn, p.stmtStart = noIn, stmtStart
	p.write("}")
}

////////////////////////////////////////////////////////////////

// Prec returns the precedence of an expression as it is printed.
func Prec(n *ast.Node) ast.Prec {
	switch n.Kind {
	case ast.BinaryNode:
		return n.Op.Prec()
	case ast.AssignNode:
		return ast.PrecAssign
	case ast.CondNode:
		return ast.PrecCond
	case ast.UnaryNode:
		return n.Op.Prec()
	case ast.CallNode:
		return ast.PrecCall
	case ast.NewNode:
		if len(n.Tail()) == 0 {
			return ast.PrecNew
		}
		return ast.PrecMember
	case ast.MemberNode, ast.IndexNode:
		return ast.PrecMember
	case ast.LiteralNode:
		switch n.Value.Kind {
		case literal.BooleanKind:
			return ast.PrecPrefix
		case literal.NumberKind:
			if math.IsInf(n.Value.Num, 0) {
				return ast.PrecMul
			} else if math.Signbit(n.Value.Num) {
				return ast.PrecPrefix
			}
		case literal.OtherKind:
			if strings.HasPrefix(n.Value.Str, "-") {
				return ast.PrecPrefix
			}
		}
	}
	return ast.PrecPrimary
}

func (p *printer) expr(n *ast.Node, prec ast.Prec) {
	if n == nil {
		return
	}
	if n.Kind == ast.NewNode && len(n.Tail()) == 0 && ast.PrecNew < prec {
		// new X() is shorter than (new X)
		p.newExpr(n, true)
		return
	}

	parens := Prec(n) < prec || p.noIn && n.Kind == ast.BinaryNode && n.Op == ast.InOp
	if (n.Kind == ast.FunctionNode || n.Kind == ast.ObjectNode) && len(p.buf) == p.stmtStart {
		parens = true
	}
	if parens {
		p.write("(")
		noIn := p.noIn
		p.noIn = false
		p.exprInner(n)
		p.noIn = noIn
		p.write(")")
		return
	}
	p.exprInner(n)
}

func (p *printer) exprInner(n *ast.Node) {
	switch n.Kind {
	case ast.BinaryNode:
		prec := n.Op.Prec()
		p.expr(n.Child(0), prec)
		p.write(n.Op.String())
		p.expr(n.Child(1), prec+1)
	case ast.AssignNode:
		p.expr(n.Child(0), ast.PrecNew)
		p.write(n.Op.String())
		p.expr(n.Child(1), ast.PrecAssign)
	case ast.CondNode:
		p.expr(n.Child(0), ast.PrecOr)
		p.write("?")
		p.expr(n.Child(1), ast.PrecAssign)
		p.write(":")
		p.expr(n.Child(2), ast.PrecAssign)
	case ast.UnaryNode:
		if n.Op.IsPostfix() {
			p.expr(n.Child(0), ast.PrecNew)
			p.write(n.Op.String())
		} else {
			p.write(n.Op.String())
			p.expr(n.Child(0), ast.PrecPrefix)
		}
	case ast.CallNode:
		p.expr(n.Child(0), ast.PrecCall)
		p.args(n.Tail())
	case ast.NewNode:
		p.newExpr(n, false)
	case ast.MemberNode:
		object := n.Child(0)
		p.expr(object, ast.PrecCall)
		if object.Kind == ast.LiteralNode && isDigits(p.buf, object) {
			p.write(".")
		}
		p.write(".")
		p.write(n.Name)
	case ast.IndexNode:
		p.expr(n.Child(0), ast.PrecCall)
		p.write("[")
		noIn := p.noIn
		p.noIn = false
		p.expr(n.Child(1), ast.PrecLowest)
		p.noIn = noIn
		p.write("]")
	case ast.LookupNode:
		p.write(bindingName(n))
	case ast.LiteralNode:
		p.write(Literal(n.Value))
	case ast.RegExpNode:
		p.write(n.Name)
		p.afterRegExp = true
	case ast.ThisNode:
		p.write("this")
	case ast.ArrayNode:
		p.write("[")
		elems := n.Tail()
		for i, elem := range elems {
			if i != 0 {
				p.write(",")
			}
			if elem.Kind != ast.ElisionNode {
				p.expr(elem, ast.PrecAssign)
			}
		}
		if 0 < len(elems) && elems[len(elems)-1].Kind == ast.ElisionNode {
			p.write(",")
		}
		p.write("]")
	case ast.ObjectNode:
		p.write("{")
		for i, prop := range n.Tail() {
			if i != 0 {
				p.write(",")
			}
			p.part(prop)
		}
		p.write("}")
	case ast.FunctionNode:
		p.function(n)
	}
}

func (p *printer) newExpr(n *ast.Node, forceArgs bool) {
	p.write("new")
	callee := n.Child(0)
	if hasCall(callee) {
		p.write("(")
		p.expr(callee, ast.PrecLowest)
		p.write(")")
	} else {
		p.expr(callee, ast.PrecMember)
	}
	if args := n.Tail(); 0 < len(args) || forceArgs {
		p.args(args)
	}
}

func (p *printer) args(args []*ast.Node) {
	p.write("(")
	noIn := p.noIn
	p.noIn = false
	for i, arg := range args {
		if i != 0 {
			p.write(",")
		}
		p.expr(arg, ast.PrecAssign)
	}
	p.noIn = noIn
	p.write(")")
}

////////////////////////////////////////////////////////////////

// Literal returns the shortest source text of a constant. Booleans are written as !0 and !1 and the infinities as divisions.
func Literal(v literal.Value) string {
	switch v.Kind {
	case literal.BooleanKind:
		if v.Bool {
			return "!0"
		}
		return "!1"
	case literal.NumberKind:
		if math.IsInf(v.Num, 1) {
			return "1/0"
		} else if math.IsInf(v.Num, -1) {
			return "-1/0"
		}
	}
	return v.String()
}

func bindingName(n *ast.Node) string {
	if n.Field != nil {
		return n.Field.OutputName()
	}
	return n.Name
}

func propertyKey(n *ast.Node) string {
	if n.Flags&ast.NumericKeyFlag != 0 || n.Value.Kind == literal.OtherKind {
		return n.Value.String()
	} else if isIdentifierName(n.Name) {
		return n.Name
	} else if isIndex(n.Name) {
		return n.Name
	}
	return literal.Quote(n.Name)
}

func isIdentifierName(s string) bool {
	if s == "" || '0' <= s[0] && s[0] <= '9' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; c == '\\' || !isIdentChar(c) {
			return false
		}
	}
	return true
}

// isIndex returns true for canonical non-negative integers, which may be written as numeric property keys.
func isIndex(s string) bool {
	if s == "" || 10 < len(s) || 1 < len(s) && s[0] == '0' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || '9' < s[i] {
			return false
		}
	}
	return true
}

// isDigits returns true if the literal was written as an integer without a dot or exponent, so that a member access needs a second dot.
func isDigits(buf []byte, n *ast.Node) bool {
	if n.Value.Kind != literal.NumberKind && n.Value.Kind != literal.OtherKind {
		return false
	}
	s := Literal(n.Value)
	if len(buf) < len(s) || string(buf[len(buf)-len(s):]) != s {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || '9' < s[i] {
			return false
		}
	}
	return true
}

// hasCall returns true if the callee of a new expression contains a call in its member chain, which must be parenthesized.
func hasCall(n *ast.Node) bool {
	for n != nil {
		switch n.Kind {
		case ast.CallNode:
			return true
		case ast.MemberNode, ast.IndexNode:
			n = n.Child(0)
		default:
			return false
		}
	}
	return false
}

// endsWithElselessIf returns true if a statement ends with an if statement without else, which would capture a following else.
func endsWithElselessIf(n *ast.Node) bool {
	for n != nil {
		switch n.Kind {
		case ast.IfNode:
			if n.Child(2) == nil {
				return true
			}
			n = n.Child(2)
		case ast.ForNode:
			n = n.Child(3)
		case ast.ForInNode:
			n = n.Child(2)
		case ast.WhileNode, ast.WithNode:
			n = n.Child(1)
		case ast.LabeledNode:
			n = n.Child(0)
		default:
			return false
		}
	}
	return false
}

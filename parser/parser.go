// Package parser builds the syntax tree and the scope tree of JavaScript programs. It covers the ECMAScript 5 grammar plus let and const declarations and registers every declaration in its scope, leaving name references to be resolved later.
package parser

import (
	"bytes"

	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/literal"
	"github.com/tdewolff/parse/v2"
)

// reserved are the words that cannot be used as identifiers.
var reserved = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true, "continue": true,
	"debugger": true, "default": true, "delete": true, "do": true, "else": true, "enum": true,
	"export": true, "extends": true, "false": true, "finally": true, "for": true, "function": true,
	"if": true, "import": true, "in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true, "with": true,
}

var prefixOps = map[string]ast.Op{
	"!":      ast.NotOp,
	"~":      ast.BitNotOp,
	"+":      ast.PosOp,
	"-":      ast.NegOp,
	"typeof": ast.TypeofOp,
	"void":   ast.VoidOp,
	"delete": ast.DeleteOp,
	"++":     ast.PreIncrOp,
	"--":     ast.PreDecrOp,
}

type parser struct {
	*scanner
	src []byte
	err error

	scope  *ast.Scope
	inFunc bool
}

// Parse parses a program. The returned Program node owns the global scope, every function, catch, with and lexically scoped block carries its own scope. Errors are of type *parse.Error and point at the offending token.
func Parse(src []byte) (*ast.Node, error) {
	p := &parser{
		scanner: newScanner(src),
		src:     src,
	}
	p.next()

	global := ast.NewScope(ast.GlobalScope, nil)
	p.scope = global
	prog := ast.New(ast.ProgramNode)
	prog.Scope = global
	global.Node = prog
	if p.parseStatements(prog, eofToken, "") {
		prog.Flags |= ast.StrictFlag
	}
	prog.Span = ast.Span{Start: 0, End: len(src)}

	if p.scanner.err != nil {
		return nil, p.scanner.err
	} else if p.err != nil {
		return nil, p.err
	}
	return prog, nil
}

// ParseString parses a program from a string.
func ParseString(src string) (*ast.Node, error) {
	return Parse([]byte(src))
}

func (p *parser) fail(in string) {
	if p.err == nil && p.scanner.err == nil {
		if p.tok.class == templateToken {
			p.err = parse.NewError(bytes.NewReader(p.src), p.tok.start, "unsupported template literal in %s", in)
		} else {
			p.err = parse.NewError(bytes.NewReader(p.src), p.tok.start, "unexpected %v in %s", p.tok, in)
		}
	}
	p.tok = token{class: eofToken, start: p.tok.start, nl: true}
	p.peeked = nil
}

func (p *parser) failed() bool {
	return p.err != nil || p.scanner.err != nil
}

func (p *parser) is(text string) bool {
	return (p.tok.class == punctuatorToken || p.tok.class == identToken) && p.tok.text == text
}

func (p *parser) consume(text string) bool {
	if p.is(text) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(text, in string) bool {
	if !p.consume(text) {
		p.fail(in)
		return false
	}
	return true
}

func (p *parser) isIdentifier() bool {
	return p.tok.class == identToken && !reserved[p.tok.text]
}

func (p *parser) identifier(in string) (string, bool) {
	if !p.isIdentifier() {
		p.fail(in)
		return "", false
	}
	name := p.tok.text
	p.next()
	return name, true
}

// semicolon applies automatic semicolon insertion.
func (p *parser) semicolon(in string) {
	if p.consume(";") || p.is("}") || p.tok.class == eofToken || p.tok.nl {
		return
	}
	p.fail(in)
}

func (p *parser) span(n *ast.Node, start int) *ast.Node {
	if n == nil {
		return nil
	}
	n.Span = ast.Span{Start: start, End: p.tok.start}
	return n
}

////////////////////////////////////////////////////////////////

func (p *parser) declare(s *ast.Scope, name string, origin ast.Origin) *ast.Field {
	f, ok := s.Declare(name, origin)
	if !ok && f.Placeholder {
		f.Placeholder = false
		f.Binds = nil
		f.Origin = origin
		f.CanRename = true
		f.Decls = 1
	}
	return f
}

// declareVar binds a var or function declaration in the closest function or global scope.
func (p *parser) declareVar(name string) *ast.Field {
	s := p.scope.VarScope()
	f := p.declare(s, name, ast.LocalOrigin)
	for c := p.scope; c != s; c = c.Parent {
		if c.Kind == ast.CatchScope {
			if param := c.Field(name); param != nil {
				// the initializer assigns to the catch parameter
				param.CanRename = false
				f.CanRename = false
			}
		}
	}
	return f
}

////////////////////////////////////////////////////////////////

// parseStatements parses statements into the variadic list of parent until the closing token. It returns true if the directive prologue contains "use strict".
func (p *parser) parseStatements(parent *ast.Node, endClass tokenClass, endText string) bool {
	strict := false
	prologue := true
	for !p.failed() {
		if endClass == eofToken && p.tok.class == eofToken || endText != "" && p.is(endText) {
			break
		} else if p.tok.class == eofToken {
			p.fail("block")
			break
		}
		isString := p.tok.class == stringToken
		raw := p.tok.text
		stmt := p.parseStatement()
		if stmt == nil {
			break
		}
		if prologue {
			if isString && stmt.Kind == ast.ExprStmtNode && stmt.Child(0).Kind == ast.LiteralNode {
				stmt.Flags |= ast.DirectiveFlag
				if raw[1:len(raw)-1] == "use strict" {
					strict = true
				}
			} else {
				prologue = false
			}
		}
		ast.Append(parent, stmt)
	}
	return strict
}

func (p *parser) parseStatement() *ast.Node {
	start := p.tok.start
	switch p.tok.class {
	case punctuatorToken:
		switch p.tok.text {
		case "{":
			return p.parseBlock()
		case ";":
			p.next()
			return p.span(ast.New(ast.EmptyNode), start)
		}
	case identToken:
		switch p.tok.text {
		case "var":
			p.next()
			n := p.parseVarList("", false)
			p.semicolon("var statement")
			return p.span(n, start)
		case "const":
			p.next()
			n := p.parseVarList("const", false)
			p.semicolon("const statement")
			return p.span(n, start)
		case "let":
			if next := p.peek(); next.class == identToken && !reserved[next.text] || next.text == "[" || next.text == "{" {
				p.next()
				n := p.parseVarList("let", false)
				p.semicolon("let statement")
				return p.span(n, start)
			}
		case "function":
			return p.span(p.parseFunction(false), start)
		case "if":
			return p.parseIf()
		case "for":
			return p.parseFor()
		case "while":
			p.next()
			cond := p.parseParenExpression("while statement")
			body := p.parseStatement()
			return p.span(ast.New(ast.WhileNode, cond, body), start)
		case "do":
			p.next()
			body := p.parseStatement()
			p.expect("while", "do-while statement")
			cond := p.parseParenExpression("do-while statement")
			p.consume(";")
			return p.span(ast.New(ast.DoWhileNode, body, cond), start)
		case "continue", "break":
			kind := ast.BreakNode
			if p.tok.text == "continue" {
				kind = ast.ContinueNode
			}
			p.next()
			n := ast.New(kind)
			if p.isIdentifier() && !p.tok.nl {
				n.Name = p.tok.text
				p.next()
			}
			p.semicolon(kind.String() + " statement")
			return p.span(n, start)
		case "return":
			if !p.inFunc {
				p.fail("statement")
				return nil
			}
			p.next()
			var value *ast.Node
			if !p.is(";") && !p.is("}") && p.tok.class != eofToken && !p.tok.nl {
				value = p.parseExpression(false)
			}
			p.semicolon("return statement")
			return p.span(ast.New(ast.ReturnNode, value), start)
		case "throw":
			p.next()
			if p.tok.nl {
				p.fail("throw statement")
				return nil
			}
			value := p.parseExpression(false)
			p.semicolon("throw statement")
			return p.span(ast.New(ast.ThrowNode, value), start)
		case "with":
			p.next()
			object := p.parseParenExpression("with statement")
			scope := ast.NewScope(ast.WithScope, p.scope)
			p.scope = scope
			body := p.parseStatement()
			p.scope = scope.Parent
			n := ast.New(ast.WithNode, object, body)
			n.Scope = scope
			scope.Node = n
			return p.span(n, start)
		case "switch":
			return p.parseSwitch()
		case "try":
			return p.parseTry()
		case "debugger":
			p.next()
			p.semicolon("debugger statement")
			return p.span(ast.New(ast.DebuggerNode), start)
		}
	}
	if p.tok.class == eofToken {
		p.fail("statement")
		return nil
	}

	expr := p.parseExpression(false)
	if expr == nil {
		return nil
	} else if expr.Kind == ast.LookupNode && p.is(":") {
		p.next()
		stmt := p.parseStatement()
		n := ast.New(ast.LabeledNode, stmt)
		n.Name = expr.Name
		return p.span(n, start)
	}
	p.semicolon("expression statement")
	return p.span(ast.New(ast.ExprStmtNode, expr), start)
}

func (p *parser) parseBlock() *ast.Node {
	start := p.tok.start
	if !p.expect("{", "block") {
		return nil
	}
	scope := ast.NewScope(ast.BlockScope, p.scope)
	p.scope = scope
	block := ast.New(ast.BlockNode)
	p.parseStatements(block, punctuatorToken, "}")
	p.scope = scope.Parent
	if !scope.Dissolve() {
		block.Scope = scope
		scope.Node = block
	}
	p.expect("}", "block")
	return p.span(block, start)
}

// parseVarList parses the declarations after var, let or const. The keyword is empty for var.
func (p *parser) parseVarList(keyword string, noIn bool) *ast.Node {
	n := ast.New(ast.VarNode)
	n.Name = keyword
	for !p.failed() {
		start := p.tok.start
		name, ok := p.identifier("var statement")
		if !ok {
			return nil
		}
		var f *ast.Field
		if keyword == "" {
			f = p.declareVar(name)
		} else {
			f = p.declare(p.scope, name, ast.LocalOrigin)
		}
		var init *ast.Node
		if p.consume("=") {
			init = p.parseAssignment(noIn)
		}
		ast.Append(n, p.span(ast.NewVarDecl(name, f, init), start))
		if !p.consume(",") {
			break
		}
	}
	return n
}

func (p *parser) parseIf() *ast.Node {
	start := p.tok.start
	p.next()
	cond := p.parseParenExpression("if statement")
	body := p.parseStatement()
	var elseBody *ast.Node
	if p.consume("else") {
		elseBody = p.parseStatement()
	}
	return p.span(ast.New(ast.IfNode, cond, body, elseBody), start)
}

func (p *parser) parseFor() *ast.Node {
	start := p.tok.start
	p.next()
	if !p.expect("(", "for statement") {
		return nil
	}

	var scope *ast.Scope
	var init *ast.Node
	if p.is("var") {
		p.next()
		init = p.parseVarList("", true)
	} else if p.is("let") || p.is("const") {
		keyword := p.tok.text
		p.next()
		scope = ast.NewScope(ast.BlockScope, p.scope)
		p.scope = scope
		init = p.parseVarList(keyword, true)
	} else if !p.is(";") {
		init = p.parseExpression(true)
	}

	var n *ast.Node
	if p.consume("in") {
		if init != nil && init.Kind == ast.VarNode && (init.Len() != 1 || init.Child(0).Child(0) != nil) {
			p.fail("for-in statement")
			return nil
		} else if init == nil || init.Kind != ast.VarNode && init.Kind != ast.LookupNode && init.Kind != ast.MemberNode && init.Kind != ast.IndexNode {
			p.fail("for-in statement")
			return nil
		}
		object := p.parseExpression(false)
		p.expect(")", "for-in statement")
		body := p.parseStatement()
		n = ast.New(ast.ForInNode, init, object, body)
	} else {
		p.expect(";", "for statement")
		var cond, update *ast.Node
		if !p.is(";") {
			cond = p.parseExpression(false)
		}
		p.expect(";", "for statement")
		if !p.is(")") {
			update = p.parseExpression(false)
		}
		p.expect(")", "for statement")
		body := p.parseStatement()
		n = ast.New(ast.ForNode, init, cond, update, body)
	}
	if scope != nil {
		p.scope = scope.Parent
		if !scope.Dissolve() {
			n.Scope = scope
			scope.Node = n
		}
	}
	return p.span(n, start)
}

func (p *parser) parseSwitch() *ast.Node {
	start := p.tok.start
	p.next()
	discriminant := p.parseParenExpression("switch statement")
	if !p.expect("{", "switch statement") {
		return nil
	}
	scope := ast.NewScope(ast.BlockScope, p.scope)
	p.scope = scope
	n := ast.New(ast.SwitchNode, discriminant)
	hasDefault := false
	for !p.failed() && !p.is("}") {
		caseStart := p.tok.start
		var test *ast.Node
		if p.consume("case") {
			test = p.parseExpression(false)
		} else if !hasDefault && p.consume("default") {
			hasDefault = true
		} else {
			p.fail("switch statement")
			break
		}
		p.expect(":", "switch statement")
		c := ast.New(ast.CaseNode, test)
		for !p.failed() && !p.is("case") && !p.is("default") && !p.is("}") {
			if p.tok.class == eofToken {
				p.fail("switch statement")
				break
			}
			ast.Append(c, p.parseStatement())
		}
		ast.Append(n, p.span(c, caseStart))
	}
	p.scope = scope.Parent
	if !scope.Dissolve() {
		n.Scope = scope
		scope.Node = n
	}
	p.expect("}", "switch statement")
	return p.span(n, start)
}

func (p *parser) parseTry() *ast.Node {
	start := p.tok.start
	p.next()
	block := p.parseBlock()
	var catch, finally *ast.Node
	if p.is("catch") {
		catchStart := p.tok.start
		p.next()
		if !p.expect("(", "catch clause") {
			return nil
		}
		paramStart := p.tok.start
		name, ok := p.identifier("catch clause")
		if !ok {
			return nil
		}
		p.expect(")", "catch clause")
		scope := ast.NewScope(ast.CatchScope, p.scope)
		param := ast.New(ast.ParamNode)
		param.Name = name
		param.Field = p.declare(scope, name, ast.ArgumentOrigin)
		param.Span = ast.Span{Start: paramStart, End: paramStart + len(name)}
		p.scope = scope
		body := p.parseBlock()
		p.scope = scope.Parent
		catch = p.span(ast.New(ast.CatchNode, param, body), catchStart)
		catch.Scope = scope
		scope.Node = catch
	}
	if p.consume("finally") {
		finally = p.parseBlock()
	}
	if catch == nil && finally == nil {
		p.fail("try statement")
		return nil
	}
	return p.span(ast.New(ast.TryNode, block, catch, finally), start)
}

// parseFunction parses a function declaration or expression starting at the function keyword.
func (p *parser) parseFunction(expr bool) *ast.Node {
	start := p.tok.start
	p.next()
	name := ""
	if p.isIdentifier() {
		name = p.tok.text
		p.next()
	} else if !expr {
		p.fail("function declaration")
		return nil
	}
	var field *ast.Field
	if !expr {
		field = p.declareVar(name)
	}
	fn := p.parseFunctionRest(name)
	if fn == nil {
		return nil
	}
	fn.Span.Start = start
	if expr {
		fn.Flags |= ast.ExprFlag
		if name != "" && fn.Scope.Field(name) == nil {
			self, _ := fn.Scope.Declare(name, ast.LocalOrigin)
			fn.Field = self

			outer := p.scope
			for outer.Kind == ast.WithScope {
				outer = outer.Parent
			}
			if placeholder, ok := outer.Declare(name, ast.LocalOrigin); ok {
				placeholder.Placeholder = true
				placeholder.CanRename = false
				placeholder.Binds = self
				placeholder.Decls = 0
			}
		}
	} else {
		fn.Field = field
	}
	return fn
}

// parseFunctionRest parses the parameter list and the body of a function.
func (p *parser) parseFunctionRest(name string) *ast.Node {
	start := p.tok.start
	scope := ast.NewScope(ast.FunctionScope, p.scope)
	parent, inFunc := p.scope, p.inFunc
	p.scope, p.inFunc = scope, true

	params := ast.New(ast.ParamListNode)
	if !p.expect("(", "function") {
		return nil
	}
	for !p.failed() && !p.is(")") {
		paramStart := p.tok.start
		param, ok := p.identifier("parameters")
		if !ok {
			return nil
		}
		n := ast.New(ast.ParamNode)
		n.Name = param
		n.Field = p.declare(scope, param, ast.ArgumentOrigin)
		ast.Append(params, p.span(n, paramStart))
		if !p.is(")") && !p.expect(",", "parameters") {
			return nil
		}
	}
	p.expect(")", "parameters")

	bodyStart := p.tok.start
	if !p.expect("{", "function body") {
		return nil
	}
	body := ast.New(ast.BlockNode)
	strict := p.parseStatements(body, punctuatorToken, "}")
	p.expect("}", "function body")
	p.span(body, bodyStart)
	p.scope, p.inFunc = parent, inFunc

	fn := ast.New(ast.FunctionNode, params, body)
	fn.Name = name
	fn.Scope = scope
	scope.Node = fn
	if strict {
		fn.Flags |= ast.StrictFlag
	}
	return p.span(fn, start)
}

////////////////////////////////////////////////////////////////

func (p *parser) parseParenExpression(in string) *ast.Node {
	if !p.expect("(", in) {
		return nil
	}
	expr := p.parseExpression(false)
	p.expect(")", in)
	return expr
}

func (p *parser) parseExpression(noIn bool) *ast.Node {
	start := p.tok.start
	x := p.parseAssignment(noIn)
	for x != nil && p.is(",") {
		p.next()
		y := p.parseAssignment(noIn)
		if y == nil {
			return nil
		}
		x = p.span(ast.NewBinary(ast.CommaOp, x, y), start)
	}
	return x
}

func (p *parser) parseAssignment(noIn bool) *ast.Node {
	start := p.tok.start
	target := p.parseConditional(noIn)
	if target == nil {
		return nil
	}
	if p.tok.class == punctuatorToken {
		if op, ok := ast.AssignmentOp(p.tok.text); ok {
			if !isAssignable(target) {
				p.fail("assignment")
				return nil
			}
			p.next()
			value := p.parseAssignment(noIn)
			if value == nil {
				return nil
			}
			return p.span(ast.NewAssign(op, target, value), start)
		}
	}
	return target
}

func (p *parser) parseConditional(noIn bool) *ast.Node {
	start := p.tok.start
	cond := p.parseBinary(ast.PrecOr, noIn)
	if cond == nil || !p.is("?") {
		return cond
	}
	p.next()
	x := p.parseAssignment(false)
	if !p.expect(":", "conditional expression") {
		return nil
	}
	y := p.parseAssignment(noIn)
	if x == nil || y == nil {
		return nil
	}
	return p.span(ast.New(ast.CondNode, cond, x, y), start)
}

// parseBinary parses binary operators of at least the given precedence, all of which are left-associative.
func (p *parser) parseBinary(prec ast.Prec, noIn bool) *ast.Node {
	start := p.tok.start
	x := p.parseUnary()
	for x != nil && (p.tok.class == punctuatorToken || p.tok.class == identToken) {
		op, ok := ast.BinaryOp(p.tok.text)
		if !ok || op == ast.CommaOp || op.Prec() < prec || noIn && op == ast.InOp {
			break
		}
		p.next()
		y := p.parseBinary(op.Prec()+1, noIn)
		if y == nil {
			return nil
		}
		x = p.span(ast.NewBinary(op, x, y), start)
	}
	return x
}

func (p *parser) parseUnary() *ast.Node {
	start := p.tok.start
	if p.tok.class == punctuatorToken || p.tok.class == identToken {
		if op, ok := prefixOps[p.tok.text]; ok {
			p.next()
			x := p.parseUnary()
			if x == nil {
				return nil
			} else if (op == ast.PreIncrOp || op == ast.PreDecrOp) && !isAssignable(x) {
				p.fail("prefix expression")
				return nil
			}
			return p.span(ast.NewUnary(op, x), start)
		}
	}
	x := p.parseMemberOrCall(true)
	if x != nil && !p.tok.nl && (p.is("++") || p.is("--")) {
		if !isAssignable(x) {
			p.fail("postfix expression")
			return nil
		}
		op := ast.PostIncrOp
		if p.tok.text == "--" {
			op = ast.PostDecrOp
		}
		p.next()
		x = p.span(ast.NewUnary(op, x), start)
	}
	return x
}

func (p *parser) parseMemberOrCall(allowCall bool) *ast.Node {
	start := p.tok.start
	var x *ast.Node
	if p.is("new") {
		p.next()
		callee := p.parseMemberOrCall(false)
		if callee == nil {
			return nil
		}
		x = ast.New(ast.NewNode, callee)
		if p.is("(") && !p.parseArguments(x) {
			return nil
		}
		p.span(x, start)
	} else if x = p.parsePrimary(); x == nil {
		return nil
	}

	for !p.failed() {
		if p.consume(".") {
			if p.tok.class != identToken {
				p.fail("member expression")
				return nil
			}
			member := ast.New(ast.MemberNode, x)
			member.Name = p.tok.text
			p.next()
			x = p.span(member, start)
		} else if p.consume("[") {
			key := p.parseExpression(false)
			if !p.expect("]", "index expression") {
				return nil
			}
			x = p.span(ast.New(ast.IndexNode, x, key), start)
		} else if allowCall && p.is("(") {
			call := ast.New(ast.CallNode, x)
			if !p.parseArguments(call) {
				return nil
			}
			x = p.span(call, start)
		} else {
			break
		}
	}
	return x
}

func (p *parser) parseArguments(call *ast.Node) bool {
	p.next()
	for !p.failed() && !p.is(")") {
		arg := p.parseAssignment(false)
		if arg == nil {
			return false
		}
		ast.Append(call, arg)
		if !p.is(")") && !p.expect(",", "arguments") {
			return false
		}
	}
	return p.expect(")", "arguments")
}

func (p *parser) parsePrimary() *ast.Node {
	start := p.tok.start
	switch p.tok.class {
	case identToken:
		switch p.tok.text {
		case "function":
			return p.parseFunction(true)
		case "this":
			p.next()
			return p.span(ast.New(ast.ThisNode), start)
		case "null":
			p.next()
			return p.span(ast.NewLiteral(literal.Null()), start)
		case "true", "false":
			b := p.tok.text == "true"
			p.next()
			return p.span(ast.NewLiteral(literal.Bool(b)), start)
		}
		if !p.isIdentifier() {
			break
		}
		n := ast.NewLookup(p.tok.text, nil)
		p.next()
		return p.span(n, start)
	case numericToken:
		n := ast.NewLiteral(literal.ParseNumber(p.tok.text))
		p.next()
		return p.span(n, start)
	case stringToken:
		v := literal.Other(p.tok.text)
		if s, ok := literal.Unquote(p.tok.text); ok {
			v = literal.String(s)
		}
		n := ast.NewLiteral(v)
		p.next()
		return p.span(n, start)
	case punctuatorToken:
		switch p.tok.text {
		case "(":
			p.next()
			x := p.parseExpression(false)
			if !p.expect(")", "parenthesized expression") {
				return nil
			}
			return x
		case "[":
			return p.parseArray()
		case "{":
			return p.parseObject()
		case "/", "/=":
			if p.regexp() {
				n := ast.New(ast.RegExpNode)
				n.Name = p.tok.text
				p.next()
				return p.span(n, start)
			}
		}
	}
	p.fail("expression")
	return nil
}

func (p *parser) parseArray() *ast.Node {
	start := p.tok.start
	p.next()
	n := ast.New(ast.ArrayNode)
	for !p.failed() && !p.is("]") {
		if p.is(",") {
			elisionStart := p.tok.start
			p.next()
			ast.Append(n, p.span(ast.New(ast.ElisionNode), elisionStart))
			continue
		}
		x := p.parseAssignment(false)
		if x == nil {
			return nil
		}
		ast.Append(n, x)
		if !p.is("]") && !p.expect(",", "array literal") {
			return nil
		}
	}
	p.expect("]", "array literal")
	return p.span(n, start)
}

func (p *parser) parseObject() *ast.Node {
	start := p.tok.start
	p.next()
	n := ast.New(ast.ObjectNode)
	for !p.failed() && !p.is("}") {
		propStart := p.tok.start
		var flags ast.Flags
		if p.tok.class == identToken && (p.tok.text == "get" || p.tok.text == "set") {
			if next := p.peek(); next.text != ":" && next.text != "," && next.text != "}" && next.text != "(" {
				if p.tok.text == "get" {
					flags |= ast.GetterFlag
				} else {
					flags |= ast.SetterFlag
				}
				p.next()
			}
		}
		name, v, keyFlags, ok := p.parsePropertyKey()
		if !ok {
			return nil
		}

		var value *ast.Node
		if flags != 0 {
			if value = p.parseFunctionRest(""); value == nil {
				return nil
			}
			value.Flags |= ast.ExprFlag
		} else if !p.expect(":", "object literal") {
			return nil
		} else if value = p.parseAssignment(false); value == nil {
			return nil
		}
		prop := ast.New(ast.PropertyNode, value)
		prop.Name = name
		prop.Value = v
		prop.Flags = flags | keyFlags
		ast.Append(n, p.span(prop, propStart))
		if !p.is("}") && !p.expect(",", "object literal") {
			return nil
		}
	}
	p.expect("}", "object literal")
	return p.span(n, start)
}

// parsePropertyKey returns the name of a property. Numeric keys and strings that cannot be decoded keep their source text in the value.
func (p *parser) parsePropertyKey() (string, literal.Value, ast.Flags, bool) {
	var flags ast.Flags
	var v literal.Value
	name := p.tok.text
	switch p.tok.class {
	case identToken:
	case stringToken:
		s, ok := literal.Unquote(p.tok.text)
		if !ok {
			v = literal.Other(p.tok.text)
		}
		name = s
	case numericToken:
		flags |= ast.NumericKeyFlag
		v = literal.ParseNumber(p.tok.text)
	default:
		p.fail("property name")
		return "", v, 0, false
	}
	p.next()
	return name, v, flags, true
}

func isAssignable(n *ast.Node) bool {
	return n.Kind == ast.LookupNode || n.Kind == ast.MemberNode || n.Kind == ast.IndexNode || n.Kind == ast.CallNode
}

// Error returns a positioned error for an offset in the source.
func Error(src []byte, offset int, format string, args ...interface{}) *parse.Error {
	return parse.NewError(bytes.NewReader(src), offset, format, args...)
}

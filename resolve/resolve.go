// Package resolve binds the name lookups of a program to the fields of its scope tree. The same walk simplifies every statement list when it is left and reports suspicious constructs.
package resolve

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/config"
	"github.com/tdewolff/crunch/diag"
	"github.com/tdewolff/crunch/literal"
	"github.com/tdewolff/crunch/peephole"
)

type frame struct {
	node  *ast.Node
	scope *ast.Scope
}

// Resolver walks a program resolving lookups.
type Resolver struct {
	settings   *config.Settings
	reporter   diag.Reporter
	simplifier *peephole.Simplifier

	stack    []frame
	reported map[*ast.Field]bool
	changed  bool
}

// New returns a resolver. A nil reporter discards diagnostics.
func New(settings *config.Settings, reporter diag.Reporter) *Resolver {
	if reporter == nil {
		reporter = diag.Discard
	}
	return &Resolver{
		settings:   settings,
		reporter:   reporter,
		simplifier: peephole.New(settings),
		reported:   map[*ast.Field]bool{},
	}
}

// Resolve resolves all lookups of the program and returns true if statements were simplified.
func Resolve(prog *ast.Node, settings *config.Settings, reporter diag.Reporter) bool {
	return New(settings, reporter).Resolve(prog)
}

// Resolve resolves all lookups below prog, which must own the global scope.
func (r *Resolver) Resolve(prog *ast.Node) bool {
	r.stack = r.stack[:0]
	r.changed = false
	ast.Walk(r, prog)
	if len(r.stack) != 0 {
		panic("resolve: unbalanced scopes")
	}
	return r.changed
}

func (r *Resolver) scope() *ast.Scope {
	return r.stack[len(r.stack)-1].scope
}

func (r *Resolver) push(n *ast.Node, s *ast.Scope) {
	r.stack = append(r.stack, frame{n, s})
}

func (r *Resolver) report(severity diag.Severity, code string, n *ast.Node, format string, args ...interface{}) {
	r.reporter.Report(diag.Diagnostic{
		Severity: severity,
		Code:     code,
		Span:     n.Span,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Enter implements ast.Visitor.
func (r *Resolver) Enter(n *ast.Node) bool {
	if p := n.Parent(); p != nil && p.Kind == ast.WithNode && p.Child(1) == n && p.Scope != nil {
		// the object of a with statement lies outside its scope
		r.push(n, p.Scope)
	}
	if n.Kind == ast.FunctionNode && n.Flags&ast.ExprFlag == 0 {
		// before the function's own scope is pushed
		r.declaration(n)
	}
	if n.Scope != nil && n.Kind != ast.WithNode {
		r.push(n, n.Scope)
	}

	switch n.Kind {
	case ast.LookupNode:
		r.lookup(n)
	case ast.VarDeclNode:
		r.declaration(n)
	case ast.WithNode:
		r.report(diag.Warning, diag.SuspiciousWith, n, "with statement makes name resolution ambiguous")
	case ast.IfNode, ast.WhileNode:
		r.condition(n.Child(0))
	case ast.DoWhileNode, ast.ForNode:
		r.condition(n.Child(1))
	case ast.RegExpNode:
		r.regexp(n)
	}
	return true
}

// Exit implements ast.Visitor.
func (r *Resolver) Exit(n *ast.Node) {
	switch n.Kind {
	case ast.CallNode:
		if isGlobalEval(n.Child(0)) {
			r.unknown(r.scope())
		}
	case ast.ProgramNode, ast.BlockNode, ast.CaseNode:
		if r.simplifier.List(n) {
			r.changed = true
		}
	}
	for 0 < len(r.stack) && r.stack[len(r.stack)-1].node == n {
		r.stack = r.stack[:len(r.stack)-1]
	}
}

func (r *Resolver) lookup(n *ast.Node) {
	if n.Field != nil {
		return
	}
	name := n.Name
	scope := r.scope()

	var f *ast.Field
	through := false
	for s := scope; s != nil; s = s.Parent {
		if f = s.Field(name); f != nil {
			break
		} else if s.Kind == ast.WithScope {
			through = true
		}
	}

	if name == "arguments" {
		if fn := scope.VarScope(); fn.Kind == ast.FunctionScope && (f == nil || f.Scope != fn && fn.IsWithin(f.Scope)) {
			f, _ = fn.Declare(name, ast.PredefinedOrigin)
		}
	}

	if f == nil {
		origin := ast.GlobalOrigin
		if predefined[name] {
			origin = ast.PredefinedOrigin
		}
		f, _ = scope.Global().Declare(name, origin)
		if origin == ast.GlobalOrigin && !r.reported[f] && !isTypeofOperand(n) {
			r.reported[f] = true
			if p := n.Parent(); p != nil && (p.Kind == ast.CallNode || p.Kind == ast.NewNode) && p.Child(0) == n {
				r.report(diag.Warning, diag.UndeclaredFunction, n, "%s is not declared", name)
			} else {
				r.report(diag.Warning, diag.UndeclaredVariable, n, "%s is not declared", name)
			}
		}
	} else if f.Placeholder {
		// the name of a function expression is referenced from outside of the function
		f.Ambiguous = true
		if f.Binds != nil {
			f.Binds.Ambiguous = true
		}
		if !r.reported[f] {
			r.reported[f] = true
			r.report(diag.Warning, diag.AmbiguousFunctionName, n, "%s refers to a function expression name outside of the function", name)
		}
	}

	if through {
		f.Root().CanRename = false
	}

	inner := scope
	for inner.Kind == ast.WithScope {
		inner = inner.Parent
	}
	if f.Scope != inner {
		alias, _ := inner.Declare(name, f.Origin)
		alias.Outer = f
		alias.Decls = 0
		alias.CanRename = false
		alias.AddRef(scope)
		f = alias
	}
	f.Root().AddRef(scope)
	n.Field = f
}

// declaration binds a hoisted var or function declaration in the scope it is written in, so that fields of that scope and
// the scopes in between are not given the same name.
func (r *Resolver) declaration(n *ast.Node) {
	f := n.Field
	if f == nil || f.Outer != nil {
		return
	}
	scope := r.scope()
	inner := scope
	for s := scope; s != nil && s != f.Scope; s = s.Parent {
		if s.Kind == ast.WithScope {
			// the initializer may assign to a property of the object
			f.CanRename = false
			if s == inner {
				inner = s.Parent
			}
		}
	}
	if f.Scope == inner || !inner.IsWithin(f.Scope) || inner.Field(f.Name) != nil {
		return
	}
	alias, _ := inner.Declare(f.Name, f.Origin)
	alias.Outer = f
	alias.Decls = 0
	alias.CanRename = false
	alias.AddRef(inner)
}

// unknown marks a scope that contains a direct eval. Any field visible from it may be referenced by code constructed at runtime.
func (r *Resolver) unknown(s *ast.Scope) {
	for ; s != nil; s = s.Parent {
		s.Unknown = true
		for _, f := range s.Fields() {
			f.CanRename = false
		}
	}
}

func (r *Resolver) condition(cond *ast.Node) {
	if cond != nil && cond.Kind == ast.AssignNode && cond.Op == ast.AssignOp {
		r.report(diag.Warning, diag.SuspectAssignment, cond, "assignment used as condition")
	}
}

func (r *Resolver) regexp(n *ast.Node) {
	i := strings.LastIndexByte(n.Name, '/')
	if i < 1 {
		return
	}
	pattern, flags := n.Name[1:i], n.Name[i+1:]
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	for _, c := range flags {
		switch c {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 'g', 'y', 'u', 's':
		default:
			r.report(diag.Error, diag.InvalidRegExp, n, "invalid regular expression flag %q", c)
			return
		}
	}
	if _, err := regexp2.Compile(pattern, opts); err != nil {
		r.report(diag.Error, diag.InvalidRegExp, n, "invalid regular expression: %v", err)
	}
}

func isTypeofOperand(n *ast.Node) bool {
	p := n.Parent()
	return p != nil && p.Kind == ast.UnaryNode && p.Op == ast.TypeofOp
}

func isGlobal(n *ast.Node, name string) bool {
	return n.Kind == ast.LookupNode && n.Name == name && n.Field != nil && n.Field.Root().Scope.Kind == ast.GlobalScope
}

// isGlobalEval returns true for the callees eval, window.eval and window["eval"] referring to the global eval function.
func isGlobalEval(callee *ast.Node) bool {
	switch callee.Kind {
	case ast.LookupNode:
		return isGlobal(callee, "eval")
	case ast.MemberNode:
		return callee.Name == "eval" && isGlobal(callee.Child(0), "window")
	case ast.IndexNode:
		key := callee.Child(1)
		return key.Kind == ast.LiteralNode && key.Value.Kind == literal.StringKind && key.Value.Str == "eval" && isGlobal(callee.Child(0), "window")
	}
	return false
}

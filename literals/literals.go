// Package literals combines repeated string literals of a function into a local variable that is declared at the top of the function body.
package literals

import (
	"strconv"

	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/config"
	"github.com/tdewolff/crunch/literal"
	"github.com/tdewolff/crunch/printer"
)

// occurrence is a literal node together with the scope it is evaluated in.
type occurrence struct {
	node  *ast.Node
	scope *ast.Scope
}

type group struct {
	value literal.Value
	nodes []occurrence
}

// Combine replaces string literals that occur often enough in a function by lookups of a generated variable. It returns the number of variables that were generated.
func Combine(prog *ast.Node, settings *config.Settings) int {
	if !settings.IsModificationAllowed(config.CombineDuplicateLiterals) {
		return 0
	}
	renamed := settings.IsModificationAllowed(config.RenameLocals)

	var fns []*ast.Node
	ast.Inspect(prog, func(n *ast.Node) bool {
		if n.Kind == ast.FunctionNode && n.Scope != nil && !n.Scope.Unknown {
			fns = append(fns, n)
		}
		return true
	})

	count := 0
	for _, fn := range fns {
		count += combine(fn, renamed)
	}
	return count
}

// combine hoists the literals of a single function, not counting those of nested functions. When renamed is set the generated names are expected to be shortened to a single character.
func combine(fn *ast.Node, renamed bool) int {
	var groups []*group
	index := map[string]*group{}
	ast.Inspect(fn.Body(), func(n *ast.Node) bool {
		if n.Kind == ast.FunctionNode || n.Kind == ast.WithNode {
			// with statements may shadow the generated name
			return false
		} else if n.Kind != ast.LiteralNode || n.Value.Kind != literal.StringKind {
			return true
		} else if p := n.Parent(); p.Kind == ast.ExprStmtNode && p.Flags&ast.DirectiveFlag != 0 {
			return false
		}
		g, ok := index[n.Value.Str]
		if !ok {
			g = &group{value: n.Value}
			index[n.Value.Str] = g
			groups = append(groups, g)
		}
		g.nodes = append(g.nodes, occurrence{n, scopeOf(n, fn)})
		return false
	})

	body := fn.Body()
	var decls []*ast.Node
	next := 0
	for _, g := range groups {
		if len(g.nodes) < 2 {
			continue
		}
		name, i := freeName(fn.Scope, next)
		k := 1
		if !renamed {
			k = len(name)
		}
		size := len(printer.Literal(g.value))
		if saved := len(g.nodes)*(size-k) - len("var =;") - k - size; saved <= 0 {
			continue
		}
		next = i

		f, _ := fn.Scope.Declare(name, ast.GeneratedOrigin)
		for _, occ := range g.nodes {
			lookup := ast.NewLookup(name, bind(f, occ.scope))
			lookup.Span = occ.node.Span
			ast.Replace(occ.node, lookup)
		}
		decl := ast.NewVarDecl(name, f, ast.NewLiteral(g.value))
		decl.Span = g.nodes[0].node.Span
		decls = append(decls, decl)
	}
	if len(decls) == 0 {
		return 0
	}

	// declarations go after the directive prologue
	i := 0
	for _, stmt := range body.Tail() {
		if stmt.Kind != ast.ExprStmtNode || stmt.Flags&ast.DirectiveFlag == 0 {
			break
		}
		i++
	}
	v := ast.New(ast.VarNode, decls...)
	v.Span = ast.Span{Start: body.Span.Start, End: body.Span.Start}
	ast.Insert(body, i, v)
	return len(decls)
}

// scopeOf returns the innermost scope around n within the function fn.
func scopeOf(n, fn *ast.Node) *ast.Scope {
	for p := n.Parent(); p != nil && p != fn; p = p.Parent() {
		if p.Scope != nil {
			return p.Scope
		}
	}
	return fn.Scope
}

// freeName returns a name that is neither visible in s nor used in any scope nested in it, starting the search at counter i.
func freeName(s *ast.Scope, i int) (string, int) {
	for ; ; i++ {
		name := "$" + strconv.Itoa(i)
		if s.Lookup(name) == nil && !usedBelow(s, name) {
			return name, i + 1
		}
	}
}

func usedBelow(s *ast.Scope, name string) bool {
	for _, c := range s.Children {
		if c.Field(name) != nil || usedBelow(c, name) {
			return true
		}
	}
	return false
}

// bind returns the field through which a lookup from scope s refers to f, declaring an inner alias when s is nested in the scope of f.
func bind(f *ast.Field, s *ast.Scope) *ast.Field {
	if f.Scope != s {
		alias, _ := s.Declare(f.Name, f.Origin)
		alias.Outer = f
		alias.Decls = 0
		alias.CanRename = false
		alias.AddRef(s)
		f.AddRef(s)
		return alias
	}
	f.AddRef(s)
	return f
}

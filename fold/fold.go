// Package fold evaluates constant expressions at compile time. Binary expressions whose constants are separated by one operator are rotated so that the constants become adjacent. A fold is applied only when the result is not longer than the original and every host evaluates both the same.
package fold

import (
	"math"

	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/config"
	"github.com/tdewolff/crunch/literal"
	"github.com/tdewolff/crunch/printer"
)

// Folder folds constant expressions.
type Folder struct {
	settings *config.Settings
	changed  bool
}

// New returns a folder applying the evaluations allowed by settings.
func New(settings *config.Settings) *Folder {
	return &Folder{
		settings: settings,
	}
}

// Fold folds all constant expressions below n and returns true if the tree changed.
func Fold(n *ast.Node, settings *config.Settings) bool {
	return New(settings).Walk(n)
}

// Walk folds all expressions below n, innermost first.
func (f *Folder) Walk(n *ast.Node) bool {
	f.changed = false
	ast.Walk(f, n)
	return f.changed
}

// Enter implements ast.Visitor.
func (f *Folder) Enter(n *ast.Node) bool {
	return n.Kind != ast.LiteralNode && n.Kind != ast.LookupNode && n.Kind != ast.RegExpNode
}

// Exit implements ast.Visitor.
func (f *Folder) Exit(n *ast.Node) {
	f.expr(n)
}

func (f *Folder) allowed(m config.Modification) bool {
	return f.settings.IsModificationAllowed(m)
}

// expr folds n, whose operands have been folded already.
func (f *Folder) expr(n *ast.Node) {
	switch n.Kind {
	case ast.UnaryNode:
		f.unary(n)
	case ast.BinaryNode:
		f.binary(n)
	case ast.CondNode:
		f.cond(n)
	}
}

// replace puts m in the place of n.
func (f *Folder) replace(n, m *ast.Node) {
	if n.Parent() != nil {
		ast.Replace(n, m)
		f.changed = true
	}
}

// replaceValue replaces n by the literal v if its text is not longer.
func (f *Folder) replaceValue(n *ast.Node, v literal.Value) bool {
	if printer.Len(n) < len(printer.Literal(v)) {
		return false
	}
	m := ast.NewLiteral(v)
	m.Span = n.Span
	f.replace(n, m)
	return true
}

func (f *Folder) unary(n *ast.Node) {
	x := n.Child(0)
	v, ok := constant(x)
	if !ok {
		return
	}
	switch n.Op {
	case ast.NotOp:
		if b, err := literal.ToBoolean(v); err == nil && f.allowed(config.EvaluateLogicalExpressions) {
			f.replaceValue(n, literal.Bool(!b))
		}
	case ast.NegOp, ast.PosOp:
		if num, err := literal.ToNumber(v); err == nil && f.allowed(config.EvaluateNumericExpressions) {
			if n.Op == ast.NegOp {
				num = -num
			}
			f.replaceValue(n, literal.Number(num))
		}
	case ast.BitNotOp:
		if i, err := literal.ToInt32(v); err == nil && f.allowed(config.EvaluateNumericExpressions) {
			f.replaceValue(n, literal.Number(float64(^i)))
		}
	case ast.TypeofOp:
		if t, ok := v.TypeOf(); ok && f.allowed(config.EvaluateStringExpressions) {
			f.replaceValue(n, literal.String(t))
		}
	case ast.VoidOp:
		// any constant operand gives undefined
		if (v.Kind != literal.NumberKind || v.Num != 0 || math.Signbit(v.Num)) && f.allowed(config.EvaluateLogicalExpressions) {
			if zero := literal.Number(0); len(printer.Literal(zero)) < printer.Len(x) {
				ast.ReplaceChild(n, x, ast.NewLiteral(zero))
				f.changed = true
			}
		}
	}
}

func (f *Folder) cond(n *ast.Node) {
	v, ok := constant(n.Child(0))
	if !ok || !f.allowed(config.EvaluateLogicalExpressions) {
		return
	}
	if b, err := literal.ToBoolean(v); err == nil {
		if b {
			f.replace(n, operand(n, n.Child(1)))
		} else {
			f.replace(n, operand(n, n.Child(2)))
		}
	}
}

func (f *Folder) binary(n *ast.Node) {
	x, y := n.Child(0), n.Child(1)
	a, xok := constant(x)
	b, yok := constant(y)

	switch n.Op {
	case ast.CommaOp:
		f.comma(n)
		return
	case ast.AndOp, ast.OrOp:
		if xok && f.allowed(config.EvaluateLogicalExpressions) {
			if truthy, err := literal.ToBoolean(a); err == nil {
				if truthy == (n.Op == ast.AndOp) {
					f.replace(n, operand(n, y))
				} else {
					f.replace(n, operand(n, x))
				}
			}
		}
		return
	case ast.StrictEqOp, ast.StrictNotEqOp:
		if f.strictTypes(n) {
			return
		}
	}

	if xok && yok {
		if v, ok := evaluate(n.Op, a, b); ok && f.allowed(category(n.Op, a, b)) {
			f.replaceValue(n, v)
		}
		return
	} else if yok && !xok && f.allowed(config.EvaluateNumericExpressions) && f.toNumber(n) {
		return
	}
	f.rotate(n)
}

// comma drops a constant left operand, also when it ends a nested comma expression.
func (f *Folder) comma(n *ast.Node) {
	if !f.allowed(config.EvaluateLogicalExpressions) {
		return
	}
	x, y := n.Child(0), n.Child(1)
	if _, ok := constant(x); ok {
		if operand(n, y) != y {
			// (0,a.b)() keeps this undefined
			return
		}
		f.replace(n, y)
	} else if x.Kind == ast.BinaryNode && x.Op == ast.CommaOp {
		if k := x.Child(1); k != nil {
			if _, ok := constant(k); ok && n.Parent() != nil {
				ast.ReplaceChild(x, k, y)
				f.replace(n, x)
			}
		}
	}
}

// operand returns the node that takes the place of n, where m is kept as the right operand of (0,m) when n is a callee
// or the operand of delete, and m alone would bind this, make eval direct or delete a reference.
func operand(n, m *ast.Node) *ast.Node {
	p := n.Parent()
	if p == nil {
		return m
	}
	switch {
	case p.Kind == ast.CallNode && p.Child(0) == n:
		if m.Kind != ast.MemberNode && m.Kind != ast.IndexNode && (m.Kind != ast.LookupNode || m.Name != "eval") {
			return m
		}
	case p.Kind == ast.UnaryNode && p.Op == ast.DeleteOp:
		if m.Kind != ast.MemberNode && m.Kind != ast.IndexNode && m.Kind != ast.LookupNode {
			return m
		}
	default:
		return m
	}
	return ast.NewBinary(ast.CommaOp, ast.NewLiteral(literal.Number(0)), m)
}

// strictTypes folds a strict (in)equality between operands of differing static types that can be left out without side effects.
func (f *Folder) strictTypes(n *ast.Node) bool {
	x, y := n.Child(0), n.Child(1)
	tx, ty := typeOf(x), typeOf(y)
	if tx == unknownType || tx == mixedType || ty == unknownType || ty == mixedType || tx == ty {
		return false
	} else if !sideEffectFree(x) || !sideEffectFree(y) || !f.allowed(config.EvaluateLogicalExpressions) {
		return false
	}
	return f.replaceValue(n, literal.Bool(n.Op == ast.StrictNotEqOp))
}

// toNumber rewrites x-0, x*1 and x/1 to +x.
func (f *Folder) toNumber(n *ast.Node) bool {
	v, _ := constant(n.Child(1))
	if v.Kind != literal.NumberKind || n.Parent() == nil {
		return false
	}
	switch n.Op {
	case ast.SubOp:
		if v.Num != 0 || math.Signbit(v.Num) {
			return false
		}
	case ast.MulOp, ast.DivOp:
		if v.Num != 1 {
			return false
		}
	default:
		return false
	}
	x := n.Child(0)
	f.replace(n, ast.NewUnary(ast.PosOp, x))
	return true
}

package fold

import (
	"math"

	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/literal"
)

// primitive is the statically known type of an expression.
type primitive uint8

const (
	unknownType primitive = iota
	mixedType             // some primitive, but not known which
	nullType
	undefinedType
	booleanType
	numberType
	stringType
)

// constant returns the value of a constant expression. The global NaN and Infinity are constants when they resolve to the predefined globals.
func constant(n *ast.Node) (literal.Value, bool) {
	switch n.Kind {
	case ast.LiteralNode:
		return n.Value, n.Value.IsConstant()
	case ast.LookupNode:
		if n.Field == nil {
			return literal.Value{}, false
		} else if root := n.Field.Root(); root.Origin != ast.PredefinedOrigin || root.Scope.Kind != ast.GlobalScope {
			return literal.Value{}, false
		}
		switch n.Name {
		case "NaN":
			return literal.Number(math.NaN()), true
		case "Infinity":
			return literal.Number(math.Inf(1)), true
		}
	}
	return literal.Value{}, false
}

func valueType(v literal.Value) primitive {
	switch v.Kind {
	case literal.NullKind:
		return nullType
	case literal.BooleanKind:
		return booleanType
	case literal.NumberKind:
		return numberType
	case literal.StringKind:
		return stringType
	}
	return unknownType
}

func mergeTypes(a, b primitive) primitive {
	if a == unknownType || b == unknownType {
		return unknownType
	} else if a == b {
		return a
	}
	return mixedType
}

// typeOf returns the primitive type an expression evaluates to, if known without evaluating it.
func typeOf(n *ast.Node) primitive {
	if v, ok := constant(n); ok {
		return valueType(v)
	}
	switch n.Kind {
	case ast.CondNode:
		return mergeTypes(typeOf(n.Child(1)), typeOf(n.Child(2)))
	case ast.UnaryNode:
		switch n.Op {
		case ast.VoidOp:
			return undefinedType
		case ast.TypeofOp:
			return stringType
		case ast.NotOp, ast.DeleteOp:
			return booleanType
		case ast.PosOp, ast.NegOp, ast.BitNotOp, ast.PreIncrOp, ast.PreDecrOp, ast.PostIncrOp, ast.PostDecrOp:
			return numberType
		}
	case ast.BinaryNode:
		switch n.Op {
		case ast.CommaOp:
			return typeOf(n.Child(1))
		case ast.OrOp, ast.AndOp:
			return mergeTypes(typeOf(n.Child(0)), typeOf(n.Child(1)))
		case ast.AddOp:
			x, y := typeOf(n.Child(0)), typeOf(n.Child(1))
			if x == stringType || y == stringType {
				return stringType
			} else if x != unknownType && x != mixedType && y != unknownType && y != mixedType {
				return numberType
			}
			return unknownType
		}
		if n.Op.IsComparison() {
			return booleanType
		}
		return numberType
	case ast.AssignNode:
		if n.Op == ast.AssignOp {
			return typeOf(n.Child(1))
		} else if n.Op == ast.AddAssignOp {
			if typeOf(n.Child(1)) == stringType {
				return stringType
			}
			return unknownType
		}
		return numberType
	}
	return unknownType
}

// sideEffectFree returns true if evaluating n can neither throw nor change state.
func sideEffectFree(n *ast.Node) bool {
	switch n.Kind {
	case ast.LiteralNode, ast.ThisNode, ast.RegExpNode:
		return true
	case ast.FunctionNode:
		return n.IsFunctionExpr()
	case ast.LookupNode:
		// undeclared globals throw a ReferenceError
		return n.Field != nil && n.Field.Root().Origin != ast.GlobalOrigin
	case ast.UnaryNode:
		switch n.Op {
		case ast.NotOp, ast.VoidOp:
			return sideEffectFree(n.Child(0))
		case ast.TypeofOp:
			x := n.Child(0)
			return x.Kind == ast.LookupNode || sideEffectFree(x)
		}
	}
	return false
}

// Package ast implements the syntax tree of JavaScript programs together with their lexical scopes. Nodes own their children exclusively and keep a back-reference to their parent which is only maintained by the functions in this package.
package ast

import (
	"github.com/tdewolff/crunch/literal"
)

// Span is a byte range in the source, used for diagnostics only.
type Span struct {
	Start, End int
}

// Flags are per-node syntactic details.
type Flags uint16

// Flags values.
const (
	ExprFlag       Flags = 1 << iota // function is an expression
	GetterFlag                       // property is a getter
	SetterFlag                       // property is a setter
	StrictFlag                       // function body or program starts with "use strict"
	DirectiveFlag                    // expression statement is a directive prologue
	NumericKeyFlag                   // property key is a numeric literal
)

// Node is an element of the syntax tree. Its meaning depends on Kind, see the comments on the Kind values for the layout of the children.
type Node struct {
	Kind  Kind
	Op    Op            // Binary, Assign and Unary
	Name  string        // identifier, label, property name or regular expression source
	Value literal.Value // Literal
	Field *Field        // resolved binding of Lookup, VarDecl, Param and named Function
	Scope *Scope        // scope opened by Program, Function, Block, Catch and With
	Span  Span
	Flags Flags

	parent *Node
	list   []*Node
}

// New returns a node of the given kind. The children fill the fixed slots first, missing fixed children are nil, and the rest is appended to the variadic tail. It panics when a fixed-arity kind receives too many children.
func New(kind Kind, children ...*Node) *Node {
	n := &Node{Kind: kind}
	k := fixedSlots(kind)
	if !kind.IsVariadic() && k < len(children) {
		panic("ast: too many children for " + kind.String())
	}
	size := k
	if k < len(children) {
		size = len(children)
	}
	n.list = make([]*Node, k, size)
	for i, c := range children {
		if i < k {
			if c != nil {
				detach(c)
				n.list[i] = c
				c.parent = n
			}
		} else if c != nil {
			detach(c)
			n.list = append(n.list, c)
			c.parent = n
		}
	}
	return n
}

// NewLiteral returns a literal node.
func NewLiteral(v literal.Value) *Node {
	n := New(LiteralNode)
	n.Value = v
	return n
}

// NewLookup returns a name reference bound to a field.
func NewLookup(name string, f *Field) *Node {
	n := New(LookupNode)
	n.Name = name
	n.Field = f
	return n
}

// NewBinary returns a binary expression.
func NewBinary(op Op, x, y *Node) *Node {
	n := New(BinaryNode, x, y)
	n.Op = op
	return n
}

// NewUnary returns a unary expression.
func NewUnary(op Op, x *Node) *Node {
	n := New(UnaryNode, x)
	n.Op = op
	return n
}

// NewAssign returns an assignment expression.
func NewAssign(op Op, target, value *Node) *Node {
	n := New(AssignNode, target, value)
	n.Op = op
	return n
}

// NewVarDecl returns a variable declaration with an optional initializer.
func NewVarDecl(name string, f *Field, init *Node) *Node {
	n := New(VarDeclNode, init)
	n.Name = name
	n.Field = f
	return n
}

// NewVoid0 returns the expression void 0.
func NewVoid0() *Node {
	return NewUnary(VoidOp, NewLiteral(literal.Number(0)))
}

// Parent returns the node that contains n, or nil for a detached node or the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the child slots of n. Fixed slots may be nil. The returned slice must not be modified.
func (n *Node) Children() []*Node {
	return n.list
}

// Len returns the number of child slots.
func (n *Node) Len() int {
	return len(n.list)
}

// Child returns the child in slot i, or nil if absent.
func (n *Node) Child(i int) *Node {
	if i < 0 || len(n.list) <= i {
		return nil
	}
	return n.list[i]
}

// Tail returns the variadic children, such as the statements of a block or the arguments of a call.
func (n *Node) Tail() []*Node {
	return n.list[fixedSlots(n.Kind):]
}

// IndexOf returns the slot of child c by identity, or -1.
func (n *Node) IndexOf(c *Node) int {
	if c == nil {
		return -1
	}
	for i, d := range n.list {
		if d == c {
			return i
		}
	}
	return -1
}

// IsFixed returns true if slot i is a fixed slot.
func (n *Node) IsFixed(i int) bool {
	return i < fixedSlots(n.Kind)
}

// Next returns the following sibling in a variadic list, or nil.
func (n *Node) Next() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.IndexOf(n)
	if i < fixedSlots(n.parent.Kind) || len(n.parent.list) <= i+1 {
		return nil
	}
	return n.parent.list[i+1]
}

// Prev returns the preceding sibling in a variadic list, or nil.
func (n *Node) Prev() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.IndexOf(n)
	if i <= fixedSlots(n.parent.Kind) {
		return nil
	}
	return n.parent.list[i-1]
}

// IsLiteral returns true for literal nodes holding a known constant.
func (n *Node) IsLiteral() bool {
	return n != nil && n.Kind == LiteralNode && n.Value.IsConstant()
}

// IsFunctionExpr returns true for function expressions.
func (n *Node) IsFunctionExpr() bool {
	return n != nil && n.Kind == FunctionNode && n.Flags&ExprFlag != 0
}

// Body returns the body block of a function node.
func (n *Node) Body() *Node {
	if n.Kind != FunctionNode {
		return nil
	}
	return n.list[1]
}

// EnclosingFunction returns the closest function ancestor of n, or nil at the program level.
func (n *Node) EnclosingFunction() *Node {
	for p := n.parent; p != nil; p = p.parent {
		if p.Kind == FunctionNode {
			return p
		}
	}
	return nil
}

// IsAncestorOf returns true if n is a or contains a.
func (n *Node) IsAncestorOf(a *Node) bool {
	for ; a != nil; a = a.parent {
		if a == n {
			return true
		}
	}
	return false
}

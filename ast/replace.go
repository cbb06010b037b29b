package ast

import (
	"errors"
	"fmt"
)

// ErrIntegrity is returned by Check when the parent and child views of the tree disagree.
var ErrIntegrity = errors.New("tree integrity violated")

// detach removes n from its parent, clearing a fixed slot or dropping a variadic one.
func detach(n *Node) {
	p := n.parent
	if p == nil {
		return
	}
	if i := p.IndexOf(n); i != -1 {
		if i < fixedSlots(p.Kind) {
			p.list[i] = nil
		} else {
			p.list = append(p.list[:i], p.list[i+1:]...)
		}
	}
	n.parent = nil
}

// ReplaceChild replaces the child old of parent by new. The child is located by identity. A nil replacement clears a fixed slot or removes the slot from a variadic list. The replacement is detached from its previous parent first and old ends up detached. It returns false if old is not a child of parent or the replacement would create a cycle.
func ReplaceChild(parent, old, new *Node) bool {
	if new == nil {
		return Splice(parent, old)
	}
	return Splice(parent, old, new)
}

// Splice replaces the child old of parent by any number of nodes. More than one replacement is only accepted in a variadic list. Nil replacements are skipped. The replacement list may contain old itself, which keeps it attached at that position.
func Splice(parent, old *Node, news ...*Node) bool {
	if parent == nil || old == nil || old.parent != parent || parent.IndexOf(old) == -1 {
		return false
	}
	news = compact(news)
	if parent.IndexOf(old) < fixedSlots(parent.Kind) && 1 < len(news) {
		return false
	}
	for i, n := range news {
		if n != old && n.IsAncestorOf(parent) {
			return false
		}
		for _, m := range news[:i] {
			if m == n {
				return false
			}
		}
	}

	for _, n := range news {
		if n != old {
			detach(n)
		}
	}
	i := parent.IndexOf(old)
	if i < fixedSlots(parent.Kind) {
		if len(news) == 0 {
			parent.list[i] = nil
		} else {
			parent.list[i] = news[0]
		}
	} else {
		list := make([]*Node, 0, len(parent.list)-1+len(news))
		list = append(list, parent.list[:i]...)
		list = append(list, news...)
		list = append(list, parent.list[i+1:]...)
		parent.list = list
	}
	old.parent = nil
	for _, n := range news {
		n.parent = parent
	}
	return true
}

// Insert inserts children into the variadic list of parent before tail position i, where 0 is the first variadic child. It returns false for fixed-arity kinds, an out of range position or when a child is an ancestor of parent.
func Insert(parent *Node, i int, children ...*Node) bool {
	if parent == nil || !parent.Kind.IsVariadic() {
		return false
	}
	k := fixedSlots(parent.Kind)
	if i < 0 || len(parent.list)-k < i {
		return false
	}
	children = compact(children)
	for _, c := range children {
		if c.IsAncestorOf(parent) {
			return false
		}
	}
	for _, c := range children {
		if c.parent == parent && parent.IndexOf(c)-k < i {
			i--
		}
		detach(c)
	}
	i += k
	list := make([]*Node, 0, len(parent.list)+len(children))
	list = append(list, parent.list[:i]...)
	list = append(list, children...)
	list = append(list, parent.list[i:]...)
	parent.list = list
	for _, c := range children {
		c.parent = parent
	}
	return true
}

// Append adds a child at the end of the variadic list of parent.
func Append(parent, child *Node) bool {
	if parent == nil {
		return false
	}
	return Insert(parent, len(parent.list)-fixedSlots(parent.Kind), child)
}

// Detach removes n from its parent. It returns false if n has no parent.
func Detach(n *Node) bool {
	if n == nil || n.parent == nil {
		return false
	}
	return ReplaceChild(n.parent, n, nil)
}

// Replace puts new in the place of n within its parent.
func Replace(n, new *Node) bool {
	if n == nil || n.parent == nil {
		return false
	}
	return ReplaceChild(n.parent, n, new)
}

// Wrap replaces n by the node returned by f, which receives n detached and may use it as a descendant of the replacement. It returns the replacement.
func Wrap(n *Node, f func(*Node) *Node) *Node {
	p := n.parent
	if p == nil {
		return f(n)
	}
	hole := New(ErrorNode)
	ReplaceChild(p, n, hole)
	m := f(n)
	if !ReplaceChild(p, hole, m) {
		ReplaceChild(p, hole, n)
		return n
	}
	return m
}

// Rebuild puts a new node with the kind and attributes of n in its place, holding the given children instead. A scope opened by n moves to the new node.
func Rebuild(n *Node, children ...*Node) *Node {
	m := New(n.Kind, children...)
	m.Op = n.Op
	m.Name = n.Name
	m.Value = n.Value
	m.Field = n.Field
	m.Scope = n.Scope
	m.Span = n.Span
	m.Flags = n.Flags
	if m.Scope != nil && m.Scope.Node == n {
		m.Scope.Node = m
	}
	if n.parent != nil {
		Replace(n, m)
	}
	return m
}

// Clone returns a deep copy of n with fresh identities. Spans, fields and scopes are shared with the original.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.parent = nil
	c.list = make([]*Node, len(n.list))
	for i, child := range n.list {
		if child != nil {
			cc := Clone(child)
			cc.parent = &c
			c.list[i] = cc
		}
	}
	return &c
}

// Check verifies that every node reachable from root points to the node that contains it, that it is contained only once, and that the slot layout matches its kind.
func Check(root *Node) error {
	seen := map[*Node]bool{}
	var check func(*Node) error
	check = func(n *Node) error {
		if seen[n] {
			return fmt.Errorf("%w: %v reachable twice", ErrIntegrity, n.Kind)
		}
		seen[n] = true
		k := fixedSlots(n.Kind)
		if len(n.list) < k || !n.Kind.IsVariadic() && k < len(n.list) {
			return fmt.Errorf("%w: %v has %d slots", ErrIntegrity, n.Kind, len(n.list))
		}
		for i, c := range n.list {
			if c == nil {
				if k <= i {
					return fmt.Errorf("%w: %v has a nil list element", ErrIntegrity, n.Kind)
				}
				continue
			} else if c.parent != n {
				return fmt.Errorf("%w: %v child %v has the wrong parent", ErrIntegrity, n.Kind, c.Kind)
			} else if err := check(c); err != nil {
				return err
			}
		}
		return nil
	}
	if root.parent != nil {
		return fmt.Errorf("%w: root has a parent", ErrIntegrity)
	}
	return check(root)
}

func compact(nodes []*Node) []*Node {
	for _, n := range nodes {
		if n == nil {
			out := make([]*Node, 0, len(nodes))
			for _, m := range nodes {
				if m != nil {
					out = append(out, m)
				}
			}
			return out
		}
	}
	return nodes
}

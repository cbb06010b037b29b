package ast

// Visitor is called on entering and on leaving every node. Enter returns false to skip the children of n, Exit is called regardless.
type Visitor interface {
	Enter(n *Node) bool
	Exit(n *Node)
}

// Walk traverses the tree in depth-first order. It iterates over a snapshot of the children of every node so that the visitor may replace the node it is in, or any of its descendants, when leaving it. Children that have been moved elsewhere before their turn are skipped.
func Walk(v Visitor, n *Node) {
	if n == nil {
		return
	}
	if v.Enter(n) {
		var buf [4]*Node
		children := append(buf[:0], n.list...)
		for _, c := range children {
			if c != nil && c.parent == n {
				Walk(v, c)
			}
		}
	}
	v.Exit(n)
}

// Inspect traverses the tree in depth-first order calling f for every node. If f returns false the children are skipped.
func Inspect(n *Node, f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range n.list {
		if c != nil {
			Inspect(c, f)
		}
	}
}

// Contains returns true if f returns true for n or one of its descendants, not descending into nested functions.
func Contains(n *Node, f func(*Node) bool) bool {
	found := false
	Inspect(n, func(m *Node) bool {
		if found {
			return false
		} else if f(m) {
			found = true
			return false
		}
		return m == n || m.Kind != FunctionNode
	})
	return found
}

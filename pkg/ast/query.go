package ast

import "iter"

// Predicate decides whether a node matches a search.
type Predicate func(n *Node) bool

// Walk traverses the subtree rooted at node depth-first and calls fn for each
// node, root included. If fn returns false the node's children are skipped.
func Walk(node *Node, fn func(n *Node) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for _, c := range node.Children() {
		Walk(c, fn)
	}
}

// FindFirst returns the first node of root's subtree, root included, that
// satisfies pred in depth-first pre-order, or nil.
func FindFirst(root *Node, pred Predicate) *Node {
	for n := range FindAll(root, pred) {
		return n
	}
	return nil
}

// FindAll yields every node of root's subtree, root included, that satisfies
// pred, in the same order as FindFirst. The sequence is lazy and not
// memoized: every range walks the tree again.
func FindAll(root *Node, pred Predicate) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if root == nil {
			return
		}
		walkYield(root, func(n *Node) bool {
			if pred(n) {
				return yield(n)
			}
			return true
		})
	}
}

// walkYield visits n and its subtree in pre-order and reports false as soon
// as visit does.
func walkYield(n *Node, visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, c := range n.Children() {
		if !walkYield(c, visit) {
			return false
		}
	}
	return true
}

// IsType matches nodes of any of the given types.
func IsType(types ...NodeType) Predicate {
	return func(n *Node) bool {
		return n.Is(types...)
	}
}

// IsSelfSend matches `self.<method>` calls, e.g. `self.table_name = "x"`
// with method "table_name=".
func IsSelfSend(method string) Predicate {
	return func(n *Node) bool {
		return n.Is(TypeSend) && n.Receiver().Is(TypeSelf) && n.MethodName() == method
	}
}

// IsBareSend matches receiver-less calls such as `belongs_to :author`.
func IsBareSend(method string) Predicate {
	return func(n *Node) bool {
		return n.Is(TypeSend) && n.Receiver() == nil && n.MethodName() == method
	}
}

// FindAllInScope is FindAll restricted to root's own definition scope: the
// walk enters root but does not descend into nested class or module
// definitions below it.
func FindAllInScope(root *Node, pred Predicate) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if root == nil {
			return
		}
		var visit func(n *Node) bool
		visit = func(n *Node) bool {
			if n != root && n.Is(TypeClass, TypeModule) {
				return true
			}
			if pred(n) && !yield(n) {
				return false
			}
			for _, c := range n.Children() {
				if !visit(c) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}

// FindFirstInScope returns the first match of FindAllInScope, or nil.
func FindFirstInScope(root *Node, pred Predicate) *Node {
	for n := range FindAllInScope(root, pred) {
		return n
	}
	return nil
}

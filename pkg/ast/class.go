package ast

import "iter"

// Class is a view over a class definition node:
//
//	(class (const nil :Post) (const nil :ApplicationRecord) body)
type Class struct {
	node *Node
}

// AsClass wraps n when it is a class definition.
func AsClass(n *Node) (*Class, bool) {
	if !n.Is(TypeClass) {
		return nil, false
	}
	return &Class{node: n}, true
}

// Classes yields every class definition below root, root included, in
// document order.
func Classes(root *Node) iter.Seq[*Class] {
	return func(yield func(*Class) bool) {
		for n := range FindAll(root, IsType(TypeClass)) {
			if !yield(&Class{node: n}) {
				return
			}
		}
	}
}

// Node returns the underlying class node.
func (c *Class) Node() *Node { return c.node }

// Identifier returns the const node naming the class.
func (c *Class) Identifier() *Node { return c.node.Child(0) }

// Name returns the class name as written, e.g. "Blog::Post".
func (c *Class) Name() string { return c.Identifier().ConstPath() }

// QualifiedName prefixes Name with the enclosing namespaces.
func (c *Class) QualifiedName() string {
	name := c.Name()
	namespaces := c.Namespaces()
	for i := len(namespaces) - 1; i >= 0; i-- {
		name = namespaces[i].Child(0).ConstPath() + "::" + name
	}
	return name
}

// Superclass returns the declared parent class expression, or nil.
func (c *Class) Superclass() *Node { return c.node.Child(1) }

// Body returns the class body node, or nil for an empty class.
func (c *Class) Body() *Node { return c.node.Child(2) }

// Statements returns the top-level statements of the class body.
func (c *Class) Statements() []*Node { return Statements(c.Body()) }

// Pos returns the position of the class keyword.
func (c *Class) Pos() Position { return c.node.Pos() }

// Namespaces returns the enclosing class and module nodes, outermost first.
func (c *Class) Namespaces() []*Node {
	var inner []*Node
	for a := range c.node.Ancestors() {
		if a.Is(TypeClass, TypeModule) {
			inner = append(inner, a)
		}
	}
	outer := make([]*Node, len(inner))
	for i, n := range inner {
		outer[len(inner)-1-i] = n
	}
	return outer
}

// NamespaceBody returns the body of a class or module node.
func NamespaceBody(n *Node) *Node {
	switch {
	case n.Is(TypeClass):
		return n.Child(2)
	case n.Is(TypeModule):
		return n.Child(1)
	default:
		return nil
	}
}

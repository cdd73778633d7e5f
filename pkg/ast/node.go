// Package ast provides the read-only syntax tree consumed by recordlint.
//
// Trees are produced by an external Ruby parser and decoded from its JSON
// s-expression output (see Decode). A Node keeps the parser's element layout
// unchanged: child nodes are interleaved with scalar values (method names,
// constant names, literal values) in source order.
package ast

import (
	"iter"
	"strings"
)

// NodeType is the parser's node type tag, e.g. "class" or "send".
type NodeType string

// Node types used by the resolvers and rules.
const (
	TypeBegin  NodeType = "begin"
	TypeClass  NodeType = "class"
	TypeModule NodeType = "module"
	TypeSClass NodeType = "sclass"
	TypeConst  NodeType = "const"
	TypeCBase  NodeType = "cbase"
	TypeSelf   NodeType = "self"
	TypeSend   NodeType = "send"
	TypeCSend  NodeType = "csend"
	TypeDef    NodeType = "def"
	TypeDefs   NodeType = "defs"
	TypeArgs   NodeType = "args"
	TypeStr    NodeType = "str"
	TypeDStr   NodeType = "dstr"
	TypeSym    NodeType = "sym"
	TypeInt    NodeType = "int"
	TypeTrue   NodeType = "true"
	TypeFalse  NodeType = "false"
	TypeNil    NodeType = "nil"
	TypeArray  NodeType = "array"
	TypeHash   NodeType = "hash"
	TypeKwargs NodeType = "kwargs"
	TypePair   NodeType = "pair"
	TypeOpAsgn NodeType = "op_asgn"
)

// Position is a 1-based source location. The zero value means unknown.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsValid reports whether the position carries a line number.
func (p Position) IsValid() bool { return p.Line > 0 }

// Node is an immutable syntax tree node.
type Node struct {
	typ    NodeType
	elems  []any // *Node, string, int64, float64, bool or nil
	parent *Node
	pos    Position
}

// NewNode builds a node and links the parent pointers of its child nodes.
// It is used by the decoder and by tests that assemble trees by hand.
func NewNode(typ NodeType, elems ...any) *Node {
	n := &Node{typ: typ, elems: elems}
	for _, e := range elems {
		if c, ok := e.(*Node); ok && c != nil {
			c.parent = n
		}
	}
	return n
}

// WithPos returns n after recording its source position.
func (n *Node) WithPos(pos Position) *Node {
	n.pos = pos
	return n
}

// Type returns the node type tag.
func (n *Node) Type() NodeType {
	if n == nil {
		return ""
	}
	return n.typ
}

// Is reports whether the node has one of the given types.
func (n *Node) Is(types ...NodeType) bool {
	if n == nil {
		return false
	}
	for _, t := range types {
		if n.typ == t {
			return true
		}
	}
	return false
}

// Pos returns the node's source position, falling back to the nearest
// ancestor that has one.
func (n *Node) Pos() Position {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.pos.IsValid() {
			return cur.pos
		}
	}
	return Position{}
}

// Parent returns the enclosing node, or nil at the root.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Len returns the number of elements, nodes and scalars alike.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.elems)
}

// Elem returns the raw element at index i, or nil when out of range.
func (n *Node) Elem(i int) any {
	if n == nil || i < 0 || i >= len(n.elems) {
		return nil
	}
	return n.elems[i]
}

// Child returns the element at index i when it is a node.
func (n *Node) Child(i int) *Node {
	c, _ := n.Elem(i).(*Node)
	return c
}

// Scalar returns the element at index i when it is a string, e.g. a
// method name or a constant name.
func (n *Node) Scalar(i int) string {
	s, _ := n.Elem(i).(string)
	return s
}

// Children returns the child nodes in source order, skipping scalars.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	children := make([]*Node, 0, len(n.elems))
	for _, e := range n.elems {
		if c, ok := e.(*Node); ok && c != nil {
			children = append(children, c)
		}
	}
	return children
}

// Ancestors yields the enclosing nodes from the parent outward.
func (n *Node) Ancestors() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if n == nil {
			return
		}
		for cur := n.parent; cur != nil; cur = cur.parent {
			if !yield(cur) {
				return
			}
		}
	}
}

// Descendants yields every node below n in depth-first pre-order.
func (n *Node) Descendants() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, c := range n.Children() {
			if !walkYield(c, yield) {
				return
			}
		}
	}
}

// StringValue returns the value of a str or sym literal. Symbol and string
// literals are deliberately not distinguished.
func (n *Node) StringValue() (string, bool) {
	if !n.Is(TypeStr, TypeSym) {
		return "", false
	}
	s, ok := n.Elem(0).(string)
	return s, ok
}

// IsTrue reports whether n is the literal true.
func (n *Node) IsTrue() bool { return n.Is(TypeTrue) }

// IsFalse reports whether n is the literal false.
func (n *Node) IsFalse() bool { return n.Is(TypeFalse) }

// ConstName returns the last segment of a const node, e.g. "Post" for
// Blog::Post.
func (n *Node) ConstName() string {
	if !n.Is(TypeConst) {
		return ""
	}
	return n.Scalar(1)
}

// ConstPath renders a const node as a qualified name, e.g. "Blog::Post".
// A leading cbase renders as "::".
func (n *Node) ConstPath() string {
	if !n.Is(TypeConst) {
		return ""
	}
	var segments []string
	cur := n
	for cur.Is(TypeConst) {
		segments = append(segments, cur.Scalar(1))
		cur = cur.Child(0)
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	path := strings.Join(segments, "::")
	if cur.Is(TypeCBase) {
		return "::" + path
	}
	return path
}

// String renders the node as an s-expression, mainly for test failures.
func (n *Node) String() string {
	if n == nil {
		return "nil"
	}
	var b strings.Builder
	n.writeSexp(&b)
	return b.String()
}

func (n *Node) writeSexp(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(string(n.typ))
	for _, e := range n.elems {
		b.WriteByte(' ')
		switch v := e.(type) {
		case *Node:
			v.writeSexp(b)
		case string:
			b.WriteString(":" + v)
		case nil:
			b.WriteString("nil")
		default:
			b.WriteString(formatScalar(v))
		}
	}
	b.WriteByte(')')
}

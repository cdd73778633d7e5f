package ast

// Receiver returns the explicit receiver of a send node, or nil for a bare
// call.
func (n *Node) Receiver() *Node {
	if !n.Is(TypeSend, TypeCSend) {
		return nil
	}
	return n.Child(0)
}

// MethodName returns the called method of a send node.
func (n *Node) MethodName() string {
	if !n.Is(TypeSend, TypeCSend) {
		return ""
	}
	return n.Scalar(1)
}

// Arguments returns the argument nodes of a send node.
func (n *Node) Arguments() []*Node {
	if !n.Is(TypeSend, TypeCSend) || n.Len() <= 2 {
		return nil
	}
	args := make([]*Node, 0, n.Len()-2)
	for i := 2; i < n.Len(); i++ {
		if c := n.Child(i); c != nil {
			args = append(args, c)
		}
	}
	return args
}

// FirstArgument returns the first argument of a send node, or nil.
func (n *Node) FirstArgument() *Node {
	args := n.Arguments()
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

// LastArgument returns the last argument of a send node, or nil.
func (n *Node) LastArgument() *Node {
	args := n.Arguments()
	if len(args) == 0 {
		return nil
	}
	return args[len(args)-1]
}

// Pair is one key/value entry of a hash literal.
type Pair struct {
	Key   *Node
	Value *Node
}

// IsOptions reports whether n is a hash literal or the kwargs node newer
// parsers emit for trailing keyword arguments.
func (n *Node) IsOptions() bool {
	return n.Is(TypeHash, TypeKwargs)
}

// Pairs returns the entries of a hash literal or kwargs node in source order.
func (n *Node) Pairs() []Pair {
	if !n.IsOptions() {
		return nil
	}
	var pairs []Pair
	for _, c := range n.Children() {
		if c.Is(TypePair) {
			pairs = append(pairs, Pair{Key: c.Child(0), Value: c.Child(1)})
		}
	}
	return pairs
}

// Option looks up a literal-keyed entry in a hash literal, matching str and
// sym keys alike. The first matching entry wins.
func (n *Node) Option(key string) (*Node, bool) {
	for _, p := range n.Pairs() {
		if k, ok := p.Key.StringValue(); ok && k == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Statements returns the statements of a body node: the children of a begin
// node, the node itself otherwise, nothing for an empty body.
func Statements(body *Node) []*Node {
	switch {
	case body == nil:
		return nil
	case body.Is(TypeBegin):
		return body.Children()
	default:
		return []*Node{body}
	}
}

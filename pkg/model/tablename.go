package model

import (
	"strings"

	"github.com/leapstack-labs/recordlint/pkg/ast"
	"github.com/leapstack-labs/recordlint/pkg/naming"
)

// NamingConfig is the table name prefix and suffix that apply to a class.
// Both already include their joining underscore, e.g. "legacy_".
type NamingConfig struct {
	Prefix string
	Suffix string
}

// TableNamer resolves table names. The zero value follows the Active Record
// defaults: no prefix or suffix and pluralized names.
type TableNamer struct {
	// DefaultPrefix and DefaultSuffix apply when neither the class nor an
	// enclosing namespace sets one (config.active_record.table_name_prefix).
	DefaultPrefix string
	DefaultSuffix string
	// Singular disables pluralization (pluralize_table_names = false).
	Singular bool
}

// ResolveTableName resolves a class's table name with default naming.
func ResolveTableName(class *ast.Class) string {
	return TableNamer{}.Resolve(class)
}

// Resolve returns the physical table name of class. An explicit
// `self.table_name = ...` wins and is returned verbatim; otherwise the name
// is derived from the namespace path and wrapped in the naming config.
func (t TableNamer) Resolve(class *ast.Class) string {
	if name, ok := ExplicitTableName(class); ok {
		return name
	}
	cfg := t.NamingConfig(class)
	return cfg.Prefix + t.DerivedName(class) + cfg.Suffix
}

// ExplicitTableName returns the literal of the first `self.table_name =`
// call in the class, in document order.
func ExplicitTableName(class *ast.Class) (string, bool) {
	n := ast.FindFirstInScope(class.Node(), isTableNameAssignment)
	if n == nil {
		return "", false
	}
	return n.FirstArgument().StringValue()
}

// DerivedName returns the convention-based table name without prefix or
// suffix, e.g. "blog_posts" for Blog::Post.
//
// The identifier segments of the class itself come first, innermost segment
// first, followed by the segments of each enclosing namespace from the
// innermost outward. Reversing that list puts the outermost namespace
// first; the result is joined with "_" and tableized.
func (t TableNamer) DerivedName(class *ast.Class) string {
	segments := constSegments(class.Identifier())
	namespaces := class.Namespaces()
	for i := len(namespaces) - 1; i >= 0; i-- {
		segments = append(segments, constSegments(namespaces[i].Child(0))...)
	}

	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	path := strings.Join(segments, "_")
	if t.Singular {
		return naming.Underscore(path)
	}
	return naming.Tableize(path)
}

// constSegments lists the names of a const chain in tree pre-order, which is
// innermost first: Blog::Post yields "Post", "Blog".
func constSegments(identifier *ast.Node) []string {
	var segments []string
	for n := range ast.FindAll(identifier, ast.IsType(ast.TypeConst)) {
		segments = append(segments, n.ConstName())
	}
	return segments
}

// NamingConfig finds the prefix and suffix for class. Each is looked up
// independently: the first setter in the class's own scope in document
// order, else the innermost enclosing namespace that declares one, else the
// configured default.
func (t TableNamer) NamingConfig(class *ast.Class) NamingConfig {
	return NamingConfig{
		Prefix: lookupAffix(class, "table_name_prefix", t.DefaultPrefix),
		Suffix: lookupAffix(class, "table_name_suffix", t.DefaultSuffix),
	}
}

func lookupAffix(class *ast.Class, method string, fallback string) string {
	setter := isAffixAssignment(method + "=")
	if n := ast.FindFirstInScope(class.Node(), setter); n != nil {
		v, _ := n.FirstArgument().StringValue()
		return v
	}

	namespaces := class.Namespaces()
	for i := len(namespaces) - 1; i >= 0; i-- {
		for _, stmt := range ast.Statements(ast.NamespaceBody(namespaces[i])) {
			if setter(stmt) {
				v, _ := stmt.FirstArgument().StringValue()
				return v
			}
			if v, ok := affixMethodValue(stmt, method); ok {
				return v
			}
		}
	}
	return fallback
}

func isTableNameAssignment(n *ast.Node) bool {
	if !ast.IsSelfSend("table_name=")(n) {
		return false
	}
	_, ok := n.FirstArgument().StringValue()
	return ok
}

func isAffixAssignment(method string) ast.Predicate {
	return func(n *ast.Node) bool {
		if !ast.IsSelfSend(method)(n) {
			return false
		}
		_, ok := n.FirstArgument().StringValue()
		return ok
	}
}

// affixMethodValue matches the module idiom
//
//	def self.table_name_prefix
//	  "legacy_"
//	end
//
// and returns the literal the method evaluates to.
func affixMethodValue(n *ast.Node, method string) (string, bool) {
	if !n.Is(ast.TypeDefs) || !n.Child(0).Is(ast.TypeSelf) || n.Scalar(1) != method {
		return "", false
	}
	stmts := ast.Statements(n.Child(3))
	if len(stmts) == 0 {
		return "", false
	}
	return stmts[len(stmts)-1].StringValue()
}

package model

import (
	"iter"

	"github.com/leapstack-labs/recordlint/pkg/ast"
	"github.com/leapstack-labs/recordlint/pkg/schema"
)

// Association is a belongs_to declaration with its options normalized:
// symbol and string literals are both read as plain strings.
type Association struct {
	Name string
	// ForeignKey is the explicit foreign_key option, empty when absent or
	// not a literal.
	ForeignKey  string
	Polymorphic bool
	Node        *ast.Node
}

// ForeignKeyColumn returns the explicit foreign key or the conventional
// "<name>_id".
func (a Association) ForeignKeyColumn() string {
	if a.ForeignKey != "" {
		return a.ForeignKey
	}
	return a.Name + "_id"
}

// TypeColumn returns the companion type column of a polymorphic association.
func (a Association) TypeColumn() string {
	return a.Name + "_type"
}

// Associations yields the class's belongs_to declarations in document order.
func Associations(class *ast.Class) iter.Seq[Association] {
	return func(yield func(Association) bool) {
		for n := range ast.FindAllInScope(class.Node(), isBelongsTo) {
			if !yield(newAssociation(n)) {
				return
			}
		}
	}
}

func isBelongsTo(n *ast.Node) bool {
	if !ast.IsBareSend("belongs_to")(n) {
		return false
	}
	_, ok := n.FirstArgument().StringValue()
	return ok
}

func newAssociation(n *ast.Node) Association {
	name, _ := n.FirstArgument().StringValue()
	a := Association{Name: name, Node: n}

	opts := n.LastArgument()
	if !opts.IsOptions() {
		return a
	}
	if v, ok := opts.Option("foreign_key"); ok {
		a.ForeignKey, _ = v.StringValue()
	}
	if v, ok := opts.Option("polymorphic"); ok {
		a.Polymorphic = v.IsTrue()
	}
	return a
}

// Columns is the result of resolving a relation name. TypeColumn is set only
// for polymorphic associations.
type Columns struct {
	ForeignKey string
	TypeColumn string
}

// IsPolymorphic reports whether the relation resolved to a column pair.
func (c Columns) IsPolymorphic() bool { return c.TypeColumn != "" }

// Names returns one column name, or two for a polymorphic association. An
// unresolved relation has none.
func (c Columns) Names() []string {
	if c.ForeignKey == "" {
		return nil
	}
	if c.IsPolymorphic() {
		return []string{c.ForeignKey, c.TypeColumn}
	}
	return []string{c.ForeignKey}
}

// ResolveRelation maps a relation name used in class to the table columns
// backing it. A name that is already a column resolves to itself. Otherwise
// the first belongs_to named name whose foreign key exists in table wins;
// polymorphic associations add the "<name>_type" column.
//
// ok is false when table is nil or nothing resolves. Callers should then
// skip their check instead of assuming misuse.
func ResolveRelation(name string, class *ast.Class, table *schema.Table) (Columns, bool) {
	if table == nil {
		return Columns{}, false
	}
	if table.HasColumn(name) {
		return Columns{ForeignKey: name}, true
	}

	for a := range Associations(class) {
		if a.Name != name {
			continue
		}
		fk := a.ForeignKeyColumn()
		if !table.HasColumn(fk) {
			continue
		}
		if a.Polymorphic {
			return Columns{ForeignKey: fk, TypeColumn: a.TypeColumn()}, true
		}
		return Columns{ForeignKey: fk}, true
	}
	return Columns{}, false
}

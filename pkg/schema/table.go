// Package schema provides the read-only database schema projection used by
// the resolvers, the loaders that produce it, and the process-wide cache.
package schema

import (
	"slices"
	"sort"
)

// Index is a table index: its name, indexed columns in order, and whether it
// enforces uniqueness.
type Index struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []string `json:"columns" yaml:"columns"`
	Unique  bool     `json:"unique,omitempty" yaml:"unique"`
}

// Table is the projection of one schema table. It is not modified after the
// loader returns it.
type Table struct {
	Name    string
	columns map[string]struct{}
	order   []string
	Indexes []Index
}

// NewTable builds a table from its column names. Duplicate names are kept
// once, in first-seen order.
func NewTable(name string, columns []string, indexes ...Index) *Table {
	t := &Table{
		Name:    name,
		columns: make(map[string]struct{}, len(columns)),
		Indexes: indexes,
	}
	for _, c := range columns {
		if _, dup := t.columns[c]; dup {
			continue
		}
		t.columns[c] = struct{}{}
		t.order = append(t.order, c)
	}
	return t
}

// HasColumn reports whether the table has a column with exactly this name.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.columns[name]
	return ok
}

// Columns returns the column names in schema order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.order)
}

// HasUniqueIndexCovering reports whether a unique index exists whose column
// set equals columns, ignoring order. An index on a subset of columns also
// guarantees uniqueness of the superset and counts as covering.
func (t *Table) HasUniqueIndexCovering(columns []string) bool {
	if t == nil || len(columns) == 0 {
		return false
	}
	want := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		want[c] = struct{}{}
	}
	for _, idx := range t.Indexes {
		if !idx.Unique || len(idx.Columns) == 0 {
			continue
		}
		covered := true
		for _, c := range idx.Columns {
			if _, ok := want[c]; !ok {
				covered = false
				break
			}
		}
		if covered {
			return true
		}
	}
	return false
}

// Schema is the set of tables loaded from one schema source.
type Schema struct {
	// Version is the schema's own version stamp, e.g. the migration
	// timestamp of db/schema.rb. Empty when the source has none.
	Version string
	// TargetVersion is the language version the schema was loaded for.
	TargetVersion string

	tables map[string]*Table
}

// New builds a schema from tables. A later table with the same name replaces
// an earlier one.
func New(tables ...*Table) *Schema {
	s := &Schema{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		s.tables[t.Name] = t
	}
	return s
}

// Table looks up a table by name. A nil schema has no tables.
func (s *Schema) Table(name string) (*Table, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.tables[name]
	return t, ok
}

// Tables returns all tables sorted by name.
func (s *Schema) Tables() []*Table {
	if s == nil {
		return nil
	}
	tables := make([]*Table, 0, len(s.tables))
	for _, t := range s.tables {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })
	return tables
}

// Len returns the number of tables.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tables)
}

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	tbl := NewTable("users", []string{"id", "email", "id", "name"})

	assert.Equal(t, []string{"id", "email", "name"}, tbl.Columns(), "duplicates kept once in first-seen order")
	assert.True(t, tbl.HasColumn("email"))
	assert.False(t, tbl.HasColumn("Email"), "column lookup is exact")

	cols := tbl.Columns()
	cols[0] = "changed"
	assert.Equal(t, "id", tbl.Columns()[0], "Columns returns a copy")
}

func TestTable_NilSafe(t *testing.T) {
	var tbl *Table
	assert.False(t, tbl.HasColumn("id"))
	assert.Nil(t, tbl.Columns())
	assert.False(t, tbl.HasUniqueIndexCovering([]string{"id"}))
}

func TestHasUniqueIndexCovering(t *testing.T) {
	tbl := NewTable("memberships", []string{"id", "user_id", "group_id", "role", "email"},
		Index{Name: "index_memberships_on_user_id_and_group_id", Columns: []string{"user_id", "group_id"}, Unique: true},
		Index{Name: "index_memberships_on_role", Columns: []string{"role"}},
		Index{Name: "index_memberships_on_email", Columns: []string{"email"}, Unique: true},
	)

	tests := []struct {
		name    string
		columns []string
		want    bool
	}{
		{"exact match", []string{"user_id", "group_id"}, true},
		{"order ignored", []string{"group_id", "user_id"}, true},
		{"superset of unique index", []string{"email", "role"}, true},
		{"subset of unique index", []string{"user_id"}, false},
		{"non-unique index", []string{"role"}, false},
		{"no index", []string{"id"}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tbl.HasUniqueIndexCovering(tt.columns))
		})
	}
}

func TestSchema(t *testing.T) {
	s := New(
		NewTable("users", []string{"id"}),
		NewTable("accounts", []string{"id"}),
		NewTable("users", []string{"id", "email"}),
	)

	assert.Equal(t, 2, s.Len())
	users, ok := s.Table("users")
	require.True(t, ok)
	assert.True(t, users.HasColumn("email"), "later table replaces earlier")

	_, ok = s.Table("posts")
	assert.False(t, ok)

	names := make([]string, 0, 2)
	for _, tbl := range s.Tables() {
		names = append(names, tbl.Name)
	}
	assert.Equal(t, []string{"accounts", "users"}, names)

	var nilSchema *Schema
	_, ok = nilSchema.Table("users")
	assert.False(t, ok)
	assert.Zero(t, nilSchema.Len())
	assert.Nil(t, nilSchema.Tables())
}

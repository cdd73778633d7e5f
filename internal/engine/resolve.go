package engine

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/recordlint/pkg/ast"
	"github.com/leapstack-labs/recordlint/pkg/model"
)

// TableMapping is the resolved table of one model class.
type TableMapping struct {
	FilePath  string
	Class     string
	TableName string
	Explicit  bool // set by self.table_name =
	Abstract  bool
	// InSchema reports whether the schema has the table. It is false when
	// no schema was loaded; see Result.Schema.
	InSchema bool
	Pos      ast.Position
}

// TablesResult lists table mappings for every model under some paths.
type TablesResult struct {
	Tables []TableMapping
	Errors []FileResult
	Schema bool
}

// Tables resolves the table of every model under paths and checks it against
// the schema when one is available.
func (e *Engine) Tables(ctx context.Context, paths ...string) (*TablesResult, error) {
	files, err := Discover(paths...)
	if err != nil {
		return nil, err
	}
	s := e.loadSchema(ctx, e.logger)

	res := &TablesResult{Schema: s != nil}
	for _, path := range files {
		models, err := e.Models(path)
		if err != nil {
			res.Errors = append(res.Errors, FileResult{Path: path, Err: err})
			continue
		}
		for _, m := range models {
			_, explicit := model.ExplicitTableName(m.Class)
			_, inSchema := s.Table(m.TableName)
			res.Tables = append(res.Tables, TableMapping{
				FilePath:  path,
				Class:     m.Class.QualifiedName(),
				TableName: m.TableName,
				Explicit:  explicit,
				Abstract:  model.IsAbstract(m.Class),
				InSchema:  inSchema,
				Pos:       m.Class.Pos(),
			})
		}
	}
	return res, nil
}

// RelationMapping is the outcome of resolving a relation name in one class.
type RelationMapping struct {
	Class     string
	TableName string
	Columns   model.Columns
	// Found is false when the relation does not resolve, including when the
	// table is not in the schema.
	Found bool
}

// Relation resolves name in every model of one AST file. It needs a schema.
func (e *Engine) Relation(ctx context.Context, name, path string) ([]RelationMapping, error) {
	s, err := e.Schema(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("relation resolution needs a schema, none was found")
	}

	models, err := e.Models(path)
	if err != nil {
		return nil, err
	}

	mappings := make([]RelationMapping, 0, len(models))
	for _, m := range models {
		table, _ := s.Table(m.TableName)
		cols, ok := model.ResolveRelation(name, m.Class, table)
		mappings = append(mappings, RelationMapping{
			Class:     m.Class.QualifiedName(),
			TableName: m.TableName,
			Columns:   cols,
			Found:     ok,
		})
	}
	return mappings, nil
}

package rules

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/recordlint/pkg/ast"
	"github.com/leapstack-labs/recordlint/pkg/lint"
)

func init() {
	lint.Register(UnusedIgnoredColumns)
}

// UnusedIgnoredColumns flags ignored_columns entries the table does not have.
var UnusedIgnoredColumns = lint.RuleDef{
	ID:          "RS02",
	Name:        "schema.unused_ignored_columns",
	Group:       "schema",
	Description: "ignored_columns should only list columns that exist.",
	Severity:    lint.SeverityWarning,
	Check:       checkUnusedIgnoredColumns,
	ConfigKeys:  []string{"ignore"},
	NeedsSchema: true,

	Rationale: `ignored_columns hides a column while it is being dropped. Once the
migration has run the entry is dead configuration, and a typo in it silently
ignores nothing.`,

	BadExample: `class User < ApplicationRecord
  self.ignored_columns = [:legacy_flag] # already dropped
end`,

	GoodExample: `class User < ApplicationRecord
end`,

	Fix: "Remove the entry, or add the column name to the rule's ignore option while a drop is in flight.",
}

func checkUnusedIgnoredColumns(ctx *lint.Context, opts map[string]any) []lint.Diagnostic {
	if ctx.Table == nil {
		return nil
	}
	ignore := lint.GetStringSliceOption(opts, "ignore", nil)

	var diagnostics []lint.Diagnostic
	for n := range ast.FindAllInScope(ctx.Class.Node(), isIgnoredColumnsAssignment) {
		for _, el := range ignoredColumnsValue(n).Children() {
			col, ok := el.StringValue()
			if !ok || ctx.Table.HasColumn(col) || slices.Contains(ignore, col) {
				continue
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:           "RS02",
				Severity:         lint.SeverityWarning,
				Message:          fmt.Sprintf("Ignored column '%s' does not exist in table '%s'", col, ctx.TableName),
				Pos:              el.Pos(),
				DocumentationURL: lint.BuildDocURL("RS02"),
				ImpactScore:      lint.ImpactLow.Int(),
				AutoFixable:      true,
			})
		}
	}
	return diagnostics
}

// isIgnoredColumnsAssignment matches `self.ignored_columns = [...]` and
// `self.ignored_columns += [...]`.
func isIgnoredColumnsAssignment(n *ast.Node) bool {
	if ast.IsSelfSend("ignored_columns=")(n) {
		return true
	}
	return n.Is(ast.TypeOpAsgn) && ast.IsSelfSend("ignored_columns")(n.Child(0))
}

// ignoredColumnsValue returns the array literal assigned, or nil.
func ignoredColumnsValue(n *ast.Node) *ast.Node {
	var v *ast.Node
	if n.Is(ast.TypeOpAsgn) {
		v = n.Child(2)
	} else {
		v = n.FirstArgument()
	}
	if !v.Is(ast.TypeArray) {
		return nil
	}
	return v
}

package rules

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/recordlint/pkg/lint"
	"github.com/leapstack-labs/recordlint/pkg/model"
)

func init() {
	lint.Register(MissingTable)
}

// MissingTable reports concrete models whose resolved table is not in the
// schema.
var MissingTable = lint.RuleDef{
	ID:          "RS03",
	Name:        "schema.missing_table",
	Group:       "schema",
	Description: "Concrete models should map to a table in the schema.",
	Severity:    lint.SeverityInfo,
	Check:       checkMissingTable,
	ConfigKeys:  []string{"ignore_tables"},
	NeedsSchema: true,

	Rationale: `A model whose table is missing usually has a wrong table_name, a
namespace prefix that does not match, or a migration that was never run.
Schema-backed rules are silently skipped for such models.`,

	BadExample: `class Legacy::Invoice < ApplicationRecord
end
# schema has "invoices", not "legacy_invoices"`,

	GoodExample: `class Legacy::Invoice < ApplicationRecord
  self.table_name = "invoices"
end`,
}

func checkMissingTable(ctx *lint.Context, opts map[string]any) []lint.Diagnostic {
	if ctx.Table != nil || ctx.TableName == "" || model.IsAbstract(ctx.Class) {
		return nil
	}
	if slices.Contains(lint.GetStringSliceOption(opts, "ignore_tables", nil), ctx.TableName) {
		return nil
	}
	return []lint.Diagnostic{{
		RuleID:           "RS03",
		Severity:         lint.SeverityInfo,
		Message:          fmt.Sprintf("Table '%s' for %s was not found in the schema", ctx.TableName, ctx.Class.QualifiedName()),
		Pos:              ctx.Class.Pos(),
		DocumentationURL: lint.BuildDocURL("RS03"),
		ImpactScore:      lint.ImpactMedium.Int(),
	}}
}

package rules

import (
	"fmt"

	"github.com/leapstack-labs/recordlint/pkg/lint"
	"github.com/leapstack-labs/recordlint/pkg/model"
)

func init() {
	lint.Register(RedundantForeignKey)
}

// RedundantForeignKey flags belongs_to foreign_key options that repeat the
// default.
var RedundantForeignKey = lint.RuleDef{
	ID:          "RS04",
	Name:        "association.redundant_foreign_key",
	Group:       "association",
	Description: "foreign_key should be omitted when it matches the default.",
	Severity:    lint.SeverityHint,
	Check:       checkRedundantForeignKey,

	BadExample: `belongs_to :author, foreign_key: :author_id`,

	GoodExample: `belongs_to :author`,

	Fix: "Remove the foreign_key option.",
}

func checkRedundantForeignKey(ctx *lint.Context, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for a := range model.Associations(ctx.Class) {
		if a.ForeignKey == "" || a.ForeignKey != a.Name+"_id" {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "RS04",
			Severity:         lint.SeverityHint,
			Message:          fmt.Sprintf("Redundant foreign_key '%s' on belongs_to :%s", a.ForeignKey, a.Name),
			Pos:              a.Node.Pos(),
			DocumentationURL: lint.BuildDocURL("RS04"),
			ImpactScore:      lint.ImpactLow.Int(),
			AutoFixable:      true,
		})
	}
	return diagnostics
}

package rules

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/recordlint/pkg/ast"
	"github.com/leapstack-labs/recordlint/pkg/lint"
)

func init() {
	lint.Register(UniqueValidationWithoutIndex)
}

// UniqueValidationWithoutIndex flags uniqueness validations that no unique
// index enforces.
var UniqueValidationWithoutIndex = lint.RuleDef{
	ID:          "RS01",
	Name:        "schema.unique_validation_without_index",
	Group:       "schema",
	Description: "Uniqueness validations should be backed by a unique index.",
	Severity:    lint.SeverityWarning,
	Check:       checkUniqueValidationWithoutIndex,
	ConfigKeys:  []string{"include_conditional"},
	NeedsSchema: true,

	Rationale: `A uniqueness validation runs a SELECT before the INSERT. Two concurrent
requests can both pass the check and insert duplicates. Only a unique index
makes the database reject the second row.`,

	BadExample: `class User < ApplicationRecord
  validates :email, uniqueness: true
end
# users has no unique index on email`,

	GoodExample: `add_index :users, :email, unique: true`,

	Fix: "Add a unique index covering the validated column and every scope column.",
}

type uniqueValidationOptions struct {
	// IncludeConditional also checks validations guarded by if:, unless:
	// or conditions:, which are skipped by default.
	IncludeConditional bool `mapstructure:"include_conditional"`
}

func checkUniqueValidationWithoutIndex(ctx *lint.Context, opts map[string]any) []lint.Diagnostic {
	if ctx.Table == nil {
		return nil
	}
	var cfg uniqueValidationOptions
	if err := lint.DecodeOptions(opts, &cfg); err != nil {
		return nil
	}

	var diagnostics []lint.Diagnostic
	for n := range ast.FindAllInScope(ctx.Class.Node(), isUniquenessValidation) {
		options := n.LastArgument()
		uniqueness := options
		if n.MethodName() == "validates" {
			uniqueness, _ = options.Option("uniqueness")
		}
		if !cfg.IncludeConditional && isConditional(options, uniqueness) {
			continue
		}
		scope := scopeColumns(uniqueness)

		for _, attr := range validatedAttributes(n) {
			cols, ok := ctx.ResolveRelation(attr)
			if !ok {
				continue
			}
			columns := append(cols.Names(), scope...)
			if ctx.Table.HasUniqueIndexCovering(columns) {
				continue
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:   "RS01",
				Severity: lint.SeverityWarning,
				Message: fmt.Sprintf("Uniqueness validation of '%s' has no unique index on %s(%s)",
					attr, ctx.TableName, strings.Join(columns, ", ")),
				Pos:              n.Pos(),
				DocumentationURL: lint.BuildDocURL("RS01"),
				ImpactScore:      lint.ImpactHigh.Int(),
				AutoFixable:      false,
			})
		}
	}
	return diagnostics
}

// isUniquenessValidation matches `validates :a, uniqueness: ...` with a
// truthy uniqueness option and `validates_uniqueness_of :a`.
func isUniquenessValidation(n *ast.Node) bool {
	switch {
	case ast.IsBareSend("validates_uniqueness_of")(n):
		return true
	case ast.IsBareSend("validates")(n):
		v, ok := n.LastArgument().Option("uniqueness")
		return ok && !v.Is(ast.TypeFalse, ast.TypeNil)
	default:
		return false
	}
}

func validatedAttributes(n *ast.Node) []string {
	var attrs []string
	for _, arg := range n.Arguments() {
		if v, ok := arg.StringValue(); ok {
			attrs = append(attrs, v)
		}
	}
	return attrs
}

func isConditional(nodes ...*ast.Node) bool {
	for _, n := range nodes {
		for _, key := range []string{"if", "unless", "conditions"} {
			if _, ok := n.Option(key); ok {
				return true
			}
		}
	}
	return false
}

// scopeColumns reads `scope: :a` or `scope: [:a, :b]` from a uniqueness
// options hash.
func scopeColumns(uniqueness *ast.Node) []string {
	v, ok := uniqueness.Option("scope")
	if !ok {
		return nil
	}
	if s, ok := v.StringValue(); ok {
		return []string{s}
	}
	var cols []string
	if v.Is(ast.TypeArray) {
		for _, el := range v.Children() {
			if s, ok := el.StringValue(); ok {
				cols = append(cols, s)
			}
		}
	}
	return cols
}

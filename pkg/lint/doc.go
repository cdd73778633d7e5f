// Package lint provides the rule framework for schema-aware model linting.
//
// # Architecture
//
// A rule receives one model class at a time through a Context that carries
// the class AST, its resolved table name and, when a schema is available,
// the matching schema table. Rules never load the schema themselves; the
// engine obtains it once through the schema cache.
//
// # Rule Registration
//
// Rules are registered via init() functions when their package is imported:
//
//	import _ "github.com/leapstack-labs/recordlint/pkg/lint/rules"
//
// # Rule Groups
//
//   - schema: rules that compare model declarations with the database schema
//   - association: rules about association declarations
//
// # Configuration
//
//	config := lint.NewConfig()
//	config.Disable("RS03")
//	config.SetSeverity("RS01", lint.SeverityError)
//	config.SetRuleOptions("RS02", map[string]any{"ignore": []string{"legacy_id"}})
//
// # Creating Custom Rules
//
//	var MyRule = lint.RuleDef{
//		ID:          "MY01",
//		Name:        "custom.my_rule",
//		Group:       "custom",
//		Description: "My custom rule description",
//		Severity:    lint.SeverityWarning,
//		Check:       checkMyRule,
//	}
//
//	func init() {
//		lint.Register(MyRule)
//	}
package lint

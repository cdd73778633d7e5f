// Package rules contains the built-in model lint rules.
// Import this package to register them with the lint registry:
//
//	import _ "github.com/leapstack-labs/recordlint/pkg/lint/rules"
//
// Rule Categories:
//   - schema: Rules that compare a model against the loaded database schema
//   - association: Rules about belongs_to declarations
package rules

// Importing this package registers:
//
// Schema rules:
//   - RS01: Uniqueness validation without a unique index
//   - RS02: ignored_columns entries that are not in the table
//   - RS03: Concrete model without a table
//
// Association rules:
//   - RS04: Redundant foreign_key option

package lint

import (
	"github.com/leapstack-labs/recordlint/pkg/ast"
	"github.com/leapstack-labs/recordlint/pkg/model"
	"github.com/leapstack-labs/recordlint/pkg/schema"
)

// =============================================================================
// Rule Definitions
// =============================================================================

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the Check function parameters.
type RuleDef struct {
	ID          string    // Unique identifier, e.g., "RS01"
	Name        string    // Human-readable name, e.g., "schema.unique_validation_without_index"
	Group       string    // Category, e.g., "schema", "association"
	Description string    // Human-readable description
	Severity    Severity  // Default severity
	Check       CheckFunc // The check function
	ConfigKeys  []string  // Configuration keys this rule accepts
	// NeedsSchema marks rules that return nothing without a loaded schema.
	// The analyzer skips them when the schema is unavailable.
	NeedsSchema bool

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Code showing the anti-pattern
	GoodExample string // Code showing the correct pattern
	Fix         string // How to fix violations (when not obvious)
}

// CheckFunc analyzes one model class and returns diagnostics.
// The opts parameter contains rule-specific options from configuration.
type CheckFunc func(ctx *Context, opts map[string]any) []Diagnostic

// RuleInfo provides metadata about a lint rule for documentation/tooling.
type RuleInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Group           string   `json:"group"`
	Description     string   `json:"description"`
	DefaultSeverity Severity `json:"default_severity"`
	ConfigKeys      []string `json:"config_keys,omitempty"`
	NeedsSchema     bool     `json:"needs_schema"`

	Rationale   string `json:"rationale,omitempty"`
	BadExample  string `json:"bad_example,omitempty"`
	GoodExample string `json:"good_example,omitempty"`
	Fix         string `json:"fix,omitempty"`
}

// Info returns the rule's metadata.
func (r RuleDef) Info() RuleInfo {
	return RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Group:           r.Group,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		ConfigKeys:      r.ConfigKeys,
		NeedsSchema:     r.NeedsSchema,
		Rationale:       r.Rationale,
		BadExample:      r.BadExample,
		GoodExample:     r.GoodExample,
		Fix:             r.Fix,
	}
}

// =============================================================================
// Context
// =============================================================================

// Context is everything a rule may inspect about one model class.
type Context struct {
	FilePath string
	Class    *ast.Class
	// TableName is the resolved physical table name.
	TableName string
	// Schema is nil when no schema could be loaded.
	Schema *schema.Schema
	// Table is the schema table named TableName, nil when the schema is
	// unavailable or has no such table.
	Table *schema.Table
	Namer model.TableNamer
}

// NewContext resolves the class's table and looks it up in s.
func NewContext(filePath string, class *ast.Class, s *schema.Schema, namer model.TableNamer) *Context {
	ctx := &Context{
		FilePath:  filePath,
		Class:     class,
		TableName: namer.Resolve(class),
		Schema:    s,
		Namer:     namer,
	}
	if t, ok := s.Table(ctx.TableName); ok {
		ctx.Table = t
	}
	return ctx
}

// ResolveRelation maps a relation name to its columns in the class's table.
func (c *Context) ResolveRelation(name string) (model.Columns, bool) {
	return model.ResolveRelation(name, c.Class, c.Table)
}

// =============================================================================
// Diagnostics
// =============================================================================

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID   string       `json:"rule_id"`
	Severity Severity     `json:"severity"`
	Message  string       `json:"message"`
	FilePath string       `json:"file_path,omitempty"`
	Class    string       `json:"class,omitempty"`
	Pos      ast.Position `json:"pos"`

	// Remediation metadata
	DocumentationURL string `json:"documentation_url,omitempty"`
	ImpactScore      int    `json:"impact_score"`
	AutoFixable      bool   `json:"auto_fixable"`
}

// Package config loads recordlint configuration from defaults, a
// recordlint.yaml file, RECORDLINT_ environment variables and command-line
// flags, in increasing order of precedence.
package config

import (
	"strings"

	"github.com/leapstack-labs/recordlint/pkg/lint"
	"github.com/leapstack-labs/recordlint/pkg/model"
	"github.com/leapstack-labs/recordlint/pkg/schema"
)

// Config holds all recordlint configuration options.
type Config struct {
	// ProjectRoot is inferred at load time, never read from the file.
	ProjectRoot string `koanf:"-"`

	ModelsDir     string       `koanf:"models_dir"`
	TargetVersion string       `koanf:"target_version"`
	Concurrency   int          `koanf:"concurrency"`
	Verbose       bool         `koanf:"verbose"`
	OutputFormat  string       `koanf:"output"`
	Schema        SchemaConfig `koanf:"schema"`
	Naming        NamingConfig `koanf:"naming"`
	Lint          *LintConfig  `koanf:"lint"`
	Watch         *WatchConfig `koanf:"watch"`
}

// SchemaConfig selects and locates the schema source.
type SchemaConfig struct {
	Type string `koanf:"type"` // yaml, sqlite, duckdb, postgres
	Path string `koanf:"path"` // file path for yaml, sqlite and duckdb
	DSN  string `koanf:"dsn"`  // connection string for postgres, ${VAR} is expanded
}

// NamingConfig holds project-wide table naming defaults. Prefix and suffix
// apply to classes whose namespaces declare none.
type NamingConfig struct {
	TableNamePrefix string `koanf:"table_name_prefix"`
	TableNameSuffix string `koanf:"table_name_suffix"`
	Pluralize       bool   `koanf:"pluralize"`
}

// LintConfig holds lint rule configuration.
type LintConfig struct {
	// Disabled contains rule IDs to disable
	Disabled []string `koanf:"disabled"`

	// Severity maps rule ID to severity override (error, warning, info, hint)
	Severity map[string]string `koanf:"severity"`

	// Rules contains rule-specific options
	Rules map[string]RuleOptions `koanf:"rules"`

	// DocsBaseURL overrides where diagnostics link to rule documentation
	DocsBaseURL string `koanf:"docs_base_url"`
}

// RuleOptions holds rule-specific configuration options.
type RuleOptions map[string]any

// WatchConfig tunes `lint --watch`.
type WatchConfig struct {
	// DebounceMS coalesces bursts of schema file events
	DebounceMS int `koanf:"debounce_ms"`
}

// Default configuration values.
const (
	DefaultModelsDir  = "app/models"
	DefaultSchemaType = "yaml"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultDebounceMS = 100
	ConfigFileName    = "recordlint.yaml"
	ConfigFileNameAlt = "recordlint.yml"
	EnvPrefix         = "RECORDLINT_"
)

// SchemaLoaderConfig returns the loader configuration for pkg/schema.
func (c *Config) SchemaLoaderConfig() schema.Config {
	return schema.Config{
		Type:        c.Schema.Type,
		Path:        c.Schema.Path,
		DSN:         c.Schema.DSN,
		ProjectRoot: c.ProjectRoot,
	}
}

// TableNamer returns the table name resolver configured for this project.
func (c *Config) TableNamer() model.TableNamer {
	return model.TableNamer{
		DefaultPrefix: c.Naming.TableNamePrefix,
		DefaultSuffix: c.Naming.TableNameSuffix,
		Singular:      !c.Naming.Pluralize,
	}
}

// DebounceMS returns the watch debounce interval with the default applied.
func (c *Config) DebounceMS() int {
	if c.Watch == nil || c.Watch.DebounceMS <= 0 {
		return DefaultDebounceMS
	}
	return c.Watch.DebounceMS
}

// BuildLintConfig converts the project lint section into a lint.Config.
// Unknown severity names are ignored; Validate reports them.
func (c *Config) BuildLintConfig() *lint.Config {
	lintCfg := lint.NewConfig()
	if c == nil || c.Lint == nil {
		return lintCfg
	}
	for _, id := range c.Lint.Disabled {
		lintCfg.Disable(strings.TrimSpace(id))
	}
	for id, sev := range c.Lint.Severity {
		if s, ok := lint.ParseSeverity(sev); ok {
			lintCfg.SetSeverity(id, s)
		}
	}
	for id, opts := range c.Lint.Rules {
		lintCfg.SetRuleOptions(id, opts)
	}
	return lintCfg
}

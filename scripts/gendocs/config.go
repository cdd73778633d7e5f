package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/recordlint/internal/config"
	"github.com/leapstack-labs/recordlint/pkg/schema"
)

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
	Category    string // "project", "schema", "naming", "lint", "watch"
}

// getConfigSchema returns the configuration schema definition.
// This is based on internal/config/types.go Config.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "models_dir", Type: "string", Default: config.DefaultModelsDir, Description: "Directory scanned for model AST files", Category: "project"},
		{Name: "target_version", Type: "string", Description: "Ruby version the sources target (major.minor)", Category: "project"},
		{Name: "concurrency", Type: "int", Default: "number of CPUs", Description: "Files analyzed in parallel", Category: "project"},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "Output format: auto, text, markdown, json", Category: "project"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Debug logging on stderr", Category: "project"},

		{Name: "type", Type: "string", Default: config.DefaultSchemaType, Description: "Schema loader: " + strings.Join(schema.ListLoaders(), ", "), Category: "schema"},
		{Name: "path", Type: "string", Default: strings.Join(schema.DefaultYAMLPaths, " or "), Description: "Schema file (yaml) or database file (sqlite, duckdb)", Category: "schema"},
		{Name: "dsn", Type: "string", Description: "Connection string for postgres; ${VAR} references are expanded", Category: "schema"},

		{Name: "table_name_prefix", Type: "string", Description: "Prefix for classes whose namespaces declare none", Category: "naming"},
		{Name: "table_name_suffix", Type: "string", Description: "Suffix for classes whose namespaces declare none", Category: "naming"},
		{Name: "pluralize", Type: "bool", Default: "true", Description: "Pluralize derived table names", Category: "naming"},

		{Name: "disabled", Type: "[]string", Description: "Rule IDs to skip", Category: "lint"},
		{Name: "severity", Type: "map[string]string", Description: "Severity override per rule ID", Category: "lint"},
		{Name: "rules", Type: "map[string]map", Description: "Rule-specific options per rule ID", Category: "lint"},
		{Name: "docs_base_url", Type: "string", Description: "Base URL diagnostics link rule documentation to", Category: "lint"},

		{Name: "debounce_ms", Type: "int", Default: strconv.Itoa(config.DefaultDebounceMS), Description: "Delay before re-linting after a change in watch mode", Category: "watch"},
	}
}

// configSections lists the sections in page order with their intro text.
var configSections = []struct {
	category string
	title    string
	intro    string
}{
	{"project", "Project Settings", "Top-level keys:"},
	{"schema", "Schema", "The `schema` section selects where table and index metadata comes from:"},
	{"naming", "Naming", "The `naming` section sets project-wide table naming defaults:"},
	{"lint", "Lint", "The `lint` section configures rules. See the rule reference for rule IDs."},
	{"watch", "Watch", "The `watch` section tunes `recordlint lint --watch`:"},
}

// generateConfigDocs generates the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "recordlint configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("recordlint is configured via %s in your project root. Environment variables prefixed with %s and command-line flags override file values.",
		InlineCode(config.ConfigFileName), InlineCode(config.EnvPrefix)))

	fields := getConfigSchema()
	for _, section := range configSections {
		w.Header(2, section.title)
		w.Paragraph(section.intro)

		var rows [][]string
		for _, f := range fields {
			if f.Category != section.category {
				continue
			}
			defVal := f.Default
			if defVal == "" {
				defVal = "-"
			}
			rows = append(rows, []string{InlineCode(f.Name), f.Type, InlineCode(defVal), f.Description})
		}
		w.Table([]string{"Field", "Type", "Default", "Description"}, rows)
	}

	w.Header(2, "Example")
	w.CodeBlock("yaml", `models_dir: app/models
target_version: "3.3"
schema:
  type: postgres
  dsn: ${DATABASE_URL}
naming:
  pluralize: true
lint:
  disabled: [RS04]
  severity:
    RS03: error
  rules:
    RS02:
      ignore: [legacy_flag]`)

	if err := os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/recordlint/pkg/lint"
	_ "github.com/leapstack-labs/recordlint/pkg/lint/rules"
)

// groupOrder is the page order of rule groups.
var groupOrder = []string{"schema", "association"}

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"schema":      "Rules that compare a model against the loaded database schema. They are skipped when no schema is available.",
	"association": "Rules about belongs_to declarations. They need no schema.",
}

// generateLintDocs generates all lint documentation files.
func generateLintDocs(outDir string) error {
	log.Printf("Generating lint docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rules := lint.GetAll()

	if err := generateLintIndex(outDir, rules); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, group := range groupOrder {
		if err := generateGroupPage(outDir, group, lint.GetByGroup(group)); err != nil {
			return err
		}
		log.Printf("  Generated %s.md", group)
	}

	return nil
}

// generateLintIndex generates the main linting overview page.
func generateLintIndex(outDir string, rules []lint.RuleDef) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Lint Rules", "Model lint rules for recordlint")
	w.GeneratedMarker()

	w.Header(1, "Lint Rules")
	w.Paragraph(fmt.Sprintf("recordlint checks every model class with **%d rules**.", len(rules)))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Critical issue that should be fixed"},
			{InlineCode("warning"), "Potential issue that should be reviewed"},
			{InlineCode("info"), "Informational feedback"},
			{InlineCode("hint"), "Suggestion for improvement"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules can be configured in `recordlint.yaml`:")
	w.CodeBlock("yaml", `lint:
  disabled: [RS04]         # disable rule
  severity:
    RS03: error            # override severity
  rules:
    RS02:
      ignore: [legacy_flag] # rule-specific option`)

	w.Header(2, "Rules")
	var rows [][]string
	for _, r := range rules {
		link := fmt.Sprintf("[%s](/rules/%s#%s)", r.ID, r.Group, r.ID)
		rows = append(rows, []string{link, InlineCode(r.Name), InlineCode(r.Severity.String()), cleanDescription(r.Description)})
	}
	w.Table([]string{"ID", "Name", "Severity", "Description"}, rows)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// generateGroupPage documents every rule of one group.
func generateGroupPage(outDir, group string, rules []lint.RuleDef) error {
	w := NewMarkdownWriter()

	title := capitalizeFirst(group) + " Rules"
	w.Frontmatter(title, title+" for recordlint")
	w.GeneratedMarker()

	w.Header(1, title)
	if desc, ok := groupDescriptions[group]; ok {
		w.Paragraph(desc)
	}

	for _, rule := range rules {
		writeRuleDoc(w, rule)
	}

	return os.WriteFile(filepath.Join(outDir, group+".md"), w.Bytes(), 0600)
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, rule lint.RuleDef) {
	// Rule header with anchor: ### RS01 - schema.unique_validation_without_index {#RS01}
	w.Line(fmt.Sprintf("### %s - %s {#%s}", rule.ID, rule.Name, rule.ID))
	w.Newline()

	w.Line(fmt.Sprintf("**Severity:** %s", InlineCode(rule.Severity.String())))
	if rule.NeedsSchema {
		w.Line("**Needs schema:** yes")
	}
	w.Newline()

	w.Paragraph(cleanDescription(rule.Description))

	if rule.Rationale != "" {
		w.Header(4, "Why This Matters")
		w.Paragraph(strings.TrimSpace(rule.Rationale))
	}

	if rule.BadExample != "" {
		w.Header(4, "Bad")
		w.CodeBlock("ruby", rule.BadExample)
	}

	if rule.GoodExample != "" {
		w.Header(4, "Good")
		w.CodeBlock("ruby", rule.GoodExample)
	}

	if rule.Fix != "" {
		w.Header(4, "How to Fix")
		w.Paragraph(strings.TrimSpace(rule.Fix))
	}

	if len(rule.ConfigKeys) > 0 {
		w.Header(4, "Configuration")
		w.Paragraph(fmt.Sprintf("This rule accepts the following configuration options: %s",
			InlineCode(strings.Join(rule.ConfigKeys, ", "))))
	}

	// Horizontal rule between rules for readability
	w.Line("---")
	w.Newline()
}

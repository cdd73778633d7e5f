package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/recordlint/internal/cli/output"
	"github.com/leapstack-labs/recordlint/pkg/lint"
	_ "github.com/leapstack-labs/recordlint/pkg/lint/rules" // register rules
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Verbose bool   // Show full documentation
	Format  string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List all available lint rules with their documentation.

Rules are organized by group (schema, association). Rules in the schema
group need a loaded schema and are skipped without one.
Use --verbose to see full documentation including examples and fix guidance.`,
		Example: `  # List all rules
  recordlint rules

  # Show details for a specific rule
  recordlint rules RS01

  # List rules in the schema group
  recordlint rules --group schema

  # Output as JSON
  recordlint rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx, err := NewCommandContextWithoutEngine(cmd, opts.Format)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	rules := filterRulesByGroup(lint.AllRules(), opts.Group)

	// Sort by group, then ID
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Group != rules[j].Group {
			return rules[i].Group < rules[j].Group
		}
		return rules[i].ID < rules[j].ID
	})

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listRulesJSON(r, rules)
	case output.ModeMarkdown:
		listRulesMarkdown(r, rules, opts.Verbose)
	default:
		listRulesText(r, rules, opts.Verbose)
	}
	return nil
}

func filterRulesByGroup(rules []lint.RuleInfo, group string) []lint.RuleInfo {
	if group == "" {
		return rules
	}
	var filtered []lint.RuleInfo
	for _, r := range rules {
		if r.Group == group {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	cmdCtx, err := NewCommandContextWithoutEngine(cmd, opts.Format)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	def, ok := lint.GetByID(strings.ToUpper(ruleID))
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	rule := def.Info()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rule)
	case output.ModeMarkdown:
		showRuleMarkdown(r, &rule)
	default:
		showRuleText(r, &rule)
	}
	return nil
}

// listRulesText outputs rules in styled text format.
func listRulesText(r *output.Renderer, rules []lint.RuleInfo, verbose bool) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Lint Rules (%d)", len(rules))))
	r.Println("")

	currentGroup := ""
	for _, rule := range rules {
		if rule.Group != currentGroup {
			currentGroup = rule.Group
			r.Println(styles.Bold.Render("  " + capitalizeFirst(currentGroup)))
		}

		r.Printf("    %s  %s - %s\n",
			styles.Muted.Render(rule.ID),
			rule.Name,
			getSeverityStyle(styles, rule.DefaultSeverity).Render(rule.DefaultSeverity.String()),
		)

		if verbose {
			r.Println(styles.Muted.Render("        " + rule.Description))
			if rule.Rationale != "" {
				r.Println(styles.Muted.Render("        Why: " + truncateOneLine(rule.Rationale, 80)))
			}
			r.Println("")
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'recordlint rules <rule-id>' for detailed documentation"))
	r.Println("")
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []lint.RuleInfo, verbose bool) {
	r.Println("# Lint Rules")
	r.Println("")

	currentGroup := ""
	for _, rule := range rules {
		if rule.Group != currentGroup {
			if currentGroup != "" {
				r.Println("")
			}
			currentGroup = rule.Group
			r.Println("## " + capitalizeFirst(currentGroup))
			r.Println("")
		}

		r.Printf("- **%s** - %s (`%s`)\n", rule.ID, rule.Name, rule.DefaultSeverity.String())
		if verbose {
			r.Println("  " + rule.Description)
			if rule.Rationale != "" {
				r.Println("  > " + truncateOneLine(rule.Rationale, 200))
			}
		}
	}
	r.Println("")
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []lint.RuleInfo `json:"rules"`
	Count int             `json:"count"`
}

// listRulesJSON outputs rules in JSON format.
func listRulesJSON(r *output.Renderer, rules []lint.RuleInfo) error {
	if rules == nil {
		rules = []lint.RuleInfo{}
	}
	return r.JSON(RulesJSONOutput{Rules: rules, Count: len(rules)})
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule *lint.RuleInfo) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), rule.DefaultSeverity.String())
	if rule.NeedsSchema {
		r.Printf("  %s: %s\n", styles.Bold.Render("Needs schema"), "yes")
	}
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(rule.BadExample, "\n") {
			r.Println(styles.Muted.Render("  " + line))
		}
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(rule.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println(styles.Bold.Render("How to Fix"))
		r.Println("  " + rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(rule.ConfigKeys, ", "))
		r.Println("")
	}
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule *lint.RuleInfo) {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Printf("**Group:** %s | **Severity:** `%s`\n\n", rule.Group, rule.DefaultSeverity.String())
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println("## Why This Matters")
		r.Println("")
		r.Println(rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println("## Bad Example")
		r.Println("")
		r.Println("```ruby")
		r.Println(rule.BadExample)
		r.Println("```")
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println("## Good Example")
		r.Println("")
		r.Println("```ruby")
		r.Println(rule.GoodExample)
		r.Println("```")
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println("## How to Fix")
		r.Println("")
		r.Println(rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println("## Configuration")
		r.Println("")
		r.Printf("Options: `%s`\n", strings.Join(rule.ConfigKeys, "`, `"))
		r.Println("")
	}
}

func getSeverityStyle(styles *output.Styles, sev lint.Severity) lipgloss.Style {
	switch sev {
	case lint.SeverityError:
		return styles.Error
	case lint.SeverityWarning:
		return styles.Warning
	case lint.SeverityInfo:
		return styles.Info
	default:
		return styles.Muted
	}
}

func truncateOneLine(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// capitalizeFirst title-cases a group name for headings.
func capitalizeFirst(s string) string {
	return cases.Title(language.English).String(s)
}

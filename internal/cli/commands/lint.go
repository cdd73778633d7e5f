package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/leapstack-labs/recordlint/internal/cli/output"
	"github.com/leapstack-labs/recordlint/internal/config"
	"github.com/leapstack-labs/recordlint/internal/engine"
	"github.com/leapstack-labs/recordlint/internal/watch"
	"github.com/leapstack-labs/recordlint/pkg/lint"
	_ "github.com/leapstack-labs/recordlint/pkg/lint/rules" // register rules
	"github.com/spf13/cobra"
)

// errLintIssues makes the process exit non-zero when findings remain.
var errLintIssues = errors.New("lint issues found")

// LintOptions holds options for the lint command.
type LintOptions struct {
	Format   string   // Output format: text, markdown, json
	Disable  []string // Rule IDs to disable
	Severity string   // Minimum severity: error, warning, info, hint
	Rules    []string // Run only specific rules
	Watch    bool     // Re-run on schema and model changes
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Run lint rules on model files",
		Long: `Analyze Active Record models for problems the schema can reveal.

Every .json AST file under the given paths (default: the models directory)
is decoded, each model class is matched to its table, and the lint rules run
against the schema. Schema-aware rules are skipped when no schema is found.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Lint all models
  recordlint lint

  # Lint specific files or directories
  recordlint lint app/models/blog

  # Output as JSON
  recordlint lint --format json

  # Disable specific rules
  recordlint lint --disable RS03,RS04

  # Only report errors and warnings
  recordlint lint --severity warning

  # Re-run whenever the schema or a model changes
  recordlint lint --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity: error, warning, info, hint")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch the schema and models and re-run on change")

	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning", "info", "hint"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runLint(cmd *cobra.Command, args []string, opts *LintOptions) error {
	threshold, ok := lint.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("invalid severity %q (valid: error, warning, info, hint)", opts.Severity)
	}
	only, err := selectRules(opts.Rules)
	if err != nil {
		return err
	}

	cmdCtx, err := NewCommandContextWithoutEngine(cmd, opts.Format)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	eng, err := createEngine(cfg, cmdCtx.Logger, buildLintConfig(cfg, opts), only)
	if err != nil {
		return err
	}
	paths := targetPaths(cfg, args)

	lintOnce := func(ctx context.Context) (bool, error) {
		res, err := eng.Lint(ctx, paths...)
		if err != nil {
			return false, err
		}
		return renderLintResults(r, cfg, res, threshold), nil
	}

	if !opts.Watch {
		hasIssues, err := lintOnce(cmd.Context())
		if err != nil {
			return err
		}
		if hasIssues {
			return errLintIssues
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if _, err := lintOnce(ctx); err != nil {
		return err
	}

	schemaPath, _ := eng.SchemaPath()
	w := watch.New(watch.Config{
		SchemaPath: schemaPath,
		ModelDirs:  watchDirs(paths),
		Extension:  engine.ASTExtension,
		Schema:     eng,
		Debounce:   time.Duration(cfg.DebounceMS()) * time.Millisecond,
		Logger:     cmdCtx.Logger,
	})
	return w.Run(ctx, func(ctx context.Context, ev watch.Event) error {
		if r.EffectiveMode() == output.ModeText {
			r.Println(r.Styles().Muted.Render(fmt.Sprintf("Change detected (%d files), re-running...", len(ev.Paths))))
		}
		_, err := lintOnce(ctx)
		return err
	})
}

// selectRules validates --rule IDs against the registry.
func selectRules(ids []string) ([]string, error) {
	var only []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := lint.GetByID(id); !ok {
			return nil, fmt.Errorf("rule %q not found", id)
		}
		only = append(only, id)
	}
	return only, nil
}

func buildLintConfig(cfg *config.Config, opts *LintOptions) *lint.Config {
	// Project config first, CLI overrides after
	lintCfg := cfg.BuildLintConfig()
	for _, id := range opts.Disable {
		lintCfg.Disable(strings.TrimSpace(id))
	}
	return lintCfg
}

// watchDirs returns the directories among paths. Explicit files are watched
// through their parent directory.
func watchDirs(paths []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range paths {
		dir := p
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			dir = filepath.Dir(p)
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// displayPath shortens paths inside the project root.
func displayPath(cfg *config.Config, path string) string {
	if cfg.ProjectRoot == "" {
		return path
	}
	rel, err := filepath.Rel(cfg.ProjectRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func summarize(files []engine.FileResult, res *engine.Result) output.LintSummary {
	summary := output.LintSummary{
		FilesAnalyzed: len(res.Files),
		Models:        res.Models,
	}
	for _, f := range files {
		if f.Err != nil {
			summary.FilesFailed++
		}
		summary.TotalIssues += len(f.Diagnostics)
		for _, d := range f.Diagnostics {
			switch d.Severity {
			case lint.SeverityError:
				summary.Errors++
			case lint.SeverityWarning:
				summary.Warnings++
			case lint.SeverityInfo:
				summary.Info++
			case lint.SeverityHint:
				summary.Hints++
			}
		}
	}
	return summary
}

// renderLintResults prints the findings at or above threshold and reports
// whether any were printed. Files that failed to decode count as findings.
func renderLintResults(r *output.Renderer, cfg *config.Config, res *engine.Result, threshold lint.Severity) bool {
	files := engine.FilterBySeverity(res.Files, threshold)
	summary := summarize(files, res)
	hasIssues := len(files) > 0

	if r.EffectiveMode() == output.ModeJSON {
		jsonOutput := output.LintOutput{
			RunID:   res.RunID,
			Schema:  res.Schema,
			Summary: summary,
			Files:   []output.LintFileResult{},
		}
		for _, f := range files {
			fileResult := output.LintFileResult{
				Path:        displayPath(cfg, f.Path),
				Diagnostics: []output.LintDiagnostic{},
			}
			if f.Err != nil {
				fileResult.Error = f.Err.Error()
			}
			for _, d := range f.Diagnostics {
				fileResult.Diagnostics = append(fileResult.Diagnostics, output.LintDiagnostic{
					RuleID:           d.RuleID,
					Severity:         d.Severity.String(),
					Message:          d.Message,
					Class:            d.Class,
					Line:             d.Pos.Line,
					Column:           d.Pos.Column,
					DocumentationURL: d.DocumentationURL,
				})
			}
			jsonOutput.Files = append(jsonOutput.Files, fileResult)
		}
		_ = r.JSON(jsonOutput)
		return hasIssues
	}

	if !res.Schema {
		r.Warn("no schema loaded, schema rules were skipped")
	}

	if !hasIssues {
		r.Success(fmt.Sprintf("No lint issues found (%d models in %d files)", summary.Models, summary.FilesAnalyzed))
		return false
	}

	styles := r.Styles()
	markdown := r.EffectiveMode() == output.ModeMarkdown
	for _, f := range files {
		path := displayPath(cfg, f.Path)
		if markdown {
			r.Printf("## %s\n\n", path)
		} else {
			r.Println(styles.ModelPath.Render(path))
		}
		if f.Err != nil {
			r.Printf("  %s  %s\n", styles.Error.Render("failed "), f.Err.Error())
		}
		for _, d := range f.Diagnostics {
			loc := fmt.Sprintf("%d:%d", d.Pos.Line, d.Pos.Column)
			if d.Pos.Line == 0 {
				loc = "-"
			}
			if markdown {
				r.Printf("- `%s` **%s** %s: %s\n", loc, d.RuleID, d.Severity.String(), d.Message)
				continue
			}
			r.Printf("  %s  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-5s", loc)),
				severityStyle(r, d.Severity),
				styles.Bold.Render(d.RuleID),
				d.Message,
			)
		}
		r.Println("")
	}

	summaryParts := []string{fmt.Sprintf("%d issues", summary.TotalIssues)}
	if summary.Errors > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.Hints > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d hints", summary.Hints))
	}
	if summary.FilesFailed > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d unreadable files", summary.FilesFailed))
	}
	r.Printf("Summary: %s in %d files\n", strings.Join(summaryParts, ", "), summary.FilesAnalyzed)

	return true
}

func severityStyle(r *output.Renderer, sev lint.Severity) string {
	switch sev {
	case lint.SeverityError:
		return r.Styles().Error.Render("error  ")
	case lint.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case lint.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	case lint.SeverityHint:
		return r.Styles().Muted.Render("hint   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}

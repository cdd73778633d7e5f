package commands

import (
	"fmt"

	"github.com/leapstack-labs/recordlint/internal/cli/output"
	"github.com/spf13/cobra"
)

// TableOptions holds options for the table command.
type TableOptions struct {
	Format  string
	Missing bool // Only list models whose table is not in the schema
}

// NewTableCommand creates the table command.
func NewTableCommand() *cobra.Command {
	opts := &TableOptions{}
	cmd := &cobra.Command{
		Use:     "table [paths...]",
		Aliases: []string{"tables"},
		Short:   "Show the table each model maps to",
		Long: `Resolve the physical table name of every model class.

An explicit self.table_name = wins. Otherwise the name is derived from the
class and its enclosing modules, with table_name_prefix/suffix applied from
the class, its innermost module, or the project configuration.`,
		Example: `  # All models
  recordlint table

  # Models whose table is missing from the schema
  recordlint table --missing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTable(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().BoolVar(&opts.Missing, "missing", false, "Only show models whose table is not in the schema")

	return cmd
}

func runTable(cmd *cobra.Command, args []string, opts *TableOptions) error {
	cmdCtx, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	res, err := cmdCtx.Engine.Tables(cmd.Context(), targetPaths(cfg, args)...)
	if err != nil {
		return err
	}
	if opts.Missing && !res.Schema {
		return fmt.Errorf("--missing needs a schema, none was found")
	}

	tables := make([]output.TableInfo, 0, len(res.Tables))
	for _, m := range res.Tables {
		if opts.Missing && (m.InSchema || m.Abstract) {
			continue
		}
		tables = append(tables, output.TableInfo{
			Class:    m.Class,
			Table:    m.TableName,
			FilePath: displayPath(cfg, m.FilePath),
			Line:     m.Pos.Line,
			Explicit: m.Explicit,
			Abstract: m.Abstract,
			InSchema: m.InSchema,
		})
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := output.TablesOutput{Schema: res.Schema, Tables: tables}
		for _, f := range res.Errors {
			out.Errors = append(out.Errors, output.LintFileResult{Path: displayPath(cfg, f.Path), Error: f.Err.Error()})
		}
		return r.JSON(out)
	}

	for _, f := range res.Errors {
		r.Warn(fmt.Sprintf("%s: %v", displayPath(cfg, f.Path), f.Err))
	}
	if len(tables) == 0 {
		r.Success("No models found")
		return nil
	}

	header := []string{"Class", "Table", "Source"}
	if res.Schema {
		header = append(header, "In schema")
	}
	header = append(header, "File")

	rows := make([][]string, 0, len(tables))
	for _, t := range tables {
		source := "derived"
		switch {
		case t.Abstract:
			source = "abstract"
		case t.Explicit:
			source = "explicit"
		}
		row := []string{t.Class, t.Table, source}
		if res.Schema {
			row = append(row, yesNo(t.InSchema))
		}
		row = append(row, fmt.Sprintf("%s:%d", t.FilePath, t.Line))
		rows = append(rows, row)
	}
	r.Table(header, rows)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/recordlint/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show the loaded schema",
		Long: `Load the configured schema source and show its checksum and tables.

The checksum is the SHA-256 of the schema file, so tools can tell whether
cached results are still valid.`,
		Example: `  recordlint schema
  recordlint schema --schema-type sqlite --schema db/development.sqlite3
  recordlint schema --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchema(cmd, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

func runSchema(cmd *cobra.Command, format string) error {
	cmdCtx, err := NewCommandContext(cmd, format)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer
	eng := cmdCtx.Engine

	s, err := eng.Schema(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}
	if s == nil {
		return fmt.Errorf("no schema found (type %s)", cfg.Schema.Type)
	}

	info := output.SchemaInfo{
		Loaded:        true,
		Source:        cfg.Schema.Type,
		Version:       s.Version,
		TargetVersion: s.TargetVersion,
		Tables:        []output.SchemaTableInfo{},
	}
	if path, ok := eng.SchemaPath(); ok {
		info.Source = displayPath(cfg, path)
	}
	if sum, ok := eng.Checksum(); ok {
		info.Checksum = sum
	}
	for _, t := range s.Tables() {
		ti := output.SchemaTableInfo{Name: t.Name, Columns: t.Columns(), Indexes: len(t.Indexes)}
		for _, idx := range t.Indexes {
			if idx.Unique {
				ti.UniqueIndexes++
			}
		}
		info.Tables = append(info.Tables, ti)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(info)
	}

	styles := r.Styles()
	r.Printf("%s %s\n", styles.Bold.Render("Source:"), info.Source)
	if info.Checksum != "" {
		r.Printf("%s %s\n", styles.Bold.Render("Checksum:"), info.Checksum)
	}
	if info.Version != "" {
		r.Printf("%s %s\n", styles.Bold.Render("Version:"), info.Version)
	}
	r.Println("")

	rows := make([][]string, 0, len(info.Tables))
	for _, t := range info.Tables {
		rows = append(rows, []string{
			t.Name,
			strings.Join(t.Columns, ", "),
			fmt.Sprintf("%d (%d unique)", t.Indexes, t.UniqueIndexes),
		})
	}
	r.Table([]string{"Table", "Columns", "Indexes"}, rows)
	return nil
}

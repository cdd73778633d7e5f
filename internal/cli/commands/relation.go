package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/recordlint/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewRelationCommand creates the relation command.
func NewRelationCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "relation <name> <file>",
		Short: "Resolve a relation name to table columns",
		Long: `Resolve an attribute or belongs_to association name to the columns it
touches in the model's table.

A name that is a column resolves to itself. A belongs_to association resolves
to its foreign key column (explicit foreign_key: or <name>_id), plus the
<name>_type column for polymorphic associations. Needs a schema.`,
		Example: `  recordlint relation author app/models/blog/post.json
  recordlint relation owner app/models/blog/post.json --format json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelation(cmd, args[0], args[1], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

func runRelation(cmd *cobra.Command, name, path, format string) error {
	cmdCtx, err := NewCommandContext(cmd, format)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	mappings, err := cmdCtx.Engine.Relation(cmd.Context(), name, path)
	if err != nil {
		return err
	}
	if len(mappings) == 0 {
		return fmt.Errorf("no model classes in %s", path)
	}

	infos := make([]output.RelationInfo, 0, len(mappings))
	found := false
	for _, m := range mappings {
		cols := m.Columns.Names()
		if cols == nil {
			cols = []string{}
		}
		found = found || m.Found
		infos = append(infos, output.RelationInfo{
			Class:   m.Class,
			Table:   m.TableName,
			Name:    name,
			Found:   m.Found,
			Columns: cols,
		})
	}

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(infos); err != nil {
			return err
		}
	} else {
		styles := r.Styles()
		for _, info := range infos {
			if !info.Found {
				r.Printf("%s  %s: %s\n", styles.ModelPath.Render(info.Class), name, styles.Muted.Render("not found in "+info.Table))
				continue
			}
			r.Printf("%s  %s -> %s(%s)\n", styles.ModelPath.Render(info.Class), name, info.Table, strings.Join(info.Columns, ", "))
		}
	}

	if !found {
		return fmt.Errorf("relation %q does not resolve in %s", name, path)
	}
	return nil
}

package commands

import (
	"strconv"

	"github.com/leapstack-labs/sqlmatch/internal/cli/output"
	"github.com/leapstack-labs/sqlmatch/pkg/dialect"
	"github.com/spf13/cobra"
)

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dialects",
		Short: "List registered SQL dialects",
		Example: `  sqlmatch dialects
  sqlmatch dialects --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			if err := cmdCtx.WithFormat(cmd, format); err != nil {
				return err
			}
			return listDialects(cmdCtx.Renderer, cmdCtx.Cfg.Dialect)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, markdown")
	return cmd
}

func dialectInfo(d *dialect.Dialect) output.DialectOutput {
	info := output.DialectOutput{
		Name:     d.GetName(),
		Keywords: len(d.Keywords()),
		Reserved: len(d.ReservedWords()),
		Grammars: len(d.GrammarNames()),
	}
	if p := d.Parent(); p != nil {
		info.Parent = p.GetName()
	}
	return info
}

func listDialects(r *output.Renderer, current string) error {
	var infos []output.DialectOutput
	for _, name := range dialect.List() {
		if d, ok := dialect.Get(name); ok {
			infos = append(infos, dialectInfo(d))
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(infos)
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		name := info.Name
		if name == current {
			name += " *"
		}
		rows = append(rows, []string{
			name,
			info.Parent,
			strconv.Itoa(info.Keywords),
			strconv.Itoa(info.Reserved),
			strconv.Itoa(info.Grammars),
		})
	}
	r.Table([]string{"Dialect", "Extends", "Keywords", "Reserved", "Grammars"}, rows)
	return nil
}

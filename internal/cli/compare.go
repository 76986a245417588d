package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/royalbit/mouvify-forge-sub002/internal/commands"
)

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare MODEL SCENARIO...",
		Short: "Tabulate derived scalars across the base model and scenarios",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmp, err := commands.Compare(cmd.Context(), m, args[1:])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprint(tw, "scalar")
			for _, col := range cmp.Columns {
				fmt.Fprintf(tw, "\t%s", col)
			}
			fmt.Fprintln(tw)
			for _, row := range cmp.Rows {
				fmt.Fprint(tw, row.Name)
				for _, v := range row.Values {
					fmt.Fprintf(tw, "\t%s", v.String())
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
}

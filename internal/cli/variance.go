package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/royalbit/mouvify-forge-sub002/internal/commands"
)

func newVarianceCmd() *cobra.Command {
	var threshold float64
	var all bool

	cmd := &cobra.Command{
		Use:   "variance BUDGET ACTUAL",
		Short: "Compare two models scalar by scalar, honoring favor directions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			budget, err := loadModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			actual, err := loadModel(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			report, err := commands.Variance(cmd.Context(), budget, actual, threshold)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "scalar\tbudget\tactual\tdelta\tpct\t")
			for _, line := range report.Lines {
				if !all && !line.Significant {
					continue
				}
				marker := "favorable"
				if !line.Favorable {
					marker = "UNFAVORABLE"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f%%\t%s\n",
					line.Name, formatFloat(line.Budget), formatFloat(line.Actual),
					formatFloat(line.Delta), line.Pct*100, marker)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0,
		"Relative variance that counts as significant. 0 flags everything.")
	cmd.Flags().BoolVar(&all, "all", false, "Print insignificant lines too.")
	return cmd
}

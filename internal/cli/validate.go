package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/royalbit/mouvify-forge-sub002/internal/commands"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate MODEL",
		Short: "Check formulas, references, cycles and recorded snapshots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			report, err := commands.Validate(cmd.Context(), m)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if report.OK() {
				fmt.Fprintln(w, "OK")
				return nil
			}
			if report.Structural != nil {
				fmt.Fprintf(w, "error: %s\n", report.Structural.Error())
			}
			for _, re := range report.RowIssues {
				fmt.Fprintf(w, "row error: %s\n", re.Error())
			}
			for _, mm := range report.Mismatches {
				if mm.Row >= 0 {
					fmt.Fprintf(w, "mismatch: %s row %d recorded %s, computed %s\n",
						mm.Ident, mm.Row, mm.Want.String(), mm.Got.String())
				} else {
					fmt.Fprintf(w, "mismatch: %s recorded %s, computed %s\n",
						mm.Ident, mm.Want.String(), mm.Got.String())
				}
			}
			return &ExitError{Code: 1, Message: "model is not valid"}
		},
	}
}

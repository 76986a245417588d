package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/royalbit/mouvify-forge-sub002/internal/commands"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

func newCalculateCmd() *cobra.Command {
	var scenario string

	cmd := &cobra.Command{
		Use:   "calculate MODEL",
		Short: "Run a calculation pass and print every computed value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, err := commands.Calculate(cmd.Context(), m, scenario)
			var rowErrs model.RowErrors
			if err != nil && !errors.As(err, &rowErrs) {
				return err
			}
			if err := renderModel(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if len(rowErrs) > 0 {
				for _, re := range rowErrs {
					fmt.Fprintf(cmd.ErrOrStderr(), "row error: %s\n", re.Error())
				}
				return &ExitError{Code: 1,
					Message: fmt.Sprintf("%d row(s) failed to compute", len(rowErrs))}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scenario, "scenario", "", "Apply a named scenario before calculating.")
	return cmd
}

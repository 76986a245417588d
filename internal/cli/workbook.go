package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/royalbit/mouvify-forge-sub002/internal/commands"
)

func newExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export MODEL",
		Short: "Write the model as an .xlsx workbook with live formulas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			defer f.Close()
			if err := commands.Export(cmd.Context(), m, f); err != nil {
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output workbook path.")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newImportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "import WORKBOOK",
		Short: "Reconstruct a model document from an .xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			src, err := commands.ImportSource(cmd.Context(), f)
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(src)
				return err
			}
			return os.WriteFile(outPath, src, 0o644)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output document path. Defaults to stdout.")
	return cmd
}

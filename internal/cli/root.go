package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/royalbit/mouvify-forge-sub002/internal/app"
	"github.com/royalbit/mouvify-forge-sub002/internal/ctxlog"
	"github.com/royalbit/mouvify-forge-sub002/internal/loader"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// ExitError carries a specific process exit code out of a command.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// New builds the forge command tree.
func New() *cobra.Command {
	var logLevel, logFormat string

	root := &cobra.Command{
		Use:           "forge",
		Short:         "Deterministic calculation engine for tabular financial models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.NewConfig(app.Config{LogLevel: logLevel, LogFormat: logFormat})
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			logger := app.NewLogger(cfg, cmd.ErrOrStderr())
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Logging level: 'debug', 'info', 'warn', or 'error'.")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"Log output format: 'text' or 'json'.")

	root.AddCommand(
		newCalculateCmd(),
		newValidateCmd(),
		newAuditCmd(),
		newExportCmd(),
		newImportCmd(),
		newCompareCmd(),
		newVarianceCmd(),
		newSensitivityCmd(),
		newGoalSeekCmd(),
		newBreakEvenCmd(),
	)
	return root
}

// loadModel reads a model document tree from disk.
func loadModel(ctx context.Context, path string) (*model.Model, error) {
	return loader.Load(ctx, path, os.ReadFile)
}

package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/royalbit/mouvify-forge-sub002/internal/commands"
	"github.com/royalbit/mouvify-forge-sub002/internal/solver"
)

// parseAxis reads a sweep spec of the form "scalar=start:end:step".
func parseAxis(spec string) (commands.Axis, error) {
	name, rest, ok := strings.Cut(spec, "=")
	if !ok {
		return commands.Axis{}, fmt.Errorf("invalid axis %q: want scalar=start:end:step", spec)
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 3 {
		return commands.Axis{}, fmt.Errorf("invalid axis %q: want scalar=start:end:step", spec)
	}
	nums := make([]float64, 3)
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return commands.Axis{}, fmt.Errorf("invalid axis %q: %w", spec, err)
		}
		nums[i] = f
	}
	return commands.Axis{
		Scalar: name,
		Range:  solver.Range{Start: nums[0], End: nums[1], Step: nums[2]},
	}, nil
}

func newSensitivityCmd() *cobra.Command {
	var target, xSpec, ySpec string

	cmd := &cobra.Command{
		Use:   "sensitivity MODEL",
		Short: "Sweep one or two inputs and tabulate a target output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			req := commands.SensitivityRequest{Target: target}
			if req.X, err = parseAxis(xSpec); err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			if ySpec != "" {
				axis, err := parseAxis(ySpec)
				if err != nil {
					return &ExitError{Code: 2, Message: err.Error()}
				}
				req.Y = &axis
			}

			grid, err := commands.Sensitivity(cmd.Context(), m, req)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "%s", req.X.Scalar)
			for _, x := range grid.XPoints {
				fmt.Fprintf(tw, "\t%s", formatFloat(x))
			}
			fmt.Fprintln(tw)
			for yi, row := range grid.Values {
				label := target
				if req.Y != nil {
					label = fmt.Sprintf("%s=%s", req.Y.Scalar, formatFloat(grid.YPoints[yi]))
				}
				fmt.Fprint(tw, label)
				for _, v := range row {
					fmt.Fprintf(tw, "\t%s", formatFloat(v))
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "Identifier to read after each trial.")
	cmd.Flags().StringVar(&xSpec, "x", "", "Swept input: scalar=start:end:step.")
	cmd.Flags().StringVar(&ySpec, "y", "", "Optional second input: scalar=start:end:step.")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("x")
	return cmd
}

func newGoalSeekCmd() *cobra.Command {
	var req commands.GoalSeekRequest

	cmd := &cobra.Command{
		Use:   "goal-seek MODEL",
		Short: "Find the input value that drives a target to a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res, err := commands.GoalSeek(cmd.Context(), m, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s gives %s = %s\n",
				req.By, formatFloat(res.Input), req.Target, formatFloat(res.Target))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Target, "target", "", "Identifier to drive.")
	cmd.Flags().Float64Var(&req.Goal, "goal", 0, "Value the target should reach.")
	cmd.Flags().StringVar(&req.By, "by", "", "Scalar to adjust.")
	cmd.Flags().Float64Var(&req.Lo, "min", 0, "Lower search bound.")
	cmd.Flags().Float64Var(&req.Hi, "max", 0, "Upper search bound.")
	cmd.Flags().Float64Var(&req.Tolerance, "tolerance", 0, "Convergence tolerance. 0 uses the default.")
	cmd.Flags().IntVar(&req.MaxIter, "max-iter", 0, "Iteration budget. 0 uses the default.")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func newBreakEvenCmd() *cobra.Command {
	var target, by string
	var lo, hi float64

	cmd := &cobra.Command{
		Use:   "break-even MODEL",
		Short: "Find the input value that drives a target to zero",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res, err := commands.BreakEven(cmd.Context(), m, target, by, lo, hi)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s breaks even at %s = %s\n",
				target, by, formatFloat(res.Input))
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "Identifier to drive to zero.")
	cmd.Flags().StringVar(&by, "by", "", "Scalar to adjust.")
	cmd.Flags().Float64Var(&lo, "min", 0, "Lower search bound.")
	cmd.Flags().Float64Var(&hi, "max", 0, "Upper search bound.")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

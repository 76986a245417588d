package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/royalbit/mouvify-forge-sub002/internal/commands"
)

func newAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit MODEL IDENTIFIER",
		Short: "Show the full producer chain behind one identifier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			trace, err := commands.Audit(cmd.Context(), m, args[1])
			if err != nil {
				return err
			}
			renderTrace(cmd.OutOrStdout(), trace, 0)
			return nil
		},
	}
}

func renderTrace(w io.Writer, tr *commands.Trace, depth int) {
	indent := strings.Repeat("  ", depth)
	vals := make([]string, len(tr.Values))
	for i, v := range tr.Values {
		vals[i] = v.String()
	}
	if tr.Formula != "" {
		fmt.Fprintf(w, "%s%s = %s  [%s]\n", indent, tr.Ident, strings.Join(vals, ", "), tr.Formula)
	} else {
		fmt.Fprintf(w, "%s%s = %s\n", indent, tr.Ident, strings.Join(vals, ", "))
	}
	for _, in := range tr.Inputs {
		renderTrace(w, in, depth+1)
	}
}

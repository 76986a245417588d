package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// renderModel prints every table and scalar of a computed model.
func renderModel(w io.Writer, m *model.Model) error {
	for _, t := range m.Tables {
		fmt.Fprintf(w, "table %s\n", t.Name)
		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		for i, c := range t.Columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, c.Name)
		}
		fmt.Fprintln(tw)

		rows := 0
		for _, c := range t.Columns {
			if len(c.Values) > rows {
				rows = len(c.Values)
			}
		}
		for r := 0; r < rows; r++ {
			for i, c := range t.Columns {
				if i > 0 {
					fmt.Fprint(tw, "\t")
				}
				if r < len(c.Values) {
					fmt.Fprint(tw, c.Values[r].String())
				}
			}
			fmt.Fprintln(tw)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if len(m.Scalars) > 0 {
		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		for _, s := range m.Scalars {
			fmt.Fprintf(tw, "%s\t%s\n", s.Name, s.Value.String())
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

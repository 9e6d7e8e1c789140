package render

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteTable は係数表と表示値を端末向けに整形して書き出す
func WriteTable(w io.Writer, v *View) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\t%s\t%s\t%s\t\n", v.Coefficients.Columns[0], v.Coefficients.Columns[1], v.Coefficients.Columns[2])
	for _, r := range v.Coefficients.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", r.Name, r.Population, r.Estimate, r.StdError)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	d := v.Display
	_, err := fmt.Fprintf(w, "\nn = %d   R² = %s   ŝ = %s\nadj. R² = %s   AIC = %s   BIC = %s   F = %s   seed = %d\n",
		d.N, d.RSquared, d.ResidualStdError, d.AdjustedR2, d.AIC, d.BIC, d.FStatistic, d.Seed)
	return err
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datasculpt/datasculpt/internal/analysis"
)

var corrCmd = &cobra.Command{
	Use:   "corr <file>",
	Short: "Pearson correlation matrix over the numeric columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		m := analysis.Correlations(ds)
		if m.Empty() {
			fmt.Println("Fewer than two numeric columns; nothing to correlate.")
			return nil
		}
		fmt.Printf("%-20s", "")
		for _, c := range m.Columns {
			fmt.Printf("%12s", truncate(c, 12))
		}
		fmt.Println()
		for i, c := range m.Columns {
			fmt.Printf("%-20s", truncate(c, 20))
			for j := range m.Columns {
				fmt.Printf("%12.3f", m.Values[i][j])
			}
			fmt.Println()
		}
		return nil
	},
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func init() {
	rootCmd.AddCommand(corrCmd)
}

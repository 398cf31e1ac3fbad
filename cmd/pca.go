package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datasculpt/datasculpt/internal/pca"
)

var pcaMaxPoints int

var pcaCmd = &cobra.Command{
	Use:   "pca <file>",
	Short: "Project numeric columns onto their top two principal components",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		cols := ds.ActiveNumericColumns()
		sampleCap := pca.DefaultSampleCap
		if cfg != nil && cfg.PCASampleCap > 0 {
			sampleCap = cfg.PCASampleCap
		}
		res := pca.ReduceTo2DCapped(ds.Rows, cols, sampleCap)
		if res.Empty() {
			fmt.Println("Fewer than two numeric columns; nothing to project.")
			return nil
		}
		for axis, name := range []string{"PC1", "PC2"} {
			fmt.Printf("%s loadings:\n", name)
			for _, l := range res.Loadings[axis] {
				fmt.Printf("  %-20s %+.4f\n", l.Column, l.Weight)
			}
		}
		lim := pcaMaxPoints
		if lim <= 0 || lim > len(res.Points) {
			lim = len(res.Points)
		}
		fmt.Printf("Projection (%d of %d points):\n", lim, len(res.Points))
		for _, p := range res.Points[:lim] {
			fmt.Printf("  row %-6d %+10.4f %+10.4f\n", p.RowID, p.X, p.Y)
		}
		return nil
	},
}

func init() {
	pcaCmd.Flags().IntVar(&pcaMaxPoints, "max-points", 20, "limit printed projection points")
	rootCmd.AddCommand(pcaCmd)
}

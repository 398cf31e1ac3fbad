package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datasculpt/datasculpt/internal/reshape"
)

var (
	rsStart   int
	rsEnd     int
	rsColumns []string
	rsRow     int
	rsOutput  string
)

var reshapeCmd = &cobra.Command{
	Use:   "reshape",
	Short: "Structural rewrites: transpose, crop, promote-row-to-header",
}

var transposeCmd = &cobra.Command{
	Use:   "transpose <file>",
	Short: "Invert rows and columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		return emitDataset(reshape.Transpose(ds), rsOutput)
	},
}

var cropCmd = &cobra.Command{
	Use:   "crop <file>",
	Short: "Slice rows (inclusive bounds) and optionally keep a column subset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		end := rsEnd
		if end < 0 {
			end = len(ds.Rows) - 1
		}
		out := reshape.Crop(ds, rsStart, end, rsColumns)
		fmt.Printf("✓ Cropped to %d rows (%d dropped overall)\n", len(out.Rows), out.Stats.DroppedRows)
		return emitDataset(out, rsOutput)
	},
}

var promoteCmd = &cobra.Command{
	Use:   "promote <file>",
	Short: "Promote a data row to the header, dropping everything above it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		return emitDataset(reshape.PromoteRowToHeader(ds, rsRow), rsOutput)
	},
}

func init() {
	cropCmd.Flags().IntVar(&rsStart, "start", 0, "first row of the slice")
	cropCmd.Flags().IntVar(&rsEnd, "end", -1, "last row of the slice (default: last row)")
	cropCmd.Flags().StringSliceVar(&rsColumns, "columns", nil, "columns to keep (default: all)")
	promoteCmd.Flags().IntVar(&rsRow, "row", 0, "row index to promote")
	for _, c := range []*cobra.Command{transposeCmd, cropCmd, promoteCmd} {
		c.Flags().StringVarP(&rsOutput, "output", "o", "", "write the result as CSV")
		reshapeCmd.AddCommand(c)
	}
	rootCmd.AddCommand(reshapeCmd)
}

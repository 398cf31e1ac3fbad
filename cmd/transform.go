package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datasculpt/datasculpt/internal/transform"
)

var (
	tfOp        string
	tfTarget    string
	tfDelimiter string
	tfIndex     string
	tfPattern   string
	tfAmount    string
	tfName      string
	tfFormula   string
	tfOutput    string
)

var transformCmd = &cobra.Command{
	Use:   "transform <file>",
	Short: "Derive a new column (split, extract, case, offset, log, or formula)",
	Long: `Applies one derived-column operation and re-analyzes the result. Existing
columns and rows are never removed or overwritten.

Operations: split_count, split_extract, regex_extract, uppercase, lowercase,
offset, natural_log, calculated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		cfgOp := transform.Config{
			Kind:   transform.Kind(tfOp),
			Target: tfTarget,
			Params: map[string]string{
				"delimiter": tfDelimiter,
				"index":     tfIndex,
				"pattern":   tfPattern,
				"amount":    tfAmount,
				"name":      tfName,
				"formula":   tfFormula,
			},
		}
		out, err := transform.Apply(ds, cfgOp)
		if err != nil {
			return err
		}
		fmt.Printf("✓ %s: %d columns → %d\n", cfgOp.Kind, len(ds.Columns), len(out.Columns))
		return emitDataset(out, tfOutput)
	},
}

func init() {
	transformCmd.Flags().StringVar(&tfOp, "op", "", "operation kind (required)")
	transformCmd.Flags().StringVar(&tfTarget, "column", "", "target column")
	transformCmd.Flags().StringVar(&tfDelimiter, "delimiter", "", "delimiter for split operations")
	transformCmd.Flags().StringVar(&tfIndex, "index", "", "part index for split_extract")
	transformCmd.Flags().StringVar(&tfPattern, "pattern", "", "regular expression for regex_extract")
	transformCmd.Flags().StringVar(&tfAmount, "amount", "", "offset amount")
	transformCmd.Flags().StringVar(&tfName, "name", "", "name for a calculated column")
	transformCmd.Flags().StringVar(&tfFormula, "formula", "", "formula for a calculated column")
	transformCmd.Flags().StringVarP(&tfOutput, "output", "o", "", "write the result as CSV")
	_ = transformCmd.MarkFlagRequired("op")
	rootCmd.AddCommand(transformCmd)
}

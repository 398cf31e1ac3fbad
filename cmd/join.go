package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datasculpt/datasculpt/internal/join"
)

var (
	joinPrimaryKey   string
	joinSecondaryKey string
	joinOutput       string
)

var joinCmd = &cobra.Command{
	Use:   "join <primary-file> <secondary-file>",
	Short: "Left-outer join two files on key columns",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		primary, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		secondary, err := loadDataset(args[1])
		if err != nil {
			return err
		}
		sk := joinSecondaryKey
		if sk == "" {
			sk = joinPrimaryKey
		}
		out, err := join.LeftOuter(primary, secondary, joinPrimaryKey, sk)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Joined %s ⟕ %s on %s: %d rows, %d columns\n",
			primary.Name, secondary.Name, joinPrimaryKey, len(out.Rows), len(out.Columns))
		return emitDataset(out, joinOutput)
	},
}

func init() {
	joinCmd.Flags().StringVar(&joinPrimaryKey, "on", "", "key column in the primary dataset (required)")
	joinCmd.Flags().StringVar(&joinSecondaryKey, "secondary-on", "", "key column in the secondary dataset (defaults to --on)")
	joinCmd.Flags().StringVarP(&joinOutput, "output", "o", "", "write the result as CSV")
	_ = joinCmd.MarkFlagRequired("on")
	rootCmd.AddCommand(joinCmd)
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datasculpt/datasculpt/internal/advisor"
	"github.com/datasculpt/datasculpt/internal/transform"
)

var (
	suggestRemote  bool
	suggestExplain bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <file>",
	Short: "Propose cleaning operations for a file",
	Long: `Without flags, runs the local heuristics (delimiter and email detection on
text-column samples). With --remote, also asks the configured advisory model;
only column metadata and a few sample rows are sent, never the full dataset.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		local := transform.Suggest(ds)
		if len(local) == 0 {
			fmt.Println("No local suggestions.")
		}
		for _, s := range local {
			fmt.Printf("- %s on %q: %s\n", s.Config.Kind, s.Config.Target, s.Reason)
		}
		if !suggestRemote && !suggestExplain {
			return nil
		}

		client := advisor.NewClient(advisorConfig())
		ctx := context.Background()
		if suggestExplain {
			text, err := client.Explain(ctx, ds)
			if err != nil {
				return err
			}
			fmt.Println("\n" + text)
			return nil
		}
		remote, err := client.Suggest(ctx, ds)
		if err != nil {
			return err
		}
		fmt.Println("\nAdvisory suggestions:")
		for _, s := range remote {
			fmt.Printf("- %s on %q: %s\n", s.Operation, s.Column, s.Reason)
		}
		return nil
	},
}

func init() {
	suggestCmd.Flags().BoolVar(&suggestRemote, "remote", false, "ask the advisory model for suggestions")
	suggestCmd.Flags().BoolVar(&suggestExplain, "explain", false, "ask the advisory model for a plain-language explanation")
	rootCmd.AddCommand(suggestCmd)
}

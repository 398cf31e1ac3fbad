package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datasculpt/datasculpt/internal/analysis"
)

var (
	anaOutputPath string
	anaGroupBy    []string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Ingest a tabular or GeoJSON file and summarize its schema and stats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		out := analysis.Render(ds, sampleRows())

		if len(anaGroupBy) > 0 {
			ds.Hierarchy = anaGroupBy
			groups := analysis.GroupBy(ds, nil)
			var b strings.Builder
			b.WriteString("\n[GROUP-BY SUMMARY]\n")
			for _, g := range groups {
				fmt.Fprintf(&b, "- %s (n=%d)\n", g.Key, g.Size)
				names := make([]string, 0, len(g.Metrics))
				for name := range g.Metrics {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					m := g.Metrics[name]
					fmt.Fprintf(&b, "  • %s: mean %.4g (min %.4g, max %.4g)\n", name, m.Mean, m.Min, m.Max)
				}
			}
			out += b.String()
		}

		if anaOutputPath != "" {
			if err := os.WriteFile(anaOutputPath, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "write the summary to a file instead of stdout")
	analyzeCmd.Flags().StringSliceVar(&anaGroupBy, "group-by", nil, "column names to aggregate by")
	rootCmd.AddCommand(analyzeCmd)
}

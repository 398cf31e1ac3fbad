package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/datasculpt/datasculpt/internal/dataset"
)

// Render produces a compact textual summary of the dataset: schema, stats,
// top correlation pairs, and a handful of sample rows. The output doubles as
// CLI display and as the metadata payload sent to the advisory collaborator.
func Render(d *dataset.Dataset, sampleRows int) string {
	if sampleRows <= 0 {
		sampleRows = 5
	}
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if d.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", d.Name)
	}
	fmt.Fprintf(&b, "Rows: %d\n", len(d.Rows))
	fmt.Fprintf(&b, "Columns: %d\n", len(d.Columns))
	if d.Stats.DroppedRows > 0 {
		fmt.Fprintf(&b, "Dropped rows: %d\n", d.Stats.DroppedRows)
	}
	b.WriteString("\n[SCHEMA]\n")
	for _, c := range d.Columns {
		total := c.PresentCount + c.MissingCount
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.MissingCount) * 100.0 / float64(total)
		}
		fmt.Fprintf(&b, "- %s: %s (non-null %d, missing %.1f%%, unique %d)", safeName(c.Name), c.Type, c.PresentCount, missPct, c.UniqueCount)
		if c.HasStats {
			fmt.Fprintf(&b, " — min %.4g, max %.4g, mean %.4g", c.Min, c.Max, c.Mean)
		}
		if len(c.Categories) > 0 {
			b.WriteString(" — e.g. ")
			for i, ex := range c.Categories {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(safeVal(ex))
			}
		}
		b.WriteString("\n")
	}

	if corr := Correlations(d); !corr.Empty() {
		type pr struct {
			A, B string
			R    float64
		}
		var pairs []pr
		n := len(corr.Columns)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				pairs = append(pairs, pr{A: corr.Columns[i], B: corr.Columns[j], R: corr.Values[i][j]})
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
			if ai == aj {
				return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
			}
			return ai > aj
		})
		if len(pairs) > 10 {
			pairs = pairs[:10]
		}
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range pairs {
			fmt.Fprintf(&b, "- %s ~ %s: r=%.3f\n", p.A, p.B, p.R)
		}
	}

	if len(d.Rows) > 0 {
		b.WriteString("\n[SAMPLE ROWS]\n")
		names := d.ColumnNames()
		b.WriteString("| " + strings.Join(mapStrings(names, safeName), " | ") + " |\n")
		lim := sampleRows
		if len(d.Rows) < lim {
			lim = len(d.Rows)
		}
		for _, r := range d.Rows[:lim] {
			cells := make([]string, len(names))
			for i, name := range names {
				s := r.Get(name).String()
				if rs := []rune(s); len(rs) > 80 {
					s = string(rs[:77]) + "..."
				}
				cells[i] = safeVal(s)
			}
			b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
	}
	return b.String()
}

func mapStrings(in []string, f func(string) string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = f(s)
	}
	return out
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}

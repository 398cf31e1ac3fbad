package cmd

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/datasculpt/datasculpt/internal/analysis"
	"github.com/datasculpt/datasculpt/internal/dataset"
)

// emitDataset writes the dataset as CSV to path, or prints a summary to
// stdout when path is empty.
func emitDataset(d *dataset.Dataset, path string) error {
	if path == "" {
		fmt.Print(analysis.Render(d, sampleRows()))
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	names := d.ColumnNames()
	if err := w.Write(names); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	cells := make([]string, len(names))
	for _, r := range d.Rows {
		for i, name := range names {
			v := r.Get(name)
			if v.IsMissing() {
				cells[i] = ""
			} else {
				cells[i] = v.String()
			}
		}
		if err := w.Write(cells); err != nil {
			return fmt.Errorf("write row %d: %w", r.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	fmt.Printf("✓ Wrote %d rows to %s\n", len(d.Rows), path)
	return nil
}

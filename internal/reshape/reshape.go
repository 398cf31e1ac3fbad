// Package reshape rewrites a dataset's structure: full transposition,
// row/column cropping, and promoting a data row to the header. Each operation
// returns a freshly analyzed successor dataset; out-of-range indices return
// the input unchanged rather than failing.
package reshape

import (
	"fmt"
	"strings"

	"github.com/datasculpt/datasculpt/internal/analysis"
	"github.com/datasculpt/datasculpt/internal/dataset"
)

// Transpose fully inverts rows and columns: the table is treated as a grid
// whose first row is the header, and the grid is transposed wholesale. The
// old header becomes the first output column's values and the old first
// column supplies the new header, so transposing twice reproduces the
// original cell values under the original schema. This is a complete
// structural rewrite, not a lazy view; new row identity is the original
// column position.
func Transpose(d *dataset.Dataset) *dataset.Dataset {
	names := d.ColumnNames()
	if len(names) == 0 {
		return d
	}

	// grid[0] is the header, grid[1+i] is row i
	grid := make([][]string, 1+len(d.Rows))
	grid[0] = names
	for i, r := range d.Rows {
		cells := make([]string, len(names))
		for j, name := range names {
			v := r.Get(name)
			if !v.IsMissing() {
				cells[j] = v.String()
			}
		}
		grid[1+i] = cells
	}

	header := make([]string, len(grid))
	for i, row := range grid {
		s := strings.TrimSpace(row[0])
		if s == "" {
			s = fmt.Sprintf("Column_%d", i+1)
		}
		header[i] = s
	}
	header = dataset.DedupeNames(header)

	rows := make([]dataset.Row, 0, len(names)-1)
	for j := 1; j < len(names); j++ {
		row := dataset.NewRow(j - 1)
		for i, g := range grid {
			row.Set(header[i], dataset.Parse(g[j]))
		}
		rows = append(rows, row)
	}

	out := d.Derive(rows, nil)
	out.Columns = analysis.Columns(rows)
	if len(rows) == 0 {
		// A one-column table transposes to a header-only table. The analyzer
		// derives metadata from rows, so the header must be carried explicitly
		// here or the second transpose has no schema to invert.
		cols := make([]dataset.Column, len(header))
		for i, name := range header {
			cols[i] = dataset.Column{Name: name, Type: dataset.TypeUnknown, IsActive: true}
		}
		out.Columns = cols
	}
	out.Stats.TotalCells = len(rows) * len(out.Columns)
	return out
}

// Crop slices rows inclusively between startRow and endRow, optionally
// projecting onto a column subset, and re-indexes row identifiers to a dense
// zero-based sequence. Bounds beyond the row range are clamped, not errors;
// startRow > endRow yields zero rows. Rows falling outside the slice are
// counted as dropped.
func Crop(d *dataset.Dataset, startRow, endRow int, keepColumns []string) *dataset.Dataset {
	n := len(d.Rows)
	if startRow < 0 {
		startRow = 0
	}
	if endRow >= n {
		endRow = n - 1
	}

	names := d.ColumnNames()
	if len(keepColumns) > 0 {
		keep := make(map[string]struct{}, len(keepColumns))
		for _, k := range keepColumns {
			keep[k] = struct{}{}
		}
		var filtered []string
		for _, name := range names {
			if _, ok := keep[name]; ok {
				filtered = append(filtered, name)
			}
		}
		names = filtered
	}

	var rows []dataset.Row
	if startRow <= endRow {
		rows = make([]dataset.Row, 0, endRow-startRow+1)
		for _, r := range d.Rows[startRow : endRow+1] {
			row := dataset.NewRow(len(rows))
			for _, name := range names {
				row.Set(name, r.Get(name))
			}
			rows = append(rows, row)
		}
	}

	out := d.Derive(rows, nil)
	out.Columns = analysis.Columns(rows)
	out.Stats.DroppedRows += n - len(rows)
	out.Stats.TotalCells = len(rows) * len(out.Columns)
	return out
}

// PromoteRowToHeader turns the indexed row's values into the column names
// (deduplicated) and discards every row up to and including that index,
// counting them as dropped. Remaining rows are remapped positionally, not by
// original column name; every earlier operation preserves column ordering so
// this contract holds. An out-of-range index returns the input unchanged.
func PromoteRowToHeader(d *dataset.Dataset, rowIndex int) *dataset.Dataset {
	if rowIndex < 0 || rowIndex >= len(d.Rows) {
		return d
	}
	oldNames := d.ColumnNames()
	promoted := d.Rows[rowIndex]
	header := make([]string, len(oldNames))
	for i, name := range oldNames {
		s := strings.TrimSpace(promoted.Get(name).String())
		if s == "" || promoted.Get(name).IsMissing() {
			s = fmt.Sprintf("Column_%d", i+1)
		}
		header[i] = s
	}
	header = dataset.DedupeNames(header)

	rows := make([]dataset.Row, 0, len(d.Rows)-rowIndex-1)
	for _, r := range d.Rows[rowIndex+1:] {
		row := dataset.NewRow(len(rows))
		for i, name := range header {
			row.Set(name, r.Get(oldNames[i]))
		}
		rows = append(rows, row)
	}

	out := d.Derive(rows, nil)
	out.Columns = analysis.Columns(rows)
	out.Stats.DroppedRows += rowIndex + 1
	out.Stats.TotalCells = len(rows) * len(out.Columns)
	return out
}

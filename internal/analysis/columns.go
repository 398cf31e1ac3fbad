// Package analysis infers per-column types and statistics from row sets and
// computes dataset-level summaries (correlations, group-by aggregates, text
// reports) over them.
package analysis

import (
	"time"

	"github.com/datasculpt/datasculpt/internal/dataset"
)

const categorySampleSize = 8

// Columns infers metadata for every column of the row set.
//
// The schema is derived from the first row's keys only: rows that carry extra
// keys keep their values, but those keys contribute no metadata. Widening the
// schema here would silently change missing counts for every column, so the
// edge is kept and documented rather than papered over. Ingestion always
// produces uniform keys; only hand-built row sets can reach it.
func Columns(rows []dataset.Row) []dataset.Column {
	if len(rows) == 0 {
		return nil
	}
	names := rows[0].Keys
	out := make([]dataset.Column, 0, len(names))
	for _, name := range names {
		out = append(out, analyzeColumn(name, rows))
	}
	return out
}

// analyzeColumn runs one explicit accumulation pass over the column. The type
// rule is all-or-nothing: number iff every present value is numeric, else date
// iff every present value parses as a date, else string.
func analyzeColumn(name string, rows []dataset.Row) dataset.Column {
	col := dataset.Column{Name: name, IsActive: true}

	allNumeric := true
	allDates := true
	var sum, min, max float64
	distinct := make(map[string]struct{})
	for _, r := range rows {
		v := r.Get(name)
		distinct[v.String()] = struct{}{}
		if v.IsMissing() {
			col.MissingCount++
			continue
		}
		col.PresentCount++
		if f, ok := v.Float(); ok {
			if col.PresentCount == 1 {
				min, max = f, f
			} else {
				if f < min {
					min = f
				}
				if f > max {
					max = f
				}
			}
			sum += f
		} else {
			allNumeric = false
		}
		if allDates {
			if _, ok := parseDate(v); !ok {
				allDates = false
			}
		}
		if len(col.Categories) < categorySampleSize && v.Kind == dataset.KindText {
			col.Categories = append(col.Categories, v.Str)
		}
	}
	col.UniqueCount = len(distinct)

	switch {
	case allNumeric && col.PresentCount > 0:
		col.Type = dataset.TypeNumber
		col.Min, col.Max, col.Mean = min, max, sum/float64(col.PresentCount)
		col.HasStats = true
		if max != min {
			col.ImportanceScore = float64(col.UniqueCount) / float64(len(rows))
		}
	case allDates && col.PresentCount > 0:
		col.Type = dataset.TypeDate
	case col.PresentCount > 0:
		col.Type = dataset.TypeString
	default:
		col.Type = dataset.TypeUnknown
	}
	return col
}

var dateLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
}

func parseDate(v dataset.Value) (time.Time, bool) {
	if v.Kind != dataset.KindText {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, v.Str); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Refresh re-analyzes a dataset's rows and returns the metadata set,
// preserving IsActive flags for columns that survive by name.
func Refresh(d *dataset.Dataset) []dataset.Column {
	prev := make(map[string]bool, len(d.Columns))
	for _, c := range d.Columns {
		prev[c.Name] = c.IsActive
	}
	cols := Columns(d.Rows)
	for i := range cols {
		if active, ok := prev[cols[i].Name]; ok {
			cols[i].IsActive = active
		}
	}
	return cols
}

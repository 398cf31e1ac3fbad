// Package join merges two datasets with a left-outer hash join.
package join

import (
	"fmt"

	"github.com/datasculpt/datasculpt/internal/analysis"
	"github.com/datasculpt/datasculpt/internal/dataset"
)

// KeyError indicates a join key column absent from one of the datasets.
type KeyError struct {
	Dataset string
	Column  string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("join: dataset %q has no key column %q", e.Dataset, e.Column)
}

// LeftOuter joins every primary row with the matching secondary row, indexed
// by stringified key value. Duplicate secondary keys resolve last-write-wins;
// a fan-out join would change row cardinality and is deliberately not what
// this engine does. Matched secondary non-key fields are merged in, with name
// collisions prefixed by the secondary dataset's display name. Unmatched
// primary rows pass through with the secondary fields simply absent.
func LeftOuter(primary, secondary *dataset.Dataset, primaryKey, secondaryKey string) (*dataset.Dataset, error) {
	if !primary.HasColumn(primaryKey) {
		return nil, &KeyError{Dataset: primary.Name, Column: primaryKey}
	}
	if !secondary.HasColumn(secondaryKey) {
		return nil, &KeyError{Dataset: secondary.Name, Column: secondaryKey}
	}

	index := make(map[string]dataset.Row, len(secondary.Rows))
	for _, r := range secondary.Rows {
		index[r.Get(secondaryKey).String()] = r
	}

	taken := make(map[string]struct{}, len(primary.Columns))
	for _, c := range primary.Columns {
		taken[c.Name] = struct{}{}
	}
	// merged name per secondary field, resolved once so all rows agree
	merged := make(map[string]string, len(secondary.Columns))
	for _, c := range secondary.Columns {
		if c.Name == secondaryKey {
			continue
		}
		name := c.Name
		if _, clash := taken[name]; clash {
			name = secondary.Name + "_" + name
		}
		merged[c.Name] = name
	}

	rows := make([]dataset.Row, 0, len(primary.Rows))
	for _, pr := range primary.Rows {
		row := pr.Clone()
		row.ID = len(rows)
		if sr, ok := index[pr.Get(primaryKey).String()]; ok {
			for _, key := range sr.Keys {
				out, want := merged[key]
				if !want {
					continue
				}
				row.Set(out, sr.Get(key))
			}
		}
		rows = append(rows, row)
	}

	out := dataset.New(primary.Name, primary.ID, rows, nil)
	out.Columns = analysis.Columns(rows)
	out.Stats = primary.Stats
	out.Stats.TotalCells = len(rows) * len(out.Columns)
	return out, nil
}

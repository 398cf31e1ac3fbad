// Package dataset defines the in-memory table value that flows through every
// stage of the engine: ordered rows of tagged scalar cells plus per-column
// metadata and a handful of monotonic counters. Datasets are never mutated in
// place; every operation derives a new value and the old one becomes garbage.
package dataset

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Row is an ordered mapping from column name to a scalar cell. Keys preserves
// insertion order; ID is unique within a Dataset only.
type Row struct {
	ID    int
	Keys  []string
	Cells map[string]Value
}

// NewRow returns an empty row with the given identity.
func NewRow(id int) Row {
	return Row{ID: id, Cells: make(map[string]Value)}
}

// Set appends the column on first write and overwrites the cell otherwise.
func (r *Row) Set(name string, v Value) {
	if _, ok := r.Cells[name]; !ok {
		r.Keys = append(r.Keys, name)
	}
	r.Cells[name] = v
}

// Get returns Missing for columns the row never saw.
func (r Row) Get(name string) Value {
	v, ok := r.Cells[name]
	if !ok {
		return Missing()
	}
	return v
}

// Clone copies the row so derived datasets can extend it safely.
func (r Row) Clone() Row {
	out := Row{ID: r.ID, Keys: make([]string, len(r.Keys)), Cells: make(map[string]Value, len(r.Cells))}
	copy(out.Keys, r.Keys)
	for k, v := range r.Cells {
		out.Cells[k] = v
	}
	return out
}

// ColumnType is the inferred type of a column.
type ColumnType string

const (
	TypeNumber  ColumnType = "number"
	TypeDate    ColumnType = "date"
	TypeString  ColumnType = "string"
	TypeUnknown ColumnType = "unknown"
)

// Column captures inferred type and summary statistics for one column.
// Min/Max/Mean are defined only when Type is number and PresentCount > 0.
type Column struct {
	Name            string
	Type            ColumnType
	MissingCount    int
	PresentCount    int
	UniqueCount     int
	Min             float64
	Max             float64
	Mean            float64
	HasStats        bool
	IsActive        bool
	ImportanceScore float64
	Categories      []string
}

// Stats carries monotonic dataset-level counters. Mutating operations only
// ever increase them; a fresh ingestion starts them over.
type Stats struct {
	OriginalRowCount int
	TotalCells       int
	ImputedCells     int
	DroppedRows      int
}

// Dataset is the immutable-by-convention table: identity, ordered rows,
// column metadata, counters, and an optional hierarchy definition (ordered
// column names defining nesting levels for grouping).
type Dataset struct {
	ID        string
	ParentID  string
	Name      string
	Rows      []Row
	Columns   []Column
	Stats     Stats
	CreatedAt time.Time
	Hierarchy []string
}

// New creates a dataset with fresh identity. Lineage via parentID is
// informational only.
func New(name, parentID string, rows []Row, cols []Column) *Dataset {
	ds := &Dataset{
		ID:        uuid.NewString(),
		ParentID:  parentID,
		Name:      name,
		Rows:      rows,
		Columns:   cols,
		CreatedAt: time.Now(),
	}
	ds.Stats.OriginalRowCount = len(rows)
	ds.Stats.TotalCells = len(rows) * len(cols)
	return ds
}

// Derive builds a successor dataset that keeps this dataset's name, carries
// its counters forward, and records lineage. Callers adjust rows, columns,
// and counters on the returned value before handing it out.
func (d *Dataset) Derive(rows []Row, cols []Column) *Dataset {
	out := &Dataset{
		ID:        uuid.NewString(),
		ParentID:  d.ID,
		Name:      d.Name,
		Rows:      rows,
		Columns:   cols,
		Stats:     d.Stats,
		CreatedAt: time.Now(),
		Hierarchy: append([]string(nil), d.Hierarchy...),
	}
	out.Stats.TotalCells = len(rows) * len(cols)
	return out
}

// ColumnNames returns the metadata column order, which is also the positional
// contract reshaping operations rely on.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex returns the metadata index of the named column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists in the metadata set.
func (d *Dataset) HasColumn(name string) bool { return d.ColumnIndex(name) >= 0 }

// ActiveNumericColumns returns the names of active columns of number type.
func (d *Dataset) ActiveNumericColumns() []string {
	var out []string
	for _, c := range d.Columns {
		if c.IsActive && c.Type == TypeNumber {
			out = append(out, c.Name)
		}
	}
	return out
}

// DedupeNames suffixes repeated names (Name, Name_2, ...) so column names
// stay unique within a dataset.
func DedupeNames(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		seen[n]++
		if seen[n] == 1 {
			out[i] = n
			continue
		}
		for {
			cand := fmt.Sprintf("%s_%d", n, seen[n])
			if _, taken := seen[cand]; !taken {
				seen[cand] = 1
				out[i] = cand
				break
			}
			seen[n]++
		}
	}
	return out
}

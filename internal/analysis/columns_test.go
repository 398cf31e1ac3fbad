package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datasculpt/datasculpt/internal/dataset"
)

func rowsFromCells(cells ...map[string]dataset.Value) []dataset.Row {
	keys := []string{}
	seen := map[string]bool{}
	for _, c := range cells {
		for k := range c {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	out := make([]dataset.Row, len(cells))
	for i, c := range cells {
		r := dataset.NewRow(i)
		for _, k := range keys {
			if v, ok := c[k]; ok {
				r.Set(k, v)
			} else {
				r.Set(k, dataset.Missing())
			}
		}
		out[i] = r
	}
	return out
}

func TestColumnsNumericWithMissing(t *testing.T) {
	rows := rowsFromCells(
		map[string]dataset.Value{"v": dataset.Number(1)},
		map[string]dataset.Value{"v": dataset.Number(2)},
		map[string]dataset.Value{"v": dataset.Missing()},
		map[string]dataset.Value{"v": dataset.Number(4)},
	)
	cols := Columns(rows)
	require.Len(t, cols, 1)
	c := cols[0]
	assert.Equal(t, dataset.TypeNumber, c.Type)
	assert.Equal(t, 1, c.MissingCount)
	assert.Equal(t, 3, c.PresentCount)
	assert.Equal(t, 4, c.UniqueCount) // the missing representation counts once
	assert.InDelta(t, 2.333, c.Mean, 0.001)
	assert.Equal(t, 1.0, c.Min)
	assert.Equal(t, 4.0, c.Max)
	assert.True(t, c.HasStats)
}

func TestColumnsStrictTypeRule(t *testing.T) {
	// one non-numeric value demotes the whole column to string
	rows := rowsFromCells(
		map[string]dataset.Value{"v": dataset.Number(1)},
		map[string]dataset.Value{"v": dataset.Text("two")},
	)
	cols := Columns(rows)
	require.Len(t, cols, 1)
	assert.Equal(t, dataset.TypeString, cols[0].Type)
	assert.False(t, cols[0].HasStats)
}

func TestColumnsDateDetection(t *testing.T) {
	rows := rowsFromCells(
		map[string]dataset.Value{"d": dataset.Text("2024-01-02")},
		map[string]dataset.Value{"d": dataset.Text("2024-03-04")},
		map[string]dataset.Value{"d": dataset.Missing()},
	)
	cols := Columns(rows)
	require.Len(t, cols, 1)
	assert.Equal(t, dataset.TypeDate, cols[0].Type)
}

func TestColumnsAllMissingIsUnknown(t *testing.T) {
	rows := rowsFromCells(
		map[string]dataset.Value{"v": dataset.Missing()},
		map[string]dataset.Value{"v": dataset.Missing()},
	)
	cols := Columns(rows)
	require.Len(t, cols, 1)
	assert.Equal(t, dataset.TypeUnknown, cols[0].Type)
	assert.Equal(t, 0.0, cols[0].ImportanceScore)
}

func TestColumnsSchemaFromFirstRowOnly(t *testing.T) {
	r0 := dataset.NewRow(0)
	r0.Set("a", dataset.Number(1))
	r1 := dataset.NewRow(1)
	r1.Set("a", dataset.Number(2))
	r1.Set("extra", dataset.Text("ignored by metadata"))

	cols := Columns([]dataset.Row{r0, r1})
	require.Len(t, cols, 1)
	assert.Equal(t, "a", cols[0].Name)
	// the value itself is still in the row
	assert.Equal(t, "ignored by metadata", r1.Get("extra").Str)
}

func TestColumnsImportanceScore(t *testing.T) {
	rows := rowsFromCells(
		map[string]dataset.Value{"v": dataset.Number(1), "k": dataset.Number(5)},
		map[string]dataset.Value{"v": dataset.Number(2), "k": dataset.Number(5)},
		map[string]dataset.Value{"v": dataset.Number(3), "k": dataset.Number(5)},
	)
	cols := Columns(rows)
	byName := map[string]dataset.Column{}
	for _, c := range cols {
		byName[c.Name] = c
	}
	assert.InDelta(t, 1.0, byName["v"].ImportanceScore, 1e-9)
	// constant column: max==min, score pinned to 0
	assert.Equal(t, 0.0, byName["k"].ImportanceScore)
}

// completeness identity: missing fraction plus completeness is 1
func TestMissingnessAccountsForEveryCell(t *testing.T) {
	rows := rowsFromCells(
		map[string]dataset.Value{"a": dataset.Number(1), "b": dataset.Missing()},
		map[string]dataset.Value{"a": dataset.Missing(), "b": dataset.Text("x")},
		map[string]dataset.Value{"a": dataset.Number(3), "b": dataset.Text("y")},
	)
	cols := Columns(rows)
	totalMissing := 0
	for _, c := range cols {
		assert.Equal(t, len(rows), c.MissingCount+c.PresentCount)
		totalMissing += c.MissingCount
	}
	completeness := 1 - float64(totalMissing)/float64(len(rows)*len(cols))
	assert.True(t, math.Abs(float64(totalMissing)/float64(len(rows)*len(cols))+completeness-1) < 1e-12)
}

func TestRefreshPreservesActiveFlags(t *testing.T) {
	rows := rowsFromCells(
		map[string]dataset.Value{"a": dataset.Number(1), "b": dataset.Number(2)},
	)
	d := dataset.New("t", "", rows, Columns(rows))
	d.Columns[1].IsActive = false

	cols := Refresh(d)
	require.Len(t, cols, 2)
	assert.True(t, cols[0].IsActive)
	assert.False(t, cols[1].IsActive)
}

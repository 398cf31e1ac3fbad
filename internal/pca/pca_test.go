package pca

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datasculpt/datasculpt/internal/dataset"
)

func numericRows(t *testing.T, cols []string, grid [][]float64) []dataset.Row {
	t.Helper()
	rows := make([]dataset.Row, len(grid))
	for i, rec := range grid {
		r := dataset.NewRow(i)
		for j, name := range cols {
			r.Set(name, dataset.Number(rec[j]))
		}
		rows[i] = r
	}
	return rows
}

func TestReduceTo2DCollinearData(t *testing.T) {
	// y = 2x: all variance lies on one axis, so the projection collapses
	// onto the first component and the second coordinate vanishes
	rows := numericRows(t, []string{"x", "y"}, [][]float64{
		{1, 2}, {2, 4}, {3, 6}, {4, 8}, {5, 10},
	})
	res := ReduceTo2D(rows, []string{"x", "y"})
	require.False(t, res.Empty())
	require.Len(t, res.Points, 5)

	for _, p := range res.Points {
		assert.InDelta(t, 0, p.Y, 1e-9)
	}
	// mean-centering puts the middle row at the origin
	assert.InDelta(t, 0, res.Points[2].X, 1e-9)
	assert.InDelta(t, -res.Points[0].X, res.Points[4].X, 1e-9)
}

func TestReduceTo2DPreservesRowIdentity(t *testing.T) {
	rows := numericRows(t, []string{"a", "b"}, [][]float64{{1, 9}, {4, 2}, {8, 7}})
	rows[1].ID = 41
	res := ReduceTo2D(rows, []string{"a", "b"})
	require.Len(t, res.Points, 3)
	assert.Equal(t, 41, res.Points[1].RowID)
}

func TestReduceTo2DEmptyCases(t *testing.T) {
	rows := numericRows(t, []string{"a", "b"}, [][]float64{{1, 2}})
	assert.True(t, ReduceTo2D(nil, []string{"a", "b"}).Empty())
	assert.True(t, ReduceTo2D(rows, []string{"a"}).Empty())
	assert.True(t, ReduceTo2D(rows, nil).Empty())
}

func TestReduceTo2DLoadingsSortedByMagnitude(t *testing.T) {
	rows := numericRows(t, []string{"wide", "narrow", "flat"}, [][]float64{
		{10, 1, 5}, {20, 2, 5}, {30, 1, 5}, {40, 2, 5}, {50, 1, 5},
	})
	res := ReduceTo2D(rows, []string{"wide", "narrow", "flat"})
	require.False(t, res.Empty())

	for axis := 0; axis < 2; axis++ {
		ls := res.Loadings[axis]
		require.Len(t, ls, 3)
		for i := 1; i < len(ls); i++ {
			assert.GreaterOrEqual(t,
				math.Abs(ls[i-1].Weight), math.Abs(ls[i].Weight))
		}
	}
	// the dominant-variance column drives the first axis
	assert.Equal(t, "wide", res.Loadings[0][0].Column)
}

func TestReduceTo2DCappedDownsamples(t *testing.T) {
	grid := make([][]float64, 100)
	for i := range grid {
		grid[i] = []float64{float64(i), float64(i % 7)}
	}
	rows := numericRows(t, []string{"a", "b"}, grid)
	res := ReduceTo2DCapped(rows, []string{"a", "b"}, 10)
	require.False(t, res.Empty())
	assert.LessOrEqual(t, len(res.Points), 10)
	// stride sampling keeps the first row
	assert.Equal(t, 0, res.Points[0].RowID)
}

func TestReduceTo2DNonNumericCellsDefaultToZero(t *testing.T) {
	rows := numericRows(t, []string{"a", "b"}, [][]float64{{1, 1}, {2, 2}, {3, 3}})
	rows[1].Cells["a"] = dataset.Text("oops")
	res := ReduceTo2D(rows, []string{"a", "b"})
	require.Len(t, res.Points, 3)
	for _, p := range res.Points {
		assert.False(t, math.IsNaN(p.X))
		assert.False(t, math.IsNaN(p.Y))
	}
}

func TestJacobiEigenDiagonalizesKnownMatrix(t *testing.T) {
	// eigenvalues of [[2,1],[1,2]] are 3 and 1
	m := [][]float64{{2, 1}, {1, 2}}
	vals, vecs := jacobiEigen(m)
	require.Len(t, vals, 2)

	lo, hi := vals[0], vals[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	assert.InDelta(t, 1.0, lo, 1e-9)
	assert.InDelta(t, 3.0, hi, 1e-9)

	// eigenvectors stay orthonormal
	for k := 0; k < 2; k++ {
		norm := vecs[0][k]*vecs[0][k] + vecs[1][k]*vecs[1][k]
		assert.InDelta(t, 1.0, norm, 1e-9)
	}
	dot := vecs[0][0]*vecs[0][1] + vecs[1][0]*vecs[1][1]
	assert.InDelta(t, 0.0, dot, 1e-9)
}

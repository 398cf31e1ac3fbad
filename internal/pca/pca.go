// Package pca reduces numeric columns of a row set to two dimensions via a
// covariance matrix and a self-contained Jacobi eigen-decomposition. An
// external linear-algebra dependency is deliberately avoided: the feature
// counts of tabular datasets are tens, not thousands, and the self-contained
// method is deterministic and portable.
package pca

import (
	"math"
	"sort"

	"github.com/datasculpt/datasculpt/internal/dataset"
)

// DefaultSampleCap bounds the rows fed into the decomposition. Larger row
// sets are thinned by fixed-stride subsampling, an accuracy/performance
// trade-off, not a statistical sample.
const DefaultSampleCap = 5000

// Point is one projected row. The original row identity is retained for
// downstream consumers such as tooltips.
type Point struct {
	RowID int
	X, Y  float64
}

// Loading is one feature's weight on a principal axis.
type Loading struct {
	Column string
	Weight float64
}

// Result carries the 2D projection and, per axis, the feature loadings
// sorted by descending absolute weight.
type Result struct {
	Points   []Point
	Loadings [2][]Loading
}

// Empty reports whether the reduction produced nothing to plot.
func (r *Result) Empty() bool { return r == nil || len(r.Points) == 0 }

// ReduceTo2D projects the selected numeric columns of the rows onto their top
// two principal components. Fewer than two columns (or no rows) is a routine
// state and yields an empty result, not an error. Cells that do not coerce to
// a number default to 0 — deliberately not mean-imputed.
func ReduceTo2D(rows []dataset.Row, numericColumns []string) *Result {
	return ReduceTo2DCapped(rows, numericColumns, DefaultSampleCap)
}

// ReduceTo2DCapped is ReduceTo2D with an explicit row cap.
func ReduceTo2DCapped(rows []dataset.Row, numericColumns []string, sampleCap int) *Result {
	k := len(numericColumns)
	if k < 2 || len(rows) == 0 {
		return &Result{}
	}
	rows = downsample(rows, sampleCap)
	n := len(rows)

	// coerce and mean-center
	data := make([][]float64, n)
	means := make([]float64, k)
	for i, r := range rows {
		v := make([]float64, k)
		for j, col := range numericColumns {
			v[j] = r.Get(col).FloatOrZero()
			means[j] += v[j]
		}
		data[i] = v
	}
	for j := range means {
		means[j] /= float64(n)
	}
	for _, v := range data {
		for j := range v {
			v[j] -= means[j]
		}
	}

	// feature x feature covariance by direct summation
	cov := make([][]float64, k)
	for i := range cov {
		cov[i] = make([]float64, k)
	}
	denom := float64(n - 1)
	if denom < 1 {
		denom = 1
	}
	for _, v := range data {
		for i := 0; i < k; i++ {
			for j := i; j < k; j++ {
				cov[i][j] += v[i] * v[j] / denom
			}
		}
	}
	for i := 0; i < k; i++ {
		for j := 0; j < i; j++ {
			cov[i][j] = cov[j][i]
		}
	}

	vals, vecs := jacobiEigen(cov)

	// rank eigenpairs by eigenvalue descending
	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return vals[order[a]] > vals[order[b]] })
	first, second := order[0], order[1]

	res := &Result{Points: make([]Point, n)}
	for i, v := range data {
		var x, y float64
		for j := 0; j < k; j++ {
			x += v[j] * vecs[j][first]
			y += v[j] * vecs[j][second]
		}
		res.Points[i] = Point{RowID: rows[i].ID, X: x, Y: y}
	}
	res.Loadings[0] = loadings(numericColumns, vecs, first)
	res.Loadings[1] = loadings(numericColumns, vecs, second)
	return res
}

// loadings lists the axis eigenvector's per-feature weights, sorted by
// descending absolute value so callers can explain which columns drive the
// axis.
func loadings(columns []string, vecs [][]float64, axis int) []Loading {
	out := make([]Loading, len(columns))
	for i, col := range columns {
		out[i] = Loading{Column: col, Weight: vecs[i][axis]}
	}
	sort.Slice(out, func(a, b int) bool {
		return math.Abs(out[a].Weight) > math.Abs(out[b].Weight)
	})
	return out
}

// downsample thins rows by fixed stride: step = ceil(n / cap).
func downsample(rows []dataset.Row, sampleCap int) []dataset.Row {
	if sampleCap <= 0 || len(rows) <= sampleCap {
		return rows
	}
	step := (len(rows) + sampleCap - 1) / sampleCap
	out := make([]dataset.Row, 0, sampleCap)
	for i := 0; i < len(rows); i += step {
		out = append(out, rows[i])
	}
	return out
}

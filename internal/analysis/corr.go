package analysis

import (
	"math"

	"github.com/datasculpt/datasculpt/internal/dataset"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across the named
// columns. Values is row-major with a unit diagonal.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64
}

// Empty reports whether the matrix carries no usable pairs.
func (m *CorrMatrix) Empty() bool { return m == nil || len(m.Columns) < 2 }

// Correlations computes pairwise Pearson coefficients over the dataset's
// active numeric columns. Fewer than two such columns is a routine state
// during exploration, so the result is simply empty, never an error. A pair
// involving a zero-variance column is defined as 0 to keep NaN and Inf out of
// downstream display layers.
func Correlations(d *dataset.Dataset) *CorrMatrix {
	names := d.ActiveNumericColumns()
	if len(names) < 2 {
		return &CorrMatrix{}
	}

	type acc struct {
		n, sumX, sumY, sumXX, sumYY, sumXY float64
	}
	k := len(names)
	pairs := make([]acc, k*k)
	for _, r := range d.Rows {
		for i := 0; i < k; i++ {
			x := r.Get(names[i]).FloatOrZero()
			for j := 0; j < i; j++ {
				y := r.Get(names[j]).FloatOrZero()
				pa := &pairs[i*k+j]
				pa.n++
				pa.sumX += x
				pa.sumY += y
				pa.sumXX += x * x
				pa.sumYY += y * y
				pa.sumXY += x * y
			}
		}
	}

	mat := make([][]float64, k)
	for i := range mat {
		mat[i] = make([]float64, k)
		mat[i][i] = 1
	}
	for i := 0; i < k; i++ {
		for j := 0; j < i; j++ {
			pa := pairs[i*k+j]
			var r float64
			denom := math.Sqrt((pa.n*pa.sumXX - pa.sumX*pa.sumX) * (pa.n*pa.sumYY - pa.sumY*pa.sumY))
			if denom != 0 {
				r = (pa.n*pa.sumXY - pa.sumX*pa.sumY) / denom
			}
			if r > 1 {
				r = 1
			} else if r < -1 {
				r = -1
			}
			if math.IsNaN(r) || math.IsInf(r, 0) {
				r = 0
			}
			mat[i][j] = r
			mat[j][i] = r
		}
	}
	return &CorrMatrix{Columns: names, Values: mat}
}

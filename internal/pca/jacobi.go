package pca

import "math"

const (
	offDiagonalThreshold = 1e-9
	maxRotations         = 100
)

// jacobiEigen diagonalizes a symmetric matrix with the classical Jacobi
// rotation method: repeatedly annihilate the largest-magnitude off-diagonal
// entry and accumulate the rotations into an eigenvector matrix. Iteration
// stops when the largest remaining off-diagonal magnitude drops below the
// threshold or after a fixed rotation budget, whichever comes first; the
// budget bounds worst-case cost independent of convergence.
//
// Returns eigenvalues and the eigenvector matrix with eigenvectors as
// columns (vecs[i][k] is component i of eigenvector k). The input matrix is
// consumed as scratch space.
func jacobiEigen(a [][]float64) (vals []float64, vecs [][]float64) {
	n := len(a)
	vecs = identity(n)
	if n == 0 {
		return nil, vecs
	}

	budget := maxRotations * n * n
	for iter := 0; iter < budget; iter++ {
		p, q, off := largestOffDiagonal(a)
		if off < offDiagonalThreshold {
			break
		}
		rotate(a, vecs, p, q)
	}

	vals = make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = a[i][i]
	}
	return vals, vecs
}

func identity(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	return m
}

func largestOffDiagonal(a [][]float64) (p, q int, off float64) {
	n := len(a)
	p, q = 0, 1
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if m := math.Abs(a[i][j]); m > off {
				p, q, off = i, j, m
			}
		}
	}
	return p, q, off
}

// rotate applies the plane rotation that zeroes a[p][q], updating both the
// matrix and the accumulated eigenvectors.
func rotate(a, vecs [][]float64, p, q int) {
	n := len(a)
	apq := a[p][q]
	if apq == 0 {
		return
	}
	theta := (a[q][q] - a[p][p]) / (2 * apq)
	// stable tangent of the rotation angle
	t := 1 / (math.Abs(theta) + math.Sqrt(theta*theta+1))
	if theta < 0 {
		t = -t
	}
	c := 1 / math.Sqrt(t*t+1)
	s := t * c

	app, aqq := a[p][p], a[q][q]
	a[p][p] = c*c*app - 2*s*c*apq + s*s*aqq
	a[q][q] = s*s*app + 2*s*c*apq + c*c*aqq
	a[p][q] = 0
	a[q][p] = 0
	for i := 0; i < n; i++ {
		if i == p || i == q {
			continue
		}
		aip, aiq := a[i][p], a[i][q]
		a[i][p] = c*aip - s*aiq
		a[p][i] = a[i][p]
		a[i][q] = c*aiq + s*aip
		a[q][i] = a[i][q]
	}
	for i := 0; i < n; i++ {
		vip, viq := vecs[i][p], vecs[i][q]
		vecs[i][p] = c*vip - s*viq
		vecs[i][q] = c*viq + s*vip
	}
}

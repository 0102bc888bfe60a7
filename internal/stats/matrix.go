// Package stats implements ordinary-least-squares regression over dataset
// columns, plus the descriptive statistics used by the shell (describe,
// summarize, tabulate).
package stats

import (
	"github.com/tabula/tabula/internal/errors"
)

// Matrix is a dense row-major matrix of float64 values.
type Matrix struct {
	data [][]float64
}

// NewMatrix wraps row-major data. All rows must have equal length.
func NewMatrix(data [][]float64) *Matrix {
	return &Matrix{data: data}
}

// Zeros creates an r×c zero matrix.
func Zeros(r, c int) *Matrix {
	data := make([][]float64, r)
	for i := range data {
		data[i] = make([]float64, c)
	}
	return &Matrix{data: data}
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return len(m.data) }

// Cols returns the column count.
func (m *Matrix) Cols() int {
	if len(m.data) == 0 {
		return 0
	}
	return len(m.data[0])
}

// At returns the element at row i, column j.
func (m *Matrix) At(i, j int) float64 { return m.data[i][j] }

// Col returns column j as a slice.
func (m *Matrix) Col(j int) []float64 {
	out := make([]float64, m.Rows())
	for i := range m.data {
		out[i] = m.data[i][j]
	}
	return out
}

// T returns the transpose.
func (m *Matrix) T() *Matrix {
	t := Zeros(m.Cols(), m.Rows())
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			t.data[j][i] = m.data[i][j]
		}
	}
	return t
}

// Mul returns the matrix product m·other.
func (m *Matrix) Mul(other *Matrix) (*Matrix, error) {
	if m.Cols() != other.Rows() {
		return nil, errors.Newf(errors.ErrCategoryStats, errors.CodeInvalidArgument,
			"incompatible shapes %dx%d and %dx%d for multiplication",
			m.Rows(), m.Cols(), other.Rows(), other.Cols())
	}
	out := Zeros(m.Rows(), other.Cols())
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < other.Cols(); j++ {
			sum := 0.0
			for k := 0; k < m.Cols(); k++ {
				sum += m.data[i][k] * other.data[k][j]
			}
			out.data[i][j] = sum
		}
	}
	return out, nil
}

// Inverse inverts a square matrix by Gauss-Jordan elimination, swapping in
// a lower row when a pivot is zero. A column with no non-zero pivot means
// the matrix is singular.
func (m *Matrix) Inverse() (*Matrix, error) {
	if m.Rows() != m.Cols() {
		return nil, errors.Newf(errors.ErrCategoryStats, errors.CodeInvalidArgument,
			"matrix must be square for inversion, got %dx%d", m.Rows(), m.Cols())
	}
	n := m.Rows()

	// Augment with the identity.
	aug := make([][]float64, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]float64, 2*n)
		copy(aug[i], m.data[i])
		aug[i][n+i] = 1
	}

	for i := 0; i < n; i++ {
		if aug[i][i] == 0 {
			swapped := false
			for j := i + 1; j < n; j++ {
				if aug[j][i] != 0 {
					aug[i], aug[j] = aug[j], aug[i]
					swapped = true
					break
				}
			}
			if !swapped {
				return nil, errors.New(errors.ErrCategoryStats, errors.CodeSingularMatrix,
					"matrix is singular")
			}
		}
		pivot := aug[i][i]
		for k := range aug[i] {
			aug[i][k] /= pivot
		}
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			factor := aug[j][i]
			if factor == 0 {
				continue
			}
			for k := range aug[j] {
				aug[j][k] -= factor * aug[i][k]
			}
		}
	}

	inv := Zeros(n, n)
	for i := 0; i < n; i++ {
		copy(inv.data[i], aug[i][n:])
	}
	return inv, nil
}

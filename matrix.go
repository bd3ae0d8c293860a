package pfsoln

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Operator is a read-only complex linear operator. The admittance
// matrices Ybus, Yf and Yt are consumed through this interface, so
// callers may supply the sparse Matrix or the gonum-backed
// DenseOperator interchangeably.
type Operator interface {
	Dims() (rows, cols int)

	// MulVec returns the product with v. v must have cols entries.
	MulVec(v []complex128) []complex128

	// RowDot returns the plain (unconjugated) dot product of row i
	// with v. v must have cols entries.
	RowDot(i int, v []complex128) complex128
}

type entry struct {
	row int
	col int
	val complex128
}

// Matrix is a compressed sparse row complex matrix assembled from
// (row, col, value) entries. Entries at the same position accumulate,
// so admittance stamps can be added term by term. Zero rows are
// allowed; a branch operator of an empty branch table has none.
type Matrix struct {
	rows int
	cols int

	entries []entry

	rowStart []int
	colIndex []int
	values   []complex128

	assembled bool
}

func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("invalid dimensions: %dx%d", rows, cols)
	}

	return &Matrix{rows: rows, cols: cols}, nil
}

func (m *Matrix) Dims() (rows, cols int) {
	return m.rows, m.cols
}

// Add accumulates v onto the entry at (i, j).
func (m *Matrix) Add(i, j int, v complex128) error {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return fmt.Errorf("entry (%d,%d) outside %dx%d matrix", i, j, m.rows, m.cols)
	}

	m.entries = append(m.entries, entry{row: i, col: j, val: v})
	m.assembled = false
	return nil
}

// Get returns the accumulated value at (i, j), zero when absent.
func (m *Matrix) Get(i, j int) complex128 {
	m.assemble()

	for k := m.rowStart[i]; k < m.rowStart[i+1]; k++ {
		if m.colIndex[k] == j {
			return m.values[k]
		}
	}
	return 0
}

func (m *Matrix) MulVec(v []complex128) []complex128 {
	m.assemble()

	product := make([]complex128, m.rows)
	for i := 0; i < m.rows; i++ {
		var acc complex128
		for k := m.rowStart[i]; k < m.rowStart[i+1]; k++ {
			acc += m.values[k] * v[m.colIndex[k]]
		}
		product[i] = acc
	}
	return product
}

func (m *Matrix) RowDot(i int, v []complex128) complex128 {
	m.assemble()

	var acc complex128
	for k := m.rowStart[i]; k < m.rowStart[i+1]; k++ {
		acc += m.values[k] * v[m.colIndex[k]]
	}
	return acc
}

// assemble sorts the pending entries, merges duplicates and builds the
// row-compressed form. Cheap no-op once built.
func (m *Matrix) assemble() {
	if m.assembled {
		return
	}

	slices.SortFunc(m.entries, func(a, b entry) int {
		if a.row != b.row {
			return a.row - b.row
		}
		return a.col - b.col
	})

	m.colIndex = m.colIndex[:0]
	m.values = m.values[:0]
	m.rowStart = make([]int, m.rows+1)

	row := 0
	for _, e := range m.entries {
		n := len(m.values)
		if n > 0 && row == e.row && m.colIndex[n-1] == e.col {
			m.values[n-1] += e.val
			continue
		}
		for row < e.row {
			row++
			m.rowStart[row] = n
		}
		m.colIndex = append(m.colIndex, e.col)
		m.values = append(m.values, e.val)
	}
	for row < m.rows {
		row++
		m.rowStart[row] = len(m.values)
	}

	m.assembled = true
}

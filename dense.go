package pfsoln

import "gonum.org/v1/gonum/mat"

// DenseOperator adapts a gonum CDense to the Operator interface. For
// small systems and tests a dense admittance matrix is less noise than
// triplet assembly.
type DenseOperator struct {
	m *mat.CDense
}

// NewDenseOperator builds an operator over a rows×cols matrix stored in
// row-major data. A nil data slice gives the zero matrix.
func NewDenseOperator(rows, cols int, data []complex128) *DenseOperator {
	return &DenseOperator{m: mat.NewCDense(rows, cols, data)}
}

// DenseOf wraps an existing CDense without copying.
func DenseOf(m *mat.CDense) *DenseOperator {
	return &DenseOperator{m: m}
}

func (d *DenseOperator) Dims() (rows, cols int) {
	return d.m.Dims()
}

func (d *DenseOperator) MulVec(v []complex128) []complex128 {
	rows, _ := d.m.Dims()

	product := make([]complex128, rows)
	for i := range product {
		product[i] = d.RowDot(i, v)
	}
	return product
}

func (d *DenseOperator) RowDot(i int, v []complex128) complex128 {
	_, cols := d.m.Dims()

	var acc complex128
	for j := 0; j < cols; j++ {
		acc += d.m.At(i, j) * v[j]
	}
	return acc
}

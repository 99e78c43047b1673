package dataset

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Normalize scales every column of m to [0, 1] by its own min and max.
// Constant columns map to 0.
func Normalize(m *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, m)
		lo, hi := floats.Min(col), floats.Max(col)
		span := hi - lo
		if span == 0 {
			continue
		}
		floats.AddConst(-lo, col)
		floats.Scale(1/span, col)
		out.SetCol(j, col)
	}
	return out
}

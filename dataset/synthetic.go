package dataset

import (
	"math/rand/v2"

	"github.com/tsawler/go-mvcl/errkind"
	"gonum.org/v1/gonum/mat"
)

// Synthetic generates n class-clustered samples with the view dimensions of
// kind. Each class owns a random center per view; samples are the center plus
// Gaussian noise. The same seed always yields the same data.
func Synthetic(kind Kind, n, classes int, seed uint64) (*Views, error) {
	if n < 1 {
		return nil, errkind.Configurationf("synthetic dataset needs at least one sample, got %d", n)
	}
	if classes < 1 {
		return nil, errkind.Configurationf("synthetic dataset needs at least one class, got %d", classes)
	}
	da, db := kind.Dims()
	if da == 0 {
		return nil, errkind.Configurationf("unsupported dataset kind %d", int(kind))
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	centersA := randomCenters(rng, classes, da)
	centersB := randomCenters(rng, classes, db)

	labels := make([]int, n)
	a := mat.NewDense(n, da, nil)
	b := mat.NewDense(n, db, nil)
	for i := 0; i < n; i++ {
		c := i % classes
		labels[i] = c
		fillSample(rng, a.RawRowView(i), centersA[c])
		fillSample(rng, b.RawRowView(i), centersB[c])
	}

	if kind == ReutersDim10 {
		a, b = Normalize(a), Normalize(b)
	}
	return NewViews(a, b, labels)
}

func randomCenters(rng *rand.Rand, classes, dim int) [][]float64 {
	centers := make([][]float64, classes)
	for c := range centers {
		centers[c] = make([]float64, dim)
		for j := range centers[c] {
			centers[c][j] = rng.NormFloat64() * 3
		}
	}
	return centers
}

func fillSample(rng *rand.Rand, row, center []float64) {
	for j := range row {
		row[j] = center[j] + rng.NormFloat64()
	}
}

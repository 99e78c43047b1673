package distance

import (
	"math"
	"math/rand/v2"

	"github.com/cockroachdb/errors"
	"github.com/tsawler/go-mvcl/errkind"
	"github.com/tsawler/go-mvcl/training"
	"gonum.org/v1/gonum/mat"
)

// RandomProjection embeds each view with its own fixed Gaussian projection
// followed by tanh. It stands in for a trained two-view encoder when
// exercising adaptive rounds without a model.
type RandomProjection struct {
	WA *mat.Dense // dimA × width
	WB *mat.Dense // dimB × width
}

// NewRandomProjection draws projection weights for views of width dimA and
// dimB into a shared space of the given width.
func NewRandomProjection(dimA, dimB, width int, seed uint64) (*RandomProjection, error) {
	if dimA < 1 || dimB < 1 || width < 1 {
		return nil, errkind.Configurationf("projection dimensions must be positive, got %d, %d -> %d", dimA, dimB, width)
	}
	rng := rand.New(rand.NewPCG(seed, 0x2545f4914f6cdd1d))
	return &RandomProjection{
		WA: gaussian(rng, dimA, width),
		WB: gaussian(rng, dimB, width),
	}, nil
}

func gaussian(rng *rand.Rand, rows, cols int) *mat.Dense {
	scale := 1 / math.Sqrt(float64(rows))
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.NormFloat64() * scale
	}
	return mat.NewDense(rows, cols, data)
}

// Embed implements Embedder.
func (p *RandomProjection) Embed(batch *training.Batch) (*mat.Dense, *mat.Dense, error) {
	a, err := BatchMatrix(batch.A)
	if err != nil {
		return nil, nil, errors.Wrap(err, "view A")
	}
	b, err := BatchMatrix(batch.B)
	if err != nil {
		return nil, nil, errors.Wrap(err, "view B")
	}
	h0, err := project(a, p.WA)
	if err != nil {
		return nil, nil, errors.Wrap(err, "view A")
	}
	h1, err := project(b, p.WB)
	if err != nil {
		return nil, nil, errors.Wrap(err, "view B")
	}
	return h0, h1, nil
}

func project(x, w *mat.Dense) (*mat.Dense, error) {
	_, c := x.Dims()
	r, _ := w.Dims()
	if c != r {
		return nil, errkind.Shapef("features have %d columns, projection expects %d", c, r)
	}
	var h mat.Dense
	h.Mul(x, w)
	h.Apply(func(_, _ int, v float64) float64 { return math.Tanh(v) }, &h)
	return &h, nil
}

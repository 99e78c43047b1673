// Package distance turns model embeddings of the training pairs into the
// per-anchor sampling distribution used by adaptive negative sampling.
package distance

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/tsawler/go-mvcl/errkind"
	"github.com/tsawler/go-mvcl/tensor"
	"github.com/tsawler/go-mvcl/training"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Embedder maps a batch of pairs to one embedding row per pair for each view.
// Both returned matrices must have batch.Size() rows and the same width.
type Embedder interface {
	Embed(batch *training.Batch) (h0, h1 *mat.Dense, err error)
}

type options struct {
	favorNear bool
}

// Option configures Compute.
type Option func(*options)

// FavorNear applies the softmax to negated distances, so anchors sample
// partners that sit close to them in embedding space more often.
func FavorNear(on bool) Option {
	return func(o *options) {
		o.favorNear = on
	}
}

// Compute embeds every pair of probe in loader order and returns the
// row-softmaxed Euclidean distance matrix between view-A and view-B
// embeddings. The probe loader must not shuffle or drop batches, row j of the
// result is the distribution of training sample j.
func Compute(emb Embedder, probe *training.DataLoader, opts ...Option) (*mat.Dense, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if emb == nil || probe == nil {
		return nil, errkind.Shapef("distance computation needs an embedder and a probe loader")
	}
	if cfg := probe.Config(); cfg.Shuffle || cfg.DropLast {
		return nil, errkind.Configurationf("probe loader must keep source order and every batch")
	}

	var h0, h1 []*mat.Dense
	for batch, err := range probe.All() {
		if err != nil {
			return nil, errors.Wrap(err, "probe batch")
		}
		a, b, err := emb.Embed(batch)
		if err != nil {
			return nil, errors.Wrapf(err, "embed batch of %d", batch.Size())
		}
		ra, ca := a.Dims()
		rb, cb := b.Dims()
		if ra != batch.Size() || rb != batch.Size() || ca != cb {
			return nil, errkind.Shapef("embedder returned %dx%d and %dx%d for a batch of %d", ra, ca, rb, cb, batch.Size())
		}
		h0 = append(h0, a)
		h1 = append(h1, b)
	}
	if len(h0) == 0 {
		return nil, errkind.Shapef("probe loader produced no batches")
	}

	d := Euclidean(stack(h0), stack(h1))
	if o.favorNear {
		d.Scale(-1, d)
	}
	return RowSoftmax(d), nil
}

func stack(parts []*mat.Dense) *mat.Dense {
	out := parts[0]
	for _, p := range parts[1:] {
		var next mat.Dense
		next.Stack(out, p)
		out = &next
	}
	return out
}

// Euclidean returns the matrix of distances between every row of h0 and every
// row of h1.
func Euclidean(h0, h1 mat.Matrix) *mat.Dense {
	r0, _ := h0.Dims()
	r1, _ := h1.Dims()
	a := mat.DenseCopyOf(h0)
	b := mat.DenseCopyOf(h1)

	d := mat.NewDense(r0, r1, nil)
	for i := 0; i < r0; i++ {
		row := a.RawRowView(i)
		for j := 0; j < r1; j++ {
			d.Set(i, j, floats.Distance(row, b.RawRowView(j), 2))
		}
	}
	return d
}

// RowSoftmax returns the softmax of every row of m. The row maximum is
// subtracted before exponentiation, so every row sums to 1 for any finite
// input.
func RowSoftmax(m mat.Matrix) *mat.Dense {
	out := mat.DenseCopyOf(m)
	r, _ := out.Dims()
	for i := 0; i < r; i++ {
		row := out.RawRowView(i)
		peak := floats.Max(row)
		for j, v := range row {
			row[j] = math.Exp(v - peak)
		}
		floats.Scale(1/floats.Sum(row), row)
	}
	return out
}

// BatchMatrix flattens a stacked [n, 1, dim] feature tensor into an n×dim
// matrix.
func BatchMatrix(t *tensor.Tensor) (*mat.Dense, error) {
	if t == nil || t.Dim() < 2 {
		return nil, errkind.Shapef("expected a stacked feature tensor")
	}
	flat, err := t.Reshape([]int{t.Shape[0], -1})
	if err != nil {
		return nil, err
	}
	data, err := flat.Float32Data()
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(flat.Shape[0], flat.Shape[1], nil)
	raw := out.RawMatrix().Data
	for i, v := range data {
		raw[i] = float64(v)
	}
	return out, nil
}

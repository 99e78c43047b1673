package distance

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsawler/go-mvcl/dataset"
	"github.com/tsawler/go-mvcl/errkind"
	"github.com/tsawler/go-mvcl/pairing"
	"github.com/tsawler/go-mvcl/tensor"
	"github.com/tsawler/go-mvcl/training"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// identity embeds each view as its raw features.
type identity struct{}

func (identity) Embed(b *training.Batch) (*mat.Dense, *mat.Dense, error) {
	a, err := BatchMatrix(b.A)
	if err != nil {
		return nil, nil, err
	}
	bb, err := BatchMatrix(b.B)
	if err != nil {
		return nil, nil, err
	}
	return a, bb, nil
}

func lineViews(t *testing.T) *dataset.Views {
	t.Helper()
	x := mat.NewDense(3, 1, []float64{0, 1, 3})
	v, err := dataset.NewViews(x, mat.DenseCopyOf(x), []int{0, 1, 1})
	require.NoError(t, err)
	return v
}

func probe(t *testing.T, v *dataset.Views, batch int) *training.DataLoader {
	t.Helper()
	view, err := training.NewProbeView(v)
	require.NoError(t, err)
	dl, err := training.NewDataLoader(view, training.ProbeConfig(batch))
	require.NoError(t, err)
	return dl
}

func TestEuclidean(t *testing.T) {
	h0 := mat.NewDense(2, 2, []float64{0, 0, 3, 4})
	h1 := mat.NewDense(3, 2, []float64{0, 0, 3, 4, 6, 8})
	d := Euclidean(h0, h1)

	r, c := d.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.InDelta(t, 0, d.At(0, 0), 1e-12)
	assert.InDelta(t, 5, d.At(0, 1), 1e-12)
	assert.InDelta(t, 10, d.At(0, 2), 1e-12)
	assert.InDelta(t, 5, d.At(1, 0), 1e-12)
	assert.InDelta(t, 5, d.At(1, 2), 1e-12)
}

func TestRowSoftmax(t *testing.T) {
	t.Run("rows sum to one", func(t *testing.T) {
		m := mat.NewDense(2, 3, []float64{0, 1, 2, 1000, 1001, 999})
		s := RowSoftmax(m)
		for i := 0; i < 2; i++ {
			row := s.RawRowView(i)
			assert.InDelta(t, 1, floats.Sum(row), 1e-12)
			for _, v := range row {
				assert.False(t, math.IsNaN(v))
			}
		}
		assert.Greater(t, s.At(0, 2), s.At(0, 1))
		assert.Greater(t, s.At(1, 1), s.At(1, 0))
	})

	t.Run("input untouched", func(t *testing.T) {
		m := mat.NewDense(1, 2, []float64{1, 2})
		RowSoftmax(m)
		assert.Equal(t, []float64{1, 2}, m.RawRowView(0))
	})

	t.Run("uniform row", func(t *testing.T) {
		s := RowSoftmax(mat.NewDense(1, 4, []float64{3, 3, 3, 3}))
		for _, v := range s.RawRowView(0) {
			assert.InDelta(t, 0.25, v, 1e-12)
		}
	})
}

func TestCompute(t *testing.T) {
	t.Run("favors distant partners by default", func(t *testing.T) {
		d, err := Compute(identity{}, probe(t, lineViews(t), 2))
		require.NoError(t, err)
		require.NoError(t, pairing.CheckDistribution(d, 3))

		// Row 0 is at 0, partners at 0, 1, 3.
		assert.Greater(t, d.At(0, 2), d.At(0, 1))
		assert.Greater(t, d.At(0, 1), d.At(0, 0))
		want := RowSoftmax(mat.NewDense(1, 3, []float64{0, 1, 3}))
		assert.InDeltaSlice(t, want.RawRowView(0), d.RawRowView(0), 1e-6)
	})

	t.Run("favor near", func(t *testing.T) {
		d, err := Compute(identity{}, probe(t, lineViews(t), 1), FavorNear(true))
		require.NoError(t, err)
		require.NoError(t, pairing.CheckDistribution(d, 3))
		assert.Greater(t, d.At(0, 0), d.At(0, 1))
		assert.Greater(t, d.At(2, 2), d.At(2, 0))
	})

	t.Run("batch size does not change the result", func(t *testing.T) {
		v, err := dataset.Synthetic(dataset.Scene15, 10, 3, 5)
		require.NoError(t, err)
		emb, err := NewRandomProjection(20, 59, 8, 1)
		require.NoError(t, err)

		d1, err := Compute(emb, probe(t, v, 3))
		require.NoError(t, err)
		d2, err := Compute(emb, probe(t, v, 10))
		require.NoError(t, err)
		assert.True(t, mat.EqualApprox(d1, d2, 1e-9))
		require.NoError(t, pairing.CheckDistribution(d1, 10))
	})

	t.Run("rejects shuffling probe", func(t *testing.T) {
		view, err := training.NewProbeView(lineViews(t))
		require.NoError(t, err)
		dl, err := training.NewDataLoader(view, training.EvalConfig(2, true, 1))
		require.NoError(t, err)
		_, err = Compute(identity{}, dl)
		assert.True(t, errors.Is(err, errkind.ErrConfiguration))
	})

	t.Run("rejects bad embeddings", func(t *testing.T) {
		emb, err := NewRandomProjection(2, 1, 4, 1)
		require.NoError(t, err)
		_, err = Compute(emb, probe(t, lineViews(t), 3))
		assert.True(t, errors.Is(err, errkind.ErrShape))
	})
}

func TestRandomProjection(t *testing.T) {
	_, err := NewRandomProjection(0, 3, 2, 1)
	assert.True(t, errors.Is(err, errkind.ErrConfiguration))

	p1, err := NewRandomProjection(4, 3, 2, 9)
	require.NoError(t, err)
	p2, err := NewRandomProjection(4, 3, 2, 9)
	require.NoError(t, err)
	assert.True(t, mat.Equal(p1.WA, p2.WA))
	assert.True(t, mat.Equal(p1.WB, p2.WB))
}

func TestBatchMatrix(t *testing.T) {
	a, err := tensor.ColumnVector([]float64{1, 2, 3})
	require.NoError(t, err)
	b, err := tensor.ColumnVector([]float64{4, 5, 6})
	require.NoError(t, err)
	batch, err := tensor.Stack([]*tensor.Tensor{a, b})
	require.NoError(t, err)

	m, err := BatchMatrix(batch)
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, []float64{4, 5, 6}, m.RawRowView(1))
	assert.Equal(t, []int{2, 1, 3}, batch.Shape)

	labels, err := tensor.Labels([]int64{0, 1})
	require.NoError(t, err)
	_, err = BatchMatrix(labels)
	assert.Error(t, err)
}

package metrics

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsawler/go-mvcl/dataset"
	"github.com/tsawler/go-mvcl/errkind"
	"github.com/tsawler/go-mvcl/pairing"
	"gonum.org/v1/gonum/mat"
)

func TestNoiseOf(t *testing.T) {
	t.Run("fraction of noisy negatives", func(t *testing.T) {
		labels := []int{1, 1, 0, 0, 0, 0}
		truth := []int{1, 1, 1, 0, 1, 0}
		r, err := NoiseOf(labels, truth, 2)
		require.NoError(t, err)
		assert.Equal(t, 4, r.Negatives)
		assert.Equal(t, 2, r.Noisy)
		assert.Equal(t, 0.5, r.Rate)
		assert.Contains(t, r.String(), "0.5000")
	})

	t.Run("no negatives is a defined zero", func(t *testing.T) {
		r, err := NoiseOf([]int{1, 1, 1}, []int{1, 1, 1}, 3)
		require.NoError(t, err)
		assert.Equal(t, 0, r.Negatives)
		assert.Equal(t, 0.0, r.Rate)
	})

	t.Run("empty input", func(t *testing.T) {
		r, err := NoiseOf(nil, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, 0.0, r.Rate)
	})

	t.Run("mismatched channels", func(t *testing.T) {
		_, err := NoiseOf([]int{1, 0}, []int{1}, 1)
		assert.True(t, errors.Is(err, errkind.ErrShape))

		_, err = NoiseOf([]int{1, 0}, []int{1, 0}, 3)
		assert.True(t, errors.Is(err, errkind.ErrShape))
	})

	t.Run("rounding", func(t *testing.T) {
		r := NoiseReport{Rate: 1.0 / 3.0}
		assert.InDelta(t, 0.3333, r.Rounded(), 1e-12)
	})
}

func TestNoiseOfCollection(t *testing.T) {
	labels := []int{0, 0, 1, 1, 2, 2, 0, 1, 2, 0}
	n := len(labels)
	views, err := dataset.NewViews(mat.NewDense(n, 1, nil), mat.NewDense(n, 1, nil), labels)
	require.NoError(t, err)

	c, err := pairing.NewUniformBuilder(pairing.Options{Seed: 21}).Build(views, 4)
	require.NoError(t, err)

	want := 0
	for i := c.Positives; i < c.Len(); i++ {
		if c.Class0[i] == c.Class1[i] {
			want++
		}
	}
	r := Noise(c)
	assert.Equal(t, want, r.Noisy)
	assert.InDelta(t, float64(want)/float64(n*4), NoiseRate(c), 1e-12)

	byClass := NoiseByClass(c)
	assert.Len(t, byClass, 3)
	for _, rate := range byClass {
		assert.True(t, rate >= 0 && rate <= 1)
	}
}

func TestClassStatistics(t *testing.T) {
	classes, counts := ClassDistribution([]int{3, 1, 3, 3})
	assert.Equal(t, []int{1, 3}, classes)
	assert.Equal(t, []float64{1, 3}, counts)

	assert.InDelta(t, 0.0625+0.5625, CollisionRate([]int{3, 1, 3, 3}), 1e-12)
	assert.Equal(t, 1.0, CollisionRate([]int{5, 5}))
	assert.Equal(t, 0.0, CollisionRate(nil))

	assert.InDelta(t, math.Log(2), ClassEntropy([]int{0, 1, 0, 1}), 1e-12)
	assert.InDelta(t, 0, ClassEntropy([]int{4, 4, 4}), 1e-12)
	assert.Equal(t, 0.0, ClassEntropy(nil))
}

func TestUniformNoiseMatchesCollisionRate(t *testing.T) {
	// Five balanced classes: one uniformly drawn partner in five shares the
	// anchor's class.
	n := 500
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i % 5
	}
	views, err := dataset.NewViews(mat.NewDense(n, 1, nil), mat.NewDense(n, 1, nil), labels)
	require.NoError(t, err)

	c, err := pairing.NewUniformBuilder(pairing.Options{Seed: 3}).Build(views, 20)
	require.NoError(t, err)
	assert.InDelta(t, CollisionRate(labels), NoiseRate(c), 0.02)
}

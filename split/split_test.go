package split

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsawler/go-mvcl/dataset"
	"github.com/tsawler/go-mvcl/errkind"
	"gonum.org/v1/gonum/mat"
)

func TestSplit(t *testing.T) {
	t.Run("sizes and bounds", func(t *testing.T) {
		for _, tc := range []struct {
			n         int
			fraction  float64
			wantTrain int
			wantTest  int
		}{
			{100, 0.5, 50, 50},
			{101, 0.5, 51, 50},
			{7, 0, 7, 0},
			{9, 0.2, 8, 1},
		} {
			r, err := Split(tc.n, tc.fraction, 3)
			require.NoError(t, err)
			assert.Len(t, r.Train, tc.wantTrain)
			assert.Len(t, r.Test, tc.wantTest)
			assert.LessOrEqual(t, len(r.Train)+len(r.Test), tc.n)
			for _, i := range append(append([]int{}, r.Train...), r.Test...) {
				assert.True(t, i >= 0 && i < tc.n)
			}
			assert.Empty(t, r.Overlap())
		}
	})

	t.Run("same seed reproduces indices", func(t *testing.T) {
		a, err := Split(50, 0.3, 11)
		require.NoError(t, err)
		b, err := Split(50, 0.3, 11)
		require.NoError(t, err)
		assert.Equal(t, a.Train, b.Train)
		assert.Equal(t, a.Test, b.Test)
		assert.Equal(t, int64(11), a.Seed)
	})

	t.Run("rounding collision overlaps by one", func(t *testing.T) {
		// (1-0.7)*10 rounds up to 4 while 0.7*10 floors to 7.
		r, err := Split(10, 0.7, 5)
		require.NoError(t, err)
		assert.Len(t, r.Train, 4)
		assert.Len(t, r.Test, 7)
		assert.Len(t, r.Overlap(), 1)
	})

	t.Run("invalid input", func(t *testing.T) {
		for _, tc := range []struct {
			n        int
			fraction float64
		}{{0, 0.5}, {10, -0.1}, {10, 1}, {10, 1.5}} {
			_, err := Split(tc.n, tc.fraction, 1)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errkind.ErrConfiguration))
		}
	})
}

func indexedViews(t *testing.T, n int) *dataset.Views {
	a := mat.NewDense(n, 1, nil)
	b := mat.NewDense(n, 1, nil)
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		a.Set(i, 0, float64(i))
		b.Set(i, 0, float64(i))
		labels[i] = i
	}
	v, err := dataset.NewViews(a, b, labels)
	require.NoError(t, err)
	return v
}

func TestBuildEval(t *testing.T) {
	t.Run("zero test fraction keeps alignment", func(t *testing.T) {
		views := indexedViews(t, 12)
		r, err := Split(12, 0, 4)
		require.NoError(t, err)

		e, err := BuildEval(views, r, 9)
		require.NoError(t, err)
		assert.Equal(t, len(r.Train), e.Len())
		assert.True(t, e.Aligned())
		assert.Equal(t, e.Labels, e.LabelsB)
		assert.True(t, mat.Equal(e.A, e.B))
	})

	t.Run("test portion of view B is shuffled", func(t *testing.T) {
		views := indexedViews(t, 40)
		r, err := Split(40, 0.5, 4)
		require.NoError(t, err)

		e, err := BuildEval(views, r, 9)
		require.NoError(t, err)
		assert.Equal(t, 40, e.Len())
		assert.False(t, e.Aligned())
		assert.Equal(t, 20, e.TrainSize)

		// Training rows stay aligned.
		for i := 0; i < e.TrainSize; i++ {
			assert.Equal(t, e.A.At(i, 0), e.B.At(i, 0))
			assert.Equal(t, e.Labels[i], e.LabelsB[i])
		}
		// Test rows of B follow the recorded shuffle and LabelsB tracks it.
		for i, j := range e.Shuffle {
			assert.Equal(t, float64(r.Test[j]), e.B.At(e.TrainSize+i, 0))
			assert.Equal(t, r.Test[j], e.LabelsB[e.TrainSize+i])
			assert.Equal(t, r.Test[i], e.LabelsA[e.TrainSize+i])
		}
		assert.ElementsMatch(t, e.LabelsA, e.LabelsB)
	})

	t.Run("same seed, same shuffle", func(t *testing.T) {
		views := indexedViews(t, 30)
		r, _ := Split(30, 0.4, 1)
		e1, err := BuildEval(views, r, 2)
		require.NoError(t, err)
		e2, err := BuildEval(views, r, 2)
		require.NoError(t, err)
		assert.Equal(t, e1.Shuffle, e2.Shuffle)
	})

	t.Run("split does not match views", func(t *testing.T) {
		r, _ := Split(5, 0.4, 1)
		_, err := BuildEval(indexedViews(t, 6), r, 1)
		assert.True(t, errors.Is(err, errkind.ErrShape))
	})
}

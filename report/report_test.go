package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsawler/go-mvcl/config"
	"github.com/tsawler/go-mvcl/dataset"
	"github.com/tsawler/go-mvcl/metrics"
	"github.com/tsawler/go-mvcl/pipeline"
)

func sample() *Report {
	return &Report{
		Dataset:       "Caltech101",
		Round:         2,
		Sampler:       "distance",
		SplitSeed:     1234,
		ShuffleSeed:   99,
		NegativeSeed:  18446744073709551557,
		NegProp:       30,
		TrainSize:     4,
		TestSize:      7,
		EvalSize:      11,
		Overlap:       []int{3},
		Pairs:         124,
		Negatives:     120,
		Noisy:         13,
		NoiseRate:     0.1083,
		CollisionRate: 0.125,
		ClassEntropy:  0.6931,
		NoiseByClass:  map[int]float64{0: 0.125, 1: 0.0875},
		CreatedAt:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "JSON", FormatJSON.String())
	assert.Equal(t, "Proto", FormatProto.String())
	assert.Equal(t, "Unknown", Format(999).String())

	f, err := ParseFormat("pb")
	require.NoError(t, err)
	assert.Equal(t, FormatProto, f)
	_, err = ParseFormat("onnx")
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatProto} {
		t.Run(format.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "report")
			want := sample()
			require.NoError(t, NewSaver(format).Save(want, path))

			got, err := Load(path, format)
			require.NoError(t, err)
			assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
			got.CreatedAt = want.CreatedAt
			assert.Equal(t, want, got)
		})
	}

	t.Run("unsupported format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report")
		assert.Error(t, NewSaver(Format(7)).Save(sample(), path))
		_, err := Load(path, Format(7))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent"), FormatJSON)
		assert.Error(t, err)
	})

	t.Run("corrupt proto", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.pb")
		require.NoError(t, os.WriteFile(path, []byte{0xff, 0xff, 0xff}, 0o644))
		_, err := Load(path, FormatProto)
		assert.Error(t, err)
	})
}

func TestFromRound(t *testing.T) {
	cfg := config.Default()
	cfg.Dataset = "Caltech101"
	cfg.NegProp = 4
	cfg.SplitSeed, cfg.ShuffleSeed, cfg.PairSeed = 5, 6, 7
	p, err := pipeline.New(cfg, nil)
	require.NoError(t, err)

	views, err := dataset.Synthetic(dataset.Caltech101, 10, 2, 1)
	require.NoError(t, err)
	round, err := p.Prepare(views)
	require.NoError(t, err)

	r := FromRound(cfg.Dataset, round)
	assert.Equal(t, "Caltech101", r.Dataset)
	assert.Equal(t, "uniform", r.Sampler)
	assert.Equal(t, int64(5), r.SplitSeed)
	assert.Equal(t, round.PairSeed, r.NegativeSeed)
	assert.Equal(t, 5, r.TrainSize)
	assert.Equal(t, 5, r.TestSize)
	assert.Equal(t, 25, r.Pairs)
	assert.Equal(t, 20, r.Negatives)
	assert.Empty(t, r.Overlap)
	assert.False(t, r.Aligned)
	assert.NotEmpty(t, r.NoiseByClass)
	for class, rate := range r.NoiseByClass {
		assert.InDelta(t, rate, metrics.NoiseByClass(round.Pairs)[class], 1e-12)
	}
	assert.InDelta(t, round.Noise.Rate, r.NoiseRate, 1e-4)
	assert.Greater(t, r.CollisionRate, 0.0)
	assert.Contains(t, r.String(), "Caltech101 round 0")
}

func TestHistory(t *testing.T) {
	var h History
	_, err := h.Summary()
	assert.Error(t, err)

	for _, rate := range []float64{0.5, 0.3, 0.1} {
		r := sample()
		r.NoiseRate = rate
		h.Add(r)
	}
	s, err := h.Summary()
	require.NoError(t, err)
	assert.Equal(t, 3, s.Rounds)
	assert.InDelta(t, 0.3, s.Mean, 1e-12)
	assert.InDelta(t, 0.1, s.Min, 1e-12)
	assert.InDelta(t, 0.5, s.Max, 1e-12)
	assert.InDelta(t, 0.5, s.First, 1e-12)
	assert.InDelta(t, 0.1, s.Last, 1e-12)
	// population standard deviation of {0.5, 0.3, 0.1}
	assert.InDelta(t, 0.163299, s.StdDev, 1e-6)
	assert.Contains(t, s.String(), "3 rounds")
}

// Package report records what each preparation round produced and persists
// it as JSON or as a protobuf-encoded Struct.
package report

import (
	"fmt"
	"time"

	"github.com/tsawler/go-mvcl/metrics"
	"github.com/tsawler/go-mvcl/pipeline"
)

// Report describes one round. Seeds are written as strings so 64-bit values
// survive formats that store numbers as doubles.
type Report struct {
	Dataset      string `json:"dataset"`
	Round        int    `json:"round"`
	Sampler      string `json:"sampler"`
	SplitSeed    int64  `json:"split_seed,string"`
	ShuffleSeed  int64  `json:"shuffle_seed,string"`
	NegativeSeed uint64 `json:"negative_seed,string"`
	NegProp      int    `json:"neg_prop"`

	TrainSize int   `json:"train_size"`
	TestSize  int   `json:"test_size"`
	EvalSize  int   `json:"eval_size"`
	Overlap   []int `json:"overlap,omitempty"`
	Aligned   bool  `json:"aligned"`

	Pairs         int     `json:"pairs"`
	Negatives     int     `json:"negatives"`
	Noisy         int     `json:"noisy"`
	NoiseRate     float64 `json:"noise_rate"`
	CollisionRate float64 `json:"collision_rate"`
	ClassEntropy  float64 `json:"class_entropy"`

	// NoiseByClass is the noise rate of the negatives of each anchor class.
	NoiseByClass map[int]float64 `json:"noise_by_class,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// FromRound summarizes round. NoiseRate is rounded to four places;
// CollisionRate is the noise rate uniform sampling is expected to realize on
// the round's class distribution.
func FromRound(dataset string, round *pipeline.Round) *Report {
	return &Report{
		Dataset:       dataset,
		Round:         round.Index,
		Sampler:       round.Pairs.Sampler,
		SplitSeed:     round.SplitSeed,
		ShuffleSeed:   round.ShuffleSeed,
		NegativeSeed:  round.PairSeed,
		NegProp:       round.Pairs.NegProp,
		TrainSize:     len(round.Split.Train),
		TestSize:      len(round.Split.Test),
		EvalSize:      round.Eval.Len(),
		Overlap:       round.Split.Overlap(),
		Aligned:       round.Eval.Aligned(),
		Pairs:         round.Noise.Pairs,
		Negatives:     round.Noise.Negatives,
		Noisy:         round.Noise.Noisy,
		NoiseRate:     round.Noise.Rounded(),
		CollisionRate: metrics.CollisionRate(round.Train.Labels),
		ClassEntropy:  metrics.ClassEntropy(round.Train.Labels),
		NoiseByClass:  metrics.NoiseByClass(round.Pairs),
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}
}

func (r *Report) String() string {
	return fmt.Sprintf("%s round %d (%s): %d pairs, noise rate %.4f, expected %.4f",
		r.Dataset, r.Round, r.Sampler, r.Pairs, r.NoiseRate, r.CollisionRate)
}

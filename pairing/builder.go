package pairing

import (
	"github.com/cockroachdb/errors"
	"github.com/tsawler/go-mvcl/dataset"
	"github.com/tsawler/go-mvcl/errkind"
	"gonum.org/v1/gonum/mat"
)

// Sampler names recorded on collections.
const (
	SamplerUniform  = "uniform"
	SamplerDistance = "distance"
)

// Options control one build call.
type Options struct {
	// Seed drives every draw of the call and is stored on the collection.
	Seed uint64
	// ExcludeSelf keeps an anchor from being drawn as its own negative.
	ExcludeSelf bool
}

// UniformBuilder draws negatives uniformly at random. It is used for the
// first round, before any model exists.
type UniformBuilder struct {
	Options
}

// NewUniformBuilder returns a UniformBuilder with the given options.
func NewUniformBuilder(opts Options) *UniformBuilder {
	return &UniformBuilder{Options: opts}
}

// Build returns views.Len()*(1+negProp) pairs.
func (b *UniformBuilder) Build(views *dataset.Views, negProp int) (*Collection, error) {
	if err := checkInputs(views, negProp, b.ExcludeSelf); err != nil {
		return nil, err
	}
	s := newUniformSampler(views.Len(), b.ExcludeSelf)
	return build(views, negProp, s, b.Seed, SamplerUniform)
}

// DistanceSampler draws each anchor's negatives from its row of a
// model-derived, row-softmaxed distance matrix.
type DistanceSampler struct {
	Options
}

// NewDistanceSampler returns a DistanceSampler with the given options.
func NewDistanceSampler(opts Options) *DistanceSampler {
	return &DistanceSampler{Options: opts}
}

// Build returns views.Len()*(1+negProp) pairs. Row j of dist is the sampling
// distribution of anchor j and must already be normalized.
func (d *DistanceSampler) Build(views *dataset.Views, negProp int, dist *mat.Dense) (*Collection, error) {
	if err := checkInputs(views, negProp, d.ExcludeSelf); err != nil {
		return nil, err
	}
	if dist == nil {
		return nil, errkind.Shapef("distance matrix is missing")
	}
	if err := CheckDistribution(dist, views.Len()); err != nil {
		return nil, err
	}
	s := newCategoricalSampler(dist, d.ExcludeSelf)
	return build(views, negProp, s, d.Seed, SamplerDistance)
}

func checkInputs(views *dataset.Views, negProp int, excludeSelf bool) error {
	if views == nil || views.Len() == 0 {
		return errkind.Shapef("no training samples to pair")
	}
	if negProp < 1 {
		return errkind.Configurationf("neg_prop must be positive, got %d", negProp)
	}
	pool := views.Len()
	if excludeSelf {
		pool--
	}
	if negProp > pool {
		return errkind.Samplingf("neg_prop %d exceeds the %d candidates available per anchor", negProp, pool)
	}
	return nil
}

func build(views *dataset.Views, negProp int, s NegativeSampler, seed uint64, name string) (*Collection, error) {
	c := newCollection(views, negProp, seed, name)
	c.addPositives()

	rng := newRand(seed)
	partners := make([]int, negProp)
	for anchor := 0; anchor < views.Len(); anchor++ {
		if err := s.Sample(anchor, rng, partners); err != nil {
			return nil, errors.Wrapf(err, "sample negatives for anchor %d", anchor)
		}
		for _, p := range partners {
			c.addNegative(anchor, p)
		}
	}
	return c, nil
}

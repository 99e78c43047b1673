package pairing

import (
	"math"
	"math/rand/v2"

	"github.com/tsawler/go-mvcl/errkind"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// RowTolerance is how far a sampling row may sum away from 1.
const RowTolerance = 1e-5

// NegativeSampler draws the negative partners of one anchor.
type NegativeSampler interface {
	// Sample fills dst with len(dst) distinct partner indices for anchor.
	Sample(anchor int, rng *rand.Rand, dst []int) error
}

// newRand returns the generator owned by one build call.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0xda3e39cb94b95bdb))
}

// uniformSampler draws partners uniformly without replacement with a partial
// Fisher-Yates shuffle. The pool stays a permutation of [0, n) between calls,
// so it never needs resetting; pos tracks where each index currently sits.
type uniformSampler struct {
	pool        []int
	pos         []int
	excludeSelf bool
}

func newUniformSampler(n int, excludeSelf bool) *uniformSampler {
	s := &uniformSampler{
		pool:        make([]int, n),
		pos:         make([]int, n),
		excludeSelf: excludeSelf,
	}
	for i := range s.pool {
		s.pool[i] = i
		s.pos[i] = i
	}
	return s
}

func (s *uniformSampler) swap(i, j int) {
	s.pool[i], s.pool[j] = s.pool[j], s.pool[i]
	s.pos[s.pool[i]] = i
	s.pos[s.pool[j]] = j
}

func (s *uniformSampler) Sample(anchor int, rng *rand.Rand, dst []int) error {
	size := len(s.pool)
	if s.excludeSelf {
		s.swap(s.pos[anchor], size-1)
		size--
	}
	if len(dst) > size {
		return errkind.Samplingf("cannot draw %d distinct negatives from a pool of %d", len(dst), size)
	}
	for i := range dst {
		j := i + rng.IntN(size-i)
		s.swap(i, j)
		dst[i] = s.pool[i]
	}
	return nil
}

// categoricalSampler draws partners without replacement from the rows of a
// row-stochastic matrix: each draw picks an index in proportion to the
// remaining mass, then removes it.
type categoricalSampler struct {
	dist        *mat.Dense
	excludeSelf bool
	weights     []float64
}

func newCategoricalSampler(dist *mat.Dense, excludeSelf bool) *categoricalSampler {
	_, c := dist.Dims()
	return &categoricalSampler{
		dist:        dist,
		excludeSelf: excludeSelf,
		weights:     make([]float64, c),
	}
}

func (s *categoricalSampler) Sample(anchor int, rng *rand.Rand, dst []int) error {
	copy(s.weights, s.dist.RawRowView(anchor))
	if s.excludeSelf {
		s.weights[anchor] = 0
	}

	support := 0
	for _, w := range s.weights {
		if w > 0 {
			support++
		}
	}
	if support < len(dst) {
		return errkind.Samplingf("anchor %d: %d candidates have non-zero probability, cannot draw %d without replacement",
			anchor, support, len(dst))
	}

	for i := range dst {
		total := floats.Sum(s.weights)
		idx := pick(s.weights, rng.Float64()*total)
		dst[i] = idx
		s.weights[idx] = 0
	}
	return nil
}

// pick returns the index whose cumulative weight interval contains u. If
// rounding pushes u past the running sum, the last positive index wins.
func pick(weights []float64, u float64) int {
	last := -1
	var running float64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		running += w
		last = i
		if u < running {
			return i
		}
	}
	return last
}

// CheckDistribution verifies that dist is an n x n matrix whose rows are
// valid probability vectors: finite, non-negative, summing to 1 within
// RowTolerance.
func CheckDistribution(dist mat.Matrix, n int) error {
	if dist == nil {
		return errkind.Shapef("distance matrix is missing")
	}
	if d, ok := dist.(*mat.Dense); ok && d == nil {
		return errkind.Shapef("distance matrix is missing")
	}
	r, c := dist.Dims()
	if r != c {
		return errkind.Shapef("distance matrix is %dx%d, must be square", r, c)
	}
	if r != n {
		return errkind.Shapef("distance matrix covers %d samples, training set has %d", r, n)
	}
	for i := 0; i < r; i++ {
		var sum float64
		for j := 0; j < c; j++ {
			v := dist.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errkind.Samplingf("row %d has a non-finite entry at column %d", i, j)
			}
			if v < 0 {
				return errkind.Samplingf("row %d has a negative entry %v at column %d", i, v, j)
			}
			sum += v
		}
		if math.Abs(sum-1) > RowTolerance {
			return errkind.Samplingf("row %d sums to %v, not 1", i, sum)
		}
	}
	return nil
}

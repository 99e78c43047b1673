// Package split partitions sample indices into a known-aligned training
// portion and an evaluation portion, and builds the evaluation set whose
// second view has lost its alignment.
package split

import (
	"math"
	"math/rand"

	"github.com/tsawler/go-mvcl/errkind"
)

// Result is the outcome of Split. Train is the head of a seeded permutation
// of [0, N) and Test its tail, so under rounding the two can share one index.
type Result struct {
	N            int
	TestFraction float64
	Seed         int64
	Train        []int
	Test         []int
}

// Split draws a uniformly random permutation of [0, nAll) from seed and takes
// ceil((1-testFraction)*nAll) indices from its head as Train and
// floor(testFraction*nAll) indices from its tail as Test.
func Split(nAll int, testFraction float64, seed int64) (Result, error) {
	if nAll <= 0 {
		return Result{}, errkind.Configurationf("cannot split %d samples", nAll)
	}
	if math.IsNaN(testFraction) || testFraction < 0 || testFraction >= 1 {
		return Result{}, errkind.Configurationf("test fraction must be in [0, 1), got %v", testFraction)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(nAll)

	trainCount := int(math.Ceil((1 - testFraction) * float64(nAll)))
	if trainCount > nAll {
		trainCount = nAll
	}
	testCount := int(math.Floor(testFraction * float64(nAll)))

	return Result{
		N:            nAll,
		TestFraction: testFraction,
		Seed:         seed,
		Train:        append([]int(nil), perm[:trainCount]...),
		Test:         append([]int(nil), perm[nAll-testCount:]...),
	}, nil
}

// Overlap returns the indices present in both Train and Test. It is empty
// unless the two counts round to more than N.
func (r Result) Overlap() []int {
	if len(r.Train)+len(r.Test) <= r.N {
		return nil
	}
	inTrain := make(map[int]bool, len(r.Train))
	for _, i := range r.Train {
		inTrain[i] = true
	}
	var shared []int
	for _, i := range r.Test {
		if inTrain[i] {
			shared = append(shared, i)
		}
	}
	return shared
}

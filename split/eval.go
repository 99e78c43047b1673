package split

import (
	"math/rand"

	"github.com/tsawler/go-mvcl/dataset"
	"github.com/tsawler/go-mvcl/errkind"
	"gonum.org/v1/gonum/mat"
)

// Eval is the evaluation set: the training portion followed by the test
// portion, with view B of the test portion permuted by Shuffle.
//
// Labels holds the original class of every row of A. LabelsA and LabelsB hold
// the class of the sample actually sitting in each row of A and B, so
// LabelsB differs from Labels exactly where the shuffle moved a sample.
type Eval struct {
	A       *mat.Dense
	B       *mat.Dense
	Labels  []int
	LabelsA []int
	LabelsB []int

	// Shuffle is the permutation applied to view B's test rows; nil when
	// nothing was shuffled.
	Shuffle     []int
	ShuffleSeed int64
	TrainSize   int
}

// Len returns the number of evaluation rows.
func (e *Eval) Len() int {
	return len(e.Labels)
}

// Aligned reports whether view B is still in its original order.
func (e *Eval) Aligned() bool {
	return e.Shuffle == nil
}

// BuildEval assembles the evaluation set of r over views. With an empty test
// portion it is the training portion as is; otherwise view B's test rows are
// shuffled with shuffleSeed to simulate unknown correspondence.
func BuildEval(views *dataset.Views, r Result, shuffleSeed int64) (*Eval, error) {
	if views.Len() != r.N {
		return nil, errkind.Shapef("split covers %d samples, views have %d", r.N, views.Len())
	}

	train := views.Subset(r.Train)
	if len(r.Test) == 0 {
		return &Eval{
			A:           train.A,
			B:           train.B,
			Labels:      train.Labels,
			LabelsA:     train.Labels,
			LabelsB:     train.Labels,
			ShuffleSeed: shuffleSeed,
			TrainSize:   train.Len(),
		}, nil
	}

	test := views.Subset(r.Test)
	shuffle := rand.New(rand.NewSource(shuffleSeed)).Perm(test.Len())
	testB := dataset.Rows(test.B, shuffle)
	testLabelsB := make([]int, len(shuffle))
	for i, j := range shuffle {
		testLabelsB[i] = test.Labels[j]
	}

	var a, b mat.Dense
	a.Stack(train.A, test.A)
	b.Stack(train.B, testB)

	labels := concat(train.Labels, test.Labels)
	return &Eval{
		A:           &a,
		B:           &b,
		Labels:      labels,
		LabelsA:     concat(train.Labels, test.Labels),
		LabelsB:     concat(train.Labels, testLabelsB),
		Shuffle:     shuffle,
		ShuffleSeed: shuffleSeed,
		TrainSize:   train.Len(),
	}, nil
}

func concat(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

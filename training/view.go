package training

import (
	"github.com/cockroachdb/errors"
	"github.com/tsawler/go-mvcl/dataset"
	"github.com/tsawler/go-mvcl/errkind"
	"github.com/tsawler/go-mvcl/pairing"
	"github.com/tsawler/go-mvcl/split"
	"github.com/tsawler/go-mvcl/tensor"
	"gonum.org/v1/gonum/mat"
)

// Sample is one indexed element of a view. RealLabel is meaningful only when
// Channels has ChannelRealLabel, Class0 and Class1 only with
// ChannelClassLabels.
type Sample struct {
	A         *tensor.Tensor // [1, dimA]
	B         *tensor.Tensor // [1, dimB]
	Label     int64
	RealLabel int64
	Class0    int64
	Class1    int64
	Channels  Channels
}

// Dataset interface defines methods that all views implement
type Dataset interface {
	Len() int
	Channels() Channels
	Get(idx int) (*Sample, error)
}

// PairView exposes pairs of rows of two feature matrices with their labels.
// The same type serves training pairs, the evaluation set and the distance
// probe; they differ only in which channels are present.
type PairView struct {
	a, b       *mat.Dense
	rowA, rowB []int // nil means row i of the view is row i of the matrix
	labels     []int
	realLabels []int
	class0     []int
	class1     []int
	channels   Channels
}

// ViewOption configures a PairView.
type ViewOption func(*PairView)

// WithRows maps view index i to row rowA[i] of a and row rowB[i] of b.
func WithRows(rowA, rowB []int) ViewOption {
	return func(v *PairView) {
		v.rowA, v.rowB = rowA, rowB
	}
}

// WithRealLabels adds the ground-truth pair label channel.
func WithRealLabels(truth []int) ViewOption {
	return func(v *PairView) {
		v.realLabels = truth
		v.channels |= ChannelRealLabel
	}
}

// WithClassLabels adds the class label channel of both members.
func WithClassLabels(class0, class1 []int) ViewOption {
	return func(v *PairView) {
		v.class0, v.class1 = class0, class1
		v.channels |= ChannelClassLabels
	}
}

// NewPairView returns a view of len(labels) pairs over a and b.
func NewPairView(a, b *mat.Dense, labels []int, opts ...ViewOption) (*PairView, error) {
	if a == nil || b == nil {
		return nil, errkind.Shapef("both feature matrices are required")
	}
	v := &PairView{a: a, b: b, labels: labels}
	for _, opt := range opts {
		opt(v)
	}

	n := len(labels)
	ra, _ := a.Dims()
	rb, _ := b.Dims()
	if (v.rowA == nil) != (v.rowB == nil) {
		return nil, errkind.Shapef("row maps must be given for both views")
	}
	if v.rowA == nil && (ra != n || rb != n) {
		return nil, errkind.Shapef("%d labels for matrices of %d and %d rows", n, ra, rb)
	}
	if v.rowA != nil {
		if len(v.rowA) != n || len(v.rowB) != n {
			return nil, errkind.Shapef("%d labels but row maps of %d and %d", n, len(v.rowA), len(v.rowB))
		}
		if err := checkRows(v.rowA, ra); err != nil {
			return nil, errors.Wrap(err, "view A")
		}
		if err := checkRows(v.rowB, rb); err != nil {
			return nil, errors.Wrap(err, "view B")
		}
	}
	if v.channels.Has(ChannelRealLabel) && len(v.realLabels) != n {
		return nil, errkind.Shapef("%d labels but %d real labels", n, len(v.realLabels))
	}
	if v.channels.Has(ChannelClassLabels) && (len(v.class0) != n || len(v.class1) != n) {
		return nil, errkind.Shapef("%d labels but class channels of %d and %d", n, len(v.class0), len(v.class1))
	}
	return v, nil
}

func checkRows(rows []int, limit int) error {
	for i, r := range rows {
		if r < 0 || r >= limit {
			return errkind.Shapef("entry %d maps to row %d, matrix has %d rows", i, r, limit)
		}
	}
	return nil
}

// NewTrainingView returns the training-pair view of c. The label channel is
// the noisy sampled label when noisy is set and the ground truth otherwise;
// the ground truth is always carried alongside.
func NewTrainingView(c *pairing.Collection, noisy bool) (*PairView, error) {
	return NewPairView(c.Views.A, c.Views.B, c.TrainingLabels(noisy),
		WithRows(c.Anchor, c.Partner),
		WithRealLabels(c.RealLabels))
}

// NewEvalView returns the evaluation view of e: every evaluation row with
// the class of the sample in view A and in view B.
func NewEvalView(e *split.Eval) (*PairView, error) {
	return NewPairView(e.A, e.B, e.Labels, WithClassLabels(e.LabelsA, e.LabelsB))
}

// NewProbeView returns the distance-probe view of the training portion: the
// original aligned pairs in sample order, labelled with their class.
func NewProbeView(v *dataset.Views) (*PairView, error) {
	return NewPairView(v.A, v.B, v.Labels)
}

func (v *PairView) Len() int {
	return len(v.labels)
}

func (v *PairView) Channels() Channels {
	return v.channels
}

func (v *PairView) rows(idx int) (int, int) {
	if v.rowA == nil {
		return idx, idx
	}
	return v.rowA[idx], v.rowB[idx]
}

// Get returns pair idx with its features as [1, dim] column vectors.
func (v *PairView) Get(idx int) (*Sample, error) {
	if idx < 0 || idx >= len(v.labels) {
		return nil, errors.Newf("index %d out of range [0, %d)", idx, len(v.labels))
	}

	ra, rb := v.rows(idx)
	a, err := tensor.ColumnVector(v.a.RawRowView(ra))
	if err != nil {
		return nil, errors.Wrapf(err, "view A of sample %d", idx)
	}
	b, err := tensor.ColumnVector(v.b.RawRowView(rb))
	if err != nil {
		return nil, errors.Wrapf(err, "view B of sample %d", idx)
	}

	s := &Sample{A: a, B: b, Label: int64(v.labels[idx]), Channels: v.channels}
	if v.channels.Has(ChannelRealLabel) {
		s.RealLabel = int64(v.realLabels[idx])
	}
	if v.channels.Has(ChannelClassLabels) {
		s.Class0 = int64(v.class0[idx])
		s.Class1 = int64(v.class1[idx])
	}
	return s, nil
}

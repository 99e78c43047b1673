// Package dataset turns the source matrices of the supported multi-view
// datasets into normalized (view A, view B, labels) triples.
package dataset

import (
	"fmt"
	"sort"

	"github.com/tsawler/go-mvcl/errkind"
	"gonum.org/v1/gonum/mat"
)

// Views holds two co-registered feature matrices, one sample per row, and the
// class label of each sample. Labels are used for noise measurement and
// evaluation only.
type Views struct {
	A      *mat.Dense
	B      *mat.Dense
	Labels []int
}

// NewViews checks that both views and the labels describe the same samples.
func NewViews(a, b *mat.Dense, labels []int) (*Views, error) {
	if a == nil || b == nil {
		return nil, errkind.Shapef("both views are required")
	}
	ra, _ := a.Dims()
	rb, _ := b.Dims()
	if ra != rb {
		return nil, errkind.Shapef("view A has %d samples, view B has %d", ra, rb)
	}
	if ra != len(labels) {
		return nil, errkind.Shapef("views have %d samples, labels have %d", ra, len(labels))
	}
	return &Views{A: a, B: b, Labels: labels}, nil
}

// Len returns the number of samples.
func (v *Views) Len() int {
	return len(v.Labels)
}

// Dims returns the feature dimensions of view A and view B.
func (v *Views) Dims() (int, int) {
	_, da := v.A.Dims()
	_, db := v.B.Dims()
	return da, db
}

// Subset returns the samples at idx, in idx order.
func (v *Views) Subset(idx []int) *Views {
	labels := make([]int, len(idx))
	for i, j := range idx {
		labels[i] = v.Labels[j]
	}
	return &Views{
		A:      Rows(v.A, idx),
		B:      Rows(v.B, idx),
		Labels: labels,
	}
}

// ClassDistribution counts samples per class label.
func (v *Views) ClassDistribution() map[int]int {
	dist := make(map[int]int)
	for _, label := range v.Labels {
		dist[label]++
	}
	return dist
}

// NumClasses returns the number of distinct labels.
func (v *Views) NumClasses() int {
	return len(v.ClassDistribution())
}

func (v *Views) String() string {
	da, db := v.Dims()
	classes := make([]int, 0)
	for c := range v.ClassDistribution() {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	return fmt.Sprintf("Views(samples=%d, dimA=%d, dimB=%d, classes=%d)", v.Len(), da, db, len(classes))
}

// Rows copies the rows of m selected by idx into a new matrix.
func Rows(m *mat.Dense, idx []int) *mat.Dense {
	_, c := m.Dims()
	if len(idx) == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(len(idx), c, nil)
	for i, j := range idx {
		out.SetRow(i, m.RawRowView(j))
	}
	return out
}

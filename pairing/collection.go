// Package pairing builds the positive and negative pairs a two-view
// contrastive model trains on.
//
// Every collection starts with one positive pair per training sample, in
// sample order, followed by NegProp negatives per anchor, anchor-major.
// Negatives are drawn, not verified, so some of them join two samples of the
// same class: their training label is 0 while their real label is 1.
package pairing

import (
	"github.com/tsawler/go-mvcl/dataset"
)

// Pair is one constructed pair. A and B alias rows of the training views.
type Pair struct {
	A         []float64
	B         []float64
	Label     int
	RealLabel int
	Class0    int
	Class1    int
}

// Negative reports whether the pair was constructed as a negative.
func (p Pair) Negative() bool {
	return p.Label == 0
}

// Collection is an ordered set of pairs stored as row indices into Views.
type Collection struct {
	Views *dataset.Views

	Anchor     []int // row of Views.A
	Partner    []int // row of Views.B
	Labels     []int // assigned training label
	RealLabels []int // ground-truth correspondence label
	Class0     []int
	Class1     []int

	Positives int
	NegProp   int
	Seed      uint64
	Sampler   string
}

func newCollection(views *dataset.Views, negProp int, seed uint64, sampler string) *Collection {
	total := views.Len() * (1 + negProp)
	return &Collection{
		Views:      views,
		Anchor:     make([]int, 0, total),
		Partner:    make([]int, 0, total),
		Labels:     make([]int, 0, total),
		RealLabels: make([]int, 0, total),
		Class0:     make([]int, 0, total),
		Class1:     make([]int, 0, total),
		NegProp:    negProp,
		Seed:       seed,
		Sampler:    sampler,
	}
}

func (c *Collection) addPositives() {
	for i, class := range c.Views.Labels {
		c.Anchor = append(c.Anchor, i)
		c.Partner = append(c.Partner, i)
		c.Labels = append(c.Labels, 1)
		c.RealLabels = append(c.RealLabels, 1)
		c.Class0 = append(c.Class0, class)
		c.Class1 = append(c.Class1, class)
	}
	c.Positives = len(c.Views.Labels)
}

func (c *Collection) addNegative(anchor, partner int) {
	c0, c1 := c.Views.Labels[anchor], c.Views.Labels[partner]
	truth := 0
	if c0 == c1 {
		truth = 1
	}
	c.Anchor = append(c.Anchor, anchor)
	c.Partner = append(c.Partner, partner)
	c.Labels = append(c.Labels, 0)
	c.RealLabels = append(c.RealLabels, truth)
	c.Class0 = append(c.Class0, c0)
	c.Class1 = append(c.Class1, c1)
}

// Len returns the number of pairs.
func (c *Collection) Len() int {
	return len(c.Labels)
}

// Negatives returns the number of pairs constructed as negatives.
func (c *Collection) Negatives() int {
	return c.Len() - c.Positives
}

// Pair returns pair i.
func (c *Collection) Pair(i int) Pair {
	return Pair{
		A:         c.Views.A.RawRowView(c.Anchor[i]),
		B:         c.Views.B.RawRowView(c.Partner[i]),
		Label:     c.Labels[i],
		RealLabel: c.RealLabels[i],
		Class0:    c.Class0[i],
		Class1:    c.Class1[i],
	}
}

// TrainingLabels returns the label channel the model trains on: the sampled
// labels when noisy is set, the ground-truth labels otherwise.
func (c *Collection) TrainingLabels(noisy bool) []int {
	if noisy {
		return c.Labels
	}
	return c.RealLabels
}

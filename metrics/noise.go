// Package metrics measures the label noise of constructed pair collections.
// Nothing here feeds back into sampling; the numbers are for reporting.
package metrics

import (
	"fmt"
	"sort"

	"github.com/tsawler/go-mvcl/errkind"
	"github.com/tsawler/go-mvcl/pairing"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat"
)

// NoiseReport summarizes how many sampled negatives are in fact same-class.
type NoiseReport struct {
	Pairs     int
	Positives int
	Negatives int
	Noisy     int     // pairs whose training label disagrees with the real label
	Rate      float64 // Noisy / Negatives, 0 when there are no negatives
}

func (r NoiseReport) String() string {
	return fmt.Sprintf("noise rate %.4f (%d of %d negatives, %d pairs)", r.Rounded(), r.Noisy, r.Negatives, r.Pairs)
}

// Rounded returns Rate rounded to four decimal places.
func (r NoiseReport) Rounded() float64 {
	return scalar.Round(r.Rate, 4)
}

// Noise computes the noise report of c.
func Noise(c *pairing.Collection) NoiseReport {
	r, _ := NoiseOf(c.Labels, c.RealLabels, c.Positives)
	return r
}

// NoiseRate returns count(label != real_label) / (pairs - positives), or 0
// when the collection holds no negatives.
func NoiseRate(c *pairing.Collection) float64 {
	return Noise(c).Rate
}

// NoiseOf computes the noise report from raw label channels.
func NoiseOf(labels, realLabels []int, positives int) (NoiseReport, error) {
	if len(labels) != len(realLabels) {
		return NoiseReport{}, errkind.Shapef("%d labels but %d real labels", len(labels), len(realLabels))
	}
	if positives < 0 || positives > len(labels) {
		return NoiseReport{}, errkind.Shapef("positive count %d out of range [0, %d]", positives, len(labels))
	}

	r := NoiseReport{
		Pairs:     len(labels),
		Positives: positives,
		Negatives: len(labels) - positives,
	}
	for i := range labels {
		if labels[i] != realLabels[i] {
			r.Noisy++
		}
	}
	if r.Negatives > 0 {
		r.Rate = float64(r.Noisy) / float64(r.Negatives)
	}
	return r, nil
}

// NoiseByClass returns the noise rate of the negatives of each anchor class.
func NoiseByClass(c *pairing.Collection) map[int]float64 {
	noisy := make(map[int]float64)
	total := make(map[int]float64)
	for i := c.Positives; i < c.Len(); i++ {
		total[c.Class0[i]]++
		if c.Labels[i] != c.RealLabels[i] {
			noisy[c.Class0[i]]++
		}
	}
	rates := make(map[int]float64, len(total))
	for class, n := range total {
		rates[class] = noisy[class] / n
	}
	return rates
}

// ClassDistribution counts samples per label, returned in label order.
func ClassDistribution(labels []int) (classes []int, counts []float64) {
	byClass := make(map[int]float64)
	for _, l := range labels {
		byClass[l]++
	}
	classes = make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	counts = make([]float64, len(classes))
	for i, c := range classes {
		counts[i] = byClass[c]
	}
	return classes, counts
}

// CollisionRate is the probability that two samples drawn uniformly with
// replacement share a class, sum_c (n_c/N)^2. It is the noise rate uniform
// negative sampling is expected to produce when self-pairs are allowed.
func CollisionRate(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	_, counts := ClassDistribution(labels)
	floats.Scale(1/float64(len(labels)), counts)
	return floats.Dot(counts, counts)
}

// ClassEntropy is the Shannon entropy, in nats, of the class distribution of
// labels. Balanced classes maximize it at log(classes).
func ClassEntropy(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	_, counts := ClassDistribution(labels)
	floats.Scale(1/float64(len(labels)), counts)
	return stat.Entropy(counts)
}

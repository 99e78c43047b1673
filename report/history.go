package report

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/montanaflynn/stats"
)

// History accumulates the reports of successive rounds of one run.
type History struct {
	Reports []*Report
}

// Add appends r.
func (h *History) Add(r *Report) {
	h.Reports = append(h.Reports, r)
}

// Len returns the number of rounds recorded
func (h *History) Len() int {
	return len(h.Reports)
}

// Summary describes the noise rate across rounds.
type Summary struct {
	Rounds int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	First  float64
	Last   float64
}

func (s Summary) String() string {
	return fmt.Sprintf("%d rounds, noise rate mean %.4f sd %.4f range [%.4f, %.4f], first %.4f last %.4f",
		s.Rounds, s.Mean, s.StdDev, s.Min, s.Max, s.First, s.Last)
}

// Summary computes noise rate statistics over every recorded round.
func (h *History) Summary() (Summary, error) {
	if len(h.Reports) == 0 {
		return Summary{}, errors.New("no rounds recorded")
	}
	rates := make(stats.Float64Data, len(h.Reports))
	for i, r := range h.Reports {
		rates[i] = r.NoiseRate
	}

	s := Summary{
		Rounds: len(rates),
		First:  rates[0],
		Last:   rates[len(rates)-1],
	}
	var err error
	if s.Mean, err = rates.Mean(); err != nil {
		return Summary{}, errors.Wrap(err, "mean")
	}
	if s.StdDev, err = rates.StandardDeviation(); err != nil {
		return Summary{}, errors.Wrap(err, "standard deviation")
	}
	if s.Min, err = rates.Min(); err != nil {
		return Summary{}, errors.Wrap(err, "min")
	}
	if s.Max, err = rates.Max(); err != nil {
		return Summary{}, errors.Wrap(err, "max")
	}
	return s, nil
}

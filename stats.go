package numbench

import (
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

var ErrNoSamples = errors.New("no samples")

// Percentile returns the p-quantile (0 <= p <= 1) of sorted data, linearly
// interpolating between the two closest ranks: h = (n-1)p. This is the
// Hyndman-Fan type 7 estimator, numpy's default, so summaries line up with
// reports produced by numpy-based runners.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i >= n-1 {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// Trim returns the samples inside the closed interquartile range [p25, p75],
// in their original order. When no sample falls inside, which can only
// happen for a handful of samples, the order statistics bracketing the range
// are returned instead, so the result is never empty for non-empty input.
func Trim(samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	lo := Percentile(sorted, 0.25)
	hi := Percentile(sorted, 0.75)

	kept := make([]float64, 0, len(samples))
	for _, x := range samples {
		if x >= lo && x <= hi {
			kept = append(kept, x)
		}
	}
	if len(kept) > 0 {
		return kept
	}

	n := float64(len(sorted) - 1)
	first := int(math.Floor(n * 0.25))
	last := int(math.Ceil(n * 0.75))
	return append(kept, sorted[first:last+1]...)
}

// Summarize trims outliers and returns the mean and population standard
// deviation of what is left.
func Summarize(samples []float64) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, ErrNoSamples
	}
	kept := Trim(samples)
	if slices.Min(kept) == slices.Max(kept) {
		return Summary{Mean: kept[0]}, nil
	}
	mean, std := stat.PopMeanStdDev(kept, nil)
	if math.IsNaN(std) {
		// rounding can leave a near-constant variance a hair below zero
		std = 0
	}
	return Summary{Mean: mean, Std: std}, nil
}

package numbench

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, Percentile(sorted, 0))
	assert.Equal(t, 4.0, Percentile(sorted, 1))
	assert.InDelta(t, 1.75, Percentile(sorted, 0.25), 1e-12)
	assert.InDelta(t, 2.5, Percentile(sorted, 0.5), 1e-12)
	assert.InDelta(t, 3.25, Percentile(sorted, 0.75), 1e-12)
	assert.Equal(t, 7.0, Percentile([]float64{7}, 0.25))
	assert.True(t, math.IsNaN(Percentile(nil, 0.5)))
}

func TestSummarizeConstant(t *testing.T) {
	for _, v := range []float64{2.5, 0.1, 0.3, 1.7, 1e-3, 123.456} {
		samples := make([]float64, DefaultTrials)
		for i := range samples {
			samples[i] = v
		}
		s, err := Summarize(samples)
		require.NoError(t, err)
		assert.Equal(t, v, s.Mean, "%v", v)
		assert.Equal(t, 0.0, s.Std, "%v", v)
	}
}

func TestSummarizeTrimsOutliers(t *testing.T) {
	// 1..8: p25 = 2.75, p75 = 6.25, keeps 3, 4, 5, 6
	samples := []float64{8, 1, 7, 2, 6, 3, 5, 4}
	assert.Equal(t, []float64{6, 3, 5, 4}, Trim(samples))

	s, err := Summarize(samples)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), s.Std, 1e-12)

	// a single huge outlier does not move the mean
	s, err = Summarize([]float64{1, 1, 1, 1, 1000})
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Mean)
}

func TestSummarizeDistinctProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for n := 4; n <= 40; n++ {
		samples := make([]float64, n)
		for i := range samples {
			samples[i] = rng.Float64()*10 + float64(i)*1e-9
		}
		sorted := slices.Clone(samples)
		slices.Sort(sorted)
		lo, hi := Percentile(sorted, 0.25), Percentile(sorted, 0.75)

		kept := Trim(samples)
		assert.NotEmpty(t, kept)
		assert.LessOrEqual(t, len(kept), n)
		for _, x := range kept {
			assert.GreaterOrEqual(t, x, lo)
			assert.LessOrEqual(t, x, hi)
		}
	}
}

func TestTrimNeverEmpty(t *testing.T) {
	// p25 = 2.5 and p75 = 7.5 fall strictly between the two samples
	assert.Equal(t, []float64{0, 10}, Trim([]float64{10, 0}))
	assert.Equal(t, []float64{3}, Trim([]float64{3}))

	s, err := Summarize([]float64{0, 10})
	require.NoError(t, err)
	assert.Equal(t, 5.0, s.Mean)
	assert.Equal(t, 5.0, s.Std)
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil)
	assert.ErrorIs(t, err, ErrNoSamples)
}

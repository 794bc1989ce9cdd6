package numbench

import (
	"time"
)

// DefaultTrials is the number of trials per (operation, size) pair.
const DefaultTrials = 30

// TimeTrial runs call once and returns the elapsed wall-clock time in
// milliseconds. Only the call itself is inside the timed region.
func TimeTrial(call Call) (float64, error) {
	start := time.Now()
	err := call()
	elapsed := time.Since(start)
	if err != nil {
		return 0, err
	}
	return float64(elapsed) / float64(time.Millisecond), nil
}

// Sample runs n trials. next is called before every trial to produce a call
// with freshly generated input.
func Sample(n int, next func() (Call, error)) ([]float64, error) {
	samples := make([]float64, 0, n)
	for range n {
		call, err := next()
		if err != nil {
			return nil, err
		}
		ms, err := TimeTrial(call)
		if err != nil {
			return nil, err
		}
		samples = append(samples, ms)
	}
	return samples, nil
}

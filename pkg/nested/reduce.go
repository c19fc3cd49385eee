package nested

import (
	"gitlab.com/parlabs/workpool-go/pkg/work"
)

// Mean returns a reducer computing the arithmetic mean of the subtask
// values divided by the given correction factor. A correction of 1 yields
// the plain mean. The reducer fails on the first failed subtask instead of
// averaging over a partial set.
func Mean(correction float64) Reduce[float64] {
	return func(results []work.Result[float64]) (float64, error) {
		if len(results) == 0 {
			return 0, work.NewConfigError("reducing an empty result set")
		}
		sum := 0.0
		for _, r := range results {
			if r.Err != nil {
				return 0, r.Err
			}
			sum += r.Value
		}
		return sum / (float64(len(results)) * correction), nil
	}
}

// Package workload contains the CPU-heavy sample computations the engine
// is exercised with. They stand in for real work: each one burns cycles in
// proportion to its payload and touches no shared state.
package workload

import (
	"math/rand"

	"gitlab.com/parlabs/workpool-go/pkg/work"
)

// PiLeibniz computes pi as the n-th partial sum of the Madhava-Leibniz
// series. Deliberately inefficient; the point is a deterministic CPU-bound
// computation with tunable cost.
func PiLeibniz(n int64) (float64, error) {
	if n <= 0 {
		return 0, work.NewConfigError("PiLeibniz needs a positive number of summands")
	}
	sum := 0.0
	sign := 1.0
	for k := int64(0); k < n; k++ {
		sum += sign * 4 / float64(2*k+1)
		sign = -sign
	}
	return sum, nil
}

// PiMonteCarlo estimates pi by drawing n points in the unit square and
// counting those under the quarter circle.
func PiMonteCarlo(n int64) (float64, error) {
	if n <= 0 {
		return 0, work.NewConfigError("PiMonteCarlo needs a positive number of draws")
	}
	inside := int64(0)
	for i := int64(0); i < n; i++ {
		x := rand.Float64()
		y := rand.Float64()
		if x*x+y*y <= 1 {
			inside++
		}
	}
	return 4 * float64(inside) / float64(n), nil
}

// RandomSum adds up n uniform random numbers. The expected value is n/2,
// which makes the output easy to sanity-check after a parallel run.
func RandomSum(n int64) (float64, error) {
	if n <= 0 {
		return 0, work.NewConfigError("RandomSum needs a positive number of values")
	}
	sum := 0.0
	for i := int64(0); i < n; i++ {
		sum += rand.Float64()
	}
	return sum, nil
}

// Weighted wraps a workload so that its payload is multiplied by a cost
// factor before evaluation. Different weights give tasks different
// per-task costs, which is how runs demonstrate unordered arrival.
func Weighted(fn work.Func[int64, float64], weight int64) work.Func[int64, float64] {
	return func(n int64) (float64, error) {
		return fn(n * weight)
	}
}

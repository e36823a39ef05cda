package budget

import (
	"errors"
	"math"

	"drtpool/internal/delay"
	"drtpool/internal/drtmodel"
)

// ErrBudgetExceeded is the sentinel returned by Validate when a candidate
// ride is rejected. Per §7 this is non-exceptional: callers filter on it
// rather than treating it as a fatal error.
var ErrBudgetExceeded = errors.New("budget: candidate ride exceeds a participant's utility budget")

// Validator implements BudgetValidator (§4.4, §6): it re-derives each
// passenger's realized utility cost from the candidate's actual travel
// time and distance, and admits the ride only if every passenger's cost
// stays within their budget (within epsilon).
type Validator struct {
	weights ScoringWeights
	epsilon float64
}

// NewValidator builds a Validator sharing the scoring weights used by
// ConstraintsCalculator, so admission is consistent with the detour caps
// that shaped the candidate in the first place. A non-positive epsilon
// falls back to delay.DefaultEpsilon.
func NewValidator(weights ScoringWeights, epsilon float64) Validator {
	if epsilon <= 0 {
		epsilon = delay.DefaultEpsilon
	}
	return Validator{weights: weights, epsilon: epsilon}
}

// Validate implements validateAndPopulateBudgets(candidate) -> Ride | bottom.
// On success it returns a copy of candidate with RemainingBudget and
// MaxCost populated; on rejection it returns ErrBudgetExceeded.
func (v Validator) Validate(candidate drtmodel.Ride) (drtmodel.Ride, error) {
	n := candidate.Degree
	remaining := make([]float64, n)
	maxCost := make([]float64, n)

	for i := 0; i < n; i++ {
		req := candidate.Requests[i]
		ttDelta := math.Max(0, candidate.PassengerTravelTime[i]-req.DirectTravelTime)
		distDelta := math.Max(0, candidate.PassengerDistance[i]-req.DirectDistance)
		cost := math.Abs(v.weights.UTime)*ttDelta + math.Abs(v.weights.UDist)*distDelta

		if cost > req.Budget+v.epsilon {
			return drtmodel.Ride{}, ErrBudgetExceeded
		}
		maxCost[i] = cost
		remaining[i] = req.Budget - cost
	}

	out := candidate
	out.RemainingBudget = remaining
	out.MaxCost = maxCost
	return out, nil
}

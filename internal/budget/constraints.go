// Package budget converts a per-trip utility budget into a maximum
// additional in-vehicle time and admits or rejects finalized ride
// candidates against that budget (§4.4).
package budget

import "math"

// ScoringWeights are the opaque scalars the demand preprocessor uses to
// price travel time and distance into utility units. The core treats them
// as constants supplied at construction; it never derives them.
type ScoringWeights struct {
	UTime float64
	UDist float64
	// AvgSpeed converts a distance budget component into time units
	// (meters/second).
	AvgSpeed float64
}

// ConstraintsCalculator converts a utility budget into a maximum detour
// time, intersected with the configuration's absolute caps (§4.4).
type ConstraintsCalculator struct {
	weights          ScoringWeights
	maxDetourFactor  float64
	maxAbsoluteDetour float64 // 0 means unset (no absolute cap)
}

// NewConstraintsCalculator builds a calculator. maxAbsoluteDetour <= 0
// means "unset" (§6: the option is optional).
func NewConstraintsCalculator(weights ScoringWeights, maxDetourFactor, maxAbsoluteDetour float64) ConstraintsCalculator {
	return ConstraintsCalculator{
		weights:           weights,
		maxDetourFactor:   maxDetourFactor,
		maxAbsoluteDetour: maxAbsoluteDetour,
	}
}

// MaxDetourTime computes the maximum additional in-vehicle time a budget
// affords, intersected with the factor-derived and (if set) absolute caps
// (§4.4).
func (c ConstraintsCalculator) MaxDetourTime(budget, directTravelTime, directDistance float64) float64 {
	denom := math.Abs(c.weights.UTime) + math.Abs(c.weights.UDist)*c.weights.AvgSpeed
	detour := math.Inf(1)
	if denom > 0 {
		detour = budget / denom
	}

	factorCap := c.maxDetourFactor * directTravelTime
	if factorCap < detour {
		detour = factorCap
	}
	if c.maxAbsoluteDetour > 0 && c.maxAbsoluteDetour < detour {
		detour = c.maxAbsoluteDetour
	}
	if detour < 0 {
		detour = 0
	}
	return detour
}

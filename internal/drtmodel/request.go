// Package drtmodel holds the value types shared by every stage of the ride
// enumeration engine: requests, travel segments, and rides.
package drtmodel

import "math"

// DrtRequest is one agent's candidate trip for shared demand-responsive
// transport. It is immutable once constructed.
type DrtRequest struct {
	Index       int
	PaxID       int64
	GroupID     int64
	OriginLink  int64
	DestLink    int64
	RequestTime float64

	DirectTravelTime float64
	DirectDistance   float64

	MaxPositiveDelay float64
	MaxNegativeDelay float64

	PositiveDelayRelComponent float64
	NegativeDelayRelComponent float64

	MaxTravelTime float64

	// Budget is the utility the rider would gain by taking DRT over their
	// best baseline mode (§4.4, §8 scenario S1) — the ceiling the
	// BudgetValidator checks realized service cost against. It is an
	// opaque scalar in the same units as ConstraintsCalculator's weights.
	Budget float64
}

// EarliestDeparture is requestTime - maxNegativeDelay.
func (r DrtRequest) EarliestDeparture() float64 {
	return r.RequestTime - r.MaxNegativeDelay
}

// LatestDeparture is requestTime + maxPositiveDelay.
func (r DrtRequest) LatestDeparture() float64 {
	return r.RequestTime + r.MaxPositiveDelay
}

// Valid checks the invariants from spec §3. It does not check cross-request
// invariants (e.g. index uniqueness); that is the loader's responsibility.
func (r DrtRequest) Valid() bool {
	if !finite(r.RequestTime) || !finite(r.DirectTravelTime) || !finite(r.DirectDistance) {
		return false
	}
	if !finite(r.MaxPositiveDelay) || !finite(r.MaxNegativeDelay) || !finite(r.MaxTravelTime) {
		return false
	}
	if r.MaxPositiveDelay+r.MaxNegativeDelay < 0 {
		return false
	}
	if r.DirectTravelTime < 0 {
		return false
	}
	if r.MaxTravelTime < r.DirectTravelTime {
		return false
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

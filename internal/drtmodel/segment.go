package drtmodel

import "math"

// TravelSegment is a link-to-link travel metric produced by the network
// oracle: elapsed time, distance, and the signed opposite of generalized
// routing cost.
type TravelSegment struct {
	TravelTime     float64
	Distance       float64
	NetworkUtility float64
}

// Unreachable is the canonical sentinel for a segment the oracle could not
// route: +inf travel time and distance, -inf utility.
var Unreachable = TravelSegment{
	TravelTime:     math.Inf(1),
	Distance:       math.Inf(1),
	NetworkUtility: math.Inf(-1),
}

// IsReachable reports whether both travelTime and distance are finite.
func (s TravelSegment) IsReachable() bool {
	return !math.IsInf(s.TravelTime, 0) && !math.IsInf(s.Distance, 0) &&
		!math.IsNaN(s.TravelTime) && !math.IsNaN(s.Distance)
}

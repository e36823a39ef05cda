// Package ridebuild implements the combinatorial core of the ride
// enumeration engine: degree-1 construction, degree-2 FIFO/LIFO pair
// construction, the shareability graph, and degree-k extension (§4.5-§4.8).
package ridebuild

import (
	"drtpool/internal/budget"
	"drtpool/internal/drtmodel"
	"drtpool/internal/oracle"
)

// SingleRideBuilder constructs degree-1 candidates, one per request, and
// submits each to the budget validator (§4.5).
type SingleRideBuilder struct {
	oracleQ   oracle.NetworkOracle
	validator budget.Validator
}

// NewSingleRideBuilder wires a SingleRideBuilder to its collaborators.
func NewSingleRideBuilder(oracleQ oracle.NetworkOracle, validator budget.Validator) SingleRideBuilder {
	return SingleRideBuilder{oracleQ: oracleQ, validator: validator}
}

// Build constructs and validates every degree-1 ride, sequentially, in
// request order. Admitted rides keep index == request.Index (§4.5); this
// is the only builder phase that doesn't need a separate sort step since
// requests already carry dense, unique indices.
func (b SingleRideBuilder) Build(requests []drtmodel.DrtRequest) []drtmodel.Ride {
	admitted := make([]drtmodel.Ride, 0, len(requests))
	for _, req := range requests {
		seg := b.oracleQ.GetSegment(req.OriginLink, req.DestLink, req.RequestTime)
		if !seg.IsReachable() {
			continue
		}

		candidate := drtmodel.Ride{
			Index:                    req.Index,
			Degree:                   1,
			Kind:                     drtmodel.SINGLE,
			Requests:                 []drtmodel.DrtRequest{req},
			OriginsOrdered:           []int{req.Index},
			DestinationsOrdered:      []int{req.Index},
			PassengerTravelTime:      []float64{seg.TravelTime},
			PassengerDistance:        []float64{seg.Distance},
			PassengerNetworkUtility:  []float64{seg.NetworkUtility},
			Delay:                    []float64{0},
			Detour:                   []float64{seg.TravelTime - req.DirectTravelTime},
			ConnectionTravelTime:     []float64{seg.TravelTime},
			ConnectionDistance:       []float64{seg.Distance},
			ConnectionNetworkUtility: []float64{seg.NetworkUtility},
			StartTime:                req.RequestTime,
		}
		if seg.TravelTime > req.MaxTravelTime {
			continue
		}

		validated, err := b.validator.Validate(candidate)
		if err != nil {
			continue
		}
		validated.Index = req.Index
		admitted = append(admitted, validated)
	}
	return admitted
}

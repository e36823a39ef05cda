// Package enumeration implements the pure orchestrator that drives ride
// construction degree by degree and assigns the final, monotonic ride
// index sequence (§4.9).
package enumeration

import (
	"go.uber.org/zap"

	"drtpool/internal/budget"
	"drtpool/internal/drtmodel"
	"drtpool/internal/oracle"
	"drtpool/internal/ridebuild"
	"drtpool/internal/timefilter"
)

// Config is the subset of engine configuration the driver needs directly;
// the rest is already baked into what it is handed: the network bin size
// into the oracle, and the detour caps into each request's MaxTravelTime.
type Config struct {
	SearchHorizon    float64
	MaxPoolingDegree int
	// Epsilon is the configured numerical tolerance (§6), threaded into the
	// pair builder's and extender's shared delay optimizer.
	Epsilon float64
}

// Driver orchestrates SingleRideBuilder, PairBuilder, ShareabilityGraph,
// and RideExtender over a fixed request set (§4.9).
type Driver struct {
	oracleQ   oracle.NetworkOracle
	validator budget.Validator
	config    Config
	log       *zap.SugaredLogger
}

// New builds a Driver. log may be nil.
func New(oracleQ oracle.NetworkOracle, validator budget.Validator, config Config, log *zap.SugaredLogger) *Driver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Driver{oracleQ: oracleQ, validator: validator, config: config, log: log}
}

// Run executes the full enumeration: degree-1, degree-2 when
// maxPoolingDegree >= 2, then degree-3..maxPoolingDegree while extension
// remains productive (§4.9). The
// returned slice is the flat concatenation of every admitted ride, single
// first, then pair, then each higher degree in order — this is also
// already sorted by ascending index (§8 property 10).
func (d *Driver) Run(requests []drtmodel.DrtRequest) []drtmodel.Ride {
	singleBuilder := ridebuild.NewSingleRideBuilder(d.oracleQ, d.validator)
	singles := singleBuilder.Build(requests)
	d.log.Debugw("single rides admitted", "count", len(singles))

	var all []drtmodel.Ride
	all = append(all, singles...)

	if d.config.MaxPoolingDegree < 2 {
		return all
	}

	filter := timefilter.New(requests)
	pairBuilder := ridebuild.NewPairBuilder(d.oracleQ, filter, d.validator, d.config.SearchHorizon, d.config.Epsilon)
	pairs := pairBuilder.Build(requests, len(requests))
	d.log.Debugw("pair rides admitted", "count", len(pairs))
	all = append(all, pairs...)

	if d.config.MaxPoolingDegree < 3 || len(pairs) == 0 {
		return all
	}

	graph := ridebuild.BuildShareabilityGraph(pairs)
	extender := ridebuild.NewRideExtender(d.oracleQ, graph, d.validator, requests, d.config.Epsilon)

	degreeRides := pairs
	nextIndex := len(requests) + len(pairs)
	for k := 2; k < d.config.MaxPoolingDegree; k++ {
		extended := extender.Extend(degreeRides, nextIndex)
		d.log.Debugw("ride extension admitted", "fromDegree", k, "toDegree", k+1, "count", len(extended))
		if len(extended) == 0 {
			break
		}
		all = append(all, extended...)
		nextIndex += len(extended)
		degreeRides = extended
	}

	return all
}

// BuildRequestRideIndex derives request index -> admitted ride indices, a
// reverse view intentionally never stored on Ride or DrtRequest (§9):
// "if a reverse index is required downstream, build it as a derived
// structure after enumeration completes."
func BuildRequestRideIndex(rides []drtmodel.Ride) map[int][]int {
	index := make(map[int][]int)
	for _, r := range rides {
		for _, reqIdx := range r.RequestIndices() {
			index[reqIdx] = append(index[reqIdx], r.Index)
		}
	}
	return index
}

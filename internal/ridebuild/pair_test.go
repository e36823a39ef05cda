package ridebuild

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drtpool/internal/budget"
	"drtpool/internal/delay"
	"drtpool/internal/drtmodel"
	"drtpool/internal/timefilter"
)

// linearOracle places every link at a position on a single line (meters)
// and returns straight-line travel time/distance at a fixed speed. It
// never reports unreachable, which keeps pair-construction tests focused
// on the temporal/budget logic rather than routing plumbing.
type linearOracle struct {
	pos   map[int64]float64
	speed float64
}

func (o linearOracle) GetSegment(origin, dest int64, _ float64) drtmodel.TravelSegment {
	d := math.Abs(o.pos[dest] - o.pos[origin])
	return drtmodel.TravelSegment{TravelTime: d / o.speed, Distance: d, NetworkUtility: -d}
}

func newFixture() (linearOracle, *timefilter.TimeFilter, budget.Validator) {
	oracleQ := linearOracle{
		pos: map[int64]float64{
			0: 0,   // i origin
			1: 100, // j origin
			2: 300, // i dest
			3: 400, // j dest
		},
		speed: 10,
	}
	requests := []drtmodel.DrtRequest{
		{Index: 0, PaxID: 1, OriginLink: 0, DestLink: 2, RequestTime: 0, DirectTravelTime: 30, DirectDistance: 300, MaxTravelTime: 60, MaxPositiveDelay: 60, MaxNegativeDelay: 60, Budget: 1000},
		{Index: 1, PaxID: 2, OriginLink: 1, DestLink: 3, RequestTime: 5, DirectTravelTime: 30, DirectDistance: 300, MaxTravelTime: 60, MaxPositiveDelay: 60, MaxNegativeDelay: 60, Budget: 1000},
	}
	validator := budget.NewValidator(budget.ScoringWeights{UTime: 1, UDist: 0}, delay.DefaultEpsilon)
	return oracleQ, timefilter.New(requests), validator
}

func TestPairBuilderAdmitsFIFO(t *testing.T) {
	oracleQ, filter, validator := newFixture()
	b := NewPairBuilder(oracleQ, filter, validator, 600, delay.DefaultEpsilon)

	requests := []drtmodel.DrtRequest{
		{Index: 0, PaxID: 1, OriginLink: 0, DestLink: 2, RequestTime: 0, DirectTravelTime: 30, DirectDistance: 300, MaxTravelTime: 60, MaxPositiveDelay: 60, MaxNegativeDelay: 60, Budget: 1000},
		{Index: 1, PaxID: 2, OriginLink: 1, DestLink: 3, RequestTime: 5, DirectTravelTime: 30, DirectDistance: 300, MaxTravelTime: 60, MaxPositiveDelay: 60, MaxNegativeDelay: 60, Budget: 1000},
	}

	rides := b.Build(requests, 2)
	require.NotEmpty(t, rides)

	foundFIFO := false
	for i, r := range rides {
		assert.Equal(t, 2+i, r.Index, "indices must be dense and ordered starting at startIndex")
		if r.Kind == drtmodel.FIFO {
			foundFIFO = true
		}
	}
	assert.True(t, foundFIFO, "expected at least one admitted FIFO ride")
}

// directedOracle only knows the exact legs it is told about and reports
// everything else unreachable, so a builder that queries the wrong
// origin/destination pair for a leg gets caught immediately instead of
// silently falling back to a distance-symmetric straight line.
type directedOracle struct {
	legs map[[2]int64]drtmodel.TravelSegment
}

func (o directedOracle) GetSegment(origin, dest int64, _ float64) drtmodel.TravelSegment {
	if seg, ok := o.legs[[2]int64{origin, dest}]; ok {
		return seg
	}
	return drtmodel.Unreachable
}

// TestPairBuilderFIFOUsesCorrectLegDirection pins down §4.6's FIFO leg
// wiring: oo = i.origin->j.origin, od = j.origin->i.dest (not i.dest->j.origin),
// dd = i.dest->j.dest (not j.origin->j.dest). Reversing either leg makes the
// queried node pair unreachable under this fixture, which would fail the
// ride-admitted assertion below.
func TestPairBuilderFIFOUsesCorrectLegDirection(t *testing.T) {
	const iOrigin, jOrigin, iDest, jDest int64 = 10, 20, 30, 40
	oracleQ := directedOracle{legs: map[[2]int64]drtmodel.TravelSegment{
		{iOrigin, jOrigin}: {TravelTime: 5, Distance: 50, NetworkUtility: -50},
		{jOrigin, iDest}:   {TravelTime: 20, Distance: 200, NetworkUtility: -200},
		{iDest, jDest}:     {TravelTime: 5, Distance: 50, NetworkUtility: -50},
	}}
	requests := []drtmodel.DrtRequest{
		{Index: 0, PaxID: 1, OriginLink: iOrigin, DestLink: iDest, RequestTime: 0, DirectTravelTime: 25, DirectDistance: 250, MaxTravelTime: 60, MaxPositiveDelay: 60, MaxNegativeDelay: 60, Budget: 1000},
		{Index: 1, PaxID: 2, OriginLink: jOrigin, DestLink: jDest, RequestTime: 5, DirectTravelTime: 25, DirectDistance: 250, MaxTravelTime: 60, MaxPositiveDelay: 60, MaxNegativeDelay: 60, Budget: 1000},
	}
	validator := budget.NewValidator(budget.ScoringWeights{UTime: 1, UDist: 0}, delay.DefaultEpsilon)
	filter := timefilter.New(requests)
	b := NewPairBuilder(oracleQ, filter, validator, 600, delay.DefaultEpsilon)

	rides := b.Build(requests, 2)
	require.NotEmpty(t, rides, "FIFO candidate should be admitted when legs are queried in the correct direction")

	var fifo *drtmodel.Ride
	for i := range rides {
		if rides[i].Kind == drtmodel.FIFO {
			fifo = &rides[i]
		}
	}
	require.NotNil(t, fifo, "expected an admitted FIFO ride")
	assert.Equal(t, []float64{5, 20, 5}, fifo.ConnectionTravelTime)
}

func TestPairBuilderRejectsSamePaxID(t *testing.T) {
	oracleQ, _, validator := newFixture()
	requests := []drtmodel.DrtRequest{
		{Index: 0, PaxID: 9, OriginLink: 0, DestLink: 2, RequestTime: 0, DirectTravelTime: 30, DirectDistance: 300, MaxTravelTime: 60, MaxPositiveDelay: 60, MaxNegativeDelay: 60, Budget: 1000},
		{Index: 1, PaxID: 9, OriginLink: 1, DestLink: 3, RequestTime: 5, DirectTravelTime: 30, DirectDistance: 300, MaxTravelTime: 60, MaxPositiveDelay: 60, MaxNegativeDelay: 60, Budget: 1000},
	}
	filter := timefilter.New(requests)
	b := NewPairBuilder(oracleQ, filter, validator, 600, delay.DefaultEpsilon)

	rides := b.Build(requests, 2)
	assert.Empty(t, rides)
}

func TestPairBuilderRejectsDisjointTiming(t *testing.T) {
	oracleQ, _, validator := newFixture()
	requests := []drtmodel.DrtRequest{
		{Index: 0, PaxID: 1, OriginLink: 0, DestLink: 2, RequestTime: 0, DirectTravelTime: 30, DirectDistance: 300, MaxTravelTime: 60, MaxPositiveDelay: 60, MaxNegativeDelay: 60, Budget: 1000},
		{Index: 1, PaxID: 2, OriginLink: 1, DestLink: 3, RequestTime: 10_000, DirectTravelTime: 30, DirectDistance: 300, MaxTravelTime: 60, MaxPositiveDelay: 60, MaxNegativeDelay: 60, Budget: 1000},
	}
	filter := timefilter.New(requests)
	b := NewPairBuilder(oracleQ, filter, validator, 600, delay.DefaultEpsilon)

	rides := b.Build(requests, 2)
	assert.Empty(t, rides)
}

package ridebuild

import (
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"drtpool/internal/budget"
	"drtpool/internal/delay"
	"drtpool/internal/drtmodel"
	"drtpool/internal/oracle"
	"drtpool/internal/timefilter"
)

// pairCandidate is an in-flight degree-2 ride before sorting and
// validation; it carries the two participant original indices separately
// from the constructed Ride so the deterministic sort (§4.6) never has to
// re-derive them from Requests order.
type pairCandidate struct {
	reqI, reqJ int
	kind       drtmodel.Kind
	ride       drtmodel.Ride
}

// PairBuilder produces degree-2 FIFO/LIFO rides (§4.6).
type PairBuilder struct {
	oracleQ   oracle.NetworkOracle
	filter    *timefilter.TimeFilter
	validator budget.Validator
	optimizer delay.Optimizer
	horizon   float64
}

// NewPairBuilder wires a PairBuilder to its collaborators. horizon is the
// configured search horizon (seconds, §6); epsilon is the configured
// numerical tolerance (§6) shared with the delay optimizer.
func NewPairBuilder(oracleQ oracle.NetworkOracle, filter *timefilter.TimeFilter, validator budget.Validator, horizon, epsilon float64) PairBuilder {
	return PairBuilder{
		oracleQ:   oracleQ,
		filter:    filter,
		validator: validator,
		optimizer: delay.New(epsilon),
		horizon:   horizon,
	}
}

// Build runs the full pair-construction phase: parallel candidate
// collection over outer positions, a deterministic content sort, then
// strictly sequential validation and index assignment starting at
// startIndex (§4.6, §4.9 — single rides occupy [0, |requests|)). This
// phase boundary is load-bearing: fusing validation into the parallel
// collection would make ride indices depend on goroutine scheduling.
func (b PairBuilder) Build(requests []drtmodel.DrtRequest, startIndex int) []drtmodel.Ride {
	byIndex := make(map[int]drtmodel.DrtRequest, len(requests))
	for _, r := range requests {
		byIndex[r.Index] = r
	}

	ordered := b.filter.OrderedIndices()
	collected := make([][]pairCandidate, len(ordered))

	g := new(errgroup.Group)
	g.SetLimit(maxWorkers())
	for w, i := range ordered {
		w, i := w, i
		g.Go(func() error {
			collected[w] = b.collectForOuter(i, byIndex)
			return nil
		})
	}
	_ = g.Wait() // collectForOuter never returns an error

	flat := make([]pairCandidate, 0, len(ordered))
	for _, local := range collected {
		flat = append(flat, local...)
	}

	sort.Slice(flat, func(a, b2 int) bool {
		if flat[a].reqI != flat[b2].reqI {
			return flat[a].reqI < flat[b2].reqI
		}
		if flat[a].reqJ != flat[b2].reqJ {
			return flat[a].reqJ < flat[b2].reqJ
		}
		return flat[a].kind < flat[b2].kind // FIFO(1) < LIFO(2)
	})

	admitted := make([]drtmodel.Ride, 0, len(flat))
	nextIndex := startIndex
	for _, cand := range flat {
		validated, err := b.validator.Validate(cand.ride)
		if err != nil {
			continue
		}
		validated.Index = nextIndex
		nextIndex++
		admitted = append(admitted, validated)
	}
	return admitted
}

// collectForOuter runs the inner loop of §4.6 for one outer request i,
// returning every feasible FIFO/LIFO candidate with j later than i in time
// order. It touches only its own slice of output, so it is safe to run
// concurrently with collectForOuter calls for other outer positions.
func (b PairBuilder) collectForOuter(i int, byIndex map[int]drtmodel.DrtRequest) []pairCandidate {
	reqI := byIndex[i]
	var out []pairCandidate

	for _, j := range b.filter.FindLaterCandidatesInHorizon(i, b.horizon) {
		reqJ := byIndex[j]
		if reqI.PaxID == reqJ.PaxID {
			continue
		}
		if !quickTemporalReject(reqI, reqJ) {
			continue
		}

		oo := b.oracleQ.GetSegment(reqI.OriginLink, reqJ.OriginLink, reqI.RequestTime)
		if !oo.IsReachable() {
			continue
		}
		if !tightTemporalReject(reqI, reqJ, oo.TravelTime) {
			continue
		}

		if cand, ok := b.buildFIFO(reqI, reqJ, oo); ok {
			out = append(out, cand)
		}
		if cand, ok := b.buildLIFO(reqI, reqJ, oo); ok {
			out = append(out, cand)
		}
	}
	return out
}

// quickTemporalReject implements the pre-oo temporal feasibility check
// (§4.6); both directions must hold or the pair is rejected before any
// routing call.
func quickTemporalReject(i, j drtmodel.DrtRequest) bool {
	if j.LatestDeparture() < i.EarliestDeparture() {
		return false
	}
	if j.EarliestDeparture() > i.LatestDeparture()+i.DirectTravelTime {
		return false
	}
	return true
}

// tightTemporalReject is the post-oo temporal check (§4.6).
func tightTemporalReject(i, j drtmodel.DrtRequest, ooTravelTime float64) bool {
	if i.LatestDeparture()+ooTravelTime < j.EarliestDeparture() {
		return false
	}
	if i.EarliestDeparture()+ooTravelTime > j.LatestDeparture() {
		return false
	}
	return true
}

// effectiveAllowance computes a passenger's effective positive/negative
// delay allowance once a detour has consumed part of their flexibility:
// the raw allowance minus the detour itself, minus the portion of the
// "relative" component that the detour has already claimed. The relative
// component is reclaimed in proportion to how much of the passenger's
// full detour budget (maxTravelTime - directTravelTime) the realized
// detour has used; it never goes negative.
func effectiveAllowance(maxAllowance, relComponent, detour, maxDetourBudget float64) float64 {
	reclaimed := 0.0
	if maxDetourBudget > 0 {
		frac := detour / maxDetourBudget
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		reclaimed = relComponent * frac
	}
	eff := maxAllowance - detour - reclaimed
	if eff < 0 {
		return 0
	}
	return eff
}

func (b PairBuilder) buildFIFO(i, j drtmodel.DrtRequest, oo drtmodel.TravelSegment) (pairCandidate, bool) {
	od := b.oracleQ.GetSegment(j.OriginLink, i.DestLink, i.RequestTime+oo.TravelTime)
	if !od.IsReachable() {
		return pairCandidate{}, false
	}
	ddArrival := i.RequestTime + oo.TravelTime + od.TravelTime
	dd := b.oracleQ.GetSegment(i.DestLink, j.DestLink, ddArrival)
	if !dd.IsReachable() {
		return pairCandidate{}, false
	}

	pttI := math.Max(oo.TravelTime+od.TravelTime, i.DirectTravelTime)
	pttJ := math.Max(od.TravelTime+dd.TravelTime, j.DirectTravelTime)
	if pttI > i.MaxTravelTime || pttJ > j.MaxTravelTime {
		return pairCandidate{}, false
	}

	detourI := pttI - i.DirectTravelTime
	detourJ := pttJ - j.DirectTravelTime

	maxPos := []float64{
		effectiveAllowance(i.MaxPositiveDelay, i.PositiveDelayRelComponent, detourI, i.MaxTravelTime-i.DirectTravelTime),
		effectiveAllowance(j.MaxPositiveDelay, j.PositiveDelayRelComponent, detourJ, j.MaxTravelTime-j.DirectTravelTime),
	}
	maxNeg := []float64{
		effectiveAllowance(i.MaxNegativeDelay, i.NegativeDelayRelComponent, detourI, i.MaxTravelTime-i.DirectTravelTime),
		effectiveAllowance(j.MaxNegativeDelay, j.NegativeDelayRelComponent, detourJ, j.MaxTravelTime-j.DirectTravelTime),
	}
	initialDelay := []float64{0, i.RequestTime + oo.TravelTime - j.RequestTime}

	adjusted, ok := b.optimizer.Solve(initialDelay, maxPos, maxNeg)
	if !ok {
		return pairCandidate{}, false
	}

	ride := drtmodel.Ride{
		Degree:                   2,
		Kind:                     drtmodel.FIFO,
		Requests:                 []drtmodel.DrtRequest{i, j},
		OriginsOrdered:           []int{i.Index, j.Index},
		DestinationsOrdered:      []int{i.Index, j.Index},
		PassengerTravelTime:      []float64{pttI, pttJ},
		PassengerDistance:        []float64{oo.Distance + od.Distance, od.Distance + dd.Distance},
		PassengerNetworkUtility:  []float64{oo.NetworkUtility + od.NetworkUtility, od.NetworkUtility + dd.NetworkUtility},
		Delay:                    adjusted,
		Detour:                   []float64{detourI, detourJ},
		ConnectionTravelTime:     []float64{oo.TravelTime, od.TravelTime, dd.TravelTime},
		ConnectionDistance:       []float64{oo.Distance, od.Distance, dd.Distance},
		ConnectionNetworkUtility: []float64{oo.NetworkUtility, od.NetworkUtility, dd.NetworkUtility},
		StartTime:                i.RequestTime,
	}
	return pairCandidate{reqI: i.Index, reqJ: j.Index, kind: drtmodel.FIFO, ride: ride}, true
}

func (b PairBuilder) buildLIFO(i, j drtmodel.DrtRequest, oo drtmodel.TravelSegment) (pairCandidate, bool) {
	oj := b.oracleQ.GetSegment(j.OriginLink, j.DestLink, i.RequestTime+oo.TravelTime)
	if !oj.IsReachable() {
		return pairCandidate{}, false
	}
	jdDeparture := i.RequestTime + oo.TravelTime + oj.TravelTime
	jd := b.oracleQ.GetSegment(j.DestLink, i.DestLink, jdDeparture)
	if !jd.IsReachable() {
		return pairCandidate{}, false
	}

	pttI := math.Max(oo.TravelTime+oj.TravelTime+jd.TravelTime, i.DirectTravelTime)
	pttJ := math.Max(oj.TravelTime, j.DirectTravelTime)
	if pttI > i.MaxTravelTime || pttJ > j.MaxTravelTime {
		return pairCandidate{}, false
	}

	detourI := pttI - i.DirectTravelTime
	detourJ := pttJ - j.DirectTravelTime

	maxPos := []float64{
		effectiveAllowance(i.MaxPositiveDelay, i.PositiveDelayRelComponent, detourI, i.MaxTravelTime-i.DirectTravelTime),
		effectiveAllowance(j.MaxPositiveDelay, j.PositiveDelayRelComponent, detourJ, j.MaxTravelTime-j.DirectTravelTime),
	}
	maxNeg := []float64{
		effectiveAllowance(i.MaxNegativeDelay, i.NegativeDelayRelComponent, detourI, i.MaxTravelTime-i.DirectTravelTime),
		effectiveAllowance(j.MaxNegativeDelay, j.NegativeDelayRelComponent, detourJ, j.MaxTravelTime-j.DirectTravelTime),
	}
	initialDelay := []float64{0, i.RequestTime + oo.TravelTime - j.RequestTime}

	adjusted, ok := b.optimizer.Solve(initialDelay, maxPos, maxNeg)
	if !ok {
		return pairCandidate{}, false
	}

	ride := drtmodel.Ride{
		Degree:                   2,
		Kind:                     drtmodel.LIFO,
		Requests:                 []drtmodel.DrtRequest{i, j},
		OriginsOrdered:           []int{i.Index, j.Index},
		DestinationsOrdered:      []int{j.Index, i.Index},
		PassengerTravelTime:      []float64{pttI, pttJ},
		PassengerDistance:        []float64{oo.Distance + oj.Distance + jd.Distance, oj.Distance},
		PassengerNetworkUtility:  []float64{oo.NetworkUtility + oj.NetworkUtility + jd.NetworkUtility, oj.NetworkUtility},
		Delay:                    adjusted,
		Detour:                   []float64{detourI, detourJ},
		ConnectionTravelTime:     []float64{oo.TravelTime, oj.TravelTime, jd.TravelTime},
		ConnectionDistance:       []float64{oo.Distance, oj.Distance, jd.Distance},
		ConnectionNetworkUtility: []float64{oo.NetworkUtility, oj.NetworkUtility, jd.NetworkUtility},
		StartTime:                i.RequestTime,
	}
	return pairCandidate{reqI: i.Index, reqJ: j.Index, kind: drtmodel.LIFO, ride: ride}, true
}

// maxWorkers bounds the parallel candidate-collection fan-out. It is a
// fixed constant rather than a config option: the phase is CPU-bound and
// the result is independent of worker count by construction (§5, §8
// property 1), so there is nothing for a caller to tune correctness-wise.
func maxWorkers() int {
	return 8
}

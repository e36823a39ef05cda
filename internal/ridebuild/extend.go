package ridebuild

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"drtpool/internal/budget"
	"drtpool/internal/delay"
	"drtpool/internal/drtmodel"
	"drtpool/internal/oracle"
)

// extCandidate is an in-flight degree-(k+1) ride before dedup, sort, and
// validation.
type extCandidate struct {
	sortKey string // sorted participant indices, zero-padded so string order is lexicographic index order (§4.8)
	dedupKey string // (sorted participants, pickup perm, dropoff perm) (§4.8 step 4)
	ride    drtmodel.Ride
}

// RideExtender drives degree k -> k+1 expansion, constrained by the
// shareability graph built from the finalized degree-2 set (§4.8).
type RideExtender struct {
	oracleQ   oracle.NetworkOracle
	graph     *ShareabilityGraph
	validator budget.Validator
	optimizer delay.Optimizer
	byIndex   map[int]drtmodel.DrtRequest
}

// NewRideExtender wires a RideExtender to its collaborators. epsilon is the
// configured numerical tolerance (§6) shared with the delay optimizer.
func NewRideExtender(oracleQ oracle.NetworkOracle, graph *ShareabilityGraph, validator budget.Validator, requests []drtmodel.DrtRequest, epsilon float64) RideExtender {
	byIndex := make(map[int]drtmodel.DrtRequest, len(requests))
	for _, r := range requests {
		byIndex[r.Index] = r
	}
	return RideExtender{
		oracleQ:   oracleQ,
		graph:     graph,
		validator: validator,
		optimizer: delay.New(epsilon),
		byIndex:   byIndex,
	}
}

// Extend produces every admissible degree-(k+1) ride reachable from
// baseRides (all degree k), following the same bulk-synchronous phase
// boundary as the pair builder: parallel candidate collection per base
// ride, then a single-threaded dedup+sort+validate+index pass.
func (e RideExtender) Extend(baseRides []drtmodel.Ride, startIndex int) []drtmodel.Ride {
	collected := make([][]extCandidate, len(baseRides))

	g := new(errgroup.Group)
	g.SetLimit(maxWorkers())
	for w, base := range baseRides {
		w, base := w, base
		g.Go(func() error {
			collected[w] = e.extendOne(base)
			return nil
		})
	}
	_ = g.Wait() // extendOne never returns an error

	seen := make(map[string]bool)
	flat := make([]extCandidate, 0)
	for _, local := range collected {
		for _, c := range local {
			if seen[c.dedupKey] {
				continue
			}
			seen[c.dedupKey] = true
			flat = append(flat, c)
		}
	}

	sort.Slice(flat, func(a, b int) bool { return flat[a].sortKey < flat[b].sortKey })

	admitted := make([]drtmodel.Ride, 0, len(flat))
	nextIndex := startIndex
	for _, cand := range flat {
		validated, err := e.validator.Validate(cand.ride)
		if err != nil {
			continue
		}
		validated.Index = nextIndex
		nextIndex++
		admitted = append(admitted, validated)
	}
	return admitted
}

// extendOne tries every admissible extension of one base ride (§4.8 steps
// 1-3), returning every feasible (pre-validation) candidate.
func (e RideExtender) extendOne(base drtmodel.Ride) []extCandidate {
	participants := base.RequestIndices()
	candidateQs := e.admissibleExtensions(participants)

	var out []extCandidate
	for _, q := range candidateQs {
		for _, branch := range e.positionBranches(base, participants, q) {
			if cand, ok := e.buildExtension(base, q, branch.pickupPos, branch.dropoffPos); ok {
				out = append(out, cand)
			}
		}
	}
	return out
}

// admissibleExtensions implements §4.8 step 1: q is admissible iff every
// participant in P has at least one shareability edge to q, q is not
// already in P, and q's paxId doesn't collide with any participant's.
func (e RideExtender) admissibleExtensions(participants []int) []int {
	if len(participants) == 0 {
		return nil
	}
	inP := make(map[int]bool, len(participants))
	paxInP := make(map[int64]bool, len(participants))
	for _, p := range participants {
		inP[p] = true
		paxInP[e.byIndex[p].PaxID] = true
	}

	counts := make(map[int]int)
	for _, p := range participants {
		// A pair may carry up to two edges (one FIFO, one LIFO); dedup per
		// participant so a double edge doesn't overcount connectivity.
		seen := make(map[int]bool)
		for _, edge := range e.graph.Neighbors(p) {
			q := edge.Other
			if inP[q] || seen[q] {
				continue
			}
			seen[q] = true
			counts[q]++
		}
	}

	var out []int
	for q, c := range counts {
		if c != len(participants) {
			continue
		}
		if paxInP[e.byIndex[q].PaxID] {
			continue
		}
		out = append(out, q)
	}
	sort.Ints(out)
	return out
}

type positionBranch struct {
	pickupPos, dropoffPos int
}

// positionBranches implements §4.8 step 2: for each way of resolving the
// FIFO/LIFO edge between q and every existing participant, derive a
// single consistent (pickup-insertion, dropoff-insertion) position pair,
// or discard the branch if no consistent insertion point exists. When a
// pair (p_i, q) carries both a FIFO and a LIFO edge, both are tried as
// independent branches.
func (e RideExtender) positionBranches(base drtmodel.Ride, participants []int, q int) []positionBranch {
	pickupPos := make(map[int]int, len(participants))
	for pos, p := range base.OriginsOrdered {
		pickupPos[p] = pos
	}
	dropoffPos := make(map[int]int, len(participants))
	for pos, p := range base.DestinationsOrdered {
		dropoffPos[p] = pos
	}

	// choices[i] is the list of (pickupBefore, dropoffBefore) options for
	// participants[i], one per edge between it and q.
	choices := make([][]struct{ pickupBefore, dropoffBefore bool }, len(participants))
	for i, p := range participants {
		edges := e.graph.EdgesBetween(p, q)
		for _, edge := range edges {
			pb, db := edgeConstraint(e.byIndex[p], e.byIndex[q], edge.Kind)
			choices[i] = append(choices[i], struct{ pickupBefore, dropoffBefore bool }{pb, db})
		}
		if len(choices[i]) == 0 {
			return nil // should not happen: admissibleExtensions guarantees >=1 edge
		}
	}

	var branches []positionBranch
	var walk func(i int, pickupBefore, dropoffBefore map[int]bool)
	walk = func(i int, pickupBefore, dropoffBefore map[int]bool) {
		if i == len(participants) {
			if pp, dp, ok := resolveInsertion(participants, pickupPos, dropoffPos, pickupBefore, dropoffBefore); ok {
				branches = append(branches, positionBranch{pickupPos: pp, dropoffPos: dp})
			}
			return
		}
		p := participants[i]
		for _, choice := range choices[i] {
			pickupBefore[p] = choice.pickupBefore
			dropoffBefore[p] = choice.dropoffBefore
			walk(i+1, pickupBefore, dropoffBefore)
		}
	}
	walk(0, make(map[int]bool), make(map[int]bool))
	return branches
}

// edgeConstraint derives, for a shareability edge of the given kind
// between p and q, whether q's pickup/dropoff must precede p's. The
// earlier-time request of a pair is always picked up first (§4.6); FIFO
// keeps that same relative order at dropoff, LIFO reverses it.
func edgeConstraint(p, q drtmodel.DrtRequest, kind drtmodel.Kind) (pickupBeforeP, dropoffBeforeP bool) {
	qIsEarlier := q.RequestTime < p.RequestTime
	pickupBeforeP = qIsEarlier
	if kind == drtmodel.FIFO {
		dropoffBeforeP = qIsEarlier
	} else { // LIFO: dropoff order is the reverse of pickup order
		dropoffBeforeP = !qIsEarlier
	}
	return pickupBeforeP, dropoffBeforeP
}

// resolveInsertion checks that the per-participant "q before p" booleans
// are monotonic with respect to the existing pickup/dropoff order (i.e.
// form a single cut point), and if so returns the insertion positions.
func resolveInsertion(participants []int, pickupPos, dropoffPos map[int]int, pickupBefore, dropoffBefore map[int]bool) (int, int, bool) {
	pp, ok := cutPoint(participants, pickupPos, pickupBefore)
	if !ok {
		return 0, 0, false
	}
	dp, ok := cutPoint(participants, dropoffPos, dropoffBefore)
	if !ok {
		return 0, 0, false
	}
	return pp, dp, true
}

// cutPoint finds the insertion index t such that every participant with
// pos < t has before[p] == false and every participant with pos >= t has
// before[p] == true, i.e. q's required position is unambiguous given the
// existing total order. Returns ok=false if no such t exists.
func cutPoint(participants []int, pos map[int]int, before map[int]bool) (int, bool) {
	n := len(participants)
	ordered := make([]int, n)
	copy(ordered, participants)
	sort.Slice(ordered, func(a, b int) bool { return pos[ordered[a]] < pos[ordered[b]] })

	cut := -1
	for i, p := range ordered {
		if before[p] {
			if cut == -1 {
				cut = i
			}
		} else if cut != -1 {
			return 0, false // a "before" participant precedes an "after" one: inconsistent
		}
	}
	if cut == -1 {
		return n, true
	}
	return cut, true
}

// buildExtension computes travel times, feasibility, and kind for one
// trial sequence (§4.8 step 3).
func (e RideExtender) buildExtension(base drtmodel.Ride, q, pickupPos, dropoffPos int) (extCandidate, bool) {
	newOrigins := insertAt(base.OriginsOrdered, pickupPos, q)
	newDest := insertAt(base.DestinationsOrdered, dropoffPos, q)

	nodeLinks := make([]int64, 0, 2*len(newOrigins))
	for _, p := range newOrigins {
		nodeLinks = append(nodeLinks, e.byIndex[p].OriginLink)
	}
	for _, p := range newDest {
		nodeLinks = append(nodeLinks, e.byIndex[p].DestLink)
	}

	start := e.byIndex[newOrigins[0]].RequestTime
	times := make([]float64, len(nodeLinks))
	times[0] = start
	legTT := make([]float64, len(nodeLinks)-1)
	legDist := make([]float64, len(nodeLinks)-1)
	legUtil := make([]float64, len(nodeLinks)-1)
	for i := 0; i < len(nodeLinks)-1; i++ {
		seg := e.oracleQ.GetSegment(nodeLinks[i], nodeLinks[i+1], times[i])
		if !seg.IsReachable() {
			return extCandidate{}, false
		}
		legTT[i] = seg.TravelTime
		legDist[i] = seg.Distance
		legUtil[i] = seg.NetworkUtility
		times[i+1] = times[i] + seg.TravelTime
	}

	originPos := make(map[int]int, len(newOrigins))
	for pos, p := range newOrigins {
		originPos[p] = pos
	}
	destPos := make(map[int]int, len(newDest))
	for pos, p := range newDest {
		destPos[p] = len(newOrigins) + pos
	}

	degree := len(newOrigins)
	requests := make([]drtmodel.DrtRequest, degree)
	ptt := make([]float64, degree)
	pdist := make([]float64, degree)
	putil := make([]float64, degree)
	detour := make([]float64, degree)
	initialDelay := make([]float64, degree)
	maxPos := make([]float64, degree)
	maxNeg := make([]float64, degree)

	for i, p := range newOrigins {
		req := e.byIndex[p]
		requests[i] = req
		oPos, dPos := originPos[p], destPos[p]

		travel := times[dPos] - times[oPos]
		if travel < req.DirectTravelTime {
			travel = req.DirectTravelTime
		}
		if travel > req.MaxTravelTime {
			return extCandidate{}, false
		}
		dist, util := sumRange(legDist, oPos, dPos), sumRange(legUtil, oPos, dPos)

		ptt[i] = travel
		pdist[i] = dist
		putil[i] = util
		detour[i] = travel - req.DirectTravelTime
		initialDelay[i] = times[oPos] - req.RequestTime
		detourBudget := req.MaxTravelTime - req.DirectTravelTime
		maxPos[i] = effectiveAllowance(req.MaxPositiveDelay, req.PositiveDelayRelComponent, detour[i], detourBudget)
		maxNeg[i] = effectiveAllowance(req.MaxNegativeDelay, req.NegativeDelayRelComponent, detour[i], detourBudget)
	}

	adjustedDelay, ok := e.optimizer.Solve(initialDelay, maxPos, maxNeg)
	if !ok {
		return extCandidate{}, false
	}

	ride := drtmodel.Ride{
		Degree:                   degree,
		Kind:                     drtmodel.ClassifyKind(newOrigins, newDest),
		Requests:                 requests,
		OriginsOrdered:           newOrigins,
		DestinationsOrdered:      newDest,
		PassengerTravelTime:      ptt,
		PassengerDistance:        pdist,
		PassengerNetworkUtility:  putil,
		Delay:                    adjustedDelay,
		Detour:                   detour,
		ConnectionTravelTime:     legTT,
		ConnectionDistance:       legDist,
		ConnectionNetworkUtility: legUtil,
		StartTime:                start,
	}

	sorted := append([]int{}, append(base.RequestIndices(), q)...)
	sort.Ints(sorted)
	return extCandidate{
		sortKey:  fmt.Sprintf("%010d", sorted),
		dedupKey: fmt.Sprintf("%v|%v|%v", sorted, newOrigins, newDest),
		ride:     ride,
	}, true
}

func sumRange(vals []float64, from, to int) float64 {
	sum := 0.0
	for i := from; i < to; i++ {
		sum += vals[i]
	}
	return sum
}

func insertAt(slice []int, pos, val int) []int {
	out := make([]int, 0, len(slice)+1)
	out = append(out, slice[:pos]...)
	out = append(out, val)
	out = append(out, slice[pos:]...)
	return out
}

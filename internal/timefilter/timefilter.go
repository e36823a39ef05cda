// Package timefilter provides temporal candidate pruning for pair search
// (§4.2): given a search horizon, which later requests could possibly pair
// with a given one by request time.
package timefilter

import (
	"sort"

	"drtpool/internal/drtmodel"
)

// TimeFilter holds an immutable, request-time-sorted permutation of a
// request list and answers horizon-bounded candidate queries against it.
// It is safe for concurrent read access: construction is the only
// mutation, and every query is a pure binary search.
type TimeFilter struct {
	// order[p] is the original request index occupying sorted position p.
	order []int
	// requestTime[p] is requests[order[p]].RequestTime, kept parallel to
	// order for cache-friendly binary search.
	requestTime []float64
	// reverse maps an original request index to its sorted position.
	reverse map[int]int
}

// New builds a TimeFilter over requests, sorted ascending by RequestTime
// (ties broken by original index, for determinism). requests is not
// retained beyond construction.
func New(requests []drtmodel.DrtRequest) *TimeFilter {
	order := make([]int, len(requests))
	for i := range requests {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ta, tb := requests[order[a]].RequestTime, requests[order[b]].RequestTime
		if ta != tb {
			return ta < tb
		}
		return requests[order[a]].Index < requests[order[b]].Index
	})

	requestTime := make([]float64, len(order))
	reverse := make(map[int]int, len(order))
	for p, idx := range order {
		requestTime[p] = requests[idx].RequestTime
		reverse[idx] = p
	}
	return &TimeFilter{order: order, requestTime: requestTime, reverse: reverse}
}

// FindCandidatesInHorizon returns every original request index j != i whose
// requestTime lies within [T(i)-H, T(i)+H], sorted ascending by original
// index (§4.2). i is an original request index, not a sorted position; the
// filter never leaks its internal positional indices to callers.
func (f *TimeFilter) FindCandidatesInHorizon(i int, horizon float64) []int {
	pos := f.positionOf(i)
	if pos < 0 {
		return nil
	}
	center := f.requestTime[pos]
	lo := center - horizon
	hi := center + horizon

	// Binary search the sorted requestTime slice for the window bounds.
	start := sort.Search(len(f.requestTime), func(p int) bool {
		return f.requestTime[p] >= lo
	})
	end := sort.Search(len(f.requestTime), func(p int) bool {
		return f.requestTime[p] > hi
	})

	out := make([]int, 0, end-start)
	for p := start; p < end; p++ {
		if f.order[p] == i {
			continue
		}
		out = append(out, f.order[p])
	}
	sort.Ints(out)
	return out
}

// OrderedIndices returns every original request index in ascending
// request-time order, the sequence the pair builder's outer loop walks
// (§4.6: "for each lower request position p in the time-sorted order").
func (f *TimeFilter) OrderedIndices() []int {
	out := make([]int, len(f.order))
	copy(out, f.order)
	return out
}

// FindLaterCandidatesInHorizon is FindCandidatesInHorizon restricted to
// partners that occur strictly later in time-sorted order than i. This is
// how the pair builder's outer loop avoids visiting each unordered pair
// twice, without exposing sorted positions to the caller.
func (f *TimeFilter) FindLaterCandidatesInHorizon(i int, horizon float64) []int {
	pos := f.positionOf(i)
	if pos < 0 {
		return nil
	}
	all := f.FindCandidatesInHorizon(i, horizon)
	out := all[:0:0]
	for _, j := range all {
		if f.positionOf(j) > pos {
			out = append(out, j)
		}
	}
	return out
}

// positionOf translates an original request index to its sorted position.
func (f *TimeFilter) positionOf(i int) int {
	p, ok := f.reverse[i]
	if !ok {
		return -1
	}
	return p
}

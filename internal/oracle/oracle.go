// Package oracle implements the NetworkOracle capability (spec §4.1 / §6):
// link-to-link travel metrics with a bounded, time-binned, thread-safe
// memoization layer in front of an injected least-cost path routine.
package oracle

import (
	"go.uber.org/zap"

	"drtpool/internal/drtmodel"
)

// Link is the minimal terminal-link metadata the oracle needs to augment a
// routed path with free-flow traversal of its endpoints (§4.1).
type Link struct {
	ID        int64
	StartNode int64
	EndNode   int64
	Length    float64 // meters
	FreeSpeed float64 // meters/second
}

// LinkLookup resolves opaque link identifiers to their terminal metadata.
// Unknown ids are reported via ok=false, never an error (§4.1: "unknown
// link id ⇒ unreachable sentinel; never raises").
type LinkLookup interface {
	Link(linkID int64) (Link, bool)
}

// PathFinder is the injected least-cost path routine (an external
// collaborator; this package never implements routing itself). A failed or
// empty path is reported via ok=false, never an error — the oracle
// downgrades any routing fault to the unreachable sentinel (§7).
type PathFinder interface {
	LeastCostPath(fromNode, toNode int64, departureTime float64) (travelTime, distance, cost float64, ok bool)
}

// NetworkOracle is the capability consumed by every other component in the
// engine: a single pure(-ish, modulo caching) query from an origin link to a
// destination link at a departure time.
type NetworkOracle interface {
	GetSegment(originLinkID, destLinkID int64, departureTime float64) drtmodel.TravelSegment
}

// Oracle is the concrete NetworkOracle: an injected LinkLookup and
// PathFinder, fronted by a TravelSegmentCache.
type Oracle struct {
	links  LinkLookup
	router PathFinder
	cache  *TravelSegmentCache
	log    *zap.SugaredLogger
}

// New constructs an Oracle. log may be nil, in which case routing faults
// are silently downgraded without being logged.
func New(links LinkLookup, router PathFinder, cache *TravelSegmentCache, log *zap.SugaredLogger) *Oracle {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Oracle{links: links, router: router, cache: cache, log: log}
}

// GetSegment implements NetworkOracle per spec §4.1.
func (o *Oracle) GetSegment(originLinkID, destLinkID int64, departureTime float64) drtmodel.TravelSegment {
	if originLinkID == destLinkID {
		return drtmodel.TravelSegment{TravelTime: 0, Distance: 0, NetworkUtility: 0}
	}

	key := CacheKey{Origin: originLinkID, Dest: destLinkID, TimeBin: o.cache.TimeBin(departureTime)}
	if seg, ok := o.cache.Get(key); ok {
		return seg
	}

	seg := o.compute(originLinkID, destLinkID, departureTime)
	o.cache.Put(key, seg)
	return seg
}

func (o *Oracle) compute(originLinkID, destLinkID int64, departureTime float64) drtmodel.TravelSegment {
	origin, ok := o.links.Link(originLinkID)
	if !ok {
		return drtmodel.Unreachable
	}
	dest, ok := o.links.Link(destLinkID)
	if !ok {
		return drtmodel.Unreachable
	}

	travelTime, distance, cost, ok := o.router.LeastCostPath(origin.EndNode, dest.StartNode, departureTime)
	if !ok {
		o.log.Debugw("routing subsystem fault downgraded to unreachable",
			"originLink", originLinkID, "destLink", destLinkID, "departureTime", departureTime)
		return drtmodel.Unreachable
	}

	if origin.FreeSpeed > 0 {
		travelTime += origin.Length / origin.FreeSpeed
	}
	if dest.FreeSpeed > 0 {
		travelTime += dest.Length / dest.FreeSpeed
	}
	distance += origin.Length + dest.Length

	return drtmodel.TravelSegment{
		TravelTime:     travelTime,
		Distance:       distance,
		NetworkUtility: -cost,
	}
}

package oracle

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"

	"drtpool/internal/drtmodel"
)

// CacheKey is the (originLinkId, destLinkId, timeBin) triple the cache is
// keyed by (§4.1).
type CacheKey struct {
	Origin  int64
	Dest    int64
	TimeBin int64
}

// TravelSegmentCache is a bounded, thread-safe, time-binned memoization
// layer in front of the routing routine. Per §4.1/§5: two goroutines may
// race on a miss and both compute the same value; whichever Put lands last
// is the one subsequent readers see. This is safe because routing is a
// pure function of the key, so the race is idempotent.
type TravelSegmentCache struct {
	binSize float64
	entries *lru.Cache[CacheKey, drtmodel.TravelSegment]
}

// NewTravelSegmentCache builds a cache with the given time-bin width
// (seconds, > 0) and maximum entry count (bound). capacity <= 0 is
// rejected by the caller via config validation (spec §7); this
// constructor panics on a non-positive capacity since it is only ever
// called after that validation passes.
func NewTravelSegmentCache(binSize float64, capacity int) *TravelSegmentCache {
	if binSize <= 0 {
		panic("oracle: networkTimeBinSize must be > 0")
	}
	if capacity <= 0 {
		panic("oracle: cache capacity must be > 0")
	}
	c, err := lru.New[CacheKey, drtmodel.TravelSegment](capacity)
	if err != nil {
		panic(err) // only possible cause is a non-positive size, already guarded above
	}
	return &TravelSegmentCache{binSize: binSize, entries: c}
}

// TimeBin quantizes a departure time into the cache's bin width.
func (c *TravelSegmentCache) TimeBin(departureTime float64) int64 {
	return int64(math.Floor(departureTime / c.binSize))
}

// Get returns the cached segment for key, if present.
func (c *TravelSegmentCache) Get(key CacheKey) (drtmodel.TravelSegment, bool) {
	return c.entries.Get(key)
}

// Put stores seg under key. Concurrent Puts to the same key are safe and
// idempotent; the last one to land wins (§4.1/§5).
func (c *TravelSegmentCache) Put(key CacheKey, seg drtmodel.TravelSegment) {
	c.entries.Add(key, seg)
}

// Size returns the number of entries currently cached.
func (c *TravelSegmentCache) Size() int {
	return c.entries.Len()
}

// Clear empties the cache.
func (c *TravelSegmentCache) Clear() {
	c.entries.Purge()
}

// Entries returns a snapshot of every cached (key, segment) pair, in no
// particular order. Used by Dump.
func (c *TravelSegmentCache) Entries() map[CacheKey]drtmodel.TravelSegment {
	out := make(map[CacheKey]drtmodel.TravelSegment, c.entries.Len())
	for _, k := range c.entries.Keys() {
		if v, ok := c.entries.Peek(k); ok {
			out[k] = v
		}
	}
	return out
}

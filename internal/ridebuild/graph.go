package ridebuild

import "drtpool/internal/drtmodel"

// Edge is one shareability edge: a degree-2 ride viewed as an undirected
// connection between its two participant requests, tagged by kind and the
// ride's index (§3, §4.7).
type Edge struct {
	Other     int
	RideIndex int
	Kind      drtmodel.Kind
}

// ShareabilityGraph is the undirected multigraph over request indices
// built once the degree-2 ride set is finalized (§4.7). A pair may carry
// up to two edges — one FIFO, one LIFO. It is built single-threaded and
// is immutable and safe to share by reference among parallel workers
// thereafter.
type ShareabilityGraph struct {
	adjacency map[int][]Edge
}

// BuildShareabilityGraph constructs the graph from the finalized degree-2
// ride set. pairRides must contain only degree-2 rides.
func BuildShareabilityGraph(pairRides []drtmodel.Ride) *ShareabilityGraph {
	g := &ShareabilityGraph{adjacency: make(map[int][]Edge)}
	for _, r := range pairRides {
		if r.Degree != 2 {
			continue
		}
		a, b := r.Requests[0].Index, r.Requests[1].Index
		g.adjacency[a] = append(g.adjacency[a], Edge{Other: b, RideIndex: r.Index, Kind: r.Kind})
		g.adjacency[b] = append(g.adjacency[b], Edge{Other: a, RideIndex: r.Index, Kind: r.Kind})
	}
	return g
}

// Neighbors returns every edge incident to request r.
func (g *ShareabilityGraph) Neighbors(r int) []Edge {
	return g.adjacency[r]
}

// EdgesBetween returns up to two edges between a and b (one per kind).
func (g *ShareabilityGraph) EdgesBetween(a, b int) []Edge {
	var out []Edge
	for _, e := range g.adjacency[a] {
		if e.Other == b {
			out = append(out, e)
		}
	}
	return out
}

// Connected reports whether at least one edge links a and b. The extender
// derives admissibility (§4.8 step 1) from Neighbors instead.
func (g *ShareabilityGraph) Connected(a, b int) bool {
	for _, e := range g.adjacency[a] {
		if e.Other == b {
			return true
		}
	}
	return false
}

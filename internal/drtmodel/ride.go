package drtmodel

// Kind classifies the relationship between a ride's pickup and drop-off
// permutations.
type Kind int

const (
	// SINGLE is a degree-1 ride.
	SINGLE Kind = iota
	// FIFO rides pick up and drop off participants in the same order.
	FIFO
	// LIFO rides drop off participants in the reverse of pickup order.
	LIFO
	// MIXED is any degree-3+ ride that is neither FIFO nor LIFO.
	MIXED
)

func (k Kind) String() string {
	switch k {
	case SINGLE:
		return "SINGLE"
	case FIFO:
		return "FIFO"
	case LIFO:
		return "LIFO"
	case MIXED:
		return "MIXED"
	default:
		return "UNKNOWN"
	}
}

// ClassifyKind determines a ride's kind from its pickup and drop-off
// permutations (§3). Both slices must be permutations of the same request
// indices and have equal, positive length.
func ClassifyKind(originsOrdered, destinationsOrdered []int) Kind {
	n := len(originsOrdered)
	if n == 1 {
		return SINGLE
	}
	if samePermutation(originsOrdered, destinationsOrdered) {
		return FIFO
	}
	if isReverse(originsOrdered, destinationsOrdered) {
		return LIFO
	}
	return MIXED
}

func samePermutation(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isReverse(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	n := len(a)
	for i := range a {
		if a[i] != b[n-1-i] {
			return false
		}
	}
	return true
}

// Ride is a feasible servicing plan for 1..k requests by one vehicle, with a
// fully determined pickup/drop-off sequence and schedule. It is immutable
// once admitted by the budget validator.
type Ride struct {
	Index  int
	Degree int
	Kind   Kind

	// Requests holds the participant requests in the canonical order used
	// to build the ride (not necessarily pickup order).
	Requests []DrtRequest

	// OriginsOrdered and DestinationsOrdered are two permutations of
	// request indices (not slice positions) specifying pickup and
	// drop-off sequence.
	OriginsOrdered      []int
	DestinationsOrdered []int

	// Per-passenger arrays, aligned with Requests (length == Degree).
	PassengerTravelTime     []float64
	PassengerDistance       []float64
	PassengerNetworkUtility []float64
	Delay                   []float64
	Detour                  []float64

	// Per-leg arrays (length == 2*Degree-1).
	ConnectionTravelTime     []float64
	ConnectionDistance       []float64
	ConnectionNetworkUtility []float64

	StartTime float64

	// Populated by BudgetValidator.
	RemainingBudget []float64
	MaxCost         []float64
}

// RequestIndices returns the .Index field of every participant, in
// Requests order (not pickup order).
func (r Ride) RequestIndices() []int {
	out := make([]int, len(r.Requests))
	for i, req := range r.Requests {
		out[i] = req.Index
	}
	return out
}

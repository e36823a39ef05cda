package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxDetourTimeIntersectsFactorCap(t *testing.T) {
	c := NewConstraintsCalculator(ScoringWeights{UTime: 1, UDist: 0, AvgSpeed: 10}, 1.5, 0)
	// budget-derived detour is huge; factor cap (1.5*100=150) should win.
	got := c.MaxDetourTime(10_000, 100, 500)
	assert.InDelta(t, 150, got, 1e-9)
}

func TestMaxDetourTimeIntersectsAbsoluteCap(t *testing.T) {
	c := NewConstraintsCalculator(ScoringWeights{UTime: 1, UDist: 0, AvgSpeed: 10}, 10, 30)
	got := c.MaxDetourTime(10_000, 100, 500)
	assert.InDelta(t, 30, got, 1e-9)
}

func TestMaxDetourTimeNeverNegative(t *testing.T) {
	c := NewConstraintsCalculator(ScoringWeights{UTime: 1, UDist: 0, AvgSpeed: 10}, -1, 0)
	got := c.MaxDetourTime(100, 100, 500)
	assert.GreaterOrEqual(t, got, 0.0)
}

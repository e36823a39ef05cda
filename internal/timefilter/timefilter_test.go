package timefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drtpool/internal/drtmodel"
)

func reqAt(index int, t float64) drtmodel.DrtRequest {
	return drtmodel.DrtRequest{Index: index, RequestTime: t}
}

func TestFindCandidatesInHorizon(t *testing.T) {
	requests := []drtmodel.DrtRequest{
		reqAt(0, 0),
		reqAt(1, 300),
		reqAt(2, 10_000),
		reqAt(3, 590),
	}
	f := New(requests)

	got := f.FindCandidatesInHorizon(0, 600)
	assert.Equal(t, []int{1, 3}, got)

	got = f.FindCandidatesInHorizon(2, 600)
	assert.Empty(t, got)
}

func TestFindCandidatesInHorizonExcludesSelf(t *testing.T) {
	requests := []drtmodel.DrtRequest{reqAt(0, 0), reqAt(1, 0)}
	f := New(requests)
	got := f.FindCandidatesInHorizon(0, 100)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0])
}

func TestFindCandidatesInHorizonUnknownIndex(t *testing.T) {
	f := New([]drtmodel.DrtRequest{reqAt(0, 0)})
	assert.Nil(t, f.FindCandidatesInHorizon(99, 100))
}

func TestFindLaterCandidatesInHorizonExcludesEarlier(t *testing.T) {
	requests := []drtmodel.DrtRequest{reqAt(0, 100), reqAt(1, 0), reqAt(2, 200)}
	f := New(requests)
	got := f.FindLaterCandidatesInHorizon(0, 1000)
	assert.Equal(t, []int{2}, got)
}

func TestOrderedIndices(t *testing.T) {
	requests := []drtmodel.DrtRequest{reqAt(0, 100), reqAt(1, 0), reqAt(2, 200)}
	f := New(requests)
	assert.Equal(t, []int{1, 0, 2}, f.OrderedIndices())
}

package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drtpool/internal/delay"
	"drtpool/internal/drtmodel"
)

func TestValidateAdmitsWithinBudget(t *testing.T) {
	v := NewValidator(ScoringWeights{UTime: 1, UDist: 0}, delay.DefaultEpsilon)
	req := drtmodel.DrtRequest{Index: 0, DirectTravelTime: 60, DirectDistance: 1000, Budget: 30}
	candidate := drtmodel.Ride{
		Degree:               1,
		Requests:             []drtmodel.DrtRequest{req},
		PassengerTravelTime:  []float64{80}, // 20s detour, within 30 budget
		PassengerDistance:    []float64{1000},
	}

	got, err := v.Validate(candidate)
	require.NoError(t, err)
	require.Len(t, got.MaxCost, 1)
	assert.InDelta(t, 20, got.MaxCost[0], 1e-9)
	assert.InDelta(t, 10, got.RemainingBudget[0], 1e-9)
}

func TestValidateRejectsOverBudget(t *testing.T) {
	v := NewValidator(ScoringWeights{UTime: 1, UDist: 0}, delay.DefaultEpsilon)
	req := drtmodel.DrtRequest{Index: 0, DirectTravelTime: 60, DirectDistance: 1000, Budget: 5}
	candidate := drtmodel.Ride{
		Degree:              1,
		Requests:            []drtmodel.DrtRequest{req},
		PassengerTravelTime: []float64{80},
		PassengerDistance:   []float64{1000},
	}

	_, err := v.Validate(candidate)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
}

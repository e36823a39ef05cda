package ioformat

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drtpool/internal/drtmodel"
)

func TestWriteRequestsCSVFormat(t *testing.T) {
	var buf bytes.Buffer
	requests := []drtmodel.DrtRequest{
		{Index: 0, PaxID: 1, GroupID: 2, OriginLink: 10, DestLink: 20, RequestTime: 0, DirectTravelTime: 60, DirectDistance: 1000, MaxPositiveDelay: 60, MaxNegativeDelay: 60, PositiveDelayRelComponent: 10, NegativeDelayRelComponent: 10, MaxTravelTime: 120, Budget: 1},
	}
	require.NoError(t, WriteRequestsCSV(&buf, requests))
	assert.Contains(t, buf.String(), "0,1,2,10,20,0.00,60.00,1000.00,60.00,60.00,10.00,10.00,120.00,1.00")
}

func TestWriteRidesCSVArrayFormat(t *testing.T) {
	var buf bytes.Buffer
	rides := []drtmodel.Ride{
		{
			Index: 5, Degree: 2, Kind: drtmodel.FIFO,
			Requests:            []drtmodel.DrtRequest{{Index: 0}, {Index: 1}},
			OriginsOrdered:      []int{0, 1},
			DestinationsOrdered: []int{0, 1},
			PassengerTravelTime: []float64{30, 30},
			PassengerDistance:   []float64{300, 300},
			Delay:               []float64{0, 0.5},
			Detour:              []float64{0, 0},
			StartTime:           0,
		},
	}
	require.NoError(t, WriteRidesCSV(&buf, rides))
	assert.Contains(t, buf.String(), "[0 | 1]")
	assert.Contains(t, buf.String(), "FIFO")
}

func TestRequestsCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	requests := []drtmodel.DrtRequest{
		{Index: 3, PaxID: 7, GroupID: 1, OriginLink: 10, DestLink: 20, RequestTime: 12.5, DirectTravelTime: 60, DirectDistance: 1000, MaxPositiveDelay: 45, MaxNegativeDelay: 45, PositiveDelayRelComponent: 15, NegativeDelayRelComponent: 20, MaxTravelTime: 120, Budget: 2.5},
	}
	require.NoError(t, WriteRequestsCSV(&buf, requests))

	got, err := ReadRequestsCSV(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, requests[0].Index, got[0].Index)
	assert.Equal(t, requests[0].PaxID, got[0].PaxID)
	assert.InDelta(t, requests[0].RequestTime, got[0].RequestTime, 1e-6)
	assert.InDelta(t, requests[0].Budget, got[0].Budget, 1e-6)
	assert.InDelta(t, requests[0].PositiveDelayRelComponent, got[0].PositiveDelayRelComponent, 1e-6)
	assert.InDelta(t, requests[0].NegativeDelayRelComponent, got[0].NegativeDelayRelComponent, 1e-6)
}

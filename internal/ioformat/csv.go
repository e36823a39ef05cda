// Package ioformat renders Ride and DrtRequest tables as CSV for the
// downstream consumers described in §6: arrays are rendered
// "[v1 | v2 | v3]", floats are locale-independent dot-decimal with 2
// fractional digits. The enumeration core does not serialize itself
// (§1, §6); this package is the external encoder the spec describes.
package ioformat

import (
	"fmt"
	"io"
	"strings"

	"drtpool/internal/drtmodel"
)

// WriteRequestsCSV writes the request table, following the teacher's CSV
// writer idiom (fmt.Fprintf rows, no external CSV library).
func WriteRequestsCSV(w io.Writer, requests []drtmodel.DrtRequest) error {
	if _, err := fmt.Fprintln(w, "index,paxId,groupId,originLink,destLink,requestTime,directTravelTime,directDistance,maxPositiveDelay,maxNegativeDelay,positiveDelayRelComponent,negativeDelayRelComponent,maxTravelTime,budget"); err != nil {
		return err
	}
	for _, r := range requests {
		if _, err := fmt.Fprintf(w, "%d,%d,%d,%d,%d,%s,%s,%s,%s,%s,%s,%s,%s,%s\n",
			r.Index, r.PaxID, r.GroupID, r.OriginLink, r.DestLink,
			f2(r.RequestTime), f2(r.DirectTravelTime), f2(r.DirectDistance),
			f2(r.MaxPositiveDelay), f2(r.MaxNegativeDelay),
			f2(r.PositiveDelayRelComponent), f2(r.NegativeDelayRelComponent),
			f2(r.MaxTravelTime), f2(r.Budget),
		); err != nil {
			return err
		}
	}
	return nil
}

// WriteRidesCSV writes the admitted ride table.
func WriteRidesCSV(w io.Writer, rides []drtmodel.Ride) error {
	if _, err := fmt.Fprintln(w, "index,degree,kind,requestIndices,originsOrdered,destinationsOrdered,passengerTravelTime,passengerDistance,delay,detour,startTime"); err != nil {
		return err
	}
	for _, r := range rides {
		if _, err := fmt.Fprintf(w, "%d,%d,%s,%s,%s,%s,%s,%s,%s,%s,%s\n",
			r.Index, r.Degree, r.Kind.String(),
			intArray(r.RequestIndices()), intArray(r.OriginsOrdered), intArray(r.DestinationsOrdered),
			floatArray(r.PassengerTravelTime), floatArray(r.PassengerDistance),
			floatArray(r.Delay), floatArray(r.Detour), f2(r.StartTime),
		); err != nil {
			return err
		}
	}
	return nil
}

// f2 formats a float as locale-independent dot-decimal with 2 fractional
// digits (§6).
func f2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// intArray renders "[v1 | v2 | v3]" (§6).
func intArray(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "[" + strings.Join(parts, " | ") + "]"
}

// floatArray renders "[v1 | v2 | v3]" with 2-fractional-digit floats (§6).
func floatArray(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = f2(v)
	}
	return "[" + strings.Join(parts, " | ") + "]"
}

package oracle

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"drtpool/internal/drtmodel"
)

// cacheCSVHeader is the fixed column order for the persisted cache tuple
// (§4.1): origin,dest,timeBin,travelTime,distance,utility.
var cacheCSVHeader = []string{"origin", "dest", "timeBin", "travelTime", "distance", "utility"}

// Dump writes every reachable cache entry to w as CSV. Unreachable entries
// are omitted (§4.1), following the teacher's writer idiom
// (fmt.Fprintln header + fmt.Fprintf rows) rather than encoding/csv, since
// the schema is small and fixed.
func (c *TravelSegmentCache) Dump(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "origin,dest,timeBin,travelTime,distance,utility"); err != nil {
		return err
	}
	for key, seg := range c.Entries() {
		if !seg.IsReachable() {
			continue
		}
		if _, err := fmt.Fprintf(w, "%d,%d,%d,%s,%s,%s\n",
			key.Origin, key.Dest, key.TimeBin,
			formatFloat(seg.TravelTime), formatFloat(seg.Distance), formatFloat(seg.NetworkUtility),
		); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a CSV produced by Dump and inserts every row into the cache.
// It uses encoding/csv for parsing since, unlike the writer, no teacher
// precedent exists for reading CSV back in (the teacher project only ever
// writes CSV reports, never reads them).
func (c *TravelSegmentCache) Load(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(cacheCSVHeader)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("load travel segment cache: read header: %w", err)
	}
	for i, want := range cacheCSVHeader {
		if i >= len(header) || header[i] != want {
			return fmt.Errorf("load travel segment cache: unexpected header %v, want %v", header, cacheCSVHeader)
		}
	}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load travel segment cache: %w", err)
		}
		key, seg, err := parseCacheRow(record)
		if err != nil {
			return fmt.Errorf("load travel segment cache: %w", err)
		}
		c.Put(key, seg)
	}
}

func parseCacheRow(record []string) (CacheKey, drtmodel.TravelSegment, error) {
	origin, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return CacheKey{}, drtmodel.TravelSegment{}, fmt.Errorf("origin: %w", err)
	}
	dest, err := strconv.ParseInt(record[1], 10, 64)
	if err != nil {
		return CacheKey{}, drtmodel.TravelSegment{}, fmt.Errorf("dest: %w", err)
	}
	timeBin, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return CacheKey{}, drtmodel.TravelSegment{}, fmt.Errorf("timeBin: %w", err)
	}
	travelTime, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return CacheKey{}, drtmodel.TravelSegment{}, fmt.Errorf("travelTime: %w", err)
	}
	distance, err := strconv.ParseFloat(record[4], 64)
	if err != nil {
		return CacheKey{}, drtmodel.TravelSegment{}, fmt.Errorf("distance: %w", err)
	}
	utility, err := strconv.ParseFloat(record[5], 64)
	if err != nil {
		return CacheKey{}, drtmodel.TravelSegment{}, fmt.Errorf("utility: %w", err)
	}
	key := CacheKey{Origin: origin, Dest: dest, TimeBin: timeBin}
	seg := drtmodel.TravelSegment{TravelTime: travelTime, Distance: distance, NetworkUtility: utility}
	return key, seg, nil
}

// formatFloat renders a float with the shortest representation that
// round-trips exactly, so dump/load preserves reachable entries exactly
// (§8, property 9).
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

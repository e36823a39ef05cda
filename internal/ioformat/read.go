package ioformat

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"drtpool/internal/drtmodel"
	"drtpool/internal/oracle"
)

// ReadLinksCSV parses a network link table (id,startNode,endNode,length,
// freeSpeed) into a map keyed by link id, suitable for an
// oracle.LinkLookup implementation.
func ReadLinksCSV(r io.Reader) (map[int64]oracle.Link, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 5
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("read links: header: %w", err)
	}

	out := make(map[int64]oracle.Link)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read links: %w", err)
		}
		link, err := parseLinkRow(record)
		if err != nil {
			return nil, fmt.Errorf("read links: %w", err)
		}
		out[link.ID] = link
	}
}

func parseLinkRow(record []string) (oracle.Link, error) {
	id, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return oracle.Link{}, fmt.Errorf("id: %w", err)
	}
	startNode, err := strconv.ParseInt(record[1], 10, 64)
	if err != nil {
		return oracle.Link{}, fmt.Errorf("startNode: %w", err)
	}
	endNode, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return oracle.Link{}, fmt.Errorf("endNode: %w", err)
	}
	length, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return oracle.Link{}, fmt.Errorf("length: %w", err)
	}
	freeSpeed, err := strconv.ParseFloat(record[4], 64)
	if err != nil {
		return oracle.Link{}, fmt.Errorf("freeSpeed: %w", err)
	}
	return oracle.Link{ID: id, StartNode: startNode, EndNode: endNode, Length: length, FreeSpeed: freeSpeed}, nil
}

// ReadRequestsCSV parses a request table written by WriteRequestsCSV (or
// an equivalent upstream demand-preprocessor export) back into
// DrtRequest values, deriving earliestDeparture/latestDeparture on
// access rather than storing them.
func ReadRequestsCSV(r io.Reader) ([]drtmodel.DrtRequest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 14
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("read requests: header: %w", err)
	}

	var out []drtmodel.DrtRequest
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read requests: %w", err)
		}
		req, err := parseRequestRow(record)
		if err != nil {
			return nil, fmt.Errorf("read requests: %w", err)
		}
		out = append(out, req)
	}
}

func parseRequestRow(record []string) (drtmodel.DrtRequest, error) {
	index, err := strconv.Atoi(record[0])
	if err != nil {
		return drtmodel.DrtRequest{}, fmt.Errorf("index: %w", err)
	}
	paxID, err := strconv.ParseInt(record[1], 10, 64)
	if err != nil {
		return drtmodel.DrtRequest{}, fmt.Errorf("paxId: %w", err)
	}
	groupID, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return drtmodel.DrtRequest{}, fmt.Errorf("groupId: %w", err)
	}
	originLink, err := strconv.ParseInt(record[3], 10, 64)
	if err != nil {
		return drtmodel.DrtRequest{}, fmt.Errorf("originLink: %w", err)
	}
	destLink, err := strconv.ParseInt(record[4], 10, 64)
	if err != nil {
		return drtmodel.DrtRequest{}, fmt.Errorf("destLink: %w", err)
	}
	fields := make([]float64, 9)
	for i, col := range record[5:14] {
		fields[i], err = strconv.ParseFloat(col, 64)
		if err != nil {
			return drtmodel.DrtRequest{}, fmt.Errorf("field %d: %w", i+5, err)
		}
	}
	return drtmodel.DrtRequest{
		Index:                     index,
		PaxID:                     paxID,
		GroupID:                   groupID,
		OriginLink:                originLink,
		DestLink:                  destLink,
		RequestTime:               fields[0],
		DirectTravelTime:          fields[1],
		DirectDistance:            fields[2],
		MaxPositiveDelay:          fields[3],
		MaxNegativeDelay:          fields[4],
		PositiveDelayRelComponent: fields[5],
		NegativeDelayRelComponent: fields[6],
		MaxTravelTime:             fields[7],
		Budget:                    fields[8],
	}, nil
}

// Command enumerate is the headless batch driver for the ride
// enumeration engine: it loads a link table and a request table from
// CSV, runs the enumeration, and writes the admitted ride table to CSV
// (mirroring the teacher's own headless batch-driver shape).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"drtpool/config"
	"drtpool/internal/budget"
	"drtpool/internal/enumeration"
	"drtpool/internal/ioformat"
	"drtpool/internal/oracle"
)

func main() {
	flags := pflag.NewFlagSet("enumerate", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	linksPath := flags.String("links", "data/links.csv", "CSV file of network links (id,startNode,endNode,length,freeSpeed)")
	requestsPath := flags.String("requests", "data/requests.csv", "CSV file of DRT requests")
	outPath := flags.String("out", "rides.csv", "path to write the admitted ride table")
	cachePath := flags.String("cache-in", "", "optional travel segment cache CSV to preload")
	cacheOutPath := flags.String("cache-out", "", "optional path to dump the travel segment cache after the run")
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "enumerate:", err)
		os.Exit(2)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}

	links, err := loadLinks(*linksPath)
	if err != nil {
		log.Fatalw("failed to load links", "path", *linksPath, "error", err)
	}
	requestsFile, err := os.Open(*requestsPath)
	if err != nil {
		log.Fatalw("failed to open requests file", "path", *requestsPath, "error", err)
	}
	requests, err := ioformat.ReadRequestsCSV(requestsFile)
	requestsFile.Close()
	if err != nil {
		log.Fatalw("failed to read requests", "path", *requestsPath, "error", err)
	}

	cache := oracle.NewTravelSegmentCache(cfg.NetworkTimeBinSize, cfg.CacheCapacity)
	if *cachePath != "" {
		if f, err := os.Open(*cachePath); err == nil {
			if err := cache.Load(f); err != nil {
				log.Warnw("failed to preload cache", "path", *cachePath, "error", err)
			}
			f.Close()
		}
	}

	router := fixedSpeedRouter{speed: 10}
	netOracle := oracle.New(links, router, cache, log)

	weights := budget.ScoringWeights{UTime: 1, UDist: 0, AvgSpeed: 10}
	calc := budget.NewConstraintsCalculator(weights, cfg.MaxDetourFactor, cfg.MaxAbsoluteDetour)
	for i := range requests {
		maxDetour := calc.MaxDetourTime(requests[i].Budget, requests[i].DirectTravelTime, requests[i].DirectDistance)
		requests[i].MaxTravelTime = requests[i].DirectTravelTime + maxDetour
	}
	validator := budget.NewValidator(weights, cfg.Epsilon)

	driver := enumeration.New(netOracle, validator, enumeration.Config{
		SearchHorizon:    cfg.SearchHorizon,
		MaxPoolingDegree: cfg.MaxPoolingDegree,
		Epsilon:          cfg.Epsilon,
	}, log)

	rides := driver.Run(requests)
	log.Infow("enumeration complete", "requests", len(requests), "rides", len(rides))

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatalw("failed to create output file", "path", *outPath, "error", err)
	}
	defer out.Close()
	if err := ioformat.WriteRidesCSV(out, rides); err != nil {
		log.Fatalw("failed to write ride table", "path", *outPath, "error", err)
	}

	if *cacheOutPath != "" {
		cf, err := os.Create(*cacheOutPath)
		if err != nil {
			log.Warnw("failed to create cache dump file", "path", *cacheOutPath, "error", err)
		} else {
			if err := cache.Dump(cf); err != nil {
				log.Warnw("failed to dump cache", "path", *cacheOutPath, "error", err)
			}
			cf.Close()
		}
	}

	fmt.Printf("admitted %d rides from %d requests -> %s\n", len(rides), len(requests), *outPath)
}

// linkTable is a minimal in-memory oracle.LinkLookup backed by a CSV file.
type linkTable map[int64]oracle.Link

func (t linkTable) Link(linkID int64) (oracle.Link, bool) {
	l, ok := t[linkID]
	return l, ok
}

func loadLinks(path string) (linkTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ioformat.ReadLinksCSV(f)
}

// fixedSpeedRouter is a minimal demo oracle.PathFinder: it treats every
// link's end/start node ids as colinear positions (node id == position in
// meters) and returns straight-line time/distance at a fixed free speed,
// standing in for the real multimodal router the production system would
// inject (§1: "the underlying multimodal transport network ... accessed
// only through a NetworkOracle capability").
type fixedSpeedRouter struct {
	speed float64
}

func (r fixedSpeedRouter) LeastCostPath(fromNode, toNode int64, _ float64) (travelTime, distance, cost float64, ok bool) {
	speed := r.speed
	if speed <= 0 {
		speed = 10
	}
	d := float64(toNode - fromNode)
	if d < 0 {
		d = -d
	}
	return d / speed, d, d, true
}

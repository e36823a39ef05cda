// Package config loads the ride enumeration engine's configuration record
// (§6), following the teacher pack's env-file-plus-flags convention:
// viper for defaults/env binding, pflag for CLI overrides.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnumerationConfig is the small record the core is parameterized by
// (§6).
type EnumerationConfig struct {
	SearchHorizon     float64 `mapstructure:"SEARCH_HORIZON"`
	MaxPoolingDegree  int     `mapstructure:"MAX_POOLING_DEGREE"`
	NetworkTimeBinSize float64 `mapstructure:"NETWORK_TIME_BIN_SIZE"`
	MaxDetourFactor   float64 `mapstructure:"MAX_DETOUR_FACTOR"`
	MaxAbsoluteDetour float64 `mapstructure:"MAX_ABSOLUTE_DETOUR"`
	Epsilon           float64 `mapstructure:"EPSILON"`
	CacheCapacity     int     `mapstructure:"CACHE_CAPACITY"`
}

// Load reads configuration from environment variables, an optional .env
// file, and command-line flags (flags win), then validates it (§7:
// invalid configuration is fatal at construction, before any
// enumeration runs).
func Load(args []string) (EnumerationConfig, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("SEARCH_HORIZON", 1800.0)
	viper.SetDefault("MAX_POOLING_DEGREE", 4)
	viper.SetDefault("NETWORK_TIME_BIN_SIZE", 900.0)
	viper.SetDefault("MAX_DETOUR_FACTOR", 1.5)
	viper.SetDefault("MAX_ABSOLUTE_DETOUR", 0.0)
	viper.SetDefault("EPSILON", 1e-9)
	viper.SetDefault("CACHE_CAPACITY", 500_000)

	// Try to read a .env file; its absence (e.g. in a container) is not
	// an error, env vars or flags are used instead.
	_ = viper.ReadInConfig()

	flags := pflag.NewFlagSet("enumerate", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true // the cmd binary defines its own I/O flags on a separate set
	searchHorizon := flags.Float64("search-horizon", viper.GetFloat64("SEARCH_HORIZON"), "temporal window for pair candidacy, seconds")
	maxPoolingDegree := flags.Int("max-pooling-degree", viper.GetInt("MAX_POOLING_DEGREE"), "upper bound on ride degree")
	networkTimeBinSize := flags.Float64("network-time-bin-size", viper.GetFloat64("NETWORK_TIME_BIN_SIZE"), "cache bin width, seconds")
	maxDetourFactor := flags.Float64("max-detour-factor", viper.GetFloat64("MAX_DETOUR_FACTOR"), "ceiling on passengerTravelTime/directTravelTime")
	maxAbsoluteDetour := flags.Float64("max-absolute-detour", viper.GetFloat64("MAX_ABSOLUTE_DETOUR"), "hard cap on detour seconds, 0 disables")
	epsilon := flags.Float64("epsilon", viper.GetFloat64("EPSILON"), "numerical tolerance for delay feasibility")
	cacheCapacity := flags.Int("cache-capacity", viper.GetInt("CACHE_CAPACITY"), "bounded travel segment cache capacity")
	if err := flags.Parse(args); err != nil {
		return EnumerationConfig{}, fmt.Errorf("config: parse flags: %w", err)
	}

	cfg := EnumerationConfig{
		SearchHorizon:      *searchHorizon,
		MaxPoolingDegree:   *maxPoolingDegree,
		NetworkTimeBinSize: *networkTimeBinSize,
		MaxDetourFactor:    *maxDetourFactor,
		MaxAbsoluteDetour:  *maxAbsoluteDetour,
		Epsilon:            *epsilon,
		CacheCapacity:      *cacheCapacity,
	}

	if err := cfg.Validate(); err != nil {
		return EnumerationConfig{}, err
	}
	return cfg, nil
}

// Validate checks the invariants spec §7 calls fatal at construction.
func (c EnumerationConfig) Validate() error {
	if c.NetworkTimeBinSize <= 0 {
		return fmt.Errorf("config: networkTimeBinSize must be > 0, got %v", c.NetworkTimeBinSize)
	}
	if c.MaxPoolingDegree < 1 {
		return fmt.Errorf("config: maxPoolingDegree must be >= 1, got %d", c.MaxPoolingDegree)
	}
	if c.MaxDetourFactor < 1 {
		return fmt.Errorf("config: maxDetourFactor must be >= 1, got %v", c.MaxDetourFactor)
	}
	if c.SearchHorizon < 0 {
		return fmt.Errorf("config: searchHorizon must be >= 0, got %v", c.SearchHorizon)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("config: epsilon must be > 0, got %v", c.Epsilon)
	}
	if c.CacheCapacity < 1 {
		return fmt.Errorf("config: cacheCapacity must be >= 1, got %d", c.CacheCapacity)
	}
	return nil
}

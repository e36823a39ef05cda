package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRejectsNonPositiveBinSize(t *testing.T) {
	c := EnumerationConfig{NetworkTimeBinSize: 0, MaxPoolingDegree: 2, MaxDetourFactor: 1.5, Epsilon: 1e-9, CacheCapacity: 10}
	assert.Error(t, c.Validate())
}

func TestValidateRejectsDegreeBelowOne(t *testing.T) {
	c := EnumerationConfig{NetworkTimeBinSize: 900, MaxPoolingDegree: 0, MaxDetourFactor: 1.5, Epsilon: 1e-9, CacheCapacity: 10}
	assert.Error(t, c.Validate())
}

func TestValidateAcceptsDefaults(t *testing.T) {
	c := EnumerationConfig{
		SearchHorizon: 1800, MaxPoolingDegree: 4, NetworkTimeBinSize: 900,
		MaxDetourFactor: 1.5, MaxAbsoluteDetour: 0, Epsilon: 1e-9, CacheCapacity: 500_000,
	}
	assert.NoError(t, c.Validate())
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mthaler/fosgcfr/persist"
)

func TestActionEntropyPureStrategyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, actionEntropy(map[string]float64{"check": 1, "bet": 0}))
}

func TestActionEntropyUniformStrategyIsOne(t *testing.T) {
	assert.InDelta(t, 1.0, actionEntropy(map[string]float64{"check": 0.5, "bet": 0.5}), 1e-12)
}

func TestActionEntropySingleActionIsZero(t *testing.T) {
	assert.Equal(t, 0.0, actionEntropy(map[string]float64{"go": 1}))
}

func TestMeanActionEntropyAveragesAcrossInfosets(t *testing.T) {
	table := persist.PlayerTable{
		"a": {"x": 1, "y": 0},
		"b": {"x": 0.5, "y": 0.5},
	}
	assert.InDelta(t, 0.5, meanActionEntropy(table), 1e-12)
}

func TestMeanActionEntropyEmptyTableIsZero(t *testing.T) {
	assert.Equal(t, 0.0, meanActionEntropy(persist.PlayerTable{}))
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ConectaTel/conecta_api/internal/catalog"
	"github.com/ConectaTel/conecta_api/internal/config"
)

func floatPtr(v float64) *float64 { return &v }

func TestScoringOverridesApplied(t *testing.T) {
	svc := NewCatalogService(nil, nil, &config.ScoringConfig{
		CategoryMatch:  floatPtr(50),
		CarrierMatch:   floatPtr(25),
		InitialIntent:  floatPtr(18),
		DwellPerMinute: floatPtr(7),
		ViewSignal:     floatPtr(3),
		AddSignal:      floatPtr(11),
		RemovedPenalty: floatPtr(14),
		Featured:       floatPtr(6),
		LineCountFit:   floatPtr(20),
	})

	assert.Equal(t, 50.0, svc.weights.CategoryMatch)
	assert.Equal(t, 25.0, svc.weights.CarrierMatch)
	assert.Equal(t, 18.0, svc.weights.InitialIntent)
	assert.Equal(t, 7.0, svc.weights.DwellPerMinute)
	assert.Equal(t, 3.0, svc.weights.ViewSignal)
	assert.Equal(t, 11.0, svc.weights.AddSignal)
	assert.Equal(t, 14.0, svc.weights.RemovedPenalty)
	assert.Equal(t, 6.0, svc.weights.Featured)
	assert.Equal(t, 20.0, svc.weights.LineCountFit)
}

func TestScoringNilOverridesKeepDefaults(t *testing.T) {
	defaults := catalog.DefaultWeights()

	svc := NewCatalogService(nil, nil, &config.ScoringConfig{AddSignal: floatPtr(99)})

	assert.Equal(t, 99.0, svc.weights.AddSignal)
	assert.Equal(t, defaults.CategoryMatch, svc.weights.CategoryMatch)
	assert.Equal(t, defaults.ViewSignal, svc.weights.ViewSignal)
	assert.Equal(t, defaults.RemovedPenalty, svc.weights.RemovedPenalty)
	assert.Equal(t, defaults.LineCountFit, svc.weights.LineCountFit)

	svc = NewCatalogService(nil, nil, nil)
	assert.Equal(t, defaults, svc.weights)
}

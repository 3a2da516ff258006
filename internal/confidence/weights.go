// Package confidence scores extracted values and whole extraction results
// against a schema.
package confidence

import (
	"strings"

	"docschema/internal/domain"
)

type factorWeight struct {
	factor string
	weight float64
}

// Weights are summed in slice order so scores are bit-for-bit reproducible.
var fieldWeights = []factorWeight{
	{domain.FactorTypeConfidence, 0.15},
	{domain.FactorValueQuality, 0.25},
	{domain.FactorSchemaCompliance, 0.20},
	{domain.FactorAIModel, 0.20},
	{domain.FactorNameConsistency, 0.10},
	{domain.FactorValidationCompliance, 0.10},
}

var documentWeights = []factorWeight{
	{domain.FactorCoverage, 0.20},
	{domain.FactorRequiredCompletion, 0.25},
	{domain.FactorCrossFieldConsistency, 0.15},
	{domain.FactorAIGeneration, 0.15},
	{domain.FactorStructureQuality, 0.10},
	{domain.FactorFieldAverage, 0.15},
}

// typeConfidence is the prior confidence that a model extracts a given type
// correctly.
var typeConfidence = map[domain.FieldType]float64{
	domain.FieldTypeString:   0.90,
	domain.FieldTypeNumber:   0.85,
	domain.FieldTypeInteger:  0.85,
	domain.FieldTypeBoolean:  0.90,
	domain.FieldTypeDate:     0.80,
	domain.FieldTypeDateTime: 0.75,
	domain.FieldTypeEmail:    0.85,
	domain.FieldTypePhone:    0.80,
	domain.FieldTypeURL:      0.85,
	domain.FieldTypeJSON:     0.70,
	domain.FieldTypeArray:    0.75,
}

const defaultTypeConfidence = 0.75

type providerWeight struct {
	marker string
	weight float64
}

// providerWeights is matched in order against the lower-cased model name.
var providerWeights = []providerWeight{
	{"claude", 0.95},
	{"gpt-4", 0.90},
	{"gpt-3.5", 0.80},
	{"llama", 0.85},
	{"mistral", 0.82},
	{"gemini", 0.88},
}

const (
	defaultProviderWeight = 0.80
	defaultAIConfidence   = 0.75
)

// ProviderWeight returns the reliability weight applied to a model's
// self-reported confidence.
func ProviderWeight(modelType string) float64 {
	m := strings.ToLower(modelType)
	for _, p := range providerWeights {
		if strings.Contains(m, p.marker) {
			return p.weight
		}
	}
	return defaultProviderWeight
}

func weighted(factors map[string]float64, weights []factorWeight) float64 {
	var sum float64
	for _, w := range weights {
		sum += factors[w.factor] * w.weight
	}
	return clamp(sum)
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

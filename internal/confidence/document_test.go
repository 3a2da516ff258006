package confidence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docschema/internal/confidence"
	"docschema/internal/domain"
)

func pair(name string, def domain.FieldDefinition) domain.FieldPair {
	return domain.FieldPair{Name: name, Def: def}
}

func newDocumentAssessor(cross confidence.CrossFieldChecker) *confidence.DocumentAssessor {
	return confidence.NewDocumentAssessor(newFieldAssessor(), cross)
}

func twoRequiredSchema() *domain.SchemaDefinition {
	return &domain.SchemaDefinition{
		ID:   "contact",
		Name: "Contact",
		Fields: domain.NewFields(
			pair("first_name", domain.FieldDefinition{Type: domain.FieldTypeString, Required: true}),
			pair("last_name", domain.FieldDefinition{Type: domain.FieldTypeString, Required: true}),
		),
	}
}

func TestDocumentAssessor_EmptyResult(t *testing.T) {
	got := newDocumentAssessor(nil).Assess(map[string]any{}, twoRequiredSchema(), nil)

	assert.Equal(t, 0.0, got.Factors[domain.FactorCoverage])
	assert.Equal(t, 0.0, got.Factors[domain.FactorRequiredCompletion])
	assert.Equal(t, 1.0, got.Factors[domain.FactorCrossFieldConsistency])
	assert.Equal(t, 0.75, got.Factors[domain.FactorAIGeneration])
	assert.InDelta(t, 0.45, got.Factors[domain.FactorStructureQuality], 1e-9)
	assert.InDelta(t, 0.48, got.Factors[domain.FactorFieldAverage], 1e-9)
	assert.InDelta(t, 0.3795, got.Score, 1e-9)
	assert.Contains(t, []domain.ConfidenceLevel{domain.ConfidenceVeryLow, domain.ConfidenceLow}, got.Level)
	assert.Contains(t, got.Reasoning, "Low field coverage (0%)")
	assert.Contains(t, got.Reasoning, "2 required field(s) missing")
}

func TestDocumentAssessor_PartialResult(t *testing.T) {
	schema := &domain.SchemaDefinition{
		ID:   "invoice",
		Name: "Invoice",
		Fields: domain.NewFields(
			pair("invoice_number", domain.FieldDefinition{Type: domain.FieldTypeString, Required: true}),
			pair("total", domain.FieldDefinition{Type: domain.FieldTypeNumber, Required: true}),
			pair("vendor", domain.FieldDefinition{Type: domain.FieldTypeString}),
			pair("notes", domain.FieldDefinition{Type: domain.FieldTypeText}),
		),
	}
	result := map[string]any{
		"invoice_number": "INV-001",
		"vendor":         map[string]any{"value": "", "confidence": 0.9},
		"unexpected":     "ignored",
	}

	got := newDocumentAssessor(nil).Assess(result, schema, nil)

	assert.Equal(t, 0.25, got.Factors[domain.FactorCoverage])
	assert.Equal(t, 0.5, got.Factors[domain.FactorRequiredCompletion])
	assert.Contains(t, got.Reasoning, "Low field coverage (25%)")
	assert.Contains(t, got.Reasoning, "1 required field(s) missing")
}

func TestDocumentAssessor_CompleteResult(t *testing.T) {
	schema := twoRequiredSchema()
	result := map[string]any{"first_name": "Ada", "last_name": "Lovelace"}
	meta := &domain.AIMetadata{ModelConfidence: fptr(0.9), ModelType: "claude-3", GenerationConfidence: fptr(0.9)}

	got := newDocumentAssessor(nil).Assess(result, schema, meta)

	assert.Equal(t, 1.0, got.Factors[domain.FactorCoverage])
	assert.Equal(t, 1.0, got.Factors[domain.FactorRequiredCompletion])
	assert.Equal(t, 0.9, got.Factors[domain.FactorAIGeneration])
	assert.Contains(t, got.Reasoning, "Excellent field coverage (100%)")
	assert.Contains(t, got.Reasoning, "Required fields are substantially complete")
	assert.Contains(t, got.Reasoning, "All 2 schema fields were extracted")
	assert.Contains(t, got.Reasoning, "High AI generation confidence")
}

func TestDocumentAssessor_StructureQuality(t *testing.T) {
	schema := &domain.SchemaDefinition{
		ID:          "receipt",
		Name:        "Receipt",
		Description: "Store receipt",
		Version:     "1.0.0",
		Fields: domain.NewFields(
			pair("a", domain.FieldDefinition{Type: domain.FieldTypeString, Required: true}),
			pair("b", domain.FieldDefinition{Type: domain.FieldTypeString, Required: true}),
			pair("c", domain.FieldDefinition{Type: domain.FieldTypeString, ValidationRules: []domain.ValidationRule{{Type: domain.RuleLength, Max: fptr(10)}}}),
			pair("d", domain.FieldDefinition{Type: domain.FieldTypeString}),
			pair("e", domain.FieldDefinition{Type: domain.FieldTypeString}),
		),
	}

	got := newDocumentAssessor(nil).Assess(nil, schema, nil)

	assert.InDelta(t, (0.9+0.9+0.2+0.9)/4, got.Factors[domain.FactorStructureQuality], 1e-9)
}

type fixedConsistency float64

func (f fixedConsistency) Consistency(map[string]any, *domain.SchemaDefinition) float64 {
	return float64(f)
}

func TestDocumentAssessor_CrossFieldHook(t *testing.T) {
	schema := twoRequiredSchema()
	result := map[string]any{"first_name": "Ada", "last_name": "Lovelace"}

	base := newDocumentAssessor(nil).Assess(result, schema, nil)
	hooked := newDocumentAssessor(fixedConsistency(0.4)).Assess(result, schema, nil)
	clamped := newDocumentAssessor(fixedConsistency(7)).Assess(result, schema, nil)

	assert.Equal(t, 0.4, hooked.Factors[domain.FactorCrossFieldConsistency])
	assert.InDelta(t, base.Score-0.6*0.15, hooked.Score, 1e-9)
	assert.Equal(t, 1.0, clamped.Factors[domain.FactorCrossFieldConsistency])
}

func TestDocumentAssessor_LowGenerationConfidence(t *testing.T) {
	meta := &domain.AIMetadata{GenerationConfidence: fptr(0.5)}
	got := newDocumentAssessor(nil).Assess(map[string]any{"first_name": "Ada"}, twoRequiredSchema(), meta)

	assert.Equal(t, 0.5, got.Factors[domain.FactorAIGeneration])
	assert.Contains(t, got.Reasoning, "Low AI generation confidence")
}

func TestDocumentAssessor_Breakdown(t *testing.T) {
	schema := twoRequiredSchema()
	result := map[string]any{"last_name": map[string]any{"value": "Lovelace", "confidence": 0.95}}

	got := newDocumentAssessor(nil).Breakdown(result, schema, nil)

	require.Len(t, got.Fields, 2)
	assert.Equal(t, "first_name", got.Fields[0].Field)
	assert.Nil(t, got.Fields[0].Value)
	assert.Equal(t, domain.FieldStatusInvalid, got.Fields[0].Status)
	assert.Contains(t, got.Fields[0].Issues, "Required field is missing")
	assert.Equal(t, "last_name", got.Fields[1].Field)
	assert.Equal(t, "Lovelace", got.Fields[1].Value)
	assert.InDelta(t, 0.95*0.80, got.Fields[1].Score.Factors[domain.FactorAIModel], 1e-9)
	assert.InDelta(t, (got.Fields[0].Score.Score+got.Fields[1].Score.Score)/2, got.Document.Factors[domain.FactorFieldAverage], 1e-12)
}

func TestDocumentAssessor_NoFields(t *testing.T) {
	schema := &domain.SchemaDefinition{ID: "empty", Name: "Empty"}

	got := newDocumentAssessor(nil).Assess(map[string]any{"x": 1.0}, schema, nil)

	assert.Equal(t, 0.0, got.Factors[domain.FactorCoverage])
	assert.Equal(t, 1.0, got.Factors[domain.FactorRequiredCompletion])
	assert.Equal(t, 0.0, got.Factors[domain.FactorFieldAverage])
	assert.GreaterOrEqual(t, got.Score, 0.0)
	assert.LessOrEqual(t, got.Score, 1.0)
}

func TestDocumentAssessor_Deterministic(t *testing.T) {
	schema := twoRequiredSchema()
	result := map[string]any{"first_name": "Ada", "last_name": 42.0}
	meta := &domain.AIMetadata{ModelConfidence: fptr(0.8), ModelType: "gpt-4", GenerationConfidence: fptr(0.7)}
	d := newDocumentAssessor(nil)

	first := d.Assess(result, schema, meta)
	second := d.Assess(result, schema, meta)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Factors, second.Factors)
	assert.Equal(t, first.Reasoning, second.Reasoning)
}

package confidence

import (
	"fmt"
	"time"

	"docschema/internal/domain"
	"docschema/internal/validator"
	"docschema/internal/value"
)

// DocumentAssessor aggregates per-field scores into a document score.
type DocumentAssessor struct {
	fields     *FieldAssessor
	crossField CrossFieldChecker
}

// NewDocumentAssessor creates a DocumentAssessor. A nil crossField uses
// NoCrossFieldChecks.
func NewDocumentAssessor(fields *FieldAssessor, crossField CrossFieldChecker) *DocumentAssessor {
	if crossField == nil {
		crossField = NoCrossFieldChecks{}
	}
	return &DocumentAssessor{fields: fields, crossField: crossField}
}

// Assess scores an extraction result against schema.
func (d *DocumentAssessor) Assess(result map[string]any, schema *domain.SchemaDefinition, meta *domain.AIMetadata) domain.ConfidenceScore {
	return d.Breakdown(result, schema, meta).Document
}

// Breakdown scores an extraction result and keeps the per-field scores, in
// schema field order. Every declared field is scored, present or not.
func (d *DocumentAssessor) Breakdown(result map[string]any, schema *domain.SchemaDefinition, meta *domain.AIMetadata) domain.DocumentAssessment {
	names := schema.Fields.Names()
	fieldScores := make([]domain.FieldScore, 0, len(names))

	var present, required, requiredPresent int
	var scoreSum float64
	for _, name := range names {
		def, _ := schema.Fields.Get(name)
		raw := result[name]
		score, outcomes := d.fields.assess(name, raw, def, meta)
		status := validator.ComputeFieldStatus(outcomes, score.Score)
		v := value.Unwrap(raw).Value
		if def.Required && value.IsEmpty(v) && status.Status != domain.FieldStatusInvalid {
			status.Status = domain.FieldStatusInvalid
			status.Messages = append(status.Messages, "Required field is missing")
		}

		fieldScores = append(fieldScores, domain.FieldScore{
			Field:  name,
			Value:  v,
			Score:  score,
			Status: status.Status,
			Issues: status.Messages,
		})
		scoreSum += score.Score

		filled := !value.IsEmpty(v)
		if filled {
			present++
		}
		if def.Required {
			required++
			if filled {
				requiredPresent++
			}
		}
	}

	total := len(names)
	factors := map[string]float64{
		domain.FactorCoverage:              ratio(present, total, 0.0),
		domain.FactorRequiredCompletion:    ratio(requiredPresent, required, 1.0),
		domain.FactorCrossFieldConsistency: clamp(d.crossField.Consistency(result, schema)),
		domain.FactorAIGeneration:          aiGeneration(meta),
		domain.FactorStructureQuality:      structureQuality(schema),
		domain.FactorFieldAverage:          0.0,
	}
	if total > 0 {
		factors[domain.FactorFieldAverage] = scoreSum / float64(total)
	}
	score := weighted(factors, documentWeights)

	return domain.DocumentAssessment{
		Document: domain.ConfidenceScore{
			Score:     score,
			Level:     domain.LevelFor(score),
			Factors:   factors,
			Reasoning: documentReasoning(factors, present, total, required-requiredPresent),
			Timestamp: time.Now().UTC(),
		},
		Fields: fieldScores,
	}
}

func ratio(n, d int, whenEmpty float64) float64 {
	if d == 0 {
		return whenEmpty
	}
	return float64(n) / float64(d)
}

func aiGeneration(meta *domain.AIMetadata) float64 {
	if meta == nil || meta.GenerationConfidence == nil {
		return defaultAIConfidence
	}
	return clamp(*meta.GenerationConfidence)
}

// structureQuality averages four checks on the schema itself: a sensible
// field count, a balanced required ratio, rule coverage and metadata
// completeness.
func structureQuality(schema *domain.SchemaDefinition) float64 {
	total := schema.Fields.Len()

	var countScore float64
	switch {
	case total >= 5 && total <= 50:
		countScore = 0.9
	case total >= 1 && total <= 100:
		countScore = 0.7
	default:
		countScore = 0.5
	}

	var required, withRules int
	for _, name := range schema.Fields.Names() {
		def, _ := schema.Fields.Get(name)
		if def.Required {
			required++
		}
		if len(def.ValidationRules) > 0 {
			withRules++
		}
	}

	balance := 0.6
	if r := ratio(required, total, 0); r >= 0.2 && r <= 0.8 {
		balance = 0.9
	}

	var meta float64
	hasDesc, hasVersion := schema.Description != "", schema.Version != ""
	switch {
	case hasDesc && hasVersion:
		meta = 0.9
	case hasDesc || hasVersion:
		meta = 0.7
	default:
		meta = 0.5
	}

	return (countScore + balance + ratio(withRules, total, 0) + meta) / 4
}

func documentReasoning(f map[string]float64, present, total, missingRequired int) []string {
	out := []string{}

	switch cov := f[domain.FactorCoverage]; {
	case cov >= 0.9:
		out = append(out, fmt.Sprintf("Excellent field coverage (%.0f%%)", cov*100))
	case cov >= 0.7:
		out = append(out, fmt.Sprintf("Good field coverage (%.0f%%)", cov*100))
	case cov <= 0.5:
		out = append(out, fmt.Sprintf("Low field coverage (%.0f%%)", cov*100))
	}

	rc := f[domain.FactorRequiredCompletion]
	if rc >= 0.9 {
		out = append(out, "Required fields are substantially complete")
	}
	if rc < 1.0 {
		out = append(out, fmt.Sprintf("%d required field(s) missing", missingRequired))
	}

	if total > 0 && present == total {
		out = append(out, fmt.Sprintf("All %d schema fields were extracted", total))
	}

	switch ai := f[domain.FactorAIGeneration]; {
	case ai >= 0.8:
		out = append(out, "High AI generation confidence")
	case ai <= 0.6:
		out = append(out, "Low AI generation confidence")
	}
	return out
}

package confidence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"docschema/internal/domain"
	"docschema/internal/validator"
	"docschema/internal/value"
)

var placeholders = map[string]bool{
	"n/a":     true,
	"null":    true,
	"none":    true,
	"unknown": true,
	"---":     true,
	"tbd":     true,
}

// FieldAssessor scores a single extracted value against its field definition.
// It holds no mutable state and is safe for concurrent use.
type FieldAssessor struct {
	rules *validator.Engine
}

// NewFieldAssessor creates a FieldAssessor that evaluates validation rules
// with rules.
func NewFieldAssessor(rules *validator.Engine) *FieldAssessor {
	return &FieldAssessor{rules: rules}
}

// Assess computes the six field factors and their weighted score. The value
// may be wrapped as {value, confidence, extraction_notes}; a wrapped
// confidence takes the place of meta.ModelConfidence for this field.
func (a *FieldAssessor) Assess(name string, raw any, def domain.FieldDefinition, meta *domain.AIMetadata) domain.ConfidenceScore {
	score, _ := a.assess(name, raw, def, meta)
	return score
}

func (a *FieldAssessor) assess(name string, raw any, def domain.FieldDefinition, meta *domain.AIMetadata) (domain.ConfidenceScore, []validator.Outcome) {
	def.Type = def.Type.Canonical()
	w := value.Unwrap(raw)
	v := w.Value

	var outcomes []validator.Outcome
	if a.rules != nil {
		outcomes = a.rules.Evaluate(name, def, v)
	}

	factors := map[string]float64{
		domain.FactorTypeConfidence:       typeConfidenceFor(def.Type),
		domain.FactorValueQuality:         valueQuality(def.Type, v),
		domain.FactorSchemaCompliance:     schemaCompliance(def, v),
		domain.FactorAIModel:              aiModel(meta, w.Confidence),
		domain.FactorNameConsistency:      nameConsistency(name, v),
		domain.FactorValidationCompliance: validator.Compliance(outcomes),
	}
	score := weighted(factors, fieldWeights)

	return domain.ConfidenceScore{
		Score:     score,
		Level:     domain.LevelFor(score),
		Factors:   factors,
		Reasoning: fieldReasoning(def, v, factors, outcomes),
		Timestamp: time.Now().UTC(),
	}, outcomes
}

func typeConfidenceFor(t domain.FieldType) float64 {
	if c, ok := typeConfidence[t]; ok {
		return c
	}
	return defaultTypeConfidence
}

func valueQuality(t domain.FieldType, v any) (q float64) {
	defer func() {
		if r := recover(); r != nil {
			q = 0.2
		}
	}()

	s := strings.TrimSpace(value.String(v))
	if value.IsEmpty(v) || placeholders[strings.ToLower(s)] {
		return 0.1
	}
	if len([]rune(s)) < 2 {
		return 0.4
	}

	switch {
	case t == domain.FieldTypeEmail:
		if strings.Contains(s, "@") && strings.Contains(s, ".") {
			return 0.9
		}
		return 0.3
	case t == domain.FieldTypePhone:
		switch digits := value.DigitCount(s); {
		case digits >= 10:
			return 0.9
		case digits >= 7:
			return 0.7
		default:
			return 0.3
		}
	case t == domain.FieldTypeURL:
		lower := strings.ToLower(s)
		for _, marker := range []string{"http", "www.", ".com", ".org"} {
			if strings.Contains(lower, marker) {
				return 0.9
			}
		}
		return 0.4
	case t.IsNumeric():
		if _, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
			return 0.9
		}
		return 0.2
	case t == domain.FieldTypeDate || t == domain.FieldTypeDateTime:
		if strings.ContainsAny(s, "-/.") {
			return 0.8
		}
		return 0.4
	}

	if len([]rune(s)) >= 3 {
		return 0.8
	}
	return 0.5
}

func schemaCompliance(def domain.FieldDefinition, v any) float64 {
	if value.IsEmpty(v) {
		if def.Required {
			return 0.0
		}
		return 0.8
	}
	if value.MatchesType(def.Type, v) {
		return 1.0
	}
	return 0.5
}

func aiModel(meta *domain.AIMetadata, override *float64) float64 {
	conf := override
	if conf == nil && meta != nil {
		conf = meta.ModelConfidence
	}
	if conf == nil {
		return defaultAIConfidence
	}
	modelType := ""
	if meta != nil {
		modelType = meta.ModelType
	}
	return clamp(*conf * ProviderWeight(modelType))
}

func nameConsistency(name string, v any) float64 {
	s := strings.ToLower(value.String(v))
	lowerName := strings.ToLower(name)
	if s != "" && lowerName != "" {
		if strings.Contains(s, lowerName) {
			return 0.9
		}
		for _, part := range strings.Split(lowerName, "_") {
			if part != "" && strings.Contains(s, part) {
				return 0.9
			}
		}
	}

	switch {
	case strings.Contains(lowerName, "email") && strings.Contains(s, "@"):
		return 0.85
	case strings.Contains(lowerName, "phone") && value.DigitCount(s) >= 7:
		return 0.85
	case strings.Contains(lowerName, "date") && strings.ContainsAny(s, "-/."):
		return 0.85
	}
	return 0.7
}

func fieldReasoning(def domain.FieldDefinition, v any, f map[string]float64, outcomes []validator.Outcome) []string {
	var out []string

	switch vq := f[domain.FactorValueQuality]; {
	case vq >= 0.8:
		out = append(out, "Value is well-formed for its type")
	case vq <= 0.3:
		out = append(out, "Value appears to be missing, a placeholder, or poorly formatted")
	}

	switch ai := f[domain.FactorAIModel]; {
	case ai >= 0.85:
		out = append(out, "AI model reported high confidence")
	case ai <= 0.6:
		out = append(out, "AI model reported low confidence")
	}

	switch sc := f[domain.FactorSchemaCompliance]; {
	case sc >= 0.9:
		out = append(out, fmt.Sprintf("Value matches the expected %s type", def.Type))
	case sc <= 0.5:
		if value.IsEmpty(v) {
			out = append(out, "Required field is missing")
		} else {
			out = append(out, fmt.Sprintf("Value does not match the expected %s type", def.Type))
		}
	}

	if f[domain.FactorNameConsistency] >= 0.8 {
		out = append(out, "Value is consistent with the field name")
	}

	if vc := f[domain.FactorValidationCompliance]; vc < 1.0 {
		passed := 0
		for _, o := range outcomes {
			if o.Passed {
				passed++
			}
		}
		out = append(out, fmt.Sprintf("Value passed %d of %d validation rules", passed, len(outcomes)))
	}

	if out == nil {
		out = []string{}
	}
	return out
}

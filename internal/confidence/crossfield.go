package confidence

import "docschema/internal/domain"

// CrossFieldChecker scores how consistent the values of an extraction are
// with each other, in [0,1].
type CrossFieldChecker interface {
	Consistency(result map[string]any, schema *domain.SchemaDefinition) float64
}

// NoCrossFieldChecks is the default CrossFieldChecker. It has no rules and
// always reports full consistency.
type NoCrossFieldChecks struct{}

// Consistency implements CrossFieldChecker.
func (NoCrossFieldChecks) Consistency(map[string]any, *domain.SchemaDefinition) float64 {
	return 1.0
}

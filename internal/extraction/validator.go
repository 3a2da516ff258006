// Package extraction checks model extraction results for correctness against
// a schema.
package extraction

import (
	"fmt"
	"strconv"
	"strings"

	"docschema/internal/domain"
	"docschema/internal/value"
)

// ResultValidator checks that an extraction result satisfies a schema's
// hard contract. Missing required fields fail the check; loosely typed
// numeric values only produce warnings since models often return numbers as
// formatted strings. Keys the schema does not declare are ignored.
type ResultValidator struct{}

// NewResultValidator creates a ResultValidator.
func NewResultValidator() *ResultValidator {
	return &ResultValidator{}
}

// Validate checks result against schema. Per-field values may be wrapped as
// {value, confidence, extraction_notes}.
func (v *ResultValidator) Validate(result map[string]any, schema *domain.SchemaDefinition) domain.ExtractionCheck {
	check := domain.ExtractionCheck{Passed: true, Errors: []string{}, Warnings: []string{}}
	if schema == nil {
		return check
	}

	for _, name := range schema.Fields.Names() {
		def, _ := schema.Fields.Get(name)
		raw, present := result[name]
		val := value.Unwrap(raw).Value

		if def.Required && (!present || value.IsEmpty(val)) {
			check.Passed = false
			check.Errors = append(check.Errors, fmt.Sprintf("Required field '%s' is missing", name))
			continue
		}
		if !present || val == nil {
			continue
		}

		if def.Type.Canonical().IsNumeric() && !convertsToFloat(val) {
			check.Warnings = append(check.Warnings,
				fmt.Sprintf("Field '%s' expected to be %s, got '%s'", name, def.Type, value.String(val)))
		}
	}
	return check
}

func convertsToFloat(v any) bool {
	switch t := v.(type) {
	case string:
		_, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return err == nil
	case bool:
		return true
	}
	_, ok := value.ToFloat(v)
	return ok
}

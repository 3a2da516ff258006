package schema_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docschema/internal/domain"
	"docschema/internal/schema"
	"docschema/internal/validator"
)

func newValidator() *schema.Validator {
	return schema.NewValidator(validator.NewExpressionEngine())
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func TestValidateJSON_MinimalSchemaIsValid(t *testing.T) {
	res := newValidator().ValidateJSON([]byte(`{"id":"inv","name":"Invoice","fields":{"total":{"type":"number","required":true}}}`), false)

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 1, res.Metadata.TotalFields)
	assert.Equal(t, 1, res.Metadata.RequiredFields)
	assert.Equal(t, 0, res.Metadata.ErrorCount)
	assert.Equal(t, len(res.Warnings), res.Metadata.WarningCount)
}

func TestValidateJSON_EmptyFields(t *testing.T) {
	res := newValidator().ValidateJSON([]byte(`{"id":"inv","name":"Invoice","fields":{}}`), false)

	assert.False(t, res.IsValid)
	assert.True(t, containsSubstring(res.Errors, "at least one field"))
}

func TestValidateJSON_GarbageInput(t *testing.T) {
	v := newValidator()

	notJSON := v.ValidateJSON([]byte(`{{{`), false)
	assert.False(t, notJSON.IsValid)
	assert.True(t, containsSubstring(notJSON.Errors, "not valid JSON"))

	array := v.ValidateJSON([]byte(`[1,2]`), false)
	assert.False(t, array.IsValid)
	assert.True(t, containsSubstring(array.Errors, "must be a JSON object"))

	empty := v.Validate(nil, true)
	assert.False(t, empty.IsValid)
	assert.Len(t, empty.Errors, 3)
}

func TestValidate_TopLevelChecks(t *testing.T) {
	raw := map[string]any{
		"id":       "9lives",
		"name":     "  ",
		"version":  "v1",
		"metadata": map[string]any{"created_date": "last tuesday"},
		"fields":   []any{"a"},
	}

	res := newValidator().Validate(raw, false)

	assert.False(t, res.IsValid)
	assert.True(t, containsSubstring(res.Errors, "Schema id '9lives'"))
	assert.True(t, containsSubstring(res.Errors, "non-empty string"))
	assert.True(t, containsSubstring(res.Errors, "'fields' must be an object"))
	assert.True(t, containsSubstring(res.Warnings, "semantic version"))
	assert.True(t, containsSubstring(res.Warnings, "created_date"))
	assert.True(t, containsSubstring(res.Warnings, "no description"))
}

func TestValidate_FieldChecks(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]any
		errSub  string
		warnSub string
	}{
		{name: "bad field name", fields: map[string]any{"1st": map[string]any{"type": "string"}}, errSub: "Field name '1st'"},
		{name: "reserved name", fields: map[string]any{"_metadata": map[string]any{"type": "string"}}, errSub: "is reserved"},
		{name: "non-object config", fields: map[string]any{"a": "string"}, errSub: "definition must be an object"},
		{name: "missing type", fields: map[string]any{"a": map[string]any{}}, errSub: "missing required property 'type'"},
		{name: "unknown type", fields: map[string]any{"a": map[string]any{"type": "money"}}, errSub: "unknown type 'money'"},
		{name: "ui type", fields: map[string]any{"a": map[string]any{"type": "select"}}, warnSub: "treated as 'string'"},
		{name: "required not bool", fields: map[string]any{"a": map[string]any{"type": "string", "required": "yes"}}, errSub: "must be a boolean"},
		{name: "too many examples", fields: map[string]any{"a": map[string]any{"type": "string", "examples": []any{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"}}}, warnSub: "11 examples"},
		{name: "rules not list", fields: map[string]any{"a": map[string]any{"type": "string", "validation_rules": "x"}}, errSub: "validation_rules must be a list"},
		{name: "unknown rule", fields: map[string]any{"a": map[string]any{"type": "string", "validation_rules": []any{map[string]any{"type": "magic"}}}}, errSub: "unknown type 'magic'"},
		{name: "missing message", fields: map[string]any{"a": map[string]any{"type": "string", "validation_rules": []any{map[string]any{"type": "length", "max": 3.0}}}}, warnSub: "has no message"},
		{name: "bad severity", fields: map[string]any{"a": map[string]any{"type": "string", "validation_rules": []any{map[string]any{"type": "length", "max": 3.0, "message": "m", "severity": "fatal"}}}}, warnSub: "invalid severity"},
		{name: "length min>max", fields: map[string]any{"a": map[string]any{"type": "string", "validation_rules": []any{map[string]any{"type": "length", "min": 5.0, "max": 3.0, "message": "m"}}}}, errSub: "greater than max"},
		{name: "range min>max", fields: map[string]any{"a": map[string]any{"type": "number", "validation_rules": []any{map[string]any{"type": "range", "min": 5.0, "max": 3.0, "message": "m"}}}}, errSub: "greater than max"},
		{name: "range bound not number", fields: map[string]any{"a": map[string]any{"type": "number", "validation_rules": []any{map[string]any{"type": "range", "min": "low", "message": "m"}}}}, errSub: "'min' must be a number"},
		{name: "bad regex", fields: map[string]any{"a": map[string]any{"type": "string", "validation_rules": []any{map[string]any{"type": "pattern", "pattern": "(", "message": "m"}}}}, errSub: "invalid regex"},
		{name: "empty enum", fields: map[string]any{"a": map[string]any{"type": "string", "validation_rules": []any{map[string]any{"type": "enum", "values": []any{}, "message": "m"}}}}, errSub: "at least one value"},
		{name: "duplicate enum", fields: map[string]any{"a": map[string]any{"type": "string", "validation_rules": []any{map[string]any{"type": "enum", "values": []any{"x", "x"}, "message": "m"}}}}, warnSub: "duplicate values"},
		{name: "custom does not compile", fields: map[string]any{"a": map[string]any{"type": "string", "validation_rules": []any{map[string]any{"type": "custom", "expression": "value >", "message": "m"}}}}, errSub: "does not compile"},
		{name: "dependency target missing", fields: map[string]any{"a": map[string]any{"type": "string", "validation_rules": []any{map[string]any{"type": "dependency", "depends_on": "b", "message": "m"}}}}, errSub: "not a sibling field"},
		{name: "length on number", fields: map[string]any{"a": map[string]any{"type": "number", "validation_rules": []any{map[string]any{"type": "length", "max": 3.0, "message": "m"}}}}, warnSub: "not meaningful for type 'number'"},
		{name: "range on string", fields: map[string]any{"a": map[string]any{"type": "string", "validation_rules": []any{map[string]any{"type": "range", "max": 3.0, "message": "m"}}}}, warnSub: "not meaningful for type 'string'"},
		{name: "field depends_on missing", fields: map[string]any{"a": map[string]any{"type": "string", "depends_on": "ghost"}}, errSub: "not a sibling field"},
		{name: "condition without depends_on", fields: map[string]any{"a": map[string]any{"type": "string", "condition": "equals"}}, warnSub: "no depends_on"},
		{name: "case-insensitive duplicate", fields: map[string]any{"Total": map[string]any{"type": "number"}, "total": map[string]any{"type": "number"}}, errSub: "case-insensitive"},
	}

	v := newValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Validate(map[string]any{"id": "s", "name": "S", "fields": tt.fields}, false)
			if tt.errSub != "" {
				assert.False(t, res.IsValid)
				assert.True(t, containsSubstring(res.Errors, tt.errSub), "errors: %v", res.Errors)
			}
			if tt.warnSub != "" {
				assert.True(t, containsSubstring(res.Warnings, tt.warnSub), "warnings: %v", res.Warnings)
			}
		})
	}
}

func TestValidate_ValidDependency(t *testing.T) {
	raw := map[string]any{
		"id":   "s",
		"name": "S",
		"fields": map[string]any{
			"country": map[string]any{"type": "string"},
			"state": map[string]any{
				"type":            "string",
				"depends_on":      "country",
				"condition":       "equals",
				"condition_value": "US",
				"validation_rules": []any{
					map[string]any{"type": "dependency", "depends_on": "country", "message": "needs country"},
				},
			},
		},
	}

	res := newValidator().Validate(raw, false)

	assert.True(t, res.IsValid, "errors: %v", res.Errors)
}

func TestValidate_StrictMode(t *testing.T) {
	fields := map[string]any{}
	for i := 0; i < 101; i++ {
		fields[fmt.Sprintf("f%03d", i)] = map[string]any{"type": "string"}
	}
	raw := map[string]any{"id": "big", "name": "Big", "description": "d", "version": "1.0.0", "fields": fields}
	v := newValidator()

	lenient := v.Validate(raw, false)
	strict := v.Validate(raw, true)

	assert.True(t, strict.IsValid)
	assert.Empty(t, lenient.Warnings)
	assert.True(t, containsSubstring(strict.Warnings, "101 fields"))
	assert.True(t, containsSubstring(strict.Warnings, "no required fields"))
	assert.True(t, containsSubstring(strict.Warnings, "have a description"))
}

func TestValidate_Metadata(t *testing.T) {
	raw := map[string]any{
		"id":          "s",
		"name":        "S",
		"description": "d",
		"version":     "1.2.3-beta",
		"fields": map[string]any{
			"a": map[string]any{"type": "string", "required": true, "description": "A", "examples": []any{"x"},
				"validation_rules": []any{map[string]any{"type": "length", "max": 5.0, "message": "m"}}},
			"b": map[string]any{"type": "number"},
		},
	}

	res := newValidator().Validate(raw, false)

	md := res.Metadata
	assert.Equal(t, 2, md.TotalFields)
	assert.Equal(t, 1, md.RequiredFields)
	assert.Equal(t, 1, md.FieldsWithValidation)
	assert.Equal(t, 1, md.FieldsWithExamples)
	assert.Equal(t, 1, md.FieldsWithDescription)
	assert.Equal(t, 0.5, md.ValidationCoverage)
	assert.Equal(t, 0.5, md.DocumentationCoverage)
	assert.Empty(t, res.Warnings)
}

func TestValidateJSON_KeepsFieldOrder(t *testing.T) {
	doc := `{"id":"s","name":"S","fields":{"zeta":{"type":"money"},"alpha":{"type":"color"},"mid":{"type":"string"}}}`

	res := newValidator().ValidateJSON([]byte(doc), false)

	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "'zeta'")
	assert.Contains(t, res.Errors[1], "'alpha'")
}

func TestValidateDefinition(t *testing.T) {
	def := &domain.SchemaDefinition{
		ID:          "inv",
		Name:        "Invoice",
		Description: "Invoice",
		Version:     "1.0.0",
		Fields: domain.NewFields(
			domain.FieldPair{Name: "total", Def: domain.FieldDefinition{Type: domain.FieldTypeNumber, Required: true}},
		),
	}

	res := newValidator().ValidateDefinition(def, false)

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Warnings)
}

func TestValidate_Idempotent(t *testing.T) {
	doc := []byte(`{"id":"s","name":"S","fields":{"a":{"type":"select"},"b":{"type":"nope"},"c":{"type":"string","validation_rules":[{"type":"length","min":3,"max":1}]}}}`)
	v := newValidator()

	first := v.ValidateJSON(doc, true)
	second := v.ValidateJSON(doc, true)

	assert.Equal(t, first, second)
}

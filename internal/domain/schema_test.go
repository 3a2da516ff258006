package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docschema/internal/domain"
)

func TestFields_JSONKeepsOrder(t *testing.T) {
	doc := `{"zeta":{"type":"string","required":true},"alpha":{"type":"number","required":false},"mid":{"type":"date","required":false}}`

	var f domain.Fields
	require.NoError(t, json.Unmarshal([]byte(doc), &f))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, f.Names())

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(out))
	assert.Equal(t, doc, string(out))
}

func TestFields_Errors(t *testing.T) {
	var f domain.Fields
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &f))
	assert.Error(t, json.Unmarshal([]byte(`{"a":"string"}`), &f))
	assert.NoError(t, json.Unmarshal([]byte(`null`), &f))
	assert.Equal(t, 0, f.Len())
}

func TestFields_SetReplacesInPlace(t *testing.T) {
	f := domain.NewFields(
		domain.FieldPair{Name: "a", Def: domain.FieldDefinition{Type: domain.FieldTypeString}},
		domain.FieldPair{Name: "b", Def: domain.FieldDefinition{Type: domain.FieldTypeString}},
	)
	f.Set("a", domain.FieldDefinition{Type: domain.FieldTypeNumber})

	assert.Equal(t, []string{"a", "b"}, f.Names())
	def, ok := f.Get("a")
	assert.True(t, ok)
	assert.Equal(t, domain.FieldTypeNumber, def.Type)
	assert.False(t, f.Has("c"))

	names := f.Names()
	names[0] = "mutated"
	assert.Equal(t, "a", f.Names()[0])
}

func TestSchemaDefinition_RequiredFields(t *testing.T) {
	s := domain.SchemaDefinition{Fields: domain.NewFields(
		domain.FieldPair{Name: "x", Def: domain.FieldDefinition{Required: true}},
		domain.FieldPair{Name: "y"},
		domain.FieldPair{Name: "z", Def: domain.FieldDefinition{Required: true}},
	)}
	assert.Equal(t, []string{"x", "z"}, s.RequiredFields())
}

func TestNormalizeFieldType(t *testing.T) {
	tests := []struct {
		in     string
		want   domain.FieldType
		fromUI bool
		ok     bool
	}{
		{"string", domain.FieldTypeString, false, true},
		{" Number ", domain.FieldTypeNumber, false, true},
		{"text", domain.FieldTypeText, false, true},
		{"select", domain.FieldTypeString, true, true},
		{"currency", domain.FieldTypeDecimal, true, true},
		{"checkbox", domain.FieldTypeBoolean, true, true},
		{"money", domain.FieldType("money"), false, false},
	}
	for _, tt := range tests {
		got, fromUI, ok := domain.NormalizeFieldType(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.fromUI, fromUI, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestFieldType_Canonical(t *testing.T) {
	assert.Equal(t, domain.FieldTypeDecimal, domain.FieldType("currency").Canonical())
	assert.Equal(t, domain.FieldTypeBoolean, domain.FieldType("checkbox").Canonical())
	assert.Equal(t, domain.FieldTypeNumber, domain.FieldType("Number").Canonical())
	assert.Equal(t, domain.FieldTypeEmail, domain.FieldTypeEmail.Canonical())
	assert.Equal(t, domain.FieldType("money"), domain.FieldType("Money").Canonical())
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, domain.ConfidenceVeryHigh, domain.LevelFor(0.90))
	assert.Equal(t, domain.ConfidenceHigh, domain.LevelFor(0.89999))
	assert.Equal(t, domain.ConfidenceHigh, domain.LevelFor(0.75))
	assert.Equal(t, domain.ConfidenceMedium, domain.LevelFor(0.5))
	assert.Equal(t, domain.ConfidenceLow, domain.LevelFor(0.25))
	assert.Equal(t, domain.ConfidenceVeryLow, domain.LevelFor(0.2499))
}

func TestValidationRule_EffectiveSeverity(t *testing.T) {
	assert.Equal(t, domain.SeverityError, domain.ValidationRule{}.EffectiveSeverity())
	assert.Equal(t, domain.SeverityInfo, domain.ValidationRule{Severity: domain.SeverityInfo}.EffectiveSeverity())
}

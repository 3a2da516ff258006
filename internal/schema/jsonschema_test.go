package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docschema/internal/schema"
)

const invoiceSchema = `{
	"id": "invoice",
	"name": "Invoice",
	"description": "Supplier invoice",
	"version": "1.0.0",
	"fields": {
		"invoice_number": {"type": "string", "required": true, "validation_rules": [{"type": "pattern", "pattern": "^INV-[0-9]+$", "message": "bad number"}]},
		"total": {"type": "number", "required": true, "validation_rules": [{"type": "range", "min": 0, "max": 100000, "message": "out of range"}]},
		"currency": {"type": "select", "validation_rules": [{"type": "enum", "values": ["USD", "EUR"], "message": "unsupported"}]},
		"issued": {"type": "date", "display_name": "Issue date"},
		"lines": {"type": "array", "validation_rules": [{"type": "length", "min": 1, "message": "no lines"}]}
	}
}`

func TestJSONSchemaDocument(t *testing.T) {
	def := mustDecode(t, invoiceSchema)

	data, err := schema.JSONSchemaDocument(def)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, "Invoice", doc["title"])
	assert.Equal(t, []any{"invoice_number", "total"}, doc["required"])

	props := doc["properties"].(map[string]any)
	total := props["total"].(map[string]any)
	assert.Equal(t, "number", total["type"])
	assert.Equal(t, 100000.0, total["maximum"])
	currency := props["currency"].(map[string]any)
	assert.Equal(t, "string", currency["type"])
	assert.Equal(t, []any{"USD", "EUR"}, currency["enum"])
	issued := props["issued"].(map[string]any)
	assert.Equal(t, "date", issued["format"])
	assert.Equal(t, "Issue date", issued["title"])
	lines := props["lines"].(map[string]any)
	assert.Equal(t, 1.0, lines["minItems"])

	// properties keep schema field order
	assert.Less(t, indexOf(string(data), `"invoice_number"`), indexOf(string(data), `"lines"`))
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestConformsTo(t *testing.T) {
	def := mustDecode(t, invoiceSchema)

	assert.NoError(t, schema.ConformsTo(def, map[string]any{
		"invoice_number": "INV-7",
		"total":          120.5,
		"currency":       "USD",
		"lines":          []any{"widget"},
	}))
	assert.Error(t, schema.ConformsTo(def, map[string]any{"invoice_number": "INV-7"}))
	assert.Error(t, schema.ConformsTo(def, map[string]any{"invoice_number": "X", "total": 1.0}))
	assert.Error(t, schema.ConformsTo(def, map[string]any{"invoice_number": "INV-1", "total": "12"}))
}

func TestBuild(t *testing.T) {
	def := mustDecode(t, invoiceSchema)

	s := schema.Build(def)
	assert.Equal(t, []string{"invoice_number", "total", "currency", "issued", "lines"}, s.PropertyOrder)
	assert.Equal(t, "string", s.Properties["currency"].Type, "UI type maps to its canonical JSON type")
	require.NotNil(t, s.Properties["lines"].MinItems)
	assert.Equal(t, 1, *s.Properties["lines"].MinItems)
	assert.Equal(t, "^INV-[0-9]+$", s.Properties["invoice_number"].Pattern)
}

func TestConformsTo_UnwrapsAndSkipsNulls(t *testing.T) {
	def := mustDecode(t, invoiceSchema)

	assert.NoError(t, schema.ConformsTo(def, map[string]any{
		"invoice_number": map[string]any{"value": "INV-9", "confidence": 0.9},
		"total":          42.0,
		"currency":       nil,
	}))
	assert.Error(t, schema.ConformsTo(def, map[string]any{
		"invoice_number": "INV-9",
		"total":          nil,
	}))
}

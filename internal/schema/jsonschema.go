package schema

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"docschema/internal/domain"
	"docschema/internal/value"
)

const draft202012 = "https://json-schema.org/draft/2020-12/schema"

// Build renders def as a JSON Schema describing the expected extraction
// result. Properties follow the field order of def.
func Build(def *domain.SchemaDefinition) *jsonschema.Schema {
	names := def.Fields.Names()
	s := &jsonschema.Schema{
		Schema:        draft202012,
		Title:         def.Name,
		Description:   def.Description,
		Type:          "object",
		Properties:    make(map[string]*jsonschema.Schema, len(names)),
		PropertyOrder: names,
		Required:      []string{},
	}
	for _, name := range names {
		fd, _ := def.Fields.Get(name)
		s.Properties[name] = propertySchema(fd)
		if fd.Required {
			s.Required = append(s.Required, name)
		}
	}
	return s
}

// JSONSchemaDocument returns the JSON encoding of Build(def).
func JSONSchemaDocument(def *domain.SchemaDefinition) ([]byte, error) {
	data, err := json.Marshal(Build(def))
	if err != nil {
		return nil, fmt.Errorf("schema.JSONSchemaDocument: %w", err)
	}
	return data, nil
}

// JSONSchema renders def as a resolved JSON Schema.
func JSONSchema(def *domain.SchemaDefinition) (*jsonschema.Resolved, error) {
	resolved, err := Build(def).Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return nil, fmt.Errorf("schema.JSONSchema: resolve: %w", err)
	}
	return resolved, nil
}

// ConformsTo validates data against the JSON Schema rendering of def. It is
// stricter than extraction validation: types must match exactly. Wrapped
// values are unwrapped and null values are treated as absent.
func ConformsTo(def *domain.SchemaDefinition, data map[string]any) error {
	resolved, err := JSONSchema(def)
	if err != nil {
		return err
	}
	plain := make(map[string]any, len(data))
	for k, raw := range data {
		if v := value.Unwrap(raw).Value; v != nil {
			plain[k] = v
		}
	}
	return resolved.Validate(plain)
}

func propertySchema(fd domain.FieldDefinition) *jsonschema.Schema {
	t := fd.Type.Canonical()
	p := &jsonschema.Schema{
		Title:       fd.DisplayName,
		Description: fd.Description,
	}

	switch t {
	case domain.FieldTypeString, domain.FieldTypeText, domain.FieldTypePhone:
		p.Type = "string"
	case domain.FieldTypeEmail:
		p.Type, p.Format = "string", "email"
	case domain.FieldTypeURL:
		p.Type, p.Format = "string", "uri"
	case domain.FieldTypeDate:
		p.Type, p.Format = "string", "date"
	case domain.FieldTypeDateTime:
		p.Type, p.Format = "string", "date-time"
	case domain.FieldTypeNumber, domain.FieldTypeFloat, domain.FieldTypeDecimal:
		p.Type = "number"
	case domain.FieldTypeInteger:
		p.Type = "integer"
	case domain.FieldTypeBoolean:
		p.Type = "boolean"
	case domain.FieldTypeArray:
		p.Type = "array"
	case domain.FieldTypeObject:
		p.Type = "object"
	}

	for _, ex := range fd.Examples {
		p.Examples = append(p.Examples, ex)
	}

	for _, rule := range fd.ValidationRules {
		switch rule.Type {
		case domain.RuleLength:
			lo, hi := intBound(rule.Min), intBound(rule.Max)
			if t == domain.FieldTypeArray {
				p.MinItems, p.MaxItems = lo, hi
			} else {
				p.MinLength, p.MaxLength = lo, hi
			}
		case domain.RuleRange:
			p.Minimum, p.Maximum = rule.Min, rule.Max
		case domain.RulePattern:
			p.Pattern = rule.Pattern
		case domain.RuleEnum:
			if len(rule.Values) > 0 {
				p.Enum = rule.Values
			}
		}
	}
	return p
}

func intBound(f *float64) *int {
	if f == nil {
		return nil
	}
	return jsonschema.Ptr(int(*f))
}

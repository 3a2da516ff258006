package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultCategory is assigned to schemas saved without a category.
const DefaultCategory = "Other"

// ReservedFieldNames may not be used as schema field names.
var ReservedFieldNames = map[string]bool{
	"id":            true,
	"__internal__":  true,
	"_metadata":     true,
	"_validation":   true,
	"_confidence":   true,
	"_ai_generated": true,
}

// SchemaDefinition describes the fields expected for one document class.
type SchemaDefinition struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	Version     string         `json:"version,omitempty"`
	Fields      Fields         `json:"fields"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// RequiredFields returns the names of required fields in display order.
func (s *SchemaDefinition) RequiredFields() []string {
	var out []string
	for _, name := range s.Fields.Names() {
		if def, _ := s.Fields.Get(name); def.Required {
			out = append(out, name)
		}
	}
	return out
}

// FieldDefinition describes a single expected field.
type FieldDefinition struct {
	Name            string           `json:"name,omitempty"`
	Type            FieldType        `json:"type"`
	Required        bool             `json:"required"`
	DisplayName     string           `json:"display_name,omitempty"`
	Description     string           `json:"description,omitempty"`
	Examples        []string         `json:"examples,omitempty"`
	ValidationRules []ValidationRule `json:"validation_rules,omitempty"`
	DependsOn       string           `json:"depends_on,omitempty"`
	Condition       string           `json:"condition,omitempty"`
	ConditionValue  any              `json:"condition_value,omitempty"`
}

// ValidationRule is one constraint attached to a field. Which parameters are
// meaningful depends on Type.
type ValidationRule struct {
	Type       RuleType `json:"type"`
	Message    string   `json:"message,omitempty"`
	Severity   Severity `json:"severity,omitempty"`
	Min        *float64 `json:"min,omitempty"`
	Max        *float64 `json:"max,omitempty"`
	Pattern    string   `json:"pattern,omitempty"`
	Values     []any    `json:"values,omitempty"`
	DependsOn  string   `json:"depends_on,omitempty"`
	Format     string   `json:"format,omitempty"`
	Expression string   `json:"expression,omitempty"`
}

// EffectiveSeverity returns the rule severity, defaulting to error.
func (r ValidationRule) EffectiveSeverity() Severity {
	if r.Severity == "" {
		return SeverityError
	}
	return r.Severity
}

// Fields is an insertion-ordered mapping of field name to definition.
// The zero value is an empty set ready for use.
type Fields struct {
	names []string
	defs  map[string]FieldDefinition
}

// NewFields builds a Fields from name/definition pairs, keeping their order.
func NewFields(pairs ...FieldPair) Fields {
	var f Fields
	for _, p := range pairs {
		f.Set(p.Name, p.Def)
	}
	return f
}

// FieldPair is a name/definition tuple used to build ordered field sets.
type FieldPair struct {
	Name string
	Def  FieldDefinition
}

// Set adds or replaces a field. New names are appended to the end.
func (f *Fields) Set(name string, def FieldDefinition) {
	if f.defs == nil {
		f.defs = make(map[string]FieldDefinition)
	}
	if _, exists := f.defs[name]; !exists {
		f.names = append(f.names, name)
	}
	f.defs[name] = def
}

// Get returns the definition for name.
func (f Fields) Get(name string) (FieldDefinition, bool) {
	def, ok := f.defs[name]
	return def, ok
}

// Has reports whether name is declared.
func (f Fields) Has(name string) bool {
	_, ok := f.defs[name]
	return ok
}

// Names returns field names in display order.
func (f Fields) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Len returns the number of fields.
func (f Fields) Len() int {
	return len(f.names)
}

// MarshalJSON writes the fields as a JSON object in display order.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range f.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.defs[name])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, preserving key order.
func (f *Fields) UnmarshalJSON(data []byte) error {
	*f = Fields{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("fields must be a JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var def FieldDefinition
		if err := dec.Decode(&def); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		f.Set(name, def)
	}
	_, err = dec.Token()
	return err
}

package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"docschema/internal/domain"
)

// ToJSON returns data as JSON. Input that does not start with '{' or '[' is
// treated as YAML and converted with key order preserved.
func ToJSON(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("invalid JSON document")
		}
		return trimmed, nil
	}
	out, err := yaml.YAMLToJSON(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return out, nil
}

// ReadFile reads a JSON or YAML file and returns it as JSON.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out, err := ToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Decode parses a JSON or YAML schema document.
func Decode(data []byte) (*domain.SchemaDefinition, error) {
	js, err := ToJSON(data)
	if err != nil {
		return nil, err
	}
	var def domain.SchemaDefinition
	if err := json.Unmarshal(js, &def); err != nil {
		return nil, fmt.Errorf("decoding schema: %w", err)
	}
	return &def, nil
}

// LoadFile reads and decodes a schema file.
func LoadFile(path string) (*domain.SchemaDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// LoadResultFile reads an extraction result (a JSON or YAML object).
func LoadResultFile(path string) (map[string]any, error) {
	js, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(js, &out); err != nil {
		return nil, fmt.Errorf("%s: extraction result must be an object: %w", path, err)
	}
	return out, nil
}

// EncodeYAML renders a schema as YAML, keeping field order.
func EncodeYAML(def *domain.SchemaDefinition) ([]byte, error) {
	js, err := json.Marshal(def)
	if err != nil {
		return nil, err
	}
	return yaml.JSONToYAML(js)
}

// Package mcptools exposes the assessment engine as Model Context Protocol
// tools, so agents can check their own extractions before returning them.
package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"docschema/internal/domain"
	"docschema/internal/schema"
	"docschema/internal/service"
)

const serverName = "docschema"

var objectOutput = map[string]interface{}{"type": "object"}

var schemaProperty = map[string]interface{}{
	"type":        "string",
	"description": "Schema definition as a JSON or YAML document",
}

var aiMetadataProperty = map[string]interface{}{
	"type":        "object",
	"description": "Optional model metadata: model_confidence, model_type, generation_confidence",
	"properties": map[string]interface{}{
		"model_confidence":      map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
		"model_type":            map[string]interface{}{"type": "string"},
		"generation_confidence": map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
	},
}

var resultProperty = map[string]interface{}{
	"type": "object",
	"description": "Extraction result keyed by field name. Values may be plain or wrapped as " +
		"{value, confidence, extraction_notes}.",
}

// MetadataValidateSchema describes the validate_schema tool.
var MetadataValidateSchema = &mcp.Tool{
	Name: "validate_schema",
	Description: "Check a document schema for structural problems: missing properties, bad field names, " +
		"unknown types, malformed validation rules and dangling dependencies. " +
		"Strict mode adds warnings for oversized or poorly documented schemas.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"schema"},
		"properties": map[string]interface{}{
			"schema": schemaProperty,
			"strict": map[string]interface{}{"type": "boolean", "description": "Enable strict checks"},
		},
	},
	OutputSchema: objectOutput,
}

// MetadataAssessField describes the assess_field tool.
var MetadataAssessField = &mcp.Tool{
	Name: "assess_field",
	Description: "Score how trustworthy one extracted value is, between 0 and 1, given its field definition. " +
		"Returns the score, its confidence level, the contributing factors and human-readable reasoning.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"name", "field"},
		"properties": map[string]interface{}{
			"name":        map[string]interface{}{"type": "string", "description": "Field name"},
			"value":       map[string]interface{}{"description": "Extracted value, plain or wrapped"},
			"field":       map[string]interface{}{"type": "object", "description": "Field definition (type, required, validation_rules, ...)"},
			"ai_metadata": aiMetadataProperty,
		},
	},
	OutputSchema: objectOutput,
}

// MetadataAssessDocument describes the assess_document tool.
var MetadataAssessDocument = &mcp.Tool{
	Name: "assess_document",
	Description: "Score a whole extraction result against its schema. Returns the document score and " +
		"a per-field breakdown in schema order with a valid, invalid or unsure status for each field.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"result", "schema"},
		"properties": map[string]interface{}{
			"result":      resultProperty,
			"schema":      schemaProperty,
			"ai_metadata": aiMetadataProperty,
		},
	},
	OutputSchema: objectOutput,
}

// MetadataCompareSchemas describes the compare_schemas tool.
var MetadataCompareSchemas = &mcp.Tool{
	Name: "compare_schemas",
	Description: "Diff two versions of a schema. Removed required fields, type changes and newly required " +
		"fields are breaking; everything else is reported as a warning.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"new_schema", "old_schema"},
		"properties": map[string]interface{}{
			"new_schema": schemaProperty,
			"old_schema": schemaProperty,
		},
	},
	OutputSchema: objectOutput,
}

// MetadataValidateExtraction describes the validate_extraction tool.
var MetadataValidateExtraction = &mcp.Tool{
	Name: "validate_extraction",
	Description: "Check an extraction result against the hard contract of its schema. Missing required " +
		"fields fail the check; numeric fields that do not parse as numbers produce warnings.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"result", "schema"},
		"properties": map[string]interface{}{
			"result": resultProperty,
			"schema": schemaProperty,
		},
	},
	OutputSchema: objectOutput,
}

// InputValidateSchema is the input for the validate_schema tool.
type InputValidateSchema struct {
	Schema string `json:"schema"`
	Strict bool   `json:"strict"`
}

// InputAssessField is the input for the assess_field tool.
type InputAssessField struct {
	Name       string                 `json:"name"`
	Value      any                    `json:"value"`
	Field      domain.FieldDefinition `json:"field"`
	AIMetadata *domain.AIMetadata     `json:"ai_metadata,omitempty"`
}

// InputAssessDocument is the input for the assess_document tool.
type InputAssessDocument struct {
	Result     map[string]any     `json:"result"`
	Schema     string             `json:"schema"`
	AIMetadata *domain.AIMetadata `json:"ai_metadata,omitempty"`
}

// InputCompareSchemas is the input for the compare_schemas tool.
type InputCompareSchemas struct {
	NewSchema string `json:"new_schema"`
	OldSchema string `json:"old_schema"`
}

// InputValidateExtraction is the input for the validate_extraction tool.
type InputValidateExtraction struct {
	Result map[string]any `json:"result"`
	Schema string         `json:"schema"`
}

// Tools binds the tool handlers to an assessment service.
type Tools struct {
	assess service.AssessmentService
}

// New creates the tool set.
func New(assess service.AssessmentService) *Tools {
	return &Tools{assess: assess}
}

// NewServer builds an MCP server with every tool registered.
func NewServer(assess service.AssessmentService, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	New(assess).Register(server)
	return server
}

// Register adds the tools to server.
func (t *Tools) Register(server *mcp.Server) {
	mcp.AddTool(server, MetadataValidateSchema, t.ValidateSchema)
	mcp.AddTool(server, MetadataAssessField, t.AssessField)
	mcp.AddTool(server, MetadataAssessDocument, t.AssessDocument)
	mcp.AddTool(server, MetadataCompareSchemas, t.CompareSchemas)
	mcp.AddTool(server, MetadataValidateExtraction, t.ValidateExtraction)
}

// ValidateSchema checks a schema document. Documents that are not JSON or
// YAML are reported through the result rather than as a tool error.
func (t *Tools) ValidateSchema(_ context.Context, _ *mcp.CallToolRequest, input InputValidateSchema) (*mcp.CallToolResult, *domain.StructureResult, error) {
	if input.Schema == "" {
		return nil, nil, fmt.Errorf("schema is required")
	}
	raw := []byte(input.Schema)
	if doc, err := schema.ToJSON(raw); err == nil {
		raw = doc
	}
	return nil, t.assess.ValidateSchema(raw, input.Strict), nil
}

// AssessField scores one value.
func (t *Tools) AssessField(_ context.Context, _ *mcp.CallToolRequest, input InputAssessField) (*mcp.CallToolResult, domain.ConfidenceScore, error) {
	if input.Name == "" {
		return nil, domain.ConfidenceScore{}, fmt.Errorf("name is required")
	}
	score := t.assess.AssessField(&service.AssessFieldInput{
		Name:       input.Name,
		Value:      input.Value,
		Field:      input.Field,
		AIMetadata: input.AIMetadata,
	})
	return nil, score, nil
}

// AssessDocument scores a whole result.
func (t *Tools) AssessDocument(_ context.Context, _ *mcp.CallToolRequest, input InputAssessDocument) (*mcp.CallToolResult, domain.DocumentAssessment, error) {
	def, err := decodeSchema("schema", input.Schema)
	if err != nil {
		return nil, domain.DocumentAssessment{}, err
	}
	result := input.Result
	if result == nil {
		result = map[string]any{}
	}
	out := t.assess.AssessDocument(&service.AssessDocumentInput{
		Result:     result,
		Schema:     *def,
		AIMetadata: input.AIMetadata,
	})
	return nil, out, nil
}

// CompareSchemas diffs two schema versions.
func (t *Tools) CompareSchemas(_ context.Context, _ *mcp.CallToolRequest, input InputCompareSchemas) (*mcp.CallToolResult, *domain.CompatibilityResult, error) {
	newDef, err := decodeSchema("new_schema", input.NewSchema)
	if err != nil {
		return nil, nil, err
	}
	oldDef, err := decodeSchema("old_schema", input.OldSchema)
	if err != nil {
		return nil, nil, err
	}
	return nil, t.assess.CompareSchemas(newDef, oldDef), nil
}

// ValidateExtraction checks a result against a schema.
func (t *Tools) ValidateExtraction(_ context.Context, _ *mcp.CallToolRequest, input InputValidateExtraction) (*mcp.CallToolResult, domain.ExtractionCheck, error) {
	def, err := decodeSchema("schema", input.Schema)
	if err != nil {
		return nil, domain.ExtractionCheck{}, err
	}
	return nil, t.assess.ValidateExtraction(input.Result, def), nil
}

func decodeSchema(param, doc string) (*domain.SchemaDefinition, error) {
	if doc == "" {
		return nil, fmt.Errorf("%s is required", param)
	}
	def, err := schema.Decode([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", param, err)
	}
	return def, nil
}

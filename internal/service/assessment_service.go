package service

import (
	"docschema/internal/confidence"
	"docschema/internal/domain"
	"docschema/internal/extraction"
	"docschema/internal/schema"
	"docschema/internal/validator"
)

// AssessFieldInput is the DTO for scoring one extracted value.
type AssessFieldInput struct {
	Name       string                 `json:"name" binding:"required"`
	Value      any                    `json:"value"`
	Field      domain.FieldDefinition `json:"field"`
	AIMetadata *domain.AIMetadata     `json:"ai_metadata,omitempty"`
}

// AssessDocumentInput is the DTO for scoring a whole extraction result.
type AssessDocumentInput struct {
	Result     map[string]any          `json:"result"`
	Schema     domain.SchemaDefinition `json:"schema"`
	AIMetadata *domain.AIMetadata      `json:"ai_metadata,omitempty"`
}

// CompareSchemasInput is the DTO for comparing two schema versions.
type CompareSchemasInput struct {
	New domain.SchemaDefinition `json:"new_schema"`
	Old domain.SchemaDefinition `json:"old_schema"`
}

// ValidateExtractionInput is the DTO for checking an extraction result.
type ValidateExtractionInput struct {
	Result map[string]any          `json:"result"`
	Schema domain.SchemaDefinition `json:"schema"`
}

// AssessmentService exposes the validation and scoring engine. Every method
// is pure and safe for concurrent use.
type AssessmentService interface {
	ValidateSchema(raw []byte, strict bool) *domain.StructureResult
	ValidateSchemaDefinition(def *domain.SchemaDefinition, strict bool) *domain.StructureResult
	AssessField(input *AssessFieldInput) domain.ConfidenceScore
	AssessDocument(input *AssessDocumentInput) domain.DocumentAssessment
	CompareSchemas(newSchema, oldSchema *domain.SchemaDefinition) *domain.CompatibilityResult
	ValidateExtraction(result map[string]any, def *domain.SchemaDefinition) domain.ExtractionCheck
}

type assessmentService struct {
	structure *schema.Validator
	compat    *schema.CompatibilityChecker
	fields    *confidence.FieldAssessor
	document  *confidence.DocumentAssessor
	results   *extraction.ResultValidator
}

// NewAssessmentService wires the engine components. A nil crossField disables
// cross-field consistency checks.
func NewAssessmentService(crossField confidence.CrossFieldChecker) AssessmentService {
	exprs := validator.NewExpressionEngine()
	fields := confidence.NewFieldAssessor(validator.NewEngine(validator.NewDefaultRegistry(exprs)))
	return &assessmentService{
		structure: schema.NewValidator(exprs),
		compat:    schema.NewCompatibilityChecker(),
		fields:    fields,
		document:  confidence.NewDocumentAssessor(fields, crossField),
		results:   extraction.NewResultValidator(),
	}
}

func (s *assessmentService) ValidateSchema(raw []byte, strict bool) *domain.StructureResult {
	return s.structure.ValidateJSON(raw, strict)
}

func (s *assessmentService) ValidateSchemaDefinition(def *domain.SchemaDefinition, strict bool) *domain.StructureResult {
	return s.structure.ValidateDefinition(def, strict)
}

func (s *assessmentService) AssessField(input *AssessFieldInput) domain.ConfidenceScore {
	return s.fields.Assess(input.Name, input.Value, input.Field, input.AIMetadata)
}

func (s *assessmentService) AssessDocument(input *AssessDocumentInput) domain.DocumentAssessment {
	return s.document.Breakdown(input.Result, &input.Schema, input.AIMetadata)
}

func (s *assessmentService) CompareSchemas(newSchema, oldSchema *domain.SchemaDefinition) *domain.CompatibilityResult {
	return s.compat.Compare(newSchema, oldSchema)
}

func (s *assessmentService) ValidateExtraction(result map[string]any, def *domain.SchemaDefinition) domain.ExtractionCheck {
	return s.results.Validate(result, def)
}

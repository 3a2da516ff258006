package domain

import "time"

// Field-level confidence factor names.
const (
	FactorTypeConfidence       = "type_confidence"
	FactorValueQuality         = "value_quality"
	FactorSchemaCompliance     = "schema_compliance"
	FactorAIModel              = "ai_model"
	FactorNameConsistency      = "name_consistency"
	FactorValidationCompliance = "validation_compliance"
)

// Document-level confidence factor names.
const (
	FactorCoverage              = "coverage"
	FactorRequiredCompletion    = "required_completion"
	FactorCrossFieldConsistency = "cross_field_consistency"
	FactorAIGeneration          = "ai_generation"
	FactorStructureQuality      = "structure_quality"
	FactorFieldAverage          = "field_average"
)

// ValidationResult carries accumulated errors and warnings.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewValidationResult returns a valid result with empty, non-nil slices.
func NewValidationResult() ValidationResult {
	return ValidationResult{IsValid: true, Errors: []string{}, Warnings: []string{}}
}

// AddError records an error and marks the result invalid.
func (r *ValidationResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.IsValid = false
}

// AddWarning records a warning.
func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// StructureMetadata summarises a schema's shape.
type StructureMetadata struct {
	TotalFields           int     `json:"total_fields"`
	RequiredFields        int     `json:"required_fields"`
	FieldsWithValidation  int     `json:"fields_with_validation"`
	FieldsWithExamples    int     `json:"fields_with_examples"`
	FieldsWithDescription int     `json:"fields_with_description"`
	ValidationCoverage    float64 `json:"validation_coverage"`
	DocumentationCoverage float64 `json:"documentation_coverage"`
	ErrorCount            int     `json:"error_count"`
	WarningCount          int     `json:"warning_count"`
}

// StructureResult is the outcome of validating a schema definition.
type StructureResult struct {
	ValidationResult
	Metadata StructureMetadata `json:"metadata"`
}

// SchemaChange is one difference found between two schema versions.
type SchemaChange struct {
	Kind     ChangeKind `json:"kind"`
	Field    string     `json:"field"`
	Message  string     `json:"message"`
	Severity Severity   `json:"severity"`
	Breaking bool       `json:"breaking"`
}

// CompatibilityMetadata summarises a schema comparison.
type CompatibilityMetadata struct {
	RemovedFields   []string `json:"removed_fields"`
	NewFields       []string `json:"new_fields"`
	CommonFields    []string `json:"common_fields"`
	BreakingChanges int      `json:"breaking_changes"`
}

// CompatibilityResult is the outcome of comparing two schema versions.
type CompatibilityResult struct {
	ValidationResult
	Changes  []SchemaChange        `json:"changes"`
	Metadata CompatibilityMetadata `json:"metadata"`
}

// ExtractionCheck is the correctness verdict for an extraction result.
type ExtractionCheck struct {
	Passed   bool     `json:"passed"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// AIMetadata describes the model run that produced an extraction.
type AIMetadata struct {
	ModelConfidence      *float64 `json:"model_confidence,omitempty"`
	ModelType            string   `json:"model_type,omitempty"`
	GenerationConfidence *float64 `json:"generation_confidence,omitempty"`
}

// ConfidenceScore is a scored assessment with its contributing factors.
type ConfidenceScore struct {
	Score     float64            `json:"score"`
	Level     ConfidenceLevel    `json:"level"`
	Factors   map[string]float64 `json:"factors"`
	Reasoning []string           `json:"reasoning"`
	Timestamp time.Time          `json:"timestamp"`
}

// FieldScore pairs a field's extracted value with its assessment.
type FieldScore struct {
	Field  string                `json:"field"`
	Value  any                   `json:"value"`
	Score  ConfidenceScore       `json:"score"`
	Status FieldValidationStatus `json:"status"`
	Issues []string              `json:"issues,omitempty"`
}

// DocumentAssessment is a document score plus its per-field breakdown in
// schema order.
type DocumentAssessment struct {
	Document ConfidenceScore `json:"document"`
	Fields   []FieldScore    `json:"fields"`
}

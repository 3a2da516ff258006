package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StoredSchema is one persisted version of a SchemaDefinition.
type StoredSchema struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	SchemaID   string          `db:"schema_id" json:"schema_id"`
	Version    string          `db:"version" json:"version"`
	Name       string          `db:"name" json:"name"`
	Category   string          `db:"category" json:"category"`
	Definition json.RawMessage `db:"definition" json:"definition"`
	IsActive   bool            `db:"is_active" json:"is_active"`
	CreatedBy  string          `db:"created_by" json:"created_by"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// Decode unmarshals the stored definition.
func (s *StoredSchema) Decode() (*SchemaDefinition, error) {
	var def SchemaDefinition
	if err := json.Unmarshal(s.Definition, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

// ExtractionStatus represents the state of an extraction run.
type ExtractionStatus string

const (
	ExtractionStatusPending   ExtractionStatus = "pending"
	ExtractionStatusCompleted ExtractionStatus = "completed"
	ExtractionStatusFailed    ExtractionStatus = "failed"
)

// Extraction is the persisted outcome of running a document through a parser
// and the scoring engine.
type Extraction struct {
	ID              uuid.UUID        `db:"id" json:"id"`
	SchemaID        string           `db:"schema_id" json:"schema_id"`
	SchemaVersion   string           `db:"schema_version" json:"schema_version"`
	FileName        string           `db:"file_name" json:"file_name"`
	ContentType     string           `db:"content_type" json:"content_type"`
	FileSize        int64            `db:"file_size" json:"file_size"`
	S3Bucket        string           `db:"s3_bucket" json:"s3_bucket"`
	S3Key           string           `db:"s3_key" json:"s3_key"`
	Status          ExtractionStatus `db:"status" json:"status"`
	ParserModel     string           `db:"parser_model" json:"parser_model"`
	ParserPrompt    string           `db:"parser_prompt" json:"-"`
	Attempts        int              `db:"attempts" json:"attempts"`
	Data            json.RawMessage  `db:"data" json:"data"`
	Validation      json.RawMessage  `db:"validation" json:"validation"`
	Assessment      json.RawMessage  `db:"assessment" json:"assessment"`
	FieldProvenance json.RawMessage  `db:"field_provenance" json:"field_provenance,omitempty"`
	OverallScore    float64          `db:"overall_score" json:"overall_score"`
	ConfidenceLevel ConfidenceLevel  `db:"confidence_level" json:"confidence_level"`
	Passed          bool             `db:"passed" json:"passed"`
	Error           string           `db:"error" json:"error,omitempty"`
	CreatedBy       string           `db:"created_by" json:"created_by"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	CompletedAt     *time.Time       `db:"completed_at" json:"completed_at"`
}

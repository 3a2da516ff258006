// Package report renders an extraction's per-field confidence breakdown as
// CSV or XLSX, and imports schema definitions from field spreadsheets.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docschema/internal/domain"
	"docschema/internal/value"
)

// Row is one field of an extraction report.
type Row struct {
	Field      string
	Value      string
	Score      float64
	Level      domain.ConfidenceLevel
	Status     domain.FieldValidationStatus
	Issues     []string
	Provenance string
}

// Report is the flattened view of a completed extraction.
type Report struct {
	ExtractionID  uuid.UUID
	SchemaID      string
	SchemaVersion string
	FileName      string
	ParserModel   string
	OverallScore  float64
	Level         domain.ConfidenceLevel
	Passed        bool
	Errors        []string
	Warnings      []string
	Factors       map[string]float64
	Rows          []Row
	CreatedAt     time.Time
}

// Build flattens an extraction record.
func Build(e *domain.Extraction) (*Report, error) {
	r := &Report{
		ExtractionID:  e.ID,
		SchemaID:      e.SchemaID,
		SchemaVersion: e.SchemaVersion,
		FileName:      e.FileName,
		ParserModel:   e.ParserModel,
		OverallScore:  e.OverallScore,
		Level:         e.ConfidenceLevel,
		Passed:        e.Passed,
		CreatedAt:     e.CreatedAt,
	}

	if len(e.Validation) > 0 {
		var check domain.ExtractionCheck
		if err := json.Unmarshal(e.Validation, &check); err != nil {
			return nil, fmt.Errorf("report.Build: decoding validation: %w", err)
		}
		r.Errors = check.Errors
		r.Warnings = check.Warnings
	}

	var provenance map[string]string
	if len(e.FieldProvenance) > 0 {
		if err := json.Unmarshal(e.FieldProvenance, &provenance); err != nil {
			return nil, fmt.Errorf("report.Build: decoding provenance: %w", err)
		}
	}

	if len(e.Assessment) > 0 {
		var a domain.DocumentAssessment
		if err := json.Unmarshal(e.Assessment, &a); err != nil {
			return nil, fmt.Errorf("report.Build: decoding assessment: %w", err)
		}
		r.Factors = a.Document.Factors
		for i := range a.Fields {
			fs := &a.Fields[i]
			r.Rows = append(r.Rows, Row{
				Field:      fs.Field,
				Value:      value.String(fs.Value),
				Score:      fs.Score.Score,
				Level:      fs.Score.Level,
				Status:     fs.Status,
				Issues:     fs.Issues,
				Provenance: provenance[fs.Field],
			})
		}
	}
	return r, nil
}

func joinIssues(issues []string) string {
	return strings.Join(issues, "; ")
}

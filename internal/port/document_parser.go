package port

import (
	"context"
	"encoding/json"

	"docschema/internal/domain"
)

// ParseInput carries the data needed for document parsing.
type ParseInput struct {
	FileBytes   []byte
	ContentType string
	Schema      *domain.SchemaDefinition
}

// ParseOutput contains the structured result from an LLM parser.
type ParseOutput struct {
	Data              json.RawMessage
	ConfidenceScores  map[string]float64
	OverallConfidence *float64
	ModelUsed         string
	PromptUsed        string
	FieldProvenance   map[string]string // which model provided each field (populated in merge mode)
	SecondaryModel    string            // secondary model used (for audit trail in merge mode)
}

// AIMetadata derives the scoring metadata for this parse. The generation
// confidence is the mean of the per-field confidences, when there are any.
func (o *ParseOutput) AIMetadata() *domain.AIMetadata {
	meta := &domain.AIMetadata{ModelType: o.ModelUsed}
	if o.OverallConfidence != nil {
		c := *o.OverallConfidence
		meta.ModelConfidence = &c
	}
	if len(o.ConfidenceScores) > 0 {
		var sum float64
		for _, c := range o.ConfidenceScores {
			sum += c
		}
		mean := sum / float64(len(o.ConfidenceScores))
		meta.GenerationConfidence = &mean
		if meta.ModelConfidence == nil {
			meta.ModelConfidence = &mean
		}
	}
	return meta
}

// DocumentParser abstracts LLM-based document parsing.
type DocumentParser interface {
	Parse(ctx context.Context, input ParseInput) (*ParseOutput, error)
}

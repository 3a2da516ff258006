package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"docschema/internal/port"
)

// modelOutput is the JSON envelope every provider is asked to return.
type modelOutput struct {
	Data              json.RawMessage    `json:"data"`
	ConfidenceScores  map[string]float64 `json:"confidence_scores"`
	OverallConfidence *float64           `json:"overall_confidence"`
}

// DecodeModelOutput turns the text a provider returned into a ParseOutput.
// Stray code fences are stripped and confidences are clamped to [0, 1].
func DecodeModelOutput(text, model, prompt string) (*port.ParseOutput, error) {
	cleaned := stripCodeFence(text)

	var parsed modelOutput
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("parsing LLM JSON output: %w (raw: %s)", err, Truncate(text, 500))
	}
	if len(parsed.Data) == 0 || string(parsed.Data) == "null" {
		return nil, fmt.Errorf("parsing LLM JSON output: missing \"data\" object (raw: %s)", Truncate(text, 500))
	}

	scores := make(map[string]float64, len(parsed.ConfidenceScores))
	for k, v := range parsed.ConfidenceScores {
		scores[k] = clampUnit(v)
	}
	var overall *float64
	if parsed.OverallConfidence != nil {
		c := clampUnit(*parsed.OverallConfidence)
		overall = &c
	}

	return &port.ParseOutput{
		Data:              parsed.Data,
		ConfidenceScores:  scores,
		OverallConfidence: overall,
		ModelUsed:         model,
		PromptUsed:        prompt,
	}, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func clampUnit(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return math.Max(0, math.Min(1, f))
}

// Truncate shortens s for inclusion in error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

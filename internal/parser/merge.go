package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"docschema/internal/domain"
	"docschema/internal/port"
	"docschema/internal/value"
)

// Merge provenance labels.
const (
	provenanceAgree           = "agree"
	provenancePrimary         = "primary"
	provenanceSecondary       = "secondary"
	provenancePrimaryFormat   = "primary_format"
	provenanceSecondaryFormat = "secondary_format"
	provenanceDisagreement    = "disagreement"
)

// MergeParser wraps two DocumentParsers, runs both in parallel, and merges results.
type MergeParser struct {
	primary   port.DocumentParser
	secondary port.DocumentParser
	log       *zap.Logger
}

// NewMergeParser creates a MergeParser from primary and secondary parsers.
func NewMergeParser(primary, secondary port.DocumentParser, log *zap.Logger) *MergeParser {
	if log == nil {
		log = zap.NewNop()
	}
	return &MergeParser{primary: primary, secondary: secondary, log: log.Named("parser.merge")}
}

func (m *MergeParser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	type result struct {
		output *port.ParseOutput
		err    error
	}

	var wg sync.WaitGroup
	var pResult, sResult result

	wg.Add(2)
	go func() {
		defer wg.Done()
		out, err := m.primary.Parse(ctx, input)
		pResult = result{out, err}
	}()
	go func() {
		defer wg.Done()
		out, err := m.secondary.Parse(ctx, input)
		sResult = result{out, err}
	}()
	wg.Wait()

	if pResult.err != nil && sResult.err != nil {
		return nil, fmt.Errorf("both parsers failed: primary: %v; secondary: %w", pResult.err, sResult.err)
	}

	if pResult.err != nil {
		m.log.Warn("primary parser failed, using secondary only", zap.Error(pResult.err))
		sResult.output.FieldProvenance = map[string]string{"_source": "secondary_only"}
		sResult.output.SecondaryModel = sResult.output.ModelUsed
		return sResult.output, nil
	}

	if sResult.err != nil {
		m.log.Warn("secondary parser failed, using primary only", zap.Error(sResult.err))
		pResult.output.FieldProvenance = map[string]string{"_source": "primary_only"}
		return pResult.output, nil
	}

	return m.mergeOutputs(pResult.output, sResult.output, input.Schema), nil
}

func (m *MergeParser) mergeOutputs(primary, secondary *port.ParseOutput, schema *domain.SchemaDefinition) *port.ParseOutput {
	var pData, sData map[string]any
	if err := json.Unmarshal(primary.Data, &pData); err != nil {
		m.log.Warn("primary output is not a JSON object, keeping it unmerged", zap.Error(err))
		return primary
	}
	if err := json.Unmarshal(secondary.Data, &sData); err != nil {
		m.log.Warn("secondary output is not a JSON object, keeping primary", zap.Error(err))
		return primary
	}

	merged := make(map[string]any, len(pData))
	for k, v := range pData {
		merged[k] = v
	}
	conf := make(map[string]float64, len(primary.ConfidenceScores))
	for k, v := range primary.ConfidenceScores {
		conf[k] = v
	}
	provenance := make(map[string]string)

	for _, name := range mergeKeys(pData, sData, schema) {
		var fieldType domain.FieldType
		if schema != nil {
			if fd, ok := schema.Fields.Get(name); ok {
				fieldType = fd.Type.Canonical()
			}
		}
		mergeField(name, fieldType, merged, sData[name], conf, secondary.ConfidenceScores, provenance)
	}

	mergedData, err := json.Marshal(merged)
	if err != nil {
		return primary
	}

	return &port.ParseOutput{
		Data:              mergedData,
		ConfidenceScores:  conf,
		OverallConfidence: meanOverall(primary.OverallConfidence, secondary.OverallConfidence),
		ModelUsed:         primary.ModelUsed,
		PromptUsed:        primary.PromptUsed,
		FieldProvenance:   provenance,
		SecondaryModel:    secondary.ModelUsed,
	}
}

// mergeKeys lists the schema's fields in order, followed by any other keys
// either provider returned.
func mergeKeys(pData, sData map[string]any, schema *domain.SchemaDefinition) []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	if schema != nil {
		for _, name := range schema.Fields.Names() {
			add(name)
		}
	}
	for _, data := range []map[string]any{pData, sData} {
		extra := make([]string, 0, len(data))
		for k := range data {
			if !seen[k] {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		for _, k := range extra {
			add(k)
		}
	}
	return keys
}

// mergeField applies the per-field merge strategy. merged and conf start as
// the primary's values and are updated in place.
func mergeField(name string, fieldType domain.FieldType, merged map[string]any, sRaw any,
	conf, sConf map[string]float64, provenance map[string]string) {
	pRaw := merged[name]
	pVal := value.Unwrap(pRaw).Value
	sVal := value.Unwrap(sRaw).Value
	pEmpty, sEmpty := value.IsEmpty(pVal), value.IsEmpty(sVal)

	switch {
	case pEmpty && sEmpty:
		return
	case sameValue(pVal, sVal):
		if c, ok := conf[name]; ok && c < 1.0 {
			conf[name] = min(c+(1.0-c)*0.2, 1.0)
		}
		provenance[name] = provenanceAgree
	case pEmpty:
		merged[name] = sRaw
		if c, ok := sConf[name]; ok {
			conf[name] = c
		} else {
			delete(conf, name)
		}
		provenance[name] = provenanceSecondary
	case sEmpty:
		provenance[name] = provenancePrimary
	default:
		// Disagreement: prefer the value that fits the declared type.
		if fieldType != "" {
			pMatch := value.MatchesType(fieldType, pVal)
			sMatch := value.MatchesType(fieldType, sVal)
			if sMatch && !pMatch {
				merged[name] = sRaw
				conf[name] = sConf[name] * 0.8
				provenance[name] = provenanceSecondaryFormat
				return
			}
			if pMatch && !sMatch {
				conf[name] *= 0.8
				provenance[name] = provenancePrimaryFormat
				return
			}
		}
		conf[name] *= 0.6
		provenance[name] = provenanceDisagreement
	}
}

// sameValue compares two extracted values, treating strings case- and
// whitespace-insensitively and numbers by value.
func sameValue(a, b any) bool {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.EqualFold(strings.TrimSpace(as), strings.TrimSpace(bs))
		}
	}
	af, aNum := value.ToFloat(a)
	bf, bNum := value.ToFloat(b)
	if aNum && bNum {
		_, aStr := a.(string)
		_, bStr := b.(string)
		if aStr != bStr {
			return af == bf
		}
	}
	return reflect.DeepEqual(a, b)
}

func meanOverall(a, b *float64) *float64 {
	switch {
	case a != nil && b != nil:
		m := (*a + *b) / 2
		return &m
	case a != nil:
		return a
	default:
		return b
	}
}

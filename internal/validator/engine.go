package validator

import (
	"fmt"

	"docschema/internal/domain"
	"docschema/internal/value"
)

// Outcome is the result of applying one rule to one field value.
type Outcome struct {
	Rule    domain.ValidationRule `json:"rule"`
	Passed  bool                  `json:"passed"`
	Skipped bool                  `json:"skipped,omitempty"`
	Message string                `json:"message,omitempty"`
	Err     string                `json:"error,omitempty"`
}

// Engine applies a field's validation rules to an extracted value.
type Engine struct {
	registry *Registry
}

// NewEngine creates a rule engine backed by registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Evaluate runs every rule of def against v, in declaration order. Empty
// values skip all rules except `required`. A checker that fails or panics
// yields a failed outcome.
func (e *Engine) Evaluate(field string, def domain.FieldDefinition, v any) []Outcome {
	out := make([]Outcome, 0, len(def.ValidationRules))
	empty := value.IsEmpty(v)
	for _, rule := range def.ValidationRules {
		if empty && rule.Type != domain.RuleRequired {
			out = append(out, Outcome{Rule: rule, Passed: true, Skipped: true})
			continue
		}
		out = append(out, e.apply(rule, field, def, v))
	}
	return out
}

// Compliance returns the fraction of outcomes that passed, or 1.0 when there
// are none.
func Compliance(outcomes []Outcome) float64 {
	if len(outcomes) == 0 {
		return 1.0
	}
	passed := 0
	for _, o := range outcomes {
		if o.Passed {
			passed++
		}
	}
	return float64(passed) / float64(len(outcomes))
}

func (e *Engine) apply(rule domain.ValidationRule, field string, def domain.FieldDefinition, v any) (o Outcome) {
	o = Outcome{Rule: rule}
	defer func() {
		if r := recover(); r != nil {
			o.Passed = false
			o.Err = fmt.Sprintf("rule panicked: %v", r)
			o.Message = failureMessage(rule, field)
		}
	}()

	checker := e.registry.Get(rule.Type)
	if checker == nil {
		o.Err = fmt.Sprintf("no checker registered for rule type %q", rule.Type)
		o.Message = failureMessage(rule, field)
		return o
	}
	passed, err := checker.Check(rule, field, def, v)
	if err != nil {
		o.Err = err.Error()
	}
	o.Passed = passed && err == nil
	if !o.Passed {
		o.Message = failureMessage(rule, field)
	}
	return o
}

func failureMessage(rule domain.ValidationRule, field string) string {
	if rule.Message != "" {
		return rule.Message
	}
	return fmt.Sprintf("%s: %s rule failed", field, rule.Type)
}

package validator

import (
	"sort"

	"docschema/internal/domain"
)

// Registry maps rule types to Checker implementations.
type Registry struct {
	checkers map[domain.RuleType]Checker
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{checkers: make(map[domain.RuleType]Checker)}
}

// NewDefaultRegistry returns a registry holding the built-in checkers. Custom
// rules are evaluated by exprs.
func NewDefaultRegistry(exprs *ExpressionEngine) *Registry {
	r := NewRegistry()
	for _, c := range builtinCheckers(exprs) {
		r.Register(c)
	}
	return r
}

// Register adds a checker, replacing any existing one for the same rule type.
func (r *Registry) Register(c Checker) {
	r.checkers[c.RuleType()] = c
}

// Get returns the checker for a rule type, or nil if none is registered.
func (r *Registry) Get(t domain.RuleType) Checker {
	return r.checkers[t]
}

// All returns all registered checkers ordered by rule type.
func (r *Registry) All() []Checker {
	out := make([]Checker, 0, len(r.checkers))
	for _, c := range r.checkers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RuleType() < out[j].RuleType() })
	return out
}

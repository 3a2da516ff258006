package validator

import "docschema/internal/domain"

// Checker evaluates one kind of ValidationRule against a single present value.
type Checker interface {
	RuleType() domain.RuleType
	Check(rule domain.ValidationRule, field string, def domain.FieldDefinition, v any) (bool, error)
}

// checkerFunc adapts a function to the Checker interface.
type checkerFunc struct {
	ruleType domain.RuleType
	check    func(rule domain.ValidationRule, field string, def domain.FieldDefinition, v any) (bool, error)
}

func (c checkerFunc) RuleType() domain.RuleType { return c.ruleType }

func (c checkerFunc) Check(rule domain.ValidationRule, field string, def domain.FieldDefinition, v any) (bool, error) {
	return c.check(rule, field, def, v)
}

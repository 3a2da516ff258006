package validator

import (
	"fmt"
	"regexp"
	"sync"

	"docschema/internal/domain"
	"docschema/internal/value"
)

var patternCache sync.Map // string -> *regexp.Regexp

func compilePattern(p string) (*regexp.Regexp, error) {
	if re, ok := patternCache.Load(p); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(p)
	if err != nil {
		return nil, err
	}
	patternCache.Store(p, re)
	return re, nil
}

func builtinCheckers(exprs *ExpressionEngine) []Checker {
	return []Checker{
		checkerFunc{ruleType: domain.RuleRequired, check: requiredCheck},
		checkerFunc{ruleType: domain.RuleLength, check: lengthCheck},
		checkerFunc{ruleType: domain.RuleRange, check: rangeCheck},
		checkerFunc{ruleType: domain.RulePattern, check: patternCheck},
		checkerFunc{ruleType: domain.RuleEnum, check: enumCheck},
		checkerFunc{ruleType: domain.RuleFormat, check: formatCheck},
		checkerFunc{ruleType: domain.RuleCustom, check: customCheck(exprs)},
		// Dependency and uniqueness span records, not values.
		checkerFunc{ruleType: domain.RuleDependency, check: alwaysPass},
		checkerFunc{ruleType: domain.RuleUnique, check: alwaysPass},
	}
}

func alwaysPass(domain.ValidationRule, string, domain.FieldDefinition, any) (bool, error) {
	return true, nil
}

func requiredCheck(_ domain.ValidationRule, _ string, _ domain.FieldDefinition, v any) (bool, error) {
	return !value.IsEmpty(v), nil
}

func lengthCheck(rule domain.ValidationRule, _ string, _ domain.FieldDefinition, v any) (bool, error) {
	n, ok := value.Length(v)
	if !ok {
		n = len([]rune(value.String(v)))
	}
	if rule.Min != nil && float64(n) < *rule.Min {
		return false, nil
	}
	if rule.Max != nil && float64(n) > *rule.Max {
		return false, nil
	}
	return true, nil
}

func rangeCheck(rule domain.ValidationRule, _ string, _ domain.FieldDefinition, v any) (bool, error) {
	f, ok := value.ToLooseFloat(v)
	if !ok {
		return false, fmt.Errorf("value %q is not numeric", value.String(v))
	}
	if rule.Min != nil && f < *rule.Min {
		return false, nil
	}
	if rule.Max != nil && f > *rule.Max {
		return false, nil
	}
	return true, nil
}

func patternCheck(rule domain.ValidationRule, _ string, _ domain.FieldDefinition, v any) (bool, error) {
	re, err := compilePattern(rule.Pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(value.String(v)), nil
}

func enumCheck(rule domain.ValidationRule, _ string, _ domain.FieldDefinition, v any) (bool, error) {
	s := value.String(v)
	for _, allowed := range rule.Values {
		if value.String(allowed) == s {
			return true, nil
		}
	}
	return false, nil
}

func formatCheck(rule domain.ValidationRule, _ string, def domain.FieldDefinition, v any) (bool, error) {
	t := def.Type
	if rule.Format != "" {
		ft, _, ok := domain.NormalizeFieldType(rule.Format)
		if !ok {
			return false, fmt.Errorf("unknown format %q", rule.Format)
		}
		t = ft
	}
	return value.MatchesType(t, v), nil
}

func customCheck(exprs *ExpressionEngine) func(domain.ValidationRule, string, domain.FieldDefinition, any) (bool, error) {
	return func(rule domain.ValidationRule, field string, _ domain.FieldDefinition, v any) (bool, error) {
		if exprs == nil {
			return false, fmt.Errorf("no expression engine configured")
		}
		return exprs.Evaluate(rule.Expression, field, v)
	}
}

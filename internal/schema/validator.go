// Package schema validates schema definitions, compares schema versions and
// exports schemas as JSON Schema.
package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"docschema/internal/domain"
	"docschema/internal/validator"
)

var (
	schemaIDPattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	fieldNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)
	versionPattern   = regexp.MustCompile(`^\d+\.\d+\.\d+(-[A-Za-z0-9]+)?$`)
)

const maxExamples = 10

// Rule types that only make sense on certain field types. Mismatches are
// reported as warnings.
var ruleFieldTypes = map[domain.RuleType]map[domain.FieldType]bool{
	domain.RuleLength: {
		domain.FieldTypeString: true, domain.FieldTypeText: true, domain.FieldTypeArray: true,
		domain.FieldTypeEmail: true, domain.FieldTypePhone: true, domain.FieldTypeURL: true,
	},
	domain.RuleRange: {
		domain.FieldTypeNumber: true, domain.FieldTypeInteger: true,
		domain.FieldTypeFloat: true, domain.FieldTypeDecimal: true,
	},
	domain.RulePattern: {
		domain.FieldTypeString: true, domain.FieldTypeText: true, domain.FieldTypeEmail: true,
		domain.FieldTypePhone: true, domain.FieldTypeURL: true, domain.FieldTypeDate: true,
		domain.FieldTypeDateTime: true,
	},
}

var createdDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Validator checks that schema definitions are well formed. Validation is
// total: every problem is reported in the result and nothing panics.
type Validator struct {
	exprs *validator.ExpressionEngine
}

// NewValidator creates a Validator. exprs compiles custom rule expressions.
func NewValidator(exprs *validator.ExpressionEngine) *Validator {
	return &Validator{exprs: exprs}
}

// Validate checks an undecoded schema document. Fields are visited in sorted
// order since a Go map carries none.
func (v *Validator) Validate(raw map[string]any, strict bool) *domain.StructureResult {
	return v.validate(raw, nil, strict)
}

// ValidateJSON checks a JSON schema document, keeping its field order.
func (v *Validator) ValidateJSON(data []byte, strict bool) *domain.StructureResult {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		res := newStructureResult()
		res.AddError(fmt.Sprintf("Schema is not valid JSON: %v", err))
		return finish(res)
	}
	raw, ok := doc.(map[string]any)
	if !ok {
		res := newStructureResult()
		res.AddError("Schema must be a JSON object")
		return finish(res)
	}
	return v.validate(raw, fieldOrder(data), strict)
}

// ValidateDefinition checks a decoded schema.
func (v *Validator) ValidateDefinition(def *domain.SchemaDefinition, strict bool) *domain.StructureResult {
	if def == nil {
		return v.validate(nil, nil, strict)
	}
	data, err := json.Marshal(def)
	if err != nil {
		res := newStructureResult()
		res.AddError(fmt.Sprintf("Schema could not be encoded: %v", err))
		return finish(res)
	}
	return v.ValidateJSON(data, strict)
}

func newStructureResult() *domain.StructureResult {
	return &domain.StructureResult{ValidationResult: domain.NewValidationResult()}
}

func finish(res *domain.StructureResult) *domain.StructureResult {
	res.Metadata.ErrorCount = len(res.Errors)
	res.Metadata.WarningCount = len(res.Warnings)
	return res
}

func (v *Validator) validate(raw map[string]any, order []string, strict bool) *domain.StructureResult {
	res := newStructureResult()

	for _, prop := range []string{"id", "name", "fields"} {
		if _, ok := raw[prop]; !ok {
			res.AddError(fmt.Sprintf("Missing required property: '%s'", prop))
		}
	}

	if id, ok := raw["id"]; ok {
		s, isString := id.(string)
		if !isString || !schemaIDPattern.MatchString(s) {
			res.AddError(fmt.Sprintf("Schema id '%v' must start with a letter and contain only letters, digits, '_' or '-'", id))
		}
	}
	if name, ok := raw["name"]; ok {
		if s, isString := name.(string); !isString || strings.TrimSpace(s) == "" {
			res.AddError("Schema name must be a non-empty string")
		}
	}
	if s, _ := raw["description"].(string); strings.TrimSpace(s) == "" {
		res.AddWarning("Schema has no description")
	}
	if version, ok := raw["version"]; ok {
		if s, isString := version.(string); !isString || !versionPattern.MatchString(s) {
			res.AddWarning(fmt.Sprintf("Schema version '%v' is not in semantic version format (e.g. 1.0.0)", version))
		}
	}
	if category, ok := raw["category"]; ok {
		if _, isString := category.(string); !isString {
			res.AddWarning("Schema category should be a string")
		}
	}
	checkMetadata(res, raw["metadata"])

	fieldsRaw, ok := raw["fields"]
	if !ok {
		return finish(res)
	}
	fields, ok := fieldsRaw.(map[string]any)
	if !ok {
		res.AddError("Schema 'fields' must be an object mapping field names to definitions")
		return finish(res)
	}
	if len(fields) == 0 {
		res.AddError("Schema must define at least one field")
		return finish(res)
	}

	names := orderedNames(fields, order)
	fv := fieldValidation{res: res, fields: fields, exprs: v.exprs}
	seen := make(map[string]string, len(names))
	for _, name := range names {
		lower := strings.ToLower(name)
		if prev, dup := seen[lower]; dup {
			res.AddError(fmt.Sprintf("Field name '%s' duplicates '%s' (names are case-insensitive)", name, prev))
		} else {
			seen[lower] = name
		}
		fv.check(name, fields[name])
	}

	md := &res.Metadata
	md.TotalFields = len(names)
	md.RequiredFields = fv.required
	md.FieldsWithValidation = fv.withValidation
	md.FieldsWithExamples = fv.withExamples
	md.FieldsWithDescription = fv.withDescription
	md.ValidationCoverage = float64(fv.withValidation) / float64(len(names))
	md.DocumentationCoverage = float64(fv.withDescription) / float64(len(names))

	if strict {
		if len(names) > 100 {
			res.AddWarning(fmt.Sprintf("Schema has %d fields; consider splitting schemas with more than 100 fields", len(names)))
		}
		if fv.required == 0 {
			res.AddWarning("Schema has no required fields")
		}
		if md.DocumentationCoverage < 0.5 {
			res.AddWarning(fmt.Sprintf("Only %.0f%% of fields have a description", md.DocumentationCoverage*100))
		}
	}
	return finish(res)
}

func checkMetadata(res *domain.StructureResult, raw any) {
	if raw == nil {
		return
	}
	md, ok := raw.(map[string]any)
	if !ok {
		res.AddWarning("Schema metadata should be an object")
		return
	}
	created, ok := md["created_date"]
	if !ok {
		return
	}
	s, _ := created.(string)
	for _, layout := range createdDateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return
		}
	}
	res.AddWarning(fmt.Sprintf("Metadata created_date '%v' is not an ISO-8601 date", created))
}

// orderedNames returns the keys of fields following order, with any keys
// order does not mention appended in sorted order.
func orderedNames(fields map[string]any, order []string) []string {
	names := make([]string, 0, len(fields))
	used := make(map[string]bool, len(fields))
	for _, name := range order {
		if _, ok := fields[name]; ok && !used[name] {
			used[name] = true
			names = append(names, name)
		}
	}
	var rest []string
	for name := range fields {
		if !used[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

type fieldValidation struct {
	res    *domain.StructureResult
	fields map[string]any
	exprs  *validator.ExpressionEngine

	required        int
	withValidation  int
	withExamples    int
	withDescription int
}

func (f *fieldValidation) check(name string, raw any) {
	res := f.res
	if !fieldNamePattern.MatchString(name) {
		res.AddError(fmt.Sprintf("Field name '%s' must start with a letter or '_' and contain only letters, digits, '_' or '-'", name))
	}
	if domain.ReservedFieldNames[name] {
		res.AddError(fmt.Sprintf("Field name '%s' is reserved", name))
	}

	cfg, ok := raw.(map[string]any)
	if !ok {
		res.AddError(fmt.Sprintf("Field '%s' definition must be an object", name))
		return
	}

	fieldType, typeOK := f.checkType(name, cfg)

	if req, ok := cfg["required"]; ok {
		b, isBool := req.(bool)
		if !isBool {
			res.AddError(fmt.Sprintf("Field '%s' property 'required' must be a boolean", name))
		} else if b {
			f.required++
		}
	}

	if desc, ok := cfg["description"]; ok {
		if s, isString := desc.(string); !isString {
			res.AddWarning(fmt.Sprintf("Field '%s' description should be a string", name))
		} else if strings.TrimSpace(s) != "" {
			f.withDescription++
		}
	}
	if dn, ok := cfg["display_name"]; ok {
		if _, isString := dn.(string); !isString {
			res.AddWarning(fmt.Sprintf("Field '%s' display_name should be a string", name))
		}
	}

	if ex, ok := cfg["examples"]; ok {
		list, isList := ex.([]any)
		switch {
		case !isList:
			res.AddError(fmt.Sprintf("Field '%s' examples must be a list", name))
		case len(list) > maxExamples:
			res.AddWarning(fmt.Sprintf("Field '%s' has %d examples; at most %d are recommended", name, len(list), maxExamples))
			f.withExamples++
		case len(list) > 0:
			f.withExamples++
		}
	}

	if rulesRaw, ok := cfg["validation_rules"]; ok {
		rules, isList := rulesRaw.([]any)
		if !isList {
			res.AddError(fmt.Sprintf("Field '%s' validation_rules must be a list", name))
		} else {
			if len(rules) > 0 {
				f.withValidation++
			}
			for i, r := range rules {
				f.checkRule(name, i, r, fieldType, typeOK)
			}
		}
	}

	f.checkCondition(name, cfg)
}

func (f *fieldValidation) checkType(name string, cfg map[string]any) (domain.FieldType, bool) {
	rawType, ok := cfg["type"]
	if !ok {
		f.res.AddError(fmt.Sprintf("Field '%s' is missing required property 'type'", name))
		return "", false
	}
	s, ok := rawType.(string)
	if !ok {
		f.res.AddError(fmt.Sprintf("Field '%s' type must be a string", name))
		return "", false
	}
	t, fromUI, known := domain.NormalizeFieldType(s)
	if !known {
		f.res.AddError(fmt.Sprintf("Field '%s' has unknown type '%s'", name, s))
		return "", false
	}
	if fromUI {
		f.res.AddWarning(fmt.Sprintf("Field '%s' uses UI type '%s'; treated as '%s'", name, s, t))
	}
	return t, true
}

func (f *fieldValidation) checkCondition(name string, cfg map[string]any) {
	dep, hasDep := cfg["depends_on"]
	if hasDep && dep != nil {
		target, _ := dep.(string)
		if _, exists := f.fields[target]; !exists || target == name {
			f.res.AddError(fmt.Sprintf("Field '%s' depends on '%v', which is not a sibling field", name, dep))
		}
	}
	if cond, ok := cfg["condition"]; ok && cond != nil && cond != "" && (!hasDep || dep == nil) {
		f.res.AddWarning(fmt.Sprintf("Field '%s' has a condition but no depends_on field", name))
	}
}

func (f *fieldValidation) checkRule(field string, idx int, raw any, fieldType domain.FieldType, typeOK bool) {
	res := f.res
	rule, ok := raw.(map[string]any)
	if !ok {
		res.AddError(fmt.Sprintf("Field '%s' rule %d must be an object", field, idx+1))
		return
	}
	ts, _ := rule["type"].(string)
	rt := domain.RuleType(ts)
	if !rt.IsValid() {
		res.AddError(fmt.Sprintf("Field '%s' rule %d has unknown type '%v'", field, idx+1, rule["type"]))
		return
	}
	label := fmt.Sprintf("Field '%s' %s rule", field, rt)

	if msg, _ := rule["message"].(string); strings.TrimSpace(msg) == "" {
		res.AddWarning(fmt.Sprintf("%s has no message", label))
	}
	if sev, ok := rule["severity"]; ok {
		s, _ := sev.(string)
		if !domain.Severity(s).IsValid() {
			res.AddWarning(fmt.Sprintf("%s has invalid severity '%v'; using 'error'", label, sev))
		}
	}

	switch rt {
	case domain.RuleLength, domain.RuleRange:
		minV, minOK := f.bound(label, rule, "min")
		maxV, maxOK := f.bound(label, rule, "max")
		if minOK && maxOK && minV > maxV {
			res.AddError(fmt.Sprintf("%s has min %v greater than max %v", label, minV, maxV))
		}
		if rt == domain.RuleLength && minOK && minV < 0 {
			res.AddError(fmt.Sprintf("%s has negative min %v", label, minV))
		}
	case domain.RulePattern:
		p, _ := rule["pattern"].(string)
		if p == "" {
			res.AddError(fmt.Sprintf("%s is missing 'pattern'", label))
		} else if _, err := regexp.Compile(p); err != nil {
			res.AddError(fmt.Sprintf("%s has invalid regex '%s': %v", label, p, err))
		}
	case domain.RuleEnum:
		values, _ := rule["values"].([]any)
		if len(values) == 0 {
			res.AddError(fmt.Sprintf("%s must list at least one value", label))
		} else if hasDuplicates(values) {
			res.AddWarning(fmt.Sprintf("%s has duplicate values", label))
		}
	case domain.RuleFormat:
		if fs, ok := rule["format"].(string); ok && fs != "" {
			if _, _, known := domain.NormalizeFieldType(fs); !known {
				res.AddWarning(fmt.Sprintf("%s has unknown format '%s'", label, fs))
			}
		}
	case domain.RuleCustom:
		expression, _ := rule["expression"].(string)
		switch {
		case strings.TrimSpace(expression) == "":
			res.AddError(fmt.Sprintf("%s is missing 'expression'", label))
		case f.exprs != nil:
			if err := f.exprs.Compile(expression); err != nil {
				res.AddError(fmt.Sprintf("%s expression does not compile: %v", label, err))
			}
		}
	case domain.RuleDependency:
		target, _ := rule["depends_on"].(string)
		if _, exists := f.fields[target]; !exists || target == field {
			res.AddError(fmt.Sprintf("%s depends on '%v', which is not a sibling field", label, rule["depends_on"]))
		}
	}

	if allowed, restricted := ruleFieldTypes[rt]; restricted && typeOK && !allowed[fieldType] {
		res.AddWarning(fmt.Sprintf("%s is not meaningful for type '%s'", label, fieldType))
	}
}

func (f *fieldValidation) bound(label string, rule map[string]any, key string) (float64, bool) {
	raw, ok := rule[key]
	if !ok || raw == nil {
		return 0, false
	}
	n, ok := raw.(float64)
	if !ok {
		f.res.AddError(fmt.Sprintf("%s '%s' must be a number", label, key))
		return 0, false
	}
	return n, true
}

func hasDuplicates(values []any) bool {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		key := fmt.Sprintf("%T:%v", v, v)
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

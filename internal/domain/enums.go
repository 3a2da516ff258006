package domain

import "strings"

// FieldType is the canonical type vocabulary for schema fields.
type FieldType string

const (
	FieldTypeString   FieldType = "string"
	FieldTypeNumber   FieldType = "number"
	FieldTypeInteger  FieldType = "integer"
	FieldTypeFloat    FieldType = "float"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeDate     FieldType = "date"
	FieldTypeDateTime FieldType = "datetime"
	FieldTypeEmail    FieldType = "email"
	FieldTypePhone    FieldType = "phone"
	FieldTypeURL      FieldType = "url"
	FieldTypeJSON     FieldType = "json"
	FieldTypeArray    FieldType = "array"
	FieldTypeObject   FieldType = "object"
	FieldTypeText     FieldType = "text"
	FieldTypeDecimal  FieldType = "decimal"
)

// FieldTypes lists every canonical field type.
var FieldTypes = []FieldType{
	FieldTypeString, FieldTypeNumber, FieldTypeInteger, FieldTypeFloat,
	FieldTypeBoolean, FieldTypeDate, FieldTypeDateTime, FieldTypeEmail,
	FieldTypePhone, FieldTypeURL, FieldTypeJSON, FieldTypeArray,
	FieldTypeObject, FieldTypeText, FieldTypeDecimal,
}

var canonicalFieldTypes = func() map[FieldType]bool {
	m := make(map[FieldType]bool, len(FieldTypes))
	for _, t := range FieldTypes {
		m[t] = true
	}
	return m
}()

// UIFieldTypes maps the field editor's type names onto canonical types.
// Names that exist in both vocabularies (number, date, ...) map to themselves.
var UIFieldTypes = map[string]FieldType{
	"text":        FieldTypeText,
	"textarea":    FieldTypeText,
	"select":      FieldTypeString,
	"multiselect": FieldTypeArray,
	"number":      FieldTypeNumber,
	"currency":    FieldTypeDecimal,
	"date":        FieldTypeDate,
	"email":       FieldTypeEmail,
	"phone":       FieldTypePhone,
	"boolean":     FieldTypeBoolean,
	"checkbox":    FieldTypeBoolean,
	"url":         FieldTypeURL,
}

// IsValid reports whether t is a canonical field type.
func (t FieldType) IsValid() bool {
	return canonicalFieldTypes[t]
}

// IsNumeric reports whether values of this type must convert to a number.
func (t FieldType) IsNumeric() bool {
	switch t {
	case FieldTypeNumber, FieldTypeInteger, FieldTypeFloat, FieldTypeDecimal:
		return true
	}
	return false
}

// IsTextual reports whether values of this type are carried as strings.
func (t FieldType) IsTextual() bool {
	switch t {
	case FieldTypeString, FieldTypeText, FieldTypeEmail, FieldTypePhone,
		FieldTypeURL, FieldTypeDate, FieldTypeDateTime:
		return true
	}
	return false
}

// Canonical returns the canonical type for t, resolving UI names and case.
// Unknown names are returned lower-cased.
func (t FieldType) Canonical() FieldType {
	ft, _, _ := NormalizeFieldType(string(t))
	return ft
}

// NormalizeFieldType resolves a type name to its canonical form. fromUI is true
// when the name was only known through the UI vocabulary.
func NormalizeFieldType(name string) (t FieldType, fromUI bool, ok bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if ft := FieldType(name); ft.IsValid() {
		return ft, false, true
	}
	if ft, found := UIFieldTypes[name]; found {
		return ft, true, true
	}
	return FieldType(name), false, false
}

// RuleType identifies the kind of a ValidationRule.
type RuleType string

const (
	RuleRequired   RuleType = "required"
	RulePattern    RuleType = "pattern"
	RuleLength     RuleType = "length"
	RuleRange      RuleType = "range"
	RuleEnum       RuleType = "enum"
	RuleFormat     RuleType = "format"
	RuleCustom     RuleType = "custom"
	RuleDependency RuleType = "dependency"
	RuleUnique     RuleType = "unique"
)

// IsValid reports whether r is a known rule type.
func (r RuleType) IsValid() bool {
	switch r {
	case RuleRequired, RulePattern, RuleLength, RuleRange, RuleEnum,
		RuleFormat, RuleCustom, RuleDependency, RuleUnique:
		return true
	}
	return false
}

// Severity is the severity of a validation rule failure.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid reports whether s is a known severity.
func (s Severity) IsValid() bool {
	return s == SeverityError || s == SeverityWarning || s == SeverityInfo
}

// ConfidenceLevel buckets a confidence score.
type ConfidenceLevel string

const (
	ConfidenceVeryHigh ConfidenceLevel = "very_high"
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceMedium   ConfidenceLevel = "medium"
	ConfidenceLow      ConfidenceLevel = "low"
	ConfidenceVeryLow  ConfidenceLevel = "very_low"
)

// LevelFor returns the bucket for score.
func LevelFor(score float64) ConfidenceLevel {
	switch {
	case score >= 0.90:
		return ConfidenceVeryHigh
	case score >= 0.75:
		return ConfidenceHigh
	case score >= 0.50:
		return ConfidenceMedium
	case score >= 0.25:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}

// ChangeKind classifies a difference between two schema versions.
type ChangeKind string

const (
	ChangeFieldRemoved    ChangeKind = "field_removed"
	ChangeFieldAdded      ChangeKind = "field_added"
	ChangeTypeChanged     ChangeKind = "type_changed"
	ChangeRequiredAdded   ChangeKind = "required_added"
	ChangeRequiredRemoved ChangeKind = "required_removed"
)

// UserRole defines what an API caller may do.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// IsValid reports whether r is a known role.
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

// FileType represents the document types accepted for extraction.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// FieldValidationStatus is the review state of one extracted field.
type FieldValidationStatus string

const (
	FieldStatusValid   FieldValidationStatus = "valid"
	FieldStatusInvalid FieldValidationStatus = "invalid"
	FieldStatusUnsure  FieldValidationStatus = "unsure"
)

// Package value holds helpers for the loosely typed values a model returns
// when it extracts fields from a document.
package value

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"docschema/internal/domain"
)

// Wrapped is a per-field value that carries its own extraction metadata.
type Wrapped struct {
	Value      any
	Confidence *float64
	Notes      string
	IsWrapped  bool
}

// Unwrap splits a `{value, confidence, extraction_notes}` object into its
// parts. Anything else is returned unchanged with IsWrapped false.
func Unwrap(v any) Wrapped {
	m, ok := v.(map[string]any)
	if !ok {
		return Wrapped{Value: v}
	}
	inner, ok := m["value"]
	if !ok {
		return Wrapped{Value: v}
	}
	w := Wrapped{Value: inner, IsWrapped: true}
	if c, ok := ToFloat(m["confidence"]); ok {
		c = math.Max(0, math.Min(1, c))
		w.Confidence = &c
	}
	if notes, ok := m["extraction_notes"].(string); ok {
		w.Notes = notes
	}
	return w
}

// IsEmpty reports whether v carries no information: nil, a blank string, or an
// empty array or object. Zero and false are values.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// String renders v the way it is shown to a reviewer.
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case []any, map[string]any:
		b, err := json.Marshal(t)
		if err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}

// ToFloat converts numbers and numeric strings to float64.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

// ToLooseFloat is ToFloat with thousands separators stripped from strings.
func ToLooseFloat(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		return ToFloat(strings.ReplaceAll(s, ",", ""))
	}
	return ToFloat(v)
}

// Length returns the length of a string (in runes) or collection.
func Length(v any) (int, bool) {
	switch t := v.(type) {
	case string:
		return len([]rune(t)), true
	case []any:
		return len(t), true
	case map[string]any:
		return len(t), true
	}
	return 0, false
}

// DigitCount counts decimal digits in s.
func DigitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"01-02-2006",
	"01/02/2006",
	"2006/01/02",
	"02.01.2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 02, 2006",
	"January 02, 2006",
	"January 2, 2006",
	"02-01-2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseDate tries the common date and datetime layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date: %s", s)
}

// MatchesType reports whether a present value is acceptable for t.
// Unknown types accept anything.
func MatchesType(t domain.FieldType, v any) bool {
	if v == nil {
		return false
	}
	s, isString := v.(string)
	switch t.Canonical() {
	case domain.FieldTypeString, domain.FieldTypeText:
		return isString
	case domain.FieldTypeNumber, domain.FieldTypeFloat, domain.FieldTypeDecimal:
		_, ok := ToLooseFloat(v)
		return ok
	case domain.FieldTypeInteger:
		f, ok := ToLooseFloat(v)
		return ok && f == math.Trunc(f)
	case domain.FieldTypeBoolean:
		if _, ok := v.(bool); ok {
			return true
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "false", "yes", "no":
			return isString
		}
		return false
	case domain.FieldTypeDate, domain.FieldTypeDateTime:
		if !isString {
			return false
		}
		_, err := ParseDate(s)
		return err == nil
	case domain.FieldTypeEmail:
		return isString && strings.Contains(s, "@")
	case domain.FieldTypePhone:
		return isString && DigitCount(s) >= 7
	case domain.FieldTypeURL:
		return isString && (strings.Contains(s, "://") || strings.HasPrefix(strings.ToLower(s), "www."))
	case domain.FieldTypeArray:
		_, ok := v.([]any)
		return ok
	case domain.FieldTypeObject:
		_, ok := v.(map[string]any)
		return ok
	case domain.FieldTypeJSON:
		if isString {
			return json.Valid([]byte(s))
		}
		return true
	}
	return true
}

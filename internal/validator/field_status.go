package validator

import (
	"docschema/internal/domain"
)

// FieldStatus is the review state derived for one extracted field.
type FieldStatus struct {
	Status   domain.FieldValidationStatus `json:"status"`
	Messages []string                     `json:"messages"`
}

// ComputeFieldStatus derives a field's review state from its rule outcomes and
// confidence score. A failed error-severity rule makes the field invalid; a
// failed warning or a confidence at or below 0.5 makes it unsure.
func ComputeFieldStatus(outcomes []Outcome, confidence float64) FieldStatus {
	fs := FieldStatus{Status: domain.FieldStatusValid, Messages: []string{}}
	for _, o := range outcomes {
		if o.Passed {
			continue
		}
		switch o.Rule.EffectiveSeverity() {
		case domain.SeverityError:
			fs.Status = domain.FieldStatusInvalid
		case domain.SeverityWarning:
			if fs.Status != domain.FieldStatusInvalid {
				fs.Status = domain.FieldStatusUnsure
			}
		}
		fs.Messages = append(fs.Messages, o.Message)
	}
	if fs.Status == domain.FieldStatusValid && confidence <= 0.5 {
		fs.Status = domain.FieldStatusUnsure
	}
	return fs
}

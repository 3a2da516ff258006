package schema

import (
	"fmt"

	"docschema/internal/domain"
)

// CompatibilityChecker diffs two versions of a schema.
type CompatibilityChecker struct{}

// NewCompatibilityChecker creates a CompatibilityChecker.
func NewCompatibilityChecker() *CompatibilityChecker {
	return &CompatibilityChecker{}
}

// Compare reports the changes from oldSchema to newSchema. Changes that would
// break producers or consumers of the old version are errors and are tagged
// Breaking; the rest are warnings.
func (c *CompatibilityChecker) Compare(newSchema, oldSchema *domain.SchemaDefinition) *domain.CompatibilityResult {
	res := &domain.CompatibilityResult{
		ValidationResult: domain.NewValidationResult(),
		Changes:          []domain.SchemaChange{},
		Metadata: domain.CompatibilityMetadata{
			RemovedFields: []string{},
			NewFields:     []string{},
			CommonFields:  []string{},
		},
	}
	var newFields, oldFields domain.Fields
	if newSchema != nil {
		newFields = newSchema.Fields
	}
	if oldSchema != nil {
		oldFields = oldSchema.Fields
	}

	for _, name := range oldFields.Names() {
		oldDef, _ := oldFields.Get(name)
		newDef, ok := newFields.Get(name)
		if !ok {
			res.Metadata.RemovedFields = append(res.Metadata.RemovedFields, name)
			if oldDef.Required {
				record(res, domain.ChangeFieldRemoved, name, true,
					fmt.Sprintf("Required field '%s' was removed", name))
			} else {
				record(res, domain.ChangeFieldRemoved, name, false,
					fmt.Sprintf("Optional field '%s' was removed", name))
			}
			continue
		}

		res.Metadata.CommonFields = append(res.Metadata.CommonFields, name)
		if oldType, newType := canonical(oldDef.Type), canonical(newDef.Type); oldType != newType {
			record(res, domain.ChangeTypeChanged, name, true,
				fmt.Sprintf("Field '%s' type changed from '%s' to '%s'", name, oldDef.Type, newDef.Type))
		}
		switch {
		case !oldDef.Required && newDef.Required:
			record(res, domain.ChangeRequiredAdded, name, true,
				fmt.Sprintf("Field '%s' changed from optional to required", name))
		case oldDef.Required && !newDef.Required:
			record(res, domain.ChangeRequiredRemoved, name, false,
				fmt.Sprintf("Field '%s' changed from required to optional", name))
		}
	}

	for _, name := range newFields.Names() {
		if oldFields.Has(name) {
			continue
		}
		res.Metadata.NewFields = append(res.Metadata.NewFields, name)
		newDef, _ := newFields.Get(name)
		if newDef.Required {
			record(res, domain.ChangeFieldAdded, name, true,
				fmt.Sprintf("New required field '%s' was added", name))
		} else {
			record(res, domain.ChangeFieldAdded, name, false,
				fmt.Sprintf("New optional field '%s' was added", name))
		}
	}
	return res
}

func record(res *domain.CompatibilityResult, kind domain.ChangeKind, field string, breaking bool, msg string) {
	sev := domain.SeverityWarning
	if breaking {
		sev = domain.SeverityError
		res.AddError(msg)
		res.Metadata.BreakingChanges++
	} else {
		res.AddWarning(msg)
	}
	res.Changes = append(res.Changes, domain.SchemaChange{
		Kind: kind, Field: field, Message: msg, Severity: sev, Breaking: breaking,
	})
}

func canonical(t domain.FieldType) domain.FieldType {
	return t.Canonical()
}

package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"docschema/internal/domain"
)

// ImportOptions describes the schema built from a field sheet.
type ImportOptions struct {
	ID       string
	Name     string
	Category string
	Version  string
	// Sheet defaults to the first sheet in the workbook.
	Sheet string
}

// Recognised field sheet columns. Only "name" is mandatory.
const (
	colName        = "name"
	colType        = "type"
	colRequired    = "required"
	colDisplayName = "display_name"
	colDescription = "description"
	colExamples    = "examples"
	colPattern     = "pattern"
	colMin         = "min"
	colMax         = "max"
	colEnum        = "enum"
)

// ImportSchema builds a schema definition from a spreadsheet with one row per
// field. Row order becomes field order.
func ImportSchema(r io.Reader, opts ImportOptions) (*domain.SchemaDefinition, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("report.ImportSchema: opening workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("report.ImportSchema: workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("report.ImportSchema: reading sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("report.ImportSchema: sheet %q has no field rows", sheet)
	}

	cols := headerIndex(rows[0])
	if _, ok := cols[colName]; !ok {
		return nil, fmt.Errorf("report.ImportSchema: sheet %q has no %q column", sheet, colName)
	}

	def := &domain.SchemaDefinition{
		ID:       opts.ID,
		Name:     opts.Name,
		Category: opts.Category,
		Version:  opts.Version,
	}
	for i, row := range rows[1:] {
		get := func(col string) string {
			idx, ok := cols[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		name := get(colName)
		if name == "" {
			continue
		}
		fd, err := fieldFromRow(get)
		if err != nil {
			return nil, fmt.Errorf("report.ImportSchema: row %d (%s): %w", i+2, name, err)
		}
		def.Fields.Set(name, fd)
	}
	if def.Fields.Len() == 0 {
		return nil, fmt.Errorf("report.ImportSchema: sheet %q has no named fields", sheet)
	}
	return def, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.ReplaceAll(key, " ", "_")
		if _, dup := idx[key]; !dup && key != "" {
			idx[key] = i
		}
	}
	return idx
}

func fieldFromRow(get func(string) string) (domain.FieldDefinition, error) {
	fd := domain.FieldDefinition{
		Type:        domain.FieldTypeString,
		Required:    parseFlag(get(colRequired)),
		DisplayName: get(colDisplayName),
		Description: get(colDescription),
		Examples:    splitCell(get(colExamples)),
	}
	if t := get(colType); t != "" {
		ft, _, _ := domain.NormalizeFieldType(t)
		fd.Type = ft
	}

	if p := get(colPattern); p != "" {
		fd.ValidationRules = append(fd.ValidationRules, domain.ValidationRule{
			Type:    domain.RulePattern,
			Pattern: p,
		})
	}

	minVal, err := parseBound(get(colMin))
	if err != nil {
		return fd, fmt.Errorf("min: %w", err)
	}
	maxVal, err := parseBound(get(colMax))
	if err != nil {
		return fd, fmt.Errorf("max: %w", err)
	}
	if minVal != nil || maxVal != nil {
		ruleType := domain.RuleRange
		if fd.Type.IsTextual() {
			ruleType = domain.RuleLength
		}
		fd.ValidationRules = append(fd.ValidationRules, domain.ValidationRule{
			Type: ruleType,
			Min:  minVal,
			Max:  maxVal,
		})
	}

	if values := splitCell(get(colEnum)); len(values) > 0 {
		enum := make([]any, len(values))
		for i, v := range values {
			enum[i] = v
		}
		fd.ValidationRules = append(fd.ValidationRules, domain.ValidationRule{
			Type:   domain.RuleEnum,
			Values: enum,
		})
	}
	return fd, nil
}

func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes", "true", "1", "x":
		return true
	}
	return false
}

func parseBound(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// splitCell splits a multi-value cell on "|" or ";", falling back to ",".
func splitCell(s string) []string {
	if s == "" {
		return nil
	}
	sep := ","
	for _, candidate := range []string{"|", ";"} {
		if strings.Contains(s, candidate) {
			sep = candidate
			break
		}
	}
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

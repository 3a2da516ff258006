package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet names of an XLSX report.
const (
	FieldsSheet  = "Fields"
	SummarySheet = "Summary"
)

// WriteXLSX writes the report as a workbook with a field sheet and a summary
// sheet.
func WriteXLSX(out io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), FieldsSheet); err != nil {
		return fmt.Errorf("report.WriteXLSX: %w", err)
	}
	if err := writeFieldSheet(f, r); err != nil {
		return fmt.Errorf("report.WriteXLSX: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("report.WriteXLSX: %w", err)
	}
	if err := writeSummarySheet(f, r); err != nil {
		return fmt.Errorf("report.WriteXLSX: %w", err)
	}
	return f.Write(out)
}

func writeFieldSheet(f *excelize.File, r *Report) error {
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(FieldsSheet, "A1", &header); err != nil {
		return err
	}
	for i := range r.Rows {
		row := &r.Rows[i]
		cells := []any{
			row.Field,
			row.Value,
			row.Score,
			string(row.Level),
			string(row.Status),
			joinIssues(row.Issues),
			row.Provenance,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(FieldsSheet, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, r *Report) error {
	pairs := [][]any{
		{"Extraction", r.ExtractionID.String()},
		{"Schema", r.SchemaID},
		{"Schema Version", r.SchemaVersion},
		{"File", r.FileName},
		{"Model", r.ParserModel},
		{"Overall Confidence", r.OverallScore},
		{"Level", string(r.Level)},
		{"Passed", r.Passed},
		{"Errors", joinIssues(r.Errors)},
		{"Warnings", joinIssues(r.Warnings)},
	}
	for i := range pairs {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &pairs[i]); err != nil {
			return err
		}
	}
	return nil
}

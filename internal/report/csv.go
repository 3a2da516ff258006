package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// BOM is the UTF-8 byte order mark Excel needs to read CSV as UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns is the header row shared by the CSV and XLSX field sheets.
var Columns = []string{
	"Field",
	"Value",
	"Confidence",
	"Level",
	"Status",
	"Issues",
	"Source",
}

// Writer wraps csv.Writer for exporting extraction reports.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Columns)
}

// WriteRows writes one CSV row per report row.
func (w *Writer) WriteRows(rows []Row) error {
	for i := range rows {
		if err := w.csv.Write(rows[i].cells()); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteCSV writes a complete report, BOM included.
func WriteCSV(out io.Writer, r *Report) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteRows(r.Rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (r *Row) cells() []string {
	return []string{
		r.Field,
		r.Value,
		formatScore(r.Score),
		string(r.Level),
		string(r.Status),
		joinIssues(r.Issues),
		r.Provenance,
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename makes name safe for a Content-Disposition header.
// Runs of other characters become a single underscore and the result is
// truncated to 100 characters.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized name}_{YYYY-MM-DD}.{ext}.
func BuildFilename(name, ext string) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), time.Now().Format("2006-01-02"), ext)
}

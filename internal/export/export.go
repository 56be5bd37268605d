// Package export writes surveys as JSON, XLSX or CSV.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"survey-gen/internal/domain"
	"survey-gen/internal/metrics"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Formats lists the export formats in menu order.
var Formats = []Format{FormatJSON, FormatXLSX, FormatCSV}

// columns of the tabular exports, one row per question.
var columns = []string{"type", "text", "options", "condition"}

// ParseFormat accepts a format name case-insensitively; "excel" is an alias of xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", domain.NewUnsupportedFormatError(s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	}
	return "application/octet-stream"
}

// FileName is the default download name, e.g. "survey.xlsx".
func (f Format) FileName() string {
	return "survey." + string(f)
}

// Write encodes survey to w in format f.
func Write(w io.Writer, survey *domain.Survey, f Format) error {
	if survey == nil {
		return domain.NewInvalidInputError("nothing to export")
	}
	var err error
	switch f {
	case FormatJSON:
		err = writeJSON(w, survey)
	case FormatXLSX:
		err = writeXLSX(w, survey)
	case FormatCSV:
		err = writeCSV(w, survey)
	default:
		return domain.NewUnsupportedFormatError(string(f))
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", f, err)
	}
	metrics.Exports.WithLabelValues(string(f)).Inc()
	return nil
}

// Bytes returns the encoded survey.
func Bytes(survey *domain.Survey, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, survey, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToFile writes the encoded survey to path, replacing any existing file.
func ToFile(path string, survey *domain.Survey, f Format) error {
	data, err := Bytes(survey, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, survey *domain.Survey) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(survey)
}

// row flattens a question into the tabular columns. Absent options and
// conditions become empty cells.
func row(q *domain.Question) []string {
	opts := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		opts = append(opts, o.String())
	}
	return []string{q.Type, q.Text, strings.Join(opts, "; "), q.Condition.String()}
}

package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CSVParser parses delimited text with a header row.
type CSVParser struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// NewCSVParser returns a comma-delimited parser.
func NewCSVParser() *CSVParser {
	return &CSVParser{Comma: ','}
}

// Parse reads the header row and every data row of r.
//
// Header names are trimmed of surrounding whitespace; values are kept verbatim.
// Rows with too few columns are padded with empty values and rows with too many
// are truncated, each with a warning. Malformed rows are skipped with a warning.
// A repeated header name is reported once per repeat; its rightmost column wins.
// An empty input yields zero records.
func (p *CSVParser) Parse(r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(decodeReader(r))
	if p.Comma != 0 {
		reader.Comma = p.Comma
	}
	// Allow variable number of fields per record; padding and truncation are handled below.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	result := &ParseResult{
		Records:  []map[string]string{},
		Warnings: []ParseWarning{},
	}

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			result.Warnings = append(result.Warnings, ParseWarning{Message: "empty file: no header row found"})
			return result, nil
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		headers[i] = h
		if h != "" && seen[h] {
			result.Warnings = append(result.Warnings, ParseWarning{
				Row:     1,
				Message: fmt.Sprintf("duplicate column %q; the rightmost one wins", h),
			})
		}
		seen[h] = true
	}
	result.Headers = headers
	headerCount := len(headers)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to read row: %w", err)
			}
			result.Warnings = append(result.Warnings, ParseWarning{
				Row:     parseErr.Line,
				Message: fmt.Sprintf("parse error: %v", err),
			})
			continue
		}
		line, _ := reader.FieldPos(0)

		switch {
		case len(row) < headerCount:
			result.Warnings = append(result.Warnings, ParseWarning{
				Row:     line,
				Message: fmt.Sprintf("row has %d columns, expected %d; padding with empty values", len(row), headerCount),
			})
			padded := make([]string, headerCount)
			copy(padded, row)
			row = padded
		case len(row) > headerCount:
			result.Warnings = append(result.Warnings, ParseWarning{
				Row:     line,
				Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(row), headerCount),
			})
			row = row[:headerCount]
		}

		record := make(map[string]string, headerCount)
		for i, h := range headers {
			record[h] = row[i]
		}
		result.Records = append(result.Records, record)
	}

	return result, nil
}

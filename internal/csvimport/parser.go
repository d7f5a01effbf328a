package csvimport

import (
	"encoding/csv"
	"strings"
)

// Parse splits raw file text into a RawTable. Quoted fields may contain
// delimiters and newlines; a doubled quote inside a quoted field is a
// literal quote. Rows are allowed to have differing cell counts here —
// length mismatches are resolved during normalization, not parsing.
func Parse(text string) (*RawTable, error) {
	text = strings.TrimPrefix(text, "\uFEFF")

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Detail: err.Error(), Err: err}
	}

	return &RawTable{Records: records}, nil
}

// ExtractHeaders returns the header row with each cell trimmed.
// Duplicate names are preserved as-is; later lookups take the first
// occurrence. Fails with ErrEmptyFile when the table has no rows and
// ErrNoHeaders when the header row is entirely blank.
func ExtractHeaders(table *RawTable) ([]string, error) {
	if table == nil || len(table.Records) == 0 {
		return nil, ErrEmptyFile
	}

	raw := table.Records[0]
	headers := make([]string, len(raw))
	blank := true
	for i, cell := range raw {
		headers[i] = strings.TrimSpace(cell)
		if headers[i] != "" {
			blank = false
		}
	}
	if blank {
		return nil, ErrNoHeaders
	}

	return headers, nil
}

// headerIndex returns the position of the first header matching name
// after trimming, or -1. First occurrence wins for duplicate headers.
func headerIndex(headers []string, name string) int {
	name = strings.TrimSpace(name)
	if name == "" {
		return -1
	}
	for i, h := range headers {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// cellAt reads a cell by column index, treating a short row as having
// empty trailing fields. Cells beyond the header width are never
// addressed, so over-long rows are implicitly truncated.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

package usecase

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseContactsCSV reads a contact upload into an ordered sequence of
// column-keyed records. The first row is the header; row values are keyed by
// the header cell they fall under. Extra columns are kept, missing trailing
// cells become empty strings.
func ParseContactsCSV(r io.Reader) (header []string, rows []map[string]string, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}
	if len(first) > 0 {
		first[0] = strings.TrimPrefix(first[0], "\ufeff")
	}
	for _, cell := range first {
		header = append(header, strings.TrimSpace(cell))
	}

	lineNum := 1
	for {
		rec, err := reader.Read()
		lineNum++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if isEmptyRecord(rec) {
			continue
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

func isEmptyRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// missingColumns returns required columns absent from the header,
// preserving required order. Header comparison is exact (trimmed).
func missingColumns(header []string, required []string) []string {
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = true
	}
	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// quoteCSVField double-quotes a field, escaping embedded quotes. The error
// and converted-carrier exports quote every field regardless of content.
func quoteCSVField(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

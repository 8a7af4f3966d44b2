package usecase

import (
	"strconv"
	"strings"
)

// buildErrorCSV renders rejected rows as a downloadable CSV blob:
// header "Row,<columns...>,Error", then one line per rejected row with every
// field double-quoted, carrying the row's original values.
func buildErrorCSV(columns []string, rows []errorRow) string {
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Row," + strings.Join(columns, ",") + ",Error\n")
	for _, row := range rows {
		cells := make([]string, 0, len(columns)+2)
		cells = append(cells, quoteCSVField(strconv.Itoa(row.RowNumber)))
		for _, col := range columns {
			cells = append(cells, quoteCSVField(row.Values[col]))
		}
		cells = append(cells, quoteCSVField(row.Message))
		b.WriteString(strings.Join(cells, ",") + "\n")
	}
	return b.String()
}

// buildConvertedCSV renders rows whose carrier text was not recognized, with
// the original carrier text in the last column so an operator can review and
// fix them.
func buildConvertedCSV(columns []string, rows []convertedRow) string {
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Row," + strings.Join(columns, ",") + ",Original Carrier\n")
	for _, row := range rows {
		cells := make([]string, 0, len(columns)+2)
		cells = append(cells, quoteCSVField(strconv.Itoa(row.RowNumber)))
		for _, col := range columns {
			cells = append(cells, quoteCSVField(row.Values[col]))
		}
		cells = append(cells, quoteCSVField(row.OriginalCarrier))
		b.WriteString(strings.Join(cells, ",") + "\n")
	}
	return b.String()
}

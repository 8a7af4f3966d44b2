package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseContactsCSV(t *testing.T) {
	input := "First Name,Last Name,Email\n" +
		"Jane,Doe,jane@example.com\n" +
		",,\n" +
		"John,Smith\n"

	header, rows, err := ParseContactsCSV(strings.NewReader(input))

	assert.NoError(t, err)
	assert.Equal(t, []string{"First Name", "Last Name", "Email"}, header)
	assert.Len(t, rows, 2, "blank rows are skipped")
	assert.Equal(t, "jane@example.com", rows[0]["Email"])
	assert.Equal(t, "", rows[1]["Email"], "short rows pad missing cells")
}

func TestParseContactsCSVStripsBOM(t *testing.T) {
	input := "\ufeffFirst Name,Email\nJane,jane@example.com\n"

	header, rows, err := ParseContactsCSV(strings.NewReader(input))

	assert.NoError(t, err)
	assert.Equal(t, "First Name", header[0])
	assert.Len(t, rows, 1)
}

func TestParseContactsCSVEmptyFile(t *testing.T) {
	_, _, err := ParseContactsCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestMissingColumns(t *testing.T) {
	header := []string{"First Name", "Last Name", "Email", "Extra Column"}
	required := []string{"First Name", "Last Name", "Email", "Gender", "ZIP Code"}

	missing := missingColumns(header, required)
	assert.Equal(t, []string{"Gender", "ZIP Code"}, missing)

	assert.Nil(t, missingColumns(required, required))
}

func TestBuildErrorCSVQuotesEveryField(t *testing.T) {
	columns := []string{"First Name", "Email"}
	rows := []errorRow{
		{
			RowNumber: 2,
			Values:    map[string]string{"First Name": `Jane "JJ"`, "Email": "bad"},
			Message:   "Invalid email format: bad",
		},
	}

	out := buildErrorCSV(columns, rows)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "Row,First Name,Email,Error", lines[0])
	assert.Equal(t, `"2","Jane ""JJ""","bad","Invalid email format: bad"`, lines[1])
}

func TestBuildErrorCSVEmpty(t *testing.T) {
	assert.Equal(t, "", buildErrorCSV([]string{"Email"}, nil))
}

func TestBuildConvertedCSVCarriesOriginalCarrier(t *testing.T) {
	columns := []string{"Email"}
	rows := []convertedRow{
		{RowNumber: 3, Values: map[string]string{"Email": "j@x.com"}, OriginalCarrier: "Acme Mutual"},
	}

	out := buildConvertedCSV(columns, rows)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "Row,Email,Original Carrier", lines[0])
	assert.Equal(t, `"3","j@x.com","Acme Mutual"`, lines[1])
}

// Package tableparse turns decoded file text into a header row plus data
// rows, sniffing the delimiter and quote character from a fixed list of
// candidates used by common bank export tools.
package tableparse

import (
	"encoding/csv"
	"strings"

	"github.com/a1e5ya/smart-finance-planner/internal/importerror"
)

// Candidate separators, tried in order. The first one that parses into
// more than one column with at least one data row wins.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// Table is the parsed tabular content of an uploaded file.
type Table struct {
	Headers   []string
	Rows      [][]string
	Delimiter rune
}

// Detect parses text into a Table, trying every delimiter candidate.
// Returns a fatal FormatError when no candidate yields a multi-column
// table with at least one data row.
func Detect(text, filename string) (*Table, error) {
	for _, delim := range delimiterCandidates {
		table, ok := tryParse(text, delim)
		if ok {
			table.Delimiter = delim
			return table, nil
		}
	}

	return nil, &importerror.FormatError{
		Filename: filename,
		Msg:      "no delimiter produced a multi-column table",
	}
}

func tryParse(text string, delim rune) (*Table, bool) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil || len(records) < 2 {
		return nil, false
	}

	headers := cleanRecord(records[0])
	if len(headers) < 2 {
		return nil, false
	}

	var rows [][]string
	for _, record := range records[1:] {
		row := cleanRecord(record)
		if isEmptyRow(row) {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, false
	}

	return &Table{Headers: headers, Rows: rows}, true
}

// cleanRecord trims surrounding whitespace and matching single-quote
// pairs. encoding/csv only understands double quotes, so files quoted
// with apostrophes reach us with the quotes still attached.
func cleanRecord(record []string) []string {
	cleaned := make([]string, len(record))
	for i, cell := range record {
		cell = strings.TrimSpace(cell)
		if len(cell) >= 2 && strings.HasPrefix(cell, "'") && strings.HasSuffix(cell, "'") {
			cell = cell[1 : len(cell)-1]
		}
		cleaned[i] = cell
	}
	return cleaned
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// RowValue returns the cell under the given header for one row, or the
// empty string when the header is unknown or the row is short.
func (t *Table) RowValue(row []string, header string) string {
	for i, h := range t.Headers {
		if h == header {
			if i < len(row) {
				return row[i]
			}
			return ""
		}
	}
	return ""
}

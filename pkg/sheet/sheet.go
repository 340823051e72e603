/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sheet.go
Description: Folds spreadsheet rows into a single sample object for inference. Row 2 holds
the column titles and data starts at row 3. Rows keyed by a non-numeric first column are
config entries (key in column 0, value in column 1); the first row keyed by a number is a
data row whose cells are keyed by the titles, and folding stops there.
*/

package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/kleascm/structgen/pkg/value"
)

const (
	// TitleRow is the zero-based row holding column titles
	TitleRow = 2
	// DataRow is the first zero-based row holding entries
	DataRow = 3
	// RecordSuffix is appended to the sheet name to form the record name
	RecordSuffix = "Data"

	idColumn = "id"
)

var (
	ErrNoTitles   = errors.New("sheet has no titles")
	ErrEmptySheet = errors.New("sheet has no entries")
)

// CellError reports a cell whose text could not be parsed
type CellError struct {
	Sheet  string
	Row    int
	Column int
	Text   string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("sheet %s row %d column %d: cannot parse %q: %v", e.Sheet, e.Row+1, e.Column+1, e.Text, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

// Fold turns the rows of one sheet into a document named after the sheet
func Fold(sheetName string, rows [][]string) (*value.Document, error) {
	if len(rows) <= TitleRow {
		return nil, fmt.Errorf("sheet %s: %w", sheetName, ErrNoTitles)
	}
	titles := rows[TitleRow]
	if isBlank(cell(titles, 0)) {
		return nil, fmt.Errorf("sheet %s: %w", sheetName, ErrNoTitles)
	}

	var fields []value.Field
	for r := DataRow; r < len(rows); r++ {
		row := rows[r]
		id := cell(row, 0)

		if isNumber(id) {
			for c := 1; c < len(row); c++ {
				if isBlank(row[c]) {
					continue
				}
				key := cell(titles, c)
				if key == idColumn || isBlank(key) {
					continue
				}
				v, err := ParseCell(row[c])
				if err != nil {
					return nil, &CellError{Sheet: sheetName, Row: r, Column: c, Text: row[c], Err: err}
				}
				fields = append(fields, value.Field{Key: key, Value: v})
			}
			break
		}

		if isBlank(id) {
			continue
		}
		v, err := ParseCell(cell(row, 1))
		if err != nil {
			return nil, &CellError{Sheet: sheetName, Row: r, Column: 1, Text: cell(row, 1), Err: err}
		}
		fields = append(fields, value.Field{Key: id, Value: v})
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("sheet %s: %w", sheetName, ErrEmptySheet)
	}

	return &value.Document{
		Name:        sheetName + RecordSuffix,
		Value:       value.NewObject(fields...),
		ArraySource: true,
	}, nil
}

// ParseCell converts cell text into a value. Numbers become ints when integral,
// [a=1] style lists and {1,2} style tuples are read as JSON, anything else is text.
func ParseCell(text string) (*value.Value, error) {
	if isNumber(text) {
		f, _ := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if value.IsIntegral(f) {
			return value.NewInt(int64(f)), nil
		}
		return value.NewFloat(f), nil
	}

	n := len(text)
	switch {
	case n > 1 && text[0] == '[' && text[n-1] == ']':
		return value.DecodeJSON(strings.NewReader(strings.ReplaceAll(text, "=", ":")))
	case n > 1 && text[0] == '{' && text[n-1] == '}':
		return value.DecodeJSON(strings.NewReader(strings.NewReplacer("{", "[", "}", "]").Replace(text)))
	default:
		return value.NewString(text), nil
	}
}

// ReadCSV reads every row of a CSV sheet. Rows may have different lengths.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return rows, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isNumber(s string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

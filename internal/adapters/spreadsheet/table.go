package spreadsheet

import (
	"strings"

	"github.com/SscSPs/ifm_report_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// table is a sheet read as a header row plus data rows.
type table struct {
	name    string
	columns map[string]int
	rows    [][]string
	// values[i] is rows[i] as stored, before number formatting.
	values [][]string
}

// newTable uses the first row as the header. Header cells are matched after
// trimming surrounding whitespace. Fully blank data rows are dropped.
func newTable(name string, grid *sheetGrid) *table {
	t := &table{name: name, columns: make(map[string]int)}
	if grid == nil || len(grid.text) == 0 {
		return t
	}
	for i, h := range grid.text[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, dup := t.columns[h]; !dup {
			t.columns[h] = i
		}
	}
	for i := 1; i < len(grid.text); i++ {
		row := grid.text[i]
		if blankRow(row) {
			continue
		}
		var stored []string
		if i < len(grid.values) {
			stored = grid.values[i]
		}
		t.rows = append(t.rows, row)
		t.values = append(t.values, stored)
	}
	return t
}

// hasHeader reports whether the sheet had any header cell at all.
func (t *table) hasHeader() bool {
	return len(t.columns) > 0
}

// require fails on the first missing column, in argument order.
func (t *table) require(columns ...string) error {
	for _, c := range columns {
		if _, ok := t.columns[c]; !ok {
			return &apperrors.MissingColumnError{Table: t.name, Column: c}
		}
	}
	return nil
}

// text returns the cell of row under column, or "" for short rows and absent columns.
func (t *table) text(row []string, column string) string {
	i, ok := t.columns[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// stored returns the unformatted cell under column of the i-th data row. Cells
// the decoder left without a stored value fall back to the displayed text.
func (t *table) stored(i int, column string) string {
	if v := t.text(t.values[i], column); v != "" {
		return v
	}
	return t.text(t.rows[i], column)
}

// amount parses the stored value under column of the i-th data row.
func (t *table) amount(i int, column string) (decimal.Decimal, error) {
	raw := t.stored(i, column)
	d, err := parseAmount(raw)
	if err != nil {
		return decimal.Zero, &apperrors.CellError{
			Table:  t.name,
			Row:    i + 2, // header is row 1
			Column: column,
			Value:  raw,
			Err:    err,
		}
	}
	return d, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

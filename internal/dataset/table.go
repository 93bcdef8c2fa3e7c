// Package dataset provides the tabular data source feeding training and
// evaluation: named-column tables loaded from CSV, plus the preparation
// steps (normalization, shuffling, splitting, label derivation) an
// experiment needs before any model sees the data.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/SashaGoldin/ml-experiments/internal/experiment"
)

// #region table
// Table is an immutable collection of equally sized named columns. Columns
// are numeric when every cell parses as a float, text otherwise.
type Table struct {
	order   []string
	numeric map[string][]float64
	text    map[string][]string
	rows    int
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.rows }

// Columns returns the column names in load order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.order...)
}

// Numeric returns a numeric column by name.
func (t *Table) Numeric(name string) ([]float64, error) {
	col, ok := t.numeric[name]
	if !ok {
		return nil, &experiment.DataError{Column: name, Reason: "is missing or not numeric"}
	}
	return col, nil
}

// Text returns a text column by name.
func (t *Table) Text(name string) ([]string, error) {
	col, ok := t.text[name]
	if !ok {
		return nil, &experiment.DataError{Column: name, Reason: "is missing or not text"}
	}
	return col, nil
}

// Features assembles the named numeric columns into the map shape the
// modeling collaborator consumes.
func (t *Table) Features(names []string) (map[string][]float64, error) {
	out := make(map[string][]float64, len(names))
	for _, name := range names {
		col, err := t.Numeric(name)
		if err != nil {
			return nil, err
		}
		out[name] = col
	}
	return out, nil
}

// #endregion table

// #region constructors
// FromColumns builds a table from numeric columns, checking that every
// column has the same length.
func FromColumns(columns map[string][]float64, order []string) (*Table, error) {
	if len(order) == 0 {
		for name := range columns {
			order = append(order, name)
		}
	}
	t := &Table{
		order:   append([]string(nil), order...),
		numeric: make(map[string][]float64, len(columns)),
		text:    map[string][]string{},
		rows:    -1,
	}
	for _, name := range t.order {
		col, ok := columns[name]
		if !ok {
			return nil, &experiment.DataError{Column: name, Reason: "is missing"}
		}
		if t.rows >= 0 && len(col) != t.rows {
			return nil, &experiment.DataError{Column: name, Reason: "does not align with the other columns"}
		}
		t.rows = len(col)
		t.numeric[name] = append([]float64(nil), col...)
	}
	if t.rows < 0 {
		t.rows = 0
	}
	return t, nil
}

// FromCSV reads a header-first CSV stream into a table. A column becomes
// numeric only when every one of its cells parses as a float.
func FromCSV(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, &experiment.DataError{Reason: "csv has no header row"}
	}

	header := records[0]
	rows := records[1:]
	t := &Table{
		order:   append([]string(nil), header...),
		numeric: map[string][]float64{},
		text:    map[string][]string{},
		rows:    len(rows),
	}

	for c, name := range header {
		cells := make([]string, len(rows))
		values := make([]float64, len(rows))
		isNumeric := true
		for i, row := range rows {
			if c >= len(row) {
				return nil, &experiment.DataError{Column: name, Reason: fmt.Sprintf("is missing at row %d", i+1)}
			}
			cells[i] = row[c]
			if isNumeric {
				v, perr := strconv.ParseFloat(row[c], 64)
				if perr != nil {
					isNumeric = false
				} else {
					values[i] = v
				}
			}
		}
		if isNumeric && len(rows) > 0 {
			t.numeric[name] = values
		} else {
			t.text[name] = cells
		}
	}
	return t, nil
}

// #endregion constructors

// #region row-subset
// subset copies the given rows, in order, into a new table.
func (t *Table) subset(indices []int) *Table {
	out := &Table{
		order:   append([]string(nil), t.order...),
		numeric: make(map[string][]float64, len(t.numeric)),
		text:    make(map[string][]string, len(t.text)),
		rows:    len(indices),
	}
	for name, col := range t.numeric {
		sub := make([]float64, len(indices))
		for i, idx := range indices {
			sub[i] = col[idx]
		}
		out.numeric[name] = sub
	}
	for name, col := range t.text {
		sub := make([]string, len(indices))
		for i, idx := range indices {
			sub[i] = col[idx]
		}
		out.text[name] = sub
	}
	return out
}

// #endregion row-subset

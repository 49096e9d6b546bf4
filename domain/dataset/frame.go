package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Frame is a column-named table of string cells. Cells keep the exact text
// they were loaded with; numeric views are derived on demand. Frames are
// treated as immutable: every transformation returns a new Frame that may
// share row storage with its source.
type Frame struct {
	columns []string
	rows    [][]string
	index   map[string]int
}

// NewFrame builds a frame. Rows shorter than the header are padded with
// empty cells; longer rows are truncated.
func NewFrame(columns []string, rows [][]string) *Frame {
	cols := append([]string(nil), columns...)
	normalized := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) == len(cols) {
			normalized[i] = row
			continue
		}
		fixed := make([]string, len(cols))
		copy(fixed, row)
		normalized[i] = fixed
	}
	f := &Frame{columns: cols, rows: normalized}
	f.buildIndex()
	return f
}

func (f *Frame) buildIndex() {
	f.index = make(map[string]int, len(f.columns))
	for i, c := range f.columns {
		if _, exists := f.index[c]; !exists {
			f.index[c] = i
		}
	}
}

// Columns returns a copy of the column names in order.
func (f *Frame) Columns() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.columns...)
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.rows)
}

// Width returns the number of columns.
func (f *Frame) Width() int {
	if f == nil {
		return 0
	}
	return len(f.columns)
}

// ColumnIndex resolves a column name to its position.
func (f *Frame) ColumnIndex(name string) (int, bool) {
	if f == nil {
		return 0, false
	}
	i, ok := f.index[name]
	return i, ok
}

// HasColumn reports whether a column named name exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.ColumnIndex(name)
	return ok
}

// Row returns a copy of row i.
func (f *Frame) Row(i int) []string {
	return append([]string(nil), f.rows[i]...)
}

// Cell returns the raw text at row i of column col, or "" when the column
// does not exist.
func (f *Frame) Cell(i int, col string) string {
	j, ok := f.ColumnIndex(col)
	if !ok {
		return ""
	}
	return f.rows[i][j]
}

// Float returns the numeric value at row i of column col. Missing or
// unparseable cells are NaN.
func (f *Frame) Float(i int, col string) float64 {
	j, ok := f.ColumnIndex(col)
	if !ok {
		return math.NaN()
	}
	return ParseFloat(f.rows[i][j])
}

// Floats returns column col as numbers (NaN for missing cells).
func (f *Frame) Floats(col string) []float64 {
	out := make([]float64, f.Len())
	j, ok := f.ColumnIndex(col)
	for i := range out {
		if !ok {
			out[i] = math.NaN()
			continue
		}
		out[i] = ParseFloat(f.rows[i][j])
	}
	return out
}

// Empty returns a frame with the same columns and no rows.
func (f *Frame) Empty() *Frame {
	return NewFrame(f.Columns(), nil)
}

// SelectRows returns the rows at the given positions, in that order.
func (f *Frame) SelectRows(positions []int) *Frame {
	rows := make([][]string, 0, len(positions))
	for _, p := range positions {
		rows = append(rows, f.rows[p])
	}
	return &Frame{columns: f.columns, rows: rows, index: f.index}
}

// Filter keeps the rows for which keep returns true.
func (f *Frame) Filter(keep func(i int) bool) *Frame {
	positions := make([]int, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		if keep(i) {
			positions = append(positions, i)
		}
	}
	return f.SelectRows(positions)
}

// WithColumn returns a frame with an extra column appended. An existing
// column of the same name is replaced in place.
func (f *Frame) WithColumn(name string, values []string) *Frame {
	if len(values) != f.Len() {
		panic(fmt.Sprintf("dataset: column %q has %d values for %d rows", name, len(values), f.Len()))
	}
	cols := f.Columns()
	pos, exists := f.ColumnIndex(name)
	if !exists {
		cols = append(cols, name)
		pos = len(cols) - 1
	}
	rows := make([][]string, f.Len())
	for i := range rows {
		row := make([]string, len(cols))
		copy(row, f.rows[i])
		row[pos] = values[i]
		rows[i] = row
	}
	return NewFrame(cols, rows)
}

// RenameColumns returns a frame whose columns at the given positions carry
// new names. Renamed columns take precedence in name lookups over any other
// column that already had that name.
func (f *Frame) RenameColumns(renames map[int]string) *Frame {
	cols := f.Columns()
	for pos, name := range renames {
		cols[pos] = name
	}
	out := &Frame{columns: cols, rows: f.rows}
	out.buildIndex()
	for pos, name := range renames {
		out.index[name] = pos
	}
	return out
}

// Records returns every row as a column→cell map.
func (f *Frame) Records() []map[string]string {
	out := make([]map[string]string, f.Len())
	for i := range out {
		rec := make(map[string]string, len(f.columns))
		for j, c := range f.columns {
			rec[c] = f.rows[i][j]
		}
		out[i] = rec
	}
	return out
}

type frameJSON struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// MarshalJSON encodes the frame as {"columns": [...], "rows": [[...]]}.
func (f *Frame) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	rows := f.rows
	if rows == nil {
		rows = [][]string{}
	}
	return json.Marshal(frameJSON{Columns: f.columns, Rows: rows})
}

// UnmarshalJSON decodes the format produced by MarshalJSON.
func (f *Frame) UnmarshalJSON(data []byte) error {
	var raw frameJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = *NewFrame(raw.Columns, raw.Rows)
	return nil
}

// ParseFloat converts a cell to a number. Empty cells and the usual missing
// markers become NaN.
func ParseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "na", "n/a", "null", "none":
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// FormatFloat renders a number the shortest way that round-trips. NaN is "".
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

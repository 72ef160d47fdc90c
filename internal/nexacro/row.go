package nexacro

import (
	"strconv"
	"strings"
)

// Row represents a single dataset row mapping column IDs to their raw values
type Row map[string]string

// Rows represents an ordered sequence of dataset rows
type Rows []Row

// Get returns the raw value of a column; missing columns yield the empty string
func (row Row) Get(col string) string {
	return row[col]
}

// Int coerces a column value to an integer.
// Empty, missing and unparsable values report false; whole-number floats like '18.0' are accepted.
func (row Row) Int(col string) (int64, bool) {
	raw := normalizeNumber(row[col])
	if raw == "" {
		return 0, false
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fl, ok := row.Float(col)
		if !ok || fl != float64(int64(fl)) {
			return 0, false
		}
		return int64(fl), true
	}
	return val, true
}

// Float coerces a column value to a float.
// Empty, missing and unparsable values report false.
func (row Row) Float(col string) (float64, bool) {
	raw := normalizeNumber(row[col])
	if raw == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// At returns the row at index i or nil if the index is out of range
func (rows Rows) At(i int) Row {
	if i < 0 || i >= len(rows) {
		return nil
	}
	return rows[i]
}

// Slice returns rows[from:to] clamped to the available rows
func (rows Rows) Slice(from, to int) Rows {
	if from < 0 {
		from = 0
	}
	if to > len(rows) {
		to = len(rows)
	}
	if from >= to {
		return Rows{}
	}
	return rows[from:to]
}

// The portal formats some numbers with thousands separators
func normalizeNumber(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
}

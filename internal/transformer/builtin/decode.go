package builtin

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"socialads/internal/records"
)

// naTokens are the cell values read as missing, in addition to the empty
// string. The set matches what common dataframe readers treat as NA.
var naTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

var errNotNumber = errors.New("not a number")

// IsMissing reports whether a raw cell value stands for a missing value.
func IsMissing(cell string) bool {
	s := strings.TrimSpace(cell)
	if s == "" {
		return true
	}
	_, ok := naTokens[s]
	return ok
}

// FieldError reports a cell holding text that is not a number.
type FieldError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d, column %s: value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Layout locates the canonical columns inside a normalized header.
type Layout struct {
	Age, Salary, Purchased int
	// Extra holds the indexes of non-canonical columns in header order.
	Extra []int
	// ExtraNames holds their normalized names.
	ExtraNames []string
}

// NewLayout builds a Layout for a normalized header. It fails when a required
// column is missing.
func NewLayout(normalized []string) (Layout, error) {
	if missing := MissingColumns(normalized); len(missing) > 0 {
		return Layout{}, fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}
	l := Layout{Age: -1, Salary: -1, Purchased: -1}
	for i, n := range normalized {
		switch n {
		case records.ColAge:
			l.Age = i
		case records.ColEstimatedSalary:
			l.Salary = i
		case records.ColPurchased:
			l.Purchased = i
		default:
			l.Extra = append(l.Extra, i)
			l.ExtraNames = append(l.ExtraNames, n)
		}
	}
	return l, nil
}

// Decode converts the string rows of a table into RawRecords using l.
// lines carries the source line of each row and may be shorter than rows.
func Decode(l Layout, header []string, rows [][]string, lines []int) ([]records.RawRecord, error) {
	out := make([]records.RawRecord, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		if i < len(lines) {
			line = lines[i]
		}
		rec := records.RawRecord{Line: line}

		var err error
		if rec.Age, err = parseNumber(row[l.Age]); err != nil {
			return nil, &FieldError{Line: line, Column: header[l.Age], Value: row[l.Age], Err: err}
		}
		if rec.EstimatedSalary, err = parseNumber(row[l.Salary]); err != nil {
			return nil, &FieldError{Line: line, Column: header[l.Salary], Value: row[l.Salary], Err: err}
		}
		if rec.Purchased, err = parseNumber(row[l.Purchased]); err != nil {
			return nil, &FieldError{Line: line, Column: header[l.Purchased], Value: row[l.Purchased], Err: err}
		}
		if len(l.Extra) > 0 {
			rec.Extra = make([]sql.NullString, len(l.Extra))
			for j, idx := range l.Extra {
				if !IsMissing(row[idx]) {
					rec.Extra[j] = sql.NullString{String: row[idx], Valid: true}
				}
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// parseNumber reads a numeric cell. Fractional, huge and infinite values are
// returned as-is for the filters to judge; NaN counts as missing.
func parseNumber(cell string) (sql.NullFloat64, error) {
	if IsMissing(cell) {
		return sql.NullFloat64{}, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		var ne *strconv.NumError
		if !errors.As(err, &ne) || ne.Err != strconv.ErrRange {
			return sql.NullFloat64{}, errNotNumber
		}
	}
	if math.IsNaN(f) {
		return sql.NullFloat64{}, nil
	}
	if f == 0 {
		f = 0 // fold -0
	}
	return sql.NullFloat64{Float64: f, Valid: true}, nil
}

// Package records defines the typed rows that flow through the social ads
// pipeline: the raw extracted table, the decoded raw record, and the
// persisted AdRecord.
package records

import (
	"database/sql"
	"time"
)

// Canonical column names after header normalization.
const (
	ColAge             = "age"
	ColEstimatedSalary = "estimated_salary"
	ColPurchased       = "purchased"
	ColAgeGroup        = "age_group"
	ColSalaryBracket   = "salary_bracket"
)

// Table is the in-memory result of extraction. Header names are exactly as
// they appear in the source (minus a UTF-8 BOM); every row has len(Header)
// fields.
type Table struct {
	// Source names the file or object the table was read from.
	Source string

	Header []string
	Rows   [][]string

	// Lines holds the 1-based source line of each row (the header is line 1
	// for single-line records).
	Lines []int
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// RawRecord is one source row decoded against the normalized header. A field
// with Valid == false was missing in the source. Numeric columns are held as
// float64 so that fractional or out-of-range values reach the validation
// filters instead of failing the decode.
type RawRecord struct {
	Line int

	Age             sql.NullFloat64
	EstimatedSalary sql.NullFloat64
	Purchased       sql.NullFloat64

	// Extra carries the values of any non-canonical columns in header order.
	// They take part in duplicate and missing-value checks but are not
	// persisted.
	Extra []sql.NullString
}

// Complete reports whether no field of r is missing.
func (r RawRecord) Complete() bool {
	if !r.Age.Valid || !r.EstimatedSalary.Valid || !r.Purchased.Valid {
		return false
	}
	for _, e := range r.Extra {
		if !e.Valid {
			return false
		}
	}
	return true
}

// Equal reports whether r and o hold the same values in every column. Line is
// not compared.
func (r RawRecord) Equal(o RawRecord) bool {
	if r.Age != o.Age || r.EstimatedSalary != o.EstimatedSalary || r.Purchased != o.Purchased {
		return false
	}
	if len(r.Extra) != len(o.Extra) {
		return false
	}
	for i := range r.Extra {
		if r.Extra[i] != o.Extra[i] {
			return false
		}
	}
	return true
}

// AdRecord is the transformed, persisted form of a row in social_ads.
//
// ID, CreatedAt and UpdatedAt are assigned by the destination store and are
// zero on records produced by the transformer.
type AdRecord struct {
	ID              int64
	Age             int
	EstimatedSalary float64
	Purchased       bool
	AgeGroup        AgeGroup
	SalaryBracket   SalaryBracket
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

package builtin

import (
	"math"

	"socialads/internal/records"
)

// Bounds enforced by the validation filters.
const (
	MinAge = 18
	MaxAge = 100
)

// ValidationStats counts the records each validation step removed.
type ValidationStats struct {
	Input             int
	Duplicates        int
	Missing           int
	AgeOutOfRange     int
	SalaryNonPositive int
	PurchasedInvalid  int
	Output            int
}

// Removed is the total number of records dropped.
func (s ValidationStats) Removed() int { return s.Input - s.Output }

// Filter keeps the records for which Keep returns true.
type Filter struct {
	Name string
	Keep func(records.RawRecord) bool
}

// Filters are the row filters applied after de-duplication, in order.
var Filters = []Filter{
	{Name: "missing", Keep: records.RawRecord.Complete},
	{Name: "age_range", Keep: func(r records.RawRecord) bool {
		a := r.Age.Float64
		return a >= MinAge && a <= MaxAge && a == math.Trunc(a)
	}},
	{Name: "salary_positive", Keep: func(r records.RawRecord) bool {
		return r.EstimatedSalary.Float64 > 0
	}},
	{Name: "purchased_flag", Keep: func(r records.RawRecord) bool {
		return r.Purchased.Float64 == 0 || r.Purchased.Float64 == 1
	}},
}

// Apply runs the filter, returning the kept records and how many were dropped.
func (f Filter) Apply(in []records.RawRecord) ([]records.RawRecord, int) {
	out := in[:0:0]
	for _, r := range in {
		if f.Keep(r) {
			out = append(out, r)
		}
	}
	return out, len(in) - len(out)
}

// Validate drops duplicates, then applies Filters in order. It does not
// modify in. Running it on its own output removes nothing.
func Validate(in []records.RawRecord) ([]records.RawRecord, ValidationStats) {
	st := ValidationStats{Input: len(in)}

	out := DeDup(in)
	st.Duplicates = len(in) - len(out)

	for _, f := range Filters {
		var dropped int
		out, dropped = f.Apply(out)
		switch f.Name {
		case "missing":
			st.Missing = dropped
		case "age_range":
			st.AgeOutOfRange = dropped
		case "salary_positive":
			st.SalaryNonPositive = dropped
		case "purchased_flag":
			st.PurchasedInvalid = dropped
		}
	}
	st.Output = len(out)
	return out, st
}

package builtin

import (
	"fmt"

	"socialads/internal/records"
)

// Derive fills the derived features of a validated record. Each record is
// handled independently.
func Derive(r records.RawRecord) records.AdRecord {
	age := int(r.Age.Float64)
	return records.AdRecord{
		Age:             age,
		EstimatedSalary: r.EstimatedSalary.Float64,
		AgeGroup:        records.AgeGroupOf(age),
		SalaryBracket:   records.SalaryBracketOf(r.EstimatedSalary.Float64),
	}
}

// CoercePurchased maps the 0/1 purchase flag onto a bool.
func CoercePurchased(v float64) (bool, error) {
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("purchased flag %v is not 0 or 1", v)
	}
}

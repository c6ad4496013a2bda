package records

// AgeGroup is the categorical age band stored in social_ads.age_group.
type AgeGroup string

const (
	AgeYoung     AgeGroup = "young_18_24"
	AgeAdult     AgeGroup = "adult_25_34"
	AgeMiddleAge AgeGroup = "middle_age_35_44"
	AgeSenior    AgeGroup = "senior_45_plus"
)

// AgeGroups lists every AgeGroup in ascending order.
var AgeGroups = []AgeGroup{AgeYoung, AgeAdult, AgeMiddleAge, AgeSenior}

// AgeGroupOf buckets an age. Lower bounds are inclusive, upper bounds
// exclusive; callers are expected to pass validated ages (>= 18).
func AgeGroupOf(age int) AgeGroup {
	switch {
	case age < 25:
		return AgeYoung
	case age < 35:
		return AgeAdult
	case age < 45:
		return AgeMiddleAge
	default:
		return AgeSenior
	}
}

// SalaryBracket is the categorical salary band stored in
// social_ads.salary_bracket.
type SalaryBracket string

const (
	SalaryLow      SalaryBracket = "low_under_30k"
	SalaryMedium   SalaryBracket = "medium_30k_60k"
	SalaryHigh     SalaryBracket = "high_60k_100k"
	SalaryVeryHigh SalaryBracket = "very_high_100k_plus"
)

// SalaryBrackets lists every SalaryBracket in ascending order.
var SalaryBrackets = []SalaryBracket{SalaryLow, SalaryMedium, SalaryHigh, SalaryVeryHigh}

// SalaryBracketOf buckets an estimated salary with the same inclusive-lower,
// exclusive-upper convention as AgeGroupOf.
func SalaryBracketOf(salary float64) SalaryBracket {
	switch {
	case salary < 30000:
		return SalaryLow
	case salary < 60000:
		return SalaryMedium
	case salary < 100000:
		return SalaryHigh
	default:
		return SalaryVeryHigh
	}
}

package pipeline

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"socialads/internal/transformer/builtin"
)

// Summary reports a successful run.
type Summary struct {
	RunID  string
	Job    string
	Source string

	Extracted    int
	Loaded       int64
	Dropped      int
	Validation   builtin.ValidationStats
	ExtraColumns []string

	Duration time.Duration
}

// Retention is Loaded/Extracted as a percentage rounded to one decimal place,
// ties to even as fixed-point formatting rounds them. It is 0 when nothing was
// extracted.
func (s Summary) Retention() float64 {
	if s.Extracted == 0 {
		return 0
	}
	pct := float64(s.Loaded) / float64(s.Extracted) * 100
	r, _ := strconv.ParseFloat(strconv.FormatFloat(pct, 'f', 1, 64), 64)
	return r
}

const rule = "=================================================="

// Print writes the human-readable summary block to w.
func (s Summary) Print(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\nETL PIPELINE SUMMARY\n%s\n", rule, rule)
	fmt.Fprintf(&b, "Records extracted: %d\n", s.Extracted)
	fmt.Fprintf(&b, "Records loaded: %d\n", s.Loaded)
	fmt.Fprintf(&b, "Data quality: %.1f%%\n", s.Retention())
	if s.Dropped > 0 {
		v := s.Validation
		fmt.Fprintf(&b, "Records removed: %d (duplicates=%d missing=%d age=%d salary=%d purchased=%d)\n",
			s.Dropped, v.Duplicates, v.Missing, v.AgeOutOfRange, v.SalaryNonPositive, v.PurchasedInvalid)
	}
	if len(s.ExtraColumns) > 0 {
		fmt.Fprintf(&b, "Columns not persisted: %s\n", strings.Join(s.ExtraColumns, ", "))
	}
	fmt.Fprintf(&b, "Run: %s (%s)\n%s\n", s.RunID, s.Duration.Truncate(time.Millisecond), rule)
	_, err := io.WriteString(w, b.String())
	return err
}

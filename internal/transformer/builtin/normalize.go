// Package builtin holds the row-level steps the social ads transformer runs:
// header normalization, decoding, de-duplication, validation filters,
// feature derivation and type coercion.
package builtin

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"socialads/internal/records"
)

// columnAliases maps normalized names that still differ from the canonical
// schema onto it.
var columnAliases = map[string]string{
	"estimatedsalary": records.ColEstimatedSalary,
}

// RequiredColumns are the columns every input must carry after normalization.
var RequiredColumns = []string{records.ColAge, records.ColEstimatedSalary, records.ColPurchased}

// NormalizeName lowercases a header name, trims it, turns internal spaces
// into underscores and applies the known aliases.
func NormalizeName(name string) string {
	s := norm.NFC.String(strings.TrimSpace(name))
	s = cases.Lower(language.Und).String(s)
	s = strings.Join(strings.Fields(s), "_")
	if alias, ok := columnAliases[s]; ok {
		return alias
	}
	return s
}

// NormalizeColumns normalizes every header name. Two source columns that
// collapse to the same name are reported as an error.
func NormalizeColumns(header []string) ([]string, error) {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		n := NormalizeName(h)
		if prev, dup := seen[n]; dup {
			return nil, fmt.Errorf("columns %q and %q both normalize to %q", header[prev], h, n)
		}
		seen[n] = i
		out[i] = n
	}
	return out, nil
}

// MissingColumns returns the required columns absent from a normalized header.
func MissingColumns(normalized []string) []string {
	have := make(map[string]struct{}, len(normalized))
	for _, n := range normalized {
		have[n] = struct{}{}
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := have[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

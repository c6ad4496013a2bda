package builtin

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"socialads/internal/records"
)

// DeDup drops exact duplicate records, comparing every column, and keeps the
// first occurrence. Input order is preserved.
//
// An extra column whose present cells are all numeric is compared by value,
// so "001" and "1" are equal there; other extra columns compare as text.
// Records are bucketed by an xxh3 hash of their encoded values and hash hits
// are confirmed against the full encoding.
func DeDup(in []records.RawRecord) []records.RawRecord {
	if len(in) < 2 {
		return in
	}
	numeric := numericExtras(in)
	out := make([]records.RawRecord, 0, len(in))
	seen := make(map[uint64][]string, len(in))
	var buf []byte

	for _, r := range in {
		buf = appendKey(buf[:0], r, numeric)
		h := xxh3.Hash(buf)

		dup := false
		for _, k := range seen[h] {
			if k == string(buf) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen[h] = append(seen[h], string(buf))
		out = append(out, r)
	}
	return out
}

// numericExtras reports, per extra column, whether every present cell parses
// as a finite number.
func numericExtras(in []records.RawRecord) []bool {
	n := len(in[0].Extra)
	numeric := make([]bool, n)
	for j := range numeric {
		numeric[j] = true
	}
	for _, r := range in {
		for j := 0; j < n && j < len(r.Extra); j++ {
			if !numeric[j] || !r.Extra[j].Valid {
				continue
			}
			if _, ok := extraNumber(r.Extra[j].String); !ok {
				numeric[j] = false
			}
		}
	}
	return numeric
}

func extraNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	if f == 0 {
		f = 0
	}
	return f, true
}

// appendKey encodes every column of r with a validity byte so that a missing
// value never collides with a zero value.
func appendKey(b []byte, r records.RawRecord, numeric []bool) []byte {
	b = appendFloat(b, r.Age.Valid, r.Age.Float64)
	b = appendFloat(b, r.EstimatedSalary.Valid, r.EstimatedSalary.Float64)
	b = appendFloat(b, r.Purchased.Valid, r.Purchased.Float64)
	for j, e := range r.Extra {
		if !e.Valid {
			b = append(b, 0)
			continue
		}
		if j < len(numeric) && numeric[j] {
			f, _ := extraNumber(e.String)
			b = appendFloat(b, true, f)
			continue
		}
		b = append(b, 2)
		b = binary.LittleEndian.AppendUint32(b, uint32(len(e.String)))
		b = append(b, e.String...)
	}
	return b
}

func appendFloat(b []byte, valid bool, v float64) []byte {
	if !valid {
		return append(b, 0)
	}
	b = append(b, 1)
	return binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
}

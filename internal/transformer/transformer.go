// Package transformer turns an extracted social ads table into validated,
// enriched AdRecords.
package transformer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"socialads/internal/logging"
	"socialads/internal/records"
	"socialads/internal/transformer/builtin"
)

// TransformationError reports a failure inside the transform stage. Line and
// Column are set when the failure is tied to one cell.
type TransformationError struct {
	Step   string
	Line   int
	Column string
	Err    error
}

func (e *TransformationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("transform %s: line %d, column %s: %v", e.Step, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("transform %s: %v", e.Step, e.Err)
}

func (e *TransformationError) Unwrap() error { return e.Err }

// Stats describes one Transform call.
type Stats struct {
	Validation builtin.ValidationStats
	// ExtraColumns lists normalized input columns that are not persisted.
	ExtraColumns []string
}

// Transformer runs normalize, decode, validate, derive and coerce in that
// order and keeps the last successful output.
type Transformer struct {
	log *slog.Logger
	out []records.AdRecord
}

// New returns a Transformer logging to log (nil discards).
func New(log *slog.Logger) *Transformer {
	return &Transformer{log: logging.OrDefault(log)}
}

// Transform converts tbl into AdRecords. It fails only on a missing required
// column, a non-numeric cell in a numeric column or an unexpected coercion
// failure; invalid rows are dropped and counted in Stats.
func (t *Transformer) Transform(ctx context.Context, tbl *records.Table) ([]records.AdRecord, Stats, error) {
	var st Stats
	if err := ctx.Err(); err != nil {
		return nil, st, err
	}
	if tbl == nil {
		return nil, st, &TransformationError{Step: "normalize", Err: errors.New("no table")}
	}
	t.log.Info("transforming", "rows", tbl.Len())

	cols, err := builtin.NormalizeColumns(tbl.Header)
	if err != nil {
		return nil, st, t.fail(&TransformationError{Step: "normalize", Err: err})
	}
	layout, err := builtin.NewLayout(cols)
	if err != nil {
		return nil, st, t.fail(&TransformationError{Step: "normalize", Err: err})
	}
	if len(layout.ExtraNames) > 0 {
		st.ExtraColumns = layout.ExtraNames
		t.log.Warn("input has columns that are not persisted", "columns", layout.ExtraNames)
	}

	raw, err := builtin.Decode(layout, tbl.Header, tbl.Rows, tbl.Lines)
	if err != nil {
		te := &TransformationError{Step: "decode", Err: err}
		var fe *builtin.FieldError
		if errors.As(err, &fe) {
			te.Line, te.Column, te.Err = fe.Line, fe.Column, fe.Err
		}
		return nil, st, t.fail(te)
	}

	valid, vst := t.Validate(raw)
	st.Validation = vst

	out := make([]records.AdRecord, 0, len(valid))
	for _, r := range valid {
		ad := builtin.Derive(r)
		if ad.Purchased, err = builtin.CoercePurchased(r.Purchased.Float64); err != nil {
			return nil, st, t.fail(&TransformationError{Step: "coerce", Line: r.Line, Column: records.ColPurchased, Err: err})
		}
		out = append(out, ad)
	}

	t.out = out
	t.log.Info("transformed", "rows", len(out), "removed", vst.Removed())
	return out, st, nil
}

// Validate applies the validation filters and logs a warning when any record
// was removed.
func (t *Transformer) Validate(in []records.RawRecord) ([]records.RawRecord, builtin.ValidationStats) {
	out, st := builtin.Validate(in)
	if n := st.Removed(); n > 0 {
		t.log.Warn(fmt.Sprintf("Removed %d invalid records", n),
			"duplicates", st.Duplicates,
			"missing", st.Missing,
			"age_out_of_range", st.AgeOutOfRange,
			"salary_non_positive", st.SalaryNonPositive,
			"purchased_invalid", st.PurchasedInvalid,
		)
	}
	return out, st
}

// Transformed returns the output of the last successful Transform, or nil.
func (t *Transformer) Transformed() []records.AdRecord { return t.out }

func (t *Transformer) fail(err *TransformationError) error {
	t.log.Error("transformation failed", "err", err)
	return err
}

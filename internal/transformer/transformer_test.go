package transformer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialads/internal/records"
)

func table(header []string, rows ...[]string) *records.Table {
	lines := make([]int, len(rows))
	for i := range rows {
		lines[i] = i + 2
	}
	return &records.Table{Source: "test.csv", Header: header, Rows: rows, Lines: lines}
}

var adsHeader = []string{"Age", "EstimatedSalary", "Purchased"}

func TestTransform_ValidationExample(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tr := New(slog.New(slog.NewTextHandler(&buf, nil)))

	out, st, err := tr.Transform(context.Background(), table(adsHeader,
		[]string{"25", "50000", "1"},
		[]string{"150", "60000", "0"},
		[]string{"15", "-1000", "1"},
		[]string{"30", "70000", "0"},
		[]string{"25", "50000", "2"},
	))
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, records.AdRecord{Age: 25, EstimatedSalary: 50000, Purchased: true,
		AgeGroup: records.AgeAdult, SalaryBracket: records.SalaryMedium}, out[0])
	assert.Equal(t, records.AdRecord{Age: 30, EstimatedSalary: 70000, Purchased: false,
		AgeGroup: records.AgeAdult, SalaryBracket: records.SalaryHigh}, out[1])

	assert.Equal(t, 3, st.Validation.Removed())
	assert.Contains(t, buf.String(), "Removed 3 invalid records")
	assert.Equal(t, out, tr.Transformed())
}

func TestTransform_NoWarningWhenNothingRemoved(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tr := New(slog.New(slog.NewTextHandler(&buf, nil)))
	_, st, err := tr.Transform(context.Background(), table(adsHeader, []string{"40", "80000", "0"}))
	require.NoError(t, err)
	assert.Zero(t, st.Validation.Removed())
	assert.NotContains(t, buf.String(), "level=WARN")
}

func TestTransform_FeatureExample(t *testing.T) {
	t.Parallel()

	out, _, err := New(nil).Transform(context.Background(), table([]string{"Age", "Estimated Salary", "Purchased"},
		[]string{"22", "25000", "0"},
		[]string{"30", "45000", "1"},
		[]string{"40", "75000", "0"},
		[]string{"50", "120000", "1"},
	))
	require.NoError(t, err)
	require.Len(t, out, 4)

	var groups []records.AgeGroup
	var brackets []records.SalaryBracket
	for _, r := range out {
		groups = append(groups, r.AgeGroup)
		brackets = append(brackets, r.SalaryBracket)
	}
	assert.Equal(t, records.AgeGroups, groups)
	assert.Equal(t, records.SalaryBrackets, brackets)
}

func TestTransform_ExtraColumnsReported(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tr := New(slog.New(slog.NewTextHandler(&buf, nil)))
	out, st, err := tr.Transform(context.Background(), table([]string{"User ID", "Gender", "Age", "EstimatedSalary", "Purchased"},
		[]string{"1", "Male", "19", "19000", "0"},
		[]string{"2", "", "35", "20000", "0"},
		[]string{"3", "Female", "26", "43000", "0"},
	))
	require.NoError(t, err)
	assert.Len(t, out, 2, "row with a missing extra value is dropped")
	assert.Equal(t, []string{"user_id", "gender"}, st.ExtraColumns)
	assert.Equal(t, 1, st.Validation.Missing)
	assert.Equal(t, 1, strings.Count(buf.String(), "not persisted"))
}

func TestTransform_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		tbl    *records.Table
		step   string
		line   int
		column string
	}{
		{"nil_table", nil, "normalize", 0, ""},
		{"missing_column", table([]string{"Age", "Purchased"}, []string{"25", "1"}), "normalize", 0, ""},
		{"colliding_columns", table([]string{"Age", "age", "EstimatedSalary", "Purchased"}), "normalize", 0, ""},
		{"non_numeric_age", table(adsHeader, []string{"25", "1", "0"}, []string{"old", "1", "0"}), "decode", 3, "Age"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			tr := New(nil)
			out, _, err := tr.Transform(context.Background(), c.tbl)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.Nil(t, tr.Transformed())

			var te *TransformationError
			require.True(t, errors.As(err, &te), "err = %T", err)
			assert.Equal(t, c.step, te.Step)
			assert.Equal(t, c.line, te.Line)
			assert.Equal(t, c.column, te.Column)
		})
	}
}

func TestTransform_OutOfDomainNumbersAreDropped(t *testing.T) {
	t.Parallel()

	out, st, err := New(nil).Transform(context.Background(), table(adsHeader,
		[]string{"25", "50000", "1"},
		[]string{"30", "70000", "0.5"},
		[]string{"1e20", "70000", "1"},
		[]string{"30", "-inf", "1"},
		[]string{"25.5", "70000", "0"},
		[]string{"40", "inf", "0"},
	))
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, 25, out[0].Age)
	assert.Equal(t, records.SalaryVeryHigh, out[1].SalaryBracket)
	assert.Equal(t, 6, st.Validation.Input)
	assert.Equal(t, 2, st.Validation.AgeOutOfRange)
	assert.Equal(t, 1, st.Validation.SalaryNonPositive)
	assert.Equal(t, 1, st.Validation.PurchasedInvalid)
	assert.Equal(t, 4, st.Validation.Removed())
}

func TestTransform_EmptyTable(t *testing.T) {
	t.Parallel()

	out, st, err := New(nil).Transform(context.Background(), table(adsHeader))
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, st.Validation.Input)
}

func TestTransform_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := New(nil).Transform(ctx, table(adsHeader, []string{"25", "50000", "1"}))
	assert.ErrorIs(t, err, context.Canceled)
}

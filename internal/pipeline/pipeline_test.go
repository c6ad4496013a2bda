package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialads/internal/etlerr"
	"socialads/internal/extractor"
	"socialads/internal/logging"
	"socialads/internal/records"
	"socialads/internal/transformer"
	"socialads/internal/transformer/builtin"
)

type fakeExtractor struct {
	tbl   *records.Table
	err   error
	calls int
}

func (f *fakeExtractor) Extract(context.Context) (*records.Table, error) {
	f.calls++
	return f.tbl, f.err
}

type fakeTransformer struct {
	out   []records.AdRecord
	st    transformer.Stats
	err   error
	calls int
	got   *records.Table
}

func (f *fakeTransformer) Transform(_ context.Context, t *records.Table) ([]records.AdRecord, transformer.Stats, error) {
	f.calls++
	f.got = t
	return f.out, f.st, f.err
}

type fakeLoader struct {
	err   error
	calls int
	got   []records.AdRecord
}

func (f *fakeLoader) Load(_ context.Context, recs []records.AdRecord) (int64, error) {
	f.calls++
	f.got = recs
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(recs)), nil
}

func newPipeline(e *fakeExtractor, tr *fakeTransformer, l *fakeLoader) *Pipeline {
	return &Pipeline{
		Job:         "test",
		Extractor:   e,
		Transformer: tr,
		Loader:      l,
		Log:         logging.Discard(),
		NewRunID:    func() string { return "run-1" },
	}
}

func table(n int) *records.Table {
	t := &records.Table{Source: "ads.csv", Header: []string{"Age", "EstimatedSalary", "Purchased"}}
	for i := 0; i < n; i++ {
		t.Rows = append(t.Rows, []string{"30", "50000", "1"})
		t.Lines = append(t.Lines, i+2)
	}
	return t
}

func TestRun_PassesOutputsForward(t *testing.T) {
	t.Parallel()

	tbl := table(5)
	out := []records.AdRecord{{Age: 25, EstimatedSalary: 50000, Purchased: true}, {Age: 30, EstimatedSalary: 70000}}
	e := &fakeExtractor{tbl: tbl}
	tr := &fakeTransformer{out: out, st: transformer.Stats{Validation: builtin.ValidationStats{Input: 5, AgeOutOfRange: 2, SalaryNonPositive: 1, Output: 2}}}
	l := &fakeLoader{}

	sum, err := newPipeline(e, tr, l).Run(context.Background())
	require.NoError(t, err)

	assert.Same(t, tbl, tr.got)
	assert.Equal(t, out, l.got)
	assert.Equal(t, "run-1", sum.RunID)
	assert.Equal(t, "ads.csv", sum.Source)
	assert.Equal(t, 5, sum.Extracted)
	assert.EqualValues(t, 2, sum.Loaded)
	assert.Equal(t, 3, sum.Dropped)
	assert.Equal(t, 40.0, sum.Retention())
}

func TestRun_StopsAtFailingStage(t *testing.T) {
	t.Parallel()

	structural := &extractor.DataExtractionError{Path: "ads.csv", Line: 3, Err: errors.New("wrong number of fields")}
	missing := &fs.PathError{Op: "open", Path: "ads.csv", Err: fs.ErrNotExist}
	badCell := &transformer.TransformationError{Step: "decode", Line: 2, Column: "Age", Err: errors.New("not a number")}
	insertErr := errors.New("NOT NULL constraint failed: social_ads.age")

	tests := []struct {
		name           string
		extractErr     error
		transformErr   error
		loadErr        error
		wantKind       etlerr.Kind
		wantTransforms int
		wantLoads      int
		wantIs         error
	}{
		{name: "structural extraction", extractErr: structural, wantKind: etlerr.KindExtractionStructural},
		{name: "extraction io", extractErr: missing, wantKind: etlerr.KindExtractionIO, wantIs: fs.ErrNotExist},
		{name: "transformation", transformErr: badCell, wantKind: etlerr.KindTransformation, wantTransforms: 1},
		{name: "load", loadErr: insertErr, wantKind: etlerr.KindLoad, wantTransforms: 1, wantLoads: 1, wantIs: insertErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := &fakeExtractor{tbl: table(2), err: tt.extractErr}
			if tt.extractErr != nil {
				e.tbl = nil
			}
			tr := &fakeTransformer{out: []records.AdRecord{{Age: 30}}, err: tt.transformErr}
			l := &fakeLoader{err: tt.loadErr}

			_, err := newPipeline(e, tr, l).Run(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, etlerr.KindOf(err))
			assert.Contains(t, err.Error(), tt.wantKind.Stage()+" failed")
			assert.Equal(t, 1, e.calls)
			assert.Equal(t, tt.wantTransforms, tr.calls)
			assert.Equal(t, tt.wantLoads, l.calls)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestSummary_Retention(t *testing.T) {
	t.Parallel()

	tests := []struct {
		extracted int
		loaded    int64
		want      float64
	}{
		{0, 0, 0},
		{5, 2, 40},
		{17, 9, 52.9},
		{3, 2, 66.7},
		{16, 1, 6.2},
		{16, 3, 18.8},
		{400, 400, 100},
	}
	for _, tt := range tests {
		got := Summary{Extracted: tt.extracted, Loaded: tt.loaded}.Retention()
		assert.Equal(t, tt.want, got, "%d/%d", tt.loaded, tt.extracted)
	}
}

func TestSummary_Print(t *testing.T) {
	t.Parallel()

	s := Summary{
		RunID:        "run-1",
		Extracted:    5,
		Loaded:       2,
		Dropped:      3,
		Validation:   builtin.ValidationStats{Input: 5, AgeOutOfRange: 2, SalaryNonPositive: 1, Output: 2},
		ExtraColumns: []string{"user_id"},
	}
	var buf bytes.Buffer
	require.NoError(t, s.Print(&buf))

	out := buf.String()
	assert.Contains(t, out, "ETL PIPELINE SUMMARY")
	assert.Contains(t, out, "Records extracted: 5\n")
	assert.Contains(t, out, "Records loaded: 2\n")
	assert.Contains(t, out, "Data quality: 40.0%\n")

	buf.Reset()
	require.NoError(t, Summary{Extracted: 16, Loaded: 1}.Print(&buf))
	assert.Contains(t, buf.String(), "Data quality: 6.2%\n")
	assert.Contains(t, out, "Records removed: 3 (duplicates=0 missing=0 age=2 salary=1 purchased=0)")
	assert.Contains(t, out, "Columns not persisted: user_id")
}

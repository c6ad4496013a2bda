// Package pipeline runs Extract, Transform and Load in order and reports a
// Summary. The first failing stage stops the run; later stages are not
// invoked.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"socialads/internal/etlerr"
	"socialads/internal/extractor"
	"socialads/internal/logging"
	"socialads/internal/metrics"
	"socialads/internal/records"
	"socialads/internal/transformer"
)

// Stage names used in logs, metrics and errors.
const (
	StageExtract   = "extract"
	StageTransform = "transform"
	StageLoad      = "load"
)

// Extractor produces the raw table.
type Extractor interface {
	Extract(ctx context.Context) (*records.Table, error)
}

// Transformer turns the raw table into records ready for loading.
type Transformer interface {
	Transform(ctx context.Context, t *records.Table) ([]records.AdRecord, transformer.Stats, error)
}

// Loader persists records and returns the number inserted.
type Loader interface {
	Load(ctx context.Context, recs []records.AdRecord) (int64, error)
}

// Pipeline wires the three stages together. Not safe for concurrent use.
type Pipeline struct {
	Job         string
	Extractor   Extractor
	Transformer Transformer
	Loader      Loader
	Log         *slog.Logger

	// NewRunID overrides run id generation in tests.
	NewRunID func() string
}

// Run executes one full pipeline run. Stage failures are returned as
// *etlerr.Error carrying the stage's kind; the Summary is only meaningful
// when err is nil.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	runID := p.runID()
	log := logging.OrDefault(p.Log).With("run_id", runID, "job", p.Job)
	start := time.Now()

	sum := Summary{RunID: runID, Job: p.Job}
	log.Info("pipeline started")

	var tbl *records.Table
	err := p.step(log, StageExtract, func() (err error) {
		tbl, err = p.Extractor.Extract(ctx)
		return err
	})
	if err != nil {
		return sum, err
	}
	if tbl != nil {
		sum.Source = tbl.Source
	}
	sum.Extracted = tbl.Len()
	metrics.RecordRow(p.Job, metrics.KindExtracted, int64(sum.Extracted))

	var out []records.AdRecord
	err = p.step(log, StageTransform, func() (err error) {
		var st transformer.Stats
		out, st, err = p.Transformer.Transform(ctx, tbl)
		sum.Validation = st.Validation
		sum.ExtraColumns = st.ExtraColumns
		return err
	})
	if err != nil {
		return sum, err
	}
	sum.Dropped = sum.Validation.Removed()
	recordDrops(p.Job, sum)

	err = p.step(log, StageLoad, func() (err error) {
		sum.Loaded, err = p.Loader.Load(ctx, out)
		return err
	})
	if err != nil {
		return sum, err
	}
	metrics.RecordRow(p.Job, metrics.KindLoaded, sum.Loaded)

	sum.Duration = time.Since(start)
	log.Info("pipeline completed",
		"extracted", sum.Extracted,
		"loaded", sum.Loaded,
		"retention_pct", sum.Retention(),
		"elapsed", sum.Duration.Truncate(time.Millisecond),
	)
	return sum, nil
}

// step times fn, reports it and classifies its error.
func (p *Pipeline) step(log *slog.Logger, stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(p.Job, stage, err, time.Since(start))
	if err == nil {
		return nil
	}
	err = classify(stage, err)
	log.Error("pipeline stage failed", "stage", stage, "kind", etlerr.KindOf(err).String(), "err", err)
	return err
}

func (p *Pipeline) runID() string {
	if p.NewRunID != nil {
		return p.NewRunID()
	}
	return uuid.NewString()
}

func classify(stage string, err error) error {
	switch stage {
	case StageExtract:
		var de *extractor.DataExtractionError
		if errors.As(err, &de) {
			return etlerr.New(etlerr.KindExtractionStructural, err)
		}
		return etlerr.New(etlerr.KindExtractionIO, err)
	case StageTransform:
		return etlerr.New(etlerr.KindTransformation, err)
	default:
		return etlerr.New(etlerr.KindLoad, err)
	}
}

func recordDrops(job string, s Summary) {
	v := s.Validation
	metrics.RecordRow(job, metrics.KindDropped, int64(s.Dropped))
	metrics.RecordRow(job, "duplicate", int64(v.Duplicates))
	metrics.RecordRow(job, "missing", int64(v.Missing))
	metrics.RecordRow(job, "age_range", int64(v.AgeOutOfRange))
	metrics.RecordRow(job, "salary_positive", int64(v.SalaryNonPositive))
	metrics.RecordRow(job, "purchased_flag", int64(v.PurchasedInvalid))
}

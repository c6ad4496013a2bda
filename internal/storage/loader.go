package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"socialads/internal/logging"
	"socialads/internal/records"
	"socialads/internal/schema"
)

// LoadError reports a failure while persisting records. Op is one of "open",
// "ensure schema" or "insert".
type LoadError struct {
	Table string
	Op    string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load into %s: %s: %v", e.Table, e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader persists AdRecords. Each Load acquires its own Repository, ensures
// the destination table exists, inserts every record in one transaction and
// releases the Repository on every exit path.
type Loader struct {
	Config Config
	// Open acquires the repository; nil means New.
	Open Factory
	Log  *slog.Logger
}

// NewLoader returns a Loader for cfg that opens repositories through the
// registered backends.
func NewLoader(cfg Config, log *slog.Logger) *Loader {
	return &Loader{Config: cfg, Log: log}
}

// Load writes recs and returns the number of rows inserted. On error nothing
// from this call is visible in the destination.
func (l *Loader) Load(ctx context.Context, recs []records.AdRecord) (int64, error) {
	log := logging.OrDefault(l.Log)
	def := schema.SocialAds(l.Config.Table)

	open := l.Open
	if open == nil {
		open = New
	}

	log.Info("loading", "rows", len(recs), "storage", l.Config.Kind, "table", def.FQN)
	start := time.Now()

	repo, err := open(ctx, l.Config)
	if err != nil {
		return 0, l.fail(log, &LoadError{Table: def.FQN, Op: "open", Err: err})
	}
	defer repo.Close()

	if err := EnsureTable(ctx, l.Config.Kind, repo, def); err != nil {
		return 0, l.fail(log, &LoadError{Table: def.FQN, Op: "ensure schema", Err: err})
	}

	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = schema.Row(r)
	}
	n, err := repo.CopyFrom(ctx, def.InsertColumns(), rows)
	if err != nil {
		return 0, l.fail(log, &LoadError{Table: def.FQN, Op: "insert", Err: err})
	}

	elapsed := time.Since(start)
	rps := float64(0)
	if elapsed > 0 {
		rps = float64(n) / elapsed.Seconds()
	}
	log.Info("loaded", "rows", n, "rps", int64(rps), "elapsed", elapsed.Truncate(time.Millisecond))
	return n, nil
}

func (l *Loader) fail(log *slog.Logger, err *LoadError) error {
	log.Error("load failed", "op", err.Op, "err", err.Err)
	return err
}

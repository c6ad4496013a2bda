// Package extractor reads the source CSV into an in-memory table.
package extractor

import (
	"context"
	"fmt"
	"log/slog"

	"socialads/internal/datasource"
	"socialads/internal/logging"
	csvparser "socialads/internal/parser/csv"
	"socialads/internal/records"
)

// Extractor reads one source per call to Extract. Not safe for concurrent use.
type Extractor struct {
	src    datasource.Source
	parser *csvparser.Parser
	log    *slog.Logger

	raw *records.Table
}

// New returns an Extractor for src. comma is the field delimiter (0 means ',').
func New(src datasource.Source, comma rune, log *slog.Logger) *Extractor {
	return &Extractor{
		src:    src,
		parser: csvparser.NewParser(csvparser.Options{Comma: comma}),
		log:    logging.OrDefault(log),
	}
}

// Extract reads and parses the whole source.
//
// A malformed source yields a *DataExtractionError naming the source. Any
// other failure (missing file, permission denied, network error) is returned
// as produced by the data source, so errors.Is(err, fs.ErrNotExist) and
// friends keep working.
func (e *Extractor) Extract(ctx context.Context) (*records.Table, error) {
	name := e.src.Name()
	e.log.Info("extracting data", "source", name)

	rc, err := e.src.Open(ctx)
	if err != nil {
		e.log.Error("unexpected error extracting data", "source", name, "err", err)
		return nil, err
	}
	defer rc.Close()

	res, err := e.parser.Parse(rc)
	if err != nil {
		if de := structural(name, err); de != nil {
			e.log.Error("corrupted or mis-shaped row", "source", name, "line", de.Line, "err", err)
			return nil, de
		}
		e.log.Error("unexpected error extracting data", "source", name, "err", err)
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	t := &records.Table{
		Source: name,
		Header: res.Header,
		Rows:   res.Rows,
		Lines:  res.Lines,
	}
	e.raw = t
	e.log.Info("extracted records", "source", name, "records", t.Len(), "columns", len(t.Header))
	return t, nil
}

// Raw returns the table produced by the last successful Extract, or nil.
func (e *Extractor) Raw() *records.Table { return e.raw }

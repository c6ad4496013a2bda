package extractor

import (
	"encoding/csv"
	"errors"
	"fmt"

	csvparser "socialads/internal/parser/csv"
)

// DataExtractionError reports a structurally corrupt source: a row whose
// field count differs from the header, broken quoting, invalid UTF-8, or a
// missing header. It is distinct from I/O failures, which Extract returns
// unchanged.
type DataExtractionError struct {
	// Path names the offending file (or URL / s3 URI).
	Path string
	// Line is the 1-based line of the problem, when known.
	Line int
	Err  error
}

func (e *DataExtractionError) Error() string {
	return fmt.Sprintf("failed to parse %s: malformed row detected: %v", e.Path, e.Err)
}

func (e *DataExtractionError) Unwrap() error { return e.Err }

// structural wraps err in a *DataExtractionError when it describes a
// malformed source and returns nil otherwise.
func structural(path string, err error) *DataExtractionError {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &DataExtractionError{Path: path, Line: pe.Line, Err: err}
	}
	var ee *csvparser.EncodingError
	if errors.As(err, &ee) {
		return &DataExtractionError{Path: path, Line: ee.Line, Err: err}
	}
	if errors.Is(err, csvparser.ErrNoHeader) {
		return &DataExtractionError{Path: path, Line: 1, Err: err}
	}
	return nil
}

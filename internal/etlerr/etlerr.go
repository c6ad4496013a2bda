// Package etlerr classifies pipeline failures into a closed set of kinds so
// the entry point can report which stage failed without inspecting
// backend-specific error types.
package etlerr

import (
	"errors"
	"fmt"
)

// Kind enumerates the ways a pipeline run can fail.
type Kind int

const (
	// KindUnknown is returned by KindOf for errors not produced by this package.
	KindUnknown Kind = iota
	// KindExtractionStructural: the source is not well-formed (ragged row,
	// bad quoting, invalid UTF-8, empty file).
	KindExtractionStructural
	// KindExtractionIO: the source could not be opened or read.
	KindExtractionIO
	// KindTransformation: validation or feature derivation failed unexpectedly.
	KindTransformation
	// KindLoad: schema creation or insertion failed; the transaction was
	// rolled back.
	KindLoad
)

func (k Kind) String() string {
	switch k {
	case KindExtractionStructural:
		return "extraction_structural"
	case KindExtractionIO:
		return "extraction_io"
	case KindTransformation:
		return "transformation"
	case KindLoad:
		return "load"
	default:
		return "unknown"
	}
}

// Stage is the pipeline stage an Error originated from.
func (k Kind) Stage() string {
	switch k {
	case KindExtractionStructural, KindExtractionIO:
		return "extract"
	case KindTransformation:
		return "transform"
	case KindLoad:
		return "load"
	default:
		return ""
	}
}

// Error is a classified pipeline failure. Err is preserved for errors.Is/As.
type Error struct {
	Kind Kind
	Err  error
}

// New wraps err with kind. A nil err yields nil.
func New(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", e.Kind.Stage(), e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the outermost *Error in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Package csv implements the strict CSV reader used by extraction. Unlike a
// lenient loader it never skips rows: the first structural problem (ragged
// row, stray quote, invalid UTF-8, missing header) aborts the parse.
package csv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNoHeader is returned when the input contains no header row.
var ErrNoHeader = errors.New("csv: no header row")

// Options configures the parser. The zero value parses comma-separated input.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs but not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Result is a fully parsed input.
type Result struct {
	Header []string
	Rows   [][]string
	// Lines holds the 1-based line where each row starts.
	Lines []int
}

// EncodingError reports input that is not valid UTF-8.
type EncodingError struct {
	Line   int // 1-based line of the first invalid byte
	Offset int // byte offset of the first invalid byte
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("csv: invalid UTF-8 at line %d (byte offset %d)", e.Line, e.Offset)
}

// Parse reads all of r. Read errors from r are returned unchanged. Structural
// problems are returned as *csv.ParseError, *EncodingError or ErrNoHeader.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := checkUTF8(data); err != nil {
		return nil, err
	}
	// Drop a leading UTF-8 BOM; the decoder passes everything else through.
	data, _, err = transform.Bytes(unicode.UTF8BOM.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("csv: decode: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	// 0 => every record must have as many fields as the header.
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, err
	}
	res := &Result{Header: StripHeaderBOM(header)}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		res.Rows = append(res.Rows, row)
		res.Lines = append(res.Lines, line)
	}
	return res, nil
}

// checkUTF8 returns an *EncodingError locating the first invalid byte.
func checkUTF8(data []byte) error {
	if utf8.Valid(data) {
		return nil
	}
	line := 1
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return &EncodingError{Line: line, Offset: i}
		}
		if r == '\n' {
			line++
		}
		i += size
	}
	return &EncodingError{Line: line, Offset: len(data)}
}

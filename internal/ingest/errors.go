package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHeader means no line in the scan window names both a latitude
	// and a longitude column.
	ErrNoHeader = errors.New("no latitude/longitude header found")

	// ErrUnsupportedFormat means the file extension has no reader.
	ErrUnsupportedFormat = errors.New("unsupported telemetry format")
)

// ParseError reports a telemetry file that could not be turned into a
// session. Other files in the same load are unaffected.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

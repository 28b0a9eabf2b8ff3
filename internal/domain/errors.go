package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyInput reports an upload that contained no data rows (zero bytes or
// a bare header). It is an input-level error, not a per-record one.
var ErrEmptyInput = errors.New("input contains no records")

// MissingFieldError reports a required column that was absent or blank in a
// raw record.
type MissingFieldError struct {
	Column string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required column %q is missing", e.Column)
}

// FieldFormatError reports a required column whose value could not be coerced
// to the expected numeric type.
type FieldFormatError struct {
	Column string
	Value  string
	Err    error
}

func (e *FieldFormatError) Error() string {
	return fmt.Sprintf("column %q: cannot parse %q: %v", e.Column, e.Value, e.Err)
}

func (e *FieldFormatError) Unwrap() error { return e.Err }

// EnrichmentError reports an ownership resolver failure for one record. The
// record is excluded from its batch; siblings are unaffected.
type EnrichmentError struct {
	Latitude  float64
	Longitude float64
	Err       error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("resolve ownership for (%f, %f): %v", e.Latitude, e.Longitude, e.Err)
}

func (e *EnrichmentError) Unwrap() error { return e.Err }

// SkipReason classifies a normalization failure for metrics and batch reports.
func SkipReason(err error) string {
	var missing *MissingFieldError
	var format *FieldFormatError
	var enrich *EnrichmentError
	switch {
	case errors.As(err, &missing):
		return "missing_field"
	case errors.As(err, &format):
		return "bad_format"
	case errors.As(err, &enrich):
		return "enrichment"
	default:
		return "other"
	}
}

package domain

import (
	"strconv"
	"strings"
)

// RawRecord is one tokenized row keyed by header column name. Column names
// are case-sensitive relative to the source file's header.
type RawRecord map[string]string

// String returns the named column, failing with MissingFieldError when the
// column is absent or blank.
func (r RawRecord) String(column string) (string, error) {
	v, ok := r[column]
	if !ok || strings.TrimSpace(v) == "" {
		return "", &MissingFieldError{Column: column}
	}
	return strings.TrimSpace(v), nil
}

// Float parses the named column as a float64.
func (r RawRecord) Float(column string) (float64, error) {
	s, err := r.String(column)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &FieldFormatError{Column: column, Value: s, Err: err}
	}
	return v, nil
}

// Int parses the named column as an int.
func (r RawRecord) Int(column string) (int, error) {
	s, err := r.String(column)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &FieldFormatError{Column: column, Value: s, Err: err}
	}
	return v, nil
}

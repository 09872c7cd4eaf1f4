package model

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by both pipelines. Callers match with errors.Is.
var (
	// ErrMissingRequiredColumn: an uploaded table lacks a column the pipeline needs.
	ErrMissingRequiredColumn = errors.New("missing required column")
	// ErrDataSourceUnavailable: the market-data source failed or returned an unexpected shape.
	ErrDataSourceUnavailable = errors.New("data source unavailable")
	// ErrEmptyResultSet marks a valid but empty result. It is never returned by the
	// pipelines themselves; consumers use it when they need a last element that does not exist.
	ErrEmptyResultSet = errors.New("empty result set")
	// ErrInvalidInput: rows that violate the input contract (bad dates, duplicates, non-numeric cells).
	ErrInvalidInput = errors.New("invalid input")
)

// MissingColumnError names the table and the column that could not be found.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s table: missing required column %q", e.Table, e.Column)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingRequiredColumn
}

// RowError reports a malformed cell. Line is 1-based and counts the header.
type RowError struct {
	Table  string
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s table line %d column %q: %v", e.Table, e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() []error {
	return []error{ErrInvalidInput, e.Err}
}

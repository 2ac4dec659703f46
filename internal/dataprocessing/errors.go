package dataprocessing

import (
	"errors"
	"fmt"
)

// Sentinel outcomes shared across pipeline stages.
var (
	// ErrRoleUnresolved marks a mandatory role (amount or date) that
	// could not be auto-classified. Callers either supply a fallback
	// column or skip the affected aggregation with a warning.
	ErrRoleUnresolved = errors.New("required role could not be resolved")

	// ErrEmptyResult marks a filter or aggregation step that yielded
	// zero rows. Downstream chart generation is skipped, never crashed.
	ErrEmptyResult = errors.New("no rows after filtering")
)

// UnsupportedFormatError is returned by the loader for a file extension
// outside the accepted set. The file is skipped; the batch continues.
type UnsupportedFormatError struct {
	Filename  string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q for file %s", e.Extension, e.Filename)
}

// ParseError wraps malformed content for a recognized format, carrying
// the offending file identity.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DuplicateColumnError reports two distinct original column names that
// collide after canonicalization. Collisions fail deterministically
// instead of silently dropping a column.
type DuplicateColumnError struct {
	Canonical string
	First     string
	Second    string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("columns %q and %q both canonicalize to %q", e.First, e.Second, e.Canonical)
}

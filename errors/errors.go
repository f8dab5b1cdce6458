// Package errors provides error handling for specref.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints
//
// Usage:
//
//	// Wrap with context
//	if err := decode(r); err != nil {
//	    return errors.Wrap(err, "failed to decode API reference")
//	}
//
//	// Classify with a sentinel, keeping the cause
//	return errors.Mark(err, errors.ErrMalformedDatabase)
//
//	// Check errors
//	if errors.Is(err, errors.ErrTimeout) {
//	    // tell the user the database is not loaded yet
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Sentinel errors for the reference registry.
// Use these with errors.Is(); wrap or Mark them to add context.
var (
	// ErrMalformedDatabase means the API reference document could not be
	// decoded into the expected shape. The previous built-in partition, if
	// any, stays authoritative.
	ErrMalformedDatabase = New("malformed API reference database")

	// ErrMalformedConfigEntry marks a single mnemonic or snippet template
	// line that does not match its grammar. Never aborts a rebuild.
	ErrMalformedConfigEntry = New("malformed configuration entry")

	// ErrSourceUnavailable indicates a query against a source identity that
	// has no partition yet. Passive queries report this as absence.
	ErrSourceUnavailable = New("reference source not available")

	// ErrTimeout indicates a bounded wait ran out of attempts
	ErrTimeout = New("operation timed out")

	// ErrInvalidRequest indicates a malformed request (unknown kind label, bad URI)
	ErrInvalidRequest = New("invalid request")
)

// IsMalformedDatabase checks if an error is or wraps ErrMalformedDatabase
func IsMalformedDatabase(err error) bool {
	return err != nil && Is(err, ErrMalformedDatabase)
}

// IsTimeout checks if an error is or wraps ErrTimeout
func IsTimeout(err error) bool {
	return err != nil && Is(err, ErrTimeout)
}

// IsSourceUnavailable checks if an error is or wraps ErrSourceUnavailable
func IsSourceUnavailable(err error) bool {
	return err != nil && Is(err, ErrSourceUnavailable)
}

// NewMalformedDatabaseError creates a malformed-database error with a formatted message
func NewMalformedDatabaseError(format string, args ...interface{}) error {
	return Wrap(ErrMalformedDatabase, Newf(format, args...).Error())
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}

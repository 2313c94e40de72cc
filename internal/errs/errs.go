// Package errs defines the small, closed error taxonomy shared across
// rocketindex's layers. Callers wrap one of these sentinels with fmt.Errorf("...: %w", err)
// at each layer boundary with plain sentinel-wrapped errors rather than a
// custom error type; this package only supplies the sentinel values for
// errors.Is checks.
package errs

import "errors"

// Each sentinel below is one of the handful of error categories calling
// code needs to branch on (exit codes, LSP diagnostic severity, retry behavior).
var (
	// IndexNotFound is returned when an operation expects an existing
	// .rocketindex/index.db and none exists.
	IndexNotFound = errors.New("index not found")

	// SchemaMismatch is returned when an on-disk index's schema_version
	// is newer than this binary understands.
	SchemaMismatch = errors.New("schema version mismatch")

	// Io wraps filesystem failures (permission denied, path missing) that
	// aren't better described by a more specific kind.
	Io = errors.New("i/o error")

	// Parse marks an extractor-level failure distinct from a syntax error
	// recorded in a ParseResult — e.g. the source couldn't be read as UTF-8.
	Parse = errors.New("parse error")

	// Resolution marks a failure in the name-resolution/spider layer, as
	// opposed to a definitions that legitimately does not resolve.
	Resolution = errors.New("resolution error")

	// External marks a failure surfaced by an external process rocketindex
	// shells out to (the configured type-extractor command, a VCS call).
	External = errors.New("external command error")
)

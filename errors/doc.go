// Package errors provides the error taxonomy of the build planner.
//
// AppError is the structured envelope (code, message, details, HTTP status)
// used at the CLI and HTTP boundaries. Fatal graph defects are reported as
// typed errors (DuplicateIdentityError, CircularDependencyError,
// AmbiguousAliasError) that carry the offending names and paths and convert
// to an AppError on demand.
package errors

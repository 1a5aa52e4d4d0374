package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Graph errors. These are fatal for a planning pass.
const (
	// ErrCodeDuplicateIdentity indicates two projects share a project identity.
	ErrCodeDuplicateIdentity ErrorCode = "DUPLICATE_IDENTITY"
	// ErrCodeCircularDependency indicates the dependency graph contains a cycle.
	ErrCodeCircularDependency ErrorCode = "CIRCULAR_DEPENDENCY"
	// ErrCodeAmbiguousAlias indicates an alias is claimed by more than one container.
	ErrCodeAmbiguousAlias ErrorCode = "AMBIGUOUS_ALIAS"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeInvalidDeclaration indicates a project or module declaration is malformed.
	ErrCodeInvalidDeclaration ErrorCode = "INVALID_DECLARATION"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Collaborator errors
const (
	// ErrCodeSourceFailed indicates an external declaration or change source failed.
	ErrCodeSourceFailed ErrorCode = "SOURCE_FAILED"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeSourceFailed: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Graph defects are never retryable: the planner is a pure function of its
// inputs, so the graph must be fixed first.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// IsFatalCode reports whether code aborts a planning pass.
func IsFatalCode(code ErrorCode) bool {
	switch code {
	case ErrCodeDuplicateIdentity, ErrCodeCircularDependency, ErrCodeAmbiguousAlias:
		return true
	}
	return false
}

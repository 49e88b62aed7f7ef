package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// EntityTypeUnknown indicates an unrecognized entity-type string in metadata
	EntityTypeUnknown ErrorCode = "ENTITY_TYPE_UNKNOWN"
	// EntityNotFound indicates the requested root entity is not in the graph
	EntityNotFound ErrorCode = "ENTITY_NOT_FOUND"
	// InvalidLimit indicates a non-positive maxDepth or maxPaths
	InvalidLimit ErrorCode = "INVALID_LIMIT"
	// DegeneratePath indicates a scoring request for an empty or zero-depth path
	DegeneratePath ErrorCode = "DEGENERATE_PATH"
	// RepoUnavailable indicates the metadata repository could not be reached
	RepoUnavailable ErrorCode = "REPO_UNAVAILABLE"
	// StoreCorrupt indicates the metadata store returned malformed rows
	StoreCorrupt ErrorCode = "STORE_CORRUPT"
	// ConfigInvalid indicates a malformed configuration file
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// Timeout indicates the repository fetch exceeded its deadline
	Timeout ErrorCode = "TIMEOUT"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// AnalysisError represents an analysis failure with a stable code, a message,
// and an optional wrapped cause.
type AnalysisError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

// New creates a new AnalysisError.
func New(code ErrorCode, message string) *AnalysisError {
	return &AnalysisError{Code: code, Message: message}
}

// Newf creates a new AnalysisError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AnalysisError {
	return &AnalysisError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new AnalysisError wrapping an underlying cause.
func Wrap(code ErrorCode, message string, cause error) *AnalysisError {
	return &AnalysisError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AnalysisError) Unwrap() error {
	return e.cause
}

// WithDetails adds structured details to the error
func (e *AnalysisError) WithDetails(details interface{}) *AnalysisError {
	e.Details = details
	return e
}

// CodeOf extracts the ErrorCode from err, walking the wrap chain.
// Returns InternalError when err carries no AnalysisError.
func CodeOf(err error) ErrorCode {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// hints maps error codes to operator-facing remediation hints.
var hints = map[ErrorCode]string{
	EntityTypeUnknown: "inspect the metadata extractor output; unknown entity kinds must be mapped before analysis",
	EntityNotFound:    "run `dbimpact init` or verify the entity id against the metadata store",
	InvalidLimit:      "maxDepth and maxPaths must be positive; set them explicitly in config or flags",
	RepoUnavailable:   "check the metadata store path and permissions",
	StoreCorrupt:      "re-import dependency rows into the metadata store",
	ConfigInvalid:     "validate .dbimpact/config.json against `dbimpact init` output",
	Timeout:           "raise the fetch timeout or reduce the row set",
}

// Hint returns a remediation hint for an error code, or "" if none exists.
func Hint(code ErrorCode) string {
	return hints[code]
}

// Package errors provides the error taxonomy for storage synchronization.
// It extends Go's standard error handling with string error codes, the role and
// path a failure relates to, and helpers for classifying failures returned by a
// sync session.
package errors

// ErrorCode represents a specific error condition raised while synchronizing.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Session errors.

	// CodeUsage indicates a session was used in a way its lifecycle does not allow,
	// such as running it a second time.
	CodeUsage ErrorCode = "USAGE_ERROR"

	// CodeInvalidArgument indicates a required argument was missing or malformed.
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// CodeCanceled indicates the caller canceled the session between files.
	CodeCanceled ErrorCode = "CANCELED"

	// Phase errors.

	// CodeEnumerationFailed indicates a container listing failed.
	CodeEnumerationFailed ErrorCode = "ENUMERATION_FAILED"

	// CodeTransferFailed indicates a single file could not be copied.
	CodeTransferFailed ErrorCode = "TRANSFER_FAILED"

	// Backend errors.

	// CodeSizeMismatch indicates a stream delivered more or fewer bytes than declared.
	CodeSizeMismatch ErrorCode = "SIZE_MISMATCH"

	// CodeNotFound indicates a requested file, object or bucket does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAccessDenied indicates the backend rejected the credentials in use.
	CodeAccessDenied ErrorCode = "ACCESS_DENIED"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)

package errors

import (
	"context"
	"errors"
	"fmt"
)

// Error is a sync failure with context about the phase and file it relates to.
// It wraps the underlying backend error so callers can still reach it with
// errors.Is and errors.As.
type Error struct {
	// Code classifies the failure.
	Code ErrorCode

	// Op is the operation that failed (e.g., "list", "transfer", "sync")
	Op string

	// Role is the container role involved, "source" or "destination" (if applicable)
	Role string

	// Path is the relative file path (if applicable)
	Path string

	// Err is the underlying error
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Op
	if e.Role != "" {
		msg += " " + e.Role
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err == nil {
		return fmt.Sprintf("storagesync: %s [%s]", msg, e.Code)
	}
	return fmt.Sprintf("storagesync: %s: %v", msg, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code. This lets callers
// write errors.Is(err, &Error{Code: CodeTransferFailed}).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Op == "" && t.Path == ""
}

// WithRole adds container role context to an existing error.
func (e *Error) WithRole(role string) *Error {
	e.Role = role
	return e
}

// WithPath adds file path context to an existing error.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// New creates a new Error with the given code, operation and underlying error.
func New(code ErrorCode, op string, err error) *Error {
	return &Error{
		Code: code,
		Op:   op,
		Err:  err,
	}
}

// NewUsageError reports a session that was run more than once.
func NewUsageError(op string) *Error {
	return New(CodeUsage, op, ErrSessionUsed)
}

// NewArgumentError reports a missing or invalid constructor argument.
func NewArgumentError(op, msg string) *Error {
	return New(CodeInvalidArgument, op, fmt.Errorf("%w: %s", ErrMissingContainer, msg))
}

// NewEnumerationError reports a failed container listing.
func NewEnumerationError(role string, err error) *Error {
	return New(CodeEnumerationFailed, "list", err).WithRole(role)
}

// NewTransferError reports a failed copy of a single file.
func NewTransferError(path string, err error) *Error {
	return New(CodeTransferFailed, "transfer", err).WithPath(path)
}

// NewCanceledError reports a session stopped by its context.
func NewCanceledError(path string, err error) *Error {
	return New(CodeCanceled, "sync", err).WithPath(path)
}

// Sentinel errors for common failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrSessionUsed indicates Sync was invoked on a session that already ran
	ErrSessionUsed = errors.New("storagesync: sync can be invoked only once")

	// ErrMissingContainer indicates a required container was not supplied
	ErrMissingContainer = errors.New("storagesync: container is required")

	// ErrSizeMismatch indicates a stream was shorter or longer than its declared size
	ErrSizeMismatch = errors.New("storagesync: stream size does not match declared size")

	// ErrNotFound indicates the requested file or object does not exist
	ErrNotFound = errors.New("storagesync: not found")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("storagesync: access denied")
)

// CodeOf returns the code of the first *Error in err's chain. Sentinels map to
// their natural code; anything else is CodeUnknown.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	switch {
	case errors.Is(err, ErrSessionUsed):
		return CodeUsage
	case errors.Is(err, ErrMissingContainer):
		return CodeInvalidArgument
	case errors.Is(err, ErrSizeMismatch):
		return CodeSizeMismatch
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAccessDenied):
		return CodeAccessDenied
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled
	}
	return CodeUnknown
}

// IsUsage checks if an error reports a repeated Sync invocation.
func IsUsage(err error) bool {
	return errors.Is(err, ErrSessionUsed)
}

// IsArgument checks if an error reports a missing constructor argument.
func IsArgument(err error) bool {
	return errors.Is(err, ErrMissingContainer)
}

// IsEnumeration checks if an error reports a failed container listing.
func IsEnumeration(err error) bool {
	return CodeOf(err) == CodeEnumerationFailed
}

// IsTransfer checks if an error reports a failed file transfer.
func IsTransfer(err error) bool {
	return CodeOf(err) == CodeTransferFailed
}

// IsCanceled checks if an error reports a session stopped by its context.
func IsCanceled(err error) bool {
	return CodeOf(err) == CodeCanceled
}

// IsNotFound checks if an error indicates that a file or object was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsSizeMismatch checks if an error indicates a stream length mismatch.
func IsSizeMismatch(err error) bool {
	return errors.Is(err, ErrSizeMismatch)
}

// IsAccessDenied checks if an error indicates access was denied.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

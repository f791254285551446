package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "transfer",
			err:  NewTransferError("dir/a.txt", cause),
			want: "storagesync: transfer dir/a.txt: connection reset",
		},
		{
			name: "enumeration",
			err:  NewEnumerationError("source", cause),
			want: "storagesync: list source: connection reset",
		},
		{
			name: "no cause",
			err:  &Error{Code: CodeUnknown, Op: "sync"},
			want: "storagesync: sync [UNKNOWN]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorIsByCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewTransferError("a.txt", ErrNotFound))

	assert.ErrorIs(t, err, &Error{Code: CodeTransferFailed})
	assert.NotErrorIs(t, err, &Error{Code: CodeEnumerationFailed})
	assert.ErrorIs(t, err, ErrNotFound, "underlying cause stays reachable")
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		is   func(error) bool
	}{
		{"usage", NewUsageError("sync"), CodeUsage, IsUsage},
		{"argument", NewArgumentError("new session", "source is nil"), CodeInvalidArgument, IsArgument},
		{"enumeration", NewEnumerationError("destination", errors.New("x")), CodeEnumerationFailed, IsEnumeration},
		{"transfer", NewTransferError("a", errors.New("x")), CodeTransferFailed, IsTransfer},
		{"canceled", NewCanceledError("a", context.Canceled), CodeCanceled, IsCanceled},
		{"size mismatch sentinel", fmt.Errorf("upload: %w", ErrSizeMismatch), CodeSizeMismatch, IsSizeMismatch},
		{"not found sentinel", fmt.Errorf("open: %w", ErrNotFound), CodeNotFound, IsNotFound},
		{"access denied sentinel", fmt.Errorf("get: %w", ErrAccessDenied), CodeAccessDenied, IsAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, CodeOf(tt.err))
			assert.True(t, tt.is(tt.err))
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))
	assert.Equal(t, CodeAccessDenied, CodeOf(fmt.Errorf("put: %w", ErrAccessDenied)))
	assert.Equal(t, CodeCanceled, CodeOf(context.DeadlineExceeded))
	// The outermost structured error decides.
	assert.Equal(t, CodeTransferFailed, CodeOf(NewTransferError("a", ErrSizeMismatch)))
	assert.True(t, IsSizeMismatch(NewTransferError("a", ErrSizeMismatch)))
}

func TestWithContext(t *testing.T) {
	err := New(CodeUnknown, "list", errors.New("x")).WithRole("source").WithPath("p")
	assert.Equal(t, "source", err.Role)
	assert.Equal(t, "p", err.Path)
}

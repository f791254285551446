package storagesync

import (
	"fmt"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/internal/reconcile"
)

// ActionKind is the outcome recorded for one source file.
type ActionKind string

const (
	// ActionSkip indicates the file was not transferred
	ActionSkip ActionKind = "skip"

	// ActionCopy indicates the file was transferred successfully
	ActionCopy ActionKind = "copy"

	// ActionError indicates the transfer was attempted and failed
	ActionError ActionKind = "error"
)

// Reason explains why a file was skipped or copied.
type Reason = reconcile.Reason

// Decision reasons.
const (
	ReasonSkipName    = reconcile.ReasonSkipName
	ReasonExcluded    = reconcile.ReasonExcluded
	ReasonUpToDate    = reconcile.ReasonUpToDate
	ReasonMissing     = reconcile.ReasonMissing
	ReasonSizeChanged = reconcile.ReasonSizeChanged
	ReasonNewer       = reconcile.ReasonNewer
)

// Action is the log entry for one source file.
type Action struct {
	// Kind is the outcome
	Kind ActionKind

	// Path is the relative path of the source file
	Path string

	// Reason is the decision that led to this outcome
	Reason Reason

	// Bytes is the number of bytes read from the source (copy and error only)
	Bytes int64

	// Err is the transfer failure (error only)
	Err error
}

// String implements fmt.Stringer.
func (a Action) String() string {
	if a.Kind == ActionError {
		return fmt.Sprintf("%s %s: %v", a.Kind, a.Path, a.Err)
	}
	return fmt.Sprintf("%s %s (%s)", a.Kind, a.Path, a.Reason)
}

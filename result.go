package storagesync

import (
	"time"
)

// Status summarizes a run that returned no error.
type Status string

const (
	// StatusComplete indicates every file was skipped or copied
	StatusComplete Status = "complete"

	// StatusPartial indicates at least one transfer failed and was recorded
	StatusPartial Status = "partial"
)

// Result contains the outcome of a run.
type Result struct {
	// SessionID identifies the session in logs
	SessionID string

	// Actions is the ordered action log, one entry per processed source file
	Actions []Action

	// Copied is the number of copy actions
	Copied int

	// Skipped is the number of skip actions
	Skipped int

	// Failed is the number of error actions
	Failed int

	// BytesCopied is the total bytes of successfully copied files
	BytesCopied int64

	// Duration is how long the run took
	Duration time.Duration
}

// add appends an action and updates the counters.
func (r *Result) add(a Action) {
	r.Actions = append(r.Actions, a)
	switch a.Kind {
	case ActionSkip:
		r.Skipped++
	case ActionCopy:
		r.Copied++
		r.BytesCopied += a.Bytes
	case ActionError:
		r.Failed++
	}
}

// Status reports whether any recorded transfer failed.
func (r *Result) Status() Status {
	if r.Failed > 0 {
		return StatusPartial
	}
	return StatusComplete
}

// Errors returns the error actions in log order.
func (r *Result) Errors() []Action {
	var out []Action
	for _, a := range r.Actions {
		if a.Kind == ActionError {
			out = append(out, a)
		}
	}
	return out
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync"
)

// Exit codes for the storagesync command.
const (
	ExitSuccess      = 0 // All files copied or skipped
	ExitFailure      = 1 // Sync failed (enumeration, stop-on-error, canceled)
	ExitCommandError = 2 // Invalid arguments, flags, config or locations
	ExitPartial      = 3 // Sync finished but some transfers failed
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes run reports as text or JSON.
type OutputFormatter struct {
	JSON   bool
	Writer io.Writer
}

type actionReport struct {
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	Reason string `json:"reason,omitempty"`
	Bytes  int64  `json:"bytes,omitempty"`
	Error  string `json:"error,omitempty"`
}

type resultReport struct {
	Session     string         `json:"session"`
	Status      string         `json:"status"`
	Copied      int            `json:"copied"`
	Skipped     int            `json:"skipped"`
	Failed      int            `json:"failed"`
	BytesCopied int64          `json:"bytes_copied"`
	Duration    string         `json:"duration"`
	Actions     []actionReport `json:"actions"`
}

type planReport struct {
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Size   int64  `json:"size"`
}

// Result writes the outcome of a sync. failed marks a run that returned an
// error, whose status is then reported as "failed".
func (f *OutputFormatter) Result(res *storagesync.Result, failed bool) error {
	status := string(res.Status())
	if failed {
		status = "failed"
	}

	if f.JSON {
		report := resultReport{
			Session:     res.SessionID,
			Status:      status,
			Copied:      res.Copied,
			Skipped:     res.Skipped,
			Failed:      res.Failed,
			BytesCopied: res.BytesCopied,
			Duration:    res.Duration.String(),
			Actions:     make([]actionReport, 0, len(res.Actions)),
		}
		for _, a := range res.Actions {
			ar := actionReport{Kind: string(a.Kind), Path: a.Path, Reason: string(a.Reason), Bytes: a.Bytes}
			if a.Err != nil {
				ar.Error = a.Err.Error()
			}
			report.Actions = append(report.Actions, ar)
		}
		return json.NewEncoder(f.Writer).Encode(report)
	}

	for _, a := range res.Actions {
		var err error
		switch a.Kind {
		case storagesync.ActionCopy:
			_, err = fmt.Fprintf(f.Writer, "%-5s %s (%s, %s)\n", a.Kind, a.Path, a.Reason, humanize.IBytes(uint64(a.Bytes)))
		case storagesync.ActionError:
			_, err = fmt.Fprintf(f.Writer, "%-5s %s: %v\n", a.Kind, a.Path, a.Err)
		default:
			_, err = fmt.Fprintf(f.Writer, "%-5s %s (%s)\n", a.Kind, a.Path, a.Reason)
		}
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(f.Writer, "%s: %d copied (%s), %d skipped, %d failed in %s\n",
		status, res.Copied, humanize.IBytes(uint64(res.BytesCopied)), res.Skipped, res.Failed,
		res.Duration.Round(time.Millisecond))
	return err
}

// Plan writes the decisions of a dry run.
func (f *OutputFormatter) Plan(planned []storagesync.PlannedAction) error {
	reports := make([]planReport, 0, len(planned))
	var copies int
	var bytes int64
	for _, p := range planned {
		kind := storagesync.ActionSkip
		if p.Copy {
			kind = storagesync.ActionCopy
			copies++
			bytes += p.Record.Size
		}
		reports = append(reports, planReport{
			Kind:   string(kind),
			Path:   p.Record.Path,
			Reason: string(p.Reason),
			Size:   p.Record.Size,
		})
	}

	if f.JSON {
		return json.NewEncoder(f.Writer).Encode(reports)
	}

	for _, r := range reports {
		if _, err := fmt.Fprintf(f.Writer, "%-5s %s (%s)\n", r.Kind, r.Path, r.Reason); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(f.Writer, "dry run: %d to copy (%s), %d to skip\n",
		copies, humanize.IBytes(uint64(bytes)), len(reports)-copies)
	return err
}

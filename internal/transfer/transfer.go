package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
	syncerrors "github.com/input-output-hk/catalyst-forge-libs/storagesync/errors"
)

// DefaultMilestoneInterval is the number of bytes between progress milestones.
const DefaultMilestoneInterval int64 = 10 * 1024 * 1024

// Milestone is fired once per crossed interval boundary.
type Milestone struct {
	// Number is the 1-based milestone counter
	Number int

	// Bytes is the boundary crossed, Number times the interval
	Bytes int64
}

// MilestoneFunc receives milestones in increasing order.
type MilestoneFunc func(Milestone)

// Option configures an Executor.
type Option func(*Executor)

// WithMilestoneInterval sets the milestone interval in bytes. Values below
// one are ignored.
func WithMilestoneInterval(n int64) Option {
	return func(e *Executor) {
		if n > 0 {
			e.interval = n
		}
	}
}

// WithLogger sets the logger used for transfer diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Executor copies files between containers one at a time.
type Executor struct {
	interval int64
	logger   *slog.Logger
}

// New creates an executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		interval: DefaultMilestoneInterval,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Interval returns the configured milestone interval.
func (e *Executor) Interval() int64 {
	return e.interval
}

// Transfer copies record from src to dst, declaring record.Size to the
// destination. It returns the number of bytes read from the source. Any
// failure is returned as a transfer error for record.Path; a failed read is
// reported even if the destination swallowed it.
func (e *Executor) Transfer(
	ctx context.Context,
	src, dst container.Container,
	record container.FileRecord,
	onMilestone MilestoneFunc,
) (int64, error) {
	if record.Size < 0 {
		return 0, syncerrors.NewTransferError(record.Path,
			fmt.Errorf("%w: negative size %d", syncerrors.ErrSizeMismatch, record.Size))
	}

	rc, err := src.OpenReader(ctx, record.Path)
	if err != nil {
		return 0, syncerrors.NewTransferError(record.Path, fmt.Errorf("open source: %w", err))
	}
	defer rc.Close()

	pr := &progressReader{
		reader:      rc,
		interval:    e.interval,
		onMilestone: onMilestone,
	}

	e.logger.Debug("transfer started",
		"path", record.Path,
		"size", humanize.IBytes(uint64(record.Size)))

	uploadErr := dst.UploadFile(ctx, record.Path, pr, record.Size)

	if pr.err != nil {
		return pr.bytesRead, syncerrors.NewTransferError(record.Path, fmt.Errorf("read source: %w", pr.err))
	}
	if uploadErr != nil {
		return pr.bytesRead, syncerrors.NewTransferError(record.Path, fmt.Errorf("upload destination: %w", uploadErr))
	}

	e.logger.Debug("transfer finished",
		"path", record.Path,
		"bytes", pr.bytesRead,
		"milestones", pr.fired)

	return pr.bytesRead, nil
}

// progressReader wraps an io.Reader to count bytes and fire milestones
type progressReader struct {
	reader      io.Reader
	interval    int64
	onMilestone MilestoneFunc
	bytesRead   int64
	fired       int
	err         error
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.bytesRead += int64(n)
		for next := int64(pr.fired+1) * pr.interval; next <= pr.bytesRead; next += pr.interval {
			pr.fired++
			if pr.onMilestone != nil {
				pr.onMilestone(Milestone{Number: pr.fired, Bytes: next})
			}
		}
	}
	if err != nil && !errors.Is(err, io.EOF) && pr.err == nil {
		pr.err = err
	}
	//nolint:wrapcheck // io.Reader interface contract - error comes from underlying reader
	return n, err
}

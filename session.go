package storagesync

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
	syncerrors "github.com/input-output-hk/catalyst-forge-libs/storagesync/errors"
	"github.com/input-output-hk/catalyst-forge-libs/storagesync/internal/reconcile"
	"github.com/input-output-hk/catalyst-forge-libs/storagesync/internal/transfer"
)

// Session synchronizes a source container into a destination container.
// A Session is single-use: Sync runs at most once.
type Session struct {
	id          string
	source      container.Container
	destination container.Container
	opts        options
	reconciler  *reconcile.Reconciler
	executor    *transfer.Executor
	logger      *slog.Logger
	used        atomic.Bool
}

// New creates a session copying from source to destination.
//
// Errors:
//   - ErrMissingContainer (argument error): source or destination is nil
//   - Invalid argument error: an exclude pattern is malformed
func New(source, destination container.Container, opts ...Option) (*Session, error) {
	if source == nil {
		return nil, syncerrors.NewArgumentError("new session", "source container is required")
	}
	if destination == nil {
		return nil, syncerrors.NewArgumentError("new session", "destination container is required")
	}

	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	reconciler, err := o.newReconciler("new session")
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := o.logger.With("session", id)

	return &Session{
		id:          id,
		source:      source,
		destination: destination,
		opts:        o,
		reconciler:  reconciler,
		executor: transfer.New(
			transfer.WithMilestoneInterval(o.milestoneInterval),
			transfer.WithLogger(logger),
		),
		logger: logger,
	}, nil
}

// ID returns the session identifier attached to logs and results.
func (s *Session) ID() string {
	return s.id
}

// Sync runs the session.
//
// The returned Result holds every action recorded before the run ended, even
// when an error is returned. A nil error with Result.Status() == StatusPartial
// means some transfers failed and were recorded as error actions.
//
// Errors:
//   - ErrSessionUsed (usage error): Sync was already called; Result is nil and no events fire
//   - Enumeration error: listing a container failed; no transfer was attempted
//   - Transfer error: a transfer failed with WithStopOnError(true)
//   - Canceled error: ctx was canceled between or during transfers
func (s *Session) Sync(ctx context.Context) (*Result, error) {
	if !s.used.CompareAndSwap(false, true) {
		return nil, syncerrors.NewUsageError("sync")
	}

	start := time.Now()
	result := &Result{SessionID: s.id}

	s.logger.Info("sync started",
		"stop_on_error", s.opts.stopOnError,
		"skip_names", len(s.opts.skipFileNames),
		"exclude_patterns", len(s.opts.excludePatterns),
		"milestone_interval", humanize.IBytes(uint64(s.executor.Interval())))

	err := s.run(ctx, result)
	result.Duration = time.Since(start)

	if err != nil {
		s.logger.Error("sync failed",
			"error", err,
			"processed", len(result.Actions),
			"duration", result.Duration)
	} else {
		s.logger.Info("sync finished",
			"status", result.Status(),
			"copied", result.Copied,
			"skipped", result.Skipped,
			"failed", result.Failed,
			"bytes", humanize.IBytes(uint64(result.BytesCopied)),
			"duration", result.Duration)
	}

	s.emit(SyncDone{Actions: result.Actions, Err: err})
	return result, err
}

// run executes the three phases, appending to result as files are processed.
func (s *Session) run(ctx context.Context, result *Result) error {
	// Phase 1 and 2: enumeration
	sourceFiles, err := s.enumerate(ctx, container.RoleSource, s.source, s.opts.sourceFiles, s.opts.sourceSet)
	if err != nil {
		return err
	}
	destinationFiles, err := s.enumerate(ctx, container.RoleDestination, s.destination,
		s.opts.destinationFiles, s.opts.destinationSet)
	if err != nil {
		return err
	}

	// Phase 3: reconcile and transfer, one file at a time
	index := reconcile.NewIndex(destinationFiles)
	for _, record := range sourceFiles {
		if err := ctx.Err(); err != nil {
			return syncerrors.NewCanceledError(record.Path, err)
		}

		s.emit(FileVisited{Record: record})

		decision := s.reconciler.Decide(record, index)
		if !decision.Copy {
			s.record(result, Action{Kind: ActionSkip, Path: record.Path, Reason: decision.Reason})
			runtime.Gosched()
			continue
		}

		if err := s.copyFile(ctx, result, record, decision.Reason); err != nil {
			return err
		}
	}

	return nil
}

// enumerate returns the supplied listing or lists c, emitting enumeration events.
func (s *Session) enumerate(
	ctx context.Context,
	role container.Role,
	c container.Container,
	supplied []container.FileRecord,
	isSupplied bool,
) ([]container.FileRecord, error) {
	if isSupplied {
		s.logger.Debug("using supplied listing", "role", role, "count", len(supplied))
		return supplied, nil
	}

	s.emit(EnumerationStarted{Role: role})
	files, err := c.ListFiles(ctx)
	if err != nil {
		return nil, syncerrors.NewEnumerationError(role.String(), err)
	}
	s.emit(EnumerationDone{Role: role, Count: len(files)})

	s.logger.Debug("listed container", "role", role, "count", len(files))
	return files, nil
}

// copyFile transfers one record. It returns an error only when the session
// must stop.
func (s *Session) copyFile(ctx context.Context, result *Result, record container.FileRecord, reason Reason) error {
	onMilestone := func(m transfer.Milestone) {
		s.emit(TransferProgress{
			Path:      record.Path,
			Milestone: m.Number,
			Bytes:     m.Bytes,
			Total:     record.Size,
		})
	}

	n, err := s.executor.Transfer(ctx, s.source, s.destination, record, onMilestone)
	if err == nil {
		s.logger.Info("copied file", "path", record.Path, "reason", reason, "bytes", n)
		s.record(result, Action{Kind: ActionCopy, Path: record.Path, Reason: reason, Bytes: n})
		return nil
	}

	s.logger.Warn("transfer failed", "path", record.Path, "error", err)

	// An aborting failure is not an action; it becomes the session error.
	if s.opts.stopOnError && ctx.Err() == nil {
		return err
	}

	s.record(result, Action{Kind: ActionError, Path: record.Path, Reason: reason, Bytes: n, Err: err})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return syncerrors.NewCanceledError(record.Path, ctxErr)
	}
	return nil
}

// record appends a to the log and emits FileDone.
func (s *Session) record(result *Result, a Action) {
	result.add(a)
	s.emit(FileDone{Action: a})
}

func (s *Session) emit(e Event) {
	for _, l := range s.opts.listeners {
		l.OnEvent(e)
	}
}

package storagesync

import (
	"log/slog"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
	syncerrors "github.com/input-output-hk/catalyst-forge-libs/storagesync/errors"
	"github.com/input-output-hk/catalyst-forge-libs/storagesync/internal/reconcile"
)

// options holds the session configuration.
type options struct {
	sourceFiles      []container.FileRecord
	sourceSet        bool
	destinationFiles []container.FileRecord
	destinationSet   bool

	stopOnError       bool
	skipFileNames     []string
	excludePatterns   []string
	logger            *slog.Logger
	listeners         []Listener
	milestoneInterval int64
}

// Option configures a Session.
type Option func(*options)

// WithSourceFiles supplies the source listing up front. The source container
// is then never listed and no enumeration events are emitted for it. An empty
// slice counts as a supplied listing.
func WithSourceFiles(files []container.FileRecord) Option {
	return func(o *options) {
		o.sourceFiles = files
		o.sourceSet = true
	}
}

// WithDestinationFiles supplies the destination listing up front.
func WithDestinationFiles(files []container.FileRecord) Option {
	return func(o *options) {
		o.destinationFiles = files
		o.destinationSet = true
	}
}

// WithStopOnError makes the first transfer failure abort the session.
// By default failures are recorded and the session continues.
func WithStopOnError(stop bool) Option {
	return func(o *options) {
		o.stopOnError = stop
	}
}

// WithSkipFileNames excludes files whose base name matches one of names.
// Can be called multiple times to accumulate names.
func WithSkipFileNames(names ...string) Option {
	return func(o *options) {
		o.skipFileNames = append(o.skipFileNames, names...)
	}
}

// WithExcludePatterns skips files whose relative path matches one of the
// doublestar patterns, e.g. "**/*.tmp". Can be called multiple times.
// An invalid pattern makes New and Plan fail.
func WithExcludePatterns(patterns ...string) Option {
	return func(o *options) {
		o.excludePatterns = append(o.excludePatterns, patterns...)
	}
}

// WithLogger sets the logger. Sessions are silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithListener registers an event listener. Can be called multiple times;
// listeners are notified in registration order.
func WithListener(l Listener) Option {
	return func(o *options) {
		if l != nil {
			o.listeners = append(o.listeners, l)
		}
	}
}

// WithMilestoneInterval overrides the 10 MiB distance between progress events.
func WithMilestoneInterval(bytes int64) Option {
	return func(o *options) {
		o.milestoneInterval = bytes
	}
}

// newReconciler builds the reconciler for the skip names and exclude patterns.
func (o *options) newReconciler(op string) (*reconcile.Reconciler, error) {
	r := reconcile.New(o.skipFileNames...)
	if err := r.Exclude(o.excludePatterns...); err != nil {
		return nil, syncerrors.New(syncerrors.CodeInvalidArgument, op, err)
	}
	return r, nil
}

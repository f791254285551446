package storagesync

import (
	"context"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
	syncerrors "github.com/input-output-hk/catalyst-forge-libs/storagesync/errors"
)

// PlannedAction is the decision a session would take for one source file.
type PlannedAction struct {
	Record container.FileRecord
	Copy   bool
	Reason Reason
}

// Plan lists both containers and returns the decision for every source file
// in listing order without transferring anything. It honors
// WithSourceFiles, WithDestinationFiles, WithSkipFileNames and
// WithExcludePatterns; other options are ignored.
func Plan(ctx context.Context, source, destination container.Container, opts ...Option) ([]PlannedAction, error) {
	if source == nil {
		return nil, syncerrors.NewArgumentError("plan", "source container is required")
	}
	if destination == nil {
		return nil, syncerrors.NewArgumentError("plan", "destination container is required")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	reconciler, err := o.newReconciler("plan")
	if err != nil {
		return nil, err
	}

	src := o.sourceFiles
	if !o.sourceSet {
		files, err := source.ListFiles(ctx)
		if err != nil {
			return nil, syncerrors.NewEnumerationError(container.RoleSource.String(), err)
		}
		src = files
	}

	dst := o.destinationFiles
	if !o.destinationSet {
		files, err := destination.ListFiles(ctx)
		if err != nil {
			return nil, syncerrors.NewEnumerationError(container.RoleDestination.String(), err)
		}
		dst = files
	}

	planned := reconciler.Plan(src, dst)
	out := make([]PlannedAction, len(planned))
	for i, p := range planned {
		out[i] = PlannedAction{
			Record: p.Record,
			Copy:   p.Decision.Copy,
			Reason: p.Decision.Reason,
		}
	}
	return out, nil
}

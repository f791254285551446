package cli

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync"
	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
	syncerrors "github.com/input-output-hk/catalyst-forge-libs/storagesync/errors"
)

func runSync(cmd *cobra.Command, cfg Config, sourceArg, destinationArg string) error {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	logger := NewLogger(cmd.ErrOrStderr(), level)
	ctx := cmd.Context()

	srcLoc, err := ParseLocation(sourceArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "source", err)
	}
	dstLoc, err := ParseLocation(destinationArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "destination", err)
	}

	source, err := Open(ctx, srcLoc, container.RoleSource, cfg.Backends, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "open source", err)
	}
	destination, err := Open(ctx, dstLoc, container.RoleDestination, cfg.Backends, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "open destination", err)
	}

	out := &OutputFormatter{JSON: cfg.JSON, Writer: cmd.OutOrStdout()}
	opts := []storagesync.Option{
		storagesync.WithSkipFileNames(cfg.SkipNames...),
		storagesync.WithExcludePatterns(cfg.Exclude...),
	}

	if cfg.DryRun {
		planned, err := storagesync.Plan(ctx, source, destination, opts...)
		if err != nil {
			if syncerrors.CodeOf(err) == syncerrors.CodeInvalidArgument {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			return WrapExitError(ExitFailure, "plan failed", err)
		}
		return out.Plan(planned)
	}

	opts = append(opts,
		storagesync.WithStopOnError(cfg.StopOnError),
		storagesync.WithLogger(logger),
		storagesync.WithListener(progressLogger(logger)),
	)

	session, err := storagesync.New(source, destination, opts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "create session", err)
	}

	logger.Info("sync starting", "source", srcLoc.String(), "destination", dstLoc.String(), "session", session.ID())
	res, syncErr := session.Sync(ctx)
	if res != nil {
		if err := out.Result(res, syncErr != nil); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	if syncErr != nil {
		return WrapExitError(ExitFailure, "sync failed", syncErr)
	}
	if res.Status() == storagesync.StatusPartial {
		return NewExitError(ExitPartial, fmt.Sprintf("%d of %d files failed", res.Failed, len(res.Actions)))
	}
	return nil
}

// progressLogger reports transfer milestones of large files.
func progressLogger(logger *slog.Logger) storagesync.Listener {
	return storagesync.ListenerFunc(func(e storagesync.Event) {
		if p, ok := e.(storagesync.TransferProgress); ok {
			logger.Info("transfer progress",
				"path", p.Path,
				"transferred", humanize.IBytes(uint64(p.Bytes)),
				"total", humanize.IBytes(uint64(p.Total)))
		}
	})
}

// Package storagesync performs one-shot, one-way synchronization between two
// storage containers.
//
// A Session copies every source file that is missing at the destination,
// differs in size, or is strictly newer, and skips everything else. Files
// that exist only at the destination are left alone. Sessions run in three
// phases:
//
//  1. Enumerate the source container
//  2. Enumerate the destination container
//  3. Reconcile each source file and transfer the ones that need copying
//
// Files are processed strictly one at a time in source listing order, so the
// action log and the event stream are deterministic. Each Session can be run
// exactly once.
//
// Basic usage:
//
//	src := billy.NewOSFS("/data/photos")
//	dst, err := s3.New(ctx, "backup-bucket", s3.WithPrefix("photos/"))
//	if err != nil {
//	    return err
//	}
//
//	session, err := storagesync.New(src, dst,
//	    storagesync.WithSkipFileNames(".DS_Store", "Thumbs.db"),
//	    storagesync.WithExcludePatterns("**/*.tmp"),
//	    storagesync.WithLogger(slog.Default()),
//	)
//	if err != nil {
//	    return err
//	}
//
//	result, err := session.Sync(ctx)
//	if err != nil {
//	    return fmt.Errorf("sync failed: %w", err)
//	}
//	fmt.Printf("copied %d, skipped %d, failed %d\n",
//	    result.Copied, result.Skipped, result.Failed)
//
// Observers register with WithListener and receive every lifecycle Event
// synchronously on the session goroutine. SyncDone is always the final event.
//
// Comparison uses only size and modification time. A file whose content
// changed without its size changing or its timestamp advancing is skipped.
package storagesync

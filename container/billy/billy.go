// Package billy implements container.Container on top of go-billy
// filesystems, covering local directories and in-memory trees.
package billy

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
	syncerrors "github.com/input-output-hk/catalyst-forge-libs/storagesync/errors"
)

// tempPrefix marks in-flight uploads. Files with this prefix are never listed.
const tempPrefix = ".storagesync-"

// Container implements container.Container using go-billy.
type Container struct {
	fs billy.Filesystem
}

var _ container.Container = (*Container)(nil)

// NewFS creates a Container over the given go-billy filesystem. Paths are
// relative to the filesystem root.
func NewFS(fsys billy.Filesystem) *Container {
	return &Container{
		fs: fsys,
	}
}

// NewInMemoryFS creates a Container over a new in-memory filesystem.
func NewInMemoryFS() *Container {
	return &Container{
		fs: memfs.New(),
	}
}

// NewOSFS creates a Container rooted at the given directory.
func NewOSFS(dir string) *Container {
	return &Container{
		fs: osfs.New(dir),
	}
}

// Raw returns the underlying go-billy filesystem.
//
//nolint:ireturn // returning interface here is intentional to expose the adapter target.
func (c *Container) Raw() billy.Filesystem {
	return c.fs
}

// ListFiles walks the filesystem and returns every regular file sorted by path.
func (c *Container) ListFiles(ctx context.Context) ([]container.FileRecord, error) {
	var records []container.FileRecord

	err := util.Walk(c.fs, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !info.Mode().IsRegular() || strings.HasPrefix(info.Name(), tempPrefix) {
			return nil
		}
		records = append(records, container.FileRecord{
			Path:    relative(p),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("billy: walk: %w", err)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records, nil
}

// OpenReader opens the file at p for reading.
func (c *Container) OpenReader(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("billy: open %q: %w", p, err)
	}

	f, err := c.fs.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("billy: open %q: %w: %w", p, syncerrors.ErrNotFound, err)
		}
		return nil, fmt.Errorf("billy: open %q: %w", p, err)
	}
	return f, nil
}

// UploadFile writes exactly size bytes from r to p. Data is written to a
// temporary file next to p and renamed into place, so a failed upload never
// leaves a partial file at p.
func (c *Container) UploadFile(ctx context.Context, p string, r io.Reader, size int64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("billy: upload %q: %w", p, err)
	}

	dir := path.Dir(p)
	if dir != "." {
		if err := c.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("billy: mkdirall %q: %w", dir, err)
		}
	}

	tmp, err := util.TempFile(c.fs, dir, tempPrefix)
	if err != nil {
		return fmt.Errorf("billy: tempfile %q: %w", dir, err)
	}
	tmpName := tmp.Name()

	_, copyErr := io.Copy(tmp, container.ExactReader(r, size))
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = c.fs.Remove(tmpName)
		if copyErr != nil {
			return fmt.Errorf("billy: write %q: %w", p, copyErr)
		}
		return fmt.Errorf("billy: close %q: %w", p, closeErr)
	}

	if err := c.rename(tmpName, p); err != nil {
		_ = c.fs.Remove(tmpName)
		return fmt.Errorf("billy: rename %q: %w", p, err)
	}
	return nil
}

// rename moves from onto to, replacing to on filesystems whose Rename refuses
// to overwrite.
func (c *Container) rename(from, to string) error {
	err := c.fs.Rename(from, to)
	if err == nil {
		return nil
	}
	if _, statErr := c.fs.Stat(to); statErr != nil {
		return err
	}
	if removeErr := c.fs.Remove(to); removeErr != nil {
		return err
	}
	return c.fs.Rename(from, to)
}

// relative converts a walk path into a slash-separated container path.
func relative(p string) string {
	return strings.TrimPrefix(filepath.ToSlash(p), "/")
}

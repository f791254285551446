// Package container defines the storage backend contract consumed by a sync
// session. A Container lists the files it holds and exposes streaming read and
// write access by relative path. Backends live in sub-packages (billy, s3,
// minio); any type satisfying Container can be synchronized.
package container

import (
	"context"
	"io"
	"path"
	"time"
)

// FileRecord describes one file as reported by a container listing.
// Records are values and are never modified after being listed.
type FileRecord struct {
	// Path is the slash-separated path relative to the container root. It
	// uniquely identifies the file within its container.
	Path string

	// Size is the file size in bytes
	Size int64

	// ModTime is the file modification time
	ModTime time.Time
}

// Name returns the last element of the record path.
func (r FileRecord) Name() string {
	return path.Base(r.Path)
}

// Container is a storage backend that can be synchronized from or to.
type Container interface {
	// ListFiles returns every file in the container in a stable order.
	ListFiles(ctx context.Context) ([]FileRecord, error)

	// OpenReader opens a readable stream for the file at path. The caller
	// must close the returned reader.
	OpenReader(ctx context.Context, path string) (io.ReadCloser, error)

	// UploadFile durably stores exactly size bytes read from r at path,
	// replacing any existing file. It must fail, not hang, when r returns an
	// error or yields fewer or more than size bytes.
	UploadFile(ctx context.Context, path string, r io.Reader, size int64) error
}

// Role identifies which side of a sync a container plays.
type Role string

const (
	// RoleSource is the container files are copied from
	RoleSource Role = "source"

	// RoleDestination is the container files are copied to
	RoleDestination Role = "destination"
)

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

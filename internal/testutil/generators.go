// Package testutil provides test data generators.
package testutil

import (
	"fmt"
	"io"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
)

// MiB is one mebibyte.
const MiB int64 = 1024 * 1024

// Record builds a FileRecord.
func Record(path string, size int64, modTime time.Time) container.FileRecord {
	return container.FileRecord{Path: path, Size: size, ModTime: modTime}
}

// GenerateRecords generates count records named file-0000.txt onwards under
// prefix, one minute apart starting at base.
func GenerateRecords(count int, prefix string, base time.Time) []container.FileRecord {
	records := make([]container.FileRecord, count)
	for i := 0; i < count; i++ {
		records[i] = Record(
			fmt.Sprintf("%sfile-%04d.txt", prefix, i),
			int64(100+i),
			base.Add(time.Duration(i)*time.Minute),
		)
	}
	return records
}

// SizedReader returns a stream of exactly n zero bytes without allocating them.
func SizedReader(n int64) io.ReadCloser {
	return io.NopCloser(io.LimitReader(zeroReader{}, n))
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

// FailingReader returns a stream that yields n zero bytes and then err.
func FailingReader(n int64, err error) io.ReadCloser {
	return &failingReader{r: io.LimitReader(zeroReader{}, n), err: err}
}

type failingReader struct {
	r   io.Reader
	err error
}

func (f *failingReader) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err == io.EOF {
		return n, f.err
	}
	//nolint:wrapcheck // io.Reader interface contract
	return n, err
}

func (f *failingReader) Close() error {
	return nil
}

// TrackingCloser wraps a reader and records whether it was closed.
type TrackingCloser struct {
	io.Reader
	Closed bool
}

// Close implements io.Closer.
func (t *TrackingCloser) Close() error {
	t.Closed = true
	return nil
}

package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
	syncerrors "github.com/input-output-hk/catalyst-forge-libs/storagesync/errors"
)

// MemoryContainer is a map-backed Container that records every call.
// Uploaded files are stamped with Now, which defaults to time.Now.
type MemoryContainer struct {
	mu    sync.Mutex
	files map[string]memFile

	// Now returns the modification time assigned to uploaded files
	Now func() time.Time

	// Lists counts ListFiles calls
	Lists int

	// Opened records paths passed to OpenReader, in call order
	Opened []string

	// Uploaded records paths passed to UploadFile, in call order
	Uploaded []string
}

type memFile struct {
	data    []byte
	modTime time.Time
}

var _ container.Container = (*MemoryContainer)(nil)

// NewMemoryContainer creates an empty container.
func NewMemoryContainer() *MemoryContainer {
	return &MemoryContainer{
		files: make(map[string]memFile),
		Now:   time.Now,
	}
}

// Put stores data at path with the given modification time.
func (m *MemoryContainer) Put(path string, data []byte, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = memFile{data: bytes.Clone(data), modTime: modTime}
}

// Data returns the content stored at path.
func (m *MemoryContainer) Data(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[path]
	return f.data, ok
}

// Len returns the number of stored files.
func (m *MemoryContainer) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// ListFiles returns all files sorted by path.
func (m *MemoryContainer) ListFiles(_ context.Context) ([]container.FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lists++

	records := make([]container.FileRecord, 0, len(m.files))
	for p, f := range m.files {
		records = append(records, container.FileRecord{
			Path:    p,
			Size:    int64(len(f.data)),
			ModTime: f.modTime,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records, nil
}

// OpenReader returns a reader over the stored content.
func (m *MemoryContainer) OpenReader(_ context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Opened = append(m.Opened, path)

	f, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, syncerrors.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// UploadFile stores exactly size bytes from r.
func (m *MemoryContainer) UploadFile(_ context.Context, path string, r io.Reader, size int64) error {
	data, err := io.ReadAll(container.ExactReader(r, size))
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploaded = append(m.Uploaded, path)
	m.files[path] = memFile{data: data, modTime: m.Now()}
	return nil
}

// Package testutil provides test utilities and mocks for sync sessions.
// This package is internal and should only be used for testing within the module.
package testutil

import (
	"context"
	"io"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
)

// MockContainer is a mock implementation of the Container interface for testing.
// It allows customization of each operation through function fields.
type MockContainer struct {
	ListFilesFunc  func(context.Context) ([]container.FileRecord, error)
	OpenReaderFunc func(context.Context, string) (io.ReadCloser, error)
	UploadFileFunc func(context.Context, string, io.Reader, int64) error
}

var _ container.Container = (*MockContainer)(nil)

// ListFiles mocks the ListFiles operation. The default returns an empty listing.
func (m *MockContainer) ListFiles(ctx context.Context) ([]container.FileRecord, error) {
	if m.ListFilesFunc != nil {
		return m.ListFilesFunc(ctx)
	}
	return nil, nil
}

// OpenReader mocks the OpenReader operation. The default returns an empty stream.
func (m *MockContainer) OpenReader(ctx context.Context, path string) (io.ReadCloser, error) {
	if m.OpenReaderFunc != nil {
		return m.OpenReaderFunc(ctx, path)
	}
	return io.NopCloser(strings.NewReader("")), nil
}

// UploadFile mocks the UploadFile operation. The default drains r and succeeds.
func (m *MockContainer) UploadFile(ctx context.Context, path string, r io.Reader, size int64) error {
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, path, r, size)
	}
	_, err := io.Copy(io.Discard, r)
	//nolint:wrapcheck // mock passes through reader errors
	return err
}

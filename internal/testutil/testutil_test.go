package testutil

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
	syncerrors "github.com/input-output-hk/catalyst-forge-libs/storagesync/errors"
)

func TestMockContainer(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		m := &MockContainer{}
		ctx := context.Background()

		records, err := m.ListFiles(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)

		rc, err := m.OpenReader(ctx, "a.txt")
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Empty(t, data)

		require.NoError(t, m.UploadFile(ctx, "a.txt", strings.NewReader("x"), 1))
	})

	t.Run("custom functions", func(t *testing.T) {
		boom := errors.New("boom")
		m := &MockContainer{
			ListFilesFunc: func(context.Context) ([]container.FileRecord, error) {
				return nil, boom
			},
			UploadFileFunc: func(_ context.Context, path string, _ io.Reader, size int64) error {
				assert.Equal(t, "b.txt", path)
				assert.Equal(t, int64(3), size)
				return boom
			},
		}

		_, err := m.ListFiles(context.Background())
		assert.ErrorIs(t, err, boom)
		err = m.UploadFile(context.Background(), "b.txt", strings.NewReader("abc"), 3)
		assert.ErrorIs(t, err, boom)
	})
}

func TestMemoryContainer(t *testing.T) {
	ctx := context.Background()
	mod := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	m := NewMemoryContainer()
	m.Now = func() time.Time { return mod.Add(time.Hour) }
	m.Put("b.txt", []byte("bb"), mod)
	m.Put("a.txt", []byte("a"), mod)

	records, err := m.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Record("a.txt", 1, mod), records[0])
	assert.Equal(t, Record("b.txt", 2, mod), records[1])

	_, err = m.OpenReader(ctx, "missing")
	assert.True(t, syncerrors.IsNotFound(err))

	require.NoError(t, m.UploadFile(ctx, "c.txt", strings.NewReader("ccc"), 3))
	data, ok := m.Data("c.txt")
	require.True(t, ok)
	assert.Equal(t, "ccc", string(data))
	assert.Equal(t, []string{"c.txt"}, m.Uploaded)

	err = m.UploadFile(ctx, "d.txt", strings.NewReader("dd"), 5)
	assert.True(t, syncerrors.IsSizeMismatch(err))
	_, ok = m.Data("d.txt")
	assert.False(t, ok)
}

func TestGenerators(t *testing.T) {
	t.Run("SizedReader", func(t *testing.T) {
		n, err := io.Copy(io.Discard, SizedReader(3*MiB+7))
		require.NoError(t, err)
		assert.Equal(t, 3*MiB+7, n)
	})

	t.Run("FailingReader", func(t *testing.T) {
		boom := errors.New("boom")
		n, err := io.Copy(io.Discard, FailingReader(10, boom))
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, int64(10), n)
	})

	t.Run("GenerateRecords", func(t *testing.T) {
		base := time.Unix(0, 0)
		records := GenerateRecords(3, "dir/", base)
		require.Len(t, records, 3)
		assert.Equal(t, "dir/file-0002.txt", records[2].Path)
		assert.Equal(t, base.Add(2*time.Minute), records[2].ModTime)
	})
}

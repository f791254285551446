package containertest

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
	syncerrors "github.com/input-output-hk/catalyst-forge-libs/storagesync/errors"
)

// TestList tests ListFiles and OpenReader against uploaded content.
func TestList(t *testing.T, newContainer Factory) {
	t.Run("Empty", func(t *testing.T) {
		testListEmpty(t, newContainer(t))
	})
	t.Run("RelativePaths", func(t *testing.T) {
		testListRelativePaths(t, newContainer(t))
	})
	t.Run("StableOrder", func(t *testing.T) {
		testListStableOrder(t, newContainer(t))
	})
	t.Run("OpenReader", func(t *testing.T) {
		testOpenReader(t, newContainer(t))
	})
	t.Run("OpenNotExist", func(t *testing.T) {
		testOpenNotExist(t, newContainer(t))
	})
}

// put uploads content at p and fails the test on error.
func put(t *testing.T, c container.Container, p string, content []byte) {
	t.Helper()
	if err := c.UploadFile(context.Background(), p, bytes.NewReader(content), int64(len(content))); err != nil {
		t.Fatalf("UploadFile(%q): setup failed: %v", p, err)
	}
}

// find returns the record with path p.
func find(records []container.FileRecord, p string) (container.FileRecord, bool) {
	for _, r := range records {
		if r.Path == p {
			return r, true
		}
	}
	return container.FileRecord{}, false
}

// testListEmpty tests that a new container lists nothing.
func testListEmpty(t *testing.T, c container.Container) {
	records, err := c.ListFiles(context.Background())
	if err != nil {
		t.Fatalf("ListFiles(): got error %v, want nil", err)
	}
	if len(records) != 0 {
		t.Errorf("ListFiles(): got %d records, want 0", len(records))
	}
}

// testListRelativePaths tests that nested files are listed with relative slash paths.
func testListRelativePaths(t *testing.T, c container.Container) {
	put(t, c, "top.txt", []byte("top"))
	put(t, c, "dir/sub/nested.txt", []byte("nested content"))

	records, err := c.ListFiles(context.Background())
	if err != nil {
		t.Fatalf("ListFiles(): got error %v, want nil", err)
	}
	if len(records) != 2 {
		t.Fatalf("ListFiles(): got %d records %v, want 2", len(records), records)
	}

	top, ok := find(records, "top.txt")
	if !ok {
		t.Fatalf("ListFiles(): missing %q in %v", "top.txt", records)
	}
	if top.Size != 3 {
		t.Errorf("ListFiles(): %q size = %d, want 3", top.Path, top.Size)
	}
	if top.ModTime.IsZero() {
		t.Errorf("ListFiles(): %q has zero ModTime", top.Path)
	}

	nested, ok := find(records, "dir/sub/nested.txt")
	if !ok {
		t.Fatalf("ListFiles(): missing %q in %v", "dir/sub/nested.txt", records)
	}
	if nested.Size != int64(len("nested content")) {
		t.Errorf("ListFiles(): %q size = %d, want %d", nested.Path, nested.Size, len("nested content"))
	}
	if nested.Name() != "nested.txt" {
		t.Errorf("Name(): got %q, want %q", nested.Name(), "nested.txt")
	}

	for _, r := range records {
		if strings.HasPrefix(r.Path, "/") || strings.Contains(r.Path, "\\") {
			t.Errorf("ListFiles(): path %q is not relative and slash-separated", r.Path)
		}
	}
}

// testListStableOrder tests that two listings return the same order.
func testListStableOrder(t *testing.T, c container.Container) {
	for _, p := range []string{"c.txt", "a.txt", "b/b.txt", "b.txt"} {
		put(t, c, p, []byte(p))
	}

	first, err := c.ListFiles(context.Background())
	if err != nil {
		t.Fatalf("ListFiles(): got error %v, want nil", err)
	}
	second, err := c.ListFiles(context.Background())
	if err != nil {
		t.Fatalf("ListFiles(): got error %v, want nil", err)
	}

	if !reflect.DeepEqual(paths(first), paths(second)) {
		t.Errorf("ListFiles(): order changed between calls: %v then %v", paths(first), paths(second))
	}
}

// testOpenReader tests that OpenReader streams back uploaded content.
func testOpenReader(t *testing.T, c container.Container) {
	content := []byte("streamed content")
	put(t, c, "dir/read.txt", content)

	rc, err := c.OpenReader(context.Background(), "dir/read.txt")
	if err != nil {
		t.Fatalf("OpenReader(%q): got error %v, want nil", "dir/read.txt", err)
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil {
			t.Errorf("Close(): got error %v", closeErr)
		}
	}()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll(): got error %v, want nil", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("ReadAll(): got %q, want %q", got, content)
	}
}

// testOpenNotExist tests that opening a missing path fails.
func testOpenNotExist(t *testing.T, c container.Container) {
	rc, err := c.OpenReader(context.Background(), "missing.txt")
	if err == nil {
		_ = rc.Close()
		t.Fatalf("OpenReader(%q): got nil error, want error", "missing.txt")
	}
	if !syncerrors.IsNotFound(err) {
		t.Errorf("OpenReader(%q): got %v, want errors.ErrNotFound", "missing.txt", err)
	}
}

func paths(records []container.FileRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Path
	}
	return out
}

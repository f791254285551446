package containertest

import (
	"bytes"
	"context"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
)

// TestSync copies every file of one container into another through the
// Container interface and checks that a second listing reports the same
// paths and sizes.
func TestSync(t *testing.T, newContainer Factory) {
	src := newContainer(t)
	dst := newContainer(t)
	ctx := context.Background()

	files := map[string][]byte{
		"a.txt":         []byte("alpha"),
		"nested/b.txt":  []byte("bravo bravo"),
		"nested/c/d.md": []byte("# delta"),
	}
	for p, data := range files {
		put(t, src, p, data)
	}

	records, err := src.ListFiles(ctx)
	if err != nil {
		t.Fatalf("ListFiles(src): got error %v, want nil", err)
	}
	for _, r := range records {
		copyRecord(t, src, dst, r)
	}

	got, err := dst.ListFiles(ctx)
	if err != nil {
		t.Fatalf("ListFiles(dst): got error %v, want nil", err)
	}
	if len(got) != len(files) {
		t.Fatalf("ListFiles(dst): got %d records, want %d", len(got), len(files))
	}
	for _, r := range got {
		want, ok := files[r.Path]
		if !ok {
			t.Errorf("ListFiles(dst): unexpected %q", r.Path)
			continue
		}
		if r.Size != int64(len(want)) {
			t.Errorf("ListFiles(dst): %q size = %d, want %d", r.Path, r.Size, len(want))
		}
		if data := readAll(t, dst, r.Path); !bytes.Equal(data, want) {
			t.Errorf("OpenReader(dst, %q): got %q, want %q", r.Path, data, want)
		}
	}
}

func copyRecord(t *testing.T, src, dst container.Container, r container.FileRecord) {
	t.Helper()
	rc, err := src.OpenReader(context.Background(), r.Path)
	if err != nil {
		t.Fatalf("OpenReader(%q): got error %v", r.Path, err)
	}
	defer rc.Close()

	if err := dst.UploadFile(context.Background(), r.Path, rc, r.Size); err != nil {
		t.Fatalf("UploadFile(%q): got error %v", r.Path, err)
	}
}

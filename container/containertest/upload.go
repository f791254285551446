package containertest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
	syncerrors "github.com/input-output-hk/catalyst-forge-libs/storagesync/errors"
)

// largeFileSize exceeds the default single-request threshold of the object
// store backends so that multipart paths are exercised.
const largeFileSize = 9*1024*1024 + 17

// TestUpload tests UploadFile semantics.
func TestUpload(t *testing.T, newContainer Factory) {
	TestUploadWithSkip(t, newContainer, nil)
}

// TestUploadWithSkip tests UploadFile semantics with optional test skipping.
func TestUploadWithSkip(t *testing.T, newContainer Factory, skipTests []string) {
	shouldSkip := func(testName string) bool {
		for _, skip := range skipTests {
			if skip == testName {
				return true
			}
		}
		return false
	}

	tests := []struct {
		name string
		fn   func(*testing.T, container.Container)
	}{
		{"RoundTrip", testUploadRoundTrip},
		{"EmptyFile", testUploadEmptyFile},
		{"Overwrite", testUploadOverwrite},
		{"ShortStream", testUploadShortStream},
		{"LongStream", testUploadLongStream},
		{"ReaderError", testUploadReaderError},
		{"LargeFile", testUploadLargeFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if shouldSkip("Upload/" + tt.name) {
				t.Skip("Skipped by provider configuration")
				return
			}
			tt.fn(t, newContainer(t))
		})
	}
}

// readAll reads the file at p and fails the test on error.
func readAll(t *testing.T, c container.Container, p string) []byte {
	t.Helper()
	rc, err := c.OpenReader(context.Background(), p)
	if err != nil {
		t.Fatalf("OpenReader(%q): got error %v, want nil", p, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll(%q): got error %v, want nil", p, err)
	}
	return data
}

// assertAbsent fails the test if p is listed.
func assertAbsent(t *testing.T, c container.Container, p string) {
	t.Helper()
	records, err := c.ListFiles(context.Background())
	if err != nil {
		t.Fatalf("ListFiles(): got error %v, want nil", err)
	}
	if r, ok := find(records, p); ok {
		t.Errorf("ListFiles(): failed upload left %q (%d bytes)", r.Path, r.Size)
	}
}

// testUploadRoundTrip tests that uploaded bytes are read back unchanged.
func testUploadRoundTrip(t *testing.T, c container.Container) {
	content := []byte("hello, container")
	put(t, c, "docs/hello.txt", content)

	if got := readAll(t, c, "docs/hello.txt"); !bytes.Equal(got, content) {
		t.Errorf("OpenReader(%q): got %q, want %q", "docs/hello.txt", got, content)
	}
}

// testUploadEmptyFile tests that a zero-byte file can be stored.
func testUploadEmptyFile(t *testing.T, c container.Container) {
	put(t, c, "empty", nil)

	records, err := c.ListFiles(context.Background())
	if err != nil {
		t.Fatalf("ListFiles(): got error %v, want nil", err)
	}
	r, ok := find(records, "empty")
	if !ok {
		t.Fatalf("ListFiles(): missing %q", "empty")
	}
	if r.Size != 0 {
		t.Errorf("ListFiles(): %q size = %d, want 0", r.Path, r.Size)
	}
}

// testUploadOverwrite tests that uploading to an existing path replaces it.
func testUploadOverwrite(t *testing.T, c container.Container) {
	put(t, c, "file.txt", []byte("first version"))
	put(t, c, "file.txt", []byte("second"))

	if got := readAll(t, c, "file.txt"); string(got) != "second" {
		t.Errorf("OpenReader(%q): got %q, want %q", "file.txt", got, "second")
	}

	records, err := c.ListFiles(context.Background())
	if err != nil {
		t.Fatalf("ListFiles(): got error %v, want nil", err)
	}
	if len(records) != 1 {
		t.Errorf("ListFiles(): got %d records %v, want 1", len(records), records)
	}
}

// testUploadShortStream tests that a stream shorter than declared fails.
func testUploadShortStream(t *testing.T, c container.Container) {
	err := c.UploadFile(context.Background(), "short.txt", bytes.NewReader([]byte("12345")), 10)
	if err == nil {
		t.Fatalf("UploadFile(short): got nil error, want error")
	}
	assertAbsent(t, c, "short.txt")
}

// testUploadLongStream tests that a stream longer than declared fails.
func testUploadLongStream(t *testing.T, c container.Container) {
	err := c.UploadFile(context.Background(), "long.txt", bytes.NewReader([]byte("12345")), 3)
	if err == nil {
		t.Fatalf("UploadFile(long): got nil error, want error")
	}
	if !syncerrors.IsSizeMismatch(err) {
		t.Errorf("UploadFile(long): got %v, want errors.ErrSizeMismatch", err)
	}
	assertAbsent(t, c, "long.txt")
}

// testUploadReaderError tests that a failing stream fails the upload.
func testUploadReaderError(t *testing.T, c container.Container) {
	boom := errors.New("source went away")
	r := io.MultiReader(bytes.NewReader([]byte("partial")), iotest.ErrReader(boom))

	err := c.UploadFile(context.Background(), "broken.txt", r, 100)
	if err == nil {
		t.Fatalf("UploadFile(broken): got nil error, want error")
	}
	assertAbsent(t, c, "broken.txt")
}

// testUploadLargeFile tests a file large enough to require multipart uploads.
func testUploadLargeFile(t *testing.T, c container.Container) {
	content := bytes.Repeat([]byte("0123456789abcdef"), largeFileSize/16+1)[:largeFileSize]
	put(t, c, "big/large.bin", content)

	got := readAll(t, c, "big/large.bin")
	if len(got) != len(content) {
		t.Fatalf("OpenReader(large): got %d bytes, want %d", len(got), len(content))
	}
	if !bytes.Equal(got, content) {
		t.Errorf("OpenReader(large): content mismatch")
	}
}

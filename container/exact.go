package container

import (
	"errors"
	"fmt"
	"io"

	syncerrors "github.com/input-output-hk/catalyst-forge-libs/storagesync/errors"
)

// exactReader yields exactly size bytes from r and fails if r is shorter or longer.
type exactReader struct {
	r         io.Reader
	size      int64
	remaining int64
	done      bool
}

// ExactReader wraps r so that reading it delivers exactly size bytes. If r
// ends early, or still has data once size bytes were delivered, the read
// returns an error wrapping errors.ErrSizeMismatch instead of io.EOF. A
// negative size fails the first read the same way.
// Backends hand this reader to their upload path so a wrong declared size
// fails the upload rather than storing a truncated file.
func ExactReader(r io.Reader, size int64) io.Reader {
	return &exactReader{r: r, size: size, remaining: size}
}

// Read implements io.Reader.
func (e *exactReader) Read(p []byte) (int, error) {
	if e.done {
		return 0, io.EOF
	}
	if e.size < 0 {
		return 0, fmt.Errorf("%w: negative size %d", syncerrors.ErrSizeMismatch, e.size)
	}
	if e.remaining == 0 {
		return 0, e.checkTrailing()
	}

	if int64(len(p)) > e.remaining {
		p = p[:e.remaining]
	}
	n, err := e.r.Read(p)
	e.remaining -= int64(n)

	switch {
	case errors.Is(err, io.EOF) && e.remaining > 0:
		return n, fmt.Errorf("%w: got %d of %d bytes", syncerrors.ErrSizeMismatch, e.size-e.remaining, e.size)
	case errors.Is(err, io.EOF):
		// The final chunk and EOF arrived together; nothing can trail it.
		e.done = true
		return n, io.EOF
	case err != nil:
		return n, err
	}
	return n, nil
}

// checkTrailing reads the source once the declared size has been consumed.
func (e *exactReader) checkTrailing() error {
	var extra [1]byte
	for {
		n, err := e.r.Read(extra[:])
		if n > 0 {
			return fmt.Errorf("%w: more than %d bytes", syncerrors.ErrSizeMismatch, e.size)
		}
		if errors.Is(err, io.EOF) {
			e.done = true
			return io.EOF
		}
		if err != nil {
			return err
		}
	}
}

// Package minio implements container.Container for any S3-compatible object
// store reachable through minio-go, such as a self-hosted MinIO server.
package minio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
	syncerrors "github.com/input-output-hk/catalyst-forge-libs/storagesync/errors"
)

// sniffLen is the number of leading bytes used for content type detection.
const sniffLen = 3072

// Options configures a Container.
type Options struct {
	// Prefix scopes the container to keys under this prefix
	Prefix string

	// AccessKey and SecretKey are static credentials
	AccessKey string
	SecretKey string

	// Secure enables TLS
	Secure bool

	// Region is the bucket region (optional)
	Region string

	// Logger receives diagnostics
	Logger *slog.Logger
}

// Option configures a Container.
type Option func(*Options)

// WithPrefix scopes the container to keys under prefix.
func WithPrefix(prefix string) Option {
	return func(o *Options) {
		o.Prefix = prefix
	}
}

// WithCredentials sets static access credentials.
func WithCredentials(accessKey, secretKey string) Option {
	return func(o *Options) {
		o.AccessKey = accessKey
		o.SecretKey = secretKey
	}
}

// WithSecure enables or disables TLS.
func WithSecure(secure bool) Option {
	return func(o *Options) {
		o.Secure = secure
	}
}

// WithRegion sets the bucket region.
func WithRegion(region string) Option {
	return func(o *Options) {
		o.Region = region
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// Container implements container.Container for one bucket and prefix.
type Container struct {
	store  objectStore
	bucket string
	prefix string
	logger *slog.Logger
}

var _ container.Container = (*Container)(nil)

// New connects to the S3-compatible endpoint (host[:port]) and returns a
// Container for bucket.
func New(endpoint, bucket string, opts ...Option) (*Container, error) {
	o := applyOptions(opts)

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(o.AccessKey, o.SecretKey, ""),
		Secure: o.Secure,
		Region: o.Region,
	})
	if err != nil {
		return nil, syncerrors.New(syncerrors.CodeInvalidArgument, "new minio container", err)
	}

	return newContainer(&clientStore{client: client}, bucket, o)
}

// NewWithClient creates a Container using an existing minio client.
func NewWithClient(client *minio.Client, bucket string, opts ...Option) (*Container, error) {
	return newContainer(&clientStore{client: client}, bucket, applyOptions(opts))
}

func applyOptions(opts []Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func newContainer(store objectStore, bucket string, o *Options) (*Container, error) {
	if bucket == "" {
		return nil, syncerrors.New(syncerrors.CodeInvalidArgument, "new minio container", errors.New("bucket cannot be empty"))
	}

	prefix := strings.TrimPrefix(o.Prefix, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Container{
		store:  store,
		bucket: bucket,
		prefix: prefix,
		logger: logger.With("bucket", bucket),
	}, nil
}

func (c *Container) key(p string) string {
	return c.prefix + p
}

// ListFiles lists every object under the prefix recursively.
func (c *Container) ListFiles(ctx context.Context) ([]container.FileRecord, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var records []container.FileRecord
	for obj := range c.store.list(ctx, c.bucket, c.prefix) {
		if obj.Err != nil {
			return nil, translateError("list", c.prefix, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") || !strings.HasPrefix(obj.Key, c.prefix) {
			continue
		}
		records = append(records, container.FileRecord{
			Path:    strings.TrimPrefix(obj.Key, c.prefix),
			Size:    obj.Size,
			ModTime: obj.LastModified,
		})
	}
	return records, nil
}

// OpenReader returns a stream over the object for p. The object is stat'ed
// first so a missing key fails here rather than on the first read.
func (c *Container) OpenReader(ctx context.Context, p string) (io.ReadCloser, error) {
	key := c.key(p)
	if _, err := c.store.stat(ctx, c.bucket, key); err != nil {
		return nil, translateError("stat", key, err)
	}

	rc, err := c.store.get(ctx, c.bucket, key)
	if err != nil {
		return nil, translateError("get", key, err)
	}
	return rc, nil
}

// UploadFile stores exactly size bytes from r at p.
func (c *Container) UploadFile(ctx context.Context, p string, r io.Reader, size int64) error {
	key := c.key(p)
	body := container.ExactReader(r, size)

	br := bufio.NewReaderSize(body, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return fmt.Errorf("minio: put %q: %w", key, err)
	}

	err = c.store.put(ctx, c.bucket, key, br, size, minio.PutObjectOptions{
		ContentType: mimetype.Detect(head).String(),
	})
	if err != nil {
		return translateError("put", key, err)
	}

	// minio-go stops reading once size bytes arrived; check for trailing data.
	if _, err := br.ReadByte(); !errors.Is(err, io.EOF) {
		if rmErr := c.store.remove(context.WithoutCancel(ctx), c.bucket, key); rmErr != nil {
			c.logger.Warn("failed to remove oversized object", "key", key, "error", rmErr)
		}
		if err == nil {
			err = fmt.Errorf("%w: more than %d bytes", syncerrors.ErrSizeMismatch, size)
		}
		return fmt.Errorf("minio: put %q: %w", key, err)
	}
	return nil
}

// translateError wraps a minio error with operation context and maps
// well-known error codes onto the storagesync sentinels.
func translateError(op, key string, err error) error {
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return fmt.Errorf("minio: %s %q: %w", op, key, err)
	}

	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return fmt.Errorf("minio: %s %q: %w: %w", op, key, syncerrors.ErrNotFound, err)
	case "AccessDenied":
		return fmt.Errorf("minio: %s %q: %w: %w", op, key, syncerrors.ErrAccessDenied, err)
	}
	return fmt.Errorf("minio: %s %q: %w", op, key, err)
}

package s3

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
	syncerrors "github.com/input-output-hk/catalyst-forge-libs/storagesync/errors"
)

// Container implements container.Container for one S3 bucket and prefix.
type Container struct {
	api      API
	bucket   string
	prefix   string
	partSize int64
	logger   *slog.Logger
}

var _ container.Container = (*Container)(nil)

// New creates a Container for bucket, loading AWS configuration from the
// default credential chain unless WithAWSConfig is given.
func New(ctx context.Context, bucket string, opts ...Option) (*Container, error) {
	cfg := newConfig(opts)

	var awsCfg aws.Config
	if cfg.AWSConfig != nil {
		awsCfg = *cfg.AWSConfig
	} else {
		var loadOpts []func(*config.LoadOptions) error
		if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
		}
		loaded, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, syncerrors.New(syncerrors.CodeInvalidArgument, "load aws config", err)
		}
		awsCfg = loaded
	}

	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	} else if awsCfg.Region == "" {
		awsCfg.Region = "us-east-1"
	}
	if cfg.MaxRetries > 0 {
		awsCfg.RetryMaxAttempts = cfg.MaxRetries
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return newContainer(client, bucket, cfg)
}

// NewWithClient creates a Container using an existing S3 client.
// This is primarily used for testing with mocked clients.
func NewWithClient(api API, bucket string, opts ...Option) (*Container, error) {
	return newContainer(api, bucket, newConfig(opts))
}

func newConfig(opts []Option) *Config {
	cfg := &Config{
		MaxRetries: 3,
		PartSize:   DefaultPartSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func newContainer(api API, bucket string, cfg *Config) (*Container, error) {
	if bucket == "" {
		return nil, syncerrors.New(syncerrors.CodeInvalidArgument, "new s3 container", errors.New("bucket cannot be empty"))
	}

	prefix := strings.TrimPrefix(cfg.Prefix, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Container{
		api:      api,
		bucket:   bucket,
		prefix:   prefix,
		partSize: cfg.PartSize,
		logger:   logger.With("bucket", bucket),
	}, nil
}

// Bucket returns the bucket name.
func (c *Container) Bucket() string {
	return c.bucket
}

// Prefix returns the normalized key prefix.
func (c *Container) Prefix() string {
	return c.prefix
}

func (c *Container) key(p string) string {
	return c.prefix + p
}

// ListFiles lists every object under the prefix. Keys ending in "/" are
// directory markers and are not reported.
func (c *Container) ListFiles(ctx context.Context) ([]container.FileRecord, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
	}
	if c.prefix != "" {
		input.Prefix = aws.String(c.prefix)
	}

	var records []container.FileRecord
	paginator := s3.NewListObjectsV2Paginator(c.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, translateError("list", c.prefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") || !strings.HasPrefix(key, c.prefix) {
				continue
			}
			records = append(records, container.FileRecord{
				Path:    strings.TrimPrefix(key, c.prefix),
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
			})
		}
	}

	return records, nil
}

// OpenReader returns the body of the object for p.
func (c *Container) OpenReader(ctx context.Context, p string) (io.ReadCloser, error) {
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key(p)),
	})
	if err != nil {
		return nil, translateError("get", c.key(p), err)
	}
	return out.Body, nil
}

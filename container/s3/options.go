package s3

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// DefaultPartSize is the object size at which uploads switch to multipart,
// and the size of each part.
const DefaultPartSize int64 = 8 * 1024 * 1024

// Config holds the Container configuration.
type Config struct {
	// Prefix scopes the container to keys under this prefix
	Prefix string

	// Region is the AWS region (default: from the credential chain, else us-east-1)
	Region string

	// Endpoint overrides the S3 endpoint, e.g. for LocalStack
	Endpoint string

	// ForcePathStyle uses path-style addressing
	ForcePathStyle bool

	// MaxRetries is the SDK retry attempt limit
	MaxRetries int

	// PartSize is the multipart threshold and part size
	PartSize int64

	// AccessKeyID and SecretAccessKey set static credentials when both are non-empty
	AccessKeyID     string
	SecretAccessKey string

	// AWSConfig replaces the default configuration loading
	AWSConfig *aws.Config

	// Logger receives upload diagnostics
	Logger *slog.Logger
}

// Option configures a Container.
type Option func(*Config)

// WithPrefix scopes the container to keys under prefix. A trailing slash is
// added when missing.
func WithPrefix(prefix string) Option {
	return func(c *Config) {
		c.Prefix = prefix
	}
}

// WithRegion sets the AWS region for S3 operations.
// If not specified, uses the default AWS region from the credential chain.
func WithRegion(region string) Option {
	return func(c *Config) {
		c.Region = region
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services or local testing with LocalStack.
func WithEndpoint(endpoint string) Option {
	return func(c *Config) {
		c.Endpoint = endpoint
	}
}

// WithForcePathStyle forces the use of path-style URLs instead of virtual-hosted style.
// This is required for S3-compatible services that don't support virtual hosting.
func WithForcePathStyle(forcePathStyle bool) Option {
	return func(c *Config) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithMaxRetries sets the maximum number of attempts for failed operations.
// Default is 3.
func WithMaxRetries(maxRetries int) Option {
	return func(c *Config) {
		c.MaxRetries = maxRetries
	}
}

// WithPartSize sets the part size for multipart uploads.
// Default is 8MB. S3 rejects parts smaller than 5MB except the last one.
func WithPartSize(partSize int64) Option {
	return func(c *Config) {
		if partSize > 0 {
			c.PartSize = partSize
		}
	}
}

// WithStaticCredentials uses the given access key pair instead of the default
// credential chain.
func WithStaticCredentials(accessKeyID, secretAccessKey string) Option {
	return func(c *Config) {
		c.AccessKeyID = accessKeyID
		c.SecretAccessKey = secretAccessKey
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
func WithAWSConfig(config *aws.Config) Option {
	return func(c *Config) {
		c.AWSConfig = config
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

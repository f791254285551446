package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container/billy"
	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container/minio"
	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container/s3"
)

// Scheme identifies a storage backend.
type Scheme string

const (
	SchemeFile   Scheme = "file"
	SchemeMemory Scheme = "mem"
	SchemeS3     Scheme = "s3"
	SchemeMinIO  Scheme = "minio"
)

// Location is a parsed SOURCE or DESTINATION argument.
type Location struct {
	Scheme Scheme
	Path   string // directory for file locations
	Host   string // host[:port] for minio locations
	Bucket string
	Prefix string
}

// ParseLocation parses a location argument. A value without "://" is a
// local directory.
func ParseLocation(raw string) (Location, error) {
	if raw == "" {
		return Location{}, fmt.Errorf("location cannot be empty")
	}
	if !strings.Contains(raw, "://") {
		return Location{Scheme: SchemeFile, Path: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("invalid location %q: %w", raw, err)
	}

	switch Scheme(u.Scheme) {
	case SchemeFile:
		if u.Host != "" && u.Host != "localhost" {
			return Location{}, fmt.Errorf("invalid location %q: file locations must be absolute", raw)
		}
		if u.Path == "" {
			return Location{}, fmt.Errorf("invalid location %q: missing path", raw)
		}
		return Location{Scheme: SchemeFile, Path: u.Path}, nil

	case SchemeMemory:
		return Location{Scheme: SchemeMemory}, nil

	case SchemeS3:
		if u.Host == "" {
			return Location{}, fmt.Errorf("invalid location %q: missing bucket", raw)
		}
		return Location{Scheme: SchemeS3, Bucket: u.Host, Prefix: strings.Trim(u.Path, "/")}, nil

	case SchemeMinIO:
		if u.Host == "" {
			return Location{}, fmt.Errorf("invalid location %q: missing host", raw)
		}
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if bucket == "" {
			return Location{}, fmt.Errorf("invalid location %q: missing bucket", raw)
		}
		return Location{
			Scheme: SchemeMinIO,
			Host:   u.Host,
			Bucket: bucket,
			Prefix: strings.Trim(prefix, "/"),
		}, nil
	}

	return Location{}, fmt.Errorf("invalid location %q: unsupported scheme %q", raw, u.Scheme)
}

// String returns the location in URL form.
func (l Location) String() string {
	switch l.Scheme {
	case SchemeFile:
		return l.Path
	case SchemeMemory:
		return "mem://"
	case SchemeS3:
		return strings.TrimSuffix(fmt.Sprintf("s3://%s/%s", l.Bucket, l.Prefix), "/")
	case SchemeMinIO:
		return strings.TrimSuffix(fmt.Sprintf("minio://%s/%s/%s", l.Host, l.Bucket, l.Prefix), "/")
	}
	return string(l.Scheme) + "://"
}

// BackendConfig holds the backend settings shared by all locations.
type BackendConfig struct {
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	MinIOAccessKey string
	MinIOSecretKey string
	MinIOInsecure  bool
}

// Open creates the container for loc. Missing local destination
// directories are created.
func Open(
	ctx context.Context,
	loc Location,
	role container.Role,
	cfg BackendConfig,
	logger *slog.Logger,
) (container.Container, error) {
	switch loc.Scheme {
	case SchemeFile:
		if role == container.RoleDestination {
			if err := os.MkdirAll(loc.Path, 0o755); err != nil {
				return nil, fmt.Errorf("create destination directory: %w", err)
			}
		} else if _, err := os.Stat(loc.Path); err != nil {
			return nil, fmt.Errorf("open source directory: %w", err)
		}
		return billy.NewOSFS(loc.Path), nil

	case SchemeMemory:
		return billy.NewInMemoryFS(), nil

	case SchemeS3:
		opts := []s3.Option{
			s3.WithPrefix(loc.Prefix),
			s3.WithForcePathStyle(cfg.S3PathStyle),
			s3.WithLogger(logger),
		}
		if cfg.S3Region != "" {
			opts = append(opts, s3.WithRegion(cfg.S3Region))
		}
		if cfg.S3Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(cfg.S3Endpoint))
		}
		c, err := s3.New(ctx, loc.Bucket, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil

	case SchemeMinIO:
		c, err := minio.New(loc.Host, loc.Bucket,
			minio.WithPrefix(loc.Prefix),
			minio.WithCredentials(cfg.MinIOAccessKey, cfg.MinIOSecretKey),
			minio.WithSecure(!cfg.MinIOInsecure),
			minio.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unsupported scheme %q", loc.Scheme)
}

package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// objectStore is the subset of bucket operations Container needs.
type objectStore interface {
	list(ctx context.Context, bucket, prefix string) <-chan minio.ObjectInfo
	stat(ctx context.Context, bucket, key string) (minio.ObjectInfo, error)
	get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	put(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) error
	remove(ctx context.Context, bucket, key string) error
}

// clientStore adapts *minio.Client to objectStore.
type clientStore struct {
	client *minio.Client
}

func (s *clientStore) list(ctx context.Context, bucket, prefix string) <-chan minio.ObjectInfo {
	return s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
}

func (s *clientStore) stat(ctx context.Context, bucket, key string) (minio.ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return minio.ObjectInfo{}, fmt.Errorf("stat object: %w", err)
	}
	return info, nil
}

func (s *clientStore) get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	return obj, nil
}

func (s *clientStore) put(
	ctx context.Context,
	bucket, key string,
	r io.Reader,
	size int64,
	opts minio.PutObjectOptions,
) error {
	if _, err := s.client.PutObject(ctx, bucket, key, r, size, opts); err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (s *clientStore) remove(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

// Package s3 implements container.Container on top of Amazon S3 using the
// AWS SDK for Go v2.
//
// A Container addresses one bucket, optionally scoped to a key prefix. Files
// map to objects whose key is the prefix followed by the relative path.
// Uploads stream: objects smaller than the part size are sent with a single
// PutObject, larger ones through a sequential multipart upload that holds one
// part in memory at a time.
//
// Example:
//
//	dst, err := s3.New(ctx, "backup-bucket",
//	    s3.WithPrefix("photos/"),
//	    s3.WithRegion("eu-west-1"),
//	)
//	if err != nil {
//	    return err
//	}
//
// Retries are delegated to the SDK retryer (see WithMaxRetries).
package s3

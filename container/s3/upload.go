package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
)

// UploadFile stores exactly size bytes from r at p. Objects smaller than the
// part size use a single PutObject; larger objects use a multipart upload
// that is aborted on any failure.
func (c *Container) UploadFile(ctx context.Context, p string, r io.Reader, size int64) error {
	body := container.ExactReader(r, size)
	if size < c.partSize {
		return c.putObject(ctx, c.key(p), body, size)
	}
	return c.multipartUpload(ctx, c.key(p), body, size)
}

// putObject buffers the whole (small) object and uploads it in one request.
func (c *Container) putObject(ctx context.Context, key string, body io.Reader, size int64) error {
	buf := bytes.NewBuffer(make([]byte, 0, max(size, 0)))
	if _, err := buf.ReadFrom(body); err != nil {
		return fmt.Errorf("s3: put %q: %w", key, err)
	}

	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String(detectContentType(buf.Bytes())),
	})
	if err != nil {
		return translateError("put", key, err)
	}
	return nil
}

// multipartUpload streams body part by part, reusing a single part buffer.
func (c *Container) multipartUpload(ctx context.Context, key string, body io.Reader, size int64) error {
	buf := make([]byte, c.partSize)

	// The first part is read up front so the content type can be sniffed.
	n, readErr := io.ReadFull(body, buf)
	if isReadFailure(readErr) {
		return fmt.Errorf("s3: multipart %q: %w", key, readErr)
	}

	created, err := c.api.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(detectContentType(buf[:n])),
	})
	if err != nil {
		return translateError("createMultipartUpload", key, err)
	}
	uploadID := aws.ToString(created.UploadId)

	c.logger.Debug("multipart upload started",
		"key", key,
		"upload_id", uploadID,
		"size", size,
		"part_size", c.partSize)

	var parts []awstypes.CompletedPart
	for partNumber := int32(1); n > 0; partNumber++ {
		out, err := c.api.UploadPart(ctx, &s3.UploadPartInput{
			Bucket:        aws.String(c.bucket),
			Key:           aws.String(key),
			UploadId:      aws.String(uploadID),
			PartNumber:    aws.Int32(partNumber),
			Body:          bytes.NewReader(buf[:n]),
			ContentLength: aws.Int64(int64(n)),
		})
		if err != nil {
			c.abort(ctx, key, uploadID)
			return translateError("uploadPart", key, err)
		}
		parts = append(parts, awstypes.CompletedPart{
			ETag:       out.ETag,
			PartNumber: aws.Int32(partNumber),
		})

		if readErr != nil {
			// Short final part already sent.
			break
		}
		n, readErr = io.ReadFull(body, buf)
		if isReadFailure(readErr) {
			c.abort(ctx, key, uploadID)
			return fmt.Errorf("s3: multipart %q: %w", key, readErr)
		}
	}

	_, err = c.api.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(c.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &awstypes.CompletedMultipartUpload{
			Parts: parts,
		},
	})
	if err != nil {
		c.abort(ctx, key, uploadID)
		return translateError("completeMultipartUpload", key, err)
	}

	c.logger.Debug("multipart upload completed", "key", key, "parts", len(parts))
	return nil
}

// abort cancels an in-progress multipart upload. It runs even if ctx was canceled.
func (c *Container) abort(ctx context.Context, key, uploadID string) {
	_, err := c.api.AbortMultipartUpload(context.WithoutCancel(ctx), &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(c.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	if err != nil {
		c.logger.Warn("failed to abort multipart upload", "key", key, "upload_id", uploadID, "error", err)
	}
}

// isReadFailure reports whether err from io.ReadFull is a real failure rather
// than the end of the stream.
func isReadFailure(err error) bool {
	return err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF)
}

// detectContentType determines the content type using mimetype.
func detectContentType(data []byte) string {
	return mimetype.Detect(data).String()
}

package s3

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"

	syncerrors "github.com/input-output-hk/catalyst-forge-libs/storagesync/errors"
)

// translateError wraps an SDK error with operation context and maps well-known
// API error codes onto the storagesync sentinels.
func translateError(op, key string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return fmt.Errorf("s3: %s %q: %w: %w", op, key, syncerrors.ErrNotFound, err)
		case "AccessDenied", "Forbidden", "AllAccessDisabled":
			return fmt.Errorf("s3: %s %q: %w: %w", op, key, syncerrors.ErrAccessDenied, err)
		}
	}
	return fmt.Errorf("s3: %s %q: %w", op, key, err)
}

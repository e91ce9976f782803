// Package errdefs defines the error taxonomy shared by services and handlers.
// Services wrap these sentinels with %w; handlers map them to HTTP statuses.
package errdefs

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/minio/minio-go/v7"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrPayloadTooLarge  = errors.New("payload too large")
	ErrBackendConfig    = errors.New("backend not configured")
	ErrBackendOperation = errors.New("backend operation failed")
	ErrNotFound         = errors.New("not found")
)

// SizeLimitError reports a decoded payload larger than the allowed ceiling.
type SizeLimitError struct {
	Size  int64
	Limit int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("file too large: %d bytes exceeds the limit of %d bytes", e.Size, e.Limit)
}

func (e *SizeLimitError) Unwrap() error { return ErrPayloadTooLarge }

// OperationError is a storage or database call rejected by the backend.
// Err is kept verbatim so operators can see the provider's own diagnosis.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() []error { return []error{ErrBackendOperation, e.Err} }

// Details returns the raw provider error in a JSON-friendly shape.
func (e *OperationError) Details() any {
	var pgErr *pgconn.PgError
	if errors.As(e.Err, &pgErr) {
		return map[string]string{
			"code":    pgErr.Code,
			"message": pgErr.Message,
			"details": pgErr.Detail,
			"hint":    pgErr.Hint,
		}
	}
	var minioErr minio.ErrorResponse
	if errors.As(e.Err, &minioErr) {
		return map[string]any{
			"code":       minioErr.Code,
			"message":    minioErr.Message,
			"bucket":     minioErr.BucketName,
			"key":        minioErr.Key,
			"statusCode": minioErr.StatusCode,
		}
	}
	var apiErr smithy.APIError
	if errors.As(e.Err, &apiErr) {
		return map[string]string{
			"code":    apiErr.ErrorCode(),
			"message": apiErr.ErrorMessage(),
		}
	}
	return map[string]string{"message": e.Err.Error()}
}

// Operation wraps err as an OperationError, or returns nil for a nil err.
func Operation(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Op: op, Err: err}
}

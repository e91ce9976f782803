// Package storage defines the interface for object storage operations.
// Swap implementations by changing the driver selected at startup. The MinIO
// implementation works with any S3-compatible provider; AWS S3 and Google
// Cloud Storage have native implementations.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
)

// Target is a single-use, time-bounded write destination for one object.
type Target struct {
	URL       string
	Method    string
	Key       string
	ExpiresAt time.Time
}

// Storage is the interface for issuing upload targets and writing objects.
type Storage interface {
	// PresignUpload returns a write URL for key that expires after ttl.
	PresignUpload(ctx context.Context, key string, ttl time.Duration) (*Target, error)
	// Upload streams data to the store under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// PublicURL constructs the token-free, browser-accessible URL for key.
	PublicURL(key string) string
}

// Options configures a storage backend.
type Options struct {
	Driver          string
	Endpoint        string
	Region          string
	AccessKey       string
	SecretKey       string
	Bucket          string
	UseSSL          bool
	PublicBase      string
	EnsureBucket    bool
	CredentialsFile string
}

// New builds the backend named by opts.Driver.
func New(ctx context.Context, opts Options) (Storage, error) {
	switch opts.Driver {
	case "minio":
		return NewMinioStorage(ctx, opts)
	case "s3":
		return NewS3Storage(ctx, opts)
	case "gcs":
		return NewGCSStorage(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

// publicURL joins base and key, escaping each key segment. The result never
// carries a query string: "?" and "#" in object names are percent-encoded.
func publicURL(base, key string) string {
	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}

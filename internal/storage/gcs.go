package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage implements Storage on a Google Cloud Storage bucket. Signing
// uses the service account from the credentials file.
type GCSStorage struct {
	client     *gcs.Client
	bucket     string
	publicBase string
}

// NewGCSStorage creates a GCS client from opts.CredentialsFile.
func NewGCSStorage(ctx context.Context, opts Options) (*GCSStorage, error) {
	client, err := gcs.NewClient(ctx, option.WithCredentialsFile(opts.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSStorage{
		client:     client,
		bucket:     opts.Bucket,
		publicBase: opts.PublicBase,
	}, nil
}

// PresignUpload returns a V4 signed PUT URL for key.
func (s *GCSStorage) PresignUpload(ctx context.Context, key string, ttl time.Duration) (*Target, error) {
	expiresAt := time.Now().Add(ttl)
	u, err := s.client.Bucket(s.bucket).SignedURL(key, &gcs.SignedURLOptions{
		Method:  http.MethodPut,
		Expires: expiresAt,
		Scheme:  gcs.SigningSchemeV4,
	})
	if err != nil {
		return nil, fmt.Errorf("sign put url for %q: %w", key, err)
	}
	return &Target{
		URL:       u,
		Method:    http.MethodPut,
		Key:       key,
		ExpiresAt: expiresAt,
	}, nil
}

// Upload writes content to GCS at key.
func (s *GCSStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, reader); err != nil {
		_ = w.Close()
		return fmt.Errorf("write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close object %q: %w", key, err)
	}
	return nil
}

// PublicURL returns the browser-accessible URL for the given key, typically
// under "https://storage.googleapis.com/<bucket>".
func (s *GCSStorage) PublicURL(key string) string {
	return publicURL(s.publicBase, key)
}

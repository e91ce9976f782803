// Package upload issues write targets for new files and, in inline mode,
// forwards file bytes to object storage itself.
package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/filedrop/service/internal/errdefs"
	"github.com/filedrop/service/internal/logging"
	"github.com/filedrop/service/internal/storage"
)

// Modes mirror config.ModeDirect and config.ModeInline.
const (
	ModeDirect = "direct"
	ModeInline = "inline"
)

// Target is what a client needs to write one file and reference it later.
type Target struct {
	SignedURL string
	Method    string
	Path      string
	PublicURL string
	ExpiresAt time.Time
}

// InlineInput is an upload whose bytes travel in the request body.
type InlineInput struct {
	FileName string
	// FileData is standard base64, optionally as a data URL
	// ("data:<type>;base64,<payload>").
	FileData string
	FileType string
}

// InlineResult is the outcome of a server-side upload.
type InlineResult struct {
	Path      string
	PublicURL string
	Size      int64
}

// Options configures the Service.
type Options struct {
	Mode           string
	TTL            time.Duration
	InlineMaxBytes int64
}

// Service issues upload targets. A nil store means storage credentials were
// not configured; every call then fails with errdefs.ErrBackendConfig.
type Service struct {
	store  storage.Storage
	tokens *TokenSource
	opts   Options
}

// NewService creates a new upload Service.
func NewService(store storage.Storage, opts Options) *Service {
	if opts.Mode == "" {
		opts.Mode = ModeDirect
	}
	return &Service{store: store, tokens: NewTokenSource(), opts: opts}
}

// Mode reports which upload variant this deployment runs.
func (s *Service) Mode() string { return s.opts.Mode }

// InlineMaxBytes is the decoded size ceiling for inline uploads.
func (s *Service) InlineMaxBytes() int64 { return s.opts.InlineMaxBytes }

// IssueTarget derives a unique key for name and presigns a write URL for it.
func (s *Service) IssueTarget(ctx context.Context, name string) (*Target, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage configuration is missing, check the STORAGE_* environment variables: %w", errdefs.ErrBackendConfig)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("fileName is required: %w", errdefs.ErrValidation)
	}

	key := ObjectKey(s.tokens.Next(), name)
	t, err := s.store.PresignUpload(ctx, key, s.opts.TTL)
	if err != nil {
		return nil, errdefs.Operation("create signed upload url", err)
	}

	logging.FromContext(ctx).Debug("issued upload target",
		zap.String("path", key),
		zap.Time("expires_at", t.ExpiresAt),
	)
	return &Target{
		SignedURL: t.URL,
		Method:    t.Method,
		Path:      key,
		PublicURL: s.store.PublicURL(key),
		ExpiresAt: t.ExpiresAt,
	}, nil
}

// UploadInline decodes in.FileData, enforces the size ceiling and writes the
// bytes to storage. A payload of exactly InlineMaxBytes is accepted.
func (s *Service) UploadInline(ctx context.Context, in InlineInput) (*InlineResult, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage configuration is missing, check the STORAGE_* environment variables: %w", errdefs.ErrBackendConfig)
	}
	if strings.TrimSpace(in.FileName) == "" {
		return nil, fmt.Errorf("fileName is required: %w", errdefs.ErrValidation)
	}

	data, err := decodeFileData(in.FileData)
	if err != nil {
		return nil, fmt.Errorf("fileData is not valid base64: %w", errdefs.ErrValidation)
	}
	size := int64(len(data))
	if size > s.opts.InlineMaxBytes {
		return nil, &errdefs.SizeLimitError{Size: size, Limit: s.opts.InlineMaxBytes}
	}

	contentType := in.FileType
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}

	key := ObjectKey(s.tokens.Next(), in.FileName)
	if err := s.store.Upload(ctx, key, bytes.NewReader(data), size, contentType); err != nil {
		return nil, errdefs.Operation("upload object", err)
	}

	logging.FromContext(ctx).Info("stored inline upload",
		zap.String("path", key),
		zap.Int64("size", size),
		zap.String("content_type", contentType),
	)
	return &InlineResult{Path: key, PublicURL: s.store.PublicURL(key), Size: size}, nil
}

func decodeFileData(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	return base64.StdEncoding.DecodeString(s)
}

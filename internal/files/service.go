package files

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/filedrop/service/internal/errdefs"
	"github.com/filedrop/service/internal/events"
	"github.com/filedrop/service/internal/logging"
)

// Store is the persistence the service needs.
type Store interface {
	Create(ctx context.Context, name, url string, size *int64) (*FileRecord, error)
	List(ctx context.Context) ([]FileRecord, error)
	GetByID(ctx context.Context, id int64) (*FileRecord, error)
}

// RecordInput is the metadata of a file whose bytes are already stored.
type RecordInput struct {
	FileURL  string
	FileName string
	FileSize *int64
}

// Service contains the record and list logic.
type Service struct {
	store     Store
	publisher events.Publisher
}

// NewService creates a new files Service. A nil publisher disables events.
func NewService(store Store, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{store: store, publisher: publisher}
}

// Record inserts exactly one row. There is no idempotency key: repeating a
// call with identical input inserts a duplicate row.
func (s *Service) Record(ctx context.Context, in RecordInput) (*FileRecord, error) {
	if strings.TrimSpace(in.FileURL) == "" {
		return nil, fmt.Errorf("file_url is required: %w", errdefs.ErrValidation)
	}
	if strings.TrimSpace(in.FileName) == "" {
		return nil, fmt.Errorf("file_name is required: %w", errdefs.ErrValidation)
	}
	if in.FileSize != nil && *in.FileSize < 0 {
		return nil, fmt.Errorf("file_size must not be negative: %w", errdefs.ErrValidation)
	}

	f, err := s.store.Create(ctx, in.FileName, in.FileURL, in.FileSize)
	if err != nil {
		return nil, err
	}

	// The row is committed; a lost event must not fail the request.
	if err := s.publisher.Publish(ctx, events.KeyFileRecorded, f); err != nil {
		logging.FromContext(ctx).Warn("publish file event failed",
			zap.Int64("file_id", f.ID),
			zap.Error(err),
		)
	}
	return f, nil
}

// List returns all records, newest first.
func (s *Service) List(ctx context.Context) ([]FileRecord, error) {
	return s.store.List(ctx)
}

// Get returns one record by id.
func (s *Service) Get(ctx context.Context, id int64) (*FileRecord, error) {
	return s.store.GetByID(ctx, id)
}

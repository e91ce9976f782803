// Package uploader drives uploads from the client side: request a write
// target, transfer the bytes, record the public URL. Files are processed
// strictly one after another and each file succeeds or fails on its own.
package uploader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// SelectedFile is a local file chosen for upload. It lives only in memory.
type SelectedFile struct {
	ID          string
	Name        string
	Size        int64
	ContentType string
	Path        string
}

// NewSelectedFile stats path and sniffs its MIME type.
func NewSelectedFile(path string) (SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SelectedFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return SelectedFile{}, fmt.Errorf("%s is a directory", path)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return SelectedFile{}, fmt.Errorf("detect content type of %s: %w", path, err)
	}

	return SelectedFile{
		ID:          uuid.NewString(),
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: mtype.String(),
		Path:        path,
	}, nil
}

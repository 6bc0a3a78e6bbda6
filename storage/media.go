package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MediaStore writes uploaded images into a local directory. Stored keys are
// generated, never the client-supplied filename, so uploads cannot collide or
// overwrite each other.
type MediaStore struct {
	dir string
}

// NewMediaStore creates the upload directory if needed.
func NewMediaStore(dir string) (*MediaStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &MediaStore{dir: dir}, nil
}

// Dir returns the directory media is served from.
func (s *MediaStore) Dir() string {
	return s.dir
}

// Save writes one uploaded file and returns the storage key to record on the
// issue. The key keeps the original extension so static serving picks a
// sensible content type.
func (s *MediaStore) Save(file *multipart.FileHeader) (string, error) {
	key := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %q: %w", file.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return key, nil
}

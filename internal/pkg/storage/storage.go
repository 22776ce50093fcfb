package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ImageStore persists profile images on the local filesystem under
// generated unique names.
type ImageStore struct {
	dir string
}

// NewImageStore creates an image store rooted at dir
func NewImageStore(dir string) *ImageStore {
	return &ImageStore{dir: dir}
}

// Save writes data under a generated unique name and returns the stored
// path. ext includes the leading dot and may be empty.
func (s *ImageStore) Save(data []byte, ext string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return path, nil
}

// Remove deletes a stored file. Removal is best-effort: failures are logged
// and never propagated, since file cleanup happens outside the transaction
// boundary and has no rollback.
func (s *ImageStore) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ Failed to remove image %s: %v", path, err)
	}
}

// Package storage provides file-based storage for uploaded media
// (avatars and recipe images).
package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidDataURI is returned for upload payloads that are not
// "data:image/<ext>;base64,<data>" strings.
var ErrInvalidDataURI = errors.New("storage: invalid data URI")

// MediaStore stores uploaded images under a base directory and hands out
// paths relative to it.
type MediaStore struct {
	basePath string
}

// NewMediaStore creates a new MediaStore and ensures the base directory exists.
func NewMediaStore(basePath string) (*MediaStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory %s: %w", basePath, err)
	}
	return &MediaStore{basePath: basePath}, nil
}

// SaveDataURI decodes a base64 data URI and writes it under a fresh
// uuid-based filename. It returns the path relative to the base directory.
func (s *MediaStore) SaveDataURI(dataURI string) (string, error) {
	meta, encoded, ok := strings.Cut(dataURI, ";base64,")
	if !ok || !strings.HasPrefix(meta, "data:") {
		return "", ErrInvalidDataURI
	}

	// "data:image/png" -> "png"
	ext := meta[strings.LastIndex(meta, "/")+1:]
	if ext == "" || strings.ContainsAny(ext, `/\.`) {
		return "", ErrInvalidDataURI
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}

	name := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	if err := os.WriteFile(filepath.Join(s.basePath, name), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	return name, nil
}

// Remove deletes a previously stored file. A missing file is not an error.
func (s *MediaStore) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.basePath, relPath)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove media file %s: %w", relPath, err)
	}
	return nil
}

// Exists checks whether a stored file is still on disk.
func (s *MediaStore) Exists(relPath string) bool {
	if relPath == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(s.basePath, relPath))
	return !os.IsNotExist(err)
}

// Dir returns the base directory, for serving files over HTTP.
func (s *MediaStore) Dir() string {
	return s.basePath
}

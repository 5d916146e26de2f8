package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"greencycle/internal/domain"
)

// FileStore persists uploaded donation images on the local filesystem.
type FileStore struct {
	basePath string
	now      func() time.Time
}

// NewFileStore initializes a FileStore rooted at basePath.
func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath, now: time.Now}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// SaveUpload persists the provided bytes under a collision-resistant key built
// from a timestamp prefix and the sanitized original filename, and returns the
// key. The write is flat: keys never contain path separators.
func (s *FileStore) SaveUpload(ctx context.Context, filename string, data []byte) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := s.now().UTC().Format("20060102150405") + "_" + secureFilename(filename)
	err := s.writeExclusive(key, data)
	if errors.Is(err, os.ErrExist) {
		// Same second, same name. Disambiguate with nanoseconds.
		key = s.now().UTC().Format("20060102150405.000000000") + "_" + secureFilename(filename)
		err = s.writeExclusive(key, data)
	}
	if err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return key, nil
}

// writeExclusive creates the file with O_EXCL so a concurrent upload landing
// on the same key surfaces as os.ErrExist instead of a silent overwrite.
func (s *FileStore) writeExclusive(key string, data []byte) error {
	f, err := os.OpenFile(filepath.Join(s.basePath, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read returns the stored bytes for a key previously returned by SaveUpload.
// Unknown keys map to domain.ErrNotFound.
func (s *FileStore) Read(ctx context.Context, key string) ([]byte, error) {
	if s == nil {
		return nil, errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := sanitizeKey(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.basePath, clean))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("storage: read file: %w", err)
	}
	return data, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// secureFilename strips path components and characters that are unsafe in a
// storage key, keeping the extension intact.
func secureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "upload"
	}
	return name
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	cleaned := filepath.Clean(strings.TrimLeft(key, "/"))
	if cleaned == "." || strings.Contains(cleaned, "/") || strings.HasPrefix(cleaned, "..") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}

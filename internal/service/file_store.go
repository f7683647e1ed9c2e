package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chatspace/internal/apperr"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// FileStore owns the upload directory. Only bare filenames leave this type;
// callers never see or persist full paths.
type FileStore struct {
	dir      string
	allowed  map[string]struct{}
	maxBytes int64
}

func NewFileStore(dir string, allowedExts []string, maxBytes int64) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	allowed := make(map[string]struct{}, len(allowedExts))
	for _, e := range allowedExts {
		allowed[strings.ToLower(e)] = struct{}{}
	}
	return &FileStore{dir: dir, allowed: allowed, maxBytes: maxBytes}, nil
}

func (f *FileStore) Dir() string { return f.dir }

func (f *FileStore) MaxBytes() int64 { return f.maxBytes }

// AllowedExt checks the filename suffix against the configured allow-list.
func (f *FileStore) AllowedExt(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	_, ok := f.allowed[ext]
	return ok
}

// SanitizeName flattens a client-supplied filename to a safe bare name:
// path components stripped, anything outside [A-Za-z0-9._-] replaced.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		out = uuid.New().String()
	}
	return out
}

// Save writes data under storedName and returns the detected content type.
func (f *FileStore) Save(storedName string, data []byte) (string, error) {
	if int64(len(data)) > f.maxBytes {
		return "", apperr.Validationf("file exceeds the %d byte limit", f.maxBytes)
	}
	if err := os.WriteFile(filepath.Join(f.dir, storedName), data, 0644); err != nil {
		return "", apperr.Internal("writing file", err)
	}
	return mimetype.Detect(data).String(), nil
}

// UniqueName returns storedName, or a uuid-prefixed variant when a file with
// that name is already present.
func (f *FileStore) UniqueName(storedName string) string {
	if _, err := os.Stat(filepath.Join(f.dir, storedName)); os.IsNotExist(err) {
		return storedName
	}
	return uuid.New().String()[:8] + "_" + storedName
}

func (f *FileStore) Remove(storedName string) error {
	err := os.Remove(filepath.Join(f.dir, storedName))
	if err != nil && !os.IsNotExist(err) {
		return apperr.Internal("removing file", err)
	}
	return nil
}

// Package media stores uploaded ad images on disk under unique names.
package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxUploadSize is the largest accepted image in bytes
const MaxUploadSize = 5 << 20

// MaxAdditionalImages caps the extra images attached in one submission
const MaxAdditionalImages = 10

var allowedExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
}

// Upload validation errors
var (
	ErrUnsupportedType = errors.New("upload a valid image: jpg, jpeg, png, gif or webp")
	ErrTooLarge        = errors.New("the image is larger than 5 MiB")
)

// Storage saves and removes uploaded files
type Storage interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(names ...string)
}

// CheckUpload validates an uploaded image's extension and size
func CheckUpload(fh *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return ErrUnsupportedType
	}
	if fh.Size > MaxUploadSize {
		return ErrTooLarge
	}
	return nil
}

// FileStorage keeps files flat in Root
type FileStorage struct {
	Root string
	Log  *zap.Logger
}

// NewFileStorage creates root if needed
func NewFileStorage(root string, log *zap.Logger) (*FileStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root %s: %w", root, err)
	}
	return &FileStorage{Root: root, Log: log}, nil
}

// Save copies the upload to a fresh uuid-based name keeping the extension
func (s *FileStorage) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.OpenFile(filepath.Join(s.Root, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to close %s: %w", name, err)
	}

	return name, nil
}

// Remove deletes stored files. Failures are logged, not returned.
func (s *FileStorage) Remove(names ...string) {
	for _, name := range names {
		if name == "" || filepath.Base(name) != name {
			continue
		}
		if err := os.Remove(filepath.Join(s.Root, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.Log.Warn("failed to remove media file", zap.String("name", name), zap.Error(err))
		}
	}
}

// SaveAll stores every upload, removing what it already saved if one fails
func SaveAll(s Storage, files []*multipart.FileHeader) ([]string, error) {
	names := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := s.Save(fh)
		if err != nil {
			s.Remove(names...)
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// localUploadBase is the server-relative route that accepts the PUT for
// a locally authorized upload. Local storage needs no signing; the
// upload target simply points back at this server.
const localUploadBase = "/api/blob/local/"

// LocalStorage implements Storage on the local filesystem, for
// development without S3 credentials
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// PresignUpload returns a server-relative upload target
func (s *LocalStorage) PresignUpload(ctx context.Context, key string, contentType string, ttl time.Duration) (*UploadTarget, error) {
	return &UploadTarget{
		URL:         localUploadBase + key,
		Method:      "PUT",
		Pathname:    key,
		ContentType: contentType,
		DownloadURL: localUploadBase + key,
		ExpiresAt:   time.Now().Add(ttl).UTC(),
	}, nil
}

// Upload stores a blob locally
func (s *LocalStorage) Upload(ctx context.Context, key string, contentType string, data io.Reader) (string, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	// Create directory structure
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		os.Remove(fullPath) // Clean up on error
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return localUploadBase + key, nil
}

// Download retrieves a blob from local storage
func (s *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("blob not found: %s", key)
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}

	return file, contentTypeForKey(key), nil
}

// resolve maps a key to a path under basePath, rejecting traversal
func (s *LocalStorage) resolve(key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	if strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid blob key: %s", key)
	}
	return filepath.Join(s.basePath, cleaned), nil
}

// contentTypeForKey determines content type from the key extension
func contentTypeForKey(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	case ".csv":
		return "text/csv"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

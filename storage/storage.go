package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotConfigured is returned when the signing credentials for blob
// storage are absent. The upload-authorize endpoint must fail fast with
// this error before attempting any network call.
var ErrNotConfigured = errors.New("blob storage signing credentials missing: set AWS_S3_BUCKET, AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY")

// UploadTarget describes a short-lived signed upload destination. The
// client PUTs the file bytes directly to URL and then references the
// file by DownloadURL in subsequent chat payloads.
type UploadTarget struct {
	URL         string    `json:"url"`
	Method      string    `json:"method"`
	Pathname    string    `json:"pathname"`
	ContentType string    `json:"contentType"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Storage interface for blob storage operations
type Storage interface {
	// PresignUpload authorizes a direct upload for the given key,
	// returning a signed short-lived upload target
	PresignUpload(ctx context.Context, key string, contentType string, ttl time.Duration) (*UploadTarget, error)

	// Upload stores a blob server-side and returns its download URL
	Upload(ctx context.Context, key string, contentType string, data io.Reader) (string, error)

	// Download retrieves a blob and its content type by key
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// WithRandomSuffix inserts a random suffix into a pathname, before the
// extension, so concurrent uploads of the same filename never collide.
func WithRandomSuffix(pathname string) string {
	ext := filepath.Ext(pathname)
	baseName := strings.TrimSuffix(pathname, ext)
	// Sanitize pathname
	baseName = strings.ReplaceAll(baseName, " ", "_")
	baseName = strings.ReplaceAll(baseName, "\\", "_")
	baseName = strings.ReplaceAll(baseName, "..", "_")
	baseName = strings.TrimPrefix(baseName, "/")

	return fmt.Sprintf("%s-%s%s", baseName, uuid.New().String(), ext)
}

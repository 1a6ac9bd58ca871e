package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage implements Storage for AWS S3. When the bucket or signing
// credentials are absent the instance stays disabled and every operation
// returns ErrNotConfigured, so a misconfigured deployment fails on the
// first authorization request instead of at upload time.
type S3Storage struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	region        string
	disabled      bool
}

// NewS3Storage creates a new S3 storage instance
func NewS3Storage(cfg StorageConfig) (*S3Storage, error) {
	if cfg.S3Bucket == "" || cfg.AWSAccessKey == "" || cfg.AWSSecretKey == "" {
		return &S3Storage{disabled: true}, nil
	}

	ctx := context.Background()

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKey,
			cfg.AWSSecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)

	return &S3Storage{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.S3Bucket,
		region:        cfg.S3Region,
	}, nil
}

func (s *S3Storage) ensureEnabled() error {
	if s.disabled {
		return ErrNotConfigured
	}
	return nil
}

// PresignUpload returns a signed PUT URL for direct-to-bucket upload
func (s *S3Storage) PresignUpload(ctx context.Context, key string, contentType string, ttl time.Duration) (*UploadTarget, error) {
	if err := s.ensureEnabled(); err != nil {
		return nil, err
	}

	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &UploadTarget{
		URL:         req.URL,
		Method:      req.Method,
		Pathname:    key,
		ContentType: contentType,
		DownloadURL: s.objectURL(key),
		ExpiresAt:   time.Now().Add(ttl).UTC(),
	}, nil
}

// Upload stores a blob in S3
func (s *S3Storage) Upload(ctx context.Context, key string, contentType string, data io.Reader) (string, error) {
	if err := s.ensureEnabled(); err != nil {
		return "", err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s.objectURL(key), nil
}

// Download retrieves a blob from S3
func (s *S3Storage) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if err := s.ensureEnabled(); err != nil {
		return nil, "", err
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to download from S3: %w", err)
	}

	contentType := ""
	if result.ContentType != nil {
		contentType = *result.ContentType
	}

	return result.Body, contentType, nil
}

func (s *S3Storage) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

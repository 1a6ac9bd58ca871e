package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Empty(t, cfg.AnalysisBackendURL)
	assert.Equal(t, "http://localhost:8000", cfg.ChatBackendURL)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "us-east-1", cfg.Storage.S3Region)
	assert.Equal(t, 15*time.Minute, cfg.UploadURLTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ANALYSIS_BACKEND_URL", "http://analysis:8001")
	t.Setenv("CHAT_BACKEND_URL", "http://chat:8002")
	t.Setenv("STORAGE_TYPE", "s3")
	t.Setenv("AWS_S3_BUCKET", "intake-attachments")
	t.Setenv("UPLOAD_URL_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "http://analysis:8001", cfg.AnalysisBackendURL)
	assert.Equal(t, "http://chat:8002", cfg.ChatBackendURL)
	assert.Equal(t, "s3", cfg.Storage.Type)
	assert.Equal(t, "intake-attachments", cfg.Storage.S3Bucket)
	assert.Equal(t, 5*time.Minute, cfg.UploadURLTTL)
}

func TestLoad_InvalidTTL(t *testing.T) {
	t.Setenv("UPLOAD_URL_TTL", "-1m")

	_, err := Load()
	assert.ErrorContains(t, err, "UPLOAD_URL_TTL")
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{Environment: "production"}).IsProduction())
	assert.True(t, (&Config{Environment: "prod"}).IsProduction())
	assert.False(t, (&Config{Environment: "staging"}).IsProduction())
}

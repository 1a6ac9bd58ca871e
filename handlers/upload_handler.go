package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"legalintake-backend/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadHandler handles the two-phase attachment upload flow: the
// client asks for a signed upload target, uploads the bytes directly to
// blob storage, and embeds the resulting URL in its chat payload.
type UploadHandler struct {
	storage          storage.Storage
	uploadTTL        time.Duration
	allowedMimeTypes map[string]bool
	log              *zap.SugaredLogger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(store storage.Storage, uploadTTL time.Duration, log *zap.SugaredLogger) *UploadHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &UploadHandler{
		storage:   store,
		uploadTTL: uploadTTL,
		allowedMimeTypes: map[string]bool{
			"application/pdf": true,
			"text/plain":      true,
			"text/csv":        true,
			"application/vnd.ms-excel": true,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
		},
		log: log,
	}
}

// AuthorizeUploadRequest represents the request body for authorizing an
// upload
type AuthorizeUploadRequest struct {
	Pathname    string `json:"pathname" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// AuthorizeUpload handles POST /api/blob/upload-authorize
func (h *UploadHandler) AuthorizeUpload(c *gin.Context) {
	var req AuthorizeUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.allowedMimeTypes[req.ContentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content type not allowed. Allowed types: PDF, TXT, CSV, XLS, XLSX"})
		return
	}

	key := storage.WithRandomSuffix(req.Pathname)

	target, err := h.storage.PresignUpload(c.Request.Context(), key, req.ContentType, h.uploadTTL)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			// Deployment error: fail fast with the missing credential
			// named, before any network call.
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		h.log.Errorw("failed to authorize upload", "pathname", req.Pathname, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authorize upload"})
		return
	}

	c.JSON(http.StatusOK, target)
}

// UploadCompletedRequest represents the completion notification sent by
// the blob service
type UploadCompletedRequest struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
}

// UploadCompleted handles POST /api/blob/upload-completed. The hook is
// an observability point only; attachment references are persisted
// client-side via the chat payload.
func (h *UploadHandler) UploadCompleted(c *gin.Context) {
	var req UploadCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	h.log.Infow("blob uploaded", "url", req.URL, "pathname", req.Pathname, "contentType", req.ContentType)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// LocalUpload handles PUT /api/blob/local/*key, the upload target issued
// by local storage in development
func (h *UploadHandler) LocalUpload(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Blob key is required"})
		return
	}

	contentType := c.GetHeader("Content-Type")
	url, err := h.storage.Upload(c.Request.Context(), key, contentType, c.Request.Body)
	if err != nil {
		h.log.Errorw("failed to store blob", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store blob"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// LocalDownload handles GET /api/blob/local/*key
func (h *UploadHandler) LocalDownload(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Blob key is required"})
		return
	}

	reader, contentType, err := h.storage.Download(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Blob not found"})
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, reader, nil)
}

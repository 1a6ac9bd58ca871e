package handlers

import (
	"net/http"

	"legalintake-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler relays chat payloads to the streaming chat backend
type ChatHandler struct {
	relay *service.ChatRelay
	log   *zap.SugaredLogger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(relay *service.ChatRelay, log *zap.SugaredLogger) *ChatHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ChatHandler{
		relay: relay,
		log:   log,
	}
}

// RelayChat handles POST /api/chat. The request body is forwarded
// unmodified, and on success the upstream stream is piped through
// chunk-by-chunk so the client sees tokens as they arrive.
func (h *ChatHandler) RelayChat(c *gin.Context) {
	resp, err := h.relay.Relay(c.Request.Context(), c.Request.Body, c.Query("chat_mode"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Chat backend unreachable"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.log.Warnw("chat backend error", "status", resp.StatusCode)
		c.JSON(resp.StatusCode, gin.H{"error": "Chat backend error"})
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("x-vercel-ai-data-stream", "v1")
	c.Status(http.StatusOK)

	buf := make([]byte, 4096)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := c.Writer.Write(buf[:n]); writeErr != nil {
				// Client went away; context cancellation stops the
				// upstream fetch.
				return
			}
			c.Writer.Flush()
		}
		if readErr != nil {
			return
		}
	}
}
